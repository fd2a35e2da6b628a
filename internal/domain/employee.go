package domain

// EmployeeStatus enumerates availability states for support staff.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "Active"
	EmployeeStatusOnLeave  EmployeeStatus = "On Leave"
	EmployeeStatusInactive EmployeeStatus = "Inactive"
)

// Employee models a support staff member who can be assigned tickets.
// AssignedTickets is denormalized: it must equal the number of tickets whose
// assignee matches this employee's name for as long as the record exists.
type Employee struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Department      string         `json:"department"`
	Role            string         `json:"role"`
	Status          EmployeeStatus `json:"status"`
	Avatar          string         `json:"avatar"`
	AssignedTickets int            `json:"assignedTickets"`
}
