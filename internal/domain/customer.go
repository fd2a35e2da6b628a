package domain

// CustomerPlan enumerates subscription tiers.
type CustomerPlan string

const (
	CustomerPlanFree       CustomerPlan = "Free"
	CustomerPlanBasic      CustomerPlan = "Basic"
	CustomerPlanPro        CustomerPlan = "Pro"
	CustomerPlanEnterprise CustomerPlan = "Enterprise"
)

// CustomerStatus enumerates account states for customers.
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "Active"
	CustomerStatusInactive CustomerStatus = "Inactive"
	CustomerStatusPending  CustomerStatus = "Pending"
)

// Customer models an external user who reports tickets. TotalTickets counts
// every ticket the customer has ever reported; it is never decremented.
type Customer struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Company      string         `json:"company"`
	Plan         CustomerPlan   `json:"plan"`
	Status       CustomerStatus `json:"status"`
	Avatar       string         `json:"avatar"`
	JoinedDate   string         `json:"joinedDate"`
	TotalTickets int            `json:"totalTickets"`
}
