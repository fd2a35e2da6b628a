package rules

import (
	"fmt"
	"strings"
	"time"

	"github.com/etickets/ticket-admin/internal/domain"
	"github.com/etickets/ticket-admin/pkg/errorutil"
)

// EmployeeInput carries caller-supplied fields for creating or editing an
// employee. An empty ID means create.
type EmployeeInput struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	Department string
	Role       string
	Status     domain.EmployeeStatus
}

// SaveEmployee merges fields into an existing record when ID is set,
// otherwise creates a new employee with a sequential identifier, a
// deterministic avatar, and a zeroed assignment counter. Email must be
// unique (case-insensitive) among other employees.
func SaveEmployee(employees []domain.Employee, seq domain.Sequences, in EmployeeInput) ([]domain.Employee, domain.Sequences, domain.Employee, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.Name == "" || in.Email == "" || in.Phone == "" {
		return nil, seq, domain.Employee{}, errorutil.NewValidationError("name, email, phone required", nil)
	}
	if emailTaken(employeeEmails(employees, in.ID), in.Email) {
		return nil, seq, domain.Employee{}, errorutil.NewConflict("email already in use", map[string]any{"email": in.Email})
	}
	if in.Status == "" {
		in.Status = domain.EmployeeStatusActive
	}

	if in.ID != "" {
		out := make([]domain.Employee, len(employees))
		var saved *domain.Employee
		for i, e := range employees {
			e := e // per-iteration copy: &e below must not alias the loop variable on Go <1.22
			if e.ID == in.ID {
				e.Name = in.Name
				e.Email = in.Email
				e.Phone = in.Phone
				e.Department = in.Department
				e.Role = in.Role
				e.Status = in.Status
				saved = &e
			}
			out[i] = e
		}
		if saved == nil {
			return nil, seq, domain.Employee{}, errorutil.NewNotFound("employee", map[string]any{"employee_id": in.ID})
		}
		return out, seq, *saved, nil
	}

	employee := domain.Employee{
		ID:              nextEmployeeID(employees, &seq),
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		Department:      in.Department,
		Role:            in.Role,
		Status:          in.Status,
		Avatar:          AvatarURL(in.Name),
		AssignedTickets: 0,
	}
	return append(append([]domain.Employee{}, employees...), employee), seq, employee, nil
}

// DeleteEmployee removes the employee and cascades over the ticket
// collection: every ticket assigned to the removed employee's name reverts
// to the sentinel assignee and Open status.
func DeleteEmployee(tickets []domain.Ticket, employees []domain.Employee, employeeID string) ([]domain.Ticket, []domain.Employee, error) {
	var removed *domain.Employee
	outEmployees := make([]domain.Employee, 0, len(employees))
	for _, e := range employees {
		e := e // per-iteration copy: &e below must not alias the loop variable on Go <1.22
		if e.ID == employeeID {
			removed = &e
			continue
		}
		outEmployees = append(outEmployees, e)
	}
	if removed == nil {
		return nil, nil, errorutil.NewNotFound("employee", map[string]any{"employee_id": employeeID})
	}

	outTickets := make([]domain.Ticket, len(tickets))
	for i, t := range tickets {
		if t.Assignee == removed.Name {
			t.Assignee = domain.Unassigned
			t.Status = domain.TicketStatusOpen
		}
		outTickets[i] = t
	}
	return outTickets, outEmployees, nil
}

// CustomerInput carries caller-supplied fields for creating or editing a
// customer. An empty ID means create.
type CustomerInput struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Company string
	Plan    domain.CustomerPlan
	Status  domain.CustomerStatus
}

// SaveCustomer mirrors SaveEmployee for customer records. New customers get
// a joined date of today and a zeroed report counter.
func SaveCustomer(customers []domain.Customer, seq domain.Sequences, in CustomerInput, now time.Time) ([]domain.Customer, domain.Sequences, domain.Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	if in.Name == "" || in.Email == "" || in.Phone == "" {
		return nil, seq, domain.Customer{}, errorutil.NewValidationError("name, email, phone required", nil)
	}
	if emailTaken(customerEmails(customers, in.ID), in.Email) {
		return nil, seq, domain.Customer{}, errorutil.NewConflict("email already in use", map[string]any{"email": in.Email})
	}
	if in.Plan == "" {
		in.Plan = domain.CustomerPlanFree
	}
	if in.Status == "" {
		in.Status = domain.CustomerStatusActive
	}

	if in.ID != "" {
		out := make([]domain.Customer, len(customers))
		var saved *domain.Customer
		for i, c := range customers {
			c := c // per-iteration copy: &c below must not alias the loop variable on Go <1.22
			if c.ID == in.ID {
				c.Name = in.Name
				c.Email = in.Email
				c.Phone = in.Phone
				c.Company = in.Company
				c.Plan = in.Plan
				c.Status = in.Status
				saved = &c
			}
			out[i] = c
		}
		if saved == nil {
			return nil, seq, domain.Customer{}, errorutil.NewNotFound("customer", map[string]any{"customer_id": in.ID})
		}
		return out, seq, *saved, nil
	}

	customer := domain.Customer{
		ID:           nextCustomerID(customers, &seq),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Company:      in.Company,
		Plan:         in.Plan,
		Status:       in.Status,
		Avatar:       AvatarURL(in.Name),
		JoinedDate:   now.Format("2006-01-02"),
		TotalTickets: 0,
	}
	return append(append([]domain.Customer{}, customers...), customer), seq, customer, nil
}

// DeleteCustomer removes the customer record. Tickets keep their reporter
// name, which becomes a dangling reference; that matches the product's
// accepted behavior.
func DeleteCustomer(customers []domain.Customer, customerID string) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0, len(customers))
	removed := false
	for _, c := range customers {
		if c.ID == customerID {
			removed = true
			continue
		}
		out = append(out, c)
	}
	if !removed {
		return nil, errorutil.NewNotFound("customer", map[string]any{"customer_id": customerID})
	}
	return out, nil
}

func employeeEmails(employees []domain.Employee, excludeID string) []string {
	emails := make([]string, 0, len(employees))
	for _, e := range employees {
		if e.ID != excludeID {
			emails = append(emails, e.Email)
		}
	}
	return emails
}

func customerEmails(customers []domain.Customer, excludeID string) []string {
	emails := make([]string, 0, len(customers))
	for _, c := range customers {
		if c.ID != excludeID {
			emails = append(emails, c.Email)
		}
	}
	return emails
}

func emailTaken(emails []string, candidate string) bool {
	for _, email := range emails {
		if strings.EqualFold(email, candidate) {
			return true
		}
	}
	return false
}

func nextEmployeeID(employees []domain.Employee, seq *domain.Sequences) string {
	ids := make([]string, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}
	bump(&seq.Employee, ids)
	return fmt.Sprintf("E%03d", seq.Employee)
}

func nextCustomerID(customers []domain.Customer, seq *domain.Sequences) string {
	ids := make([]string, len(customers))
	for i, c := range customers {
		ids[i] = c.ID
	}
	bump(&seq.Customer, ids)
	return fmt.Sprintf("C%03d", seq.Customer)
}
