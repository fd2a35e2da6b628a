// Package rules holds the pure entity-mutation rules for tickets, employees,
// and customers. Every function maps input collections plus parameters to
// output collections without touching storage; callers persist the results.
// Assignment state (ticket assignee, status, employee counters) changes only
// through AssignTicket and the employee-deletion cascade, so the denormalized
// counters have a single owner.
package rules

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/etickets/ticket-admin/internal/domain"
	"github.com/etickets/ticket-admin/pkg/errorutil"
)

const (
	minTitleLen       = 3
	minDescriptionLen = 10
)

// TicketInput carries caller-supplied fields for a new ticket.
type TicketInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	Reporter    string
}

// CreateTicket validates the input, mints a sequential identifier, and
// prepends the new ticket with status Open and no assignee. Both timestamps
// are set to now.
func CreateTicket(tickets []domain.Ticket, seq domain.Sequences, in TicketInput, now time.Time) ([]domain.Ticket, domain.Sequences, domain.Ticket, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	reporter := strings.TrimSpace(in.Reporter)

	if len(title) < minTitleLen {
		return nil, seq, domain.Ticket{}, errorutil.NewValidationError(
			fmt.Sprintf("title must be at least %d characters", minTitleLen), nil)
	}
	if len(description) < minDescriptionLen {
		return nil, seq, domain.Ticket{}, errorutil.NewValidationError(
			fmt.Sprintf("description must be at least %d characters", minDescriptionLen), nil)
	}
	if reporter == "" {
		return nil, seq, domain.Ticket{}, errorutil.NewValidationError("reporter is required", nil)
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.TicketPriorityMedium
	}
	if !domain.ValidPriority(priority) {
		return nil, seq, domain.Ticket{}, errorutil.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	stamp := now.Format(domain.TimeLayout)
	ticket := domain.Ticket{
		ID:          nextTicketID(tickets, &seq),
		Title:       title,
		Description: description,
		Status:      domain.TicketStatusOpen,
		Priority:    priority,
		Assignee:    domain.Unassigned,
		Reporter:    reporter,
		CreatedAt:   stamp,
		UpdatedAt:   stamp,
	}

	out := make([]domain.Ticket, 0, len(tickets)+1)
	out = append(out, ticket)
	out = append(out, tickets...)
	return out, seq, ticket, nil
}

// UpdateTicket replaces the matching ticket wholesale and restamps its
// updated timestamp. Fields absent from the replacement are lost, not
// merged. The assignee is the exception: it is owned by AssignTicket, which
// keeps the employee counters in step, so an edit keeps the stored assignee
// (an empty assignee means keep) and a changed one is rejected.
func UpdateTicket(tickets []domain.Ticket, updated domain.Ticket, now time.Time) ([]domain.Ticket, error) {
	if !domain.ValidStatus(updated.Status) {
		return nil, errorutil.NewValidationError("unknown status", map[string]any{"status": updated.Status})
	}
	if !domain.ValidPriority(updated.Priority) {
		return nil, errorutil.NewValidationError("unknown priority", map[string]any{"priority": updated.Priority})
	}

	var current *domain.Ticket
	for i := range tickets {
		if tickets[i].ID == updated.ID {
			current = &tickets[i]
		}
	}
	if current == nil {
		return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": updated.ID})
	}

	if updated.Assignee == "" {
		updated.Assignee = current.Assignee
	} else if updated.Assignee != current.Assignee {
		return nil, errorutil.NewValidationError("assignee is changed through assignment, not edit",
			map[string]any{"assignee": updated.Assignee})
	}
	if updated.Assignee == domain.Unassigned && updated.Status == domain.TicketStatusInProgress {
		return nil, errorutil.NewValidationError("an unassigned ticket cannot be In Progress", nil)
	}

	out := make([]domain.Ticket, len(tickets))
	for i, t := range tickets {
		if t.ID == updated.ID {
			updated.UpdatedAt = now.Format(domain.TimeLayout)
			out[i] = updated
			continue
		}
		out[i] = t
	}
	return out, nil
}

// AssignTicket sets the ticket's assignee and keeps the employee counters
// consistent: the former assignee loses one (floored at zero), the new one
// gains one. Status follows the assignee: the sentinel means Open, anything
// else means In Progress.
func AssignTicket(tickets []domain.Ticket, employees []domain.Employee, ticketID, assignee string, now time.Time) ([]domain.Ticket, []domain.Employee, error) {
	var target *domain.Ticket
	outTickets := make([]domain.Ticket, len(tickets))
	for i, t := range tickets {
		outTickets[i] = t
		if t.ID == ticketID {
			target = &outTickets[i]
		}
	}
	if target == nil {
		return nil, nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}

	if assignee != domain.Unassigned {
		employee := findEmployeeByName(employees, assignee)
		if employee == nil {
			return nil, nil, errorutil.NewNotFound("employee", map[string]any{"name": assignee})
		}
		// Only active staff take new tickets; On Leave / Inactive staff keep
		// what they already hold until reassigned or deleted.
		if employee.Status != domain.EmployeeStatusActive {
			return nil, nil, errorutil.NewValidationError("employee is not active",
				map[string]any{"name": assignee, "status": employee.Status})
		}
	}

	outEmployees := make([]domain.Employee, len(employees))
	copy(outEmployees, employees)

	if target.Assignee != domain.Unassigned && target.Assignee != assignee {
		for i := range outEmployees {
			if outEmployees[i].Name == target.Assignee && outEmployees[i].AssignedTickets > 0 {
				outEmployees[i].AssignedTickets--
			}
		}
	}
	if assignee != domain.Unassigned && target.Assignee != assignee {
		for i := range outEmployees {
			if outEmployees[i].Name == assignee {
				outEmployees[i].AssignedTickets++
			}
		}
	}

	target.Assignee = assignee
	if assignee == domain.Unassigned {
		target.Status = domain.TicketStatusOpen
	} else {
		target.Status = domain.TicketStatusInProgress
	}
	target.UpdatedAt = now.Format(domain.TimeLayout)

	return outTickets, outEmployees, nil
}

// RecountAssignments recomputes every employee's assigned-ticket counter
// from the ticket collection. The derived truth; used to repair counters and
// to check them in tests.
func RecountAssignments(tickets []domain.Ticket, employees []domain.Employee) []domain.Employee {
	counts := make(map[string]int, len(employees))
	for _, t := range tickets {
		if t.Assignee != domain.Unassigned {
			counts[t.Assignee]++
		}
	}
	out := make([]domain.Employee, len(employees))
	for i, e := range employees {
		e.AssignedTickets = counts[e.Name]
		out[i] = e
	}
	return out
}

// RecordReportedTicket bumps the total-ticket counter of the customer with
// the given identifier.
func RecordReportedTicket(customers []domain.Customer, customerID string) []domain.Customer {
	out := make([]domain.Customer, len(customers))
	for i, c := range customers {
		if c.ID == customerID {
			c.TotalTickets++
		}
		out[i] = c
	}
	return out
}

func findEmployeeByName(employees []domain.Employee, name string) *domain.Employee {
	for i := range employees {
		if employees[i].Name == name {
			return &employees[i]
		}
	}
	return nil
}

// AvatarURL derives the deterministic avatar reference for a name.
func AvatarURL(name string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(name)
}

func nextTicketID(tickets []domain.Ticket, seq *domain.Sequences) string {
	ids := make([]string, len(tickets))
	for i, t := range tickets {
		ids[i] = t.ID
	}
	bump(&seq.Ticket, ids)
	return fmt.Sprintf("T-%03d", seq.Ticket)
}

// bump advances the counter past the highest numeric suffix already present,
// so stores with length-derived identifiers migrate without collisions.
func bump(counter *int, ids []string) {
	max := *counter
	for _, id := range ids {
		if n := numericSuffix(id); n > max {
			max = n
		}
	}
	*counter = max + 1
}

func numericSuffix(id string) int {
	start := len(id)
	for start > 0 && id[start-1] >= '0' && id[start-1] <= '9' {
		start--
	}
	n, err := strconv.Atoi(id[start:])
	if err != nil {
		return 0
	}
	return n
}
