package rules

import (
	"strings"
	"testing"
	"time"

	"github.com/etickets/ticket-admin/internal/domain"
	"github.com/etickets/ticket-admin/pkg/errorutil"
)

var testNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func TestCreateTicket(t *testing.T) {
	tickets, seq, ticket, err := CreateTicket(nil, domain.Sequences{}, TicketInput{
		Title:       "Login broken",
		Description: "Cannot log in since this morning",
		Reporter:    "Jane Doe",
	}, testNow)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	if ticket.ID != "T-001" {
		t.Errorf("ID = %q, want T-001", ticket.ID)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Errorf("Status = %q, want Open", ticket.Status)
	}
	if ticket.Priority != domain.TicketPriorityMedium {
		t.Errorf("Priority = %q, want default Medium", ticket.Priority)
	}
	if ticket.Assignee != domain.Unassigned {
		t.Errorf("Assignee = %q, want sentinel", ticket.Assignee)
	}
	if ticket.CreatedAt != "2024-03-15 14:30" || ticket.UpdatedAt != ticket.CreatedAt {
		t.Errorf("timestamps = %q / %q", ticket.CreatedAt, ticket.UpdatedAt)
	}
	if len(tickets) != 1 || tickets[0].ID != ticket.ID {
		t.Errorf("tickets = %+v, want new ticket prepended", tickets)
	}
	if seq.Ticket != 1 {
		t.Errorf("seq.Ticket = %d, want 1", seq.Ticket)
	}
}

func TestCreateTicketPrepends(t *testing.T) {
	existing := []domain.Ticket{{ID: "T-001", Title: "first"}}
	tickets, _, ticket, err := CreateTicket(existing, domain.Sequences{Ticket: 1}, TicketInput{
		Title:       "Second issue",
		Description: "another detailed description",
		Reporter:    "Jane Doe",
	}, testNow)
	if err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}
	if tickets[0].ID != ticket.ID || tickets[1].ID != "T-001" {
		t.Errorf("order = [%s %s], want new ticket first", tickets[0].ID, tickets[1].ID)
	}
}

func TestCreateTicketValidation(t *testing.T) {
	tests := []struct {
		name string
		in   TicketInput
	}{
		{"short title", TicketInput{Title: "ab", Description: "long enough body", Reporter: "Jane"}},
		{"short description", TicketInput{Title: "Broken", Description: "too short", Reporter: "Jane"}},
		{"missing reporter", TicketInput{Title: "Broken", Description: "long enough body"}},
		{"unknown priority", TicketInput{Title: "Broken", Description: "long enough body", Reporter: "Jane", Priority: "Extreme"}},
		{"whitespace title", TicketInput{Title: "  a  ", Description: "long enough body", Reporter: "Jane"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := CreateTicket(nil, domain.Sequences{}, tc.in, testNow)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if errorutil.ToDomainError(err).Code != "VALIDATION_FAILED" {
				t.Errorf("code = %s, want VALIDATION_FAILED", errorutil.ToDomainError(err).Code)
			}
		})
	}
}

func TestTicketIDsMonotonicAfterDeletion(t *testing.T) {
	tickets, seq, _, err := CreateTicket(nil, domain.Sequences{}, TicketInput{
		Title: "First issue", Description: "detailed description one", Reporter: "Jane",
	}, testNow)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	tickets, seq, second, err := CreateTicket(tickets, seq, TicketInput{
		Title: "Second issue", Description: "detailed description two", Reporter: "Jane",
	}, testNow)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Drop the older ticket; the next identifier must not reuse T-002.
	remaining := []domain.Ticket{second}
	_, _, third, err := CreateTicket(remaining, seq, TicketInput{
		Title: "Third issue", Description: "detailed description three", Reporter: "Jane",
	}, testNow)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if third.ID != "T-003" {
		t.Errorf("third ID = %q, want T-003", third.ID)
	}
}

func TestTicketIDMigratesLegacyStore(t *testing.T) {
	// A store written before the sequence counter existed: counter zero but
	// high suffixes already present.
	legacy := []domain.Ticket{{ID: "T-041"}, {ID: "T-007"}}
	_, seq, ticket, err := CreateTicket(legacy, domain.Sequences{}, TicketInput{
		Title: "Fresh issue", Description: "detailed description here", Reporter: "Jane",
	}, testNow)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ticket.ID != "T-042" {
		t.Errorf("ID = %q, want T-042", ticket.ID)
	}
	if seq.Ticket != 42 {
		t.Errorf("seq.Ticket = %d, want 42", seq.Ticket)
	}
}

func TestUpdateTicket(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "T-001", Title: "Old", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow, Assignee: domain.Unassigned, CreatedAt: "2024-01-01 09:00", UpdatedAt: "2024-01-01 09:00"},
	}
	out, err := UpdateTicket(tickets, domain.Ticket{
		ID: "T-001", Title: "New", Status: domain.TicketStatusResolved, Priority: domain.TicketPriorityHigh,
		Assignee: domain.Unassigned, Reporter: "Jane", CreatedAt: "2024-01-01 09:00",
	}, testNow)
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if out[0].Title != "New" || out[0].Status != domain.TicketStatusResolved {
		t.Errorf("replacement not applied: %+v", out[0])
	}
	if out[0].UpdatedAt != "2024-03-15 14:30" {
		t.Errorf("UpdatedAt = %q, want restamped", out[0].UpdatedAt)
	}
	if out[0].CreatedAt != "2024-01-01 09:00" {
		t.Errorf("CreatedAt = %q, want preserved", out[0].CreatedAt)
	}

	if _, err := UpdateTicket(tickets, domain.Ticket{ID: "T-999", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow}, testNow); err == nil {
		t.Error("expected not-found for unknown ticket")
	}
	if _, err := UpdateTicket(tickets, domain.Ticket{ID: "T-001", Status: "Weird", Priority: domain.TicketPriorityLow}, testNow); err == nil {
		t.Error("expected validation error for unknown status")
	}
}

func TestUpdateTicketCannotChangeAssignee(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "T-001", Title: "Old", Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityLow, Assignee: "Mike Wilson"},
	}

	_, err := UpdateTicket(tickets, domain.Ticket{
		ID: "T-001", Title: "Old", Status: domain.TicketStatusInProgress,
		Priority: domain.TicketPriorityLow, Assignee: "Ann Chen",
	}, testNow)
	if err == nil {
		t.Fatal("edit rerouted the ticket; only assignment may do that")
	}
	if errorutil.ToDomainError(err).Code != "VALIDATION_FAILED" {
		t.Errorf("code = %s, want VALIDATION_FAILED", errorutil.ToDomainError(err).Code)
	}

	// An empty assignee in the replacement keeps the stored one.
	out, err := UpdateTicket(tickets, domain.Ticket{
		ID: "T-001", Title: "Renamed", Status: domain.TicketStatusInProgress,
		Priority: domain.TicketPriorityHigh,
	}, testNow)
	if err != nil {
		t.Fatalf("UpdateTicket: %v", err)
	}
	if out[0].Assignee != "Mike Wilson" {
		t.Errorf("Assignee = %q, want preserved", out[0].Assignee)
	}
}

func TestUpdateTicketUnassignedCannotBeInProgress(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "T-001", Title: "Old", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow, Assignee: domain.Unassigned},
	}
	_, err := UpdateTicket(tickets, domain.Ticket{
		ID: "T-001", Title: "Old", Status: domain.TicketStatusInProgress,
		Priority: domain.TicketPriorityLow, Assignee: domain.Unassigned,
	}, testNow)
	if err == nil {
		t.Fatal("unassigned ticket accepted In Progress")
	}
}

func TestAssignTicket(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "T-001", Status: domain.TicketStatusOpen, Assignee: domain.Unassigned},
	}
	employees := []domain.Employee{
		{ID: "E001", Name: "Mike Wilson", Status: domain.EmployeeStatusActive, AssignedTickets: 0},
		{ID: "E002", Name: "Ann Chen", Status: domain.EmployeeStatusActive, AssignedTickets: 2},
	}

	outTickets, outEmployees, err := AssignTicket(tickets, employees, "T-001", "Mike Wilson", testNow)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if outTickets[0].Assignee != "Mike Wilson" || outTickets[0].Status != domain.TicketStatusInProgress {
		t.Errorf("ticket after assign = %+v", outTickets[0])
	}
	if outEmployees[0].AssignedTickets != 1 {
		t.Errorf("Mike counter = %d, want 1", outEmployees[0].AssignedTickets)
	}
	// Inputs stay untouched.
	if tickets[0].Assignee != domain.Unassigned || employees[0].AssignedTickets != 0 {
		t.Error("inputs mutated")
	}

	// Unassign: counter back to zero, status back to Open.
	outTickets, outEmployees, err = AssignTicket(outTickets, outEmployees, "T-001", domain.Unassigned, testNow)
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if outTickets[0].Assignee != domain.Unassigned || outTickets[0].Status != domain.TicketStatusOpen {
		t.Errorf("ticket after unassign = %+v", outTickets[0])
	}
	if outEmployees[0].AssignedTickets != 0 {
		t.Errorf("Mike counter = %d, want 0", outEmployees[0].AssignedTickets)
	}
}

func TestAssignTicketReassignment(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "T-001", Status: domain.TicketStatusInProgress, Assignee: "Mike Wilson"},
	}
	employees := []domain.Employee{
		{ID: "E001", Name: "Mike Wilson", Status: domain.EmployeeStatusActive, AssignedTickets: 1},
		{ID: "E002", Name: "Ann Chen", Status: domain.EmployeeStatusActive, AssignedTickets: 0},
	}

	outTickets, outEmployees, err := AssignTicket(tickets, employees, "T-001", "Ann Chen", testNow)
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if outEmployees[0].AssignedTickets != 0 || outEmployees[1].AssignedTickets != 1 {
		t.Errorf("counters = %d/%d, want 0/1", outEmployees[0].AssignedTickets, outEmployees[1].AssignedTickets)
	}

	recounted := RecountAssignments(outTickets, outEmployees)
	for i := range recounted {
		if recounted[i].AssignedTickets != outEmployees[i].AssignedTickets {
			t.Errorf("%s counter %d diverges from recount %d",
				recounted[i].Name, outEmployees[i].AssignedTickets, recounted[i].AssignedTickets)
		}
	}
}

func TestAssignTicketSameAssigneeIsStable(t *testing.T) {
	tickets := []domain.Ticket{{ID: "T-001", Status: domain.TicketStatusInProgress, Assignee: "Mike Wilson"}}
	employees := []domain.Employee{{ID: "E001", Name: "Mike Wilson", Status: domain.EmployeeStatusActive, AssignedTickets: 1}}

	_, outEmployees, err := AssignTicket(tickets, employees, "T-001", "Mike Wilson", testNow)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if outEmployees[0].AssignedTickets != 1 {
		t.Errorf("counter = %d, want unchanged 1", outEmployees[0].AssignedTickets)
	}
}

func TestAssignTicketUnknownTargets(t *testing.T) {
	tickets := []domain.Ticket{{ID: "T-001", Assignee: domain.Unassigned}}
	employees := []domain.Employee{{ID: "E001", Name: "Mike Wilson", Status: domain.EmployeeStatusActive}}

	if _, _, err := AssignTicket(tickets, employees, "T-404", "Mike Wilson", testNow); err == nil {
		t.Error("expected not-found for unknown ticket")
	}
	if _, _, err := AssignTicket(tickets, employees, "T-001", "Nobody", testNow); err == nil {
		t.Error("expected not-found for unknown assignee")
	}
}

func TestAssignTicketInactiveEmployeeRejected(t *testing.T) {
	tickets := []domain.Ticket{{ID: "T-001", Status: domain.TicketStatusOpen, Assignee: domain.Unassigned}}

	for _, status := range []domain.EmployeeStatus{domain.EmployeeStatusOnLeave, domain.EmployeeStatusInactive} {
		employees := []domain.Employee{{ID: "E001", Name: "Mike Wilson", Status: status}}
		_, _, err := AssignTicket(tickets, employees, "T-001", "Mike Wilson", testNow)
		if err == nil {
			t.Errorf("assignment to %s employee accepted", status)
			continue
		}
		if errorutil.ToDomainError(err).Code != "VALIDATION_FAILED" {
			t.Errorf("code = %s, want VALIDATION_FAILED", errorutil.ToDomainError(err).Code)
		}
	}

	// Unassigning away from someone who has since gone inactive still works.
	tickets[0].Assignee = "Mike Wilson"
	tickets[0].Status = domain.TicketStatusInProgress
	employees := []domain.Employee{{ID: "E001", Name: "Mike Wilson", Status: domain.EmployeeStatusOnLeave, AssignedTickets: 1}}
	outTickets, outEmployees, err := AssignTicket(tickets, employees, "T-001", domain.Unassigned, testNow)
	if err != nil {
		t.Fatalf("unassign from inactive: %v", err)
	}
	if outTickets[0].Status != domain.TicketStatusOpen || outEmployees[0].AssignedTickets != 0 {
		t.Errorf("after unassign: %+v %+v", outTickets[0], outEmployees[0])
	}
}

func TestAssignTicketCounterFloorsAtZero(t *testing.T) {
	// Drifted store: ticket says Mike has it but his counter is already zero.
	tickets := []domain.Ticket{{ID: "T-001", Status: domain.TicketStatusInProgress, Assignee: "Mike Wilson"}}
	employees := []domain.Employee{
		{ID: "E001", Name: "Mike Wilson", Status: domain.EmployeeStatusActive, AssignedTickets: 0},
		{ID: "E002", Name: "Ann Chen", Status: domain.EmployeeStatusActive, AssignedTickets: 0},
	}
	_, outEmployees, err := AssignTicket(tickets, employees, "T-001", "Ann Chen", testNow)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if outEmployees[0].AssignedTickets != 0 {
		t.Errorf("Mike counter = %d, want floored at 0", outEmployees[0].AssignedTickets)
	}
}

func TestRecordReportedTicket(t *testing.T) {
	customers := []domain.Customer{
		{ID: "C001", TotalTickets: 3},
		{ID: "C002", TotalTickets: 0},
	}
	out := RecordReportedTicket(customers, "C001")
	if out[0].TotalTickets != 4 {
		t.Errorf("C001 total = %d, want 4", out[0].TotalTickets)
	}
	if out[1].TotalTickets != 0 {
		t.Errorf("C002 total = %d, want untouched", out[1].TotalTickets)
	}
	if customers[0].TotalTickets != 3 {
		t.Error("input mutated")
	}
}

func TestAvatarURL(t *testing.T) {
	got := AvatarURL("Jane Doe")
	if !strings.HasPrefix(got, "https://api.dicebear.com/7.x/avataaars/svg?seed=") {
		t.Errorf("AvatarURL = %q", got)
	}
	if strings.Contains(got, " ") {
		t.Errorf("AvatarURL contains unescaped space: %q", got)
	}
}
