package service

import (
	"context"
	"testing"

	"github.com/etickets/ticket-admin/internal/domain"
	"github.com/etickets/ticket-admin/internal/events"
	"github.com/etickets/ticket-admin/internal/rules"
	"github.com/etickets/ticket-admin/internal/storage"
)

func newTestGateway(t *testing.T) *storage.Gateway {
	t.Helper()
	return storage.NewGateway(storage.NewMemoryBackend())
}

var testActor = events.Actor{Email: "admin@etickets.local", Role: domain.RoleAdmin}

func TestTicketServiceCreateForCustomer(t *testing.T) {
	ctx := context.Background()
	store := newTestGateway(t)
	if err := store.Store(ctx, storage.KeyCustomers, []domain.Customer{
		{ID: "C001", Name: "Jane Doe", TotalTickets: 2},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewTicketService(TicketDependencies{Store: store, Dispatcher: events.NewInMemoryDispatcher()})
	ticket, err := svc.Create(ctx, testActor, TicketCreateInput{
		Title:       "Login broken",
		Description: "Cannot log in since this morning",
		CustomerID:  "C001",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.Reporter != "Jane Doe" {
		t.Errorf("Reporter = %q, want customer name", ticket.Reporter)
	}

	customers, err := store.Customers(ctx)
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if customers[0].TotalTickets != 3 {
		t.Errorf("TotalTickets = %d, want 3", customers[0].TotalTickets)
	}

	seq, err := store.Sequences(ctx)
	if err != nil {
		t.Fatalf("Sequences: %v", err)
	}
	if seq.Ticket != 1 {
		t.Errorf("seq.Ticket = %d, want 1", seq.Ticket)
	}
}

func TestTicketServiceCreateUnknownCustomerWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := newTestGateway(t)
	svc := NewTicketService(TicketDependencies{Store: store})

	_, err := svc.Create(ctx, testActor, TicketCreateInput{
		Title:       "Login broken",
		Description: "Cannot log in since this morning",
		CustomerID:  "C404",
	})
	if err == nil {
		t.Fatal("expected not-found for unknown customer")
	}
	tickets, _ := store.Tickets(ctx)
	if len(tickets) != 0 {
		t.Errorf("tickets written on failed create: %+v", tickets)
	}
	seq, _ := store.Sequences(ctx)
	if seq.Ticket != 0 {
		t.Errorf("sequence advanced on failed create: %d", seq.Ticket)
	}
}

func TestTicketServiceAssignKeepsCountersConsistent(t *testing.T) {
	ctx := context.Background()
	store := newTestGateway(t)
	if err := store.StoreAll(ctx, map[string]any{
		storage.KeyTickets: []domain.Ticket{
			{ID: "T-001", Status: domain.TicketStatusOpen, Assignee: domain.Unassigned},
			{ID: "T-002", Status: domain.TicketStatusInProgress, Assignee: "Ann Chen"},
		},
		storage.KeyEmployees: []domain.Employee{
			{ID: "E001", Name: "Mike Wilson", Status: domain.EmployeeStatusActive, AssignedTickets: 0},
			{ID: "E002", Name: "Ann Chen", Status: domain.EmployeeStatusActive, AssignedTickets: 1},
		},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewTicketService(TicketDependencies{Store: store})
	ticket, err := svc.Assign(ctx, testActor, "T-001", "Mike Wilson")
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if ticket.Status != domain.TicketStatusInProgress {
		t.Errorf("Status = %q", ticket.Status)
	}

	tickets, _ := store.Tickets(ctx)
	employees, _ := store.Employees(ctx)
	recounted := rules.RecountAssignments(tickets, employees)
	for i := range employees {
		if employees[i].AssignedTickets != recounted[i].AssignedTickets {
			t.Errorf("%s counter %d diverges from recount %d",
				employees[i].Name, employees[i].AssignedTickets, recounted[i].AssignedTickets)
		}
	}
}

func TestTicketServiceUpdateLeavesCountersAlone(t *testing.T) {
	ctx := context.Background()
	store := newTestGateway(t)
	if err := store.StoreAll(ctx, map[string]any{
		storage.KeyTickets: []domain.Ticket{
			{ID: "T-001", Title: "Login broken", Description: "Cannot log in since this morning",
				Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityHigh,
				Assignee: "Mike Wilson", Reporter: "Jane Doe"},
		},
		storage.KeyEmployees: []domain.Employee{
			{ID: "E001", Name: "Mike Wilson", Status: domain.EmployeeStatusActive, AssignedTickets: 1},
			{ID: "E002", Name: "Ann Chen", Status: domain.EmployeeStatusActive, AssignedTickets: 0},
		},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewTicketService(TicketDependencies{Store: store})
	_, err := svc.Update(ctx, testActor, domain.Ticket{
		ID: "T-001", Title: "Login broken", Description: "Cannot log in since this morning",
		Status: domain.TicketStatusInProgress, Priority: domain.TicketPriorityHigh,
		Assignee: "Ann Chen", Reporter: "Jane Doe",
	})
	if err == nil {
		t.Fatal("edit rerouted the ticket past the assignment path")
	}

	tickets, _ := store.Tickets(ctx)
	employees, _ := store.Employees(ctx)
	if tickets[0].Assignee != "Mike Wilson" {
		t.Errorf("Assignee = %q, want unchanged", tickets[0].Assignee)
	}
	recounted := rules.RecountAssignments(tickets, employees)
	for i := range employees {
		if employees[i].AssignedTickets != recounted[i].AssignedTickets {
			t.Errorf("%s counter %d diverges from recount %d",
				employees[i].Name, employees[i].AssignedTickets, recounted[i].AssignedTickets)
		}
	}
}

func TestDirectoryServiceDeleteEmployeeCascade(t *testing.T) {
	ctx := context.Background()
	store := newTestGateway(t)
	if err := store.StoreAll(ctx, map[string]any{
		storage.KeyTickets: []domain.Ticket{
			{ID: "T-001", Status: domain.TicketStatusInProgress, Assignee: "Mike Wilson"},
			{ID: "T-002", Status: domain.TicketStatusInProgress, Assignee: "Ann Chen"},
		},
		storage.KeyEmployees: []domain.Employee{
			{ID: "E001", Name: "Mike Wilson", AssignedTickets: 1},
			{ID: "E002", Name: "Ann Chen", AssignedTickets: 1},
		},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewDirectoryService(DirectoryDependencies{Store: store})
	if err := svc.DeleteEmployee(ctx, testActor, "E001"); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}

	tickets, _ := store.Tickets(ctx)
	if tickets[0].Assignee != domain.Unassigned || tickets[0].Status != domain.TicketStatusOpen {
		t.Errorf("T-001 = %+v, want released", tickets[0])
	}
	if tickets[1].Assignee != "Ann Chen" {
		t.Errorf("T-002 = %+v, want untouched", tickets[1])
	}
	employees, _ := store.Employees(ctx)
	if len(employees) != 1 || employees[0].ID != "E002" {
		t.Errorf("employees = %+v", employees)
	}
}

func TestDirectoryServiceLookupsByEmail(t *testing.T) {
	ctx := context.Background()
	store := newTestGateway(t)
	if err := store.Store(ctx, storage.KeyEmployees, []domain.Employee{
		{ID: "E001", Name: "Mike Wilson", Email: "mike@etickets.local"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	svc := NewDirectoryService(DirectoryDependencies{Store: store})
	employee, err := svc.EmployeeByEmail(ctx, "MIKE@etickets.local")
	if err != nil {
		t.Fatalf("EmployeeByEmail: %v", err)
	}
	if employee == nil || employee.ID != "E001" {
		t.Errorf("employee = %+v", employee)
	}

	missing, err := svc.CustomerByEmail(ctx, "nobody@x.io")
	if err != nil || missing != nil {
		t.Errorf("CustomerByEmail = %v, %v, want nil, nil", missing, err)
	}
}
