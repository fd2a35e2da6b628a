package storage

import (
	"context"
	"reflect"
	"testing"

	"github.com/etickets/ticket-admin/internal/domain"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	file, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	return map[string]Backend{
		"memory": NewMemoryBackend(),
		"file":   file,
	}
}

func TestGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	tickets := []domain.Ticket{{
		ID:          "T-001",
		Title:       "Login broken",
		Description: "Cannot log in since this morning",
		Status:      domain.TicketStatusOpen,
		Priority:    domain.TicketPriorityHigh,
		Assignee:    domain.Unassigned,
		Reporter:    "Jane Doe",
		CreatedAt:   "2024-03-15 14:30",
		UpdatedAt:   "2024-03-15 14:30",
	}}

	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			g := NewGateway(backend)

			if err := g.Store(ctx, KeyTickets, tickets); err != nil {
				t.Fatalf("Store: %v", err)
			}
			got, err := g.Tickets(ctx)
			if err != nil {
				t.Fatalf("Tickets: %v", err)
			}
			if !reflect.DeepEqual(got, tickets) {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, tickets)
			}
		})
	}
}

func TestGatewayAbsentKeysDefault(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemoryBackend())

	tickets, err := g.Tickets(ctx)
	if err != nil || len(tickets) != 0 {
		t.Errorf("Tickets on empty store = %v, %v", tickets, err)
	}
	seq, err := g.Sequences(ctx)
	if err != nil || seq != (domain.Sequences{}) {
		t.Errorf("Sequences on empty store = %+v, %v", seq, err)
	}
	session, err := g.Session(ctx)
	if err != nil || session != nil {
		t.Errorf("Session on empty store = %v, %v", session, err)
	}
	authenticated, err := g.Authenticated(ctx)
	if err != nil || authenticated {
		t.Errorf("Authenticated on empty store = %v, %v", authenticated, err)
	}
	_, found, err := g.Credentials(ctx)
	if err != nil || found {
		t.Errorf("Credentials on empty store: found=%v err=%v", found, err)
	}
}

func TestGatewayCorruptRecordIsError(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	if err := backend.Set(ctx, KeyTickets, []byte("{not json")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	g := NewGateway(backend)
	if _, err := g.Tickets(ctx); err == nil {
		t.Fatal("corrupt record must surface an error, not a default")
	}
}

func TestGatewayRemove(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			g := NewGateway(backend)
			if err := g.Store(ctx, KeyEmployees, []domain.Employee{{ID: "E001"}}); err != nil {
				t.Fatalf("Store: %v", err)
			}
			if err := g.Remove(ctx, KeyEmployees); err != nil {
				t.Fatalf("Remove: %v", err)
			}
			employees, err := g.Employees(ctx)
			if err != nil || len(employees) != 0 {
				t.Errorf("after Remove = %v, %v", employees, err)
			}
			// Removing an absent key is fine.
			if err := g.Remove(ctx, KeyEmployees); err != nil {
				t.Errorf("Remove absent key: %v", err)
			}
		})
	}
}

func TestGatewayClearAll(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemoryBackend())

	if err := g.StoreAll(ctx, map[string]any{
		KeyTickets:     []domain.Ticket{{ID: "T-001"}},
		KeyEmployees:   []domain.Employee{{ID: "E001"}},
		KeyCredentials: []domain.Credential{{Email: "admin@etickets.local"}},
	}); err != nil {
		t.Fatalf("StoreAll: %v", err)
	}

	if err := g.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	tickets, _ := g.Tickets(ctx)
	employees, _ := g.Employees(ctx)
	_, found, _ := g.Credentials(ctx)
	if len(tickets) != 0 || len(employees) != 0 || found {
		t.Errorf("store not empty after ClearAll: %v %v found=%v", tickets, employees, found)
	}
}

func TestGatewaySessionLifecycle(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemoryBackend())

	session := domain.Session{Email: "mike@etickets.local", Role: domain.RoleEmployee, EmployeeID: "E001"}
	if err := g.SaveSession(ctx, session); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	authenticated, err := g.Authenticated(ctx)
	if err != nil || !authenticated {
		t.Fatalf("Authenticated = %v, %v", authenticated, err)
	}
	got, err := g.Session(ctx)
	if err != nil {
		t.Fatalf("Session: %v", err)
	}
	if *got != session {
		t.Errorf("Session = %+v, want %+v", got, session)
	}

	if err := g.ClearAuth(ctx); err != nil {
		t.Fatalf("ClearAuth: %v", err)
	}
	authenticated, _ = g.Authenticated(ctx)
	got, _ = g.Session(ctx)
	if authenticated || got != nil {
		t.Errorf("after ClearAuth: authenticated=%v session=%v", authenticated, got)
	}
}

func TestFileBackendPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	g := NewGateway(first)
	if err := g.Store(ctx, KeyCustomers, []domain.Customer{{ID: "C001", Name: "Jane Doe"}}); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	customers, err := NewGateway(second).Customers(ctx)
	if err != nil {
		t.Fatalf("Customers: %v", err)
	}
	if len(customers) != 1 || customers[0].Name != "Jane Doe" {
		t.Errorf("customers = %+v", customers)
	}
}
