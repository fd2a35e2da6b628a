package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/etickets/ticket-admin/internal/domain"
	"github.com/etickets/ticket-admin/internal/events"
	"github.com/etickets/ticket-admin/internal/rules"
	"github.com/etickets/ticket-admin/internal/storage"
)

// DirectoryService manages the employee and customer collections.
type DirectoryService struct {
	store      *storage.Gateway
	dispatcher events.Dispatcher
}

// DirectoryDependencies bundles requirements for the directory service.
type DirectoryDependencies struct {
	Store      *storage.Gateway
	Dispatcher events.Dispatcher
}

// NewDirectoryService constructs the service.
func NewDirectoryService(deps DirectoryDependencies) *DirectoryService {
	return &DirectoryService{store: deps.Store, dispatcher: deps.Dispatcher}
}

// Employees returns the employee collection.
func (s *DirectoryService) Employees(ctx context.Context) ([]domain.Employee, error) {
	return s.store.Employees(ctx)
}

// Customers returns the customer collection.
func (s *DirectoryService) Customers(ctx context.Context) ([]domain.Customer, error) {
	return s.store.Customers(ctx)
}

// EmployeeByEmail resolves an employee by email, case-insensitively.
// Returns (nil, nil) when absent.
func (s *DirectoryService) EmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	employees, err := s.store.Employees(ctx)
	if err != nil {
		return nil, err
	}
	for i := range employees {
		if strings.EqualFold(employees[i].Email, email) {
			return &employees[i], nil
		}
	}
	return nil, nil
}

// CustomerByEmail resolves a customer by email, case-insensitively.
// Returns (nil, nil) when absent.
func (s *DirectoryService) CustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	customers, err := s.store.Customers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range customers {
		if strings.EqualFold(customers[i].Email, email) {
			return &customers[i], nil
		}
	}
	return nil, nil
}

// SaveEmployee creates or edits an employee record.
func (s *DirectoryService) SaveEmployee(ctx context.Context, input rules.EmployeeInput) (*domain.Employee, error) {
	s.store.Lock()
	defer s.store.Unlock()

	employees, err := s.store.Employees(ctx)
	if err != nil {
		return nil, err
	}
	seq, err := s.store.Sequences(ctx)
	if err != nil {
		return nil, err
	}

	employees, seq, employee, err := rules.SaveEmployee(employees, seq, input)
	if err != nil {
		return nil, err
	}
	if err := s.store.StoreAll(ctx, map[string]any{
		storage.KeyEmployees: employees,
		storage.KeySequences: seq,
	}); err != nil {
		return nil, err
	}
	return &employee, nil
}

// DeleteEmployee removes an employee. Every ticket assigned to them reverts
// to unassigned/Open in the same write; the caller is expected to have
// confirmed the deletion already.
func (s *DirectoryService) DeleteEmployee(ctx context.Context, actor events.Actor, employeeID string) error {
	s.store.Lock()
	defer s.store.Unlock()

	tickets, err := s.store.Tickets(ctx)
	if err != nil {
		return err
	}
	employees, err := s.store.Employees(ctx)
	if err != nil {
		return err
	}

	var removed domain.Employee
	for _, e := range employees {
		if e.ID == employeeID {
			removed = e
		}
	}

	tickets, employees, err = rules.DeleteEmployee(tickets, employees, employeeID)
	if err != nil {
		return err
	}
	if err := s.store.StoreAll(ctx, map[string]any{
		storage.KeyTickets:   tickets,
		storage.KeyEmployees: employees,
	}); err != nil {
		return err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventEmployeeDeleted,
			Actor:     actor,
			Timestamp: time.Now(),
			Payload: events.EmployeeDeletedPayload{
				EmployeeID:      employeeID,
				Name:            removed.Name,
				ReleasedTickets: removed.AssignedTickets,
			},
		})
	}
	return nil
}

// SaveCustomer creates or edits a customer record.
func (s *DirectoryService) SaveCustomer(ctx context.Context, input rules.CustomerInput) (*domain.Customer, error) {
	s.store.Lock()
	defer s.store.Unlock()

	customers, err := s.store.Customers(ctx)
	if err != nil {
		return nil, err
	}
	seq, err := s.store.Sequences(ctx)
	if err != nil {
		return nil, err
	}

	customers, seq, customer, err := rules.SaveCustomer(customers, seq, input, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.StoreAll(ctx, map[string]any{
		storage.KeyCustomers: customers,
		storage.KeySequences: seq,
	}); err != nil {
		return nil, err
	}
	return &customer, nil
}

// DeleteCustomer removes a customer record. Tickets they reported keep the
// reporter name.
func (s *DirectoryService) DeleteCustomer(ctx context.Context, customerID string) error {
	s.store.Lock()
	defer s.store.Unlock()

	customers, err := s.store.Customers(ctx)
	if err != nil {
		return err
	}
	customers, err = rules.DeleteCustomer(customers, customerID)
	if err != nil {
		return err
	}
	return s.store.Store(ctx, storage.KeyCustomers, customers)
}
