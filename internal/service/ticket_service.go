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
	"github.com/etickets/ticket-admin/pkg/errorutil"
)

// TicketService coordinates ticket workflows: load collections from the
// gateway, apply the pure mutation rules, persist the results.
type TicketService struct {
	store      *storage.Gateway
	dispatcher events.Dispatcher
}

// TicketDependencies bundles requirements for the ticket service.
type TicketDependencies struct {
	Store      *storage.Gateway
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes a ticket creation payload. Exactly one of
// CustomerID or Reporter identifies the reporting party: CustomerID
// resolves a customer record (and bumps its report counter), Reporter is the
// free-text name used by admin and employee flows.
type TicketCreateInput struct {
	Title       string
	Description string
	Priority    domain.TicketPriority
	CustomerID  string
	Reporter    string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{store: deps.Store, dispatcher: deps.Dispatcher}
}

// List returns every ticket, newest first.
func (s *TicketService) List(ctx context.Context) ([]domain.Ticket, error) {
	return s.store.Tickets(ctx)
}

// ListForReporter returns the tickets reported under the given name.
func (s *TicketService) ListForReporter(ctx context.Context, reporter string) ([]domain.Ticket, error) {
	tickets, err := s.store.Tickets(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Reporter == reporter {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// Get fetches one ticket by identifier.
func (s *TicketService) Get(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	tickets, err := s.store.Tickets(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tickets {
		if tickets[i].ID == ticketID {
			return &tickets[i], nil
		}
	}
	return nil, errorutil.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
}

// Create validates and stores a new ticket. When the reporter is a customer
// record, the customer's total-ticket counter is bumped in the same write.
func (s *TicketService) Create(ctx context.Context, actor events.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	s.store.Lock()
	defer s.store.Unlock()

	tickets, err := s.store.Tickets(ctx)
	if err != nil {
		return nil, err
	}
	seq, err := s.store.Sequences(ctx)
	if err != nil {
		return nil, err
	}

	records := map[string]any{}
	reporter := strings.TrimSpace(input.Reporter)

	var customers []domain.Customer
	if input.CustomerID != "" {
		customers, err = s.store.Customers(ctx)
		if err != nil {
			return nil, err
		}
		customer := findCustomerByID(customers, input.CustomerID)
		if customer == nil {
			return nil, errorutil.NewNotFound("customer", map[string]any{"customer_id": input.CustomerID})
		}
		reporter = customer.Name
	}

	tickets, seq, ticket, err := rules.CreateTicket(tickets, seq, rules.TicketInput{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Reporter:    reporter,
	}, time.Now())
	if err != nil {
		return nil, err
	}

	records[storage.KeyTickets] = tickets
	records[storage.KeySequences] = seq
	if input.CustomerID != "" {
		records[storage.KeyCustomers] = rules.RecordReportedTicket(customers, input.CustomerID)
	}

	if err := s.store.StoreAll(ctx, records); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actor,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Priority: ticket.Priority,
			Reporter: ticket.Reporter,
		},
	})
	return &ticket, nil
}

// Update replaces a ticket wholesale and restamps its updated timestamp.
func (s *TicketService) Update(ctx context.Context, actor events.Actor, updated domain.Ticket) (*domain.Ticket, error) {
	s.store.Lock()
	defer s.store.Unlock()

	tickets, err := s.store.Tickets(ctx)
	if err != nil {
		return nil, err
	}
	tickets, err = rules.UpdateTicket(tickets, updated, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Store(ctx, storage.KeyTickets, tickets); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketUpdated,
		TicketID: updated.ID,
		Actor:    actor,
		Payload: events.TicketUpdatedPayload{
			Status:   updated.Status,
			Priority: updated.Priority,
		},
	})
	for i := range tickets {
		if tickets[i].ID == updated.ID {
			return &tickets[i], nil
		}
	}
	return &updated, nil
}

// Assign routes a ticket to an employee, or back to the sentinel. The ticket
// and employee collections are written together so the denormalized
// assignment counters stay consistent with the assignee fields.
func (s *TicketService) Assign(ctx context.Context, actor events.Actor, ticketID, assignee string) (*domain.Ticket, error) {
	s.store.Lock()
	defer s.store.Unlock()

	tickets, err := s.store.Tickets(ctx)
	if err != nil {
		return nil, err
	}
	employees, err := s.store.Employees(ctx)
	if err != nil {
		return nil, err
	}

	var oldStatus domain.TicketStatus
	for _, t := range tickets {
		if t.ID == ticketID {
			oldStatus = t.Status
		}
	}

	tickets, employees, err = rules.AssignTicket(tickets, employees, ticketID, assignee, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.store.StoreAll(ctx, map[string]any{
		storage.KeyTickets:   tickets,
		storage.KeyEmployees: employees,
	}); err != nil {
		return nil, err
	}

	var ticket *domain.Ticket
	for i := range tickets {
		if tickets[i].ID == ticketID {
			ticket = &tickets[i]
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventTicketAssigned,
		TicketID: ticketID,
		Actor:    actor,
		Payload: events.TicketAssignedPayload{
			Assignee:  assignee,
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		},
	})
	return ticket, nil
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func findCustomerByID(customers []domain.Customer, id string) *domain.Customer {
	for i := range customers {
		if customers[i].ID == id {
			return &customers[i]
		}
	}
	return nil
}
