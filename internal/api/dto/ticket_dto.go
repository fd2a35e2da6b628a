package dto

import "github.com/etickets/ticket-admin/internal/domain"

// TicketCreateRequest payload for new tickets. CustomerID identifies the
// reporting customer for admin-created tickets; customer callers report for
// themselves, and admin/employee callers may pass a free-text reporter.
type TicketCreateRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Priority    domain.TicketPriority `json:"priority"`
	CustomerID  string                `json:"customerId,omitempty"`
	Reporter    string                `json:"reporter,omitempty"`
}

// TicketUpdateRequest payload for replacing a ticket. The body is the full
// ticket; the path identifier wins over any ID in the body.
type TicketUpdateRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	Assignee    string                `json:"assignee"`
	Reporter    string                `json:"reporter"`
	CreatedAt   string                `json:"createdAt"`
}

// TicketAssignRequest payload for routing a ticket.
type TicketAssignRequest struct {
	Assignee string `json:"assignee"`
}
