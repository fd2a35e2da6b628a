package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/etickets/ticket-admin/internal/api/dto"
	"github.com/etickets/ticket-admin/internal/auth"
	"github.com/etickets/ticket-admin/internal/domain"
	"github.com/etickets/ticket-admin/internal/events"
	"github.com/etickets/ticket-admin/internal/service"
	"github.com/etickets/ticket-admin/pkg/errorutil"
)

// TicketsHandler exposes ticket endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService}
}

// List handles GET /tickets. Customers see only tickets they reported;
// admins and employees see the whole list.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal := mustPrincipal(c)

	if principal.Role == domain.RoleCustomer {
		if principal.Customer == nil {
			return errorutil.NewForbidden("no customer record for caller")
		}
		tickets, err := h.tickets.ListForReporter(c.Context(), principal.Customer.Name)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": tickets})
	}

	tickets, err := h.tickets.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// Create handles POST /tickets. A customer caller always reports for their
// own record regardless of the payload.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	principal := mustPrincipal(c)

	var req dto.TicketCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		CustomerID:  req.CustomerID,
		Reporter:    req.Reporter,
	}
	if principal.Role == domain.RoleCustomer {
		if principal.Customer == nil {
			return errorutil.NewForbidden("no customer record for caller")
		}
		input.CustomerID = principal.Customer.ID
		input.Reporter = ""
	}

	ticket, err := h.tickets.Create(c.Context(), actorFrom(principal), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// Get handles GET /tickets/:id. Customers may only read their own tickets.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal := mustPrincipal(c)

	ticket, err := h.tickets.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	if principal.Role == domain.RoleCustomer {
		if principal.Customer == nil || ticket.Reporter != principal.Customer.Name {
			return errorutil.NewForbidden("ticket belongs to another reporter")
		}
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Update handles PUT /tickets/:id with a full replacement payload.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	principal := mustPrincipal(c)

	var req dto.TicketUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Update(c.Context(), actorFrom(principal), domain.Ticket{
		ID:          c.Params("id"),
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Assignee:    req.Assignee,
		Reporter:    req.Reporter,
		CreatedAt:   req.CreatedAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// Assign handles POST /tickets/:id/assign. An empty or "Unassigned" assignee
// releases the ticket.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	principal := mustPrincipal(c)

	var req dto.TicketAssignRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Assign(c.Context(), actorFrom(principal), c.Params("id"), req.Assignee)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// mustPrincipal returns the caller loaded by the auth middleware. Routes
// using it are always registered behind that middleware.
func mustPrincipal(c *fiber.Ctx) *auth.Principal {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return &auth.Principal{}
	}
	return principal
}

func actorFrom(principal *auth.Principal) events.Actor {
	return events.Actor{Email: principal.Email, Role: principal.Role}
}
