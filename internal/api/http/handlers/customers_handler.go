package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/etickets/ticket-admin/internal/api/dto"
	"github.com/etickets/ticket-admin/internal/rules"
	"github.com/etickets/ticket-admin/internal/service"
	"github.com/etickets/ticket-admin/pkg/errorutil"
)

// CustomersHandler exposes customer directory endpoints.
type CustomersHandler struct {
	directory *service.DirectoryService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(directoryService *service.DirectoryService) *CustomersHandler {
	return &CustomersHandler{directory: directoryService}
}

// List handles GET /customers.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	customers, err := h.directory.Customers(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customers})
}

// Create handles POST /customers.
func (h *CustomersHandler) Create(c *fiber.Ctx) error {
	input, err := parseCustomerInput(c, "")
	if err != nil {
		return err
	}
	customer, err := h.directory.SaveCustomer(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": customer})
}

// Update handles PUT /customers/:id.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	input, err := parseCustomerInput(c, c.Params("id"))
	if err != nil {
		return err
	}
	customer, err := h.directory.SaveCustomer(c.Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": customer})
}

// Delete handles DELETE /customers/:id. Tickets reported by the removed
// customer are left in place.
func (h *CustomersHandler) Delete(c *fiber.Ctx) error {
	if err := h.directory.DeleteCustomer(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseCustomerInput(c *fiber.Ctx, id string) (rules.CustomerInput, error) {
	var req dto.CustomerSaveRequest
	if err := c.BodyParser(&req); err != nil {
		return rules.CustomerInput{}, errorutil.NewValidationError("invalid payload", nil)
	}
	return rules.CustomerInput{
		ID:      id,
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Plan:    req.Plan,
		Status:  req.Status,
	}, nil
}
