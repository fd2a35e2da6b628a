package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/etickets/ticket-admin/internal/api/dto"
	"github.com/etickets/ticket-admin/internal/rules"
	"github.com/etickets/ticket-admin/internal/service"
	"github.com/etickets/ticket-admin/pkg/errorutil"
)

// EmployeesHandler exposes staff directory endpoints.
type EmployeesHandler struct {
	directory *service.DirectoryService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(directoryService *service.DirectoryService) *EmployeesHandler {
	return &EmployeesHandler{directory: directoryService}
}

// List handles GET /employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	employees, err := h.directory.Employees(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employees})
}

// Create handles POST /employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	input, err := parseEmployeeInput(c, "")
	if err != nil {
		return err
	}
	employee, err := h.directory.SaveEmployee(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": employee})
}

// Update handles PUT /employees/:id.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	input, err := parseEmployeeInput(c, c.Params("id"))
	if err != nil {
		return err
	}
	employee, err := h.directory.SaveEmployee(c.Context(), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": employee})
}

// Delete handles DELETE /employees/:id. Tickets assigned to the removed
// employee return to the unassigned pool.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	principal := mustPrincipal(c)
	if err := h.directory.DeleteEmployee(c.Context(), actorFrom(principal), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

func parseEmployeeInput(c *fiber.Ctx, id string) (rules.EmployeeInput, error) {
	var req dto.EmployeeSaveRequest
	if err := c.BodyParser(&req); err != nil {
		return rules.EmployeeInput{}, errorutil.NewValidationError("invalid payload", nil)
	}
	return rules.EmployeeInput{
		ID:         id,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Department: req.Department,
		Role:       req.Role,
		Status:     req.Status,
	}, nil
}
