package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/etickets/ticket-admin/internal/api/dto"
	"github.com/etickets/ticket-admin/internal/domain"
	"github.com/etickets/ticket-admin/internal/service"
	"github.com/etickets/ticket-admin/pkg/errorutil"
)

// AuthHandler exposes login, signup, and session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return errorutil.NewValidationError("email and password required", nil)
	}
	if req.Role == "" {
		req.Role = domain.RoleCustomer
	}

	session, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"session": sessionResponse(session),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return errorutil.NewValidationError("name, email, password required", nil)
	}

	session, token, exp, err := h.auth.Signup(c.Context(), service.SignupInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   req.Password,
		Department: req.Department,
		Role:       req.JobTitle,
		Company:    req.Company,
		Plan:       req.Plan,
	}, req.Role)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"session": sessionResponse(session),
			"auth":    dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.auth.Logout(c.Context()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"logged_out": true}})
}

// Session handles GET /auth/session: the persisted session that survives a
// restart, or null when nobody is logged in.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	session, err := h.auth.Session(c.Context())
	if err != nil {
		return err
	}
	if session == nil {
		return c.JSON(fiber.Map{"data": fiber.Map{"session": nil}})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"session": sessionResponse(session)}})
}

// Reset handles POST /admin/reset: clears the whole store and reseeds the
// administrator credential.
func (h *AuthHandler) Reset(c *fiber.Ctx) error {
	if err := h.auth.Reset(c.Context()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"reset": true}})
}

func sessionResponse(session *domain.Session) dto.SessionResponse {
	return dto.SessionResponse{
		Email:      session.Email,
		Role:       session.Role,
		EmployeeID: session.EmployeeID,
		CustomerID: session.CustomerID,
	}
}
