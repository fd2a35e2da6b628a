package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/etickets/ticket-admin/internal/domain"
	"github.com/etickets/ticket-admin/pkg/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Employee/Customer hold the
// resolved directory record for the matching role; both are nil for
// administrators.
type Principal struct {
	Email    string
	Role     domain.Role
	Employee *domain.Employee
	Customer *domain.Customer
}

// DirectoryLookup resolves directory records for principals. Returns
// (nil, nil) when no record matches.
type DirectoryLookup interface {
	EmployeeByEmail(ctx context.Context, email string) (*domain.Employee, error)
	CustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens    *TokenManager
	directory DirectoryLookup
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, directory DirectoryLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, directory: directory}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return errorutil.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return errorutil.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return errorutil.NewUnauthorized("invalid token")
	}

	principal := &Principal{Email: claims.Email, Role: claims.Role}

	switch claims.Role {
	case domain.RoleAdmin:
	case domain.RoleEmployee:
		employee, err := m.directory.EmployeeByEmail(c.Context(), claims.Email)
		if err != nil {
			return errorutil.MapError(err)
		}
		if employee == nil {
			return errorutil.NewUnauthorized("employee record not found")
		}
		principal.Employee = employee
	case domain.RoleCustomer:
		customer, err := m.directory.CustomerByEmail(c.Context(), claims.Email)
		if err != nil {
			return errorutil.MapError(err)
		}
		if customer == nil {
			return errorutil.NewUnauthorized("customer record not found")
		}
		principal.Customer = customer
	default:
		return errorutil.NewUnauthorized("unknown role")
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
