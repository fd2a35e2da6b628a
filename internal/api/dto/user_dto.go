package dto

import (
	"time"

	"github.com/etickets/ticket-admin/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     domain.Role `json:"role"`
}

// SignupRequest payload for new employee or customer accounts.
type SignupRequest struct {
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone"`
	Password   string              `json:"password"`
	Role       domain.Role         `json:"role"`
	Department string              `json:"department,omitempty"`
	JobTitle   string              `json:"jobTitle,omitempty"`
	Company    string              `json:"company,omitempty"`
	Plan       domain.CustomerPlan `json:"plan,omitempty"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse describes the persisted session.
type SessionResponse struct {
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	EmployeeID string      `json:"employeeId,omitempty"`
	CustomerID string      `json:"customerId,omitempty"`
}
