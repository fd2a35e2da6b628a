package dto

import "github.com/etickets/ticket-admin/internal/domain"

// EmployeeSaveRequest payload for creating or editing an employee.
type EmployeeSaveRequest struct {
	Name       string                `json:"name"`
	Email      string                `json:"email"`
	Phone      string                `json:"phone"`
	Department string                `json:"department"`
	Role       string                `json:"role"`
	Status     domain.EmployeeStatus `json:"status"`
}
