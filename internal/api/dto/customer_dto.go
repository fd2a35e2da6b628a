package dto

import "github.com/etickets/ticket-admin/internal/domain"

// CustomerSaveRequest payload for creating or editing a customer.
type CustomerSaveRequest struct {
	Name    string                `json:"name"`
	Email   string                `json:"email"`
	Phone   string                `json:"phone"`
	Company string                `json:"company"`
	Plan    domain.CustomerPlan   `json:"plan"`
	Status  domain.CustomerStatus `json:"status"`
}
