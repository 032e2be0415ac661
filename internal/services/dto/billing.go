package dto

import "outbound_backend/internal/models"

type CheckoutRequest struct {
	Plan models.Plan `json:"plan" validate:"required,is-plan"`
}

type SessionResponse struct {
	URL string `json:"url"`
}

type RefundRequest struct {
	Reason string `json:"reason" validate:"max=2000"`
}

type RefundResponse struct {
	RefundID string `json:"refundId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}
