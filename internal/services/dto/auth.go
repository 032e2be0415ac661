package dto

import (
	"time"

	"outbound_backend/internal/models"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type VerifyTwoFactorRequest struct {
	UserID string `json:"userId" validate:"required,uuid"`
	Code   string `json:"code" validate:"required,len=6,numeric"`
}

// AuthResponse is returned after a completed sign in. When two-factor
// authentication is on, login returns RequiresTwoFactor and the token comes from verify-2fa.
type AuthResponse struct {
	Token             string       `json:"token,omitempty"`
	ExpiresAt         *time.Time   `json:"expiresAt,omitempty"`
	User              *models.User `json:"user,omitempty"`
	RequiresTwoFactor bool         `json:"requiresTwoFactor"`
	UserID            string       `json:"userId,omitempty"`
}
