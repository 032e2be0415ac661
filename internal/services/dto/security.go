package dto

import "time"

type SecurityStatus struct {
	Email            string     `json:"email"`
	TwoFactorEnabled bool       `json:"twoFactorEnabled"`
	LastLoginAt      *time.Time `json:"lastLoginAt"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

type PasswordConfirmRequest struct {
	Password string `json:"password" validate:"required"`
}
