package dto

import "outbound_backend/internal/models"

type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=255"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// MeResponse describes the caller and the account they are acting on.
type MeResponse struct {
	User            *models.User     `json:"user"`
	EffectiveUserID string           `json:"effectiveUserId"`
	TeamRole        *models.TeamRole `json:"teamRole"`
}

type StorageUsageResponse struct {
	Plan       models.Plan `json:"plan"`
	Used       int64       `json:"used"`
	Limit      int64       `json:"limit"`
	Available  int64       `json:"available"`
	Percentage float64     `json:"percentage"`
}
