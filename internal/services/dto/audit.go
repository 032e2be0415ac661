package dto

import "outbound_backend/internal/models"

type AuditQuery struct {
	Action     string `form:"action" validate:"max=64"`
	EntityType string `form:"entityType" validate:"max=32"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

type AuditListResponse struct {
	Logs []models.AuditLog `json:"logs"`
	ListMeta
}
