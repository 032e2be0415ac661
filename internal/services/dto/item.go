package dto

import (
	"mime/multipart"

	"outbound_backend/internal/models"
)

type CreateItemRequest struct {
	Title          string          `json:"title" validate:"required,max=255"`
	Description    string          `json:"description" validate:"max=5000"`
	Type           models.ItemType `json:"type" validate:"required,is-item-type"`
	MediaURL       string          `json:"mediaUrl" validate:"omitempty,url"`
	ThumbnailURL   string          `json:"thumbnailUrl" validate:"omitempty,url"`
	TextContent    string          `json:"textContent"`
	EmbedURL       string          `json:"embedUrl" validate:"omitempty,url"`
	CampaignID     *string         `json:"campaignId" validate:"omitempty,uuid"`
	OrganizationID *string         `json:"organizationId" validate:"omitempty,uuid"`
}

type UpdateItemRequest struct {
	Title          *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description    *string `json:"description" validate:"omitempty,max=5000"`
	ThumbnailURL   *string `json:"thumbnailUrl" validate:"omitempty,url"`
	TextContent    *string `json:"textContent"`
	EmbedURL       *string `json:"embedUrl" validate:"omitempty,url"`
	CampaignID     *string `json:"campaignId" validate:"omitempty,uuid"`
	OrganizationID *string `json:"organizationId" validate:"omitempty,uuid"`
}

type ItemListQuery struct {
	CampaignID     string `form:"campaignId" validate:"omitempty,uuid"`
	OrganizationID string `form:"organizationId" validate:"omitempty,uuid"`
	Type           string `form:"type" validate:"omitempty,is-item-type"`
	Search         string `form:"search" validate:"max=255"`
	Page           int    `form:"page" validate:"omitempty,min=1"`
	PageSize       int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// UploadRequest is the multipart form of POST /api/upload. The file becomes a new item.
type UploadRequest struct {
	Title       string                `form:"title" validate:"max=255"`
	Description string                `form:"description" validate:"max=5000"`
	CampaignID  *string               `form:"campaignId" validate:"omitempty,uuid"`
	File        *multipart.FileHeader `form:"-"`
}

type ItemResponse struct {
	models.Item
	ViewsDirect int64  `json:"viewsDirect"`
	PublicURL   string `json:"publicUrl"`
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	ListMeta
}
