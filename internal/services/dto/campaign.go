package dto

import "outbound_backend/internal/models"

type CreateCampaignRequest struct {
	Name           string  `json:"name" validate:"required,max=255"`
	Description    string  `json:"description" validate:"max=5000"`
	Password       string  `json:"password" validate:"omitempty,min=4,max=72"`
	OrganizationID *string `json:"organizationId" validate:"omitempty,uuid"`
}

// UpdateCampaignRequest: an empty Password removes protection.
type UpdateCampaignRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description    *string `json:"description" validate:"omitempty,max=5000"`
	Password       *string `json:"password" validate:"omitempty,max=72"`
	OrganizationID *string `json:"organizationId" validate:"omitempty,uuid"`
}

type CampaignResponse struct {
	models.Campaign
	Items             []ItemResponse `json:"items"`
	ItemCount         int            `json:"itemCount"`
	ViewsDirect       int64          `json:"viewsDirect"`
	PasswordProtected bool           `json:"passwordProtected"`
	PublicURL         string         `json:"publicUrl"`
}

type CampaignListResponse struct {
	Campaigns []CampaignResponse `json:"campaigns"`
	ListMeta
}
