package dto

import "outbound_backend/internal/models"

// Branding shown on public viewer pages.
type Branding struct {
	BrandName    string `json:"brandName,omitempty"`
	BrandLogoURL string `json:"brandLogoUrl,omitempty"`
	BrandColor   string `json:"brandColor,omitempty"`
}

type PublicItem struct {
	ID           string          `json:"id"`
	Slug         string          `json:"slug"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Type         models.ItemType `json:"type"`
	MediaURL     string          `json:"mediaUrl"`
	ThumbnailURL string          `json:"thumbnailUrl"`
	MimeType     string          `json:"mimeType"`
	TextContent  string          `json:"textContent,omitempty"`
	EmbedURL     string          `json:"embedUrl,omitempty"`
}

type PublicItemResponse struct {
	Item     PublicItem `json:"item"`
	Branding Branding   `json:"branding"`
}

type PublicCampaignResponse struct {
	ID          string       `json:"id"`
	Slug        string       `json:"slug"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Items       []PublicItem `json:"items"`
	Branding    Branding     `json:"branding"`
}
