package models

import "strings"

type Item struct {
	BaseModel
	UserID         string   `gorm:"type:uuid;not null;index" json:"userId"`
	CampaignID     *string  `gorm:"type:uuid;index" json:"campaignId"`
	OrganizationID *string  `gorm:"type:uuid;index" json:"organizationId"`
	Slug           string   `gorm:"uniqueIndex;not null" json:"slug"`
	Title          string   `gorm:"not null" json:"title"`
	Description    string   `gorm:"type:text" json:"description"`
	Type           ItemType `gorm:"type:varchar(16);not null" json:"type"`

	MediaURL     string `json:"mediaUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	StorageKey   string `json:"-"`
	MimeType     string `json:"mimeType"`
	FileSize     int64  `gorm:"not null;default:0" json:"fileSize"`
	TextContent  string `gorm:"type:text" json:"textContent,omitempty"`
	EmbedURL     string `json:"embedUrl,omitempty"`
	QRCode       string `gorm:"type:text" json:"qrCode"`

	ViewCounters

	Owner    *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Campaign *Campaign `gorm:"foreignKey:CampaignID;constraint:OnDelete:SET NULL" json:"-"`
}

// HasMedia reports whether the item carries renderable content for its type.
func (i *Item) HasMedia() bool {
	switch i.Type {
	case ItemTypeText:
		return strings.TrimSpace(i.TextContent) != ""
	case ItemTypeEmbed:
		return strings.TrimSpace(i.EmbedURL) != ""
	default:
		return strings.TrimSpace(i.MediaURL) != ""
	}
}
