package models

type Campaign struct {
	BaseModel
	UserID         string  `gorm:"type:uuid;not null;index" json:"userId"`
	OrganizationID *string `gorm:"type:uuid;index" json:"organizationId"`
	Name           string  `gorm:"not null" json:"name"`
	Description    string  `gorm:"type:text" json:"description"`
	Slug           string  `gorm:"uniqueIndex;not null" json:"slug"`
	QRCode         string  `gorm:"type:text" json:"qrCode"`
	PasswordHash   *string `json:"-"`

	ViewCounters

	Items []Item `gorm:"foreignKey:CampaignID" json:"items,omitempty"`
	Owner *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Campaign) IsPasswordProtected() bool {
	return c.PasswordHash != nil && *c.PasswordHash != ""
}
