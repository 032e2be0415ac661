package models

// ViewEvent is one tracked public view. Rows are never updated.
type ViewEvent struct {
	BaseModel
	ItemID     *string    `gorm:"type:uuid;index" json:"itemId"`
	CampaignID *string    `gorm:"type:uuid;index" json:"campaignId"`
	Source     ViewSource `gorm:"type:varchar(16);not null" json:"source"`
	Device     string     `gorm:"type:varchar(32)" json:"device"`
	Browser    string     `gorm:"type:varchar(64)" json:"browser"`
	OS         string     `gorm:"column:os;type:varchar(64)" json:"os"`
	Country    string     `gorm:"type:varchar(64)" json:"country"`

	Item     *Item     `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	Campaign *Campaign `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ViewEvent) TableName() string {
	return "analytics"
}
