package models

// Organization groups items and campaigns of one owner with its own member list.
type Organization struct {
	BaseModel
	UserID      string `gorm:"type:uuid;not null;index" json:"userId"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Members []OrganizationMember `gorm:"foreignKey:OrganizationID" json:"members,omitempty"`
	Owner   *User                `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type OrganizationMember struct {
	BaseModel
	OrganizationID string `gorm:"type:uuid;not null;uniqueIndex:idx_org_member" json:"organizationId"`
	TeamMemberID   string `gorm:"type:uuid;not null;uniqueIndex:idx_org_member" json:"teamMemberId"`

	TeamMember   *TeamMember   `gorm:"foreignKey:TeamMemberID;constraint:OnDelete:CASCADE" json:"teamMember,omitempty"`
	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"-"`
}
