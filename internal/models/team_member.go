package models

import "time"

// TeamMember binds an invited account (MemberUserID) to an owner account (UserID).
// MemberUserID is empty until the invitation is accepted.
type TeamMember struct {
	BaseModel
	UserID       string           `gorm:"type:uuid;not null;index" json:"userId"`
	MemberUserID *string          `gorm:"type:uuid;index" json:"memberUserId"`
	Email        string           `gorm:"not null;index" json:"email"`
	Role         TeamRole         `gorm:"type:varchar(16);not null;default:'VIEWER'" json:"role"`
	Status       TeamMemberStatus `gorm:"type:varchar(16);not null;default:'PENDING'" json:"status"`
	InviteToken  string           `gorm:"uniqueIndex" json:"-"`
	AcceptedAt   *time.Time       `json:"acceptedAt,omitempty"`

	Owner  *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Member *User `gorm:"foreignKey:MemberUserID;constraint:OnDelete:CASCADE" json:"member,omitempty"`
}
