package models

import "gorm.io/datatypes"

type AuditLog struct {
	BaseModel
	UserID     string         `gorm:"type:uuid;not null;index" json:"userId"`
	ActorID    string         `gorm:"type:uuid;not null" json:"actorId"`
	Action     string         `gorm:"type:varchar(64);not null;index" json:"action"`
	EntityType string         `gorm:"type:varchar(32)" json:"entityType"`
	EntityID   string         `gorm:"type:varchar(64)" json:"entityId"`
	Details    datatypes.JSON `json:"details,omitempty"`
	IPAddress  string         `gorm:"type:varchar(64)" json:"ipAddress"`

	Owner *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
