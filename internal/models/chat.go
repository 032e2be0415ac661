package models

import "time"

type Conversation struct {
	BaseModel
	UserID        string             `gorm:"type:uuid;not null;index" json:"userId"`
	Subject       string             `gorm:"not null" json:"subject"`
	Status        ConversationStatus `gorm:"type:varchar(16);not null;default:'ACTIVE';index" json:"status"`
	LastMessageAt time.Time          `gorm:"not null;index" json:"lastMessageAt"`
	ClosedAt      *time.Time         `json:"closedAt,omitempty"`

	Messages []ChatMessage `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`
	Owner    *User         `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

type ChatMessage struct {
	BaseModel
	ConversationID string     `gorm:"type:uuid;not null;index" json:"conversationId"`
	SenderID       *string    `gorm:"type:uuid" json:"senderId"`
	SenderType     SenderType `gorm:"type:varchar(16);not null" json:"senderType"`
	Content        string     `gorm:"type:text;not null" json:"content"`

	Conversation *Conversation `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"-"`
}
