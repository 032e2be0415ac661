package models

import (
	"time"
)

type BaseModel struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CreatedAt time.Time `gorm:"default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ViewCounters are shared by items and campaigns.
type ViewCounters struct {
	Views    int64 `gorm:"not null;default:0" json:"views"`
	ViewsQR  int64 `gorm:"column:views_qr;not null;default:0" json:"viewsQr"`
	ViewsNFC int64 `gorm:"column:views_nfc;not null;default:0" json:"viewsNfc"`
}

// DirectViews is every view that did not come through a QR scan or NFC tap.
// It is the only place viewsDirect is derived.
func (v ViewCounters) DirectViews() int64 {
	direct := v.Views - v.ViewsQR - v.ViewsNFC
	if direct < 0 {
		return 0
	}
	return direct
}

// All returns every model the server migrates on startup.
func All() []interface{} {
	return []interface{}{
		&User{},
		&TeamMember{},
		&Organization{},
		&OrganizationMember{},
		&Campaign{},
		&Item{},
		&ViewEvent{},
		&AuditLog{},
		&Conversation{},
		&ChatMessage{},
		&RefundRequest{},
	}
}
