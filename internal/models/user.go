package models

import "time"

type User struct {
	BaseModel
	Email        string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Name         string   `gorm:"type:varchar(255)" json:"name"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'user'" json:"role"`

	// Billing
	Plan                 Plan               `gorm:"type:varchar(32);not null;default:'FREE'" json:"plan"`
	SubscriptionStatus   SubscriptionStatus `gorm:"type:varchar(32);not null;default:'none'" json:"subscriptionStatus"`
	StripeCustomerID     *string            `gorm:"index" json:"-"`
	StripeSubscriptionID *string            `json:"-"`
	LastPaymentIntentID  *string            `json:"-"`
	SubscriptionRenewsAt *time.Time         `json:"subscriptionRenewsAt,omitempty"`

	// Storage quota, bytes
	StorageUsed  int64 `gorm:"not null;default:0" json:"storageUsed"`
	StorageLimit int64 `gorm:"not null;default:0" json:"storageLimit"`

	TwoFactorEnabled bool       `gorm:"not null;default:false" json:"twoFactorEnabled"`
	LastLoginAt      *time.Time `json:"lastLoginAt,omitempty"`

	// White-label branding
	BrandName    string `gorm:"type:varchar(255)" json:"brandName"`
	BrandLogoURL string `json:"brandLogoUrl"`
	BrandColor   string `gorm:"type:varchar(7)" json:"brandColor"`
	CustomDomain string `gorm:"type:varchar(255)" json:"customDomain"`
}

// StorageAvailable is the remaining quota in bytes.
func (u *User) StorageAvailable() int64 {
	if u.StorageUsed >= u.StorageLimit {
		return 0
	}
	return u.StorageLimit - u.StorageUsed
}
