package models

// RefundRequest outlives the account it refunded, so it has no foreign key.
type RefundRequest struct {
	BaseModel
	UserID         string       `gorm:"type:uuid;not null;index" json:"userId"`
	Email          string       `gorm:"not null" json:"email"`
	StripeRefundID string       `json:"stripeRefundId"`
	Amount         int64        `json:"amount"`
	Currency       string       `gorm:"type:varchar(8)" json:"currency"`
	Reason         string       `gorm:"type:text" json:"reason"`
	Status         RefundStatus `gorm:"type:varchar(16);not null" json:"status"`
}
