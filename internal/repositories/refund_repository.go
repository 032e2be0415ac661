package repositories

import (
	"outbound_backend/internal/models"

	"gorm.io/gorm"
)

type RefundRepository interface {
	Create(db *gorm.DB, refund *models.RefundRequest) error
	Update(db *gorm.DB, refund *models.RefundRequest) error
	ListByUser(db *gorm.DB, userID string) ([]models.RefundRequest, error)
}

type refundRepository struct{}

func NewRefundRepository() RefundRepository {
	return &refundRepository{}
}

func (r *refundRepository) Create(db *gorm.DB, refund *models.RefundRequest) error {
	return db.Create(refund).Error
}

func (r *refundRepository) Update(db *gorm.DB, refund *models.RefundRequest) error {
	return db.Save(refund).Error
}

func (r *refundRepository) ListByUser(db *gorm.DB, userID string) ([]models.RefundRequest, error) {
	var refunds []models.RefundRequest
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&refunds).Error
	return refunds, err
}
