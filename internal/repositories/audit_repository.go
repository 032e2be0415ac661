package repositories

import (
	"outbound_backend/internal/models"

	"gorm.io/gorm"
)

type AuditFilter struct {
	Action     string
	EntityType string
	Page       int
	PageSize   int
}

type AuditRepository interface {
	Create(db *gorm.DB, entry *models.AuditLog) error
	List(db *gorm.DB, ownerID string, filter AuditFilter) ([]models.AuditLog, int64, error)
}

type auditRepository struct{}

func NewAuditRepository() AuditRepository {
	return &auditRepository{}
}

func (r *auditRepository) Create(db *gorm.DB, entry *models.AuditLog) error {
	return db.Create(entry).Error
}

func (r *auditRepository) List(db *gorm.DB, ownerID string, filter AuditFilter) ([]models.AuditLog, int64, error) {
	var entries []models.AuditLog
	var total int64

	query := db.Model(&models.AuditLog{}).Where("user_id = ?", ownerID)
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	err := query.Order("created_at DESC").Find(&entries).Error
	return entries, total, err
}
