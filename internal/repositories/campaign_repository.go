package repositories

import (
	"errors"

	"outbound_backend/internal/models"

	"gorm.io/gorm"
)

var ErrCampaignNotFound = errors.New("campaign not found")

type CampaignRepository interface {
	Create(db *gorm.DB, campaign *models.Campaign) error
	FindByID(db *gorm.DB, ownerID, id string) (*models.Campaign, error)
	FindBySlug(db *gorm.DB, slug string) (*models.Campaign, error)
	SlugExists(db *gorm.DB, slug string) (bool, error)
	List(db *gorm.DB, ownerID string, page, pageSize int) ([]models.Campaign, int64, error)
	// ListWithItems loads every campaign of the owner with its items.
	ListWithItems(db *gorm.DB, ownerID string) ([]models.Campaign, error)
	Update(db *gorm.DB, campaign *models.Campaign) error
	// Delete removes the campaign; its items are kept and unassigned.
	Delete(db *gorm.DB, ownerID, id string) error
	IncrementViews(db *gorm.DB, id string, source models.ViewSource) error
}

type campaignRepository struct{}

func NewCampaignRepository() CampaignRepository {
	return &campaignRepository{}
}

func (r *campaignRepository) Create(db *gorm.DB, campaign *models.Campaign) error {
	return db.Create(campaign).Error
}

func (r *campaignRepository) FindByID(db *gorm.DB, ownerID, id string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	}).First(&campaign, "id = ? AND user_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) FindBySlug(db *gorm.DB, slug string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := db.Preload("Owner").Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	}).First(&campaign, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) SlugExists(db *gorm.DB, slug string) (bool, error) {
	var count int64
	err := db.Model(&models.Campaign{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *campaignRepository) List(db *gorm.DB, ownerID string, page, pageSize int) ([]models.Campaign, int64, error) {
	var campaigns []models.Campaign
	var total int64

	query := db.Model(&models.Campaign{}).Where("user_id = ?", ownerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}
	err := query.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	}).Order("created_at DESC").Find(&campaigns).Error
	return campaigns, total, err
}

func (r *campaignRepository) ListWithItems(db *gorm.DB, ownerID string) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := db.Preload("Items").
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&campaigns).Error
	return campaigns, err
}

func (r *campaignRepository) Update(db *gorm.DB, campaign *models.Campaign) error {
	return db.Omit("Items").Save(campaign).Error
}

func (r *campaignRepository) Delete(db *gorm.DB, ownerID, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Item{}).
			Where("campaign_id = ? AND user_id = ?", id, ownerID).
			Update("campaign_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("campaign_id = ? AND item_id IS NULL", id).Delete(&models.ViewEvent{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.ViewEvent{}).Where("campaign_id = ?", id).Update("campaign_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Campaign{}, "id = ? AND user_id = ?", id, ownerID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCampaignNotFound
		}
		return nil
	})
}

func (r *campaignRepository) IncrementViews(db *gorm.DB, id string, source models.ViewSource) error {
	return db.Model(&models.Campaign{}).Where("id = ?", id).Updates(viewIncrements(source)).Error
}
