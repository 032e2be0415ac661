package repositories

import (
	"errors"

	"outbound_backend/internal/models"

	"gorm.io/gorm"
)

var ErrItemNotFound = errors.New("item not found")

type ItemFilter struct {
	CampaignID     string
	OrganizationID string
	Type           models.ItemType
	Search         string
	Page           int
	PageSize       int
}

type ItemRepository interface {
	Create(db *gorm.DB, item *models.Item) error
	// CreateUploaded inserts the item and charges its bytes to the owner's quota.
	CreateUploaded(db *gorm.DB, item *models.Item) error
	FindByID(db *gorm.DB, ownerID, id string) (*models.Item, error)
	FindBySlug(db *gorm.DB, slug string) (*models.Item, error)
	SlugExists(db *gorm.DB, slug string) (bool, error)
	List(db *gorm.DB, ownerID string, filter ItemFilter) ([]models.Item, int64, error)
	ListStorageKeys(db *gorm.DB, ownerID string) ([]string, error)
	Update(db *gorm.DB, item *models.Item) error
	SetCampaign(db *gorm.DB, ownerID, itemID string, campaignID *string) error
	// Delete removes the item and releases its bytes from the owner's quota.
	Delete(db *gorm.DB, item *models.Item) error
	IncrementViews(db *gorm.DB, id string, source models.ViewSource) error
}

type itemRepository struct{}

func NewItemRepository() ItemRepository {
	return &itemRepository{}
}

func (r *itemRepository) Create(db *gorm.DB, item *models.Item) error {
	return db.Create(item).Error
}

func (r *itemRepository) CreateUploaded(db *gorm.DB, item *models.Item) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", item.UserID).
			Update("storage_used", gorm.Expr("storage_used + ?", item.FileSize)).Error
	})
}

func (r *itemRepository) FindByID(db *gorm.DB, ownerID, id string) (*models.Item, error) {
	var item models.Item
	if err := db.First(&item, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindBySlug(db *gorm.DB, slug string) (*models.Item, error) {
	var item models.Item
	if err := db.Preload("Owner").First(&item, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) SlugExists(db *gorm.DB, slug string) (bool, error) {
	var count int64
	err := db.Model(&models.Item{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *itemRepository) List(db *gorm.DB, ownerID string, filter ItemFilter) ([]models.Item, int64, error) {
	var items []models.Item
	var total int64

	query := db.Model(&models.Item{}).Where("user_id = ?", ownerID)
	if filter.CampaignID != "" {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.OrganizationID != "" {
		query = query.Where("organization_id = ?", filter.OrganizationID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	err := query.Order("created_at DESC").Find(&items).Error
	return items, total, err
}

func (r *itemRepository) ListStorageKeys(db *gorm.DB, ownerID string) ([]string, error) {
	var keys []string
	err := db.Model(&models.Item{}).
		Where("user_id = ? AND storage_key <> ''", ownerID).
		Pluck("storage_key", &keys).Error
	return keys, err
}

func (r *itemRepository) Update(db *gorm.DB, item *models.Item) error {
	return db.Save(item).Error
}

func (r *itemRepository) SetCampaign(db *gorm.DB, ownerID, itemID string, campaignID *string) error {
	result := db.Model(&models.Item{}).
		Where("id = ? AND user_id = ?", itemID, ownerID).
		Update("campaign_id", campaignID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *itemRepository) Delete(db *gorm.DB, item *models.Item) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", item.ID).Delete(&models.ViewEvent{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Item{}, "id = ? AND user_id = ?", item.ID, item.UserID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrItemNotFound
		}
		if item.FileSize > 0 {
			return tx.Model(&models.User{}).
				Where("id = ?", item.UserID).
				Update("storage_used", gorm.Expr("GREATEST(storage_used - ?, 0)", item.FileSize)).Error
		}
		return nil
	})
}

func (r *itemRepository) IncrementViews(db *gorm.DB, id string, source models.ViewSource) error {
	return db.Model(&models.Item{}).Where("id = ?", id).Updates(viewIncrements(source)).Error
}

// viewIncrements builds the counter update for one view from source.
func viewIncrements(source models.ViewSource) map[string]interface{} {
	updates := map[string]interface{}{
		"views": gorm.Expr("views + 1"),
	}
	switch source {
	case models.ViewSourceQR:
		updates["views_qr"] = gorm.Expr("views_qr + 1")
	case models.ViewSourceNFC:
		updates["views_nfc"] = gorm.Expr("views_nfc + 1")
	}
	return updates
}
