package repositories

import (
	"errors"
	"time"

	"outbound_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByStripeCustomerID(db *gorm.DB, customerID string) (*models.User, error)
	Update(db *gorm.DB, user *models.User) error
	UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error
	AdjustStorageUsed(db *gorm.DB, id string, delta int64) error
	UpdateLastLogin(db *gorm.DB, id string) error
	// DeleteWithContent removes the account and every row it owns.
	DeleteWithContent(db *gorm.DB, id string) error
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}
	return db.Create(user).Error
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "LOWER(email) = LOWER(?)", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByStripeCustomerID(db *gorm.DB, customerID string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "stripe_customer_id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(db *gorm.DB, user *models.User) error {
	return db.Save(user).Error
}

func (r *userRepository) UpdateFields(db *gorm.DB, id string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := db.Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AdjustStorageUsed adds delta (may be negative) and never goes below zero.
func (r *userRepository) AdjustStorageUsed(db *gorm.DB, id string, delta int64) error {
	return db.Model(&models.User{}).
		Where("id = ?", id).
		Update("storage_used", gorm.Expr("GREATEST(storage_used + ?, 0)", delta)).Error
}

func (r *userRepository) UpdateLastLogin(db *gorm.DB, id string) error {
	return db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", time.Now()).Error
}

func (r *userRepository) DeleteWithContent(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		ownedItems := tx.Model(&models.Item{}).Select("id").Where("user_id = ?", id)
		ownedCampaigns := tx.Model(&models.Campaign{}).Select("id").Where("user_id = ?", id)
		ownedOrgs := tx.Model(&models.Organization{}).Select("id").Where("user_id = ?", id)
		ownedConversations := tx.Model(&models.Conversation{}).Select("id").Where("user_id = ?", id)

		steps := []func() error{
			func() error {
				return tx.Where("item_id IN (?) OR campaign_id IN (?)", ownedItems, ownedCampaigns).Delete(&models.ViewEvent{}).Error
			},
			func() error { return tx.Where("organization_id IN (?)", ownedOrgs).Delete(&models.OrganizationMember{}).Error },
			func() error { return tx.Where("user_id = ?", id).Delete(&models.Item{}).Error },
			func() error { return tx.Where("user_id = ?", id).Delete(&models.Campaign{}).Error },
			func() error { return tx.Where("user_id = ?", id).Delete(&models.Organization{}).Error },
			func() error {
				return tx.Where("user_id = ? OR member_user_id = ?", id, id).Delete(&models.TeamMember{}).Error
			},
			func() error {
				return tx.Where("conversation_id IN (?)", ownedConversations).Delete(&models.ChatMessage{}).Error
			},
			func() error { return tx.Where("user_id = ?", id).Delete(&models.Conversation{}).Error },
			func() error { return tx.Where("user_id = ?", id).Delete(&models.AuditLog{}).Error },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return err
			}
		}

		result := tx.Delete(&models.User{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
