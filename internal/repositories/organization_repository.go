package repositories

import (
	"errors"

	"outbound_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound       = errors.New("organization not found")
	ErrOrganizationMemberNotFound = errors.New("organization member not found")
)

type OrganizationRepository interface {
	Create(db *gorm.DB, org *models.Organization) error
	FindByID(db *gorm.DB, ownerID, id string) (*models.Organization, error)
	List(db *gorm.DB, ownerID string) ([]models.Organization, error)
	Update(db *gorm.DB, org *models.Organization) error
	// Delete removes the organization and its memberships; items and campaigns are unassigned.
	Delete(db *gorm.DB, ownerID, id string) error
	AddMember(db *gorm.DB, member *models.OrganizationMember) error
	RemoveMember(db *gorm.DB, orgID, teamMemberID string) error
	HasMember(db *gorm.DB, orgID, teamMemberID string) (bool, error)
}

type organizationRepository struct{}

func NewOrganizationRepository() OrganizationRepository {
	return &organizationRepository{}
}

func (r *organizationRepository) Create(db *gorm.DB, org *models.Organization) error {
	return db.Create(org).Error
}

func (r *organizationRepository) FindByID(db *gorm.DB, ownerID, id string) (*models.Organization, error) {
	var org models.Organization
	err := db.Preload("Members.TeamMember").
		First(&org, "id = ? AND user_id = ?", id, ownerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *organizationRepository) List(db *gorm.DB, ownerID string) ([]models.Organization, error) {
	var orgs []models.Organization
	err := db.Preload("Members").
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&orgs).Error
	return orgs, err
}

func (r *organizationRepository) Update(db *gorm.DB, org *models.Organization) error {
	return db.Omit("Members").Save(org).Error
}

func (r *organizationRepository) Delete(db *gorm.DB, ownerID, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Item{}).
			Where("organization_id = ? AND user_id = ?", id, ownerID).
			Update("organization_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Campaign{}).
			Where("organization_id = ? AND user_id = ?", id, ownerID).
			Update("organization_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("organization_id = ?", id).Delete(&models.OrganizationMember{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Organization{}, "id = ? AND user_id = ?", id, ownerID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOrganizationNotFound
		}
		return nil
	})
}

func (r *organizationRepository) AddMember(db *gorm.DB, member *models.OrganizationMember) error {
	return db.Create(member).Error
}

func (r *organizationRepository) RemoveMember(db *gorm.DB, orgID, teamMemberID string) error {
	result := db.Delete(&models.OrganizationMember{}, "organization_id = ? AND team_member_id = ?", orgID, teamMemberID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrganizationMemberNotFound
	}
	return nil
}

func (r *organizationRepository) HasMember(db *gorm.DB, orgID, teamMemberID string) (bool, error) {
	var count int64
	err := db.Model(&models.OrganizationMember{}).
		Where("organization_id = ? AND team_member_id = ?", orgID, teamMemberID).
		Count(&count).Error
	return count > 0, err
}
