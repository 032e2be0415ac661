package repositories

import (
	"errors"

	"outbound_backend/internal/models"

	"gorm.io/gorm"
)

var ErrTeamMemberNotFound = errors.New("team member not found")

type TeamRepository interface {
	Create(db *gorm.DB, member *models.TeamMember) error
	FindByID(db *gorm.DB, ownerID, id string) (*models.TeamMember, error)
	FindByInviteToken(db *gorm.DB, token string) (*models.TeamMember, error)
	FindByOwnerAndEmail(db *gorm.DB, ownerID, email string) (*models.TeamMember, error)
	// FindAcceptedByMemberUserID returns nil, nil when memberUserID belongs to no team.
	FindAcceptedByMemberUserID(db *gorm.DB, memberUserID string) (*models.TeamMember, error)
	ListByOwner(db *gorm.DB, ownerID string) ([]models.TeamMember, error)
	Update(db *gorm.DB, member *models.TeamMember) error
	Delete(db *gorm.DB, ownerID, id string) error
}

type teamRepository struct{}

func NewTeamRepository() TeamRepository {
	return &teamRepository{}
}

func (r *teamRepository) Create(db *gorm.DB, member *models.TeamMember) error {
	return db.Create(member).Error
}

func (r *teamRepository) FindByID(db *gorm.DB, ownerID, id string) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := db.Preload("Member").First(&member, "id = ? AND user_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) FindByInviteToken(db *gorm.DB, token string) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := db.First(&member, "invite_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) FindByOwnerAndEmail(db *gorm.DB, ownerID, email string) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := db.First(&member, "user_id = ? AND LOWER(email) = LOWER(?)", ownerID, email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) FindAcceptedByMemberUserID(db *gorm.DB, memberUserID string) (*models.TeamMember, error) {
	var member models.TeamMember
	err := db.Where("member_user_id = ? AND status = ?", memberUserID, models.TeamMemberStatusAccepted).
		Order("accepted_at DESC").
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *teamRepository) ListByOwner(db *gorm.DB, ownerID string) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := db.Preload("Member").
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *teamRepository) Update(db *gorm.DB, member *models.TeamMember) error {
	return db.Save(member).Error
}

func (r *teamRepository) Delete(db *gorm.DB, ownerID, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_member_id = ?", id).Delete(&models.OrganizationMember{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.TeamMember{}, "id = ? AND user_id = ?", id, ownerID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTeamMemberNotFound
		}
		return nil
	})
}
