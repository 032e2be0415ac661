package services

import (
	"context"
	"errors"
	"strings"

	"outbound_backend/internal/identity"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type OrganizationService interface {
	List(db *gorm.DB, ownerID string) ([]models.Organization, error)
	Get(db *gorm.DB, ownerID, orgID string) (*models.Organization, error)
	Create(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.OrganizationRequest) (*models.Organization, error)
	Update(ctx context.Context, db *gorm.DB, who identity.Identity, orgID string, req *dto.OrganizationRequest) (*models.Organization, error)
	Delete(ctx context.Context, db *gorm.DB, who identity.Identity, orgID string) error
	AddMember(ctx context.Context, db *gorm.DB, who identity.Identity, orgID, teamMemberID string) (*models.Organization, error)
	RemoveMember(ctx context.Context, db *gorm.DB, who identity.Identity, orgID, teamMemberID string) error
}

type organizationService struct {
	orgRepo  repositories.OrganizationRepository
	teamRepo repositories.TeamRepository
	audit    AuditService
}

func NewOrganizationService(
	orgRepo repositories.OrganizationRepository,
	teamRepo repositories.TeamRepository,
	audit AuditService,
) OrganizationService {
	return &organizationService{
		orgRepo:  orgRepo,
		teamRepo: teamRepo,
		audit:    audit,
	}
}

func (s *organizationService) List(db *gorm.DB, ownerID string) ([]models.Organization, error) {
	orgs, err := s.orgRepo.List(db, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return orgs, nil
}

func (s *organizationService) Get(db *gorm.DB, ownerID, orgID string) (*models.Organization, error) {
	org, err := s.orgRepo.FindByID(db, ownerID, orgID)
	if err != nil {
		if errors.Is(err, repositories.ErrOrganizationNotFound) {
			return nil, apperrors.ErrOrganizationNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return org, nil
}

func (s *organizationService) Create(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.OrganizationRequest) (*models.Organization, error) {
	org := &models.Organization{
		UserID:      who.EffectiveUserID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
	}
	if err := s.orgRepo.Create(db, org); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditOrgCreated, "organization", org.ID, map[string]interface{}{"name": org.Name})
	return org, nil
}

func (s *organizationService) Update(ctx context.Context, db *gorm.DB, who identity.Identity, orgID string, req *dto.OrganizationRequest) (*models.Organization, error) {
	org, err := s.Get(db, who.EffectiveUserID, orgID)
	if err != nil {
		return nil, err
	}

	org.Name = strings.TrimSpace(req.Name)
	org.Description = req.Description
	if err := s.orgRepo.Update(db, org); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditOrgUpdated, "organization", org.ID, nil)
	return org, nil
}

func (s *organizationService) Delete(ctx context.Context, db *gorm.DB, who identity.Identity, orgID string) error {
	if err := s.orgRepo.Delete(db, who.EffectiveUserID, orgID); err != nil {
		if errors.Is(err, repositories.ErrOrganizationNotFound) {
			return apperrors.ErrOrganizationNotFound
		}
		return apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditOrgDeleted, "organization", orgID, nil)
	return nil
}

func (s *organizationService) AddMember(ctx context.Context, db *gorm.DB, who identity.Identity, orgID, teamMemberID string) (*models.Organization, error) {
	if _, err := s.Get(db, who.EffectiveUserID, orgID); err != nil {
		return nil, err
	}

	// Only the owner's own team can be placed in the organization.
	if _, err := s.teamRepo.FindByID(db, who.EffectiveUserID, teamMemberID); err != nil {
		if errors.Is(err, repositories.ErrTeamMemberNotFound) {
			return nil, apperrors.ErrTeamMemberNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	exists, err := s.orgRepo.HasMember(db, orgID, teamMemberID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		return nil, apperrors.ErrConflict(nil, "organization", "Team member is already in this organization")
	}

	if err := s.orgRepo.AddMember(db, &models.OrganizationMember{OrganizationID: orgID, TeamMemberID: teamMemberID}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditOrgMemberAdded, "organization", orgID, map[string]interface{}{"teamMemberId": teamMemberID})
	return s.Get(db, who.EffectiveUserID, orgID)
}

func (s *organizationService) RemoveMember(ctx context.Context, db *gorm.DB, who identity.Identity, orgID, teamMemberID string) error {
	if _, err := s.Get(db, who.EffectiveUserID, orgID); err != nil {
		return err
	}

	if err := s.orgRepo.RemoveMember(db, orgID, teamMemberID); err != nil {
		if errors.Is(err, repositories.ErrOrganizationMemberNotFound) {
			return apperrors.NewNotFoundError("organization", "Member not found in this organization")
		}
		return apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditOrgMemberRemoved, "organization", orgID, map[string]interface{}{"teamMemberId": teamMemberID})
	return nil
}
