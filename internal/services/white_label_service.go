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

type WhiteLabelService interface {
	Get(db *gorm.DB, ownerID string) (*dto.WhiteLabelResponse, error)
	Update(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.WhiteLabelRequest) (*dto.WhiteLabelResponse, error)
}

type whiteLabelService struct {
	userRepo repositories.UserRepository
	audit    AuditService
}

func NewWhiteLabelService(userRepo repositories.UserRepository, audit AuditService) WhiteLabelService {
	return &whiteLabelService{
		userRepo: userRepo,
		audit:    audit,
	}
}

func (s *whiteLabelService) Get(db *gorm.DB, ownerID string) (*dto.WhiteLabelResponse, error) {
	user, err := s.findOwner(db, ownerID)
	if err != nil {
		return nil, err
	}
	return brandingOf(user), nil
}

func (s *whiteLabelService) Update(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.WhiteLabelRequest) (*dto.WhiteLabelResponse, error) {
	user, err := s.findOwner(db, who.EffectiveUserID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.BrandName != nil {
		user.BrandName = strings.TrimSpace(*req.BrandName)
		fields["brand_name"] = user.BrandName
	}
	if req.BrandLogoURL != nil {
		user.BrandLogoURL = strings.TrimSpace(*req.BrandLogoURL)
		fields["brand_logo_url"] = user.BrandLogoURL
	}
	if req.BrandColor != nil {
		user.BrandColor = strings.ToLower(*req.BrandColor)
		fields["brand_color"] = user.BrandColor
	}
	if req.CustomDomain != nil {
		user.CustomDomain = strings.ToLower(strings.TrimSpace(*req.CustomDomain))
		fields["custom_domain"] = user.CustomDomain
	}
	if len(fields) == 0 {
		return brandingOf(user), nil
	}

	if err := s.userRepo.UpdateFields(db, user.ID, fields); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditWhiteLabelUpdated, "user", user.ID, fields)
	return brandingOf(user), nil
}

func (s *whiteLabelService) findOwner(db *gorm.DB, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func brandingOf(user *models.User) *dto.WhiteLabelResponse {
	return &dto.WhiteLabelResponse{
		BrandName:    user.BrandName,
		BrandLogoURL: user.BrandLogoURL,
		BrandColor:   user.BrandColor,
		CustomDomain: user.CustomDomain,
	}
}
