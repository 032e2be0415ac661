package services

import (
	"context"
	"errors"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// SecurityService manages the caller's own credentials.
type SecurityService interface {
	Status(db *gorm.DB, userID string) (*dto.SecurityStatus, error)
	EnableTwoFactor(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.PasswordConfirmRequest) error
	DisableTwoFactor(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.PasswordConfirmRequest) error
	ChangePassword(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.ChangePasswordRequest) error
}

type securityService struct {
	userRepo repositories.UserRepository
	audit    AuditService
}

func NewSecurityService(userRepo repositories.UserRepository, audit AuditService) SecurityService {
	return &securityService{
		userRepo: userRepo,
		audit:    audit,
	}
}

func (s *securityService) Status(db *gorm.DB, userID string) (*dto.SecurityStatus, error) {
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}
	return &dto.SecurityStatus{
		Email:            user.Email,
		TwoFactorEnabled: user.TwoFactorEnabled,
		LastLoginAt:      user.LastLoginAt,
	}, nil
}

func (s *securityService) EnableTwoFactor(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.PasswordConfirmRequest) error {
	return s.setTwoFactor(ctx, db, who, req.Password, true)
}

func (s *securityService) DisableTwoFactor(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.PasswordConfirmRequest) error {
	return s.setTwoFactor(ctx, db, who, req.Password, false)
}

func (s *securityService) setTwoFactor(ctx context.Context, db *gorm.DB, who identity.Identity, password string, enabled bool) error {
	user, err := s.confirmPassword(db, who.CallerID, password)
	if err != nil {
		return err
	}
	if user.TwoFactorEnabled == enabled {
		return nil
	}

	if err := s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{"two_factor_enabled": enabled}); err != nil {
		return apperrors.InternalError(err)
	}

	action := AuditTwoFactorDisabled
	if enabled {
		action = AuditTwoFactorEnabled
	}
	s.audit.Record(ctx, db, who, action, "user", user.ID, nil)
	return nil
}

func (s *securityService) ChangePassword(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.ChangePasswordRequest) error {
	user, err := s.confirmPassword(db, who.CallerID, req.CurrentPassword)
	if err != nil {
		return err
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.NewBadRequestError(err.Error())
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{"password_hash": hash}); err != nil {
		return apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditPasswordChanged, "user", user.ID, nil)
	logger.CtxInfo(ctx, "Password changed", "user_id", user.ID)
	return nil
}

func (s *securityService) confirmPassword(db *gorm.DB, userID, password string) (*models.User, error) {
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return user, nil
}

func (s *securityService) findUser(db *gorm.DB, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}
