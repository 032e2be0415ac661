package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/email"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/internal/twofactor"
	"outbound_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// TwoFactorCodes issues and checks one-time login codes.
type TwoFactorCodes interface {
	Issue(ctx context.Context, userID string) (string, error)
	Verify(ctx context.Context, userID, code string) error
	TTL() time.Duration
}

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
	VerifyTwoFactor(ctx context.Context, db *gorm.DB, req *dto.VerifyTwoFactorRequest) (*dto.AuthResponse, error)
}

type authService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenManager
	codes    TwoFactorCodes
	mailer   email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenManager,
	codes TwoFactorCodes,
	mailer email.Provider,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		codes:    codes,
		mailer:   mailer,
	}
}

func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:       hash,
		Name:               strings.TrimSpace(req.Name),
		Role:               models.UserRoleUser,
		Plan:               models.PlanFree,
		SubscriptionStatus: models.SubscriptionStatusNone,
		StorageLimit:       models.PlanFree.StorageLimit(),
	}

	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID)
	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.TwoFactorEnabled {
		if err := s.sendLoginCode(ctx, user); err != nil {
			return nil, err
		}
		return &dto.AuthResponse{RequiresTwoFactor: true, UserID: user.ID}, nil
	}

	return s.completeLogin(ctx, db, user)
}

func (s *authService) VerifyTwoFactor(ctx context.Context, db *gorm.DB, req *dto.VerifyTwoFactorRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByID(db, req.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidTwoFactorCode
		}
		return nil, apperrors.InternalError(err)
	}

	if err := s.codes.Verify(ctx, user.ID, req.Code); err != nil {
		if errors.Is(err, twofactor.ErrInvalidCode) {
			return nil, apperrors.ErrInvalidTwoFactorCode
		}
		return nil, apperrors.InternalError(err)
	}

	return s.completeLogin(ctx, db, user)
}

func (s *authService) sendLoginCode(ctx context.Context, user *models.User) error {
	code, err := s.codes.Issue(ctx, user.ID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	err = s.mailer.SendTemplate([]string{user.Email}, "Your Outbound Impact verification code", email.TemplateTwoFactorCode, email.TemplateData{
		"Name":             user.Name,
		"Code":             code,
		"ExpiresInMinutes": int(s.codes.TTL().Minutes()),
	})
	if err != nil {
		return apperrors.ExternalServiceError(err, "email", "Failed to send verification code")
	}
	return nil
}

func (s *authService) completeLogin(ctx context.Context, db *gorm.DB, user *models.User) (*dto.AuthResponse, error) {
	if err := s.userRepo.UpdateLastLogin(db, user.ID); err != nil {
		logger.CtxWithError(ctx, "Failed to update last login", err, "user_id", user.ID)
	}
	return s.issue(user)
}

func (s *authService) issue(user *models.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Generate(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: &expiresAt,
		User:      user,
	}, nil
}
