package services

import (
	"context"
	"errors"
	"strings"

	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/internal/storage"
	"outbound_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetMe(db *gorm.DB, who identity.Identity) (*dto.MeResponse, error)
	UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*models.User, error)
	GetStorageUsage(db *gorm.DB, ownerID string) (*dto.StorageUsageResponse, error)
	// DeleteAccount closes the account, its content and its stored media.
	DeleteAccount(ctx context.Context, db *gorm.DB, userID string) error
}

type userService struct {
	userRepo repositories.UserRepository
	itemRepo repositories.ItemRepository
	storage  storage.Storage
}

func NewUserService(
	userRepo repositories.UserRepository,
	itemRepo repositories.ItemRepository,
	storage storage.Storage,
) UserService {
	return &userService{
		userRepo: userRepo,
		itemRepo: itemRepo,
		storage:  storage,
	}
}

func (s *userService) GetMe(db *gorm.DB, who identity.Identity) (*dto.MeResponse, error) {
	user, err := s.findUser(db, who.CallerID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		User:            user,
		EffectiveUserID: who.EffectiveUserID,
		TeamRole:        who.TeamRole,
	}, nil
}

func (s *userService) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		newEmail := strings.ToLower(strings.TrimSpace(*req.Email))
		if newEmail != user.Email {
			existing, err := s.userRepo.FindByEmail(db, newEmail)
			if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.InternalError(err)
			}
			if existing != nil && existing.ID != user.ID {
				return nil, apperrors.ErrEmailAlreadyExists
			}
			user.Email = newEmail
		}
	}

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *userService) GetStorageUsage(db *gorm.DB, ownerID string) (*dto.StorageUsageResponse, error) {
	user, err := s.findUser(db, ownerID)
	if err != nil {
		return nil, err
	}

	percentage := 0.0
	if user.StorageLimit > 0 {
		percentage = float64(user.StorageUsed) / float64(user.StorageLimit) * 100
	}

	return &dto.StorageUsageResponse{
		Plan:       user.Plan,
		Used:       user.StorageUsed,
		Limit:      user.StorageLimit,
		Available:  user.StorageAvailable(),
		Percentage: percentage,
	}, nil
}

func (s *userService) DeleteAccount(ctx context.Context, db *gorm.DB, userID string) error {
	keys, err := s.itemRepo.ListStorageKeys(db, userID)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.DeleteWithContent(db, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NewNotFoundError("user", "User not found")
		}
		return apperrors.InternalError(err)
	}

	purgeStoredMedia(ctx, s.storage, keys)
	logger.CtxInfo(ctx, "Account deleted", "user_id", userID, "media_objects", len(keys))
	return nil
}

func (s *userService) findUser(db *gorm.DB, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewNotFoundError("user", "User not found")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// purgeStoredMedia deletes stored objects after their rows are gone. Failures only leave orphans, so they are logged.
func purgeStoredMedia(ctx context.Context, store storage.Storage, keys []string) {
	for _, key := range keys {
		if err := store.Delete(ctx, key); err != nil {
			logger.CtxWithError(ctx, "Failed to delete stored media", err, "key", key, "storage", store.Name())
		}
	}
}
