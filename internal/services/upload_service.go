package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/internal/storage"
	"outbound_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ============================================
// UPLOAD SERVICE
// ============================================

type UploadService interface {
	// Upload stores the file and creates an item for it.
	Upload(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.UploadRequest) (*dto.ItemResponse, error)
}

type UploadConfig struct {
	MaxFileSize  int64
	AllowedTypes []string
	// FallbackMaxSize bounds files kept inline as data URLs when storage is down.
	FallbackMaxSize int64
}

type uploadService struct {
	itemRepo     repositories.ItemRepository
	userRepo     repositories.UserRepository
	campaignRepo repositories.CampaignRepository
	storage      storage.Storage
	audit        AuditService
	config       UploadConfig
	settings     Settings
}

func NewUploadService(
	itemRepo repositories.ItemRepository,
	userRepo repositories.UserRepository,
	campaignRepo repositories.CampaignRepository,
	storage storage.Storage,
	audit AuditService,
	config UploadConfig,
	settings Settings,
) UploadService {
	if config.FallbackMaxSize == 0 {
		config.FallbackMaxSize = 10 * 1024 * 1024
	}
	return &uploadService{
		itemRepo:     itemRepo,
		userRepo:     userRepo,
		campaignRepo: campaignRepo,
		storage:      storage,
		audit:        audit,
		config:       config,
		settings:     settings,
	}
}

func (s *uploadService) Upload(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.UploadRequest) (*dto.ItemResponse, error) {
	ownerID := who.EffectiveUserID
	file := req.File
	if file == nil {
		return nil, apperrors.NewBadRequestError("File is required")
	}

	if file.Size > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge.WithDetails(map[string]int64{"maxSize": s.config.MaxFileSize})
	}

	campaignID := strPtrOrNil(req.CampaignID)
	if campaignID != nil {
		if _, err := s.campaignRepo.FindByID(db, ownerID, *campaignID); err != nil {
			if errors.Is(err, repositories.ErrCampaignNotFound) {
				return nil, apperrors.ErrCampaignNotFound
			}
			return nil, apperrors.InternalError(err)
		}
	}

	if err := s.checkStorageLimits(db, ownerID, file.Size); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	mtype, itemType, err := s.validateFile(src)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", ownerID, uuid.NewString(), mtype.Extension())
	mediaURL, storedKey, err := s.store(ctx, src, key, mtype.String(), file.Size)
	if err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(db, s.itemRepo.SlugExists)
	if err != nil {
		s.rollbackStored(ctx, storedKey)
		return nil, apperrors.InternalError(err)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}

	item := &models.Item{
		UserID:      ownerID,
		CampaignID:  campaignID,
		Slug:        slug,
		Title:       title,
		Description: req.Description,
		Type:        itemType,
		MediaURL:    mediaURL,
		StorageKey:  storedKey,
		MimeType:    mtype.String(),
		FileSize:    file.Size,
		QRCode:      itemQRCode(ctx, s.settings.PublicBaseURL, slug),
	}
	if itemType == models.ItemTypeImage {
		item.ThumbnailURL = mediaURL
	}

	if err := s.itemRepo.CreateUploaded(db, item); err != nil {
		s.rollbackStored(ctx, storedKey)
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditItemUploaded, "item", item.ID, map[string]interface{}{
		"fileName": file.Filename,
		"mimeType": item.MimeType,
		"fileSize": item.FileSize,
	})

	resp := buildItemResponse(s.settings.PublicBaseURL, item)
	return &resp, nil
}

// ============================================
// VALIDATION
// ============================================

// validateFile sniffs the content type and rewinds src.
func (s *uploadService) validateFile(src multipart.File) (*mimetype.MIME, models.ItemType, error) {
	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, "", apperrors.InternalError(err)
	}

	allowed := false
	for _, t := range s.config.AllowedTypes {
		if mtype.Is(t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, "", apperrors.ErrInvalidFileType.WithDetails(map[string]string{"detected": mtype.String()})
	}

	itemType := itemTypeForMIME(mtype.String())
	if itemType == "" {
		return nil, "", apperrors.ErrInvalidFileType.WithDetails(map[string]string{"detected": mtype.String()})
	}
	return mtype, itemType, nil
}

func itemTypeForMIME(mime string) models.ItemType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.ItemTypeImage
	case strings.HasPrefix(mime, "video/"):
		return models.ItemTypeVideo
	case strings.HasPrefix(mime, "audio/"):
		return models.ItemTypeAudio
	default:
		return ""
	}
}

func (s *uploadService) checkStorageLimits(db *gorm.DB, ownerID string, size int64) error {
	owner, err := s.userRepo.FindByID(db, ownerID)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if owner.StorageUsed+size > owner.StorageLimit {
		return apperrors.ErrStorageLimitExceeded.WithDetails(map[string]int64{
			"used":      owner.StorageUsed,
			"limit":     owner.StorageLimit,
			"requested": size,
		})
	}
	return nil
}

// ============================================
// STORAGE
// ============================================

// store saves the file and returns its URL and key. When the backend fails, small files
// are kept inline as a data URL with no key.
func (s *uploadService) store(ctx context.Context, src multipart.File, key, contentType string, size int64) (string, string, error) {
	saveErr := s.storage.Save(ctx, key, src, contentType)
	if saveErr == nil {
		url, err := s.storage.GetURL(ctx, key)
		if err != nil {
			s.rollbackStored(ctx, key)
			return "", "", apperrors.InternalError(err)
		}
		return url, key, nil
	}

	logger.CtxWarn(ctx, "Storage upload failed, falling back to inline data URL",
		"storage", s.storage.Name(), "key", key, "error", saveErr.Error())

	if size > s.config.FallbackMaxSize {
		return "", "", apperrors.ExternalServiceError(saveErr, "storage", "Failed to store file")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", "", apperrors.InternalError(err)
	}
	raw, err := io.ReadAll(src)
	if err != nil {
		return "", "", apperrors.InternalError(err)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw), "", nil
}

func (s *uploadService) rollbackStored(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.CtxWithError(ctx, "CRITICAL: failed to roll back stored file", err, "key", key)
	}
}
