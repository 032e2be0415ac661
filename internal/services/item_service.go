package services

import (
	"context"
	"errors"
	"strings"

	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/qrcode"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/internal/storage"
	"outbound_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ItemService interface {
	List(db *gorm.DB, ownerID string, query *dto.ItemListQuery) (*dto.ItemListResponse, error)
	Get(db *gorm.DB, ownerID, itemID string) (*dto.ItemResponse, error)
	Create(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.CreateItemRequest) (*dto.ItemResponse, error)
	Update(ctx context.Context, db *gorm.DB, who identity.Identity, itemID string, req *dto.UpdateItemRequest) (*dto.ItemResponse, error)
	Delete(ctx context.Context, db *gorm.DB, who identity.Identity, itemID string) error
}

type itemService struct {
	itemRepo     repositories.ItemRepository
	campaignRepo repositories.CampaignRepository
	orgRepo      repositories.OrganizationRepository
	storage      storage.Storage
	audit        AuditService
	settings     Settings
}

func NewItemService(
	itemRepo repositories.ItemRepository,
	campaignRepo repositories.CampaignRepository,
	orgRepo repositories.OrganizationRepository,
	storage storage.Storage,
	audit AuditService,
	settings Settings,
) ItemService {
	return &itemService{
		itemRepo:     itemRepo,
		campaignRepo: campaignRepo,
		orgRepo:      orgRepo,
		storage:      storage,
		audit:        audit,
		settings:     settings,
	}
}

func (s *itemService) List(db *gorm.DB, ownerID string, query *dto.ItemListQuery) (*dto.ItemListResponse, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	items, total, err := s.itemRepo.List(db, ownerID, repositories.ItemFilter{
		CampaignID:     query.CampaignID,
		OrganizationID: query.OrganizationID,
		Type:           models.ItemType(query.Type),
		Search:         strings.TrimSpace(query.Search),
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.ItemListResponse{
		Items:    make([]dto.ItemResponse, 0, len(items)),
		ListMeta: dto.NewListMeta(total, page, pageSize),
	}
	for i := range items {
		resp.Items = append(resp.Items, buildItemResponse(s.settings.PublicBaseURL, &items[i]))
	}
	return resp, nil
}

func (s *itemService) Get(db *gorm.DB, ownerID, itemID string) (*dto.ItemResponse, error) {
	item, err := s.find(db, ownerID, itemID)
	if err != nil {
		return nil, err
	}
	resp := buildItemResponse(s.settings.PublicBaseURL, item)
	return &resp, nil
}

func (s *itemService) Create(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.CreateItemRequest) (*dto.ItemResponse, error) {
	ownerID := who.EffectiveUserID
	if err := checkGrouping(db, s.campaignRepo, s.orgRepo, ownerID, strPtrOrNil(req.CampaignID), strPtrOrNil(req.OrganizationID)); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(db, s.itemRepo.SlugExists)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	item := &models.Item{
		UserID:         ownerID,
		CampaignID:     strPtrOrNil(req.CampaignID),
		OrganizationID: strPtrOrNil(req.OrganizationID),
		Slug:           slug,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Type:           req.Type,
		MediaURL:       req.MediaURL,
		ThumbnailURL:   req.ThumbnailURL,
		TextContent:    req.TextContent,
		EmbedURL:       req.EmbedURL,
		QRCode:         itemQRCode(ctx, s.settings.PublicBaseURL, slug),
	}

	if err := s.itemRepo.Create(db, item); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditItemCreated, "item", item.ID, map[string]interface{}{
		"title": item.Title,
		"type":  item.Type,
	})

	resp := buildItemResponse(s.settings.PublicBaseURL, item)
	return &resp, nil
}

func (s *itemService) Update(ctx context.Context, db *gorm.DB, who identity.Identity, itemID string, req *dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := s.find(db, who.EffectiveUserID, itemID)
	if err != nil {
		return nil, err
	}

	if err := checkGrouping(db, s.campaignRepo, s.orgRepo, who.EffectiveUserID, strPtrOrNil(req.CampaignID), strPtrOrNil(req.OrganizationID)); err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ThumbnailURL != nil {
		item.ThumbnailURL = *req.ThumbnailURL
	}
	if req.TextContent != nil {
		item.TextContent = *req.TextContent
	}
	if req.EmbedURL != nil {
		item.EmbedURL = *req.EmbedURL
	}
	// An empty string detaches the item.
	if req.CampaignID != nil {
		item.CampaignID = strPtrOrNil(req.CampaignID)
	}
	if req.OrganizationID != nil {
		item.OrganizationID = strPtrOrNil(req.OrganizationID)
	}

	if err := s.itemRepo.Update(db, item); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditItemUpdated, "item", item.ID, nil)

	resp := buildItemResponse(s.settings.PublicBaseURL, item)
	return &resp, nil
}

func (s *itemService) Delete(ctx context.Context, db *gorm.DB, who identity.Identity, itemID string) error {
	item, err := s.find(db, who.EffectiveUserID, itemID)
	if err != nil {
		return err
	}

	if err := s.itemRepo.Delete(db, item); err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return apperrors.ErrItemNotFound
		}
		return apperrors.InternalError(err)
	}

	if item.StorageKey != "" {
		purgeStoredMedia(ctx, s.storage, []string{item.StorageKey})
	}

	s.audit.Record(ctx, db, who, AuditItemDeleted, "item", item.ID, map[string]interface{}{
		"title":    item.Title,
		"fileSize": item.FileSize,
	})
	return nil
}

func (s *itemService) find(db *gorm.DB, ownerID, itemID string) (*models.Item, error) {
	item, err := s.itemRepo.FindByID(db, ownerID, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return item, nil
}

// checkGrouping verifies that the target campaign and organization belong to ownerID.
func checkGrouping(db *gorm.DB, campaigns repositories.CampaignRepository, orgs repositories.OrganizationRepository, ownerID string, campaignID, orgID *string) error {
	if campaignID != nil {
		if _, err := campaigns.FindByID(db, ownerID, *campaignID); err != nil {
			if errors.Is(err, repositories.ErrCampaignNotFound) {
				return apperrors.ErrCampaignNotFound
			}
			return apperrors.InternalError(err)
		}
	}
	if orgID != nil {
		if _, err := orgs.FindByID(db, ownerID, *orgID); err != nil {
			if errors.Is(err, repositories.ErrOrganizationNotFound) {
				return apperrors.ErrOrganizationNotFound
			}
			return apperrors.InternalError(err)
		}
	}
	return nil
}

// itemQRCode encodes the QR-tagged public link. A failure leaves the item without a QR code.
func itemQRCode(ctx context.Context, baseURL, slug string) string {
	code, err := qrcode.DataURL(itemPublicURL(baseURL, slug) + "?src=qr")
	if err != nil {
		logger.CtxWithError(ctx, "Failed to generate item QR code", err, "slug", slug)
		return ""
	}
	return code
}

func campaignQRCode(ctx context.Context, baseURL, slug string) string {
	code, err := qrcode.DataURL(campaignPublicURL(baseURL, slug) + "?src=qr")
	if err != nil {
		logger.CtxWithError(ctx, "Failed to generate campaign QR code", err, "slug", slug)
		return ""
	}
	return code
}
