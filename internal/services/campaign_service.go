package services

import (
	"context"
	"errors"
	"strings"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/identity"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type CampaignService interface {
	List(db *gorm.DB, ownerID string, page, pageSize int) (*dto.CampaignListResponse, error)
	Get(db *gorm.DB, ownerID, campaignID string) (*dto.CampaignResponse, error)
	Create(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.CreateCampaignRequest) (*dto.CampaignResponse, error)
	Update(ctx context.Context, db *gorm.DB, who identity.Identity, campaignID string, req *dto.UpdateCampaignRequest) (*dto.CampaignResponse, error)
	// Delete removes the campaign; its items stay and become unassigned.
	Delete(ctx context.Context, db *gorm.DB, who identity.Identity, campaignID string) error
	AddItem(ctx context.Context, db *gorm.DB, who identity.Identity, campaignID, itemID string) (*dto.CampaignResponse, error)
	RemoveItem(ctx context.Context, db *gorm.DB, who identity.Identity, campaignID, itemID string) (*dto.CampaignResponse, error)
}

type campaignService struct {
	campaignRepo repositories.CampaignRepository
	itemRepo     repositories.ItemRepository
	orgRepo      repositories.OrganizationRepository
	audit        AuditService
	settings     Settings
}

func NewCampaignService(
	campaignRepo repositories.CampaignRepository,
	itemRepo repositories.ItemRepository,
	orgRepo repositories.OrganizationRepository,
	audit AuditService,
	settings Settings,
) CampaignService {
	return &campaignService{
		campaignRepo: campaignRepo,
		itemRepo:     itemRepo,
		orgRepo:      orgRepo,
		audit:        audit,
		settings:     settings,
	}
}

func (s *campaignService) List(db *gorm.DB, ownerID string, page, pageSize int) (*dto.CampaignListResponse, error) {
	page, pageSize = normalizePage(page, pageSize)

	campaigns, total, err := s.campaignRepo.List(db, ownerID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.CampaignListResponse{
		Campaigns: make([]dto.CampaignResponse, 0, len(campaigns)),
		ListMeta:  dto.NewListMeta(total, page, pageSize),
	}
	for i := range campaigns {
		resp.Campaigns = append(resp.Campaigns, s.buildResponse(&campaigns[i]))
	}
	return resp, nil
}

func (s *campaignService) Get(db *gorm.DB, ownerID, campaignID string) (*dto.CampaignResponse, error) {
	campaign, err := s.find(db, ownerID, campaignID)
	if err != nil {
		return nil, err
	}
	resp := s.buildResponse(campaign)
	return &resp, nil
}

func (s *campaignService) Create(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.CreateCampaignRequest) (*dto.CampaignResponse, error) {
	ownerID := who.EffectiveUserID
	orgID := strPtrOrNil(req.OrganizationID)
	if err := checkGrouping(db, s.campaignRepo, s.orgRepo, ownerID, nil, orgID); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(db, s.campaignRepo.SlugExists)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	campaign := &models.Campaign{
		UserID:         ownerID,
		OrganizationID: orgID,
		Name:           strings.TrimSpace(req.Name),
		Description:    req.Description,
		Slug:           slug,
		QRCode:         campaignQRCode(ctx, s.settings.PublicBaseURL, slug),
	}

	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		campaign.PasswordHash = &hash
	}

	if err := s.campaignRepo.Create(db, campaign); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditCampaignCreated, "campaign", campaign.ID, map[string]interface{}{
		"name":              campaign.Name,
		"passwordProtected": campaign.IsPasswordProtected(),
	})

	resp := s.buildResponse(campaign)
	return &resp, nil
}

func (s *campaignService) Update(ctx context.Context, db *gorm.DB, who identity.Identity, campaignID string, req *dto.UpdateCampaignRequest) (*dto.CampaignResponse, error) {
	campaign, err := s.find(db, who.EffectiveUserID, campaignID)
	if err != nil {
		return nil, err
	}

	if req.OrganizationID != nil {
		orgID := strPtrOrNil(req.OrganizationID)
		if err := checkGrouping(db, s.campaignRepo, s.orgRepo, who.EffectiveUserID, nil, orgID); err != nil {
			return nil, err
		}
		campaign.OrganizationID = orgID
	}
	if req.Name != nil {
		campaign.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.Password != nil {
		if *req.Password == "" {
			campaign.PasswordHash = nil
		} else {
			hash, err := auth.HashPassword(*req.Password)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
			campaign.PasswordHash = &hash
		}
	}

	if err := s.campaignRepo.Update(db, campaign); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditCampaignUpdated, "campaign", campaign.ID, nil)

	resp := s.buildResponse(campaign)
	return &resp, nil
}

func (s *campaignService) Delete(ctx context.Context, db *gorm.DB, who identity.Identity, campaignID string) error {
	if err := s.campaignRepo.Delete(db, who.EffectiveUserID, campaignID); err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return apperrors.ErrCampaignNotFound
		}
		return apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditCampaignDeleted, "campaign", campaignID, nil)
	return nil
}

func (s *campaignService) AddItem(ctx context.Context, db *gorm.DB, who identity.Identity, campaignID, itemID string) (*dto.CampaignResponse, error) {
	if _, err := s.find(db, who.EffectiveUserID, campaignID); err != nil {
		return nil, err
	}

	if err := s.itemRepo.SetCampaign(db, who.EffectiveUserID, itemID, &campaignID); err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditCampaignItemAdded, "campaign", campaignID, map[string]interface{}{"itemId": itemID})
	return s.Get(db, who.EffectiveUserID, campaignID)
}

func (s *campaignService) RemoveItem(ctx context.Context, db *gorm.DB, who identity.Identity, campaignID, itemID string) (*dto.CampaignResponse, error) {
	if _, err := s.find(db, who.EffectiveUserID, campaignID); err != nil {
		return nil, err
	}

	item, err := s.itemRepo.FindByID(db, who.EffectiveUserID, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if item.CampaignID == nil || *item.CampaignID != campaignID {
		return nil, apperrors.NewNotFoundError("campaign", "Item is not part of this campaign")
	}

	if err := s.itemRepo.SetCampaign(db, who.EffectiveUserID, itemID, nil); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.audit.Record(ctx, db, who, AuditCampaignItemRemoved, "campaign", campaignID, map[string]interface{}{"itemId": itemID})
	return s.Get(db, who.EffectiveUserID, campaignID)
}

func (s *campaignService) find(db *gorm.DB, ownerID, campaignID string) (*models.Campaign, error) {
	campaign, err := s.campaignRepo.FindByID(db, ownerID, campaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return nil, apperrors.ErrCampaignNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return campaign, nil
}

func (s *campaignService) buildResponse(campaign *models.Campaign) dto.CampaignResponse {
	items := make([]dto.ItemResponse, 0, len(campaign.Items))
	for i := range campaign.Items {
		items = append(items, buildItemResponse(s.settings.PublicBaseURL, &campaign.Items[i]))
	}
	return dto.CampaignResponse{
		Campaign:          *campaign,
		Items:             items,
		ItemCount:         len(items),
		ViewsDirect:       campaign.DirectViews(),
		PasswordProtected: campaign.IsPasswordProtected(),
		PublicURL:         campaignPublicURL(s.settings.PublicBaseURL, campaign.Slug),
	}
}
