package services

import (
	"context"
	"errors"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// Visit is what the public viewer knows about an incoming request.
type Visit struct {
	Source    models.ViewSource
	UserAgent string
	IP        string
}

// PublicService serves the unauthenticated /l/:slug and /c/:slug viewers.
type PublicService interface {
	ViewItem(ctx context.Context, db *gorm.DB, slug string, visit Visit) (*dto.PublicItemResponse, error)
	ViewCampaign(ctx context.Context, db *gorm.DB, slug, password string, visit Visit) (*dto.PublicCampaignResponse, error)
}

type publicService struct {
	itemRepo     repositories.ItemRepository
	campaignRepo repositories.CampaignRepository
	analytics    AnalyticsService
}

func NewPublicService(
	itemRepo repositories.ItemRepository,
	campaignRepo repositories.CampaignRepository,
	analytics AnalyticsService,
) PublicService {
	return &publicService{
		itemRepo:     itemRepo,
		campaignRepo: campaignRepo,
		analytics:    analytics,
	}
}

func (s *publicService) ViewItem(ctx context.Context, db *gorm.DB, slug string, visit Visit) (*dto.PublicItemResponse, error) {
	item, err := s.itemRepo.FindBySlug(db, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	s.track(ctx, db, ViewInput{
		ItemID:    item.ID,
		Source:    visit.Source,
		UserAgent: visit.UserAgent,
		IP:        visit.IP,
	})

	return &dto.PublicItemResponse{
		Item:     publicItem(item),
		Branding: branding(item.Owner),
	}, nil
}

func (s *publicService) ViewCampaign(ctx context.Context, db *gorm.DB, slug, password string, visit Visit) (*dto.PublicCampaignResponse, error) {
	campaign, err := s.campaignRepo.FindBySlug(db, slug)
	if err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return nil, apperrors.ErrCampaignNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if campaign.IsPasswordProtected() {
		if password == "" || !auth.CheckPasswordHash(password, *campaign.PasswordHash) {
			return nil, apperrors.ErrCampaignPasswordRequired
		}
	}

	s.track(ctx, db, ViewInput{
		CampaignID: campaign.ID,
		Source:     visit.Source,
		UserAgent:  visit.UserAgent,
		IP:         visit.IP,
	})

	items := make([]dto.PublicItem, 0, len(campaign.Items))
	for i := range campaign.Items {
		items = append(items, publicItem(&campaign.Items[i]))
	}

	return &dto.PublicCampaignResponse{
		ID:          campaign.ID,
		Slug:        campaign.Slug,
		Name:        campaign.Name,
		Description: campaign.Description,
		Items:       items,
		Branding:    branding(campaign.Owner),
	}, nil
}

// track counts the view. A counting failure never blocks the viewer.
func (s *publicService) track(ctx context.Context, db *gorm.DB, view ViewInput) {
	if err := s.analytics.TrackView(ctx, db, view); err != nil {
		logger.CtxWithError(ctx, "Failed to track view", err, "item_id", view.ItemID, "campaign_id", view.CampaignID)
	}
}

func publicItem(item *models.Item) dto.PublicItem {
	return dto.PublicItem{
		ID:           item.ID,
		Slug:         item.Slug,
		Title:        item.Title,
		Description:  item.Description,
		Type:         item.Type,
		MediaURL:     item.MediaURL,
		ThumbnailURL: item.ThumbnailURL,
		MimeType:     item.MimeType,
		TextContent:  item.TextContent,
		EmbedURL:     item.EmbedURL,
	}
}

func branding(owner *models.User) dto.Branding {
	if owner == nil {
		return dto.Branding{}
	}
	return dto.Branding{
		BrandName:    owner.BrandName,
		BrandLogoURL: owner.BrandLogoURL,
		BrandColor:   owner.BrandColor,
	}
}
