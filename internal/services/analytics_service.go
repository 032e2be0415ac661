package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"outbound_backend/internal/geo"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/services/dto"
	"outbound_backend/pkg/apperrors"

	"github.com/mssola/useragent"
	"gorm.io/gorm"
)

const (
	topItemsLimit      = 5
	eventRecordTimeout = 10 * time.Second
	unknownDimension   = "Unknown"
)

// ViewInput describes one public view. Exactly one of ItemID and CampaignID is set.
type ViewInput struct {
	ItemID     string
	CampaignID string
	Source     models.ViewSource
	UserAgent  string
	IP         string
}

type AnalyticsService interface {
	Overview(db *gorm.DB, ownerID string) (*dto.AnalyticsOverview, error)
	ItemBreakdown(db *gorm.DB, ownerID, itemID string, query *dto.AnalyticsQuery) (*dto.AnalyticsBreakdown, error)
	CampaignBreakdown(db *gorm.DB, ownerID, campaignID string, query *dto.AnalyticsQuery) (*dto.AnalyticsBreakdown, error)
	// TrackView bumps the counters now and records the enriched event in the background.
	TrackView(ctx context.Context, db *gorm.DB, view ViewInput) error
}

type analyticsService struct {
	analyticsRepo repositories.AnalyticsRepository
	itemRepo      repositories.ItemRepository
	campaignRepo  repositories.CampaignRepository
	locator       geo.Locator
	// dispatch runs background work; tests replace it to run inline.
	dispatch func(func())
}

func NewAnalyticsService(
	analyticsRepo repositories.AnalyticsRepository,
	itemRepo repositories.ItemRepository,
	campaignRepo repositories.CampaignRepository,
	locator geo.Locator,
) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		itemRepo:      itemRepo,
		campaignRepo:  campaignRepo,
		locator:       locator,
		dispatch:      func(f func()) { go f() },
	}
}

func (s *analyticsService) Overview(db *gorm.DB, ownerID string) (*dto.AnalyticsOverview, error) {
	totals, err := s.analyticsRepo.OwnerTotals(db, ownerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	top, err := s.analyticsRepo.TopItems(db, ownerID, topItemsLimit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.AnalyticsOverview{
		TotalItems:     totals.Items,
		TotalCampaigns: totals.Campaigns,
		ViewTotals:     viewTotals(totals.ViewCounters),
		TopItems:       make([]dto.TopItem, 0, len(top)),
	}
	for _, item := range top {
		resp.TopItems = append(resp.TopItems, dto.TopItem{
			ID:         item.ID,
			Title:      item.Title,
			Slug:       item.Slug,
			ViewTotals: viewTotals(item.ViewCounters),
		})
	}
	return resp, nil
}

func (s *analyticsService) ItemBreakdown(db *gorm.DB, ownerID, itemID string, query *dto.AnalyticsQuery) (*dto.AnalyticsBreakdown, error) {
	item, err := s.itemRepo.FindByID(db, ownerID, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrItemNotFound) {
			return nil, apperrors.ErrItemNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	scope := repositories.AnalyticsScope{ItemID: item.ID}
	applyRange(&scope, query)
	return s.breakdown(db, item.ID, item.Title, item.ViewCounters, scope)
}

func (s *analyticsService) CampaignBreakdown(db *gorm.DB, ownerID, campaignID string, query *dto.AnalyticsQuery) (*dto.AnalyticsBreakdown, error) {
	campaign, err := s.campaignRepo.FindByID(db, ownerID, campaignID)
	if err != nil {
		if errors.Is(err, repositories.ErrCampaignNotFound) {
			return nil, apperrors.ErrCampaignNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	scope := repositories.AnalyticsScope{CampaignID: campaign.ID}
	applyRange(&scope, query)
	return s.breakdown(db, campaign.ID, campaign.Name, campaign.ViewCounters, scope)
}

func applyRange(scope *repositories.AnalyticsScope, query *dto.AnalyticsQuery) {
	if query == nil {
		return
	}
	if query.From != nil {
		scope.From = *query.From
	}
	if query.To != nil {
		// inclusive end day
		scope.To = query.To.Add(24*time.Hour - time.Nanosecond)
	}
}

func (s *analyticsService) breakdown(db *gorm.DB, id, title string, counters models.ViewCounters, scope repositories.AnalyticsScope) (*dto.AnalyticsBreakdown, error) {
	resp := &dto.AnalyticsBreakdown{
		ID:         id,
		Title:      title,
		ViewTotals: viewTotals(counters),
	}

	dimensions := []struct {
		column string
		target *[]repositories.DimensionCount
	}{
		{"device", &resp.ByDevice},
		{"browser", &resp.ByBrowser},
		{"os", &resp.ByOS},
		{"country", &resp.ByCountry},
		{"source", &resp.BySource},
	}
	for _, d := range dimensions {
		counts, err := s.analyticsRepo.CountBy(db, scope, d.column)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if counts == nil {
			counts = []repositories.DimensionCount{}
		}
		*d.target = counts
	}

	daily, err := s.analyticsRepo.DailyViews(db, scope)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if daily == nil {
		daily = []repositories.DailyCount{}
	}
	resp.Daily = daily

	return resp, nil
}

func (s *analyticsService) TrackView(ctx context.Context, db *gorm.DB, view ViewInput) error {
	var err error
	switch {
	case view.ItemID != "":
		err = s.itemRepo.IncrementViews(db, view.ItemID, view.Source)
	case view.CampaignID != "":
		err = s.campaignRepo.IncrementViews(db, view.CampaignID, view.Source)
	default:
		return nil
	}
	if err != nil {
		return apperrors.InternalError(err)
	}

	bgCtx := context.WithoutCancel(ctx)
	s.dispatch(func() {
		s.recordEvent(bgCtx, db, view)
	})
	return nil
}

func (s *analyticsService) recordEvent(ctx context.Context, db *gorm.DB, view ViewInput) {
	ctx, cancel := context.WithTimeout(ctx, eventRecordTimeout)
	defer cancel()

	device, browser, os := parseUserAgent(view.UserAgent)
	event := &models.ViewEvent{
		Source:  view.Source,
		Device:  device,
		Browser: browser,
		OS:      os,
		Country: s.locator.Country(ctx, view.IP),
	}
	if view.ItemID != "" {
		event.ItemID = &view.ItemID
	}
	if view.CampaignID != "" {
		event.CampaignID = &view.CampaignID
	}

	if db != nil {
		db = db.WithContext(ctx)
	}
	if err := s.analyticsRepo.Create(db, event); err != nil {
		logger.CtxWithError(ctx, "Failed to record view event", err, "item_id", view.ItemID, "campaign_id", view.CampaignID)
	}
}

// parseUserAgent reduces a User-Agent header to device class, browser and OS names.
func parseUserAgent(header string) (device, browser, os string) {
	if strings.TrimSpace(header) == "" {
		return unknownDimension, unknownDimension, unknownDimension
	}

	ua := useragent.New(header)

	switch {
	case ua.Bot():
		device = "bot"
	case strings.Contains(header, "iPad") || strings.Contains(header, "Tablet"):
		device = "tablet"
	case ua.Mobile():
		device = "mobile"
	default:
		device = "desktop"
	}

	browser, _ = ua.Browser()
	if browser == "" {
		browser = unknownDimension
	}

	os = ua.OSInfo().Name
	if os == "" {
		os = unknownDimension
	}
	return device, browser, os
}
