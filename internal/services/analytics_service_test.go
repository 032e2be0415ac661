package services

import (
	"context"
	"errors"
	"testing"

	"outbound_backend/internal/models"
	"outbound_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	chromeWindowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	iPhoneUA        = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	iPadUA          = "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1"
	googlebotUA     = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func TestParseUserAgent(t *testing.T) {
	device, browser, os := parseUserAgent(chromeWindowsUA)
	assert.Equal(t, "desktop", device)
	assert.Equal(t, "Chrome", browser)
	assert.Equal(t, "Windows", os)

	device, _, _ = parseUserAgent(iPhoneUA)
	assert.Equal(t, "mobile", device)

	device, _, _ = parseUserAgent(iPadUA)
	assert.Equal(t, "tablet", device)

	device, _, _ = parseUserAgent(googlebotUA)
	assert.Equal(t, "bot", device)

	device, browser, os = parseUserAgent("   ")
	assert.Equal(t, unknownDimension, device)
	assert.Equal(t, unknownDimension, browser)
	assert.Equal(t, unknownDimension, os)
}

type countingItemRepo struct {
	repositories.ItemRepository
	increments []models.ViewSource
	err        error
}

func (r *countingItemRepo) IncrementViews(db *gorm.DB, id string, source models.ViewSource) error {
	if r.err != nil {
		return r.err
	}
	r.increments = append(r.increments, source)
	return nil
}

type countingCampaignRepo struct {
	repositories.CampaignRepository
	increments []models.ViewSource
}

func (r *countingCampaignRepo) IncrementViews(db *gorm.DB, id string, source models.ViewSource) error {
	r.increments = append(r.increments, source)
	return nil
}

type capturingAnalyticsRepo struct {
	repositories.AnalyticsRepository
	events []*models.ViewEvent
}

func (r *capturingAnalyticsRepo) Create(db *gorm.DB, event *models.ViewEvent) error {
	r.events = append(r.events, event)
	return nil
}

type staticLocator string

func (l staticLocator) Country(ctx context.Context, ip string) string { return string(l) }

func newInlineAnalytics(items *countingItemRepo, campaigns *countingCampaignRepo, events *capturingAnalyticsRepo) *analyticsService {
	svc := NewAnalyticsService(events, items, campaigns, staticLocator("Germany")).(*analyticsService)
	svc.dispatch = func(f func()) { f() }
	return svc
}

func TestTrackView_ItemRecordsEnrichedEvent(t *testing.T) {
	items := &countingItemRepo{}
	campaigns := &countingCampaignRepo{}
	events := &capturingAnalyticsRepo{}
	svc := newInlineAnalytics(items, campaigns, events)

	err := svc.TrackView(context.Background(), nil, ViewInput{
		ItemID:    "item-1",
		Source:    models.ViewSourceQR,
		UserAgent: chromeWindowsUA,
		IP:        "203.0.113.9",
	})
	require.NoError(t, err)

	assert.Equal(t, []models.ViewSource{models.ViewSourceQR}, items.increments)
	assert.Empty(t, campaigns.increments)

	require.Len(t, events.events, 1)
	event := events.events[0]
	require.NotNil(t, event.ItemID)
	assert.Equal(t, "item-1", *event.ItemID)
	assert.Nil(t, event.CampaignID)
	assert.Equal(t, models.ViewSourceQR, event.Source)
	assert.Equal(t, "desktop", event.Device)
	assert.Equal(t, "Germany", event.Country)
}

func TestTrackView_CampaignOnlyBumpsCampaign(t *testing.T) {
	items := &countingItemRepo{}
	campaigns := &countingCampaignRepo{}
	events := &capturingAnalyticsRepo{}
	svc := newInlineAnalytics(items, campaigns, events)

	require.NoError(t, svc.TrackView(context.Background(), nil, ViewInput{
		CampaignID: "camp-1",
		Source:     models.ViewSourceNFC,
	}))

	assert.Empty(t, items.increments)
	assert.Equal(t, []models.ViewSource{models.ViewSourceNFC}, campaigns.increments)
	require.Len(t, events.events, 1)
	assert.Equal(t, unknownDimension, events.events[0].Browser)
}

func TestTrackView_CounterFailureSkipsEvent(t *testing.T) {
	items := &countingItemRepo{err: errors.New("deadlock")}
	events := &capturingAnalyticsRepo{}
	svc := newInlineAnalytics(items, &countingCampaignRepo{}, events)

	err := svc.TrackView(context.Background(), nil, ViewInput{ItemID: "item-1", Source: models.ViewSourceDirect})

	assert.Error(t, err)
	assert.Empty(t, events.events)
}
