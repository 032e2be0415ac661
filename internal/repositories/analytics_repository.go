package repositories

import (
	"time"

	"outbound_backend/internal/models"

	"gorm.io/gorm"
)

// AnalyticsScope selects the view events a breakdown covers.
type AnalyticsScope struct {
	ItemID     string
	CampaignID string
	From       time.Time
	To         time.Time
}

type DimensionCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type OwnerTotals struct {
	Items     int64 `json:"items"`
	Campaigns int64 `json:"campaigns"`
	models.ViewCounters
}

type AnalyticsRepository interface {
	Create(db *gorm.DB, event *models.ViewEvent) error
	// CountBy groups scoped events by column (device, browser, os, country, source).
	CountBy(db *gorm.DB, scope AnalyticsScope, column string) ([]DimensionCount, error)
	DailyViews(db *gorm.DB, scope AnalyticsScope) ([]DailyCount, error)
	OwnerTotals(db *gorm.DB, ownerID string) (*OwnerTotals, error)
	TopItems(db *gorm.DB, ownerID string, limit int) ([]models.Item, error)
}

type analyticsRepository struct{}

func NewAnalyticsRepository() AnalyticsRepository {
	return &analyticsRepository{}
}

var groupableColumns = map[string]bool{
	"device":  true,
	"browser": true,
	"os":      true,
	"country": true,
	"source":  true,
}

func (r *analyticsRepository) Create(db *gorm.DB, event *models.ViewEvent) error {
	return db.Create(event).Error
}

func (r *analyticsRepository) scoped(db *gorm.DB, scope AnalyticsScope) *gorm.DB {
	query := db.Model(&models.ViewEvent{})
	if scope.ItemID != "" {
		query = query.Where("item_id = ?", scope.ItemID)
	}
	if scope.CampaignID != "" {
		query = query.Where("campaign_id = ?", scope.CampaignID)
	}
	if !scope.From.IsZero() {
		query = query.Where("created_at >= ?", scope.From)
	}
	if !scope.To.IsZero() {
		query = query.Where("created_at <= ?", scope.To)
	}
	return query
}

func (r *analyticsRepository) CountBy(db *gorm.DB, scope AnalyticsScope, column string) ([]DimensionCount, error) {
	if !groupableColumns[column] {
		return nil, gorm.ErrInvalidField
	}

	var counts []DimensionCount
	err := r.scoped(db, scope).
		Select(column + " AS value, COUNT(*) AS count").
		Group(column).
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}

func (r *analyticsRepository) DailyViews(db *gorm.DB, scope AnalyticsScope) ([]DailyCount, error) {
	var counts []DailyCount
	err := r.scoped(db, scope).
		Select("TO_CHAR(DATE_TRUNC('day', created_at), 'YYYY-MM-DD') AS day, COUNT(*) AS count").
		Group("day").
		Order("day ASC").
		Scan(&counts).Error
	return counts, err
}

func (r *analyticsRepository) OwnerTotals(db *gorm.DB, ownerID string) (*OwnerTotals, error) {
	totals := &OwnerTotals{}

	if err := db.Model(&models.Item{}).Where("user_id = ?", ownerID).Count(&totals.Items).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Campaign{}).Where("user_id = ?", ownerID).Count(&totals.Campaigns).Error; err != nil {
		return nil, err
	}

	var counters models.ViewCounters
	err := db.Model(&models.Item{}).
		Select("COALESCE(SUM(views), 0) AS views, COALESCE(SUM(views_qr), 0) AS views_qr, COALESCE(SUM(views_nfc), 0) AS views_nfc").
		Where("user_id = ?", ownerID).
		Scan(&counters).Error
	if err != nil {
		return nil, err
	}
	totals.ViewCounters = counters

	return totals, nil
}

func (r *analyticsRepository) TopItems(db *gorm.DB, ownerID string, limit int) ([]models.Item, error) {
	var items []models.Item
	err := db.Where("user_id = ?", ownerID).
		Order("views DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
