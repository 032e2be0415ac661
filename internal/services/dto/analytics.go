package dto

import (
	"time"

	"outbound_backend/internal/repositories"
)

type AnalyticsQuery struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// ViewTotals is the counter triple plus the derived direct count.
type ViewTotals struct {
	Views       int64 `json:"views"`
	ViewsQR     int64 `json:"viewsQr"`
	ViewsNFC    int64 `json:"viewsNfc"`
	ViewsDirect int64 `json:"viewsDirect"`
}

type TopItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
	ViewTotals
}

type AnalyticsOverview struct {
	TotalItems     int64 `json:"totalItems"`
	TotalCampaigns int64 `json:"totalCampaigns"`
	ViewTotals
	TopItems []TopItem `json:"topItems"`
}

// AnalyticsBreakdown is the per-item or per-campaign report.
type AnalyticsBreakdown struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	ViewTotals
	ByDevice  []repositories.DimensionCount `json:"byDevice"`
	ByBrowser []repositories.DimensionCount `json:"byBrowser"`
	ByOS      []repositories.DimensionCount `json:"byOs"`
	ByCountry []repositories.DimensionCount `json:"byCountry"`
	BySource  []repositories.DimensionCount `json:"bySource"`
	Daily     []repositories.DailyCount     `json:"daily"`
}
