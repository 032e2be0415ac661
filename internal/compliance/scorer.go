// Package compliance grades a campaign's readiness for distribution.
package compliance

import (
	"fmt"
	"time"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

const (
	IssueEmptyCampaign       = "EMPTY_CAMPAIGN"
	IssueMissingQRCode       = "MISSING_QR_CODE"
	IssueMissingMedia        = "MISSING_MEDIA"
	IssueMissingDescriptions = "MISSING_DESCRIPTIONS"
	IssueZeroDelivery        = "ZERO_DELIVERY"
	IssueStaleContent        = "STALE_CONTENT"
	IssueProtectedNoViews    = "PROTECTED_NO_VIEWS"
)

const (
	maxScore   = 100
	staleAfter = 30 * 24 * time.Hour
	staleViews = 10
	mediaCap   = 25
	mediaEach  = 10
	descCap    = 10
	descEach   = 3
	emptyCost  = 30
	noQRCost   = 10
	zeroCost   = 15
	staleCost  = 5
	lockedCost = 5
)

// ItemSnapshot is the part of an item the scorer looks at.
type ItemSnapshot struct {
	ID             string
	HasMedia       bool
	HasDescription bool
	UpdatedAt      time.Time
}

// Snapshot is a campaign with its items and aggregate views.
type Snapshot struct {
	CampaignID        string
	Name              string
	HasQRCode         bool
	PasswordProtected bool
	Views             int64
	Items             []ItemSnapshot
}

type Issue struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Penalty  int      `json:"penalty"`
}

type Report struct {
	CampaignID string  `json:"campaignId"`
	Name       string  `json:"name"`
	Score      int     `json:"score"`
	Issues     []Issue `json:"issues"`
}

// Score evaluates every rule against the same snapshot. The result only depends on
// the snapshot and now, and issues are always listed in rule order.
func Score(s Snapshot, now time.Time) Report {
	issues := make([]Issue, 0)

	if len(s.Items) == 0 {
		issues = append(issues, Issue{
			Code:     IssueEmptyCampaign,
			Severity: SeverityHigh,
			Message:  "Campaign has no content items",
			Penalty:  emptyCost,
		})
	}

	if !s.HasQRCode {
		issues = append(issues, Issue{
			Code:     IssueMissingQRCode,
			Severity: SeverityMedium,
			Message:  "Campaign has no QR code",
			Penalty:  noQRCost,
		})
	}

	var noMedia, noDesc int
	latest := time.Time{}
	for _, item := range s.Items {
		if !item.HasMedia {
			noMedia++
		}
		if !item.HasDescription {
			noDesc++
		}
		if item.UpdatedAt.After(latest) {
			latest = item.UpdatedAt
		}
	}

	if noMedia > 0 {
		issues = append(issues, Issue{
			Code:     IssueMissingMedia,
			Severity: SeverityHigh,
			Message:  fmt.Sprintf("%d item(s) have no media", noMedia),
			Penalty:  min(mediaCap, mediaEach*noMedia),
		})
	}

	if noDesc > 0 {
		issues = append(issues, Issue{
			Code:     IssueMissingDescriptions,
			Severity: SeverityLow,
			Message:  fmt.Sprintf("%d item(s) have no description", noDesc),
			Penalty:  min(descCap, descEach*noDesc),
		})
	}

	if s.Views == 0 && s.HasQRCode && len(s.Items) > 0 {
		issues = append(issues, Issue{
			Code:     IssueZeroDelivery,
			Severity: SeverityMedium,
			Message:  "Campaign has not been viewed yet",
			Penalty:  zeroCost,
		})
	}

	if s.Views > staleViews && len(s.Items) > 0 && now.Sub(latest) > staleAfter {
		issues = append(issues, Issue{
			Code:     IssueStaleContent,
			Severity: SeverityLow,
			Message:  "No content has been updated in the last 30 days",
			Penalty:  staleCost,
		})
	}

	if s.PasswordProtected && s.Views == 0 {
		issues = append(issues, Issue{
			Code:     IssueProtectedNoViews,
			Severity: SeverityLow,
			Message:  "Password-protected campaign has no views",
			Penalty:  lockedCost,
		})
	}

	score := maxScore
	for _, issue := range issues {
		score -= issue.Penalty
	}

	return Report{
		CampaignID: s.CampaignID,
		Name:       s.Name,
		Score:      max(0, min(maxScore, score)),
		Issues:     issues,
	}
}

// Average is the mean score over reports, 0 when there are none.
func Average(reports []Report) int {
	if len(reports) == 0 {
		return 0
	}
	total := 0
	for _, r := range reports {
		total += r.Score
	}
	return total / len(reports)
}
