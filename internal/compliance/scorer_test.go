package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func codes(r Report) []string {
	out := make([]string, 0, len(r.Issues))
	for _, i := range r.Issues {
		out = append(out, i.Code)
	}
	return out
}

func TestScore_EmptyCampaign(t *testing.T) {
	r := Score(Snapshot{CampaignID: "c1", HasQRCode: true}, now)

	assert.Equal(t, 70, r.Score)
	require.Len(t, r.Issues, 1)
	assert.Equal(t, IssueEmptyCampaign, r.Issues[0].Code)
	assert.Equal(t, SeverityHigh, r.Issues[0].Severity)
}

func TestScore_ItemsWithoutMediaAndNoViews(t *testing.T) {
	items := []ItemSnapshot{
		{ID: "a", HasDescription: true, UpdatedAt: now},
		{ID: "b", HasDescription: true, UpdatedAt: now},
		{ID: "c", HasDescription: true, UpdatedAt: now},
	}
	r := Score(Snapshot{HasQRCode: true, Items: items}, now)

	// media penalty is capped at 25
	assert.Equal(t, 60, r.Score)
	assert.Equal(t, []string{IssueMissingMedia, IssueZeroDelivery}, codes(r))
}

func TestScore_WorstCaseStaysInRange(t *testing.T) {
	items := make([]ItemSnapshot, 10)
	r := Score(Snapshot{
		HasQRCode:         false,
		PasswordProtected: true,
		Items:             items,
	}, now)

	assert.Equal(t, 100-10-25-10-5, r.Score)
	assert.Equal(t, []string{IssueMissingQRCode, IssueMissingMedia, IssueMissingDescriptions, IssueProtectedNoViews}, codes(r))

	for _, qr := range []bool{true, false} {
		for _, locked := range []bool{true, false} {
			for _, views := range []int64{0, 5, 50} {
				for n := 0; n < 6; n++ {
					r := Score(Snapshot{HasQRCode: qr, PasswordProtected: locked, Views: views, Items: make([]ItemSnapshot, n)}, now)
					assert.GreaterOrEqual(t, r.Score, 0)
					assert.LessOrEqual(t, r.Score, 100)
				}
			}
		}
	}
}

func TestScore_PerfectCampaign(t *testing.T) {
	r := Score(Snapshot{
		HasQRCode: true,
		Views:     42,
		Items:     []ItemSnapshot{{HasMedia: true, HasDescription: true, UpdatedAt: now.Add(-24 * time.Hour)}},
	}, now)

	assert.Equal(t, 100, r.Score)
	assert.Empty(t, r.Issues)
}

func TestScore_StaleContent(t *testing.T) {
	old := now.Add(-31 * 24 * time.Hour)
	r := Score(Snapshot{
		HasQRCode: true,
		Views:     11,
		Items:     []ItemSnapshot{{HasMedia: true, HasDescription: true, UpdatedAt: old}},
	}, now)

	assert.Equal(t, 95, r.Score)
	assert.Equal(t, []string{IssueStaleContent}, codes(r))

	r = Score(Snapshot{
		HasQRCode: true,
		Views:     10,
		Items:     []ItemSnapshot{{HasMedia: true, HasDescription: true, UpdatedAt: old}},
	}, now)
	assert.Empty(t, r.Issues)
}

func TestScore_DescriptionPenaltyCapped(t *testing.T) {
	items := make([]ItemSnapshot, 5)
	for i := range items {
		items[i] = ItemSnapshot{HasMedia: true, UpdatedAt: now}
	}
	r := Score(Snapshot{HasQRCode: true, Views: 3, Items: items}, now)

	assert.Equal(t, 90, r.Score)
	assert.Equal(t, []string{IssueMissingDescriptions}, codes(r))
}

func TestScore_Deterministic(t *testing.T) {
	s := Snapshot{
		PasswordProtected: true,
		Items: []ItemSnapshot{
			{HasMedia: false, HasDescription: false, UpdatedAt: now},
			{HasMedia: true, HasDescription: false, UpdatedAt: now},
		},
	}
	first := Score(s, now)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Score(s, now))
	}
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 0, Average(nil))
	assert.Equal(t, 80, Average([]Report{{Score: 70}, {Score: 90}}))
}

func TestScore_EmptyCampaignIsNotStale(t *testing.T) {
	r := Score(Snapshot{HasQRCode: true, Views: 50}, now)

	assert.Equal(t, 70, r.Score)
	assert.Equal(t, []string{IssueEmptyCampaign}, codes(r))
}
