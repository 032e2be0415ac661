package integration_test

import (
	"net/http"
	"testing"

	"outbound_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemCounters struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Views       int64  `json:"views"`
	ViewsQR     int64  `json:"viewsQr"`
	ViewsNFC    int64  `json:"viewsNfc"`
	ViewsDirect int64  `json:"viewsDirect"`
}

func TestPublicItemViewCountsBySource(t *testing.T) {
	ts := GetTestServer(t)
	owner := helpers.RegisterAccount(t, ts, "publisher")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/items", owner.Token, map[string]string{
		"title":       "Welcome note",
		"type":        "TEXT",
		"textContent": "Thanks for scanning",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var item itemCounters
	helpers.DataOf(t, body, &item)
	require.NotEmpty(t, item.Slug)

	for _, path := range []string{"/l/" + item.Slug + "?src=qr", "/l/" + item.Slug + "?src=nfc", "/l/" + item.Slug} {
		res, body = ts.SendRequest(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, res.StatusCode, body)
	}

	res, body = ts.SendRequest(t, http.MethodGet, "/api/items/"+item.ID, owner.Token, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, body)
	helpers.DataOf(t, body, &item)

	assert.Equal(t, int64(3), item.Views)
	assert.Equal(t, int64(1), item.ViewsQR)
	assert.Equal(t, int64(1), item.ViewsNFC)
	assert.Equal(t, int64(1), item.ViewsDirect)
}

func TestPasswordProtectedCampaign(t *testing.T) {
	ts := GetTestServer(t)
	owner := helpers.RegisterAccount(t, ts, "campaigner")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/campaigns", owner.Token, map[string]string{
		"name":     "Members only",
		"password": "letmein",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var campaign struct {
		Slug string `json:"slug"`
	}
	helpers.DataOf(t, body, &campaign)

	res, _ = ts.SendRequest(t, http.MethodGet, "/c/"+campaign.Slug, "", nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, body = ts.SendRequestWithHeaders(t, http.MethodGet, "/c/"+campaign.Slug, "", nil, map[string]string{
		"X-Campaign-Password": "letmein",
	})
	assert.Equal(t, http.StatusOK, res.StatusCode, body)
}

func TestHealth(t *testing.T) {
	ts := GetTestServer(t)
	res, body := ts.SendRequest(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, "success")
}
