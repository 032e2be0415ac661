package integration_test

import (
	"net/http"
	"regexp"
	"testing"

	"outbound_backend/test/helpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var inviteTokenPattern = regexp.MustCompile(`token=([A-Za-z0-9_\-]+)`)

// TestTeamViewerSeesOwnerDataButCannotDelete walks invite, accept and role enforcement.
func TestTeamViewerSeesOwnerDataButCannotDelete(t *testing.T) {
	ts := GetTestServer(t)
	owner := helpers.RegisterAccount(t, ts, "owner")
	viewer := helpers.RegisterAccount(t, ts, "viewer")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/campaigns", owner.Token, map[string]string{"name": "Spring drive"})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var campaign struct {
		ID string `json:"id"`
	}
	helpers.DataOf(t, body, &campaign)

	sentBefore := len(ts.Mailer(t).Messages())
	res, body = ts.SendRequest(t, http.MethodPost, "/api/team/invite", owner.Token, map[string]string{
		"email": viewer.Email,
		"role":  "VIEWER",
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	sent := ts.Mailer(t).Messages()
	require.Len(t, sent, sentBefore+1)
	match := inviteTokenPattern.FindStringSubmatch(sent[len(sent)-1].HTMLBody)
	require.Len(t, match, 2)

	res, body = ts.SendRequest(t, http.MethodPost, "/api/team/accept", viewer.Token, map[string]string{"token": match[1]})
	require.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodGet, "/api/campaigns/"+campaign.ID, viewer.Token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, body)

	res, body = ts.SendRequest(t, http.MethodDelete, "/api/campaigns/"+campaign.ID, viewer.Token, nil)
	assert.Equal(t, http.StatusForbidden, res.StatusCode, body)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/campaigns/"+campaign.ID, owner.Token, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode, "campaign must survive the denied delete")
}

func TestOtherAccountsDataIsNotFound(t *testing.T) {
	ts := GetTestServer(t)
	alice := helpers.RegisterAccount(t, ts, "alice")
	bob := helpers.RegisterAccount(t, ts, "bob")

	res, body := ts.SendRequest(t, http.MethodPost, "/api/campaigns", alice.Token, map[string]string{"name": "Private"})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)
	var campaign struct {
		ID string `json:"id"`
	}
	helpers.DataOf(t, body, &campaign)

	res, _ = ts.SendRequest(t, http.MethodGet, "/api/campaigns/"+campaign.ID, bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
