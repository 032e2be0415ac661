package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/identity"
	"outbound_backend/internal/models"
	"outbound_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withIdentity(who *identity.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if who != nil {
			c.Set(string(contextkeys.IdentityContextKey), *who)
		}
		c.Next()
	}
}

func serveAuthorize(t *testing.T, who *identity.Identity, resource auth.Resource, action auth.Action) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	reached := false

	router := gin.New()
	router.DELETE("/thing", withIdentity(who), Authorize(resource, action), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/thing", nil)
	router.ServeHTTP(w, req)
	return w, reached
}

func TestAuthorize_OwnerPasses(t *testing.T) {
	who := &identity.Identity{CallerID: "u1", EffectiveUserID: "u1"}

	w, reached := serveAuthorize(t, who, auth.ResourceCampaign, auth.ActionDelete)

	assert.True(t, reached)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAuthorize_ViewerDenied(t *testing.T) {
	viewer := models.TeamRoleViewer
	who := &identity.Identity{CallerID: "member", EffectiveUserID: "owner", TeamRole: &viewer}

	w, reached := serveAuthorize(t, who, auth.ResourceCampaign, auth.ActionDelete)

	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
}

func TestAuthorize_AdminAllowed(t *testing.T) {
	admin := models.TeamRoleAdmin
	who := &identity.Identity{CallerID: "member", EffectiveUserID: "owner", TeamRole: &admin}

	_, reached := serveAuthorize(t, who, auth.ResourceCampaign, auth.ActionDelete)

	assert.True(t, reached)
}

func TestAuthorize_MissingIdentity(t *testing.T) {
	w, reached := serveAuthorize(t, nil, auth.ResourceItem, auth.ActionRead)

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
