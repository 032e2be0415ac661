package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"outbound_backend/internal/identity"
	"outbound_backend/internal/models"
	"outbound_backend/internal/services"
	"outbound_backend/internal/services/dto"
	"outbound_backend/internal/validator"
	"outbound_backend/pkg/apperrors"
	"outbound_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCampaignService struct {
	services.CampaignService

	deleted   []string
	created   []*dto.CreateCampaignRequest
	deleteErr error
}

func (f *fakeCampaignService) Delete(ctx context.Context, db *gorm.DB, who identity.Identity, campaignID string) error {
	f.deleted = append(f.deleted, campaignID)
	return f.deleteErr
}

func (f *fakeCampaignService) Create(ctx context.Context, db *gorm.DB, who identity.Identity, req *dto.CreateCampaignRequest) (*dto.CampaignResponse, error) {
	f.created = append(f.created, req)
	return &dto.CampaignResponse{Campaign: models.Campaign{Name: req.Name, UserID: who.EffectiveUserID}}, nil
}

func newCampaignRouter(who identity.Identity, svc services.CampaignService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api", func(c *gin.Context) {
		c.Set(string(contextkeys.DBContextKey), (*gorm.DB)(nil))
		c.Set(string(contextkeys.IdentityContextKey), who)
		c.Next()
	})
	NewCampaignHandler(NewBaseHandler(validator.New()), svc).RegisterRoutes(api)
	return router
}

func teamIdentity(role models.TeamRole) identity.Identity {
	return identity.Identity{CallerID: "member-1", EffectiveUserID: "owner-1", TeamRole: &role}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestCampaignDelete_ViewerForbidden(t *testing.T) {
	svc := &fakeCampaignService{}
	router := newCampaignRouter(teamIdentity(models.TeamRoleViewer), svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/campaigns/c-1", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, svc.deleted)
	assert.Equal(t, "error", decode(t, w)["status"])
}

func TestCampaignDelete_TeamAdmin(t *testing.T) {
	svc := &fakeCampaignService{}
	router := newCampaignRouter(teamIdentity(models.TeamRoleAdmin), svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/campaigns/c-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"c-1"}, svc.deleted)
	assert.Equal(t, "success", decode(t, w)["status"])
}

func TestCampaignDelete_NotFound(t *testing.T) {
	svc := &fakeCampaignService{deleteErr: apperrors.ErrCampaignNotFound}
	router := newCampaignRouter(identity.Identity{CallerID: "owner-1", EffectiveUserID: "owner-1"}, svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/campaigns/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCampaignCreate_ValidationFailure(t *testing.T) {
	svc := &fakeCampaignService{}
	router := newCampaignRouter(identity.Identity{CallerID: "owner-1", EffectiveUserID: "owner-1"}, svc)

	body, _ := json.Marshal(map[string]string{"description": "no name"})
	req := httptest.NewRequest(http.MethodPost, "/api/campaigns", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.created)
}

func TestCampaignCreate_EditorScopedToOwner(t *testing.T) {
	svc := &fakeCampaignService{}
	router := newCampaignRouter(teamIdentity(models.TeamRoleEditor), svc)

	body, _ := json.Marshal(map[string]string{"name": "Spring drive"})
	req := httptest.NewRequest(http.MethodPost, "/api/campaigns", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.created, 1)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "owner-1", data["userId"])
}
