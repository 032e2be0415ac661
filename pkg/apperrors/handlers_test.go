package apperrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveError(t *testing.T, err error) (int, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	HandleError(c, err)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, c.IsAborted())
	return w.Code, body
}

func TestHandleError_AppError(t *testing.T) {
	code, body := serveError(t, ErrCampaignNotFound)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "Campaign not found", body.Message)
	assert.Equal(t, CodeNotFound, body.Code)
}

func TestHandleError_WithDetails(t *testing.T) {
	code, body := serveError(t, ValidationError(map[string]string{"email": "This field is required"}))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]interface{}{"email": "This field is required"}, body.Details)
}

func TestHandleError_UnknownErrorIsGeneric(t *testing.T) {
	code, body := serveError(t, errors.New("pq: relation \"users\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body.Message)
	assert.NotContains(t, body.Message, "pq")
}

func TestWithDetails_LeavesSentinelUntouched(t *testing.T) {
	detailed := ErrCampaignNotFound.WithDetails("extra")

	assert.Equal(t, "extra", detailed.Details)
	assert.Nil(t, ErrCampaignNotFound.Details)
	assert.True(t, errors.Is(ErrCampaignNotFound, ErrCampaignNotFound))
}
