package helpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Account is a registered user and their bearer token.
type Account struct {
	ID    string
	Email string
	Token string
}

// RegisterAccount signs up a user with a unique email through the API.
func RegisterAccount(t *testing.T, ts *TestServer, name string) Account {
	t.Helper()
	email := fmt.Sprintf("%s_%d@test.outbound", name, time.Now().UnixNano())

	res, body := ts.SendRequest(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode, body)

	var parsed struct {
		Data struct {
			Token string `json:"token"`
			User  struct {
				ID string `json:"id"`
			} `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &parsed))
	require.NotEmpty(t, parsed.Data.Token)

	return Account{ID: parsed.Data.User.ID, Email: email, Token: parsed.Data.Token}
}

// DataOf decodes the "data" field of a success envelope into out.
func DataOf(t *testing.T, body string, out interface{}) {
	t.Helper()
	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &envelope))
	require.Equal(t, "success", envelope.Status, body)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
