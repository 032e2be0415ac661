package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"outbound_backend/internal/app"
	"outbound_backend/internal/config"
	"outbound_backend/internal/email"
	"outbound_backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestServer runs the full router against a real Postgres and an in-memory Redis.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	App    *app.Server
	Redis  *miniredis.Miniredis

	cancel     context.CancelFunc
	storageDir string
}

// NewTestServer skips the calling test when TEST_DATABASE_URL is not set.
func NewTestServer(t *testing.T) *TestServer {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	cfg := config.Defaults()
	cfg.Server.Env = "test"
	cfg.Database.DSN = dsn
	cfg.JWT.Secret = "integration_test_secret"
	cfg.Email.Provider = "mock"
	cfg.Stripe.WebhookSecret = "whsec_integration"

	storageDir, err := os.MkdirTemp("", "outbound-uploads-*")
	if err != nil {
		t.Fatalf("failed to create storage dir: %v", err)
	}
	cfg.Storage.BasePath = storageDir

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		t.Fatalf("failed to connect to test database (%s): %v", dsn, err)
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		t.Fatalf("failed to enable uuid-ossp: %v", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get *sql.DB: %v", err)
	}

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	server := app.NewServer(cfg, db, sqlDB, rdb)
	ctx, cancel := context.WithCancel(context.Background())
	go server.Hub.Run(ctx)

	return &TestServer{
		Server:     httptest.NewServer(server.Router),
		DB:         db,
		App:        server,
		Redis:      mr,
		cancel:     cancel,
		storageDir: storageDir,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.cancel()
	ts.Redis.Close()
	os.RemoveAll(ts.storageDir)
	if sqlDB, err := ts.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// ClearTables empties every table the application owns.
func (ts *TestServer) ClearTables(t *testing.T) {
	err := ts.DB.Exec(`TRUNCATE TABLE users, team_members, organizations, organization_members,
		campaigns, items, analytics, audit_logs, conversations, chat_messages, refund_requests
		RESTART IDENTITY CASCADE`).Error
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// Mailer returns the mock email provider the server was built with.
func (ts *TestServer) Mailer(t *testing.T) *email.MockProvider {
	mock, ok := ts.App.Services.EmailService.(*email.MockProvider)
	if !ok {
		t.Fatalf("email provider is %T, want *email.MockProvider", ts.App.Services.EmailService)
	}
	return mock
}

// SendRequest sends a JSON request and returns the response with its body.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	return ts.SendRequestWithHeaders(t, method, path, token, body, nil)
}

func (ts *TestServer) SendRequestWithHeaders(t *testing.T, method, path, token string, body interface{}, headers map[string]string) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return res, string(resBody)
}
