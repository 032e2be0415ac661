package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requiredEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DATABASE_URL", "postgres://localhost/outbound_test")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	requiredEnv(t)
	t.Setenv("SERVER_PORT", "5050")
	t.Setenv("STORAGE_TYPE", "bunny")
	t.Setenv("STRIPE_PRICES", "INDIVIDUAL:price_ind,ENTERPRISE:price_ent")
	t.Setenv("JOBS_CHAT_IDLE_TIMEOUT", "20m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5050, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "bunny", cfg.Storage.Type)
	assert.Equal(t, "price_ind", cfg.Stripe.Prices["INDIVIDUAL"])
	assert.Equal(t, "price_ent", cfg.Stripe.Prices["ENTERPRISE"])
	assert.Equal(t, 20*time.Minute, cfg.Jobs.ChatIdleTimeout)
	assert.Equal(t, 2*time.Hour, cfg.Jobs.ConnRefreshInterval)
	assert.Equal(t, "*/5 * * * *", cfg.Jobs.ChatAutoCloseSchedule)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	requiredEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 7000
  env: production
email:
  provider: smtp
  smtp_host: mail.example.com
`), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "7100")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7100, cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.Equal(t, "mail.example.com", cfg.Email.SMTPHost)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestValidate_StorageType(t *testing.T) {
	cfg := Defaults()
	cfg.Database.DSN = "postgres://x"
	cfg.JWT.Secret = "s"
	cfg.Storage.Type = "s3"

	assert.ErrorContains(t, cfg.Validate(), "unsupported storage type")
}
