package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

type ServerConfig struct {
	Host          string `yaml:"host" envconfig:"HOST"`
	Port          int    `yaml:"port" envconfig:"PORT"`
	Env           string `yaml:"env" envconfig:"ENV"`
	PublicBaseURL string `yaml:"public_base_url" envconfig:"PUBLIC_BASE_URL"` // Base for /l/:slug and /c/:slug links
	FrontendURL   string `yaml:"frontend_url" envconfig:"FRONTEND_URL"`       // Used for CORS and email links
}

type DatabaseConfig struct {
	DSN          string `yaml:"url" envconfig:"URL"`
	MaxOpenConns int    `yaml:"max_open_conns" envconfig:"MAX_OPEN_CONNS"`
	MaxIdleConns int    `yaml:"max_idle_conns" envconfig:"MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	URL string `yaml:"url" envconfig:"URL"`
}

type JWTConfig struct {
	Secret string `yaml:"secret" envconfig:"SECRET"`
	TTL    int    `yaml:"ttl" envconfig:"TTL"` // minutes
}

type StorageConfig struct {
	Type       string `yaml:"type" envconfig:"TYPE"`               // local, cloudflare_r2, bunny
	BasePath   string `yaml:"base_path" envconfig:"BASE_PATH"`     // local
	BaseURL    string `yaml:"base_url" envconfig:"BASE_URL"`       // public URL base (all types)
	Bucket     string `yaml:"bucket" envconfig:"BUCKET"`           // R2
	AccessKey  string `yaml:"access_key" envconfig:"ACCESS_KEY"`   // R2
	SecretKey  string `yaml:"secret_key" envconfig:"SECRET_KEY"`   // R2
	Endpoint   string `yaml:"endpoint" envconfig:"ENDPOINT"`       // R2
	BunnyZone  string `yaml:"bunny_zone" envconfig:"BUNNY_ZONE"`   // Bunny storage zone name
	BunnyKey   string `yaml:"bunny_key" envconfig:"BUNNY_KEY"`     // Bunny storage zone password
	BunnyHost  string `yaml:"bunny_host" envconfig:"BUNNY_HOST"`   // e.g. https://storage.bunnycdn.com
	PublicRead bool   `yaml:"public_read" envconfig:"PUBLIC_READ"` // R2 object ACL
}

type UploadConfig struct {
	MaxSize      int64    `yaml:"max_size" envconfig:"MAX_SIZE"` // bytes per file
	AllowedTypes []string `yaml:"allowed_types" envconfig:"ALLOWED_TYPES"`
}

type EmailConfig struct {
	Provider     string `yaml:"provider" envconfig:"PROVIDER"` // resend, smtp, mock
	ResendAPIKey string `yaml:"resend_api_key" envconfig:"RESEND_API_KEY"`
	SMTPHost     string `yaml:"smtp_host" envconfig:"SMTP_HOST"`
	SMTPPort     int    `yaml:"smtp_port" envconfig:"SMTP_PORT"`
	SMTPUsername string `yaml:"smtp_user" envconfig:"SMTP_USER"`
	SMTPPassword string `yaml:"smtp_password" envconfig:"SMTP_PASSWORD"`
	FromEmail    string `yaml:"from_email" envconfig:"FROM_EMAIL"`
	FromName     string `yaml:"from_name" envconfig:"FROM_NAME"`
}

type StripeConfig struct {
	SecretKey     string            `yaml:"secret_key" envconfig:"SECRET_KEY"`
	WebhookSecret string            `yaml:"webhook_secret" envconfig:"WEBHOOK_SECRET"`
	Prices        map[string]string `yaml:"prices" envconfig:"PRICES"` // plan -> price ID
	ReturnURL     string            `yaml:"return_url" envconfig:"RETURN_URL"`
}

type GeoConfig struct {
	BaseURL string        `yaml:"base_url" envconfig:"BASE_URL"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

type JobsConfig struct {
	ChatAutoCloseSchedule string        `yaml:"chat_auto_close_schedule" envconfig:"CHAT_AUTO_CLOSE_SCHEDULE"`
	ChatIdleTimeout       time.Duration `yaml:"chat_idle_timeout" envconfig:"CHAT_IDLE_TIMEOUT"`
	ConnRefreshInterval   time.Duration `yaml:"conn_refresh_interval" envconfig:"CONN_REFRESH_INTERVAL"`
	StuckConnInterval     time.Duration `yaml:"stuck_conn_interval" envconfig:"STUCK_CONN_INTERVAL"`
}

type TwoFactorConfig struct {
	CodeTTL time.Duration `yaml:"code_ttl" envconfig:"CODE_TTL"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Database  DatabaseConfig  `yaml:"database" envconfig:"DATABASE"`
	Redis     RedisConfig     `yaml:"redis" envconfig:"REDIS"`
	JWT       JWTConfig       `yaml:"jwt" envconfig:"JWT"`
	Storage   StorageConfig   `yaml:"storage" envconfig:"STORAGE"`
	Upload    UploadConfig    `yaml:"upload" envconfig:"UPLOAD"`
	Email     EmailConfig     `yaml:"email" envconfig:"EMAIL"`
	Stripe    StripeConfig    `yaml:"stripe" envconfig:"STRIPE"`
	Geo       GeoConfig       `yaml:"geo" envconfig:"GEO"`
	Jobs      JobsConfig      `yaml:"jobs" envconfig:"JOBS"`
	TwoFactor TwoFactorConfig `yaml:"two_factor" envconfig:"TWO_FACTOR"`

	FirstAdminEmail    string `yaml:"first_admin_email" envconfig:"FIRST_ADMIN_EMAIL"`
	FirstAdminPassword string `yaml:"first_admin_password" envconfig:"FIRST_ADMIN_PASSWORD"`
}

var AppConfig *Config

// Defaults returns a config with every optional value filled in.
func Defaults() *Config {
	cfg := &Config{}

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 4000
	cfg.Server.Env = "development"
	cfg.Server.PublicBaseURL = "http://localhost:4000"
	cfg.Server.FrontendURL = "http://localhost:3000"

	cfg.Database.MaxOpenConns = 25
	cfg.Database.MaxIdleConns = 5

	cfg.Redis.URL = "redis://localhost:6379/0"

	cfg.JWT.TTL = 7 * 24 * 60

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"
	cfg.Storage.BaseURL = "/uploads"
	cfg.Storage.BunnyHost = "https://storage.bunnycdn.com"

	cfg.Upload.MaxSize = 500 * 1024 * 1024
	cfg.Upload.AllowedTypes = []string{
		"image/jpeg", "image/png", "image/gif", "image/webp",
		"video/mp4", "video/quicktime", "video/webm",
		"audio/mpeg", "audio/wav", "audio/ogg", "audio/mp4",
	}

	cfg.Email.Provider = "mock"
	cfg.Email.SMTPPort = 587
	cfg.Email.FromEmail = "noreply@outboundimpact.org"
	cfg.Email.FromName = "Outbound Impact"

	cfg.Geo.BaseURL = "http://ip-api.com"
	cfg.Geo.Timeout = 3 * time.Second

	cfg.Jobs.ChatAutoCloseSchedule = "*/5 * * * *"
	cfg.Jobs.ChatIdleTimeout = 15 * time.Minute
	cfg.Jobs.ConnRefreshInterval = 2 * time.Hour
	cfg.Jobs.StuckConnInterval = 3 * time.Hour

	cfg.TwoFactor.CodeTTL = 10 * time.Minute

	return cfg
}

// Load builds the config from defaults, then the YAML file at CONFIG_PATH
// (if present), then environment variables. A .env file is loaded first when it exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if f, err := os.Open(configPath); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file at %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to open config file at %s: %w", configPath, err)
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values the server cannot start without.
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database url is required (DATABASE_URL)")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret is required (JWT_SECRET)")
	}
	switch c.Storage.Type {
	case "local", "cloudflare_r2", "bunny":
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func LoadConfig() {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
