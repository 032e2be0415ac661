package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Storage is where uploaded media lives. Keys are generated by the upload service.
type Storage interface {
	// Save stores the content at key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for key
	GetURL(ctx context.Context, key string) (string, error)

	// Name identifies the backend in logs
	Name() string
}

// Config holds storage configuration
type Config struct {
	Type       string // local, cloudflare_r2, bunny
	BasePath   string // local
	BaseURL    string // public URL base
	Bucket     string // R2
	AccessKey  string // R2
	SecretKey  string // R2
	Endpoint   string // R2
	PublicRead bool   // R2
	BunnyZone  string // Bunny storage zone
	BunnyKey   string // Bunny storage zone password
	BunnyHost  string // Bunny storage API host
}

// NewStorage creates a storage backend from cfg.
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	case "bunny":
		return NewBunnyStorage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
