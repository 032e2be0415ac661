package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BunnyStorage stores media in a Bunny.net storage zone served through its pull zone (BaseURL).
type BunnyStorage struct {
	client  *http.Client
	host    string
	zone    string
	key     string
	baseURL string
}

func NewBunnyStorage(cfg Config) (*BunnyStorage, error) {
	if cfg.BunnyZone == "" || cfg.BunnyKey == "" {
		return nil, fmt.Errorf("bunny zone and key are required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url (pull zone) is required for bunny storage")
	}

	host := cfg.BunnyHost
	if host == "" {
		host = "https://storage.bunnycdn.com"
	}

	return &BunnyStorage{
		client:  &http.Client{Timeout: 5 * time.Minute},
		host:    host,
		zone:    cfg.BunnyZone,
		key:     cfg.BunnyKey,
		baseURL: cfg.BaseURL,
	}, nil
}

func (s *BunnyStorage) objectURL(key string) string {
	return joinURL(joinURL(s.host, s.zone), key)
}

func (s *BunnyStorage) Save(ctx context.Context, key string, reader io.Reader, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.objectURL(key), reader)
	if err != nil {
		return fmt.Errorf("failed to build bunny upload request: %w", err)
	}
	req.Header.Set("AccessKey", s.key)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload to bunny: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bunny upload failed with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func (s *BunnyStorage) Delete(ctx context.Context, key string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.objectURL(key), nil)
	if err != nil {
		return fmt.Errorf("failed to build bunny delete request: %w", err)
	}
	req.Header.Set("AccessKey", s.key)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to delete from bunny: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("bunny delete failed with status %d", resp.StatusCode)
	}
}

func (s *BunnyStorage) GetURL(ctx context.Context, key string) (string, error) {
	return joinURL(s.baseURL, key), nil
}

func (s *BunnyStorage) Name() string {
	return "bunny"
}
