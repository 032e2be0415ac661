package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"outbound_backend/internal/models"
	"outbound_backend/internal/services/dto"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	slugLength      = 10
	slugAttempts    = 5
)

// normalizePage clamps pagination input to sane values.
func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// uniqueSlug draws short random slugs until exists reports a free one.
func uniqueSlug(db *gorm.DB, exists func(db *gorm.DB, slug string) (bool, error)) (string, error) {
	for i := 0; i < slugAttempts; i++ {
		slug := strings.ReplaceAll(uuid.NewString(), "-", "")[:slugLength]
		taken, err := exists(db, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique slug after %d attempts", slugAttempts)
}

func generateRandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(b)
}

func itemPublicURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/l/" + slug
}

func campaignPublicURL(baseURL, slug string) string {
	return strings.TrimRight(baseURL, "/") + "/c/" + slug
}

func viewTotals(v models.ViewCounters) dto.ViewTotals {
	return dto.ViewTotals{
		Views:       v.Views,
		ViewsQR:     v.ViewsQR,
		ViewsNFC:    v.ViewsNFC,
		ViewsDirect: v.DirectViews(),
	}
}

func buildItemResponse(baseURL string, item *models.Item) dto.ItemResponse {
	return dto.ItemResponse{
		Item:        *item,
		ViewsDirect: item.DirectViews(),
		PublicURL:   itemPublicURL(baseURL, item.Slug),
	}
}

func strPtrOrNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// Settings are the deployment values services need to build links.
type Settings struct {
	PublicBaseURL string
	FrontendURL   string
}
