package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

// Unknown is reported when the country cannot be determined.
const Unknown = "Unknown"

// Locator resolves an IP address to a country name.
type Locator interface {
	Country(ctx context.Context, ip string) string
}

// Client queries the ip-api.com JSON endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type lookupResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
}

// Country never fails: lookup errors and non-routable addresses yield Unknown.
func (c *Client) Country(ctx context.Context, ip string) string {
	if !isPublic(ip) {
		return Unknown
	}

	country, err := c.lookup(ctx, ip)
	if err != nil || country == "" {
		return Unknown
	}
	return country
}

func (c *Client) lookup(ctx context.Context, ip string) (string, error) {
	url := fmt.Sprintf("%s/json/%s?fields=status,country", c.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geo lookup returned status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.Status != "success" {
		return "", fmt.Errorf("geo lookup failed for %s", ip)
	}
	return body.Country, nil
}

func isPublic(ip string) bool {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil {
		return false
	}
	return !(parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() || parsed.IsLinkLocalUnicast())
}
