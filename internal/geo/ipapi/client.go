// Package ipapi implements geo.Resolver against the ip-api.com JSON
// endpoint. Free tier allows 45 requests per minute.
package ipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	v1 "github.com/zmarties-lab/storefront-api/internal/api/v1"
)

const (
	// DefaultEndpoint is the ip-api.com lookup base. The IP is appended
	// as a path segment.
	DefaultEndpoint = "http://ip-api.com/json"

	// DefaultTimeout bounds every lookup. A slow geolocation provider
	// must never stall a record write longer than this.
	DefaultTimeout = 5 * time.Second
)

// Client resolves countries via ip-api.com.
// Lookups degrade to an empty country on any failure; Resolve only logs.
type Client struct {
	endpoint string
	http     *http.Client
}

// New creates a client for the given endpoint (DefaultEndpoint when empty)
// with the given timeout (DefaultTimeout when <= 0).
func New(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: timeout},
	}
}

// lookupResponse is the subset of the ip-api.com payload we read.
type lookupResponse struct {
	Status  string `json:"status"`
	Country string `json:"country"`
}

// Resolve returns the country for ip, or "" when the address is absent,
// non-routable, or the lookup fails for any reason. The error return is
// always nil; it exists to satisfy geo.Resolver.
func (c *Client) Resolve(ctx context.Context, ip string) (string, error) {
	if ip == "" || ip == v1.UnknownIP {
		return "", nil
	}

	// Private and reserved ranges have no meaningful geolocation; skip
	// the network round-trip entirely.
	if isPrivateIP(ip) {
		return "", nil
	}

	url := fmt.Sprintf("%s/%s?fields=status,country,countryCode", c.endpoint, ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Warn("Geolocation request build failed", "ip", ip, "error", err)
		return "", nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Warn("Geolocation lookup failed", "ip", ip, "error", err)
		return "", nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("Geolocation lookup returned non-200", "ip", ip, "status", resp.StatusCode)
		return "", nil
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		slog.Warn("Geolocation response decode failed", "ip", ip, "error", err)
		return "", nil
	}

	if body.Status != "success" || body.Country == "" {
		return "", nil
	}

	return body.Country, nil
}

// isPrivateIP reports whether ip falls in a loopback, private, or
// link-local range, or is not a parseable address at all. The whole
// 172.0.0.0/8 block counts as private, wider than RFC1918's
// 172.16.0.0/12.
func isPrivateIP(ip string) bool {
	if strings.HasPrefix(ip, "172.") {
		return true
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return true
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified()
}
