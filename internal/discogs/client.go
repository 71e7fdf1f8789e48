package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fbm3334/recordshelf/internal/util"
)

const (
	// BaseURL is the Discogs API base URL
	BaseURL = "https://api.discogs.com"

	// UserAgent identifies this application to Discogs
	// Discogs requires a proper user agent
	UserAgent = "RecordShelf/1.0 (https://github.com/fbm3334/recordshelf)"

	// RateLimit is the minimum spacing between requests; Discogs allows
	// 60 authenticated requests per minute
	RateLimit = 1 * time.Second

	// CollectionPageSize is the per_page value for collection enumeration
	CollectionPageSize = 100
)

// ErrNoToken is returned when an operation requires authentication but no
// personal access token is configured
var ErrNoToken = errors.New("no personal access token configured")

// Client handles Discogs API requests with rate limiting
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	token       string
	rateLimiter *time.Ticker
}

// NewClient creates a new Discogs API client using the given personal
// access token. The token may be empty; authenticated calls will then
// fail with ErrNoToken.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     BaseURL,
		userAgent:   UserAgent,
		token:       token,
		rateLimiter: time.NewTicker(RateLimit),
	}
}

// Close releases resources used by the client
func (c *Client) Close() {
	if c.rateLimiter != nil {
		c.rateLimiter.Stop()
	}
}

// Identity fetches the authenticated user from Discogs
func (c *Client) Identity(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := c.get(ctx, "/oauth/identity", nil, &identity); err != nil {
		return nil, err
	}

	util.DebugLog("Discogs: authenticated as '%s'", identity.Username)
	return &identity, nil
}

// CollectionReleases fetches one page of the user's main collection
// folder (folder 0, "All")
func (c *Client) CollectionReleases(ctx context.Context, username string, page int) (*CollectionPage, error) {
	if username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}

	query := url.Values{}
	query.Set("page", fmt.Sprintf("%d", page))
	query.Set("per_page", fmt.Sprintf("%d", CollectionPageSize))

	path := fmt.Sprintf("/users/%s/collection/folders/0/releases", url.PathEscape(username))

	var result CollectionPage
	if err := c.get(ctx, path, query, &result); err != nil {
		return nil, err
	}

	util.DebugLog("Discogs: collection page %d/%d (%d items total)",
		result.Pagination.Page, result.Pagination.Pages, result.Pagination.Items)

	return &result, nil
}

// Release fetches the full record of a single release
func (c *Client) Release(ctx context.Context, id int64) (*ReleaseDetail, error) {
	if id <= 0 {
		return nil, fmt.Errorf("release id must be positive")
	}

	var detail ReleaseDetail
	if err := c.get(ctx, fmt.Sprintf("/releases/%d", id), nil, &detail); err != nil {
		return nil, err
	}

	return &detail, nil
}

// get performs a rate-limited authenticated GET and decodes the JSON body
func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	if c.token == "" {
		return ErrNoToken
	}

	// Wait for rate limit
	select {
	case <-c.rateLimiter.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	urlStr := c.baseURL + path
	if len(query) > 0 {
		urlStr += "?" + query.Encode()
	}

	util.DebugLog("Discogs API: GET %s", path)

	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Discogs token="+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("Discogs rate limit exceeded (429)")
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("Discogs rejected the access token (401)")
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("not found (404): %s", path)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
