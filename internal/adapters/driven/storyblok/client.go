package storyblok

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/cmsbuild/internal/core/domain"
	"github.com/custodia-labs/cmsbuild/internal/core/ports/driven"
)

const (
	// DefaultBaseURL is the Storyblok content delivery API root.
	DefaultBaseURL = "https://api.storyblok.com/v2"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 512
)

// Ensure Client implements the interface.
var _ driven.ContentSource = (*Client)(nil)

// Config configures a Storyblok client.
type Config struct {
	// Token is the content delivery access token.
	Token string

	// BaseURL overrides DefaultBaseURL.
	BaseURL string

	// Rate is the proactive request rate per second.
	Rate float64

	// Timeout overrides DefaultTimeout.
	Timeout time.Duration
}

// Client fetches stories over HTTP.
type Client struct {
	http        *http.Client
	baseURL     string
	token       string
	rateLimiter *RateLimiter
}

// NewClient creates a Storyblok client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, ErrMissingToken
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("%w: base url %q: %v", domain.ErrInvalidConfig, baseURL, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		http:        &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		token:       cfg.Token,
		rateLimiter: NewRateLimiter(cfg.Rate),
	}, nil
}

// Get requests one page of stories under slug.
func (c *Client) Get(ctx context.Context, slug string, params domain.StoryParams) (*domain.StoriesResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	endpoint := c.endpoint(slug, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", slug, err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			URL:        redact(endpoint),
		}
	}

	var out domain.StoriesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode stories: %w", err)
	}
	return &out, nil
}

// endpoint builds the request URL for slug and params.
func (c *Client) endpoint(slug string, params domain.StoryParams) string {
	q := url.Values{}
	q.Set("token", c.token)
	if params.Version != "" {
		q.Set("version", string(params.Version))
	}
	if params.StartsWith != "" {
		q.Set("starts_with", params.StartsWith)
	}
	if params.SortBy != "" {
		q.Set("sort_by", params.SortBy)
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}

	return c.baseURL + "/" + strings.Trim(slug, "/") + "?" + q.Encode()
}

// redact removes the token from a URL used in error messages.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	if q.Has("token") {
		q.Set("token", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
