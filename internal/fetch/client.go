package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Default client behavior.
const (
	// defaultTimeout bounds one fetch including redirects.
	defaultTimeout = 30 * time.Second

	// defaultMaxBodySize caps how much HTML is read. Pages larger than
	// this are truncated; the analyzer flags oversized pages anyway.
	defaultMaxBodySize = 5 << 20 // 5 MiB

	// defaultUserAgent identifies the auditor to the target site.
	defaultUserAgent = "pagelens/1.0 (+https://github.com/pagelens/pagelens)"
)

// Client fetches page HTML over HTTP.
//
// Design decision: We keep the rate limiter inside the client rather
// than in the CLI layer because every caller, including batch audits,
// must share one politeness budget. A limiter per call site would
// defeat its purpose.
type Client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	userAgent   string
	maxBodySize int64
	headers     map[string]string
	cookie      string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-fetch timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithMaxBodySize overrides the response size cap in bytes.
func WithMaxBodySize(size int64) Option {
	return func(c *Client) {
		if size > 0 {
			c.maxBodySize = size
		}
	}
}

// WithRateLimit sets the politeness limit in requests per second.
// Zero or negative disables rate limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithHeaders sets additional headers sent with every request.
// Used for site-specific auth configured in the site config file.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.headers = headers
	}
}

// WithCookie sets the Cookie header sent with every request.
func WithCookie(cookie string) Option {
	return func(c *Client) {
		c.cookie = cookie
	}
}

// NewClient creates a fetch client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		limiter:     rate.NewLimiter(rate.Inf, 0),
		userAgent:   defaultUserAgent,
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Result is one fetched page.
type Result struct {
	// URL is the final URL after redirects.
	URL string

	// HTML is the page markup, truncated at the size cap.
	HTML string

	// StatusCode is the final HTTP status.
	StatusCode int

	// ContentType is the response Content-Type header.
	ContentType string

	// FetchedAt is when the response was received.
	FetchedAt time.Time
}

// Fetch retrieves the page at the given URL.
// The URL must already be normalized. Redirects are followed; the
// Result carries the final URL so HTTPS upgrades are scored correctly.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	if pageURL == "" {
		return nil, ErrEmptyURL
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidURL, pageURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %d from %s", ErrHTTPStatus, resp.StatusCode, pageURL)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContentType(contentType) {
		return nil, fmt.Errorf("%w: got %q from %s", ErrUnsupportedContent, contentType, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body from %s: %w", pageURL, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBody, pageURL)
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Result{
		URL:         finalURL,
		HTML:        string(body),
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

// isHTMLContentType accepts HTML responses and responses with no
// declared type. Servers that omit Content-Type usually serve HTML.
func isHTMLContentType(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
