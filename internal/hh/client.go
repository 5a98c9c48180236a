// Package hh talks to the hh.ru website: it searches vacancies page by page
// and submits applications with a resume. Client implements
// core.PostingSource and core.ApplyAction.
package hh

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://hh.ru"
	userAgent      = "Mozilla/5.0"
	maxBodySize    = 16 << 20
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithWebsiteVersion sets the X-Static-Version sent with search requests.
// Without it the version is detected from the landing page on first use.
func WithWebsiteVersion(v string) Option {
	return func(c *Client) { c.version = v }
}

// WithRateLimit throttles outgoing requests to rps per second.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client is an hh.ru website client.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	version   string
	versionMu chan struct{}
}

// NewClient creates a Client for the public hh.ru website.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		http:      &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Inf, 1),
		logger:    slog.Default(),
		versionMu: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var versionPattern = regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{1,2}\.\d{1,2}`)

// WebsiteVersion returns the configured website version or detects it from
// the landing page. A detected version is cached.
func (c *Client) WebsiteVersion(ctx context.Context) (string, error) {
	select {
	case c.versionMu <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-c.versionMu }()

	if c.version != "" {
		return c.version, nil
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/?hhtmFrom=resume_list", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	_, body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch landing page: %w", err)
	}
	v := versionPattern.Find(body)
	if v == nil {
		return "", ErrVersionNotFound
	}
	c.version = string(v)
	c.logger.Info("detected website version", "version", c.version)
	return c.version, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	return req, nil
}

// do waits for the limiter, sends the request and reads the whole body.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return 0, nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	return resp.StatusCode, body, nil
}
