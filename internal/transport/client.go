// Package transport provides the HTTP client shared by provider downloads and
// liveness probes: a bounded per-request timeout, a fixed User-Agent and an
// optional token-bucket limit on request rate.
package transport

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/agentstation/bangmap/pkg/constants"
	"github.com/agentstation/bangmap/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// UserAgent identifies bangmap to the hosts it contacts.
const UserAgent = "bangmap/1.0 (+https://github.com/agentstation/bangmap)"

// Client provides HTTP client functionality with rate limiting.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the total timeout of a single request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRateLimit limits the client to rps requests per second across all
// goroutines. A non-positive rps means unlimited.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithHTTPClient uses a copy of hc as the underlying HTTP client. Its timeout
// is kept unless WithTimeout is applied after it; hc itself is never changed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			copied := *hc
			c.http = &copied
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a new transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent: UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// Do performs an HTTP request, waiting for the rate limiter first. The wait
// honours the request context.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	return c.request(ctx, http.MethodGet, url)
}

// Head performs a HEAD request.
func (c *Client) Head(ctx context.Context, url string) (*http.Response, error) {
	return c.request(ctx, http.MethodHead, url)
}

func (c *Client) request(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", method+" "+url, err)
	}
	return c.Do(req)
}
