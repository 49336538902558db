// Package relay forwards a caller-supplied URL to its upstream and relays the
// result, so browser callers can reach APIs that do not grant them CORS access.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every outbound request
const DefaultTimeout = 30 * time.Second

// Kind is the body kind the upstream is expected to return
type Kind int

const (
	KindText Kind = iota
	KindJSON
)

func (k Kind) String() string {
	if k == KindJSON {
		return "json"
	}
	return "text"
}

var (
	ErrMissingURL     = errors.New("no url provided")
	ErrInvalidURL     = errors.New("url must be an absolute http or https url")
	ErrHostNotAllowed = errors.New("upstream host is not allowed")
	ErrMalformedJSON  = errors.New("upstream returned malformed json")
)

// UpstreamError is a non-2xx response from the upstream. The upstream body is
// not kept.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded with status %d", e.StatusCode)
}

// Client issues single-shot GET requests. It keeps no per-request state and is
// safe for concurrent use.
type Client struct {
	httpClient   *http.Client
	allowedHosts map[string]struct{}
	userAgent    string
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds each outbound request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAllowedHosts restricts upstream hosts. An empty list leaves the relay open.
func WithAllowedHosts(hosts []string) Option {
	return func(c *Client) {
		for _, h := range hosts {
			h = strings.ToLower(strings.TrimSpace(h))
			if h == "" {
				continue
			}
			if c.allowedHosts == nil {
				c.allowedHosts = make(map[string]struct{})
			}
			c.allowedHosts[h] = struct{}{}
		}
	}
}

// WithUserAgent sets the User-Agent sent upstream
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a relay client
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  "shelfscope-relay/1.0",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs exactly one GET against rawTarget. rawTarget is used as
// given; callers decode the query string once and pass the result.
func (c *Client) Fetch(ctx context.Context, rawTarget string, kind Kind) ([]byte, error) {
	target, err := c.validate(rawTarget)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if kind == KindJSON {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body from %s: %w", target.Host, err)
	}

	if kind == KindJSON {
		var buf bytes.Buffer
		if err := json.Compact(&buf, body); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
		}
		return buf.Bytes(), nil
	}

	return body, nil
}

// FetchText fetches a raw text body
func (c *Client) FetchText(ctx context.Context, target string) ([]byte, error) {
	return c.Fetch(ctx, target, KindText)
}

// FetchJSON fetches and validates a JSON body
func (c *Client) FetchJSON(ctx context.Context, target string) ([]byte, error) {
	return c.Fetch(ctx, target, KindJSON)
}

func (c *Client) validate(rawTarget string) (*url.URL, error) {
	if strings.TrimSpace(rawTarget) == "" {
		return nil, ErrMissingURL
	}

	u, err := url.Parse(rawTarget)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}

	if len(c.allowedHosts) > 0 {
		if _, ok := c.allowedHosts[strings.ToLower(u.Hostname())]; !ok {
			return nil, ErrHostNotAllowed
		}
	}

	return u, nil
}
