// Package client talks to a fact-check service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/util"
)

const (
	defaultUserAgent = "factcheck/0.1 (+https://github.com/ppiankov/factcheck)"
	defaultMaxBytes  = 8 << 20
)

// ErrMalformedResponse is returned when a 2xx body is not valid JSON
var ErrMalformedResponse = errors.New("malformed response")

// StatusError is returned for any non-2xx response
type StatusError struct {
	StatusCode int
	Status     string
	Body       string // First bytes of the body, for diagnostics
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.StatusCode, e.Status)
}

// Client posts text to <endpoint>/fact-check
type Client struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom http.Client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout sets an overall request timeout (0 keeps the transport default)
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithProxy routes requests through explicit proxies, falling back to the environment
func WithProxy(httpProxy, httpsProxy string) Option {
	return func(c *Client) {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.Proxy = util.NewProxyFunc(httpProxy, httpsProxy, "")
		c.httpClient.Transport = t
	}
}

// New creates a client for the service at endpoint (e.g. http://localhost:5000)
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{},
		userAgent:  defaultUserAgent,
		maxBytes:   defaultMaxBytes,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// FromConfig builds a client from the client section of the configuration
func FromConfig(cfg model.ClientConfig) *Client {
	return New(cfg.Endpoint,
		WithUserAgent(cfg.UserAgent),
		WithProxy(cfg.HTTPProxy, cfg.HTTPSProxy),
		WithTimeout(cfg.Timeout),
	)
}

// Endpoint returns the configured base address
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Check sends text for fact-checking and decodes the verdict list.
// Exactly one request is made; there is no retry.
func (c *Client) Check(ctx context.Context, text string) (*model.FactCheckResponse, error) {
	body, err := json.Marshal(model.FactCheckRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/fact-check", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return decodeResults(data)
}

// Health queries GET <endpoint>/health
func (c *Client) Health(ctx context.Context) (*model.HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	data, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var out model.HealthStatus
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &out, nil
}

// do sends req and returns the body of a 2xx response
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Body:       snippet(data, 512),
		}
	}
	return data, nil
}

// resultShape is only used to check that every claim carries a result
type resultShape struct {
	FactCheckResults []struct {
		Result json.RawMessage `json:"result"`
	} `json:"fact_check_results"`
}

// decodeResults decodes a /fact-check body. A body that is not an object,
// or a claim without a result, is malformed. An absent or empty claim list
// is not.
func decodeResults(data []byte) (*model.FactCheckResponse, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedResponse)
	}

	var shape resultShape
	if err := json.Unmarshal(trimmed, &shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for i, r := range shape.FactCheckResults {
		if len(r.Result) == 0 || bytes.Equal(r.Result, []byte("null")) {
			return nil, fmt.Errorf("%w: claim %d has no result", ErrMalformedResponse, i+1)
		}
	}

	var out model.FactCheckResponse
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &out, nil
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return strings.TrimSpace(string(b))
}
