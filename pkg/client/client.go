// Package client talks to the bank REST API. Each method performs exactly one
// HTTP round trip and never retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "bank-client/1.0"

	// RequestIDHeader carries a per round trip id so server logs can be matched.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 64 << 10
	maxBody      = 8 << 20
)

// Config holds client configuration.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables limiting
	Burst     int
	UserAgent string
}

// Client is a client for the bank API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	token      func() string
	log        *logrus.Entry
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Config.Timeout is then
// ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(log *logrus.Entry) Option {
	return func(c *Client) { c.log = log }
}

// WithToken sets the source of the bearer token. It is called once per
// request so a refreshed login is picked up.
func WithToken(token func() string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a new bank API client.
func New(cfg Config, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
		log:        logrus.NewEntry(logrus.StandardLogger()),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

// request describes one round trip.
type request struct {
	method string
	path   string
	query  url.Values
	body   interface{} // JSON encoded when set
	form   url.Values  // form encoded when set
}

// do sends r and decodes a 2xx body into out when out is non-nil. Non-2xx
// responses are returned as *APIError.
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var (
		bodyReader  io.Reader
		contentType string
	)
	switch {
	case r.body != nil:
		b, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
		contentType = "application/json"
	case r.form != nil:
		bodyReader = strings.NewReader(r.form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     r.method,
		"path":       r.path,
		"request_id": requestID,
	})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("request failed")
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	log = log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := newAPIError(resp, body)
		log.WithField("detail", apiErr.Detail).Debug("request rejected")
		return apiErr
	}
	log.Debug("request completed")

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
