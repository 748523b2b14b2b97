// Package hyveapi is the console's client for the HYVE REST API. It attaches
// the session's bearer token, maps failures onto domain errors and decodes
// response envelopes into typed results.
package hyveapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource supplies the bearer token of the session carried by ctx and
// tears that session down when the API rejects the token.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate(ctx context.Context) error
}

// Observer is notified after every API call. status is 0 when the request
// never produced a response.
type Observer interface {
	ObserveAPICall(method, route string, status int, elapsed time.Duration)
}

// Config holds client settings.
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithObserver registers an Observer for call metrics.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// Client calls the HYVE REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	tokens     TokenSource
	observer   Observer
	logger     *slog.Logger
}

// NewClient creates a Client. tokens may be nil for unauthenticated use.
func NewClient(cfg Config, tokens TokenSource, logger *slog.Logger, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "hyve-admin"
	}
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:  cfg.UserAgent,
		tokens:     tokens,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request and returns the body of a 2xx response.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPatch, path, nil, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Do performs one request against the API. A non-2xx status, or a 2xx
// envelope with success=false, is returned as a *domain.AppError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}

	route := routeLabel(path)
	start := time.Now()

	c.logger.DebugContext(ctx, "hyve api request",
		slog.String("method", method),
		slog.String("route", route),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, route, 0, time.Since(start))
		c.logger.ErrorContext(ctx, "hyve api request failed",
			slog.String("method", method),
			slog.String("route", route),
			slog.Any("error", err),
		)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.observe(method, route, resp.StatusCode, elapsed)
	if err != nil {
		return nil, transportError(fmt.Errorf("read response body: %w", err))
	}

	c.logger.DebugContext(ctx, "hyve api response",
		slog.String("method", method),
		slog.String("route", route),
		slog.Int("status", resp.StatusCode),
		slog.Int("body_length", len(data)),
		slog.Duration("latency", elapsed),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError(ctx, path, resp.StatusCode, data)
	}
	if err := envelopeFailure(data); err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil && !isCredentialEndpoint(path) {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

func (c *Client) statusError(ctx context.Context, path string, status int, body []byte) error {
	apiErr := mapStatus(path, status, body)
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	c.logger.Log(ctx, level, "hyve api returned error status",
		slog.String("route", routeLabel(path)),
		slog.Int("status", status),
		slog.String("message", apiErr.Message),
	)

	if status == http.StatusUnauthorized && !isCredentialEndpoint(path) && c.tokens != nil {
		if err := c.tokens.Invalidate(ctx); err != nil {
			c.logger.ErrorContext(ctx, "session invalidation failed", slog.Any("error", err))
		}
	}
	return apiErr
}

func (c *Client) observe(method, route string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveAPICall(method, route, status, elapsed)
	}
}

// isCredentialEndpoint reports whether a 401 from path means bad credentials
// rather than an expired session.
func isCredentialEndpoint(path string) bool {
	p := "/" + strings.Trim(path, "/")
	return p == "/auth/login" || p == "/auth/signup"
}

// routeLabel replaces identifier segments so that metric labels stay bounded:
// "/admin/freelancers/6650f1aa0c3b2e7d9f12ab34/verify" becomes
// "/admin/freelancers/:id/verify".
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		if looksLikeID(s) {
			segs[i] = ":id"
		}
	}
	return "/" + strings.Join(segs, "/")
}

// looksLikeID matches the identifier shapes the HYVE API hands out: numeric
// ids, 24 hex digit ObjectIDs and UUIDs.
func looksLikeID(s string) bool {
	switch {
	case s == "":
		return false
	case isDigits(s):
		return true
	case len(s) == 24 && isHex(s):
		return true
	}
	return uuid.Validate(s) == nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isHex(s string) bool {
	for _, r := range s {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r >= 'A' && r <= 'F') {
			return false
		}
	}
	return true
}
