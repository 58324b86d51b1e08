// Package gateway is the HTTP client for the FreelancePay REST API. Every
// method is a single request/response exchange: no retries, no caching, no
// timeout beyond the transport's own.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/mmynk/freelancepay/internal/failure"
	"github.com/mmynk/freelancepay/internal/models"
)

// DefaultBaseURL is where the development server listens.
const DefaultBaseURL = "http://localhost:5000/api"

const maxResponseBytes = 4 << 20

// Client talks to the REST API. It keeps the session both as a cookie (set by
// the server on login) and as a bearer token that callers may persist.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the logger used for per-request debug logs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client for the API rooted at baseURL (for example
// http://localhost:5000/api).
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	jar, _ := cookiejar.New(nil) // only fails on a non-nil PublicSuffixList error
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current bearer token, empty when logged out.
func (c *Client) Token() string { return c.token }

// errorEnvelope is the failure body the server sends.
type errorEnvelope struct {
	Error string `json:"error"`
}

// messageEnvelope is the success body of mutations.
type messageEnvelope struct {
	ID      int64  `json:"id,omitempty"`
	Message string `json:"message"`
}

// sessionEnvelope is the body of login and register.
type sessionEnvelope struct {
	User    *models.User `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

// do performs one exchange. A nil out ignores the response body; otherwise
// the body must decode into out or the call fails as Malformed.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	start := time.Now()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return failure.New(failure.LocalValidation, "could not encode request", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return failure.New(failure.LocalValidation, "could not build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("API request failed", "method", method, "path", path, "error", err)
		return failure.New(failure.Network, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return failure.New(failure.Network, "", fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug("API request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env errorEnvelope
		_ = json.Unmarshal(raw, &env) // the message is optional
		return failure.FromStatus(resp.StatusCode, env.Error)
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return failure.New(failure.Malformed, "empty response", nil)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return failure.New(failure.Malformed, "unexpected response from server", err)
	}
	return nil
}

func idPath(prefix string, id int64) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
