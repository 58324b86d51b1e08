package gateway

import (
	"context"
	"net/http"

	"github.com/mmynk/freelancepay/internal/failure"
	"github.com/mmynk/freelancepay/internal/models"
)

// Me returns the user owning the current session.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login starts a session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	return c.startSession(ctx, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register creates an account and starts a session for it.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return c.startSession(ctx, "/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

func (c *Client) startSession(ctx context.Context, path string, body map[string]string) (*models.User, error) {
	var env sessionEnvelope
	if err := c.do(ctx, http.MethodPost, path, body, &env); err != nil {
		return nil, err
	}
	if env.User == nil {
		return nil, failure.New(failure.Malformed, "session response without user", nil)
	}
	c.token = env.Token
	return env.User, nil
}

// Logout ends the session on the server. The local token is dropped even if
// the call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil)
	c.ClearToken()
	return err
}

// ClearToken forgets the bearer token without contacting the server, for
// tokens the server has already refused.
func (c *Client) ClearToken() {
	c.token = ""
}

// Stats returns the dashboard totals.
func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &stats)
	return stats, err
}
