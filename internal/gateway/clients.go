package gateway

import (
	"context"
	"net/http"

	"github.com/mmynk/freelancepay/internal/models"
)

// ListClients returns every client of the current user, in server order.
func (c *Client) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := c.do(ctx, http.MethodGet, "/clients", nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// CreateClient creates a client and returns its ID.
func (c *Client) CreateClient(ctx context.Context, in models.ClientInput) (int64, error) {
	var env messageEnvelope
	if err := c.do(ctx, http.MethodPost, "/clients", in, &env); err != nil {
		return 0, err
	}
	return env.ID, nil
}

// UpdateClient replaces the editable fields of a client.
func (c *Client) UpdateClient(ctx context.Context, id int64, in models.ClientInput) error {
	return c.do(ctx, http.MethodPut, idPath("/clients", id), in, &messageEnvelope{})
}

// DeleteClient deletes a client; the server deletes its invoices too.
func (c *Client) DeleteClient(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/clients", id), nil, &messageEnvelope{})
}
