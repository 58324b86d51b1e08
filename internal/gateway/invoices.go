package gateway

import (
	"context"
	"net/http"

	"github.com/mmynk/freelancepay/internal/models"
)

// ListInvoices returns every invoice of the current user, in server order.
func (c *Client) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := c.do(ctx, http.MethodGet, "/invoices", nil, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}

// CreateInvoice creates an unpaid invoice and returns its ID.
func (c *Client) CreateInvoice(ctx context.Context, in models.InvoiceInput) (int64, error) {
	var env messageEnvelope
	if err := c.do(ctx, http.MethodPost, "/invoices", in, &env); err != nil {
		return 0, err
	}
	return env.ID, nil
}

// UpdateInvoice replaces the amount, description and due date of an invoice.
func (c *Client) UpdateInvoice(ctx context.Context, id int64, in models.InvoiceUpdate) error {
	return c.do(ctx, http.MethodPut, idPath("/invoices", id), in, &messageEnvelope{})
}

// SetInvoiceStatus marks an invoice paid or unpaid.
func (c *Client) SetInvoiceStatus(ctx context.Context, id int64, status models.InvoiceStatus) error {
	return c.do(ctx, http.MethodPut, idPath("/invoices", id)+"/status", models.StatusUpdate{Status: status}, &messageEnvelope{})
}

// DeleteInvoice deletes one invoice.
func (c *Client) DeleteInvoice(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, idPath("/invoices", id), nil, &messageEnvelope{})
}
