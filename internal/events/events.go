// Package events announces invoice and client changes to other systems.
package events

import (
	"context"
	"time"
)

// Type names a change.
type Type string

const (
	InvoiceCreated       Type = "invoice.created"
	InvoiceUpdated       Type = "invoice.updated"
	InvoiceStatusChanged Type = "invoice.status_changed"
	InvoiceDeleted       Type = "invoice.deleted"
	ClientDeleted        Type = "client.deleted"
)

// Event is one change made by a user.
type Event struct {
	Type       Type      `json:"type"`
	UserID     int64     `json:"user_id"`
	ClientID   int64     `json:"client_id,omitempty"`
	InvoiceID  int64     `json:"invoice_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Amount     *float64  `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
