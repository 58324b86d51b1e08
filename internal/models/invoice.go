package models

import (
	"fmt"
	"time"
)

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	StatusUnpaid InvoiceStatus = "unpaid"
	StatusPaid   InvoiceStatus = "paid"
)

// ParseInvoiceStatus accepts exactly "paid" or "unpaid".
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	switch InvoiceStatus(s) {
	case StatusUnpaid, StatusPaid:
		return InvoiceStatus(s), nil
	}
	return "", fmt.Errorf("invalid invoice status %q", s)
}

// Toggled returns the other status.
func (s InvoiceStatus) Toggled() InvoiceStatus {
	if s == StatusPaid {
		return StatusUnpaid
	}
	return StatusPaid
}

const (
	// CustomDescription is the description preset that must be replaced by
	// free text before an invoice is submitted.
	CustomDescription = "Custom"

	// NoDescription is displayed for invoices without a description.
	NoDescription = "No description"
)

// DescriptionPresets are the descriptions offered when creating an invoice.
var DescriptionPresets = []string{
	"Web Development",
	"Graphic Design",
	"Consulting",
	"Content Writing",
	CustomDescription,
}

// Invoice represents an amount billed to one client.
type Invoice struct {
	// ID is the unique identifier for the invoice.
	ID int64 `json:"id"`

	// ClientID is the owning client. It never changes after creation.
	ClientID int64 `json:"client_id"`

	// ClientName is joined in by the server for display; read-only.
	ClientName string `json:"client_name"`

	// Amount is the billed amount. Never negative.
	Amount float64 `json:"amount"`

	// Description is optional; see DisplayDescription.
	Description string `json:"description"`

	// DueDate is optional; the zero Date means no due date.
	DueDate Date `json:"due_date"`

	// Status is paid or unpaid. New invoices are unpaid.
	Status InvoiceStatus `json:"status"`

	// CreatedAt is set by the server.
	CreatedAt time.Time `json:"created_at"`
}

// DisplayDescription returns the description or the NoDescription sentinel.
func (inv Invoice) DisplayDescription() string {
	if inv.Description == "" {
		return NoDescription
	}
	return inv.Description
}

// IsOverdue reports whether an unpaid invoice's due date lies before today.
func (inv Invoice) IsOverdue(today time.Time) bool {
	if inv.Status != StatusUnpaid || inv.DueDate.IsZero() {
		return false
	}
	return inv.DueDate.Before(DateOf(today))
}

// InvoiceInput carries the fields needed to create an invoice.
// Amount is a pointer so a missing amount can be told apart from zero.
type InvoiceInput struct {
	ClientID    int64    `json:"client_id"`
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
	DueDate     Date     `json:"due_date"`
}

// InvoiceUpdate carries the mutable fields of an invoice. The owning client
// is deliberately absent.
type InvoiceUpdate struct {
	Amount      *float64 `json:"amount"`
	Description string   `json:"description"`
	DueDate     Date     `json:"due_date"`
}

// StatusUpdate is the body of a status change.
type StatusUpdate struct {
	Status InvoiceStatus `json:"status"`
}
