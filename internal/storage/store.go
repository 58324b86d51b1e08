// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/freelancepay/internal/models"
)

var (
	// ErrNotFound is returned when a row does not exist or belongs to
	// another user.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint is violated.
	ErrConflict = errors.New("already exists")
)

// Store defines the interface for FreelancePay storage operations.
// Every client and invoice operation is scoped to the owning user; rows of
// other users behave as if they did not exist.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user. user.ID and user.CreatedAt are
	// populated by the store. Returns ErrConflict if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error
	// GetUserByEmail returns ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// ListClients returns the user's clients, newest first.
	ListClients(ctx context.Context, userID int64) ([]models.Client, error)
	// CreateClient returns the new client's ID, or ErrConflict if the user
	// already has a client with that email.
	CreateClient(ctx context.Context, userID int64, in models.ClientInput) (int64, error)
	UpdateClient(ctx context.Context, userID, id int64, in models.ClientInput) error
	// DeleteClient removes the client and all of its invoices.
	DeleteClient(ctx context.Context, userID, id int64) error

	// ListInvoices returns the user's invoices with client names, newest first.
	ListInvoices(ctx context.Context, userID int64) ([]models.Invoice, error)
	GetInvoice(ctx context.Context, userID, id int64) (*models.Invoice, error)
	// CreateInvoice creates an unpaid invoice. Returns ErrNotFound if the
	// client is not one of the user's.
	CreateInvoice(ctx context.Context, userID int64, in models.InvoiceInput) (int64, error)
	UpdateInvoice(ctx context.Context, userID, id int64, upd models.InvoiceUpdate) error
	SetInvoiceStatus(ctx context.Context, userID, id int64, status models.InvoiceStatus) error
	DeleteInvoice(ctx context.Context, userID, id int64) error

	// Stats returns the user's dashboard totals.
	Stats(ctx context.Context, userID int64) (models.Stats, error)

	// Close releases any resources held by the store.
	Close() error
}
