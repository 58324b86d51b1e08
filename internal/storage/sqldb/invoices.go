package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mmynk/freelancepay/internal/models"
	"github.com/mmynk/freelancepay/internal/storage"
)

const invoiceColumns = `
	SELECT i.id, i.client_id, c.name, i.amount, i.description, i.due_date, i.status, i.created_at
	FROM invoices i
	JOIN clients c ON c.id = i.client_id
`

// ListInvoices returns the user's invoices, newest first.
func (s *DB) ListInvoices(ctx context.Context, userID int64) ([]models.Invoice, error) {
	rows, err := s.query(ctx, s.db, invoiceColumns+`
		WHERE i.user_id = ?
		ORDER BY i.created_at DESC, i.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}
	return invoices, nil
}

// GetInvoice returns one of the user's invoices.
func (s *DB) GetInvoice(ctx context.Context, userID, id int64) (*models.Invoice, error) {
	row := s.queryRow(ctx, s.db, invoiceColumns+`
		WHERE i.id = ? AND i.user_id = ?
	`, id, userID)
	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("invoice %d: %w", id, storage.ErrNotFound)
	}
	return inv, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(row scanner) (*models.Invoice, error) {
	var (
		inv       models.Invoice
		due       sql.NullString
		status    string
		createdAt int64
	)
	err := row.Scan(&inv.ID, &inv.ClientID, &inv.ClientName, &inv.Amount,
		&inv.Description, &due, &status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}
	if inv.DueDate, err = models.ParseDate(due.String); err != nil {
		return nil, fmt.Errorf("invoice %d: %w", inv.ID, err)
	}
	inv.Status = models.InvoiceStatus(status)
	inv.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &inv, nil
}

// nullDate stores the zero Date as NULL.
func nullDate(d models.Date) sql.NullString {
	return sql.NullString{String: d.String(), Valid: !d.IsZero()}
}

// CreateInvoice inserts an unpaid invoice for one of the user's clients.
func (s *DB) CreateInvoice(ctx context.Context, userID int64, in models.InvoiceInput) (int64, error) {
	if in.Amount == nil {
		return 0, fmt.Errorf("invoice amount is required")
	}
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var owner int64
		err := s.queryRow(ctx, tx,
			"SELECT user_id FROM clients WHERE id = ? AND user_id = ?", in.ClientID, userID,
		).Scan(&owner)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("client %d: %w", in.ClientID, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to look up client: %w", err)
		}

		err = s.queryRow(ctx, tx, `
			INSERT INTO invoices (user_id, client_id, amount, description, due_date, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			RETURNING id
		`, userID, in.ClientID, *in.Amount, in.Description, nullDate(in.DueDate),
			string(models.StatusUnpaid), time.Now().Unix(),
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		return nil
	})
	return id, err
}

// UpdateInvoice replaces amount, description and due date. The owning
// client is not touched.
func (s *DB) UpdateInvoice(ctx context.Context, userID, id int64, upd models.InvoiceUpdate) error {
	if upd.Amount == nil {
		return fmt.Errorf("invoice amount is required")
	}
	res, err := s.exec(ctx, s.db, `
		UPDATE invoices SET amount = ?, description = ?, due_date = ?
		WHERE id = ? AND user_id = ?
	`, *upd.Amount, upd.Description, nullDate(upd.DueDate), id, userID)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return expectOne(res, "invoice", id)
}

// SetInvoiceStatus marks an invoice paid or unpaid.
func (s *DB) SetInvoiceStatus(ctx context.Context, userID, id int64, status models.InvoiceStatus) error {
	res, err := s.exec(ctx, s.db,
		"UPDATE invoices SET status = ? WHERE id = ? AND user_id = ?",
		string(status), id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	return expectOne(res, "invoice", id)
}

// DeleteInvoice removes one of the user's invoices.
func (s *DB) DeleteInvoice(ctx context.Context, userID, id int64) error {
	res, err := s.exec(ctx, s.db,
		"DELETE FROM invoices WHERE id = ? AND user_id = ?", id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return expectOne(res, "invoice", id)
}

// Stats sums the user's clients and invoices.
func (s *DB) Stats(ctx context.Context, userID int64) (models.Stats, error) {
	var st models.Stats
	err := s.queryRow(ctx, s.db,
		"SELECT COUNT(*) FROM clients WHERE user_id = ?", userID,
	).Scan(&st.TotalClients)
	if err != nil {
		return models.Stats{}, fmt.Errorf("failed to count clients: %w", err)
	}

	err = s.queryRow(ctx, s.db, `
		SELECT COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'paid' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'unpaid' THEN amount ELSE 0 END), 0)
		FROM invoices
		WHERE user_id = ?
	`, userID).Scan(&st.TotalInvoices, &st.PaidTotal, &st.UnpaidTotal)
	if err != nil {
		return models.Stats{}, fmt.Errorf("failed to sum invoices: %w", err)
	}
	return st, nil
}
