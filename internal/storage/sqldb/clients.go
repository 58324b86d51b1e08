package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mmynk/freelancepay/internal/models"
	"github.com/mmynk/freelancepay/internal/storage"
)

// ListClients returns the user's clients, newest first.
func (s *DB) ListClients(ctx context.Context, userID int64) ([]models.Client, error) {
	rows, err := s.query(ctx, s.db, `
		SELECT id, name, email, phone, created_at
		FROM clients
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []models.Client{}
	for rows.Next() {
		var c models.Client
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		c.CreatedAt = time.Unix(createdAt, 0).UTC()
		clients = append(clients, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}
	return clients, nil
}

// CreateClient inserts a client owned by userID.
func (s *DB) CreateClient(ctx context.Context, userID int64, in models.ClientInput) (int64, error) {
	var id int64
	err := s.queryRow(ctx, s.db, `
		INSERT INTO clients (user_id, name, email, phone, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`, userID, in.Name, in.Email, in.Phone, time.Now().Unix()).Scan(&id)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return 0, fmt.Errorf("client %s: %w", in.Email, storage.ErrConflict)
		}
		return 0, fmt.Errorf("failed to create client: %w", err)
	}
	return id, nil
}

// UpdateClient replaces the client's name, email and phone.
func (s *DB) UpdateClient(ctx context.Context, userID, id int64, in models.ClientInput) error {
	res, err := s.exec(ctx, s.db, `
		UPDATE clients SET name = ?, email = ?, phone = ?
		WHERE id = ? AND user_id = ?
	`, in.Name, in.Email, in.Phone, id, userID)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return fmt.Errorf("client %s: %w", in.Email, storage.ErrConflict)
		}
		return fmt.Errorf("failed to update client: %w", err)
	}
	return expectOne(res, "client", id)
}

// DeleteClient removes the client and its invoices in one transaction.
func (s *DB) DeleteClient(ctx context.Context, userID, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := s.exec(ctx, tx,
			"DELETE FROM invoices WHERE client_id = ? AND user_id = ?", id, userID,
		); err != nil {
			return fmt.Errorf("failed to delete client invoices: %w", err)
		}
		res, err := s.exec(ctx, tx,
			"DELETE FROM clients WHERE id = ? AND user_id = ?", id, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}
		return expectOne(res, "client", id)
	})
}

// expectOne maps "no row affected" to storage.ErrNotFound.
func expectOne(res sql.Result, what string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, storage.ErrNotFound)
	}
	return nil
}
