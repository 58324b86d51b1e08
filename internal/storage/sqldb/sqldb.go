// Package sqldb implements storage.Store on database/sql. The SQL is shared
// by every backend; a Dialect supplies the schema, placeholder style and
// constraint error detection.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/mmynk/freelancepay/internal/storage"
)

// Ensure DB implements storage.Store
var _ storage.Store = (*DB)(nil)

// Dialect describes the differences between SQL backends.
type Dialect struct {
	// Name is used in log lines and errors.
	Name string
	// Schema is executed on startup and must be idempotent.
	Schema string
	// NumberedParams rewrites ? placeholders to $1, $2, ...
	NumberedParams bool
	// IsUniqueViolation reports whether err is a unique constraint failure.
	IsUniqueViolation func(err error) bool
}

// DB is a storage.Store over an open *sql.DB.
type DB struct {
	db      *sql.DB
	dialect Dialect
}

// Open wraps db and runs the dialect's migrations.
func Open(ctx context.Context, db *sql.DB, dialect Dialect) (*DB, error) {
	s := &DB{db: db, dialect: dialect}
	if err := s.runMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run %s migrations: %w", dialect.Name, err)
	}
	return s, nil
}

// runMigrations executes the schema statements one at a time; not every
// driver accepts several statements in one Exec.
func (s *DB) runMigrations(ctx context.Context) error {
	for _, stmt := range strings.Split(s.dialect.Schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection.
func (s *DB) Close() error {
	return s.db.Close()
}

// rebind rewrites the ? placeholders of query for the dialect.
func (s *DB) rebind(query string) string {
	if !s.dialect.NumberedParams {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *DB) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, s.rebind(query), args...)
}

func (s *DB) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, s.rebind(query), args...)
}

func (s *DB) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, s.rebind(query), args...)
}

// withTx runs fn in a transaction, committing if it returns nil.
func (s *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
