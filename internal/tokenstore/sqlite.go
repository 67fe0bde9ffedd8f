package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// SQLite is a Store backed by the service's SQLite database, so sessions
// survive restarts.
type SQLite struct {
	db *sql.DB
}

// NewSQLite wraps an already opened and migrated database.
func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{db: db}
}

// Issue creates and persists a new token for the user.
func (s *SQLite) Issue(ctx context.Context, username string) (string, error) {
	token := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_tokens (token, username) VALUES (?, ?)`,
		token, username)
	if err != nil {
		return "", fmt.Errorf("storing refresh token: %w", err)
	}
	return token, nil
}

// Lookup resolves a token to its username.
func (s *SQLite) Lookup(ctx context.Context, token string) (string, error) {
	var username string
	err := s.db.QueryRowContext(ctx,
		`SELECT username FROM refresh_tokens WHERE token = ?`,
		token).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("looking up refresh token: %w", err)
	}
	return username, nil
}

// Revoke deletes a token. Revoking an unknown token is not an error.
func (s *SQLite) Revoke(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("revoking refresh token: %w", err)
	}
	return nil
}
