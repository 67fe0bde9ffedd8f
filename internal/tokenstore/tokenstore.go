// Package tokenstore persists refresh tokens. Tokens are opaque handles a
// client exchanges for a fresh access token; revoking one ends the session.
package tokenstore

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a token is unknown or already revoked.
var ErrNotFound = errors.New("refresh token not found")

// Store issues, resolves and revokes refresh tokens.
type Store interface {
	Issue(ctx context.Context, username string) (string, error)
	Lookup(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// Memory is a process-local Store. Tokens do not survive a restart.
type Memory struct {
	mu     sync.Mutex
	tokens map[string]string
}

// NewMemory returns an empty in-memory Store.
func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]string)}
}

// Issue creates a new token for the user.
func (m *Memory) Issue(_ context.Context, username string) (string, error) {
	token := uuid.NewString()
	m.mu.Lock()
	m.tokens[token] = username
	m.mu.Unlock()
	return token, nil
}

// Lookup resolves a token to its username.
func (m *Memory) Lookup(_ context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	username, ok := m.tokens[token]
	if !ok {
		return "", ErrNotFound
	}
	return username, nil
}

// Revoke deletes a token. Revoking an unknown token is not an error.
func (m *Memory) Revoke(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.tokens, token)
	m.mu.Unlock()
	return nil
}
