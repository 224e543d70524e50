// Package store provides persistent key-value storage for the Spotify
// access token.
//
// The token outlives a single process run within the same installation,
// mirroring browser-local storage semantics: one fixed key, a string value,
// and no expiry metadata. Expired tokens are not detected here; provider
// calls made with a stale token fail with an authorization error at call
// time.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"soundscope/internal/shared"
)

// TokenKey is the fixed storage key for the Spotify bearer token.
const TokenKey = "spotify_token"

// TokenStore persists the current access token in a SQLite-backed
// key-value table.
type TokenStore struct {
	db *sql.DB
}

// NewTokenStore creates a TokenStore over an open database connection.
// The tokens table must exist (see shared.RunMigrations).
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db}
}

// Set stores the token, overwriting any prior value.
func (s *TokenStore) Set(token string) error {
	if token == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidArgument)
	}

	_, err := s.db.Exec(
		`INSERT INTO tokens (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		TokenKey, token,
	)
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	return nil
}

// Get returns the currently stored token.
// Returns shared.ErrNoToken when no token has been stored.
func (s *TokenStore) Get() (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM tokens WHERE key = ?", TokenKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", shared.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	return value, nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *TokenStore) Clear() error {
	if _, err := s.db.Exec("DELETE FROM tokens WHERE key = ?", TokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
