package storage

import (
	"context"

	"github.com/Veraticus/stackbank/internal/session"
)

// TokenKey is the local storage key holding the session token.
const TokenKey = "token"

var _ session.Persister = (*SQLiteStorage)(nil)

// LoadToken implements session.Persister.
func (s *SQLiteStorage) LoadToken(ctx context.Context) (string, error) {
	return s.Get(ctx, TokenKey)
}

// SaveToken implements session.Persister.
func (s *SQLiteStorage) SaveToken(ctx context.Context, token string) error {
	if err := validateString(token, "token"); err != nil {
		return err
	}
	return s.Set(ctx, TokenKey, token)
}

// DeleteToken implements session.Persister.
func (s *SQLiteStorage) DeleteToken(ctx context.Context) error {
	return s.Delete(ctx, TokenKey)
}
