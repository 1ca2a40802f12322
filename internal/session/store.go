// Package session owns the client's authentication token and the inactivity
// monitor that ends an idle session.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/stackbank/internal/common"
)

// ErrEmptyToken is returned when storing an empty token.
var ErrEmptyToken = errors.New("session token cannot be empty")

// persistTimeout bounds a single persister call.
const persistTimeout = 5 * time.Second

// Persister is the durable client-local storage behind a Store. It holds at
// most one token.
type Persister interface {
	// LoadToken returns the stored token, or common.ErrNotFound.
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	DeleteToken(ctx context.Context) error
}

// Store is the single source of truth for session presence. The token is
// opaque and never validated locally; holding one is the only signal of
// being signed in.
type Store struct {
	persister Persister
	listeners map[int]func(active bool)
	token     string
	nextSub   int
	mu        sync.Mutex
}

// Open creates a store whose state is read from persister.
func Open(ctx context.Context, persister Persister) (*Store, error) {
	s := &Store{
		persister: persister,
		listeners: make(map[int]func(bool)),
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload recomputes the in-memory state from the persister.
func (s *Store) Reload(ctx context.Context) error {
	token, err := s.persister.LoadToken(ctx)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("failed to load session token: %w", err)
	}

	s.mu.Lock()
	was := s.token != ""
	s.token = token
	now := s.token != ""
	listeners := s.listenersLocked()
	s.mu.Unlock()

	if was != now {
		notifyAll(listeners, now)
	}
	return nil
}

// SetToken stores token, replacing any previous one, and activates the
// session.
func (s *Store) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	s.mu.Lock()
	if err := s.persister.SaveToken(ctx, token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist session token: %w", err)
	}
	s.token = token
	listeners := s.listenersLocked()
	s.mu.Unlock()

	slog.Debug("Session started", "token", Fingerprint(token))
	notifyAll(listeners, true)
	return nil
}

// Clear removes the token. It is idempotent and reports whether this call
// ended an active session, so callers can apply de-authentication effects
// exactly once.
func (s *Store) Clear() bool {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return false
	}
	s.token = ""

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	if err := s.persister.DeleteToken(ctx); err != nil {
		common.LogError(err, "Failed to delete persisted session token", nil)
	}
	cancel()

	listeners := s.listenersLocked()
	s.mu.Unlock()

	slog.Debug("Session cleared")
	notifyAll(listeners, false)
	return true
}

// IsActive reports whether a token is held.
func (s *Store) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Token returns the current token, or "" without a session.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers fn for session transitions. fn runs on the goroutine
// that changed the session, after the store's lock is released.
func (s *Store) Subscribe(fn func(active bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) listenersLocked() []func(bool) {
	out := make([]func(bool), 0, len(s.listeners))
	for _, fn := range s.listeners {
		out = append(out, fn)
	}
	return out
}

func notifyAll(listeners []func(bool), active bool) {
	for _, fn := range listeners {
		fn(active)
	}
}

// Fingerprint shortens a token for diagnostics so it is never logged whole.
func Fingerprint(token string) string {
	if len(token) > 16 {
		return token[:4] + "..." + token[len(token)-4:]
	}
	return "short_token"
}
