package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Veraticus/stackbank/internal/common"
)

// state is the on-disk layout of the session file.
type state struct {
	SavedAt time.Time `json:"saved_at"`
	Token   string    `json:"token"`
}

// FilePersister keeps the token in a JSON file readable only by its owner.
type FilePersister struct {
	path string
}

// NewFilePersister creates a persister writing to path.
func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// DefaultStateFile returns $XDG_DATA_HOME/stackbank/session.json, falling
// back to ~/.local/share.
func DefaultStateFile() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "stackbank", "session.json"), nil
}

// Path returns the state file location.
func (p *FilePersister) Path() string {
	return p.path
}

// LoadToken implements Persister.
func (p *FilePersister) LoadToken(_ context.Context) (string, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", common.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read session file: %w", err)
	}

	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return "", fmt.Errorf("%w: session file: %v", common.ErrDatabaseCorrupted, err)
	}
	if st.Token == "" {
		return "", common.ErrNotFound
	}
	return st.Token, nil
}

// SaveToken implements Persister.
func (p *FilePersister) SaveToken(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	data, err := json.MarshalIndent(state{Token: token, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return err
	}

	// Atomic replace via rename.
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return os.Rename(tmp, p.path)
}

// DeleteToken implements Persister.
func (p *FilePersister) DeleteToken(_ context.Context) error {
	err := os.Remove(p.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}

// MemoryPersister keeps the token in process memory only.
type MemoryPersister struct {
	token string
	mu    sync.Mutex
}

// LoadToken implements Persister.
func (m *MemoryPersister) LoadToken(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", common.ErrNotFound
	}
	return m.token, nil
}

// SaveToken implements Persister.
func (m *MemoryPersister) SaveToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// DeleteToken implements Persister.
func (m *MemoryPersister) DeleteToken(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
