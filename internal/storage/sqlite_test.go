package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/stackbank/internal/common"
	"github.com/Veraticus/stackbank/internal/session"
)

// createTestStorage creates a migrated database in a temp dir.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestNewSQLiteStorage_CreatesDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "stackbank.db")

	store, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Equal(t, dbPath, store.Path())
	info, err := os.Stat(filepath.Dir(dbPath))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage(" ")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestLocalStorage_CRUD(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, store.Set(ctx, "b", "1"))
	require.NoError(t, store.Set(ctx, "a", "2"))
	require.NoError(t, store.Set(ctx, "b", "3"))

	value, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "3", value)

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, store.Delete(ctx, "b"))
	require.NoError(t, store.Delete(ctx, "b"), "deleting twice is fine")
	_, err = store.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestTokenPersister(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "stackbank.db")
	ctx := context.Background()

	store, err := Open(ctx, dbPath)
	require.NoError(t, err)

	_, err = store.LoadToken(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, store.SaveToken(ctx, ""), ErrEmptyString)

	sess, err := session.Open(ctx, store)
	require.NoError(t, err)
	assert.False(t, sess.IsActive())
	require.NoError(t, sess.SetToken(ctx, "abc123"))
	require.NoError(t, store.Close())

	// A fresh process sees the same session.
	reopened, err := Open(ctx, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	sess, err = session.Open(ctx, reopened)
	require.NoError(t, err)
	assert.True(t, sess.IsActive())
	assert.Equal(t, "abc123", sess.Token())

	assert.True(t, sess.Clear())
	_, err = reopened.LoadToken(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
