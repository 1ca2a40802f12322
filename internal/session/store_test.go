package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Veraticus/stackbank/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPersister struct {
	MemoryPersister
	loadErr error
	saveErr error
}

func (f *failingPersister) LoadToken(ctx context.Context) (string, error) {
	if f.loadErr != nil {
		return "", f.loadErr
	}
	return f.MemoryPersister.LoadToken(ctx)
}

func (f *failingPersister) SaveToken(ctx context.Context, token string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	return f.MemoryPersister.SaveToken(ctx, token)
}

func TestStore_OpenReadsPersistedToken(t *testing.T) {
	ctx := context.Background()
	p := &MemoryPersister{}
	require.NoError(t, p.SaveToken(ctx, "persisted-token"))

	s, err := Open(ctx, p)
	require.NoError(t, err)

	assert.True(t, s.IsActive())
	assert.Equal(t, "persisted-token", s.Token())
}

func TestStore_OpenEmpty(t *testing.T) {
	s, err := Open(context.Background(), &MemoryPersister{})
	require.NoError(t, err)
	assert.False(t, s.IsActive())
	assert.Empty(t, s.Token())
}

func TestStore_OpenPropagatesLoadErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := Open(context.Background(), &failingPersister{loadErr: boom})
	assert.ErrorIs(t, err, boom)
}

func TestStore_SetTokenReplaces(t *testing.T) {
	ctx := context.Background()
	p := &MemoryPersister{}
	s, err := Open(ctx, p)
	require.NoError(t, err)

	require.NoError(t, s.SetToken(ctx, "first"))
	require.NoError(t, s.SetToken(ctx, "second"))

	assert.Equal(t, "second", s.Token())
	stored, err := p.LoadToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", stored)

	assert.ErrorIs(t, s.SetToken(ctx, ""), ErrEmptyToken)
	assert.Equal(t, "second", s.Token())
}

func TestStore_SetTokenPersistFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &failingPersister{saveErr: errors.New("read-only")})
	require.NoError(t, err)

	assert.Error(t, s.SetToken(ctx, "tok"))
	assert.False(t, s.IsActive())
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	p := &MemoryPersister{}
	s, err := Open(ctx, p)
	require.NoError(t, err)
	require.NoError(t, s.SetToken(ctx, "tok"))

	assert.True(t, s.Clear())
	assert.False(t, s.Clear())
	assert.False(t, s.IsActive())

	_, err = p.LoadToken(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestStore_ConcurrentClearTransitionsOnce(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &MemoryPersister{})
	require.NoError(t, err)
	require.NoError(t, s.SetToken(ctx, "tok"))

	var mu sync.Mutex
	transitions := 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Clear() {
				mu.Lock()
				transitions++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, transitions)
}

func TestStore_SubscribeSeesTransitions(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, &MemoryPersister{})
	require.NoError(t, err)

	var seen []bool
	unsubscribe := s.Subscribe(func(active bool) { seen = append(seen, active) })

	require.NoError(t, s.SetToken(ctx, "tok"))
	s.Clear()
	s.Clear()
	assert.Equal(t, []bool{true, false}, seen)

	unsubscribe()
	require.NoError(t, s.SetToken(ctx, "tok"))
	assert.Len(t, seen, 2)
}

func TestStore_ReloadRecomputesFromStorage(t *testing.T) {
	ctx := context.Background()
	p := &MemoryPersister{}
	s, err := Open(ctx, p)
	require.NoError(t, err)

	// Another process signs in through the same storage.
	require.NoError(t, p.SaveToken(ctx, "external"))
	assert.False(t, s.IsActive())

	require.NoError(t, s.Reload(ctx))
	assert.True(t, s.IsActive())
	assert.Equal(t, "external", s.Token())
}

func TestFilePersister_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	p := NewFilePersister(path)

	_, err := p.LoadToken(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	require.NoError(t, p.SaveToken(ctx, "file-token"))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A fresh store over the same file sees the token, as after a restart.
	s, err := Open(ctx, NewFilePersister(path))
	require.NoError(t, err)
	assert.Equal(t, "file-token", s.Token())

	assert.True(t, s.Clear())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, p.DeleteToken(ctx))
}

func TestFilePersister_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := NewFilePersister(path).LoadToken(context.Background())
	assert.ErrorIs(t, err, common.ErrDatabaseCorrupted)
}

func TestDefaultStateFile(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	path, err := DefaultStateFile()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/xdg/stackbank/session.json", path)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "short_token", Fingerprint("abc"))
	assert.Equal(t, "abcd...wxyz", Fingerprint("abcdefghijklmnopqrstuvwxyz"))
}
