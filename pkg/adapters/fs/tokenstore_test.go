package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notesync/pkg/adapters/fs"
	"github.com/aretw0/notesync/pkg/core"
)

// setupStore creates an initialized token store in a temp state directory.
func setupStore(t *testing.T, opts ...func(*fs.Config)) (*fs.TokenStore, string) {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "state")
	cfg := fs.Config{Dir: dir}
	for _, opt := range opts {
		opt(&cfg)
	}

	store := fs.NewTokenStore(cfg)
	return store, dir
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		store, dir := setupStore(t)
		require.NoError(t, store.Initialize(context.Background()))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		store, _ := setupStore(t, func(c *fs.Config) { c.MustExist = true })
		assert.Error(t, store.Initialize(context.Background()))
	})
}

func TestTokenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Absent before login", func(t *testing.T) {
		store, _ := setupStore(t)
		require.NoError(t, store.Initialize(ctx))

		_, ok := store.Token(ctx)
		assert.False(t, ok)
	})

	t.Run("Persists across instances", func(t *testing.T) {
		store, dir := setupStore(t)
		require.NoError(t, store.Initialize(ctx))
		require.NoError(t, store.SetToken(ctx, "T1"))

		reopened := fs.NewTokenStore(fs.Config{Dir: dir})
		tok, ok := reopened.Token(ctx)
		assert.True(t, ok)
		assert.Equal(t, "T1", tok)

		data, err := os.ReadFile(filepath.Join(dir, fs.DefaultFileName))
		require.NoError(t, err)
		assert.Contains(t, string(data), "name: accessToken")
		assert.Contains(t, string(data), "path: /")
	})

	t.Run("Scoped to whole application", func(t *testing.T) {
		store, dir := setupStore(t)
		require.NoError(t, store.Initialize(ctx))
		require.NoError(t, store.SetToken(ctx, "T1"))

		deep := fs.NewTokenStore(fs.Config{Dir: dir, RequestPath: "/notes/7"})
		tok, ok := deep.Token(ctx)
		assert.True(t, ok)
		assert.Equal(t, "T1", tok)
	})

	t.Run("Rejects empty token", func(t *testing.T) {
		store, _ := setupStore(t)
		require.NoError(t, store.Initialize(ctx))
		assert.ErrorIs(t, store.SetToken(ctx, ""), core.ErrInvalidToken)
	})

	t.Run("Read-only refuses writes", func(t *testing.T) {
		store, dir := setupStore(t, func(c *fs.Config) { c.ReadOnly = true })
		require.NoError(t, os.MkdirAll(dir, 0700))
		require.NoError(t, store.Initialize(ctx))
		assert.ErrorIs(t, store.SetToken(ctx, "T1"), core.ErrReadOnly)
	})

	t.Run("External removal ends the session", func(t *testing.T) {
		store, _ := setupStore(t)
		require.NoError(t, store.Initialize(ctx))
		require.NoError(t, store.SetToken(ctx, "T1"))

		require.NoError(t, os.Remove(store.Path))
		_, ok := store.Token(ctx)
		assert.False(t, ok)
	})
}

func TestTokenStore_Watch(t *testing.T) {
	store, _ := setupStore(t)
	require.NoError(t, store.Initialize(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	state := store.State().(fs.TokenStoreState)
	assert.True(t, state.WatcherActive)

	require.NoError(t, store.SetToken(ctx, "T1"))
	expectEvent(t, events, core.EventLogin)

	require.NoError(t, os.Remove(store.Path))
	expectEvent(t, events, core.EventLogout)

	cancel()
	for range events {
	}
	assert.Eventually(t, func() bool {
		return !store.State().(fs.TokenStoreState).WatcherActive
	}, time.Second, 10*time.Millisecond)
}

func TestTokenStore_WatchUsesClock(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	store, _ := setupStore(t, func(c *fs.Config) { c.Clock = clock })
	require.NoError(t, store.Initialize(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := store.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, store.SetToken(ctx, "T1"))
	e := expectEvent(t, events, core.EventLogin)
	assert.Equal(t, clock.Now().Unix(), e.Timestamp)

	clock.Advance(time.Hour)
	require.NoError(t, os.Remove(store.Path))
	e = expectEvent(t, events, core.EventLogout)
	assert.Equal(t, clock.Now().Unix(), e.Timestamp)
}

func expectEvent(t *testing.T, events <-chan core.Event, want core.EventType) core.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "channel closed")
		assert.Equal(t, want, e.Type)
		return e
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for %s", want)
	}
	return core.Event{}
}
