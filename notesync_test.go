package notesync_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aretw0/notesync"
	"github.com/aretw0/notesync/internal/devserver"
	"github.com/aretw0/notesync/pkg/adapters/fs"
	"github.com/aretw0/notesync/pkg/adapters/memory"
	"github.com/aretw0/notesync/pkg/core"
)

func newService(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(devserver.New(devserver.WithBcryptCost(bcrypt.MinCost)).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestClient_SessionSurvivesRestart(t *testing.T) {
	url := newService(t)
	dir := t.TempDir()
	ctx := context.Background()

	first, err := notesync.New(notesync.WithBaseURL(url), notesync.WithStateDir(dir))
	require.NoError(t, err)
	require.True(t, first.Session.Register(ctx, "a@x.com", "secret1", "secret1", nil).OK())
	require.True(t, first.Session.Login(ctx, "a@x.com", "secret1").OK())
	require.True(t, first.Notes.Create(ctx, "Groceries", "milk,eggs").OK())

	// a new client on the same state dir reuses the persisted token
	second, err := notesync.New(notesync.WithBaseURL(url), notesync.WithStateDir(dir))
	require.NoError(t, err)
	assert.Equal(t, dir, second.StateDir())

	res := second.Notes.Load(ctx)
	require.True(t, res.OK())
	assert.Equal(t, []core.Note{{ID: 1, Title: "Groceries", Content: "milk,eggs"}}, second.Notes.Notes())
}

func TestClient_Events(t *testing.T) {
	url := newService(t)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := notesync.New(notesync.WithBaseURL(url), notesync.WithStateDir(dir))
	require.NoError(t, err)

	src, err := client.Events(ctx)
	require.NoError(t, err)
	require.NoError(t, src.Start(ctx))

	// let the fs watcher start
	time.Sleep(100 * time.Millisecond)

	require.True(t, client.Session.Register(ctx, "a@x.com", "secret1", "secret1", nil).OK())
	require.True(t, client.Session.Login(ctx, "a@x.com", "secret1").OK())
	require.True(t, client.Notes.Create(ctx, "n", "").OK())

	seen := map[string]bool{}
	timeout := time.After(3 * time.Second)
	for !(seen["LOGIN"] && seen["CREATE 1"]) {
		select {
		case e := <-src.Events():
			seen[e.String()] = true
		case <-timeout:
			t.Fatalf("timeout waiting for events, got %v", seen)
		}
	}

	// external logout
	require.NoError(t, os.Remove(filepath.Join(dir, "cookies.yaml")))
	for !seen["LOGOUT"] {
		select {
		case e := <-src.Events():
			seen[e.String()] = true
		case <-timeout:
			t.Fatalf("timeout waiting for logout, got %v", seen)
		}
	}
}

// unwatchable hides the Watch method of the store it wraps.
type unwatchable struct{ core.Store }

func TestClient_EventsWithoutCollectionWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokens := fs.NewTokenStore(fs.Config{Dir: t.TempDir()})
	require.NoError(t, tokens.Initialize(ctx))

	client, err := notesync.New(
		notesync.WithBaseURL(newService(t)),
		notesync.WithTokenStore(tokens),
		notesync.WithStore(unwatchable{memory.NewStore()}),
	)
	require.NoError(t, err)

	_, err = client.Events(ctx)
	require.Error(t, err)

	// the session watcher is never started when the collection cannot be watched
	assert.False(t, tokens.State().(fs.TokenStoreState).WatcherActive)
}

func TestClient_Metrics(t *testing.T) {
	url := newService(t)
	reg := prometheus.NewRegistry()
	m := notesync.NewMetrics(reg)

	client, err := notesync.New(notesync.WithBaseURL(url), notesync.WithAdapter("memory"), notesync.WithMetrics(m))
	require.NoError(t, err)

	ctx := context.Background()
	client.Notes.Load(ctx)
	client.Session.Login(ctx, "nobody@x.com", "secret1")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("notes.load", "auth_missing")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("session.login", "rejected")))
}

func TestClient_DiagnosticHandler(t *testing.T) {
	var got []error
	client, err := notesync.New(
		notesync.WithBaseURL("http://127.0.0.1:1"),
		notesync.WithAdapter("memory"),
		notesync.WithDiagnosticHandler(func(err error) { got = append(got, err) }),
	)
	require.NoError(t, err)

	res := client.Session.Login(context.Background(), "a@x.com", "p")

	assert.Equal(t, core.OutcomeTransport, res.Outcome)
	assert.Empty(t, res.Messages)
	require.Len(t, got, 1)
	var te *core.TransportError
	assert.ErrorAs(t, got[0], &te)
}

func TestClient_State(t *testing.T) {
	client, err := notesync.New(notesync.WithBaseURL("http://localhost"), notesync.WithAdapter("memory"))
	require.NoError(t, err)

	state := client.State().(map[string]any)
	assert.Contains(t, state, "session")
	assert.Contains(t, state, "notes")
	assert.Equal(t, "notesync-client", client.ComponentType())
}
