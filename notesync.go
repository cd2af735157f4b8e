package notesync

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aretw0/introspection"
	"github.com/aretw0/lifecycle"
	"github.com/jonboulle/clockwork"

	"github.com/aretw0/notesync/internal/metrics"
	"github.com/aretw0/notesync/internal/platform"
	lcadapter "github.com/aretw0/notesync/pkg/adapters/lifecycle"
	"github.com/aretw0/notesync/pkg/core"
	"github.com/aretw0/notesync/pkg/notes"
	"github.com/aretw0/notesync/pkg/session"
)

// Version exposes the version of the library.
// See version.go for the implementation using go:embed.

// --- Types ---

// Note is a public alias for the domain note.
type Note = core.Note

// Result is a public alias for the outcome of every operation.
type Result = core.Result

// Event is a public alias for store and session events.
type Event = core.Event

// Metrics is a public alias for the prometheus collectors.
type Metrics = metrics.Metrics

// --- Configuration ---

// Option defines a functional option for configuring a Client.
type Option = platform.Option

// WithBaseURL sets the notes service URL.
func WithBaseURL(url string) Option {
	return platform.WithBaseURL(url)
}

// WithStateDir sets the directory holding the persisted session.
func WithStateDir(dir string) Option {
	return platform.WithStateDir(dir)
}

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(c *http.Client) Option {
	return platform.WithHTTPClient(c)
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithTokenStore allows injecting a custom token store.
func WithTokenStore(s core.TokenStore) Option {
	return platform.WithTokenStore(s)
}

// WithStore allows injecting the notes collection.
func WithStore(s core.Store) Option {
	return platform.WithStore(s)
}

// WithAdapter selects the token store adapter by name ("fs" or "memory").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithEventBuffer sets the per-subscriber event buffer of the collection.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithReadOnly opens the session read-only.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist requires the state directory to exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the state directory into the temp dir.
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety controls the `go run` sandbox.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithDiagnosticHandler receives failures that are not surfaced to the user.
func WithDiagnosticHandler(fn func(error)) Option {
	return platform.WithDiagnosticHandler(fn)
}

// WithMetrics records operation outcomes.
func WithMetrics(m *Metrics) Option {
	return platform.WithMetrics(m)
}

// WithClock sets the clock used for event timestamps.
func WithClock(c clockwork.Clock) Option {
	return platform.WithClock(c)
}

// --- Client ---

// Client bundles the session manager and the notes sync client that share
// one token store and one notes collection.
type Client struct {
	Session *session.Manager
	Notes   *notes.Client

	stateDir string
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	c, err := platform.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{
		Session:  c.Session,
		Notes:    c.Notes,
		stateDir: c.StateDir,
	}, nil
}

// StateDir returns where the session is persisted (empty for in-memory sessions).
func (c *Client) StateDir() string { return c.stateDir }

// Events merges session and collection events into a lifecycle.Source.
// Session events are only included when the token store can be watched.
func (c *Client) Events(ctx context.Context) (lifecycle.Source, error) {
	ch, err := c.Notes.Watch(ctx)
	if err != nil {
		return nil, err
	}
	inputs := []<-chan core.Event{ch}

	// session events are optional: stores without a backing file cannot be watched
	if sch, err := c.Session.Watch(ctx); err == nil {
		inputs = append(inputs, sch)
	}

	return lcadapter.NewSource(inputs), nil
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	return map[string]any{
		"state_dir": c.stateDir,
		"session":   c.Session.State(),
		"notes":     c.Notes.State(),
	}
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "notesync-client"
}

var _ introspection.Introspectable = (*Client)(nil)

// --- Metrics ---

// NewMetrics registers the client collectors on reg.
var NewMetrics = metrics.New

// --- Safety & Utils ---

// ResolveStateDir determines the actual state directory based on safety rules.
func ResolveStateDir(dir string, forceTemp bool) string {
	return platform.ResolveStateDir(dir, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindStateDir recursively looks upwards for a .notesync directory.
func FindStateDir(startDir string) (string, error) {
	return platform.FindStateDir(startDir)
}
