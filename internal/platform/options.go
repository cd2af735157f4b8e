package platform

import (
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/aretw0/notesync/internal/metrics"
	"github.com/aretw0/notesync/pkg/core"
)

// options holds the internal configuration of a notesync client.
type options struct {
	baseURL     string
	stateDir    string
	httpClient  *http.Client
	logger      *slog.Logger
	tokens      core.TokenStore
	store       core.Store
	adapter     string
	metrics     *metrics.Metrics
	clock       clockwork.Clock
	diagnostics func(error)
	config      map[string]any
}

// Option defines a functional option for configuring a notesync client.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		adapter: "fs",
		config:  make(map[string]any),
	}
}

// WithBaseURL sets the base URL of the notes service (e.g. http://localhost:3000).
func WithBaseURL(url string) Option {
	return func(o *options) {
		o.baseURL = url
	}
}

// WithStateDir sets the directory holding the persisted session.
// When empty, the nearest .notesync directory or the user config dir is used.
func WithStateDir(dir string) Option {
	return func(o *options) {
		o.stateDir = dir
	}
}

// WithHTTPClient sets the HTTP client. The default has no timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithLogger sets the logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithTokenStore injects a custom token store (e.g. a keyring).
// If provided, the adapter setting is ignored.
func WithTokenStore(s core.TokenStore) Option {
	return func(o *options) {
		o.tokens = s
	}
}

// WithStore injects the notes collection. Defaults to an in-memory store.
func WithStore(s core.Store) Option {
	return func(o *options) {
		o.store = s
	}
}

// WithAdapter selects the token store adapter by name ("fs" or "memory").
// Defaults to "fs".
func WithAdapter(name string) Option {
	return func(o *options) {
		o.adapter = name
	}
}

// WithEventBuffer sets the per-subscriber buffer of the notes collection.
// Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithReadOnly opens the session read-only: login cannot persist a token.
// Dev safety is bypassed since nothing is written.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithMustExist requires the state directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithForceTemp forces the state directory into the temp dir (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or `go test`.
// By default (true) the state directory is re-rooted into the temp dir so a
// development run never touches the real session.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithDiagnosticHandler receives transport failures and silent rejections,
// as well as token watcher errors.
func WithDiagnosticHandler(fn func(error)) Option {
	return func(o *options) {
		o.diagnostics = fn
	}
}

// WithMetrics records operation outcomes and latencies.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithClock sets the clock used for event timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}
