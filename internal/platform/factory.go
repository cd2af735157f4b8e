package platform

import (
	"errors"
	"log/slog"
	"net/url"

	"github.com/aretw0/notesync/pkg/adapters/memory"
	"github.com/aretw0/notesync/pkg/core"
	"github.com/aretw0/notesync/pkg/notes"
	"github.com/aretw0/notesync/pkg/remote"
	"github.com/aretw0/notesync/pkg/session"
)

// ErrMissingBaseURL is returned when no notes service URL is configured.
var ErrMissingBaseURL = errors.New("notes service base URL is required")

// Components is the wired object graph of a notesync client.
type Components struct {
	Remote   *remote.Client
	Tokens   core.TokenStore
	Store    core.Store
	Session  *session.Manager
	Notes    *notes.Client
	StateDir string // empty unless the fs adapter is used
}

// New composes transport, token store, session manager, notes collection and
// sync client.
//
//	c, err := platform.New(platform.WithBaseURL("http://localhost:3000"))
func New(opts ...Option) (*Components, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if u, err := url.Parse(o.baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errors.Join(ErrMissingBaseURL, errors.New("invalid base URL: "+o.baseURL))
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	tokens, stateDir, err := initTokenStore(o)
	if err != nil {
		return nil, err
	}

	rc := remote.NewClient(o.baseURL, o.httpClient, logger)
	rc.Metrics = o.metrics

	store := o.store
	if store == nil {
		buffer, _ := o.config["event_buffer"].(int)
		storeOpts := []memory.Option{
			memory.WithEventBuffer(buffer),
			memory.WithLogger(logger),
			memory.WithChangeHook(o.metrics.SetCollectionSize),
		}
		if o.clock != nil {
			storeOpts = append(storeOpts, memory.WithClock(o.clock))
		}
		store = memory.NewStore(storeOpts...)
	}

	return &Components{
		Remote: rc,
		Tokens: tokens,
		Store:  store,
		Session: session.New(rc, tokens,
			session.WithLogger(logger),
			session.WithMetrics(o.metrics),
			session.WithDiagnosticHandler(o.diagnostics),
		),
		Notes: notes.New(rc, tokens, store,
			notes.WithLogger(logger),
			notes.WithMetrics(o.metrics),
			notes.WithDiagnosticHandler(o.diagnostics),
		),
		StateDir: stateDir,
	}, nil
}
