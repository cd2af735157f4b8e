// Package devserver is an in-memory implementation of the notes service
// HTTP contract. It backs integration tests and `notesync devserver`; nothing
// is persisted.
package devserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL is the lifetime of issued access tokens.
const DefaultTokenTTL = 24 * time.Hour

// Server serves the notes API.
type Server struct {
	log        *slog.Logger
	data       *memoryData
	validate   *validator.Validate
	clock      clockwork.Clock
	secret     []byte
	ttl        time.Duration
	bcryptCost int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithSecret sets the HS256 signing key of access tokens.
func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

// WithClock sets the clock used for token issuing and validation.
func WithClock(c clockwork.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithTokenTTL sets the lifetime of access tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) { s.ttl = ttl }
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.bcryptCost = cost }
}

// New creates a server with an empty user and note set.
func New(opts ...Option) *Server {
	s := &Server{
		log:        slog.New(slog.DiscardHandler),
		data:       newMemoryData(),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		clock:      clockwork.NewRealClock(),
		secret:     []byte("notesync-dev-secret"),
		ttl:        DefaultTokenTTL,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/api/auth", s.login)
	r.Post("/api/reg", s.register)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/api/notes", s.listNotes)
		r.Post("/api/notes", s.createNote)
		r.Delete("/api/notes/{id}", s.deleteNote)
	})

	return r
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("dev server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
