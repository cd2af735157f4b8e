// Package session turns credentials into a durable bearer token and exposes
// that token to the rest of the client.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/introspection"

	"github.com/aretw0/notesync/internal/metrics"
	"github.com/aretw0/notesync/pkg/core"
	"github.com/aretw0/notesync/pkg/remote"
)

// Success messages shown to the user.
const (
	LoginSuccessMessage    = "You have successfully logged in"
	RegisterSuccessMessage = "Registration completed successfully!"
)

const (
	opLogin    = "session.login"
	opRegister = "session.register"
)

// Manager owns the access token.
type Manager struct {
	remote  *remote.Client
	tokens  core.TokenStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	onDiag  func(error)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used as the diagnostic channel.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithMetrics records operation outcomes.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// WithDiagnosticHandler receives transport failures in addition to the logger.
func WithDiagnosticHandler(fn func(error)) Option {
	return func(m *Manager) { m.onDiag = fn }
}

// New creates a session manager.
func New(rc *remote.Client, tokens core.TokenStore, opts ...Option) *Manager {
	m := &Manager{
		remote: rc,
		tokens: tokens,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registration struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// Login exchanges credentials for an access token and persists it.
// No token is written unless the service confirms the login.
func (m *Manager) Login(ctx context.Context, email, password string) core.Result {
	res := core.Result{Op: opLogin}

	resp, err := m.remote.Do(ctx, remote.Request{
		Op:     opLogin,
		Method: http.MethodPost,
		Path:   "/api/auth",
		Body:   credentials{Email: email, Password: password},
	})
	if err != nil {
		return m.finish(m.transportFailure(res, err))
	}
	res.Status = resp.Status

	if !resp.OK() {
		return m.finish(m.rejected(res, resp))
	}

	var body loginResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return m.finish(m.transportFailure(res, fmt.Errorf("failed to decode login response: %w", err)))
	}
	if body.AccessToken == "" {
		return m.finish(m.transportFailure(res, core.ErrInvalidToken))
	}

	if err := m.tokens.SetToken(ctx, body.AccessToken); err != nil {
		return m.finish(m.transportFailure(res, fmt.Errorf("failed to persist token: %w", err)))
	}

	m.logger.Info("user logged in", "op", opLogin, "email", email)
	res.Outcome = core.OutcomeOK
	res.Message = LoginSuccessMessage
	return m.finish(res)
}

// Register creates an account. On success onDone is invoked (it may be nil),
// which is where a caller closes its registration form. No token is issued:
// a separate Login is required.
func (m *Manager) Register(ctx context.Context, email, password, confirmPassword string, onDone func()) core.Result {
	res := core.Result{Op: opRegister}

	resp, err := m.remote.Do(ctx, remote.Request{
		Op:     opRegister,
		Method: http.MethodPost,
		Path:   "/api/reg",
		Body:   registration{Email: email, Password: password, ConfirmPassword: confirmPassword},
	})
	if err != nil {
		return m.finish(m.transportFailure(res, err))
	}
	res.Status = resp.Status

	if !resp.OK() {
		return m.finish(m.rejected(res, resp))
	}

	m.logger.Info("user registered", "op", opRegister, "email", email)
	res.Outcome = core.OutcomeOK
	res.Message = RegisterSuccessMessage
	if onDone != nil {
		onDone()
	}
	return m.finish(res)
}

// Token returns the persisted token; false means there is no authenticated session.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	return m.tokens.Token(ctx)
}

// Authenticated reports whether a token is present.
func (m *Manager) Authenticated(ctx context.Context) bool {
	_, ok := m.tokens.Token(ctx)
	return ok
}

// Watch forwards login/logout events when the token store supports it.
func (m *Manager) Watch(ctx context.Context) (<-chan core.Event, error) {
	w, ok := m.tokens.(core.Watchable)
	if !ok {
		return nil, errors.New("token store does not support watching")
	}
	return w.Watch(ctx)
}

func (m *Manager) rejected(res core.Result, resp remote.Response) core.Result {
	msgs, err := remote.DecodeMessages(resp.Status, resp.Body)
	if err != nil {
		return m.transportFailure(res, err)
	}
	m.logger.Warn("request rejected", "op", res.Op, "status", resp.Status, "request_id", resp.RequestID)
	res.Outcome = core.OutcomeRejected
	res.Messages = msgs
	return res
}

func (m *Manager) transportFailure(res core.Result, err error) core.Result {
	var te *core.TransportError
	if !errors.As(err, &te) {
		te = &core.TransportError{Op: res.Op, Err: err}
	}
	m.logger.Error("request failed", "op", res.Op, "error", te.Err)
	if m.onDiag != nil {
		m.onDiag(te)
	}
	res.Outcome = core.OutcomeTransport
	res.Cause = te.Err
	res.Messages = nil
	return res
}

func (m *Manager) finish(res core.Result) core.Result {
	m.metrics.ObserveOutcome(res.Op, res.Outcome.String())
	return res
}

// State implements introspection.Introspectable.
func (m *Manager) State() any {
	state := map[string]any{
		"authenticated": m.Authenticated(context.Background()),
		"base_url":      m.remote.BaseURL,
	}
	if comp, ok := m.tokens.(introspection.Component); ok {
		state["token_store"] = comp.ComponentType()
	}
	return state
}

// ComponentType implements introspection.Component.
func (m *Manager) ComponentType() string {
	return "session-manager"
}

var _ introspection.Introspectable = (*Manager)(nil)
var _ introspection.Component = (*Manager)(nil)
