// Package notes keeps the local Notes Collection in step with the remote
// notes service. Every local mutation is the result of a confirmed server
// operation.
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/introspection"
	"golang.org/x/sync/singleflight"

	"github.com/aretw0/notesync/internal/metrics"
	"github.com/aretw0/notesync/pkg/core"
	"github.com/aretw0/notesync/pkg/remote"
)

const (
	opLoad   = "notes.load"
	opCreate = "notes.create"
	opDelete = "notes.delete"
)

const notesPath = "/api/notes"

// Client is the notes sync client.
type Client struct {
	remote  *remote.Client
	tokens  core.TokenStore
	store   core.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	onDiag  func(error)

	loads   singleflight.Group
	deletes *keyedMutex
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used as the diagnostic channel.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records operation outcomes.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = mt }
}

// WithDiagnosticHandler receives transport failures and silent rejections.
func WithDiagnosticHandler(fn func(error)) Option {
	return func(c *Client) { c.onDiag = fn }
}

// New creates a sync client writing into store.
func New(rc *remote.Client, tokens core.TokenStore, store core.Store, opts ...Option) *Client {
	c := &Client{
		remote:  rc,
		tokens:  tokens,
		store:   store,
		logger:  slog.New(slog.DiscardHandler),
		deletes: newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load replaces the collection with the server's list.
//
// Without a token it returns OutcomeAuthMissing silently. A 2xx body that is
// valid JSON but not an array empties the collection. Concurrent calls share
// one request.
func (c *Client) Load(ctx context.Context) core.Result {
	token, ok := c.tokens.Token(ctx)
	if !ok {
		return c.finish(core.Result{Op: opLoad, Outcome: core.OutcomeAuthMissing})
	}

	// the shared request outlives any single caller; each caller stops
	// waiting on its own ctx
	shared := context.WithoutCancel(ctx)
	ch := c.loads.DoChan(token, func() (any, error) {
		return c.finish(c.apply(c.load(shared, token))), nil
	})
	select {
	case r := <-ch:
		return r.Val.(core.Result)
	case <-ctx.Done():
		return c.finish(c.transportFailure(core.Result{Op: opLoad}, ctx.Err()))
	}
}

func (c *Client) load(ctx context.Context, token string) core.Result {
	res := core.Result{Op: opLoad}

	resp, err := c.remote.Do(ctx, remote.Request{
		Op:     opLoad,
		Method: http.MethodGet,
		Path:   notesPath,
		Token:  token,
	})
	if err != nil {
		return c.transportFailure(res, err)
	}
	res.Status = resp.Status

	if !resp.OK() {
		return c.silentRejection(res, resp)
	}

	var probe any
	if err := json.Unmarshal(resp.Body, &probe); err != nil {
		return c.transportFailure(res, fmt.Errorf("failed to decode notes: %w", err))
	}

	var list []core.Note
	if _, isList := probe.([]any); isList {
		if err := json.Unmarshal(resp.Body, &list); err != nil {
			return c.transportFailure(res, fmt.Errorf("failed to decode notes: %w", err))
		}
	} else {
		c.logger.Warn("notes response is not a list, clearing collection", "op", opLoad, "request_id", resp.RequestID)
	}

	res.Outcome = core.OutcomeOK
	res.Change = core.Replaced(list)
	return res
}

// Create posts a new note. The id is assigned by the service; on success the
// returned note is appended to the collection.
func (c *Client) Create(ctx context.Context, title, content string) core.Result {
	res := core.Result{Op: opCreate}

	token, ok := c.tokens.Token(ctx)
	if !ok {
		res.Outcome = core.OutcomeAuthMissing
		res.Messages = []string{core.ErrAuthMissing.Error()}
		return c.finish(res)
	}

	resp, err := c.remote.Do(ctx, remote.Request{
		Op:     opCreate,
		Method: http.MethodPost,
		Path:   notesPath,
		Token:  token,
		Body:   struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}{title, content},
	})
	if err != nil {
		return c.finish(c.transportFailure(res, err))
	}
	res.Status = resp.Status

	if !resp.OK() {
		msgs, err := remote.DecodeMessages(resp.Status, resp.Body)
		if err != nil {
			return c.finish(c.transportFailure(res, err))
		}
		c.logger.Warn("request rejected", "op", opCreate, "status", resp.Status, "request_id", resp.RequestID)
		res.Outcome = core.OutcomeRejected
		res.Messages = msgs
		return c.finish(res)
	}

	var note core.Note
	if err := json.Unmarshal(resp.Body, &note); err != nil {
		return c.finish(c.transportFailure(res, fmt.Errorf("failed to decode created note: %w", err)))
	}

	c.logger.Info("note created", "op", opCreate, "id", note.ID)
	res.Outcome = core.OutcomeOK
	res.Change = core.Inserted(note)
	return c.finish(c.apply(res))
}

// Delete removes the note on the server and then locally.
// Failures leave the collection untouched and are only reported as diagnostics.
func (c *Client) Delete(ctx context.Context, id int64) core.Result {
	res := core.Result{Op: opDelete}

	token, ok := c.tokens.Token(ctx)
	if !ok {
		res.Outcome = core.OutcomeAuthMissing
		return c.finish(res)
	}

	unlock, err := c.deletes.Lock(ctx, id)
	if err != nil {
		return c.finish(c.transportFailure(res, err))
	}
	defer unlock()

	resp, err := c.remote.Do(ctx, remote.Request{
		Op:     opDelete,
		Method: http.MethodDelete,
		Path:   notesPath + "/" + strconv.FormatInt(id, 10),
		Token:  token,
	})
	if err != nil {
		return c.finish(c.transportFailure(res, err))
	}
	res.Status = resp.Status

	if !resp.OK() {
		return c.finish(c.silentRejection(res, resp))
	}

	c.logger.Info("note deleted", "op", opDelete, "id", id)
	res.Outcome = core.OutcomeOK
	res.Change = core.Removed(id)
	return c.finish(c.apply(res))
}

// OnNoteCreated appends a note announced elsewhere (e.g. by a form).
// A note whose id is already in the collection is ignored, so a note
// confirmed by Create is never appended twice.
func (c *Client) OnNoteCreated(note core.Note) bool {
	return c.store.Apply(core.Inserted(note))
}

// Notes returns a snapshot of the collection.
func (c *Client) Notes() []core.Note {
	return c.store.Notes()
}

// Watch subscribes to collection events when the store supports it.
func (c *Client) Watch(ctx context.Context) (<-chan core.Event, error) {
	w, ok := c.store.(core.Watchable)
	if !ok {
		return nil, errors.New("store does not support watching")
	}
	return w.Watch(ctx)
}

// apply is the only path through which confirmed results reach the store.
func (c *Client) apply(res core.Result) core.Result {
	if !res.OK() || res.Change.Kind == core.ChangeNone {
		return res
	}
	if !c.store.Apply(res.Change) {
		c.logger.Debug("change had no local effect", "op", res.Op, "change", res.Change.Kind.String(), "id", res.Change.ID)
	}
	return res
}

// silentRejection handles a non-2xx answer whose messages are not surfaced.
func (c *Client) silentRejection(res core.Result, resp remote.Response) core.Result {
	err := &core.RejectedError{Op: res.Op, Status: resp.Status}
	c.logger.Error("request rejected", "op", res.Op, "status", resp.Status, "request_id", resp.RequestID)
	if c.onDiag != nil {
		c.onDiag(err)
	}
	res.Outcome = core.OutcomeRejected
	return res
}

func (c *Client) transportFailure(res core.Result, err error) core.Result {
	var te *core.TransportError
	if !errors.As(err, &te) {
		te = &core.TransportError{Op: res.Op, Err: err}
	}
	c.logger.Error("request failed", "op", res.Op, "error", te.Err)
	if c.onDiag != nil {
		c.onDiag(te)
	}
	res.Outcome = core.OutcomeTransport
	res.Cause = te.Err
	res.Messages = nil
	return res
}

func (c *Client) finish(res core.Result) core.Result {
	c.metrics.ObserveOutcome(res.Op, res.Outcome.String())
	return res
}

// State implements introspection.Introspectable.
func (c *Client) State() any {
	state := map[string]any{
		"notes":    len(c.store.Notes()),
		"base_url": c.remote.BaseURL,
	}
	if comp, ok := c.store.(introspection.Component); ok {
		state["store"] = comp.ComponentType()
	}
	return state
}

// ComponentType implements introspection.Component.
func (c *Client) ComponentType() string {
	return "notes-client"
}

var _ introspection.Introspectable = (*Client)(nil)
var _ introspection.Component = (*Client)(nil)
