// Package remote implements the HTTP plumbing shared by the session manager
// and the notes sync client: JSON bodies, bearer authentication, request
// correlation and error-message normalization.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/notesync/internal/metrics"
	"github.com/aretw0/notesync/pkg/core"
)

// RequestIDHeader carries the correlation id of every outgoing request.
const RequestIDHeader = "X-Request-ID"

// Client performs requests against the notes service.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// Request describes a single call of the service contract.
type Request struct {
	Op     string // operation name used in logs and metrics, e.g. "notes.create"
	Method string
	Path   string
	Token  string // bearer token; empty means no Authorization header
	Body   any    // JSON-encoded when non-nil
}

// Response is a fully read response.
type Response struct {
	Status    int
	Body      []byte
	RequestID string
}

// OK reports a 2xx status.
func (r Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// NewClient creates a client for baseURL. A nil httpClient means http.DefaultClient,
// which has no timeout: cancellation is left to the caller's context.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    httpClient,
		Logger:  logger,
	}
}

// Do sends req and reads the whole response body.
// Any error returned is a *core.TransportError; non-2xx statuses are not errors.
func (c *Client) Do(ctx context.Context, req Request) (Response, error) {
	requestID := uuid.NewString()
	log := c.Logger.With("op", req.Op, "request_id", requestID)

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return Response{}, &core.TransportError{Op: req.Op, Err: fmt.Errorf("failed to encode request body: %w", err)}
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.BaseURL+req.Path, body)
	if err != nil {
		return Response{}, &core.TransportError{Op: req.Op, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	log.Debug("sending request", "method", req.Method, "path", req.Path)

	start := time.Now()
	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return Response{}, &core.TransportError{Op: req.Op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	c.Metrics.ObserveDuration(req.Op, time.Since(start))
	if err != nil {
		return Response{}, &core.TransportError{Op: req.Op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	log.Debug("response received", "status", resp.StatusCode, "bytes", len(data))

	return Response{Status: resp.StatusCode, Body: data, RequestID: requestID}, nil
}
