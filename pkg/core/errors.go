package core

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors.
var (
	ErrAuthMissing   = errors.New("authentication token is missing")
	ErrReadOnly      = errors.New("token store is in read-only mode")
	ErrInvalidToken  = errors.New("invalid access token")
	ErrNoteNotFound  = errors.New("note not found")
	ErrUnknownResult = errors.New("unknown result outcome")
)

// RejectedError is returned when the remote service answered with a non-2xx status.
type RejectedError struct {
	Op       string
	Status   int
	Messages []string
}

func (e *RejectedError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%s: rejected with status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: rejected with status %d: %s", e.Op, e.Status, strings.Join(e.Messages, "; "))
}

// TransportError wraps network and decoding failures.
// These never populate the error list; they are reported on the diagnostic channel.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
