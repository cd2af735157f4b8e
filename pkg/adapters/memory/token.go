package memory

import (
	"context"
	"sync"

	"github.com/aretw0/notesync/pkg/core"
)

// TokenStore keeps the access token in process memory.
// It does not survive restarts; use the fs adapter for a durable session.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Token returns the stored token.
func (t *TokenStore) Token(_ context.Context) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.token, t.token != ""
}

// SetToken stores token.
func (t *TokenStore) SetToken(_ context.Context, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = token
	return nil
}

// Clear removes the token, simulating an external logout.
func (t *TokenStore) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = ""
}

var _ core.TokenStore = (*TokenStore)(nil)
