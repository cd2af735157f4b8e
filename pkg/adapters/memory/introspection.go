package memory

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Size          int `json:"size"`
	Subscribers   int `json:"subscribers"`
	EventBuffer   int `json:"event_buffer"`
	DroppedEvents int `json:"dropped_events"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	size := s.Len()

	s.subMu.Lock()
	defer s.subMu.Unlock()

	return StoreState{
		Size:          size,
		Subscribers:   len(s.subs),
		EventBuffer:   s.buffer,
		DroppedEvents: s.dropped,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory-store"
}

// State implements introspection.Introspectable.
func (t *TokenStore) State() any {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return map[string]bool{"authenticated": t.token != ""}
}

// ComponentType implements introspection.Component.
func (t *TokenStore) ComponentType() string {
	return "memory-token-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
var _ introspection.Introspectable = (*TokenStore)(nil)
var _ introspection.Component = (*TokenStore)(nil)
