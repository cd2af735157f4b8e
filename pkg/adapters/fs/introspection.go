package fs

import (
	"github.com/aretw0/introspection"
)

// TokenStoreState exposes internal state for observability.
// The token value itself is never exported.
type TokenStoreState struct {
	Path          string `json:"path"`
	RequestPath   string `json:"request_path"`
	Cookies       int    `json:"cookies"`
	ReadOnly      bool   `json:"read_only"`
	WatcherActive bool   `json:"watcher_active"`
}

// State implements introspection.Introspectable.
func (s *TokenStore) State() any {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()

	return TokenStoreState{
		Path:          s.Path,
		RequestPath:   s.config.RequestPath,
		Cookies:       s.jar.Len(),
		ReadOnly:      s.config.ReadOnly,
		WatcherActive: s.watcherActive,
	}
}

// ComponentType implements introspection.Component.
func (s *TokenStore) ComponentType() string {
	return "fs-token-store"
}

var _ introspection.Introspectable = (*TokenStore)(nil)
var _ introspection.Component = (*TokenStore)(nil)

func (s *TokenStore) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}
