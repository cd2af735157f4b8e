package core

import "context"

// TokenStore defines the contract for the durable, cookie-like storage of the
// access token. Adhering to this interface keeps the session manager
// independent of where the token lives (file, memory, keyring).
type TokenStore interface {
	// Token returns the persisted access token, or false when no session exists.
	Token(ctx context.Context) (string, bool)

	// SetToken persists the access token, scoped to the whole application path.
	SetToken(ctx context.Context, token string) error
}

// Store owns the local Notes Collection.
// Implementations must keep the collection ordered and unique by ID.
type Store interface {
	// Notes returns a snapshot of the collection in order.
	Notes() []Note

	// Replace swaps the entire collection.
	Replace(notes []Note)

	// Append adds n at the end. It reports false if a note with the same ID is present.
	Append(n Note) bool

	// RemoveByID removes at most one note. It reports whether something was removed.
	RemoveByID(id int64) bool

	// Apply performs the mutation described by c.
	// This is the single code path through which confirmed writes reach the store.
	Apply(c Change) bool
}

// Watchable defines an interface for stores that publish change events.
type Watchable interface {
	// Watch returns a channel of events. The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan Event, error)
}
