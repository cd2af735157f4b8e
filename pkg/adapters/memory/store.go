// Package memory provides in-process implementations of the core ports:
// the reactive notes collection and an ephemeral token store.
package memory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/aretw0/lifecycle"
	"github.com/jonboulle/clockwork"

	"github.com/aretw0/notesync/pkg/core"
)

// DefaultEventBuffer is the per-subscriber buffer when none is configured.
const DefaultEventBuffer = 100

// Store is the in-memory Notes Collection.
// It keeps notes in server order, unique by ID, and publishes an event for
// every mutation to its subscribers.
type Store struct {
	mu    sync.RWMutex
	notes []core.Note

	subMu   sync.Mutex
	subs    map[int]chan core.Event
	nextSub int
	dropped int

	clock  clockwork.Clock
	buffer int
	logger *slog.Logger

	onChange func(size int)
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for event timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithEventBuffer sets the buffer size of each subscriber channel.
// Zero means DefaultEventBuffer.
func WithEventBuffer(size int) Option {
	return func(s *Store) {
		if size > 0 {
			s.buffer = size
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithChangeHook registers fn to be called with the collection size after every mutation.
func WithChangeHook(fn func(size int)) Option {
	return func(s *Store) { s.onChange = fn }
}

// NewStore creates an empty collection.
func NewStore(opts ...Option) *Store {
	s := &Store{
		notes:  []core.Note{},
		subs:   make(map[int]chan core.Event),
		clock:  clockwork.NewRealClock(),
		buffer: DefaultEventBuffer,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notes returns a copy of the collection.
func (s *Store) Notes() []core.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.notes)
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Replace swaps the whole collection. Duplicate IDs keep their first occurrence.
func (s *Store) Replace(notes []core.Note) {
	s.mu.Lock()
	seen := make(map[int64]struct{}, len(notes))
	next := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if _, dup := seen[n.ID]; dup {
			s.logger.Warn("duplicate note id in replacement, keeping first", "id", n.ID)
			continue
		}
		seen[n.ID] = struct{}{}
		next = append(next, n)
	}
	s.notes = next
	size := len(s.notes)
	s.mu.Unlock()

	s.changed(size)
	s.publish(core.Event{Type: core.EventReplace, Count: size})
}

// Append adds n at the end unless its ID is already present.
func (s *Store) Append(n core.Note) bool {
	s.mu.Lock()
	if s.indexOf(n.ID) >= 0 {
		s.mu.Unlock()
		s.logger.Debug("note already present, skipping append", "id", n.ID)
		return false
	}
	s.notes = append(s.notes, n)
	size := len(s.notes)
	s.mu.Unlock()

	s.changed(size)
	s.publish(core.Event{Type: core.EventCreate, ID: n.ID})
	return true
}

// RemoveByID removes the note with the given ID, if present.
func (s *Store) RemoveByID(id int64) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.notes = slices.Delete(s.notes, i, i+1)
	size := len(s.notes)
	s.mu.Unlock()

	s.changed(size)
	s.publish(core.Event{Type: core.EventDelete, ID: id})
	return true
}

// Apply performs the mutation described by c.
func (s *Store) Apply(c core.Change) bool {
	switch c.Kind {
	case core.ChangeInserted:
		return s.Append(c.Note)
	case core.ChangeRemoved:
		return s.RemoveByID(c.ID)
	case core.ChangeReplaced:
		s.Replace(c.Notes)
		return true
	default:
		return false
	}
}

// Watch subscribes to collection events until ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ch := make(chan core.Event, s.buffer)

	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.subMu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		s.subMu.Lock()
		delete(s.subs, id)
		close(ch)
		s.subMu.Unlock()
		return nil
	})

	return ch, nil
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.notes, func(n core.Note) bool { return n.ID == id })
}

func (s *Store) changed(size int) {
	if s.onChange != nil {
		s.onChange(size)
	}
}

// publish never blocks the writer: a subscriber with a full buffer loses the event.
func (s *Store) publish(e core.Event) {
	e.Timestamp = s.clock.Now().Unix()

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for id, ch := range s.subs {
		select {
		case ch <- e:
		default:
			s.dropped++
			s.logger.Warn("subscriber buffer full, dropping event", "subscriber", id, "event", e.String())
		}
	}
}

var _ core.Store = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
