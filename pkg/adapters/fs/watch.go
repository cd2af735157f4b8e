package fs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/aretw0/lifecycle"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notesync/pkg/core"
)

// Watch observes the cookie file and emits EventLogin/EventLogout whenever
// token presence flips, including removal by another process.
// The channel is closed when ctx is done.
func (s *TokenStore) Watch(ctx context.Context) (<-chan core.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: the file is replaced on every write (atomic rename)
	// and may not exist yet.
	if err := watcher.Add(s.config.Dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.config.Dir, err)
	}

	events := make(chan core.Event, 8)
	_, present := s.Token(ctx)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer s.setWatcherActive(false)
		defer watcher.Close()
		return s.watchLoop(ctx, watcher, events, present)
	}, lifecycle.WithErrorHandler(func(err error) {
		s.handleWatchError(fmt.Errorf("watcher panic: %w", err))
	}))

	return events, nil
}

func (s *TokenStore) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, out chan<- core.Event, present bool) error {
	name := filepath.Base(s.Path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			s.config.Logger.Debug("cookie file event", "op", event.Op.String())

			_, now := s.Token(ctx)
			if now == present {
				continue
			}
			present = now

			e := core.Event{Type: core.EventLogout, Timestamp: s.config.Clock.Now().Unix()}
			if present {
				e.Type = core.EventLogin
			}
			select {
			case out <- e:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.handleWatchError(err)
		}
	}
}

func (s *TokenStore) handleWatchError(err error) {
	s.config.Logger.Error("fsnotify error", "error", err)
	if s.config.ErrorHandler != nil {
		s.config.ErrorHandler(err)
	}
}

var _ core.Watchable = (*TokenStore)(nil)
