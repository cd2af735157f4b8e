// Package lifecycle exposes notesync events as a lifecycle.Source.
package lifecycle

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notesync/pkg/core"
)

// Option configures a Source.
type Option func(*source)

// WithTypes only forwards events of the given types.
func WithTypes(types ...core.EventType) Option {
	return func(s *source) { s.types = types }
}

type source struct {
	inputs []<-chan core.Event
	types  []core.EventType
	out    chan lifecycle.Event
}

// NewSource merges one or more event channels (typically the session watcher
// and the notes store) into a single lifecycle.Source. The output closes once
// every input is closed or the context passed to Start is done.
func NewSource(inputs []<-chan core.Event, opts ...Option) lifecycle.Source {
	s := &source{
		inputs: inputs,
		out:    make(chan lifecycle.Event),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *source) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *source) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, in := range s.inputs {
		wg.Add(1)
		lifecycle.Go(ctx, func(ctx context.Context) error {
			defer wg.Done()
			s.forward(ctx, in)
			return nil
		})
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		wg.Wait()
		close(s.out)
		return nil
	})
	return nil
}

func (s *source) forward(ctx context.Context, in <-chan core.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-in:
			if !ok {
				return
			}
			if len(s.types) > 0 && !slices.Contains(s.types, e.Type) {
				continue
			}
			select {
			case s.out <- e:
			case <-ctx.Done():
				return
			}
		}
	}
}
