// Package lifecycle exposes store change events as a lifecycle.Source, so
// long-running commands can consume them next to signals and timers.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notestaker/pkg/core"
)

type storeSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that re-emits store events.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &storeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *storeSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start runs the bridge on a tracked goroutine. Events() is closed when
// ctx is done or the store channel closes.
func (s *storeSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
