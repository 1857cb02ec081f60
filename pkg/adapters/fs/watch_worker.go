package fs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/debounce"
)

// Watch reports changes to keys matching pattern, including writes made by
// other processes. Bursts for the same key collapse into one event. The
// channel is closed when ctx is done.
//
// Atomic replacement surfaces as CREATE, since the key file is renamed into place.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid key pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(s.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Path, err)
	}

	out := make(chan core.Event, 16)
	w := &watchWorker{
		store:   s,
		pattern: pattern,
		watcher: watcher,
		out:     out,
		pending: make(map[string]*debounce.Debouncer[core.Event]),
	}
	s.setWatching(1)

	lifecycle.Go(ctx, w.run, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("watcher stopped", "error", err)
	}))
	return out, nil
}

type watchWorker struct {
	store   *Store
	pattern string
	watcher *fsnotify.Watcher
	out     chan core.Event
	pending map[string]*debounce.Debouncer[core.Event]
}

func (w *watchWorker) run(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("watcher panic: %v", recovered)
			// Full stack only when debugging, to keep production logs small.
			if w.store.logger.Enabled(ctx, slog.LevelDebug) {
				w.store.logger.Error("watcher panic", "error", err, "stack", string(debug.Stack()))
			} else {
				w.store.logger.Error("watcher panic", "error", err)
			}
		}
	}()
	defer w.store.setWatching(-1)
	defer close(w.out)
	defer w.stopPending()
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			w.process(ctx, event)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.store.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

// process filters and maps a filesystem event, then hands it to the
// per-key debouncer.
func (w *watchWorker) process(ctx context.Context, event fsnotify.Event) {
	key := filepath.Base(event.Name)
	if !isKeyFile(key) || !matchKey(w.pattern, key) {
		return
	}

	var typ core.EventType
	switch {
	case event.Has(fsnotify.Create):
		typ = core.EventCreate
	case event.Has(fsnotify.Write):
		typ = core.EventModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		typ = core.EventDelete
	default:
		return
	}

	w.store.logger.Debug("store event", "key", key, "op", event.Op.String())

	d, ok := w.pending[key]
	if !ok {
		d = debounce.New(w.store.config.CoalesceWindow, func(e core.Event) {
			w.store.recordEvent(e.Timestamp)
			select {
			case w.out <- e:
			case <-ctx.Done():
			}
		})
		w.pending[key] = d
	}
	d.Trigger(core.Event{Type: typ, Key: key, Timestamp: time.Now()})
}

// stopPending discards queued events and waits for deliveries in flight,
// so the output channel can be closed safely.
func (w *watchWorker) stopPending() {
	for _, d := range w.pending {
		d.Stop()
	}
}
