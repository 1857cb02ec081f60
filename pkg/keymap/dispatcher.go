package keymap

import (
	"log/slog"
	"sync"
)

// Dispatcher runs the handler bound to the first shortcut matching a key
// press. Bindings without a handler are ignored, so a UI can declare the full
// table and wire only what it supports.
type Dispatcher struct {
	mu       sync.RWMutex
	bindings []Binding
	handlers map[Action]func()
	enabled  bool
	logger   *slog.Logger
}

// NewDispatcher creates an enabled dispatcher over bindings. A nil logger
// discards output.
func NewDispatcher(bindings []Binding, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{
		bindings: append([]Binding(nil), bindings...),
		handlers: make(map[Action]func()),
		enabled:  true,
		logger:   logger,
	}
}

// Handle binds fn to action, replacing any previous handler.
func (d *Dispatcher) Handle(action Action, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if fn == nil {
		delete(d.handlers, action)
		return
	}
	d.handlers[action] = fn
}

// SetEnabled turns dispatching on or off.
func (d *Dispatcher) SetEnabled(enabled bool) {
	d.mu.Lock()
	d.enabled = enabled
	d.mu.Unlock()
}

// Enabled reports whether key presses are dispatched.
func (d *Dispatcher) Enabled() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.enabled
}

// Bindings returns the declared shortcut table.
func (d *Dispatcher) Bindings() []Binding {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]Binding(nil), d.bindings...)
}

// Lookup returns the bound action for ev without running it.
func (d *Dispatcher) Lookup(ev KeyEvent) (Action, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.enabled {
		return "", false
	}
	_, action, ok := d.match(ev)
	return action, ok
}

// Dispatch runs the handler for ev. It returns the action and true when a
// handler ran; the caller should then swallow the key press.
func (d *Dispatcher) Dispatch(ev KeyEvent) (Action, bool) {
	d.mu.RLock()
	if !d.enabled {
		d.mu.RUnlock()
		return "", false
	}
	fn, action, ok := d.match(ev)
	d.mu.RUnlock()
	if !ok {
		return "", false
	}
	d.logger.Debug("shortcut", "action", action, "key", ev.Key)
	fn()
	return action, true
}

func (d *Dispatcher) match(ev KeyEvent) (func(), Action, bool) {
	for _, b := range d.bindings {
		if !b.Matches(ev) {
			continue
		}
		if fn, ok := d.handlers[b.Action]; ok {
			return fn, b.Action, true
		}
	}
	return nil, "", false
}
