package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// refreshMsg asks the model to re-read the container.
type refreshMsg struct{}

// Notifier wakes the UI when the container changes off the UI goroutine:
// a debounced search applying, or another process writing the store.
type Notifier struct {
	ch chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify never blocks. Notifications arriving while one is pending collapse
// into it.
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

func (n *Notifier) wait(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-n.ch:
			return refreshMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}
