package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/notestaker/pkg/state"
)

// Run shows the UI on the alternate screen until the user quits or ctx is
// cancelled.
func Run(ctx context.Context, notes *state.Container, notify *Notifier, cfg Config) error {
	m := New(ctx, notes, notify, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}
