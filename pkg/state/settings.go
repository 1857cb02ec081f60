package state

import (
	"context"

	"github.com/aretw0/notestaker/pkg/core"
)

// Settings returns the current preferences.
func (c *Container) Settings() core.AppSettings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}

// UpdateSettings merges patch and stores the result. Invalid values are
// rejected; a failed write is only logged.
func (c *Container) UpdateSettings(ctx context.Context, patch core.SettingsPatch) (core.AppSettings, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := c.settings.Merge(patch)
	if err := next.Validate(); err != nil {
		return c.settings, err
	}
	c.settings = next
	c.storage.SaveSettings(core.WithChangeReason(ctx, core.FormatChangeReason(core.CommitTypeChore, "settings", "update settings", "")), next)
	return next, nil
}

// Theme returns the stored theme preference, possibly ThemeSystem.
func (c *Container) Theme() core.Theme {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.theme
}

// SetTheme changes and stores the theme. A failed write is only logged.
func (c *Container) SetTheme(ctx context.Context, t core.Theme) error {
	if !t.Valid() {
		_, err := core.ParseTheme(string(t))
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = t
	c.storage.SaveTheme(themeReason(ctx, t), t)
	return nil
}

// ToggleTheme flips between light and dark, resolving system with isDark.
func (c *Container) ToggleTheme(ctx context.Context, isDark func() bool) core.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.theme = c.theme.Toggle(isDark)
	c.storage.SaveTheme(themeReason(ctx, c.theme), c.theme)
	return c.theme
}

func themeReason(ctx context.Context, t core.Theme) context.Context {
	return core.WithChangeReason(ctx, core.FormatChangeReason(core.CommitTypeChore, "theme", "switch to "+string(t), ""))
}
