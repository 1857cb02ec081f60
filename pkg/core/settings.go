package core

import "fmt"

// AppSettings are the persisted user preferences.
type AppSettings struct {
	AutoSave                bool      `json:"autoSave" yaml:"autoSave"`
	AutoSaveInterval        int       `json:"autoSaveInterval" yaml:"autoSaveInterval"` // milliseconds
	DefaultSortBy           SortKey   `json:"defaultSortBy" yaml:"defaultSortBy"`
	DefaultSortOrder        SortOrder `json:"defaultSortOrder" yaml:"defaultSortOrder"`
	ShowPreview             bool      `json:"showPreview" yaml:"showPreview"`
	EnableKeyboardShortcuts bool      `json:"enableKeyboardShortcuts" yaml:"enableKeyboardShortcuts"`
}

// DefaultSettings returns the settings used when none are stored or they are unreadable.
func DefaultSettings() AppSettings {
	return AppSettings{
		AutoSave:                true,
		AutoSaveInterval:        5000,
		DefaultSortBy:           SortByUpdatedAt,
		DefaultSortOrder:        Desc,
		ShowPreview:             true,
		EnableKeyboardShortcuts: true,
	}
}

// Validate returns an error describing the first invalid field.
func (s AppSettings) Validate() error {
	if !s.DefaultSortBy.Valid() {
		return fmt.Errorf("invalid defaultSortBy %q", s.DefaultSortBy)
	}
	if !s.DefaultSortOrder.Valid() {
		return fmt.Errorf("invalid defaultSortOrder %q", s.DefaultSortOrder)
	}
	if s.AutoSaveInterval <= 0 {
		return fmt.Errorf("autoSaveInterval must be positive, got %d", s.AutoSaveInterval)
	}
	return nil
}

// SettingsPatch is a partial update of AppSettings.
type SettingsPatch struct {
	AutoSave                *bool      `json:"autoSave,omitempty" yaml:"autoSave,omitempty"`
	AutoSaveInterval        *int       `json:"autoSaveInterval,omitempty" yaml:"autoSaveInterval,omitempty"`
	DefaultSortBy           *SortKey   `json:"defaultSortBy,omitempty" yaml:"defaultSortBy,omitempty"`
	DefaultSortOrder        *SortOrder `json:"defaultSortOrder,omitempty" yaml:"defaultSortOrder,omitempty"`
	ShowPreview             *bool      `json:"showPreview,omitempty" yaml:"showPreview,omitempty"`
	EnableKeyboardShortcuts *bool      `json:"enableKeyboardShortcuts,omitempty" yaml:"enableKeyboardShortcuts,omitempty"`
}

// Merge applies p over s.
func (s AppSettings) Merge(p SettingsPatch) AppSettings {
	if p.AutoSave != nil {
		s.AutoSave = *p.AutoSave
	}
	if p.AutoSaveInterval != nil {
		s.AutoSaveInterval = *p.AutoSaveInterval
	}
	if p.DefaultSortBy != nil {
		s.DefaultSortBy = *p.DefaultSortBy
	}
	if p.DefaultSortOrder != nil {
		s.DefaultSortOrder = *p.DefaultSortOrder
	}
	if p.ShowPreview != nil {
		s.ShowPreview = *p.ShowPreview
	}
	if p.EnableKeyboardShortcuts != nil {
		s.EnableKeyboardShortcuts = *p.EnableKeyboardShortcuts
	}
	return s
}

// Theme is the color scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Valid reports whether t is light, dark or system.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// ParseTheme converts user input into a Theme.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.Valid() {
		return "", fmt.Errorf("invalid theme %q (want light, dark or system)", s)
	}
	return t, nil
}

// ResolveTheme maps ThemeSystem onto a concrete theme using isDark, which
// reports the host preference. Concrete themes are returned unchanged.
func ResolveTheme(t Theme, isDark func() bool) Theme {
	if t != ThemeSystem {
		return t
	}
	if isDark != nil && isDark() {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle flips between light and dark, resolving system first.
func (t Theme) Toggle(isDark func() bool) Theme {
	if ResolveTheme(t, isDark) == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
