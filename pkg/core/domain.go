// Package core holds the NoteStaker domain: notes, filters, settings and the
// key-value Store contract that every persistence adapter implements.
package core

import (
	"fmt"
	"time"
)

const (
	AppName    = "NoteStaker"
	AppVersion = "1.0.0"
	// AppDir names the per-user data directory.
	AppDir     = "notestaker"
)

// Storage keys. The exact strings are part of the on-disk format.
const (
	NotesKey    = "notestaker_notes"
	SettingsKey = "notestaker_settings"
	ThemeKey    = "notestaker_theme"
)

// EventType represents the type of change observed in a Store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change to a key in a Store.
type Event struct {
	Type      EventType
	Key       string
	Timestamp time.Time
}

// String makes Event usable as a lifecycle event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}
