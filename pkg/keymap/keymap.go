// Package keymap declares the application's keyboard shortcuts and routes key
// presses to the actions bound to them.
//
// Shortcuts are written as "ctrl+shift+t". The ctrl modifier is platform
// neutral: a binding that asks for ctrl also fires on cmd (meta), so
// Ctrl+N on Linux and Cmd+N on macOS are the same shortcut.
package keymap

import (
	"fmt"
	"strings"
)

// Action names something a shortcut triggers.
type Action string

const (
	NewNote       Action = "new-note"
	SaveNote      Action = "save-note"
	DeleteNote    Action = "delete-note"
	Search        Action = "search"
	ToggleTheme   Action = "toggle-theme"
	ToggleSidebar Action = "toggle-sidebar"
)

// Binding ties a key chord to an action.
type Binding struct {
	Key         string
	Ctrl        bool
	Shift       bool
	Alt         bool
	Action      Action
	Description string
}

// String renders the binding in the notation Parse accepts.
func (b Binding) String() string {
	var sb strings.Builder
	if b.Ctrl {
		sb.WriteString("ctrl+")
	}
	if b.Shift {
		sb.WriteString("shift+")
	}
	if b.Alt {
		sb.WriteString("alt+")
	}
	sb.WriteString(b.Key)
	return sb.String()
}

// Matches reports whether ev triggers the binding. Keys compare
// case-insensitively; ctrl is satisfied by either ctrl or meta; shift and
// alt must match exactly.
func (b Binding) Matches(ev KeyEvent) bool {
	return strings.EqualFold(b.Key, ev.Key) &&
		b.Ctrl == (ev.Ctrl || ev.Meta) &&
		b.Shift == ev.Shift &&
		b.Alt == ev.Alt
}

// KeyEvent is a single key press as reported by the terminal or window.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool
}

// Parse reads a chord such as "ctrl+shift+t". "cmd" and "meta" are accepted
// as spellings of ctrl.
func Parse(chord string) (Binding, error) {
	ev, err := ParseEvent(chord)
	if err != nil {
		return Binding{}, err
	}
	return Binding{Key: ev.Key, Ctrl: ev.Ctrl || ev.Meta, Shift: ev.Shift, Alt: ev.Alt}, nil
}

// ParseEvent reads a key press in chord notation, keeping meta apart from
// ctrl. It understands the strings bubbletea reports for key messages.
func ParseEvent(chord string) (KeyEvent, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(chord)), "+")
	// "ctrl++" names the plus key.
	if n := len(parts); n >= 2 && parts[n-1] == "" && parts[n-2] == "" {
		parts = append(parts[:n-2], "+")
	}

	var ev KeyEvent
	for i, p := range parts {
		if i == len(parts)-1 {
			if p == "" {
				return KeyEvent{}, fmt.Errorf("invalid shortcut %q: missing key", chord)
			}
			ev.Key = p
			break
		}
		switch p {
		case "ctrl", "control":
			ev.Ctrl = true
		case "cmd", "meta", "super":
			ev.Meta = true
		case "shift":
			ev.Shift = true
		case "alt", "option":
			ev.Alt = true
		default:
			return KeyEvent{}, fmt.Errorf("invalid shortcut %q: unknown modifier %q", chord, p)
		}
	}
	return ev, nil
}

// Defaults returns the application's shortcut table.
func Defaults() []Binding {
	return []Binding{
		must("ctrl+n", NewNote, "Create a new note"),
		must("ctrl+s", SaveNote, "Save the current note"),
		must("ctrl+d", DeleteNote, "Delete the current note"),
		must("ctrl+f", Search, "Focus search"),
		must("ctrl+shift+t", ToggleTheme, "Toggle theme"),
		must("ctrl+b", ToggleSidebar, "Toggle sidebar"),
	}
}

func must(chord string, action Action, description string) Binding {
	b, err := Parse(chord)
	if err != nil {
		panic(err)
	}
	b.Action = action
	b.Description = description
	return b
}
