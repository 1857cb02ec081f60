package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap holds the plain keys of the browser and the editor. Application
// shortcuts (Ctrl/Cmd+N, Ctrl/Cmd+F) go through pkg/keymap instead.
type KeyMap struct {
	// global
	Quit key.Binding
	Help key.Binding

	// browse
	Up        key.Binding
	Down      key.Binding
	Edit      key.Binding
	Pin       key.Binding
	Duplicate key.Binding
	Delete    key.Binding
	Confirm   key.Binding
	Export    key.Binding
	ExportAll key.Binding
	Preview   key.Binding
	Search    key.Binding
	New       key.Binding

	// search and edit
	Apply  key.Binding
	Cancel key.Binding
	Next   key.Binding
	Save   key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "edit"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin"),
		),
		Duplicate: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "duplicate"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export md"),
		),
		ExportAll: key.NewBinding(
			key.WithKeys("X"),
			key.WithHelp("X", "export all"),
		),
		Preview: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "preview"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/ ctrl+f", "search"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n ctrl+n", "new note"),
		),
		Apply: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Search, k.Edit, k.Pin, k.Delete, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.New, k.Edit, k.Duplicate},
		{k.Pin, k.Delete},
		{k.Search, k.Preview},
		{k.Export, k.ExportAll},
		{k.Help, k.Quit},
	}
}

type editKeyMap struct{ KeyMap }

func (k editKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Save, k.Next, k.Cancel}
}

func (k editKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

type searchKeyMap struct{ KeyMap }

func (k searchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Apply, k.Cancel}
}

func (k searchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
