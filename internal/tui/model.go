// Package tui is the interactive terminal front end: a note list with a
// debounced search field, a Markdown preview and an autosaving editor.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/export"
	"github.com/aretw0/notestaker/pkg/keymap"
	"github.com/aretw0/notestaker/pkg/preview"
	"github.com/aretw0/notestaker/pkg/state"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeEdit
	modeConfirmDelete
)

// Config tunes a Model. The zero value is usable.
type Config struct {
	// IsDark reports the terminal background. Defaults to lipgloss.HasDarkBackground.
	IsDark func() bool
	// Shortcuts is the application shortcut table. Defaults to keymap.Defaults.
	Shortcuts []keymap.Binding
	Logger    *slog.Logger
}

// Model is the bubbletea model of the notes UI.
type Model struct {
	ctx       context.Context
	notes     *state.Container
	notify    *Notifier
	isDark    func() bool
	logger    *slog.Logger
	shortcuts *keymap.Dispatcher

	keys     KeyMap
	help     help.Model
	search   textinput.Model
	searchIn *state.SearchInput
	editor   editor
	viewport viewport.Model
	renderer *preview.Terminal
	theme    core.Theme

	mode    mode
	status  string
	width   int
	height  int
	ready   bool
	pending tea.Cmd
}

// New builds a Model over notes. notify may be nil; when set, the model
// re-reads the container whenever it fires.
func New(ctx context.Context, notes *state.Container, notify *Notifier, cfg Config) *Model {
	if cfg.IsDark == nil {
		cfg.IsDark = lipgloss.HasDarkBackground
	}
	if cfg.Shortcuts == nil {
		cfg.Shortcuts = keymap.Defaults()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if notify == nil {
		notify = NewNotifier()
	}

	search := textinput.New()
	search.Placeholder = "Search notes..."
	search.Prompt = "/ "
	search.SetValue(notes.Filters().Query)

	m := &Model{
		ctx:       ctx,
		notes:     notes,
		notify:    notify,
		isDark:    cfg.IsDark,
		logger:    cfg.Logger,
		shortcuts: keymap.NewDispatcher(cfg.Shortcuts, cfg.Logger),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		search:    search,
		editor:    newEditor(nil),
		viewport:  viewport.New(0, 0),
	}
	m.searchIn = notes.NewSearchInput(func(string) { notify.Notify() })
	m.shortcuts.Handle(keymap.NewNote, func() { m.openEditor(nil) })
	m.shortcuts.Handle(keymap.Search, m.focusSearch)
	m.syncSettings()
	m.ensureSelection()
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.notify.wait(m.ctx)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		m.refreshPreview()
		return m, nil

	case refreshMsg:
		m.syncSettings()
		m.ensureSelection()
		if m.mode == modeEdit && m.editor.autosave != nil {
			if err := m.editor.autosave.Err(); err != nil {
				m.status = "Autosave: " + err.Error()
			}
		}
		m.refreshPreview()
		return m, m.notify.wait(m.ctx)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		if m.mode == modeBrowse || m.mode == modeSearch {
			if m.dispatchShortcut(msg) {
				return m, m.takePending()
			}
		}
		switch m.mode {
		case modeSearch:
			return m, m.updateSearch(msg)
		case modeEdit:
			return m, m.updateEditor(msg)
		case modeConfirmDelete:
			return m, m.updateConfirm(msg)
		default:
			return m, m.updateBrowse(msg)
		}
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeEdit:
		_, cmd = m.editor.update(msg)
	case modeSearch:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

// dispatchShortcut runs the application shortcut bound to msg, if any.
func (m *Model) dispatchShortcut(msg tea.KeyMsg) bool {
	ev, err := keymap.ParseEvent(msg.String())
	if err != nil {
		return false
	}
	_, ok := m.shortcuts.Dispatch(ev)
	return ok
}

func (m *Model) takePending() tea.Cmd {
	cmd := m.pending
	m.pending = nil
	return cmd
}

func (m *Model) updateBrowse(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.New):
		m.openEditor(nil)
		return m.takePending()
	case key.Matches(msg, m.keys.Search):
		m.focusSearch()
		return m.takePending()
	case key.Matches(msg, m.keys.Edit):
		if n, ok := m.notes.Selected(); ok {
			m.openEditor(&n)
			return m.takePending()
		}
	case key.Matches(msg, m.keys.Pin):
		if n, ok := m.notes.Selected(); ok {
			m.report(m.notes.TogglePin(m.ctx, n.ID))
		}
	case key.Matches(msg, m.keys.Duplicate):
		if n, ok := m.notes.Selected(); ok {
			dup, err := m.notes.Duplicate(m.ctx, n.ID)
			if dup.ID != "" {
				m.notes.Select(dup.ID)
			}
			m.report(err)
		}
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.notes.Selected(); ok {
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, m.keys.Export):
		if n, ok := m.notes.Selected(); ok {
			if err := m.notes.ExportNote(m.ctx, n.ID, export.Markdown); err != nil {
				m.report(err)
			} else {
				m.status = "Exported " + export.Filename(n.Title, export.Markdown)
			}
		}
	case key.Matches(msg, m.keys.ExportAll):
		if err := m.notes.ExportAllNotes(m.ctx, export.Markdown); err != nil {
			m.report(err)
		} else {
			m.status = fmt.Sprintf("Exported %d notes", len(m.notes.Notes()))
		}
	case key.Matches(msg, m.keys.Preview):
		show := !m.notes.Settings().ShowPreview
		_, err := m.notes.UpdateSettings(m.ctx, core.SettingsPatch{ShowPreview: &show})
		m.report(err)
		m.layout()
	}
	m.ensureSelection()
	m.refreshPreview()
	return nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	m.mode = modeBrowse
	if !key.Matches(msg, m.keys.Confirm) {
		m.status = "Delete cancelled"
		return nil
	}
	n, ok := m.notes.Selected()
	if !ok {
		return nil
	}
	if err := m.notes.Delete(m.ctx, n.ID); err != nil {
		m.report(err)
	} else {
		m.status = "Deleted " + n.Title
	}
	m.ensureSelection()
	m.refreshPreview()
	return nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.searchIn.Clear()
		m.search.SetValue("")
		m.blurSearch()
		return nil
	case key.Matches(msg, m.keys.Apply):
		m.searchIn.Flush()
		m.blurSearch()
		return nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.searchIn.Set(v)
	}
	return cmd
}

func (m *Model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Save):
		m.saveEditor(true)
		return nil
	case key.Matches(msg, m.keys.Cancel):
		m.saveEditor(false)
		return nil
	case key.Matches(msg, m.keys.Next):
		m.editor.next()
		return nil
	}
	changed, cmd := m.editor.update(msg)
	if changed && m.editor.autosave != nil {
		m.editor.autosave.Edit(m.editor.draft())
	}
	return cmd
}

// saveEditor writes the editor and returns to the list. Leaving a new note
// with esc discards it unless it already has content; a note that fails
// validation keeps the editor open.
func (m *Model) saveEditor(explicit bool) {
	e := &m.editor
	if e.isNew() {
		if !explicit && e.empty() {
			m.closeEditor()
			return
		}
		n, err := m.notes.Add(m.ctx, e.form())
		var invalid *core.ValidationError
		if errors.As(err, &invalid) {
			m.status = invalid.Error()
			return
		}
		if n.ID != "" {
			m.notes.Select(n.ID)
		}
		m.report(err)
		if err == nil {
			m.status = "Created " + n.Title
		}
		m.closeEditor()
		return
	}

	if e.autosave != nil {
		err := e.autosave.ForceSave(e.draft())
		var invalid *core.ValidationError
		if errors.As(err, &invalid) {
			m.status = invalid.Error()
			return
		}
		m.report(err)
		if err == nil {
			m.status = "Saved"
		}
	}
	m.closeEditor()
}

func (m *Model) openEditor(n *core.Note) {
	m.blurSearch()
	m.editor.close()
	m.editor = newEditor(n)
	if n != nil {
		as, err := m.notes.NewAutosaver(m.ctx, n.ID)
		if err != nil {
			m.report(err)
			return
		}
		m.editor.autosave = as
	}
	m.mode = modeEdit
	m.status = ""
	m.layout()
	m.pending = textinput.Blink
}

func (m *Model) closeEditor() {
	m.editor.close()
	m.mode = modeBrowse
	m.ensureSelection()
	m.refreshPreview()
}

func (m *Model) focusSearch() {
	m.mode = modeSearch
	m.pending = m.search.Focus()
}

func (m *Model) blurSearch() {
	m.search.Blur()
	if m.mode == modeSearch {
		m.mode = modeBrowse
	}
	m.ensureSelection()
	m.refreshPreview()
}

func (m *Model) quit() tea.Cmd {
	if m.mode == modeEdit && m.editor.autosave != nil {
		m.report(m.editor.autosave.ForceSave(m.editor.draft()))
	}
	m.editor.close()
	m.searchIn.Close()
	return tea.Quit
}

// move shifts the selection by delta within the visible notes.
func (m *Model) move(delta int) {
	visible := m.notes.Visible()
	if len(visible) == 0 {
		return
	}
	i := m.selectedIndex(visible)
	i = min(max(i+delta, 0), len(visible)-1)
	m.notes.Select(visible[i].ID)
}

func (m *Model) selectedIndex(visible []core.Note) int {
	sel, ok := m.notes.Selected()
	if !ok {
		return 0
	}
	for i, n := range visible {
		if n.ID == sel.ID {
			return i
		}
	}
	return 0
}

// ensureSelection keeps the selection on a visible note.
func (m *Model) ensureSelection() {
	visible := m.notes.Visible()
	if len(visible) == 0 {
		return
	}
	if sel, ok := m.notes.Selected(); ok {
		for _, n := range visible {
			if n.ID == sel.ID {
				return
			}
		}
	}
	m.notes.Select(visible[0].ID)
}

// syncSettings applies settings that may have changed elsewhere.
func (m *Model) syncSettings() {
	s := m.notes.Settings()
	m.shortcuts.SetEnabled(s.EnableKeyboardShortcuts)
	theme := core.ResolveTheme(m.notes.Theme(), m.isDark)
	if theme != m.theme || m.renderer == nil {
		m.theme = theme
		m.renderer = preview.NewTerminal(string(theme))
	}
}

func (m *Model) report(err error) {
	if err == nil {
		return
	}
	m.logger.Warn("notes action failed", "error", err)
	m.status = "Error: " + err.Error()
}

// Status returns the last message shown in the status line.
func (m *Model) Status() string { return m.status }
