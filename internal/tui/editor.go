package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/state"
)

const (
	fieldTitle = iota
	fieldTags
	fieldContent
	fieldCount
)

// editor holds the form for one note. An empty id means a new note that is
// only written on save; existing notes autosave while typing.
type editor struct {
	id       string
	color    core.NoteColor
	title    textinput.Model
	tags     textinput.Model
	content  textarea.Model
	focus    int
	autosave *state.Autosaver
}

func newEditor(n *core.Note) editor {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = core.TitleMaxLength
	title.Prompt = "Title: "

	tags := textinput.New()
	tags.Placeholder = "comma separated"
	tags.Prompt = "Tags:  "

	content := textarea.New()
	content.Placeholder = "Write your note in Markdown..."
	content.CharLimit = core.ContentMaxLength
	content.ShowLineNumbers = false

	e := editor{title: title, tags: tags, content: content}
	if n != nil {
		e.id = n.ID
		e.color = n.Color
		e.title.SetValue(n.Title)
		e.title.CursorEnd()
		e.tags.SetValue(strings.Join(n.Tags, ", "))
		e.tags.CursorEnd()
		e.content.SetValue(n.Content)
	}
	e.focusField(fieldTitle)
	return e
}

func (e *editor) isNew() bool { return e.id == "" }

func (e *editor) setSize(width, height int) {
	e.title.Width = max(width-len(e.title.Prompt)-2, 10)
	e.tags.Width = max(width-len(e.tags.Prompt)-2, 10)
	e.content.SetWidth(max(width, 10))
	e.content.SetHeight(max(height-3, 3))
}

func (e *editor) focusField(f int) {
	e.focus = f
	e.title.Blur()
	e.tags.Blur()
	e.content.Blur()
	switch f {
	case fieldTitle:
		e.title.Focus()
	case fieldTags:
		e.tags.Focus()
	case fieldContent:
		e.content.Focus()
	}
}

func (e *editor) next() {
	e.focusField((e.focus + 1) % fieldCount)
}

// update forwards msg to the focused field and reports whether the draft
// changed.
func (e *editor) update(msg tea.Msg) (bool, tea.Cmd) {
	before := e.draft()
	var cmd tea.Cmd
	switch e.focus {
	case fieldTitle:
		e.title, cmd = e.title.Update(msg)
	case fieldTags:
		e.tags, cmd = e.tags.Update(msg)
	default:
		e.content, cmd = e.content.Update(msg)
	}
	return !before.Equal(e.draft()), cmd
}

func (e *editor) draft() state.Draft {
	return state.Draft{
		Title:   e.title.Value(),
		Content: e.content.Value(),
		Tags:    splitTags(e.tags.Value()),
		Color:   e.color,
	}
}

func (e *editor) form() core.NoteFormData {
	d := e.draft()
	return core.NoteFormData{Title: d.Title, Content: d.Content, Tags: d.Tags, Color: d.Color}
}

func (e *editor) empty() bool {
	return strings.TrimSpace(e.title.Value()) == "" && strings.TrimSpace(e.content.Value()) == ""
}

func (e *editor) close() {
	if e.autosave != nil {
		e.autosave.Close()
		e.autosave = nil
	}
}

func (e *editor) view() string {
	return e.title.View() + "\n" + e.tags.View() + "\n\n" + e.content.View()
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
