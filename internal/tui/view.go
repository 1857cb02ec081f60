package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/export"
)

var (
	border = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))

	titleStyle    = lipgloss.NewStyle().Bold(true)
	blurStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// layout sizes the panes from the window size.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	sidebarW := m.sidebarWidth()
	bodyH := m.bodyHeight()
	rightW := max(m.width-sidebarW-6, 20)

	m.search.Width = max(sidebarW-6, 10)
	m.viewport.Width = rightW
	m.viewport.Height = max(bodyH-4, 3)
	m.editor.setSize(rightW, bodyH-2)
	m.help.Width = m.width
}

func (m *Model) sidebarWidth() int {
	if !m.notes.Settings().ShowPreview && m.mode != modeEdit {
		return max(m.width-4, 20)
	}
	return max(28, min(44, m.width/3))
}

func (m *Model) bodyHeight() int {
	helpH := 1
	if m.help.ShowAll {
		helpH = 6
	}
	return max(10, m.height-helpH-4)
}

// refreshPreview renders the selected note into the preview pane.
func (m *Model) refreshPreview() {
	if !m.ready {
		return
	}
	n, ok := m.notes.Selected()
	if !ok {
		m.viewport.SetContent("")
		return
	}
	out, err := m.renderer.Render(n.Content, m.viewport.Width)
	if err != nil {
		m.viewport.SetContent("Error: " + err.Error())
		return
	}
	m.viewport.SetContent(out)
	m.viewport.GotoTop()
}

func (m *Model) View() string {
	if !m.ready {
		return "loading..."
	}

	panes := []string{m.renderSidebar()}
	if m.mode == modeEdit || m.notes.Settings().ShowPreview {
		panes = append(panes, m.renderMain())
	}
	root := lipgloss.JoinHorizontal(lipgloss.Top, panes...)
	return lipgloss.JoinVertical(lipgloss.Left, root, m.renderStatus(), m.renderHelp())
}

func (m *Model) renderSidebar() string {
	w := m.sidebarWidth()
	h := m.bodyHeight()
	header := titleStyle.Render(core.AppName) + " " + blurStyle.Render(fmt.Sprintf("• %d notes", len(m.notes.Notes())))

	var b strings.Builder
	b.WriteString(header + "\n" + m.search.View() + "\n\n")

	visible := m.notes.Visible()
	if len(visible) == 0 {
		if m.notes.Filters().Query != "" {
			b.WriteString(blurStyle.Render("No notes match your search."))
		} else {
			b.WriteString(blurStyle.Render("No notes yet. Press n to create one."))
		}
	}
	sel, _ := m.notes.Selected()
	rows := max(h-5, 1)
	start := max(m.selectedIndex(visible)-rows+1, 0)
	now := time.Now()
	for i := start; i < len(visible) && i < start+rows; i++ {
		b.WriteString(m.renderRow(visible[i], visible[i].ID == sel.ID, w-4, now))
		b.WriteString("\n")
	}

	box := border.Width(w).Height(h).Padding(0, 1)
	if m.mode == modeSearch {
		box = box.BorderForeground(lipgloss.Color("205"))
	}
	return box.Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) renderRow(n core.Note, selected bool, width int, now time.Time) string {
	cursor, pin := " ", " "
	if n.IsPinned {
		pin = "★"
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(n.Color.Hex())).Render("●")
	date := export.RelativeDate(n.UpdatedAt, now)
	room := max(width-lipgloss.Width(date)-6, 4)
	title := truncate(n.Title, room)

	style := lipgloss.NewStyle()
	if selected {
		style = selectedStyle
		cursor = focusStyle.Render("›")
	}
	gap := max(width-4-lipgloss.Width(title)-lipgloss.Width(date), 1)
	return cursor + pin + swatch + " " + style.Render(title) + strings.Repeat(" ", gap) + blurStyle.Render(date)
}

func (m *Model) renderMain() string {
	w := max(m.width-m.sidebarWidth()-6, 20)
	h := m.bodyHeight()

	var header, content string
	if m.mode == modeEdit {
		header = titleStyle.Render("New note")
		if !m.editor.isNew() {
			header = titleStyle.Render("Edit")
		}
		content = m.editor.view()
	} else if n, ok := m.notes.Selected(); ok {
		header = titleStyle.Render(n.Title)
		if len(n.Tags) > 0 {
			header += " " + blurStyle.Render("#"+strings.Join(n.Tags, " #"))
		}
		header += "\n" + blurStyle.Render("Updated "+export.Local.ShortDate(n.UpdatedAt))
		content = m.viewport.View()
	} else {
		header = titleStyle.Render("Preview")
		content = blurStyle.Render("Select a note or press n to create one.")
	}

	box := border.Width(w).Height(h).Padding(0, 1)
	if m.mode == modeEdit {
		box = box.BorderForeground(lipgloss.Color("205"))
	}
	return box.Render(header + "\n\n" + content)
}

func (m *Model) renderStatus() string {
	switch {
	case m.mode == modeConfirmDelete:
		n, _ := m.notes.Selected()
		return warnStyle.Render(fmt.Sprintf(" Delete %q? (y/N)", n.Title))
	case strings.HasPrefix(m.status, "Error"):
		return warnStyle.Render(" " + m.status)
	case m.status != "":
		return statusStyle.Render(" " + m.status)
	case m.notes.Dirty():
		return warnStyle.Render(" Unsaved changes")
	}
	return statusStyle.Render(" ")
}

func (m *Model) renderHelp() string {
	style := lipgloss.NewStyle().Padding(0, 1)
	switch m.mode {
	case modeEdit:
		return style.Render(m.help.View(editKeyMap{KeyMap: m.keys}))
	case modeSearch:
		return style.Render(m.help.View(searchKeyMap{KeyMap: m.keys}))
	}
	return style.Render(m.help.View(m.keys))
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
