// Package preview renders note content, which is Markdown, for display.
package preview

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts Markdown to an HTML fragment.
func HTML(content string) (string, error) {
	var b bytes.Buffer
	if err := markdown.Convert([]byte(content), &b); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return b.String(), nil
}

// PlainText strips Markdown syntax, keeping the readable text with one block
// per line.
func PlainText(content string) string {
	source := []byte(content)
	doc := markdown.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
				b.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteString(" ")
			}
		case *ast.String:
			b.Write(n.Value)
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// Snippet returns the first max runes of the plain text on a single line,
// with an ellipsis when cut.
func Snippet(content string, max int) string {
	flat := strings.Join(strings.Fields(PlainText(content)), " ")
	r := []rune(flat)
	if max <= 0 || len(r) <= max {
		return flat
	}
	if max == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}

// Terminal renders Markdown with ANSI styling for a terminal of a given
// width. Renderers are cached per width and style.
type Terminal struct {
	style string

	mu        sync.Mutex
	renderers map[int]*glamour.TermRenderer
}

// NewTerminal creates a terminal renderer. style is a glamour standard style
// name ("dark", "light", "notty"); empty picks one from the terminal
// background.
func NewTerminal(style string) *Terminal {
	return &Terminal{style: style, renderers: make(map[int]*glamour.TermRenderer)}
}

// Render renders content wrapped at width columns.
func (t *Terminal) Render(content string, width int) (string, error) {
	r, err := t.renderer(width)
	if err != nil {
		return "", err
	}
	out, err := r.Render(content)
	if err != nil {
		return "", fmt.Errorf("render terminal: %w", err)
	}
	return out, nil
}

func (t *Terminal) renderer(width int) (*glamour.TermRenderer, error) {
	if width < 20 {
		width = 20
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.renderers[width]; ok {
		return r, nil
	}

	styleOpt := glamour.WithAutoStyle()
	if t.style != "" {
		styleOpt = glamour.WithStandardStyle(t.style)
	}
	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("create terminal renderer: %w", err)
	}
	t.renderers[width] = r
	return r, nil
}
