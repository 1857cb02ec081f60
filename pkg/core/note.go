package core

import (
	"slices"
	"time"
)

// Note is the central entity of the domain: a short user-authored text entry.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	IsPinned  bool      `json:"isPinned,omitempty"`
	Color     NoteColor `json:"color,omitempty"`
}

// Clone returns a copy of n that shares no slices with it.
func (n Note) Clone() Note {
	n.Tags = slices.Clone(n.Tags)
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}

// HasTag reports whether the note carries tag (exact match).
func (n Note) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// NoteFormData is the user input accepted when creating a note.
type NoteFormData struct {
	Title   string    `json:"title" yaml:"title"`
	Content string    `json:"content" yaml:"content"`
	Tags    []string  `json:"tags" yaml:"tags"`
	Color   NoteColor `json:"color,omitempty" yaml:"color,omitempty"`
}

// NotePatch carries the fields of a partial update. Nil fields are left alone.
type NotePatch struct {
	Title   *string
	Content *string
	Tags    *[]string
	Color   *NoteColor
}

// IsEmpty reports whether the patch changes nothing.
func (p NotePatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil && p.Color == nil
}

// ApplyTo merges the patch into n and returns the result. Timestamps are not
// touched; refreshing UpdatedAt is the caller's job.
func (p NotePatch) ApplyTo(n Note) Note {
	n = n.Clone()
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Tags != nil {
		n.Tags = NormalizeTags(*p.Tags)
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
	return n
}

// NoteColor is the optional color tag of a note.
type NoteColor string

const (
	ColorDefault NoteColor = "default"
	ColorYellow  NoteColor = "yellow"
	ColorGreen   NoteColor = "green"
	ColorBlue    NoteColor = "blue"
	ColorPink    NoteColor = "pink"
	ColorPurple  NoteColor = "purple"
)

var colorHex = map[NoteColor]string{
	ColorDefault: "#f8fafc",
	ColorYellow:  "#fef3c7",
	ColorGreen:   "#d1fae5",
	ColorBlue:    "#dbeafe",
	ColorPink:    "#fce7f3",
	ColorPurple:  "#e9d5ff",
}

// Colors lists the palette in display order.
func Colors() []NoteColor {
	return []NoteColor{ColorDefault, ColorYellow, ColorGreen, ColorBlue, ColorPink, ColorPurple}
}

// Hex returns the background color of c. Unknown and empty colors map to the default.
func (c NoteColor) Hex() string {
	if h, ok := colorHex[c]; ok {
		return h
	}
	return colorHex[ColorDefault]
}

// Valid reports whether c is empty or part of the palette.
func (c NoteColor) Valid() bool {
	if c == "" {
		return true
	}
	_, ok := colorHex[c]
	return ok
}
