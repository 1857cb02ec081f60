package state

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/notestaker/pkg/core"
)

// CopySuffix marks the title of a duplicated note.
const CopySuffix = " (Copy)"

// Add validates form, appends a new note and persists the collection.
// A persist failure is returned together with the note, which stays in memory.
func (c *Container) Add(ctx context.Context, form core.NoteFormData) (core.Note, error) {
	n := core.Note{
		Title:   strings.TrimSpace(form.Title),
		Content: form.Content,
		Tags:    core.NormalizeTags(form.Tags),
		Color:   form.Color,
	}
	if err := core.ValidateNote(n); err != nil {
		return core.Note{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock()
	n.ID = c.newID()
	n.CreatedAt = now
	n.UpdatedAt = now
	c.notes = append(c.notes, n)
	c.logger.Debug("note added", "id", n.ID)
	return n.Clone(), c.persistLocked(withReason(ctx, core.CommitTypeFeat, "add", n.Title))
}

// Update merges patch into the note with id. An unknown id is a recorded
// no-op and returns nil.
func (c *Container) Update(ctx context.Context, id string, patch core.NotePatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		c.missingLocked("update", id)
		return nil
	}

	prev := c.notes[i]
	n := patch.ApplyTo(prev)
	n.Title = strings.TrimSpace(n.Title)
	if err := core.ValidateNote(n); err != nil {
		return err
	}
	n.UpdatedAt = c.touch(prev.UpdatedAt)
	c.notes[i] = n
	return c.persistLocked(withReason(ctx, core.CommitTypeFix, "edit", n.Title))
}

// Delete removes the note with id, clearing the selection if it pointed there.
func (c *Container) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		c.missingLocked("delete", id)
		return nil
	}
	title := c.notes[i].Title
	c.notes = slices.Delete(c.notes, i, i+1)
	if c.selectedID == id {
		c.selectedID = ""
	}
	return c.persistLocked(withReason(ctx, core.CommitTypeChore, "delete", title))
}

// TogglePin flips the pinned flag of the note with id.
func (c *Container) TogglePin(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		c.missingLocked("pin", id)
		return nil
	}
	n := c.notes[i].Clone()
	n.IsPinned = !n.IsPinned
	n.UpdatedAt = c.touch(n.UpdatedAt)
	c.notes[i] = n
	verb := "unpin"
	if n.IsPinned {
		verb = "pin"
	}
	return c.persistLocked(withReason(ctx, core.CommitTypeChore, verb, n.Title))
}

// Duplicate inserts a copy of the note with id right after it. The copy gets
// a new id, fresh timestamps, a title marked with CopySuffix and no pin.
// An unknown id returns the zero Note and nil.
func (c *Container) Duplicate(ctx context.Context, id string) (core.Note, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		c.missingLocked("duplicate", id)
		return core.Note{}, nil
	}

	n := c.notes[i].Clone()
	now := c.clock()
	n.ID = c.newID()
	n.Title = copyTitle(n.Title)
	n.IsPinned = false
	n.CreatedAt = now
	n.UpdatedAt = now
	c.notes = slices.Insert(c.notes, i+1, n)
	return n.Clone(), c.persistLocked(withReason(ctx, core.CommitTypeFeat, "duplicate", c.notes[i].Title))
}

// copyTitle appends CopySuffix, shortening title so the result stays
// within core.TitleMaxLength.
func copyTitle(title string) string {
	room := core.TitleMaxLength - utf8.RuneCountInString(CopySuffix)
	if utf8.RuneCountInString(title) > room {
		title = strings.TrimSpace(string([]rune(title)[:room]))
	}
	return title + CopySuffix
}

// withReason describes a notes write for stores that keep history.
func withReason(ctx context.Context, ctype, verb, title string) context.Context {
	return core.WithChangeReason(ctx, core.FormatChangeReason(ctype, "notes", verb+" "+strconv.Quote(title), ""))
}
