package state

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/debounce"
)

// Draft is the editable part of a note, as held by an editor.
type Draft struct {
	Title   string
	Content string
	Tags    []string
	Color   core.NoteColor
}

// DraftOf returns the editable fields of n.
func DraftOf(n core.Note) Draft {
	return Draft{Title: n.Title, Content: n.Content, Tags: slices.Clone(n.Tags), Color: n.Color}
}

// Equal reports whether both drafts hold the same values.
func (d Draft) Equal(o Draft) bool {
	return d.Title == o.Title && d.Content == o.Content && d.Color == o.Color &&
		slices.Equal(core.NormalizeTags(d.Tags), core.NormalizeTags(o.Tags))
}

func (d Draft) patch() core.NotePatch {
	tags := slices.Clone(d.Tags)
	return core.NotePatch{Title: &d.Title, Content: &d.Content, Tags: &tags, Color: &d.Color}
}

// Autosaver writes an editor draft back to its note once typing pauses.
// Drafts equal to the last saved value are not written.
type Autosaver struct {
	c       *Container
	ctx     context.Context
	id      string
	enabled bool
	d       *debounce.Debouncer[Draft]

	mu      sync.Mutex
	saved   Draft
	lastErr error
}

// NewAutosaver starts autosaving edits of the note with id. Writes use ctx.
// Debounced writes only happen when the AutoSave setting is on; ForceSave
// always writes. The container stops the Autosaver on Close.
func (c *Container) NewAutosaver(ctx context.Context, id string) (*Autosaver, error) {
	n, ok := c.Note(id)
	if !ok {
		return nil, core.ErrNoteNotFound
	}
	a := &Autosaver{
		c:       c,
		ctx:     ctx,
		id:      id,
		enabled: c.Settings().AutoSave,
		saved:   DraftOf(n),
	}
	a.d = debounce.New(c.autosaveDelay, func(d Draft) {
		if err := a.save(d); err != nil {
			c.logger.Warn("autosave failed", "id", id, "error", err)
		}
	})
	c.own(a, a.d.Stop)
	return a, nil
}

// Edit records the latest draft and restarts the quiet window.
func (a *Autosaver) Edit(d Draft) {
	if !a.enabled {
		return
	}
	a.d.Trigger(d)
}

// Pending reports whether a draft is waiting to be written.
func (a *Autosaver) Pending() bool {
	return a.d.Pending()
}

// ForceSave cancels the pending write and stores d now if it differs from
// the last saved draft.
func (a *Autosaver) ForceSave(d Draft) error {
	a.d.Cancel()
	return a.save(d)
}

// Err returns the error of the last background write.
func (a *Autosaver) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastErr
}

// Close discards any pending draft. Nothing is written after Close returns.
func (a *Autosaver) Close() {
	a.d.Stop()
	a.c.disown(a)
}

func (a *Autosaver) save(d Draft) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if d.Equal(a.saved) {
		return nil
	}
	if _, ok := a.c.Note(a.id); !ok {
		a.lastErr = core.ErrNoteNotFound
		return a.lastErr
	}

	err := a.c.Update(a.ctx, a.id, d.patch())
	a.lastErr = err
	var invalid *core.ValidationError
	switch {
	case err == nil:
		a.saved = Draft{Title: d.Title, Content: d.Content, Tags: slices.Clone(d.Tags), Color: d.Color}
	case errors.As(err, &invalid):
		// Mid-edit drafts are often invalid (an emptied title); wait for the next edit.
	case errors.Is(err, core.ErrPersist):
		// The change is in memory and marked dirty; treat it as saved.
		a.saved = Draft{Title: d.Title, Content: d.Content, Tags: slices.Clone(d.Tags), Color: d.Color}
	}
	return err
}
