package state

import (
	"context"
	"fmt"

	"github.com/aretw0/notestaker/pkg/export"
)

// ExportNote renders the note with id and hands it to the export sink.
// An unknown id is a recorded no-op.
func (c *Container) ExportNote(ctx context.Context, id string, format export.Format) error {
	c.mu.Lock()
	i := c.indexLocked(id)
	if i < 0 {
		c.missingLocked("export", id)
		c.mu.Unlock()
		return nil
	}
	file := c.formatter.ExportNote(c.notes[i], format)
	c.mu.Unlock()

	return c.deliver(ctx, file)
}

// ExportAllNotes renders the whole collection, in storage order, as one file.
func (c *Container) ExportAllNotes(ctx context.Context, format export.Format) error {
	c.mu.RLock()
	file := c.formatter.ExportAll(c.notes, format, c.clock())
	c.mu.RUnlock()

	return c.deliver(ctx, file)
}

func (c *Container) deliver(ctx context.Context, file export.File) error {
	if err := c.sink.Deliver(ctx, file); err != nil {
		return fmt.Errorf("failed to export %s: %w", file.Name, err)
	}
	c.logger.Info("note export delivered", "file", file.Name, "bytes", len(file.Content))
	return nil
}
