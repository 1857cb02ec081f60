package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/notestaker/internal/atomicfile"
)

// Sink receives rendered exports. It is the "download" side effect.
type Sink interface {
	Deliver(ctx context.Context, f File) error
}

// DirSink saves exports as files in Dir, replacing files with the same name.
type DirSink struct {
	Dir string
}

func (s DirSink) Deliver(ctx context.Context, f File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := atomicfile.WriteFile(filepath.Join(dir, f.Name), []byte(f.Content), 0644); err != nil {
		return fmt.Errorf("failed to write export %s: %w", f.Name, err)
	}
	return nil
}

// WriterSink streams the export content to W, ignoring the filename.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Deliver(ctx context.Context, f File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.WriteString(s.W, f.Content)
	return err
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, f File) error

func (fn SinkFunc) Deliver(ctx context.Context, f File) error {
	return fn(ctx, f)
}
