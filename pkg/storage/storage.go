// Package storage maps the NoteStaker data onto a key-value core.Store.
//
// Reads never fail: a missing key, an unreadable store or an undecodable
// payload yields the fallback value and a log line. Writes of the notes
// collection report failures; settings and theme writes only log them.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/notestaker/pkg/core"
)

// QuarantineSuffix is appended to the notes key to keep an unreadable payload.
const QuarantineSuffix = ".corrupt"

// Load reads key from store and decodes it. Any failure returns fallback.
func Load[T any](ctx context.Context, store core.Store, key string, fallback T, decode func(string) (T, error), logger *slog.Logger) T {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			logger.Warn("failed to read from storage", "key", key, "error", err)
		}
		return fallback
	}
	v, err := decode(raw)
	if err != nil {
		logger.Warn("failed to decode stored value", "key", key, "error", err)
		return fallback
	}
	return v
}

// Adapter reads and writes the three NoteStaker keys.
type Adapter struct {
	store  core.Store
	logger *slog.Logger
}

// New creates an Adapter over store. A nil logger discards output.
func New(store core.Store, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{store: store, logger: logger}
}

// Store returns the underlying key-value store.
func (a *Adapter) Store() core.Store {
	return a.store
}

// Close releases the underlying store when it holds open handles.
func (a *Adapter) Close() error {
	if closer, ok := a.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// GetNotes returns the stored collection, or an empty one when it is missing
// or does not match the note schema. A payload that fails the schema is
// copied to the quarantine key so the next save does not destroy it.
func (a *Adapter) GetNotes(ctx context.Context) []core.Note {
	return Load(ctx, a.store, core.NotesKey, []core.Note{}, func(raw string) ([]core.Note, error) {
		notes, err := DecodeNotes(raw)
		if err != nil {
			a.quarantine(ctx, raw)
			return nil, err
		}
		return notes, nil
	}, a.logger)
}

func (a *Adapter) quarantine(ctx context.Context, raw string) {
	key := core.NotesKey + QuarantineSuffix
	if err := a.store.Set(ctx, key, raw); err != nil {
		a.logger.Warn("failed to quarantine unreadable notes", "key", key, "error", err)
		return
	}
	a.logger.Warn("unreadable notes payload moved aside", "key", key, "bytes", len(raw))
}

// SaveNotes replaces the stored collection. Failures wrap core.ErrPersist.
func (a *Adapter) SaveNotes(ctx context.Context, notes []core.Note) error {
	raw, err := EncodeNotes(notes)
	if err == nil {
		err = a.store.Set(ctx, core.NotesKey, raw)
	}
	if err != nil {
		a.logger.Error("failed to save notes", "count", len(notes), "error", err)
		return fmt.Errorf("%w: %w", core.ErrPersist, err)
	}
	a.logger.Debug("notes saved", "count", len(notes), "bytes", len(raw))
	return nil
}

// GetSettings returns the stored settings laid over the defaults.
func (a *Adapter) GetSettings(ctx context.Context) core.AppSettings {
	return Load(ctx, a.store, core.SettingsKey, core.DefaultSettings(), DecodeSettings, a.logger)
}

// SaveSettings stores s. Failures are logged.
func (a *Adapter) SaveSettings(ctx context.Context, s core.AppSettings) {
	raw, err := json.Marshal(s)
	if err == nil {
		err = a.store.Set(ctx, core.SettingsKey, string(raw))
	}
	if err != nil {
		a.logger.Error("failed to save settings", "error", err)
	}
}

// GetTheme returns the stored theme, or system when absent or unknown.
func (a *Adapter) GetTheme(ctx context.Context) core.Theme {
	return Load(ctx, a.store, core.ThemeKey, core.ThemeSystem, DecodeTheme, a.logger)
}

// SaveTheme stores t as a plain string. Failures are logged.
func (a *Adapter) SaveTheme(ctx context.Context, t core.Theme) {
	if err := a.store.Set(ctx, core.ThemeKey, string(t)); err != nil {
		a.logger.Error("failed to save theme", "theme", t, "error", err)
	}
}

type storedNote struct {
	ID        *string         `json:"id"`
	Title     *string         `json:"title"`
	Content   *string         `json:"content"`
	Tags      json.RawMessage `json:"tags"`
	CreatedAt *string         `json:"createdAt"`
	UpdatedAt *string         `json:"updatedAt"`
	IsPinned  bool            `json:"isPinned"`
	Color     core.NoteColor  `json:"color"`
}

// DecodeNotes parses a stored collection, enforcing the note schema.
// Unknown fields are ignored and a color outside the palette loads as none.
func DecodeNotes(raw string) ([]core.Note, error) {
	data := bytes.TrimSpace([]byte(raw))
	if len(data) == 0 || data[0] != '[' {
		return nil, errors.New("notes payload is not a JSON array")
	}
	var stored []storedNote
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("notes payload: %w", err)
	}

	notes := make([]core.Note, 0, len(stored))
	for i, s := range stored {
		n, err := s.toNote()
		if err != nil {
			return nil, fmt.Errorf("note %d: %w", i, err)
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func (s storedNote) toNote() (core.Note, error) {
	switch {
	case s.ID == nil || *s.ID == "":
		return core.Note{}, errors.New("missing id")
	case s.Title == nil:
		return core.Note{}, errors.New("missing title")
	case s.Content == nil:
		return core.Note{}, errors.New("missing content")
	case s.CreatedAt == nil || s.UpdatedAt == nil:
		return core.Note{}, errors.New("missing timestamps")
	case len(s.Tags) == 0:
		return core.Note{}, errors.New("missing tags")
	}

	tags := []string{}
	if string(s.Tags) != "null" {
		if err := json.Unmarshal(s.Tags, &tags); err != nil {
			return core.Note{}, fmt.Errorf("tags: %w", err)
		}
		if tags == nil {
			tags = []string{}
		}
	}

	created, err := parseTime(*s.CreatedAt)
	if err != nil {
		return core.Note{}, fmt.Errorf("createdAt: %w", err)
	}
	updated, err := parseTime(*s.UpdatedAt)
	if err != nil {
		return core.Note{}, fmt.Errorf("updatedAt: %w", err)
	}
	color := s.Color
	if !color.Valid() {
		color = ""
	}

	return core.Note{
		ID:        *s.ID,
		Title:     *s.Title,
		Content:   *s.Content,
		Tags:      tags,
		CreatedAt: created,
		UpdatedAt: updated,
		IsPinned:  s.IsPinned,
		Color:     color,
	}, nil
}

// parseTime accepts RFC 3339 with any fractional precision, which covers the
// millisecond strings written by browsers.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// EncodeNotes serializes notes with UTC timestamps at full precision.
func EncodeNotes(notes []core.Note) (string, error) {
	out := make([]core.Note, len(notes))
	for i, n := range notes {
		n = n.Clone()
		n.CreatedAt = n.CreatedAt.UTC()
		n.UpdatedAt = n.UpdatedAt.UTC()
		out[i] = n
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeSettings parses stored settings over the defaults, so absent fields
// keep their default. Invalid values reject the whole payload.
func DecodeSettings(raw string) (core.AppSettings, error) {
	s := core.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return core.AppSettings{}, err
	}
	if err := s.Validate(); err != nil {
		return core.AppSettings{}, err
	}
	return s, nil
}

// DecodeTheme accepts the plain theme name, tolerating JSON quoting.
func DecodeTheme(raw string) (core.Theme, error) {
	return core.ParseTheme(strings.Trim(strings.TrimSpace(raw), `"`))
}
