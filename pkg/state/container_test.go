package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notestaker/pkg/adapters/memory"
	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/export"
	"github.com/aretw0/notestaker/pkg/storage"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// flakyStore fails writes while fail is set.
type flakyStore struct {
	*memory.Store
	fail atomic.Bool
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	if s.fail.Load() {
		return errors.New("disk full")
	}
	return s.Store.Set(ctx, key, value)
}

func sequentialIDs() func() string {
	var n atomic.Int32
	return func() string { return fmt.Sprintf("id-%d", n.Add(1)) }
}

func newTestContainer(t *testing.T, store core.Store, opts ...Option) (*Container, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	base := []Option{
		WithClock(clock.Now),
		WithIDGenerator(sequentialIDs()),
		WithFormatter(export.Formatter{Location: time.UTC}),
		WithDebounce(20*time.Millisecond, 20*time.Millisecond),
	}
	c := New(storage.New(store, nil), append(base, opts...)...)
	require.NoError(t, c.Load(context.Background()))
	t.Cleanup(func() { _ = c.Close(context.Background()) })
	return c, clock
}

func form(title, content string, tags ...string) core.NoteFormData {
	return core.NoteFormData{Title: title, Content: content, Tags: tags}
}

func TestAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("Groceries", func(t *testing.T) {
		store := memory.New()
		c, _ := newTestContainer(t, store)

		n, err := c.Add(ctx, form("Groceries", "milk, eggs"))
		require.NoError(t, err)
		assert.NotEmpty(t, n.ID)
		assert.True(t, n.CreatedAt.Equal(n.UpdatedAt))
		assert.NotNil(t, n.Tags)
		assert.Empty(t, n.Tags)

		stored := storage.New(store, nil).GetNotes(ctx)
		require.Len(t, stored, 1)
		assert.Equal(t, n.ID, stored[0].ID)
	})

	t.Run("Appends With Unique IDs", func(t *testing.T) {
		c := New(storage.New(memory.New(), nil))
		require.NoError(t, c.Load(ctx))

		a, err := c.Add(ctx, form("a", ""))
		require.NoError(t, err)
		b, err := c.Add(ctx, form("b", "", " work ", "work", ""))
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
		assert.Equal(t, []string{"work"}, b.Tags)
		assert.Equal(t, []string{a.ID, b.ID}, []string{c.Notes()[0].ID, c.Notes()[1].ID})
	})

	t.Run("Validation Blocks The Mutation", func(t *testing.T) {
		store := memory.New()
		c, _ := newTestContainer(t, store)

		cases := map[string]core.NoteFormData{
			"Title is required":                           form("   ", "x"),
			"Title must be less than 100 characters":      form(strings.Repeat("t", 101), ""),
			"Content must be less than 50,000 characters": form("ok", strings.Repeat("c", 50001)),
		}
		for reason, f := range cases {
			_, err := c.Add(ctx, f)
			var invalid *core.ValidationError
			require.True(t, errors.As(err, &invalid), reason)
			assert.Equal(t, reason, invalid.Reason)
		}
		assert.Empty(t, c.Notes())
		_, err := store.Get(ctx, core.NotesKey)
		assert.ErrorIs(t, err, core.ErrNotFound, "nothing persisted")
	})
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing ID Is A Silent No-Op", func(t *testing.T) {
		c, _ := newTestContainer(t, memory.New())
		_, err := c.Add(ctx, form("keep", "me"))
		require.NoError(t, err)
		before := c.Notes()

		title := "changed"
		require.NoError(t, c.Update(ctx, "nope", core.NotePatch{Title: &title}))
		assert.Equal(t, before, c.Notes())
		assert.ErrorIs(t, c.Err(), core.ErrNoteNotFound)

		c.ClearErr()
		assert.NoError(t, c.Err())
	})

	t.Run("Merges Fields And Refreshes UpdatedAt", func(t *testing.T) {
		c, clock := newTestContainer(t, memory.New())
		n, err := c.Add(ctx, form("Plan", "v1", "work"))
		require.NoError(t, err)

		clock.Advance(time.Minute)
		content := "v2"
		require.NoError(t, c.Update(ctx, n.ID, core.NotePatch{Content: &content}))

		got, ok := c.Note(n.ID)
		require.True(t, ok)
		assert.Equal(t, "Plan", got.Title)
		assert.Equal(t, "v2", got.Content)
		assert.Equal(t, []string{"work"}, got.Tags)
		assert.Equal(t, n.CreatedAt, got.CreatedAt, "createdAt is immutable")
		assert.Equal(t, n.CreatedAt.Add(time.Minute), got.UpdatedAt)
	})

	t.Run("Content Edit Of A Note With A Foreign Color", func(t *testing.T) {
		store := memory.New(memory.WithData(map[string]string{
			core.NotesKey: `[{"id":"1","title":"Imported","content":"old","tags":[],"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-01-01T00:00:00Z","color":"#ff0000"}]`,
		}))
		c, _ := newTestContainer(t, store)

		content := "new"
		require.NoError(t, c.Update(ctx, "1", core.NotePatch{Content: &content}))
		got, ok := c.Note("1")
		require.True(t, ok)
		assert.Equal(t, "new", got.Content)
		assert.Empty(t, got.Color)
		assert.NoError(t, c.Err())
	})

	t.Run("UpdatedAt Strictly Increases With A Frozen Clock", func(t *testing.T) {
		c, _ := newTestContainer(t, memory.New())
		n, err := c.Add(ctx, form("Plan", ""))
		require.NoError(t, err)

		prev := n.UpdatedAt
		for i := range 3 {
			content := fmt.Sprint(i)
			require.NoError(t, c.Update(ctx, n.ID, core.NotePatch{Content: &content}))
			got, _ := c.Note(n.ID)
			assert.True(t, got.UpdatedAt.After(prev))
			prev = got.UpdatedAt
		}
	})

	t.Run("Invalid Patch Is Rejected", func(t *testing.T) {
		c, _ := newTestContainer(t, memory.New())
		n, err := c.Add(ctx, form("Plan", ""))
		require.NoError(t, err)

		empty := ""
		err = c.Update(ctx, n.ID, core.NotePatch{Title: &empty})
		var invalid *core.ValidationError
		assert.True(t, errors.As(err, &invalid))
		got, _ := c.Note(n.ID)
		assert.Equal(t, "Plan", got.Title)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestContainer(t, memory.New())

	a, _ := c.Add(ctx, form("a", ""))
	b, _ := c.Add(ctx, form("b", ""))
	c.Select(a.ID)

	require.NoError(t, c.Delete(ctx, b.ID))
	sel, ok := c.Selected()
	require.True(t, ok, "deleting another note keeps the selection")
	assert.Equal(t, a.ID, sel.ID)

	require.NoError(t, c.Delete(ctx, a.ID))
	_, ok = c.Selected()
	assert.False(t, ok)
	assert.Empty(t, c.Notes())

	require.NoError(t, c.Delete(ctx, a.ID))
	assert.ErrorIs(t, c.Err(), core.ErrNoteNotFound)
}

func TestTogglePin(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestContainer(t, memory.New())
	n, _ := c.Add(ctx, form("pin me", ""))

	require.NoError(t, c.TogglePin(ctx, n.ID))
	once, _ := c.Note(n.ID)
	assert.True(t, once.IsPinned)
	assert.True(t, once.UpdatedAt.After(n.UpdatedAt))

	require.NoError(t, c.TogglePin(ctx, n.ID))
	twice, _ := c.Note(n.ID)
	assert.Equal(t, n.IsPinned, twice.IsPinned)
	assert.True(t, twice.UpdatedAt.After(once.UpdatedAt))
}

func TestDuplicate(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestContainer(t, memory.New())

	a, _ := c.Add(ctx, core.NoteFormData{Title: "Source", Content: "body", Tags: []string{"x"}, Color: core.ColorBlue})
	b, _ := c.Add(ctx, form("Other", ""))
	require.NoError(t, c.TogglePin(ctx, a.ID))

	clock.Advance(time.Hour)
	dup, err := c.Duplicate(ctx, a.ID)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, dup.ID)
	assert.Equal(t, "Source (Copy)", dup.Title)
	assert.Equal(t, "body", dup.Content)
	assert.Equal(t, []string{"x"}, dup.Tags)
	assert.Equal(t, core.ColorBlue, dup.Color)
	assert.False(t, dup.IsPinned)
	assert.Equal(t, clock.Now(), dup.CreatedAt)
	assert.Equal(t, dup.CreatedAt, dup.UpdatedAt)

	notes := c.Notes()
	require.Len(t, notes, 3)
	assert.Equal(t, []string{a.ID, dup.ID, b.ID}, []string{notes[0].ID, notes[1].ID, notes[2].ID})

	t.Run("Long Titles Stay Within The Limit", func(t *testing.T) {
		long, err := c.Add(ctx, form(strings.Repeat("é", core.TitleMaxLength), ""))
		require.NoError(t, err)
		dup, err := c.Duplicate(ctx, long.ID)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(dup.Title, CopySuffix))
		assert.Empty(t, core.Validate(dup.Title, ""))
	})

	t.Run("Missing ID", func(t *testing.T) {
		dup, err := c.Duplicate(ctx, "nope")
		require.NoError(t, err)
		assert.Empty(t, dup.ID)
		assert.ErrorIs(t, c.Err(), core.ErrNoteNotFound)
	})
}

func TestPersistFailure(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{Store: memory.New()}
	c, _ := newTestContainer(t, store)

	kept, err := c.Add(ctx, form("kept", ""))
	require.NoError(t, err)

	store.fail.Store(true)
	n, err := c.Add(ctx, form("unsaved", ""))
	assert.ErrorIs(t, err, core.ErrPersist)
	assert.NotEmpty(t, n.ID, "the note stays in memory")
	assert.ErrorIs(t, c.Err(), core.ErrPersist)
	assert.True(t, c.Dirty())
	assert.Len(t, c.Notes(), 2)

	title := "x"
	assert.ErrorIs(t, c.Update(ctx, kept.ID, core.NotePatch{Title: &title}), core.ErrPersist)
	assert.ErrorIs(t, c.Delete(ctx, kept.ID), core.ErrPersist)

	t.Run("Close Flushes Dirty Collection", func(t *testing.T) {
		store.fail.Store(false)
		require.NoError(t, c.Close(ctx))
		assert.False(t, c.Dirty())

		stored := storage.New(store, nil).GetNotes(ctx)
		require.Len(t, stored, 1)
		assert.Equal(t, "unsaved", stored[0].Title)
	})
}

func TestLoad(t *testing.T) {
	store := memory.New(memory.WithData(map[string]string{
		core.NotesKey:    `[{"id":"1","title":"Stored","content":"","tags":[],"createdAt":"2024-01-01T00:00:00.000Z","updatedAt":"2024-01-02T00:00:00.000Z"}]`,
		core.SettingsKey: `{"defaultSortBy":"title","defaultSortOrder":"asc"}`,
		core.ThemeKey:    "dark",
	}))
	c, _ := newTestContainer(t, store)

	assert.False(t, c.IsLoading())
	require.Len(t, c.Notes(), 1)
	assert.Equal(t, core.ThemeDark, c.Theme())
	f := c.Filters()
	assert.Equal(t, core.SortByTitle, f.SortBy)
	assert.Equal(t, core.Asc, f.SortOrder)
	assert.Empty(t, f.Query)
}

func TestVisible(t *testing.T) {
	ctx := context.Background()
	c, clock := newTestContainer(t, memory.New())

	for _, f := range []core.NoteFormData{
		form("Groceries", "milk", "home"),
		form("Work plan", "milestones", "work", "plan"),
		form("Home plan", "paint", "home", "plan"),
	} {
		_, err := c.Add(ctx, f)
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	titles := func() []string {
		var out []string
		for _, n := range c.Visible() {
			out = append(out, n.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Home plan", "Work plan", "Groceries"}, titles(), "default is updatedAt desc")

	q := "plan"
	c.SetSearchFilters(core.FiltersPatch{Query: &q})
	tags := []string{"home"}
	c.SetSearchFilters(core.FiltersPatch{Tags: &tags})
	assert.Equal(t, []string{"Home plan"}, titles())

	empty := []string{}
	by, order := core.SortByTitle, core.Asc
	c.SetSearchFilters(core.FiltersPatch{Tags: &empty, SortBy: &by, SortOrder: &order})
	assert.Equal(t, []string{"Home plan", "Work plan"}, titles())
	assert.Equal(t, "plan", c.Filters().Query, "shallow merge keeps other fields")

	assert.Len(t, c.Notes(), 3, "filters never change the collection")
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	var got []export.File
	sink := export.SinkFunc(func(_ context.Context, f export.File) error {
		got = append(got, f)
		return nil
	})
	c, _ := newTestContainer(t, memory.New(), WithExportSink(sink))

	n, _ := c.Add(ctx, form("My Plan!!", "steps"))
	_, _ = c.Add(ctx, form("Second", ""))

	require.NoError(t, c.ExportNote(ctx, n.ID, export.Text))
	require.NoError(t, c.ExportAllNotes(ctx, export.Markdown))
	require.NoError(t, c.ExportNote(ctx, "nope", export.Text))

	require.Len(t, got, 2)
	assert.Equal(t, "my_plan__.txt", got[0].Name)
	assert.True(t, strings.HasPrefix(got[0].Content, "My Plan!!\n\nsteps\n\nTags: \n"))
	assert.Equal(t, "all_notes_May_1__2024.md", got[1].Name)
	assert.Equal(t, 2, strings.Count(got[1].Content, "\n\n---\n\n"))
	assert.ErrorIs(t, c.Err(), core.ErrNoteNotFound)

	t.Run("Sink Failure", func(t *testing.T) {
		c.sink = export.SinkFunc(func(context.Context, export.File) error { return errors.New("no space") })
		assert.Error(t, c.ExportAllNotes(ctx, export.Text))
	})
}

func TestSettingsAndTheme(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	c, _ := newTestContainer(t, store)

	off := false
	s, err := c.UpdateSettings(ctx, core.SettingsPatch{AutoSave: &off})
	require.NoError(t, err)
	assert.False(t, s.AutoSave)
	assert.False(t, storage.New(store, nil).GetSettings(ctx).AutoSave)

	zero := 0
	_, err = c.UpdateSettings(ctx, core.SettingsPatch{AutoSaveInterval: &zero})
	assert.Error(t, err)
	assert.Equal(t, 5000, c.Settings().AutoSaveInterval)

	require.NoError(t, c.SetTheme(ctx, core.ThemeLight))
	assert.Equal(t, core.ThemeLight, storage.New(store, nil).GetTheme(ctx))
	assert.Error(t, c.SetTheme(ctx, core.Theme("sepia")))

	assert.Equal(t, core.ThemeDark, c.ToggleTheme(ctx, nil))
	assert.Equal(t, core.ThemeLight, c.ToggleTheme(ctx, nil))
}

func TestWatch(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	changes := make(chan core.Event, 8)
	c, _ := newTestContainer(t, store, WithChangeHandler(func(e core.Event) { changes <- e }))

	n, err := c.Add(ctx, form("mine", ""))
	require.NoError(t, err)
	c.Select(n.ID)

	require.NoError(t, c.Watch(ctx))
	assert.True(t, c.Watching())
	assert.Error(t, c.Watch(ctx), "second Watch is rejected")

	// Another tab replaces the collection.
	other := storage.New(store, nil)
	require.NoError(t, other.SaveNotes(ctx, []core.Note{{ID: "x", Title: "theirs", Tags: []string{}, CreatedAt: time.Now(), UpdatedAt: time.Now()}}))

	select {
	case e := <-changes:
		assert.Equal(t, core.NotesKey, e.Key)
	case <-time.After(2 * time.Second):
		t.Fatal("change not observed")
	}
	notes := c.Notes()
	require.Len(t, notes, 1)
	assert.Equal(t, "theirs", notes[0].Title)
	_, ok := c.Selected()
	assert.False(t, ok, "selection of a vanished note is cleared")

	other.SaveTheme(ctx, core.ThemeDark)
	require.Eventually(t, func() bool { return c.Theme() == core.ThemeDark }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, c.Close(ctx))
	assert.False(t, c.Watching())

	t.Run("Unwatchable Store", func(t *testing.T) {
		c := New(storage.New(struct{ core.Store }{memory.New()}, nil))
		assert.ErrorIs(t, c.Watch(ctx), ErrNotWatchable)
	})
}

func TestWatch_OwnWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("Sequential Adds", func(t *testing.T) {
		store := memory.New()
		c, _ := newTestContainer(t, store)
		require.NoError(t, c.Watch(ctx))

		for i := range 300 {
			_, err := c.Add(ctx, form(fmt.Sprintf("note %d", i), ""))
			require.NoError(t, err)
		}

		require.Len(t, c.Notes(), 300)
		assert.Len(t, storage.New(store, nil).GetNotes(ctx), 300)
		require.NoError(t, c.Close(ctx))
		assert.Len(t, storage.New(store, nil).GetNotes(ctx), 300)
	})

	t.Run("Concurrent Adds", func(t *testing.T) {
		store := memory.New()
		c, _ := newTestContainer(t, store)
		require.NoError(t, c.Watch(ctx))

		var wg sync.WaitGroup
		for i := range 120 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := c.Add(ctx, form(fmt.Sprintf("note %d", i), ""))
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		require.Len(t, c.Notes(), 120)
		require.NoError(t, c.Close(ctx))
		assert.Len(t, storage.New(store, nil).GetNotes(ctx), 120)
	})
}

func TestState(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestContainer(t, memory.New())
	n, _ := c.Add(ctx, form("a", ""))
	require.NoError(t, c.TogglePin(ctx, n.ID))
	c.NewSearchInput(nil)

	st, ok := c.State().(ContainerState)
	require.True(t, ok)
	assert.Equal(t, 1, st.Notes)
	assert.Equal(t, 1, st.Pinned)
	assert.Equal(t, 1, st.Owned)
	assert.Equal(t, "notes-container", c.ComponentType())
}

// reasonStore records the change reason of every write.
type reasonStore struct {
	*memory.Store
	mu      sync.Mutex
	reasons []string
}

func (s *reasonStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.reasons = append(s.reasons, key+": "+strings.SplitN(core.ChangeReason(ctx), "\n", 2)[0])
	s.mu.Unlock()
	return s.Store.Set(ctx, key, value)
}

func TestChangeReasons(t *testing.T) {
	ctx := context.Background()
	store := &reasonStore{Store: memory.New()}
	c, _ := newTestContainer(t, store)

	n, err := c.Add(ctx, form("Groceries", "milk"))
	require.NoError(t, err)
	title := "Shopping"
	require.NoError(t, c.Update(ctx, n.ID, core.NotePatch{Title: &title}))
	require.NoError(t, c.TogglePin(ctx, n.ID))
	_, err = c.Duplicate(ctx, n.ID)
	require.NoError(t, err)
	require.NoError(t, c.Delete(core.WithChangeReason(ctx, "cleanup"), n.ID))
	require.NoError(t, c.SetTheme(ctx, core.ThemeDark))

	assert.Equal(t, []string{
		`notestaker_notes: feat(notes): add "Groceries"`,
		`notestaker_notes: fix(notes): edit "Shopping"`,
		`notestaker_notes: chore(notes): pin "Shopping"`,
		`notestaker_notes: feat(notes): duplicate "Shopping"`,
		`notestaker_notes: cleanup`,
		`notestaker_theme: chore(theme): switch to dark`,
	}, store.reasons)
}
