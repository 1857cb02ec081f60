package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notestaker/pkg/adapters/memory"
	"github.com/aretw0/notestaker/pkg/core"
	"github.com/aretw0/notestaker/pkg/storage"
)

func TestSearchInput(t *testing.T) {
	ctx := context.Background()

	t.Run("Two Rapid Updates Apply Only The Last", func(t *testing.T) {
		c, _ := newTestContainer(t, memory.New())
		_, _ = c.Add(ctx, form("Groceries", "milk"))
		_, _ = c.Add(ctx, form("Garden", "roses"))

		var mu sync.Mutex
		var applied []string
		s := c.NewSearchInput(func(q string) {
			mu.Lock()
			applied = append(applied, q)
			mu.Unlock()
		})

		s.Set("gro")
		s.Set("gar")
		assert.Equal(t, "gar", s.Value())
		assert.Empty(t, c.Filters().Query, "nothing applied inside the window")

		require.Eventually(t, func() bool { return c.Filters().Query == "gar" }, time.Second, 5*time.Millisecond)
		time.Sleep(60 * time.Millisecond)

		mu.Lock()
		assert.Equal(t, []string{"gar"}, applied)
		mu.Unlock()
		require.Len(t, c.Visible(), 1)
		assert.Equal(t, "Garden", c.Visible()[0].Title)
	})

	t.Run("Clear Applies Immediately And Cancels Pending", func(t *testing.T) {
		c, _ := newTestContainer(t, memory.New())
		s := c.NewSearchInput(nil)

		s.Set("abc")
		s.Flush()
		assert.Equal(t, "abc", c.Filters().Query)

		s.Set("abcd")
		s.Clear()
		assert.Equal(t, "", c.Filters().Query)
		assert.Equal(t, "", s.Value())
		assert.False(t, s.Pending())

		time.Sleep(60 * time.Millisecond)
		assert.Equal(t, "", c.Filters().Query, "cancelled query never lands")
	})

	t.Run("Nothing Fires After Close", func(t *testing.T) {
		c, _ := newTestContainer(t, memory.New())
		s := c.NewSearchInput(nil)
		s.Set("late")
		s.Close()
		time.Sleep(60 * time.Millisecond)
		assert.Empty(t, c.Filters().Query)
	})
}

func TestAutosaver(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T, opts ...Option) (*Container, *memory.Store, core.Note) {
		store := memory.New()
		c, _ := newTestContainer(t, store, opts...)
		n, err := c.Add(ctx, form("Draft", "v0", "a"))
		require.NoError(t, err)
		return c, store, n
	}

	t.Run("Burst Of Edits Writes Once", func(t *testing.T) {
		c, _, n := setup(t)
		a, err := c.NewAutosaver(ctx, n.ID)
		require.NoError(t, err)

		d := DraftOf(n)
		for _, content := range []string{"v1", "v2", "v3"} {
			d.Content = content
			a.Edit(d)
		}
		require.True(t, a.Pending())

		require.Eventually(t, func() bool {
			got, _ := c.Note(n.ID)
			return got.Content == "v3"
		}, time.Second, 5*time.Millisecond)
		got, _ := c.Note(n.ID)
		assert.Equal(t, n.UpdatedAt.Add(time.Millisecond), got.UpdatedAt, "exactly one update")
		assert.NoError(t, a.Err())
	})

	t.Run("Unchanged Draft Is Not Written", func(t *testing.T) {
		c, _, n := setup(t)
		a, err := c.NewAutosaver(ctx, n.ID)
		require.NoError(t, err)

		require.NoError(t, a.ForceSave(DraftOf(n)))
		got, _ := c.Note(n.ID)
		assert.Equal(t, n.UpdatedAt, got.UpdatedAt)

		d := DraftOf(n)
		d.Tags = []string{" a "}
		require.NoError(t, a.ForceSave(d), "tags compare after normalization")
		got, _ = c.Note(n.ID)
		assert.Equal(t, n.UpdatedAt, got.UpdatedAt)
	})

	t.Run("ForceSave Writes Now", func(t *testing.T) {
		c, store, n := setup(t)
		a, err := c.NewAutosaver(ctx, n.ID)
		require.NoError(t, err)

		d := DraftOf(n)
		d.Title = "Final"
		a.Edit(d)
		require.NoError(t, a.ForceSave(d))
		assert.False(t, a.Pending())

		stored := storage.New(store, nil).GetNotes(ctx)
		assert.Equal(t, "Final", stored[0].Title)
	})

	t.Run("Invalid Draft Waits For Next Edit", func(t *testing.T) {
		c, _, n := setup(t)
		a, err := c.NewAutosaver(ctx, n.ID)
		require.NoError(t, err)

		d := DraftOf(n)
		d.Title = ""
		var invalid *core.ValidationError
		assert.ErrorAs(t, a.ForceSave(d), &invalid)

		d.Title = "Fixed"
		require.NoError(t, a.ForceSave(d))
		got, _ := c.Note(n.ID)
		assert.Equal(t, "Fixed", got.Title)
	})

	t.Run("Close Discards Pending Draft", func(t *testing.T) {
		c, _, n := setup(t)
		a, err := c.NewAutosaver(ctx, n.ID)
		require.NoError(t, err)

		d := DraftOf(n)
		d.Content = "lost"
		a.Edit(d)
		a.Close()
		time.Sleep(60 * time.Millisecond)
		got, _ := c.Note(n.ID)
		assert.Equal(t, "v0", got.Content)
	})

	t.Run("Disabled By Settings", func(t *testing.T) {
		c, _, n := setup(t)
		off := false
		_, err := c.UpdateSettings(ctx, core.SettingsPatch{AutoSave: &off})
		require.NoError(t, err)

		a, err := c.NewAutosaver(ctx, n.ID)
		require.NoError(t, err)
		d := DraftOf(n)
		d.Content = "typed"
		a.Edit(d)
		assert.False(t, a.Pending())

		require.NoError(t, a.ForceSave(d), "explicit saves still work")
		got, _ := c.Note(n.ID)
		assert.Equal(t, "typed", got.Content)
	})

	t.Run("Unknown Note", func(t *testing.T) {
		c, _, _ := setup(t)
		_, err := c.NewAutosaver(ctx, "nope")
		assert.ErrorIs(t, err, core.ErrNoteNotFound)
	})

	t.Run("Container Close Stops Autosavers", func(t *testing.T) {
		c, _, n := setup(t)
		a, err := c.NewAutosaver(ctx, n.ID)
		require.NoError(t, err)

		d := DraftOf(n)
		d.Content = "after close"
		a.Edit(d)
		require.NoError(t, c.Close(ctx))
		time.Sleep(60 * time.Millisecond)
		got, _ := c.Note(n.ID)
		assert.Equal(t, "v0", got.Content)
	})
}
