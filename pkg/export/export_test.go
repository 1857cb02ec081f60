package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notestaker/pkg/core"
)

var utc = Formatter{Location: time.UTC}

func sample() core.Note {
	return core.Note{
		ID:        "n1",
		Title:     "My Plan!!",
		Content:   "step 1\nstep 2",
		Tags:      []string{"work", "q3"},
		CreatedAt: time.Date(2024, 1, 2, 9, 5, 0, 0, time.UTC),
		UpdatedAt: time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("md")
	require.NoError(t, err)
	assert.Equal(t, Markdown, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestDates(t *testing.T) {
	at := time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, "Tuesday, January 2, 2024 at 03:30 PM", utc.LongDate(at))
	assert.Equal(t, "Jan 2, 2024", utc.ShortDate(at))

	t.Run("Relative", func(t *testing.T) {
		cases := []struct {
			ago  time.Duration
			want string
		}{
			{10 * time.Second, "Just now"},
			{-time.Hour, "Just now"},
			{5 * time.Minute, "5 minutes ago"},
			{3*time.Hour + 59*time.Minute, "3 hours ago"},
			{2 * 24 * time.Hour, "2 days ago"},
			{8 * 24 * time.Hour, "Dec 25, 2023"},
		}
		for _, tc := range cases {
			assert.Equal(t, tc.want, utc.RelativeDate(at.Add(-tc.ago), at), tc.ago.String())
		}
	})
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "my_plan__", Slug("My Plan!!"))
	assert.Equal(t, "caf__2024", Slug("Café 2024"))
	assert.Equal(t, "my_plan__.txt", Filename("My Plan!!", Text))
	assert.Equal(t, "my_plan__.md", Filename("My Plan!!", Markdown))
	assert.Equal(t, "a__b", Slug("a😀b"), "one underscore per UTF-16 unit")
	assert.Equal(t, "a__b.md", Filename("a😀b", Markdown))
	assert.Equal(t, "___", Slug("日本語"))
}

func TestNote(t *testing.T) {
	n := sample()

	t.Run("Text", func(t *testing.T) {
		want := "My Plan!!\n\nstep 1\nstep 2\n\nTags: work, q3\n" +
			"Created: Tuesday, January 2, 2024 at 09:05 AM\n" +
			"Updated: Tuesday, January 2, 2024 at 03:30 PM"
		assert.Equal(t, want, utc.Note(n, Text))
	})

	t.Run("Markdown", func(t *testing.T) {
		want := "# My Plan!!\n\nstep 1\nstep 2\n\n---\n\n**Tags:** work, q3\n" +
			"**Created:** Tuesday, January 2, 2024 at 09:05 AM\n" +
			"**Updated:** Tuesday, January 2, 2024 at 03:30 PM"
		assert.Equal(t, want, utc.Note(n, Markdown))
	})

	t.Run("No Tags", func(t *testing.T) {
		n := sample()
		n.Tags = []string{}
		assert.Contains(t, utc.Note(n, Text), "\nTags: \n")
	})

	t.Run("Export File", func(t *testing.T) {
		f := utc.ExportNote(n, Text)
		assert.Equal(t, "my_plan__.txt", f.Name)
		assert.Equal(t, utc.Note(n, Text), f.Content)
	})
}

func TestAll(t *testing.T) {
	a := sample()
	b := sample()
	b.Title = "Second"
	b.Content = "body"
	b.Tags = []string{}
	now := time.Date(2024, 1, 2, 18, 0, 0, 0, time.UTC)

	t.Run("Text", func(t *testing.T) {
		got := utc.All([]core.Note{a, b}, Text)
		sep := "\n\n" + strings.Repeat("=", 50) + "\n\n"
		assert.Equal(t, 2, strings.Count(got, sep))
		assert.True(t, strings.HasPrefix(got, "My Plan!!\n\nstep 1"))
		assert.True(t, strings.HasSuffix(got, sep))
		assert.Contains(t, got, sep+"Second\n\nbody\n\nTags: \n")
	})

	t.Run("Markdown", func(t *testing.T) {
		got := utc.All([]core.Note{a, b}, Markdown)
		assert.Equal(t, 2, strings.Count(got, "\n\n---\n\n"))
		assert.Contains(t, got, "---\n\n# Second\n\nbody\n\n**Tags:** \n")
		assert.NotContains(t, got, "step 2\n\n---\n\n**Tags:**", "combined export has no rule before tags")
	})

	t.Run("Empty Collection", func(t *testing.T) {
		assert.Equal(t, "", utc.All(nil, Markdown))
	})

	t.Run("Filename Keeps Date Case", func(t *testing.T) {
		f := utc.ExportAll([]core.Note{a}, Markdown, now)
		assert.Equal(t, "all_notes_Jan_2__2024.md", f.Name)
	})
}

func TestSinks(t *testing.T) {
	ctx := context.Background()
	file := File{Name: "my_plan__.txt", Content: "hello"}

	t.Run("DirSink Writes File", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "exports")
		require.NoError(t, DirSink{Dir: dir}.Deliver(ctx, file))

		got, err := os.ReadFile(filepath.Join(dir, file.Name))
		require.NoError(t, err)
		assert.Equal(t, "hello", string(got))
	})

	t.Run("WriterSink Streams Content", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriterSink{W: &buf}.Deliver(ctx, file))
		assert.Equal(t, "hello", buf.String())
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := DirSink{Dir: t.TempDir()}.Deliver(cctx, file)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
