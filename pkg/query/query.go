// Package query derives the visible note list: free-text search, tag
// filtering and stable sorting. All functions are pure.
package query

import (
	"cmp"
	"slices"
	"sort"
	"strings"

	"github.com/aretw0/notestaker/pkg/core"
)

// Search returns the notes whose title, content or any tag contains query,
// case-insensitively. A blank query returns notes itself.
func Search(notes []core.Note, query string) []core.Note {
	if strings.TrimSpace(query) == "" {
		return notes
	}

	q := strings.ToLower(query)
	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if matches(n, q) {
			out = append(out, n)
		}
	}
	return out
}

func matches(n core.Note, lowerQuery string) bool {
	if strings.Contains(strings.ToLower(n.Title), lowerQuery) ||
		strings.Contains(strings.ToLower(n.Content), lowerQuery) {
		return true
	}
	for _, t := range n.Tags {
		if strings.Contains(strings.ToLower(t), lowerQuery) {
			return true
		}
	}
	return false
}

// FilterByTags keeps the notes carrying every tag in tags (AND semantics).
// An empty tag set returns notes itself.
func FilterByTags(notes []core.Note, tags []string) []core.Note {
	if len(tags) == 0 {
		return notes
	}

	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if hasAll(n, tags) {
			out = append(out, n)
		}
	}
	return out
}

func hasAll(n core.Note, tags []string) bool {
	for _, t := range tags {
		if !n.HasTag(t) {
			return false
		}
	}
	return true
}

// Sort returns a sorted copy of notes. The sort is stable: notes comparing
// equal keep their input order in both directions. Dates compare as
// instants, titles case-insensitively. The input is never mutated.
func Sort(notes []core.Note, key core.SortKey, order core.SortOrder) []core.Note {
	out := slices.Clone(notes)
	compare := comparator(key)
	if compare == nil {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if order == core.Desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func comparator(key core.SortKey) func(a, b core.Note) int {
	switch key {
	case core.SortByCreatedAt:
		return func(a, b core.Note) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case core.SortByUpdatedAt:
		return func(a, b core.Note) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case core.SortByTitle:
		return func(a, b core.Note) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	}
	return nil
}

// PinnedFirst returns a copy of notes with the pinned ones moved to the
// front. Order within each group is kept.
func PinnedFirst(notes []core.Note) []core.Note {
	out := make([]core.Note, 0, len(notes))
	for _, n := range notes {
		if n.IsPinned {
			out = append(out, n)
		}
	}
	for _, n := range notes {
		if !n.IsPinned {
			out = append(out, n)
		}
	}
	return out
}

// Apply runs the fixed pipeline: search, then tag filter, then sort.
func Apply(notes []core.Note, f core.SearchFilters) []core.Note {
	out := Search(notes, f.Query)
	out = FilterByTags(out, f.Tags)
	return Sort(out, f.SortBy, f.SortOrder)
}

// TagCount is a tag with the number of notes carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Tags lists the distinct tags of notes, most used first, then alphabetically.
func Tags(notes []core.Note) []TagCount {
	counts := make(map[string]int)
	for _, n := range notes {
		for _, t := range n.Tags {
			counts[t]++
		}
	}

	out := make([]TagCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, TagCount{Tag: t, Count: c})
	}
	slices.SortFunc(out, func(a, b TagCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return cmp.Compare(a.Tag, b.Tag)
	})
	return out
}
