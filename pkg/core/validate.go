package core

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation limits.
const (
	TitleMaxLength   = 100
	ContentMaxLength = 50000
	TagMaxLength     = 30
	MaxTagsPerNote   = 10
)

// Validate checks a note's title and content. It returns the reason of the
// first violated rule, or "" when the input is acceptable. Rules are checked
// in order: empty title, title length, content length.
func Validate(title, content string) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required"
	}
	if utf8.RuneCountInString(title) > TitleMaxLength {
		return fmt.Sprintf("Title must be less than %d characters", TitleMaxLength)
	}
	if utf8.RuneCountInString(content) > ContentMaxLength {
		return "Content must be less than 50,000 characters"
	}
	return ""
}

// ValidateTags checks an already normalized tag list.
func ValidateTags(tags []string) string {
	if len(tags) > MaxTagsPerNote {
		return fmt.Sprintf("A note can have at most %d tags", MaxTagsPerNote)
	}
	for _, t := range tags {
		if utf8.RuneCountInString(t) > TagMaxLength {
			return fmt.Sprintf("Tag %q must be %d characters or fewer", t, TagMaxLength)
		}
	}
	return ""
}

// ValidateColor checks that c belongs to the palette.
func ValidateColor(c NoteColor) string {
	if !c.Valid() {
		return fmt.Sprintf("Unknown color %q", c)
	}
	return ""
}

// ValidateNote runs every rule against a complete note.
func ValidateNote(n Note) error {
	if reason := Validate(n.Title, n.Content); reason != "" {
		return Invalid(reason)
	}
	if reason := ValidateTags(n.Tags); reason != "" {
		return Invalid(reason)
	}
	return Invalid(ValidateColor(n.Color))
}

// NormalizeTags trims tags, drops empty ones and removes duplicates while
// keeping first-seen order. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
