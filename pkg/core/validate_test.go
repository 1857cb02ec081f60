package core_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/notestaker/pkg/core"
)

func TestValidate(t *testing.T) {
	longTitle := strings.Repeat("a", core.TitleMaxLength+1)
	longContent := strings.Repeat("x", core.ContentMaxLength+1)

	cases := []struct {
		name    string
		title   string
		content string
		want    string
	}{
		{"valid", "Groceries", "milk, eggs", ""},
		{"empty title", "", "body", "Title is required"},
		{"whitespace title", "   \t", "body", "Title is required"},
		{"title at limit", strings.Repeat("a", core.TitleMaxLength), "", ""},
		{"title too long", longTitle, "", "Title must be less than 100 characters"},
		{"content too long", "ok", longContent, "Content must be less than 50,000 characters"},
		{"empty title wins over content", " ", longContent, "Title is required"},
		{"title length wins over content", longTitle, longContent, "Title must be less than 100 characters"},
		{"multibyte title counts runes", strings.Repeat("é", core.TitleMaxLength), "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := core.Validate(tc.title, tc.content); got != tc.want {
				t.Errorf("Validate() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestValidateTags(t *testing.T) {
	if got := core.ValidateTags([]string{"a", "b"}); got != "" {
		t.Errorf("expected valid tags, got %q", got)
	}

	many := make([]string, core.MaxTagsPerNote+1)
	for i := range many {
		many[i] = string(rune('a' + i))
	}
	if got := core.ValidateTags(many); got == "" {
		t.Error("expected error for too many tags")
	}

	if got := core.ValidateTags([]string{strings.Repeat("t", core.TagMaxLength+1)}); got == "" {
		t.Error("expected error for long tag")
	}
}

func TestNormalizeTags(t *testing.T) {
	got := core.NormalizeTags([]string{" work ", "", "home", "work", "  "})
	want := []string{"work", "home"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("NormalizeTags() = %v, want %v", got, want)
	}

	if got := core.NormalizeTags(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestValidateNote(t *testing.T) {
	n := core.Note{Title: "ok", Color: "orange"}
	err := core.ValidateNote(n)
	var verr *core.ValidationError
	if err == nil {
		t.Fatal("expected validation error for unknown color")
	}
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}

	n.Color = core.ColorBlue
	if err := core.ValidateNote(n); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
