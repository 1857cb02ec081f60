// Package export renders notes to the plain text and Markdown files users
// download. The templates are byte-exact with earlier exports.
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/aretw0/notestaker/pkg/core"
)

// Format is an export file format.
type Format string

const (
	Text     Format = "txt"
	Markdown Format = "md"
)

// ParseFormat converts user input into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case Text, Markdown:
		return Format(s), nil
	}
	return "", fmt.Errorf("invalid export format %q (want txt or md)", s)
}

// Ext returns the file extension of f, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

const textRule = "=================================================="

// File is a rendered export ready to be delivered.
type File struct {
	Name    string
	Content string
}

// Formatter renders notes with dates expressed in Location.
type Formatter struct {
	Location *time.Location
}

// Local is the Formatter used by the package-level helpers.
var Local = Formatter{Location: time.Local}

func (f Formatter) in(t time.Time) time.Time {
	if f.Location == nil {
		return t
	}
	return t.In(f.Location)
}

// LongDate renders t like "Tuesday, January 2, 2024 at 03:04 PM".
func (f Formatter) LongDate(t time.Time) string {
	return f.in(t).Format("Monday, January 2, 2006 at 03:04 PM")
}

// ShortDate renders t like "Jan 2, 2024".
func (f Formatter) ShortDate(t time.Time) string {
	return f.in(t).Format("Jan 2, 2006")
}

// RelativeDate renders t relative to now: "Just now", "5 minutes ago",
// "3 hours ago", "2 days ago", or the short date past a week.
func (f Formatter) RelativeDate(t, now time.Time) string {
	secs := int64(now.Sub(t) / time.Second)
	switch {
	case secs < 60:
		return "Just now"
	case secs < 3600:
		return fmt.Sprintf("%d minutes ago", secs/60)
	case secs < 86400:
		return fmt.Sprintf("%d hours ago", secs/3600)
	case secs < 604800:
		return fmt.Sprintf("%d days ago", secs/86400)
	}
	return f.ShortDate(t)
}

// Note renders a single note.
func (f Formatter) Note(n core.Note, format Format) string {
	tags := strings.Join(n.Tags, ", ")
	if format == Markdown {
		return fmt.Sprintf("# %s\n\n%s\n\n---\n\n**Tags:** %s\n**Created:** %s\n**Updated:** %s",
			n.Title, n.Content, tags, f.LongDate(n.CreatedAt), f.LongDate(n.UpdatedAt))
	}
	return fmt.Sprintf("%s\n\n%s\n\nTags: %s\nCreated: %s\nUpdated: %s",
		n.Title, n.Content, tags, f.LongDate(n.CreatedAt), f.LongDate(n.UpdatedAt))
}

// All renders every note as one document. Each block ends with a separator:
// a horizontal rule in Markdown, a 50 character '=' line in text.
func (f Formatter) All(notes []core.Note, format Format) string {
	var b strings.Builder
	for _, n := range notes {
		tags := strings.Join(n.Tags, ", ")
		if format == Markdown {
			fmt.Fprintf(&b, "# %s\n\n%s\n\n**Tags:** %s\n**Created:** %s\n**Updated:** %s\n\n---\n\n",
				n.Title, n.Content, tags, f.LongDate(n.CreatedAt), f.LongDate(n.UpdatedAt))
			continue
		}
		fmt.Fprintf(&b, "%s\n\n%s\n\nTags: %s\nCreated: %s\nUpdated: %s\n\n%s\n\n",
			n.Title, n.Content, tags, f.LongDate(n.CreatedAt), f.LongDate(n.UpdatedAt), textRule)
	}
	return b.String()
}

// ExportNote renders n into a File named after its title.
func (f Formatter) ExportNote(n core.Note, format Format) File {
	return File{Name: Filename(n.Title, format), Content: f.Note(n, format)}
}

// ExportAll renders notes into a File named after the date of now.
func (f Formatter) ExportAll(notes []core.Note, format Format, now time.Time) File {
	return File{
		Name:    f.AllFilename(now, format),
		Content: f.All(notes, format),
	}
}

// AllFilename returns the name of a combined export made at now. The date
// keeps its case: "all_notes_Jan_2__2024.md".
func (f Formatter) AllFilename(now time.Time, format Format) string {
	return "all_notes_" + underscore(f.ShortDate(now)) + format.Ext()
}

// Filename returns the export filename of a note titled title.
func Filename(title string, format Format) string {
	return Slug(title) + format.Ext()
}

// Slug lowercases title and replaces every character outside [a-zA-Z0-9] with '_'.
func Slug(title string) string {
	return strings.ToLower(underscore(title))
}

// underscore replaces characters outside [a-zA-Z0-9] with one '_' per UTF-16
// code unit, so characters outside the BMP become "__" as browsers name them.
func underscore(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
			continue
		}
		sb.WriteString(strings.Repeat("_", max(utf16.RuneLen(r), 1)))
	}
	return sb.String()
}

// FormatNote renders n with local dates.
func FormatNote(n core.Note, format Format) string {
	return Local.Note(n, format)
}

// FormatAll renders notes with local dates.
func FormatAll(notes []core.Note, format Format) string {
	return Local.All(notes, format)
}

// AllFilename names a combined export made at now, using local dates.
func AllFilename(now time.Time, format Format) string {
	return Local.AllFilename(now, format)
}

// LongDate renders t in local time.
func LongDate(t time.Time) string { return Local.LongDate(t) }

// ShortDate renders t in local time.
func ShortDate(t time.Time) string { return Local.ShortDate(t) }

// RelativeDate renders t relative to now, falling back to the local short date.
func RelativeDate(t, now time.Time) string { return Local.RelativeDate(t, now) }
