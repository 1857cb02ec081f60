package core

import (
	"context"
	"strings"
)

type contextKey string

// ChangeReasonKey carries the description of a write in its context. Stores
// that keep history use it as the commit message.
const ChangeReasonKey contextKey = "change_reason"

// Commit types for change reasons, following Conventional Commits.
const (
	CommitTypeFeat     = "feat"
	CommitTypeFix      = "fix"
	CommitTypeDocs     = "docs"
	CommitTypeRefactor = "refactor"
	CommitTypeChore    = "chore"
)

const reasonFooter = "Powered-by: " + AppName

// FormatChangeReason builds a Conventional Commit message:
//
//	<type>(<scope>): <subject>
//
//	<body>
//
//	Powered-by: NoteStaker
func FormatChangeReason(ctype, scope, subject, body string) string {
	var sb strings.Builder
	if ctype == "" {
		ctype = CommitTypeChore
	}
	sb.WriteString(ctype)
	if scope != "" {
		sb.WriteString("(" + scope + ")")
	}
	sb.WriteString(": ")
	sb.WriteString(subject)

	if body = strings.TrimSpace(body); body != "" {
		sb.WriteString("\n\n" + body)
	}
	sb.WriteString("\n\n" + reasonFooter)
	return sb.String()
}

// AppendFooter adds the footer to a free-form message unless it is there.
func AppendFooter(msg string) string {
	if strings.Contains(msg, reasonFooter) {
		return msg
	}
	msg = strings.TrimRight(msg, "\n")
	return msg + "\n\n" + reasonFooter
}

// WithChangeReason returns ctx carrying reason. An existing reason is kept,
// so callers can override what lower layers would write.
func WithChangeReason(ctx context.Context, reason string) context.Context {
	if ChangeReason(ctx) != "" {
		return ctx
	}
	return context.WithValue(ctx, ChangeReasonKey, reason)
}

// ChangeReason returns the reason carried by ctx, or "".
func ChangeReason(ctx context.Context) string {
	reason, _ := ctx.Value(ChangeReasonKey).(string)
	return reason
}
