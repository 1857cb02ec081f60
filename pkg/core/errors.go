package core

import "errors"

// Common errors.
var (
	ErrNotFound      = errors.New("key not found")
	ErrNoteNotFound  = errors.New("note not found")
	ErrReadOnly      = errors.New("store is in read-only mode")
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrPersist       = errors.New("failed to save notes, storage may be full")
)

// ValidationError is returned when note input breaks a domain rule.
// Reason is the user-facing message.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Invalid returns a *ValidationError when reason is non-empty, nil otherwise.
func Invalid(reason string) error {
	if reason == "" {
		return nil
	}
	return &ValidationError{Reason: reason}
}
