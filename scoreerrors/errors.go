package scoreerrors

import (
	"errors"
	"fmt"
)

// ErrStoreUnavailable is returned when the score store backend cannot be opened.
var ErrStoreUnavailable = errors.New("score store unavailable")

// ValidationError reports a score submission that does not match the expected shape.
// Field is the offending JSON field, or empty when the body as a whole is rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Invalid returns a *ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err (or anything it wraps) is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
