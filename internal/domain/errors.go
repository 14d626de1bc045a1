package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both "no such record" and "record outside the
	// caller's scope" so out-of-scope bills are not revealed to exist.
	ErrNotFound = errors.New("order not found")

	// ErrForbidden is returned when a create targets a branch outside the
	// caller's scope.
	ErrForbidden = errors.New("branch not in caller scope")

	// ErrConflict signals a duplicate (branch, billNo) pair; the create
	// path retries bill-number assignment once on it.
	ErrConflict = errors.New("duplicate bill number")

	// ErrStoreUnavailable wraps a failure of the durable store itself.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// ValidationError reports malformed input before any store or cache access.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
