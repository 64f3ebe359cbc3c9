package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrValidation indicates rejected caller input; no state was mutated.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates an illegal state transition.
	ErrConflict = errors.New("conflict")
)

// Invalid wraps ErrValidation with a user-visible reason.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}
