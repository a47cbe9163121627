package rbac

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the addressed role or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrReservedRole is returned when an operation targets the superadmin role.
	ErrReservedRole = errors.New("operation forbidden on this role")

	// ErrAccessDenied is returned when the caller may not run an action.
	ErrAccessDenied = errors.New("access denied")
)

// ValidationError reports the first invalid entry of a payload.
type ValidationError struct {
	// Key is the offending payload key, empty for a payload level error.
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Key == "" {
		return e.Message
	}

	return fmt.Sprintf("%s: %s", e.Key, e.Message)
}
