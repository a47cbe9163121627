package permission

import "errors"

var (
	// ErrUnknownMode is returned when the configured permission mode is not supported.
	ErrUnknownMode = errors.New("unknown permission mode")

	// ErrMissingAlias is returned when a controller or one of its actions has no alias.
	ErrMissingAlias = errors.New("missing alias")

	// ErrDuplicateAction is returned when a controller declares the same action twice.
	ErrDuplicateAction = errors.New("duplicate action")

	// ErrDuplicateAlias is returned when an alias is used twice within its scope.
	ErrDuplicateAlias = errors.New("duplicate alias")
)
