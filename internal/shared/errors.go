package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument indicates a malformed or missing request field.
	ErrInvalidArgument = errors.New("invalid argument")
)
