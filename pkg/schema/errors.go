package schema

import "errors"

var (
	// ErrInvalidSchema marks schema declarations that cannot be compiled.
	ErrInvalidSchema = errors.New("schema: invalid declaration")
	// ErrUnknownPath is returned when a path does not resolve to a declared
	// leaf field.
	ErrUnknownPath = errors.New("schema: unknown field path")
)
