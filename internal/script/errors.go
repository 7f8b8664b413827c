package script

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrFunctionNotFound is returned when a named global function is missing.
	ErrFunctionNotFound = errors.New("lua function not found")
)
