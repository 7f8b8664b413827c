package app

import (
	"errors"
	"fmt"
)

// Player errors.
var (
	// ErrQuit signals that the player should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates Run was called on a running player.
	ErrAlreadyRunning = errors.New("player already running")

	// ErrNoSurface indicates the player was created without a surface.
	ErrNoSurface = errors.New("no surface")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("init %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
