package renderer

import (
	"errors"
	"fmt"
)

// Bounds and validity violations. Returned only in safe mode.
var (
	// ErrOutOfBounds indicates a write outside the surface.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrInvalidScale indicates a scale factor outside 1..MaxScale.
	ErrInvalidScale = errors.New("invalid scale")

	// ErrFootprintOutOfBounds indicates a scaled glyph that does not fit.
	ErrFootprintOutOfBounds = errors.New("scaled footprint out of bounds")
)

// BoundsError reports an offending screen position.
type BoundsError struct {
	Op            string // Operation name (e.g., "setChar")
	X, Y          int    // Screen position after the camera transform
	Width, Height int    // Surface size at the time of the call

	// Footprint is set when a scaled glyph origin fits but its footprint
	// does not.
	Footprint int
}

func (e *BoundsError) Error() string {
	if e.Footprint > 0 {
		return fmt.Sprintf("%s: %dx%d footprint at (%d, %d) exceeds %dx%d grid",
			e.Op, e.Footprint, e.Footprint, e.X, e.Y, e.Width, e.Height)
	}
	return fmt.Sprintf("%s: position (%d, %d) outside %dx%d grid", e.Op, e.X, e.Y, e.Width, e.Height)
}

func (e *BoundsError) Unwrap() error {
	if e.Footprint > 0 {
		return ErrFootprintOutOfBounds
	}
	return ErrOutOfBounds
}

// ScaleError reports an invalid scale factor.
type ScaleError struct {
	Op    string
	Scale int
}

func (e *ScaleError) Error() string {
	return fmt.Sprintf("%s: scale %d outside 1..%d", e.Op, e.Scale, MaxScale)
}

func (e *ScaleError) Unwrap() error {
	return ErrInvalidScale
}

// enforce applies the engine's bounds policy to an outcome.
// In safe mode the violation is returned; otherwise it is absorbed.
func (e *Engine) enforce(violation error) error {
	if violation == nil || !e.safeMode {
		return nil
	}
	return violation
}
