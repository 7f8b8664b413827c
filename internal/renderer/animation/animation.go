// Package animation provides the time-indexed registry of in-flight
// animations that mutate buffer cells over successive frames.
//
// The registry never touches the engine directly. Each animation writes
// through a CellAccess, a narrow capability bound to one layer.
package animation

import (
	"time"

	"github.com/dshills/cellgrid/internal/renderer/core"
)

// ID identifies an animation. IDs increase monotonically and are never reused.
type ID uint64

// Kind tags the animation variant.
type Kind uint8

const (
	KindCustom Kind = iota
	KindFlash
	KindPulse
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindCustom:
		return "custom"
	case KindFlash:
		return "flash"
	case KindPulse:
		return "pulse"
	default:
		return "unknown"
	}
}

// CellAccess reads and repaints single cells on behalf of animations.
type CellAccess interface {
	Cell(p core.Pos) (core.Cell, bool)
	SetCell(p core.Pos, cell core.Cell)
	DeleteCell(p core.Pos)
}

// Options are common to every animation kind.
type Options struct {
	// Duration of one cycle. Zero uses the registry default.
	Duration time.Duration

	// Delay before the animation becomes active.
	Delay time.Duration

	// Loop restarts the cycle instead of completing.
	Loop bool

	// Easing shapes progress. Default uses the registry's default.
	Easing Easing

	// OnUpdate receives eased progress every frame.
	OnUpdate func(progress float64)

	// OnComplete runs exactly once when a non-looping animation finishes.
	OnComplete func()
}

// FlashOptions configure a glyph flash.
type FlashOptions struct {
	Options

	// Glyph is shown on the "on" phases. Default "*".
	Glyph string

	// Count is the number of on/off cycles. Default 3.
	Count int

	// Fg and Bg override the flashed cell's colors when set.
	Fg core.Color
	Bg core.Color
}

// PulseTarget selects which color channel a pulse modulates.
type PulseTarget uint8

const (
	PulseForeground PulseTarget = iota
	PulseBackground
)

// PulseOptions configure a color pulse.
type PulseOptions struct {
	Options

	// Color is the base color. Unset uses the cell's own color.
	Color core.Color

	// MinIntensity and MaxIntensity bound the channel multiplier.
	// Both zero means the default range 0.3 to 1.0.
	MinIntensity float64
	MaxIntensity float64

	Target PulseTarget
}

// Default flash and pulse parameters.
const (
	DefaultFlashGlyph   = "*"
	DefaultFlashCount   = 3
	DefaultMinIntensity = 0.3
	DefaultMaxIntensity = 1.0
)

// animation is the registry-owned record of one animation.
type animation struct {
	id   ID
	kind Kind

	startTime time.Time
	duration  time.Duration
	delay     time.Duration
	loop      bool
	easing    Easing
	active    bool
	completed bool

	onUpdate   func(progress float64)
	onComplete func()

	// Target cell for flash and pulse.
	access CellAccess
	pos    core.Pos

	// original is the cell captured at creation; hadOriginal is false
	// when the position was empty.
	original    core.Cell
	hadOriginal bool

	// flash
	glyph string
	count int
	fg    core.Color
	bg    core.Color

	// pulse
	color  core.Color
	minI   float64
	maxI   float64
	target PulseTarget
}

// step applies one frame at the given linear and eased progress.
func (a *animation) step(elapsed time.Duration, eased float64) {
	switch a.kind {
	case KindFlash:
		a.stepFlash(elapsed)
	case KindPulse:
		a.stepPulse(eased)
	}
	if a.onUpdate != nil {
		a.onUpdate(eased)
	}
}

// stepFlash toggles between the flash glyph and the original on a fixed
// sub-interval of duration/(count*2).
func (a *animation) stepFlash(elapsed time.Duration) {
	phases := a.count * 2
	interval := a.duration / time.Duration(phases)
	if interval <= 0 {
		a.restore()
		return
	}
	phase := int(elapsed / interval)
	if phase >= phases || phase%2 == 1 {
		a.restore()
		return
	}

	var cell core.Cell
	if a.hadOriginal {
		cell = a.original.WithGlyph(a.glyph)
	} else {
		cell = core.Cell{Glyph: a.glyph}
	}
	if a.fg.IsSet() {
		cell.Fg = a.fg
	}
	if a.bg.IsSet() {
		cell.Bg = a.bg
	}
	a.access.SetCell(a.pos, cell)
}

// stepPulse repaints the target color scaled by a ping-pong intensity,
// preserving the cell's current glyph.
func (a *animation) stepPulse(eased float64) {
	var wave float64
	if eased < 0.5 {
		wave = 2 * eased
	} else {
		wave = 2 * (1 - eased)
	}
	intensity := a.minI + (a.maxI-a.minI)*wave

	cell, ok := a.access.Cell(a.pos)
	if !ok {
		cell = core.Cell{Glyph: " "}
	}
	switch a.target {
	case PulseBackground:
		cell.Bg = a.color.Scale(intensity)
	default:
		cell.Fg = a.color.Scale(intensity)
	}
	a.access.SetCell(a.pos, cell)
}

// restore puts back the cell captured at creation.
func (a *animation) restore() {
	if a.access == nil {
		return
	}
	if a.hadOriginal {
		a.access.SetCell(a.pos, a.original)
		return
	}
	a.access.DeleteCell(a.pos)
}

// Info is a read-only snapshot of an animation's state.
type Info struct {
	ID        ID
	Kind      Kind
	StartTime time.Time
	Duration  time.Duration
	Delay     time.Duration
	Loop      bool
	Easing    Easing
	Active    bool
}
