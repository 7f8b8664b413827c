package animation

import (
	"fmt"
	"math"
)

// Easing is a named curve mapping linear progress in [0,1] to eased
// progress. The set is closed so animations stay replayable.
type Easing uint8

const (
	// Default defers to the registry's default easing.
	Default Easing = iota
	Linear
	EaseIn
	EaseOut
	EaseInOut
	Bounce
	Elastic
)

var easingNames = [...]string{
	Default:   "default",
	Linear:    "linear",
	EaseIn:    "easeIn",
	EaseOut:   "easeOut",
	EaseInOut: "easeInOut",
	Bounce:    "bounce",
	Elastic:   "elastic",
}

// String returns the easing name.
func (e Easing) String() string {
	if int(e) < len(easingNames) {
		return easingNames[e]
	}
	return fmt.Sprintf("easing(%d)", e)
}

// ParseEasing resolves an easing by name.
func ParseEasing(name string) (Easing, error) {
	for i, n := range easingNames {
		if n == name {
			return Easing(i), nil
		}
	}
	return Default, fmt.Errorf("unknown easing %q", name)
}

// Apply evaluates the curve at t. t is clamped to [0,1] first.
// Default evaluates as Linear.
func (e Easing) Apply(t float64) float64 {
	t = clamp01(t)
	switch e {
	case EaseIn:
		return t * t
	case EaseOut:
		return t * (2 - t)
	case EaseInOut:
		if t < 0.5 {
			return 2 * t * t
		}
		return -1 + (4-2*t)*t
	case Bounce:
		return bounce(t)
	case Elastic:
		return elastic(t)
	}
	return t
}

func bounce(t float64) float64 {
	const (
		n1 = 7.5625
		d1 = 2.75
	)
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

// elastic overshoots past 1 before settling.
func elastic(t float64) float64 {
	if t == 0 || t == 1 {
		return t
	}
	const c4 = (2 * math.Pi) / 3
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

func clamp01(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
