package animation

import (
	"math"
	"testing"
)

func TestEasingEndpoints(t *testing.T) {
	for _, e := range []Easing{Linear, EaseIn, EaseOut, EaseInOut, Bounce, Elastic} {
		if got := e.Apply(0); math.Abs(got) > 1e-9 {
			t.Errorf("%s.Apply(0) = %v, want 0", e, got)
		}
		if got := e.Apply(1); math.Abs(got-1) > 1e-9 {
			t.Errorf("%s.Apply(1) = %v, want 1", e, got)
		}
	}
}

func TestEasingValues(t *testing.T) {
	tests := []struct {
		easing Easing
		in     float64
		want   float64
	}{
		{Linear, 0.25, 0.25},
		{EaseIn, 0.5, 0.25},
		{EaseOut, 0.5, 0.75},
		{EaseInOut, 0.25, 0.125},
		{EaseInOut, 0.5, 0.5},
		{EaseInOut, 0.75, 0.875},
	}

	for _, tt := range tests {
		if got := tt.easing.Apply(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s.Apply(%v) = %v, want %v", tt.easing, tt.in, got, tt.want)
		}
	}
}

func TestEasingClampsInput(t *testing.T) {
	if got := EaseIn.Apply(-1); got != 0 {
		t.Errorf("Apply(-1) = %v, want 0", got)
	}
	if got := Linear.Apply(3); got != 1 {
		t.Errorf("Apply(3) = %v, want 1", got)
	}
}

func TestParseEasing(t *testing.T) {
	for _, e := range []Easing{Linear, EaseIn, EaseOut, EaseInOut, Bounce, Elastic} {
		got, err := ParseEasing(e.String())
		if err != nil {
			t.Fatalf("ParseEasing(%q): %v", e.String(), err)
		}
		if got != e {
			t.Errorf("ParseEasing(%q) = %v, want %v", e.String(), got, e)
		}
	}

	if got, err := ParseEasing("default"); err != nil || got != Default {
		t.Errorf("ParseEasing(default) = %v, %v, want default", got, err)
	}
	if Default.Apply(0.25) != 0.25 {
		t.Error("Default should evaluate as linear")
	}
	if _, err := ParseEasing("wobble"); err == nil {
		t.Error("ParseEasing(wobble) should fail")
	}
}
