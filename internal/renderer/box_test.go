package renderer

import (
	"errors"
	"testing"

	"github.com/dshills/cellgrid/internal/renderer/core"
	"github.com/dshills/cellgrid/internal/renderer/layout"
)

func TestBoxBorder(t *testing.T) {
	e, _ := newTestEngine(20, 10, DefaultOptions())

	e.Box(1, 1, 5, 4, BoxOptions{})

	tests := []struct {
		x, y int
		want string
	}{
		{1, 1, "┌"}, {5, 1, "┐"}, {1, 4, "└"}, {5, 4, "┘"},
		{3, 1, "─"}, {3, 4, "─"}, {1, 2, "│"}, {5, 3, "│"},
		{3, 2, ""},
	}
	for _, tt := range tests {
		if got := glyphAt(e, tt.x, tt.y); got != tt.want {
			t.Errorf("(%d,%d): expected %q, got %q", tt.x, tt.y, tt.want, got)
		}
	}
}

func TestBoxStyles(t *testing.T) {
	for _, name := range []string{"single", "double", "rounded", "heavy", "ascii"} {
		style, err := ParseBoxStyle(name)
		if err != nil {
			t.Fatalf("ParseBoxStyle(%q): %v", name, err)
		}
		e, _ := newTestEngine(5, 5, DefaultOptions())
		e.Box(0, 0, 3, 3, BoxOptions{Style: style})
		if got := glyphAt(e, 0, 0); got != style.TopLeft {
			t.Errorf("%s: expected %q, got %q", name, style.TopLeft, got)
		}
	}

	if _, err := ParseBoxStyle("dotted"); err == nil {
		t.Error("expected error for unknown style")
	}
}

func TestRectFillsBorderDoesNot(t *testing.T) {
	e, _ := newTestEngine(10, 10, DefaultOptions())

	e.SetChar(2, 2, "k", core.NoColor, core.NoColor)
	e.Border(1, 1, 3, 3, BoxOptions{Fill: true})
	if glyphAt(e, 2, 2) != "k" {
		t.Error("Border should leave the interior untouched")
	}

	e.Rect(1, 1, 3, 3, BoxOptions{FillGlyph: "."})
	if glyphAt(e, 2, 2) != "." {
		t.Errorf("Rect should fill the interior, got %q", glyphAt(e, 2, 2))
	}
}

func TestBoxTitle(t *testing.T) {
	e, _ := newTestEngine(20, 5, DefaultOptions())

	e.Box(0, 0, 6, 3, BoxOptions{Title: "status report"})
	want := []string{"┌", "s", "t", "a", "t", "┐"}
	for x, g := range want {
		if got := glyphAt(e, x, 0); got != g {
			t.Errorf("top row %d: expected %q, got %q", x, g, got)
		}
	}

	e.Clear()
	e.Box(0, 0, 8, 3, BoxOptions{Title: "ab", TitleAlign: layout.AlignCenter})
	if glyphAt(e, 3, 0) != "a" || glyphAt(e, 4, 0) != "b" {
		t.Error("centered title misplaced")
	}
}

func TestBoxTitleTabKeepsCorner(t *testing.T) {
	e, _ := newTestEngine(20, 5, DefaultOptions())

	e.Box(0, 0, 5, 3, BoxOptions{Title: "\tX"})
	want := []string{"┌", " ", " ", " ", "┐"}
	for x, g := range want {
		if got := glyphAt(e, x, 0); got != g {
			t.Errorf("top row %d: expected %q, got %q", x, g, got)
		}
	}
}

func TestBoxShadow(t *testing.T) {
	e, _ := newTestEngine(10, 10, DefaultOptions())

	e.Box(0, 0, 4, 3, BoxOptions{Shadow: true})

	// Right edge column 4, rows 1..3; bottom row 3, columns 1..3.
	for y := 1; y <= 3; y++ {
		if glyphAt(e, 4, y) != DefaultShadowGlyph {
			t.Errorf("expected shadow at (4,%d)", y)
		}
	}
	for x := 1; x <= 3; x++ {
		if glyphAt(e, x, 3) != DefaultShadowGlyph {
			t.Errorf("expected shadow at (%d,3)", x)
		}
	}
	if glyphAt(e, 4, 0) != "" || glyphAt(e, 0, 3) != "" {
		t.Error("shadow should not touch the top-right or bottom-left corners")
	}
	c := e.Composite()[core.P(4, 1)]
	if !c.Fg.Equals(core.BrightBlack) {
		t.Errorf("expected default shadow color, got %v", c.Fg)
	}
}

func TestBoxShadowOutOfBoundsSafeMode(t *testing.T) {
	opts := DefaultOptions()
	opts.SafeMode = true
	e, _ := newTestEngine(4, 3, opts)

	if err := e.Box(0, 0, 4, 3, BoxOptions{}); err != nil {
		t.Fatalf("box that fits should not fail: %v", err)
	}
	e.Clear()
	err := e.Box(0, 0, 4, 3, BoxOptions{Shadow: true})
	if !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("expected shadow past the edge to fail, got %v", err)
	}
}

func TestBoxDegenerate(t *testing.T) {
	e, _ := newTestEngine(10, 10, DefaultOptions())

	if err := e.Box(0, 0, 0, 3, BoxOptions{}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if len(e.Composite()) != 0 {
		t.Error("zero-width box should draw nothing")
	}

	e.Box(0, 0, 1, 1, BoxOptions{})
	if glyphAt(e, 0, 0) != "┌" {
		t.Errorf("1x1 box should draw a corner, got %q", glyphAt(e, 0, 0))
	}
}
