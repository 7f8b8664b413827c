package backend

import (
	"testing"

	"github.com/dshills/cellgrid/internal/renderer/core"
)

func TestRecorderPaintCell(t *testing.T) {
	r := NewRecorder(10, 5)

	r.PaintCell(2, 3, "A", core.Red, core.NoColor)
	r.PaintCell(20, 3, "B", core.Red, core.NoColor)

	got, ok := r.Cell(2, 3)
	if !ok || got.Glyph != "A" || !got.Fg.Equals(core.Red) {
		t.Errorf("expected A in red at (2,3), got %+v ok=%v", got, ok)
	}
	if _, ok := r.Cell(20, 3); ok {
		t.Error("out of bounds paint should not be stored")
	}
	if n := len(r.OpsOf(OpPaint)); n != 2 {
		t.Errorf("expected 2 recorded paints, got %d", n)
	}
	if !r.Painted(20, 3) {
		t.Error("out of bounds paint should still be recorded")
	}
}

func TestRecorderClearAndFlush(t *testing.T) {
	r := NewRecorder(4, 4)
	r.PaintCell(0, 0, "x", core.NoColor, core.NoColor)

	r.ClearWith(core.Blue)
	if len(r.Cells()) != 0 {
		t.Errorf("expected empty grid after clear, got %d cells", len(r.Cells()))
	}
	if !r.ClearColor().Equals(core.Blue) {
		t.Errorf("expected clear color blue, got %v", r.ClearColor())
	}

	r.Flush()
	r.Flush()
	if r.Flushes() != 2 {
		t.Errorf("expected 2 flushes, got %d", r.Flushes())
	}

	r.Reset()
	if len(r.Ops()) != 0 || r.Flushes() != 0 {
		t.Error("Reset should forget recorded calls")
	}
}

func TestRecorderResize(t *testing.T) {
	r := NewRecorder(10, 10)
	r.PaintCell(8, 8, "z", core.NoColor, core.NoColor)
	r.PaintCell(1, 1, "a", core.NoColor, core.NoColor)

	r.Resize(5, 5)
	if w, h := r.Size(); w != 5 || h != 5 {
		t.Errorf("expected size (5, 5), got (%d, %d)", w, h)
	}
	if _, ok := r.Cell(8, 8); ok {
		t.Error("cell outside new size should be dropped")
	}
	if _, ok := r.Cell(1, 1); !ok {
		t.Error("cell inside new size should be kept")
	}
}

func TestPlainHidesCapabilities(t *testing.T) {
	r := NewRecorder(4, 4)
	var s Surface = Plain(r)

	if _, ok := s.(ScaledPainter); ok {
		t.Error("Plain surface should not expose ScaledPainter")
	}
	if _, ok := s.(ClearColorer); ok {
		t.Error("Plain surface should not expose ClearColorer")
	}

	s.PaintCell(1, 1, "p", core.NoColor, core.NoColor)
	s.Clear()
	s.Flush()
	if len(r.Ops()) != 3 {
		t.Errorf("expected 3 forwarded calls, got %d", len(r.Ops()))
	}
}
