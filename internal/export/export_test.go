package export

import (
	"errors"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/dshills/cellgrid/internal/renderer"
	"github.com/dshills/cellgrid/internal/renderer/backend"
	"github.com/dshills/cellgrid/internal/renderer/core"
	"github.com/dshills/cellgrid/internal/renderer/layer"
)

func sampleFrame(t *testing.T) *renderer.Engine {
	t.Helper()
	e := renderer.New(backend.NewRecorder(6, 3), renderer.DefaultOptions())
	if err := e.SetChar(0, 0, "A", core.Red, core.NoColor); err != nil {
		t.Fatal(err)
	}
	if err := e.SetChar(5, 2, "z", core.NoColor, core.MustParseColor("#102030")); err != nil {
		t.Fatal(err)
	}
	if err := e.SetCharScaled(2, 0, 2, "X", core.White, core.Blue); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestText(t *testing.T) {
	e := sampleFrame(t)

	got := Text(e.Composite(), 6, 3)
	expected := "A X   \n      \n     z"
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestTextEmpty(t *testing.T) {
	if got := Text(layer.Cells{}, 3, 2); got != "   \n   " {
		t.Errorf("expected blank rows, got %q", got)
	}
	if got := Text(layer.Cells{}, 3, 0); got != "" {
		t.Errorf("expected empty string for zero height, got %q", got)
	}
}

func TestJSONDocument(t *testing.T) {
	e := sampleFrame(t)

	data, err := JSON(e.Composite(), 6, 3)
	if err != nil {
		t.Fatalf("JSON failed: %v", err)
	}

	doc := gjson.ParseBytes(data)
	if doc.Get("width").Int() != 6 || doc.Get("height").Int() != 3 {
		t.Errorf("expected 6x3, got %s", data)
	}
	cells := doc.Get("cells").Array()
	if len(cells) != 3 {
		t.Fatalf("expected 3 cells without placeholders, got %d: %s", len(cells), data)
	}

	first := cells[0]
	if first.Get("glyph").String() != "A" || first.Get("fg").String() != "red" {
		t.Errorf("expected red A first, got %s", first.Raw)
	}
	if first.Get("bg").Exists() {
		t.Errorf("expected unset bg to be omitted, got %s", first.Raw)
	}
	if first.Get("scale").Exists() {
		t.Errorf("expected no scale on ordinary cell, got %s", first.Raw)
	}

	origin := cells[1]
	if origin.Get("x").Int() != 2 || origin.Get("scale").Int() != 2 {
		t.Errorf("expected scale-2 origin at x=2, got %s", origin.Raw)
	}

	last := cells[2]
	if last.Get("bg").String() != "#102030" {
		t.Errorf("expected hex bg, got %s", last.Raw)
	}
}

func TestJSONSkipsCellsOutsideBounds(t *testing.T) {
	cells := layer.Cells{
		core.P(0, 0): core.NewCell("a", core.NoColor, core.NoColor),
		core.P(9, 9): core.NewCell("b", core.NoColor, core.NoColor),
	}
	data, err := JSON(cells, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(gjson.GetBytes(data, "cells").Array()); n != 1 {
		t.Errorf("expected 1 cell, got %d", n)
	}
}

func TestJSONFullFrame(t *testing.T) {
	const w, h = 120, 40
	cells := make(layer.Cells, w*h)
	for y := range h {
		for x := range w {
			cells[core.P(x, y)] = core.NewCell("#", core.NoColor, core.NoColor)
		}
	}

	data, err := JSON(cells, w, h)
	if err != nil {
		t.Fatal(err)
	}
	if !gjson.ValidBytes(data) {
		t.Fatal("expected valid JSON")
	}
	arr := gjson.GetBytes(data, "cells").Array()
	if len(arr) != w*h {
		t.Fatalf("expected %d cells, got %d", w*h, len(arr))
	}
	if last := arr[len(arr)-1]; last.Get("x").Int() != w-1 || last.Get("y").Int() != h-1 {
		t.Errorf("expected row-major order ending at (%d,%d), got %s", w-1, h-1, last.Raw)
	}

	empty, err := JSON(layer.Cells{}, w, h)
	if err != nil {
		t.Fatal(err)
	}
	if got := gjson.GetBytes(empty, "cells").Raw; got != "[]" {
		t.Errorf("expected empty cells array, got %s", got)
	}
}

func TestReadJSONRoundTrip(t *testing.T) {
	e := sampleFrame(t)
	composite := e.Composite()

	data, err := JSON(composite, 6, 3)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := ReadJSON(data)
	if err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}

	if snap.Width != 6 || snap.Height != 3 {
		t.Errorf("expected 6x3, got %dx%d", snap.Width, snap.Height)
	}
	if len(snap.Cells) != len(composite) {
		t.Errorf("expected %d cells, got %d", len(composite), len(snap.Cells))
	}
	for p, want := range composite {
		got, ok := snap.Cells[p]
		if !ok {
			t.Errorf("missing cell at %v", p)
			continue
		}
		if !got.Equals(want) {
			t.Errorf("cell %v: expected %+v, got %+v", p, want, got)
		}
	}
}

func TestReadJSONClipsFootprint(t *testing.T) {
	snap, err := ReadJSON([]byte(`{"width":3,"height":3,"cells":[{"x":2,"y":2,"glyph":"Q","scale":3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Cells) != 1 {
		t.Errorf("expected only the origin inside bounds, got %d cells", len(snap.Cells))
	}
	if !snap.Cells[core.P(2, 2)].IsOrigin() {
		t.Error("expected origin role")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"width":`},
		{"missing size", `{"cells":[]}`},
		{"negative size", `{"width":-1,"height":2}`},
		{"cell without x", `{"width":2,"height":2,"cells":[{"y":0,"glyph":"a"}]}`},
		{"bad color", `{"width":2,"height":2,"cells":[{"x":0,"y":0,"glyph":"a","fg":"plaid"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON([]byte(tt.data))
			if !errors.Is(err, ErrInvalidSnapshot) {
				t.Errorf("expected ErrInvalidSnapshot, got %v", err)
			}
		})
	}
}

func TestPaint(t *testing.T) {
	src := sampleFrame(t)
	data, err := JSON(src.Composite(), 6, 3)
	if err != nil {
		t.Fatal(err)
	}
	snap, err := ReadJSON(data)
	if err != nil {
		t.Fatal(err)
	}

	dst := renderer.New(backend.NewRecorder(6, 3), renderer.DefaultOptions())
	if err := Paint(dst, snap); err != nil {
		t.Fatalf("Paint failed: %v", err)
	}

	if got, want := Text(dst.Composite(), 6, 3), Text(src.Composite(), 6, 3); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	c, ok := dst.GetChar(3, 1)
	if !ok || !c.IsMerged() {
		t.Errorf("expected merged placeholder at 3,1, got %+v", c)
	}
}

func TestPaintSafeModeStops(t *testing.T) {
	snap := &Snapshot{
		Width:  10,
		Height: 1,
		Cells: layer.Cells{
			core.P(9, 0): core.NewCell("x", core.NoColor, core.NoColor),
		},
	}
	opts := renderer.DefaultOptions()
	opts.SafeMode = true
	dst := renderer.New(backend.NewRecorder(4, 1), opts)

	if err := Paint(dst, snap); !errors.Is(err, renderer.ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}
