// Package export serializes composited frames.
//
// Text renders a frame as plain rows of glyphs for dumps and golden
// tests. JSON and ReadJSON round-trip a frame through a compact
// document:
//
//	{"width":80,"height":24,"cells":[{"x":0,"y":0,"glyph":"A","fg":"red","bg":"#101010","scale":2}]}
//
// Merged placeholders are not written; ReadJSON rebuilds them from
// their origin's scale.
package export

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/cellgrid/internal/renderer/core"
	"github.com/dshills/cellgrid/internal/renderer/layer"
)

// ErrInvalidSnapshot is returned for documents ReadJSON cannot use.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is a decoded frame.
type Snapshot struct {
	Width  int
	Height int
	Cells  layer.Cells
}

// Text renders cells as height rows of width columns joined by '\n'.
// Unset and merged cells are spaces.
func Text(cells layer.Cells, width, height int) string {
	var sb strings.Builder
	for y := 0; y < height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < width; x++ {
			c, ok := cells[core.P(x, y)]
			if !ok || c.IsMerged() || c.Glyph == "" {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(c.Glyph)
		}
	}
	return sb.String()
}

// JSON encodes the cells inside width x height, in row-major order.
func JSON(cells layer.Cells, width, height int) ([]byte, error) {
	doc := []byte(`{}`)
	var err error
	if doc, err = sjson.SetBytes(doc, "width", width); err != nil {
		return nil, err
	}
	if doc, err = sjson.SetBytes(doc, "height", height); err != nil {
		return nil, err
	}

	bounds := core.RectFromSize(0, 0, width, height)
	positions := make([]core.Pos, 0, len(cells))
	for p, c := range cells {
		if bounds.Contains(p) && !c.IsMerged() {
			positions = append(positions, p)
		}
	}
	slices.SortFunc(positions, core.Pos.Compare)

	arr := make([]byte, 0, 2+len(positions)*48)
	arr = append(arr, '[')
	for i, p := range positions {
		obj, err := encodeCell(p, cells[p])
		if err != nil {
			return nil, err
		}
		if i > 0 {
			arr = append(arr, ',')
		}
		arr = append(arr, obj...)
	}
	arr = append(arr, ']')

	if doc, err = sjson.SetRawBytes(doc, "cells", arr); err != nil {
		return nil, err
	}
	return doc, nil
}

func encodeCell(p core.Pos, c core.Cell) ([]byte, error) {
	obj := []byte(`{}`)
	fields := []struct {
		key   string
		value any
		skip  bool
	}{
		{"x", p.X, false},
		{"y", p.Y, false},
		{"glyph", c.Glyph, false},
		{"fg", c.Fg.String(), !c.Fg.IsSet()},
		{"bg", c.Bg.String(), !c.Bg.IsSet()},
		{"scale", c.Role.Scale, !c.IsOrigin()},
	}

	var err error
	for _, f := range fields {
		if f.skip {
			continue
		}
		if obj, err = sjson.SetBytes(obj, f.key, f.value); err != nil {
			return nil, fmt.Errorf("cell %d,%d: %w", p.X, p.Y, err)
		}
	}
	return obj, nil
}

// ReadJSON decodes a document written by JSON. Scaled glyphs get their
// merged placeholders back, clipped to the snapshot bounds.
func ReadJSON(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidSnapshot)
	}
	root := gjson.ParseBytes(data)

	width, height := root.Get("width"), root.Get("height")
	if width.Type != gjson.Number || height.Type != gjson.Number {
		return nil, fmt.Errorf("%w: missing width or height", ErrInvalidSnapshot)
	}
	snap := &Snapshot{
		Width:  int(width.Int()),
		Height: int(height.Int()),
		Cells:  make(layer.Cells),
	}
	if snap.Width < 0 || snap.Height < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrInvalidSnapshot, snap.Width, snap.Height)
	}
	bounds := core.RectFromSize(0, 0, snap.Width, snap.Height)

	var readErr error
	root.Get("cells").ForEach(func(_, v gjson.Result) bool {
		p, c, err := readCell(v)
		if err != nil {
			readErr = err
			return false
		}
		if !bounds.Contains(p) {
			return true
		}
		snap.Cells[p] = c
		if c.IsOrigin() {
			c.Footprint(p).Intersection(bounds).Each(func(q core.Pos) {
				if q != p {
					snap.Cells[q] = core.Cell{Fg: c.Fg, Bg: c.Bg, Role: core.MergedRole(p)}
				}
			})
		}
		return true
	})
	if readErr != nil {
		return nil, readErr
	}
	return snap, nil
}

func readCell(v gjson.Result) (core.Pos, core.Cell, error) {
	x, y := v.Get("x"), v.Get("y")
	if x.Type != gjson.Number || y.Type != gjson.Number {
		return core.Pos{}, core.Cell{}, fmt.Errorf("%w: cell without coordinates: %s", ErrInvalidSnapshot, v.Raw)
	}
	p := core.P(int(x.Int()), int(y.Int()))

	fg, err := core.ParseColor(v.Get("fg").String())
	if err != nil {
		return p, core.Cell{}, fmt.Errorf("%w: cell %d,%d fg: %v", ErrInvalidSnapshot, p.X, p.Y, err)
	}
	bg, err := core.ParseColor(v.Get("bg").String())
	if err != nil {
		return p, core.Cell{}, fmt.Errorf("%w: cell %d,%d bg: %v", ErrInvalidSnapshot, p.X, p.Y, err)
	}

	c := core.NewCell(v.Get("glyph").String(), fg, bg)
	if scale := int(v.Get("scale").Int()); scale > 0 {
		c.Role = core.OriginRole(scale)
	}
	return p, c, nil
}
