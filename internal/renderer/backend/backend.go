// Package backend defines the display surface contract the renderer
// paints into, plus the terminal, buffered and recording surfaces.
package backend

import "github.com/dshills/cellgrid/internal/renderer/core"

// Surface paints composited cells to an output device.
// Positions outside the surface are silently ignored.
type Surface interface {
	// PaintCell paints one ordinary cell.
	PaintCell(x, y int, glyph string, fg, bg core.Color)

	// Clear blanks the whole surface.
	Clear()

	// Flush presents everything painted since the last flush.
	Flush()

	// Size returns the surface dimensions in cells.
	Size() (width, height int)
}

// ScaledPainter is implemented by surfaces that can draw one glyph
// across a scale x scale block of cells anchored at (x, y).
type ScaledPainter interface {
	PaintScaledCell(x, y, scale int, glyph string, fg, bg core.Color)
}

// ClearColorer is implemented by surfaces that can clear to an
// explicit background color.
type ClearColorer interface {
	ClearWith(bg core.Color)
}

// plain hides every optional capability of the wrapped surface.
type plain struct {
	s Surface
}

// Plain returns a surface exposing only the required methods of s.
// Use it to force the renderer's 1x1 fallback path.
func Plain(s Surface) Surface {
	return plain{s: s}
}

func (p plain) PaintCell(x, y int, glyph string, fg, bg core.Color) {
	p.s.PaintCell(x, y, glyph, fg, bg)
}

func (p plain) Clear()                    { p.s.Clear() }
func (p plain) Flush()                    { p.s.Flush() }
func (p plain) Size() (width, height int) { return p.s.Size() }
