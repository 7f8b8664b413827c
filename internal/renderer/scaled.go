package renderer

import (
	"strings"

	"github.com/dshills/cellgrid/internal/renderer/core"
)

// MaxScale is the largest footprint edge a scaled glyph may have.
const MaxScale = 5

// SetCharScaled draws glyph across a scale x scale footprint anchored at
// world (x, y). The origin cell owns the glyph; every other footprint
// cell is a placeholder pointing back at it.
//
// Outside safe mode an invalid scale or an out-of-bounds origin is a
// no-op, while a footprint running past the grid is clipped.
func (e *Engine) SetCharScaled(x, y, scale int, glyph string, fg, bg core.Color) error {
	origin := e.toScreen(x, y)
	if err := e.checkScaled("setCharScaled", origin, scale); err != nil {
		return e.enforce(err)
	}
	e.placeScaled("setCharScaled", origin, scale, core.NewCell(glyph, fg, bg))
	return nil
}

// checkScaled returns the violation for a scaled placement, if any.
// A clipped footprint is only a violation in safe mode.
func (e *Engine) checkScaled(op string, origin core.Pos, scale int) error {
	if scale < 1 || scale > MaxScale {
		return &ScaleError{Op: op, Scale: scale}
	}
	if !e.inBounds(origin) {
		return e.boundsError(op, origin)
	}
	screen := core.RectFromSize(0, 0, e.width, e.height)
	if e.safeMode && !screen.ContainsRect(core.RectFromSize(origin.X, origin.Y, scale, scale)) {
		err := e.boundsError(op, origin)
		err.Footprint = scale
		return err
	}
	return nil
}

// placeScaled writes a validated scaled glyph into the current layer.
func (e *Engine) placeScaled(op string, origin core.Pos, scale int, cell core.Cell) {
	cell.Role = core.OriginRole(scale)
	screen := core.RectFromSize(0, 0, e.width, e.height)
	footprint := cell.Footprint(origin).Intersection(screen)

	// Remove every scaled glyph the footprint touches, whole.
	overlap := false
	footprint.Each(func(p core.Pos) {
		if cur, ok := e.layers.Get(p); ok && cur.IsUnified() {
			overlap = true
			e.layers.Release(p)
		}
	})
	if overlap {
		e.warnOverlap(op, origin, scale)
	}

	footprint.Each(func(p core.Pos) {
		if p == origin {
			e.layers.Set(p, cell)
			return
		}
		e.layers.Set(p, core.Cell{Fg: cell.Fg, Bg: cell.Bg, Role: core.MergedRole(origin)})
	})
}

// warnOverlap emits the overlap advisory once per engine.
func (e *Engine) warnOverlap(op string, origin core.Pos, scale int) {
	if e.overlapWarned {
		return
	}
	e.overlapWarned = true
	e.log.WithFields(map[string]any{"op": op, "scale": scale}).
		Warn("scaled glyph at (%d, %d) overlaps an existing scaled glyph; overwriting", origin.X, origin.Y)
}

// ScaledText places successive scaled glyphs, advancing scale columns per
// grapheme. Each "\n" moves down scale rows to the starting column.
//
// In safe mode every placement is checked before anything is written.
func (e *Engine) ScaledText(x, y, scale int, text string, fg, bg core.Color) error {
	const op = "scaledText"
	start := e.toScreen(x, y)

	type placement struct {
		origin core.Pos
		glyph  string
	}
	var placements []placement
	for row, line := range strings.Split(text, "\n") {
		for i, g := range e.text.Segment(line) {
			placements = append(placements, placement{
				origin: start.Add(i*scale, row*scale),
				glyph:  g,
			})
		}
	}

	if e.safeMode {
		if scale < 1 || scale > MaxScale {
			return &ScaleError{Op: op, Scale: scale}
		}
		for _, pl := range placements {
			if err := e.checkScaled(op, pl.origin, scale); err != nil {
				return err
			}
		}
	}

	for _, pl := range placements {
		if e.checkScaled(op, pl.origin, scale) != nil {
			continue
		}
		e.placeScaled(op, pl.origin, scale, core.NewCell(pl.glyph, fg, bg))
	}
	return nil
}
