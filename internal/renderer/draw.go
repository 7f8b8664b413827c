package renderer

import (
	"math"

	"github.com/dshills/cellgrid/internal/renderer/core"
	"github.com/dshills/cellgrid/internal/renderer/layout"
)

// stroke is one planned cell write at a screen position.
type stroke struct {
	p    core.Pos
	cell core.Cell
}

// plan starts a new multi-cell write, reusing the scratch buffer.
func (e *Engine) plan() []stroke {
	return e.strokes[:0]
}

// commit applies planned writes under the bounds policy. In safe mode the
// first out-of-bounds stroke is returned and nothing is written;
// otherwise out-of-bounds strokes are dropped.
func (e *Engine) commit(op string, strokes []stroke) error {
	e.strokes = strokes

	if e.safeMode {
		for _, s := range strokes {
			if !e.inBounds(s.p) {
				return e.boundsError(op, s.p)
			}
		}
	}
	for _, s := range strokes {
		if e.inBounds(s.p) {
			e.put(s.p, s.cell)
		}
	}
	return nil
}

// put writes an ordinary cell into the current layer. A scaled glyph
// covering p is removed as a whole first.
func (e *Engine) put(p core.Pos, cell core.Cell) {
	if cur, ok := e.layers.Get(p); ok && cur.IsUnified() {
		e.layers.Release(p)
	}
	e.layers.Set(p, cell)
}

// SetChar writes one cell at world coordinates (x, y) into the current layer.
func (e *Engine) SetChar(x, y int, glyph string, fg, bg core.Color) error {
	p := e.toScreen(x, y)
	if !e.inBounds(p) {
		return e.enforce(e.boundsError("setChar", p))
	}
	e.put(p, core.NewCell(glyph, fg, bg))
	return nil
}

// GetChar returns the current layer's cell at world coordinates (x, y).
func (e *Engine) GetChar(x, y int) (core.Cell, bool) {
	return e.layers.Get(e.toScreen(x, y))
}

// Fill writes glyph over a width x height area. An empty glyph fills
// with spaces.
func (e *Engine) Fill(x, y, width, height int, glyph string, fg, bg core.Color) error {
	if glyph == "" {
		glyph = " "
	}
	origin := e.toScreen(x, y)
	cell := core.NewCell(glyph, fg, bg)

	strokes := e.plan()
	core.RectFromSize(origin.X, origin.Y, width, height).Each(func(p core.Pos) {
		strokes = append(strokes, stroke{p: p, cell: cell})
	})
	return e.enforce(e.commit("fill", strokes))
}

// TextOptions style DrawText.
type TextOptions struct {
	Fg core.Color
	Bg core.Color

	// Width wraps and aligns text within a box this wide (0 = none).
	Width int
	Wrap  bool
	Align layout.Align
}

// DrawText writes text one grapheme per cell. Each "\n" continues on the
// next row at the starting column.
func (e *Engine) DrawText(x, y int, text string, opts TextOptions) error {
	origin := e.toScreen(x, y)
	lines := e.text.Layout(text, layout.Options{
		Width: opts.Width,
		Wrap:  opts.Wrap,
		Align: opts.Align,
	})

	strokes := e.plan()
	for row, line := range lines {
		for i, g := range line.Graphemes {
			p := origin.Add(line.Offset+i, row)
			strokes = append(strokes, stroke{p: p, cell: core.NewCell(g, opts.Fg, opts.Bg)})
		}
	}
	return e.enforce(e.commit("drawText", strokes))
}

// DrawLine draws a Bresenham line between two points, both endpoints
// included. The same cells are produced whichever endpoint comes first.
func (e *Engine) DrawLine(x0, y0, x1, y1 int, glyph string, fg, bg core.Color) error {
	a, b := e.toScreen(x0, y0), e.toScreen(x1, y1)
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}
	cell := core.NewCell(glyph, fg, bg)

	strokes := e.plan()
	bresenham(a, b, func(p core.Pos) {
		strokes = append(strokes, stroke{p: p, cell: cell})
	})
	return e.enforce(e.commit("drawLine", strokes))
}

// bresenham visits every cell on the line from a to b inclusive.
func bresenham(a, b core.Pos, visit func(core.Pos)) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := sign(b.X-a.X), sign(b.Y-a.Y)
	err := dx + dy

	x, y := a.X, a.Y
	for {
		visit(core.P(x, y))
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Progress bar defaults.
const (
	DefaultProgressFilled = "█"
	DefaultProgressEmpty  = " "
)

// ProgressOptions style ProgressBar.
type ProgressOptions struct {
	Filled string // Default "█"
	Empty  string // Default " "

	Fg      core.Color
	Bg      core.Color
	EmptyFg core.Color // Unset uses Fg
	EmptyBg core.Color // Unset uses Bg
}

// ProgressBar draws a horizontal bar of length cells. The first
// floor(length * progress) cells are filled; progress is clamped to [0,1].
func (e *Engine) ProgressBar(x, y, length int, progress float64, opts ProgressOptions) error {
	if opts.Filled == "" {
		opts.Filled = DefaultProgressFilled
	}
	if opts.Empty == "" {
		opts.Empty = DefaultProgressEmpty
	}
	if !opts.EmptyFg.IsSet() {
		opts.EmptyFg = opts.Fg
	}
	if !opts.EmptyBg.IsSet() {
		opts.EmptyBg = opts.Bg
	}

	filled := FilledCells(length, progress)
	filledCell := core.NewCell(opts.Filled, opts.Fg, opts.Bg)
	emptyCell := core.NewCell(opts.Empty, opts.EmptyFg, opts.EmptyBg)

	origin := e.toScreen(x, y)
	strokes := e.plan()
	for i := range max(length, 0) {
		cell := emptyCell
		if i < filled {
			cell = filledCell
		}
		strokes = append(strokes, stroke{p: origin.Add(i, 0), cell: cell})
	}
	return e.enforce(e.commit("progressBar", strokes))
}

// FilledCells returns how many of length cells a bar at progress fills.
func FilledCells(length int, progress float64) int {
	if length <= 0 || math.IsNaN(progress) {
		return 0
	}
	progress = min(max(progress, 0), 1)
	return int(math.Floor(float64(length) * progress))
}
