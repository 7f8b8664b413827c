package backend

import "github.com/dshills/cellgrid/internal/renderer/core"

// OpKind identifies a recorded surface call.
type OpKind int

const (
	OpPaint OpKind = iota
	OpPaintScaled
	OpClear
	OpFlush
)

// String returns the operation name.
func (k OpKind) String() string {
	switch k {
	case OpPaint:
		return "paint"
	case OpPaintScaled:
		return "paintScaled"
	case OpClear:
		return "clear"
	case OpFlush:
		return "flush"
	default:
		return "unknown"
	}
}

// Op is one recorded surface call.
type Op struct {
	Kind  OpKind
	X, Y  int
	Scale int
	Glyph string
	Fg    core.Color
	Bg    core.Color
}

// Recorder is an in-memory surface for tests and headless rendering.
// It records every call and keeps the painted grid.
type Recorder struct {
	width, height int
	cells         map[core.Pos]core.Cell
	ops           []Op
	clearColor    core.Color
	flushes       int
}

// NewRecorder creates a recorder with the given dimensions.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:  width,
		height: height,
		cells:  make(map[core.Pos]core.Cell),
	}
}

func (r *Recorder) inBounds(x, y int) bool {
	return x >= 0 && x < r.width && y >= 0 && y < r.height
}

func (r *Recorder) PaintCell(x, y int, glyph string, fg, bg core.Color) {
	r.ops = append(r.ops, Op{Kind: OpPaint, X: x, Y: y, Scale: 1, Glyph: glyph, Fg: fg, Bg: bg})
	if r.inBounds(x, y) {
		r.cells[core.P(x, y)] = core.NewCell(glyph, fg, bg)
	}
}

func (r *Recorder) PaintScaledCell(x, y, scale int, glyph string, fg, bg core.Color) {
	r.ops = append(r.ops, Op{Kind: OpPaintScaled, X: x, Y: y, Scale: scale, Glyph: glyph, Fg: fg, Bg: bg})
	if r.inBounds(x, y) {
		c := core.NewCell(glyph, fg, bg)
		c.Role = core.OriginRole(scale)
		r.cells[core.P(x, y)] = c
	}
}

func (r *Recorder) Clear() {
	r.ops = append(r.ops, Op{Kind: OpClear})
	clear(r.cells)
}

// ClearWith clears and remembers the requested background.
func (r *Recorder) ClearWith(bg core.Color) {
	r.ops = append(r.ops, Op{Kind: OpClear, Bg: bg})
	r.clearColor = bg
	clear(r.cells)
}

func (r *Recorder) Flush() {
	r.ops = append(r.ops, Op{Kind: OpFlush})
	r.flushes++
}

func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

// Resize changes the reported dimensions and drops cells now outside.
func (r *Recorder) Resize(width, height int) {
	r.width, r.height = width, height
	for p := range r.cells {
		if !r.inBounds(p.X, p.Y) {
			delete(r.cells, p)
		}
	}
}

// Cell returns the last cell painted at (x, y).
func (r *Recorder) Cell(x, y int) (core.Cell, bool) {
	c, ok := r.cells[core.P(x, y)]
	return c, ok
}

// Cells returns the painted grid.
func (r *Recorder) Cells() map[core.Pos]core.Cell {
	return r.cells
}

// Ops returns every recorded call in order.
func (r *Recorder) Ops() []Op {
	return r.ops
}

// OpsOf returns the recorded calls of one kind.
func (r *Recorder) OpsOf(kind OpKind) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Painted reports whether PaintCell was ever called for (x, y).
func (r *Recorder) Painted(x, y int) bool {
	for _, op := range r.ops {
		if op.Kind == OpPaint && op.X == x && op.Y == y {
			return true
		}
	}
	return false
}

// ClearColor returns the background passed to the last ClearWith.
func (r *Recorder) ClearColor() core.Color {
	return r.clearColor
}

// Flushes returns the number of Flush calls.
func (r *Recorder) Flushes() int {
	return r.flushes
}

// Reset forgets recorded calls but keeps the painted grid.
func (r *Recorder) Reset() {
	r.ops = r.ops[:0]
	r.flushes = 0
}
