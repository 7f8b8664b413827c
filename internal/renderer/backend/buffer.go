package backend

import (
	"github.com/dshills/cellgrid/internal/renderer/core"
)

// blank is the content of a cleared cell.
var blank = core.Cell{Glyph: " "}

// ScreenBuffer provides double-buffered painting with change tracking.
// It maintains two buffers: front (presented) and back (painting).
// On flush, only cells that differ are forwarded.
type ScreenBuffer struct {
	width, height int
	front         [][]core.Cell
	back          [][]core.Cell
	dirty         [][]bool
	fullRedraw    bool
	fill          core.Cell
}

// NewScreenBuffer creates a screen buffer with the given dimensions.
func NewScreenBuffer(width, height int) *ScreenBuffer {
	sb := &ScreenBuffer{
		width:      width,
		height:     height,
		fullRedraw: true,
		fill:       blank,
	}
	sb.allocate()
	return sb
}

// allocate creates the internal buffers.
func (sb *ScreenBuffer) allocate() {
	sb.front = make([][]core.Cell, sb.height)
	sb.back = make([][]core.Cell, sb.height)
	sb.dirty = make([][]bool, sb.height)

	for y := 0; y < sb.height; y++ {
		sb.front[y] = make([]core.Cell, sb.width)
		sb.back[y] = make([]core.Cell, sb.width)
		sb.dirty[y] = make([]bool, sb.width)

		for x := 0; x < sb.width; x++ {
			sb.front[y][x] = sb.fill
			sb.back[y][x] = sb.fill
		}
	}
}

// Resize resizes the buffer, preserving content where possible.
func (sb *ScreenBuffer) Resize(width, height int) {
	if width == sb.width && height == sb.height {
		return
	}

	oldBack := sb.back
	copyHeight := min(sb.height, height)
	copyWidth := min(sb.width, width)

	sb.width = width
	sb.height = height
	sb.allocate()

	for y := 0; y < copyHeight; y++ {
		copy(sb.back[y][:copyWidth], oldBack[y][:copyWidth])
	}

	sb.fullRedraw = true
}

// Size returns the buffer dimensions.
func (sb *ScreenBuffer) Size() (width, height int) {
	return sb.width, sb.height
}

// SetCell sets a cell in the back buffer.
func (sb *ScreenBuffer) SetCell(x, y int, cell core.Cell) {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return
	}
	sb.back[y][x] = cell
	sb.dirty[y][x] = true
}

// GetCell returns a cell from the back buffer.
func (sb *ScreenBuffer) GetCell(x, y int) core.Cell {
	if x < 0 || x >= sb.width || y < 0 || y >= sb.height {
		return blank
	}
	return sb.back[y][x]
}

// Clear resets the back buffer to cleared cells with the given background.
func (sb *ScreenBuffer) Clear(bg core.Color) {
	sb.fill = core.Cell{Glyph: " ", Bg: bg}
	for y := 0; y < sb.height; y++ {
		for x := 0; x < sb.width; x++ {
			sb.back[y][x] = sb.fill
			sb.dirty[y][x] = true
		}
	}
}

// DiffChange represents a cell change for synchronization.
type DiffChange struct {
	X, Y int
	Cell core.Cell
}

// ComputeDiff returns the changes needed to update the output, row-major.
// Returns nil if no changes are needed.
func (sb *ScreenBuffer) ComputeDiff() []DiffChange {
	var changes []DiffChange

	for y := 0; y < sb.height; y++ {
		for x := 0; x < sb.width; x++ {
			if !sb.fullRedraw && !sb.dirty[y][x] {
				continue
			}
			if sb.fullRedraw || !sb.back[y][x].Equals(sb.front[y][x]) {
				changes = append(changes, DiffChange{X: x, Y: y, Cell: sb.back[y][x]})
			}
		}
	}

	return changes
}

// Sync copies the back buffer to the front buffer and clears dirty flags.
func (sb *ScreenBuffer) Sync() {
	for y := 0; y < sb.height; y++ {
		copy(sb.front[y], sb.back[y])
		clear(sb.dirty[y])
	}
	sb.fullRedraw = false
}

// MarkFullRedraw forces a complete redraw on next sync.
func (sb *ScreenBuffer) MarkFullRedraw() {
	sb.fullRedraw = true
}

// IsDirty returns true if there are pending changes.
func (sb *ScreenBuffer) IsDirty() bool {
	if sb.fullRedraw {
		return true
	}
	for y := 0; y < sb.height; y++ {
		for x := 0; x < sb.width; x++ {
			if sb.dirty[y][x] {
				return true
			}
		}
	}
	return false
}

// Buffered wraps a Surface with double-buffered painting.
// Clear only resets the back buffer; Flush forwards changed cells.
type Buffered struct {
	surface Surface
	buffer  *ScreenBuffer
}

// NewBuffered creates a buffered wrapper around a surface.
func NewBuffered(surface Surface) *Buffered {
	width, height := surface.Size()
	return &Buffered{
		surface: surface,
		buffer:  NewScreenBuffer(width, height),
	}
}

func (b *Buffered) Size() (int, int) {
	return b.buffer.Size()
}

func (b *Buffered) PaintCell(x, y int, glyph string, fg, bg core.Color) {
	b.buffer.SetCell(x, y, core.NewCell(glyph, fg, bg))
}

// PaintScaledCell stores the origin and marks the rest of the footprint
// as owned by it.
func (b *Buffered) PaintScaledCell(x, y, scale int, glyph string, fg, bg core.Color) {
	origin := core.P(x, y)
	cell := core.NewCell(glyph, fg, bg)
	cell.Role = core.OriginRole(scale)

	cell.Footprint(origin).Each(func(p core.Pos) {
		if p == origin {
			b.buffer.SetCell(p.X, p.Y, cell)
			return
		}
		merged := core.Cell{Glyph: " ", Bg: bg, Role: core.MergedRole(origin)}
		b.buffer.SetCell(p.X, p.Y, merged)
	})
}

func (b *Buffered) Clear() {
	b.buffer.Clear(core.NoColor)
}

// ClearWith resets the back buffer to an explicit background.
func (b *Buffered) ClearWith(bg core.Color) {
	b.buffer.Clear(bg)
}

// Flush picks up surface resizes, forwards the changed cells and
// flushes the wrapped surface.
func (b *Buffered) Flush() {
	if w, h := b.surface.Size(); w != b.buffer.width || h != b.buffer.height {
		b.buffer.Resize(w, h)
	}

	if b.buffer.fullRedraw {
		b.surface.Clear()
	}

	scaler, canScale := b.surface.(ScaledPainter)
	for _, ch := range b.buffer.ComputeDiff() {
		c := ch.Cell
		switch {
		case c.IsOrigin() && canScale:
			scaler.PaintScaledCell(ch.X, ch.Y, c.Role.Scale, c.Glyph, c.Fg, c.Bg)
		case c.IsMerged() && canScale:
			// Painted with its origin.
		default:
			b.surface.PaintCell(ch.X, ch.Y, c.Glyph, c.Fg, c.Bg)
		}
	}
	b.buffer.Sync()
	b.surface.Flush()
}

// Buffer returns the underlying screen buffer for direct access.
func (b *Buffered) Buffer() *ScreenBuffer {
	return b.buffer
}

// Invalidate forces every cell to be forwarded on the next Flush.
func (b *Buffered) Invalidate() {
	b.buffer.MarkFullRedraw()
}
