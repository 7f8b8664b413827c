package renderer

import (
	"time"

	"github.com/dshills/cellgrid/internal/renderer/animation"
	"github.com/dshills/cellgrid/internal/renderer/core"
	"github.com/dshills/cellgrid/internal/renderer/layer"
)

// layerAccess gives an animation read/write access to one named layer.
type layerAccess struct {
	layers *layer.Buffer
	name   string
}

func (a layerAccess) Cell(p core.Pos) (core.Cell, bool) {
	cells, ok := a.layers.Layer(a.name)
	if !ok {
		return core.Cell{}, false
	}
	c, ok := cells[p]
	return c, ok
}

// SetCell writes cell at p without splitting a scaled glyph. A scaled
// role is kept only while the glyph it belongs to is still whole;
// otherwise an origin lands as an ordinary cell and a placeholder is
// dropped. Writing over part of a scaled glyph releases all of it.
func (a layerAccess) SetCell(p core.Pos, cell core.Cell) {
	cells, ok := a.layers.Layer(a.name)
	if !ok {
		return
	}
	if cell.IsUnified() && cells.SameUnit(p, cell) {
		cells[p] = cell
		return
	}
	if cur, had := cells[p]; had && cur.IsUnified() {
		cells.Release(p)
	}
	if cell.IsMerged() {
		return
	}
	cell.Role = core.UnifiedRole{}
	cells[p] = cell
}

func (a layerAccess) DeleteCell(p core.Pos) {
	cells, ok := a.layers.Layer(a.name)
	if !ok {
		return
	}
	if !cells.Release(p) {
		delete(cells, p)
	}
}

// access binds animations to the current layer.
func (e *Engine) access() animation.CellAccess {
	return layerAccess{layers: e.layers, name: e.layers.Current()}
}

// Animate registers a custom animation and returns its id.
func (e *Engine) Animate(opts animation.Options) animation.ID {
	return e.anims.Animate(opts)
}

// Flash flashes the current layer's cell at world (x, y).
// An out-of-bounds target registers nothing and returns id 0.
func (e *Engine) Flash(x, y int, opts animation.FlashOptions) (animation.ID, error) {
	p := e.toScreen(x, y)
	if !e.inBounds(p) {
		return 0, e.enforce(e.boundsError("flash", p))
	}
	return e.anims.Flash(e.access(), p, opts), nil
}

// Pulse pulses the color of the current layer's cell at world (x, y).
// An out-of-bounds target registers nothing and returns id 0.
func (e *Engine) Pulse(x, y int, opts animation.PulseOptions) (animation.ID, error) {
	p := e.toScreen(x, y)
	if !e.inBounds(p) {
		return 0, e.enforce(e.boundsError("pulse", p))
	}
	return e.anims.Pulse(e.access(), p, opts), nil
}

// Stop removes an animation. Unknown ids are ignored.
func (e *Engine) Stop(id animation.ID) {
	e.anims.Stop(id)
}

// StopAll removes every animation.
func (e *Engine) StopAll() {
	e.anims.StopAll()
}

// Update advances every animation to now.
func (e *Engine) Update(now time.Time) {
	e.anims.Update(now)
}

// Tick advances every animation to the engine clock's current time.
func (e *Engine) Tick() {
	e.anims.Tick()
}

// IsActive reports whether the animation is still registered.
func (e *Engine) IsActive(id animation.ID) bool {
	return e.anims.IsActive(id)
}

// ActiveCount returns the number of registered animations.
func (e *Engine) ActiveCount() int {
	return e.anims.ActiveCount()
}
