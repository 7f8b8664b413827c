// Package layer provides the named, ordered collection of sparse cell
// grids that the engine draws into and composites for display.
package layer

import (
	"slices"

	"github.com/dshills/cellgrid/internal/renderer/core"
)

// DefaultLayer is the name of the layer every Buffer starts with.
const DefaultLayer = "default"

// Cells is a sparse grid keyed by screen position.
type Cells map[core.Pos]core.Cell

// Buffer manages named layers, their render order and visibility.
type Buffer struct {
	// layers holds every known layer, keyed by name.
	layers map[string]Cells

	// order lists layer names bottom to top, without duplicates.
	order []string

	// hidden marks layers skipped during compositing.
	hidden map[string]bool

	// current is the layer drawing calls write into.
	current string
}

// New creates a buffer holding only the default layer.
func New() *Buffer {
	b := &Buffer{
		layers: make(map[string]Cells),
		hidden: make(map[string]bool),
	}
	b.Use(DefaultLayer)
	return b
}

// Use switches the current layer, creating it if unseen.
// New layers are visible and appended to the top of the render order.
func (b *Buffer) Use(name string) {
	b.ensure(name)
	b.current = name
}

// ensure creates a layer if it does not exist yet.
func (b *Buffer) ensure(name string) Cells {
	cells, ok := b.layers[name]
	if !ok {
		cells = make(Cells)
		b.layers[name] = cells
		if !slices.Contains(b.order, name) {
			b.order = append(b.order, name)
		}
	}
	return cells
}

// Current returns the name of the current layer.
func (b *Buffer) Current() string {
	return b.current
}

// Cells returns the current layer's cell map.
// The map is live; callers mutating it bypass scaled-glyph bookkeeping.
func (b *Buffer) Cells() Cells {
	return b.layers[b.current]
}

// Layer returns the named layer's cell map.
func (b *Buffer) Layer(name string) (Cells, bool) {
	cells, ok := b.layers[name]
	return cells, ok
}

// Has returns true if the named layer exists.
func (b *Buffer) Has(name string) bool {
	_, ok := b.layers[name]
	return ok
}

// SetRenderOrder replaces the render order, bottom to top.
// Duplicates are dropped (first occurrence wins) and unknown names are
// created. Existing layers left out of the list keep their content
// but are not composited until listed again.
func (b *Buffer) SetRenderOrder(names []string) {
	order := make([]string, 0, len(names))
	for _, name := range names {
		if slices.Contains(order, name) {
			continue
		}
		order = append(order, name)
	}
	b.order = order
	for _, name := range order {
		b.ensure(name)
	}
}

// RenderOrder returns a copy of the render order.
func (b *Buffer) RenderOrder() []string {
	return slices.Clone(b.order)
}

// Names returns every known layer name in sorted order.
func (b *Buffer) Names() []string {
	names := make([]string, 0, len(b.layers))
	for name := range b.layers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Hide excludes a layer from compositing. Content is retained.
func (b *Buffer) Hide(name string) {
	b.hidden[name] = true
}

// Show includes a layer in compositing again.
func (b *Buffer) Show(name string) {
	delete(b.hidden, name)
}

// IsVisible returns true unless the layer has been hidden.
func (b *Buffer) IsVisible(name string) bool {
	return !b.hidden[name]
}

// Clear empties the named layer. Unknown names are ignored.
func (b *Buffer) Clear(name string) {
	if cells, ok := b.layers[name]; ok {
		clear(cells)
	}
}

// ClearAll empties every layer.
func (b *Buffer) ClearAll() {
	for _, cells := range b.layers {
		clear(cells)
	}
}

// Get returns the cell at p in the current layer.
func (b *Buffer) Get(p core.Pos) (core.Cell, bool) {
	cell, ok := b.layers[b.current][p]
	return cell, ok
}

// Set writes a cell at p in the current layer, replacing any prior cell.
func (b *Buffer) Set(p core.Pos, cell core.Cell) {
	b.layers[b.current][p] = cell
}

// Delete removes the cell at p in the current layer.
func (b *Buffer) Delete(p core.Pos) {
	delete(b.layers[b.current], p)
}

// Len returns the number of cells in the named layer.
func (b *Buffer) Len(name string) int {
	return len(b.layers[name])
}

// Composite flattens visible layers in render order into a new map.
// Later layers replace earlier ones at identical positions.
func (b *Buffer) Composite() Cells {
	out := make(Cells)
	b.CompositeInto(out)
	return out
}

// CompositeInto is Composite writing into dst, which is cleared first.
// Reusing dst across frames avoids reallocating the output map.
func (b *Buffer) CompositeInto(dst Cells) {
	clear(dst)
	for _, name := range b.order {
		if b.hidden[name] {
			continue
		}
		for p, cell := range b.layers[name] {
			dst[p] = cell
		}
	}
}
