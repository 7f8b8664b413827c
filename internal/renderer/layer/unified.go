package layer

import "github.com/dshills/cellgrid/internal/renderer/core"

// OwnerOf returns the origin position of the scaled glyph covering p in
// the current layer, if any.
func (b *Buffer) OwnerOf(p core.Pos) (core.Pos, bool) {
	return b.Cells().OwnerOf(p)
}

// Release removes the whole scaled glyph covering p from the current
// layer: its origin and every placeholder that points at it.
// Returns false if p is not part of a scaled glyph.
func (b *Buffer) Release(p core.Pos) bool {
	return b.Cells().Release(p)
}

// OwnerOf returns the origin position of the scaled glyph covering p.
func (c Cells) OwnerOf(p core.Pos) (core.Pos, bool) {
	cell, ok := c[p]
	if !ok {
		return core.Pos{}, false
	}
	switch cell.Role.Kind {
	case core.RoleOrigin:
		return p, true
	case core.RoleMerged:
		return cell.Role.Origin, true
	}
	return core.Pos{}, false
}

// Release removes the whole scaled glyph covering p.
// Returns false if p is not part of a scaled glyph.
func (c Cells) Release(p core.Pos) bool {
	origin, ok := c.OwnerOf(p)
	if !ok {
		return false
	}

	scale := 1
	if oc, ok := c[origin]; ok && oc.IsOrigin() {
		scale = max(oc.Role.Scale, 1)
		delete(c, origin)
	}

	// Placeholders only ever sit inside their origin's footprint.
	core.RectFromSize(origin.X, origin.Y, scale, scale).Each(func(q core.Pos) {
		if qc, ok := c[q]; ok && qc.IsMerged() && qc.Role.Origin == origin {
			delete(c, q)
		}
	})

	// A stray placeholder whose origin is already gone.
	if pc, ok := c[p]; ok && pc.IsMerged() && pc.Role.Origin == origin {
		delete(c, p)
	}
	return true
}

// SameUnit reports whether writing next at p keeps p's scaled glyph
// whole: next is an origin replacing an intact origin of the same scale,
// or a placeholder replacing a placeholder of the same origin.
func (c Cells) SameUnit(p core.Pos, next core.Cell) bool {
	cur, ok := c[p]
	if !ok {
		return false
	}
	switch {
	case next.IsOrigin():
		return cur.IsOrigin() && cur.Role.Scale == next.Role.Scale
	case next.IsMerged():
		if !cur.IsMerged() || cur.Role.Origin != next.Role.Origin {
			return false
		}
		oc, ok := c[cur.Role.Origin]
		return ok && oc.IsOrigin()
	}
	return false
}
