package core

// RoleKind tags how a cell participates in a multi-cell glyph.
type RoleKind uint8

const (
	// RoleNone is an ordinary 1x1 cell.
	RoleNone RoleKind = iota
	// RoleOrigin owns and renders a scaled glyph.
	RoleOrigin
	// RoleMerged is a placeholder inside a scaled glyph's footprint.
	// It renders nothing.
	RoleMerged
)

// UnifiedRole tags a cell as part of a multi-cell ("scaled") glyph.
type UnifiedRole struct {
	Kind RoleKind

	// Scale is the footprint edge length; set on origin cells only.
	Scale int

	// Origin is the owning origin's position; set on merged cells only.
	Origin Pos
}

// OriginRole returns the role of the cell that owns a scale x scale glyph.
func OriginRole(scale int) UnifiedRole {
	return UnifiedRole{Kind: RoleOrigin, Scale: scale}
}

// MergedRole returns the role of a placeholder owned by origin.
func MergedRole(origin Pos) UnifiedRole {
	return UnifiedRole{Kind: RoleMerged, Origin: origin}
}

// Cell is the atomic drawable unit.
type Cell struct {
	// Glyph is the grapheme drawn in the cell.
	Glyph string

	Fg Color
	Bg Color

	// Role is zero for ordinary cells.
	Role UnifiedRole
}

// NewCell creates an ordinary cell.
func NewCell(glyph string, fg, bg Color) Cell {
	return Cell{Glyph: glyph, Fg: fg, Bg: bg}
}

// IsOrigin returns true if the cell owns a scaled glyph.
func (c Cell) IsOrigin() bool {
	return c.Role.Kind == RoleOrigin
}

// IsMerged returns true if the cell is a scaled-glyph placeholder.
func (c Cell) IsMerged() bool {
	return c.Role.Kind == RoleMerged
}

// IsUnified returns true if the cell belongs to any scaled glyph.
func (c Cell) IsUnified() bool {
	return c.Role.Kind != RoleNone
}

// Footprint returns the area covered by an origin cell placed at p.
// Ordinary and merged cells cover only p.
func (c Cell) Footprint(p Pos) Rect {
	if c.IsOrigin() && c.Role.Scale > 1 {
		return RectFromSize(p.X, p.Y, c.Role.Scale, c.Role.Scale)
	}
	return RectFromSize(p.X, p.Y, 1, 1)
}

// WithGlyph returns a copy of the cell with a different glyph.
func (c Cell) WithGlyph(glyph string) Cell {
	c.Glyph = glyph
	return c
}

// Equals returns true if two cells are identical.
func (c Cell) Equals(other Cell) bool {
	return c.Glyph == other.Glyph &&
		c.Fg.Equals(other.Fg) &&
		c.Bg.Equals(other.Bg) &&
		c.Role == other.Role
}
