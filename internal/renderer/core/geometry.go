package core

// Pos is an integer cell position. Origin is top-left,
// x grows right and y grows down.
//
// Pos is comparable and is used directly as the sparse-map key.
type Pos struct {
	X int
	Y int
}

// P is shorthand for Pos{X: x, Y: y}.
func P(x, y int) Pos {
	return Pos{X: x, Y: y}
}

// Add returns a new position offset by the given delta.
func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Before returns true if p comes before other in row-major order.
func (p Pos) Before(other Pos) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}

// Compare orders positions row-major, for use with slices.SortFunc.
func (p Pos) Compare(other Pos) int {
	switch {
	case p.Before(other):
		return -1
	case other.Before(p):
		return 1
	}
	return 0
}

// Rect is a rectangular cell region. Right and Bottom are exclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// RectFromSize creates a rectangle from position and size.
func RectFromSize(x, y, width, height int) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// Width returns the width of the rectangle.
func (r Rect) Width() int {
	if r.Right <= r.Left {
		return 0
	}
	return r.Right - r.Left
}

// Height returns the height of the rectangle.
func (r Rect) Height() int {
	if r.Bottom <= r.Top {
		return 0
	}
	return r.Bottom - r.Top
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Contains returns true if p is within the rectangle.
func (r Rect) Contains(p Pos) bool {
	return p.X >= r.Left && p.X < r.Right && p.Y >= r.Top && p.Y < r.Bottom
}

// ContainsRect returns true if other is entirely within r.
func (r Rect) ContainsRect(other Rect) bool {
	return other.Left >= r.Left && other.Right <= r.Right &&
		other.Top >= r.Top && other.Bottom <= r.Bottom
}

// Intersection returns the overlapping region of two rectangles.
func (r Rect) Intersection(other Rect) Rect {
	out := Rect{
		Left:   max(r.Left, other.Left),
		Top:    max(r.Top, other.Top),
		Right:  min(r.Right, other.Right),
		Bottom: min(r.Bottom, other.Bottom),
	}
	if out.IsEmpty() {
		return Rect{}
	}
	return out
}

// Each calls fn for every position in row-major order.
func (r Rect) Each(fn func(p Pos)) {
	for y := r.Top; y < r.Bottom; y++ {
		for x := r.Left; x < r.Right; x++ {
			fn(Pos{X: x, Y: y})
		}
	}
}
