// Package camera provides the world-to-screen coordinate transform.
//
// A Camera is a plain offset with an optional scroll bound. Every
// mutating call re-clamps into the bound before returning, so the
// position observed between calls is always in range.
package camera

// Bounds limits the camera position. Min and max are inclusive.
// Inverted bounds (max < min) are accepted; clamping then resolves
// to the max value.
type Bounds struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Clamp returns (x, y) clamped into the bounds.
func (b Bounds) Clamp(x, y int) (int, int) {
	return clamp(x, b.MinX, b.MaxX), clamp(y, b.MinY, b.MaxY)
}

// clamp applies the lower bound first so that max wins when lo > hi.
func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// Camera tracks the top-left world position of the visible grid.
type Camera struct {
	x, y int

	bounds    Bounds
	hasBounds bool
}

// New creates a camera at the world origin with no bounds.
func New() *Camera {
	return &Camera{}
}

// Position returns the current camera position.
func (c *Camera) Position() (x, y int) {
	return c.x, c.y
}

// X returns the camera's horizontal offset.
func (c *Camera) X() int { return c.x }

// Y returns the camera's vertical offset.
func (c *Camera) Y() int { return c.y }

// Set moves the camera to an absolute position.
func (c *Camera) Set(x, y int) {
	c.x, c.y = x, y
	c.clamp()
}

// Move offsets the camera by the given delta.
func (c *Camera) Move(dx, dy int) {
	c.x += dx
	c.y += dy
	c.clamp()
}

// Reset returns the camera to the world origin.
func (c *Camera) Reset() {
	c.x, c.y = 0, 0
	c.clamp()
}

// Follow centers the camera on a target for a viewport of the given size.
func (c *Camera) Follow(targetX, targetY, viewportW, viewportH int) {
	c.x = targetX - viewportW/2
	c.y = targetY - viewportH/2
	c.clamp()
}

// SetBounds installs a scroll bound and clamps immediately.
func (c *Camera) SetBounds(minX, minY, maxX, maxY int) {
	c.bounds = Bounds{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	c.hasBounds = true
	c.clamp()
}

// ClearBounds removes the scroll bound. The position is left unchanged.
func (c *Camera) ClearBounds() {
	c.bounds = Bounds{}
	c.hasBounds = false
}

// Bounds returns the current bound and whether one is set.
func (c *Camera) Bounds() (Bounds, bool) {
	return c.bounds, c.hasBounds
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(x, y int) (int, int) {
	return x - c.x, y - c.y
}

// ScreenToWorld converts screen coordinates to world coordinates.
// It is the exact inverse of WorldToScreen.
func (c *Camera) ScreenToWorld(x, y int) (int, int) {
	return x + c.x, y + c.y
}

func (c *Camera) clamp() {
	if !c.hasBounds {
		return
	}
	c.x, c.y = c.bounds.Clamp(c.x, c.y)
}
