// Package core provides fundamental types and utilities shared by the runner.
// It contains no terminal dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

// Rect is an integer rectangle in screen cells, used for drawing.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Box is an axis-aligned bounding box in world units on the X/Y plane.
// Y grows upward. The depth axis is not part of overlap tests because every
// entity in a run lives on the same rail.
type Box struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// BoxAround builds a box centered on (cx, cy) with the given half extents.
func BoxAround(cx, cy, halfW, halfH float64) Box {
	return Box{
		MinX: cx - halfW,
		MinY: cy - halfH,
		MaxX: cx + halfW,
		MaxY: cy + halfH,
	}
}

// Overlaps reports whether both boxes intersect on X and on Y.
// Edges that only touch do not overlap.
func (b Box) Overlaps(o Box) bool {
	overlapX := b.MaxX > o.MinX && b.MinX < o.MaxX
	overlapY := b.MaxY > o.MinY && b.MinY < o.MaxY
	return overlapX && overlapY
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Lerp interpolates linearly between a and b. t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
