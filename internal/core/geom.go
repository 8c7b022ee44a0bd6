// Package core provides fundamental types for the game runtime: world-space
// geometry and colors. It contains no frontend dependencies (especially no
// Bubble Tea and no Ebitengine) to keep game logic pure and testable.
package core

import "github.com/go-gl/mathgl/mgl64"

// Vec is a 2D vector in world units. Positions and velocities use it.
// Y grows downward, matching both the terminal and the window backends.
type Vec = mgl64.Vec2

// Rect represents an axis-aligned bounding box in world units.
type Rect struct {
	X, Y float64 // Top-left corner position
	W, H float64 // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() float64 {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Y + r.H
}

// Pos returns the top-left corner as a vector.
func (r Rect) Pos() Vec {
	return Vec{r.X, r.Y}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Vec {
	return Vec{r.X + r.W/2, r.Y + r.H/2}
}

// Translate returns a copy of the rectangle shifted by d.
func (r Rect) Translate(d Vec) Rect {
	r.X += d.X()
	r.Y += d.Y()
	return r
}

// Intersects returns true if this rectangle overlaps with another.
// Uses standard AABB collision detection; touching edges do not count.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Contains returns true if the point p is inside this rectangle.
func (r Rect) Contains(p Vec) bool {
	return p.X() >= r.X && p.X() < r.Right() && p.Y() >= r.Y && p.Y() < r.Bottom()
}

// Overlap returns the intersection of two rectangles. The second return is
// false when they do not overlap. Collision resolution uses the overlap's
// width and height to pick the smaller penetration axis.
func Overlap(a, b Rect) (Rect, bool) {
	x := MaxF(a.X, b.X)
	y := MaxF(a.Y, b.Y)
	right := MinF(a.Right(), b.Right())
	bottom := MinF(a.Bottom(), b.Bottom())

	if right <= x || bottom <= y {
		return Rect{}, false
	}

	return Rect{X: x, Y: y, W: right - x, H: bottom - y}, true
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

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// AbsF returns the absolute value of a float64.
func AbsF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
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

// MinF returns the smaller of two float64 values.
func MinF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// MaxF returns the larger of two float64 values.
func MaxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
