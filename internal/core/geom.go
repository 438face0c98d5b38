// Package core provides fundamental types shared by the engine, the script
// runtimes and the display backends. It has no external dependencies so the
// pixel and timing logic stays pure and testable.
package core

// Rect represents an axis-aligned rectangle in pixel or cell space.
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

// Empty reports whether the rectangle covers no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects returns true if this rectangle overlaps with another.
func (r Rect) Intersects(other Rect) bool {
	if r.X >= other.Right() || other.X >= r.Right() {
		return false
	}
	if r.Y >= other.Bottom() || other.Y >= r.Bottom() {
		return false
	}
	return true
}

// Intersect returns the overlapping area of two rectangles.
// The result is empty if they do not overlap.
func (r Rect) Intersect(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	x0 := Max(r.X, other.X)
	y0 := Max(r.Y, other.Y)
	x1 := Min(r.Right(), other.Right())
	y1 := Min(r.Bottom(), other.Bottom())
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// FitViewport returns the largest rectangle with the aspect ratio of
// logicalW x logicalH that fits inside outerW x outerH, centered.
// Leftover space becomes letterbox bars.
func FitViewport(outerW, outerH, logicalW, logicalH int) Rect {
	if outerW <= 0 || outerH <= 0 || logicalW <= 0 || logicalH <= 0 {
		return Rect{}
	}

	scaleX := float64(outerW) / float64(logicalW)
	scaleY := float64(outerH) / float64(logicalH)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}

	w := Max(1, int(float64(logicalW)*scale))
	h := Max(1, int(float64(logicalH)*scale))
	return Rect{
		X: (outerW - w) / 2,
		Y: (outerH - h) / 2,
		W: w,
		H: h,
	}
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
