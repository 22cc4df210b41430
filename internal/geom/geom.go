// Package geom holds the small amount of 2D geometry the simulation needs:
// vectors, center-origin rectangle bounds tests, and overlap resolution.
package geom

import "math"

// Vec2 is a 2D vector in world units.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Mul(f float64) Vec2 { return Vec2{v.X * f, v.Y * f} }

func (v Vec2) Abs() Vec2 { return Vec2{math.Abs(v.X), math.Abs(v.Y)} }

func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Normalize returns the unit vector pointing in v's direction.
// The zero vector normalizes to the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// PointInBounds returns where inside a rectangle's bounds a point is located,
// relative to the rectangle's center. Reports false if the point is outside
// the (scaled) half-extents.
func PointInBounds(size Vec2, center Vec2, scale float64, point Vec2) (Vec2, bool) {
	half := size.Mul(scale / 2)
	rel := point.Sub(center)

	if rel.X >= -half.X && rel.X <= half.X && rel.Y >= -half.Y && rel.Y <= half.Y {
		return rel, true
	}
	return Vec2{}, false
}

// OverlapResolution returns the shortest movement that separates two
// overlapping axis-aligned rectangles, given their centers and sizes.
// The first rectangle should move by the returned vector, and the second by
// its inverse. Reports false if the rectangles do not overlap.
//
// The correction always acts along a single axis: the one with the smaller
// penetration depth. When the centers coincide on an axis the full minimum
// separation distance is substituted on that axis, so the result is never NaN.
func OverlapResolution(pos1, size1, pos2, size2 Vec2) (Vec2, bool) {
	minDistance := size1.Mul(0.5).Add(size2.Mul(0.5))

	distance := pos1.Sub(pos2)
	absDistance := distance.Abs()
	overlap := minDistance.Sub(absDistance)

	if overlap.X <= 0 || overlap.Y <= 0 {
		return Vec2{}, false
	}

	movement := Vec2{
		X: overlap.X * (distance.X / absDistance.X),
		Y: overlap.Y * (distance.Y / absDistance.Y),
	}
	if math.IsNaN(movement.X) {
		movement.X = minDistance.X
	}
	if math.IsNaN(movement.Y) {
		movement.Y = minDistance.Y
	}

	// Move along the axis with the smaller penetration.
	if overlap.X < overlap.Y {
		movement.Y = 0
	} else {
		movement.X = 0
	}

	// Both rectangles move, so each covers half the correction.
	return movement.Mul(0.5), true
}
