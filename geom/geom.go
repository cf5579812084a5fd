// Package geom provides the 2D ground-plane collision primitives shared by
// every effect variant. All boundary comparisons are inclusive so a target
// standing exactly on an edge still counts as inside, matching the collision
// policy used throughout the simulation.
package geom

import "math"

// Vec2 is a point or direction on the ground plane.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Normalize returns the unit vector pointing along v, or the zero vector when
// v has no length. Callers rely on the zero result to express "no movement"
// rather than propagating NaN through position updates.
func (v Vec2) Normalize() Vec2 {
	length := v.Length()
	if length == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / length, Y: v.Y / length}
}

// Circle is a center plus radius on the ground plane.
type Circle struct {
	Center Vec2
	Radius float64
}

// Contains reports whether point lies inside the circle, inclusive at the
// boundary.
func (c Circle) Contains(point Vec2) bool {
	return Distance(c.Center, point) <= c.Radius
}

// Segment is a directed line segment on the ground plane.
type Segment struct {
	A Vec2
	B Vec2
}

// DistanceToPoint returns the shortest distance from point to the segment.
// The projection of point onto the segment is clamped to the segment's
// extent, so endpoints behave like rounded caps.
func (s Segment) DistanceToPoint(point Vec2) float64 {
	ab := s.B.Sub(s.A)
	lengthSq := ab.Dot(ab)
	if lengthSq == 0 {
		return Distance(s.A, point)
	}
	t := point.Sub(s.A).Dot(ab) / lengthSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := s.A.Add(ab.Scale(t))
	return Distance(closest, point)
}

// Capsule is a segment thickened by a radius; beams use it as their hit
// volume.
type Capsule struct {
	Segment Segment
	Radius  float64
}

// Contains reports whether point lies within the capsule, inclusive at the
// boundary.
func (c Capsule) Contains(point Vec2) bool {
	return c.Segment.DistanceToPoint(point) <= c.Radius
}

// SegmentFrom builds the fixed-length segment a beam occupies: it starts at
// origin and extends along direction for length units regardless of where the
// original target was.
func SegmentFrom(origin, direction Vec2, length float64) Segment {
	unit := direction.Normalize()
	return Segment{A: origin, B: origin.Add(unit.Scale(length))}
}
