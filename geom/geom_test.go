package geom

import (
	"math"
	"testing"
)

func TestCircleContainsInclusiveBoundary(t *testing.T) {
	circle := Circle{Center: Vec2{}, Radius: 5}

	cases := []struct {
		name  string
		point Vec2
		want  bool
	}{
		{"center", Vec2{}, true},
		{"inside", Vec2{X: 3, Y: 0}, true},
		{"exactly on boundary", Vec2{X: 5, Y: 0}, true},
		{"outside", Vec2{X: 5.001, Y: 0}, false},
		{"diagonal boundary", Vec2{X: 3, Y: 4}, true},
	}
	for _, tc := range cases {
		if got := circle.Contains(tc.point); got != tc.want {
			t.Fatalf("%s: Contains(%+v) = %v, want %v", tc.name, tc.point, got, tc.want)
		}
	}
}

func TestSegmentDistanceClampsProjection(t *testing.T) {
	seg := Segment{A: Vec2{X: 0, Y: 0}, B: Vec2{X: 10, Y: 0}}

	cases := []struct {
		name  string
		point Vec2
		want  float64
	}{
		{"perpendicular above midpoint", Vec2{X: 5, Y: 3}, 3},
		{"beyond end clamps to endpoint", Vec2{X: 14, Y: 3}, 5},
		{"before start clamps to start", Vec2{X: -4, Y: 3}, 5},
		{"on the segment", Vec2{X: 7, Y: 0}, 0},
	}
	for _, tc := range cases {
		got := seg.DistanceToPoint(tc.point)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("%s: distance = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDegenerateSegmentActsLikePoint(t *testing.T) {
	seg := Segment{A: Vec2{X: 2, Y: 2}, B: Vec2{X: 2, Y: 2}}
	if got := seg.DistanceToPoint(Vec2{X: 5, Y: 6}); math.Abs(got-5) > 1e-9 {
		t.Fatalf("distance = %v, want 5", got)
	}
}

func TestCapsuleContains(t *testing.T) {
	capsule := Capsule{
		Segment: Segment{A: Vec2{}, B: Vec2{X: 100, Y: 0}},
		Radius:  1,
	}
	if !capsule.Contains(Vec2{X: 50, Y: 1}) {
		t.Fatal("point exactly at capsule radius should be inside")
	}
	if capsule.Contains(Vec2{X: 50, Y: 1.01}) {
		t.Fatal("point beyond capsule radius should be outside")
	}
	if capsule.Contains(Vec2{X: 102, Y: 0}) {
		t.Fatal("point past the end cap plus radius should be outside")
	}
	if !capsule.Contains(Vec2{X: 100.5, Y: 0}) {
		t.Fatal("end caps are rounded; point within radius of endpoint is inside")
	}
}

func TestSegmentFromExtendsFixedLength(t *testing.T) {
	seg := SegmentFrom(Vec2{X: 1, Y: 1}, Vec2{X: 0, Y: 2}, 10)
	want := Vec2{X: 1, Y: 11}
	if math.Abs(seg.B.X-want.X) > 1e-9 || math.Abs(seg.B.Y-want.Y) > 1e-9 {
		t.Fatalf("segment end = %+v, want %+v", seg.B, want)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	if got := (Vec2{}).Normalize(); got.X != 0 || got.Y != 0 {
		t.Fatalf("normalizing zero vector should stay zero, got %+v", got)
	}
}
