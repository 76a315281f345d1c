package common

import (
	"math"
	"testing"
)

func TestRayIntersectsAABB(t *testing.T) {
	box := NewAABB(2, -1, 4, 1)
	cases := []struct {
		name     string
		ray      Ray
		wantDist float64
		wantHit  bool
	}{
		{"head_on", NewRay(Vec2{}, Vec2{X: 1}, 10), 2, true},
		{"starts_inside", NewRay(Vec2{X: 3}, Vec2{X: 1}, 10), 0, true},
		{"too_short", NewRay(Vec2{}, Vec2{X: 1}, 1.5), 0, false},
		{"parallel_miss", NewRay(Vec2{Y: 5}, Vec2{X: 1}, 10), 0, false},
		{"diagonal", NewRay(Vec2{X: 0, Y: -3}, Vec2{X: 1, Y: 1}, 10), 2 * math.Sqrt2, true},
		{"pointing_away", NewRay(Vec2{}, Vec2{X: -1}, 10), 0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			d, hit := c.ray.IntersectsAABB(box)
			if hit != c.wantHit {
				t.Fatalf("hit = %v, want %v", hit, c.wantHit)
			}
			if hit && math.Abs(d-c.wantDist) > 1e-9 {
				t.Fatalf("distance = %v, want %v", d, c.wantDist)
			}
		})
	}
}

func TestRayIntersectsCircle(t *testing.T) {
	d, hit := NewRay(Vec2{}, Vec2{X: 1}, 10).IntersectsCircle(Vec2{X: 5}, 2)
	if !hit || math.Abs(d-3) > 1e-9 {
		t.Fatalf("d=%v hit=%v, want 3 true", d, hit)
	}
	// Starting inside reports distance zero.
	d, hit = NewRay(Vec2{X: 5}, Vec2{X: 1}, 10).IntersectsCircle(Vec2{X: 5}, 2)
	if !hit || d != 0 {
		t.Fatalf("inside start: d=%v hit=%v", d, hit)
	}
	if _, hit := NewRay(Vec2{}, Vec2{X: -1}, 10).IntersectsCircle(Vec2{X: 5}, 2); hit {
		t.Fatalf("ray pointing away should miss")
	}
}

func TestRayIntersectsSegment(t *testing.T) {
	ray := NewRay(Vec2{}, Vec2{X: 1}, 10)
	d, hit := ray.IntersectsSegment(Vec2{X: 4, Y: -2}, Vec2{X: 4, Y: 2})
	if !hit || math.Abs(d-4) > 1e-9 {
		t.Fatalf("d=%v hit=%v, want 4 true", d, hit)
	}
	if _, hit := ray.IntersectsSegment(Vec2{X: 4, Y: 1}, Vec2{X: 4, Y: 2}); hit {
		t.Fatalf("segment off axis should miss")
	}
	if _, hit := ray.IntersectsSegment(Vec2{X: 1, Y: 1}, Vec2{X: 8, Y: 1}); hit {
		t.Fatalf("parallel segment should miss")
	}
}
