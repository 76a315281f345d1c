package common

import "math"

// Ray is a half-line with a unit direction and a maximum length.
type Ray struct {
	Origin    Vec2
	Direction Vec2
	Length    float64
}

func NewRay(origin, direction Vec2, length float64) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize(), Length: length}
}

func (r Ray) PointAt(distance float64) Vec2 {
	return r.Origin.Add(r.Direction.Mult(distance))
}

// IntersectsAABB returns the entry distance along the ray, using the slab
// method. A ray starting inside the box reports distance 0.
func (r Ray) IntersectsAABB(box AABB) (float64, bool) {
	tMin := 0.0
	tMax := r.Length

	for axis := 0; axis < 2; axis++ {
		var origin, dir, lo, hi float64
		if axis == 0 {
			origin, dir, lo, hi = r.Origin.X, r.Direction.X, box.Min.X, box.Max.X
		} else {
			origin, dir, lo, hi = r.Origin.Y, r.Direction.Y, box.Min.Y, box.Max.Y
		}
		if dir == 0 {
			if origin < lo || origin > hi {
				return 0, false
			}
			continue
		}
		inv := 1 / dir
		t1 := (lo - origin) * inv
		t2 := (hi - origin) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// IntersectsCircle returns the nearest intersection distance with a circle.
func (r Ray) IntersectsCircle(center Vec2, radius float64) (float64, bool) {
	m := r.Origin.Sub(center)
	b := m.Dot(r.Direction)
	c := m.LengthSq() - radius*radius
	if c > 0 && b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 {
		t = 0
	}
	if t > r.Length {
		return 0, false
	}
	return t, true
}

// IntersectsSegment returns the distance to a line segment, if hit.
func (r Ray) IntersectsSegment(a, b Vec2) (float64, bool) {
	seg := b.Sub(a)
	denom := r.Direction.Cross(seg)
	if denom == 0 {
		return 0, false
	}
	diff := a.Sub(r.Origin)
	t := diff.Cross(seg) / denom
	u := diff.Cross(r.Direction) / denom
	if t < 0 || t > r.Length || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}
