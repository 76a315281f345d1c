package common

import "math"

// AABB is an axis-aligned bounding box with inclusive min/max corners.
type AABB struct {
	Min, Max Vec2
}

func NewAABB(minX, minY, maxX, maxY float64) AABB {
	return AABB{Min: Vec2{X: minX, Y: minY}, Max: Vec2{X: maxX, Y: maxY}}
}

func (b AABB) Intersects(other AABB) bool {
	return b.Min.X < other.Max.X &&
		b.Max.X > other.Min.X &&
		b.Min.Y < other.Max.Y &&
		b.Max.Y > other.Min.Y
}

func (b AABB) Contains(p Vec2) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// ContainsBox reports whether other lies entirely inside b.
func (b AABB) ContainsBox(other AABB) bool {
	return other.Min.X >= b.Min.X && other.Max.X <= b.Max.X &&
		other.Min.Y >= b.Min.Y && other.Max.Y <= b.Max.Y
}

// Intersection returns the overlap rectangle of two boxes. Valid only if the
// boxes intersect.
func (b AABB) Intersection(other AABB) AABB {
	return AABB{
		Min: Vec2{X: math.Max(b.Min.X, other.Min.X), Y: math.Max(b.Min.Y, other.Min.Y)},
		Max: Vec2{X: math.Min(b.Max.X, other.Max.X), Y: math.Min(b.Max.Y, other.Max.Y)},
	}
}

func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec2{X: math.Min(b.Min.X, other.Min.X), Y: math.Min(b.Min.Y, other.Min.Y)},
		Max: Vec2{X: math.Max(b.Max.X, other.Max.X), Y: math.Max(b.Max.Y, other.Max.Y)},
	}
}

// Expand grows (or shrinks, for negative amount) the box on every side.
func (b AABB) Expand(amount float64) AABB {
	return AABB{
		Min: Vec2{X: b.Min.X - amount, Y: b.Min.Y - amount},
		Max: Vec2{X: b.Max.X + amount, Y: b.Max.Y + amount},
	}
}

func (b AABB) Translate(offset Vec2) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

func (b AABB) Center() Vec2 {
	return Vec2{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

func (b AABB) Width() float64 {
	return b.Max.X - b.Min.X
}

func (b AABB) Height() float64 {
	return b.Max.Y - b.Min.Y
}
