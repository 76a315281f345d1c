package physics

import (
	"errors"
	"math"

	"github.com/metalgearsloth/tickphys/common"
)

var (
	ErrDegeneratePolygon = errors.New("physics: polygon needs at least 3 vertices")
	ErrNonFiniteGeometry = errors.New("physics: shape geometry must be finite")
	ErrBadRadius         = errors.New("physics: circle radius must be positive")
)

type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapePolygon
)

// MassData is derived from shape geometry and density whenever either changes.
type MassData struct {
	Mass     float64
	Area     float64
	Centroid common.Vec2
	// Inertia is the rotational inertia about the centroid.
	Inertia float64
}

// Shape is convex geometry owned by a body. Geometry is set through the
// constructors and setters only so mass data stays consistent.
type Shape struct {
	kind    ShapeKind
	radius  float64
	center  common.Vec2 // circle center / polygon offset, body-local
	verts   []common.Vec2
	normals []common.Vec2
	density float64
	mass    MassData

	// Layer and Mask are this shape's collision bits. A body's aggregate
	// filter is the union of its shapes'.
	Layer uint32
	Mask  uint32
}

// NewCircle builds a circle shape from a body-local center and radius.
func NewCircle(center common.Vec2, radius, density float64) (*Shape, error) {
	if radius <= 0 {
		return nil, ErrBadRadius
	}
	if !center.IsFinite() || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return nil, ErrNonFiniteGeometry
	}
	s := &Shape{kind: ShapeCircle, radius: radius, center: center, density: density}
	s.computeMass()
	return s, nil
}

// NewPolygon builds a convex polygon from counterclockwise body-local
// vertices.
func NewPolygon(verts []common.Vec2, density float64) (*Shape, error) {
	if len(verts) < 3 {
		return nil, ErrDegeneratePolygon
	}
	for _, v := range verts {
		if !v.IsFinite() {
			return nil, ErrNonFiniteGeometry
		}
	}
	s := &Shape{
		kind:    ShapePolygon,
		verts:   append([]common.Vec2(nil), verts...),
		density: density,
	}
	s.computeNormals()
	s.computeMass()
	if s.mass.Area <= 0 {
		return nil, ErrDegeneratePolygon
	}
	return s, nil
}

// NewBox builds an axis-aligned box polygon centered on a body-local offset.
func NewBox(center common.Vec2, width, height, density float64) (*Shape, error) {
	hw, hh := width/2, height/2
	return NewPolygon([]common.Vec2{
		{X: center.X - hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y - hh},
		{X: center.X + hw, Y: center.Y + hh},
		{X: center.X - hw, Y: center.Y + hh},
	}, density)
}

func (s *Shape) Kind() ShapeKind {
	return s.kind
}

func (s *Shape) Radius() float64 {
	return s.radius
}

func (s *Shape) Center() common.Vec2 {
	return s.center
}

func (s *Shape) Vertices() []common.Vec2 {
	return s.verts
}

func (s *Shape) Density() float64 {
	return s.density
}

func (s *Shape) Mass() MassData {
	return s.mass
}

// SetDensity changes the density and recomputes mass data.
func (s *Shape) SetDensity(density float64) {
	s.density = density
	s.computeMass()
}

// SetVertices replaces polygon geometry and recomputes normals and mass.
func (s *Shape) SetVertices(verts []common.Vec2) error {
	if s.kind != ShapePolygon {
		return ErrInvalidShapeKind
	}
	if len(verts) < 3 {
		return ErrDegeneratePolygon
	}
	for _, v := range verts {
		if !v.IsFinite() {
			return ErrNonFiniteGeometry
		}
	}
	s.verts = append(s.verts[:0], verts...)
	s.computeNormals()
	s.computeMass()
	return nil
}

var ErrInvalidShapeKind = errors.New("physics: operation not valid for this shape kind")

func (s *Shape) computeNormals() {
	s.normals = s.normals[:0]
	n := len(s.verts)
	for i := 0; i < n; i++ {
		edge := s.verts[(i+1)%n].Sub(s.verts[i])
		s.normals = append(s.normals, common.Vec2{X: edge.Y, Y: -edge.X}.Normalize())
	}
}

func (s *Shape) computeMass() {
	switch s.kind {
	case ShapeCircle:
		area := math.Pi * s.radius * s.radius
		mass := s.density * area
		s.mass = MassData{
			Mass:     mass,
			Area:     area,
			Centroid: s.center,
			Inertia:  0.5 * mass * s.radius * s.radius,
		}
	case ShapePolygon:
		// Standard shoelace decomposition into triangles about the first
		// vertex; inertia accumulated per triangle then shifted to the
		// centroid.
		var area, inertia float64
		var centroid common.Vec2
		ref := s.verts[0]
		for i := 1; i < len(s.verts)-1; i++ {
			e1 := s.verts[i].Sub(ref)
			e2 := s.verts[i+1].Sub(ref)
			cross := e1.Cross(e2)
			triArea := cross / 2
			area += triArea
			centroid = centroid.Add(ref.Add(s.verts[i]).Add(s.verts[i+1]).Mult(triArea / 3))
			intx2 := e1.X*e1.X + e2.X*e1.X + e2.X*e2.X
			inty2 := e1.Y*e1.Y + e2.Y*e1.Y + e2.Y*e2.Y
			inertia += (cross / 12) * (intx2 + inty2)
		}
		if area <= 0 {
			s.mass = MassData{}
			return
		}
		centroid = centroid.Mult(1 / area)
		mass := s.density * area
		// Shift inertia from the reference vertex to the centroid, then the
		// density scales the geometric moment.
		d := centroid.Sub(ref)
		s.mass = MassData{
			Mass:     mass,
			Area:     area,
			Centroid: centroid,
			Inertia:  s.density*inertia - mass*d.LengthSq(),
		}
	}
}

// worldVerts returns polygon vertices in world space.
func (s *Shape) worldVerts(pos common.Vec2, rot float64) []common.Vec2 {
	out := make([]common.Vec2, len(s.verts))
	for i, v := range s.verts {
		out[i] = v.Rotate(rot).Add(pos)
	}
	return out
}

// AABB computes the world bounding box for a body transform.
func (s *Shape) AABB(pos common.Vec2, rot float64) common.AABB {
	switch s.kind {
	case ShapeCircle:
		c := s.center.Rotate(rot).Add(pos)
		return common.AABB{
			Min: common.Vec2{X: c.X - s.radius, Y: c.Y - s.radius},
			Max: common.Vec2{X: c.X + s.radius, Y: c.Y + s.radius},
		}
	default:
		box := common.AABB{
			Min: common.Vec2{X: math.Inf(1), Y: math.Inf(1)},
			Max: common.Vec2{X: math.Inf(-1), Y: math.Inf(-1)},
		}
		for _, v := range s.verts {
			w := v.Rotate(rot).Add(pos)
			box.Min.X = math.Min(box.Min.X, w.X)
			box.Min.Y = math.Min(box.Min.Y, w.Y)
			box.Max.X = math.Max(box.Max.X, w.X)
			box.Max.Y = math.Max(box.Max.Y, w.Y)
		}
		return box
	}
}

// ContainsPoint tests a world-space point against the shape at a transform.
func (s *Shape) ContainsPoint(pos common.Vec2, rot float64, point common.Vec2) bool {
	switch s.kind {
	case ShapeCircle:
		c := s.center.Rotate(rot).Add(pos)
		return point.Sub(c).LengthSq() <= s.radius*s.radius
	default:
		// Point is inside a convex polygon iff it is on the inner side of
		// every edge.
		local := point.Sub(pos).Rotate(-rot)
		n := len(s.verts)
		for i := 0; i < n; i++ {
			edge := s.verts[(i+1)%n].Sub(s.verts[i])
			if edge.Cross(local.Sub(s.verts[i])) < 0 {
				return false
			}
		}
		return true
	}
}

// IntersectRay returns the entry distance of a world-space ray, if it hits.
func (s *Shape) IntersectRay(pos common.Vec2, rot float64, ray common.Ray) (float64, bool) {
	switch s.kind {
	case ShapeCircle:
		c := s.center.Rotate(rot).Add(pos)
		return ray.IntersectsCircle(c, s.radius)
	default:
		verts := s.worldVerts(pos, rot)
		best := math.Inf(1)
		hit := false
		for i := range verts {
			if d, ok := ray.IntersectsSegment(verts[i], verts[(i+1)%len(verts)]); ok && d < best {
				best = d
				hit = true
			}
		}
		if !hit && s.ContainsPoint(pos, rot, ray.Origin) {
			return 0, true
		}
		return best, hit
	}
}

// support returns the world-space extreme point in a direction. Used by the
// distance solver.
func (s *Shape) support(pos common.Vec2, rot float64, dir common.Vec2) common.Vec2 {
	switch s.kind {
	case ShapeCircle:
		c := s.center.Rotate(rot).Add(pos)
		return c.Add(dir.Normalize().Mult(s.radius))
	default:
		best := 0
		bestDot := math.Inf(-1)
		local := dir.Rotate(-rot)
		for i, v := range s.verts {
			if d := v.Dot(local); d > bestDot {
				bestDot = d
				best = i
			}
		}
		return s.verts[best].Rotate(rot).Add(pos)
	}
}
