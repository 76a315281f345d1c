package component

// ShapeSpec describes one fixture on a collider. Box shapes use Width and
// Height, circle shapes use Radius. OffsetX and OffsetY place the shape in
// body space.
type ShapeSpec struct {
	Circle  bool
	Radius  float64
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
	Density float64
	Layer   uint32
	Mask    uint32
}

// Collider is the declarative collider configuration an entity starts with.
// The physics system turns it into a live body on its next update.
type Collider struct {
	Shapes   []ShapeSpec
	BodyType string
	Hard     bool
	Friction float64
	Map      uint32
	Grid     uint32
	HasGrid  bool
}

var ColliderComponent = NewComponent[*Collider]()
