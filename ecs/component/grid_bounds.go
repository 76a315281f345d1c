package component

// GridBounds bounds a movable sub-grid. Bodies whose box leaves the bounds
// fall off the grid and are dropped from its spatial index.
type GridBounds struct {
	Map     uint32
	Grid    uint32
	HasGrid bool
	MinX    float64
	MinY    float64
	MaxX    float64
	MaxY    float64
}

var GridBoundsComponent = NewComponent[*GridBounds]()
