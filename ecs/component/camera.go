package component

// Camera positions the debug view. The camera entity's Transform is the top
// left corner of the viewport in world units.
type Camera struct {
	Zoom float64
}

var CameraComponent = NewComponent[*Camera]()
