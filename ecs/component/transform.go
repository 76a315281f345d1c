package component

// Transform is the authoritative world-space placement of an entity. The
// physics step writes back into it once per tick.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[*Transform]()
