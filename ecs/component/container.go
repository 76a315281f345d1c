package component

// ContainedBy marks an entity as held inside another entity. Contained
// entities do not move themselves. Movement attempted on them is relayed to
// the parent instead.
type ContainedBy struct {
	Parent uint64
}

var ContainedByComponent = NewComponent[*ContainedBy]()
