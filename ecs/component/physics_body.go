package component

import "github.com/metalgearsloth/tickphys/physics"

// PhysicsBody holds the live solver body for an entity once the physics
// system has instantiated its Collider.
type PhysicsBody struct {
	Body *physics.Body
}

var PhysicsBodyComponent = NewComponent[*PhysicsBody]()
