package physics

import (
	"log"

	"github.com/metalgearsloth/tickphys/common"
)

type BodyType uint8

const (
	// Static bodies never move and never sleep-track.
	Static BodyType = iota
	// Kinematic bodies move under their own velocity but ignore impulses.
	Kinematic
	// Dynamic bodies respond to forces and impulses.
	Dynamic
)

// CollisionVeto can exclude a broad-phase pair after the bitmask filter has
// already allowed it. Either side vetoing excludes the pair.
type CollisionVeto func(self, other *Body) bool

// CollisionBehavior receives contact notifications for a body it is
// registered on. PostCollide reports the number of contacts the behavior was
// involved in during the tick, once all contacts are processed.
type CollisionBehavior interface {
	OnCollide(self, other *Body, m *Manifold)
	PostCollide(count int)
}

// Body is a simulated rigid object. It does not own its position; that is
// read and written through the world's TransformSource.
type Body struct {
	id    uint64
	world *World

	typ  BodyType
	hard bool
	// collisionEnabled gates the body out of broad-phase pairing entirely.
	collisionEnabled bool
	friction         float64
	// onGround gates the tile friction pass. Controllers flip this for
	// airborne or floating bodies.
	onGround bool

	mass       float64
	invMass    float64
	inertia    float64
	invInertia float64

	vel    common.Vec2
	angVel float64
	force  common.Vec2
	torque float64

	asleep     bool
	sleepAccum int

	shapes []*Shape
	layer  uint32
	mask   uint32

	place Placement

	vetoes    []CollisionVeto
	behaviors []CollisionBehavior

	// cells is the body's current chunk-grid membership, owned by the index.
	cells []cellRef
}

// Placement names the map and optional sub-grid a body is indexed under.
type Placement struct {
	Map     MapID
	Grid    GridID
	HasGrid bool
}

// NewBody builds an unregistered body. It joins the simulation through
// World.AddBody.
func NewBody(typ BodyType) *Body {
	return &Body{
		typ:              typ,
		hard:             true,
		collisionEnabled: true,
		friction:         1,
		onGround:         typ == Dynamic,
	}
}

func (b *Body) ID() uint64 {
	return b.id
}

func (b *Body) Type() BodyType {
	return b.typ
}

func (b *Body) Hard() bool {
	return b.hard
}

func (b *Body) SetHard(hard bool) {
	b.hard = hard
}

func (b *Body) CollisionEnabled() bool {
	return b.collisionEnabled
}

func (b *Body) SetCollisionEnabled(enabled bool) {
	b.collisionEnabled = enabled
}

func (b *Body) Friction() float64 {
	return b.friction
}

func (b *Body) SetFriction(friction float64) {
	b.friction = friction
}

func (b *Body) OnGround() bool {
	return b.onGround
}

func (b *Body) SetOnGround(onGround bool) {
	b.onGround = onGround
}

func (b *Body) Placement() Placement {
	return b.place
}

// SetPlacement re-homes the body onto a map/grid. Takes effect at the next
// queue flush when the body is registered.
func (b *Body) SetPlacement(p Placement) {
	b.place = p
	if b.world != nil {
		b.world.NotifyMoved(b)
	}
}

func (b *Body) Mass() float64 {
	return b.mass
}

func (b *Body) InvMass() float64 {
	return b.invMass
}

func (b *Body) Velocity() common.Vec2 {
	return b.vel
}

func (b *Body) SetVelocity(v common.Vec2) {
	b.vel = v
	if b.world != nil && (v.X != 0 || v.Y != 0) {
		b.world.requestWake(b)
	}
}

func (b *Body) AngularVelocity() float64 {
	return b.angVel
}

func (b *Body) SetAngularVelocity(w float64) {
	b.angVel = w
}

func (b *Body) Asleep() bool {
	return b.asleep
}

// Movable reports whether the solver may change the body's position.
func (b *Body) Movable() bool {
	return b.typ != Static
}

// ApplyForce accumulates a continuous force for this tick. Forces are cleared
// after integration; continuous effects re-apply every tick.
func (b *Body) ApplyForce(f common.Vec2) {
	if b.typ != Dynamic {
		return
	}
	b.force = b.force.Add(f)
	if b.world != nil {
		b.world.requestWake(b)
	}
}

// ApplyTorque accumulates torque for this tick.
func (b *Body) ApplyTorque(t float64) {
	if b.typ != Dynamic {
		return
	}
	b.torque += t
	if b.world != nil {
		b.world.requestWake(b)
	}
}

// ApplyImpulse changes momentum immediately.
func (b *Body) ApplyImpulse(imp common.Vec2) {
	if b.typ != Dynamic {
		return
	}
	b.vel = b.vel.Add(imp.Mult(b.effectiveInvMass()))
	if b.world != nil {
		b.world.requestWake(b)
	}
}

// Wake clears sleep state at the next checkpoint.
func (b *Body) Wake() {
	if b.world != nil {
		b.world.requestWake(b)
	}
}

// AddShape attaches a shape and re-derives mass and collision bits.
func (b *Body) AddShape(s *Shape) {
	if s == nil {
		return
	}
	for _, existing := range b.shapes {
		if existing == s {
			log.Printf("physics: shape already attached to body %d", b.id)
			return
		}
	}
	b.shapes = append(b.shapes, s)
	b.recomputeMass()
	if b.world != nil {
		b.world.NotifyMoved(b)
	}
}

// RemoveShape detaches a shape. Removing an unattached shape logs and no-ops.
func (b *Body) RemoveShape(s *Shape) {
	for i, existing := range b.shapes {
		if existing == s {
			b.shapes = append(b.shapes[:i], b.shapes[i+1:]...)
			b.recomputeMass()
			if b.world != nil {
				b.world.NotifyMoved(b)
			}
			return
		}
	}
	log.Printf("physics: remove unknown shape from body %d", b.id)
}

func (b *Body) Shapes() []*Shape {
	return b.shapes
}

// Layer is the union of the shapes' collision layers.
func (b *Body) Layer() uint32 {
	return b.layer
}

// Mask is the union of the shapes' collision masks.
func (b *Body) Mask() uint32 {
	return b.mask
}

// AddVeto registers a special-collision predicate with veto power over
// broad-phase pairs involving this body.
func (b *Body) AddVeto(v CollisionVeto) {
	if v != nil {
		b.vetoes = append(b.vetoes, v)
	}
}

// AddBehavior registers a collision behavior. Behaviors are attached
// explicitly rather than discovered at runtime.
func (b *Body) AddBehavior(cb CollisionBehavior) {
	if cb == nil {
		return
	}
	for _, existing := range b.behaviors {
		if existing == cb {
			log.Printf("physics: behavior already registered on body %d", b.id)
			return
		}
	}
	b.behaviors = append(b.behaviors, cb)
}

// RemoveBehavior unregisters a collision behavior.
func (b *Body) RemoveBehavior(cb CollisionBehavior) {
	for i, existing := range b.behaviors {
		if existing == cb {
			b.behaviors = append(b.behaviors[:i], b.behaviors[i+1:]...)
			return
		}
	}
}

// recomputeMass re-derives aggregate mass data and collision bits from the
// shape list. Degenerate shapes contribute nothing.
func (b *Body) recomputeMass() {
	b.mass = 0
	b.inertia = 0
	b.layer = 0
	b.mask = 0
	for _, s := range b.shapes {
		md := s.Mass()
		b.mass += md.Mass
		b.inertia += md.Inertia + md.Mass*md.Centroid.LengthSq()
		b.layer |= s.Layer
		b.mask |= s.Mask
	}
	if b.typ != Dynamic {
		b.invMass = 0
		b.invInertia = 0
		return
	}
	if b.mass > 0 {
		b.invMass = 1 / b.mass
	} else {
		b.invMass = 0
	}
	if b.inertia > 0 {
		b.invInertia = 1 / b.inertia
	} else {
		b.invInertia = 0
	}
}

// effectiveInvMass substitutes a fallback for zero-mass dynamic bodies so
// impulse math stays finite.
func (b *Body) effectiveInvMass() float64 {
	if b.typ != Dynamic {
		return 0
	}
	if b.invMass > 0 {
		return b.invMass
	}
	fallback := 100.0
	if b.world != nil {
		fallback = b.world.tuning.FallbackMass
	}
	return 1 / fallback
}

// AABB is the union of the body's shape boxes at its current transform.
func (b *Body) AABB() common.AABB {
	pos, rot := b.position()
	if len(b.shapes) == 0 {
		return common.AABB{Min: pos, Max: pos}
	}
	box := b.shapes[0].AABB(pos, rot)
	for _, s := range b.shapes[1:] {
		box = box.Union(s.AABB(pos, rot))
	}
	return box
}

// position reads the body's transform, honoring deferred writes while a tick
// is mid-flight.
func (b *Body) position() (common.Vec2, float64) {
	if b.world == nil {
		return common.Vec2{}, 0
	}
	return b.world.readTransform(b)
}
