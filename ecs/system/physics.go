package system

import (
	"log"

	"github.com/metalgearsloth/tickphys/common"
	"github.com/metalgearsloth/tickphys/ecs"
	"github.com/metalgearsloth/tickphys/ecs/component"
	"github.com/metalgearsloth/tickphys/physics"
)

// PhysicsSystem bridges the ECS and the solver. It instantiates live bodies
// from Collider components, feeds the solver entity transforms, and writes
// resolved positions back into Transform components.
type PhysicsSystem struct {
	phys  *physics.World
	world *ecs.World

	bodies map[ecs.Entity]*physics.Body
	owners map[*physics.Body]ecs.Entity
	bounds map[ecs.Entity]struct{}

	dt         float64
	predicting bool
}

func NewPhysicsSystem(tuning physics.Tuning, seed int64) *PhysicsSystem {
	ps := &PhysicsSystem{
		bodies: make(map[ecs.Entity]*physics.Body),
		owners: make(map[*physics.Body]ecs.Entity),
		bounds: make(map[ecs.Entity]struct{}),
		dt:     1.0 / 60.0,
	}
	ps.phys = physics.NewWorld(physics.Options{
		Transforms: ps,
		Containers: ps,
		Tiles:      ps,
		Tuning:     tuning,
		Seed:       seed,
	})
	ps.phys.Events().OnCollision(func(evt physics.CollisionEvent) {
		if ps.world != nil {
			ps.world.Events().Push(ecs.Event{Type: ecs.EventCollision, Data: evt})
		}
	})
	ps.phys.Events().OnSleep(func(evt physics.SleepEvent) {
		if ps.world != nil {
			ps.world.Events().Push(ecs.Event{Type: ecs.EventSleep, Data: evt})
		}
	})
	return ps
}

func (ps *PhysicsSystem) Physics() *physics.World {
	if ps == nil {
		return nil
	}
	return ps.phys
}

// SetTimestep changes the fixed step used on each Update.
func (ps *PhysicsSystem) SetTimestep(dt float64) {
	if ps == nil || dt <= 0 {
		return
	}
	ps.dt = dt
}

// SetPredicting switches the solver into the reduced client-side mode where
// sleep state is left untouched and substepping is disabled.
func (ps *PhysicsSystem) SetPredicting(predicting bool) {
	if ps == nil {
		return
	}
	ps.predicting = predicting
}

// BodyOf returns the live body for an entity, if one has been instantiated.
func (ps *PhysicsSystem) BodyOf(e ecs.Entity) (*physics.Body, bool) {
	if ps == nil {
		return nil, false
	}
	b, ok := ps.bodies[e]
	return b, ok
}

// EntityOf returns the entity owning a live body.
func (ps *PhysicsSystem) EntityOf(b *physics.Body) (ecs.Entity, bool) {
	if ps == nil {
		return 0, false
	}
	e, ok := ps.owners[b]
	return e, ok
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}
	ps.world = w

	ps.applyGridBounds(w)
	ps.ensureBodies(w)
	ps.cleanupBodies(w)

	ps.phys.Simulate(ps.dt, ps.predicting)
}

func (ps *PhysicsSystem) applyGridBounds(w *ecs.World) {
	for _, e := range w.Query(component.GridBoundsComponent.ID()) {
		if _, done := ps.bounds[e]; done {
			continue
		}
		gb, ok := ecs.Get(w, e, component.GridBoundsComponent)
		if !ok {
			continue
		}
		place := physics.Placement{
			Map:     physics.MapID(gb.Map),
			Grid:    physics.GridID(gb.Grid),
			HasGrid: gb.HasGrid,
		}
		ps.phys.SetGridBounds(place, common.AABB{
			Min: common.Vec2{X: gb.MinX, Y: gb.MinY},
			Max: common.Vec2{X: gb.MaxX, Y: gb.MaxY},
		})
		ps.bounds[e] = struct{}{}
	}
}

func (ps *PhysicsSystem) ensureBodies(w *ecs.World) {
	for _, e := range w.Query(component.ColliderComponent.ID(), component.TransformComponent.ID()) {
		if _, exists := ps.bodies[e]; exists {
			continue
		}
		col, ok := ecs.Get(w, e, component.ColliderComponent)
		if !ok {
			continue
		}
		b := ps.buildBody(e, col)
		if b == nil {
			continue
		}
		ps.bodies[e] = b
		ps.owners[b] = e
		if err := ecs.Add(w, e, component.PhysicsBodyComponent, &component.PhysicsBody{Body: b}); err != nil {
			log.Printf("PhysicsSystem: attach body to entity %s: %v", e, err)
		}
		ps.phys.AddBody(b)

		if script, ok := ecs.Get(w, e, component.ScriptComponent); ok {
			ctrl, err := physics.NewScriptController(script.Source)
			if err != nil {
				log.Printf("PhysicsSystem: entity %s script %s: %v", e, script.Name, err)
				continue
			}
			ps.phys.AttachController(b, ctrl)
		}
	}
}

func (ps *PhysicsSystem) buildBody(e ecs.Entity, col *component.Collider) *physics.Body {
	b := physics.NewBody(parseBodyType(col.BodyType))
	b.SetHard(col.Hard)
	if col.Friction > 0 {
		b.SetFriction(col.Friction)
	}
	b.SetPlacement(physics.Placement{
		Map:     physics.MapID(col.Map),
		Grid:    physics.GridID(col.Grid),
		HasGrid: col.HasGrid,
	})
	for _, spec := range col.Shapes {
		s, err := buildShape(spec)
		if err != nil {
			log.Printf("PhysicsSystem: entity %s shape rejected: %v", e, err)
			continue
		}
		b.AddShape(s)
	}
	if len(b.Shapes()) == 0 {
		log.Printf("PhysicsSystem: entity %s collider has no valid shapes, skipping", e)
		return nil
	}
	return b
}

func buildShape(spec component.ShapeSpec) (*physics.Shape, error) {
	density := spec.Density
	if density <= 0 {
		density = 1
	}
	offset := common.Vec2{X: spec.OffsetX, Y: spec.OffsetY}
	var (
		s   *physics.Shape
		err error
	)
	if spec.Circle {
		s, err = physics.NewCircle(offset, spec.Radius, density)
	} else {
		s, err = physics.NewBox(offset, spec.Width, spec.Height, density)
	}
	if err != nil {
		return nil, err
	}
	if spec.Layer != 0 || spec.Mask != 0 {
		s.Layer = spec.Layer
		s.Mask = spec.Mask
	}
	return s, nil
}

func parseBodyType(s string) physics.BodyType {
	switch s {
	case "static":
		return physics.Static
	case "kinematic":
		return physics.Kinematic
	case "dynamic", "":
		return physics.Dynamic
	default:
		log.Printf("PhysicsSystem: unknown body type %q, defaulting to dynamic", s)
		return physics.Dynamic
	}
}

func (ps *PhysicsSystem) cleanupBodies(w *ecs.World) {
	for e, b := range ps.bodies {
		if w.IsAlive(e) {
			continue
		}
		ps.phys.RemoveBody(b)
		delete(ps.bodies, e)
		delete(ps.owners, b)
		delete(ps.bounds, e)
	}
}

// BodyPosition reads the entity transform backing a body.
func (ps *PhysicsSystem) BodyPosition(b *physics.Body) (common.Vec2, float64) {
	e, ok := ps.owners[b]
	if !ok {
		return common.Vec2{}, 0
	}
	t, ok := ecs.Get(ps.world, e, component.TransformComponent)
	if !ok {
		return common.Vec2{}, 0
	}
	return common.Vec2{X: t.X, Y: t.Y}, t.Rotation
}

// SetBodyPosition writes a resolved position back into the entity transform.
func (ps *PhysicsSystem) SetBodyPosition(b *physics.Body, pos common.Vec2, rot float64) {
	e, ok := ps.owners[b]
	if !ok {
		return
	}
	t, ok := ecs.Get(ps.world, e, component.TransformComponent)
	if !ok {
		return
	}
	t.X = pos.X
	t.Y = pos.Y
	t.Rotation = rot
}

// containerRelay forwards movement attempted by a contained body onto the
// body holding it.
type containerRelay struct {
	parent *physics.Body
}

func (r containerRelay) AttemptedMove(b *physics.Body, vel common.Vec2) {
	mass := b.Mass()
	if mass <= 0 {
		mass = 1
	}
	r.parent.ApplyImpulse(vel.Mult(mass))
}

// ContainerOf reports the parent body of a contained entity.
func (ps *PhysicsSystem) ContainerOf(b *physics.Body) (physics.Container, bool) {
	e, ok := ps.owners[b]
	if !ok {
		return nil, false
	}
	cb, ok := ecs.Get(ps.world, e, component.ContainedByComponent)
	if !ok {
		return nil, false
	}
	parent, ok := ps.bodies[ecs.Entity(cb.Parent)]
	if !ok {
		return nil, false
	}
	return containerRelay{parent: parent}, true
}

// TileUnder samples the tile grids for the surface beneath a position.
func (ps *PhysicsSystem) TileUnder(place physics.Placement, pos common.Vec2) (float64, bool, bool) {
	if ps.world == nil {
		return 0, false, false
	}
	for _, e := range ps.world.Query(component.TileGridComponent.ID()) {
		g, ok := ecs.Get(ps.world, e, component.TileGridComponent)
		if !ok {
			continue
		}
		if physics.MapID(g.Map) != place.Map || g.HasGrid != place.HasGrid {
			continue
		}
		if g.HasGrid && physics.GridID(g.Grid) != place.Grid {
			continue
		}
		if f, hit := g.FrictionAt(pos.X, pos.Y); hit {
			return f, g.Gravity, true
		}
	}
	return 0, false, false
}
