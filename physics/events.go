package physics

import "github.com/metalgearsloth/tickphys/common"

// CollisionEvent is emitted for every manifold processed in a tick.
type CollisionEvent struct {
	A, B        *Body
	Normal      common.Vec2
	Penetration float64
	Hard        bool
}

// SleepEvent is emitted when a body crosses the sleep boundary.
type SleepEvent struct {
	Body   *Body
	Asleep bool
}

// RayDebugEvent mirrors every ray cast for visualization tooling.
type RayDebugEvent struct {
	Place    Placement
	Origin   common.Vec2
	Hit      bool
	Point    common.Vec2
	Distance float64
}

// Events is a small subscriber registry for the core's outbound
// notifications. Handlers run synchronously on the simulation goroutine.
type Events struct {
	collision []func(CollisionEvent)
	sleep     []func(SleepEvent)
	rayDebug  []func(RayDebugEvent)
}

func (e *Events) OnCollision(fn func(CollisionEvent)) {
	if fn != nil {
		e.collision = append(e.collision, fn)
	}
}

func (e *Events) OnSleep(fn func(SleepEvent)) {
	if fn != nil {
		e.sleep = append(e.sleep, fn)
	}
}

func (e *Events) OnRayDebug(fn func(RayDebugEvent)) {
	if fn != nil {
		e.rayDebug = append(e.rayDebug, fn)
	}
}

func (e *Events) emitCollision(evt CollisionEvent) {
	for _, fn := range e.collision {
		fn(evt)
	}
}

func (e *Events) emitSleep(evt SleepEvent) {
	for _, fn := range e.sleep {
		fn(evt)
	}
}

func (e *Events) emitRayDebug(evt RayDebugEvent) {
	for _, fn := range e.rayDebug {
		fn(evt)
	}
}
