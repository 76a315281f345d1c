package physics

import (
	"log"
	"math/rand"

	"github.com/metalgearsloth/tickphys/common"
)

// TransformSource is the narrow interface to the external transform owner.
// The core reads and writes positions only through it.
type TransformSource interface {
	BodyPosition(b *Body) (common.Vec2, float64)
	SetBodyPosition(b *Body, pos common.Vec2, rot float64)
}

// Container is a logical holder a body can be nested inside (a locker, a
// crate). Contained bodies relay movement attempts instead of moving.
type Container interface {
	AttemptedMove(b *Body, vel common.Vec2)
}

// ContainerSource answers whether a body is currently contained.
type ContainerSource interface {
	ContainerOf(b *Body) (Container, bool)
}

// TileSource supplies the friction coefficient and gravity flag of the tile
// under a position. ok is false when the body is not over a tile.
type TileSource interface {
	TileUnder(place Placement, pos common.Vec2) (friction float64, gravityEnabled bool, ok bool)
}

// Options configures a World. Transforms defaults to an internal store when
// nil; Containers and Tiles are optional collaborators.
type Options struct {
	Transforms TransformSource
	Containers ContainerSource
	Tiles      TileSource
	Tuning     Tuning
	// Seed pins the solver's shuffle order for reproducible runs.
	Seed int64
}

type pendingXform struct {
	pos common.Vec2
	rot float64
}

// World is the simulation context: it owns the spatial index, the awake set,
// and the controller registry exclusively, and mutates them only at defined
// checkpoints. It is constructed explicitly and passed around; there are no
// package-level singletons.
type World struct {
	tuning     Tuning
	transforms TransformSource
	containers ContainerSource
	tiles      TileSource
	rng        *rand.Rand
	index      *SpatialIndex
	distCache  *distanceCache
	events     Events

	bodies      map[*Body]struct{}
	awake       []*Body
	awakeIdx    map[*Body]int
	controllers map[*Body][]Controller

	pendingAdd    []*Body
	pendingRemove []*Body
	pendingWake   map[*Body]struct{}
	pendingMove   map[*Body]struct{}
	pendingXforms map[*Body]pendingXform

	tick       uint64
	nextID     uint64
	simulating bool
	predicting bool
	// predWoken holds bodies pulled into a predictive pass; they leave the
	// awake set again when the pass ends.
	predWoken []*Body
}

func NewWorld(opts Options) *World {
	if opts.Tuning == (Tuning{}) {
		opts.Tuning = DefaultTuning()
	}
	if opts.Transforms == nil {
		opts.Transforms = NewBasicTransforms()
	}
	return &World{
		tuning:        opts.Tuning,
		transforms:    opts.Transforms,
		containers:    opts.Containers,
		tiles:         opts.Tiles,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		index:         NewSpatialIndex(opts.Tuning.BroadphaseEpsilon),
		distCache:     newDistanceCache(),
		bodies:        make(map[*Body]struct{}),
		awakeIdx:      make(map[*Body]int),
		controllers:   make(map[*Body][]Controller),
		pendingWake:   make(map[*Body]struct{}),
		pendingMove:   make(map[*Body]struct{}),
		pendingXforms: make(map[*Body]pendingXform),
	}
}

func (w *World) Events() *Events {
	return &w.events
}

func (w *World) Tuning() Tuning {
	return w.tuning
}

// SetTuning swaps solver constants live; the next tick uses them.
func (w *World) SetTuning(t Tuning) {
	w.tuning = t
	w.index.eps = t.BroadphaseEpsilon
}

func (w *World) Index() *SpatialIndex {
	return w.index
}

// SetGridBounds bounds a grid so escaping bodies drop out of the index.
func (w *World) SetGridBounds(place Placement, bounds common.AABB) {
	w.index.SetGridBounds(place, bounds)
}

// AddBody registers a body with the simulation. Mid-tick requests are queued
// and applied at the next checkpoint. Double registration logs and no-ops.
func (w *World) AddBody(b *Body) {
	if b == nil {
		return
	}
	if _, ok := w.bodies[b]; ok || b.world == w {
		log.Printf("physics: body %d already registered", b.id)
		return
	}
	w.nextID++
	b.id = w.nextID
	b.world = w
	if w.simulating {
		w.pendingAdd = append(w.pendingAdd, b)
		return
	}
	w.applyAdd(b)
}

// RemoveBody unregisters a body. Removing an unknown body logs and no-ops.
func (w *World) RemoveBody(b *Body) {
	if b == nil {
		return
	}
	if _, ok := w.bodies[b]; !ok {
		log.Printf("physics: remove unknown body %d", b.ID())
		return
	}
	if w.simulating {
		w.pendingRemove = append(w.pendingRemove, b)
		return
	}
	w.applyRemove(b)
}

// NotifyMoved tells the index a body's transform or geometry changed outside
// the tick pipeline. Mid-tick notifications are deferred.
func (w *World) NotifyMoved(b *Body) {
	if b == nil {
		return
	}
	if _, ok := w.bodies[b]; !ok {
		return
	}
	if w.simulating {
		w.pendingMove[b] = struct{}{}
		return
	}
	w.index.Update(b)
}

// Bodies reports the registered body count.
func (w *World) Bodies() int {
	return len(w.bodies)
}

// AwakeCount reports the number of bodies in the simulated set.
func (w *World) AwakeCount() int {
	return len(w.awake)
}

// RayCast intersects a ray against a placement's bodies, nearest first, and
// mirrors the cast to debug subscribers.
func (w *World) RayCast(place Placement, ray common.Ray) []RayHit {
	hits := w.index.QueryRay(place, ray)
	evt := RayDebugEvent{Place: place, Origin: ray.Origin}
	if len(hits) > 0 {
		evt.Hit = true
		evt.Point = hits[0].Point
		evt.Distance = hits[0].Distance
	}
	w.events.emitRayDebug(evt)
	return hits
}

// Simulate advances the world one fixed tick. When predicting, the pass runs
// a single substep and leaves sleep state untouched.
func (w *World) Simulate(dt float64, predicting bool) {
	if dt <= 0 {
		return
	}
	w.tick++
	w.predicting = predicting
	w.applyQueues() // checkpoint: tick start
	w.simulating = true

	w.integrateForces(dt)
	manifolds := w.collectManifolds()
	w.solve(manifolds)
	w.notifyCollisions(manifolds)
	w.applyQueues() // checkpoint: after collision processing
	w.frictionPass(dt)
	w.controllersAfter(dt)
	w.applyQueues() // checkpoint: after controller post-solve
	w.integratePositions(dt, predicting, manifolds)

	w.simulating = false
	w.flushTransforms()
	if predicting {
		// Wakes queued after the last checkpoint belong to this pass; they
		// must not leak into the next real tick.
		for b := range w.pendingWake {
			delete(w.pendingWake, b)
		}
		for _, b := range w.predWoken {
			w.removeAwake(b)
		}
		w.predWoken = w.predWoken[:0]
	} else {
		w.updateSleep()
	}
	w.predicting = false
	w.distCache.prune(w.tick)
}

// applyQueues flushes deferred add/remove/move/wake requests. Only called at
// checkpoints so iteration over the awake set is never invalidated.
func (w *World) applyQueues() {
	for _, b := range w.pendingRemove {
		w.applyRemove(b)
	}
	w.pendingRemove = w.pendingRemove[:0]
	for _, b := range w.pendingAdd {
		w.applyAdd(b)
	}
	w.pendingAdd = w.pendingAdd[:0]
	for b := range w.pendingMove {
		if _, ok := w.bodies[b]; ok {
			w.index.Update(b)
		}
		delete(w.pendingMove, b)
	}
	for b := range w.pendingWake {
		w.wakeNow(b)
		delete(w.pendingWake, b)
	}
}

func (w *World) applyAdd(b *Body) {
	if _, ok := w.bodies[b]; ok {
		return
	}
	w.bodies[b] = struct{}{}
	w.index.Insert(b)
	if b.typ != Static {
		w.addAwake(b)
	}
}

func (w *World) applyRemove(b *Body) {
	if _, ok := w.bodies[b]; !ok {
		return
	}
	delete(w.bodies, b)
	w.index.Remove(b)
	w.removeAwake(b)
	delete(w.controllers, b)
	delete(w.pendingXforms, b)
	delete(w.pendingWake, b)
	delete(w.pendingMove, b)
	b.world = nil
}

func (w *World) addAwake(b *Body) {
	if _, ok := w.awakeIdx[b]; ok {
		return
	}
	w.awakeIdx[b] = len(w.awake)
	w.awake = append(w.awake, b)
}

func (w *World) removeAwake(b *Body) {
	idx, ok := w.awakeIdx[b]
	if !ok {
		return
	}
	last := len(w.awake) - 1
	if idx != last {
		w.awake[idx] = w.awake[last]
		w.awakeIdx[w.awake[idx]] = idx
	}
	w.awake = w.awake[:last]
	delete(w.awakeIdx, b)
}

// requestWake queues a wake for the next checkpoint, or applies it
// immediately outside a tick.
func (w *World) requestWake(b *Body) {
	if _, ok := w.bodies[b]; !ok {
		return
	}
	if w.simulating {
		w.pendingWake[b] = struct{}{}
		return
	}
	w.wakeNow(b)
}

func (w *World) wakeNow(b *Body) {
	if _, ok := w.bodies[b]; !ok {
		return
	}
	if w.predicting {
		// A predictive pass simulates the body for this tick only and
		// leaves asleep and the inactivity counter untouched.
		if b.typ == Static {
			return
		}
		if _, ok := w.awakeIdx[b]; !ok {
			w.addAwake(b)
			w.predWoken = append(w.predWoken, b)
		}
		return
	}
	b.sleepAccum = 0
	if b.typ == Static {
		return
	}
	if b.asleep {
		b.asleep = false
		w.events.emitSleep(SleepEvent{Body: b, Asleep: false})
	}
	w.addAwake(b)
}

// updateSleep advances the inactivity counter of every awake body and retires
// those past the threshold from the simulated set.
func (w *World) updateSleep() {
	epsSq := w.tuning.SleepVelocity * w.tuning.SleepVelocity
	for i := len(w.awake) - 1; i >= 0; i-- {
		b := w.awake[i]
		quiet := b.vel.LengthSq() < epsSq &&
			common.Abs(b.angVel) < w.tuning.SleepVelocity &&
			b.force.X == 0 && b.force.Y == 0 && b.torque == 0
		if !quiet {
			b.sleepAccum = 0
			continue
		}
		b.sleepAccum++
		if b.sleepAccum < w.tuning.SleepTicks {
			continue
		}
		b.asleep = true
		b.vel = common.Vec2{}
		b.angVel = 0
		w.removeAwake(b)
		w.events.emitSleep(SleepEvent{Body: b, Asleep: true})
	}
}

// readTransform returns the body's position, honoring writes deferred during
// the current tick.
func (w *World) readTransform(b *Body) (common.Vec2, float64) {
	if p, ok := w.pendingXforms[b]; ok {
		return p.pos, p.rot
	}
	return w.transforms.BodyPosition(b)
}

// deferTransform records a position write for the end-of-tick flush.
func (w *World) deferTransform(b *Body, pos common.Vec2, rot float64) {
	w.pendingXforms[b] = pendingXform{pos: pos, rot: rot}
}

// flushTransforms commits deferred writes through the transform source once
// per tick and reindexes the moved bodies.
func (w *World) flushTransforms() {
	for b, p := range w.pendingXforms {
		delete(w.pendingXforms, b)
		if b.world != w {
			// Removed after the write was deferred; never committed.
			continue
		}
		w.transforms.SetBodyPosition(b, p.pos, p.rot)
		if !w.index.Update(b) {
			log.Printf("physics: body %d left grid bounds, dropped from index", b.id)
		}
	}
}

// BasicTransforms is a map-backed TransformSource for standalone use and
// tests, where no surrounding entity framework owns positions.
type BasicTransforms struct {
	positions map[*Body]pendingXform
}

func NewBasicTransforms() *BasicTransforms {
	return &BasicTransforms{positions: make(map[*Body]pendingXform)}
}

func (t *BasicTransforms) BodyPosition(b *Body) (common.Vec2, float64) {
	p := t.positions[b]
	return p.pos, p.rot
}

func (t *BasicTransforms) SetBodyPosition(b *Body, pos common.Vec2, rot float64) {
	t.positions[b] = pendingXform{pos: pos, rot: rot}
}
