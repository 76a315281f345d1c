package physics

import (
	"testing"

	"github.com/metalgearsloth/tickphys/common"
)

const testDt = 1.0 / 60

func TestSleepAfterQuietTicks(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	b := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)

	var slept []SleepEvent
	w.Events().OnSleep(func(evt SleepEvent) { slept = append(slept, evt) })

	ticks := w.Tuning().SleepTicks
	for i := 0; i < ticks-1; i++ {
		w.Simulate(testDt, false)
	}
	if b.Asleep() {
		t.Fatalf("fell asleep a tick early")
	}
	w.Simulate(testDt, false)
	if !b.Asleep() {
		t.Fatalf("expected sleep after %d quiet ticks", ticks)
	}
	if w.AwakeCount() != 0 {
		t.Fatalf("sleeping body still in awake set")
	}
	if len(slept) != 1 || !slept[0].Asleep || slept[0].Body != b {
		t.Fatalf("expected one sleep event for the body, got %+v", slept)
	}
}

func TestImpulseWakesSleepingBody(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	b := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)
	for i := 0; i < w.Tuning().SleepTicks+1; i++ {
		w.Simulate(testDt, false)
	}
	if !b.Asleep() {
		t.Fatalf("precondition: body should be asleep")
	}

	var woke []SleepEvent
	w.Events().OnSleep(func(evt SleepEvent) { woke = append(woke, evt) })

	b.ApplyImpulse(common.Vec2{X: 1})
	if b.Asleep() {
		t.Fatalf("impulse should wake the body")
	}
	if w.AwakeCount() != 1 {
		t.Fatalf("woken body missing from awake set")
	}
	if len(woke) != 1 || woke[0].Asleep {
		t.Fatalf("expected a wake event, got %+v", woke)
	}
}

func TestMovingBodyNeverSleeps(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	b := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)
	b.SetVelocity(common.Vec2{X: 1})

	for i := 0; i < w.Tuning().SleepTicks*2; i++ {
		w.Simulate(testDt, false)
	}
	if b.Asleep() {
		t.Fatalf("moving body must not sleep")
	}
}

func TestPredictionLeavesSleepAlone(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	b := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)

	for i := 0; i < w.Tuning().SleepTicks*2; i++ {
		w.Simulate(testDt, true)
	}
	if b.Asleep() {
		t.Fatalf("predictive ticks must not advance sleep state")
	}
}

// A predictive pass may pull a sleeping body into the solve, but only
// transiently: asleep, the inactivity counter and the event stream stay
// untouched, and the body leaves the awake set again when the pass ends.
func TestPredictionDoesNotWakeSleepers(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	sleeper := addBox(t, w, bt, Dynamic, 0, 0, 2, 2, 1, 1)
	for i := 0; i < w.Tuning().SleepTicks+1; i++ {
		w.Simulate(testDt, false)
	}
	if !sleeper.Asleep() {
		t.Fatalf("precondition: body should be asleep")
	}

	var events []SleepEvent
	w.Events().OnSleep(func(evt SleepEvent) { events = append(events, evt) })

	addBox(t, w, bt, Dynamic, 1.5, 0, 2, 2, 1, 1)
	w.Simulate(testDt, true)

	if !sleeper.Asleep() {
		t.Fatalf("predictive pass cleared persistent sleep state")
	}
	if len(events) != 0 {
		t.Fatalf("predictive pass emitted sleep events: %+v", events)
	}
	if w.AwakeCount() != 1 {
		t.Fatalf("expected only the mover awake after the pass, got %d", w.AwakeCount())
	}

	// The same contact on a real tick wakes the sleeper for good.
	w.Simulate(testDt, false)
	if sleeper.Asleep() {
		t.Fatalf("real tick should wake the sleeper")
	}
}

func TestSubstepCount(t *testing.T) {
	w, _ := newTestWorld(t, Options{})
	cases := []struct {
		name       string
		dt         float64
		predicting bool
		want       int
	}{
		{"reference_rate", 1.0 / 60, false, 4},
		{"half_rate", 1.0 / 30, false, 8},
		{"huge_step_clamped", 1.0, false, 20},
		{"tiny_step_floored", 1.0 / 1000, false, 1},
		{"prediction_single", 1.0 / 30, true, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := w.substepCount(c.dt, c.predicting); got != c.want {
				t.Fatalf("substepCount(%v, %v) = %d, want %d", c.dt, c.predicting, got, c.want)
			}
		})
	}
}

// countingTransforms wraps BasicTransforms and tallies writes per body.
type countingTransforms struct {
	*BasicTransforms
	writes map[*Body]int
}

func (c *countingTransforms) SetBodyPosition(b *Body, pos common.Vec2, rot float64) {
	c.writes[b]++
	c.BasicTransforms.SetBodyPosition(b, pos, rot)
}

func TestTransformWritesFlushOncePerTick(t *testing.T) {
	ct := &countingTransforms{
		BasicTransforms: NewBasicTransforms(),
		writes:          make(map[*Body]int),
	}
	w := NewWorld(Options{Transforms: ct})

	s, err := NewBox(common.Vec2{}, 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	s.Layer, s.Mask = 1, 1
	b := NewBody(Dynamic)
	b.AddShape(s)
	ct.BasicTransforms.SetBodyPosition(b, common.Vec2{}, 0)
	w.AddBody(b)
	b.SetVelocity(common.Vec2{X: 3})

	w.Simulate(testDt, false)

	// Multiple substeps still reduce to exactly one outward write.
	if got := ct.writes[b]; got != 1 {
		t.Fatalf("expected 1 transform write, got %d", got)
	}
	pos, _ := ct.BodyPosition(b)
	want := 3 * testDt
	if diff := pos.X - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("position = %v, want x=%v", pos, want)
	}
}

func TestPenetrationCorrectionConverges(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	addBox(t, w, bt, Static, 0, 0, 2, 2, 1, 1)
	dyn := addBox(t, w, bt, Dynamic, 1.2, 0, 2, 2, 1, 1)

	measure := func() float64 {
		boxA := common.NewAABB(-1, -1, 1, 1)
		return boxA.Intersection(dyn.AABB()).Width()
	}

	prev := measure()
	for i := 0; i < 120; i++ {
		w.Simulate(testDt, false)
		cur := measure()
		if cur > prev+1e-9 {
			t.Fatalf("penetration grew from %v to %v on tick %d", prev, cur, i)
		}
		prev = cur
	}
	if prev > w.Tuning().PenetrationAllowance+1e-9 {
		t.Fatalf("penetration %v still above allowance %v", prev, w.Tuning().PenetrationAllowance)
	}
}

func TestSoftManifoldSkipsCorrection(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	a := addBox(t, w, bt, Static, 0, 0, 2, 2, 1, 1)
	ghost := addBox(t, w, bt, Dynamic, 1.2, 0, 2, 2, 1, 1)
	ghost.SetHard(false)
	_ = a

	w.Simulate(testDt, false)

	pos, _ := bt.BodyPosition(ghost)
	if pos.X != 1.2 {
		t.Fatalf("soft overlap must not be corrected, body moved to %v", pos)
	}
}

// spawnOnCollide registers new bodies from inside a collision callback.
type spawnOnCollide struct {
	w       *World
	bt      *BasicTransforms
	spawned []*Body
}

func (s *spawnOnCollide) OnCollide(self, other *Body, m *Manifold) {
	shape, err := NewBox(common.Vec2{}, 1, 1, 1)
	if err != nil {
		return
	}
	shape.Layer, shape.Mask = 1, 1
	b := NewBody(Dynamic)
	b.AddShape(shape)
	s.bt.SetBodyPosition(b, common.Vec2{X: 50, Y: 50}, 0)
	s.w.AddBody(b)
	s.spawned = append(s.spawned, b)
}

func (s *spawnOnCollide) PostCollide(count int) {}

func TestMidTickMutationsDeferred(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	a := addBox(t, w, bt, Dynamic, 0, 0, 2, 2, 1, 1)
	addBox(t, w, bt, Dynamic, 1.5, 0, 2, 2, 1, 1)

	spawner := &spawnOnCollide{w: w, bt: bt}
	a.AddBehavior(spawner)

	before := w.Bodies()
	w.Simulate(testDt, false)

	if len(spawner.spawned) == 0 {
		t.Fatalf("callback did not run")
	}
	if got := w.Bodies(); got != before+len(spawner.spawned) {
		t.Fatalf("expected %d bodies after deferred add, got %d", before+len(spawner.spawned), got)
	}
	// The spawned body is live and indexed on the following tick.
	if len(w.Index().CellsOf(spawner.spawned[0])) == 0 {
		t.Fatalf("spawned body not indexed")
	}
}

func TestRemoveBodyDuringTick(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	a := addBox(t, w, bt, Dynamic, 0, 0, 2, 2, 1, 1)
	victim := addBox(t, w, bt, Dynamic, 1.5, 0, 2, 2, 1, 1)

	remover := &removeOnCollide{w: w, victim: victim}
	a.AddBehavior(remover)

	w.Simulate(testDt, false)

	if w.Bodies() != 1 {
		t.Fatalf("expected victim removed, have %d bodies", w.Bodies())
	}
	if len(w.Index().CellsOf(victim)) != 0 {
		t.Fatalf("removed body still indexed")
	}
}

// A body removed at the mid-tick checkpoint still sits in the tick's manifold
// list. Position correction must skip that manifold instead of measuring the
// removed body at the origin, and the removed body's transform must not
// receive any further writes.
func TestRemoveBodyDuringTickSkipsStaleManifold(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	a := addBox(t, w, bt, Dynamic, 0, 0, 2, 2, 1, 1)
	victim := addBox(t, w, bt, Dynamic, 1.5, 0, 2, 2, 1, 1)

	remover := &removeOnCollide{w: w, victim: victim}
	a.AddBehavior(remover)

	w.Simulate(testDt, false)

	if pos, _ := bt.BodyPosition(a); pos.X != 0 || pos.Y != 0 {
		t.Fatalf("survivor displaced by stale manifold: %+v", pos)
	}
	if pos, _ := bt.BodyPosition(victim); pos.X != 1.5 || pos.Y != 0 {
		t.Fatalf("removed body's transform was written: %+v", pos)
	}
}

type removeOnCollide struct {
	w      *World
	victim *Body
}

func (r *removeOnCollide) OnCollide(self, other *Body, m *Manifold) {
	r.w.RemoveBody(r.victim)
}

func (r *removeOnCollide) PostCollide(count int) {}

func TestAddBodyTwiceLogsAndNoOps(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	b := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)

	w.AddBody(b)
	if w.Bodies() != 1 {
		t.Fatalf("double add must not duplicate, have %d", w.Bodies())
	}

	w.RemoveBody(b)
	w.RemoveBody(b)
	if w.Bodies() != 0 {
		t.Fatalf("expected empty world, have %d", w.Bodies())
	}
}

type velocityController struct {
	before common.Vec2
	after  int
}

func (vc *velocityController) BeforeSolve(b *Body, dt float64) {
	b.SetVelocity(vc.before)
}

func (vc *velocityController) AfterSolve(b *Body, dt float64) {
	vc.after++
}

func TestControllerHooksRun(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	b := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)

	vc := &velocityController{before: common.Vec2{X: 2}}
	w.AttachController(b, vc)

	w.Simulate(testDt, false)

	if vc.after != 1 {
		t.Fatalf("expected one post-solve call, got %d", vc.after)
	}
	pos, _ := bt.BodyPosition(b)
	if pos.X <= 0 {
		t.Fatalf("controller velocity did not move the body: %v", pos)
	}

	w.DetachController(b, vc)
	prev := vc.after
	w.Simulate(testDt, false)
	if vc.after != prev {
		t.Fatalf("detached controller still running")
	}
}
