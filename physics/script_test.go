package physics

import (
	"math"
	"testing"

	"github.com/metalgearsloth/tickphys/common"
)

const thrustScript = `
before := func(body, dt) {
	body.fx = 10.0 * body.mass
}

after := func(body, dt) {
}
`

const brakeScript = `
before := func(body, dt) {
}

after := func(body, dt) {
	body.vx = 0.0
	body.vy = 0.0
}
`

func TestScriptControllerCompileError(t *testing.T) {
	if _, err := NewScriptController([]byte("before := func(")); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestScriptControllerAppliesForce(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	b := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)

	sc, err := NewScriptController([]byte(thrustScript))
	if err != nil {
		t.Fatal(err)
	}
	w.AttachController(b, sc)

	w.Simulate(testDt, false)

	// a = F/m = 10, so one tick adds a*dt of velocity.
	want := 10 * testDt
	if math.Abs(b.Velocity().X-want) > 1e-9 {
		t.Fatalf("velocity = %v, want x=%v", b.Velocity(), want)
	}
}

func TestScriptControllerPostSolveOverridesVelocity(t *testing.T) {
	w, bt := newTestWorld(t, Options{})
	b := addBox(t, w, bt, Dynamic, 0, 0, 1, 1, 1, 1)
	b.SetVelocity(common.Vec2{X: 5, Y: -2})

	sc, err := NewScriptController([]byte(brakeScript))
	if err != nil {
		t.Fatal(err)
	}
	w.AttachController(b, sc)

	w.Simulate(testDt, false)

	if b.Velocity() != (common.Vec2{}) {
		t.Fatalf("post-solve script should have zeroed velocity, got %v", b.Velocity())
	}
	pos, _ := bt.BodyPosition(b)
	if pos.X != 0 || pos.Y != 0 {
		t.Fatalf("body should not have moved after braking, got %v", pos)
	}
}
