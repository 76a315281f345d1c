package physics

import "github.com/metalgearsloth/tickphys/common"

// integrateForces runs controller before-hooks, then folds accumulated force
// and torque into velocity. Accumulators are cleared immediately after:
// continuous effects must re-apply every tick.
func (w *World) integrateForces(dt float64) {
	for _, b := range w.awake {
		for _, c := range w.controllers[b] {
			c.BeforeSolve(b, dt)
		}
		if b.typ != Dynamic {
			continue
		}
		b.vel = b.vel.Add(b.force.Mult(b.invMass * dt))
		b.angVel += b.torque * b.invInertia * dt
		b.force = common.Vec2{}
		b.torque = 0
	}
}

// controllersAfter lets controllers react to the solved velocity.
func (w *World) controllersAfter(dt float64) {
	for _, b := range w.awake {
		for _, c := range w.controllers[b] {
			c.AfterSolve(b, dt)
		}
	}
}
