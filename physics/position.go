package physics

import (
	"math"

	"github.com/metalgearsloth/tickphys/common"
)

// substepCount scales the target iteration count by the tick rate relative to
// 60 Hz. Predictive re-simulation is always a single substep.
func (w *World) substepCount(dt float64, predicting bool) int {
	if predicting {
		return 1
	}
	n := int(math.Round(float64(w.tuning.TargetSubsteps) * dt * 60))
	if n < 1 {
		n = 1
	}
	if n > w.tuning.MaxSubsteps {
		n = w.tuning.MaxSubsteps
	}
	return n
}

// integratePositions advances positions over substeps and interleaves
// penetration correction. All position writes are deferred and flushed once
// after the last substep.
func (w *World) integratePositions(dt float64, predicting bool, manifolds []*Manifold) {
	steps := w.substepCount(dt, predicting)
	subDt := dt / float64(steps)
	for i := 0; i < steps; i++ {
		for _, b := range w.awake {
			if !b.Movable() {
				continue
			}
			moving := b.vel.X != 0 || b.vel.Y != 0
			if !moving && b.angVel == 0 {
				continue
			}
			// Contained bodies do not drift inside their container; the
			// container hears about the attempt instead.
			if w.containers != nil && moving {
				if container, ok := w.containers.ContainerOf(b); ok {
					container.AttemptedMove(b, b.vel)
					b.vel = common.Vec2{}
					b.angVel = 0
					continue
				}
			}
			pos, rot := w.readTransform(b)
			w.deferTransform(b, pos.Add(b.vel.Mult(subDt)), rot+b.angVel*subDt)
		}
		w.correctPenetrations(manifolds, steps)
	}
}

// correctPenetrations nudges overlapping hard pairs apart until every
// penetration is within the allowance or the substep budget runs out.
func (w *World) correctPenetrations(manifolds []*Manifold, substeps int) {
	frac := common.Clamp(1/float64(substeps), w.tuning.CorrectionMinFraction, 1)
	for iter := 0; iter < substeps; iter++ {
		corrected := false
		for _, m := range manifolds {
			if !m.Hard {
				continue
			}
			// A mid-tick removal leaves the manifold behind; its body no
			// longer has a meaningful position.
			if m.A.world != w || m.B.world != w {
				continue
			}
			pen := w.penetrationNow(m)
			if pen <= w.tuning.PenetrationAllowance {
				continue
			}
			corrected = true
			push := pen * frac
			aMoves := m.A.Movable()
			bMoves := m.B.Movable()
			if aMoves && bMoves {
				push /= 2
			}
			if aMoves {
				pos, rot := w.readTransform(m.A)
				w.deferTransform(m.A, pos.Sub(m.Normal.Mult(push)), rot)
			}
			if bMoves {
				pos, rot := w.readTransform(m.B)
				w.deferTransform(m.B, pos.Add(m.Normal.Mult(push)), rot)
			}
		}
		if !corrected {
			break
		}
	}
}

// penetrationNow re-measures a manifold's overlap along its normal using the
// deferred transforms.
func (w *World) penetrationNow(m *Manifold) float64 {
	boxA := m.A.AABB()
	boxB := m.B.AABB()
	if !boxA.Intersects(boxB) {
		return 0
	}
	overlap := boxA.Intersection(boxB)
	if m.Normal.X != 0 {
		return overlap.Width()
	}
	return overlap.Height()
}
