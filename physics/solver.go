package physics

// solve resolves this tick's manifolds with a randomized sequential impulse
// scheme: pick an unresolved manifold in shuffled order, resolve it, repeat.
// The attempt budget is a guard against pathological loops, not a
// correctness guarantee.
func (w *World) solve(manifolds []*Manifold) {
	if len(manifolds) == 0 {
		return
	}
	budget := w.tuning.SolverBudgetFactor * len(manifolds)
	attempts := 0
	for attempts < budget {
		progressed := false
		for _, idx := range w.rng.Perm(len(manifolds)) {
			if attempts >= budget {
				break
			}
			m := manifolds[idx]
			if !m.Unresolved {
				continue
			}
			attempts++
			progressed = true
			w.resolveManifold(m)
		}
		if !progressed {
			break
		}
	}
}

// resolveManifold applies the contact impulse for one manifold and wakes both
// sides.
func (w *World) resolveManifold(m *Manifold) {
	m.Unresolved = false
	w.requestWake(m.A)
	w.requestWake(m.B)

	relVel := m.B.vel.Sub(m.A.vel)
	alongNormal := relVel.Dot(m.Normal)
	// Already separating: resolved with zero impulse.
	if alongNormal > 0 {
		return
	}

	invA := m.A.effectiveInvMass()
	invB := m.B.effectiveInvMass()
	if invA+invB == 0 {
		return
	}

	j := -(1 + w.tuning.Restitution) * alongNormal / (invA + invB)
	impulse := m.Normal.Mult(j)
	m.A.vel = m.A.vel.Sub(impulse.Mult(invA))
	m.B.vel = m.B.vel.Add(impulse.Mult(invB))
}

// notifyCollisions delivers paired collide callbacks for every manifold, hard
// or not, then one finalize call per distinct behavior with its contact count
// for the tick.
func (w *World) notifyCollisions(manifolds []*Manifold) {
	if len(manifolds) == 0 {
		return
	}
	counts := make(map[CollisionBehavior]int)
	for _, m := range manifolds {
		for _, cb := range m.A.behaviors {
			cb.OnCollide(m.A, m.B, m)
			counts[cb]++
		}
		for _, cb := range m.B.behaviors {
			cb.OnCollide(m.B, m.A, m)
			counts[cb]++
		}
		w.events.emitCollision(CollisionEvent{
			A:           m.A,
			B:           m.B,
			Normal:      m.Normal,
			Penetration: m.Penetration,
			Hard:        m.Hard,
		})
	}
	for cb, n := range counts {
		cb.PostCollide(n)
	}
}
