package physics

// shouldCollide applies the static bitmask filter: both bodies must have
// collision enabled, and either side's mask intersecting the other's layer is
// sufficient. Permission in one direction is enough.
func shouldCollide(a, b *Body) bool {
	if !a.collisionEnabled || !b.collisionEnabled {
		return false
	}
	return a.mask&b.layer != 0 || b.mask&a.layer != 0
}

// vetoed runs each side's special-collision modifiers; any veto excludes the
// pair.
func vetoed(a, b *Body) bool {
	for _, v := range a.vetoes {
		if v(a, b) {
			return true
		}
	}
	for _, v := range b.vetoes {
		if v(b, a) {
			return true
		}
	}
	return false
}

// CandidatesFor returns the bodies plausibly colliding with b this tick,
// after the bitmask filter and the veto hooks.
func (w *World) CandidatesFor(b *Body) []*Body {
	if b == nil || !b.collisionEnabled {
		return nil
	}
	var out []*Body
	for _, other := range w.index.QueryAABB(b.place, b.AABB()) {
		if other == b {
			continue
		}
		if !shouldCollide(b, other) {
			continue
		}
		if vetoed(b, other) {
			continue
		}
		out = append(out, other)
	}
	return out
}
