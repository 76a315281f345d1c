package physics

import "github.com/metalgearsloth/tickphys/common"

// Manifold is the transient contact data for one colliding pair in one tick.
// Manifolds never persist across ticks.
type Manifold struct {
	A, B *Body
	// Normal points from A toward B.
	Normal      common.Vec2
	Penetration float64
	// Hard is set only when both bodies are hard; soft manifolds still fire
	// collide callbacks but skip positional correction.
	Hard       bool
	Unresolved bool
}

type pairKey struct {
	hi, lo uint64
}

// canonicalPair orders a pair by descending id so each unordered pair maps to
// one key no matter which side discovered the other.
func canonicalPair(a, b *Body) pairKey {
	if a.id > b.id {
		return pairKey{hi: a.id, lo: b.id}
	}
	return pairKey{hi: b.id, lo: a.id}
}

// buildManifold computes the contact normal and penetration from the AABB
// intersection. The separating axis is the one with the smaller overlap
// extent.
func buildManifold(a, b *Body) (Manifold, bool) {
	boxA := a.AABB()
	boxB := b.AABB()
	if !boxA.Intersects(boxB) {
		return Manifold{}, false
	}
	overlap := boxA.Intersection(boxB)
	width := overlap.Width()
	height := overlap.Height()

	var normal common.Vec2
	var penetration float64
	if width < height {
		penetration = width
		if boxA.Center().X <= boxB.Center().X {
			normal = common.Vec2{X: 1}
		} else {
			normal = common.Vec2{X: -1}
		}
	} else {
		penetration = height
		if boxA.Center().Y <= boxB.Center().Y {
			normal = common.Vec2{Y: 1}
		} else {
			normal = common.Vec2{Y: -1}
		}
	}

	return Manifold{
		A:           a,
		B:           b,
		Normal:      normal,
		Penetration: penetration,
		Hard:        a.hard && b.hard,
		Unresolved:  true,
	}, true
}

// collectManifolds runs the narrow phase over the awake set, deduplicating
// unordered pairs.
func (w *World) collectManifolds() []*Manifold {
	seen := make(map[pairKey]struct{})
	var manifolds []*Manifold
	for _, b := range w.awake {
		for _, other := range w.CandidatesFor(b) {
			key := canonicalPair(b, other)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if m, ok := buildManifold(b, other); ok {
				manifolds = append(manifolds, &m)
			}
		}
	}
	return manifolds
}
