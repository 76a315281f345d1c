package physics

import (
	"math"

	"github.com/metalgearsloth/tickphys/common"
)

// simplex is a set of 1-3 points in the Minkowski difference space.
type simplex struct {
	pts   [3]common.Vec2
	count int
}

func (s *simplex) push(p common.Vec2) {
	if s.count < len(s.pts) {
		s.pts[s.count] = p
		s.count++
	}
}

// DistanceResult is the outcome of a precise convex distance query.
type DistanceResult struct {
	Distance float64
	// Normal points from A toward B when separated.
	Normal common.Vec2
	// Overlapping reports an enclosed origin; Distance is zero.
	Overlapping bool
}

// distanceCache keeps each pair's last reduced simplex; the next query for
// the pair seeds its initial search direction from it. Entries are stamped
// with the tick that used them and pruned once stale.
type distanceCache struct {
	entries map[pairKey]*cacheEntry
}

type cacheEntry struct {
	warm simplex
	tick uint64
}

func newDistanceCache() *distanceCache {
	return &distanceCache{entries: make(map[pairKey]*cacheEntry)}
}

func (c *distanceCache) get(key pairKey) *simplex {
	if e, ok := c.entries[key]; ok {
		return &e.warm
	}
	return nil
}

func (c *distanceCache) put(key pairKey, s simplex, tick uint64) {
	c.entries[key] = &cacheEntry{warm: s, tick: tick}
}

// prune drops entries not touched this tick.
func (c *distanceCache) prune(tick uint64) {
	for key, e := range c.entries {
		if e.tick < tick {
			delete(c.entries, key)
		}
	}
}

// minkowskiSupport is the extreme point of (A - B) in a direction.
func minkowskiSupport(posA common.Vec2, rotA float64, sa *Shape, posB common.Vec2, rotB float64, sb *Shape, dir common.Vec2) common.Vec2 {
	return sa.support(posA, rotA, dir).Sub(sb.support(posB, rotB, dir.Neg()))
}

// ShapeDistance runs the iterative distance solver between two shapes on two
// bodies. The pair's cached simplex from the previous tick seeds the initial
// search direction, which usually converges in a step or two for coherent
// motion.
func (w *World) ShapeDistance(a *Body, sa *Shape, b *Body, sb *Shape) DistanceResult {
	key := canonicalPair(a, b)
	warm := w.distCache.get(key)
	posA, rotA := a.position()
	posB, rotB := b.position()

	initial := posB.Sub(posA)
	if warm != nil && warm.count > 0 {
		initial = warm.pts[0].Neg()
	}
	if initial.LengthSq() < 1e-12 {
		initial = common.Vec2{X: 1}
	}

	support := func(dir common.Vec2) common.Vec2 {
		return minkowskiSupport(posA, rotA, sa, posB, rotB, sb, dir)
	}

	res, final := gjkDistance(support, initial, w.tuning.GJKIterations)
	w.distCache.put(key, final, w.tick)
	return res
}

// Distance is the precise separation between two bodies, minimized over
// their shape pairs. ok is false when either body carries no shapes.
func (w *World) Distance(a, b *Body) (DistanceResult, bool) {
	if a == nil || b == nil || len(a.shapes) == 0 || len(b.shapes) == 0 {
		return DistanceResult{}, false
	}
	best := DistanceResult{Distance: math.Inf(1)}
	for _, sa := range a.shapes {
		for _, sb := range b.shapes {
			res := w.ShapeDistance(a, sa, b, sb)
			if res.Overlapping {
				return res, true
			}
			if res.Distance < best.Distance {
				best = res
			}
		}
	}
	return best, true
}

// gjkDistance iterates a simplex toward the origin of the Minkowski
// difference. A contained origin means overlap; otherwise the closest simplex
// point gives the separation distance.
func gjkDistance(support func(common.Vec2) common.Vec2, initialDir common.Vec2, maxIter int) (DistanceResult, simplex) {
	var s simplex
	v := support(initialDir)
	s.push(v)

	for i := 0; i < maxIter; i++ {
		if v.LengthSq() < 1e-18 {
			return DistanceResult{Overlapping: true}, s
		}
		p := support(v.Neg())
		// No progress past the current closest point means v is the true
		// separation vector.
		if v.LengthSq()-v.Dot(p) < 1e-9*(1+v.LengthSq()) {
			break
		}
		s.push(p)
		var contained bool
		v, contained = closestToOrigin(&s)
		if contained {
			return DistanceResult{Overlapping: true}, s
		}
	}

	return DistanceResult{
		Distance: v.Length(),
		Normal:   v.Neg().Normalize(),
	}, s
}

// closestToOrigin finds the point on the simplex closest to the origin and
// reduces the simplex to the supporting feature. Reports containment for
// triangles enclosing the origin.
func closestToOrigin(s *simplex) (common.Vec2, bool) {
	switch s.count {
	case 1:
		return s.pts[0], false
	case 2:
		p, keepBoth := closestOnSegment(s.pts[0], s.pts[1])
		if !keepBoth {
			s.pts[0] = nearerToOrigin(s.pts[0], s.pts[1])
			s.count = 1
		}
		return p, false
	default:
		if triangleContainsOrigin(s.pts[0], s.pts[1], s.pts[2]) {
			return common.Vec2{}, true
		}
		// Reduce to the closest edge.
		bestP := common.Vec2{}
		bestD := math.Inf(1)
		var keepA, keepB common.Vec2
		edges := [3][2]common.Vec2{
			{s.pts[0], s.pts[1]},
			{s.pts[1], s.pts[2]},
			{s.pts[0], s.pts[2]},
		}
		for _, e := range edges {
			p, _ := closestOnSegment(e[0], e[1])
			if d := p.LengthSq(); d < bestD {
				bestD = d
				bestP = p
				keepA, keepB = e[0], e[1]
			}
		}
		s.pts[0] = keepA
		s.pts[1] = keepB
		s.count = 2
		return bestP, false
	}
}

// closestOnSegment returns the segment point nearest the origin and whether
// both endpoints support it.
func closestOnSegment(a, b common.Vec2) (common.Vec2, bool) {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq < 1e-18 {
		return a, false
	}
	t := -a.Dot(ab) / lenSq
	if t <= 0 {
		return a, false
	}
	if t >= 1 {
		return b, false
	}
	return a.Add(ab.Mult(t)), true
}

func nearerToOrigin(a, b common.Vec2) common.Vec2 {
	if a.LengthSq() <= b.LengthSq() {
		return a
	}
	return b
}

func triangleContainsOrigin(a, b, c common.Vec2) bool {
	d1 := b.Sub(a).Cross(a.Neg())
	d2 := c.Sub(b).Cross(b.Neg())
	d3 := a.Sub(c).Cross(c.Neg())
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
