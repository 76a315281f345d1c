package physics

import (
	"log"
	"math"
	"sort"

	"github.com/metalgearsloth/tickphys/common"
)

// MapID names a world map. GridID names a movable sub-grid on a map.
type MapID uint32

type GridID uint32

// ChunkSize is the side length of a chunk in cells. Cells are one world unit.
const ChunkSize = 16

type cellCoord struct {
	X, Y int
}

type chunkCoord struct {
	X, Y int
}

type cellRef struct {
	place Placement
	cell  cellCoord
}

// node holds the unordered set of bodies overlapping one cell.
type node map[*Body]struct{}

// chunk owns the nodes for a ChunkSize x ChunkSize block of cells. Chunks are
// created lazily and released as soon as their last membership disappears.
type chunk struct {
	nodes map[cellCoord]node
	count int
}

type gridIndex struct {
	chunks map[chunkCoord]*chunk
	// bounds, when set, drops bodies whose AABB leaves the grid entirely.
	bounds  *common.AABB
	hasAny  bool
	members int
}

// SpatialIndex partitions bodies into per-cell sets, chunked for lazy
// allocation. Membership always mirrors each body's epsilon-clipped AABB and
// is recomputed reactively on reported moves, never polled.
type SpatialIndex struct {
	grids map[Placement]*gridIndex
	eps   float64
}

func NewSpatialIndex(epsilon float64) *SpatialIndex {
	return &SpatialIndex{
		grids: make(map[Placement]*gridIndex),
		eps:   epsilon,
	}
}

// SetGridBounds marks a grid as bounded. A body whose AABB no longer touches
// the bounds is treated as deleted from the index.
func (si *SpatialIndex) SetGridBounds(place Placement, bounds common.AABB) {
	g := si.grids[place]
	if g == nil {
		g = &gridIndex{chunks: make(map[chunkCoord]*chunk)}
		si.grids[place] = g
	}
	b := bounds
	g.bounds = &b
}

func chunkOrigin(c int) int {
	// Floor division keeps origins chunk-aligned for negative cells too.
	return int(math.Floor(float64(c)/ChunkSize)) * ChunkSize
}

// cellsForAABB maps a world AABB to the integer cells it overlaps, clipped
// inward by epsilon so exact border contact does not double-count.
func (si *SpatialIndex) cellsForAABB(box common.AABB) []cellCoord {
	minX := int(math.Floor(box.Min.X + si.eps))
	maxX := int(math.Floor(box.Max.X - si.eps))
	minY := int(math.Floor(box.Min.Y + si.eps))
	maxY := int(math.Floor(box.Max.Y - si.eps))
	if maxX < minX || maxY < minY {
		c := box.Center()
		return []cellCoord{{X: int(math.Floor(c.X)), Y: int(math.Floor(c.Y))}}
	}
	out := make([]cellCoord, 0, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			out = append(out, cellCoord{X: x, Y: y})
		}
	}
	return out
}

// queryCells maps a query box to every cell it touches, without the
// membership clip. Clipping a query the way memberships are clipped would
// hide pairs whose overlap is smaller than twice the epsilon, since the two
// clipped spans can land in disjoint cells across a border.
func queryCells(box common.AABB) []cellCoord {
	minX := int(math.Floor(box.Min.X))
	maxX := int(math.Floor(box.Max.X))
	minY := int(math.Floor(box.Min.Y))
	maxY := int(math.Floor(box.Max.Y))
	out := make([]cellCoord, 0, (maxX-minX+1)*(maxY-minY+1))
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			out = append(out, cellCoord{X: x, Y: y})
		}
	}
	return out
}

// Insert indexes a body under its current placement and AABB.
func (si *SpatialIndex) Insert(b *Body) {
	if b == nil {
		return
	}
	if len(b.cells) > 0 {
		log.Printf("physics: body %d already indexed", b.id)
		return
	}
	si.place(b, si.cellsForAABB(b.AABB()))
}

// Remove drops a body from every cell it occupies.
func (si *SpatialIndex) Remove(b *Body) {
	if b == nil {
		return
	}
	for _, ref := range b.cells {
		si.removeFromCell(b, ref)
	}
	b.cells = b.cells[:0]
}

// Update recomputes a body's membership after a move or resize. Returns false
// when the body left a bounded grid and was dropped from the index.
func (si *SpatialIndex) Update(b *Body) bool {
	if b == nil {
		return false
	}
	box := b.AABB()
	if g := si.grids[b.place]; g != nil && g.bounds != nil && !g.bounds.Intersects(box) {
		si.Remove(b)
		return false
	}
	si.Remove(b)
	si.place(b, si.cellsForAABB(box))
	return true
}

func (si *SpatialIndex) place(b *Body, cells []cellCoord) {
	g := si.grids[b.place]
	if g == nil {
		g = &gridIndex{chunks: make(map[chunkCoord]*chunk)}
		si.grids[b.place] = g
	}
	for _, c := range cells {
		ck := chunkCoord{X: chunkOrigin(c.X), Y: chunkOrigin(c.Y)}
		ch := g.chunks[ck]
		if ch == nil {
			ch = &chunk{nodes: make(map[cellCoord]node)}
			g.chunks[ck] = ch
		}
		n := ch.nodes[c]
		if n == nil {
			n = make(node)
			ch.nodes[c] = n
		}
		if _, dup := n[b]; dup {
			log.Printf("physics: duplicate membership for body %d in cell %v", b.id, c)
			continue
		}
		n[b] = struct{}{}
		ch.count++
		g.members++
		b.cells = append(b.cells, cellRef{place: b.place, cell: c})
	}
}

func (si *SpatialIndex) removeFromCell(b *Body, ref cellRef) {
	g := si.grids[ref.place]
	if g == nil {
		return
	}
	ck := chunkCoord{X: chunkOrigin(ref.cell.X), Y: chunkOrigin(ref.cell.Y)}
	ch := g.chunks[ck]
	if ch == nil {
		return
	}
	n := ch.nodes[ref.cell]
	if n == nil {
		return
	}
	if _, ok := n[b]; !ok {
		return
	}
	delete(n, b)
	ch.count--
	g.members--
	if len(n) == 0 {
		delete(ch.nodes, ref.cell)
	}
	if ch.count == 0 {
		delete(g.chunks, ck)
	}
}

// QueryAABB returns the distinct bodies whose cells overlap a box. Unknown
// placements return nothing.
func (si *SpatialIndex) QueryAABB(place Placement, box common.AABB) []*Body {
	g := si.grids[place]
	if g == nil {
		return nil
	}
	seen := make(map[*Body]struct{})
	var out []*Body
	for _, c := range queryCells(box) {
		ck := chunkCoord{X: chunkOrigin(c.X), Y: chunkOrigin(c.Y)}
		ch := g.chunks[ck]
		if ch == nil {
			continue
		}
		for b := range ch.nodes[c] {
			if _, ok := seen[b]; ok {
				continue
			}
			seen[b] = struct{}{}
			out = append(out, b)
		}
	}
	// Map iteration order is random; sort for deterministic downstream
	// processing.
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// RayHit is one intersection found by a ray query.
type RayHit struct {
	Body     *Body
	Point    common.Vec2
	Distance float64
}

// QueryRay intersects a ray against indexed bodies, nearest first.
func (si *SpatialIndex) QueryRay(place Placement, ray common.Ray) []RayHit {
	end := ray.PointAt(ray.Length)
	box := common.AABB{Min: ray.Origin, Max: ray.Origin}.Union(common.AABB{Min: end, Max: end})
	var hits []RayHit
	for _, b := range si.QueryAABB(place, box) {
		pos, rot := b.position()
		best := math.Inf(1)
		found := false
		for _, s := range b.shapes {
			if d, ok := s.IntersectRay(pos, rot, ray); ok && d < best {
				best = d
				found = true
			}
		}
		if found {
			hits = append(hits, RayHit{Body: b, Point: ray.PointAt(best), Distance: best})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// CellsOf reports the cells currently holding a body. Exposed for tests and
// debug tooling.
func (si *SpatialIndex) CellsOf(b *Body) [][2]int {
	out := make([][2]int, 0, len(b.cells))
	for _, ref := range b.cells {
		out = append(out, [2]int{ref.cell.X, ref.cell.Y})
	}
	return out
}

// ChunkCount reports live chunks for a placement. Exposed for eviction tests.
func (si *SpatialIndex) ChunkCount(place Placement) int {
	g := si.grids[place]
	if g == nil {
		return 0
	}
	return len(g.chunks)
}
