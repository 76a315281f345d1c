package component

// TileGrid is a row-major grid of friction tiles anchored at an origin. The
// physics system samples it to find the surface under a body.
type TileGrid struct {
	Map      uint32
	Grid     uint32
	HasGrid  bool
	TileSize float64
	OriginX  float64
	OriginY  float64
	Columns  int
	Rows     int
	// Friction holds Columns*Rows entries. A zero entry means no surface in
	// that cell.
	Friction []float64
	// Gravity applies to everything standing on this grid.
	Gravity bool
}

// FrictionAt returns the tile friction at a world position. ok is false when
// the position falls outside the grid or on an empty cell.
func (g *TileGrid) FrictionAt(x, y float64) (float64, bool) {
	if g == nil || g.TileSize <= 0 {
		return 0, false
	}
	col := int((x - g.OriginX) / g.TileSize)
	row := int((y - g.OriginY) / g.TileSize)
	if x < g.OriginX || y < g.OriginY || col >= g.Columns || row >= g.Rows {
		return 0, false
	}
	f := g.Friction[row*g.Columns+col]
	if f <= 0 {
		return 0, false
	}
	return f, true
}

var TileGridComponent = NewComponent[*TileGrid]()
