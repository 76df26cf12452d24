package physics

// grid buckets bodies by cell for the collision broadphase.
type grid struct {
	cellSize float64
	cols     int
	rows     int
	cells    [][]*Body
}

func newGrid(width, height, cellSize float64) *grid {
	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	cells := make([][]*Body, cols*rows)
	for i := range cells {
		cells[i] = make([]*Body, 0, 4)
	}
	return &grid{cellSize: cellSize, cols: cols, rows: rows, cells: cells}
}

func (g *grid) clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *grid) insert(b *Body) {
	idx := g.cellIndex(b.pos.X, b.pos.Y)
	g.cells[idx] = append(g.cells[idx], b)
}

// neighbors appends bodies in the 3x3 block of cells around b that have a
// larger ID, so each pair is visited once.
func (g *grid) neighbors(dst []*Body, b *Body) []*Body {
	col, row := g.cellCoords(b.pos.X, b.pos.Y)
	for dr := -1; dr <= 1; dr++ {
		r := row + dr
		if r < 0 || r >= g.rows {
			continue
		}
		for dc := -1; dc <= 1; dc++ {
			c := col + dc
			if c < 0 || c >= g.cols {
				continue
			}
			for _, o := range g.cells[r*g.cols+c] {
				if o.id > b.id {
					dst = append(dst, o)
				}
			}
		}
	}
	return dst
}

func (g *grid) cellCoords(x, y float64) (col, row int) {
	col = int(x / g.cellSize)
	row = int(y / g.cellSize)

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

func (g *grid) cellIndex(x, y float64) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}
