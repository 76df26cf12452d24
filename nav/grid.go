// Package nav provides a height-aware navigation grid and A* path planner.
package nav

import "math"

// Grid stores per-cell ground height and wall flags over the arena.
type Grid struct {
	heights  []float64
	blocked  []bool
	cellSize float64
	width    int // grid width in cells
	height   int // grid height in cells
}

// Obstacle is an axis-aligned block. Blocked obstacles are walls; others
// raise the ground to Height.
type Obstacle struct {
	MinX, MinY, MaxX, MaxY float64
	Height                 float64
	Blocked                bool
}

// NewGrid creates an open, flat grid covering width x height world units.
func NewGrid(width, height, cellSize float64) *Grid {
	w := int(math.Ceil(width / cellSize))
	h := int(math.Ceil(height / cellSize))
	return &Grid{
		heights:  make([]float64, w*h),
		blocked:  make([]bool, w*h),
		cellSize: cellSize,
		width:    w,
		height:   h,
	}
}

// NewGridFromObstacles builds a grid and stamps each obstacle into it.
func NewGridFromObstacles(width, height, cellSize float64, obstacles []Obstacle) *Grid {
	g := NewGrid(width, height, cellSize)
	for _, o := range obstacles {
		g.Stamp(o)
	}
	return g
}

// Stamp applies an obstacle to every cell whose centre lies inside it.
func (g *Grid) Stamp(o Obstacle) {
	minX, minY := g.WorldToGrid(o.MinX, o.MinY)
	maxX, maxY := g.WorldToGrid(o.MaxX, o.MaxY)
	for gy := max(minY, 0); gy <= min(maxY, g.height-1); gy++ {
		for gx := max(minX, 0); gx <= min(maxX, g.width-1); gx++ {
			cx, cy := g.GridToWorld(gx, gy)
			if cx < o.MinX || cx > o.MaxX || cy < o.MinY || cy > o.MaxY {
				continue
			}
			i := gy*g.width + gx
			if o.Blocked {
				g.blocked[i] = true
			}
			g.heights[i] = math.Max(g.heights[i], o.Height)
		}
	}
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (w, h int) { return g.width, g.height }

// CellSize returns the cell edge length in world units.
func (g *Grid) CellSize() float64 { return g.cellSize }

// IsBlocked returns true if the given cell is blocked.
func (g *Grid) IsBlocked(gx, gy int) bool {
	if gx < 0 || gx >= g.width || gy < 0 || gy >= g.height {
		return true // Out of bounds is blocked
	}
	return g.blocked[gy*g.width+gx]
}

// Height returns the ground height of a cell, 0 outside the grid.
func (g *Grid) Height(gx, gy int) float64 {
	if gx < 0 || gx >= g.width || gy < 0 || gy >= g.height {
		return 0
	}
	return g.heights[gy*g.width+gx]
}

// BlockedAt returns true if the world position is in a blocked cell.
func (g *Grid) BlockedAt(x, y float64) bool {
	gx, gy := g.WorldToGrid(x, y)
	return g.IsBlocked(gx, gy)
}

// HeightAt returns the ground height at a world position. Blocked cells
// report 0 so bodies pushed into walls are not lifted onto them.
func (g *Grid) HeightAt(x, y float64) float64 {
	gx, gy := g.WorldToGrid(x, y)
	if g.IsBlocked(gx, gy) {
		return 0
	}
	return g.Height(gx, gy)
}

// WorldToGrid converts world coordinates to grid coordinates.
func (g *Grid) WorldToGrid(x, y float64) (gx, gy int) {
	gx = int(math.Floor(x / g.cellSize))
	gy = int(math.Floor(y / g.cellSize))
	return
}

// GridToWorld converts grid coordinates to world coordinates (cell centre).
func (g *Grid) GridToWorld(gx, gy int) (x, y float64) {
	x = (float64(gx) + 0.5) * g.cellSize
	y = (float64(gy) + 0.5) * g.cellSize
	return
}
