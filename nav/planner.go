package nav

import (
	"container/heap"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Query bounds a search.
type Query struct {
	MaxClimb     float64 // Largest height gain between neighbouring cells on a slope
	StepHeight   float64 // Largest height gain taken as a single step
	MaxDistance  float64 // Path length limit in world units; 0 means unlimited
	AllowPartial bool    // Return a path to the closest reached cell when the goal is unreachable
}

// Planner provides A* pathfinding over a Grid. It reuses its search
// buffers and is not safe for concurrent use.
type Planner struct {
	grid *Grid

	// Reusable data structures (cleared between searches)
	openHeap  *nodeHeap
	closedSet map[int]struct{}
	cameFrom  map[int]int
	gScore    map[int]float64
}

// node is a cell in the A* search.
type node struct {
	gx, gy int
	f      float64 // f = g + h (priority)
	index  int     // Heap index
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*node

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*node)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	nd := old[n-1]
	old[n-1] = nil
	nd.index = -1
	*h = old[0 : n-1]
	return nd
}

// neighbour offsets: cardinals first, then diagonals.
var offsets = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// NewPlanner creates a planner over g.
func NewPlanner(g *Grid) *Planner {
	return &Planner{
		grid:      g,
		openHeap:  &nodeHeap{},
		closedSet: make(map[int]struct{}, 256),
		cameFrom:  make(map[int]int, 256),
		gScore:    make(map[int]float64, 256),
	}
}

// Grid returns the grid the planner searches.
func (p *Planner) Grid() *Grid { return p.grid }

// FindPath computes a path from start to goal. Waypoints are cell centres
// at ground height. It returns nil when no path, partial or full, exists.
func (p *Planner) FindPath(start, goal r3.Vec, q Query) []r3.Vec {
	grid := p.grid

	startGX, startGY := grid.WorldToGrid(start.X, start.Y)
	goalGX, goalGY := grid.WorldToGrid(goal.X, goal.Y)

	if grid.IsBlocked(startGX, startGY) {
		startGX, startGY = p.findNearestOpen(startGX, startGY)
		if startGX < 0 {
			return nil
		}
	}
	if grid.IsBlocked(goalGX, goalGY) {
		goalGX, goalGY = p.findNearestOpen(goalGX, goalGY)
		if goalGX < 0 {
			return nil
		}
	}

	// Same cell - no path needed
	if startGX == goalGX && startGY == goalGY {
		return []r3.Vec{p.waypoint(goalGX, goalGY)}
	}

	p.reset()

	startID := startGY*grid.width + startGX
	goalID := goalGY*grid.width + goalGX

	p.gScore[startID] = 0
	heap.Push(p.openHeap, &node{gx: startGX, gy: startGY, f: p.heuristic(startGX, startGY, goalGX, goalGY)})

	bestID := startID
	bestH := p.heuristic(startGX, startGY, goalGX, goalGY)

	maxIterations := grid.width * grid.height
	for iterations := 0; p.openHeap.Len() > 0 && iterations < maxIterations; iterations++ {
		current := heap.Pop(p.openHeap).(*node)
		currentID := current.gy*grid.width + current.gx
		if _, done := p.closedSet[currentID]; done {
			continue
		}

		if currentID == goalID {
			return p.reconstructPath(startID, goalID, q)
		}
		p.closedSet[currentID] = struct{}{}

		if h := p.heuristic(current.gx, current.gy, goalGX, goalGY); h < bestH {
			bestH = h
			bestID = currentID
		}

		for i, off := range offsets {
			ngx, ngy := current.gx+off[0], current.gy+off[1]
			if !p.passable(current.gx, current.gy, ngx, ngy, q) {
				continue
			}

			// Diagonal moves need both adjacent cells open to avoid cutting corners
			if i >= 4 && (grid.IsBlocked(current.gx+off[0], current.gy) || grid.IsBlocked(current.gx, current.gy+off[1])) {
				continue
			}

			neighborID := ngy*grid.width + ngx
			if _, ok := p.closedSet[neighborID]; ok {
				continue
			}

			moveCost := grid.cellSize
			if i >= 4 {
				moveCost *= math.Sqrt2
			}
			// Climbing costs its height on top of the distance
			moveCost += math.Max(0, grid.Height(ngx, ngy)-grid.Height(current.gx, current.gy))

			tentativeG := p.gScore[currentID] + moveCost
			if q.MaxDistance > 0 && tentativeG > q.MaxDistance {
				continue
			}

			if existingG, exists := p.gScore[neighborID]; exists && tentativeG >= existingG {
				continue
			}

			p.cameFrom[neighborID] = currentID
			p.gScore[neighborID] = tentativeG
			heap.Push(p.openHeap, &node{gx: ngx, gy: ngy, f: tentativeG + p.heuristic(ngx, ngy, goalGX, goalGY)})
		}
	}

	if !q.AllowPartial || bestID == startID {
		return nil
	}
	return p.reconstructPath(startID, bestID, q)
}

func (p *Planner) reset() {
	*p.openHeap = (*p.openHeap)[:0]
	clear(p.closedSet)
	clear(p.cameFrom)
	clear(p.gScore)
}

// passable reports whether a single move between neighbouring cells is
// allowed by walls and the climb limits. Drops are always allowed.
func (p *Planner) passable(fx, fy, tx, ty int, q Query) bool {
	if p.grid.IsBlocked(tx, ty) {
		return false
	}
	rise := p.grid.Height(tx, ty) - p.grid.Height(fx, fy)
	return rise <= math.Max(q.MaxClimb, q.StepHeight)
}

// heuristic is the straight-line distance in world units.
func (p *Planner) heuristic(gx1, gy1, gx2, gy2 int) float64 {
	return math.Hypot(float64(gx2-gx1), float64(gy2-gy1)) * p.grid.cellSize
}

func (p *Planner) waypoint(gx, gy int) r3.Vec {
	x, y := p.grid.GridToWorld(gx, gy)
	return r3.Vec{X: x, Y: y, Z: p.grid.Height(gx, gy)}
}

// reconstructPath builds the path from cameFrom and simplifies it.
func (p *Planner) reconstructPath(startID, endID int, q Query) []r3.Vec {
	var ids []int
	for current := endID; current != startID; {
		ids = append(ids, current)
		prev, ok := p.cameFrom[current]
		if !ok {
			break
		}
		current = prev
	}
	ids = append(ids, startID)

	w := p.grid.width
	path := make([]r3.Vec, len(ids))
	for i := range ids {
		id := ids[len(ids)-1-i]
		path[i] = p.waypoint(id%w, id/w)
	}
	return p.simplifyPath(path, q)
}

// simplifyPath drops waypoints that can be skipped in a straight line.
func (p *Planner) simplifyPath(path []r3.Vec, q Query) []r3.Vec {
	if len(path) <= 2 {
		return path
	}

	simplified := make([]r3.Vec, 0, len(path))
	simplified = append(simplified, path[0])
	anchor := path[0]
	for i := 1; i < len(path)-1; i++ {
		if !p.hasLineOfSight(anchor, path[i+1], q) {
			simplified = append(simplified, path[i])
			anchor = path[i]
		}
	}
	simplified = append(simplified, path[len(path)-1])
	return simplified
}

// hasLineOfSight walks the segment in half-cell steps and fails on walls or
// rises the query would not allow.
func (p *Planner) hasLineOfSight(a, b r3.Vec, q Query) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Hypot(dx, dy)
	if dist < 0.01 {
		return true
	}

	step := p.grid.cellSize * 0.5
	steps := int(dist/step) + 1
	dx /= dist
	dy /= dist

	limit := math.Max(q.MaxClimb, q.StepHeight)
	prevH := p.grid.HeightAt(a.X, a.Y)
	for i := 0; i <= steps; i++ {
		s := math.Min(float64(i)*step, dist)
		x, y := a.X+dx*s, a.Y+dy*s
		if p.grid.BlockedAt(x, y) {
			return false
		}
		h := p.grid.HeightAt(x, y)
		if h-prevH > limit {
			return false
		}
		prevH = h
	}
	return true
}

// findNearestOpen spirals outward for an unblocked cell.
// Returns (-1, -1) if none is found within the search radius.
func (p *Planner) findNearestOpen(gx, gy int) (int, int) {
	for radius := 1; radius < 10; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				// Only check cells at the current radius
				if abs(dx) != radius && abs(dy) != radius {
					continue
				}
				if !p.grid.IsBlocked(gx+dx, gy+dy) {
					return gx + dx, gy + dy
				}
			}
		}
	}
	return -1, -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
