package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rollermine/mine"
	"github.com/pthm-cable/rollermine/traits"
)

// pickSlack is the extra screen-space radius accepted around an entity.
const pickSlack = 6

// hoverInfo holds data about the entity under the cursor.
type hoverInfo struct {
	ID     mine.EntityID
	Tags   traits.Trait
	X, Y   float64
	Health float64
	Max    float64
}

// findEntityAtMouse returns the live entity under the cursor, if any.
func (g *Game) findEntityAtMouse() *hoverInfo {
	mouse := rl.GetMousePosition()
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	return g.findEntityAt(float64(wx), float64(wy), pickSlack/float64(g.camera.Zoom))
}

// findEntityAt returns the entity whose body is closest to (x, y) within
// its radius plus slack.
func (g *Game) findEntityAt(x, y, slack float64) *hoverInfo {
	var closest *hoverInfo
	closestDist := math.Inf(1)

	query := g.entityFilter.Query()
	for query.Next() {
		pos, _, body, ident, health := query.Get()
		if !health.Alive {
			continue
		}
		d := math.Hypot(pos.X-x, pos.Y-y)
		if d > body.Radius+slack || d >= closestDist {
			continue
		}
		closestDist = d
		closest = &hoverInfo{
			ID:     ident.ID,
			Tags:   ident.Tags,
			X:      pos.X,
			Y:      pos.Y,
			Health: health.Value,
			Max:    health.Max,
		}
	}
	return closest
}

// selectedAgent returns the selected mine, if the selection is one.
func (g *Game) selectedAgent() (*mine.Agent, bool) {
	if !g.hasSelection {
		return nil, false
	}
	e, ok := g.entities[g.selected]
	if !ok || !g.world.Alive(e) || !g.mineMap.Has(e) {
		return nil, false
	}
	return g.mineMap.Get(e).Agent, true
}

// cycleSelection selects the next live mine after the current one.
func (g *Game) cycleSelection() {
	if len(g.agents) == 0 {
		g.hasSelection = false
		return
	}
	next := g.agents[0]
	if g.hasSelection {
		for _, a := range g.agents {
			if a.ID() > g.selected {
				next = a
				break
			}
		}
	}
	g.selected = next.ID()
	g.hasSelection = true
}
