package game

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rollermine/traits"
)

// overlayFlags holds the debug overlay toggles.
type overlayFlags struct {
	nav    bool // N: nav grid heights and walls
	paths  bool // P: mine paths and lookahead
	ranges bool // R: spike radius around each mine
	follow bool // F: camera tracks the selection
	perf   bool // O: per-phase tick timings
}

// handleOverlayKeys checks for overlay toggle key presses.
func (g *Game) handleOverlayKeys() {
	if rl.IsKeyPressed(rl.KeyN) {
		g.overlays.nav = !g.overlays.nav
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.overlays.paths = !g.overlays.paths
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.overlays.ranges = !g.overlays.ranges
	}
	if rl.IsKeyPressed(rl.KeyF) {
		g.overlays.follow = !g.overlays.follow
	}
	if rl.IsKeyPressed(rl.KeyO) {
		g.overlays.perf = !g.overlays.perf
	}
}

// drawActiveOverlays renders all currently enabled overlays.
func (g *Game) drawActiveOverlays() {
	if g.overlays.nav {
		g.drawNavOverlay()
	}
	if g.overlays.paths {
		g.drawPathOverlay()
	}
	if g.overlays.ranges {
		g.drawRangeOverlay()
	}
}

// drawNavOverlay shades raised cells by height and walls in red.
func (g *Game) drawNavOverlay() {
	cols, rows := g.grid.Size()
	cell := g.grid.CellSize()
	size := float32(cell) * g.camera.Zoom
	minX, minY, maxX, maxY := g.camera.VisibleWorldBounds()

	for gy := max(0, int(float64(minY)/cell)); gy < min(rows, int(float64(maxY)/cell)+1); gy++ {
		for gx := max(0, int(float64(minX)/cell)); gx < min(cols, int(float64(maxX)/cell)+1); gx++ {
			var c rl.Color
			switch h := g.grid.Height(gx, gy); {
			case g.grid.IsBlocked(gx, gy):
				c = rl.NewColor(200, 40, 40, 90)
			case h > 0:
				c = rl.NewColor(80, 160, 220, uint8(min(40+h, 160)))
			default:
				continue
			}
			sx, sy := g.camera.WorldToScreen(float32(float64(gx)*cell), float32(float64(gy)*cell))
			rl.DrawRectangle(int32(sx), int32(sy), int32(math.Ceil(float64(size))), int32(math.Ceil(float64(size))), c)
		}
	}
}

// drawPathOverlay draws each mine's remaining waypoints and a line to its target.
func (g *Game) drawPathOverlay() {
	for _, a := range g.agents {
		if !a.IsAlive() {
			continue
		}
		from := a.Position()
		if p := a.Path(); p != nil {
			prev := from
			for _, wp := range p.Waypoints()[p.Cursor():] {
				g.drawWorldLine(prev.X, prev.Y, wp.X, wp.Y, rl.NewColor(255, 200, 60, 160))
				sx, sy := g.camera.WorldToScreen(float32(wp.X), float32(wp.Y))
				rl.DrawCircle(int32(sx), int32(sy), 3, rl.NewColor(255, 200, 60, 200))
				prev = wp
			}
		}
		if t, ok := a.Target(); ok {
			tp := t.Position()
			g.drawWorldLine(from.X, from.Y, tp.X, tp.Y, rl.NewColor(255, 80, 80, 60))
		}
	}
}

// drawRangeOverlay rings each mine with its spike radius.
func (g *Game) drawRangeOverlay() {
	r := float32(g.params.SpikeRadius) * g.camera.Zoom
	for _, a := range g.agents {
		if !a.IsAlive() {
			continue
		}
		p := a.Position()
		sx, sy := g.camera.WorldToScreen(float32(p.X), float32(p.Y))
		c := rl.NewColor(255, 255, 255, 30)
		if a.SpikesOpen() {
			c = rl.NewColor(255, 60, 60, 90)
		}
		rl.DrawCircleLines(int32(sx), int32(sy), r, c)
	}
}

// drawSelectionIndicator rings the selected entity.
func (g *Game) drawSelectionIndicator() {
	if !g.hasSelection {
		return
	}
	e, ok := g.entities[g.selected]
	if !ok || !g.world.Alive(e) {
		return
	}
	pos := g.posMap.Get(e)
	body := g.bodyMap.Get(e)
	sx, sy := g.camera.WorldToScreen(float32(pos.X), float32(pos.Y))
	r := float32(body.Radius)*g.camera.Zoom + 4
	rl.DrawCircleLines(int32(sx), int32(sy), r, rl.Yellow)
	rl.DrawCircleLines(int32(sx), int32(sy), r+1, rl.Yellow)

	if g.identityMap.Get(e).Tags.Has(traits.Rollermine) && !g.overlays.paths {
		// Paths are hidden globally; still show the selection's
		a := g.mineMap.Get(e).Agent
		if p := a.Path(); p != nil {
			prev := a.Position()
			for _, wp := range p.Waypoints()[p.Cursor():] {
				g.drawWorldLine(prev.X, prev.Y, wp.X, wp.Y, rl.Yellow)
				prev = wp
			}
		}
	}
}

func (g *Game) drawWorldLine(x1, y1, x2, y2 float64, c rl.Color) {
	sx1, sy1 := g.camera.WorldToScreen(float32(x1), float32(y1))
	sx2, sy2 := g.camera.WorldToScreen(float32(x2), float32(y2))
	rl.DrawLineV(rl.Vector2{X: sx1, Y: sy1}, rl.Vector2{X: sx2, Y: sy2}, c)
}
