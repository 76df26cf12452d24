package game

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rollermine/components"
	"github.com/pthm-cable/rollermine/mine"
	"github.com/pthm-cable/rollermine/telemetry"
	"github.com/pthm-cable/rollermine/traits"
	"github.com/pthm-cable/rollermine/ui"
)

const (
	inspectorWidth = 260
	controlsLegend = "SPACE: Pause | < >: Speed | Click/Tab: Select | N: Nav | P: Paths | R: Ranges | F: Follow | O: Perf | L: Log"
)

var (
	floorColor  = rl.Color{R: 24, G: 28, B: 32, A: 255}
	arenaColor  = rl.Color{R: 34, G: 40, B: 46, A: 255}
	mineColor   = rl.Color{R: 150, G: 160, B: 170, A: 255}
	stunColor   = rl.Color{R: 90, G: 170, B: 230, A: 255}
	spikeColor  = rl.Color{R: 230, G: 70, B: 60, A: 255}
	playerColor = rl.Color{R: 240, G: 200, B: 80, A: 255}
	propColor   = rl.Color{R: 140, G: 100, B: 70, A: 255}
)

// initUI creates the viewer panels.
func (g *Game) initUI() {
	g.uiHUD = ui.NewHUD()
	g.uiPerfPanel = ui.NewPerfPanel(int32(g.screenWidth)-220, 10)
	g.uiInspector = ui.NewInspector(int32(g.screenWidth)-inspectorWidth-10, 10, inspectorWidth, ui.GainLimits{
		MaxDriveScale:     2,
		MaxCorrectionGain: 1e5,
	})
}

// Draw renders the arena and the UI for one frame.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	rl.BeginDrawing()
	rl.ClearBackground(floorColor)

	x0, y0 := g.camera.WorldToScreen(0, 0)
	x1, y1 := g.camera.WorldToScreen(float32(g.cfg.World.Width), float32(g.cfg.World.Height))
	rl.DrawRectangleV(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1 - x0, Y: y1 - y0}, arenaColor)

	g.drawActiveOverlays()

	query := g.entityFilter.Query()
	for query.Next() {
		pos, _, body, ident, health := query.Get()
		if !health.Alive || !g.camera.IsVisible(float32(pos.X), float32(pos.Y), float32(body.Radius)) {
			continue
		}
		g.drawEntity(pos, body, ident, health)
	}

	g.drawSelectionIndicator()
	g.drawUI()

	rl.EndDrawing()
}

// drawEntity draws one body as a filled circle coloured by kind and state.
func (g *Game) drawEntity(pos *components.Position, body *components.Body, ident *components.Identity, health *components.Health) {
	sx, sy := g.camera.WorldToScreen(float32(pos.X), float32(pos.Y))
	r := float32(body.Radius) * g.camera.Zoom

	switch {
	case ident.Tags.Has(traits.Rollermine):
		a := g.agentFor(body.Ref)
		c := mineColor
		if a != nil && a.IsStunned() {
			c = stunColor
		}
		rl.DrawCircle(int32(sx), int32(sy), r, c)
		if a != nil && a.SpikesOpen() {
			drawSpikes(sx, sy, r, float32(g.simTime))
		}
		// Heading tick from the velocity
		v := body.Ref.Velocity()
		if speed := math.Hypot(v.X, v.Y); speed > 1 {
			hx := sx + float32(v.X/speed)*r
			hy := sy + float32(v.Y/speed)*r
			rl.DrawLineV(rl.Vector2{X: sx, Y: sy}, rl.Vector2{X: hx, Y: hy}, rl.DarkGray)
		}
	case ident.Tags.Has(traits.Player):
		rl.DrawCircle(int32(sx), int32(sy), r, playerColor)
		drawHealthArc(sx, sy, r+2, health.Value/health.Max)
	default:
		rl.DrawCircle(int32(sx), int32(sy), r, propColor)
		if health.Value < health.Max {
			drawHealthArc(sx, sy, r+2, health.Value/health.Max)
		}
	}
}

func drawSpikes(sx, sy, r, t float32) {
	const n = 8
	for i := range n {
		a := float64(t)*2 + float64(i)*2*math.Pi/n
		dx, dy := float32(math.Cos(a)), float32(math.Sin(a))
		rl.DrawLineEx(
			rl.Vector2{X: sx + dx*r, Y: sy + dy*r},
			rl.Vector2{X: sx + dx*(r+6), Y: sy + dy*(r+6)},
			2, spikeColor,
		)
	}
}

func drawHealthArc(sx, sy, r float32, frac float64) {
	frac = max(0, min(1, frac))
	c := rl.Green
	if frac < 0.3 {
		c = rl.Red
	} else if frac < 0.6 {
		c = rl.Orange
	}
	rl.DrawRing(rl.Vector2{X: sx, Y: sy}, r, r+2, -90, -90+float32(frac*360), 24, c)
}

// drawUI draws the HUD, perf panel, inspector and tooltip.
func (g *Game) drawUI() {
	pop := g.Population()
	spectators := 0
	if g.hub != nil {
		spectators = g.hub.Subscribers()
	}

	g.uiHUD.Draw(ui.HUDData{
		Title:        "Rollermine Arena",
		Mines:        pop.Mines,
		MinesStunned: pop.MinesStunned,
		Players:      pop.Players,
		Props:        pop.Props,
		Tick:         g.tick,
		SimTime:      g.simTime,
		Speed:        g.stepsPerUpdate,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Spectators:   spectators,
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	})

	if g.overlays.perf {
		stats := g.perfCollector.Stats()
		g.uiPerfPanel.SetPosition(10, 100)
		g.uiPerfPanel.Draw(ui.PerfPanelData{
			Phases:   telemetry.Phases(),
			PhaseAvg: stats.PhaseAvg,
			Total:    stats.AvgTickDuration,
			TPS:      stats.TicksPerSecond,
		})
	}

	g.uiHUD.DrawControls(int32(g.screenHeight), controlsLegend)

	g.uiInspector.SetPosition(int32(g.screenWidth)-inspectorWidth-10, 10)
	g.drawInspector()

	if g.hovered != nil && (!g.hasSelection || g.hovered.ID != g.selected) {
		mouse := rl.GetMousePosition()
		ui.DrawTooltip(int32(mouse.X), int32(mouse.Y),
			fmt.Sprintf("%s #%d  %.0f/%.0f", g.hovered.Tags, g.hovered.ID, g.hovered.Health, g.hovered.Max))
	}
}

// drawInspector shows the selection and applies any gain or stun changes.
func (g *Game) drawInspector() {
	if !g.hasSelection {
		return
	}
	if a, ok := g.selectedAgent(); ok {
		g.applyInspectorAction(a, g.uiInspector.DrawMine(g.mineView(a)))
		return
	}
	e, ok := g.entities[g.selected]
	if !ok || !g.world.Alive(e) {
		return
	}
	ident := g.identityMap.Get(e)
	health := g.healthMap.Get(e)
	vel := g.bodyMap.Get(e).Ref.Velocity()
	kind := "Prop"
	if ident.Tags.Has(traits.Player) {
		kind = "Player"
	}
	g.uiInspector.DrawEntity(ui.EntityView{
		ID:        uint64(ident.ID),
		Kind:      kind,
		Health:    health.Value,
		MaxHealth: health.Max,
		Speed:     math.Hypot(vel.X, vel.Y),
	})
}

// mineView collects the inspector data for a mine.
func (g *Game) mineView(a *mine.Agent) *ui.MineView {
	drive, corr := a.Gains()
	v := &ui.MineView{
		ID:             uint64(a.ID()),
		Health:         a.Health(),
		MaxHealth:      a.Params().Health,
		Stunned:        a.IsStunned(),
		Spikes:         a.SpikesOpen(),
		SoundVolume:    a.SoundVolume(),
		DriveScale:     drive,
		CorrectionGain: corr,
	}
	if v.Stunned {
		v.ReviveIn = max(0, a.ReviveAt()-g.simTime)
	}
	if e, ok := g.entities[a.ID()]; ok {
		vel := g.bodyMap.Get(e).Ref.Velocity()
		v.Speed = math.Hypot(vel.X, vel.Y)
	}
	if t, ok := a.Target(); ok {
		v.HasTarget = true
		v.Target = uint64(t.ID())
		tp, p := t.Position(), a.Position()
		v.TargetDist = math.Hypot(tp.X-p.X, tp.Y-p.Y)
	}
	if p := a.Path(); p != nil {
		v.Waypoints = p.Len()
		v.Cursor = p.Cursor()
	}
	if lt := g.collector.Lifetimes().Get(a.ID()); lt != nil {
		v.Retargets = lt.Retargets
		v.Replans = lt.Replans
		v.Attacks = lt.Attacks
		v.Kills = lt.Kills
		v.DamageDealt = lt.DamageDealt
	}
	return v
}

// applyInspectorAction carries the inspector's buttons and sliders into the agents.
func (g *Game) applyInspectorAction(a *mine.Agent, act ui.InspectorAction) {
	if act.GainsChanged {
		a.SetGains(act.DriveScale, act.CorrectionGain)
	}
	if act.ApplyAll {
		drive, corr := a.Gains()
		for _, other := range g.agents {
			other.SetGains(drive, corr)
		}
		g.log.Info("gains applied to all mines", "drive_scale", drive, "correction_gain", corr, "mines", len(g.agents))
	}
	if act.Stun {
		a.Stun(g.params.AttackStunDuration)
	}
	if act.Revive {
		a.Revive()
	}
}

// overGainPanel reports whether a screen point falls on the mine inspector.
func (g *Game) overGainPanel(p rl.Vector2) bool {
	if g.uiInspector == nil || !g.hasSelection {
		return false
	}
	if _, ok := g.selectedAgent(); !ok {
		return false
	}
	return rl.CheckCollisionPointRec(p, g.uiInspector.Bounds())
}
