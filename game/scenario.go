package game

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/rollermine/config"
	"github.com/pthm-cable/rollermine/telemetry"
)

// Scenario is a one-mine, one-player pursuit run used to score gains.
type Scenario struct {
	Seed           int64
	DriveScale     float64
	CorrectionGain float64
	MaxTicks       int
	StartDistance  float64 // Initial mine-to-player distance
}

// ScenarioResult summarises a pursuit run.
type ScenarioResult struct {
	Ticks         int
	Contact       bool    // The mine landed an attack
	TimeToContact float64 // Sim seconds to the first attack; the full run when no contact
	OrbitRatio    float64
	MeanDistance  float64
	Attacks       int
}

// RunScenario plays s headless on a copy of cfg and stops at the first attack.
func RunScenario(cfg *config.Config, s Scenario) ScenarioResult {
	run := *cfg
	run.World.Mines = 0
	run.World.Players = 0
	run.World.Props = 0
	run.Mine.DriveScale = s.DriveScale
	run.Mine.CorrectionGain = s.CorrectionGain
	run.Sound.Enabled = false
	run.Viz.Addr = ""
	// One window spans the run so Flush reports it whole
	run.Telemetry.StatsWindow = float64(s.MaxTicks+1) * cfg.Physics.DT

	g := newGame(&run, Options{
		Seed:     s.Seed,
		Headless: true,
		Logger:   slog.New(slog.DiscardHandler),
	})
	defer g.Unload()

	minePos, playerPos := g.scenarioPositions(s.StartDistance)
	m := g.spawnMine(minePos)
	g.spawnPlayer(playerPos)

	res := ScenarioResult{}
	for res.Ticks < s.MaxTicks {
		g.UpdateHeadless()
		res.Ticks++
		if lt := g.collector.Lifetimes().Get(m.ID()); lt != nil && lt.Attacks > 0 {
			res.Contact = true
			res.Attacks = lt.Attacks
			break
		}
	}
	res.TimeToContact = g.simTime

	stats := g.collector.Flush(g.tick, g.simTime, telemetry.Population{})
	res.OrbitRatio = stats.OrbitRatio
	res.MeanDistance = stats.PursuitMean
	return res
}

// scenarioPositions places the pair either side of the arena centre along a
// seeded bearing, falling back to random open points.
func (g *Game) scenarioPositions(distance float64) (minePos, playerPos r3.Vec) {
	mr, pr := g.cfg.Physics.MineRadius, g.cfg.Physics.PlayerRadius
	centre := r3.Vec{X: g.cfg.World.Width / 2, Y: g.cfg.World.Height / 2}
	for range spawnAttempts {
		bearing := g.rng.Float64() * 2 * math.Pi
		dir := r3.Vec{X: math.Cos(bearing), Y: math.Sin(bearing)}
		minePos = r3.Sub(centre, r3.Scale(distance/2, dir))
		playerPos = r3.Add(centre, r3.Scale(distance/2, dir))
		if g.inArena(minePos) && g.inArena(playerPos) && g.clearAt(minePos, mr) && g.clearAt(playerPos, pr) {
			return minePos, playerPos
		}
	}
	minePos, _ = g.openPosition(mr)
	playerPos, _ = g.openPosition(pr)
	return minePos, playerPos
}
