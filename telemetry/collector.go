package telemetry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/rollermine/mine"
)

// Collector accumulates events and pursuit samples over a stats window.
// It is the mine.EventSink the game hands to every agent.
type Collector struct {
	windowDurationTicks int32
	windowStartTick     int32
	tick                int32
	dt                  float64

	// Orbit detection: a sample is "close" inside closeRadius and "orbiting"
	// when its speed across the line of sight exceeds orbitSpeed.
	closeRadius float64
	orbitSpeed  float64

	// Window counters
	retargets      int
	replans        int
	attacks        int
	stuns          int
	revives        int
	impacts        int
	kills          int
	mineDeaths     int
	propsDestroyed int
	respawns       int
	damageDealt    float64

	pursuitDist []float64
	closeTicks  int
	orbitTicks  int

	pending   []Event
	lifetimes *LifetimeTracker
}

// NewCollector creates a collector with the given window duration.
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticks := int32(math.Round(windowDurationSec / dt))
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{
		windowDurationTicks: ticks,
		dt:                  dt,
		lifetimes:           NewLifetimeTracker(),
	}
}

// SetOrbitThresholds configures orbit detection for RecordPursuit.
func (c *Collector) SetOrbitThresholds(closeRadius, lateralSpeed float64) {
	c.closeRadius = closeRadius
	c.orbitSpeed = lateralSpeed
}

// SetTick stamps subsequent events with tick.
func (c *Collector) SetTick(tick int32) { c.tick = tick }

// Lifetimes returns the per-mine tracker fed by this collector.
func (c *Collector) Lifetimes() *LifetimeTracker { return c.lifetimes }

// RecordAgentEvent implements mine.EventSink.
func (c *Collector) RecordAgentEvent(ev mine.Event) {
	switch ev.Kind {
	case mine.EventRetarget:
		c.retargets++
	case mine.EventReplan:
		c.replans++
	case mine.EventAttack:
		c.attacks++
		c.damageDealt += ev.Value
	case mine.EventStun:
		c.stuns++
	case mine.EventRevive:
		c.revives++
	case mine.EventImpact:
		c.impacts++
		c.damageDealt += ev.Value
	case mine.EventDeath:
		c.mineDeaths++
	}
	c.lifetimes.Record(ev)
	c.pending = append(c.pending, NewAgentEvent(c.tick, ev))
}

// RecordKill counts a player killed by mine killer.
func (c *Collector) RecordKill(t float64, killer, victim mine.EntityID, pos r3.Vec) {
	c.kills++
	c.lifetimes.RecordKill(killer)
	c.pending = append(c.pending, NewKillEvent(c.tick, t, killer, victim, pos))
}

// RecordPropDestroyed counts a destroyed prop.
func (c *Collector) RecordPropDestroyed(t float64, attacker, prop mine.EntityID, pos r3.Vec) {
	c.propsDestroyed++
	c.pending = append(c.pending, NewPropDestroyedEvent(c.tick, t, attacker, prop, pos))
}

// RecordRespawn counts a player respawn.
func (c *Collector) RecordRespawn(t float64, player mine.EntityID, pos r3.Vec) {
	c.respawns++
	c.pending = append(c.pending, NewRespawnEvent(c.tick, t, player, pos))
}

// RecordPursuit samples one pursuing mine: its distance to the target and
// its speed perpendicular to the line of sight.
func (c *Collector) RecordPursuit(distance, lateralSpeed float64) {
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		return
	}
	c.pursuitDist = append(c.pursuitDist, distance)
	if c.closeRadius > 0 && distance < c.closeRadius {
		c.closeTicks++
		if c.orbitSpeed > 0 && lateralSpeed > c.orbitSpeed {
			c.orbitTicks++
		}
	}
}

// DrainEvents returns the events recorded since the last drain.
func (c *Collector) DrainEvents() []Event {
	out := c.pending
	c.pending = nil
	return out
}

// ShouldFlush returns true if the window duration has elapsed.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Population is the entity census at window end.
type Population struct {
	Mines        int
	MinesStunned int
	Players      int
	Props        int
}

// Flush computes the window stats and resets the counters.
func (c *Collector) Flush(currentTick int32, simTimeSec float64, pop Population) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTimeSec,
		Mines:           pop.Mines,
		MinesStunned:    pop.MinesStunned,
		Players:         pop.Players,
		Props:           pop.Props,
		Retargets:       c.retargets,
		Replans:         c.replans,
		Attacks:         c.attacks,
		Stuns:           c.stuns,
		Revives:         c.revives,
		Impacts:         c.impacts,
		Kills:           c.kills,
		MineDeaths:      c.mineDeaths,
		PropsDestroyed:  c.propsDestroyed,
		Respawns:        c.respawns,
		DamageDealt:     c.damageDealt,
		PursuitSamples:  len(c.pursuitDist),
	}

	stats.PursuitMean, stats.PursuitP50, stats.PursuitP90 = ComputeDistanceStats(c.pursuitDist)
	if c.closeTicks > 0 {
		stats.OrbitRatio = float64(c.orbitTicks) / float64(c.closeTicks)
	}
	if minutes := float64(currentTick-c.windowStartTick) * c.dt / 60; minutes > 0 {
		stats.AttacksPerMinute = float64(c.attacks) / minutes
	}

	c.windowStartTick = currentTick
	c.retargets = 0
	c.replans = 0
	c.attacks = 0
	c.stuns = 0
	c.revives = 0
	c.impacts = 0
	c.kills = 0
	c.mineDeaths = 0
	c.propsDestroyed = 0
	c.respawns = 0
	c.damageDealt = 0
	c.pursuitDist = c.pursuitDist[:0]
	c.closeTicks = 0
	c.orbitTicks = 0

	return stats
}

// WindowDurationTicks returns the window length in ticks.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
