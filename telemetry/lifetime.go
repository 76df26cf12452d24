package telemetry

import (
	"maps"
	"slices"

	"github.com/pthm-cable/rollermine/mine"
)

// LifetimeStats tracks one mine over its lifetime.
type LifetimeStats struct {
	Agent       uint64  `csv:"agent"`
	Retargets   int     `csv:"retargets"`
	Replans     int     `csv:"replans"`
	Attacks     int     `csv:"attacks"`
	Stuns       int     `csv:"stuns"`
	Impacts     int     `csv:"impacts"`
	Kills       int     `csv:"kills"`
	DamageDealt float64 `csv:"damage_dealt"`
	StunnedSec  float64 `csv:"stunned_sec"`
	Dead        bool    `csv:"dead"`
	DiedAt      float64 `csv:"died_at"`
}

// LifetimeTracker manages per-mine lifetime statistics.
type LifetimeTracker struct {
	stats map[mine.EntityID]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[mine.EntityID]*LifetimeStats),
	}
}

func (lt *LifetimeTracker) entry(id mine.EntityID) *LifetimeStats {
	s, ok := lt.stats[id]
	if !ok {
		s = &LifetimeStats{Agent: uint64(id)}
		lt.stats[id] = s
	}
	return s
}

// Get returns the stats for a mine, or nil if it has not been seen.
func (lt *LifetimeTracker) Get(id mine.EntityID) *LifetimeStats {
	return lt.stats[id]
}

// Record folds an agent event into the agent's entry.
func (lt *LifetimeTracker) Record(ev mine.Event) {
	s := lt.entry(ev.Agent)
	switch ev.Kind {
	case mine.EventRetarget:
		s.Retargets++
	case mine.EventReplan:
		s.Replans++
	case mine.EventAttack:
		s.Attacks++
		s.DamageDealt += ev.Value
	case mine.EventStun:
		s.Stuns++
		s.StunnedSec += ev.Value
	case mine.EventImpact:
		s.Impacts++
		s.DamageDealt += ev.Value
	case mine.EventDeath:
		s.Dead = true
		s.DiedAt = ev.Time
	}
}

// RecordKill credits a kill to a mine. Zero ids are ignored.
func (lt *LifetimeTracker) RecordKill(id mine.EntityID) {
	if id == 0 {
		return
	}
	lt.entry(id).Kills++
}

// All returns every entry ordered by agent id.
func (lt *LifetimeTracker) All() []LifetimeStats {
	ids := slices.Sorted(maps.Keys(lt.stats))
	out := make([]LifetimeStats, 0, len(ids))
	for _, id := range ids {
		out = append(out, *lt.stats[id])
	}
	return out
}

// Count returns the number of tracked mines.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
