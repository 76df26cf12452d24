package game

import (
	"testing"

	"github.com/pthm-cable/rollermine/mine"
	"github.com/pthm-cable/rollermine/telemetry"
)

func eventCount(events []telemetry.Event, typ telemetry.EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestPlayerRespawnsUnderNewID(t *testing.T) {
	g := newEmptyGame(t)
	m := g.spawnMine(at(500, 500))
	old := g.spawnPlayer(at(800, 500))

	g.mustLookup(t, old).(mine.Damageable).TakeDamage(mine.Generic(1e6).WithAttacker(m.ID()))
	g.cleanupDead()

	if _, ok := g.entities[old]; ok {
		t.Fatal("dead player still registered")
	}
	if len(g.respawns) != 1 {
		t.Fatalf("pending respawns = %d, want 1", len(g.respawns))
	}
	if lt := g.collector.Lifetimes().Get(m.ID()); lt == nil || lt.Kills != 1 {
		t.Errorf("killer lifetime = %+v, want 1 kill", lt)
	}

	// Not yet due
	g.processRespawns()
	if got := g.Population().Players; got != 0 {
		t.Fatalf("players before delay = %d, want 0", got)
	}

	g.simTime += g.cfg.Player.RespawnDelay
	g.processRespawns()
	if len(g.respawns) != 0 {
		t.Errorf("pending respawns = %d after delay", len(g.respawns))
	}
	if got := g.Population().Players; got != 1 {
		t.Fatalf("players after delay = %d, want 1", got)
	}

	cands := g.registry.Candidates()
	newest := cands[len(cands)-1]
	if newest.ID() <= old || !newest.HasTag("player") {
		t.Errorf("respawned player id = %d, want a fresh id above %d", newest.ID(), old)
	}

	events := g.collector.DrainEvents()
	if eventCount(events, telemetry.EventKill) != 1 || eventCount(events, telemetry.EventRespawn) != 1 {
		t.Errorf("events = %+v, want one kill and one respawn", events)
	}
}

func TestCleanupDeadRemovesPropsAndMines(t *testing.T) {
	g := newEmptyGame(t)
	m := g.spawnMine(at(500, 500))
	keep := g.spawnMine(at(900, 500))
	prop := g.spawnProp(at(1500, 1500))

	g.selected = m.ID()
	g.hasSelection = true

	m.TakeDamage(mine.Generic(1e6))
	g.mustLookup(t, prop).(mine.Damageable).TakeDamage(mine.Generic(1e6).WithAttacker(keep.ID()))
	g.syncBodies()
	g.cleanupDead()

	if len(g.agents) != 1 || g.agents[0] != keep {
		t.Errorf("agents after cleanup = %d, want only mine %d", len(g.agents), keep.ID())
	}
	if g.hasSelection {
		t.Error("selection of a removed mine was kept")
	}
	if got := len(g.physics.Bodies()); got != 1 {
		t.Errorf("physics bodies = %d, want 1", got)
	}
	if len(g.respawns) != 0 {
		t.Error("props and mines must not respawn")
	}

	events := g.collector.DrainEvents()
	if eventCount(events, telemetry.EventPropDestroyed) != 1 {
		t.Errorf("prop destroyed events = %d, want 1", eventCount(events, telemetry.EventPropDestroyed))
	}
	if eventCount(events, telemetry.EventMineDeath) != 1 {
		t.Errorf("mine death events = %d, want 1", eventCount(events, telemetry.EventMineDeath))
	}
}

func TestCycleSelection(t *testing.T) {
	g := newEmptyGame(t)
	a := g.spawnMine(at(300, 300))
	g.spawnPlayer(at(600, 300))
	b := g.spawnMine(at(900, 300))

	g.cycleSelection()
	if !g.hasSelection || g.selected != a.ID() {
		t.Fatalf("first cycle selected %d, want %d", g.selected, a.ID())
	}
	g.cycleSelection()
	if g.selected != b.ID() {
		t.Fatalf("second cycle selected %d, want %d", g.selected, b.ID())
	}
	g.cycleSelection()
	if g.selected != a.ID() {
		t.Errorf("cycle did not wrap: selected %d", g.selected)
	}

	if _, ok := g.selectedAgent(); !ok {
		t.Error("selectedAgent failed for a mine")
	}
}

func TestFindEntityAt(t *testing.T) {
	g := newEmptyGame(t)
	m := g.spawnMine(at(300, 300))
	p := g.spawnPlayer(at(400, 300))

	tests := []struct {
		name   string
		x, y   float64
		wantID mine.EntityID
		found  bool
	}{
		{"mine centre", 300, 300, m.ID(), true},
		{"inside player", 410, 305, p, true},
		{"slack edge", 300, 300 + g.cfg.Physics.MineRadius + 3, m.ID(), true},
		{"empty floor", 1000, 1000, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.findEntityAt(tt.x, tt.y, 4)
			if (got != nil) != tt.found {
				t.Fatalf("found = %v, want %v", got != nil, tt.found)
			}
			if got != nil && got.ID != tt.wantID {
				t.Errorf("picked %d, want %d", got.ID, tt.wantID)
			}
		})
	}
}
