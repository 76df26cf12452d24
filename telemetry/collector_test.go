package telemetry

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/rollermine/mine"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(10, 1.0/60)
	if c.WindowDurationTicks() != 600 {
		t.Fatalf("WindowDurationTicks = %d, want 600", c.WindowDurationTicks())
	}
	if c.ShouldFlush(599) {
		t.Error("flush before window elapsed")
	}
	if !c.ShouldFlush(600) {
		t.Error("no flush at window end")
	}
}

func TestCollectorCountsAndResets(t *testing.T) {
	c := NewCollector(10, 1.0/60)
	c.SetTick(30)

	for _, ev := range []mine.Event{
		{Kind: mine.EventRetarget, Agent: 1, Other: 7},
		{Kind: mine.EventReplan, Agent: 1, Other: 7, Value: 3},
		{Kind: mine.EventAttack, Agent: 1, Other: 7, Value: 15},
		{Kind: mine.EventStun, Agent: 1, Value: 2},
		{Kind: mine.EventAttack, Agent: 2, Other: 8, Value: 15},
		{Kind: mine.EventImpact, Agent: 2, Other: 8, Value: 12},
	} {
		c.RecordAgentEvent(ev)
	}
	c.RecordKill(1.5, 1, 7, r3.Vec{})

	stats := c.Flush(600, 10, Population{Mines: 2, Players: 2})
	if stats.Attacks != 2 || stats.Stuns != 1 || stats.Retargets != 1 || stats.Replans != 1 || stats.Impacts != 1 || stats.Kills != 1 {
		t.Errorf("counters = %+v", stats)
	}
	if math.Abs(stats.DamageDealt-42) > 1e-9 {
		t.Errorf("DamageDealt = %v, want 42", stats.DamageDealt)
	}
	if math.Abs(stats.AttacksPerMinute-12) > 1e-9 {
		t.Errorf("AttacksPerMinute = %v, want 12", stats.AttacksPerMinute)
	}

	events := c.DrainEvents()
	if len(events) != 7 {
		t.Fatalf("drained %d events, want 7", len(events))
	}
	if events[2].Type != EventAttack || events[2].Tick != 30 || events[2].Other != 7 {
		t.Errorf("attack event = %+v", events[2])
	}
	if events[6].Type != EventKill || events[6].Agent != 1 || events[6].Other != 7 {
		t.Errorf("kill event = %+v", events[6])
	}
	if len(c.DrainEvents()) != 0 {
		t.Error("drain should empty the buffer")
	}

	next := c.Flush(1200, 20, Population{})
	if next.Attacks != 0 || next.Kills != 0 || next.DamageDealt != 0 || next.WindowStartTick != 600 {
		t.Errorf("counters not reset: %+v", next)
	}

	lt := c.Lifetimes().Get(1)
	if lt == nil || lt.Attacks != 1 || lt.Kills != 1 || lt.Stuns != 1 || lt.StunnedSec != 2 {
		t.Errorf("lifetime for mine 1 = %+v", lt)
	}
}

func TestCollectorOrbitRatio(t *testing.T) {
	c := NewCollector(10, 1.0/60)
	c.SetOrbitThresholds(256, 120)

	c.RecordPursuit(100, 200) // close, orbiting
	c.RecordPursuit(100, 50)  // close, closing in
	c.RecordPursuit(200, 300) // close, orbiting
	c.RecordPursuit(900, 400) // far, ignored for orbit
	c.RecordPursuit(math.NaN(), 0)

	stats := c.Flush(600, 10, Population{})
	if stats.PursuitSamples != 4 {
		t.Errorf("PursuitSamples = %d, want 4", stats.PursuitSamples)
	}
	if math.Abs(stats.OrbitRatio-2.0/3) > 1e-9 {
		t.Errorf("OrbitRatio = %v, want 2/3", stats.OrbitRatio)
	}
	if math.Abs(stats.PursuitMean-325) > 1e-9 {
		t.Errorf("PursuitMean = %v, want 325", stats.PursuitMean)
	}
}

func TestNewAgentEventMapping(t *testing.T) {
	tests := []struct {
		kind mine.EventKind
		want EventType
	}{
		{mine.EventRetarget, EventRetarget},
		{mine.EventRevive, EventRevive},
		{mine.EventDeath, EventMineDeath},
	}
	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			ev := NewAgentEvent(5, mine.Event{Kind: tt.kind, Agent: 3, Pos: r3.Vec{X: 1, Y: 2, Z: 3}})
			if ev.Type != tt.want || ev.Agent != 3 || ev.Tick != 5 || ev.Z != 3 {
				t.Errorf("event = %+v", ev)
			}
		})
	}
}
