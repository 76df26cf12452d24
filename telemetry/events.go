package telemetry

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/rollermine/mine"
)

// EventType identifies a telemetry event.
type EventType string

const (
	EventRetarget      EventType = "retarget"
	EventReplan        EventType = "replan"
	EventAttack        EventType = "attack"
	EventStun          EventType = "stun"
	EventRevive        EventType = "revive"
	EventImpact        EventType = "impact"
	EventMineDeath     EventType = "mine_death"
	EventKill          EventType = "kill"
	EventPropDestroyed EventType = "prop_destroyed"
	EventRespawn       EventType = "respawn"
)

var agentEventTypes = map[mine.EventKind]EventType{
	mine.EventRetarget: EventRetarget,
	mine.EventReplan:   EventReplan,
	mine.EventAttack:   EventAttack,
	mine.EventStun:     EventStun,
	mine.EventRevive:   EventRevive,
	mine.EventImpact:   EventImpact,
	mine.EventDeath:    EventMineDeath,
}

// Event is one row of events.csv.
type Event struct {
	Tick  int32     `csv:"tick"`
	Time  float64   `csv:"time"`
	Type  EventType `csv:"type"`
	Agent uint64    `csv:"agent"`
	Other uint64    `csv:"other"`
	Value float64   `csv:"value"`
	X     float64   `csv:"x"`
	Y     float64   `csv:"y"`
	Z     float64   `csv:"z"`
}

// NewAgentEvent converts a mine transition into a telemetry event.
func NewAgentEvent(tick int32, ev mine.Event) Event {
	typ, ok := agentEventTypes[ev.Kind]
	if !ok {
		typ = EventType(ev.Kind.String())
	}
	return newEvent(tick, ev.Time, typ, uint64(ev.Agent), uint64(ev.Other), ev.Value, ev.Pos)
}

// NewKillEvent records a player killed by a mine. killer is zero when the
// killing blow did not come from a mine.
func NewKillEvent(tick int32, t float64, killer, victim mine.EntityID, pos r3.Vec) Event {
	return newEvent(tick, t, EventKill, uint64(killer), uint64(victim), 0, pos)
}

// NewPropDestroyedEvent records a destructible prop reaching zero health.
func NewPropDestroyedEvent(tick int32, t float64, attacker, prop mine.EntityID, pos r3.Vec) Event {
	return newEvent(tick, t, EventPropDestroyed, uint64(attacker), uint64(prop), 0, pos)
}

// NewRespawnEvent records a player returning to the arena.
func NewRespawnEvent(tick int32, t float64, player mine.EntityID, pos r3.Vec) Event {
	return newEvent(tick, t, EventRespawn, 0, uint64(player), 0, pos)
}

func newEvent(tick int32, t float64, typ EventType, agent, other uint64, value float64, pos r3.Vec) Event {
	return Event{
		Tick:  tick,
		Time:  t,
		Type:  typ,
		Agent: agent,
		Other: other,
		Value: value,
		X:     pos.X,
		Y:     pos.Y,
		Z:     pos.Z,
	}
}
