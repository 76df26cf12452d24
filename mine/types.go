// Package mine implements the rollermine pursuit agent: target selection,
// path following, torque steering, stun gating, collision damage and the
// motion-linked rolling sound.
//
// Everything outside the agent (physics, navigation, entity registry,
// audio) is consumed through the small interfaces declared here.
package mine

import "gonum.org/v1/gonum/spatial/r3"

// EntityID identifies a world entity independently of its Go value.
type EntityID uint64

// Up is the world's vertical axis.
var Up = r3.Vec{Z: 1}

// Targetable is anything a mine can pursue or strike.
type Targetable interface {
	ID() EntityID
	Position() r3.Vec
	IsAlive() bool
	HasTag(tag string) bool
}

// Damageable receives damage from a mine.
type Damageable interface {
	TakeDamage(info DamageInfo)
}

// Registry enumerates pursuit candidates and resolves held target IDs.
type Registry interface {
	Candidates() []Targetable
	Lookup(id EntityID) (Targetable, bool)
}

// Actuator is the rigid body driving a mine.
type Actuator interface {
	Position() r3.Vec
	Velocity() r3.Vec
	AngularVelocity() r3.Vec
	Mass() float64
	ApplyTorque(torque r3.Vec)
	ApplyImpulseAt(point, impulse r3.Vec)
	ApplyForce(force r3.Vec)
}

// PathQuery bounds a navigation search.
type PathQuery struct {
	MaxClimb     float64
	StepHeight   float64
	MaxDistance  float64
	AllowPartial bool
}

// Navigator builds waypoint paths. The result may be empty or stop short of to.
type Navigator interface {
	BuildPath(from, to r3.Vec, q PathQuery) []r3.Vec
}

// SoundHandle controls one playing sound.
type SoundHandle interface {
	SetVolume(v float64)
	SetPitch(p float64)
	Stop()
}

// AudioService starts looping sounds attached to an entity.
type AudioService interface {
	PlayLoopingSound(id string, owner EntityID) SoundHandle
}

// Clock reports simulation time in seconds.
type Clock interface {
	Now() float64
}

// EventSink receives notable agent transitions for telemetry.
type EventSink interface {
	RecordAgentEvent(ev Event)
}

// EventKind classifies an agent Event.
type EventKind uint8

const (
	EventRetarget EventKind = iota
	EventReplan
	EventAttack
	EventStun
	EventRevive
	EventImpact
	EventDeath
)

var eventKindNames = [...]string{
	EventRetarget: "retarget",
	EventReplan:   "replan",
	EventAttack:   "attack",
	EventStun:     "stun",
	EventRevive:   "revive",
	EventImpact:   "impact",
	EventDeath:    "death",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event is a single agent transition.
type Event struct {
	Kind  EventKind
	Agent EntityID
	Other EntityID // zero when not applicable
	Time  float64
	Value float64 // damage, stun duration or waypoint count depending on Kind
	Pos   r3.Vec
}

type nopAudio struct{}

func (nopAudio) PlayLoopingSound(string, EntityID) SoundHandle { return nopHandle{} }

type nopHandle struct{}

func (nopHandle) SetVolume(float64) {}
func (nopHandle) SetPitch(float64)  {}
func (nopHandle) Stop()             {}

type nopEvents struct{}

func (nopEvents) RecordAgentEvent(Event) {}

type nopRegistry struct{}

func (nopRegistry) Candidates() []Targetable           { return nil }
func (nopRegistry) Lookup(EntityID) (Targetable, bool) { return nil, false }
