package components

import (
	"github.com/pthm-cable/rollermine/mine"
	"github.com/pthm-cable/rollermine/traits"
)

// Identity is an entity's stable id and tag set.
type Identity struct {
	ID   mine.EntityID
	Tags traits.Trait
}

// Health tracks damage for players and props. Mines keep their own health.
type Health struct {
	Value        float64
	Max          float64
	Alive        bool
	LastAttacker mine.EntityID // zero when the last hit had no attacker
}

// Wander drives a player: a heading held for Timer seconds.
type Wander struct {
	Heading float64 // radians
	Timer   float64 // seconds until a new heading is picked
}

// Rollermine attaches the pursuit agent to a mine entity.
type Rollermine struct {
	Agent *mine.Agent
}
