package mine

import "math"

// StunState is the derived control state of an agent.
type StunState uint8

const (
	Active StunState = iota
	Stunned
)

func (s StunState) String() string {
	if s == Stunned {
		return "stunned"
	}
	return "active"
}

// StunWindow holds the absolute revive time. The agent is stunned while
// now <= reviveAt. Overlapping stuns overwrite each other, so a shorter
// stun can end a longer one early.
type StunWindow struct {
	reviveAt float64
	armed    bool
}

// Stun sets the revive time to now + duration.
func (w *StunWindow) Stun(now, duration float64) {
	w.reviveAt = now + duration
	w.armed = true
}

// Revive ends any stun immediately.
func (w *StunWindow) Revive() {
	w.reviveAt = math.Inf(-1)
	w.armed = false
}

// IsStunned reports whether now falls inside the window.
func (w *StunWindow) IsStunned(now float64) bool {
	return w.armed && now <= w.reviveAt
}

// State returns the state at now.
func (w *StunWindow) State(now float64) StunState {
	if w.IsStunned(now) {
		return Stunned
	}
	return Active
}

// ReviveAt returns the revive time, or -Inf if never stunned or revived.
func (w *StunWindow) ReviveAt() float64 {
	if !w.armed {
		return math.Inf(-1)
	}
	return w.reviveAt
}
