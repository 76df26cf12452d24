package mine

import (
	"io"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"
)

type impulse struct {
	point, impulse r3.Vec
}

// fakeBody records applied actuation without simulating anything.
type fakeBody struct {
	pos, vel, ang r3.Vec
	mass          float64
	torques       []r3.Vec
	impulses      []impulse
	forces        []r3.Vec
}

func (b *fakeBody) Position() r3.Vec        { return b.pos }
func (b *fakeBody) Velocity() r3.Vec        { return b.vel }
func (b *fakeBody) AngularVelocity() r3.Vec { return b.ang }
func (b *fakeBody) Mass() float64           { return b.mass }
func (b *fakeBody) ApplyTorque(t r3.Vec)    { b.torques = append(b.torques, t) }
func (b *fakeBody) ApplyForce(f r3.Vec)     { b.forces = append(b.forces, f) }
func (b *fakeBody) ApplyImpulseAt(point, imp r3.Vec) {
	b.impulses = append(b.impulses, impulse{point, imp})
}

// fakeTarget is a targetable, damageable entity.
type fakeTarget struct {
	id     EntityID
	pos    r3.Vec
	alive  bool
	tags   []string
	damage []DamageInfo
}

func newPlayer(id EntityID, pos r3.Vec) *fakeTarget {
	return &fakeTarget{id: id, pos: pos, alive: true, tags: []string{"player"}}
}

func (t *fakeTarget) ID() EntityID     { return t.id }
func (t *fakeTarget) Position() r3.Vec { return t.pos }
func (t *fakeTarget) IsAlive() bool    { return t.alive }
func (t *fakeTarget) HasTag(tag string) bool {
	for _, have := range t.tags {
		if have == tag {
			return true
		}
	}
	return false
}
func (t *fakeTarget) TakeDamage(info DamageInfo) { t.damage = append(t.damage, info) }

func (t *fakeTarget) totalDamage() float64 {
	sum := 0.0
	for _, d := range t.damage {
		sum += d.Amount
	}
	return sum
}

type fakeRegistry struct {
	targets []*fakeTarget
}

func (r *fakeRegistry) Candidates() []Targetable {
	out := make([]Targetable, len(r.targets))
	for i, t := range r.targets {
		out[i] = t
	}
	return out
}

func (r *fakeRegistry) Lookup(id EntityID) (Targetable, bool) {
	for _, t := range r.targets {
		if t.id == id {
			return t, true
		}
	}
	return nil, false
}

// spySelector counts calls and delegates to NearestSelector.
type spySelector struct {
	calls int
	inner NearestSelector
}

func (s *spySelector) SelectTarget(c []Targetable, from r3.Vec, maxRange float64) (Targetable, bool) {
	s.calls++
	return s.inner.SelectTarget(c, from, maxRange)
}

// straightNav returns a two-point path, or a fixed result when set.
type straightNav struct {
	calls  int
	fixed  []r3.Vec
	useFix bool
}

func (n *straightNav) BuildPath(from, to r3.Vec, q PathQuery) []r3.Vec {
	n.calls++
	if n.useFix {
		return n.fixed
	}
	return []r3.Vec{from, to}
}

type fakeClock struct{ t float64 }

func (c *fakeClock) Now() float64 { return c.t }

type fakeHandle struct {
	volume, pitch float64
	stopped       bool
}

func (h *fakeHandle) SetVolume(v float64) { h.volume = v }
func (h *fakeHandle) SetPitch(p float64)  { h.pitch = p }
func (h *fakeHandle) Stop()               { h.stopped = true }

type fakeAudio struct {
	started []*fakeHandle
}

func (a *fakeAudio) PlayLoopingSound(id string, owner EntityID) SoundHandle {
	h := &fakeHandle{}
	a.started = append(a.started, h)
	return h
}

type eventLog struct {
	events []Event
}

func (l *eventLog) RecordAgentEvent(ev Event) { l.events = append(l.events, ev) }

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, ev := range l.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// rig bundles an agent with its fakes.
type rig struct {
	agent    *Agent
	body     *fakeBody
	registry *fakeRegistry
	selector *spySelector
	nav      *straightNav
	audio    *fakeAudio
	clock    *fakeClock
	events   *eventLog
}

func newRig(p Params, targets ...*fakeTarget) *rig {
	r := &rig{
		body:     &fakeBody{mass: 1800},
		registry: &fakeRegistry{targets: targets},
		selector: &spySelector{inner: NearestSelector{HostileTag: p.HostileTag}},
		nav:      &straightNav{},
		audio:    &fakeAudio{},
		clock:    &fakeClock{},
		events:   &eventLog{},
	}
	r.agent = New(1, r.body, p, Deps{
		Registry:  r.registry,
		Navigator: r.nav,
		Audio:     r.audio,
		Clock:     r.clock,
		Selector:  r.selector,
		Events:    r.events,
		Logger:    quietLogger(),
	})
	return r
}

// tick advances the fake clock by dt and ticks the agent.
func (r *rig) tick(dt float64) {
	r.clock.t += dt
	r.agent.Tick(dt, r.clock.t)
}

func finiteAll(vs []r3.Vec) bool {
	for _, v := range vs {
		if !finite(v) {
			return false
		}
	}
	return true
}
