package mine

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r3"
)

// Deps are the collaborators an Agent consumes. Nil fields fall back to
// inert defaults.
type Deps struct {
	Registry  Registry
	Navigator Navigator
	Audio     AudioService
	Clock     Clock
	Selector  Selector
	Events    EventSink
	Logger    *slog.Logger
}

// Collision is one contact reported by the physics host.
type Collision struct {
	Other       Targetable // nil for walls and terrain
	Impact      ImpactData // the struck model's profile; zero uses the agent's own
	Point       r3.Vec
	Normal      r3.Vec // from the agent toward Other
	Speed       float64
	PreVelocity r3.Vec // agent velocity before the contact was resolved
}

// Agent is a single rollermine.
type Agent struct {
	id     EntityID
	body   Actuator
	params Params

	registry Registry
	audio    AudioService
	clock    Clock
	selector Selector
	events   EventSink
	log      *slog.Logger

	follower PathFollower
	steering Steering
	stun     StunWindow
	sound    MotionSound

	health float64
	alive  bool

	target    EntityID
	hasTarget bool
	path      *Path

	sinceTarget float64
	sincePlan   float64
	now         float64
	spikesOpen  bool
}

// New creates an agent driving body.
func New(id EntityID, body Actuator, p Params, deps Deps) *Agent {
	if deps.Registry == nil {
		deps.Registry = nopRegistry{}
	}
	if deps.Audio == nil {
		deps.Audio = nopAudio{}
	}
	if deps.Selector == nil {
		deps.Selector = NearestSelector{HostileTag: p.HostileTag}
	}
	if deps.Events == nil {
		deps.Events = nopEvents{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	a := &Agent{
		id:       id,
		body:     body,
		params:   p,
		registry: deps.Registry,
		audio:    deps.Audio,
		clock:    deps.Clock,
		selector: deps.Selector,
		events:   deps.Events,
		log:      deps.Logger.With("mine", uint64(id)),
		follower: PathFollower{
			Nav:              deps.Navigator,
			Query:            p.pathQuery(),
			Interval:         p.PathInterval,
			ArrivalTolerance: p.ArrivalTolerance,
		},
		steering: Steering{
			BaseDrive:      p.BaseDrive,
			DriveScale:     p.DriveScale,
			CorrectionGain: p.CorrectionGain,
		},
		sound: MotionSound{
			ID:         p.SoundID,
			Factor:     p.SoundFactor,
			Epsilon:    p.SoundEpsilon,
			UpperLimit: p.SoundUpperLimit,
		},
		health: p.Health,
		alive:  p.Health > 0,
	}
	if deps.Clock != nil {
		a.now = deps.Clock.Now()
	}
	return a
}

// Tick advances the agent by one fixed step ending at now.
func (a *Agent) Tick(dt, now float64) {
	a.now = now
	a.sinceTarget += dt
	a.sincePlan += dt

	if !a.alive {
		a.sound.Stop()
		return
	}

	if a.stun.IsStunned(now) {
		a.spikesOpen = false
	} else {
		a.think()
	}

	a.updateSound()
}

func (a *Agent) think() {
	if a.shouldUpdateTarget() {
		a.acquireTarget()
	}

	t, ok := a.Target()
	if !ok {
		a.path = nil
		a.spikesOpen = false
		return
	}

	pos := a.body.Position()
	goal := t.Position()
	next, lookahead, steer := a.follower.Advance(a.path, pos, goal, a.sincePlan)
	if next != a.path {
		a.sincePlan = 0
		a.emit(EventReplan, t.ID(), float64(next.Len()))
	}
	a.path = next

	if steer {
		a.steering.Steer(a.body, lookahead)
	}
	a.spikesOpen = r3.Norm(r3.Sub(goal, pos)) < a.params.SpikeRadius
}

func (a *Agent) shouldUpdateTarget() bool {
	if a.sinceTarget > a.params.TargetInterval {
		return true
	}
	_, ok := a.Target()
	return !ok
}

func (a *Agent) acquireTarget() {
	t, ok := a.selector.SelectTarget(a.registry.Candidates(), a.body.Position(), a.params.MaxRange)
	if !ok || t == nil {
		if a.hasTarget {
			a.log.Debug("target lost", "target", uint64(a.target))
		}
		a.hasTarget = false
		a.target = 0
		return
	}

	if !a.hasTarget || a.target != t.ID() {
		a.log.Debug("retarget", "target", uint64(t.ID()))
		a.emit(EventRetarget, t.ID(), r3.Norm(r3.Sub(t.Position(), a.body.Position())))
		a.path = nil
	}
	a.target = t.ID()
	a.hasTarget = true
	a.sinceTarget = 0
}

// Target resolves the held target, returning false when there is none or
// it no longer satisfies CanTarget.
func (a *Agent) Target() (Targetable, bool) {
	if !a.hasTarget {
		return nil, false
	}
	t, ok := a.registry.Lookup(a.target)
	if !ok || !a.canTarget(t) {
		return nil, false
	}
	return t, true
}

func (a *Agent) canTarget(t Targetable) bool {
	return CanTarget(t, a.body.Position(), a.params.MaxRange, a.params.HostileTag)
}

func (a *Agent) updateSound() {
	speed := r3.Norm(a.body.Velocity())
	a.sound.Update(a.audio, a.id, a.sound.Intensity(speed), a.stun.IsStunned(a.now))
}

// OnCollision reacts to a contact between the agent and c.Other.
func (a *Agent) OnCollision(c Collision) {
	if !a.alive {
		return
	}
	now := a.currentTime()

	impact := c.Impact
	if impact.ImpactDamage <= 0 && impact.MinImpactSpeed <= 0 {
		impact = ImpactData{ImpactDamage: a.params.ImpactDamage, MinImpactSpeed: a.params.MinImpactSpeed}
	}
	impact = impact.resolve(a.params)

	var victim Damageable
	if c.Other != nil && c.Other.IsAlive() {
		victim, _ = c.Other.(Damageable)
	}

	if c.Speed > impact.MinImpactSpeed {
		dmg := c.Speed / impact.MinImpactSpeed * impact.ImpactDamage
		if a.health > 0 {
			a.TakeDamage(Generic(dmg).WithTag(TagPhysicsImpact).WithPosition(c.Point))
		}
		if victim != nil {
			victim.TakeDamage(Generic(dmg * a.params.CounterpartMultiplier).
				WithTag(TagPhysicsImpact).
				WithAttacker(a.id).
				WithPosition(c.Point).
				WithForce(c.PreVelocity))
		}
		a.emit(EventImpact, otherID(c.Other), dmg)
		if !a.alive {
			return
		}
	}

	if c.Other == nil {
		return
	}

	if !a.stun.IsStunned(now) && a.canTarget(c.Other) {
		a.attack(c, victim)
		return
	}

	if a.spikesOpen && victim != nil && c.Other.HasTag(a.params.DestructibleTag) {
		victim.TakeDamage(Generic(a.params.SpikeDamage).
			WithTag(TagSpike).
			WithAttacker(a.id).
			WithPosition(c.Point))
	}
}

func (a *Agent) attack(c Collision, victim Damageable) {
	if victim != nil {
		victim.TakeDamage(Generic(a.params.AttackDamage).
			WithTag(TagAttack).
			WithAttacker(a.id).
			WithPosition(c.Point))
	}

	back := r3.Add(r3.Scale(-1, flatten(c.Normal)), r3.Scale(a.params.KnockbackLift, Up))
	if dir, ok := safeUnit(back); ok {
		a.body.ApplyImpulseAt(a.body.Position(), r3.Scale(a.params.KnockbackImpulse, dir))
	}

	a.emit(EventAttack, c.Other.ID(), a.params.AttackDamage)
	a.log.Debug("attack", "target", uint64(c.Other.ID()), "damage", a.params.AttackDamage)
	a.Stun(a.params.AttackStunDuration)
}

// TakeDamage applies damage forces, reduces health and kills the agent at zero.
func (a *Agent) TakeDamage(info DamageInfo) {
	if !a.alive {
		return
	}
	a.applyDamageForces(info)

	a.health -= info.Amount
	if a.health <= 0 {
		a.health = 0
		a.die(info)
	}
}

// applyDamageForces pushes the body by the damage force. Physics impacts
// are skipped because the contact solver already moved the body.
func (a *Agent) applyDamageForces(info DamageInfo) {
	if !info.HasForce || info.HasTag(TagPhysicsImpact) {
		return
	}
	impulse := r3.Scale(a.params.DamageForceScale, info.Force)
	if finite(impulse) {
		a.body.ApplyImpulseAt(info.Position, impulse)
	}
}

func (a *Agent) die(info DamageInfo) {
	a.alive = false
	a.sound.Stop()
	a.path = nil
	a.hasTarget = false
	a.spikesOpen = false
	a.emit(EventDeath, info.Attacker, info.Amount)
	a.log.Debug("destroyed", "attacker", uint64(info.Attacker))
}

// Stun suspends control for duration seconds from now. A later call
// replaces the window of an earlier one.
func (a *Agent) Stun(duration float64) {
	now := a.currentTime()
	a.stun.Stun(now, duration)
	a.spikesOpen = false
	a.emit(EventStun, 0, duration)
}

// Revive ends any stun immediately.
func (a *Agent) Revive() {
	a.stun.Revive()
	a.emit(EventRevive, 0, 0)
}

// IsStunned reports whether control is currently suspended.
func (a *Agent) IsStunned() bool {
	return a.stun.IsStunned(a.currentTime())
}

// ReviveAt returns the absolute time the current stun ends.
func (a *Agent) ReviveAt() float64 { return a.stun.ReviveAt() }

// SetGains replaces the steering gains at runtime.
func (a *Agent) SetGains(driveScale, correctionGain float64) {
	a.params.DriveScale = driveScale
	a.params.CorrectionGain = correctionGain
	a.steering.DriveScale = driveScale
	a.steering.CorrectionGain = correctionGain
}

// Gains returns the current drive scale and correction gain.
func (a *Agent) Gains() (driveScale, correctionGain float64) {
	return a.steering.DriveScale, a.steering.CorrectionGain
}

func (a *Agent) ID() EntityID           { return a.id }
func (a *Agent) Position() r3.Vec       { return a.body.Position() }
func (a *Agent) IsAlive() bool          { return a.alive }
func (a *Agent) Health() float64        { return a.health }
func (a *Agent) Params() Params         { return a.params }
func (a *Agent) Path() *Path            { return a.path }
func (a *Agent) SpikesOpen() bool       { return a.spikesOpen }
func (a *Agent) SoundActive() bool      { return a.sound.Active() }
func (a *Agent) SoundVolume() float64   { return a.sound.Volume() }
func (a *Agent) HasTag(tag string) bool { return tag != "" && tag == a.params.SelfTag }

// TargetID returns the held target's ID, valid or not.
func (a *Agent) TargetID() (EntityID, bool) { return a.target, a.hasTarget }

func (a *Agent) currentTime() float64 {
	if a.clock != nil {
		return a.clock.Now()
	}
	return a.now
}

func (a *Agent) emit(kind EventKind, other EntityID, value float64) {
	a.events.RecordAgentEvent(Event{
		Kind:  kind,
		Agent: a.id,
		Other: other,
		Time:  a.currentTime(),
		Value: value,
		Pos:   a.body.Position(),
	})
}

func otherID(t Targetable) EntityID {
	if t == nil {
		return 0
	}
	return t.ID()
}
