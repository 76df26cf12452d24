// Package physics simulates rolling spheres on a height field.
package physics

import "gonum.org/v1/gonum/spatial/r3"

// Body is a rigid sphere. A body with zero mass is static.
type Body struct {
	id     uint64
	pos    r3.Vec
	vel    r3.Vec
	ang    r3.Vec
	force  r3.Vec
	torque r3.Vec

	radius     float64
	mass       float64
	invMass    float64
	invInertia float64

	grounded bool
	removed  bool

	// Data is an opaque host handle, typically the owning entity.
	Data any
}

func newBody(id uint64, pos r3.Vec, radius, mass float64) *Body {
	b := &Body{id: id, pos: pos, radius: radius, mass: mass}
	if mass > 0 {
		b.invMass = 1 / mass
		// Solid sphere: I = 2/5 m r²
		b.invInertia = 1 / (0.4 * mass * radius * radius)
	}
	return b
}

func (b *Body) ID() uint64              { return b.id }
func (b *Body) Position() r3.Vec        { return b.pos }
func (b *Body) Velocity() r3.Vec        { return b.vel }
func (b *Body) AngularVelocity() r3.Vec { return b.ang }
func (b *Body) Mass() float64           { return b.mass }
func (b *Body) Radius() float64         { return b.radius }
func (b *Body) Static() bool            { return b.invMass == 0 }
func (b *Body) Grounded() bool          { return b.grounded }
func (b *Body) Removed() bool           { return b.removed }

func (b *Body) SetPosition(p r3.Vec)        { b.pos = p }
func (b *Body) SetVelocity(v r3.Vec)        { b.vel = v }
func (b *Body) SetAngularVelocity(w r3.Vec) { b.ang = w }

// ApplyTorque accumulates torque for the next step.
func (b *Body) ApplyTorque(t r3.Vec) {
	if b.Static() {
		return
	}
	b.torque = r3.Add(b.torque, t)
}

// ApplyForce accumulates a force through the centre for the next step.
func (b *Body) ApplyForce(f r3.Vec) {
	if b.Static() {
		return
	}
	b.force = r3.Add(b.force, f)
}

// ApplyImpulseAt changes linear and angular velocity immediately, as if
// impulse were applied at the world-space point.
func (b *Body) ApplyImpulseAt(point, impulse r3.Vec) {
	if b.Static() {
		return
	}
	b.vel = r3.Add(b.vel, r3.Scale(b.invMass, impulse))
	arm := r3.Sub(point, b.pos)
	b.ang = r3.Add(b.ang, r3.Scale(b.invInertia, r3.Cross(arm, impulse)))
}

// integrateForces converts accumulated force and torque into velocity.
func (b *Body) integrateForces(dt float64) {
	b.vel = r3.Add(b.vel, r3.Scale(b.invMass*dt, b.force))
	b.ang = r3.Add(b.ang, r3.Scale(b.invInertia*dt, b.torque))
	b.force = r3.Vec{}
	b.torque = r3.Vec{}
}
