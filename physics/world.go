package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Terrain supplies ground height and walls.
type Terrain interface {
	HeightAt(x, y float64) float64
	BlockedAt(x, y float64) bool
}

// flat is the terrain used when none is given.
type flat struct{}

func (flat) HeightAt(x, y float64) float64 { return 0 }
func (flat) BlockedAt(x, y float64) bool   { return false }

// Config holds world-wide physical constants.
type Config struct {
	Width, Height  float64
	Gravity        float64
	Friction       float64 // Coulomb coefficient at the ground
	RollingDrag    float64 // Fraction of horizontal velocity lost per second
	AngularDamping float64 // Fraction of spin lost per second
	Restitution    float64
	CellSize       float64 // Broadphase cell size; must exceed the largest diameter
}

// Contact is a collision reported by Step. B is nil for walls and arena
// bounds. Normal points from A toward B.
type Contact struct {
	A, B         *Body
	Point        r3.Vec
	Normal       r3.Vec
	Speed        float64 // Approach speed along Normal
	PreVelocityA r3.Vec
	PreVelocityB r3.Vec
}

// World owns the bodies and advances them in fixed steps.
type World struct {
	cfg     Config
	terrain Terrain
	bodies  []*Body
	nextID  uint64
	grid    *grid

	contacts  []Contact
	neighbors []*Body
}

// NewWorld creates an empty world. A nil terrain is flat and open.
func NewWorld(cfg Config, terrain Terrain) *World {
	if terrain == nil {
		terrain = flat{}
	}
	if cfg.CellSize <= 0 {
		cfg.CellSize = 64
	}
	return &World{
		cfg:     cfg,
		terrain: terrain,
		grid:    newGrid(cfg.Width, cfg.Height, cfg.CellSize),
	}
}

// NewBody adds a sphere resting on the ground at pos.
func (w *World) NewBody(pos r3.Vec, radius, mass float64) *Body {
	w.nextID++
	ground := w.terrain.HeightAt(pos.X, pos.Y) + radius
	if pos.Z < ground {
		pos.Z = ground
	}
	b := newBody(w.nextID, pos, radius, mass)
	w.bodies = append(w.bodies, b)
	return b
}

// Remove detaches b from the world. Removing twice is a no-op.
func (w *World) Remove(b *Body) {
	if b == nil || b.removed {
		return
	}
	b.removed = true
	for i, o := range w.bodies {
		if o == b {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			return
		}
	}
}

// Bodies returns the live bodies in creation order.
func (w *World) Bodies() []*Body { return w.bodies }

// Step advances the world by dt and returns the contacts it resolved.
// The returned slice is reused by the next Step.
func (w *World) Step(dt float64) []Contact {
	w.contacts = w.contacts[:0]

	for _, b := range w.bodies {
		if b.Static() {
			continue
		}
		b.integrateForces(dt)
		b.vel.Z -= w.cfg.Gravity * dt
		w.groundFriction(b, dt)
		w.damp(b, dt)
		w.move(b, dt)
	}

	w.collide()
	return w.contacts
}

// groundFriction couples spin and travel through the ground contact. The
// impulse removes contact slip, limited by the Coulomb bound.
func (w *World) groundFriction(b *Body, dt float64) {
	ground := w.terrain.HeightAt(b.pos.X, b.pos.Y) + b.radius
	b.grounded = b.pos.Z <= ground+0.5
	if !b.grounded {
		return
	}

	arm := r3.Vec{Z: -b.radius}
	contactVel := r3.Add(b.vel, r3.Cross(b.ang, arm))
	slip := r3.Vec{X: contactVel.X, Y: contactVel.Y}
	if r3.Norm2(slip) == 0 {
		return
	}

	// Effective mass of a solid sphere's contact point is m / 3.5.
	j := r3.Scale(-b.mass/3.5, slip)
	limit := w.cfg.Friction * b.mass * w.cfg.Gravity * dt
	if n := r3.Norm(j); n > limit {
		j = r3.Scale(limit/n, j)
	}
	b.vel = r3.Add(b.vel, r3.Scale(b.invMass, j))
	b.ang = r3.Add(b.ang, r3.Scale(b.invInertia, r3.Cross(arm, j)))
}

func (w *World) damp(b *Body, dt float64) {
	if b.grounded {
		k := math.Max(0, 1-w.cfg.RollingDrag*dt)
		b.vel.X *= k
		b.vel.Y *= k
	}
	b.ang = r3.Scale(math.Max(0, 1-w.cfg.AngularDamping*dt), b.ang)
}

// move integrates position one axis at a time so walls reflect only the
// component that hit them.
func (w *World) move(b *Body, dt float64) {
	pre := b.vel

	nx := b.pos.X + b.vel.X*dt
	if w.solidAt(nx, b.pos.Y, b.radius, b.vel.X, 0) {
		w.wallContact(b, r3.Vec{X: sign(b.vel.X)}, math.Abs(b.vel.X), pre)
		b.vel.X = -b.vel.X * w.cfg.Restitution
	} else {
		b.pos.X = nx
	}

	ny := b.pos.Y + b.vel.Y*dt
	if w.solidAt(b.pos.X, ny, b.radius, 0, b.vel.Y) {
		w.wallContact(b, r3.Vec{Y: sign(b.vel.Y)}, math.Abs(b.vel.Y), pre)
		b.vel.Y = -b.vel.Y * w.cfg.Restitution
	} else {
		b.pos.Y = ny
	}

	b.pos.Z += b.vel.Z * dt
	ground := w.terrain.HeightAt(b.pos.X, b.pos.Y) + b.radius
	if b.pos.Z < ground {
		b.pos.Z = ground
		if b.vel.Z < 0 {
			b.vel.Z = 0
		}
	}
}

// solidAt reports whether the leading edge of a sphere centred at (x, y)
// moving along (vx, vy) is inside a wall or outside the arena.
func (w *World) solidAt(x, y, r, vx, vy float64) bool {
	ex := x + sign(vx)*r
	ey := y + sign(vy)*r
	if ex < 0 || ey < 0 || ex > w.cfg.Width || ey > w.cfg.Height {
		return true
	}
	return w.terrain.BlockedAt(ex, ey)
}

func (w *World) wallContact(b *Body, normal r3.Vec, speed float64, pre r3.Vec) {
	if speed == 0 {
		return
	}
	w.contacts = append(w.contacts, Contact{
		A:            b,
		Point:        r3.Add(b.pos, r3.Scale(b.radius, normal)),
		Normal:       normal,
		Speed:        speed,
		PreVelocityA: pre,
	})
}

// collide resolves sphere overlaps with a restitution impulse and a
// positional split weighted by inverse mass.
func (w *World) collide() {
	w.grid.clear()
	for _, b := range w.bodies {
		w.grid.insert(b)
	}

	for _, a := range w.bodies {
		w.neighbors = w.grid.neighbors(w.neighbors[:0], a)
		for _, b := range w.neighbors {
			w.resolve(a, b)
		}
	}
}

func (w *World) resolve(a, b *Body) {
	invSum := a.invMass + b.invMass
	if invSum == 0 {
		return
	}

	d := r3.Sub(b.pos, a.pos)
	dist := r3.Norm(d)
	overlap := a.radius + b.radius - dist
	if overlap <= 0 {
		return
	}

	var n r3.Vec
	if dist > 1e-9 {
		n = r3.Scale(1/dist, d)
	} else {
		n = r3.Vec{X: 1}
	}

	// Separate
	a.pos = r3.Sub(a.pos, r3.Scale(overlap*a.invMass/invSum, n))
	b.pos = r3.Add(b.pos, r3.Scale(overlap*b.invMass/invSum, n))

	vn := r3.Dot(r3.Sub(b.vel, a.vel), n)
	if vn >= 0 {
		return
	}

	preA, preB := a.vel, b.vel
	j := -(1 + w.cfg.Restitution) * vn / invSum
	a.vel = r3.Sub(a.vel, r3.Scale(j*a.invMass, n))
	b.vel = r3.Add(b.vel, r3.Scale(j*b.invMass, n))

	w.contacts = append(w.contacts, Contact{
		A:            a,
		B:            b,
		Point:        r3.Add(a.pos, r3.Scale(a.radius, n)),
		Normal:       n,
		Speed:        -vn,
		PreVelocityA: preA,
		PreVelocityB: preB,
	})
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
