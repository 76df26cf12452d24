package game

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/rollermine/mine"
	"github.com/pthm-cable/rollermine/physics"
	"github.com/pthm-cable/rollermine/telemetry"
	"github.com/pthm-cable/rollermine/traits"
)

// simulationStep runs a single tick of the arena.
func (g *Game) simulationStep() {
	dt := g.cfg.Physics.DT
	g.perfCollector.StartTick()
	g.collector.SetTick(g.tick)
	g.simTime += dt

	g.perfCollector.StartPhase(telemetry.PhasePlayers)
	g.updatePlayers(dt)

	g.perfCollector.StartPhase(telemetry.PhaseAgents)
	for _, a := range g.agents {
		a.Tick(dt, g.simTime)
	}

	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	contacts := g.physics.Step(dt)

	g.perfCollector.StartPhase(telemetry.PhaseContacts)
	g.dispatchContacts(contacts)

	g.perfCollector.StartPhase(telemetry.PhaseSync)
	g.syncBodies()
	g.samplePursuit()

	g.perfCollector.StartPhase(telemetry.PhaseLifecycle)
	g.cleanupDead()
	g.processRespawns()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.writeEvents()
	g.flushTelemetry()

	g.perfCollector.StartPhase(telemetry.PhaseBroadcast)
	g.broadcast()

	g.perfCollector.EndTick()
	g.tick++
}

// updatePlayers pushes each player along its wander heading, picking a new
// heading when the timer runs out or a wall is ahead.
func (g *Game) updatePlayers(dt float64) {
	pc := g.cfg.Player

	query := g.wanderFilter.Query()
	for query.Next() {
		body, health, wander := query.Get()
		if !health.Alive {
			continue
		}

		wander.Timer -= dt
		pos := body.Ref.Position()
		ahead := r3.Vec{X: math.Cos(wander.Heading), Y: math.Sin(wander.Heading)}
		probe := r3.Add(pos, r3.Scale(body.Radius*3, ahead))
		if wander.Timer <= 0 || g.grid.BlockedAt(probe.X, probe.Y) || !g.inArena(probe) {
			wander.Heading = normalizeAngle(wander.Heading + math.Pi/2 + g.rng.Float64()*math.Pi)
			wander.Timer = pc.WanderInterval * (0.5 + g.rng.Float64())
			ahead = r3.Vec{X: math.Cos(wander.Heading), Y: math.Sin(wander.Heading)}
		}

		body.Ref.ApplyForce(r3.Scale(pc.WanderForce, ahead))
	}
}

func (g *Game) inArena(p r3.Vec) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= g.cfg.World.Width && p.Y <= g.cfg.World.Height
}

// dispatchContacts hands each contact to the mines involved. A mine-mine
// contact reaches both, each seeing the other along a flipped normal.
func (g *Game) dispatchContacts(contacts []physics.Contact) {
	for _, c := range contacts {
		if a := g.agentFor(c.A); a != nil {
			a.OnCollision(g.collision(c.B, c.Point, c.Normal, c.Speed, c.PreVelocityA))
		}
		if c.B == nil {
			continue
		}
		if b := g.agentFor(c.B); b != nil {
			b.OnCollision(g.collision(c.A, c.Point, r3.Scale(-1, c.Normal), c.Speed, c.PreVelocityB))
		}
	}
}

// collision builds the agent-side view of a contact with other.
func (g *Game) collision(other *physics.Body, point, normal r3.Vec, speed float64, pre r3.Vec) mine.Collision {
	c := mine.Collision{
		Point:       point,
		Normal:      normal,
		Speed:       speed,
		PreVelocity: pre,
	}
	if other == nil {
		return c
	}
	id, ok := other.Data.(mine.EntityID)
	if !ok {
		return c
	}
	if t, ok := g.registry.Lookup(id); ok {
		c.Other = t
		c.Impact = g.impactProfile(id, other)
	}
	return c
}

// impactProfile returns the damage profile of the entity owning body.
// Players declare none, so the striking mine uses its own.
func (g *Game) impactProfile(id mine.EntityID, body *physics.Body) mine.ImpactData {
	e, ok := g.entities[id]
	if !ok {
		return mine.ImpactData{}
	}
	tags := g.identityMap.Get(e).Tags
	switch {
	case tags.Has(traits.Rollermine):
		return mine.ImpactData{ImpactDamage: g.params.ImpactDamage, MinImpactSpeed: g.params.MinImpactSpeed}
	case tags.Has(traits.Destructible):
		return mine.ImpactDataForMass(body.Mass())
	}
	return mine.ImpactData{}
}

func (g *Game) agentFor(b *physics.Body) *mine.Agent {
	if b == nil {
		return nil
	}
	id, ok := b.Data.(mine.EntityID)
	if !ok {
		return nil
	}
	e, ok := g.entities[id]
	if !ok || !g.mineMap.Has(e) {
		return nil
	}
	return g.mineMap.Get(e).Agent
}

// syncBodies mirrors body state into the ECS components. Mine health is
// owned by the agent and copied over here.
func (g *Game) syncBodies() {
	query := g.entityFilter.Query()
	for query.Next() {
		pos, vel, body, _, health := query.Get()
		p := body.Ref.Position()
		v := body.Ref.Velocity()
		pos.X, pos.Y, pos.Z = p.X, p.Y, p.Z
		vel.X, vel.Y, vel.Z = v.X, v.Y, v.Z

		if g.mineMap.Has(query.Entity()) {
			a := g.mineMap.Get(query.Entity()).Agent
			health.Value = a.Health()
			health.Alive = a.IsAlive()
		}
	}
}

// samplePursuit records each pursuing mine's distance to its target and
// its speed across the line of sight.
func (g *Game) samplePursuit() {
	for _, a := range g.agents {
		if !a.IsAlive() || a.IsStunned() {
			continue
		}
		t, ok := a.Target()
		if !ok {
			continue
		}
		dist, lateral := pursuitSample(a.Position(), g.velocityOf(a.ID()), t.Position())
		g.collector.RecordPursuit(dist, lateral)
	}
}

// pursuitSample returns the horizontal distance from pos to target and the
// horizontal speed perpendicular to that line.
func pursuitSample(pos, vel, target r3.Vec) (dist, lateral float64) {
	d := r3.Vec{X: target.X - pos.X, Y: target.Y - pos.Y}
	dist = r3.Norm(d)
	v := r3.Vec{X: vel.X, Y: vel.Y}
	if dist < 1e-9 {
		return dist, r3.Norm(v)
	}
	u := r3.Scale(1/dist, d)
	along := r3.Dot(v, u)
	lateral = r3.Norm(r3.Sub(v, r3.Scale(along, u)))
	return dist, lateral
}

func (g *Game) velocityOf(id mine.EntityID) r3.Vec {
	e, ok := g.entities[id]
	if !ok || !g.world.Alive(e) {
		return r3.Vec{}
	}
	return g.bodyMap.Get(e).Ref.Velocity()
}
