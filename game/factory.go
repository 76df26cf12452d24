package game

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/rollermine/components"
	"github.com/pthm-cable/rollermine/mine"
	"github.com/pthm-cable/rollermine/traits"
)

// spawnAttempts bounds the search for a free spawn point.
const spawnAttempts = 64

// spawnInitialPopulation creates the starting arena.
func (g *Game) spawnInitialPopulation() {
	for i := 0; i < g.cfg.World.Props; i++ {
		if pos, ok := g.openPosition(g.cfg.Physics.PropRadius); ok {
			g.spawnProp(pos)
		}
	}
	for i := 0; i < g.cfg.World.Players; i++ {
		if pos, ok := g.openPosition(g.cfg.Physics.PlayerRadius); ok {
			g.spawnPlayer(pos)
		}
	}
	for i := 0; i < g.cfg.World.Mines; i++ {
		if pos, ok := g.openPosition(g.cfg.Physics.MineRadius); ok {
			g.spawnMine(pos)
		}
	}
	g.log.Info("arena populated",
		"mines", len(g.agents),
		"players", g.cfg.World.Players,
		"props", g.cfg.World.Props,
		"seed", g.seed,
	)
}

// spawnEntity creates the shared components and the rigid body.
func (g *Game) spawnEntity(pos r3.Vec, radius, mass, health float64, tags traits.Trait) (ecs.Entity, mine.EntityID) {
	id := g.nextID
	g.nextID++

	ref := g.physics.NewBody(pos, radius, mass)
	ref.Data = id

	at := ref.Position()
	p := components.Position{X: at.X, Y: at.Y, Z: at.Z}
	vel := components.Velocity{}
	body := components.Body{Ref: ref, Radius: radius}
	ident := components.Identity{ID: id, Tags: tags}
	hp := components.Health{Value: health, Max: health, Alive: health > 0}

	e := g.entityMapper.NewEntity(&p, &vel, &body, &ident, &hp)
	g.entities[id] = e
	return e, id
}

// spawnMine creates a rollermine and its agent.
func (g *Game) spawnMine(pos r3.Vec) *mine.Agent {
	e, id := g.spawnEntity(pos, g.cfg.Physics.MineRadius, g.cfg.Physics.MineMass, g.params.Health, traits.Parse(g.params.SelfTag)|traits.Rollermine)

	deps := mine.Deps{
		Registry:  g.registry,
		Navigator: navigator{planner: g.planner},
		Clock:     g,
		Events:    g.collector,
		Logger:    g.log,
	}
	if g.audio != nil {
		deps.Audio = g.audio
	}
	agent := mine.New(id, g.bodyMap.Get(e).Ref, g.params, deps)
	g.mineMap.Add(e, &components.Rollermine{Agent: agent})
	g.agents = append(g.agents, agent)
	return agent
}

// spawnPlayer creates a wandering target.
func (g *Game) spawnPlayer(pos r3.Vec) mine.EntityID {
	e, id := g.spawnEntity(pos, g.cfg.Physics.PlayerRadius, g.cfg.Physics.PlayerMass, g.cfg.Player.Health, traits.Parse(g.cfg.Player.Tag)|traits.Player)
	g.wanderMap.Add(e, &components.Wander{Heading: g.rng.Float64() * 2 * math.Pi})
	return id
}

// spawnProp creates destructible scenery. Massless props never move.
func (g *Game) spawnProp(pos r3.Vec) mine.EntityID {
	tags := traits.Parse(g.cfg.Prop.Tag) | traits.Destructible
	if g.cfg.Physics.PropMass <= 0 {
		tags = tags.Add(traits.Static)
	}
	_, id := g.spawnEntity(pos, g.cfg.Physics.PropRadius, g.cfg.Physics.PropMass, g.cfg.Prop.Health, tags)
	return id
}

// openPosition samples a point clear of walls and other bodies.
func (g *Game) openPosition(radius float64) (r3.Vec, bool) {
	w, h := g.cfg.World.Width, g.cfg.World.Height
	for range spawnAttempts {
		p := r3.Vec{
			X: radius + g.rng.Float64()*(w-2*radius),
			Y: radius + g.rng.Float64()*(h-2*radius),
		}
		if g.clearAt(p, radius) {
			return p, true
		}
	}
	return r3.Vec{}, false
}

// clearAt reports whether a sphere of radius fits at p.
func (g *Game) clearAt(p r3.Vec, radius float64) bool {
	for _, o := range [...][2]float64{{0, 0}, {-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		if g.grid.BlockedAt(p.X+o[0]*radius, p.Y+o[1]*radius) {
			return false
		}
	}
	for _, b := range g.physics.Bodies() {
		d := math.Hypot(b.Position().X-p.X, b.Position().Y-p.Y)
		if d < b.Radius()+radius {
			return false
		}
	}
	return true
}
