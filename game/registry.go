package game

import (
	"cmp"
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/rollermine/mine"
	"github.com/pthm-cable/rollermine/nav"
)

// Registry resolves entity IDs for the mines. Mines resolve to their
// agent, every other entity to a handle over its ECS components.
type Registry struct {
	g          *Game
	candidates []mine.Targetable
}

func newRegistry(g *Game) *Registry {
	return &Registry{g: g}
}

// Candidates returns every live entity ordered by ID, so the nearest-target
// tie break is stable across runs. The slice is owned by the registry and
// overwritten by the next call, so callers must not keep it across calls;
// clone it with slices.Clone to retain the result.
func (r *Registry) Candidates() []mine.Targetable {
	r.candidates = r.candidates[:0]

	query := r.g.entityFilter.Query()
	for query.Next() {
		_, _, _, id, health := query.Get()
		if !health.Alive {
			continue
		}
		r.candidates = append(r.candidates, r.g.targetable(id.ID, query.Entity()))
	}

	slices.SortFunc(r.candidates, func(a, b mine.Targetable) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return r.candidates
}

// Lookup resolves id. It fails once the entity has been removed.
func (r *Registry) Lookup(id mine.EntityID) (mine.Targetable, bool) {
	e, ok := r.g.entities[id]
	if !ok || !r.g.world.Alive(e) {
		return nil, false
	}
	return r.g.targetable(id, e), true
}

func (g *Game) targetable(id mine.EntityID, e ecs.Entity) mine.Targetable {
	if g.mineMap.Has(e) {
		return g.mineMap.Get(e).Agent
	}
	return handle{g: g, id: id, e: e}
}

// handle exposes a player or prop to the mines.
type handle struct {
	g  *Game
	id mine.EntityID
	e  ecs.Entity
}

func (h handle) ID() mine.EntityID { return h.id }

func (h handle) Position() r3.Vec {
	if !h.g.world.Alive(h.e) {
		return r3.Vec{}
	}
	return h.g.bodyMap.Get(h.e).Ref.Position()
}

func (h handle) IsAlive() bool {
	return h.g.world.Alive(h.e) && h.g.healthMap.Get(h.e).Alive
}

func (h handle) HasTag(tag string) bool {
	return h.g.world.Alive(h.e) && h.g.identityMap.Get(h.e).Tags.HasTag(tag)
}

// TakeDamage reduces health and remembers the attacker. Damage forces
// push the body unless the contact solver already resolved the hit.
func (h handle) TakeDamage(info mine.DamageInfo) {
	if !h.IsAlive() {
		return
	}
	body := h.g.bodyMap.Get(h.e).Ref
	if info.HasForce && !info.HasTag(mine.TagPhysicsImpact) && !body.Static() {
		body.ApplyImpulseAt(info.Position, r3.Scale(h.g.params.DamageForceScale, info.Force))
	}

	hp := h.g.healthMap.Get(h.e)
	hp.Value -= info.Amount
	if info.Attacker != 0 {
		hp.LastAttacker = info.Attacker
	}
	if hp.Value <= 0 {
		hp.Value = 0
		hp.Alive = false
	}
}

// navigator adapts the grid planner to mine.Navigator.
type navigator struct {
	planner *nav.Planner
}

func (n navigator) BuildPath(from, to r3.Vec, q mine.PathQuery) []r3.Vec {
	return n.planner.FindPath(from, to, nav.Query{
		MaxClimb:     q.MaxClimb,
		StepHeight:   q.StepHeight,
		MaxDistance:  q.MaxDistance,
		AllowPartial: q.AllowPartial,
	})
}
