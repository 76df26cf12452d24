package game

import (
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/rollermine/mine"
	"github.com/pthm-cable/rollermine/traits"
)

// pendingRespawn is a player waiting to re-enter the arena.
type pendingRespawn struct {
	at float64 // sim time
}

// cleanupDead removes destroyed entities. Killed players are queued to
// respawn under a fresh ID, so mines holding the old one re-acquire.
func (g *Game) cleanupDead() {
	// First pass: collect dead entities (must complete before modifying)
	type deadInfo struct {
		entity   ecs.Entity
		id       mine.EntityID
		tags     traits.Trait
		attacker mine.EntityID
		pos      r3.Vec
	}
	var toRemove []deadInfo

	query := g.entityFilter.Query()
	for query.Next() {
		pos, _, _, ident, health := query.Get()
		if health.Alive {
			continue
		}
		toRemove = append(toRemove, deadInfo{
			entity:   query.Entity(),
			id:       ident.ID,
			tags:     ident.Tags,
			attacker: health.LastAttacker,
			pos:      pos.Vec(),
		})
	}

	// Second pass: remove entities (query iteration complete)
	for _, dead := range toRemove {
		switch {
		case dead.tags.Has(traits.Player):
			g.collector.RecordKill(g.simTime, dead.attacker, dead.id, dead.pos)
			g.respawns = append(g.respawns, pendingRespawn{at: g.simTime + g.cfg.Player.RespawnDelay})
			g.log.Debug("player killed", "player", uint64(dead.id), "mine", uint64(dead.attacker))
		case dead.tags.Has(traits.Destructible):
			g.collector.RecordPropDestroyed(g.simTime, dead.attacker, dead.id, dead.pos)
		case dead.tags.Has(traits.Rollermine):
			g.agents = slices.DeleteFunc(g.agents, func(a *mine.Agent) bool { return a.ID() == dead.id })
		}

		if dead.id == g.selected {
			g.hasSelection = false
		}
		g.physics.Remove(g.bodyMap.Get(dead.entity).Ref)
		g.world.RemoveEntity(dead.entity)
		delete(g.entities, dead.id)
	}
}

// processRespawns spawns queued players whose delay has passed.
func (g *Game) processRespawns() {
	if len(g.respawns) == 0 {
		return
	}
	kept := g.respawns[:0]
	for _, r := range g.respawns {
		if r.at > g.simTime {
			kept = append(kept, r)
			continue
		}
		pos, ok := g.openPosition(g.cfg.Physics.PlayerRadius)
		if !ok {
			kept = append(kept, r)
			continue
		}
		id := g.spawnPlayer(pos)
		g.collector.RecordRespawn(g.simTime, id, pos)
	}
	g.respawns = kept
}
