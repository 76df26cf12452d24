package game

import (
	"log/slog"

	"github.com/pthm-cable/rollermine/traits"
)

// LogWorldState logs a one-shot summary of the arena and each mine.
func (g *Game) LogWorldState() {
	pop := g.Population()

	var playerHealth, minPlayerHealth float64
	minPlayerHealth = -1
	query := g.entityFilter.Query()
	for query.Next() {
		_, _, _, ident, health := query.Get()
		if !health.Alive || !ident.Tags.Has(traits.Player) {
			continue
		}
		playerHealth += health.Value
		if minPlayerHealth < 0 || health.Value < minPlayerHealth {
			minPlayerHealth = health.Value
		}
	}
	avgPlayerHealth := 0.0
	if pop.Players > 0 {
		avgPlayerHealth = playerHealth / float64(pop.Players)
	}

	g.log.Info("world",
		"tick", g.tick,
		"sim_time", g.simTime,
		slog.Group("population",
			"mines", pop.Mines,
			"stunned", pop.MinesStunned,
			"players", pop.Players,
			"props", pop.Props,
		),
		"player_health_avg", avgPlayerHealth,
		"player_health_min", max(minPlayerHealth, 0),
		"pending_respawns", len(g.respawns),
	)

	for _, a := range g.agents {
		attrs := []any{
			"mine", a.ID(),
			"health", a.Health(),
			"stunned", a.IsStunned(),
			"spikes", a.SpikesOpen(),
		}
		if id, ok := a.TargetID(); ok {
			attrs = append(attrs, "target", id)
		}
		if p := a.Path(); p != nil {
			attrs = append(attrs, "waypoint", p.Cursor(), "waypoints", p.Len())
		}
		if lt := g.collector.Lifetimes().Get(a.ID()); lt != nil {
			attrs = append(attrs, "attacks", lt.Attacks, "kills", lt.Kills)
		}
		g.log.Debug("mine", attrs...)
	}
}
