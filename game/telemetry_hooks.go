package game

import (
	"github.com/pthm-cable/rollermine/telemetry"
	"github.com/pthm-cable/rollermine/traits"
)

// writeEvents drains the collector's event log to events.csv.
func (g *Game) writeEvents() {
	events := g.collector.DrainEvents()
	if len(events) == 0 || g.outputManager == nil {
		return
	}
	if err := g.outputManager.WriteEvents(events); err != nil {
		g.log.Error("failed to write events", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.simTime, g.Population())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteWindow(stats); err != nil {
			g.log.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			g.log.Error("failed to write perf", "error", err)
		}
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager == nil {
			continue
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			g.log.Error("failed to write bookmark", "error", err)
		}
		g.saveSnapshot(&bm)
	}
}

// saveSnapshot writes the current arena state next to a bookmark.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := g.outputManager.SaveSnapshot(g.createSnapshot(bookmark))
	if err != nil {
		g.log.Error("failed to save snapshot", "error", err)
		return
	}
	g.log.Info("snapshot saved", "path", path, "bookmark", bookmark.Type)
}

// createSnapshot captures every live entity.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Seed:        g.seed,
		Tick:        g.tick,
		Time:        g.simTime,
		WorldWidth:  g.cfg.World.Width,
		WorldHeight: g.cfg.World.Height,
		Bookmark:    bookmark,
	}

	query := g.entityFilter.Query()
	for query.Next() {
		pos, vel, body, ident, health := query.Get()
		if !health.Alive {
			continue
		}
		es := telemetry.EntityState{
			ID:     uint64(ident.ID),
			X:      pos.X,
			Y:      pos.Y,
			Z:      pos.Z,
			VelX:   vel.X,
			VelY:   vel.Y,
			Radius: body.Radius,
			Health: health.Value,
		}
		switch {
		case ident.Tags.Has(traits.Rollermine):
			es.Kind = telemetry.KindMine
			a := g.mineMap.Get(query.Entity()).Agent
			es.Stunned = a.IsStunned()
			es.Spikes = a.SpikesOpen()
			if t, ok := a.Target(); ok {
				es.Target = uint64(t.ID())
			}
			if p := a.Path(); p != nil {
				for _, wp := range p.Waypoints()[p.Cursor():] {
					es.Path = append(es.Path, [2]float64{wp.X, wp.Y})
				}
			}
		case ident.Tags.Has(traits.Player):
			es.Kind = telemetry.KindPlayer
		default:
			es.Kind = telemetry.KindProp
		}
		s.Entities = append(s.Entities, es)
	}
	return s
}

// broadcast streams a snapshot to spectators every BroadcastEvery ticks.
func (g *Game) broadcast() {
	if g.hub == nil || g.tick%int32(g.cfg.Viz.BroadcastEvery) != 0 {
		return
	}
	if g.hub.Subscribers() == 0 {
		return
	}
	if err := g.hub.Broadcast(g.createSnapshot(nil)); err != nil {
		g.log.Error("failed to broadcast snapshot", "error", err)
	}
}
