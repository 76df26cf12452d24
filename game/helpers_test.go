package game

import (
	"log/slog"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/rollermine/config"
	"github.com/pthm-cable/rollermine/mine"
)

// newEmptyGame builds a headless arena with nothing spawned.
func newEmptyGame(t *testing.T) *Game {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.World.Mines = 0
	cfg.World.Players = 0
	cfg.World.Props = 0
	cfg.Nav.Obstacles = nil

	g := newGame(cfg, Options{
		Seed:     7,
		Headless: true,
		Logger:   slog.New(slog.DiscardHandler),
	})
	t.Cleanup(g.Unload)
	return g
}

func (g *Game) mustLookup(t *testing.T, id mine.EntityID) mine.Targetable {
	t.Helper()
	target, ok := g.registry.Lookup(id)
	if !ok {
		t.Fatalf("lookup %d failed", id)
	}
	return target
}

func at(x, y float64) r3.Vec { return r3.Vec{X: x, Y: y} }
