// Package game hosts the rollermine arena: an ECS world of mines, players
// and props over the physics and navigation layers, with telemetry,
// spectator streaming and an optional raylib viewer.
package game

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rollermine/audio"
	"github.com/pthm-cable/rollermine/camera"
	"github.com/pthm-cable/rollermine/components"
	"github.com/pthm-cable/rollermine/config"
	"github.com/pthm-cable/rollermine/mine"
	"github.com/pthm-cable/rollermine/nav"
	"github.com/pthm-cable/rollermine/physics"
	"github.com/pthm-cable/rollermine/telemetry"
	"github.com/pthm-cable/rollermine/traits"
	"github.com/pthm-cable/rollermine/ui"
	"github.com/pthm-cable/rollermine/viz"
)

// Options configures game behavior.
type Options struct {
	Seed           int64
	LogStats       bool    // Log window stats and bookmarks
	StatsWindow    float64 // Stats window in seconds (0 uses config)
	OutputDir      string  // Directory for CSV output and snapshots (empty disables)
	Headless       bool    // Skip camera and rendering setup
	StepsPerUpdate int     // Simulation ticks per Update call
	VizAddr        string  // Spectator websocket address (empty uses config)
	Sound          bool    // Start the audio service even if config disables it
	Logger         *slog.Logger
}

// Game holds the complete arena state.
type Game struct {
	cfg *config.Config
	log *slog.Logger
	rng *rand.Rand

	world *ecs.World

	// Every arena entity carries these five
	entityMapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Identity,
		components.Health,
	]
	entityFilter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Body,
		components.Identity,
		components.Health,
	]

	// Individual component mappers for lookups
	posMap      *ecs.Map1[components.Position]
	bodyMap     *ecs.Map1[components.Body]
	identityMap *ecs.Map1[components.Identity]
	healthMap   *ecs.Map1[components.Health]
	wanderMap   *ecs.Map1[components.Wander]
	mineMap     *ecs.Map1[components.Rollermine]

	wanderFilter *ecs.Filter3[components.Body, components.Health, components.Wander]

	// Entity lookup by stable ID
	entities map[mine.EntityID]ecs.Entity
	agents   []*mine.Agent // spawn order
	nextID   mine.EntityID

	params   mine.Params
	physics  *physics.World
	grid     *nav.Grid
	planner  *nav.Planner
	registry *Registry
	audio    *audio.Service

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	bookmarks     *telemetry.BookmarkDetector
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	seed          int64

	// Spectator stream
	hub    *viz.Hub
	server *viz.Server

	respawns []pendingRespawn

	// State
	tick           int32
	simTime        float64
	paused         bool
	stepsPerUpdate int
	headless       bool

	// Viewer
	camera       *camera.Camera
	screenWidth  float32
	screenHeight float32
	selected     mine.EntityID
	hasSelection bool
	overlays     overlayFlags
	hovered      *hoverInfo

	uiHUD       *ui.HUD
	uiPerfPanel *ui.PerfPanel
	uiInspector *ui.Inspector
}

// NewGame creates a game with default options.
func NewGame() *Game {
	return NewGameWithOptions(Options{})
}

// NewGameWithOptions creates a game from the global config.
func NewGameWithOptions(opts Options) *Game {
	return newGame(config.Cfg(), opts)
}

func newGame(cfg *config.Config, opts Options) *Game {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:    cfg,
		log:    logger,
		rng:    rand.New(rand.NewSource(seed)),
		seed:   seed,
		world:  world,
		params: mineParams(cfg),
		entityMapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Body,
			components.Identity,
			components.Health,
		](world),
		entityFilter: ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Body,
			components.Identity,
			components.Health,
		](world),
		posMap:         ecs.NewMap1[components.Position](world),
		bodyMap:        ecs.NewMap1[components.Body](world),
		identityMap:    ecs.NewMap1[components.Identity](world),
		healthMap:      ecs.NewMap1[components.Health](world),
		wanderMap:      ecs.NewMap1[components.Wander](world),
		mineMap:        ecs.NewMap1[components.Rollermine](world),
		wanderFilter:   ecs.NewFilter3[components.Body, components.Health, components.Wander](world),
		entities:       make(map[mine.EntityID]ecs.Entity),
		nextID:         1,
		logStats:       opts.LogStats,
		stepsPerUpdate: steps,
		headless:       opts.Headless,
	}

	g.grid = nav.NewGridFromObstacles(cfg.World.Width, cfg.World.Height, cfg.Nav.CellSize, navObstacles(cfg))
	g.planner = nav.NewPlanner(g.grid)
	g.physics = physics.NewWorld(physicsConfig(cfg), g.grid)
	g.registry = newRegistry(g)

	// Telemetry
	window := opts.StatsWindow
	if window <= 0 {
		window = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(window, cfg.Physics.DT)
	g.collector.SetOrbitThresholds(2*cfg.Mine.SpikeRadius, cfg.Telemetry.OrbitLateralSpeed)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.bookmarks = telemetry.NewBookmarkDetector(5)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			g.log.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				g.log.Error("failed to write config", "error", err)
			}
		}
	}

	if opts.Sound || cfg.Sound.Enabled {
		g.startAudio()
	}

	addr := opts.VizAddr
	if addr == "" {
		addr = cfg.Viz.Addr
	}
	if addr != "" {
		g.startViz(addr)
	}

	if !g.headless {
		g.screenWidth = float32(cfg.Screen.Width)
		g.screenHeight = float32(cfg.Screen.Height)
		g.camera = camera.New(g.screenWidth, g.screenHeight, float32(cfg.World.Width), float32(cfg.World.Height))
		g.overlays = overlayFlags{paths: true, ranges: true}
		g.initUI()
	}

	g.spawnInitialPopulation()
	return g
}

// startAudio opens the speaker. Failure leaves mines silent.
func (g *Game) startAudio() {
	svc := audio.NewService(g.cfg.Sound.SampleRate, g.cfg.Sound.HumFreq)
	if err := svc.Start(time.Duration(g.cfg.Sound.BufferMs) * time.Millisecond); err != nil {
		g.log.Warn("audio disabled", "error", err)
		return
	}
	g.audio = svc
}

// startViz serves the spectator stream on addr.
func (g *Game) startViz(addr string) {
	hub := viz.NewHub(g.log)
	srv, err := viz.Listen(addr, hub, g.log)
	if err != nil {
		g.log.Error("failed to start viz server", "addr", addr, "error", err)
		return
	}
	g.hub = hub
	g.server = srv
	g.log.Info("viz server listening", "addr", srv.Addr())
}

func navObstacles(cfg *config.Config) []nav.Obstacle {
	obs := make([]nav.Obstacle, len(cfg.Nav.Obstacles))
	for i, o := range cfg.Nav.Obstacles {
		obs[i] = nav.Obstacle{
			MinX:    o.MinX,
			MinY:    o.MinY,
			MaxX:    o.MaxX,
			MaxY:    o.MaxY,
			Height:  o.Height,
			Blocked: o.Blocked,
		}
	}
	return obs
}

// Update handles input and runs stepsPerUpdate ticks unless paused.
func (g *Game) Update() {
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep()
	}
}

// UpdateHeadless runs one tick without input handling.
func (g *Game) UpdateHeadless() {
	g.simulationStep()
}

// Now implements mine.Clock.
func (g *Game) Now() float64 { return g.simTime }

// Tick returns the current tick.
func (g *Game) Tick() int32 { return g.tick }

// SimTime returns elapsed simulation seconds.
func (g *Game) SimTime() float64 { return g.simTime }

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 { return g.seed }

// SetStatsCallback registers a function called with each flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Agents returns the live mines in spawn order.
func (g *Game) Agents() []*mine.Agent { return g.agents }

// Population counts the live entities by kind.
func (g *Game) Population() telemetry.Population {
	var pop telemetry.Population
	query := g.entityFilter.Query()
	for query.Next() {
		_, _, _, id, health := query.Get()
		if !health.Alive {
			continue
		}
		switch {
		case id.Tags.Has(traits.Rollermine):
			pop.Mines++
		case id.Tags.Has(traits.Player):
			pop.Players++
		case id.Tags.Has(traits.Destructible):
			pop.Props++
		}
	}
	for _, a := range g.agents {
		if a.IsAlive() && a.IsStunned() {
			pop.MinesStunned++
		}
	}
	return pop
}

// Unload releases audio, the spectator server and telemetry output.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.WriteLifetimes(g.collector.Lifetimes()); err != nil {
			g.log.Error("failed to write lifetimes", "error", err)
		}
		if err := g.outputManager.Close(); err != nil {
			g.log.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
	if g.server != nil {
		g.hub.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := g.server.Shutdown(ctx)
		cancel()
		if err != nil {
			g.log.Error("failed to stop viz server", "error", err)
		}
		g.server = nil
	}
	if g.audio != nil {
		g.audio.Close()
		g.audio = nil
	}
}
