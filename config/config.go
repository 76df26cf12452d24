// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/rollermine/traits"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	World     WorldConfig     `yaml:"world"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Nav       NavConfig       `yaml:"nav"`
	Mine      MineConfig      `yaml:"mine"`
	Player    PlayerConfig    `yaml:"player"`
	Prop      PropConfig      `yaml:"prop"`
	Sound     SoundConfig     `yaml:"sound"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Viz       VizConfig       `yaml:"viz"`
	Tune      TuneConfig      `yaml:"tune"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds arena dimensions and spawn counts.
type WorldConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Mines   int     `yaml:"mines"`
	Players int     `yaml:"players"`
	Props   int     `yaml:"props"`
}

// PhysicsConfig holds rigid-body simulation parameters.
type PhysicsConfig struct {
	DT             float64 `yaml:"dt"`
	Gravity        float64 `yaml:"gravity"`
	Friction       float64 `yaml:"friction"`        // Coulomb coefficient at the ground contact
	RollingDrag    float64 `yaml:"rolling_drag"`    // Fraction of horizontal velocity lost per second
	AngularDamping float64 `yaml:"angular_damping"` // Fraction of spin lost per second
	Restitution    float64 `yaml:"restitution"`
	MineRadius     float64 `yaml:"mine_radius"`
	MineMass       float64 `yaml:"mine_mass"`
	PlayerRadius   float64 `yaml:"player_radius"`
	PlayerMass     float64 `yaml:"player_mass"`
	PropRadius     float64 `yaml:"prop_radius"`
	PropMass       float64 `yaml:"prop_mass"`
}

// NavConfig holds navigation grid parameters.
type NavConfig struct {
	CellSize   float64          `yaml:"cell_size"`
	MaxClimb   float64          `yaml:"max_climb"`
	StepHeight float64          `yaml:"step_height"`
	Obstacles  []ObstacleConfig `yaml:"obstacles"`
}

// ObstacleConfig describes an axis-aligned block in the arena.
// Blocked obstacles are walls; the rest raise the ground to Height.
type ObstacleConfig struct {
	MinX    float64 `yaml:"min_x"`
	MinY    float64 `yaml:"min_y"`
	MaxX    float64 `yaml:"max_x"`
	MaxY    float64 `yaml:"max_y"`
	Height  float64 `yaml:"height"`
	Blocked bool    `yaml:"blocked"`
}

// MineConfig holds the per-mine tunables. Values are copied into each
// agent at spawn and never read again.
type MineConfig struct {
	Health float64 `yaml:"health"`

	// Steering
	BaseDrive      float64 `yaml:"base_drive"`      // Base torque magnitude
	DriveScale     float64 `yaml:"drive_scale"`     // Fraction of base torque applied each tick
	CorrectionGain float64 `yaml:"correction_gain"` // Lateral correction gain; low values orbit, high values beeline

	// Targeting and paths
	MaxRange           float64 `yaml:"max_range"`
	TargetInterval     float64 `yaml:"target_interval"`
	PathInterval       float64 `yaml:"path_interval"`
	PathDistanceFactor float64 `yaml:"path_distance_factor"` // Nav search distance = max_range * this
	ArrivalTolerance   float64 `yaml:"arrival_tolerance"`
	Tag                string  `yaml:"tag"`
	HostileTag         string  `yaml:"hostile_tag"`
	DestructibleTag    string  `yaml:"destructible_tag"`

	// Combat
	ImpactDamage          float64 `yaml:"impact_damage"`    // Model impact damage (0 = derive from mass)
	MinImpactSpeed        float64 `yaml:"min_impact_speed"` // Model minimum damaging impact speed (0 = default)
	CounterpartMultiplier float64 `yaml:"counterpart_multiplier"`
	AttackDamage          float64 `yaml:"attack_damage"`
	AttackStunDuration    float64 `yaml:"attack_stun_duration"`
	KnockbackImpulse      float64 `yaml:"knockback_impulse"`
	KnockbackLift         float64 `yaml:"knockback_lift"`
	DamageForceScale      float64 `yaml:"damage_force_scale"`
	SpikeRadius           float64 `yaml:"spike_radius"`
	SpikeDamage           float64 `yaml:"spike_damage"`

	// Motion sound
	SoundID         string  `yaml:"sound_id"`
	SoundFactor     float64 `yaml:"sound_factor"`
	SoundEpsilon    float64 `yaml:"sound_epsilon"`
	SoundUpperLimit float64 `yaml:"sound_upper_limit"`
}

// PlayerConfig holds parameters for the wandering target entities.
type PlayerConfig struct {
	Health         float64 `yaml:"health"`
	WanderForce    float64 `yaml:"wander_force"`
	WanderInterval float64 `yaml:"wander_interval"`
	RespawnDelay   float64 `yaml:"respawn_delay"`
	Tag            string  `yaml:"tag"`
}

// PropConfig holds destructible scenery parameters.
type PropConfig struct {
	Health float64 `yaml:"health"`
	Tag    string  `yaml:"tag"`
}

// SoundConfig holds audio output parameters.
type SoundConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	HumFreq    float64 `yaml:"hum_freq"`
	BufferMs   int     `yaml:"buffer_ms"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
	OrbitLateralSpeed   float64 `yaml:"orbit_lateral_speed"` // Lateral speed counted as orbiting near the target
}

// VizConfig holds spectator stream parameters.
type VizConfig struct {
	Addr           string `yaml:"addr"`
	BroadcastEvery int    `yaml:"broadcast_every"` // Ticks between snapshots
}

// TuneConfig holds gain tuner parameters.
type TuneConfig struct {
	Seeds         int     `yaml:"seeds"`
	MaxTicks      int     `yaml:"max_ticks"`
	MaxEvals      int     `yaml:"max_evals"`
	StartDistance float64 `yaml:"start_distance"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TicksPerSecond  int     // 1 / Physics.DT, rounded
	NavCols         int     // World.Width / Nav.CellSize
	NavRows         int     // World.Height / Nav.CellSize
	PathMaxDistance float64 // Mine.MaxRange * Mine.PathDistanceFactor
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects configurations the simulation cannot run with.
func (c *Config) validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Nav.CellSize <= 0 {
		return fmt.Errorf("nav.cell_size must be positive, got %v", c.Nav.CellSize)
	}
	if c.World.Width <= 0 || c.World.Height <= 0 {
		return fmt.Errorf("world size must be positive, got %vx%v", c.World.Width, c.World.Height)
	}
	if c.Physics.MineRadius <= 0 || c.Physics.MineMass <= 0 {
		return fmt.Errorf("physics.mine_radius and physics.mine_mass must be positive")
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TicksPerSecond = int(1/c.Physics.DT + 0.5)
	c.Derived.NavCols = int(c.World.Width / c.Nav.CellSize)
	c.Derived.NavRows = int(c.World.Height / c.Nav.CellSize)
	c.Derived.PathMaxDistance = c.Mine.MaxRange * c.Mine.PathDistanceFactor

	if c.Mine.Tag == "" {
		c.Mine.Tag = traits.Rollermine.String()
	}
	if c.Mine.HostileTag == "" {
		c.Mine.HostileTag = c.Player.Tag
	}
	if c.Mine.DestructibleTag == "" {
		c.Mine.DestructibleTag = c.Prop.Tag
	}
	if c.Viz.BroadcastEvery < 1 {
		c.Viz.BroadcastEvery = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
