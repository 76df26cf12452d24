package mine

// Params holds the per-agent tunables. They are copied at construction and
// only change through SetGains.
type Params struct {
	Health float64

	// Steering
	BaseDrive      float64 // Base drive torque magnitude
	DriveScale     float64 // Fraction of BaseDrive applied each tick
	CorrectionGain float64 // Lateral correction torque gain

	// Targeting
	MaxRange        float64
	TargetInterval  float64 // Seconds between forced re-acquisitions
	SelfTag         string  // Tag the agent answers to in HasTag
	HostileTag      string
	DestructibleTag string

	// Paths
	PathInterval       float64 // Seconds between re-plans
	PathDistanceFactor float64 // Nav search distance = MaxRange * this
	ArrivalTolerance   float64
	MaxClimb           float64
	StepHeight         float64

	// Spikes
	SpikeRadius float64 // Spikes extend when the target is closer than this
	SpikeDamage float64

	// Impacts. Zero impact data falls back to the Default* values.
	ImpactDamage          float64
	MinImpactSpeed        float64
	DefaultImpactDamage   float64
	DefaultMinImpactSpeed float64
	CounterpartMultiplier float64
	DamageForceScale      float64

	// Attacks
	AttackDamage       float64
	AttackStunDuration float64
	KnockbackImpulse   float64
	KnockbackLift      float64 // Upward bias added to the reversed contact normal

	// Sound
	SoundID         string
	SoundFactor     float64
	SoundEpsilon    float64
	SoundUpperLimit float64
}

// DefaultParams returns the stock rollermine tuning.
func DefaultParams() Params {
	return Params{
		Health: 100,

		BaseDrive:      1e7,
		DriveScale:     0.6,
		CorrectionGain: 2e4,

		MaxRange:        1024,
		TargetInterval:  5,
		SelfTag:         "rollermine",
		HostileTag:      "player",
		DestructibleTag: "destructible",

		PathInterval:       1,
		PathDistanceFactor: 2,
		ArrivalTolerance:   64,
		MaxClimb:           4,
		StepHeight:         4,

		SpikeRadius: 128,
		SpikeDamage: 5,

		DefaultImpactDamage:   10,
		DefaultMinImpactSpeed: 500,
		CounterpartMultiplier: 1.2,
		DamageForceScale:      100,

		AttackDamage:       15,
		AttackStunDuration: 2,
		KnockbackImpulse:   9e5,
		KnockbackLift:      0.6,

		SoundID:         "rmine_moveslow_loop1",
		SoundFactor:     0.05,
		SoundEpsilon:    0.2,
		SoundUpperLimit: 1.23,
	}
}

// pathQuery derives the navigation bounds from the agent's range.
func (p Params) pathQuery() PathQuery {
	return PathQuery{
		MaxClimb:     p.MaxClimb,
		StepHeight:   p.StepHeight,
		MaxDistance:  p.MaxRange * p.PathDistanceFactor,
		AllowPartial: true,
	}
}
