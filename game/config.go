package game

import (
	"github.com/pthm-cable/rollermine/config"
	"github.com/pthm-cable/rollermine/mine"
	"github.com/pthm-cable/rollermine/physics"
)

// mineParams builds the per-agent tunables from the loaded config.
// Values not exposed in config keep their mine.DefaultParams value.
func mineParams(cfg *config.Config) mine.Params {
	p := mine.DefaultParams()
	m := cfg.Mine

	p.Health = m.Health
	p.BaseDrive = m.BaseDrive
	p.DriveScale = m.DriveScale
	p.CorrectionGain = m.CorrectionGain

	p.MaxRange = m.MaxRange
	p.TargetInterval = m.TargetInterval
	p.SelfTag = m.Tag
	p.HostileTag = m.HostileTag
	p.DestructibleTag = m.DestructibleTag

	p.PathInterval = m.PathInterval
	p.PathDistanceFactor = m.PathDistanceFactor
	p.ArrivalTolerance = m.ArrivalTolerance
	p.MaxClimb = cfg.Nav.MaxClimb
	p.StepHeight = cfg.Nav.StepHeight

	p.SpikeRadius = m.SpikeRadius
	p.SpikeDamage = m.SpikeDamage

	p.ImpactDamage = m.ImpactDamage
	p.MinImpactSpeed = m.MinImpactSpeed
	p.CounterpartMultiplier = m.CounterpartMultiplier
	p.DamageForceScale = m.DamageForceScale

	p.AttackDamage = m.AttackDamage
	p.AttackStunDuration = m.AttackStunDuration
	p.KnockbackImpulse = m.KnockbackImpulse
	p.KnockbackLift = m.KnockbackLift

	if m.SoundID != "" {
		p.SoundID = m.SoundID
	}
	p.SoundFactor = m.SoundFactor
	p.SoundEpsilon = m.SoundEpsilon
	p.SoundUpperLimit = m.SoundUpperLimit
	return p
}

// physicsConfig maps the physics section onto the rigid-body world.
func physicsConfig(cfg *config.Config) physics.Config {
	return physics.Config{
		Width:          cfg.World.Width,
		Height:         cfg.World.Height,
		Gravity:        cfg.Physics.Gravity,
		Friction:       cfg.Physics.Friction,
		RollingDrag:    cfg.Physics.RollingDrag,
		AngularDamping: cfg.Physics.AngularDamping,
		Restitution:    cfg.Physics.Restitution,
		CellSize:       broadphaseCell(cfg),
	}
}

// broadphaseCell returns a cell wider than the largest body diameter.
func broadphaseCell(cfg *config.Config) float64 {
	r := max(cfg.Physics.MineRadius, cfg.Physics.PlayerRadius, cfg.Physics.PropRadius)
	return max(cfg.Nav.CellSize, 2*r+1)
}
