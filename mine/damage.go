package mine

import (
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
)

// Damage tags.
const (
	TagPhysicsImpact = "physics_impact"
	TagAttack        = "rollermine_attack"
	TagSpike         = "rollermine_spike"
)

// DamageInfo describes one damage application.
type DamageInfo struct {
	Amount   float64
	Tags     []string
	Attacker EntityID
	Position r3.Vec
	Force    r3.Vec
	HasForce bool
}

// Generic returns untagged damage of the given amount.
func Generic(amount float64) DamageInfo {
	return DamageInfo{Amount: amount}
}

// WithTag returns a copy of d carrying tag.
func (d DamageInfo) WithTag(tag string) DamageInfo {
	d.Tags = append(slices.Clip(d.Tags), tag)
	return d
}

// WithAttacker returns a copy of d attributed to id.
func (d DamageInfo) WithAttacker(id EntityID) DamageInfo {
	d.Attacker = id
	return d
}

// WithPosition returns a copy of d applied at p.
func (d DamageInfo) WithPosition(p r3.Vec) DamageInfo {
	d.Position = p
	return d
}

// WithForce returns a copy of d that pushes the victim with f.
func (d DamageInfo) WithForce(f r3.Vec) DamageInfo {
	d.Force = f
	d.HasForce = true
	return d
}

// HasTag reports whether d carries tag.
func (d DamageInfo) HasTag(tag string) bool {
	return slices.Contains(d.Tags, tag)
}

// ImpactData is the physical damage profile of a model. Zero fields mean
// the model supplies no value.
type ImpactData struct {
	ImpactDamage   float64
	MinImpactSpeed float64
}

// resolve fills missing values from the params defaults.
func (d ImpactData) resolve(p Params) ImpactData {
	if d.ImpactDamage <= 0 {
		d.ImpactDamage = p.DefaultImpactDamage
	}
	if d.MinImpactSpeed <= 0 {
		d.MinImpactSpeed = p.DefaultMinImpactSpeed
	}
	if d.MinImpactSpeed <= 0 {
		d.MinImpactSpeed = 500
	}
	return d
}

// ImpactDataForMass derives impact damage from a body's mass when the
// model declares none.
func ImpactDataForMass(mass float64) ImpactData {
	return ImpactData{ImpactDamage: mass / 10}
}
