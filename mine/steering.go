package mine

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// yaw90 turns a heading into the torque axis that rolls a sphere along it.
var yaw90 = r3.NewRotation(math.Pi/2, Up)

// Steering converts a lookahead point into drive and correction torques.
//
// The drive torque spins the sphere about the axis perpendicular to the flat
// heading, so rolling contact accelerates it toward the lookahead. The
// correction torque spins it about the heading itself, in proportion to the
// lateral component of the current velocity, which bleeds off sideways
// drift. A low CorrectionGain lets the mine orbit its target; a high one
// makes it beeline and overshoot.
type Steering struct {
	BaseDrive      float64
	DriveScale     float64
	CorrectionGain float64
}

// Steer applies this tick's torques to a. Nothing is applied when the
// lookahead is directly above or below the actuator.
func (s Steering) Steer(a Actuator, lookahead r3.Vec) {
	pos := a.Position()
	normal, ok := safeUnit(flatten(r3.Sub(lookahead, pos)))
	if !ok {
		return
	}

	drive := r3.Scale(s.BaseDrive*s.DriveScale, DriveAxis(normal))
	if finite(drive) {
		a.ApplyTorque(drive)
	}

	c := CorrectionMagnitude(a.Velocity(), normal)
	if c == 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return
	}
	a.ApplyTorque(r3.Scale(c*s.CorrectionGain, normal))
}

// DriveAxis returns the torque axis that rolls a sphere along heading.
func DriveAxis(heading r3.Vec) r3.Vec {
	return yaw90.Rotate(heading)
}

// CorrectionMagnitude is the horizontal speed times the sine of the signed
// angle from heading to the horizontal velocity. It is exactly zero for a
// zero velocity.
func CorrectionMagnitude(velocity, heading r3.Vec) float64 {
	speed := math.Hypot(velocity.X, velocity.Y)
	if speed == 0 {
		return 0
	}
	angle := math.Atan2(velocity.Y, velocity.X) - math.Atan2(heading.Y, heading.X)
	return speed * math.Sin(angle)
}

func flatten(v r3.Vec) r3.Vec {
	v.Z = 0
	return v
}

// safeUnit normalizes v, reporting false for zero or non-finite vectors.
func safeUnit(v r3.Vec) (r3.Vec, bool) {
	n := r3.Norm(v)
	if n < 1e-9 || math.IsNaN(n) || math.IsInf(n, 0) {
		return r3.Vec{}, false
	}
	return r3.Scale(1/n, v), true
}

func finite(v r3.Vec) bool {
	for _, f := range [...]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
