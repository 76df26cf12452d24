// Package components defines ECS components for the arena.
package components

import "gonum.org/v1/gonum/spatial/r3"

// Position represents an entity's world position, mirrored from its body
// after every physics step.
type Position struct {
	X, Y, Z float64
}

// Vec returns the position as a vector.
func (p Position) Vec() r3.Vec { return r3.Vec{X: p.X, Y: p.Y, Z: p.Z} }

// Velocity represents an entity's linear velocity.
type Velocity struct {
	X, Y, Z float64
}

// Vec returns the velocity as a vector.
func (v Velocity) Vec() r3.Vec { return r3.Vec{X: v.X, Y: v.Y, Z: v.Z} }
