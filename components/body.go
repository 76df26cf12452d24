package components

import "github.com/pthm-cable/rollermine/physics"

// Body links an entity to its rigid body.
type Body struct {
	Ref    *physics.Body
	Radius float64
}
