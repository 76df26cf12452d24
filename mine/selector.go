package mine

import "gonum.org/v1/gonum/spatial/r3"

// Selector picks a pursuit target from candidates.
type Selector interface {
	SelectTarget(candidates []Targetable, from r3.Vec, maxRange float64) (Targetable, bool)
}

// CanTarget reports whether t is alive, tagged hostile and within maxRange of from.
func CanTarget(t Targetable, from r3.Vec, maxRange float64, hostileTag string) bool {
	if t == nil || !t.IsAlive() || !t.HasTag(hostileTag) {
		return false
	}
	return r3.Norm(r3.Sub(t.Position(), from)) <= maxRange
}

// NearestSelector picks the closest candidate satisfying CanTarget.
// Equidistant candidates resolve to the first in iteration order.
type NearestSelector struct {
	HostileTag string
}

// SelectTarget implements Selector.
func (s NearestSelector) SelectTarget(candidates []Targetable, from r3.Vec, maxRange float64) (Targetable, bool) {
	var best Targetable
	bestDist := 0.0
	for _, c := range candidates {
		if !CanTarget(c, from, maxRange, s.HostileTag) {
			continue
		}
		d := r3.Norm(r3.Sub(c.Position(), from))
		if best == nil || d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best, best != nil
}
