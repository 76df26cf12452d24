package mine

import "gonum.org/v1/gonum/spatial/r3"

// Path is a planned waypoint sequence with a forward-only cursor.
// A re-plan replaces the whole Path; the cursor of one Path never moves back.
type Path struct {
	waypoints []r3.Vec
	cursor    int
}

// NewPath wraps waypoints with the cursor at 0. The slice is not copied.
func NewPath(waypoints []r3.Vec) *Path {
	return &Path{waypoints: waypoints}
}

// Len returns the number of waypoints.
func (p *Path) Len() int { return len(p.waypoints) }

// Cursor returns the index of the waypoint currently steered toward.
func (p *Path) Cursor() int { return p.cursor }

// Waypoints returns the underlying waypoints. Callers must not modify them.
func (p *Path) Waypoints() []r3.Vec { return p.waypoints }

// Current returns the waypoint at the cursor, if any remain.
func (p *Path) Current() (r3.Vec, bool) {
	if p.cursor < 0 || p.cursor >= len(p.waypoints) {
		return r3.Vec{}, false
	}
	return p.waypoints[p.cursor], true
}

// Exhausted reports whether the cursor has passed the last waypoint.
func (p *Path) Exhausted() bool { return p.cursor >= len(p.waypoints) }

// advance moves the cursor forward when from is within tolerance of the
// current waypoint.
func (p *Path) advance(from r3.Vec, tolerance float64) {
	wp, ok := p.Current()
	if !ok {
		return
	}
	if r3.Norm(r3.Sub(wp, from)) <= tolerance {
		p.cursor++
	}
}

// PathFollower keeps a path toward the target fresh and picks the point to
// steer at.
type PathFollower struct {
	Nav              Navigator
	Query            PathQuery
	Interval         float64 // Seconds between re-plans
	ArrivalTolerance float64
}

// Advance re-plans when there is no path or elapsed has reached the interval,
// then advances the cursor and returns the lookahead point. The returned path
// differs from path exactly when a re-plan happened. ok is false when the
// path has no waypoints, in which case the caller should not steer.
func (f PathFollower) Advance(path *Path, from, target r3.Vec, elapsed float64) (next *Path, lookahead r3.Vec, ok bool) {
	next = path
	if next == nil || elapsed >= f.Interval {
		var wps []r3.Vec
		if f.Nav != nil {
			wps = f.Nav.BuildPath(from, target, f.Query)
		}
		next = NewPath(wps)
	}

	if next.Len() == 0 {
		return next, r3.Vec{}, false
	}

	next.advance(from, f.ArrivalTolerance)
	if wp, has := next.Current(); has {
		return next, wp, true
	}
	return next, target, true
}
