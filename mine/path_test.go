package mine

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestPathCursorMonotonic(t *testing.T) {
	nav := &straightNav{useFix: true, fixed: []r3.Vec{
		{X: 0}, {X: 100}, {X: 200}, {X: 300},
	}}
	f := PathFollower{Nav: nav, Interval: 1, ArrivalTolerance: 64}

	path, _, ok := f.Advance(nil, r3.Vec{X: 500}, r3.Vec{X: 300}, 0)
	if !ok || path.Cursor() != 0 {
		t.Fatalf("fresh path: ok=%v cursor=%d", ok, path.Cursor())
	}

	// Walk forward, then jump back to the start; the cursor must not decrease.
	positions := []r3.Vec{{X: 0}, {X: 100}, {X: 0}, {X: 200}, {X: 5}, {X: 300}, {X: 0}}
	prev := path.Cursor()
	for i, pos := range positions {
		next, _, _ := f.Advance(path, pos, r3.Vec{X: 300}, 0.1)
		if next != path {
			t.Fatalf("step %d: unexpected re-plan", i)
		}
		if path.Cursor() < prev {
			t.Fatalf("step %d: cursor went from %d to %d", i, prev, path.Cursor())
		}
		prev = path.Cursor()
	}
	if !path.Exhausted() {
		t.Errorf("expected exhausted path, cursor=%d len=%d", path.Cursor(), path.Len())
	}

	// Re-plan resets the cursor on a new instance.
	replanned, _, _ := f.Advance(path, r3.Vec{X: 900}, r3.Vec{X: 300}, 1)
	if replanned == path {
		t.Fatal("expected a new path after the interval")
	}
	if replanned.Cursor() != 0 {
		t.Errorf("re-planned cursor = %d, want 0", replanned.Cursor())
	}
}

func TestPathLookahead(t *testing.T) {
	target := r3.Vec{X: 400, Y: 50}
	nav := &straightNav{useFix: true, fixed: []r3.Vec{{X: 0}, {X: 100}}}
	f := PathFollower{Nav: nav, Interval: 1, ArrivalTolerance: 64}

	path, look, ok := f.Advance(nil, r3.Vec{X: 10}, target, 0)
	if !ok || look != (r3.Vec{X: 100}) {
		t.Errorf("expected advance to second waypoint, got %v ok=%v", look, ok)
	}

	_, look, ok = f.Advance(path, r3.Vec{X: 90}, target, 0.5)
	if !ok || look != target {
		t.Errorf("exhausted path should fall back to the target, got %v ok=%v", look, ok)
	}
}

func TestPathArrivalAtTolerance(t *testing.T) {
	tests := []struct {
		name       string
		from       r3.Vec
		wantCursor int
		wantLook   r3.Vec
	}{
		{"inside", r3.Vec{X: 10}, 1, r3.Vec{X: 200}},
		{"exactly at tolerance", r3.Vec{}, 1, r3.Vec{X: 200}},
		{"just outside", r3.Vec{X: -0.5}, 0, r3.Vec{X: 64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := &straightNav{useFix: true, fixed: []r3.Vec{{X: 64}, {X: 200}}}
			f := PathFollower{Nav: nav, Interval: 1, ArrivalTolerance: 64}

			path, look, ok := f.Advance(nil, tt.from, r3.Vec{X: 300}, 0)
			if !ok {
				t.Fatal("expected a lookahead")
			}
			if path.Cursor() != tt.wantCursor || look != tt.wantLook {
				t.Errorf("cursor=%d lookahead=%v, want %d %v", path.Cursor(), look, tt.wantCursor, tt.wantLook)
			}
		})
	}
}

func TestPathEmptyYieldsNoLookahead(t *testing.T) {
	for _, wps := range [][]r3.Vec{nil, {}} {
		nav := &straightNav{useFix: true, fixed: wps}
		f := PathFollower{Nav: nav, Interval: 1, ArrivalTolerance: 64}
		path, _, ok := f.Advance(nil, r3.Vec{}, r3.Vec{X: 300}, 0)
		if ok {
			t.Error("expected no lookahead from empty path")
		}
		if path == nil || path.Len() != 0 {
			t.Errorf("expected an empty path instance, got %v", path)
		}
	}
}

func TestPathReplanInterval(t *testing.T) {
	nav := &straightNav{}
	f := PathFollower{Nav: nav, Interval: 1, ArrivalTolerance: 64}

	path, _, _ := f.Advance(nil, r3.Vec{}, r3.Vec{X: 500}, 0)
	for _, elapsed := range []float64{0.2, 0.5, 0.99} {
		if next, _, _ := f.Advance(path, r3.Vec{}, r3.Vec{X: 500}, elapsed); next != path {
			t.Errorf("re-planned at elapsed %v", elapsed)
		}
	}
	if nav.calls != 1 {
		t.Errorf("nav calls = %d, want 1", nav.calls)
	}
	if next, _, _ := f.Advance(path, r3.Vec{}, r3.Vec{X: 500}, 1); next == path {
		t.Error("expected re-plan at the interval")
	}
}
