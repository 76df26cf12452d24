package camera

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 0.01
}

func TestNew(t *testing.T) {
	cam := New(1280, 720, 4096, 4096)

	if cam.X != 2048 || cam.Y != 2048 {
		t.Errorf("expected camera at (2048, 2048), got (%f, %f)", cam.X, cam.Y)
	}
	// The tighter axis decides the fit: 720/4096
	if !near(cam.Zoom, 720.0/4096) {
		t.Errorf("expected fit zoom %f, got %f", 720.0/4096, cam.Zoom)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	sx, sy := cam.WorldToScreen(1280, 720)
	if !near(sx, 640) || !near(sy, 360) {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)
	cam.Follow(900, 500)

	for _, tc := range []struct{ sx, sy float32 }{
		{640, 360},
		{100, 100},
		{1200, 600},
	} {
		wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
		sx, sy := cam.WorldToScreen(wx, wy)
		if !near(sx, tc.sx) || !near(sy, tc.sy) {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
				tc.sx, tc.sy, wx, wy, sx, sy)
		}
	}
}

func TestPanStaysInArena(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2)

	cam.Pan(-100000, -100000)
	minX, minY, _, _ := cam.VisibleWorldBounds()
	if !near(minX, 0) || !near(minY, 0) {
		t.Errorf("expected view pinned to top-left corner, got (%f, %f)", minX, minY)
	}

	cam.Pan(100000, 100000)
	_, _, maxX, maxY := cam.VisibleWorldBounds()
	if !near(maxX, 2560) || !near(maxY, 1440) {
		t.Errorf("expected view pinned to bottom-right corner, got (%f, %f)", maxX, maxY)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)

	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1)
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(10.0)
	if cam.Zoom != 4.0 {
		t.Errorf("expected zoom clamped to 4.0, got %f", cam.Zoom)
	}
}

func TestZoomAtKeepsCursorPoint(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1)

	wx, wy := cam.ScreenToWorld(900, 400)
	cam.ZoomAt(900, 400, 1.5)
	gx, gy := cam.ScreenToWorld(900, 400)
	if !near(wx, gx) || !near(wy, gy) {
		t.Errorf("point under cursor moved from (%f,%f) to (%f,%f)", wx, wy, gx, gy)
	}
}

func TestFollowCentersWhenViewWiderThanArena(t *testing.T) {
	cam := New(800, 600, 1600, 800)

	// Fit zoom is 0.5: the view is 1600x1200, taller than the arena.
	cam.Follow(100, 100)
	if !near(cam.Y, 400) {
		t.Errorf("expected Y centered at 400, got %f", cam.Y)
	}
	if !near(cam.X, 800) {
		t.Errorf("expected X centered at 800, got %f", cam.X)
	}
}

func TestIsVisible(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(1)

	// Visible range is (640, 360) to (1920, 1080)
	if !cam.IsVisible(1280, 720, 10) {
		t.Error("center should be visible")
	}
	if cam.IsVisible(2400, 1300, 10) {
		t.Error("far point should not be visible")
	}
	if !cam.IsVisible(600, 720, 100) {
		t.Error("edge point with large radius should be visible")
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440)
	cam.SetZoom(2.5)
	cam.Follow(500, 500)

	cam.Reset()

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected position (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != cam.MinZoom {
		t.Errorf("expected zoom %f, got %f", cam.MinZoom, cam.Zoom)
	}
}
