package physics

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func testConfig() Config {
	return Config{
		Width:          2000,
		Height:         2000,
		Gravity:        800,
		Friction:       0.9,
		RollingDrag:    0.35,
		AngularDamping: 0.2,
		Restitution:    0.4,
		CellSize:       64,
	}
}

// wallTerrain blocks x >= wallX and raises a step at y >= stepY.
type wallTerrain struct {
	wallX, stepY, stepH float64
}

func (t wallTerrain) HeightAt(x, y float64) float64 {
	if y >= t.stepY {
		return t.stepH
	}
	return 0
}

func (t wallTerrain) BlockedAt(x, y float64) bool { return x >= t.wallX }

// TestTorqueRollsSphere verifies torque about the drive axis moves the body
// along the heading through ground friction.
func TestTorqueRollsSphere(t *testing.T) {
	w := NewWorld(testConfig(), nil)
	b := w.NewBody(r3.Vec{X: 500, Y: 500}, 16, 1800)

	const dt = 1.0 / 60
	for i := 0; i < 120; i++ {
		// Axis +Y rolls toward +X.
		b.ApplyTorque(r3.Vec{Y: 6e6})
		w.Step(dt)
	}

	if b.Position().X <= 520 {
		t.Errorf("expected travel toward +X, got %v", b.Position())
	}
	if math.Abs(b.Position().Y-500) > 1e-6 {
		t.Errorf("unexpected lateral drift to %v", b.Position().Y)
	}
	if math.Abs(b.Position().Z-16) > 1e-6 {
		t.Errorf("expected body resting on the ground, z=%v", b.Position().Z)
	}
	// Rolling without slip: v = ω × (r up).
	roll := r3.Scale(16, r3.Cross(b.AngularVelocity(), r3.Vec{Z: 1}))
	if math.Abs(roll.X-b.Velocity().X) > 0.05*math.Abs(b.Velocity().X)+1 {
		t.Errorf("expected rolling contact, v=%v ω×r=%v", b.Velocity(), roll)
	}
}

func TestFrictionLimited(t *testing.T) {
	cfg := testConfig()
	w := NewWorld(cfg, nil)
	b := w.NewBody(r3.Vec{X: 500, Y: 500}, 16, 1800)

	// Spin in place far beyond what one step of friction can convert.
	b.SetAngularVelocity(r3.Vec{Y: 1000})
	w.Step(1.0 / 60)

	maxDV := cfg.Friction * cfg.Gravity / 60
	if got := b.Velocity().X; got > maxDV+1e-6 || got <= 0 {
		t.Errorf("velocity after one step = %v, want (0, %v]", got, maxDV)
	}
}

func TestWallReflects(t *testing.T) {
	w := NewWorld(testConfig(), wallTerrain{wallX: 600, stepY: 1e9})
	b := w.NewBody(r3.Vec{X: 580, Y: 500}, 16, 1800)
	b.SetVelocity(r3.Vec{X: 300, Y: 20})

	contacts := w.Step(1.0 / 60)

	if len(contacts) != 1 {
		t.Fatalf("expected one wall contact, got %d", len(contacts))
	}
	c := contacts[0]
	if c.A != b || c.B != nil || c.Normal != (r3.Vec{X: 1}) {
		t.Errorf("unexpected contact %+v", c)
	}
	if math.Abs(c.Speed-300) > 50 {
		t.Errorf("contact speed = %v, want about 300", c.Speed)
	}
	if b.Velocity().X >= 0 {
		t.Errorf("expected reflected X velocity, got %v", b.Velocity())
	}
	if b.Position().X+16 >= 600 {
		t.Errorf("body entered the wall at %v", b.Position())
	}
}

func TestArenaBounds(t *testing.T) {
	w := NewWorld(testConfig(), nil)
	b := w.NewBody(r3.Vec{X: 20, Y: 1000}, 16, 100)
	b.SetVelocity(r3.Vec{X: -600})

	for i := 0; i < 30; i++ {
		w.Step(1.0 / 60)
	}
	if b.Position().X < 16 {
		t.Errorf("body left the arena: %v", b.Position())
	}
}

func TestStepHeightSnaps(t *testing.T) {
	w := NewWorld(testConfig(), wallTerrain{wallX: 1e9, stepY: 510, stepH: 3})
	b := w.NewBody(r3.Vec{X: 500, Y: 500}, 16, 1800)
	b.SetVelocity(r3.Vec{Y: 300})

	for i := 0; i < 10; i++ {
		w.Step(1.0 / 60)
	}
	if math.Abs(b.Position().Z-19) > 1e-6 {
		t.Errorf("expected body on the raised step, z=%v", b.Position().Z)
	}
}

func TestSphereCollision(t *testing.T) {
	cfg := testConfig()
	cfg.Gravity = 0
	cfg.RollingDrag = 0
	w := NewWorld(cfg, nil)
	a := w.NewBody(r3.Vec{X: 500, Y: 500}, 16, 1000)
	b := w.NewBody(r3.Vec{X: 540, Y: 500}, 16, 1000)
	a.SetVelocity(r3.Vec{X: 600})

	var hit *Contact
	for i := 0; i < 10 && hit == nil; i++ {
		for _, c := range w.Step(1.0 / 60) {
			if c.B != nil {
				c := c
				hit = &c
			}
		}
	}
	if hit == nil {
		t.Fatal("expected a sphere contact")
	}
	if hit.A != a || hit.B != b {
		t.Errorf("contact pair = %d,%d", hit.A.ID(), hit.B.ID())
	}
	if hit.Normal.X < 0.99 {
		t.Errorf("normal = %v, want +X", hit.Normal)
	}
	if hit.PreVelocityA.X <= 0 || hit.Speed <= 0 {
		t.Errorf("pre-velocity %v speed %v", hit.PreVelocityA, hit.Speed)
	}
	if b.Velocity().X <= 0 {
		t.Errorf("struck body should move away, v=%v", b.Velocity())
	}
	// Equal masses conserve momentum along the normal.
	if p := a.Velocity().X + b.Velocity().X; math.Abs(p-hit.PreVelocityA.X) > 1e-6 {
		t.Errorf("momentum %v, want %v", p, hit.PreVelocityA.X)
	}
}

func TestStaticBodyImmovable(t *testing.T) {
	w := NewWorld(testConfig(), nil)
	wall := w.NewBody(r3.Vec{X: 530, Y: 500}, 16, 0)
	ball := w.NewBody(r3.Vec{X: 500, Y: 500}, 16, 1000)
	ball.SetVelocity(r3.Vec{X: 400})
	wall.ApplyImpulseAt(wall.Position(), r3.Vec{X: 1e9})

	for i := 0; i < 5; i++ {
		w.Step(1.0 / 60)
	}
	if wall.Position() != (r3.Vec{X: 530, Y: 500, Z: 16}) {
		t.Errorf("static body moved to %v", wall.Position())
	}
	if ball.Velocity().X >= 0 {
		t.Errorf("ball should bounce off, v=%v", ball.Velocity())
	}
}

func TestApplyImpulseAt(t *testing.T) {
	w := NewWorld(testConfig(), nil)
	b := w.NewBody(r3.Vec{X: 500, Y: 500, Z: 100}, 10, 100)

	b.ApplyImpulseAt(b.Position(), r3.Vec{X: 200})
	if b.Velocity() != (r3.Vec{X: 2}) || b.AngularVelocity() != (r3.Vec{}) {
		t.Errorf("central impulse: v=%v ω=%v", b.Velocity(), b.AngularVelocity())
	}

	// Arm (0,0,10) x impulse (1,0,0) = (0,10,0).
	b.ApplyImpulseAt(r3.Add(b.Position(), r3.Vec{Z: 10}), r3.Vec{X: 1})
	if b.AngularVelocity().Y <= 0 {
		t.Errorf("expected spin about +Y, got %v", b.AngularVelocity())
	}
}

func TestRemove(t *testing.T) {
	w := NewWorld(testConfig(), nil)
	a := w.NewBody(r3.Vec{X: 100, Y: 100}, 10, 10)
	b := w.NewBody(r3.Vec{X: 300, Y: 100}, 10, 10)

	w.Remove(a)
	w.Remove(a)
	if len(w.Bodies()) != 1 || w.Bodies()[0] != b || !a.Removed() {
		t.Errorf("bodies after remove: %d", len(w.Bodies()))
	}
}
