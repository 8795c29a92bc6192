package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestWorld(t *testing.T) *World {
	t.Helper()
	w, err := NewWorld(Config{Gravity: 9.81, Substeps: 4, StepOffset: 0.45})
	if err != nil {
		t.Fatalf("NewWorld() failed: %v", err)
	}
	return w
}

// addGround adds a 2x0.5x10 fixed block whose top sits at top.
func addGround(w *World, x, top float64) Handle {
	h := w.CreateBody(BodyFixed, mgl64.Vec3{x, top - 0.25, 0})
	w.CreateCollider(mgl64.Vec3{1, 0.25, 5}, h)
	return h
}

func addPlayer(w *World, pos mgl64.Vec3) Handle {
	h := w.CreateBody(BodyDynamic, pos)
	w.CreateCollider(mgl64.Vec3{0.25, 0.25, 0.25}, h)
	return h
}

func TestNewWorldUnavailable(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"nan gravity", Config{Gravity: math.NaN(), Substeps: 1}},
		{"inf gravity", Config{Gravity: math.Inf(1), Substeps: 1}},
		{"no substeps", Config{Gravity: 9.81, Substeps: 0}},
		{"negative step offset", Config{Gravity: 9.81, Substeps: 1, StepOffset: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWorld(tc.cfg)
			if !errors.Is(err, ErrPhysicsUnavailable) {
				t.Errorf("NewWorld() error = %v, expected ErrPhysicsUnavailable", err)
			}
		})
	}
}

func TestBodyFallsAndRests(t *testing.T) {
	w := newTestWorld(t)
	addGround(w, 0, 0)
	p := addPlayer(w, mgl64.Vec3{0, 2, 0})

	for i := 0; i < 120; i++ {
		w.Step(1.0 / 60.0)
	}

	pos := w.BodyTranslation(p)
	if math.Abs(pos.Y()-0.25) > 1e-9 {
		t.Errorf("player should rest with center at 0.25, got %f", pos.Y())
	}
	if vy := w.BodyVelocity(p).Y(); math.Abs(vy) > 1e-9 {
		t.Errorf("resting velocity should be 0, got %f", vy)
	}
}

func TestBodyFallsThroughGap(t *testing.T) {
	w := newTestWorld(t)
	addGround(w, 10, 0)
	p := addPlayer(w, mgl64.Vec3{0, 1, 0})

	for i := 0; i < 60; i++ {
		w.Step(1.0 / 60.0)
	}

	if y := w.BodyTranslation(p).Y(); y > -1 {
		t.Errorf("player with nothing below should fall, y = %f", y)
	}
}

func TestRaycastDown(t *testing.T) {
	w := newTestWorld(t)
	addGround(w, 0, 0)
	addGround(w, 0, -3)

	hit, ok := w.RaycastDown(mgl64.Vec3{0.5, 0.25, 0}, 0.45)
	if !ok {
		t.Fatal("expected a hit")
	}
	if math.Abs(hit.Distance-0.25) > 1e-9 {
		t.Errorf("Distance = %f, expected 0.25", hit.Distance)
	}
	if math.Abs(hit.Point.Y()) > 1e-9 {
		t.Errorf("Point.Y = %f, expected 0", hit.Point.Y())
	}

	if _, ok := w.RaycastDown(mgl64.Vec3{0, 2, 0}, 0.45); ok {
		t.Error("ground out of reach should not hit")
	}
	if _, ok := w.RaycastDown(mgl64.Vec3{5, 0.25, 0}, 10); ok {
		t.Error("ray outside every column should not hit")
	}
}

func TestRaycastFromInsideSolid(t *testing.T) {
	w := newTestWorld(t)
	addGround(w, 0, 0)

	hit, ok := w.RaycastDown(mgl64.Vec3{0, -0.1, 0}, 1)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Distance != 0 {
		t.Errorf("Distance = %f, expected 0", hit.Distance)
	}
}

func TestRaycastFollowsTeleport(t *testing.T) {
	w := newTestWorld(t)
	g := w.CreateBody(BodyKinematic, mgl64.Vec3{0, -0.25, 0})
	w.CreateCollider(mgl64.Vec3{1, 0.25, 5}, g)

	w.SetBodyTranslation(g, mgl64.Vec3{10, -0.25, 0})

	if _, ok := w.RaycastDown(mgl64.Vec3{0, 0.25, 0}, 1); ok {
		t.Error("old position should no longer answer ray casts")
	}
	if _, ok := w.RaycastDown(mgl64.Vec3{10, 0.25, 0}, 1); !ok {
		t.Error("new position should answer ray casts")
	}
}

func TestTeleportedGroundLiftsBody(t *testing.T) {
	w := newTestWorld(t)
	g := w.CreateBody(BodyKinematic, mgl64.Vec3{0, -0.25, 0})
	w.CreateCollider(mgl64.Vec3{1, 0.25, 5}, g)
	p := addPlayer(w, mgl64.Vec3{0, 0.25, 0})

	// Raise the ground by less than the step offset under the resting body
	w.SetBodyTranslation(g, mgl64.Vec3{0, 0.05, 0})
	w.Step(1.0 / 60.0)

	if y := w.BodyTranslation(p).Y(); math.Abs(y-0.55) > 1e-9 {
		t.Errorf("body should ride up to 0.55, y = %f", y)
	}
}

func TestKinematicIgnoresVelocity(t *testing.T) {
	w := newTestWorld(t)
	k := w.CreateBody(BodyKinematic, mgl64.Vec3{1, 2, 0})
	w.CreateCollider(mgl64.Vec3{0.5, 0.5, 0.5}, k)
	w.SetBodyVelocity(k, mgl64.Vec3{5, 5, 0})

	w.Step(1.0 / 60.0)

	if pos := w.BodyTranslation(k); pos != (mgl64.Vec3{1, 2, 0}) {
		t.Errorf("kinematic body moved to %v", pos)
	}
	if v := w.BodyVelocity(k); v != (mgl64.Vec3{5, 5, 0}) {
		t.Errorf("BodyVelocity() = %v, expected the stored value", v)
	}
}

func TestRaycastIgnoresDynamicAndSensors(t *testing.T) {
	w := newTestWorld(t)
	addPlayer(w, mgl64.Vec3{0, 0.25, 0})
	s := w.CreateBody(BodyKinematic, mgl64.Vec3{0, 0, 0})
	w.CreateCollider(mgl64.Vec3{1, 1, 1}, s, AsSensor())

	if hit, ok := w.RaycastDown(mgl64.Vec3{0, 0.25, 0}, 5); ok {
		t.Errorf("expected no hit, got %+v", hit)
	}
}

func TestStepUpLowLedge(t *testing.T) {
	w := newTestWorld(t)
	addGround(w, 0, 0)
	addGround(w, 2, 0.4)
	p := addPlayer(w, mgl64.Vec3{0, 0.25, 0})

	for i := 0; i < 60; i++ {
		w.SetBodyVelocity(p, mgl64.Vec3{3, w.BodyVelocity(p).Y(), 0})
		w.Step(1.0 / 60.0)
	}

	pos := w.BodyTranslation(p)
	if pos.X() < 1.5 {
		t.Errorf("player should climb the ledge, x = %f", pos.X())
	}
	if math.Abs(pos.Y()-0.65) > 1e-9 {
		t.Errorf("player should stand on the ledge at 0.65, y = %f", pos.Y())
	}
}

func TestTallLedgeBlocks(t *testing.T) {
	w := newTestWorld(t)
	addGround(w, 0, 0)
	addGround(w, 2, 1.0)
	p := addPlayer(w, mgl64.Vec3{0, 0.25, 0})

	for i := 0; i < 60; i++ {
		w.SetBodyVelocity(p, mgl64.Vec3{3, w.BodyVelocity(p).Y(), 0})
		w.Step(1.0 / 60.0)
	}

	if x := w.BodyTranslation(p).X(); x > 0.75+1e-9 {
		t.Errorf("player should be stopped at the ledge face, x = %f", x)
	}
}

func TestSensorDoesNotBlock(t *testing.T) {
	w := newTestWorld(t)
	addGround(w, 0, 0)
	addGround(w, 2, 0)
	wall := w.CreateBody(BodyKinematic, mgl64.Vec3{1, 0.75, 0})
	w.CreateCollider(mgl64.Vec3{0.25, 0.75, 0.25}, wall, AsSensor())
	p := addPlayer(w, mgl64.Vec3{0, 0.25, 0})

	for i := 0; i < 60; i++ {
		w.SetBodyVelocity(p, mgl64.Vec3{3, w.BodyVelocity(p).Y(), 0})
		w.Step(1.0 / 60.0)
	}

	if x := w.BodyTranslation(p).X(); x < 2 {
		t.Errorf("sensor should not block, x = %f", x)
	}
}

func TestRemoveBody(t *testing.T) {
	w := newTestWorld(t)
	g := addGround(w, 0, 0)
	p := addPlayer(w, mgl64.Vec3{0, 2, 0})

	w.RemoveBody(g)
	if w.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", w.Len())
	}
	if _, ok := w.RaycastDown(mgl64.Vec3{0, 1, 0}, 5); ok {
		t.Error("removed body should not answer ray casts")
	}

	w.RemoveBody(p)
	if w.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", w.Len())
	}
}

func TestUnknownHandlePanics(t *testing.T) {
	w := newTestWorld(t)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrUnknownHandle) {
			t.Errorf("expected ErrUnknownHandle panic, got %v", r)
		}
	}()
	w.SetBodyTranslation(Handle(42), mgl64.Vec3{})
}
