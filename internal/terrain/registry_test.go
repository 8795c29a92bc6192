package terrain

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/physics"
	"github.com/vovakirdan/tui-runner/internal/render"
)

func newTestRegistry(t *testing.T, seed int64, mutate func(*config.RunnerConfig), opts ...Option) (*Registry, *physics.World, *render.Scene) {
	t.Helper()

	cfg := config.DefaultRunnerConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	world, err := physics.NewWorld(physics.Config{
		Gravity:    cfg.World.Gravity,
		Substeps:   cfg.World.Substeps,
		StepOffset: cfg.World.StepOffset,
	})
	if err != nil {
		t.Fatalf("NewWorld() error = %v", err)
	}
	scene := render.NewScene()
	reg := NewRegistry(world, scene, cfg, seed, opts...)
	if err := reg.CreateInitialSegments(); err != nil {
		t.Fatalf("CreateInitialSegments() error = %v", err)
	}
	return reg, world, scene
}

func sortedByX(segs []Segment) []Segment {
	sort.Slice(segs, func(i, j int) bool { return segs[i].X < segs[j].X })
	return segs
}

func TestCreateInitialSegmentsSafeZone(t *testing.T) {
	reg, world, scene := newTestRegistry(t, 1, func(c *config.RunnerConfig) {
		c.Terrain.SlopeChance = 1
		c.Obstacles.InitialGapChance = 1
		c.Obstacles.InitialWallChance = 1
	})
	cfg := config.DefaultRunnerConfig()

	segs := reg.Segments()
	if len(segs) != cfg.InitialSegmentCount() {
		t.Fatalf("got %d segments, want %d", len(segs), cfg.InitialSegmentCount())
	}
	if world.Len() != len(segs)+len(reg.Walls()) {
		t.Errorf("world holds %d bodies, want %d", world.Len(), len(segs)+len(reg.Walls()))
	}
	if scene.Len() != world.Len() {
		t.Errorf("scene holds %d visuals, want %d", scene.Len(), world.Len())
	}

	safeEnd := cfg.Ground.StartX + float64(cfg.Ground.SafeZoneCount-1)*cfg.Ground.Width
	for i := 0; i < cfg.Ground.SafeZoneCount; i++ {
		seg := segs[i]
		wantX := cfg.Ground.StartX + float64(i)*cfg.Ground.Width
		if seg.X != wantX {
			t.Errorf("segment %d at x=%v, want %v", i, seg.X, wantX)
		}
		if seg.Terrain != Flat || seg.SurfaceY != 0 {
			t.Errorf("segment %d is %v at %v inside the safe zone", i, seg.Terrain, seg.SurfaceY)
		}
		if seg.BaseY != -cfg.Ground.Height/2 {
			t.Errorf("segment %d BaseY = %v", i, seg.BaseY)
		}
	}
	for _, w := range reg.Walls() {
		if w.X <= safeEnd {
			t.Errorf("wall at x=%v inside the safe zone", w.X)
		}
	}
}

func TestFiftyFlatSegments(t *testing.T) {
	reg, _, _ := newTestRegistry(t, 42, func(c *config.RunnerConfig) {
		c.Ground.Lookahead = 86
		c.Ground.TrailDistance = 12
		c.Terrain.SlopeChance = 0
		c.Terrain.PlatformChance = 0
		c.Obstacles.InitialGapChance = 0
		c.Obstacles.MaxGapChance = 0
		c.Obstacles.InitialWallChance = 0
		c.Obstacles.MaxWallChance = 0
	})

	segs := reg.Segments()
	if len(segs) != 50 {
		t.Fatalf("got %d segments, want 50", len(segs))
	}
	for i, seg := range segs {
		if seg.Terrain != Flat {
			t.Errorf("segment %d is %v", i, seg.Terrain)
		}
	}
	if h := reg.State().CurrentHeight; h != 0 {
		t.Errorf("height = %v, want 0", h)
	}
	if n := len(reg.Walls()); n != 0 {
		t.Errorf("got %d walls, want 0", n)
	}
}

func TestCreateInitialSegmentsErrors(t *testing.T) {
	cfg := config.DefaultRunnerConfig()

	reg := NewRegistry(nil, nil, cfg, 1)
	if err := reg.CreateInitialSegments(); !errors.Is(err, physics.ErrPhysicsUnavailable) {
		t.Errorf("nil physics: error = %v, want ErrPhysicsUnavailable", err)
	}

	ok, _, _ := newTestRegistry(t, 1, nil)
	if err := ok.CreateInitialSegments(); err == nil {
		t.Error("second CreateInitialSegments() succeeded")
	}
}

// runStrip scrolls the registry like the game loop does and checks the
// strip after every tick.
func runStrip(t *testing.T, reg *Registry, world *physics.World, ticks int) {
	t.Helper()

	cfg := reg.cfg
	const dt = 1.0 / 60.0
	speed := cfg.Speed.Max
	reg.SetDifficultySpeed(speed)

	bodies := make(map[physics.Handle]bool)
	for _, seg := range reg.Segments() {
		bodies[seg.Body] = true
	}

	playerX := 0.0
	for tick := 0; tick < ticks; tick++ {
		playerX += speed * dt
		reg.ScrollAndRecycle(speed*dt, playerX)

		if err := reg.Validate(); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if reg.State().CurrentHeight < 0 {
			t.Fatalf("tick %d: negative height", tick)
		}

		segs := sortedByX(reg.Segments())
		for _, seg := range segs {
			if !bodies[seg.Body] {
				t.Fatalf("tick %d: segment body %d was reallocated", tick, seg.Body)
			}
		}
		if world.Len() != len(segs)+len(reg.Walls()) {
			t.Fatalf("tick %d: %d bodies for %d segments and %d walls",
				tick, world.Len(), len(segs), len(reg.Walls()))
		}

		for i := 1; i < len(segs); i++ {
			d := segs[i].X - segs[i-1].X
			if math.Abs(d-cfg.Ground.Width) > 1e-6 && math.Abs(d-2*cfg.Ground.Width) > 1e-6 {
				t.Fatalf("tick %d: spacing %v between x=%v and x=%v", tick, d, segs[i-1].X, segs[i].X)
			}
		}

		checkWalls(t, tick, reg, segs)
	}
}

// checkWalls verifies every wall stands on a flat ground-level segment, no
// wall follows a gap and walls keep their minimum spacing.
func checkWalls(t *testing.T, tick int, reg *Registry, segs []Segment) {
	t.Helper()

	walled := make(map[int]bool)
	for _, w := range reg.Walls() {
		found := false
		for i, seg := range segs {
			if seg.X != w.X {
				continue
			}
			found = true
			walled[i] = true
			if seg.Terrain != Flat || seg.SurfaceY != 0 {
				t.Fatalf("tick %d: wall on %v segment at height %v", tick, seg.Terrain, seg.SurfaceY)
			}
			if i > 0 && segs[i].X-segs[i-1].X > reg.cfg.Ground.Width+1e-6 {
				t.Fatalf("tick %d: wall at x=%v right after a gap", tick, w.X)
			}
		}
		if !found {
			t.Fatalf("tick %d: wall at x=%v has no segment", tick, w.X)
		}
	}

	qualifying := 0
	last := -1
	for i, seg := range segs {
		if seg.Terrain != Flat || seg.SurfaceY != 0 {
			continue
		}
		if walled[i] {
			if last >= 0 && qualifying-last < reg.cfg.Obstacles.WallMinSpacing {
				t.Fatalf("tick %d: walls only %d qualifying segments apart", tick, qualifying-last)
			}
			last = qualifying
		}
		qualifying++
	}
}

func TestScrollAndRecycleInvariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.RunnerConfig)
	}{
		{"defaults", nil},
		{"dense obstacles", func(c *config.RunnerConfig) {
			c.Obstacles.InitialGapChance = 0.5
			c.Obstacles.MaxGapChance = 0.9
			c.Obstacles.InitialWallChance = 0.6
			c.Obstacles.MaxWallChance = 1
		}},
		{"hilly", func(c *config.RunnerConfig) {
			c.Terrain.SlopeChance = 0.4
			c.Terrain.PlatformChance = 0.3
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(1); seed <= 3; seed++ {
				reg, world, _ := newTestRegistry(t, seed, tt.mutate)
				runStrip(t, reg, world, 1500)
			}
		})
	}
}

func TestRecycleAttachesBeyondFrontier(t *testing.T) {
	reg, _, _ := newTestRegistry(t, 3, func(c *config.RunnerConfig) {
		c.Obstacles.InitialGapChance = 0
		c.Obstacles.MaxGapChance = 0
	})
	cfg := reg.cfg

	before := sortedByX(reg.Segments())
	frontier := before[len(before)-1].X
	trailing := before[0]

	// Push exactly one segment behind the trailing limit.
	playerX := trailing.X + cfg.Ground.TrailDistance + 0.5
	reg.ScrollAndRecycle(0, playerX)

	var moved Segment
	for _, seg := range reg.Segments() {
		if seg.Body == trailing.Body {
			moved = seg
		}
	}
	if want := frontier + cfg.Ground.Width; moved.X != want {
		t.Errorf("recycled segment at x=%v, want %v", moved.X, want)
	}
	if moved.Visual != trailing.Visual {
		t.Error("recycled segment changed its visual handle")
	}
}

func TestCheckWallCollision(t *testing.T) {
	reg, world, _ := newTestRegistry(t, 1, func(c *config.RunnerConfig) {
		c.Obstacles.InitialWallChance = 0
		c.Obstacles.MaxWallChance = 0
	})
	reg.addWall(5, 0)
	half := 0.25

	tests := []struct {
		name   string
		player core.Box
		want   bool
	}{
		{"touching left edge", core.BoxAround(4.75-half, 0.5, half, half), false},
		{"shifted into wall", core.BoxAround(4.75-half+0.1, 0.5, half, half), true},
		{"touching top", core.BoxAround(5, 1.5+half, half, half), false},
		{"clearing the top", core.BoxAround(5, 1.9, half, half), false},
		{"inside", core.BoxAround(5, 0.75, half, half), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reg.CheckWallCollision(tt.player); got != tt.want {
				t.Errorf("CheckWallCollision() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("follows live body", func(t *testing.T) {
		w := reg.Walls()[0]
		world.SetBodyTranslation(w.Body, mgl64.Vec3{20, 0.75, 0})
		if reg.CheckWallCollision(core.BoxAround(5, 0.75, half, half)) {
			t.Error("collision reported at the stale position")
		}
		if !reg.CheckWallCollision(core.BoxAround(20, 0.75, half, half)) {
			t.Error("no collision at the live position")
		}
	})
}

func TestDispose(t *testing.T) {
	reg, world, scene := newTestRegistry(t, 9, nil)
	reg.ScrollAndRecycle(1, 20)
	reg.Dispose()

	if world.Len() != 0 {
		t.Errorf("world still holds %d bodies", world.Len())
	}
	if scene.Len() != 0 {
		t.Errorf("scene still holds %d visuals", scene.Len())
	}
	if reg.State() != (State{}) {
		t.Errorf("state not reset: %+v", reg.State())
	}

	if err := reg.CreateInitialSegments(); err != nil {
		t.Fatalf("CreateInitialSegments() after Dispose error = %v", err)
	}
	if len(reg.Segments()) != reg.cfg.InitialSegmentCount() {
		t.Errorf("got %d segments after rebuild", len(reg.Segments()))
	}
}

func TestDebugModePanicsOnViolation(t *testing.T) {
	reg, _, _ := newTestRegistry(t, 1, nil, WithDebug(true))
	reg.state.CurrentHeight = -1

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("no panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvariantViolation) {
			t.Errorf("panic value = %v, want ErrInvariantViolation", r)
		}
	}()
	reg.ScrollAndRecycle(0.1, 0)
}

func TestValidateDetectsDrift(t *testing.T) {
	reg, world, _ := newTestRegistry(t, 1, nil)
	seg := reg.Segments()[0]
	world.SetBodyTranslation(seg.Body, mgl64.Vec3{seg.X + 1, seg.BaseY, 0})

	if err := reg.Validate(); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("Validate() = %v, want ErrInvariantViolation", err)
	}
}
