package runner

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/physics"
	"github.com/vovakirdan/tui-runner/internal/terrain"
)

func testRuntime(seed int64) core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     seed,
	}
}

// flatConfig has no slopes, gaps or walls.
func flatConfig() config.RunnerConfig {
	cfg := config.DefaultRunnerConfig()
	cfg.Terrain.SlopeChance = 0
	cfg.Terrain.PlatformChance = 0
	cfg.Obstacles.InitialGapChance = 0
	cfg.Obstacles.MaxGapChance = 0
	cfg.Obstacles.InitialWallChance = 0
	cfg.Obstacles.MaxWallChance = 0
	return cfg
}

func runTicks(g *Game, n int, input func(i int) core.InputFrame) core.GameState {
	var st core.GameState
	for i := 0; i < n; i++ {
		in := core.NewInputFrame()
		if input != nil {
			in = input(i)
		}
		st = g.Step(in).State
		if st.GameOver {
			break
		}
	}
	return st
}

func TestGameDeterminism(t *testing.T) {
	// Jump every 40 ticks
	jumpy := func(i int) core.InputFrame {
		in := core.NewInputFrame()
		if i%40 == 0 {
			in.Set(core.ActionJump)
		}
		return in
	}

	g1 := NewWithConfig(config.DefaultRunnerConfig())
	g1.Reset(testRuntime(12345))
	state1 := runTicks(g1, 900, jumpy)

	g2 := NewWithConfig(config.DefaultRunnerConfig())
	g2.Reset(testRuntime(12345))
	state2 := runTicks(g2, 900, jumpy)

	if state1 != state2 {
		t.Errorf("Determinism failed: %+v vs %+v", state1, state2)
	}
	if g1.tickCount != g2.tickCount {
		t.Errorf("Determinism failed: tick counts differ. Run1=%d, Run2=%d", g1.tickCount, g2.tickCount)
	}
}

func TestGameReset(t *testing.T) {
	g := NewWithConfig(config.DefaultRunnerConfig())
	g.Reset(testRuntime(42))

	runTicks(g, 200, nil)
	g.Reset(testRuntime(42))

	if g.Score() != 0 {
		t.Errorf("Reset should clear score, got %d", g.Score())
	}
	if g.gameOver || g.paused || g.cause != "" {
		t.Error("Reset should clear run flags")
	}
	if g.tickCount != 0 {
		t.Errorf("Reset should clear tickCount, got %d", g.tickCount)
	}

	want := len(g.terrain.Segments()) + len(g.terrain.Walls()) + 1 // strip and the player
	if got := g.phys.(*physics.World).Len(); got != want {
		t.Errorf("world holds %d bodies after Reset, want %d", got, want)
	}
}

func TestSafeRunOnFlatGround(t *testing.T) {
	g := NewWithConfig(flatConfig())
	g.Reset(testRuntime(7))

	landings := 0
	for i := 0; i < 600; i++ {
		res := g.Step(core.NewInputFrame())
		if res.Landed {
			landings++
		}
		if res.State.GameOver {
			t.Fatalf("tick %d: game over (%s)", i, res.State.Cause)
		}
	}

	if landings != 1 {
		t.Errorf("got %d landings, want 1", landings)
	}
	st := g.State()
	if st.Score <= 0 || st.Distance <= 0 {
		t.Errorf("no progress: %+v", st)
	}
	if !g.player.Grounded() {
		t.Error("player not grounded")
	}
	if err := g.terrain.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestWallEndsRun(t *testing.T) {
	cfg := flatConfig()
	cfg.Obstacles.InitialWallChance = 1
	cfg.Obstacles.MaxWallChance = 1

	g := NewWithConfig(cfg)
	g.Reset(testRuntime(3))
	st := runTicks(g, 1200, nil)

	if !st.GameOver || st.Cause != CauseWall {
		t.Fatalf("state = %+v, want game over by wall", st)
	}
	if g.player.Speed() != 0 {
		t.Errorf("player still running after game over: %v", g.player.Speed())
	}

	// Game over freezes the run
	score := g.Score()
	runTicks(g, 10, nil)
	if g.Score() != score {
		t.Error("score changed after game over")
	}
}

func TestGapEndsRunWithFall(t *testing.T) {
	cfg := flatConfig()
	cfg.Obstacles.InitialGapChance = 1
	cfg.Obstacles.MaxGapChance = 1
	cfg.Speed.Base = 1
	cfg.Speed.Max = 1

	g := NewWithConfig(cfg)
	g.Reset(testRuntime(5))
	st := runTicks(g, 1500, nil)

	if !st.GameOver || st.Cause != CauseFall {
		t.Fatalf("state = %+v, want game over by fall", st)
	}
}

func TestPauseToggle(t *testing.T) {
	g := NewWithConfig(flatConfig())
	g.Reset(testRuntime(1))
	runTicks(g, 30, nil)

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	if st := g.Step(pause).State; !st.Paused {
		t.Fatal("pause not applied")
	}

	ticks := g.tickCount
	runTicks(g, 30, nil)
	if g.tickCount != ticks {
		t.Error("simulation advanced while paused")
	}

	if st := g.Step(pause).State; st.Paused {
		t.Error("pause not released")
	}
	if g.tickCount != ticks+1 {
		t.Errorf("tickCount = %d, want %d", g.tickCount, ticks+1)
	}
}

func TestSpeedRamp(t *testing.T) {
	cfg := flatConfig()
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = 0

	g := NewWithConfig(cfg)
	g.Reset(testRuntime(1))

	if g.State().Speed != cfg.Speed.Base {
		t.Fatalf("initial speed = %v, want %v", g.State().Speed, cfg.Speed.Base)
	}

	ticks := int(cfg.Speed.Interval*60) + 1
	runTicks(g, ticks, nil)

	want := cfg.Speed.Base + cfg.Speed.Increment
	if got := g.State().Speed; got != want {
		t.Errorf("speed after %d ticks = %v, want %v", ticks, got, want)
	}
	if g.player.Speed() != want {
		t.Errorf("player speed = %v, want %v", g.player.Speed(), want)
	}
	if g.speedUpTimer <= 0 {
		t.Error("SPEED UP banner not shown")
	}
	if g.MaxSpeed() != want {
		t.Errorf("MaxSpeed() = %v, want %v", g.MaxSpeed(), want)
	}
}

func TestPhysicsUnavailable(t *testing.T) {
	cfg := flatConfig()
	cfg.World.Substeps = 0

	g := NewWithConfig(cfg)
	g.Reset(testRuntime(1))

	if !errors.Is(g.Err(), physics.ErrPhysicsUnavailable) {
		t.Fatalf("Err() = %v, want ErrPhysicsUnavailable", g.Err())
	}
	if !g.Unavailable() {
		t.Error("Unavailable() = false")
	}

	st := runTicks(g, 10, nil)
	if st.Score != 0 || g.tickCount != 0 {
		t.Error("game ticked without physics")
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "PHYSICS UNAVAILABLE") {
		t.Error("error not rendered")
	}
}

// faultyWorld panics on the tick after armed is set.
type faultyWorld struct {
	*physics.World
	armed bool
}

func (f *faultyWorld) Step(dt float64) {
	if f.armed {
		panic(physics.ErrUnknownHandle)
	}
	f.World.Step(dt)
}

func TestTickFaultFreezesRun(t *testing.T) {
	var fw *faultyWorld
	factory := func(cfg physics.Config) (physics.Facade, error) {
		w, err := physics.NewWorld(cfg)
		if err != nil {
			return nil, err
		}
		fw = &faultyWorld{World: w}
		return fw, nil
	}

	g := NewWithConfig(flatConfig(), WithPhysics(factory))
	g.Reset(testRuntime(1))
	runTicks(g, 20, nil)

	fw.armed = true
	st := g.Step(core.NewInputFrame()).State

	if !st.GameOver || st.Cause != CauseFault {
		t.Fatalf("state = %+v, want fault", st)
	}
	if !errors.Is(g.Fault(), physics.ErrUnknownHandle) {
		t.Errorf("Fault() = %v", g.Fault())
	}

	ticks := g.tickCount
	runTicks(g, 5, nil)
	if g.tickCount != ticks {
		t.Error("frozen run kept ticking")
	}

	// Restart rebuilds a working run.
	g.Reset(testRuntime(1))
	if g.Fault() != nil || g.State().GameOver {
		t.Error("Reset did not clear the fault")
	}
	if st := runTicks(g, 20, nil); st.GameOver {
		t.Errorf("rebuilt run failed: %+v", st)
	}
}

func TestRender(t *testing.T) {
	g := NewWithConfig(flatConfig(), WithDebug(true))
	g.Reset(testRuntime(1))
	runTicks(g, 60, nil)

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()

	if !strings.Contains(out, "Score:") {
		t.Error("HUD missing")
	}
	if !strings.Contains(out, "last=flat") {
		t.Error("debug line missing")
	}
	if !strings.Contains(out, "█") {
		t.Error("scene not drawn")
	}
}

func TestAutopilotDecisions(t *testing.T) {
	ap := NewAutopilot()
	segs := []terrain.Segment{{X: 0}, {X: 2}, {X: 4}}
	base := Observation{
		PlayerX:    0,
		Grounded:   true,
		JumpsLeft:  2,
		Closing:    10,
		HalfSize:   0.25,
		GroundHalf: 1,
		WallHalf:   0.25,
		Segments:   segs,
	}

	tests := []struct {
		name   string
		mutate func(*Observation)
		want   bool
	}{
		{"clear strip", nil, false},
		{"wall in reach", func(o *Observation) { o.Walls = []terrain.Wall{{X: 1.2}} }, true},
		{"wall far ahead", func(o *Observation) { o.Walls = []terrain.Wall{{X: 6}} }, false},
		{"wall behind", func(o *Observation) { o.Walls = []terrain.Wall{{X: -2}} }, false},
		{"hole ahead", func(o *Observation) { o.Segments = segs[:1] }, true},
		{"airborne", func(o *Observation) {
			o.Grounded = false
			o.Walls = []terrain.Wall{{X: 1.2}}
		}, false},
		{"no jumps left", func(o *Observation) {
			o.JumpsLeft = 0
			o.Walls = []terrain.Wall{{X: 1.2}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := base
			if tt.mutate != nil {
				tt.mutate(&obs)
			}
			if got := ap.ShouldJump(obs); got != tt.want {
				t.Errorf("ShouldJump() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAutopilotOutlastsIdle(t *testing.T) {
	cfg := flatConfig()
	cfg.Obstacles.InitialWallChance = 1
	cfg.Obstacles.MaxWallChance = 1

	idle := NewWithConfig(cfg)
	idle.Reset(testRuntime(9))
	runTicks(idle, 3000, nil)

	auto := NewWithConfig(cfg)
	auto.Reset(testRuntime(9))
	ap := NewAutopilot()
	runTicks(auto, 3000, func(int) core.InputFrame { return ap.Input(auto) })

	if auto.Score() <= idle.Score() {
		t.Errorf("autopilot score %d, idle score %d", auto.Score(), idle.Score())
	}
}
