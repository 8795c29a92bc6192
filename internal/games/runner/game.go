// Package runner implements the endless runner: the player auto-runs over a
// procedurally generated strip and must jump gaps and walls while the speed
// ramps up.
package runner

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/physics"
	"github.com/vovakirdan/tui-runner/internal/player"
	"github.com/vovakirdan/tui-runner/internal/render"
	"github.com/vovakirdan/tui-runner/internal/terrain"
)

// Causes recorded when a run ends.
const (
	CauseFall  = "fall"
	CauseWall  = "wall"
	CauseFault = "fault"
)

// Camera shake on touchdown, in world units and seconds.
const (
	landShakeIntensity = 0.3
	landShakeDuration  = 0.15
)

// speedUpBanner is how long "SPEED UP!" stays on screen, in seconds.
const speedUpBanner = 1.0

// PhysicsFactory creates the physics world for a run.
type PhysicsFactory func(physics.Config) (physics.Facade, error)

func newWorld(cfg physics.Config) (physics.Facade, error) {
	return physics.NewWorld(cfg)
}

// Game implements the runner game logic.
type Game struct {
	runtime    core.RuntimeConfig
	cfg        config.RunnerConfig
	fixedCfg   bool // Config came from NewWithConfig; Reset never reads disk
	difficulty *config.DifficultyManager

	newPhysics PhysicsFactory
	phys       physics.Facade
	scene      *render.Scene
	camera     *render.Camera
	terrain    *terrain.Registry
	player     *player.Controller

	logger *log.Logger
	debug  bool

	elapsed      float64 // Simulated seconds since the run started
	speed        float64
	maxSpeed     float64
	scoreF       float64
	distance     float64
	tickCount    int
	gameOver     bool
	paused       bool
	cause        string
	speedUpTimer float64

	err   error // Run could not be built
	fault error // Run froze on a tick fault
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger for faults and run events.
func WithLogger(logger *log.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithDebug validates terrain invariants every tick and shows debug info.
func WithDebug(debug bool) Option {
	return func(g *Game) {
		g.debug = debug
	}
}

// WithPhysics replaces the physics world factory.
func WithPhysics(f PhysicsFactory) Option {
	return func(g *Game) {
		if f != nil {
			g.newPhysics = f
		}
	}
}

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names fall back
// to the config default.
func SetDifficultyPreset(preset string) {
	difficultyPreset = config.ParsePreset(preset)
}

// New creates a game that loads its config on every Reset.
func New(opts ...Option) *Game {
	g := &Game{
		newPhysics: newWorld,
		logger:     log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewWithConfig creates a game with a fixed config.
func NewWithConfig(cfg config.RunnerConfig, opts ...Option) *Game {
	g := New(opts...)
	g.cfg = cfg
	g.fixedCfg = true
	return g
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "runner"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Endless Runner"
}

// Reset tears down the current run and builds a new one.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.teardown()
	g.runtime = runtime

	if !g.fixedCfg {
		cfg, err := config.LoadRunner(configPath)
		if err != nil {
			g.logger.Warn("using default config", "error", err)
			cfg = config.DefaultRunnerConfig()
		}
		config.ApplyPreset(&cfg, difficultyPreset)
		g.cfg = cfg
	}

	g.difficulty = config.NewDifficultyManager(g.cfg.Difficulty, g.cfg.Speed)

	g.elapsed = 0
	g.speed = g.difficulty.InitialSpeed()
	g.maxSpeed = g.speed
	g.scoreF = 0
	g.distance = 0
	g.tickCount = 0
	g.gameOver = false
	g.paused = false
	g.cause = ""
	g.speedUpTimer = 0
	g.fault = nil

	g.scene = render.NewScene()
	g.camera = render.NewCamera(runtime.ScreenW, runtime.ScreenH, runtime.Seed)

	g.err = g.build()
	if g.err != nil {
		g.logger.Error("run setup failed", "error", g.err)
		return
	}
	pos := g.player.Position()
	g.camera.Follow(pos.X(), pos.Y())
}

// build creates the physics world, the strip and the player.
func (g *Game) build() error {
	phys, err := g.newPhysics(physics.Config{
		Gravity:    g.cfg.World.Gravity,
		Substeps:   g.cfg.World.Substeps,
		StepOffset: g.cfg.World.StepOffset,
	})
	if err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	g.phys = phys

	g.terrain = terrain.NewRegistry(phys, g.scene, g.cfg, g.runtime.Seed,
		terrain.WithLogger(g.logger),
		terrain.WithDebug(g.debug || g.cfg.Debug),
	)
	g.terrain.SetDifficultySpeed(g.speed)
	if err := g.terrain.CreateInitialSegments(); err != nil {
		return fmt.Errorf("runner: %w", err)
	}

	spawn := mgl64.Vec3{g.cfg.Player.SpawnX, g.cfg.Player.SpawnY, 0}
	g.player, err = player.New(phys, spawn, g.cfg.Player, g.speed, player.WithScene(g.scene))
	if err != nil {
		return fmt.Errorf("runner: %w", err)
	}
	return nil
}

// teardown releases the previous run. A run that froze on a fault may hold
// broken handles, so release failures are logged and dropped.
func (g *Game) teardown() {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn("teardown failed", "error", r)
		}
		g.terrain = nil
		g.player = nil
		g.phys = nil
	}()

	if g.terrain != nil {
		g.terrain.Dispose()
	}
	if g.player != nil {
		g.player.Dispose()
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.err != nil || g.gameOver {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	return g.tick(in)
}

// tick runs one simulation step. A panic freezes the run in the fault state.
func (g *Game) tick(in core.InputFrame) (res core.StepResult) {
	defer func() {
		if r := recover(); r != nil {
			g.freeze(r)
			res = core.StepResult{State: g.State()}
		}
	}()

	dt := g.runtime.DeltaTime()
	g.tickCount++

	if in.Has(core.ActionJump) {
		g.player.TryJump()
	}

	g.elapsed += dt
	if speed := g.difficulty.Speed(g.elapsed); speed != g.speed {
		if speed > g.speed {
			g.speedUpTimer = speedUpBanner
		}
		g.setSpeed(speed)
	}

	g.phys.Step(dt)

	landed := g.player.Update() == player.LandingTouchdown
	if landed {
		g.camera.Shake(landShakeIntensity, landShakeDuration)
	}

	pos := g.player.Position()
	g.distance = pos.X() - g.cfg.Player.SpawnX
	g.terrain.ScrollAndRecycle(g.speed*dt, pos.X())

	switch {
	case g.terrain.CheckWallCollision(g.player.Bounds()):
		g.end(CauseWall)
	case g.player.IsFallen():
		g.end(CauseFall)
	default:
		g.scoreF += g.speed * dt
	}

	g.player.Animate(dt)
	g.camera.Update(dt)
	g.camera.Follow(pos.X(), pos.Y())
	if g.speedUpTimer > 0 {
		g.speedUpTimer -= dt
	}

	return core.StepResult{State: g.State(), Landed: landed}
}

func (g *Game) setSpeed(speed float64) {
	g.speed = speed
	if speed > g.maxSpeed {
		g.maxSpeed = speed
	}
	g.player.SetSpeed(speed)
	g.terrain.SetDifficultySpeed(speed)
}

// end finishes the run.
func (g *Game) end(cause string) {
	g.player.Stop()
	g.gameOver = true
	g.cause = cause
	g.logger.Info("run over", "cause", cause, "score", g.Score(), "ticks", g.tickCount)
}

// freeze records a tick fault. Nothing is cleaned up; the run stays frozen
// until Reset.
func (g *Game) freeze(r any) {
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	g.fault = fmt.Errorf("runner: tick %d: %w", g.tickCount, err)
	g.gameOver = true
	g.cause = CauseFault
	g.logger.Error("tick fault", "tick", g.tickCount, "error", err)
}

// Err returns the setup error of the current run, if any. Setup fails with
// physics.ErrPhysicsUnavailable when no world can be created.
func (g *Game) Err() error {
	return g.err
}

// Fault returns the fault that froze the run, if any.
func (g *Game) Fault() error {
	return g.fault
}

// Unavailable reports whether the run could not start for lack of physics.
func (g *Game) Unavailable() bool {
	return errors.Is(g.err, physics.ErrPhysicsUnavailable)
}

// Score returns the current score.
func (g *Game) Score() int {
	return int(g.scoreF)
}

// MaxSpeed returns the highest speed reached this run.
func (g *Game) MaxSpeed() float64 {
	return g.maxSpeed
}

// Config returns the config of the current run.
func (g *Game) Config() config.RunnerConfig {
	return g.cfg
}

// Difficulty returns the preset name runs are filed under.
func (g *Game) Difficulty() string {
	switch {
	case g.fixedCfg:
		return "custom"
	case difficultyPreset != "":
		return string(difficultyPreset)
	default:
		return "default"
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.Score(),
		Distance: g.distance,
		Speed:    g.speed,
		GameOver: g.gameOver,
		Paused:   g.paused,
		Cause:    g.cause,
	}
}
