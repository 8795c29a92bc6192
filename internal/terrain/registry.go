package terrain

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/physics"
	"github.com/vovakirdan/tui-runner/internal/render"
)

// positionEpsilon is the tolerance for comparing positions that went
// through the same arithmetic.
const positionEpsilon = 1e-9

// Registry owns the live ground segments and walls together with their
// physics bodies and visuals. Segments live in a fixed pool and are
// recycled in place; walls are created on placement and released once they
// trail behind the player.
type Registry struct {
	phys  physics.Facade
	scene render.Facade
	cfg   config.RunnerConfig
	tp    TerrainParams
	op    ObstacleParams
	rng   *rand.Rand

	state    State
	segments []Segment
	walls    []Wall
	speed    float64

	logger *log.Logger
	debug  bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger routes placement and recycling events to logger at debug level.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDebug makes every ScrollAndRecycle validate the registry and panic on
// the first violation.
func WithDebug(debug bool) Option {
	return func(r *Registry) {
		r.debug = debug
	}
}

// NewRegistry creates an empty registry. Call CreateInitialSegments to lay
// out the strip.
func NewRegistry(phys physics.Facade, scene render.Facade, cfg config.RunnerConfig, seed int64, opts ...Option) *Registry {
	r := &Registry{
		phys:   phys,
		scene:  scene,
		cfg:    cfg,
		tp:     TerrainParamsFrom(cfg),
		op:     ObstacleParamsFrom(cfg),
		rng:    rand.New(rand.NewSource(seed)),
		speed:  cfg.Speed.Base,
		logger: log.New(io.Discard),
	}
	if r.scene == nil {
		r.scene = &render.Nop{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateInitialSegments lays out the starting strip from Ground.StartX. The
// first SafeZoneCount segments carry no gap, wall or slope.
func (r *Registry) CreateInitialSegments() error {
	if r.phys == nil {
		return fmt.Errorf("terrain: create segments: %w", physics.ErrPhysicsUnavailable)
	}
	if len(r.segments) > 0 {
		return fmt.Errorf("terrain: create segments: %d segments already live", len(r.segments))
	}
	count := r.cfg.InitialSegmentCount()
	if count < 1 {
		return fmt.Errorf("terrain: create segments: ground width %v yields no segments", r.cfg.Ground.Width)
	}

	r.segments = make([]Segment, 0, count)
	x := r.cfg.Ground.StartX
	for i := 0; i < count; i++ {
		slot := r.roll(x)
		r.segments = append(r.segments, r.newSegment(slot))
		if slot.wall {
			r.addWall(slot.x, slot.surfaceY)
		}
		x = slot.x + r.cfg.Ground.Width
	}

	r.logger.Debug("terrain laid out", "segments", len(r.segments), "walls", len(r.walls))
	return nil
}

// ScrollAndRecycle moves everything by -moveAmount, releases walls that
// trail more than TrailDistance behind playerX and relocates trailing
// segments to the frontier.
func (r *Registry) ScrollAndRecycle(moveAmount, playerX float64) {
	for i := range r.segments {
		seg := &r.segments[i]
		seg.X -= moveAmount
		r.syncSegment(seg)
	}

	limit := playerX - r.cfg.Ground.TrailDistance
	kept := r.walls[:0]
	for _, w := range r.walls {
		w.X -= moveAmount
		if w.X < limit {
			r.releaseWall(w)
			continue
		}
		pos := r.phys.BodyTranslation(w.Body)
		r.phys.SetBodyTranslation(w.Body, mgl64.Vec3{w.X, pos.Y(), pos.Z()})
		r.scene.SetVisualPosition(w.Visual, mgl64.Vec3{w.X, pos.Y(), pos.Z()})
		kept = append(kept, w)
	}
	for i := len(kept); i < len(r.walls); i++ {
		r.walls[i] = Wall{}
	}
	r.walls = kept

	for i := range r.segments {
		if r.segments[i].X < limit {
			r.recycle(i)
		}
	}

	if r.debug {
		if err := r.Validate(); err != nil {
			panic(err)
		}
	}
}

// CheckWallCollision reports whether player overlaps any live wall. Wall
// bounds come from the live body translation.
func (r *Registry) CheckWallCollision(player core.Box) bool {
	halfW := r.cfg.Obstacles.WallWidth / 2
	halfH := r.cfg.Obstacles.WallHeight / 2
	for _, w := range r.walls {
		pos := r.phys.BodyTranslation(w.Body)
		if player.Overlaps(core.BoxAround(pos.X(), pos.Y(), halfW, halfH)) {
			return true
		}
	}
	return false
}

// SetDifficultySpeed sets the speed later rolls derive the difficulty ratio from.
func (r *Registry) SetDifficultySpeed(speed float64) {
	r.speed = speed
}

// Dispose releases every body and visual and resets the generator.
func (r *Registry) Dispose() {
	for _, seg := range r.segments {
		r.phys.RemoveBody(seg.Body)
		r.scene.RemoveVisual(seg.Visual)
	}
	for _, w := range r.walls {
		r.releaseWall(w)
	}
	r.segments = nil
	r.walls = nil
	r.state.Reset()
	r.speed = r.cfg.Speed.Base
}

// Validate checks the structural guarantees of the strip.
func (r *Registry) Validate() error {
	if r.state.CurrentHeight < 0 {
		return fmt.Errorf("%w: negative height %v", ErrInvariantViolation, r.state.CurrentHeight)
	}
	if r.state.PlatformCounter < 0 {
		return fmt.Errorf("%w: negative platform counter %d", ErrInvariantViolation, r.state.PlatformCounter)
	}

	xs := make([]float64, 0, len(r.segments))
	for i, seg := range r.segments {
		if got := r.phys.BodyTranslation(seg.Body).X(); math.Abs(got-seg.X) > positionEpsilon {
			return fmt.Errorf("%w: segment %d at x=%v but body at x=%v", ErrInvariantViolation, i, seg.X, got)
		}
		xs = append(xs, seg.X)
	}
	sort.Float64s(xs)
	for i := 1; i < len(xs); i++ {
		if xs[i]-xs[i-1] < r.cfg.Ground.Width-positionEpsilon {
			return fmt.Errorf("%w: segments at x=%v and x=%v overlap", ErrInvariantViolation, xs[i-1], xs[i])
		}
	}

	for i, w := range r.walls {
		if got := r.phys.BodyTranslation(w.Body).X(); math.Abs(got-w.X) > positionEpsilon {
			return fmt.Errorf("%w: wall %d at x=%v but body at x=%v", ErrInvariantViolation, i, w.X, got)
		}
	}
	return nil
}

// Segments returns a copy of the live segments in pool order.
func (r *Registry) Segments() []Segment {
	out := make([]Segment, len(r.segments))
	copy(out, r.segments)
	return out
}

// Walls returns a copy of the live walls.
func (r *Registry) Walls() []Wall {
	out := make([]Wall, len(r.walls))
	copy(out, r.walls)
	return out
}

// State returns a copy of the generator state.
func (r *Registry) State() State {
	return r.state
}

// slot is the outcome of one generator roll.
type slot struct {
	x        float64
	surfaceY float64
	terrain  TerrainType
	gap      bool
	wall     bool
}

// roll runs the generator for the slot at x. A gap shifts the segment one
// width further and leaves the skipped slot empty.
func (r *Registry) roll(x float64) slot {
	ratio := config.SpeedRatio(r.speed, r.cfg.Speed)

	s := slot{x: x}
	if r.state.DecideGap(r.rng, ratio, r.op) {
		s.gap = true
		s.x += r.cfg.Ground.Width
	}

	before := r.state.CurrentHeight
	s.terrain = r.state.DecideTerrainType(r.rng, r.tp)
	s.surfaceY = surfaceHeight(s.terrain, before, r.state.CurrentHeight)
	s.wall = r.state.MaybePlaceWall(r.rng, s.terrain, ratio, r.op)

	r.state.TotalGroundsCreated++
	r.state.LastHadGap = false
	return s
}

// surfaceHeight places slopes halfway between the heights they connect so
// the strip climbs in half steps.
func surfaceHeight(t TerrainType, before, after float64) float64 {
	switch t {
	case SlopeUp, SlopeDown:
		return (before + after) / 2
	default:
		return after
	}
}

func (r *Registry) newSegment(s slot) Segment {
	g := r.cfg.Ground
	seg := Segment{
		X:        s.x,
		SurfaceY: s.surfaceY,
		BaseY:    s.surfaceY - g.Height/2,
		Terrain:  s.terrain,
	}
	seg.Body = r.phys.CreateBody(physics.BodyKinematic, mgl64.Vec3{seg.X, seg.BaseY, 0})
	r.phys.CreateCollider(mgl64.Vec3{g.Width / 2, g.Height / 2, g.Depth / 2}, seg.Body)
	seg.Visual = r.scene.CreateVisual(render.Box(g.Width, g.Height, g.Depth), render.Material{
		Color: terrainColor(seg.Terrain),
		Fill:  '█',
	})
	r.scene.SetVisualPosition(seg.Visual, mgl64.Vec3{seg.X, seg.BaseY, 0})
	return seg
}

// recycle moves segment i past the frontier and regenerates it in place,
// keeping its body and visual handles.
func (r *Registry) recycle(i int) {
	frontier := math.Inf(-1)
	for j, seg := range r.segments {
		if j != i && seg.X > frontier {
			frontier = seg.X
		}
	}
	if math.IsInf(frontier, -1) {
		frontier = r.segments[i].X
	}

	s := r.roll(frontier + r.cfg.Ground.Width)
	r.reset(i, s)
	if s.wall {
		r.addWall(s.x, s.surfaceY)
	}
	r.logger.Debug("segment recycled", "index", i, "x", s.x, "terrain", s.terrain, "gap", s.gap, "wall", s.wall)
}

// reset overwrites segment i with fresh attributes.
func (r *Registry) reset(i int, s slot) {
	seg := &r.segments[i]
	seg.X = s.x
	seg.SurfaceY = s.surfaceY
	seg.BaseY = s.surfaceY - r.cfg.Ground.Height/2
	seg.Terrain = s.terrain
	r.syncSegment(seg)
	r.scene.SetVisualColor(seg.Visual, terrainColor(seg.Terrain))
}

// syncSegment pushes the segment pose to its body and visual.
func (r *Registry) syncSegment(seg *Segment) {
	pos := mgl64.Vec3{seg.X, seg.BaseY, 0}
	r.phys.SetBodyTranslation(seg.Body, pos)
	r.scene.SetVisualPosition(seg.Visual, pos)
}

func (r *Registry) addWall(x, surfaceY float64) {
	o := r.cfg.Obstacles
	pos := mgl64.Vec3{x, surfaceY + o.WallHeight/2, 0}

	w := Wall{X: x}
	w.Body = r.phys.CreateBody(physics.BodyKinematic, pos)
	r.phys.CreateCollider(mgl64.Vec3{o.WallWidth / 2, o.WallHeight / 2, o.WallDepth / 2}, w.Body, physics.AsSensor())
	w.Visual = r.scene.CreateVisual(render.Box(o.WallWidth, o.WallHeight, o.WallDepth), render.Material{
		Color: core.ColorRed,
		Fill:  '▓',
	})
	r.scene.SetVisualPosition(w.Visual, pos)
	r.walls = append(r.walls, w)

	r.logger.Debug("wall placed", "x", x, "total", r.state.TotalGroundsCreated)
}

func (r *Registry) releaseWall(w Wall) {
	r.phys.RemoveBody(w.Body)
	r.scene.RemoveVisual(w.Visual)
}

func terrainColor(t TerrainType) core.Color {
	switch t {
	case SlopeUp:
		return core.ColorBrown
	case SlopeDown:
		return core.ColorOrange
	case Platform:
		return core.ColorCyan
	default:
		return core.ColorGray
	}
}
