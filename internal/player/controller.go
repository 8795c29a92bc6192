// Package player implements the runner entity: forward auto-run, bounded
// multi-jump, ground probing with a single landing event per touchdown, and
// the fall predicate.
package player

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/physics"
	"github.com/vovakirdan/tui-runner/internal/render"
)

// LandingEvent is the result of a ground probe.
type LandingEvent int

const (
	// LandingNone means the grounded state did not change to grounded.
	LandingNone LandingEvent = iota
	// LandingTouchdown marks the tick the entity went from airborne to grounded.
	LandingTouchdown
)

func (e LandingEvent) String() string {
	if e == LandingTouchdown {
		return "touchdown"
	}
	return "none"
}

// Squash and stretch targets.
const (
	jumpStretch   = 1.3
	landSquash    = 0.6
	scaleSettle   = 0.05
	restTolerance = 0.01
)

// Controller drives the player body.
type Controller struct {
	phys  physics.Facade
	body  physics.Handle
	cfg   config.PlayerConfig
	speed float64

	jumpCount int
	wasInAir  bool
	grounded  bool

	scene        render.Facade
	visual       render.Handle
	scaleY       float64
	targetScaleY float64
}

// Option configures a Controller.
type Option func(*Controller)

// WithScene gives the player a visual in scene.
func WithScene(scene render.Facade) Option {
	return func(c *Controller) {
		c.scene = scene
	}
}

// New spawns the player body at spawn.
func New(phys physics.Facade, spawn mgl64.Vec3, cfg config.PlayerConfig, speed float64, opts ...Option) (*Controller, error) {
	if phys == nil {
		return nil, fmt.Errorf("player: %w", physics.ErrPhysicsUnavailable)
	}
	if cfg.Size <= 0 {
		return nil, fmt.Errorf("player: size must be positive, got %v", cfg.Size)
	}
	if cfg.MaxJumps < 1 {
		return nil, fmt.Errorf("player: max jumps must be >= 1, got %d", cfg.MaxJumps)
	}

	c := &Controller{
		phys:         phys,
		cfg:          cfg,
		speed:        speed,
		scaleY:       1,
		targetScaleY: 1,
	}
	for _, opt := range opts {
		opt(c)
	}

	half := cfg.Size / 2
	c.body = phys.CreateBody(physics.BodyDynamic, spawn)
	phys.CreateCollider(mgl64.Vec3{half, half, half}, c.body)

	if c.scene != nil {
		c.visual = c.scene.CreateVisual(render.Box(cfg.Size, cfg.Size, cfg.Size), render.Material{
			Color: core.ColorBrightWhite,
			Fill:  '█',
		})
		c.scene.SetVisualPosition(c.visual, spawn)
	}
	return c, nil
}

// Update keeps the player on its rail at the current speed and probes for
// ground. It returns LandingTouchdown once per landing.
func (c *Controller) Update() LandingEvent {
	pos := c.phys.BodyTranslation(c.body)
	vel := c.phys.BodyVelocity(c.body)

	c.phys.SetBodyVelocity(c.body, mgl64.Vec3{c.speed, vel.Y(), 0})
	if math.Abs(pos.Z()) > 0.01 {
		pos = mgl64.Vec3{pos.X(), pos.Y(), 0}
		c.phys.SetBodyTranslation(c.body, pos)
	}

	half := c.cfg.Size / 2
	hit, ok := c.phys.RaycastDown(pos, half+c.cfg.ProbeReach)
	c.grounded = ok && hit.Distance <= half+c.cfg.GroundTolerance && vel.Y() <= c.cfg.GroundedMaxVY

	event := LandingNone
	if c.grounded && c.wasInAir {
		c.jumpCount = 0
		c.targetScaleY = landSquash
		event = LandingTouchdown
	}
	c.wasInAir = !c.grounded
	return event
}

// TryJump applies the jump impulse unless all jumps are spent.
func (c *Controller) TryJump() bool {
	if c.jumpCount >= c.cfg.MaxJumps {
		return false
	}
	vel := c.phys.BodyVelocity(c.body)
	c.phys.SetBodyVelocity(c.body, mgl64.Vec3{vel.X(), c.cfg.JumpVelocity, vel.Z()})
	c.jumpCount++
	c.targetScaleY = jumpStretch
	return true
}

// Animate eases the squash and stretch by dt seconds and moves the visual
// to the body.
func (c *Controller) Animate(dt float64) {
	c.scaleY += (c.targetScaleY - c.scaleY) * core.ClampF(c.cfg.ScaleSpeed*dt, 0, 1)
	if math.Abs(c.targetScaleY-1) >= restTolerance && math.Abs(c.scaleY-c.targetScaleY) < scaleSettle {
		c.targetScaleY = 1
	}

	if c.scene == nil {
		return
	}
	inv := 1 / math.Sqrt(c.scaleY)
	c.scene.SetVisualScale(c.visual, mgl64.Vec3{inv, c.scaleY, inv})
	c.scene.SetVisualPosition(c.visual, c.phys.BodyTranslation(c.body))
}

// SetSpeed sets the forward speed applied from the next Update.
func (c *Controller) SetSpeed(speed float64) {
	c.speed = speed
}

// Speed returns the forward speed.
func (c *Controller) Speed() float64 {
	return c.speed
}

// Stop zeroes all velocity. The body stays in the world.
func (c *Controller) Stop() {
	c.speed = 0
	c.phys.SetBodyVelocity(c.body, mgl64.Vec3{})
}

// Position returns the body position.
func (c *Controller) Position() mgl64.Vec3 {
	return c.phys.BodyTranslation(c.body)
}

// Bounds returns the X/Y bounding box around the body.
func (c *Controller) Bounds() core.Box {
	pos := c.Position()
	half := c.cfg.Size / 2
	return core.BoxAround(pos.X(), pos.Y(), half, half)
}

// IsFallen reports whether the player dropped below the fall depth.
func (c *Controller) IsFallen() bool {
	return c.Position().Y() < c.cfg.FallDepth
}

// JumpCount returns the jumps used since the last touchdown.
func (c *Controller) JumpCount() int {
	return c.jumpCount
}

// Grounded reports the result of the last probe.
func (c *Controller) Grounded() bool {
	return c.grounded
}

// ScaleY returns the current vertical squash and stretch factor.
func (c *Controller) ScaleY() float64 {
	return c.scaleY
}

// Dispose removes the body and visual.
func (c *Controller) Dispose() {
	c.phys.RemoveBody(c.body)
	if c.scene != nil {
		c.scene.RemoveVisual(c.visual)
	}
}
