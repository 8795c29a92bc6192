package runner

import (
	"github.com/vovakirdan/tui-runner/internal/core"
	"github.com/vovakirdan/tui-runner/internal/terrain"
)

// Autopilot plays the game headlessly: it jumps when a wall or a hole in the
// strip comes within reach.
type Autopilot struct {
	// Reaction is how far ahead to look, in seconds of closing speed.
	Reaction float64
}

// NewAutopilot returns an autopilot with a reaction window suited to the
// default jump arc: early enough to clear a wall at the rise.
func NewAutopilot() *Autopilot {
	return &Autopilot{Reaction: 0.35}
}

// Observation is what the autopilot sees of a tick.
type Observation struct {
	PlayerX    float64
	Grounded   bool
	JumpsLeft  int
	Closing    float64 // Speed at which the strip approaches the player
	HalfSize   float64
	GroundHalf float64
	WallHalf   float64
	Walls      []terrain.Wall
	Segments   []terrain.Segment
}

// Observe captures the current run for the autopilot.
func (g *Game) Observe() Observation {
	if g.player == nil || g.terrain == nil {
		return Observation{}
	}
	return Observation{
		PlayerX:    g.player.Position().X(),
		Grounded:   g.player.Grounded(),
		JumpsLeft:  g.cfg.Player.MaxJumps - g.player.JumpCount(),
		Closing:    2 * g.speed,
		HalfSize:   g.cfg.Player.Size / 2,
		GroundHalf: g.cfg.Ground.Width / 2,
		WallHalf:   g.cfg.Obstacles.WallWidth / 2,
		Walls:      g.terrain.Walls(),
		Segments:   g.terrain.Segments(),
	}
}

// ShouldJump decides whether to jump this tick.
func (a *Autopilot) ShouldJump(obs Observation) bool {
	if !obs.Grounded || obs.JumpsLeft <= 0 {
		return false
	}
	front := obs.PlayerX + obs.HalfSize
	reach := front + obs.Closing*a.Reaction

	for _, w := range obs.Walls {
		left := w.X - obs.WallHalf
		if left >= front && left <= reach {
			return true
		}
	}
	return !supported(obs, reach)
}

// supported reports whether any segment lies under x.
func supported(obs Observation, x float64) bool {
	for _, seg := range obs.Segments {
		if x >= seg.X-obs.GroundHalf && x <= seg.X+obs.GroundHalf {
			return true
		}
	}
	return false
}

// Input returns the input frame for the current tick of g.
func (a *Autopilot) Input(g *Game) core.InputFrame {
	in := core.NewInputFrame()
	if a.ShouldJump(g.Observe()) {
		in.Set(core.ActionJump)
	}
	return in
}
