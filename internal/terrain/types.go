// Package terrain generates the endless ground strip: the terrain state
// machine, the gap and wall placement rules, and the Registry that pools
// ground segments and walls against the physics and render facades.
package terrain

import (
	"errors"

	"github.com/vovakirdan/tui-runner/internal/config"
	"github.com/vovakirdan/tui-runner/internal/physics"
	"github.com/vovakirdan/tui-runner/internal/render"
)

// ErrInvariantViolation is returned by Validate when generator or registry
// state breaks a structural guarantee.
var ErrInvariantViolation = errors.New("terrain: invariant violation")

// TerrainType is the shape of a ground segment.
type TerrainType int

const (
	Flat TerrainType = iota
	SlopeUp
	SlopeDown
	Platform
)

// String returns the terrain name.
func (t TerrainType) String() string {
	switch t {
	case Flat:
		return "flat"
	case SlopeUp:
		return "slope_up"
	case SlopeDown:
		return "slope_down"
	case Platform:
		return "platform"
	default:
		return "unknown"
	}
}

// Segment is one ground block.
type Segment struct {
	X        float64
	SurfaceY float64 // Top of the ground
	BaseY    float64 // Body and visual anchor, SurfaceY - GroundHeight/2
	Terrain  TerrainType
	Body     physics.Handle
	Visual   render.Handle
}

// Wall is an obstacle standing on a flat segment.
type Wall struct {
	X      float64
	Body   physics.Handle
	Visual render.Handle
}

// State is the generator memory carried from one slot to the next.
type State struct {
	CurrentHeight        float64
	LastTerrain          TerrainType
	PlatformCounter      int
	GroundsSinceLastWall int
	TotalGroundsCreated  int
	LastHadGap           bool
	LastHadWall          bool
}

// Reset restores the state of a fresh run.
func (s *State) Reset() {
	*s = State{}
}

// Rand is the randomness source the generator draws from.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// TerrainParams drives DecideTerrainType.
type TerrainParams struct {
	SafeZoneCount     int
	SlopeHeight       float64
	SlopeChance       float64
	PlatformChance    float64
	PlatformLength    int
	PlatformRunChance float64
	PlatformRunMin    int
	PlatformRunMax    int
}

// ObstacleParams drives DecideGap and MaybePlaceWall.
type ObstacleParams struct {
	SafeZoneCount     int
	InitialGapChance  float64
	MaxGapChance      float64
	InitialWallChance float64
	MaxWallChance     float64
	WallMinSpacing    int
}

// TerrainParamsFrom extracts the state machine parameters from a config.
func TerrainParamsFrom(cfg config.RunnerConfig) TerrainParams {
	return TerrainParams{
		SafeZoneCount:     cfg.Ground.SafeZoneCount,
		SlopeHeight:       cfg.Terrain.SlopeHeight,
		SlopeChance:       cfg.Terrain.SlopeChance,
		PlatformChance:    cfg.Terrain.PlatformChance,
		PlatformLength:    cfg.Terrain.PlatformLength,
		PlatformRunChance: cfg.Terrain.PlatformRunChance,
		PlatformRunMin:    cfg.Terrain.PlatformRunMin,
		PlatformRunMax:    cfg.Terrain.PlatformRunMax,
	}
}

// ObstacleParamsFrom extracts the gap and wall parameters from a config.
func ObstacleParamsFrom(cfg config.RunnerConfig) ObstacleParams {
	return ObstacleParams{
		SafeZoneCount:     cfg.Ground.SafeZoneCount,
		InitialGapChance:  cfg.Obstacles.InitialGapChance,
		MaxGapChance:      cfg.Obstacles.MaxGapChance,
		InitialWallChance: cfg.Obstacles.InitialWallChance,
		MaxWallChance:     cfg.Obstacles.MaxWallChance,
		WallMinSpacing:    cfg.Obstacles.WallMinSpacing,
	}
}
