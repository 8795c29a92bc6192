package config

import (
	_ "embed"
)

// Compile-time defaults. The embedded YAML mirrors these values; a config
// file only needs the keys it overrides.
const (
	Gravity    = 9.81
	Substeps   = 4
	StepOffset = 0.45

	GroundWidth   = 2.0
	GroundHeight  = 0.5
	GroundDepth   = 10.0
	GroundStartX  = -4.0
	Lookahead     = 24.0
	TrailDistance = 12.0
	SafeZoneCount = 8

	SlopeHeight       = 0.4
	SlopeChance       = 0.12
	PlatformChance    = 0.08
	PlatformLength    = 3
	PlatformRunChance = 0.6
	PlatformRunMin    = 2
	PlatformRunMax    = 4

	InitialGapChance  = 0.12
	MaxGapChance      = 0.3
	InitialWallChance = 0.15
	MaxWallChance     = 0.4
	WallMinSpacing    = 3
	WallWidth         = 0.5
	WallHeight        = 1.5
	WallDepth         = 0.5

	PlayerSize      = 0.5
	PlayerSpawnX    = 0.0
	PlayerSpawnY    = 2.0
	JumpVelocity    = 8.0
	MaxJumps        = 2
	ProbeReach      = 0.2
	GroundTolerance = 0.15
	GroundedMaxVY   = 0.0
	FallDepth       = -5.0
	ScaleSpeed      = 10.0

	BaseSpeed      = 5.0
	MaxSpeed       = 12.0
	SpeedIncrement = 0.5
	SpeedInterval  = 5.0
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

// DefaultRunnerConfig returns the default runner configuration.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		World: WorldConfig{
			Gravity:    Gravity,
			Substeps:   Substeps,
			StepOffset: StepOffset,
		},
		Ground: GroundConfig{
			Width:         GroundWidth,
			Height:        GroundHeight,
			Depth:         GroundDepth,
			StartX:        GroundStartX,
			Lookahead:     Lookahead,
			TrailDistance: TrailDistance,
			SafeZoneCount: SafeZoneCount,
		},
		Terrain: TerrainConfig{
			SlopeHeight:       SlopeHeight,
			SlopeChance:       SlopeChance,
			PlatformChance:    PlatformChance,
			PlatformLength:    PlatformLength,
			PlatformRunChance: PlatformRunChance,
			PlatformRunMin:    PlatformRunMin,
			PlatformRunMax:    PlatformRunMax,
		},
		Obstacles: ObstacleConfig{
			InitialGapChance:  InitialGapChance,
			MaxGapChance:      MaxGapChance,
			InitialWallChance: InitialWallChance,
			MaxWallChance:     MaxWallChance,
			WallMinSpacing:    WallMinSpacing,
			WallWidth:         WallWidth,
			WallHeight:        WallHeight,
			WallDepth:         WallDepth,
		},
		Player: PlayerConfig{
			Size:            PlayerSize,
			SpawnX:          PlayerSpawnX,
			SpawnY:          PlayerSpawnY,
			JumpVelocity:    JumpVelocity,
			MaxJumps:        MaxJumps,
			ProbeReach:      ProbeReach,
			GroundTolerance: GroundTolerance,
			GroundedMaxVY:   GroundedMaxVY,
			FallDepth:       FallDepth,
			ScaleSpeed:      ScaleSpeed,
		},
		Speed: SpeedConfig{
			Base:      BaseSpeed,
			Max:       MaxSpeed,
			Increment: SpeedIncrement,
			Interval:  SpeedInterval,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultRunnerYAML
}
