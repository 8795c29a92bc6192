// Package config provides YAML-based configuration loading and difficulty
// management for the runner.
package config

// RunnerConfig contains all tunables of a run.
type RunnerConfig struct {
	World      WorldConfig      `yaml:"world"`
	Ground     GroundConfig     `yaml:"ground"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Obstacles  ObstacleConfig   `yaml:"obstacles"`
	Player     PlayerConfig     `yaml:"player"`
	Speed      SpeedConfig      `yaml:"speed"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Debug      bool             `yaml:"debug"` // Validate terrain invariants every tick
}

// WorldConfig defines the physics world parameters.
type WorldConfig struct {
	Gravity    float64 `yaml:"gravity"`     // m/s², applied downward
	Substeps   int     `yaml:"substeps"`    // Integration substeps per Step call
	StepOffset float64 `yaml:"step_offset"` // Highest ledge a body climbs without jumping
}

// GroundConfig defines ground segment geometry and the recycle window.
type GroundConfig struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	Depth         float64 `yaml:"depth"`
	StartX        float64 `yaml:"start_x"`        // Center of the first segment
	Lookahead     float64 `yaml:"lookahead"`      // Distance covered ahead of the player
	TrailDistance float64 `yaml:"trail_distance"` // Segments further behind the player are recycled
	SafeZoneCount int     `yaml:"safe_zone"`      // Leading segments with no obstacles
}

// TerrainConfig defines the terrain state machine parameters.
type TerrainConfig struct {
	SlopeHeight       float64 `yaml:"slope_height"`
	SlopeChance       float64 `yaml:"slope_chance"`
	PlatformChance    float64 `yaml:"platform_chance"`
	PlatformLength    int     `yaml:"platform_length"`     // Fixed run length for platform-bound ramps
	PlatformRunChance float64 `yaml:"platform_run_chance"` // Chance a plain slope_up turns into a platform
	PlatformRunMin    int     `yaml:"platform_run_min"`
	PlatformRunMax    int     `yaml:"platform_run_max"`
}

// ObstacleConfig defines gap and wall parameters.
type ObstacleConfig struct {
	InitialGapChance  float64 `yaml:"initial_gap_chance"`
	MaxGapChance      float64 `yaml:"max_gap_chance"`
	InitialWallChance float64 `yaml:"initial_wall_chance"`
	MaxWallChance     float64 `yaml:"max_wall_chance"`
	WallMinSpacing    int     `yaml:"wall_min_spacing"`
	WallWidth         float64 `yaml:"wall_width"`
	WallHeight        float64 `yaml:"wall_height"`
	WallDepth         float64 `yaml:"wall_depth"`
}

// PlayerConfig defines the controlled entity.
type PlayerConfig struct {
	Size            float64 `yaml:"size"`
	SpawnX          float64 `yaml:"spawn_x"`
	SpawnY          float64 `yaml:"spawn_y"`
	JumpVelocity    float64 `yaml:"jump_velocity"`
	MaxJumps        int     `yaml:"max_jumps"`
	ProbeReach      float64 `yaml:"probe_reach"`      // Ray length beyond the half size
	GroundTolerance float64 `yaml:"ground_tolerance"` // Accepted hit distance beyond the half size
	GroundedMaxVY   float64 `yaml:"grounded_max_vy"`  // Must be <= 0
	FallDepth       float64 `yaml:"fall_depth"`
	ScaleSpeed      float64 `yaml:"scale_speed"` // Squash/stretch easing rate per second
}

// SpeedConfig defines the forward speed ramp.
type SpeedConfig struct {
	Base      float64 `yaml:"base"`
	Max       float64 `yaml:"max"`
	Increment float64 `yaml:"increment"`
	Interval  float64 `yaml:"interval"` // Seconds between increments
}

// DifficultyConfig defines how the speed ramp progresses.
type DifficultyConfig struct {
	Enabled      bool    `yaml:"enabled"`
	InitialLevel float64 `yaml:"initial_level"` // 0.0 = base speed, 1.0 = max speed
}

// InitialSegmentCount returns how many slots CreateInitialSegments lays out.
func (c RunnerConfig) InitialSegmentCount() int {
	if c.Ground.Width <= 0 {
		return 0
	}
	span := c.Ground.Lookahead + c.Ground.TrailDistance
	n := int(span / c.Ground.Width)
	if float64(n)*c.Ground.Width < span {
		n++
	}
	return n + 1
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists the known presets in display order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ParsePreset maps a CLI string to a preset; unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the config based on a difficulty preset.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
}
