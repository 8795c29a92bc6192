package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by Validate failures.
var ErrInvalidConfig = errors.New("invalid config")

// LoadRunner loads the runner configuration.
// Search order: customPath -> ~/.arcade/configs/runner.yaml -> ./configs/runner.yaml -> embedded default.
// Files are applied on top of the defaults, so partial files are fine.
func LoadRunner(customPath string) (RunnerConfig, error) {
	cfg := DefaultRunnerConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("runner.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if parsed, ok := parseOver(data); ok {
				return parsed, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "runner.yaml")); err == nil {
		if parsed, ok := parseOver(data); ok {
			return parsed, nil
		}
	}

	// Use embedded default YAML
	if parsed, ok := parseOver(defaultRunnerYAML); ok {
		return parsed, nil
	}
	return DefaultRunnerConfig(), nil // Fallback to hardcoded if embed fails
}

// parseOver unmarshals data on top of the defaults and validates the result.
func parseOver(data []byte) (RunnerConfig, bool) {
	cfg := DefaultRunnerConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if err := cfg.Validate(); err != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// Marshal renders the config as YAML.
func (c RunnerConfig) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate rejects configurations the generator cannot run with.
func (c RunnerConfig) Validate() error {
	switch {
	case c.Ground.Width <= 0 || c.Ground.Height <= 0 || c.Ground.Depth <= 0:
		return fmt.Errorf("%w: ground dimensions must be positive", ErrInvalidConfig)
	case c.Ground.TrailDistance <= 0:
		return fmt.Errorf("%w: trail_distance must be positive", ErrInvalidConfig)
	case c.Terrain.SlopeHeight <= 0:
		return fmt.Errorf("%w: slope_height must be positive", ErrInvalidConfig)
	case c.Terrain.PlatformRunMin < 1 || c.Terrain.PlatformRunMax < c.Terrain.PlatformRunMin:
		return fmt.Errorf("%w: platform run range %d..%d", ErrInvalidConfig, c.Terrain.PlatformRunMin, c.Terrain.PlatformRunMax)
	case c.Obstacles.WallMinSpacing < 0:
		return fmt.Errorf("%w: wall_min_spacing must not be negative", ErrInvalidConfig)
	case c.Player.Size <= 0 || c.Player.MaxJumps < 1:
		return fmt.Errorf("%w: player size and max_jumps must be positive", ErrInvalidConfig)
	case c.Player.GroundedMaxVY > 0:
		return fmt.Errorf("%w: grounded_max_vy must be <= 0", ErrInvalidConfig)
	case c.Speed.Base <= 0 || c.Speed.Max < c.Speed.Base:
		return fmt.Errorf("%w: speed range %.2f..%.2f", ErrInvalidConfig, c.Speed.Base, c.Speed.Max)
	}
	return nil
}
