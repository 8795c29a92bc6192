package config

import "math"

// DifficultyManager derives the forward speed from elapsed run time and maps
// speed onto the difficulty ratio used to interpolate obstacle chances.
type DifficultyManager struct {
	cfg          DifficultyConfig
	speed        SpeedConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(cfg DifficultyConfig, speed SpeedConfig) *DifficultyManager {
	return &DifficultyManager{
		cfg:          cfg,
		speed:        speed,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// InitialSpeed is the speed at the start of a run.
func (d *DifficultyManager) InitialSpeed() float64 {
	return d.speed.Base + d.initialLevel*(d.speed.Max-d.speed.Base)
}

// Speed returns the forward speed after elapsed seconds of play.
// Speed steps up by Increment every Interval seconds and saturates at Max.
func (d *DifficultyManager) Speed(elapsed float64) float64 {
	start := d.InitialSpeed()
	if !d.cfg.Enabled || d.speed.Interval <= 0 {
		return start
	}
	steps := math.Floor(elapsed / d.speed.Interval)
	return math.Min(start+steps*d.speed.Increment, d.speed.Max)
}

// Ratio returns where speed sits between base and max, clamped to [0, 1].
func (d *DifficultyManager) Ratio(speed float64) float64 {
	return SpeedRatio(speed, d.speed)
}

// SpeedRatio is Ratio without a manager.
func SpeedRatio(speed float64, s SpeedConfig) float64 {
	span := s.Max - s.Base
	if span <= 0 {
		return 0
	}
	return clampF((speed-s.Base)/span, 0.0, 1.0)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
