package terrain

import (
	"github.com/vovakirdan/tui-runner/internal/core"
)

// heightEpsilon absorbs float drift when a descent lands on the floor.
const heightEpsilon = 1e-9

// DecideTerrainType picks the terrain of the next ground segment and applies
// its height change.
func (s *State) DecideTerrainType(rng Rand, p TerrainParams) TerrainType {
	t := s.nextTerrain(rng, p)

	switch t {
	case SlopeUp:
		s.CurrentHeight += p.SlopeHeight
	case SlopeDown:
		s.CurrentHeight -= p.SlopeHeight
		if s.CurrentHeight < heightEpsilon {
			s.CurrentHeight = 0
		}
	}
	s.LastTerrain = t
	return t
}

func (s *State) nextTerrain(rng Rand, p TerrainParams) TerrainType {
	if s.PlatformCounter > 0 {
		s.PlatformCounter--
		if s.PlatformCounter > 0 {
			return Platform
		}
		return SlopeDown
	}

	if s.TotalGroundsCreated < p.SafeZoneCount {
		return Flat
	}

	if s.LastTerrain == SlopeDown && s.CurrentHeight > 0 {
		return SlopeDown
	}

	if s.LastTerrain == SlopeUp {
		if rng.Float64() < p.PlatformRunChance {
			s.PlatformCounter = platformRunLength(rng, p)
			return Platform
		}
		return SlopeDown
	}

	if s.LastTerrain == Flat {
		r := rng.Float64()
		if r < p.SlopeChance {
			return SlopeUp
		}
		if r < p.SlopeChance+p.PlatformChance {
			s.PlatformCounter = p.PlatformLength
			return SlopeUp
		}
	}

	return Flat
}

func platformRunLength(rng Rand, p TerrainParams) int {
	span := p.PlatformRunMax - p.PlatformRunMin
	if span <= 0 {
		return core.Max(p.PlatformRunMin, 1)
	}
	return p.PlatformRunMin + rng.Intn(span+1)
}

// DecideGap reports whether the next slot stays empty. Gaps only follow a
// plain flat slot at ground level.
func (s *State) DecideGap(rng Rand, ratio float64, p ObstacleParams) bool {
	if s.TotalGroundsCreated < p.SafeZoneCount {
		return false
	}
	if s.LastTerrain != Flat || s.CurrentHeight != 0 || s.LastHadGap || s.LastHadWall {
		return false
	}

	chance := core.ClampF(core.Lerp(p.InitialGapChance, p.MaxGapChance, ratio), 0, 1)
	if rng.Float64() >= chance {
		return false
	}
	s.LastHadGap = true
	s.LastHadWall = false
	return true
}

// MaybePlaceWall decides whether the segment just resolved to terrain gets a
// wall. Only flat ground-level segments past the safe zone qualify. Each one
// bumps the spacing counter and a wall may go down once it reaches
// WallMinSpacing, so walls sit WallMinSpacing segments apart with
// WallMinSpacing-1 plain segments between them.
func (s *State) MaybePlaceWall(rng Rand, terrain TerrainType, ratio float64, p ObstacleParams) bool {
	s.LastHadWall = false
	if terrain != Flat || s.CurrentHeight != 0 || s.TotalGroundsCreated < p.SafeZoneCount {
		return false
	}

	s.GroundsSinceLastWall++
	if s.GroundsSinceLastWall < p.WallMinSpacing || s.LastHadGap {
		return false
	}

	chance := core.ClampF(core.Lerp(p.InitialWallChance, p.MaxWallChance, ratio), 0, 1)
	if rng.Float64() >= chance {
		return false
	}
	s.GroundsSinceLastWall = 0
	s.LastHadWall = true
	return true
}
