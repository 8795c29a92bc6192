package render

import (
	"math/rand"
)

// Camera maps world X/Y onto screen cells for a side-on view and adds a
// decaying shake.
type Camera struct {
	X, Y          float64 // World point shown at the anchor cell
	CellsPerUnitX float64
	CellsPerUnitY float64
	AnchorCol     int
	AnchorRow     int
	LookAhead     float64 // World units shown ahead of the followed target

	shakeIntensity float64
	shakeDuration  float64
	shakeTimer     float64
	offsetX        float64
	offsetY        float64
	rng            *rand.Rand
}

// NewCamera creates a camera for a screen of the given size. The anchor sits
// at the horizontal center, a few rows above the bottom edge.
func NewCamera(screenW, screenH int, seed int64) *Camera {
	return &Camera{
		CellsPerUnitX: 4,
		CellsPerUnitY: 2,
		AnchorCol:     screenW / 2,
		AnchorRow:     screenH - 5,
		LookAhead:     6,
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// Resize re-anchors the camera after the screen changed size.
func (c *Camera) Resize(screenW, screenH int) {
	c.AnchorCol = screenW / 2
	c.AnchorRow = screenH - 5
}

// Follow frames the target, looking ahead along the run direction. The view
// only climbs once the target rises above the lower band of the screen.
func (c *Camera) Follow(x, y float64) {
	c.X = x + c.LookAhead
	c.Y = 0
	if band := float64(c.AnchorRow) / c.CellsPerUnitY * 0.6; y > band {
		c.Y = y - band
	}
}

// Shake starts a shake that decays linearly over duration seconds.
func (c *Camera) Shake(intensity, duration float64) {
	c.shakeIntensity = intensity
	c.shakeDuration = duration
	c.shakeTimer = duration
}

// Shaking reports whether a shake is in progress.
func (c *Camera) Shaking() bool {
	return c.shakeTimer > 0
}

// Update advances the shake by dt seconds.
func (c *Camera) Update(dt float64) {
	c.offsetX, c.offsetY = 0, 0
	if c.shakeTimer <= 0 {
		return
	}
	c.shakeTimer -= dt
	if c.shakeTimer < 0 {
		c.shakeTimer = 0
	}
	amount := c.shakeIntensity * (c.shakeTimer / c.shakeDuration)
	c.offsetY = (c.rng.Float64() - 0.5) * 2 * amount
	c.offsetX = (c.rng.Float64() - 0.5) * 2 * amount * 0.5
}

// Project converts a world point to a screen cell.
func (c *Camera) Project(x, y float64) (col, row int) {
	col = c.AnchorCol + round((x-c.X+c.offsetX)*c.CellsPerUnitX)
	row = c.AnchorRow - round((y-c.Y+c.offsetY)*c.CellsPerUnitY)
	return col, row
}
