package runner

import (
	"fmt"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.err != nil {
		title := "CANNOT START"
		if g.Unavailable() {
			title = "PHYSICS UNAVAILABLE"
		}
		g.drawCenteredMessage(dst, title, "Press Q to quit")
		return
	}

	g.camera.Resize(dst.Width(), dst.Height())
	g.scene.Draw(dst, g.camera)

	// Draw HUD
	scoreText := fmt.Sprintf(" Score: %d ", g.Score())
	dst.DrawTextColor(2, 0, scoreText, core.ColorBrightWhite)

	speedText := fmt.Sprintf(" Spd: %.1f ", g.speed)
	dst.DrawText(dst.Width()-len(speedText)-2, 0, speedText)

	if g.debug {
		st := g.terrain.State()
		debugText := fmt.Sprintf(" h=%.1f last=%s plat=%d walls=%d jumps=%d ",
			st.CurrentHeight, st.LastTerrain, st.PlatformCounter, len(g.terrain.Walls()), g.player.JumpCount())
		dst.DrawText(2, 1, debugText)
	}

	if g.speedUpTimer > 0 && !g.gameOver {
		banner := "SPEED UP!"
		dst.DrawTextColor((dst.Width()-len(banner))/2, dst.Height()/3, banner, core.ColorBrightYellow)
	}

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}

	if g.gameOver {
		g.drawCenteredMessage(dst, "GAME OVER", g.gameOverSubtitle())
	}
}

func (g *Game) gameOverSubtitle() string {
	switch g.cause {
	case CauseWall:
		return fmt.Sprintf("Hit a wall  |  Score: %d  |  Press R to restart", g.Score())
	case CauseFall:
		return fmt.Sprintf("Fell  |  Score: %d  |  Press R to restart", g.Score())
	default:
		return "Simulation fault  |  Press R to restart"
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	// Calculate box dimensions
	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box
	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ')
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	// Draw text
	titleX := boxX + (boxW-len(title))/2
	dst.DrawText(titleX, boxY+1, title)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
