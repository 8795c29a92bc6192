package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/core"
)

func TestSceneLifecycle(t *testing.T) {
	s := NewScene()
	a := s.CreateVisual(Box(2, 0.5, 10), Material{Color: core.ColorGray})
	b := s.CreateVisual(Box(0.5, 1.5, 0.5), Material{Color: core.ColorRed})

	if a == 0 || b == 0 || a == b {
		t.Fatalf("handles must be distinct and non-zero, got %d and %d", a, b)
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	s.SetVisualPosition(a, mgl64.Vec3{3, -0.25, 0})
	s.SetVisualColor(a, core.ColorCyan)
	s.SetVisualScale(a, mgl64.Vec3{1.2, 0.7, 1.2})

	v, ok := s.Visual(a)
	if !ok {
		t.Fatal("visual a missing")
	}
	if v.Position.X() != 3 || v.Material.Color != core.ColorCyan || v.Scale.Y() != 0.7 {
		t.Errorf("unexpected visual state %+v", v)
	}

	s.RemoveVisual(a)
	if _, ok := s.Visual(a); ok {
		t.Error("removed visual still present")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d after remove, want 1", s.Len())
	}

	// Unknown handles are ignored
	s.RemoveVisual(a)
	s.SetVisualPosition(a, mgl64.Vec3{})
}

func TestSceneDrawOrder(t *testing.T) {
	s := NewScene()
	cam := NewCamera(20, 10, 1)
	cam.LookAhead = 0
	cam.Follow(0, 0)

	ground := s.CreateVisual(Box(4, 1, 1), Material{Color: core.ColorGray, Fill: '#'})
	s.SetVisualPosition(ground, mgl64.Vec3{0, 0, 0})
	player := s.CreateVisual(Box(0.5, 0.5, 0.5), Material{Color: core.ColorGreen, Fill: '@'})
	s.SetVisualPosition(player, mgl64.Vec3{0, 0, 0})

	screen := core.NewScreen(20, 10)
	s.Draw(screen, cam)

	col, row := cam.Project(0, 0)
	cell := screen.GetCell(col, row)
	if cell.Rune != '@' || cell.Color != core.ColorGreen {
		t.Errorf("cell at anchor = %q/%d, want player drawn on top", cell.Rune, cell.Color)
	}
	if got := screen.Get(col-6, row); got != '#' {
		t.Errorf("ground cell = %q, want '#'", got)
	}
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera(80, 24, 1)
	cam.LookAhead = 6
	cam.Follow(10, 0)

	tests := []struct {
		name    string
		x, y    float64
		wantCol int
		wantRow int
	}{
		{"focus point", 16, 0, 40, 19},
		{"followed target", 10, 0, 16, 19},
		{"one unit up", 16, 1, 40, 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, row := cam.Project(tt.x, tt.y)
			if col != tt.wantCol || row != tt.wantRow {
				t.Errorf("Project(%v, %v) = (%d, %d), want (%d, %d)",
					tt.x, tt.y, col, row, tt.wantCol, tt.wantRow)
			}
		})
	}
}

func TestCameraFollowClimbs(t *testing.T) {
	cam := NewCamera(80, 24, 1)
	cam.Follow(0, 1)
	if cam.Y != 0 {
		t.Errorf("camera climbed for a low target: Y = %v", cam.Y)
	}
	cam.Follow(0, 100)
	if cam.Y <= 0 {
		t.Errorf("camera did not climb for a high target: Y = %v", cam.Y)
	}
}

func TestCameraShakeDecays(t *testing.T) {
	cam := NewCamera(80, 24, 7)
	cam.Shake(2, 0.15)
	if !cam.Shaking() {
		t.Fatal("Shaking() = false right after Shake")
	}

	for i := 0; i < 20; i++ {
		cam.Update(1.0 / 60.0)
	}
	if cam.Shaking() {
		t.Error("shake did not finish")
	}

	col, row := cam.Project(cam.X, cam.Y)
	if col != cam.AnchorCol || row != cam.AnchorRow {
		t.Errorf("offset left after shake: (%d, %d)", col, row)
	}
}
