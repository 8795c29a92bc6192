package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// Visual is one drawable box.
type Visual struct {
	Shape    Shape
	Material Material
	Position mgl64.Vec3
	Scale    mgl64.Vec3
}

// Scene is an in-memory scene graph drawn onto a core.Screen.
type Scene struct {
	visuals map[Handle]*Visual
	order   []Handle
	next    Handle
}

var _ Facade = (*Scene)(nil)

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{visuals: make(map[Handle]*Visual)}
}

// CreateVisual attaches a new visual at the origin with unit scale.
func (s *Scene) CreateVisual(shape Shape, mat Material) Handle {
	s.next++
	h := s.next
	s.visuals[h] = &Visual{
		Shape:    shape,
		Material: mat,
		Scale:    mgl64.Vec3{1, 1, 1},
	}
	s.order = append(s.order, h)
	return h
}

// SetVisualPosition moves a visual. Unknown handles are ignored.
func (s *Scene) SetVisualPosition(h Handle, pos mgl64.Vec3) {
	if v, ok := s.visuals[h]; ok {
		v.Position = pos
	}
}

// SetVisualScale rescales a visual around its center.
func (s *Scene) SetVisualScale(h Handle, scale mgl64.Vec3) {
	if v, ok := s.visuals[h]; ok {
		v.Scale = scale
	}
}

// SetVisualColor recolors a visual.
func (s *Scene) SetVisualColor(h Handle, c core.Color) {
	if v, ok := s.visuals[h]; ok {
		v.Material.Color = c
	}
}

// RemoveVisual detaches a visual.
func (s *Scene) RemoveVisual(h Handle) {
	if _, ok := s.visuals[h]; !ok {
		return
	}
	delete(s.visuals, h)
	for i, o := range s.order {
		if o == h {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Visual returns a copy of a visual.
func (s *Scene) Visual(h Handle) (Visual, bool) {
	v, ok := s.visuals[h]
	if !ok {
		return Visual{}, false
	}
	return *v, true
}

// Len returns the number of attached visuals.
func (s *Scene) Len() int {
	return len(s.visuals)
}

// Draw paints every visual in creation order, later visuals on top.
func (s *Scene) Draw(dst *core.Screen, cam *Camera) {
	for _, h := range s.order {
		v := s.visuals[h]
		halfW := v.Shape.Size.X() * v.Scale.X() / 2
		halfH := v.Shape.Size.Y() * v.Scale.Y() / 2

		left, top := cam.Project(v.Position.X()-halfW, v.Position.Y()+halfH)
		right, bottom := cam.Project(v.Position.X()+halfW, v.Position.Y()-halfH)

		w, ht := right-left, bottom-top
		// Anything smaller than a cell still shows as one cell
		if w < 1 {
			w = 1
		}
		if ht < 1 {
			ht = 1
		}
		fill := v.Material.Fill
		if fill == 0 {
			fill = '█'
		}
		dst.FillRect(core.NewRect(left, top, w, ht), fill, v.Material.Color)
	}
}

// round converts a fractional cell coordinate to the nearest cell.
func round(v float64) int {
	return int(math.Round(v))
}
