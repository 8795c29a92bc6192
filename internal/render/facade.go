// Package render defines the visual port consumed by the runner and ships a
// terminal implementation: Scene keeps visuals in creation order and draws
// them as filled cell boxes through a side-on Camera.
package render

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-runner/internal/core"
)

// Handle identifies a visual. The zero value is never issued.
type Handle uint32

// Shape is the geometry of a visual in world units.
type Shape struct {
	Size mgl64.Vec3
}

// Box returns a cuboid shape of the given full size.
func Box(w, h, d float64) Shape {
	return Shape{Size: mgl64.Vec3{w, h, d}}
}

// Material controls how a visual is drawn.
type Material struct {
	Color core.Color
	Fill  rune
}

// Facade is the rendering surface the runner depends on. Creating a visual
// attaches it to the scene; removing it detaches and releases it.
type Facade interface {
	CreateVisual(shape Shape, mat Material) Handle
	SetVisualPosition(h Handle, pos mgl64.Vec3)
	SetVisualScale(h Handle, scale mgl64.Vec3)
	SetVisualColor(h Handle, c core.Color)
	RemoveVisual(h Handle)
}

// Nop discards every call. Useful for headless runs.
type Nop struct {
	next Handle
}

var _ Facade = (*Nop)(nil)

func (n *Nop) CreateVisual(Shape, Material) Handle {
	n.next++
	return n.next
}

func (n *Nop) SetVisualPosition(Handle, mgl64.Vec3) {}
func (n *Nop) SetVisualScale(Handle, mgl64.Vec3)    {}
func (n *Nop) SetVisualColor(Handle, core.Color)    {}
func (n *Nop) RemoveVisual(Handle)                  {}
