package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Config holds the world parameters.
type Config struct {
	Gravity    float64 // Downward acceleration in m/s²
	Substeps   int     // Integration substeps per Step
	StepOffset float64 // Ledges up to this height are climbed instead of blocking
}

// Collision categories. Queries only ever look for solids.
const (
	categorySolid uint = 1 << iota
	categorySensor
	categoryDynamic
)

// restEpsilon is how far above a solid top a body still counts as resting.
const restEpsilon = 1e-6

var solidQuery = cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categorySolid)

type collider struct {
	half   mgl64.Vec3
	sensor bool
	owner  *body
	shape  *cp.Shape
}

// bounds is the collider's box in the xy plane.
func (c *collider) bounds() cp.BB {
	p := c.owner.rb.Position()
	return cp.BB{
		L: p.X - c.half.X(),
		B: p.Y - c.half.Y(),
		R: p.X + c.half.X(),
		T: p.Y + c.half.Y(),
	}
}

type body struct {
	kind      BodyKind
	rb        *cp.Body
	z         float64    // The space is planar; depth rides along
	vel       mgl64.Vec3 // Z for every body, X/Y for non-dynamic bodies
	colliders []*collider
}

// World implements Facade on a Chipmunk2D space. Bodies live in the xy
// plane; each dynamic body gets a low-ledge climb and a flush settle around
// every substep so resting contacts stay exact.
type World struct {
	cfg    Config
	space  *cp.Space
	bodies map[Handle]*body
	shapes map[*cp.Shape]*collider
	order  []Handle // Creation order; iteration must not depend on map order
	next   Handle
}

var _ Facade = (*World)(nil)

// NewWorld creates an empty world.
func NewWorld(cfg Config) (*World, error) {
	if math.IsNaN(cfg.Gravity) || math.IsInf(cfg.Gravity, 0) {
		return nil, fmt.Errorf("%w: gravity %v", ErrPhysicsUnavailable, cfg.Gravity)
	}
	if cfg.Substeps < 1 {
		return nil, fmt.Errorf("%w: substeps must be >= 1, got %d", ErrPhysicsUnavailable, cfg.Substeps)
	}
	if cfg.StepOffset < 0 {
		return nil, fmt.Errorf("%w: negative step offset", ErrPhysicsUnavailable)
	}

	space := cp.NewSpace()
	space.Iterations = 10
	space.SetGravity(cp.Vector{X: 0, Y: -cfg.Gravity})

	return &World{
		cfg:    cfg,
		space:  space,
		bodies: make(map[Handle]*body),
		shapes: make(map[*cp.Shape]*collider),
	}, nil
}

// CreateBody adds a body without colliders at position.
func (w *World) CreateBody(kind BodyKind, position mgl64.Vec3) Handle {
	var rb *cp.Body
	switch kind {
	case BodyDynamic:
		// Infinite moment: bodies slide, they never tumble
		rb = cp.NewBody(1, math.Inf(1))
	case BodyKinematic:
		rb = cp.NewKinematicBody()
	default:
		rb = cp.NewStaticBody()
	}
	rb.SetPosition(cp.Vector{X: position.X(), Y: position.Y()})
	w.space.AddBody(rb)

	w.next++
	h := w.next
	w.bodies[h] = &body{kind: kind, rb: rb, z: position.Z()}
	w.order = append(w.order, h)
	return h
}

// CreateCollider attaches a cuboid centered on the body.
func (w *World) CreateCollider(halfExtents mgl64.Vec3, h Handle, opts ...ColliderOption) {
	b := w.get(h)
	c := &collider{half: halfExtents, owner: b}
	for _, opt := range opts {
		opt(c)
	}

	shape := cp.NewBox(b.rb, 2*halfExtents.X(), 2*halfExtents.Y(), 0)
	shape.SetFriction(0)
	shape.SetElasticity(0)
	switch {
	case c.sensor:
		shape.SetSensor(true)
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categorySensor, cp.ALL_CATEGORIES))
	case b.kind == BodyDynamic:
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryDynamic, cp.ALL_CATEGORIES))
	default:
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categorySolid, cp.ALL_CATEGORIES))
	}
	c.shape = w.space.AddShape(shape)

	b.colliders = append(b.colliders, c)
	w.shapes[c.shape] = c
}

// SetBodyTranslation teleports a body.
func (w *World) SetBodyTranslation(h Handle, position mgl64.Vec3) {
	b := w.get(h)
	b.rb.SetPosition(cp.Vector{X: position.X(), Y: position.Y()})
	b.z = position.Z()
	if len(b.colliders) > 0 {
		w.space.ReindexShapesForBody(b.rb)
	}
}

// BodyTranslation returns a body's position.
func (w *World) BodyTranslation(h Handle) mgl64.Vec3 {
	b := w.get(h)
	p := b.rb.Position()
	return mgl64.Vec3{p.X, p.Y, b.z}
}

// BodyVelocity returns a body's linear velocity.
func (w *World) BodyVelocity(h Handle) mgl64.Vec3 {
	b := w.get(h)
	if b.kind != BodyDynamic {
		return b.vel
	}
	v := b.rb.Velocity()
	return mgl64.Vec3{v.X, v.Y, b.vel.Z()}
}

// SetBodyVelocity sets a body's linear velocity. Only dynamic bodies integrate it.
func (w *World) SetBodyVelocity(h Handle, velocity mgl64.Vec3) {
	b := w.get(h)
	b.vel = velocity
	if b.kind == BodyDynamic {
		b.rb.SetVelocity(velocity.X(), velocity.Y())
	}
}

// RemoveBody deletes a body and its colliders.
func (w *World) RemoveBody(h Handle) {
	b := w.get(h)
	for _, c := range b.colliders {
		w.space.RemoveShape(c.shape)
		delete(w.shapes, c.shape)
	}
	w.space.RemoveBody(b.rb)

	delete(w.bodies, h)
	for i, o := range w.order {
		if o == h {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of live bodies.
func (w *World) Len() int {
	return len(w.bodies)
}

// RaycastDown casts a ray straight down from origin and reports the nearest
// solid surface within maxDistance. Dynamic bodies and sensors are filtered
// out, so a body can probe from its own center. An origin inside a solid hits
// at distance zero.
func (w *World) RaycastDown(origin mgl64.Vec3, maxDistance float64) (RayHit, bool) {
	start := cp.Vector{X: origin.X(), Y: origin.Y()}
	if w.insideSolid(start) {
		return RayHit{Distance: 0, Point: origin}, true
	}
	if maxDistance <= 0 {
		return RayHit{}, false
	}

	end := cp.Vector{X: start.X, Y: start.Y - maxDistance}
	info := w.space.SegmentQueryFirst(start, end, 0, solidQuery)
	if info.Shape == nil {
		return RayHit{}, false
	}
	d := info.Alpha * maxDistance
	return RayHit{
		Distance: d,
		Point:    mgl64.Vec3{origin.X(), origin.Y() - d, origin.Z()},
	}, true
}

// Step advances the space by dt seconds in equal substeps.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	sub := dt / float64(w.cfg.Substeps)
	for i := 0; i < w.cfg.Substeps; i++ {
		// Kinematic bodies may have been teleported into us since the last step.
		w.eachDynamic(func(b *body) {
			w.settle(b)
			w.stepUp(b, sub)
		})
		w.space.Step(sub)
		w.eachDynamic(func(b *body) {
			w.settle(b)
			b.z += b.vel.Z() * sub
		})
	}
}

func (w *World) eachDynamic(fn func(*body)) {
	for _, h := range w.order {
		if b := w.bodies[h]; b.kind == BodyDynamic && len(b.colliders) > 0 {
			fn(b)
		}
	}
}

// stepUp lifts a body onto a ledge it is about to run into when the ledge
// top is within StepOffset of its feet.
func (w *World) stepUp(b *body, dt float64) {
	v := b.rb.Velocity()
	if v.X == 0 {
		return
	}
	half := b.colliders[0].half
	p := b.rb.Position()
	bottom := p.Y - half.Y()

	ahead := cp.BB{
		L: p.X + v.X*dt - half.X(),
		B: bottom,
		R: p.X + v.X*dt + half.X(),
		T: p.Y + half.Y(),
	}
	lift := p.Y
	for _, other := range w.solidsOverlapping(ahead) {
		rise := other.T - bottom
		if rise > 0 && rise <= w.cfg.StepOffset && other.T+half.Y() > lift {
			lift = other.T + half.Y()
		}
	}
	if lift == p.Y {
		return
	}
	b.rb.SetPosition(cp.Vector{X: p.X, Y: lift})
	if v.Y < 0 {
		b.rb.SetVelocity(v.X, 0)
	}
}

// settle resolves what the solver leaves behind: a body sunk into or
// hovering just above a low surface is placed flush on it, and a body
// pressed into a tall face is pushed back out along x.
func (w *World) settle(b *body) {
	half := b.colliders[0].half
	p := b.rb.Position()
	v := b.rb.Velocity()

	probe := cp.BB{
		L: p.X - half.X(),
		B: p.Y - half.Y() - restEpsilon,
		R: p.X + half.X(),
		T: p.Y + half.Y(),
	}
	hits := w.solidsOverlapping(probe)
	if len(hits) == 0 {
		return
	}
	for _, other := range hits {
		bottom := p.Y - half.Y()
		if other.T-bottom <= w.cfg.StepOffset {
			p.Y = other.T + half.Y()
			if v.Y < restEpsilon {
				v.Y = 0
			}
			continue
		}
		// Push out along x toward the shallower side
		left := p.X + half.X() - other.L
		right := other.R - (p.X - half.X())
		if left < right {
			p.X = other.L - half.X()
			v.X = math.Min(v.X, 0)
		} else {
			p.X = other.R + half.X()
			v.X = math.Max(v.X, 0)
		}
	}
	b.rb.SetPosition(p)
	b.rb.SetVelocity(v.X, v.Y)
}

// solidsOverlapping returns the boxes of solid colliders that strictly
// overlap box. Touching faces do not count.
func (w *World) solidsOverlapping(box cp.BB) []cp.BB {
	var hits []cp.BB
	w.space.BBQuery(box, solidQuery, func(shape *cp.Shape, _ interface{}) {
		c, ok := w.shapes[shape]
		if !ok || c.sensor || c.owner.kind == BodyDynamic {
			return
		}
		if other := c.bounds(); overlaps(box, other) {
			hits = append(hits, other)
		}
	}, nil)
	return hits
}

// insideSolid reports whether p lies within a solid box, below its top.
func (w *World) insideSolid(p cp.Vector) bool {
	inside := false
	w.space.BBQuery(cp.BB{L: p.X, B: p.Y, R: p.X, T: p.Y}, solidQuery, func(shape *cp.Shape, _ interface{}) {
		c, ok := w.shapes[shape]
		if !ok || c.sensor || c.owner.kind == BodyDynamic {
			return
		}
		bb := c.bounds()
		if p.X >= bb.L && p.X <= bb.R && p.Y > bb.B && p.Y < bb.T {
			inside = true
		}
	}, nil)
	return inside
}

func overlaps(a, b cp.BB) bool {
	return a.R > b.L && a.L < b.R && a.T > b.B && a.B < b.T
}

func (w *World) get(h Handle) *body {
	b, ok := w.bodies[h]
	if !ok {
		panic(fmt.Errorf("%w: %d", ErrUnknownHandle, h))
	}
	return b
}
