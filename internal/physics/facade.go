// Package physics defines the physics port consumed by the runner and ships
// World, an implementation of it on the Chipmunk2D space from
// github.com/jakecoffman/cp. Colliders are axis-aligned boxes, kinematic
// bodies are positioned by the caller and dynamic bodies fall under gravity.
package physics

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrPhysicsUnavailable is returned when a world cannot be initialized.
	// No terrain can be generated without one.
	ErrPhysicsUnavailable = errors.New("physics: unavailable")

	// ErrUnknownHandle is wrapped by the panic raised when an operation
	// references a body that does not exist.
	ErrUnknownHandle = errors.New("physics: unknown body handle")
)

// Handle identifies a rigid body. The zero value is never issued.
type Handle uint32

// BodyKind selects how a body is moved.
type BodyKind int

const (
	// BodyDynamic bodies are integrated under gravity and collide with solids.
	BodyDynamic BodyKind = iota
	// BodyKinematic bodies are positioned by the caller every tick.
	BodyKinematic
	// BodyFixed bodies never move.
	BodyFixed
)

// String returns the kind name.
func (k BodyKind) String() string {
	switch k {
	case BodyDynamic:
		return "dynamic"
	case BodyKinematic:
		return "kinematic"
	case BodyFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// RayHit describes the first surface a ray reached.
type RayHit struct {
	Distance float64
	Point    mgl64.Vec3
}

// ColliderOption configures a collider at creation.
type ColliderOption func(*collider)

// AsSensor makes the collider non-solid: it neither blocks dynamic bodies
// nor answers ray casts. Overlap checks against it are the caller's job.
func AsSensor() ColliderOption {
	return func(c *collider) {
		c.sensor = true
	}
}

// Facade is the physics surface the runner depends on. Implementations are
// single-threaded and non-reentrant; every call happens from the tick
// sequence. Pose operations on unknown handles panic with ErrUnknownHandle.
type Facade interface {
	CreateBody(kind BodyKind, position mgl64.Vec3) Handle
	CreateCollider(halfExtents mgl64.Vec3, body Handle, opts ...ColliderOption)
	SetBodyTranslation(body Handle, position mgl64.Vec3)
	BodyTranslation(body Handle) mgl64.Vec3
	BodyVelocity(body Handle) mgl64.Vec3
	SetBodyVelocity(body Handle, velocity mgl64.Vec3)
	RemoveBody(body Handle)
	RaycastDown(origin mgl64.Vec3, maxDistance float64) (RayHit, bool)
	Step(dt float64)
}
