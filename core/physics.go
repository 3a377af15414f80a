package core

import "github.com/go-gl/mathgl/mgl32"

// PhysicsComponent carries rigid-body parameters. Simulation is not
// implemented; the component exists so scenes that declare physics
// round-trip through serialization without losing data.
type PhysicsComponent struct {
	baseComponent

	Mass         float32
	Friction     float32
	Restitution  float32
	IsStatic     bool
	HalfExtents  mgl32.Vec3
	GravityScale float32
}

// NewPhysicsComponent returns a unit-mass dynamic body.
func NewPhysicsComponent() *PhysicsComponent {
	return &PhysicsComponent{
		baseComponent: newBaseComponent(),
		Mass:          1.0,
		Friction:      0.5,
		Restitution:   0.0,
		HalfExtents:   mgl32.Vec3{0.5, 0.5, 0.5},
		GravityScale:  1.0,
	}
}

func (p *PhysicsComponent) Kind() ComponentKind { return KindPhysics }
