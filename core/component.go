package core

import "sync/atomic"

// ComponentKind enumerates the closed set of component types an Actor
// can carry. Lookup by kind is O(1); there is at most one component of
// each kind per Actor.
type ComponentKind uint8

const (
	KindTransform ComponentKind = iota
	KindMesh
	KindLight
	KindMaterial
	KindPhysics

	kindCount
)

func (k ComponentKind) String() string {
	switch k {
	case KindTransform:
		return "Transform"
	case KindMesh:
		return "Mesh"
	case KindLight:
		return "Light"
	case KindMaterial:
		return "Material"
	case KindPhysics:
		return "Physics"
	}
	return "Unknown"
}

// Component is a typed behavior/data unit attached to exactly one Actor.
type Component interface {
	Kind() ComponentKind
	ID() uint64
	Owner() *Actor
	Enabled() bool
	SetEnabled(enabled bool)

	setOwner(a *Actor)
}

// Lifecycle capabilities. Concrete components implement the subset they
// need; callers type-assert before dispatching.

// Initializer runs once when the component joins an active Actor.
type Initializer interface {
	Initialize()
}

// Updater advances per-frame state.
type Updater interface {
	Update(dt float32)
}

// Destroyer releases resources when the component is removed.
type Destroyer interface {
	Destroy()
}

var componentIDCounter atomic.Uint64

// baseComponent carries the state every component shares.
// Embed it in concrete component types.
type baseComponent struct {
	id      uint64
	owner   *Actor
	enabled bool
}

func newBaseComponent() baseComponent {
	return baseComponent{
		id:      componentIDCounter.Add(1),
		enabled: true,
	}
}

func (b *baseComponent) ID() uint64              { return b.id }
func (b *baseComponent) Owner() *Actor           { return b.owner }
func (b *baseComponent) Enabled() bool           { return b.enabled }
func (b *baseComponent) SetEnabled(enabled bool) { b.enabled = enabled }
func (b *baseComponent) setOwner(a *Actor)       { b.owner = a }
