package core

import (
	"errors"
	"sync/atomic"
)

// ActorID identifies an Actor for the lifetime of the process.
// IDs are never reused; the gpu layer keys its offset map on them.
type ActorID uint64

var actorIDCounter atomic.Uint64

// ErrActorCycle is returned when SetParent would parent an actor to
// itself or to one of its own descendants.
var ErrActorCycle = errors.New("actor parent would create a cycle")

// Actor is a named, identified node in the scene tree. It owns its
// components; the Scene owns actor lifetimes, so parent/child links
// between actors are plain references.
type Actor struct {
	id       ActorID
	name     string
	active   bool
	scene    *Scene
	parent   *Actor
	children []*Actor

	components []Component
	byKind     [kindCount]Component

	metadata map[string]string
}

// NewActor creates a detached actor with a fresh ID and an identity
// TransformComponent. Every actor has exactly one transform; it cannot
// be removed.
func NewActor(name string) *Actor {
	a := &Actor{
		id:     ActorID(actorIDCounter.Add(1)),
		name:   name,
		active: true,
	}
	a.AddComponent(NewTransformComponent())
	return a
}

func (a *Actor) ID() ActorID   { return a.id }
func (a *Actor) Name() string  { return a.name }
func (a *Actor) Active() bool  { return a.active }
func (a *Actor) Scene() *Scene { return a.scene }

// SetName renames the actor and keeps the scene's name index current.
func (a *Actor) SetName(name string) {
	if a.scene != nil {
		a.scene.renameActor(a, name)
	}
	a.name = name
}

// SetActive toggles whether update/render walks visit this actor.
func (a *Actor) SetActive(active bool) { a.active = active }

// Metadata returns the actor's string metadata map, creating it lazily.
func (a *Actor) Metadata() map[string]string {
	if a.metadata == nil {
		a.metadata = make(map[string]string)
	}
	return a.metadata
}

// Component management

// AddComponent attaches c, replacing any existing component of the same
// kind. A replacement transform inherits the old one's place in the
// hierarchy so the actor tree and transform tree stay mirrored. If the
// actor is active the component is initialized immediately; the owning
// scene (if any) is notified afterwards.
func (a *Actor) AddComponent(c Component) Component {
	prev := a.byKind[c.Kind()]
	if prev != nil {
		a.removeComponent(c.Kind())
	}

	c.setOwner(a)
	a.components = append(a.components, c)
	a.byKind[c.Kind()] = c

	if prev != nil && c.Kind() == KindTransform {
		oldTr := prev.(*TransformComponent)
		newTr := c.(*TransformComponent)
		_ = newTr.SetParent(oldTr.Parent())
		for _, child := range append([]*TransformComponent(nil), oldTr.Children()...) {
			_ = child.SetParent(newTr)
		}
		_ = oldTr.SetParent(nil)
	}

	if a.active {
		if init, ok := c.(Initializer); ok {
			init.Initialize()
		}
	}
	a.onComponentAdded(c)
	return c
}

// GetComponent returns the component of the given kind, nil if absent.
func (a *Actor) GetComponent(kind ComponentKind) Component {
	return a.byKind[kind]
}

// HasComponent reports whether a component of the given kind exists.
func (a *Actor) HasComponent(kind ComponentKind) bool {
	return a.byKind[kind] != nil
}

// RemoveComponent detaches and destroys the component of the given
// kind. Returns false if absent. Every actor keeps exactly one
// transform, so removing it is refused; replacement via AddComponent
// is allowed.
func (a *Actor) RemoveComponent(kind ComponentKind) bool {
	if kind == KindTransform {
		return false
	}
	return a.removeComponent(kind)
}

func (a *Actor) removeComponent(kind ComponentKind) bool {
	c := a.byKind[kind]
	if c == nil {
		return false
	}

	a.byKind[kind] = nil
	for i, comp := range a.components {
		if comp == c {
			a.components = append(a.components[:i], a.components[i+1:]...)
			break
		}
	}

	if d, ok := c.(Destroyer); ok {
		d.Destroy()
	}
	c.setOwner(nil)
	a.onComponentRemoved(c)
	return true
}

// Components returns the attached components in attach order.
// Callers must not mutate the slice.
func (a *Actor) Components() []Component { return a.components }

// Typed accessors for the fixed component kinds.

func (a *Actor) Transform() *TransformComponent {
	if c := a.byKind[KindTransform]; c != nil {
		return c.(*TransformComponent)
	}
	return nil
}

func (a *Actor) Mesh() *MeshComponent {
	if c := a.byKind[KindMesh]; c != nil {
		return c.(*MeshComponent)
	}
	return nil
}

func (a *Actor) Light() *LightComponent {
	if c := a.byKind[KindLight]; c != nil {
		return c.(*LightComponent)
	}
	return nil
}

func (a *Actor) Material() *MaterialComponent {
	if c := a.byKind[KindMaterial]; c != nil {
		return c.(*MaterialComponent)
	}
	return nil
}

func (a *Actor) Physics() *PhysicsComponent {
	if c := a.byKind[KindPhysics]; c != nil {
		return c.(*PhysicsComponent)
	}
	return nil
}

// Hierarchy

func (a *Actor) Parent() *Actor { return a.parent }

// Children returns the child list. Callers must not mutate it.
func (a *Actor) Children() []*Actor { return a.children }

// SetParent reparents the actor. No-op if the parent is unchanged.
// Parenting to self or to a descendant is rejected. The actor's
// transform parent mirrors the actor parent.
func (a *Actor) SetParent(parent *Actor) error {
	if a.parent == parent {
		return nil
	}
	if parent == a {
		return ErrActorCycle
	}
	for p := parent; p != nil; p = p.parent {
		if p == a {
			return ErrActorCycle
		}
	}

	if a.parent != nil {
		a.parent.RemoveChild(a)
	}
	if parent != nil {
		parent.attachChild(a)
	}

	if tr := a.Transform(); tr != nil {
		var parentTr *TransformComponent
		if parent != nil {
			parentTr = parent.Transform()
		}
		if err := tr.SetParent(parentTr); err != nil {
			return err
		}
	}
	return nil
}

// AddChild attaches child under this actor; equivalent to
// child.SetParent(a).
func (a *Actor) AddChild(child *Actor) error {
	if child == nil {
		return nil
	}
	return child.SetParent(a)
}

func (a *Actor) attachChild(child *Actor) {
	child.parent = a
	a.children = append(a.children, child)
}

// RemoveChild detaches child from this actor's child list. The child's
// parent pointer is cleared only if it still points back here, so a
// child that was already reparented elsewhere is left untouched.
func (a *Actor) RemoveChild(child *Actor) {
	for i, c := range a.children {
		if c == child {
			a.children = append(a.children[:i], a.children[i+1:]...)
			break
		}
	}
	if child.parent == a {
		child.parent = nil
		if tr := child.Transform(); tr != nil {
			_ = tr.SetParent(nil)
		}
	}
}

// Scene membership

// SetScene moves the actor (and recursively its children) between
// scenes. Leaving a scene unregisters every component from it; entering
// registers them. No-op if unchanged.
func (a *Actor) SetScene(scene *Scene) {
	if a.scene == scene {
		return
	}

	if a.scene != nil {
		a.onRemovedFromScene()
	}
	a.scene = scene
	if scene != nil {
		a.onAddedToScene()
	}
}

func (a *Actor) onAddedToScene() {
	for _, c := range a.components {
		a.scene.onComponentRegistered(a, c)
	}
	for _, child := range a.children {
		child.SetScene(a.scene)
	}
}

func (a *Actor) onRemovedFromScene() {
	old := a.scene
	for _, c := range a.components {
		old.onComponentUnregistered(a, c)
	}
	for _, child := range a.children {
		child.SetScene(nil)
	}
}

func (a *Actor) onComponentAdded(c Component) {
	if a.scene != nil {
		a.scene.onComponentRegistered(a, c)
	}
}

func (a *Actor) onComponentRemoved(c Component) {
	if a.scene != nil {
		a.scene.onComponentUnregistered(a, c)
	}
}

// Lifecycle

// Update advances components and children. Inactive actors and disabled
// components are skipped.
func (a *Actor) Update(dt float32) {
	if !a.active {
		return
	}
	for _, c := range a.components {
		if !c.Enabled() {
			continue
		}
		if u, ok := c.(Updater); ok {
			u.Update(dt)
		}
	}
	for _, child := range a.children {
		child.Update(dt)
	}
}

// Destroy tears the actor down: children detach first (their removal
// logic runs while this actor is still intact), then the actor detaches
// from its own parent, then components are destroyed. Scene-side
// bookkeeping (maps, events) belongs to Scene.RemoveActor, not here.
func (a *Actor) Destroy() {
	for len(a.children) > 0 {
		a.RemoveChild(a.children[len(a.children)-1])
	}
	if a.parent != nil {
		a.parent.RemoveChild(a)
	}

	for _, c := range a.components {
		if d, ok := c.(Destroyer); ok {
			d.Destroy()
		}
		c.setOwner(nil)
	}
	a.components = nil
	a.byKind = [kindCount]Component{}
	a.scene = nil
}
