package core

import (
	"strings"
)

// SceneDescriptor carries scene-level metadata persisted with the file.
type SceneDescriptor struct {
	Name         string
	Version      string
	Tags         []string
	CreatedBy    string
	LastModified string
	Metadata     map[string]string
}

// EventKind tags a deferred scene notification.
type EventKind int

const (
	EventActorAdded EventKind = iota
	EventActorRemoved
	EventMeshAdded
	EventMeshRemoved
	EventMeshChanged
)

// Event records a scene mutation for interested parties (the buffer
// synchronizer, editor panels). Events are queued at mutation time and
// drained once per frame, never delivered re-entrantly.
type Event struct {
	Kind  EventKind
	Actor ActorID
}

// ChangeOp tags an entry in the scene change list.
type ChangeOp int

const (
	ChangeAddActor ChangeOp = iota
	ChangeRemoveActor
	ChangeRenameActor
)

// Change is one entry of the scene's change list. Content fidelity is
// best-effort; the list exists so the editor can show a history and
// mark unsaved scenes.
type Change struct {
	Op    ChangeOp
	Actor ActorID
	Name  string
}

// Scene owns the set of actors, keyed by ID and (non-unique) name, and
// tracks whether the GPU-side combined buffers are stale.
//
// All mutation happens on the single render thread; the maps carry no
// locking. Mutating actors while a frame is being recorded is not safe.
type Scene struct {
	descriptor   SceneDescriptor
	actors       map[ActorID]*Actor
	actorsByName map[string]*Actor
	order        []ActorID
	root         *Actor

	modified bool
	events   []Event
	changes  []Change
}

// NewScene creates an empty scene with a root anchor node. The root is
// not registered in the actor maps; it exists for editor tree display.
func NewScene(name string) *Scene {
	s := &Scene{
		descriptor: SceneDescriptor{
			Name:    name,
			Version: "1.0",
		},
		actors:       make(map[ActorID]*Actor),
		actorsByName: make(map[string]*Actor),
	}
	s.root = NewActor("Root")
	return s
}

func (s *Scene) Name() string                 { return s.descriptor.Name }
func (s *Scene) SetName(name string)          { s.descriptor.Name = name }
func (s *Scene) Descriptor() *SceneDescriptor { return &s.descriptor }
func (s *Scene) Root() *Actor                 { return s.root }

// CreateActor constructs a new actor and registers it with the scene.
func (s *Scene) CreateActor(name string) *Actor {
	a := NewActor(name)
	s.AddActor(a)
	return a
}

// AddActor registers an existing actor (e.g. one built by the
// deserializer). No-op if already present.
func (s *Scene) AddActor(a *Actor) {
	if a == nil {
		return
	}
	if _, ok := s.actors[a.id]; ok {
		return
	}

	s.actors[a.id] = a
	s.actorsByName[a.name] = a
	s.order = append(s.order, a.id)
	a.SetScene(s)

	s.modified = true
	s.events = append(s.events, Event{Kind: EventActorAdded, Actor: a.id})
	s.changes = append(s.changes, Change{Op: ChangeAddActor, Actor: a.id, Name: a.name})
}

// RemoveActor removes the actor with the given ID. Its children survive
// in the scene as roots; only the removed actor leaves. Returns false
// if the ID is unknown.
func (s *Scene) RemoveActor(id ActorID) bool {
	a, ok := s.actors[id]
	if !ok {
		return false
	}

	for len(a.children) > 0 {
		child := a.children[len(a.children)-1]
		_ = child.SetParent(nil)
	}

	delete(s.actors, id)
	if cur, ok := s.actorsByName[a.name]; ok && cur == a {
		delete(s.actorsByName, a.name)
	}
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	a.SetScene(nil)
	a.Destroy()

	s.modified = true
	s.events = append(s.events, Event{Kind: EventActorRemoved, Actor: id})
	s.changes = append(s.changes, Change{Op: ChangeRemoveActor, Actor: id, Name: a.name})
	return true
}

// RemoveActorByName removes the first actor with the given name.
func (s *Scene) RemoveActorByName(name string) bool {
	a, ok := s.actorsByName[name]
	if !ok {
		return false
	}
	return s.RemoveActor(a.id)
}

// RemoveAllActors empties the scene.
func (s *Scene) RemoveAllActors() {
	for len(s.order) > 0 {
		s.RemoveActor(s.order[len(s.order)-1])
	}
}

// FindActor returns the actor with the given name, nil if absent.
// Names are not guaranteed unique; this returns the last registered.
func (s *Scene) FindActor(name string) *Actor {
	return s.actorsByName[name]
}

// FindActorByID returns the actor with the given ID, nil if absent.
func (s *Scene) FindActorByID(id ActorID) *Actor {
	return s.actors[id]
}

// FindActorsByName returns every actor whose name contains the given
// substring, in scene order.
func (s *Scene) FindActorsByName(partial string) []*Actor {
	var res []*Actor
	for _, a := range s.ActorsInOrder() {
		if strings.Contains(a.name, partial) {
			res = append(res, a)
		}
	}
	return res
}

// AllActors returns the ID-keyed actor map. Callers must not mutate it.
func (s *Scene) AllActors() map[ActorID]*Actor { return s.actors }

// ActorCount returns the number of registered actors.
func (s *Scene) ActorCount() int { return len(s.actors) }

// ActorsInOrder returns actors in registration order. This ordering is
// deterministic and drives both combine order and draw order; map
// iteration must never leak into either.
func (s *Scene) ActorsInOrder() []*Actor {
	res := make([]*Actor, 0, len(s.order))
	for _, id := range s.order {
		if a, ok := s.actors[id]; ok {
			res = append(res, a)
		}
	}
	return res
}

// Update advances root actors; Actor.Update recurses into children.
func (s *Scene) Update(dt float32) {
	for _, a := range s.ActorsInOrder() {
		if a.parent == nil {
			a.Update(dt)
		}
	}
}

// Modified reports whether the combined GPU buffers are stale relative
// to the scene content.
func (s *Scene) Modified() bool { return s.modified }

// MarkModified flags the scene for a buffer resync.
func (s *Scene) MarkModified() { s.modified = true }

// ClearModified is called by the synchronizer after a successful
// rebuild+upload.
func (s *Scene) ClearModified() { s.modified = false }

// DrainEvents returns the queued events and clears the queue.
func (s *Scene) DrainEvents() []Event {
	ev := s.events
	s.events = nil
	return ev
}

// Changes returns the change list accumulated since the last Clear.
func (s *Scene) Changes() []Change { return s.changes }

// ClearChanges resets the change list, typically after a save.
func (s *Scene) ClearChanges() { s.changes = nil }

// Component registration callbacks, invoked from Actor. Only queued;
// nothing here calls back into the actor mid-mutation.

func (s *Scene) onComponentRegistered(a *Actor, c Component) {
	if c.Kind() == KindMesh {
		s.modified = true
		s.events = append(s.events, Event{Kind: EventMeshAdded, Actor: a.id})
	}
}

func (s *Scene) onComponentUnregistered(a *Actor, c Component) {
	if c.Kind() == KindMesh {
		s.modified = true
		s.events = append(s.events, Event{Kind: EventMeshRemoved, Actor: a.id})
	}
}

func (s *Scene) onMeshChanged(a *Actor) {
	s.modified = true
	s.events = append(s.events, Event{Kind: EventMeshChanged, Actor: a.id})
}

func (s *Scene) renameActor(a *Actor, newName string) {
	if cur, ok := s.actorsByName[a.name]; ok && cur == a {
		delete(s.actorsByName, a.name)
	}
	s.actorsByName[newName] = a
	s.changes = append(s.changes, Change{Op: ChangeRenameActor, Actor: a.id, Name: newName})
}

// GatherLights walks all active actors and returns GPU light records,
// positions and directions taken from each actor's transform.
func (s *Scene) GatherLights() []GPULight {
	var lights []GPULight
	for _, a := range s.ActorsInOrder() {
		if !a.active {
			continue
		}
		lc := a.Light()
		if lc == nil || !lc.Enabled() {
			continue
		}
		tr := a.Transform()
		pos := tr.WorldPosition()
		dir := tr.Forward()

		var coneCos float32
		if lc.Type == LightSpot {
			coneCos = cos32(lc.ConeAngle)
		}
		lights = append(lights, GPULight{
			Position:  [4]float32{pos.X(), pos.Y(), pos.Z(), 0},
			Direction: [4]float32{dir.X(), dir.Y(), dir.Z(), 0},
			Color:     [4]float32{lc.Color.X(), lc.Color.Y(), lc.Color.Z(), lc.Intensity},
			Params:    [4]float32{lc.Range, coneCos, float32(lc.Type), 0},
		})
	}
	return lights
}
