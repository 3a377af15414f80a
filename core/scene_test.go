package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSceneCreateAndFind(t *testing.T) {
	s := NewScene("test")
	a := s.CreateActor("cube")

	if s.ActorCount() != 1 {
		t.Fatalf("count: got %d, want 1", s.ActorCount())
	}
	if s.FindActor("cube") != a {
		t.Error("FindActor by name failed")
	}
	if s.FindActorByID(a.ID()) != a {
		t.Error("FindActorByID failed")
	}
	if a.Scene() != s {
		t.Error("actor scene pointer not set")
	}
}

func TestSceneRemoveActor(t *testing.T) {
	s := NewScene("test")
	a := s.CreateActor("cube")

	if !s.RemoveActor(a.ID()) {
		t.Fatal("remove should succeed")
	}
	if s.ActorCount() != 0 {
		t.Error("actor still registered")
	}
	if s.FindActor("cube") != nil {
		t.Error("name index still holds the actor")
	}
	if s.RemoveActor(a.ID()) {
		t.Error("removing an unknown ID should report false")
	}
}

func TestSceneRemoveKeepsChildrenAsRoots(t *testing.T) {
	s := NewScene("test")
	p := s.CreateActor("parent")
	c := s.CreateActor("child")
	if err := c.SetParent(p); err != nil {
		t.Fatal(err)
	}

	if !s.RemoveActor(p.ID()) {
		t.Fatal("remove failed")
	}
	if s.FindActorByID(c.ID()) != c {
		t.Error("child must survive its parent's removal")
	}
	if c.Parent() != nil {
		t.Error("surviving child should be a root")
	}
	if c.Scene() != s {
		t.Error("surviving child should stay in the scene")
	}
}

func TestSceneOrderIsDeterministic(t *testing.T) {
	s := NewScene("test")
	names := []string{"a", "b", "c", "d", "e"}
	for _, n := range names {
		s.CreateActor(n)
	}
	s.RemoveActorByName("c")

	got := s.ActorsInOrder()
	want := []string{"a", "b", "d", "e"}
	if len(got) != len(want) {
		t.Fatalf("len: got %d, want %d", len(got), len(want))
	}
	for i, a := range got {
		if a.Name() != want[i] {
			t.Errorf("order[%d]: got %q, want %q", i, a.Name(), want[i])
		}
	}
}

func TestSceneModifiedFlag(t *testing.T) {
	s := NewScene("test")
	s.ClearModified()

	a := s.CreateActor("cube")
	if !s.Modified() {
		t.Error("adding an actor should mark the scene modified")
	}
	s.ClearModified()

	m := NewMeshComponent()
	a.AddComponent(m)
	if !s.Modified() {
		t.Error("attaching a mesh should mark the scene modified")
	}
	s.ClearModified()

	m.SetModel(&Model{Name: "m"})
	if !s.Modified() {
		t.Error("swapping a model should mark the scene modified")
	}
	s.ClearModified()

	m.SetVisible(false)
	if !s.Modified() {
		t.Error("visibility change should mark the scene modified")
	}
	s.ClearModified()

	m.SetVisible(false)
	if s.Modified() {
		t.Error("visibility no-op must not dirty the scene")
	}
}

func TestSceneEventsDeferred(t *testing.T) {
	s := NewScene("test")
	a := s.CreateActor("cube")
	a.AddComponent(NewMeshComponent())
	s.RemoveActor(a.ID())

	ev := s.DrainEvents()
	kinds := make([]EventKind, len(ev))
	for i, e := range ev {
		kinds[i] = e.Kind
	}
	want := []EventKind{EventActorAdded, EventMeshAdded, EventMeshRemoved, EventActorRemoved}
	if len(kinds) != len(want) {
		t.Fatalf("events: got %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("events: got %v, want %v", kinds, want)
		}
	}

	if len(s.DrainEvents()) != 0 {
		t.Error("drain must clear the queue")
	}
}

func TestSceneRename(t *testing.T) {
	s := NewScene("test")
	a := s.CreateActor("old")
	a.SetName("new")

	if s.FindActor("old") != nil {
		t.Error("old name still resolves")
	}
	if s.FindActor("new") != a {
		t.Error("new name does not resolve")
	}
}

func TestFindActorsByName(t *testing.T) {
	s := NewScene("test")
	s.CreateActor("Cube1")
	s.CreateActor("Cube2")
	s.CreateActor("Light")

	cubes := s.FindActorsByName("Cube")
	if len(cubes) != 2 {
		t.Fatalf("got %d matches, want 2", len(cubes))
	}
	if cubes[0].Name() != "Cube1" || cubes[1].Name() != "Cube2" {
		t.Error("matches out of scene order")
	}
}

func TestRemoveAllActors(t *testing.T) {
	s := NewScene("test")
	for i := 0; i < 5; i++ {
		s.CreateActor("a")
	}
	s.RemoveAllActors()
	if s.ActorCount() != 0 {
		t.Errorf("count after clear: %d", s.ActorCount())
	}
}

func TestGatherLights(t *testing.T) {
	s := NewScene("test")

	la := s.CreateActor("sun")
	la.Transform().SetPosition(mgl32.Vec3{0, 10, 0})
	lc := NewLightComponent()
	lc.Type = LightPoint
	lc.Color = mgl32.Vec3{1, 0.9, 0.8}
	lc.Intensity = 2
	la.AddComponent(lc)

	off := s.CreateActor("off")
	dis := NewLightComponent()
	dis.SetEnabled(false)
	off.AddComponent(dis)

	inactive := s.CreateActor("inactive")
	inactive.AddComponent(NewLightComponent())
	inactive.SetActive(false)

	lights := s.GatherLights()
	if len(lights) != 1 {
		t.Fatalf("got %d lights, want 1", len(lights))
	}
	g := lights[0]
	if g.Position != [4]float32{0, 10, 0, 0} {
		t.Errorf("position: %v", g.Position)
	}
	if g.Color != [4]float32{1, 0.9, 0.8, 2} {
		t.Errorf("color/intensity: %v", g.Color)
	}
	if g.Params[2] != float32(LightPoint) {
		t.Errorf("type param: %v", g.Params)
	}
}
