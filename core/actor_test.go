package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewActorHasTransform(t *testing.T) {
	a := NewActor("thing")
	if a.Transform() == nil {
		t.Fatal("every actor must carry a transform")
	}
	if !a.Active() {
		t.Error("new actors start active")
	}
	if a.ID() == 0 {
		t.Error("actor ID must be nonzero")
	}
}

func TestActorIDsUnique(t *testing.T) {
	seen := make(map[ActorID]bool)
	for i := 0; i < 100; i++ {
		a := NewActor("a")
		if seen[a.ID()] {
			t.Fatalf("duplicate actor ID %d", a.ID())
		}
		seen[a.ID()] = true
	}
}

func TestAddComponentReplacesSameKind(t *testing.T) {
	a := NewActor("a")
	m1 := NewMeshComponent()
	m2 := NewMeshComponent()

	a.AddComponent(m1)
	a.AddComponent(m2)

	if a.Mesh() != m2 {
		t.Error("second mesh should replace the first")
	}
	if m1.Owner() != nil {
		t.Error("replaced component should lose its owner")
	}
	if m2.Owner() != a {
		t.Error("current component owner should be the actor")
	}

	count := 0
	for _, c := range a.Components() {
		if c.Kind() == KindMesh {
			count++
		}
	}
	if count != 1 {
		t.Errorf("actor should carry exactly one mesh, has %d", count)
	}
}

func TestRemoveComponent(t *testing.T) {
	a := NewActor("a")
	m := NewMeshComponent()
	m.SetModel(&Model{Name: "m"})
	a.AddComponent(m)

	if !a.RemoveComponent(KindMesh) {
		t.Fatal("remove should succeed")
	}
	if a.Mesh() != nil || a.HasComponent(KindMesh) {
		t.Error("mesh should be gone")
	}
	if m.Model() != nil {
		t.Error("Destroy should have dropped the model reference")
	}
	if a.RemoveComponent(KindMesh) {
		t.Error("second remove should report absent")
	}
}

func TestTransformCannotBeRemoved(t *testing.T) {
	s := NewScene("s")
	a := s.CreateActor("a")
	light := NewLightComponent()
	a.AddComponent(light)

	if a.RemoveComponent(KindTransform) {
		t.Fatal("transform removal must be refused")
	}
	if a.Transform() == nil {
		t.Fatal("transform must survive the removal attempt")
	}

	// The light-gathering walk reads every actor's world matrix; it must
	// still be safe after the refused removal.
	gathered := s.GatherLights()
	if len(gathered) != 1 {
		t.Errorf("expected 1 light, got %d", len(gathered))
	}
}

func TestReplacementTransformInheritsLinks(t *testing.T) {
	p := NewActor("parent")
	a := NewActor("a")
	c := NewActor("child")
	if err := a.SetParent(p); err != nil {
		t.Fatal(err)
	}
	if err := c.SetParent(a); err != nil {
		t.Fatal(err)
	}

	old := a.Transform()
	fresh := NewTransformComponent()
	a.AddComponent(fresh)

	if a.Transform() != fresh {
		t.Fatal("replacement transform should be current")
	}
	if fresh.Parent() != p.Transform() {
		t.Error("replacement must inherit the old transform's parent")
	}
	if c.Transform().Parent() != fresh {
		t.Error("children must move under the replacement transform")
	}
	if old.Parent() != nil || len(old.Children()) != 0 {
		t.Error("replaced transform must leave the hierarchy")
	}

	count := 0
	for _, comp := range a.Components() {
		if comp.Kind() == KindTransform {
			count++
		}
	}
	if count != 1 {
		t.Errorf("actor should carry exactly one transform, has %d", count)
	}
}

func TestActorParentChildConsistency(t *testing.T) {
	// After every SetParent call, child lists and parent pointers
	// must agree and transforms must mirror the actor hierarchy.
	p := NewActor("parent")
	c := NewActor("child")

	if err := c.SetParent(p); err != nil {
		t.Fatal(err)
	}
	if c.Parent() != p {
		t.Error("child parent pointer wrong")
	}
	if len(p.Children()) != 1 || p.Children()[0] != c {
		t.Error("parent child list wrong")
	}
	if c.Transform().Parent() != p.Transform() {
		t.Error("transform parent must mirror actor parent")
	}

	if err := c.SetParent(nil); err != nil {
		t.Fatal(err)
	}
	if c.Parent() != nil || len(p.Children()) != 0 {
		t.Error("detach left stale links")
	}
	if c.Transform().Parent() != nil {
		t.Error("transform parent must clear on detach")
	}
}

func TestActorSetParentRejectsCycles(t *testing.T) {
	a := NewActor("a")
	b := NewActor("b")
	c := NewActor("c")
	if err := b.SetParent(a); err != nil {
		t.Fatal(err)
	}
	if err := c.SetParent(b); err != nil {
		t.Fatal(err)
	}

	if err := a.SetParent(c); err != ErrActorCycle {
		t.Errorf("descendant parenting should fail, got %v", err)
	}
	if err := a.SetParent(a); err != ErrActorCycle {
		t.Errorf("self parenting should fail, got %v", err)
	}
	// Failed reparent must not disturb the existing links.
	if b.Parent() != a || c.Parent() != b {
		t.Error("rejected reparent corrupted the hierarchy")
	}
}

func TestActorWorldFollowsParent(t *testing.T) {
	p := NewActor("parent")
	c := NewActor("child")
	if err := c.SetParent(p); err != nil {
		t.Fatal(err)
	}

	p.Transform().SetPosition(mgl32.Vec3{3, 0, 0})
	c.Transform().SetPosition(mgl32.Vec3{0, 4, 0})

	got := c.Transform().WorldPosition()
	want := mgl32.Vec3{3, 4, 0}
	if got.Sub(want).Len() > 1e-5 {
		t.Errorf("child world position: got %v, want %v", got, want)
	}
}

type tickComponent struct {
	baseComponent
	ticks int
	dt    float32
}

func (c *tickComponent) Kind() ComponentKind { return KindPhysics }
func (c *tickComponent) Update(dt float32) {
	c.ticks++
	c.dt = dt
}

func TestUpdateSkipsInactiveAndDisabled(t *testing.T) {
	a := NewActor("a")
	tc := &tickComponent{baseComponent: newBaseComponent()}
	a.AddComponent(tc)

	a.Update(0.016)
	if tc.ticks != 1 {
		t.Fatalf("component should tick once, got %d", tc.ticks)
	}

	tc.SetEnabled(false)
	a.Update(0.016)
	if tc.ticks != 1 {
		t.Error("disabled component must not tick")
	}

	tc.SetEnabled(true)
	a.SetActive(false)
	a.Update(0.016)
	if tc.ticks != 1 {
		t.Error("inactive actor must not tick components")
	}
}

func TestUpdateRecursesChildren(t *testing.T) {
	p := NewActor("p")
	c := NewActor("c")
	if err := c.SetParent(p); err != nil {
		t.Fatal(err)
	}
	tc := &tickComponent{baseComponent: newBaseComponent()}
	c.AddComponent(tc)

	p.Update(0.02)
	if tc.ticks != 1 {
		t.Errorf("child component should tick via parent update, got %d", tc.ticks)
	}
	if tc.dt != 0.02 {
		t.Errorf("dt not forwarded: %v", tc.dt)
	}
}

func TestDestroyDetachesEverything(t *testing.T) {
	p := NewActor("p")
	a := NewActor("a")
	c := NewActor("c")
	if err := a.SetParent(p); err != nil {
		t.Fatal(err)
	}
	if err := c.SetParent(a); err != nil {
		t.Fatal(err)
	}
	m := NewMeshComponent()
	m.SetModel(&Model{})
	a.AddComponent(m)

	a.Destroy()

	if len(p.Children()) != 0 {
		t.Error("destroyed actor should leave its parent's child list")
	}
	if c.Parent() != nil {
		t.Error("children of a destroyed actor detach, they are not destroyed")
	}
	if len(a.Components()) != 0 {
		t.Error("components should be cleared")
	}
	if m.Model() != nil {
		t.Error("mesh component should be destroyed")
	}
}

func TestMetadataLazyInit(t *testing.T) {
	a := NewActor("a")
	a.Metadata()["layer"] = "background"
	if a.Metadata()["layer"] != "background" {
		t.Error("metadata should persist")
	}
}
