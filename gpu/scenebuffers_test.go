package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prism3d/prism/assets"
	"github.com/prism3d/prism/core"
)

func addCube(s *core.Scene, name string) *core.Actor {
	a := s.CreateActor(name)
	mc := core.NewMeshComponent()
	mc.SetModel(assets.CubeModel(1))
	a.AddComponent(mc)
	return a
}

func TestRebuildTwoCubes(t *testing.T) {
	s := core.NewScene("cubes")
	c1 := addCube(s, "Cube1")
	c2 := addCube(s, "Cube2")

	sb := NewSceneBuffers()
	sb.Rebuild(s)

	assert.Equal(t, 48, sb.VertexCount())
	assert.Equal(t, 72, sb.IndexCount())

	i1, ok := sb.Lookup(c1.ID())
	require.True(t, ok)
	assert.Equal(t, MeshBufferInfo{VertexOffset: 0, IndexOffset: 0, IndexCount: 36}, i1)

	i2, ok := sb.Lookup(c2.ID())
	require.True(t, ok)
	assert.Equal(t, MeshBufferInfo{VertexOffset: 24, IndexOffset: 36, IndexCount: 36}, i2)
}

func TestRebuildAfterRemovalShiftsOffsets(t *testing.T) {
	s := core.NewScene("cubes")
	c1 := addCube(s, "Cube1")
	c2 := addCube(s, "Cube2")

	sb := NewSceneBuffers()
	sb.Rebuild(s)

	require.True(t, s.RemoveActor(c1.ID()))
	sb.Rebuild(s)

	assert.Equal(t, 24, sb.VertexCount())
	assert.Equal(t, 36, sb.IndexCount())

	_, ok := sb.Lookup(c1.ID())
	assert.False(t, ok, "removed actor must leave the offset map")

	i2, ok := sb.Lookup(c2.ID())
	require.True(t, ok)
	assert.Equal(t, MeshBufferInfo{VertexOffset: 0, IndexOffset: 0, IndexCount: 36}, i2,
		"survivor must shift to the front of the combined buffers")
}

func TestRebuildRebasesIndices(t *testing.T) {
	s := core.NewScene("rebase")
	addCube(s, "Cube1")
	c2 := addCube(s, "Cube2")

	sb := NewSceneBuffers()
	sb.Rebuild(s)

	// Every index of the second cube must address the second cube's
	// vertex range, shifted by its vertex offset.
	i2, _ := sb.Lookup(c2.ID())
	model := c2.Mesh().Model()
	for k, idx := range sb.Indices()[i2.IndexOffset : i2.IndexOffset+i2.IndexCount] {
		assert.Equal(t, model.Indices[k]+i2.VertexOffset, idx)
		assert.GreaterOrEqual(t, idx, i2.VertexOffset)
		assert.Less(t, int(idx), sb.VertexCount())
	}

	// Vertices are copied verbatim.
	assert.Equal(t, model.Vertices[0], sb.Vertices()[i2.VertexOffset])
}

func TestRebuildTotalsMatchSums(t *testing.T) {
	s := core.NewScene("sums")
	addCube(s, "a")
	sp := s.CreateActor("sphere")
	mc := core.NewMeshComponent()
	mc.SetModel(assets.SphereModel(1, 8, 12))
	sp.AddComponent(mc)

	sb := NewSceneBuffers()
	sb.Rebuild(s)

	wantV, wantI := 0, 0
	for _, a := range s.ActorsInOrder() {
		m := a.Mesh().Model()
		wantV += m.VertexCount()
		wantI += m.IndexCount()
	}
	assert.Equal(t, wantV, sb.VertexCount())
	assert.Equal(t, wantI, sb.IndexCount())
	assert.Len(t, sb.Indices(), wantI)
	assert.Len(t, sb.Vertices(), wantV)
}

func TestRebuildEmptySceneIsValid(t *testing.T) {
	s := core.NewScene("empty")
	sb := NewSceneBuffers()
	sb.Rebuild(s)

	assert.True(t, sb.Empty())
	assert.Equal(t, 0, sb.VertexCount())
	assert.Empty(t, sb.DrawOrder())
}

func TestRebuildDeterministic(t *testing.T) {
	s := core.NewScene("det")
	ids := make([]core.ActorID, 0, 8)
	for i := 0; i < 8; i++ {
		ids = append(ids, addCube(s, "c").ID())
	}

	sb := NewSceneBuffers()
	sb.Rebuild(s)
	first := make(map[core.ActorID]MeshBufferInfo)
	for _, id := range ids {
		info, ok := sb.Lookup(id)
		require.True(t, ok)
		first[id] = info
	}
	firstOrder := append([]core.ActorID(nil), sb.DrawOrder()...)

	// Unchanged scene, repeated rebuilds: identical layout every time.
	for n := 0; n < 5; n++ {
		sb.Rebuild(s)
		assert.Equal(t, firstOrder, sb.DrawOrder())
		for _, id := range ids {
			info, _ := sb.Lookup(id)
			assert.Equal(t, first[id], info)
		}
	}
}

func TestRebuildSkipsHiddenAndInactive(t *testing.T) {
	s := core.NewScene("vis")
	shown := addCube(s, "shown")
	hidden := addCube(s, "hidden")
	hidden.Mesh().SetVisible(false)
	inactive := addCube(s, "inactive")
	inactive.SetActive(false)
	bare := s.CreateActor("no-mesh")
	empty := s.CreateActor("empty-model")
	emc := core.NewMeshComponent()
	emc.SetModel(&core.Model{Name: "empty"})
	empty.AddComponent(emc)

	sb := NewSceneBuffers()
	sb.Rebuild(s)

	assert.Equal(t, 24, sb.VertexCount())
	assert.Equal(t, 36, sb.IndexCount())

	_, ok := sb.Lookup(shown.ID())
	assert.True(t, ok)
	for _, a := range []*core.Actor{hidden, inactive, bare, empty} {
		_, ok := sb.Lookup(a.ID())
		assert.False(t, ok, "%s must not contribute geometry", a.Name())
	}
}

func TestRebuildPicksUpVisibilityToggle(t *testing.T) {
	s := core.NewScene("toggle")
	c := addCube(s, "cube")

	sb := NewSceneBuffers()
	sb.Rebuild(s)
	assert.Equal(t, 24, sb.VertexCount())

	c.Mesh().SetVisible(false)
	sb.Rebuild(s)
	assert.True(t, sb.Empty())

	c.Mesh().SetVisible(true)
	sb.Rebuild(s)
	assert.Equal(t, 24, sb.VertexCount())
}

func TestSyncSceneRequiresScene(t *testing.T) {
	r := &Renderer{buffers: NewSceneBuffers()}
	assert.ErrorIs(t, r.SyncScene(nil), ErrNoScene)
}
