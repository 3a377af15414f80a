package gpu

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestGizmoBuilderAxes(t *testing.T) {
	var g GizmoBuilder
	g.AddAxes(2)

	verts := g.Vertices()
	assert.Len(t, verts, 6, "three axes, two vertices each")
	assert.Equal(t, [3]float32{2, 0, 0}, verts[1].Pos)
	assert.Equal(t, [3]float32{0, 2, 0}, verts[3].Pos)
	assert.Equal(t, [3]float32{0, 0, 2}, verts[5].Pos)
}

func TestGizmoBuilderReset(t *testing.T) {
	var g GizmoBuilder
	g.AddAxes(1)
	g.Reset()
	assert.Empty(t, g.Vertices())

	g.AddLine(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, [3]float32{1, 1, 1})
	assert.Len(t, g.Vertices(), 2)
}

func TestGizmoBuilderGridCounts(t *testing.T) {
	var g GizmoBuilder
	g.AddGrid(2, 1)

	// spacing 1, halfExtent 2: d in {1, 2} gives 4 lines each, plus the
	// two center lines. 10 lines, 20 vertices.
	assert.Len(t, g.Vertices(), 20)
}

func TestGizmoBuilderBoxTransforms(t *testing.T) {
	var g GizmoBuilder
	model := mgl32.Translate3D(10, 0, 0)
	g.AddBox(model, mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}, [3]float32{1, 0.5, 0})

	verts := g.Vertices()
	assert.Len(t, verts, 24, "12 edges")
	for _, v := range verts {
		assert.GreaterOrEqual(t, v.Pos[0], float32(9))
		assert.LessOrEqual(t, v.Pos[0], float32(11))
	}
}
