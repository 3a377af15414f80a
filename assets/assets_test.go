package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCubeModelLayout(t *testing.T) {
	m := CubeModel(1)

	assert.Equal(t, 24, m.VertexCount(), "flat-shaded cube needs 4 verts per face")
	assert.Equal(t, 36, m.IndexCount(), "2 triangles per face")

	for _, idx := range m.Indices {
		require.Less(t, int(idx), m.VertexCount())
	}

	minB, maxB := m.AABB()
	assert.InDelta(t, -0.5, minB.X(), 1e-6)
	assert.InDelta(t, 0.5, maxB.Z(), 1e-6)
}

func TestCubeModelScales(t *testing.T) {
	m := CubeModel(4)
	minB, maxB := m.AABB()
	assert.InDelta(t, -2, minB.Y(), 1e-6)
	assert.InDelta(t, 2, maxB.Y(), 1e-6)
}

func TestPlaneModel(t *testing.T) {
	m := PlaneModel(2)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 6, m.IndexCount())
	for _, v := range m.Vertices {
		assert.Equal(t, [3]float32{0, 1, 0}, v.Normal)
	}
}

func TestSphereModelCounts(t *testing.T) {
	stacks, slices := 8, 12
	m := SphereModel(1, stacks, slices)
	assert.Equal(t, (stacks+1)*(slices+1), m.VertexCount())
	assert.Equal(t, stacks*slices*6, m.IndexCount())

	for _, v := range m.Vertices {
		n := v.Normal
		lenSq := n[0]*n[0] + n[1]*n[1] + n[2]*n[2]
		assert.InDelta(t, 1, lenSq, 1e-4, "sphere normals must be unit length")
	}
}

func TestResolvePrimitives(t *testing.T) {
	s := NewServer()

	cube, err := s.Resolve("primitive:cube")
	require.NoError(t, err)
	assert.Equal(t, 24, cube.VertexCount())
	assert.Equal(t, "primitive:cube", cube.Name)

	sized, err := s.Resolve("primitive:cube:2.0")
	require.NoError(t, err)
	_, maxB := sized.AABB()
	assert.InDelta(t, 1, maxB.X(), 1e-6)

	_, err = s.Resolve("primitive:torus")
	assert.Error(t, err)

	_, err = s.Resolve("garbage source")
	assert.Error(t, err)
}

func TestResolveCaches(t *testing.T) {
	s := NewServer()
	a, err := s.Resolve("primitive:sphere")
	require.NoError(t, err)
	b, err := s.Resolve("primitive:sphere")
	require.NoError(t, err)
	assert.Same(t, a, b, "repeated resolves must share the cached model")
}

const testOBJ = `
# quad and a dangling triangle
mtllib missing.mtl
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vn 0 0 1
vt 0 0
vt 1 0
vt 1 1
vt 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
`

func TestParseOBJQuadTriangulation(t *testing.T) {
	m, err := parseOBJ(strings.NewReader(testOBJ), "")
	require.NoError(t, err)

	// A quad fans into two triangles sharing two vertices.
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 6, m.IndexCount())
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices)
	assert.Equal(t, [3]float32{0, 0, 1}, m.Vertices[0].Normal)
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`
	m, err := parseOBJ(strings.NewReader(src), "")
	require.NoError(t, err)
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices)
}

func TestParseOBJErrors(t *testing.T) {
	_, err := parseOBJ(strings.NewReader("f 1 2 3"), "")
	assert.Error(t, err, "face referencing missing vertices must fail")

	_, err = parseOBJ(strings.NewReader("# empty\n"), "")
	assert.Error(t, err, "no geometry is an error")
}

func TestLoadOBJWithMaterial(t *testing.T) {
	dir := t.TempDir()
	mtl := `
newmtl red
Kd 1 0 0
`
	obj := `
mtllib cube.mtl
v 0 0 0
v 1 0 0
v 0 1 0
usemtl red
f 1 2 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cube.mtl"), []byte(mtl), 0o644))
	objPath := filepath.Join(dir, "tri.obj")
	require.NoError(t, os.WriteFile(objPath, []byte(obj), 0o644))

	m, err := LoadOBJ(objPath)
	require.NoError(t, err)
	assert.Equal(t, "obj:"+objPath, m.Name)
	assert.Equal(t, [3]float32{1, 0, 0}, m.Vertices[0].Color)
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJ(filepath.Join(t.TempDir(), "nope.obj"))
	assert.Error(t, err)
}
