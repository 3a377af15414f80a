package assets

import (
	"math"

	"github.com/prism3d/prism/core"
)

// CubeModel builds a unit-extent cube centered on the origin. Each face
// carries its own four vertices so normals stay flat: 24 vertices,
// 36 indices.
func CubeModel(size float32) *core.Model {
	h := size * 0.5

	type face struct {
		normal  [3]float32
		corners [4][3]float32
	}
	faces := []face{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	m := &core.Model{
		Name:     "primitive:cube",
		Vertices: make([]core.Vertex, 0, 24),
		Indices:  make([]uint32, 0, 36),
	}
	for _, f := range faces {
		base := uint32(len(m.Vertices))
		for i, c := range f.corners {
			m.Vertices = append(m.Vertices, core.Vertex{
				Position: c,
				Color:    [3]float32{1, 1, 1},
				Normal:   f.normal,
				UV:       uvs[i],
			})
		}
		m.Indices = append(m.Indices,
			base, base+1, base+2,
			base, base+2, base+3)
	}
	return m
}

// PlaneModel builds a flat XZ quad of the given extent, facing +Y.
func PlaneModel(size float32) *core.Model {
	h := size * 0.5
	return &core.Model{
		Name: "primitive:plane",
		Vertices: []core.Vertex{
			{Position: [3]float32{-h, 0, h}, Color: [3]float32{1, 1, 1}, Normal: [3]float32{0, 1, 0}, UV: [2]float32{0, 1}},
			{Position: [3]float32{h, 0, h}, Color: [3]float32{1, 1, 1}, Normal: [3]float32{0, 1, 0}, UV: [2]float32{1, 1}},
			{Position: [3]float32{h, 0, -h}, Color: [3]float32{1, 1, 1}, Normal: [3]float32{0, 1, 0}, UV: [2]float32{1, 0}},
			{Position: [3]float32{-h, 0, -h}, Color: [3]float32{1, 1, 1}, Normal: [3]float32{0, 1, 0}, UV: [2]float32{0, 0}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

// SphereModel builds a UV sphere. Stacks and slices below 3 are clamped.
func SphereModel(radius float32, stacks, slices int) *core.Model {
	if stacks < 3 {
		stacks = 3
	}
	if slices < 3 {
		slices = 3
	}

	m := &core.Model{Name: "primitive:sphere"}
	for st := 0; st <= stacks; st++ {
		phi := math.Pi * float64(st) / float64(stacks)
		for sl := 0; sl <= slices; sl++ {
			theta := 2 * math.Pi * float64(sl) / float64(slices)

			nx := float32(math.Sin(phi) * math.Cos(theta))
			ny := float32(math.Cos(phi))
			nz := float32(math.Sin(phi) * math.Sin(theta))

			m.Vertices = append(m.Vertices, core.Vertex{
				Position: [3]float32{nx * radius, ny * radius, nz * radius},
				Color:    [3]float32{1, 1, 1},
				Normal:   [3]float32{nx, ny, nz},
				UV:       [2]float32{float32(sl) / float32(slices), float32(st) / float32(stacks)},
			})
		}
	}

	ring := uint32(slices + 1)
	for st := 0; st < stacks; st++ {
		for sl := 0; sl < slices; sl++ {
			a := uint32(st)*ring + uint32(sl)
			b := a + ring
			m.Indices = append(m.Indices,
				a, b, a+1,
				a+1, b, b+1)
		}
	}
	return m
}
