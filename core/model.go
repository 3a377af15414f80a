package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the interleaved layout shared by every mesh in a scene.
// The combined scene vertex buffer is a flat array of these, so the
// field order and sizes must match the shader vertex inputs exactly.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// Model holds mesh geometry as produced by the asset loaders.
// Indices address Vertices directly; re-basing into combined buffers
// happens in the gpu layer, never here.
type Model struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Model) VertexCount() int { return len(m.Vertices) }

// IndexCount returns the number of indices.
func (m *Model) IndexCount() int { return len(m.Indices) }

// AABB computes the object-space bounding box of the model.
// Returns zero min/max for an empty model.
func (m *Model) AABB() (mgl32.Vec3, mgl32.Vec3) {
	if len(m.Vertices) == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}

	inf := float32(1e20)
	minB := mgl32.Vec3{inf, inf, inf}
	maxB := mgl32.Vec3{-inf, -inf, -inf}
	for _, v := range m.Vertices {
		for i := 0; i < 3; i++ {
			if v.Position[i] < minB[i] {
				minB[i] = v.Position[i]
			}
			if v.Position[i] > maxB[i] {
				maxB[i] = v.Position[i]
			}
		}
	}
	return minB, maxB
}
