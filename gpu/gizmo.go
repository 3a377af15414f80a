package gpu

import (
	"github.com/go-gl/mathgl/mgl32"
)

// GizmoVertex is one endpoint of an editor overlay line, position in
// world space with its own color.
type GizmoVertex struct {
	Pos   [3]float32
	Color [3]float32
}

// GizmoBuilder accumulates overlay line geometry for one frame:
// ground grid, world axes and selection outlines. Rebuilt every frame
// on the CPU; the renderer uploads whatever was built.
type GizmoBuilder struct {
	vertices []GizmoVertex
}

// Reset clears the accumulated lines, keeping the allocation.
func (g *GizmoBuilder) Reset() {
	g.vertices = g.vertices[:0]
}

// Vertices returns the accumulated line list, two vertices per line.
func (g *GizmoBuilder) Vertices() []GizmoVertex { return g.vertices }

// AddLine appends one world-space line segment.
func (g *GizmoBuilder) AddLine(a, b mgl32.Vec3, color [3]float32) {
	g.vertices = append(g.vertices,
		GizmoVertex{Pos: [3]float32{a.X(), a.Y(), a.Z()}, Color: color},
		GizmoVertex{Pos: [3]float32{b.X(), b.Y(), b.Z()}, Color: color},
	)
}

// AddAxes draws the world axes at the origin: X red, Y green, Z blue.
func (g *GizmoBuilder) AddAxes(length float32) {
	g.AddLine(mgl32.Vec3{}, mgl32.Vec3{length, 0, 0}, [3]float32{0.9, 0.2, 0.2})
	g.AddLine(mgl32.Vec3{}, mgl32.Vec3{0, length, 0}, [3]float32{0.2, 0.9, 0.2})
	g.AddLine(mgl32.Vec3{}, mgl32.Vec3{0, 0, length}, [3]float32{0.2, 0.4, 0.9})
}

// AddGrid draws a ground-plane grid centered on the origin with the
// given half extent and cell spacing.
func (g *GizmoBuilder) AddGrid(halfExtent, spacing float32) {
	if spacing <= 0 {
		return
	}
	color := [3]float32{0.3, 0.3, 0.33}
	for d := spacing; d <= halfExtent; d += spacing {
		g.AddLine(mgl32.Vec3{-halfExtent, 0, d}, mgl32.Vec3{halfExtent, 0, d}, color)
		g.AddLine(mgl32.Vec3{-halfExtent, 0, -d}, mgl32.Vec3{halfExtent, 0, -d}, color)
		g.AddLine(mgl32.Vec3{d, 0, -halfExtent}, mgl32.Vec3{d, 0, halfExtent}, color)
		g.AddLine(mgl32.Vec3{-d, 0, -halfExtent}, mgl32.Vec3{-d, 0, halfExtent}, color)
	}
	// Center lines along the axes, slightly brighter.
	center := [3]float32{0.45, 0.45, 0.5}
	g.AddLine(mgl32.Vec3{-halfExtent, 0, 0}, mgl32.Vec3{halfExtent, 0, 0}, center)
	g.AddLine(mgl32.Vec3{0, 0, -halfExtent}, mgl32.Vec3{0, 0, halfExtent}, center)
}

// AddBox draws the wireframe of an axis-aligned box transformed by
// model, used for selection outlines around an actor's bounds.
func (g *GizmoBuilder) AddBox(model mgl32.Mat4, min, max mgl32.Vec3, color [3]float32) {
	corners := [8]mgl32.Vec3{
		{min.X(), min.Y(), min.Z()},
		{max.X(), min.Y(), min.Z()},
		{max.X(), max.Y(), min.Z()},
		{min.X(), max.Y(), min.Z()},
		{min.X(), min.Y(), max.Z()},
		{max.X(), min.Y(), max.Z()},
		{max.X(), max.Y(), max.Z()},
		{min.X(), max.Y(), max.Z()},
	}
	for i := range corners {
		c := corners[i]
		corners[i] = model.Mul4x1(mgl32.Vec4{c.X(), c.Y(), c.Z(), 1}).Vec3()
	}

	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		g.AddLine(corners[e[0]], corners[e[1]], color)
	}
}
