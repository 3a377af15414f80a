package gpu

import (
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/prism3d/prism/core"
)

func TestDrawUniformStride(t *testing.T) {
	assert.Equal(t, uintptr(DrawUniformStride), unsafe.Sizeof(DrawUniform{}),
		"dynamic offsets step by the struct size, so it must equal the stride")
}

func TestBuildDrawUniformDefaults(t *testing.T) {
	a := core.NewActor("plain")
	a.Transform().SetPosition(mgl32.Vec3{1, 2, 3})

	u := BuildDrawUniform(a, false)
	assert.Equal(t, mgl32.Vec4{1, 1, 1, 1}, u.BaseColor)
	assert.Equal(t, float32(0), u.Material[3])
	assert.InDelta(t, 1, u.Model.At(0, 3), 1e-6)
	assert.InDelta(t, 2, u.Model.At(1, 3), 1e-6)
}

func TestBuildDrawUniformMaterialAndSelection(t *testing.T) {
	a := core.NewActor("mat")
	m := core.NewMaterialComponent()
	m.BaseColor = mgl32.Vec4{0.5, 0.25, 0.125, 1}
	m.Metallic = 0.9
	m.Roughness = 0.3
	a.AddComponent(m)

	u := BuildDrawUniform(a, true)
	assert.Equal(t, m.BaseColor, u.BaseColor)
	assert.Equal(t, float32(0.9), u.Material[0])
	assert.Equal(t, float32(0.3), u.Material[1])
	assert.Equal(t, float32(1), u.Material[3], "selection flag rides in material.w")
}

func TestBuildLightsUniformTruncates(t *testing.T) {
	s := core.NewScene("many")
	for i := 0; i < MaxLights+5; i++ {
		a := s.CreateActor("light")
		a.AddComponent(core.NewLightComponent())
	}

	u := BuildLightsUniform(s)
	assert.Equal(t, uint32(MaxLights), u.Count[0])
}

func TestBuildCameraUniformEye(t *testing.T) {
	cam := core.NewCameraState()
	cam.Position = mgl32.Vec3{4, 5, 6}

	u := BuildCameraUniform(cam, 16.0/9.0)
	assert.Equal(t, mgl32.Vec4{4, 5, 6, 1}, u.Eye)

	// A point straight ahead of the camera must land in front of the
	// near plane (positive w after projection).
	ahead := cam.Position.Add(cam.Forward().Mul(10))
	clip := u.ViewProj.Mul4x1(mgl32.Vec4{ahead.X(), ahead.Y(), ahead.Z(), 1})
	assert.Greater(t, clip.W(), float32(0))
}
