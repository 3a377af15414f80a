package gpu

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/prism3d/prism/core"
)

// MaxLights is the size of the shader-side light array; extra lights
// in a scene are dropped in gather order.
const MaxLights = 16

// DrawUniformStride is the spacing of per-draw blocks inside the
// shared draw uniform buffer. Each draw binds the same buffer with a
// dynamic offset that must be aligned to the device's uniform offset
// alignment; 256 is the universal minimum.
const DrawUniformStride = 256

// CameraUniform is the per-frame camera block (group 0, binding 0).
type CameraUniform struct {
	ViewProj mgl32.Mat4
	Eye      mgl32.Vec4
}

// LightsUniform is the per-frame light block (group 0, binding 1).
// Count.X holds the live light count.
type LightsUniform struct {
	Count [4]uint32
	Items [MaxLights]core.GPULight
}

// DrawUniform is one per-draw block: model matrix plus material
// parameters. Material packs metallic, roughness, ao and the selection
// flag; padding fills the block out to DrawUniformStride.
type DrawUniform struct {
	Model     mgl32.Mat4
	BaseColor mgl32.Vec4
	Material  mgl32.Vec4
	Emissive  mgl32.Vec4
	_         [DrawUniformStride - 112]byte
}

// BuildCameraUniform packs the camera state for the given aspect.
func BuildCameraUniform(cam *core.CameraState, aspect float32) CameraUniform {
	p := cam.Position
	return CameraUniform{
		ViewProj: cam.ProjectionMatrix(aspect).Mul4(cam.ViewMatrix()),
		Eye:      mgl32.Vec4{p.X(), p.Y(), p.Z(), 1},
	}
}

// BuildLightsUniform gathers scene lights, truncating at MaxLights.
func BuildLightsUniform(s *core.Scene) LightsUniform {
	var u LightsUniform
	lights := s.GatherLights()
	if len(lights) > MaxLights {
		lights = lights[:MaxLights]
	}
	u.Count[0] = uint32(len(lights))
	copy(u.Items[:], lights)
	return u
}

// BuildDrawUniform packs one actor's draw block. Actors without a
// material render with defaults.
func BuildDrawUniform(a *core.Actor, selected bool) DrawUniform {
	u := DrawUniform{
		Model:     a.Transform().WorldMatrix(),
		BaseColor: mgl32.Vec4{1, 1, 1, 1},
		Material:  mgl32.Vec4{0, 1, 1, 0},
	}
	if m := a.Material(); m != nil {
		u.BaseColor = m.BaseColor
		u.Material = mgl32.Vec4{m.Metallic, m.Roughness, m.AO, 0}
		u.Emissive = mgl32.Vec4{m.Emissive.X(), m.Emissive.Y(), m.Emissive.Z(), 0}
	}
	if selected {
		u.Material[3] = 1
	}
	return u
}

func uniformBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

func drawUniformsToBytes(draws []DrawUniform) []byte {
	if len(draws) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&draws[0])),
		len(draws)*int(unsafe.Sizeof(draws[0])))
}
