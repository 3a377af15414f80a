package core

import "github.com/go-gl/mathgl/mgl32"

// LightType selects the light falloff model.
type LightType int

const (
	LightPoint LightType = iota
	LightDirectional
	LightSpot
)

// LightComponent attaches a light source to an Actor. Position and
// direction come from the Actor's transform at frame time.
type LightComponent struct {
	baseComponent

	Type      LightType
	Color     mgl32.Vec3
	Intensity float32
	Range     float32
	ConeAngle float32
}

// NewLightComponent returns a white point light.
func NewLightComponent() *LightComponent {
	return &LightComponent{
		baseComponent: newBaseComponent(),
		Type:          LightPoint,
		Color:         mgl32.Vec3{1, 1, 1},
		Intensity:     1.0,
		Range:         50.0,
	}
}

func (l *LightComponent) Kind() ComponentKind { return KindLight }

// GPULight is the std140-compatible light record the frame orchestrator
// writes into the per-frame uniform buffer. Field packing matches the
// shader's Light struct.
type GPULight struct {
	Position  [4]float32 // xyz, w unused
	Direction [4]float32 // xyz, w unused
	Color     [4]float32 // rgb, intensity in w
	Params    [4]float32 // range, cos(coneAngle), type, padding
}
