package core

import "github.com/go-gl/mathgl/mgl32"

// MaterialComponent holds the PBR parameters consumed per draw call.
// The frame orchestrator packs BaseColor, Metallic, Roughness and AO
// into the per-draw parameter block; the remaining fields are kept for
// serialization fidelity with imported materials.
type MaterialComponent struct {
	baseComponent

	BaseColor mgl32.Vec4
	Metallic  float32
	Roughness float32
	AO        float32
	Emissive  mgl32.Vec3
	IOR       float32
}

// NewMaterialComponent returns a matte white material.
func NewMaterialComponent() *MaterialComponent {
	return &MaterialComponent{
		baseComponent: newBaseComponent(),
		BaseColor:     mgl32.Vec4{1, 1, 1, 1},
		Metallic:      0.0,
		Roughness:     1.0,
		AO:            1.0,
		IOR:           1.45,
	}
}

func (m *MaterialComponent) Kind() ComponentKind { return KindMaterial }
