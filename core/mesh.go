package core

// MeshComponent attaches renderable geometry to an Actor. The gpu layer
// combines every visible mesh in a scene into shared buffers; swapping
// the model therefore has to flag the owning scene for a rebuild.
type MeshComponent struct {
	baseComponent

	model   *Model
	visible bool
}

// NewMeshComponent returns a mesh component with no model, visible.
func NewMeshComponent() *MeshComponent {
	return &MeshComponent{
		baseComponent: newBaseComponent(),
		visible:       true,
	}
}

func (m *MeshComponent) Kind() ComponentKind { return KindMesh }

// Model returns the attached model, nil if none.
func (m *MeshComponent) Model() *Model { return m.model }

// SetModel swaps the geometry and notifies the owning scene.
func (m *MeshComponent) SetModel(model *Model) {
	m.model = model
	m.notifyChanged()
}

// Visible reports whether the synchronizer should include this mesh.
func (m *MeshComponent) Visible() bool { return m.visible }

// SetVisible toggles inclusion in the combined scene buffers.
func (m *MeshComponent) SetVisible(visible bool) {
	if m.visible == visible {
		return
	}
	m.visible = visible
	m.notifyChanged()
}

func (m *MeshComponent) notifyChanged() {
	if m.owner != nil && m.owner.scene != nil {
		m.owner.scene.onMeshChanged(m.owner)
	}
}

// Destroy drops the model reference.
func (m *MeshComponent) Destroy() {
	m.model = nil
}
