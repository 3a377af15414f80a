package core

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrTransformCycle is returned when a SetParent call would create a
// cycle in the transform hierarchy.
var ErrTransformCycle = errors.New("transform parent would create a cycle")

// TransformComponent is the hierarchy node of an Actor: local TRS plus
// cached local and world matrices, recomputed lazily behind dirty flags.
// The parent/children links mirror the owning Actor's links.
type TransformComponent struct {
	baseComponent

	position mgl32.Vec3
	rotation mgl32.Quat
	scale    mgl32.Vec3

	localMatrix mgl32.Mat4
	worldMatrix mgl32.Mat4
	localDirty  bool
	worldDirty  bool

	parent   *TransformComponent
	children []*TransformComponent
}

// NewTransformComponent returns an identity transform.
func NewTransformComponent() *TransformComponent {
	return &TransformComponent{
		baseComponent: newBaseComponent(),
		rotation:      mgl32.QuatIdent(),
		scale:         mgl32.Vec3{1, 1, 1},
		localMatrix:   mgl32.Ident4(),
		worldMatrix:   mgl32.Ident4(),
		localDirty:    true,
		worldDirty:    true,
	}
}

func (t *TransformComponent) Kind() ComponentKind { return KindTransform }

// Local accessors

func (t *TransformComponent) Position() mgl32.Vec3 { return t.position }
func (t *TransformComponent) Rotation() mgl32.Quat { return t.rotation }
func (t *TransformComponent) Scale() mgl32.Vec3    { return t.scale }

// SetPosition overwrites the local position and dirties this subtree.
func (t *TransformComponent) SetPosition(p mgl32.Vec3) {
	t.position = p
	t.markDirty()
}

// SetRotation overwrites the local rotation and dirties this subtree.
func (t *TransformComponent) SetRotation(q mgl32.Quat) {
	t.rotation = q
	t.markDirty()
}

// SetRotationEuler sets the rotation from XYZ Euler angles in radians.
func (t *TransformComponent) SetRotationEuler(euler mgl32.Vec3) {
	t.SetRotation(mgl32.AnglesToQuat(euler.X(), euler.Y(), euler.Z(), mgl32.XYZ))
}

// SetScale overwrites the local scale and dirties this subtree.
func (t *TransformComponent) SetScale(s mgl32.Vec3) {
	t.scale = s
	t.markDirty()
}

// Translate offsets the local position.
func (t *TransformComponent) Translate(offset mgl32.Vec3) {
	t.SetPosition(t.position.Add(offset))
}

// Rotate composes a rotation onto the local rotation.
func (t *TransformComponent) Rotate(q mgl32.Quat) {
	t.SetRotation(q.Mul(t.rotation).Normalize())
}

// ScaleBy multiplies the local scale component-wise.
func (t *TransformComponent) ScaleBy(factors mgl32.Vec3) {
	t.SetScale(mgl32.Vec3{
		t.scale.X() * factors.X(),
		t.scale.Y() * factors.Y(),
		t.scale.Z() * factors.Z(),
	})
}

// markDirty flags the local matrix stale and propagates world staleness
// to every descendant. Propagation is unconditional, even through nodes
// already dirty, so the whole subtree is guaranteed consistent after a
// reparent followed by a mutation.
func (t *TransformComponent) markDirty() {
	t.localDirty = true
	t.markWorldDirty()
}

func (t *TransformComponent) markWorldDirty() {
	t.worldDirty = true
	for _, child := range t.children {
		child.markWorldDirty()
	}
}

// LocalMatrix returns the cached T*R*S matrix, recomputing if stale.
func (t *TransformComponent) LocalMatrix() mgl32.Mat4 {
	if t.localDirty {
		translate := mgl32.Translate3D(t.position.X(), t.position.Y(), t.position.Z())
		rotate := t.rotation.Mat4()
		scale := mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z())
		t.localMatrix = translate.Mul4(rotate).Mul4(scale)
		t.localDirty = false
	}
	return t.localMatrix
}

// WorldMatrix returns parent.World * local, or local for a root.
// Repeated calls without mutation return the identical cached matrix.
func (t *TransformComponent) WorldMatrix() mgl32.Mat4 {
	if t.worldDirty {
		local := t.LocalMatrix()
		if t.parent != nil {
			t.worldMatrix = t.parent.WorldMatrix().Mul4(local)
		} else {
			t.worldMatrix = local
		}
		t.worldDirty = false
	}
	return t.worldMatrix
}

// WorldPosition returns the translation component of the world matrix.
func (t *TransformComponent) WorldPosition() mgl32.Vec3 {
	w := t.WorldMatrix()
	return mgl32.Vec3{w.At(0, 3), w.At(1, 3), w.At(2, 3)}
}

// Direction accessors, derived from the world rotation.

func (t *TransformComponent) Forward() mgl32.Vec3 {
	return t.worldRotate(mgl32.Vec3{0, 0, -1})
}

func (t *TransformComponent) Right() mgl32.Vec3 {
	return t.worldRotate(mgl32.Vec3{1, 0, 0})
}

func (t *TransformComponent) Up() mgl32.Vec3 {
	return t.worldRotate(mgl32.Vec3{0, 1, 0})
}

func (t *TransformComponent) worldRotate(v mgl32.Vec3) mgl32.Vec3 {
	rot := t.rotation
	if t.parent != nil {
		rot = t.parent.worldRotation().Mul(t.rotation)
	}
	return rot.Rotate(v).Normalize()
}

func (t *TransformComponent) worldRotation() mgl32.Quat {
	if t.parent == nil {
		return t.rotation
	}
	return t.parent.worldRotation().Mul(t.rotation).Normalize()
}

// Parent returns the parent transform, nil for a root.
func (t *TransformComponent) Parent() *TransformComponent { return t.parent }

// Children returns the child list. Callers must not mutate it.
func (t *TransformComponent) Children() []*TransformComponent { return t.children }

// SetParent detaches from the old parent's child list, attaches to the
// new one, and dirties the subtree. A parent that is this transform or
// one of its descendants is rejected: world-matrix computation would
// recurse forever.
func (t *TransformComponent) SetParent(parent *TransformComponent) error {
	if parent == t {
		return ErrTransformCycle
	}
	for p := parent; p != nil; p = p.parent {
		if p == t {
			return ErrTransformCycle
		}
	}

	if t.parent != nil {
		t.parent.removeChild(t)
	}
	t.parent = parent
	if parent != nil {
		parent.children = append(parent.children, t)
	}
	t.markWorldDirty()
	return nil
}

func (t *TransformComponent) removeChild(child *TransformComponent) {
	for i, c := range t.children {
		if c == child {
			t.children = append(t.children[:i], t.children[i+1:]...)
			return
		}
	}
}
