// Package editor holds the interaction layer: selection, picking and
// file dialogs over a scene.
package editor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/prism3d/prism/core"
	"github.com/prism3d/prism/logger"
)

// Ray is a world-space pick ray.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// HitResult describes the closest actor under a pick ray.
type HitResult struct {
	Actor *core.Actor
	T     float32
	Point mgl32.Vec3
}

// Editor tracks the selected actor and mediates scene mutations driven
// by input.
type Editor struct {
	selected core.ActorID

	// Debounced transform nudging: scale wheel input accumulates and
	// applies after a quiet period so every tick does not dirty the
	// combined buffers.
	pendingScale    float32
	lastScaleInput  float64
	lastScaleUpdate float64
}

// New returns an editor with nothing selected.
func New() *Editor {
	return &Editor{pendingScale: 1}
}

// Selected returns the selected actor's ID, 0 when nothing is
// selected.
func (e *Editor) Selected() core.ActorID { return e.selected }

// SelectActor sets the selection directly (hierarchy panel click).
func (e *Editor) SelectActor(id core.ActorID) { e.selected = id }

// ClearSelection drops the selection.
func (e *Editor) ClearSelection() { e.selected = 0 }

// SelectAt picks the actor under the ray and selects it, or clears the
// selection on a miss.
func (e *Editor) SelectAt(s *core.Scene, ray Ray) *core.Actor {
	hit := Pick(s, ray)
	if hit == nil {
		e.selected = 0
		return nil
	}
	e.selected = hit.Actor.ID()
	logger.Log.Debug("actor selected",
		zap.String("name", hit.Actor.Name()),
		zap.Float32("distance", hit.T))
	return hit.Actor
}

// ScaleSelected accumulates a scale factor from wheel input.
func (e *Editor) ScaleSelected(factor float32, now float64) {
	if e.selected == 0 {
		return
	}
	if e.pendingScale == 1 {
		// Fresh gesture; periodic commits count from here.
		e.lastScaleUpdate = now
	}
	e.pendingScale *= factor
	e.lastScaleInput = now
}

// Update applies pending debounced edits. Scale commits after 200ms of
// input silence or at most every 100ms while scrolling.
func (e *Editor) Update(s *core.Scene, now float64) {
	if e.selected == 0 || e.pendingScale == 1 {
		return
	}
	idle := now-e.lastScaleInput > 0.2
	periodic := now-e.lastScaleUpdate > 0.1
	if !idle && !periodic {
		return
	}

	if a := s.FindActorByID(e.selected); a != nil {
		f := e.pendingScale
		a.Transform().ScaleBy(mgl32.Vec3{f, f, f})
	}
	e.pendingScale = 1
	e.lastScaleUpdate = now
}

// DeleteSelected removes the selected actor from the scene.
func (e *Editor) DeleteSelected(s *core.Scene) bool {
	if e.selected == 0 {
		return false
	}
	ok := s.RemoveActor(e.selected)
	e.selected = 0
	return ok
}

// Pick returns the closest meshed actor hit by the ray: broad-phase
// ray/AABB in world space against each actor's transformed model
// bounds. Mesh-accurate narrow phase is not needed for editor
// selection.
func Pick(s *core.Scene, ray Ray) *HitResult {
	closest := float32(math.MaxFloat32)
	var best *HitResult

	for _, a := range s.ActorsInOrder() {
		if !a.Active() {
			continue
		}
		mc := a.Mesh()
		if mc == nil || !mc.Visible() || mc.Model() == nil {
			continue
		}

		minB, maxB := mc.Model().AABB()
		wMin, wMax := transformAABB(a.Transform().WorldMatrix(), minB, maxB)

		tMin, tMax := intersectAABB(ray, wMin, wMax)
		if tMin > tMax || tMax < 0 || tMin >= closest {
			continue
		}

		t := tMin
		if t < 0 {
			t = 0 // ray starts inside the box
		}
		closest = t
		best = &HitResult{
			Actor: a,
			T:     t,
			Point: ray.Origin.Add(ray.Direction.Mul(t)),
		}
	}
	return best
}

// transformAABB returns the world-space AABB of an object-space box:
// transform all eight corners and re-bound.
func transformAABB(m mgl32.Mat4, minB, maxB mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	inf := float32(math.MaxFloat32)
	outMin := mgl32.Vec3{inf, inf, inf}
	outMax := mgl32.Vec3{-inf, -inf, -inf}

	for i := 0; i < 8; i++ {
		c := mgl32.Vec3{minB.X(), minB.Y(), minB.Z()}
		if i&1 != 0 {
			c[0] = maxB.X()
		}
		if i&2 != 0 {
			c[1] = maxB.Y()
		}
		if i&4 != 0 {
			c[2] = maxB.Z()
		}
		w := m.Mul4x1(c.Vec4(1)).Vec3()
		for k := 0; k < 3; k++ {
			if w[k] < outMin[k] {
				outMin[k] = w[k]
			}
			if w[k] > outMax[k] {
				outMax[k] = w[k]
			}
		}
	}
	return outMin, outMax
}

func intersectAABB(ray Ray, minB, maxB mgl32.Vec3) (float32, float32) {
	tMin := float32(-math.MaxFloat32)
	tMax := float32(math.MaxFloat32)

	for i := 0; i < 3; i++ {
		inv := 1.0 / (ray.Direction[i] + 1e-8)
		t1 := (minB[i] - ray.Origin[i]) * inv
		t2 := (maxB[i] - ray.Origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
	}
	return tMin, tMax
}
