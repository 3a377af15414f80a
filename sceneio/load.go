package sceneio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/prism3d/prism/core"
	"github.com/prism3d/prism/logger"
)

// ModelResolver turns a mesh source reference from a scene file into
// geometry. The assets package provides the standard resolver; a nil
// resolver loads actors with empty mesh components.
type ModelResolver func(source string) (*core.Model, error)

// Load reads a scene file from disk.
func Load(path string, resolve ModelResolver) (*core.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene file: %w", err)
	}
	defer f.Close()

	s, err := Decode(f, resolve)
	if err != nil {
		return nil, fmt.Errorf("load scene %q: %w", path, err)
	}
	return s, nil
}

// Decode parses a scene document. Actors are created in file order in
// a first pass, then parent links are resolved in a second pass, so
// forward references work regardless of ordering in the file.
//
// Malformed optional fields fall back to defaults; a parent reference
// to an unknown ID is logged and dropped rather than failing the load.
func Decode(r io.Reader, resolve ModelResolver) (*core.Scene, error) {
	var doc sceneFile
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse scene: %w", err)
	}

	s := core.NewScene(doc.Descriptor.Name)
	desc := s.Descriptor()
	desc.Tags = doc.Descriptor.Tags
	desc.CreatedBy = doc.Descriptor.CreatedBy
	desc.LastModified = doc.Descriptor.LastModified
	desc.Metadata = doc.Descriptor.Metadata
	if doc.Descriptor.Version != "" {
		desc.Version = doc.Descriptor.Version
	}

	// Pass 1: build and register actors, remembering file ID -> actor.
	// Runtime IDs are always freshly assigned, never taken from the file.
	byFileID := make(map[uint64]*core.Actor, len(doc.Actors))
	for i := range doc.Actors {
		rec := &doc.Actors[i]
		a := decodeActor(rec, resolve)
		s.AddActor(a)
		if rec.ID != 0 {
			byFileID[rec.ID] = a
		}
	}

	// Pass 2: parent links.
	for i := range doc.Actors {
		rec := &doc.Actors[i]
		if rec.ParentID == 0 {
			continue
		}
		child := byFileID[rec.ID]
		parent, ok := byFileID[rec.ParentID]
		if !ok {
			logger.Log.Warn("scene references unknown parent, actor stays a root",
				zap.String("actor", rec.Name),
				zap.Uint64("parentId", rec.ParentID))
			continue
		}
		if err := child.SetParent(parent); err != nil {
			logger.Log.Warn("scene parent link rejected",
				zap.String("actor", rec.Name),
				zap.Error(err))
		}
	}

	// A freshly loaded scene is stale GPU-side but clean editor-side.
	s.ClearChanges()
	_ = s.DrainEvents()
	s.MarkModified()
	return s, nil
}

func decodeActor(rec *actorRecord, resolve ModelResolver) *core.Actor {
	a := core.NewActor(rec.Name)
	if rec.Active != nil {
		a.SetActive(*rec.Active)
	}
	for k, v := range rec.Metadata {
		a.Metadata()[k] = v
	}

	if tr := rec.Transform; tr != nil {
		t := a.Transform()
		t.SetPosition(mgl32.Vec3{tr.Position[0], tr.Position[1], tr.Position[2]})
		t.SetRotation(decodeQuat(tr.Rotation))
		t.SetScale(decodeScale(tr.Scale))
	}

	if mr := rec.Mesh; mr != nil {
		mc := core.NewMeshComponent()
		if mr.Visible != nil {
			mc.SetVisible(*mr.Visible)
		}
		if resolve != nil && mr.Source != "" {
			model, err := resolve(mr.Source)
			if err != nil {
				logger.Log.Warn("mesh source failed to resolve",
					zap.String("actor", rec.Name),
					zap.String("source", mr.Source),
					zap.Error(err))
			} else {
				mc.SetModel(model)
			}
		}
		a.AddComponent(mc)
	}

	if lr := rec.Light; lr != nil {
		lc := core.NewLightComponent()
		lc.Type = parseLightType(lr.Type)
		lc.Color = mgl32.Vec3{lr.Color[0], lr.Color[1], lr.Color[2]}
		if lr.Intensity > 0 {
			lc.Intensity = lr.Intensity
		}
		if lr.Range > 0 {
			lc.Range = lr.Range
		}
		lc.ConeAngle = lr.ConeAngle
		a.AddComponent(lc)
	}

	if mr := rec.Material; mr != nil {
		mc := core.NewMaterialComponent()
		mc.BaseColor = mgl32.Vec4{mr.BaseColor[0], mr.BaseColor[1], mr.BaseColor[2], mr.BaseColor[3]}
		mc.Metallic = mr.Metallic
		mc.Roughness = mr.Roughness
		mc.AO = mr.AO
		mc.Emissive = mgl32.Vec3{mr.Emissive[0], mr.Emissive[1], mr.Emissive[2]}
		if mr.IOR > 0 {
			mc.IOR = mr.IOR
		}
		a.AddComponent(mc)
	}

	if pr := rec.Physics; pr != nil {
		pc := core.NewPhysicsComponent()
		pc.Mass = pr.Mass
		pc.Friction = pr.Friction
		pc.Restitution = pr.Restitution
		pc.IsStatic = pr.IsStatic
		pc.HalfExtents = mgl32.Vec3{pr.HalfExtents[0], pr.HalfExtents[1], pr.HalfExtents[2]}
		pc.GravityScale = pr.GravityScale
		a.AddComponent(pc)
	}

	return a
}

// decodeQuat treats a zero quaternion (missing or malformed field) as
// identity rather than producing a degenerate rotation.
func decodeQuat(q [4]float32) mgl32.Quat {
	if q == ([4]float32{}) {
		return mgl32.QuatIdent()
	}
	return mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}}.Normalize()
}

// decodeScale treats a zero scale (missing field) as unit scale.
func decodeScale(s [3]float32) mgl32.Vec3 {
	if s == ([3]float32{}) {
		return mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Vec3{s[0], s[1], s[2]}
}

func parseLightType(name string) core.LightType {
	switch name {
	case "directional":
		return core.LightDirectional
	case "spot":
		return core.LightSpot
	default:
		return core.LightPoint
	}
}
