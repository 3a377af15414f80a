package sceneio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/prism3d/prism/core"
)

// MeshSource reports the serializable source reference for a mesh
// model, e.g. "primitive:cube" or "obj:assets/ship.obj". The assets
// package records it at load time; models built by hand carry none and
// save as their model name.
func MeshSource(m *core.Model) string {
	if m == nil {
		return ""
	}
	return m.Name
}

// Save writes the scene to path, creating or truncating the file.
func Save(s *core.Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create scene file: %w", err)
	}
	defer f.Close()

	if err := Encode(s, f); err != nil {
		return fmt.Errorf("write scene %q: %w", path, err)
	}
	return nil
}

// Encode writes the scene as indented JSON. Actors are emitted in
// scene order so a save/load cycle preserves draw order.
func Encode(s *core.Scene, w io.Writer) error {
	desc := s.Descriptor()
	doc := sceneFile{
		Descriptor: descriptorRecord{
			Name:         desc.Name,
			Version:      FormatVersion,
			Tags:         desc.Tags,
			CreatedBy:    desc.CreatedBy,
			LastModified: time.Now().UTC().Format(time.RFC3339),
			Metadata:     desc.Metadata,
		},
	}

	for _, a := range s.ActorsInOrder() {
		doc.Actors = append(doc.Actors, encodeActor(a))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

func encodeActor(a *core.Actor) actorRecord {
	rec := actorRecord{
		ID:   uint64(a.ID()),
		Name: a.Name(),
	}
	if !a.Active() {
		f := false
		rec.Active = &f
	}
	if p := a.Parent(); p != nil {
		rec.ParentID = uint64(p.ID())
	}
	if md := a.Metadata(); len(md) > 0 {
		rec.Metadata = md
	}

	if tr := a.Transform(); tr != nil {
		rec.Transform = &transformRecord{
			Position: vec3Array(tr.Position()),
			Rotation: quatArray(tr.Rotation()),
			Scale:    vec3Array(tr.Scale()),
		}
	}
	if m := a.Mesh(); m != nil {
		mr := &meshRecord{Source: MeshSource(m.Model())}
		if !m.Visible() {
			f := false
			mr.Visible = &f
		}
		rec.Mesh = mr
	}
	if l := a.Light(); l != nil {
		rec.Light = &lightRecord{
			Type:      lightTypeName(l.Type),
			Color:     vec3Array(l.Color),
			Intensity: l.Intensity,
			Range:     l.Range,
			ConeAngle: l.ConeAngle,
		}
	}
	if m := a.Material(); m != nil {
		rec.Material = &materialRecord{
			BaseColor: [4]float32{m.BaseColor.X(), m.BaseColor.Y(), m.BaseColor.Z(), m.BaseColor.W()},
			Metallic:  m.Metallic,
			Roughness: m.Roughness,
			AO:        m.AO,
			Emissive:  vec3Array(m.Emissive),
			IOR:       m.IOR,
		}
	}
	if p := a.Physics(); p != nil {
		rec.Physics = &physicsRecord{
			Mass:         p.Mass,
			Friction:     p.Friction,
			Restitution:  p.Restitution,
			IsStatic:     p.IsStatic,
			HalfExtents:  vec3Array(p.HalfExtents),
			GravityScale: p.GravityScale,
		}
	}
	return rec
}

func vec3Array(v mgl32.Vec3) [3]float32 {
	return [3]float32{v.X(), v.Y(), v.Z()}
}

func quatArray(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V.X(), q.V.Y(), q.V.Z(), q.W}
}

func lightTypeName(t core.LightType) string {
	switch t {
	case core.LightDirectional:
		return "directional"
	case core.LightSpot:
		return "spot"
	default:
		return "point"
	}
}
