// Package assets loads and caches mesh geometry: procedural
// primitives and Wavefront OBJ files.
package assets

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prism3d/prism/core"
	"github.com/prism3d/prism/logger"
)

// AssetID tags a cached model.
type AssetID string

func makeAssetID() AssetID {
	return AssetID(uuid.NewString())
}

// Server caches loaded models by source reference so repeated scene
// loads share geometry. Not safe for concurrent use; everything runs
// on the render thread.
type Server struct {
	models   map[AssetID]*core.Model
	bySource map[string]AssetID
}

// NewServer returns an empty asset cache.
func NewServer() *Server {
	return &Server{
		models:   make(map[AssetID]*core.Model),
		bySource: make(map[string]AssetID),
	}
}

// Register caches a model built elsewhere under its own name.
func (s *Server) Register(m *core.Model) AssetID {
	id := makeAssetID()
	s.models[id] = m
	if m.Name != "" {
		s.bySource[m.Name] = id
	}
	return id
}

// Model returns a cached model, nil if unknown.
func (s *Server) Model(id AssetID) *core.Model {
	return s.models[id]
}

// Resolve turns a scene-file source reference into geometry, loading
// and caching on first use. Supported forms:
//
//	primitive:cube[:size]
//	primitive:plane[:size]
//	primitive:sphere[:radius]
//	obj:relative/or/absolute/path.obj
//	anything ending in .obj
//
// Resolve satisfies sceneio.ModelResolver.
func (s *Server) Resolve(source string) (*core.Model, error) {
	if id, ok := s.bySource[source]; ok {
		return s.models[id], nil
	}

	m, err := s.build(source)
	if err != nil {
		return nil, err
	}
	m.Name = source
	id := makeAssetID()
	s.models[id] = m
	s.bySource[source] = id
	logger.Log.Debug("asset loaded",
		zap.String("source", source),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("indices", m.IndexCount()))
	return m, nil
}

func (s *Server) build(source string) (*core.Model, error) {
	if rest, ok := strings.CutPrefix(source, "primitive:"); ok {
		return buildPrimitive(rest)
	}
	if path, ok := strings.CutPrefix(source, "obj:"); ok {
		return LoadOBJ(path)
	}
	if strings.HasSuffix(source, ".obj") {
		return LoadOBJ(source)
	}
	return nil, fmt.Errorf("unknown mesh source %q", source)
}

func buildPrimitive(spec string) (*core.Model, error) {
	name, sizeStr, hasSize := strings.Cut(spec, ":")
	size := float32(1)
	if hasSize {
		v, err := strconv.ParseFloat(sizeStr, 32)
		if err != nil {
			return nil, fmt.Errorf("bad primitive size %q: %w", sizeStr, err)
		}
		size = float32(v)
	}

	switch name {
	case "cube":
		return CubeModel(size), nil
	case "plane":
		return PlaneModel(size), nil
	case "sphere":
		return SphereModel(size, 16, 24), nil
	default:
		return nil, fmt.Errorf("unknown primitive %q", name)
	}
}
