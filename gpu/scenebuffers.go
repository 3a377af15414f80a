package gpu

import (
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"

	"github.com/prism3d/prism/core"
	"github.com/prism3d/prism/logger"
)

// MeshBufferInfo locates one actor's geometry inside the combined
// scene buffers. IndexOffset is in indices, VertexOffset in vertices;
// stored indices are already re-based, so a draw call needs only
// IndexOffset and IndexCount.
type MeshBufferInfo struct {
	VertexOffset uint32
	IndexOffset  uint32
	IndexCount   uint32
}

// SceneBuffers combines every visible mesh of a scene into one vertex
// and one index array, mirrored into GPU buffers by Upload. A rebuild
// always starts from scratch; geometry never mutates incrementally, so
// offsets stay consistent no matter what changed since the last sync.
type SceneBuffers struct {
	vertices []core.Vertex
	indices  []uint32
	offsets  map[core.ActorID]MeshBufferInfo
	order    []core.ActorID

	vertexBuf *wgpu.Buffer
	indexBuf  *wgpu.Buffer
	vertexCap uint64
	indexCap  uint64
}

// NewSceneBuffers returns empty combined buffers.
func NewSceneBuffers() *SceneBuffers {
	return &SceneBuffers{
		offsets: make(map[core.ActorID]MeshBufferInfo),
	}
}

// includedMesh reports whether an actor contributes geometry: active,
// carrying a visible mesh with a non-empty model.
func includedMesh(a *core.Actor) *core.Model {
	if !a.Active() {
		return nil
	}
	mc := a.Mesh()
	if mc == nil || !mc.Enabled() || !mc.Visible() {
		return nil
	}
	m := mc.Model()
	if m == nil || len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return nil
	}
	return m
}

// Rebuild recombines the scene's geometry on the CPU side.
//
// Two passes over the same deterministic actor order: the first counts
// totals so the slices allocate once, the second records each actor's
// offsets and appends its geometry, indices shifted by the actor's
// vertex offset. An empty scene is a valid result meaning nothing to
// draw.
func (sb *SceneBuffers) Rebuild(s *core.Scene) {
	actors := s.ActorsInOrder()

	var totalVerts, totalIdx int
	for _, a := range actors {
		if m := includedMesh(a); m != nil {
			totalVerts += len(m.Vertices)
			totalIdx += len(m.Indices)
		}
	}

	sb.vertices = make([]core.Vertex, 0, totalVerts)
	sb.indices = make([]uint32, 0, totalIdx)
	sb.offsets = make(map[core.ActorID]MeshBufferInfo, len(actors))
	sb.order = sb.order[:0]

	for _, a := range actors {
		m := includedMesh(a)
		if m == nil {
			continue
		}

		vertexOffset := uint32(len(sb.vertices))
		indexOffset := uint32(len(sb.indices))

		sb.vertices = append(sb.vertices, m.Vertices...)
		for _, idx := range m.Indices {
			sb.indices = append(sb.indices, idx+vertexOffset)
		}

		sb.offsets[a.ID()] = MeshBufferInfo{
			VertexOffset: vertexOffset,
			IndexOffset:  indexOffset,
			IndexCount:   uint32(len(m.Indices)),
		}
		sb.order = append(sb.order, a.ID())
	}

	if len(sb.vertices) != totalVerts || len(sb.indices) != totalIdx {
		logger.Log.Warn("combined buffer totals drifted from precount",
			zap.Int("wantVertices", totalVerts),
			zap.Int("gotVertices", len(sb.vertices)),
			zap.Int("wantIndices", totalIdx),
			zap.Int("gotIndices", len(sb.indices)))
	}
}

// VertexCount returns the combined vertex total.
func (sb *SceneBuffers) VertexCount() int { return len(sb.vertices) }

// IndexCount returns the combined index total.
func (sb *SceneBuffers) IndexCount() int { return len(sb.indices) }

// Empty reports whether there is nothing to draw.
func (sb *SceneBuffers) Empty() bool { return len(sb.indices) == 0 }

// Lookup returns the buffer location for an actor's geometry.
func (sb *SceneBuffers) Lookup(id core.ActorID) (MeshBufferInfo, bool) {
	info, ok := sb.offsets[id]
	return info, ok
}

// DrawOrder returns the actor IDs with geometry, in combine order.
// Callers must not mutate the slice.
func (sb *SceneBuffers) DrawOrder() []core.ActorID { return sb.order }

// Vertices exposes the combined vertex array for tests and picking.
func (sb *SceneBuffers) Vertices() []core.Vertex { return sb.vertices }

// Indices exposes the combined, re-based index array.
func (sb *SceneBuffers) Indices() []uint32 { return sb.indices }

// Upload mirrors the combined arrays into GPU buffers, growing them
// when the data outgrows capacity. Shrinking never happens; a scene
// that got smaller writes into the existing allocation.
func (sb *SceneBuffers) Upload(device *wgpu.Device, queue *wgpu.Queue) error {
	if sb.Empty() {
		return nil
	}

	vbytes := verticesToBytes(sb.vertices)
	ibytes := wgpu.ToBytes(sb.indices)

	var err error
	sb.vertexBuf, sb.vertexCap, err = ensureBuffer(device, sb.vertexBuf, sb.vertexCap,
		"scene vertices", uint64(len(vbytes)), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	sb.indexBuf, sb.indexCap, err = ensureBuffer(device, sb.indexBuf, sb.indexCap,
		"scene indices", uint64(len(ibytes)), wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	if err := queue.WriteBuffer(sb.vertexBuf, 0, vbytes); err != nil {
		return err
	}
	return queue.WriteBuffer(sb.indexBuf, 0, ibytes)
}

// VertexBuffer returns the GPU vertex buffer, nil before first upload.
func (sb *SceneBuffers) VertexBuffer() *wgpu.Buffer { return sb.vertexBuf }

// IndexBuffer returns the GPU index buffer, nil before first upload.
func (sb *SceneBuffers) IndexBuffer() *wgpu.Buffer { return sb.indexBuf }

// Release frees the GPU buffers.
func (sb *SceneBuffers) Release() {
	if sb.vertexBuf != nil {
		sb.vertexBuf.Release()
		sb.vertexBuf = nil
		sb.vertexCap = 0
	}
	if sb.indexBuf != nil {
		sb.indexBuf.Release()
		sb.indexBuf = nil
		sb.indexCap = 0
	}
}
