package gpu

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/prism3d/prism/core"
)

// ensureBuffer returns a buffer of at least size bytes, reusing buf if
// its capacity suffices and recreating it otherwise. Growth doubles
// from the old capacity so steady scene growth does not reallocate
// every frame.
func ensureBuffer(device *wgpu.Device, buf *wgpu.Buffer, capacity uint64,
	label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, uint64, error) {

	if buf != nil && capacity >= size {
		return buf, capacity, nil
	}

	newCap := capacity * 2
	if newCap < size {
		newCap = size
	}
	if buf != nil {
		buf.Release()
	}

	nb, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  newCap,
		Usage: usage,
	})
	if err != nil {
		return nil, 0, err
	}
	return nb, newCap, nil
}

func verticesToBytes(verts []core.Vertex) []byte {
	if len(verts) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&verts[0])),
		len(verts)*int(unsafe.Sizeof(verts[0])))
}
