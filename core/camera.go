package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraState is the editor viewport camera: free-fly yaw/pitch with
// configurable speed. Y-up, right-handed, -Z forward at rest.
type CameraState struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Speed       float32
	Sensitivity float32
	FovDeg      float32
	Near        float32
	Far         float32
}

// NewCameraState returns a camera looking down -Z from a short distance.
func NewCameraState() *CameraState {
	return &CameraState{
		Position:    mgl32.Vec3{0, 2, 10},
		Yaw:         0,
		Pitch:       0,
		Speed:       10.0,
		Sensitivity: 0.003,
		FovDeg:      60.0,
		Near:        0.1,
		Far:         1000.0,
	}
}

// Forward returns the view direction.
func (c *CameraState) Forward() mgl32.Vec3 {
	cp := cos32(c.Pitch)
	return mgl32.Vec3{
		cp * sin32(c.Yaw),
		sin32(c.Pitch),
		-cp * cos32(c.Yaw),
	}
}

// Right returns the horizontal right vector.
func (c *CameraState) Right() mgl32.Vec3 {
	return mgl32.Vec3{cos32(c.Yaw), 0, sin32(c.Yaw)}
}

// Up returns the camera-relative up vector.
func (c *CameraState) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Forward())
}

// ViewMatrix returns the look-at view matrix.
func (c *CameraState) ViewMatrix() mgl32.Mat4 {
	eye := c.Position
	target := eye.Add(c.Forward())
	return mgl32.LookAtV(eye, target, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection for the given
// aspect ratio. A zero or negative aspect is clamped to 1.
func (c *CameraState) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovDeg), aspect, c.Near, c.Far)
}

// PickRay converts a cursor position into a world-space ray through the
// near plane.
func (c *CameraState) PickRay(mouseX, mouseY float64, width, height int) (origin, dir mgl32.Vec3) {
	nx := (2.0*float32(mouseX))/float32(width) - 1.0
	ny := 1.0 - (2.0*float32(mouseY))/float32(height)

	forward := c.Forward()
	right := c.Right()
	up := right.Cross(forward)

	aspect := float32(width) / float32(height)
	tanHalfFov := tan32(mgl32.DegToRad(c.FovDeg) / 2.0)

	d := forward.
		Add(right.Mul(nx * aspect * tanHalfFov)).
		Add(up.Mul(ny * tanHalfFov)).
		Normalize()
	return c.Position, d
}

func sin32(v float32) float32 { return float32(math.Sin(float64(v))) }
func cos32(v float32) float32 { return float32(math.Cos(float64(v))) }
func tan32(v float32) float32 { return float32(math.Tan(float64(v))) }
