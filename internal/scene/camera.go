package scene

import (
	"github.com/chewxy/math32"

	"shapeview/internal/shapes"
)

// Camera defaults for every mounted scene.
const (
	CameraFovY     = 75
	CameraNear     = 0.1
	CameraFar      = 1000
	CameraDistance = 70
)

// Mat4 is a column-major 4x4 matrix, laid out the way OpenGL uniforms expect.
type Mat4 [16]float32

// Camera is a perspective camera. Position/Target/Up define the view; FovY (degrees), Aspect,
// Near and Far define the projection. Call UpdateProjection after changing projection fields.
type Camera struct {
	Position shapes.Vec3
	Target   shapes.Vec3
	Up       shapes.Vec3
	FovY     float32
	Aspect   float32
	Near     float32
	Far      float32

	projection Mat4
}

// NewCamera returns the default camera on the +Z axis looking at the origin.
func NewCamera(aspect float32) *Camera {
	c := &Camera{
		Position: shapes.Vec3{Z: CameraDistance},
		Up:       shapes.Vec3{Y: 1},
		FovY:     CameraFovY,
		Aspect:   aspect,
		Near:     CameraNear,
		Far:      CameraFar,
	}
	c.UpdateProjection()
	return c
}

// SetAspect sets the width/height ratio. Non-positive or non-finite values are ignored.
func (c *Camera) SetAspect(aspect float32) {
	if !(aspect > 0) || math32.IsInf(aspect, 0) {
		return
	}
	c.Aspect = aspect
}

// UpdateProjection recomputes the projection matrix from FovY, Aspect, Near and Far.
func (c *Camera) UpdateProjection() {
	c.projection = perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// Projection returns the matrix computed by the last UpdateProjection.
func (c *Camera) Projection() Mat4 {
	return c.projection
}

func perspective(fovYDeg, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovYDeg*math32.Pi/360)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
	return m
}
