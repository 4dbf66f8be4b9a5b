// Package camera provides a perspective camera and orbit controls.
package camera

import "github.com/go-gl/mathgl/mgl32"

// Perspective is a pinhole camera looking from Position at Target.
type Perspective struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	FovY   float32 // vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32
}

// NewPerspective creates a camera at the origin looking down -Z.
func NewPerspective(fovY, aspect, near, far float32) *Perspective {
	return &Perspective{
		Target: mgl32.Vec3{0, 0, -1},
		Up:     mgl32.Vec3{0, 1, 0},
		FovY:   fovY,
		Aspect: aspect,
		Near:   near,
		Far:    far,
	}
}

// SetPosition moves the camera without changing where it looks.
func (c *Perspective) SetPosition(x, y, z float32) {
	c.Position = mgl32.Vec3{x, y, z}
}

// LookAt aims the camera at target.
func (c *Perspective) LookAt(target mgl32.Vec3) {
	c.Target = target
}

// View returns the world-to-camera matrix. A camera sitting on its target
// keeps looking down -Z.
func (c *Perspective) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Forward()), c.Up)
}

// Projection returns the perspective projection matrix.
func (c *Perspective) Projection() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

// ViewProjection returns Projection * View.
func (c *Perspective) ViewProjection() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Forward returns the normalized viewing direction.
func (c *Perspective) Forward() mgl32.Vec3 {
	dir := c.Target.Sub(c.Position)
	if dir.Len() < 1e-6 {
		return mgl32.Vec3{0, 0, -1}
	}
	return dir.Normalize()
}
