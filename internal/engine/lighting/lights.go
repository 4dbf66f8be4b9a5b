package lighting

import "github.com/go-gl/mathgl/mgl32"

// Hemisphere is an ambient light blending a sky colour from above with a
// ground colour from below.
type Hemisphere struct {
	Sky       Color
	Ground    Color
	Intensity float32
	Position  mgl32.Vec3 // only the direction from the origin matters
}

// Up returns the normalized sky direction.
func (h *Hemisphere) Up() mgl32.Vec3 {
	if h.Position.Len() < 1e-6 {
		return mgl32.Vec3{0, 1, 0}
	}
	return h.Position.Normalize()
}

// Frustum is an orthographic shadow camera volume in light space.
type Frustum struct {
	Left, Right float32
	Bottom, Top float32
	Near, Far   float32
}

// Projection returns the orthographic projection for the frustum.
func (f Frustum) Projection() mgl32.Mat4 {
	return mgl32.Ortho(f.Left, f.Right, f.Bottom, f.Top, f.Near, f.Far)
}

// ShadowConfig describes how a directional light casts shadows.
type ShadowConfig struct {
	MapSize int32   // square depth texture size
	Radius  float32 // PCF blur radius in texels
	Bias    float32
	Frustum Frustum
}

// Directional is a light with parallel rays from Position toward Target.
type Directional struct {
	Color      Color
	Intensity  float32
	Position   mgl32.Vec3
	Target     mgl32.Vec3
	CastShadow bool
	Shadow     ShadowConfig
}

// LookAt aims the light at target.
func (d *Directional) LookAt(target mgl32.Vec3) {
	d.Target = target
}

// Direction returns the normalized direction the light travels.
func (d *Directional) Direction() mgl32.Vec3 {
	dir := d.Target.Sub(d.Position)
	if dir.Len() < 1e-6 {
		return mgl32.Vec3{0, -1, 0}
	}
	return dir.Normalize()
}
