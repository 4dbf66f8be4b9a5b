package shadow

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/khai-campus/campusview/internal/engine/lighting"
)

// LightMatrix computes the light-space view-projection for a directional
// light at position aimed at target, using the light's ortho frustum.
func LightMatrix(position, target mgl32.Vec3, f lighting.Frustum) mgl32.Mat4 {
	dir := target.Sub(position)
	if dir.Len() < 1e-6 {
		dir = mgl32.Vec3{0, -1, 0}
	}

	// Choose an up vector that is not parallel with the light direction
	up := mgl32.Vec3{0, 1, 0}
	if abs32(dir.Normalize()[1]) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}

	view := mgl32.LookAtV(position, position.Add(dir), up)
	return f.Projection().Mul4(view)
}

// ClampResolution limits a requested shadow map size to what the GPU allows.
// The second result reports whether clamping happened.
func ClampResolution(requested, maxTexture int32) (int32, bool) {
	if requested <= 0 {
		requested = DefaultResolution
	}
	if maxTexture > 0 && requested > maxTexture {
		return maxTexture, true
	}
	return requested, false
}

// PCFKernel maps a shadow blur radius to the half-width, in texels, of the
// square PCF filter. The result is capped at 3 (a 7x7 kernel).
func PCFKernel(radius float32) int32 {
	r := int32(math.Round(float64(radius) / 4))
	if r < 0 {
		r = 0
	}
	if r > 3 {
		r = 3
	}
	return r
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
