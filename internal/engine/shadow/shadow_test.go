package shadow

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/khai-campus/campusview/internal/engine/lighting"
)

var sunFrustum = lighting.Frustum{Left: -200, Right: 200, Bottom: -170, Top: 270, Near: 25, Far: 350}

func TestLightMatrixMapsTargetIntoFrustum(t *testing.T) {
	m := LightMatrix(mgl32.Vec3{100, 120, 100}, mgl32.Vec3{}, sunFrustum)

	p := mgl32.TransformCoordinate(mgl32.Vec3{}, m)
	assert.InDelta(t, 0, p[0], 1e-4)
	assert.InDelta(t, -50.0/220.0, p[1], 1e-4)
	assert.Greater(t, p[2], float32(-1))
	assert.Less(t, p[2], float32(1))
}

func TestLightMatrixVerticalLight(t *testing.T) {
	m := LightMatrix(mgl32.Vec3{0, 100, 0}, mgl32.Vec3{}, sunFrustum)
	p := mgl32.TransformCoordinate(mgl32.Vec3{}, m)
	for i := 0; i < 3; i++ {
		assert.False(t, p[i] != p[i], "NaN in component %d", i)
	}

	same := LightMatrix(mgl32.Vec3{5, 5, 5}, mgl32.Vec3{5, 5, 5}, sunFrustum)
	assert.NotEqual(t, mgl32.Mat4{}, same)
}

func TestClampResolution(t *testing.T) {
	size, clamped := ClampResolution(8096, 16384)
	assert.Equal(t, int32(8096), size)
	assert.False(t, clamped)

	size, clamped = ClampResolution(8096, 4096)
	assert.Equal(t, int32(4096), size)
	assert.True(t, clamped)

	size, _ = ClampResolution(0, 4096)
	assert.Equal(t, int32(DefaultResolution), size)

	size, clamped = ClampResolution(8096, 0)
	assert.Equal(t, int32(8096), size)
	assert.False(t, clamped)
}

func TestPCFKernel(t *testing.T) {
	assert.Equal(t, int32(0), PCFKernel(0))
	assert.Equal(t, int32(1), PCFKernel(4))
	assert.Equal(t, int32(3), PCFKernel(10))
	assert.Equal(t, int32(3), PCFKernel(100))
	assert.Equal(t, int32(0), PCFKernel(-5))
}
