package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestPerspectiveDefaults(t *testing.T) {
	cam := NewPerspective(75, 800.0/600.0, 0.2, 2000)
	assert.Equal(t, float32(75), cam.FovY)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, cam.Forward())

	cam.SetPosition(100, 240, 100)
	cam.LookAt(mgl32.Vec3{})
	view := cam.View()
	// The target lands on the camera's -Z axis.
	p := mgl32.TransformCoordinate(mgl32.Vec3{}, view)
	assert.InDelta(t, 0, p[0], 1e-3)
	assert.InDelta(t, 0, p[1], 1e-3)
	assert.Less(t, p[2], float32(0))
}

func TestProjectionGuardsAspect(t *testing.T) {
	cam := NewPerspective(75, 0, 0.2, 2000)
	assert.Equal(t, mgl32.Perspective(mgl32.DegToRad(75), 1, 0.2, 2000), cam.Projection())
}

func TestOrbitUpdateWithoutInputKeepsPosition(t *testing.T) {
	cam := NewPerspective(75, 1, 0.2, 2000)
	cam.SetPosition(100, 240, 100)

	controls := NewOrbitControls(cam)
	assert.Equal(t, mgl32.Vec3{}, cam.Target)

	controls.Update()
	assert.InDelta(t, 100, cam.Position[0], 1e-2)
	assert.InDelta(t, 240, cam.Position[1], 1e-2)
	assert.InDelta(t, 100, cam.Position[2], 1e-2)
	assert.False(t, controls.Update())
}

func TestOrbitDragKeepsDistance(t *testing.T) {
	cam := NewPerspective(75, 1, 0.2, 2000)
	cam.SetPosition(0, 0, 300)
	controls := NewOrbitControls(cam)
	controls.SetViewportHeight(600)

	controls.HandleDrag(150, 0)
	assert.True(t, controls.Update())

	// A quarter of the viewport height turns a quarter circle.
	assert.InDelta(t, 300, cam.Position.Len(), 1e-2)
	assert.InDelta(t, -300, cam.Position[0], 1e-2)
	assert.InDelta(t, 0, cam.Position[2], 1e-2)
}

func TestOrbitDragClampsPolarAngle(t *testing.T) {
	cam := NewPerspective(75, 1, 0.2, 2000)
	cam.SetPosition(0, 0, 300)
	controls := NewOrbitControls(cam)

	controls.HandleDrag(0, 10000)
	controls.Update()
	assert.InDelta(t, 300, cam.Position.Len(), 1e-2)
	assert.Greater(t, cam.Position[1], float32(299))
}

func TestOrbitZoom(t *testing.T) {
	cam := NewPerspective(75, 1, 0.2, 2000)
	cam.SetPosition(0, 0, 100)
	controls := NewOrbitControls(cam)
	controls.MinDistance = 50
	controls.MaxDistance = 120

	controls.HandleZoom(1)
	controls.Update()
	assert.InDelta(t, 95, cam.Position.Len(), 1e-3)

	controls.HandleZoom(-100)
	controls.Update()
	assert.InDelta(t, 120, cam.Position.Len(), 1e-3)

	controls.HandleZoom(100)
	controls.Update()
	assert.InDelta(t, 50, cam.Position.Len(), 1e-3)
}

func TestOrbitPanMovesTargetAndCamera(t *testing.T) {
	cam := NewPerspective(90, 1, 0.2, 2000)
	cam.SetPosition(0, 0, 100)
	controls := NewOrbitControls(cam)
	controls.SetViewportHeight(200)

	controls.HandlePan(-100, 0)
	controls.Update()

	// tan(45°) * 100 * 2 / 200 = 1 world unit per pixel.
	assert.InDelta(t, 100, controls.Target[0], 1e-2)
	assert.InDelta(t, 100, cam.Position[0], 1e-2)
	assert.InDelta(t, 100, cam.Position[2], 1e-2)
	assert.Equal(t, controls.Target, cam.Target)
	assert.Same(t, cam, controls.Camera())
}
