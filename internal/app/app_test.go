package app

import (
	"testing"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/stretchr/testify/assert"
)

type recordedGestures struct {
	rotations [][2]float32
	pans      [][2]float32
	zooms     []float32
}

func (r *recordedGestures) Rotate(dx, dy float32) {
	r.rotations = append(r.rotations, [2]float32{dx, dy})
}

func (r *recordedGestures) Pan(dx, dy float32) {
	r.pans = append(r.pans, [2]float32{dx, dy})
}

func (r *recordedGestures) Zoom(delta float32) {
	r.zooms = append(r.zooms, delta)
}

func TestRoutePointerUsesFrameDelta(t *testing.T) {
	var g recordedGestures

	// The cursor left the window at x=10 and came back at x=700 while a
	// drag is in progress; only the per-frame delta reaches the camera.
	routePointer(&g, true, false, imgui.Vec2{X: 3, Y: -2}, 0)
	routePointer(&g, true, false, imgui.Vec2{X: 1, Y: 0}, 0)

	assert.Equal(t, [][2]float32{{3, -2}, {1, 0}}, g.rotations)
	assert.Empty(t, g.pans)
	assert.Empty(t, g.zooms)
}

func TestRoutePointerPanAndZoom(t *testing.T) {
	var g recordedGestures

	routePointer(&g, false, true, imgui.Vec2{X: -4, Y: 5}, 0)
	routePointer(&g, false, false, imgui.Vec2{X: 50, Y: 50}, 1.5)
	routePointer(&g, true, true, imgui.Vec2{X: 2, Y: 2}, 0)

	assert.Equal(t, [][2]float32{{-4, 5}}, g.pans)
	assert.Equal(t, []float32{1.5}, g.zooms)
	assert.Equal(t, [][2]float32{{2, 2}}, g.rotations, "left drag wins over right")
}
