package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunOrbit moves the sun along a circle in the XY plane around the origin.
type SunOrbit struct {
	Angle     float64 // radians
	Step      float64 // radians added per frame
	ResetBand float64 // y values in (ResetBand, 0) restart the arc
}

// NewSunOrbit creates an orbit at angle zero.
func NewSunOrbit(step, resetBand float64) *SunOrbit {
	return &SunOrbit{Step: step, ResetBand: resetBand}
}

// Advance returns the sun position for the current angle on a circle of the
// given radius, then moves the angle for the next frame. When the sun dips
// just below the horizon (ResetBand < y < 0) the arc restarts at zero; a sun
// further below the band keeps moving.
func (o *SunOrbit) Advance(radius float64) mgl32.Vec3 {
	x := math.Cos(o.Angle) * radius
	y := math.Sin(o.Angle) * radius

	if y < 0 && y > o.ResetBand {
		o.Angle = 0
	} else {
		o.Angle += o.Step
	}

	return mgl32.Vec3{float32(x), float32(y), 0}
}
