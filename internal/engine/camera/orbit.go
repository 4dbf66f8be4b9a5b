package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const polarEpsilon = 1e-6

// OrbitControls rotates, pans and zooms a camera around a target point.
// Input handlers accumulate deltas; Update applies them to the camera.
type OrbitControls struct {
	camera *Perspective
	Target mgl32.Vec3

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPolar    float32 // radians from +Y
	MaxPolar    float32

	// Sensitivity
	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32

	viewportHeight float32

	pendingTheta float32
	pendingPhi   float32
	pendingScale float32
	pendingPan   mgl32.Vec3
}

// NewOrbitControls attaches controls to cam, orbiting the world origin, and
// aims the camera at it.
func NewOrbitControls(cam *Perspective) *OrbitControls {
	o := &OrbitControls{
		camera:         cam,
		MinDistance:    0,
		MaxDistance:    float32(math.Inf(1)),
		MinPolar:       0,
		MaxPolar:       math.Pi,
		RotateSpeed:    1,
		ZoomSpeed:      1,
		PanSpeed:       1,
		viewportHeight: 600,
		pendingScale:   1,
	}
	o.Update()
	return o
}

// Camera returns the controlled camera.
func (o *OrbitControls) Camera() *Perspective {
	return o.camera
}

// SetViewportHeight sets the pixel height used to convert drags to angles.
func (o *OrbitControls) SetViewportHeight(h int) {
	if h > 0 {
		o.viewportHeight = float32(h)
	}
}

// HandleDrag rotates by a mouse drag of dx, dy pixels. A drag across the full
// viewport height is one full turn.
func (o *OrbitControls) HandleDrag(dx, dy float32) {
	o.pendingTheta -= 2 * math.Pi * dx / o.viewportHeight * o.RotateSpeed
	o.pendingPhi -= 2 * math.Pi * dy / o.viewportHeight * o.RotateSpeed
}

// HandleZoom dollies toward the target for positive wheel deltas.
func (o *OrbitControls) HandleZoom(delta float32) {
	if delta == 0 {
		return
	}
	scale := float32(math.Pow(0.95, float64(o.ZoomSpeed*abs32(delta))))
	if delta > 0 {
		o.pendingScale *= scale
	} else {
		o.pendingScale /= scale
	}
}

// HandlePan moves the target in the camera plane by a drag of dx, dy pixels.
func (o *OrbitControls) HandlePan(dx, dy float32) {
	offset := o.camera.Position.Sub(o.Target)
	distance := offset.Len() * float32(math.Tan(float64(mgl32.DegToRad(o.camera.FovY))/2))
	perPixel := 2 * distance / o.viewportHeight * o.PanSpeed

	forward := o.camera.Forward()
	right := forward.Cross(o.camera.Up)
	if right.Len() < 1e-6 {
		right = mgl32.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	up := right.Cross(forward).Normalize()

	o.pendingPan = o.pendingPan.
		Add(right.Mul(-dx * perPixel)).
		Add(up.Mul(dy * perPixel))
}

// Update applies pending input and re-aims the camera. It returns true when
// the camera moved.
func (o *OrbitControls) Update() bool {
	cam := o.camera
	if o.pendingTheta == 0 && o.pendingPhi == 0 && o.pendingScale == 1 && o.pendingPan == (mgl32.Vec3{}) {
		cam.LookAt(o.Target)
		return false
	}
	before := cam.Position

	offset := cam.Position.Sub(o.Target)
	radius := offset.Len()
	theta := float32(math.Atan2(float64(offset[0]), float64(offset[2])))
	phi := float32(0)
	if radius > 0 {
		phi = float32(math.Acos(float64(clamp(offset[1]/radius, -1, 1))))
	}

	theta += o.pendingTheta
	phi += o.pendingPhi
	phi = clamp(phi, o.MinPolar, o.MaxPolar)
	phi = clamp(phi, polarEpsilon, math.Pi-polarEpsilon)

	radius = clamp(radius*o.pendingScale, o.MinDistance, o.MaxDistance)

	o.Target = o.Target.Add(o.pendingPan)

	sinPhi := float32(math.Sin(float64(phi)))
	offset = mgl32.Vec3{
		radius * sinPhi * float32(math.Sin(float64(theta))),
		radius * float32(math.Cos(float64(phi))),
		radius * sinPhi * float32(math.Cos(float64(theta))),
	}

	cam.Position = o.Target.Add(offset)
	cam.LookAt(o.Target)

	o.pendingTheta = 0
	o.pendingPhi = 0
	o.pendingScale = 1
	o.pendingPan = mgl32.Vec3{}

	return cam.Position.Sub(before).Len() > 1e-6
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
