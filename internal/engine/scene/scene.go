package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/khai-campus/campusview/internal/engine/lighting"
	"github.com/khai-campus/campusview/internal/engine/model"
)

// Drawable is a mesh placed in world space.
type Drawable struct {
	Mesh          *model.Mesh
	World         mgl32.Mat4
	CastShadow    bool
	ReceiveShadow bool
}

// Body is a standalone mesh at a position, such as the visible sun.
type Body struct {
	Mesh     *model.Mesh
	Position mgl32.Vec3
}

// Scene is everything a surface draws in one frame.
type Scene struct {
	Background lighting.Color
	Hemisphere *lighting.Hemisphere
	Sun        *lighting.Directional
	SunBody    *Body

	assets      []*Graph
	afterRender []func()
}

// New creates an empty scene with a white background.
func New() *Scene {
	return &Scene{Background: lighting.Hex(0xffffff)}
}

// Add inserts an asset graph.
func (s *Scene) Add(g *Graph) {
	if g == nil {
		return
	}
	s.assets = append(s.assets, g)
}

// Assets returns the inserted graphs in order.
func (s *Scene) Assets() []*Graph {
	return s.assets
}

// OnAfterRender registers fn to run after every draw of the scene.
func (s *Scene) OnAfterRender(fn func()) {
	s.afterRender = append(s.afterRender, fn)
}

// AfterRender runs the registered hooks. Surfaces call it once per draw.
func (s *Scene) AfterRender() {
	for _, fn := range s.afterRender {
		fn()
	}
}

// Bounds returns the world box of the asset geometry. The sun body is left
// out: it orbits at BoundingSphereRadius, so counting it would grow the
// radius, and with it the orbit, on every frame.
func (s *Scene) Bounds() model.Bounds {
	b := model.EmptyBounds()
	for _, g := range s.assets {
		b = b.Union(g.WorldBounds())
	}
	return b
}

// BoundingSphereRadius returns half the diagonal of Bounds, or 0 for an empty scene.
func (s *Scene) BoundingSphereRadius() float64 {
	b := s.Bounds()
	if b.IsEmpty() {
		return 0
	}
	return float64(b.Size().Len()) / 2
}

// Drawables returns every asset mesh in world space.
func (s *Scene) Drawables() []Drawable {
	var out []Drawable
	for _, g := range s.assets {
		out = append(out, g.Drawables()...)
	}
	return out
}
