package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/khai-campus/campusview/internal/engine/camera"
	"github.com/khai-campus/campusview/internal/engine/model"
	"github.com/khai-campus/campusview/internal/engine/scene"
	"github.com/khai-campus/campusview/internal/engine/shader"
	"github.com/khai-campus/campusview/internal/engine/shadow"
)

// Options configures a Surface.
type Options struct {
	ShadowsEnabled bool
	Logger         *zap.Logger
}

// Surface renders one scene into its own offscreen target. All methods must
// be called on the GL thread.
type Surface struct {
	opts   Options
	log    *zap.Logger
	target *Target

	sceneProgram *shader.Program
	depthProgram *shader.Program

	shadowMap     *shadow.Map
	shadowRequest int32
	shadowFailed  bool

	meshes *meshCache
	draws  int
}

// NewSurface creates a surface of the given pixel size.
func NewSurface(width, height int, opts Options) (*Surface, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	target, err := NewTarget(int32(width), int32(height))
	if err != nil {
		return nil, err
	}

	sceneProgram, err := shader.New("scene", sceneVertexShader, sceneFragmentShader)
	if err != nil {
		target.Destroy()
		return nil, err
	}
	depthProgram, err := shader.New("depth", depthVertexShader, depthFragmentShader)
	if err != nil {
		sceneProgram.Delete()
		target.Destroy()
		return nil, err
	}

	return &Surface{
		opts:         opts,
		log:          log,
		target:       target,
		sceneProgram: sceneProgram,
		depthProgram: depthProgram,
		meshes:       newMeshCache(),
	}, nil
}

// SetSize resizes the colour and depth attachments.
func (s *Surface) SetSize(width, height int) {
	if s.target == nil {
		return
	}
	s.target.Resize(int32(width), int32(height))
}

// ColorTexture returns the texture the scene is drawn into.
func (s *Surface) ColorTexture() uint32 {
	if s.target == nil {
		return 0
	}
	return s.target.ColorTexture()
}

// ReadPixels returns the last drawn frame as bottom-up RGBA rows.
func (s *Surface) ReadPixels() (pixels []byte, width, height int) {
	if s.target == nil {
		return nil, 0, 0
	}
	w, h := s.target.Size()
	return s.target.ReadPixels(), int(w), int(h)
}

// Draws returns how many times Render has drawn.
func (s *Surface) Draws() int {
	return s.draws
}

// Render draws sc from cam, then runs the scene's after-render hooks.
func (s *Surface) Render(sc *scene.Scene, cam *camera.Perspective) {
	if s.target == nil {
		return
	}

	drawables := sc.Drawables()

	lightViewProj := mgl32.Ident4()
	shadows := false
	if sun := sc.Sun; sun != nil && sun.CastShadow && s.opts.ShadowsEnabled {
		if sm := s.ensureShadowMap(sun.Shadow.MapSize); sm != nil {
			lightViewProj = shadow.LightMatrix(sun.Position, sun.Target, sun.Shadow.Frustum)
			s.renderShadowPass(sm, drawables, lightViewProj)
			shadows = true
		}
	}

	restore := s.target.Bind()
	bg := sc.Background
	s.target.Clear(bg[0], bg[1], bg[2], 1)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	p := s.sceneProgram
	p.Use()
	p.SetMat4("uViewProj", cam.ViewProjection())
	p.SetMat4("uLightViewProj", lightViewProj)
	s.setLights(sc)

	p.SetBool("uShadowsEnabled", shadows)
	if shadows {
		sun := sc.Sun
		p.SetFloat("uShadowBias", sun.Shadow.Bias)
		p.SetInt("uPCFRadius", shadow.PCFKernel(sun.Shadow.Radius))
		s.shadowMap.BindTexture(gl.TEXTURE1)
		p.SetInt("uShadowMap", 1)
	}
	gl.ActiveTexture(gl.TEXTURE0)
	p.SetInt("uTexture", 0)

	for _, d := range drawables {
		s.drawMesh(d.Mesh, d.World, d.ReceiveShadow)
	}
	if body := sc.SunBody; body != nil && body.Mesh != nil {
		s.drawMesh(body.Mesh, mgl32.Translate3D(body.Position[0], body.Position[1], body.Position[2]), false)
	}

	gl.BindVertexArray(0)
	gl.Disable(gl.CULL_FACE)
	restore()

	s.draws++
	sc.AfterRender()
}

func (s *Surface) setLights(sc *scene.Scene) {
	p := s.sceneProgram
	if h := sc.Hemisphere; h != nil {
		p.SetVec3("uSkyColor", h.Sky.Scale(h.Intensity))
		p.SetVec3("uGroundColor", h.Ground.Scale(h.Intensity))
		p.SetVec3("uHemiUp", h.Up())
	} else {
		p.SetVec3("uSkyColor", [3]float32{})
		p.SetVec3("uGroundColor", [3]float32{})
		p.SetVec3("uHemiUp", [3]float32{0, 1, 0})
	}

	if sun := sc.Sun; sun != nil {
		p.SetVec3("uLightDir", sun.Direction().Mul(-1))
		p.SetVec3("uLightColor", sun.Color.Scale(sun.Intensity))
	} else {
		p.SetVec3("uLightDir", [3]float32{0, 1, 0})
		p.SetVec3("uLightColor", [3]float32{})
	}
}

func (s *Surface) drawMesh(m *model.Mesh, world mgl32.Mat4, receiveShadow bool) {
	g := s.meshes.get(m)
	if g == nil {
		return
	}
	p := s.sceneProgram
	p.SetMat4("uModel", world)
	p.SetVec4("uBaseColor", m.Material.BaseColor)
	p.SetBool("uUnlit", m.Material.Unlit)
	p.SetBool("uReceiveShadow", receiveShadow)

	if m.Material.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}

	p.SetBool("uHasTexture", g.texture != 0)
	if g.texture != 0 {
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, g.texture)
	}
	g.draw()
}

func (s *Surface) ensureShadowMap(requested int32) *shadow.Map {
	if s.shadowMap != nil && s.shadowRequest == requested {
		return s.shadowMap
	}
	if s.shadowFailed && s.shadowRequest == requested {
		return nil
	}
	if s.shadowMap != nil {
		s.shadowMap.Destroy()
		s.shadowMap = nil
	}
	s.shadowRequest = requested
	s.shadowFailed = false

	size, clamped := shadow.ClampResolution(requested, shadow.MaxTextureSize())
	if clamped {
		s.log.Warn("shadow map size exceeds GPU limit, clamping",
			zap.Int32("requested", requested),
			zap.Int32("size", size))
	}

	sm, err := shadow.NewMap(size)
	if err != nil {
		s.log.Warn("shadows disabled", zap.Error(err))
		s.shadowFailed = true
		return nil
	}
	s.shadowMap = sm
	return sm
}

func (s *Surface) renderShadowPass(sm *shadow.Map, drawables []scene.Drawable, lightViewProj mgl32.Mat4) {
	sm.Bind()
	p := s.depthProgram
	p.Use()
	p.SetMat4("uLightViewProj", lightViewProj)
	for _, d := range drawables {
		if !d.CastShadow {
			continue
		}
		g := s.meshes.get(d.Mesh)
		if g == nil {
			continue
		}
		p.SetMat4("uModel", d.World)
		g.draw()
	}
	gl.BindVertexArray(0)
	sm.Unbind()
}

// Release frees every GPU resource of the surface. Safe to call twice.
func (s *Surface) Release() {
	if s.meshes != nil {
		s.meshes.release()
	}
	if s.shadowMap != nil {
		s.shadowMap.Destroy()
		s.shadowMap = nil
	}
	if s.sceneProgram != nil {
		s.sceneProgram.Delete()
	}
	if s.depthProgram != nil {
		s.depthProgram.Delete()
	}
	if s.target != nil {
		s.target.Destroy()
		s.target = nil
	}
}
