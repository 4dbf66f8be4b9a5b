// Package sceneview runs one 3D model view: it builds the camera and light
// rig for a container, loads a model asynchronously and animates the sun
// every frame until disposed.
package sceneview

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/khai-campus/campusview/internal/engine/camera"
	"github.com/khai-campus/campusview/internal/engine/frame"
	"github.com/khai-campus/campusview/internal/engine/lighting"
	"github.com/khai-campus/campusview/internal/engine/scene"
	"github.com/khai-campus/campusview/internal/engine/viewport"
)

// DefaultModel is loaded when Config.PathToModel is empty.
const DefaultModel = "KHAI.glb"

var (
	// ErrContainerUnavailable is returned by Attach when the container has no size yet.
	ErrContainerUnavailable = errors.New("container has no size")
	// ErrAlreadyAttached is returned by a second Attach.
	ErrAlreadyAttached = errors.New("session already attached")
	// ErrDisposed is returned by Attach after Dispose.
	ErrDisposed = errors.New("session disposed")
)

// Surface draws a scene into a texture.
type Surface interface {
	SetSize(width, height int)
	Render(sc *scene.Scene, cam *camera.Perspective)
	ColorTexture() uint32
	Release()
}

// PixelReader is implemented by surfaces whose last frame can be read back.
type PixelReader interface {
	ReadPixels() (pixels []byte, width, height int)
}

// SurfaceFactory creates a surface of the given pixel size.
type SurfaceFactory func(width, height int) (Surface, error)

// Loader loads models off the main loop and delivers results on it.
type Loader interface {
	LoadAsync(path string, done func(*scene.Graph, error))
}

// Scheduler runs frame callbacks on the main loop.
type Scheduler interface {
	RequestFrame(fn func()) frame.Handle
	CancelFrame(h frame.Handle)
}

// Config wires a Session to its host.
type Config struct {
	PathToModel string
	Container   *viewport.Container
	Scheduler   Scheduler
	Loader      Loader
	NewSurface  SurfaceFactory
	OnLoaded    func(loaded bool)
	Logger      *zap.Logger
	Rig         RigConfig
}

// Session is a single model view. All methods run on the main loop.
type Session struct {
	cfg   Config
	log   *zap.Logger
	path  string
	phase Phase

	camera   *camera.Perspective
	controls *camera.OrbitControls
	surface  Surface
	scene    *scene.Scene
	orbit    *lighting.SunOrbit

	loaded            bool
	cameraInitialized bool
	hookRegistered    bool
	loopStarted       bool

	frameHandle frame.Handle
	resizeSub   *viewport.Subscription
}

// New creates an unattached session.
func New(cfg Config) *Session {
	if cfg.PathToModel == "" {
		cfg.PathToModel = DefaultModel
	}
	if cfg.Rig == (RigConfig{}) {
		cfg.Rig = DefaultRig()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		cfg:   cfg,
		log:   log.With(zap.String("model", cfg.PathToModel)),
		path:  cfg.PathToModel,
		phase: Uninitialized,
	}
}

// Attach builds the camera, surface and light rig for the container and
// starts loading the configured model.
func (s *Session) Attach() error {
	switch s.phase {
	case Uninitialized:
	case Disposed:
		return ErrDisposed
	default:
		return ErrAlreadyAttached
	}

	c := s.cfg.Container
	if c == nil || !c.Attached() {
		return ErrContainerUnavailable
	}
	width, height := c.Size()

	surface, err := s.cfg.NewSurface(width, height)
	if err != nil {
		return fmt.Errorf("creating surface: %w", err)
	}
	s.surface = surface

	s.camera = camera.NewPerspective(FieldOfView, float32(width)/float32(height), NearPlane, FarPlane)
	s.scene = scene.New()
	buildRig(s.scene, s.cfg.Rig)
	s.orbit = lighting.NewSunOrbit(s.cfg.Rig.SunStep, s.cfg.Rig.SunResetBand)

	// The camera aspect keeps its initial value on resize.
	s.resizeSub = c.Observe(s.onResize)

	s.phase = Configuring
	s.log.Debug("session attached", zap.Int("width", width), zap.Int("height", height))

	s.Load(s.path)
	return nil
}

func (s *Session) onResize(width, height int) {
	if s.phase == Disposed {
		return
	}
	s.surface.SetSize(width, height)
	if s.controls != nil {
		s.controls.SetViewportHeight(height)
	}
}

// Load requests another model to be merged into the scene.
func (s *Session) Load(path string) {
	switch s.phase {
	case Uninitialized, Disposed:
		s.log.Warn("load ignored", zap.String("path", path), zap.Stringer("phase", s.phase))
		return
	case Configuring:
		s.phase = AwaitingAsset
	}

	s.cfg.Loader.LoadAsync(path, func(g *scene.Graph, err error) {
		s.handleLoaded(path, g, err)
	})
}

func (s *Session) handleLoaded(path string, g *scene.Graph, err error) {
	if s.phase == Disposed {
		s.log.Debug("late load result dropped", zap.String("path", path))
		return
	}
	if err != nil {
		s.log.Warn("model load failed", zap.String("path", path), zap.Error(err))
		return
	}

	if !s.cameraInitialized {
		b := g.WorldBounds()
		if !b.IsEmpty() {
			size := b.Size()
			s.camera.SetPosition(size[0]/3, size[1]*1.2, size[2]/1.5)
			s.cameraInitialized = true
		}
	}

	shadowed := g.EnableShadows()
	s.scene.Add(g)

	if s.controls == nil {
		s.controls = camera.NewOrbitControls(s.camera)
		_, height := s.cfg.Container.Size()
		s.controls.SetViewportHeight(height)
	}

	if !s.hookRegistered {
		s.scene.OnAfterRender(s.afterRender)
		s.hookRegistered = true
	}

	s.phase = Animating
	s.log.Info("model added",
		zap.String("path", path),
		zap.Int("nodes", len(g.Nodes)),
		zap.Int("shadowed", shadowed))

	if !s.loopStarted {
		s.loopStarted = true
		s.frameHandle = s.cfg.Scheduler.RequestFrame(s.tick)
	}
}

func (s *Session) afterRender() {
	if s.loaded {
		return
	}
	s.loaded = true
	if s.cfg.OnLoaded != nil {
		s.cfg.OnLoaded(true)
	}
}

// tick is one animation frame.
func (s *Session) tick() {
	s.frameHandle = 0
	if s.phase != Animating {
		return
	}

	radius := s.scene.BoundingSphereRadius()
	pos := s.orbit.Advance(radius)
	s.scene.Sun.Position = pos
	s.scene.SunBody.Position = pos
	s.scene.Sun.LookAt(mgl32.Vec3{})

	s.controls.Update()
	s.surface.Render(s.scene, s.camera)

	if s.phase == Animating {
		s.frameHandle = s.cfg.Scheduler.RequestFrame(s.tick)
	}
}

// Dispose cancels the frame loop, stops observing the container and frees
// the surface. Safe to call in any phase, more than once.
func (s *Session) Dispose() {
	if s.phase == Disposed {
		return
	}
	if s.frameHandle != 0 {
		s.cfg.Scheduler.CancelFrame(s.frameHandle)
		s.frameHandle = 0
	}
	s.resizeSub.Disconnect()
	s.resizeSub = nil
	if s.surface != nil {
		s.surface.Release()
	}
	s.phase = Disposed
	s.log.Debug("session disposed")
}

// Phase returns the lifecycle stage.
func (s *Session) Phase() Phase { return s.phase }

// Path returns the initial model path.
func (s *Session) Path() string { return s.path }

// Camera returns the camera, nil before Attach.
func (s *Session) Camera() *camera.Perspective { return s.camera }

// Controls returns the orbit controls, nil before the first successful load.
func (s *Session) Controls() *camera.OrbitControls { return s.controls }

// Scene returns the scene, nil before Attach.
func (s *Session) Scene() *scene.Scene { return s.scene }

// Loaded reports whether a frame with the model has been drawn.
func (s *Session) Loaded() bool { return s.loaded }

// CameraInitialized reports whether the camera was placed from model bounds.
func (s *Session) CameraInitialized() bool { return s.cameraInitialized }

// SunAngle returns the current sun orbit angle in radians.
func (s *Session) SunAngle() float64 {
	if s.orbit == nil {
		return 0
	}
	return s.orbit.Angle
}

// ReadPixels returns the last drawn frame as bottom-up RGBA rows. ok is
// false when nothing has been drawn or the surface cannot be read.
func (s *Session) ReadPixels() (pixels []byte, width, height int, ok bool) {
	if s.phase != Animating || !s.loaded {
		return nil, 0, 0, false
	}
	reader, isReader := s.surface.(PixelReader)
	if !isReader {
		return nil, 0, 0, false
	}
	pixels, width, height = reader.ReadPixels()
	return pixels, width, height, len(pixels) > 0
}

// Texture returns the colour texture to display, 0 when there is none.
func (s *Session) Texture() uint32 {
	if s.surface == nil || s.phase == Disposed {
		return 0
	}
	return s.surface.ColorTexture()
}
