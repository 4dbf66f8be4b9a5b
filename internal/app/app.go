// Package app is the windowed campus viewer: an ImGui carousel of model
// slides, each drawn by its own render session.
package app

import (
	"context"
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/khai-campus/campusview/internal/assets"
	"github.com/khai-campus/campusview/internal/carousel"
	"github.com/khai-campus/campusview/internal/config"
	"github.com/khai-campus/campusview/internal/download"
	"github.com/khai-campus/campusview/internal/engine/capture"
	"github.com/khai-campus/campusview/internal/engine/frame"
	"github.com/khai-campus/campusview/internal/engine/renderer"
	"github.com/khai-campus/campusview/internal/engine/shadow"
	"github.com/khai-campus/campusview/internal/i18n"
	"github.com/khai-campus/campusview/internal/logger"
	"github.com/khai-campus/campusview/internal/sceneview"
)

const cardHeight = float32(96)

// App is the viewer window.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	backend *Backend
	manager *assets.Manager
	host    *Host

	ctx    context.Context
	cancel context.CancelFunc
}

// New opens the window, initializes OpenGL and creates a session per
// catalog entry.
func New(cfg *config.Config) (*App, error) {
	log := logger.Named("app")

	b, err := NewBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height, cfg.Window.VSync, log)
	if err != nil {
		return nil, err
	}
	if err := renderer.Init(logger.Named("renderer")); err != nil {
		return nil, err
	}

	scheduler := frame.NewScheduler()
	manager := assets.NewManager(cfg.Assets.ModelsDir, scheduler,
		assets.WithLogger(logger.Named("assets")),
		assets.WithMaxTextureSize(int(shadow.MaxTextureSize())),
	)

	printer := i18n.New(cfg.UI.Language)
	archive := &download.Archive{
		Source:   cfg.Assets.ArchiveSource,
		FileName: cfg.Assets.ArchiveName,
		Saver:    download.DialogSaver{Title: printer.T(i18n.Download)},
		Logger:   logger.Named("download"),
	}

	entries := make([]carousel.Entry, 0, len(cfg.Catalog))
	for _, e := range cfg.Catalog {
		entries = append(entries, carousel.Entry{FileName: e.File, Title: e.Title, Subtitle: e.Subtitle})
	}

	surfaceOpts := renderer.Options{
		ShadowsEnabled: cfg.Render.ShadowsEnabled,
		Logger:         logger.Named("renderer"),
	}
	host := NewHost(HostConfig{
		Entries:   entries,
		Scheduler: scheduler,
		Loader:    manager,
		NewSurface: func(width, height int) (sceneview.Surface, error) {
			return renderer.NewSurface(width, height, surfaceOpts)
		},
		Rig: sceneview.RigConfig{
			ShadowMapSize: cfg.Render.ShadowMapSize,
			SunStep:       cfg.Render.SunStep,
			SunResetBand:  cfg.Render.SunResetBand,
		},
		Downloader: archive,
		Printer:    printer,
		Capture:    capture.New(cfg.UI.ScreenshotDir, "campus"),
		Logger:     logger.Log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	log.Info("viewer ready",
		zap.Int("slides", len(entries)),
		zap.String("language", printer.Language().String()))

	return &App{
		cfg:     cfg,
		log:     log,
		backend: b,
		manager: manager,
		host:    host,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Run blocks until the window is closed, then releases everything.
func (a *App) Run() {
	a.backend.Run(a.render)
	a.Close()
}

// Close disposes the sessions, then the asset manager.
func (a *App) Close() {
	a.cancel()
	a.host.Close()
	a.manager.Close()
	hits, misses := a.manager.Stats()
	a.log.Info("viewer closed", zap.Int("cache_hits", hits), zap.Int("cache_misses", misses))
}

func (a *App) render() {
	a.handleKeys()
	a.host.Tick()

	a.renderToolbar()

	workPos, workSize := WorkArea()
	c := a.host.Carousel()

	viewerSize := workSize
	if !c.IsFullscreen() {
		viewerSize.Y -= cardHeight
	}

	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse |
		imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoScrollbar

	imgui.SetNextWindowPos(workPos)
	imgui.SetNextWindowSize(viewerSize)
	if imgui.BeginV("##Viewer", nil, flags|imgui.WindowFlagsNoBringToFrontOnFocus) {
		a.renderViewer()
	}
	imgui.End()

	if !c.IsFullscreen() {
		imgui.SetNextWindowPos(imgui.NewVec2(workPos.X, workPos.Y+viewerSize.Y))
		imgui.SetNextWindowSize(imgui.NewVec2(workSize.X, cardHeight))
		if imgui.BeginV("##Card", nil, flags) {
			a.renderCard()
		}
		imgui.End()
	}
}

func (a *App) handleKeys() {
	c := a.host.Carousel()
	switch {
	case IsKeyPressed(imgui.KeyLeftArrow):
		c.Retreat()
	case IsKeyPressed(imgui.KeyRightArrow):
		c.Advance()
	case IsKeyPressed(imgui.KeyF):
		c.ToggleFullscreen()
	case IsKeyPressed(imgui.KeyF12):
		// Errors are shown on the status line.
		_, _ = a.host.Screenshot()
	}
}

func (a *App) renderToolbar() {
	p := a.host.Printer()
	c := a.host.Carousel()

	if !imgui.BeginMainMenuBar() {
		return
	}
	imgui.Text(p.T(i18n.AppTitle))
	imgui.Separator()

	if imgui.MenuItemBool(p.T(i18n.Download)) {
		a.host.StartDownload(a.ctx)
	}
	fullscreenLabel := p.T(i18n.EnterFullscreen)
	if c.IsFullscreen() {
		fullscreenLabel = p.T(i18n.ExitFullscreen)
	}
	if imgui.MenuItemBool(fullscreenLabel) {
		c.ToggleFullscreen()
	}

	if status := a.host.StatusLine(); status != "" {
		imgui.Separator()
		imgui.TextDisabled(status)
	}
	if a.cfg.UI.ShowFPS {
		imgui.Separator()
		imgui.TextDisabled(p.T(i18n.FPS, imgui.CurrentIO().Framerate()))
	}

	imgui.Separator()
	imgui.TextDisabled(p.Language().String())
	imgui.EndMainMenuBar()
}

func (a *App) renderViewer() {
	avail := imgui.ContentRegionAvail()
	a.host.Layout(int(avail.X), int(avail.Y))

	// Skipping a frame while the card is hidden forces a layout pass at the new size.
	if !a.host.Carousel().ShowCard() {
		return
	}

	texture := a.host.Texture()
	if texture == 0 || a.host.CurrentPhase() != sceneview.Animating {
		entry, _ := a.host.Carousel().Current()
		imgui.TextDisabled(a.host.Printer().T(i18n.Waiting, entry.FileName))
		return
	}

	// Flip V for the GL framebuffer.
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(texture))
	imgui.ImageWithBgV(
		*texRef,
		avail,
		imgui.NewVec2(0, 1),
		imgui.NewVec2(1, 0),
		imgui.NewVec4(1, 1, 1, 1),
		imgui.NewVec4(1, 1, 1, 1),
	)

	if imgui.IsItemHovered() {
		a.handleMouse()
	}
}

func (a *App) handleMouse() {
	io := imgui.CurrentIO()
	routePointer(a.host,
		imgui.IsMouseDragging(imgui.MouseButtonLeft),
		imgui.IsMouseDragging(imgui.MouseButtonRight),
		io.MouseDelta(), io.MouseWheel())
}

// cameraGestures receives pointer input for the active session's camera.
type cameraGestures interface {
	Rotate(dx, dy float32)
	Pan(dx, dy float32)
	Zoom(delta float32)
}

// routePointer applies one frame of pointer input. delta is the motion since
// the previous frame as tracked by imgui, so leaving and re-entering the
// viewport does not produce a jump.
func routePointer(g cameraGestures, leftDrag, rightDrag bool, delta imgui.Vec2, wheel float32) {
	switch {
	case leftDrag:
		g.Rotate(delta.X, delta.Y)
	case rightDrag:
		g.Pan(delta.X, delta.Y)
	}
	if wheel != 0 {
		g.Zoom(wheel)
	}
}

func (a *App) renderCard() {
	p := a.host.Printer()
	c := a.host.Carousel()

	if imgui.Button(p.T(i18n.Previous)) {
		c.Retreat()
	}
	imgui.SameLine()
	if imgui.Button(p.T(i18n.Next)) {
		c.Advance()
	}
	imgui.SameLine()
	imgui.TextDisabled(fmt.Sprintf("%d / %d", c.Index()+1, c.Len()))

	if entry, ok := c.Current(); ok {
		if entry.Title != "" {
			imgui.Text(entry.Title)
		}
		imgui.TextWrapped(entry.Subtitle)
	}

	if line := a.host.LoadingLine(); line != "" {
		imgui.ProgressBarV(float32(c.LoadedPercent()/100), imgui.NewVec2(-1, 0), line)
	}
}
