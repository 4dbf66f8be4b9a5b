package app

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/khai-campus/campusview/internal/carousel"
	"github.com/khai-campus/campusview/internal/download"
	"github.com/khai-campus/campusview/internal/engine/camera"
	"github.com/khai-campus/campusview/internal/engine/capture"
	"github.com/khai-campus/campusview/internal/engine/frame"
	"github.com/khai-campus/campusview/internal/engine/viewport"
	"github.com/khai-campus/campusview/internal/i18n"
	"github.com/khai-campus/campusview/internal/sceneview"
)

// slot is one carousel slide with its own render session.
type slot struct {
	entry     carousel.Entry
	container *viewport.Container
	session   *sceneview.Session
	failed    bool // attach failed; not retried
}

// DownloadState is the progress of the archive download.
type DownloadState int

const (
	DownloadIdle DownloadState = iota
	DownloadRunning
	DownloadDone
	DownloadCancelled
	DownloadFailed
)

// Downloader fetches the archive to a user-chosen path.
type Downloader interface {
	Download(ctx context.Context) (string, error)
}

// HostConfig wires a Host.
type HostConfig struct {
	Entries    []carousel.Entry
	Scheduler  *frame.Scheduler
	Loader     sceneview.Loader
	NewSurface sceneview.SurfaceFactory
	Rig        sceneview.RigConfig
	Downloader Downloader
	Printer    *i18n.Printer
	Capture    *capture.Capture
	Logger     *zap.Logger
}

// Host owns the carousel and one session per slide. It has no UI code of its
// own; App draws it. All methods run on the main loop.
type Host struct {
	cfg       HostConfig
	log       *zap.Logger
	carousel  *carousel.Carousel
	scheduler *frame.Scheduler
	slots     []*slot
	printer   *i18n.Printer

	downloadState DownloadState
	downloadPath  string
	downloadErr   error

	capture *capture.Capture
	notice  string

	closed bool
}

// NewHost creates a session for every entry. Sessions are attached on the
// first Layout, once their container has a size.
func NewHost(cfg HostConfig) *Host {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Printer == nil {
		cfg.Printer = i18n.New("en")
	}
	h := &Host{
		cfg:       cfg,
		log:       log,
		carousel:  carousel.New(cfg.Entries, cfg.Scheduler),
		scheduler: cfg.Scheduler,
		printer:   cfg.Printer,
		capture:   cfg.Capture,
	}

	for i, entry := range cfg.Entries {
		idx := i
		container := viewport.NewContainer(0, 0)
		session := sceneview.New(sceneview.Config{
			PathToModel: entry.FileName,
			Container:   container,
			Scheduler:   cfg.Scheduler,
			Loader:      cfg.Loader,
			NewSurface:  cfg.NewSurface,
			OnLoaded: func(loaded bool) {
				if loaded {
					h.carousel.MarkLoaded(idx)
				}
			},
			Logger: log.Named("sceneview"),
			Rig:    cfg.Rig,
		})
		h.slots = append(h.slots, &slot{entry: entry, container: container, session: session})
	}
	return h
}

// Carousel returns the slide state.
func (h *Host) Carousel() *carousel.Carousel { return h.carousel }

// Printer returns the UI string printer.
func (h *Host) Printer() *i18n.Printer { return h.printer }

// Tick runs one main loop step: async completions, deferred callbacks and
// frame callbacks.
func (h *Host) Tick() {
	h.scheduler.Tick()
}

// Layout sizes the viewer area. The current slide follows every change;
// slides that were never laid out get the size once and are attached.
func (h *Host) Layout(width, height int) {
	if h.closed || width <= 0 || height <= 0 {
		return
	}
	for i, s := range h.slots {
		if i != h.carousel.Index() && s.container.Attached() {
			continue
		}
		s.container.SetSize(width, height)
		if s.failed || s.session.Phase() != sceneview.Uninitialized {
			continue
		}
		if err := s.session.Attach(); err != nil {
			s.failed = true
			h.log.Error("session attach failed",
				zap.String("model", s.entry.FileName),
				zap.Error(err))
		}
	}
}

// current returns the session of the visible slide, or nil.
func (h *Host) current() *sceneview.Session {
	if len(h.slots) == 0 {
		return nil
	}
	return h.slots[h.carousel.Index()].session
}

// Texture returns the colour texture of the visible slide.
func (h *Host) Texture() uint32 {
	s := h.current()
	if s == nil {
		return 0
	}
	return s.Texture()
}

// CurrentPhase returns the phase of the visible slide's session.
func (h *Host) CurrentPhase() sceneview.Phase {
	s := h.current()
	if s == nil {
		return sceneview.Uninitialized
	}
	return s.Phase()
}

// Rotate forwards a left-button drag to the visible slide's controls.
func (h *Host) Rotate(dx, dy float32) {
	if c := h.controls(); c != nil {
		c.HandleDrag(dx, dy)
	}
}

// Pan forwards a right-button drag.
func (h *Host) Pan(dx, dy float32) {
	if c := h.controls(); c != nil {
		c.HandlePan(dx, dy)
	}
}

// Zoom forwards wheel input.
func (h *Host) Zoom(delta float32) {
	if c := h.controls(); c != nil {
		c.HandleZoom(delta)
	}
}

func (h *Host) controls() *camera.OrbitControls {
	s := h.current()
	if s == nil {
		return nil
	}
	return s.Controls()
}

// StartDownload fetches the archive on a goroutine. The result is posted
// back to the main loop. A second call while one is running is ignored.
func (h *Host) StartDownload(ctx context.Context) {
	if h.cfg.Downloader == nil || h.downloadState == DownloadRunning || h.closed {
		return
	}
	h.downloadState = DownloadRunning
	h.downloadErr = nil
	h.notice = ""

	go func() {
		path, err := h.cfg.Downloader.Download(ctx)
		h.scheduler.Post(func() { h.finishDownload(path, err) })
	}()
}

func (h *Host) finishDownload(path string, err error) {
	switch {
	case errors.Is(err, download.ErrCancelled):
		h.downloadState = DownloadCancelled
	case err != nil:
		h.downloadState = DownloadFailed
		h.downloadErr = err
	default:
		h.downloadState = DownloadDone
		h.downloadPath = path
	}
}

// DownloadState returns the download progress.
func (h *Host) DownloadState() DownloadState { return h.downloadState }

// Screenshot saves the visible slide's last frame as a PNG. The outcome
// replaces the status line.
func (h *Host) Screenshot() (string, error) {
	s := h.current()
	if h.capture == nil || s == nil {
		return "", nil
	}
	pixels, width, height, ok := s.ReadPixels()
	if !ok {
		return "", nil
	}

	path, err := h.capture.FromPixels(pixels, width, height)
	if err != nil {
		h.log.Error("screenshot failed", zap.Error(err))
		h.notice = h.printer.T(i18n.ScreenshotFailed, err)
		return "", err
	}
	h.log.Info("screenshot saved", zap.String("path", path))
	h.notice = h.printer.T(i18n.ScreenshotSaved, path)
	return path, nil
}

// StatusLine returns the localized download status, or the last screenshot
// notice. Empty when idle.
func (h *Host) StatusLine() string {
	if h.notice != "" && h.downloadState != DownloadRunning {
		return h.notice
	}
	switch h.downloadState {
	case DownloadRunning:
		return h.printer.T(i18n.Downloading)
	case DownloadDone:
		return h.printer.T(i18n.DownloadSaved, h.downloadPath)
	case DownloadCancelled:
		return h.printer.T(i18n.DownloadCancelled)
	case DownloadFailed:
		return h.printer.T(i18n.DownloadFailed, h.downloadErr)
	}
	return ""
}

// LoadingLine returns the progress text, empty once every slide has loaded.
func (h *Host) LoadingLine() string {
	pct := h.carousel.LoadedPercent()
	if pct >= 100 {
		return ""
	}
	return h.printer.T(i18n.Loading, pct)
}

// Close disposes every session. Safe to call twice.
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.closed = true
	for _, s := range h.slots {
		s.session.Dispose()
	}
}
