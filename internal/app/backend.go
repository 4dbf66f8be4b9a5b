package app

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"
)

// cyrillicGlyphRanges covers Latin and Cyrillic text.
// Format: pairs of [start, end] values terminated by 0.
var cyrillicGlyphRanges = []imgui.Wchar{
	0x0020, 0x00FF, // Basic Latin + Latin Supplement
	0x0400, 0x052F, // Cyrillic + Cyrillic Supplement
	0x2DE0, 0x2DFF, // Cyrillic Extended-A
	0xA640, 0xA69F, // Cyrillic Extended-B
	0, // Terminator
}

var fontPaths = []string{
	"/Library/Fonts/Arial Unicode.ttf",                     // macOS (symlink)
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf", // macOS (actual)
	"C:\\Windows\\Fonts\\segoeui.ttf",                      // Windows
	"C:\\Windows\\Fonts\\arial.ttf",                        // Windows alt
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",      // Linux
	"/usr/share/fonts/TTF/DejaVuSans.ttf",                  // Linux alt
	"/usr/share/fonts/truetype/noto/NotoSans-Regular.ttf",  // Linux alt
}

// Backend wraps the ImGui SDL backend.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	log     *zap.Logger
}

// NewBackend creates the window. A 60 FPS cap stands in for vsync.
func NewBackend(title string, width, height int, vsync bool, log *zap.Logger) (*Backend, error) {
	b := &Backend{log: log}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	// Fonts must be added before the first frame.
	b.backend.SetAfterCreateContextHook(func() {
		b.loadCyrillicFont()
	})

	b.backend.SetBgColor(imgui.NewVec4(1, 1, 1, 1))
	b.backend.CreateWindow(title, width, height)
	if vsync {
		b.backend.SetTargetFPS(60)
	}

	return b, nil
}

func (b *Backend) loadCyrillicFont() {
	var fontPath string
	for _, path := range fontPaths {
		if _, err := os.Stat(path); err == nil {
			fontPath = path
			break
		}
	}
	if fontPath == "" {
		b.log.Warn("no Cyrillic font found, using default font")
		return
	}

	fontCfg := imgui.NewFontConfig()
	defer fontCfg.Destroy()

	fonts := imgui.CurrentIO().Fonts()
	if font := fonts.AddFontFromFileTTFV(fontPath, 16.0, fontCfg, &cyrillicGlyphRanges[0]); font == nil {
		b.log.Warn("failed to load font", zap.String("path", fontPath))
		return
	}
	b.log.Debug("font loaded", zap.String("path", fontPath))
}

// Run starts the render loop and returns when the window closes.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// WorkArea returns the main viewport work area.
func WorkArea() (pos, size imgui.Vec2) {
	viewport := imgui.MainViewport()
	return viewport.WorkPos(), viewport.WorkSize()
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}
