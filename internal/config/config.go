// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Assets  AssetsConfig  `yaml:"assets"`
	Catalog []ModelEntry  `yaml:"catalog"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// RenderConfig holds scene rendering settings.
type RenderConfig struct {
	ShadowsEnabled bool    `yaml:"shadows_enabled"`
	ShadowMapSize  int32   `yaml:"shadow_map_size"`
	SunStep        float64 `yaml:"sun_step"`       // radians per frame
	SunResetBand   float64 `yaml:"sun_reset_band"` // lower bound of the y band that restarts the arc
}

// AssetsConfig holds asset locations.
type AssetsConfig struct {
	ModelsDir     string `yaml:"models_dir"`
	ArchiveSource string `yaml:"archive_source"` // local path or http(s) URL
	ArchiveName   string `yaml:"archive_name"`   // suggested filename when saving
}

// ModelEntry describes one carousel slide.
type ModelEntry struct {
	File     string `yaml:"file"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
}

// UIConfig holds host UI settings.
type UIConfig struct {
	Language      string `yaml:"language"`
	ShowFPS       bool   `yaml:"show_fps"`
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with the stock campus catalog.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "KhAI Campus 3D",
			Width:  1280,
			Height: 800,
			VSync:  true,
		},
		Render: RenderConfig{
			ShadowsEnabled: true,
			ShadowMapSize:  8096,
			SunStep:        0.001,
			SunResetBand:   -180,
		},
		Assets: AssetsConfig{
			ModelsDir:     "assets/3d-models",
			ArchiveSource: "assets/archives/KHAI.kmz",
			ArchiveName:   "KHAI.kmz",
		},
		Catalog: []ModelEntry{
			{
				File:     "KHAI.glb",
				Subtitle: "3D-модель студмістечка Харківського Національного аерокосмічного університету ім. М.Є. Жуковського \"ХАІ\"",
			},
			{
				File:     "ULK_KHAI.glb",
				Subtitle: "3D-модель навчально-лабораторного корпусу Харківського Національного аерокосмічного університету ім. М.Є. Жуковського \"ХАІ\"",
			},
		},
		UI: UIConfig{
			Language:      "uk",
			ShowFPS:       false,
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// ErrEmptyCatalog is returned when no model entries are configured.
var ErrEmptyCatalog = errors.New("catalog has no entries")

// Validate checks values that would otherwise fail deep inside the renderer.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if len(c.Catalog) == 0 {
		return ErrEmptyCatalog
	}
	for i, entry := range c.Catalog {
		if entry.File == "" {
			return fmt.Errorf("catalog entry %d: empty file", i)
		}
	}
	if c.Render.ShadowMapSize <= 0 {
		return fmt.Errorf("invalid shadow map size %d", c.Render.ShadowMapSize)
	}
	return nil
}
