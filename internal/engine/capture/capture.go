// Package capture saves rendered frames as PNG files.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Capture writes timestamped PNG files into a directory.
type Capture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// New creates a capture writing <prefix>_<timestamp>.png files into outputDir.
func New(outputDir, prefix string) *Capture {
	return &Capture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// OutputDir returns the directory files are written to.
func (c *Capture) OutputDir() string {
	return c.outputDir
}

// FromPixels saves bottom-up RGBA rows as read from an OpenGL framebuffer.
// The image is flipped so the file is top-down.
func (c *Capture) FromPixels(pixels []byte, width, height int) (string, error) {
	if width <= 0 || height <= 0 {
		return "", fmt.Errorf("invalid capture size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}

	return c.FromImage(img)
}

// FromImage saves img.
func (c *Capture) FromImage(img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	base := c.Filename()
	file, filename, err := createUnique(base)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// maxSuffix bounds the _N suffixes tried when a timestamp is already taken.
const maxSuffix = 1000

// createUnique creates base, or base with a _N suffix before the extension
// when a capture with the same timestamp already exists.
func createUnique(base string) (*os.File, string, error) {
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	name := base
	for n := 1; ; n++ {
		file, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return file, name, nil
		}
		if !errors.Is(err, fs.ErrExist) || n > maxSuffix {
			return nil, "", err
		}
		name = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}
}

// Filename returns the path the next capture would be written to, with
// millisecond resolution.
func (c *Capture) Filename() string {
	t := c.now()
	name := fmt.Sprintf("%s_%s_%03d.png", c.prefix, t.Format("2006-01-02_15-04-05"), t.Nanosecond()/int(time.Millisecond))
	if c.outputDir == "" {
		return name
	}
	return filepath.Join(c.outputDir, name)
}
