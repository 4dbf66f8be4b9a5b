package capture

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedCapture(dir string) *Capture {
	c := New(dir, "KHAI")
	c.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 45, 250*int(time.Millisecond), time.UTC) }
	return c
}

func TestFilename(t *testing.T) {
	assert.Equal(t, filepath.Join("shots", "KHAI_2024-05-01_12-30-45_250.png"), fixedCapture("shots").Filename())
	assert.Equal(t, "KHAI_2024-05-01_12-30-45_250.png", fixedCapture("").Filename())
}

func TestFilenameDistinguishesMilliseconds(t *testing.T) {
	c := New("", "KHAI")
	at := time.Date(2024, 5, 1, 12, 30, 45, 0, time.UTC)
	c.now = func() time.Time { return at }
	first := c.Filename()
	at = at.Add(7 * time.Millisecond)

	assert.Equal(t, "KHAI_2024-05-01_12-30-45_000.png", first)
	assert.Equal(t, "KHAI_2024-05-01_12-30-45_007.png", c.Filename())
}

func TestCapturesAtSameInstantDoNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	c := fixedCapture(dir)
	pixels := []byte{10, 20, 30, 255}

	first, err := c.FromPixels(pixels, 1, 1)
	require.NoError(t, err)
	second, err := c.FromPixels(pixels, 1, 1)
	require.NoError(t, err)
	third, err := c.FromPixels(pixels, 1, 1)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "KHAI_2024-05-01_12-30-45_250.png"), first)
	assert.Equal(t, filepath.Join(dir, "KHAI_2024-05-01_12-30-45_250_1.png"), second)
	assert.Equal(t, filepath.Join(dir, "KHAI_2024-05-01_12-30-45_250_2.png"), third)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFromPixelsFlipsRows(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	c := fixedCapture(dir)

	// Bottom row red, top row blue, as glReadPixels returns them.
	pixels := []byte{
		255, 0, 0, 255, 255, 0, 0, 255,
		0, 0, 255, 255, 0, 0, 255, 255,
	}
	path, err := c.FromPixels(pixels, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, dir, c.OutputDir())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, color.RGBA{0, 0, 255, 255}, color.RGBAModel.Convert(img.At(0, 0)))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, color.RGBAModel.Convert(img.At(1, 1)))
}

func TestFromPixelsRejectsBadInput(t *testing.T) {
	c := fixedCapture(t.TempDir())

	_, err := c.FromPixels(make([]byte, 3), 1, 1)
	assert.ErrorContains(t, err, "size mismatch")

	_, err = c.FromPixels(nil, 0, 0)
	assert.ErrorContains(t, err, "invalid capture size")
}
