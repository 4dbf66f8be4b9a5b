package model

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundsExtendAndSize(t *testing.T) {
	b := EmptyBounds()
	require.True(t, b.IsEmpty())
	assert.Equal(t, mgl32.Vec3{}, b.Size())

	b.Extend([3]float32{0, 0, 0})
	b.Extend([3]float32{300, 200, 150})
	assert.False(t, b.IsEmpty())
	assert.Equal(t, mgl32.Vec3{300, 200, 150}, b.Size())
	assert.Equal(t, mgl32.Vec3{150, 100, 75}, b.Center())
}

func TestBoundsUnion(t *testing.T) {
	a := Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{1, 1, 1}}
	b := Bounds{Min: [3]float32{-1, 2, 0}, Max: [3]float32{0, 3, 5}}

	u := a.Union(b)
	assert.Equal(t, [3]float32{-1, 0, 0}, u.Min)
	assert.Equal(t, [3]float32{1, 3, 5}, u.Max)

	assert.Equal(t, a, a.Union(EmptyBounds()))
	assert.Equal(t, a, EmptyBounds().Union(a))
}

func TestBoundsTransform(t *testing.T) {
	b := Bounds{Min: [3]float32{0, 0, 0}, Max: [3]float32{2, 1, 1}}

	moved := b.Transform(mgl32.Translate3D(10, 0, 0))
	assert.Equal(t, [3]float32{10, 0, 0}, moved.Min)
	assert.Equal(t, [3]float32{12, 1, 1}, moved.Max)

	rotated := b.Transform(mgl32.HomogRotate3DY(math.Pi / 2))
	size := rotated.Size()
	assert.InDelta(t, 1, size[0], 1e-4)
	assert.InDelta(t, 2, size[2], 1e-4)

	assert.True(t, EmptyBounds().Transform(mgl32.Scale3D(2, 2, 2)).IsEmpty())
}

func TestComputeNormalsFlatQuad(t *testing.T) {
	verts := []Vertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{0, 0, 1}},
		{Position: [3]float32{1, 0, 1}},
		{Position: [3]float32{1, 0, 0}},
	}
	ComputeNormals(verts, []uint32{0, 1, 2, 0, 2, 3, 99, 0, 1})

	for i, v := range verts {
		assert.InDelta(t, 1, v.Normal[1], 1e-5, "vertex %d", i)
	}
}

func TestSmoothNormalsAveragesSharedPositions(t *testing.T) {
	verts := []Vertex{
		{Position: [3]float32{1, 1, 1}, Normal: [3]float32{1, 0, 0}},
		{Position: [3]float32{1, 1, 1}, Normal: [3]float32{0, 1, 0}},
		{Position: [3]float32{5, 5, 5}, Normal: [3]float32{0, 0, 1}},
	}
	SmoothNormals(verts)

	s := float32(1 / math.Sqrt(2))
	assert.InDelta(t, s, verts[0].Normal[0], 1e-5)
	assert.InDelta(t, s, verts[1].Normal[1], 1e-5)
	assert.Equal(t, [3]float32{0, 0, 1}, verts[2].Normal)
}

func TestSphere(t *testing.T) {
	m := Sphere(10, 32, 32, Material{BaseColor: [4]float32{1, 1, 0, 1}, Unlit: true})

	assert.Len(t, m.Vertices, 33*33)
	// Two triangles per quad minus one per quad on each pole row.
	assert.Equal(t, 32*32*2-2*32, m.Triangles())
	assert.InDelta(t, 20, m.Bounds.Size()[1], 1e-4)
	for _, v := range m.Vertices {
		assert.InDelta(t, 10, mgl32.Vec3(v.Position).Len(), 1e-3)
	}
	for _, idx := range m.Indices {
		require.Less(t, int(idx), len(m.Vertices))
	}
}

func TestToRGBA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(2, 2, 6, 5))
	src.Set(2, 2, color.NRGBA{R: 255, A: 255})

	dst := ToRGBA(src)
	assert.Equal(t, image.Rect(0, 0, 4, 3), dst.Rect)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, dst.RGBAAt(0, 0))

	same := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, same, ToRGBA(same))
}

func TestFitTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 100))
	out := FitTexture(img, 200)
	assert.Equal(t, 200, out.Rect.Dx())
	assert.Equal(t, 50, out.Rect.Dy())

	assert.Same(t, img, FitTexture(img, 0))
	assert.Same(t, img, FitTexture(img, 512))
}
