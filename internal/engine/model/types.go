// Package model provides CPU-side mesh data and geometry helpers.
package model

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Material holds the base colour of a primitive.
type Material struct {
	BaseColor   [4]float32
	Texture     *image.RGBA // nil when untextured
	Unlit       bool
	DoubleSided bool
}

// DefaultMaterial is plain opaque white, used when a primitive has no material.
func DefaultMaterial() Material {
	return Material{BaseColor: [4]float32{1, 1, 1, 1}}
}

// Mesh holds triangle data ready for GPU upload. Meshes are shared read-only
// between scene graphs once built.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Material Material
	Bounds   Bounds
}

// Bounds holds an axis-aligned bounding box. The zero value is not empty;
// use EmptyBounds to start accumulating.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBounds returns an inverted box that any point extends.
func EmptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{1e30, 1e30, 1e30},
		Max: [3]float32{-1e30, -1e30, -1e30},
	}
}

// IsEmpty reports whether no point has been added.
func (b Bounds) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Extend grows the box to contain p.
func (b *Bounds) Extend(p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}

// Union returns the smallest box containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	if o.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return o
	}
	b.Extend(o.Min)
	b.Extend(o.Max)
	return b
}

// Size returns the box extent on each axis. Empty boxes have zero size.
func (b Bounds) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{b.Max[0] - b.Min[0], b.Max[1] - b.Min[1], b.Max[2] - b.Min[2]}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return mgl32.Vec3{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Transform returns the axis-aligned box around the eight transformed corners.
func (b Bounds) Transform(m mgl32.Mat4) Bounds {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBounds()
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		out.Extend(mgl32.TransformCoordinate(corner, m))
	}
	return out
}
