package model

import (
	"math"
)

// Sphere builds a UV sphere centred on the origin with the given segment counts.
func Sphere(radius float32, widthSegments, heightSegments int, mat Material) *Mesh {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	m := &Mesh{Name: "sphere", Material: mat}
	for y := 0; y <= heightSegments; y++ {
		v := float64(y) / float64(heightSegments)
		theta := v * math.Pi
		for x := 0; x <= widthSegments; x++ {
			u := float64(x) / float64(widthSegments)
			phi := u * 2 * math.Pi

			n := [3]float32{
				float32(-math.Cos(phi) * math.Sin(theta)),
				float32(math.Cos(theta)),
				float32(math.Sin(phi) * math.Sin(theta)),
			}
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{n[0] * radius, n[1] * radius, n[2] * radius},
				Normal:   n,
				TexCoord: [2]float32{float32(u), float32(1 - v)},
			})
		}
	}

	stride := uint32(widthSegments + 1)
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < widthSegments; x++ {
			a := uint32(y)*stride + uint32(x) + 1
			b := uint32(y)*stride + uint32(x)
			c := uint32(y+1)*stride + uint32(x)
			d := uint32(y+1)*stride + uint32(x) + 1

			// Poles collapse one triangle of each quad.
			if y != 0 {
				m.Indices = append(m.Indices, a, b, d)
			}
			if y != heightSegments-1 {
				m.Indices = append(m.Indices, b, c, d)
			}
		}
	}

	m.ComputeBounds()
	return m
}
