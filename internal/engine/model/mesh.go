package model

import "github.com/go-gl/mathgl/mgl32"

// ComputeBounds recalculates the mesh bounding box from its vertices.
func (m *Mesh) ComputeBounds() {
	b := EmptyBounds()
	for i := range m.Vertices {
		b.Extend(m.Vertices[i].Position)
	}
	m.Bounds = b
}

// Triangles returns the number of indexed triangles.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// ComputeNormals writes area-weighted face normals to every vertex. Used
// when a primitive ships without a NORMAL attribute.
func ComputeNormals(vertices []Vertex, indices []uint32) {
	for i := range vertices {
		vertices[i].Normal = [3]float32{}
	}

	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		if int(i0) >= len(vertices) || int(i1) >= len(vertices) || int(i2) >= len(vertices) {
			continue
		}
		p0 := mgl32.Vec3(vertices[i0].Position)
		p1 := mgl32.Vec3(vertices[i1].Position)
		p2 := mgl32.Vec3(vertices[i2].Position)
		n := p1.Sub(p0).Cross(p2.Sub(p0))

		for _, idx := range [3]uint32{i0, i1, i2} {
			acc := mgl32.Vec3(vertices[idx].Normal).Add(n)
			vertices[idx].Normal = acc
		}
	}

	for i := range vertices {
		vertices[i].Normal = Normalize(vertices[i].Normal)
	}
}

// SmoothNormals averages normals at shared vertex positions.
// This reduces faceted appearance on models.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum mgl32.Vec3
		for _, idx := range idxs {
			sum = sum.Add(vertices[idx].Normal)
		}

		avg := Normalize(sum)
		for _, idx := range idxs {
			vertices[idx].Normal = avg
		}
	}
}

// Normalize returns a unit vector in the same direction as v, or +Y for
// degenerate input.
func Normalize(v [3]float32) [3]float32 {
	vec := mgl32.Vec3(v)
	if vec.Len() < 0.0001 {
		return [3]float32{0, 1, 0}
	}
	return vec.Normalize()
}
