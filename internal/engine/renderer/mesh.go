package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/khai-campus/campusview/internal/engine/model"
)

// gpuMesh is a mesh uploaded to the current context.
type gpuMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	texture    uint32
	indexCount int32
}

// meshCache uploads each CPU mesh once per surface.
type meshCache struct {
	meshes map[*model.Mesh]*gpuMesh
}

func newMeshCache() *meshCache {
	return &meshCache{meshes: make(map[*model.Mesh]*gpuMesh)}
}

// get returns the uploaded mesh, uploading on first use. Empty meshes yield nil.
func (c *meshCache) get(m *model.Mesh) *gpuMesh {
	if g, ok := c.meshes[m]; ok {
		return g
	}
	var g *gpuMesh
	if len(m.Vertices) > 0 && len(m.Indices) > 0 {
		g = uploadMesh(m)
	}
	c.meshes[m] = g
	return g
}

func (c *meshCache) release() {
	for _, g := range c.meshes {
		if g != nil {
			g.destroy()
		}
	}
	c.meshes = make(map[*model.Mesh]*gpuMesh)
}

func uploadMesh(m *model.Mesh) *gpuMesh {
	g := &gpuMesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	vertexSize := int(unsafe.Sizeof(model.Vertex{}))
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*vertexSize, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)

	if tex := m.Material.Texture; tex != nil && len(tex.Pix) > 0 {
		g.texture = uploadTexture(tex.Rect.Dx(), tex.Rect.Dy(), tex.Pix)
	}
	return g
}

func uploadTexture(width, height int, pix []uint8) uint32 {
	var texID uint32
	gl.GenTextures(1, &texID)
	gl.BindTexture(gl.TEXTURE_2D, texID)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pix[0]))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texID
}

func (g *gpuMesh) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
}

func (g *gpuMesh) destroy() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	if g.texture != 0 {
		gl.DeleteTextures(1, &g.texture)
	}
	*g = gpuMesh{}
}
