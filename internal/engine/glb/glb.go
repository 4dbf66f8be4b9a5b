// Package glb decodes binary glTF files into scene graphs.
package glb

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // glTF texture formats
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp" // EXT_texture_webp

	"github.com/khai-campus/campusview/internal/engine/model"
	"github.com/khai-campus/campusview/internal/engine/scene"
)

var (
	// ErrNoPositions is returned for a primitive without a POSITION attribute.
	ErrNoPositions = errors.New("primitive has no POSITION attribute")
	// ErrMalformed is returned when the document references data it does not contain.
	ErrMalformed = errors.New("malformed glTF document")
)

// Options controls decoding.
type Options struct {
	// MaxTextureSize downsamples larger textures; 0 keeps them as is.
	MaxTextureSize int
	Logger         *zap.Logger
}

// Load opens a .glb or .gltf file and decodes its default scene.
func Load(path string, opts Options) (*scene.Graph, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	g, err := Decode(doc, filepath.Base(path), filepath.Dir(path), opts)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return g, nil
}

type decoder struct {
	doc      *gltf.Document
	dir      string
	opts     Options
	log      *zap.Logger
	meshes   map[int][]*model.Mesh
	textures map[int]*image.RGBA
}

// Decode converts doc into a scene graph named name. dir resolves external
// image URIs. Broken references yield an error wrapping ErrMalformed.
func Decode(doc *gltf.Document, name, dir string, opts Options) (g *scene.Graph, err error) {
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("%w: %v", ErrMalformed, r)
		}
	}()

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	d := &decoder{
		doc:      doc,
		dir:      dir,
		opts:     opts,
		log:      log,
		meshes:   make(map[int][]*model.Mesh),
		textures: make(map[int]*image.RGBA),
	}

	g = scene.NewGraph(name)

	// Node indices in the graph match the document.
	for i, n := range doc.Nodes {
		node := scene.Node{Name: n.Name, Local: localMatrix(n)}
		if n.Mesh != nil {
			meshes, err := d.mesh(*n.Mesh)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", i, err)
			}
			node.Meshes = meshes
		}
		g.AddNode(node)
	}
	for i, n := range doc.Nodes {
		for _, child := range n.Children {
			if child < 0 || child >= len(doc.Nodes) {
				return nil, fmt.Errorf("%w: node %d child %d out of range", ErrMalformed, i, child)
			}
			g.AddChild(i, child)
		}
	}

	for _, root := range d.roots() {
		if root < 0 || root >= len(doc.Nodes) {
			return nil, fmt.Errorf("%w: scene root %d out of range", ErrMalformed, root)
		}
		g.AddRoot(root)
	}
	return g, nil
}

// roots returns the node list of the default scene, or every parentless node
// when the document declares no scenes.
func (d *decoder) roots() []int {
	if len(d.doc.Scenes) > 0 {
		idx := 0
		if d.doc.Scene != nil && *d.doc.Scene >= 0 && *d.doc.Scene < len(d.doc.Scenes) {
			idx = *d.doc.Scene
		}
		return d.doc.Scenes[idx].Nodes
	}

	hasParent := make([]bool, len(d.doc.Nodes))
	for _, n := range d.doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i, p := range hasParent {
		if !p {
			roots = append(roots, i)
		}
	}
	return roots
}

func localMatrix(n *gltf.Node) mgl32.Mat4 {
	m := n.MatrixOrDefault()
	if m != gltf.DefaultMatrix {
		var out mgl32.Mat4
		for i := range m {
			out[i] = float32(m[i])
		}
		return out
	}

	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()

	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func (d *decoder) mesh(idx int) ([]*model.Mesh, error) {
	if meshes, ok := d.meshes[idx]; ok {
		return meshes, nil
	}
	if idx < 0 || idx >= len(d.doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh index %d out of range", ErrMalformed, idx)
	}

	src := d.doc.Meshes[idx]
	var out []*model.Mesh
	for p, prim := range src.Primitives {
		m, err := d.primitive(prim)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d: %w", src.Name, p, err)
		}
		if m == nil {
			continue
		}
		m.Name = src.Name
		out = append(out, m)
	}
	d.meshes[idx] = out
	return out, nil
}

func (d *decoder) primitive(prim *gltf.Primitive) (*model.Mesh, error) {
	switch prim.Mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
	default:
		d.log.Debug("skipping non-triangle primitive", zap.Int("mode", int(prim.Mode)))
		return nil, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, ErrNoPositions
	}
	posAcc, err := d.accessor(posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(d.doc, posAcc, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	vertices := make([]model.Vertex, len(positions))
	for i, p := range positions {
		vertices[i].Position = p
	}

	if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvAcc, err := d.accessor(uvIdx)
		if err != nil {
			return nil, fmt.Errorf("texture coordinates: %w", err)
		}
		uvs, err := modeler.ReadTextureCoord(d.doc, uvAcc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading texture coordinates: %w", err)
		}
		for i := 0; i < len(uvs) && i < len(vertices); i++ {
			vertices[i].TexCoord = uvs[i]
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		idxAcc, err := d.accessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		indices, err = modeler.ReadIndices(d.doc, idxAcc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
		for _, i := range indices {
			if int(i) >= len(vertices) {
				return nil, fmt.Errorf("%w: vertex index %d out of range (%d vertices)", ErrMalformed, i, len(vertices))
			}
		}
	} else {
		indices = make([]uint32, len(vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	indices = triangulate(prim.Mode, indices)

	if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		nAcc, err := d.accessor(nIdx)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		normals, err := modeler.ReadNormal(d.doc, nAcc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
		for i := 0; i < len(normals) && i < len(vertices); i++ {
			vertices[i].Normal = normals[i]
		}
	} else {
		model.ComputeNormals(vertices, indices)
	}

	m := &model.Mesh{
		Vertices: vertices,
		Indices:  indices,
		Material: d.material(prim.Material),
	}
	m.ComputeBounds()
	return m, nil
}

// accessor returns accessor idx after checking that it and the buffer view
// and buffer behind it exist.
func (d *decoder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(d.doc.Accessors) || d.doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("%w: accessor index %d out of range", ErrMalformed, idx)
	}
	acc := d.doc.Accessors[idx]
	if acc.BufferView != nil {
		view, err := d.bufferView(*acc.BufferView)
		if err != nil {
			return nil, fmt.Errorf("accessor %d: %w", idx, err)
		}
		if acc.ByteOffset < 0 || acc.ByteOffset > view.ByteLength {
			return nil, fmt.Errorf("%w: accessor %d offset %d past buffer view %d", ErrMalformed, idx, acc.ByteOffset, *acc.BufferView)
		}
	}
	return acc, nil
}

// bufferView returns buffer view idx after checking that its byte range lies
// inside its buffer.
func (d *decoder) bufferView(idx int) (*gltf.BufferView, error) {
	if idx < 0 || idx >= len(d.doc.BufferViews) || d.doc.BufferViews[idx] == nil {
		return nil, fmt.Errorf("%w: buffer view %d out of range", ErrMalformed, idx)
	}
	view := d.doc.BufferViews[idx]
	if view.Buffer < 0 || view.Buffer >= len(d.doc.Buffers) || d.doc.Buffers[view.Buffer] == nil {
		return nil, fmt.Errorf("%w: buffer view %d references buffer %d", ErrMalformed, idx, view.Buffer)
	}
	if end := view.ByteOffset + view.ByteLength; view.ByteOffset < 0 || end > len(d.doc.Buffers[view.Buffer].Data) {
		return nil, fmt.Errorf("%w: buffer view %d ends at byte %d past buffer %d", ErrMalformed, idx, end, view.Buffer)
	}
	return view, nil
}

// triangulate expands strips and fans into a plain triangle list.
func triangulate(mode gltf.PrimitiveMode, idx []uint32) []uint32 {
	switch mode {
	case gltf.PrimitiveTriangleStrip:
		var out []uint32
		for i := 0; i+2 < len(idx); i++ {
			if i%2 == 0 {
				out = append(out, idx[i], idx[i+1], idx[i+2])
			} else {
				out = append(out, idx[i+1], idx[i], idx[i+2])
			}
		}
		return out
	case gltf.PrimitiveTriangleFan:
		var out []uint32
		for i := 1; i+1 < len(idx); i++ {
			out = append(out, idx[0], idx[i], idx[i+1])
		}
		return out
	}
	return idx[:len(idx)-len(idx)%3]
}

func (d *decoder) material(idx *int) model.Material {
	mat := model.DefaultMaterial()
	if idx == nil || *idx < 0 || *idx >= len(d.doc.Materials) {
		return mat
	}
	src := d.doc.Materials[*idx]
	mat.DoubleSided = src.DoubleSided
	if _, ok := src.Extensions["KHR_materials_unlit"]; ok {
		mat.Unlit = true
	}

	pbr := src.PBRMetallicRoughness
	if pbr == nil {
		return mat
	}
	f := pbr.BaseColorFactorOrDefault()
	mat.BaseColor = [4]float32{float32(f[0]), float32(f[1]), float32(f[2]), float32(f[3])}

	if pbr.BaseColorTexture != nil {
		tex, err := d.texture(pbr.BaseColorTexture.Index)
		if err != nil {
			d.log.Warn("base colour texture unavailable",
				zap.String("material", src.Name),
				zap.Error(err))
		} else {
			mat.Texture = tex
		}
	}
	return mat
}

func (d *decoder) texture(idx int) (*image.RGBA, error) {
	if tex, ok := d.textures[idx]; ok {
		return tex, nil
	}
	if idx < 0 || idx >= len(d.doc.Textures) {
		return nil, fmt.Errorf("texture index %d out of range", idx)
	}
	src := d.doc.Textures[idx].Source
	if src == nil || *src < 0 || *src >= len(d.doc.Images) {
		return nil, fmt.Errorf("texture %d has no image", idx)
	}

	data, err := d.imageData(d.doc.Images[*src])
	if err != nil {
		return nil, err
	}
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image %d: %w", *src, err)
	}

	rgba := model.FitTexture(model.ToRGBA(decoded), d.opts.MaxTextureSize)
	d.textures[idx] = rgba
	return rgba, nil
}

func (d *decoder) imageData(img *gltf.Image) ([]byte, error) {
	switch {
	case img.BufferView != nil:
		view, err := d.bufferView(*img.BufferView)
		if err != nil {
			return nil, fmt.Errorf("image: %w", err)
		}
		return modeler.ReadBufferView(d.doc, view)
	case img.IsEmbeddedResource():
		return img.MarshalData()
	case img.URI != "":
		return os.ReadFile(filepath.Join(d.dir, filepath.FromSlash(img.URI)))
	}
	return nil, errors.New("image has no data")
}
