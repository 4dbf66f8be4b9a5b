// Package scene holds the renderable world: node graphs of loaded assets,
// the light rig and the after-render hooks.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/khai-campus/campusview/internal/engine/model"
)

// Node is one entry of a Graph arena. Children are indices into the same arena,
// so a child may be shared by several parents.
type Node struct {
	Name          string
	Local         mgl32.Mat4
	Children      []int
	Meshes        []*model.Mesh
	CastShadow    bool
	ReceiveShadow bool
}

// Drawable reports whether the node carries geometry.
func (n *Node) Drawable() bool {
	return len(n.Meshes) > 0
}

// Graph is an arena of nodes with a list of root indices.
type Graph struct {
	Name  string
	Nodes []Node
	Roots []int
}

// NewGraph creates an empty graph.
func NewGraph(name string) *Graph {
	return &Graph{Name: name}
}

// AddNode appends n and returns its index. A zero Local matrix is replaced by identity.
func (g *Graph) AddNode(n Node) int {
	if n.Local == (mgl32.Mat4{}) {
		n.Local = mgl32.Ident4()
	}
	g.Nodes = append(g.Nodes, n)
	return len(g.Nodes) - 1
}

// AddRoot marks idx as a root.
func (g *Graph) AddRoot(idx int) {
	g.Roots = append(g.Roots, idx)
}

// AddChild links child under parent. Out-of-range indices are ignored.
func (g *Graph) AddChild(parent, child int) {
	if !g.valid(parent) || !g.valid(child) {
		return
	}
	g.Nodes[parent].Children = append(g.Nodes[parent].Children, child)
}

func (g *Graph) valid(idx int) bool {
	return idx >= 0 && idx < len(g.Nodes)
}

// Traverse visits every reachable node exactly once, depth first from the
// roots in order. A node reachable over several paths is visited on the
// first one, with that path's world transform; cycles terminate.
func (g *Graph) Traverse(fn func(idx int, n *Node, world mgl32.Mat4)) {
	visited := make(map[int]struct{}, len(g.Nodes))

	var walk func(idx int, parent mgl32.Mat4)
	walk = func(idx int, parent mgl32.Mat4) {
		if !g.valid(idx) {
			return
		}
		if _, seen := visited[idx]; seen {
			return
		}
		visited[idx] = struct{}{}

		n := &g.Nodes[idx]
		world := parent.Mul4(n.Local)
		fn(idx, n, world)

		for _, child := range n.Children {
			walk(child, world)
		}
	}

	for _, root := range g.Roots {
		walk(root, mgl32.Ident4())
	}
}

// EnableShadows turns on shadow casting and receiving for every drawable
// node and returns how many nodes were changed.
func (g *Graph) EnableShadows() int {
	count := 0
	g.Traverse(func(_ int, n *Node, _ mgl32.Mat4) {
		if !n.Drawable() {
			return
		}
		n.CastShadow = true
		n.ReceiveShadow = true
		count++
	})
	return count
}

// WorldBounds returns the world-space box around all reachable geometry.
func (g *Graph) WorldBounds() model.Bounds {
	b := model.EmptyBounds()
	g.Traverse(func(_ int, n *Node, world mgl32.Mat4) {
		for _, m := range n.Meshes {
			b = b.Union(m.Bounds.Transform(world))
		}
	})
	return b
}

// Drawables flattens the graph into world-space draw items.
func (g *Graph) Drawables() []Drawable {
	var out []Drawable
	g.Traverse(func(_ int, n *Node, world mgl32.Mat4) {
		for _, m := range n.Meshes {
			out = append(out, Drawable{
				Mesh:          m,
				World:         world,
				CastShadow:    n.CastShadow,
				ReceiveShadow: n.ReceiveShadow,
			})
		}
	})
	return out
}

// Clone copies the node arena. Meshes are shared, everything else is owned by the copy.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Name:  g.Name,
		Nodes: make([]Node, len(g.Nodes)),
		Roots: append([]int(nil), g.Roots...),
	}
	for i, n := range g.Nodes {
		n.Children = append([]int(nil), n.Children...)
		n.Meshes = append([]*model.Mesh(nil), n.Meshes...)
		out.Nodes[i] = n
	}
	return out
}

// MeshCount returns the number of mesh references across all nodes.
func (g *Graph) MeshCount() int {
	total := 0
	for i := range g.Nodes {
		total += len(g.Nodes[i].Meshes)
	}
	return total
}
