package assets

import (
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khai-campus/campusview/internal/engine/frame"
	"github.com/khai-campus/campusview/internal/engine/glb"
	"github.com/khai-campus/campusview/internal/engine/model"
	"github.com/khai-campus/campusview/internal/engine/scene"
)

func graph(name string) *scene.Graph {
	g := scene.NewGraph(name)
	g.AddRoot(g.AddNode(scene.Node{Name: "root", Meshes: []*model.Mesh{{Name: "m"}}}))
	return g
}

func TestResolve(t *testing.T) {
	m := NewManager("assets/3d-models", frame.NewScheduler())
	assert.Equal(t, filepath.Join("assets/3d-models", "KHAI.glb"), m.Resolve("KHAI.glb"))
	assert.Equal(t, "/abs/KHAI.glb", m.Resolve("/abs/KHAI.glb"))
	assert.Equal(t, "KHAI.glb", NewManager("", frame.NewScheduler()).Resolve("KHAI.glb"))
}

func TestLoadCachesAndClones(t *testing.T) {
	var decodes int32
	m := NewManager("models", frame.NewScheduler(), WithDecoder(func(path string) (*scene.Graph, error) {
		atomic.AddInt32(&decodes, 1)
		return graph(path), nil
	}))

	a, err := m.Load("KHAI.glb")
	require.NoError(t, err)
	b, err := m.Load("KHAI.glb")
	require.NoError(t, err)

	assert.EqualValues(t, 1, atomic.LoadInt32(&decodes))
	assert.NotSame(t, a, b)
	assert.Same(t, a.Nodes[0].Meshes[0], b.Nodes[0].Meshes[0])

	a.EnableShadows()
	assert.False(t, b.Nodes[0].CastShadow)

	hits, misses := m.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestLoadErrorIsWrappedAndNotCached(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	m := NewManager("", frame.NewScheduler(), WithDecoder(func(string) (*scene.Graph, error) {
		calls++
		return nil, boom
	}))

	_, err := m.Load("broken.glb")
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "broken.glb")

	_, err = m.Load("broken.glb")
	assert.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestConcurrentLoadsShareDecode(t *testing.T) {
	release := make(chan struct{})
	var decodes int32
	m := NewManager("", frame.NewScheduler(), WithDecoder(func(path string) (*scene.Graph, error) {
		atomic.AddInt32(&decodes, 1)
		<-release
		return graph(path), nil
	}))

	var wg sync.WaitGroup
	results := make([]*scene.Graph, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := m.Load("KHAI.glb")
			assert.NoError(t, err)
			results[i] = g
		}(i)
	}
	close(release)
	wg.Wait()

	// Callers that arrived after the first decode finished hit the cache.
	assert.EqualValues(t, 1, atomic.LoadInt32(&decodes))
	for i := 1; i < len(results); i++ {
		assert.NotSame(t, results[0], results[i])
	}
}

func TestLoadAsyncPostsToMainLoop(t *testing.T) {
	sched := frame.NewScheduler()
	m := NewManager("", sched, WithDecoder(func(path string) (*scene.Graph, error) {
		return graph(path), nil
	}))

	var got *scene.Graph
	m.LoadAsync("KHAI.glb", func(g *scene.Graph, err error) {
		require.NoError(t, err)
		got = g
	})
	m.Wait()
	assert.Nil(t, got, "completion must wait for the main loop")

	sched.Tick()
	require.NotNil(t, got)
	assert.Equal(t, "KHAI.glb", got.Name)
}

func TestLoadAsyncAfterClose(t *testing.T) {
	sched := frame.NewScheduler()
	m := NewManager("", sched, WithDecoder(func(path string) (*scene.Graph, error) {
		return graph(path), nil
	}))
	_, err := m.Load("KHAI.glb")
	require.NoError(t, err)

	m.Close()

	var gotErr error
	m.LoadAsync("KHAI.glb", func(_ *scene.Graph, err error) { gotErr = err })
	sched.Tick()
	assert.ErrorIs(t, gotErr, ErrClosed)
	assert.Zero(t, m.cache.Len())
}

func TestDefaultDecoderReadsGLB(t *testing.T) {
	dir := t.TempDir()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Attributes: map[string]int{gltf.POSITION: pos},
	}}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	require.NoError(t, gltf.SaveBinary(doc, filepath.Join(dir, "tri.glb")))

	m := NewManager(dir, frame.NewScheduler())
	g, err := m.Load("tri.glb")
	require.NoError(t, err)
	assert.Equal(t, 1, g.MeshCount())
	assert.Equal(t, 1, g.Nodes[0].Meshes[0].Triangles())
}

func TestLoadRecoversDecoderPanic(t *testing.T) {
	sched := frame.NewScheduler()
	m := NewManager("", sched, WithDecoder(func(string) (*scene.Graph, error) {
		panic("accessor index out of range")
	}))

	var err error
	require.NotPanics(t, func() { _, err = m.Load("broken.glb") })
	assert.ErrorIs(t, err, ErrDecodePanic)
	assert.Contains(t, err.Error(), "broken.glb")
	assert.Zero(t, m.cache.Len())

	var asyncErr error
	m.LoadAsync("broken.glb", func(_ *scene.Graph, err error) { asyncErr = err })
	m.Wait()
	sched.Tick()
	assert.ErrorIs(t, asyncErr, ErrDecodePanic)
}

func TestDefaultDecoderRejectsMalformedGLB(t *testing.T) {
	dir := t.TempDir()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	doc.Meshes = []*gltf.Mesh{{Primitives: []*gltf.Primitive{{
		Attributes: map[string]int{gltf.POSITION: pos},
		Indices:    gltf.Index(7),
	}}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes = []*gltf.Scene{{Nodes: []int{0}}}
	require.NoError(t, gltf.SaveBinary(doc, filepath.Join(dir, "broken.glb")))

	m := NewManager(dir, frame.NewScheduler())
	var err error
	require.NotPanics(t, func() { _, err = m.Load("broken.glb") })
	assert.ErrorIs(t, err, glb.ErrMalformed)
	assert.Zero(t, m.cache.Len())
}
