// Package assets handles model loading, de-duplication and caching.
package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/khai-campus/campusview/internal/engine/glb"
	"github.com/khai-campus/campusview/internal/engine/scene"
)

var (
	// ErrClosed is returned for loads requested after Close.
	ErrClosed = errors.New("asset manager closed")
	// ErrDecodePanic wraps a panic raised by a Decoder.
	ErrDecodePanic = errors.New("model decoder panicked")
)

// Decoder turns a file path into a scene graph.
type Decoder func(path string) (*scene.Graph, error)

// Poster delivers a callback to the main loop.
type Poster interface {
	Post(fn func())
}

// Option configures a Manager.
type Option func(*Manager)

// WithDecoder replaces the glTF decoder.
func WithDecoder(d Decoder) Option {
	return func(m *Manager) { m.decode = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithMaxTextureSize caps decoded texture dimensions.
func WithMaxTextureSize(size int) Option {
	return func(m *Manager) { m.maxTexture = size }
}

// Manager loads models relative to a root directory. Decoded graphs are
// cached; every caller gets its own clone sharing the mesh data.
type Manager struct {
	root       string
	poster     Poster
	decode     Decoder
	log        *zap.Logger
	maxTexture int

	cache *Cache
	group singleflight.Group

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewManager creates a manager for models under root. Async completions are
// handed to poster.
func NewManager(root string, poster Poster, opts ...Option) *Manager {
	m := &Manager{
		root:   root,
		poster: poster,
		log:    zap.NewNop(),
		cache:  NewCache(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.decode == nil {
		m.decode = func(path string) (*scene.Graph, error) {
			return glb.Load(path, glb.Options{MaxTextureSize: m.maxTexture, Logger: m.log})
		}
	}
	return m
}

// Resolve maps a model name to a file path.
func (m *Manager) Resolve(name string) string {
	if filepath.IsAbs(name) || m.root == "" {
		return name
	}
	return filepath.Join(m.root, name)
}

// Load decodes name, or returns a clone of the cached graph. Concurrent
// loads of the same file share one decode.
func (m *Manager) Load(name string) (*scene.Graph, error) {
	path := m.Resolve(name)

	if g, ok := m.cache.Get(path); ok {
		return g.Clone(), nil
	}

	v, err, shared := m.group.Do(path, func() (_ any, err error) {
		// A decode that finished between the cache miss and Do already stored it.
		if g, ok := m.cache.peek(path); ok {
			return g, nil
		}
		// Decoders run on LoadAsync goroutines; a panic there would end the process.
		defer func() {
			if r := recover(); r != nil {
				m.log.Error("model decoder panicked", zap.String("path", path), zap.Any("panic", r))
				err = fmt.Errorf("%w: %v", ErrDecodePanic, r)
			}
		}()
		m.log.Debug("decoding model", zap.String("path", path))
		g, err := m.decode(path)
		if err != nil {
			return nil, err
		}
		m.cache.Set(path, g)
		m.log.Info("model decoded",
			zap.String("path", path),
			zap.Int("nodes", len(g.Nodes)),
			zap.Int("meshes", g.MeshCount()))
		return g, nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %w", name, err)
	}
	if shared {
		m.log.Debug("model decode shared", zap.String("path", path))
	}
	return v.(*scene.Graph).Clone(), nil
}

// LoadAsync loads name on a goroutine and posts done to the main loop.
func (m *Manager) LoadAsync(name string, done func(*scene.Graph, error)) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.poster.Post(func() { done(nil, ErrClosed) })
		return
	}
	m.wg.Add(1)
	m.mu.Unlock()

	go func() {
		defer m.wg.Done()
		g, err := m.Load(name)
		m.poster.Post(func() { done(g, err) })
	}()
}

// Wait blocks until in-flight async loads have posted their results.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Close rejects new async loads, waits for running ones and drops the cache.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.wg.Wait()
	m.cache.Clear()
}

// Stats returns cache statistics.
func (m *Manager) Stats() (hits, misses int) {
	return m.cache.Stats()
}

// Cache is an in-memory cache of decoded graphs keyed by path.
type Cache struct {
	data map[string]*scene.Graph
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*scene.Graph),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) (*scene.Graph, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return g, ok
}

func (c *Cache) peek(key string) (*scene.Graph, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.data[key]
	return g, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, g *scene.Graph) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = g
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*scene.Graph)
	c.hits = 0
	c.misses = 0
}

// Len returns the number of cached graphs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
