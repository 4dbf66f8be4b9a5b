// Package viewport models the host area a render session draws into.
package viewport

import "sync"

// Container is a resizable drawing area. Size changes are reported to observers.
type Container struct {
	mu        sync.Mutex
	width     int
	height    int
	observers map[int]func(width, height int)
	nextID    int
}

// NewContainer creates a container with an initial size. A zero size means
// the container has not been laid out yet.
func NewContainer(width, height int) *Container {
	return &Container{
		width:     width,
		height:    height,
		observers: make(map[int]func(int, int)),
	}
}

// Size returns the current size in pixels.
func (c *Container) Size() (width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Attached reports whether the container has a usable, non-zero size.
func (c *Container) Attached() bool {
	w, h := c.Size()
	return w > 0 && h > 0
}

// SetSize updates the size and notifies observers if it changed.
func (c *Container) SetSize(width, height int) {
	c.mu.Lock()
	if c.width == width && c.height == height {
		c.mu.Unlock()
		return
	}
	c.width, c.height = width, height
	fns := make([]func(int, int), 0, len(c.observers))
	for id := 0; id < c.nextID; id++ {
		if fn, ok := c.observers[id]; ok {
			fns = append(fns, fn)
		}
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(width, height)
	}
}

// Observe registers fn to be called on every size change.
func (c *Container) Observe(fn func(width, height int)) *Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	return &Subscription{container: c, id: id}
}

// Observers returns the number of connected observers.
func (c *Container) Observers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.observers)
}

// Subscription is a registered resize observer.
type Subscription struct {
	container *Container
	id        int
	once      sync.Once
}

// Disconnect stops notifications. Safe to call more than once.
func (s *Subscription) Disconnect() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.container.mu.Lock()
		delete(s.container.observers, s.id)
		s.container.mu.Unlock()
	})
}
