// Package carousel holds the viewer host state: the ordered model list,
// the current slide, the loaded set and the fullscreen toggle.
package carousel

// Entry is one slide of the carousel.
type Entry struct {
	FileName string
	Title    string
	Subtitle string
}

// Deferrer runs a callback on the next scheduling tick.
type Deferrer interface {
	Defer(fn func())
}

// Carousel tracks navigation and load progress across a fixed list of entries.
// It is not safe for concurrent use; all calls come from the main loop.
type Carousel struct {
	entries     []Entry
	current     int
	loaded      map[int]struct{}
	loadedCount int
	fullscreen  bool
	showCard    bool
	deferrer    Deferrer
}

// New creates a carousel over entries. The slice is copied.
func New(entries []Entry, deferrer Deferrer) *Carousel {
	own := make([]Entry, len(entries))
	copy(own, entries)
	return &Carousel{
		entries:  own,
		loaded:   make(map[int]struct{}, len(own)),
		showCard: true,
		deferrer: deferrer,
	}
}

// Advance moves to the next slide, wrapping to the first.
func (c *Carousel) Advance() {
	n := len(c.entries)
	if n == 0 {
		return
	}
	c.current = (c.current + 1) % n
}

// Retreat moves to the previous slide, wrapping to the last.
func (c *Carousel) Retreat() {
	n := len(c.entries)
	if n == 0 {
		return
	}
	c.current = (c.current - 1 + n) % n
}

// SetIndex jumps to slide i. Out-of-range values are ignored.
func (c *Carousel) SetIndex(i int) {
	if i < 0 || i >= len(c.entries) {
		return
	}
	c.current = i
}

// MarkLoaded records that slide i finished loading. Repeats and out-of-range
// indices have no effect.
func (c *Carousel) MarkLoaded(i int) {
	if i < 0 || i >= len(c.entries) {
		return
	}
	if _, ok := c.loaded[i]; ok {
		return
	}
	c.loaded[i] = struct{}{}
	c.loadedCount++
}

// LoadedPercent returns the share of loaded slides in [0, 100].
func (c *Carousel) LoadedPercent() float64 {
	n := len(c.entries)
	if n == 0 {
		return 0
	}
	if c.loadedCount == n {
		return 100
	}
	return float64(c.loadedCount) / float64(n) * 100
}

// ToggleFullscreen flips fullscreen mode and hides the card until the next tick.
func (c *Carousel) ToggleFullscreen() {
	c.showCard = false
	c.fullscreen = !c.fullscreen
	if c.deferrer == nil {
		c.showCard = true
		return
	}
	c.deferrer.Defer(func() { c.showCard = true })
}

// Current returns the current entry. ok is false when the carousel is empty.
func (c *Carousel) Current() (entry Entry, ok bool) {
	if len(c.entries) == 0 {
		return Entry{}, false
	}
	return c.entries[c.current], true
}

// Index returns the current slide index.
func (c *Carousel) Index() int { return c.current }

// Entries returns a copy of the slide list.
func (c *Carousel) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of slides.
func (c *Carousel) Len() int { return len(c.entries) }

// IsFullscreen reports whether fullscreen mode is on.
func (c *Carousel) IsFullscreen() bool { return c.fullscreen }

// ShowCard reports whether the card and viewer should be drawn this frame.
func (c *Carousel) ShowCard() bool { return c.showCard }

// LoadedCount returns the number of distinct loaded slides.
func (c *Carousel) LoadedCount() int { return c.loadedCount }

// IsLoaded reports whether slide i has loaded.
func (c *Carousel) IsLoaded(i int) bool {
	_, ok := c.loaded[i]
	return ok
}
