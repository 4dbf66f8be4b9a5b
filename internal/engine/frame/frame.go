// Package frame provides a cooperative per-frame callback scheduler.
//
// All callbacks run on the goroutine that calls Tick, which is the main
// (GL) thread. Post is the only method safe to call from other goroutines.
package frame

import "sync"

// Handle identifies a pending frame request. The zero Handle is never issued.
type Handle uint64

// Scheduler queues work for the next frame.
type Scheduler struct {
	mu       sync.Mutex
	nextID   Handle
	frames   map[Handle]func()
	order    []Handle
	deferred []func()
	posted   []func()
	ticks    uint64
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{frames: make(map[Handle]func())}
}

// RequestFrame schedules fn to run once on the next Tick.
func (s *Scheduler) RequestFrame(fn func()) Handle {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	h := s.nextID
	s.frames[h] = fn
	s.order = append(s.order, h)
	return h
}

// CancelFrame drops a pending frame request. Unknown or already run handles are ignored.
func (s *Scheduler) CancelFrame(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.frames, h)
}

// Defer runs fn on the next Tick, before frame callbacks.
func (s *Scheduler) Defer(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deferred = append(s.deferred, fn)
}

// Post hands fn from a background goroutine to the main loop.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posted = append(s.posted, fn)
}

// Tick runs posted completions, then deferred callbacks, then frame callbacks.
// Anything scheduled while Tick runs waits for the following Tick.
func (s *Scheduler) Tick() {
	s.mu.Lock()
	posted := s.posted
	deferred := s.deferred
	s.posted = nil
	s.deferred = nil
	order := s.order
	s.order = nil
	s.ticks++
	s.mu.Unlock()

	for _, fn := range posted {
		fn()
	}
	for _, fn := range deferred {
		fn()
	}

	for _, h := range order {
		// Looked up one by one so a callback can cancel a later one in the same batch.
		s.mu.Lock()
		fn, ok := s.frames[h]
		delete(s.frames, h)
		s.mu.Unlock()
		if ok {
			fn()
		}
	}
}

// Pending returns the number of queued callbacks of all kinds.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames) + len(s.deferred) + len(s.posted)
}

// Ticks returns how many times Tick has run.
func (s *Scheduler) Ticks() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}
