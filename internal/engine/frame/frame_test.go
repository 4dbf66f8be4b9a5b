package frame

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFrameRunsOnce(t *testing.T) {
	s := NewScheduler()
	calls := 0
	h := s.RequestFrame(func() { calls++ })
	require.NotZero(t, h)

	s.Tick()
	s.Tick()
	assert.Equal(t, 1, calls)
	assert.Zero(t, s.Pending())
}

func TestCancelFrame(t *testing.T) {
	s := NewScheduler()
	calls := 0
	h := s.RequestFrame(func() { calls++ })
	s.CancelFrame(h)
	s.CancelFrame(h)
	s.CancelFrame(Handle(999))

	s.Tick()
	assert.Zero(t, calls)
}

func TestCallbackCanCancelLaterCallback(t *testing.T) {
	s := NewScheduler()
	var second Handle
	ran := false
	s.RequestFrame(func() { s.CancelFrame(second) })
	second = s.RequestFrame(func() { ran = true })

	s.Tick()
	assert.False(t, ran)
}

func TestRequestDuringTickWaitsForNextTick(t *testing.T) {
	s := NewScheduler()
	count := 0
	var loop func()
	loop = func() {
		count++
		s.RequestFrame(loop)
	}
	s.RequestFrame(loop)

	for i := 0; i < 5; i++ {
		s.Tick()
	}
	assert.Equal(t, 5, count)
	assert.Equal(t, 1, s.Pending())
	assert.EqualValues(t, 5, s.Ticks())
}

func TestTickOrder(t *testing.T) {
	s := NewScheduler()
	var got []string
	s.RequestFrame(func() { got = append(got, "frame") })
	s.Defer(func() { got = append(got, "deferred") })
	s.Post(func() { got = append(got, "posted") })

	s.Tick()
	assert.Equal(t, []string{"posted", "deferred", "frame"}, got)
}

func TestDeferDuringTickRunsNextTick(t *testing.T) {
	s := NewScheduler()
	value := false
	s.Defer(func() {
		s.Defer(func() { value = true })
	})

	s.Tick()
	assert.False(t, value)
	s.Tick()
	assert.True(t, value)
}

func TestPostFromGoroutines(t *testing.T) {
	s := NewScheduler()
	var wg sync.WaitGroup
	total := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Post(func() { total++ })
		}()
	}
	wg.Wait()

	s.Tick()
	assert.Equal(t, 50, total)
}
