package carousel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/khai-campus/campusview/internal/engine/frame"
)

func campus() []Entry {
	return []Entry{
		{FileName: "KHAI.glb", Subtitle: "campus"},
		{FileName: "ULK_KHAI.glb", Subtitle: "lab building"},
	}
}

func TestAdvanceRetreatWrap(t *testing.T) {
	c := New(campus(), nil)
	require.Equal(t, 0, c.Index())

	c.Advance()
	assert.Equal(t, 1, c.Index())
	c.Advance()
	assert.Equal(t, 0, c.Index())

	c.Retreat()
	assert.Equal(t, 1, c.Index())
	c.Retreat()
	assert.Equal(t, 0, c.Index())
}

func TestEmptyCarouselIsTotal(t *testing.T) {
	c := New(nil, nil)
	c.Advance()
	c.Retreat()
	c.SetIndex(0)
	c.MarkLoaded(0)

	_, ok := c.Current()
	assert.False(t, ok)
	assert.Zero(t, c.Index())
	assert.Zero(t, c.LoadedPercent())
	assert.Zero(t, c.LoadedCount())
}

func TestSetIndex(t *testing.T) {
	c := New(campus(), nil)
	c.SetIndex(1)
	assert.Equal(t, 1, c.Index())

	c.SetIndex(2)
	c.SetIndex(-1)
	assert.Equal(t, 1, c.Index())

	entry, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "ULK_KHAI.glb", entry.FileName)
}

func TestMarkLoadedIdempotent(t *testing.T) {
	c := New(campus(), nil)
	c.MarkLoaded(0)
	c.MarkLoaded(0)
	assert.Equal(t, 1, c.LoadedCount())
	assert.Equal(t, 50.0, c.LoadedPercent())
	assert.True(t, c.IsLoaded(0))
	assert.False(t, c.IsLoaded(1))

	c.MarkLoaded(5)
	c.MarkLoaded(-1)
	assert.Equal(t, 1, c.LoadedCount())

	c.MarkLoaded(1)
	assert.Equal(t, 100.0, c.LoadedPercent())
}

func TestEntriesAreCopied(t *testing.T) {
	src := campus()
	c := New(src, nil)
	src[0].FileName = "changed.glb"

	got := c.Entries()
	assert.Equal(t, "KHAI.glb", got[0].FileName)
	got[1].FileName = "changed.glb"
	assert.Equal(t, "ULK_KHAI.glb", c.Entries()[1].FileName)
	assert.Equal(t, 2, c.Len())
}

func TestToggleFullscreenRestoresCardNextTick(t *testing.T) {
	sched := frame.NewScheduler()
	c := New(campus(), sched)
	require.True(t, c.ShowCard())

	c.ToggleFullscreen()
	assert.True(t, c.IsFullscreen())
	assert.False(t, c.ShowCard())

	sched.Tick()
	assert.True(t, c.ShowCard())
	assert.True(t, c.IsFullscreen())

	c.ToggleFullscreen()
	assert.False(t, c.IsFullscreen())
	assert.False(t, c.ShowCard())
	sched.Tick()
	assert.True(t, c.ShowCard())
}

func TestToggleFullscreenWithoutDeferrer(t *testing.T) {
	c := New(campus(), nil)
	c.ToggleFullscreen()
	assert.True(t, c.IsFullscreen())
	assert.True(t, c.ShowCard())
}

func TestAdvanceFullCycleReturnsToStart(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "n")
		start := rapid.IntRange(0, n-1).Draw(t, "start")
		c := New(make([]Entry, n), nil)
		c.SetIndex(start)

		for i := 0; i < n; i++ {
			c.Advance()
		}
		if c.Index() != start {
			t.Fatalf("after %d advances index = %d, want %d", n, c.Index(), start)
		}
	})
}

func TestRetreatUndoesAdvance(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 20).Draw(t, "n")
		steps := rapid.IntRange(0, 50).Draw(t, "steps")
		c := New(make([]Entry, n), nil)

		for i := 0; i < steps; i++ {
			c.Advance()
		}
		for i := 0; i < steps; i++ {
			c.Retreat()
		}
		if c.Index() != 0 {
			t.Fatalf("index = %d after balanced navigation", c.Index())
		}
	})
}

func TestLoadedPercentMonotonic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 10).Draw(t, "n")
		marks := rapid.SliceOf(rapid.IntRange(-2, n+2)).Draw(t, "marks")
		c := New(make([]Entry, n), nil)

		prev := c.LoadedPercent()
		for _, i := range marks {
			c.MarkLoaded(i)
			cur := c.LoadedPercent()
			if cur < prev {
				t.Fatalf("percent decreased from %v to %v", prev, cur)
			}
			if c.LoadedCount() > n {
				t.Fatalf("loaded count %d exceeds %d", c.LoadedCount(), n)
			}
			prev = cur
		}

		for i := 0; i < n; i++ {
			c.MarkLoaded(i)
		}
		if c.LoadedPercent() != 100 {
			t.Fatalf("percent = %v after loading everything", c.LoadedPercent())
		}
	})
}
