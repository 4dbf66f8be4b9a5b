package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttached(t *testing.T) {
	c := NewContainer(0, 0)
	assert.False(t, c.Attached())

	c.SetSize(800, 0)
	assert.False(t, c.Attached())

	c.SetSize(800, 600)
	assert.True(t, c.Attached())
}

func TestObserveNotifiesOnChangeOnly(t *testing.T) {
	c := NewContainer(800, 600)
	var sizes [][2]int
	c.Observe(func(w, h int) { sizes = append(sizes, [2]int{w, h}) })

	c.SetSize(800, 600)
	c.SetSize(1024, 768)
	c.SetSize(1024, 768)
	c.SetSize(640, 480)

	assert.Equal(t, [][2]int{{1024, 768}, {640, 480}}, sizes)
}

func TestDisconnect(t *testing.T) {
	c := NewContainer(10, 10)
	calls := 0
	sub := c.Observe(func(int, int) { calls++ })
	assert.Equal(t, 1, c.Observers())

	sub.Disconnect()
	sub.Disconnect()
	assert.Zero(t, c.Observers())

	c.SetSize(20, 20)
	assert.Zero(t, calls)

	var nilSub *Subscription
	nilSub.Disconnect()
}

func TestObserverMayDisconnectItself(t *testing.T) {
	c := NewContainer(10, 10)
	var sub *Subscription
	calls := 0
	sub = c.Observe(func(int, int) {
		calls++
		sub.Disconnect()
	})

	c.SetSize(20, 20)
	c.SetSize(30, 30)
	assert.Equal(t, 1, calls)
}
