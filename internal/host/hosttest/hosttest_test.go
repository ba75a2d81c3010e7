package hosttest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFramesRunOncePerTick(t *testing.T) {
	h := New(100, 50)
	var runs int
	var loop func()
	loop = func() {
		runs++
		h.RequestFrame(loop)
	}
	h.RequestFrame(loop)

	assert.Equal(t, 1, h.Tick())
	assert.Equal(t, 1, h.Tick())
	assert.Equal(t, 2, runs)
	assert.Equal(t, 1, h.PendingFrames())
}

func TestCancelFrame(t *testing.T) {
	h := New(1, 1)
	id := h.RequestFrame(func() { t.Fatal("cancelled frame ran") })
	h.CancelFrame(id)
	assert.Zero(t, h.Tick())
}

func TestShowHideAndResize(t *testing.T) {
	h := New(100, 50)
	var unmounted, resized int
	h.OnShow(func(viewID int) func() {
		if viewID != 3 {
			return nil
		}
		return func() { unmounted++ }
	})
	id := h.AddResizeListener(func() { resized++ })

	h.Show(1)
	h.Show(3)
	h.Show(3)
	assert.Equal(t, 1, unmounted)
	h.Hide()
	assert.Equal(t, 2, unmounted)

	h.Resize(200, 100)
	h.RemoveResizeListener(id)
	h.Resize(300, 100)
	assert.Equal(t, 1, resized)
	w, ht := h.Size()
	assert.Equal(t, 300, w)
	assert.Equal(t, 100, ht)
}

func TestDrainRunsNestedPosts(t *testing.T) {
	h := New(1, 1)
	var order []int
	h.Post(func() {
		order = append(order, 1)
		h.Post(func() { order = append(order, 2) })
	})
	assert.Equal(t, 2, h.Drain())
	assert.Equal(t, []int{1, 2}, order)
}
