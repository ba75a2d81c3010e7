package animate

import (
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapeview/internal/host/hosttest"
	"shapeview/internal/logger"
	"shapeview/internal/scene"
	"shapeview/internal/shapes"
)

type recorder struct {
	renders int
	seen    []int
}

func (r *recorder) Render(scn *scene.Scene) error {
	r.renders++
	r.seen = append(r.seen, scn.Len())
	return nil
}

func newLoop(h *hosttest.Host, scn *scene.Scene, r Renderer) *Loop {
	return Start(h, scn, r, Options{Rand: rand.New(rand.NewPCG(5, 6)), Log: logger.Discard()})
}

func TestLoopRendersEmptySceneEveryFrame(t *testing.T) {
	h := hosttest.New(640, 480)
	scn := scene.New(640, 480, "")
	r := &recorder{}
	l := newLoop(h, scn, r)

	assert.Zero(t, r.renders, "first frame waits for the host")
	for i := 0; i < 5; i++ {
		require.Equal(t, 1, h.Tick())
	}
	assert.Equal(t, 5, r.renders)
	assert.Equal(t, uint64(5), l.Frames())
	assert.Equal(t, 1, h.PendingFrames())
}

func TestLoopSpinsShapesWithinStep(t *testing.T) {
	h := hosttest.New(640, 480)
	scn := scene.New(640, 480, "")
	a := &shapes.Shape{}
	b := &shapes.Shape{}
	scn.Add(a)
	scn.Add(b)
	newLoop(h, scn, &recorder{})

	prevA := a.Rotation
	for i := 0; i < 50; i++ {
		h.Tick()
		dx := a.Rotation.X - prevA.X
		dy := a.Rotation.Y - prevA.Y
		require.True(t, dx >= 0 && dx < MaxSpin, "dx=%v", dx)
		require.True(t, dy >= 0 && dy < MaxSpin, "dy=%v", dy)
		assert.Zero(t, a.Rotation.Z)
		prevA = a.Rotation
	}
	assert.NotEqual(t, a.Rotation, b.Rotation, "each shape gets its own random steps")
	assert.Greater(t, a.Rotation.X, float32(0))
}

func TestLoopPicksUpLateShapesNextFrame(t *testing.T) {
	h := hosttest.New(640, 480)
	scn := scene.New(640, 480, "")
	r := &recorder{}
	newLoop(h, scn, r)

	h.Tick()
	late := &shapes.Shape{}
	scn.Add(late)
	h.Tick()

	assert.Equal(t, []int{0, 1}, r.seen)
	assert.NotZero(t, late.Rotation.X+late.Rotation.Y)
}

func TestLoopStopCancelsPendingFrame(t *testing.T) {
	h := hosttest.New(640, 480)
	scn := scene.New(640, 480, "")
	r := &recorder{}
	l := newLoop(h, scn, r)
	h.Tick()

	l.Stop()
	l.Stop()
	assert.Zero(t, h.PendingFrames())
	assert.Zero(t, h.Tick())
	assert.Equal(t, 1, r.renders)
}

func TestLoopStopDuringFrame(t *testing.T) {
	h := hosttest.New(640, 480)
	scn := scene.New(640, 480, "")
	var l *Loop
	l = newLoop(h, scn, RendererFunc(func(*scene.Scene) error {
		l.Stop()
		return nil
	}))
	h.Tick()
	assert.Zero(t, h.PendingFrames(), "a loop stopped mid-frame does not reschedule")
}

func TestLoopLogsRepeatedRenderErrorOnce(t *testing.T) {
	h := hosttest.New(640, 480)
	scn := scene.New(640, 480, "")
	log := logger.Discard()
	Start(h, scn, RendererFunc(func(*scene.Scene) error { return errors.New("no gl context") }), Options{Log: log})
	for i := 0; i < 4; i++ {
		h.Tick()
	}
	var n int
	for _, line := range log.Lines() {
		if strings.Contains(line, "no gl context") {
			n++
		}
	}
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, h.PendingFrames(), "render errors do not stop the loop")
}
