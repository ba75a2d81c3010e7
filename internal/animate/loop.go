// Package animate drives the per-frame rotation and redraw of a scene.
package animate

import (
	"math/rand/v2"
	"sync"

	"shapeview/internal/host"
	"shapeview/internal/logger"
	"shapeview/internal/scene"
)

// MaxSpin is the exclusive upper bound of the random per-frame rotation step, in radians.
const MaxSpin = 0.1

// Renderer draws a scene through its camera.
type Renderer interface {
	Render(scn *scene.Scene) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(scn *scene.Scene) error

// Render calls f.
func (f RendererFunc) Render(scn *scene.Scene) error {
	return f(scn)
}

// Loop rotates every shape by a random step each frame and renders the scene. It reschedules
// itself through the FrameScheduler until Stop is called.
type Loop struct {
	frames   host.FrameScheduler
	scn      *scene.Scene
	renderer Renderer
	rng      *rand.Rand
	log      *logger.Logger

	mu      sync.Mutex
	pending host.FrameID
	stopped bool
	frame   uint64
	lastErr string
}

// Options tune a Loop. Zero values are fine.
type Options struct {
	Rand *rand.Rand
	Log  *logger.Logger
}

// Start requests the first frame and returns the running loop.
func Start(frames host.FrameScheduler, scn *scene.Scene, r Renderer, opts Options) *Loop {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	l := &Loop{
		frames:   frames,
		scn:      scn,
		renderer: r,
		rng:      rng,
		log:      opts.Log,
	}
	l.mu.Lock()
	l.pending = frames.RequestFrame(l.tick)
	l.mu.Unlock()
	return l
}

// tick is one frame: spin, render, reschedule. Work is O(shapes) and does no I/O.
func (l *Loop) tick() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.frame++
	l.mu.Unlock()

	for _, s := range l.scn.Shapes() {
		s.Rotation.X += float32(l.rng.Float64() * MaxSpin)
		s.Rotation.Y += float32(l.rng.Float64() * MaxSpin)
	}
	if err := l.renderer.Render(l.scn); err != nil {
		l.reportOnce(err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.pending = l.frames.RequestFrame(l.tick)
}

// reportOnce logs err unless it repeats the previous error, so a broken renderer does not flood the log.
func (l *Loop) reportOnce(err error) {
	msg := err.Error()
	l.mu.Lock()
	repeat := msg == l.lastErr
	l.lastErr = msg
	l.mu.Unlock()
	if !repeat && l.log != nil {
		l.log.Logf("animate: render: %s", msg)
	}
}

// Stop cancels the pending frame. No frame runs after Stop returns. Safe to call more than once.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	l.frames.CancelFrame(l.pending)
}

// Frames returns how many frames have run.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frame
}
