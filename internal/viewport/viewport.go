// Package viewport keeps a camera and its render surface matched to the window size.
package viewport

import (
	"sync"

	"shapeview/internal/host"
	"shapeview/internal/scene"
)

// Resizer is a render surface that can change size.
type Resizer interface {
	Resize(width, height int)
}

// Controller listens for window resizes until Detach.
type Controller struct {
	win  host.Window
	cam  *scene.Camera
	surf Resizer

	mu       sync.Mutex
	id       host.ListenerID
	attached bool
}

// Attach registers one resize listener on win.
func Attach(win host.Window, cam *scene.Camera, surf Resizer) *Controller {
	c := &Controller{win: win, cam: cam, surf: surf}
	c.mu.Lock()
	c.id = win.AddResizeListener(c.onResize)
	c.attached = true
	c.mu.Unlock()
	return c
}

func (c *Controller) onResize() {
	c.mu.Lock()
	attached := c.attached
	c.mu.Unlock()
	if !attached {
		return
	}
	w, h := c.win.Size()
	if w <= 0 || h <= 0 {
		return
	}
	c.cam.SetAspect(float32(w) / float32(h))
	c.cam.UpdateProjection()
	if c.surf != nil {
		c.surf.Resize(w, h)
	}
}

// Detach removes the listener. Later resizes leave the camera and surface alone.
func (c *Controller) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.attached {
		return
	}
	c.attached = false
	c.win.RemoveResizeListener(c.id)
}
