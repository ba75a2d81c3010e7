// Package hosttest provides an in-memory host.Host driven explicitly by tests.
package hosttest

import (
	"slices"
	"sync"

	"shapeview/internal/host"
)

// Host records everything the viewer asks of it. Frames run only when Tick is called and posted
// work only when Drain is called, which keeps every test on a single timeline.
type Host struct {
	views     host.Views
	frames    host.FrameQueue
	listeners host.Listeners
	tasks     host.Tasks

	mu            sync.Mutex
	width, height int
	attached      []host.Surface
}

// New returns a Host with a width x height window.
func New(width, height int) *Host {
	return &Host{width: width, height: height}
}

// OnShow registers handler.
func (h *Host) OnShow(handler host.ShowHandler) { h.views.Add(handler) }

// Show hides the current view and calls every handler with viewID.
func (h *Host) Show(viewID int) { h.views.Show(viewID) }

// Hide runs the unmount functions returned by the last Show.
func (h *Host) Hide() { h.views.Hide() }

// RequestFrame queues cb for the next Tick.
func (h *Host) RequestFrame(cb func()) host.FrameID { return h.frames.Request(cb) }

// CancelFrame drops a queued callback.
func (h *Host) CancelFrame(id host.FrameID) { h.frames.Cancel(id) }

// PendingFrames returns how many callbacks are queued.
func (h *Host) PendingFrames() int { return h.frames.Pending() }

// Tick runs the callbacks queued before the call and returns how many ran.
func (h *Host) Tick() int { return h.frames.RunDue() }

// Size returns the window size.
func (h *Host) Size() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

// AddResizeListener registers fn.
func (h *Host) AddResizeListener(fn func()) host.ListenerID { return h.listeners.Add(fn) }

// RemoveResizeListener unregisters a listener.
func (h *Host) RemoveResizeListener(id host.ListenerID) { h.listeners.Remove(id) }

// Listeners returns how many resize listeners are registered.
func (h *Host) Listeners() int { return h.listeners.Len() }

// Resize changes the window size and notifies listeners.
func (h *Host) Resize(width, height int) {
	h.mu.Lock()
	h.width, h.height = width, height
	h.mu.Unlock()
	h.listeners.Notify()
}

// Attach adds s to the page.
func (h *Host) Attach(s host.Surface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attached = append(h.attached, s)
}

// Detach removes s from the page.
func (h *Host) Detach(s host.Surface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attached = slices.DeleteFunc(h.attached, func(a host.Surface) bool { return a == s })
}

// Attached returns the surfaces currently on the page.
func (h *Host) Attached() []host.Surface {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.attached)
}

// Post queues fn for Drain. Safe to call from any goroutine.
func (h *Host) Post(fn func()) { h.tasks.Post(fn) }

// Drain runs queued work and returns how many ran.
func (h *Host) Drain() int { return h.tasks.Drain() }

// PendingPosts returns how much work is queued.
func (h *Host) PendingPosts() int { return h.tasks.Pending() }

var _ host.Host = (*Host)(nil)
