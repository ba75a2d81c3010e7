package host

import (
	"slices"
	"sync"
)

// FrameQueue holds requested frame callbacks. Callbacks requested while RunDue is running
// wait for the next RunDue, which is what keeps a self-rescheduling loop at one step per frame.
type FrameQueue struct {
	mu    sync.Mutex
	next  FrameID
	cbs   map[FrameID]func()
	order []FrameID
}

// Request queues cb and returns its ID.
func (q *FrameQueue) Request(cb func()) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.cbs == nil {
		q.cbs = make(map[FrameID]func())
	}
	q.next++
	q.cbs[q.next] = cb
	q.order = append(q.order, q.next)
	return q.next
}

// Cancel drops a queued callback. Unknown IDs are ignored.
func (q *FrameQueue) Cancel(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.cbs, id)
}

// RunDue runs every callback queued before the call, in request order, and returns how many ran.
func (q *FrameQueue) RunDue() int {
	q.mu.Lock()
	order := q.order
	q.order = nil
	due := make([]func(), 0, len(order))
	for _, id := range order {
		if cb, ok := q.cbs[id]; ok {
			due = append(due, cb)
			delete(q.cbs, id)
		}
	}
	q.mu.Unlock()
	for _, cb := range due {
		cb()
	}
	return len(due)
}

// Pending returns how many callbacks are queued.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.cbs)
}

// Listeners is a set of resize listeners notified in registration order.
type Listeners struct {
	mu   sync.Mutex
	next ListenerID
	ids  []ListenerID
	fns  map[ListenerID]func()
}

// Add registers fn.
func (l *Listeners) Add(fn func()) ListenerID {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[ListenerID]func())
	}
	l.next++
	l.fns[l.next] = fn
	l.ids = append(l.ids, l.next)
	return l.next
}

// Remove unregisters a listener. Unknown IDs are ignored.
func (l *Listeners) Remove(id ListenerID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.fns, id)
	l.ids = slices.DeleteFunc(l.ids, func(x ListenerID) bool { return x == id })
}

// Notify calls every listener registered at the time of the call.
func (l *Listeners) Notify() {
	l.mu.Lock()
	fns := make([]func(), 0, len(l.ids))
	for _, id := range l.ids {
		fns = append(fns, l.fns[id])
	}
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Len returns how many listeners are registered.
func (l *Listeners) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.ids)
}

// Tasks is a queue of work posted from any goroutine and drained on the frame thread.
type Tasks struct {
	mu  sync.Mutex
	fns []func()
}

// Post queues fn.
func (t *Tasks) Post(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fns = append(t.fns, fn)
}

// Drain runs queued work, including work queued while draining, and returns how many ran.
func (t *Tasks) Drain() int {
	n := 0
	for {
		t.mu.Lock()
		fns := t.fns
		t.fns = nil
		t.mu.Unlock()
		if len(fns) == 0 {
			return n
		}
		for _, fn := range fns {
			fn()
		}
		n += len(fns)
	}
}

// Pending returns how much work is queued.
func (t *Tasks) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.fns)
}

// Views tracks OnShow handlers and the unmount functions of the view currently shown.
type Views struct {
	mu       sync.Mutex
	handlers []ShowHandler
	unmounts []func()
	current  int
	shown    bool
}

// Add registers a handler.
func (v *Views) Add(h ShowHandler) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.handlers = append(v.handlers, h)
}

// Show hides the current view, then calls every handler with viewID.
func (v *Views) Show(viewID int) {
	v.Hide()
	v.mu.Lock()
	handlers := slices.Clone(v.handlers)
	v.mu.Unlock()
	var unmounts []func()
	for _, h := range handlers {
		if u := h(viewID); u != nil {
			unmounts = append(unmounts, u)
		}
	}
	v.mu.Lock()
	v.unmounts = unmounts
	v.current = viewID
	v.shown = true
	v.mu.Unlock()
}

// Hide runs the unmount functions of the current view in reverse mount order.
func (v *Views) Hide() {
	v.mu.Lock()
	unmounts := v.unmounts
	v.unmounts = nil
	v.shown = false
	v.mu.Unlock()
	for i := len(unmounts) - 1; i >= 0; i-- {
		unmounts[i]()
	}
}

// Current returns the shown view ID and whether any view is shown.
func (v *Views) Current() (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.shown
}
