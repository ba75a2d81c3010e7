// Package host describes what the viewer needs from the program hosting it: view show events,
// per-frame callbacks, window size and resize notifications, a page to attach surfaces to, and a
// way to run work back on the frame thread.
package host

// ShowHandler is called when a view is shown. It returns the function that unmounts whatever it
// mounted, or nil if it did nothing for viewID.
type ShowHandler func(viewID int) (unmount func())

// Events delivers view show notifications.
type Events interface {
	OnShow(handler ShowHandler)
}

// FrameID identifies a requested frame callback.
type FrameID uint64

// FrameScheduler runs callbacks once on the next display frame.
type FrameScheduler interface {
	RequestFrame(cb func()) FrameID
	CancelFrame(id FrameID)
}

// ListenerID identifies a resize listener.
type ListenerID uint64

// Window reports the drawable size and notifies listeners when it changes.
type Window interface {
	Size() (width, height int)
	AddResizeListener(fn func()) ListenerID
	RemoveResizeListener(id ListenerID)
}

// Surface is something a view draws into and the page displays.
type Surface interface {
	Size() (width, height int)
}

// Page displays attached surfaces.
type Page interface {
	Attach(s Surface)
	Detach(s Surface)
}

// Dispatcher queues fn to run on the frame thread before the next frame.
type Dispatcher interface {
	Post(fn func())
}

// Host is everything above.
type Host interface {
	Events
	FrameScheduler
	Window
	Page
	Dispatcher
}
