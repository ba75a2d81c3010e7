// Package graphics is the raylib window host and the renderer that draws shape scenes into it.
package graphics

import (
	"slices"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"

	"shapeview/internal/host"
)

// Options configure the window.
type Options struct {
	Title      string
	Width      int
	Height     int
	TargetFPS  int
	Fullscreen bool
}

// Host owns the window and runs the frame loop. Frame callbacks, posted work, show handlers
// and resize listeners all run on the goroutine that called Run.
type Host struct {
	opts Options

	views     host.Views
	frames    host.FrameQueue
	listeners host.Listeners
	tasks     host.Tasks

	mu            sync.Mutex
	width, height int
	surfaces      []host.Surface
}

// texturer is implemented by surfaces the host can composite.
type texturer interface {
	Texture() rl.Texture2D
}

// New returns a Host; the window opens in Run.
func New(opts Options) *Host {
	if opts.Title == "" {
		opts.Title = "shapeview"
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	if opts.TargetFPS <= 0 {
		opts.TargetFPS = 60
	}
	return &Host{opts: opts, width: opts.Width, height: opts.Height}
}

// Run opens the window, shows startView and loops until the window is closed. Each iteration
// it drains posted work, reports resizes, calls update (e.g. input), runs due frame callbacks,
// composites attached surfaces, then calls draw (e.g. console and overlay).
// ESC is left to the console; close via the window button.
func (h *Host) Run(startView int, update, draw func()) {
	flags := uint32(rl.FlagWindowResizable)
	width, height := h.opts.Width, h.opts.Height
	if h.opts.Fullscreen {
		flags |= rl.FlagFullscreenMode
		width, height = rl.GetMonitorWidth(0), rl.GetMonitorHeight(0)
	}
	rl.SetConfigFlags(flags)
	rl.InitWindow(int32(width), int32(height), h.opts.Title)
	defer rl.CloseWindow()
	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(int32(h.opts.TargetFPS))
	h.setSize(rl.GetScreenWidth(), rl.GetScreenHeight())

	h.Show(startView)
	defer h.Close()

	for !rl.WindowShouldClose() {
		h.tasks.Drain()
		if rl.IsWindowResized() {
			h.setSize(rl.GetScreenWidth(), rl.GetScreenHeight())
			h.listeners.Notify()
		}
		if update != nil {
			update()
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		h.frames.RunDue()
		h.composite()
		if draw != nil {
			draw()
		}
		rl.EndDrawing()
	}
}

// Show unmounts the current view and raises a show event for viewID.
func (h *Host) Show(viewID int) { h.views.Show(viewID) }

// Hide unmounts the current view.
func (h *Host) Hide() { h.views.Hide() }

// Close unmounts whatever is shown. Run calls it before closing the window.
func (h *Host) Close() { h.views.Hide() }

// View returns the shown view ID and whether one is shown.
func (h *Host) View() (int, bool) { return h.views.Current() }

// OnShow registers handler.
func (h *Host) OnShow(handler host.ShowHandler) { h.views.Add(handler) }

// RequestFrame queues cb for the next frame.
func (h *Host) RequestFrame(cb func()) host.FrameID { return h.frames.Request(cb) }

// CancelFrame drops a queued frame callback.
func (h *Host) CancelFrame(id host.FrameID) { h.frames.Cancel(id) }

// AddResizeListener registers fn, called on the frame thread after the window is resized.
func (h *Host) AddResizeListener(fn func()) host.ListenerID { return h.listeners.Add(fn) }

// RemoveResizeListener unregisters a listener.
func (h *Host) RemoveResizeListener(id host.ListenerID) { h.listeners.Remove(id) }

// Post queues fn to run on the frame thread. Safe to call from any goroutine.
func (h *Host) Post(fn func()) { h.tasks.Post(fn) }

// Size returns the window size in pixels.
func (h *Host) Size() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

func (h *Host) setSize(w, ht int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.width, h.height = w, ht
}

// Attach adds s to the composited surfaces.
func (h *Host) Attach(s host.Surface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.surfaces = append(h.surfaces, s)
}

// Detach removes s.
func (h *Host) Detach(s host.Surface) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.surfaces = slices.DeleteFunc(h.surfaces, func(a host.Surface) bool { return a == s })
}

// Surfaces returns how many surfaces are attached.
func (h *Host) Surfaces() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.surfaces)
}

// composite draws attached surfaces in attach order at the window origin. Render textures
// are stored bottom-up, hence the negative source height.
func (h *Host) composite() {
	h.mu.Lock()
	surfaces := slices.Clone(h.surfaces)
	h.mu.Unlock()
	for _, s := range surfaces {
		t, ok := s.(texturer)
		if !ok {
			continue
		}
		tex := t.Texture()
		src := rl.NewRectangle(0, 0, float32(tex.Width), -float32(tex.Height))
		rl.DrawTextureRec(tex, src, rl.Vector2{}, rl.White)
	}
}

var _ host.Host = (*Host)(nil)
