// Package lifecycle mounts the shape scene when its view is shown and tears it down when the view goes away.
package lifecycle

import (
	"context"
	"fmt"
	"image"
	"math/rand/v2"
	"sync"

	"shapeview/internal/animate"
	"shapeview/internal/host"
	"shapeview/internal/logger"
	"shapeview/internal/populate"
	"shapeview/internal/record"
	"shapeview/internal/scene"
	"shapeview/internal/shapes"
	"shapeview/internal/viewport"
)

// Surface is the render target a mounted scene draws into.
type Surface interface {
	host.Surface
	viewport.Resizer
	animate.Renderer
	Release()
}

// SurfaceFactory creates a surface of the given size.
type SurfaceFactory func(width, height int) (Surface, error)

// BackgroundLoader fetches and decodes the backdrop image. It runs off the frame thread.
type BackgroundLoader func(ctx context.Context, source string) (image.Image, error)

// Deps are the collaborators of a mounted view.
type Deps struct {
	Source        record.Source
	NewSurface    SurfaceFactory
	Background    BackgroundLoader
	BackgroundURL string
	Log           *logger.Logger
	// Rand seeds the shape factory and the animation of each mount. Nil uses random seeds.
	Rand func() *rand.Rand
	// Populated, if set, is called on the frame thread after each population run.
	Populated func(populate.Result)
}

// Manager owns at most one mounted scene at a time.
type Manager struct {
	host   host.Host
	viewID int
	deps   Deps

	mu      sync.Mutex
	current *mount
	mounts  int
}

type mount struct {
	scn  *scene.Scene
	surf Surface
	loop *animate.Loop
	vp   *viewport.Controller
	once sync.Once
}

// Register creates a Manager for viewID and subscribes it to h's show events.
func Register(h host.Host, viewID int, deps Deps) *Manager {
	m := &Manager{host: h, viewID: viewID, deps: deps}
	h.OnShow(m.handleShow)
	return m
}

// Scene returns the mounted scene, or nil.
func (m *Manager) Scene() *scene.Scene {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	return m.current.scn
}

// Mounts returns how many times the scene has been mounted.
func (m *Manager) Mounts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mounts
}

// handleShow never panics or returns an error to the host; failures are logged.
func (m *Manager) handleShow(viewID int) (unmount func()) {
	if viewID != m.viewID {
		m.logf("lifecycle: view %d shown, scene lives on view %d", viewID, m.viewID)
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			m.logf("lifecycle: mount view %d: panic: %v", viewID, r)
			unmount = nil
		}
	}()
	mt, err := m.mount()
	if err != nil {
		m.logf("lifecycle: mount view %d: %v", viewID, err)
		return nil
	}
	return func() { m.unmount(mt) }
}

func (m *Manager) mount() (*mount, error) {
	m.mu.Lock()
	prev := m.current
	m.mu.Unlock()
	if prev != nil {
		m.unmount(prev)
	}

	w, h := m.host.Size()
	scn := scene.New(w, h, m.deps.BackgroundURL)
	mt := &mount{scn: scn}
	ok := false
	defer func() {
		if !ok {
			m.unmount(mt)
		}
	}()

	if m.deps.NewSurface == nil {
		return nil, fmt.Errorf("no surface factory")
	}
	surf, err := m.deps.NewSurface(w, h)
	if err != nil {
		return nil, fmt.Errorf("create surface: %w", err)
	}
	mt.surf = surf
	m.host.Attach(surf)

	p := &populate.Populator{
		Source:     m.deps.Source,
		Factory:    shapes.NewFactory(m.rand()),
		Dispatcher: m.host,
		Log:        m.deps.Log,
		Done:       m.deps.Populated,
	}
	p.Run(context.Background(), scn)
	m.loadBackground(scn)

	mt.loop = animate.Start(m.host, scn, surf, animate.Options{Rand: m.rand(), Log: m.deps.Log})
	mt.vp = viewport.Attach(m.host, scn.Camera, surf)

	m.mu.Lock()
	m.current = mt
	m.mounts++
	m.mu.Unlock()
	ok = true
	m.logf("lifecycle: mounted view %d (%dx%d)", m.viewID, w, h)
	return mt, nil
}

// loadBackground fetches the backdrop in the background; frames render without it until it lands.
func (m *Manager) loadBackground(scn *scene.Scene) {
	src := m.deps.BackgroundURL
	if m.deps.Background == nil || src == "" {
		return
	}
	go func() {
		img, err := m.deps.Background(context.Background(), src)
		m.host.Post(func() {
			if err != nil {
				m.logf("lifecycle: background: %v", err)
				return
			}
			scn.SetBackgroundImage(img)
		})
	}()
}

// unmount stops the loop, removes the resize listener, releases the scene and frees the surface.
func (m *Manager) unmount(mt *mount) {
	mt.once.Do(func() {
		if mt.loop != nil {
			mt.loop.Stop()
		}
		if mt.vp != nil {
			mt.vp.Detach()
		}
		mt.scn.Release()
		if mt.surf != nil {
			m.host.Detach(mt.surf)
			mt.surf.Release()
		}
		m.mu.Lock()
		if m.current == mt {
			m.current = nil
		}
		m.mu.Unlock()
		m.logf("lifecycle: unmounted view %d", m.viewID)
	})
}

func (m *Manager) rand() *rand.Rand {
	if m.deps.Rand != nil {
		return m.deps.Rand()
	}
	return nil
}

func (m *Manager) logf(format string, args ...any) {
	if m.deps.Log != nil {
		m.deps.Log.Logf(format, args...)
	}
}
