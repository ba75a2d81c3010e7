// Package scene holds the 3D world of one mounted view: camera, lights, backdrop and shapes.
package scene

import (
	"image"
	"sync"

	"shapeview/internal/shapes"
)

// LightKind distinguishes ambient from point lights.
type LightKind int

const (
	LightAmbient LightKind = iota
	LightPoint
)

// Light is an ambient or point light. Position is ignored for ambient lights.
type Light struct {
	Kind      LightKind
	Color     uint32
	Intensity float32
	Position  shapes.Vec3
}

// DefaultLights returns the fixed lighting: a dim ambient plus a magenta-pink and a blue-purple point light.
func DefaultLights() []Light {
	return []Light{
		{Kind: LightAmbient, Color: 0x404040, Intensity: 1},
		{Kind: LightPoint, Color: 0xB887ED, Intensity: 1.5, Position: shapes.Vec3{X: 20, Y: 20, Z: 45}},
		{Kind: LightPoint, Color: 0x436CE8, Intensity: 1.5, Position: shapes.Vec3{X: -20, Y: -15, Z: 45}},
	}
}

// Background is the backdrop image. Source is known at build time; Image arrives later.
type Background struct {
	Source string
	Image  image.Image
}

// Scene is the mutable world owned by one mounted view. It is mutated on the host's frame
// thread; the lock only guards against stray reads from tooling such as the debug overlay.
type Scene struct {
	Camera *Camera
	Lights []Light

	mu         sync.Mutex
	background Background
	shapes     []*shapes.Shape
	released   bool
}

// New returns an empty scene for a width x height viewport with the default camera and lights.
func New(width, height int, backgroundSource string) *Scene {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	return &Scene{
		Camera:     NewCamera(aspect),
		Lights:     DefaultLights(),
		background: Background{Source: backgroundSource},
	}
}

// Add inserts s. It returns false, leaving the scene untouched, if s is nil or the scene was released.
func (sc *Scene) Add(s *shapes.Shape) bool {
	if s == nil {
		return false
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.released {
		return false
	}
	sc.shapes = append(sc.shapes, s)
	return true
}

// Shapes returns the shapes currently in the scene. The slice is a snapshot; the shapes are shared.
func (sc *Scene) Shapes() []*shapes.Shape {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	out := make([]*shapes.Shape, len(sc.shapes))
	copy(out, sc.shapes)
	return out
}

// Len returns the number of shapes.
func (sc *Scene) Len() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.shapes)
}

// SetBackgroundImage stores the decoded backdrop. Ignored after Release.
func (sc *Scene) SetBackgroundImage(img image.Image) bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.released {
		return false
	}
	sc.background.Image = img
	return true
}

// Background returns the current backdrop; Image is nil until loaded.
func (sc *Scene) Background() Background {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.background
}

// Release drops all shapes and the backdrop. Later mutations are no-ops.
func (sc *Scene) Release() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.released = true
	sc.shapes = nil
	sc.background.Image = nil
}

// Released reports whether Release was called.
func (sc *Scene) Released() bool {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.released
}
