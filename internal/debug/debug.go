// Package debug draws optional runtime readouts in the top-right corner.
package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: only refresh the text every N frames to reduce allocations.
	updateInterval = 30
)

// SceneStats reports what the mounted view holds. ok is false when nothing is mounted.
type SceneStats func() (shapes int, ok bool)

// Debug holds the readout toggles. FPS and heap are off by default; the shape count shows
// whenever Stats is set and a view is mounted.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	Stats        SceneStats

	frameCount uint32
	lines      []string
	memStats   runtime.MemStats
}

// New returns a Debug with all readouts hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the FPS counter is drawn.
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
	d.lines = nil
}

// SetShowMemAlloc sets whether the heap allocation counter is drawn.
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
	d.lines = nil
}

// refresh rebuilds the readout lines.
func (d *Debug) refresh(fps int32) {
	if d.lines == nil {
		d.lines = make([]string, 0, 3)
	}
	d.lines = d.lines[:0]
	if d.ShowFPS {
		d.lines = append(d.lines, fmt.Sprintf("FPS: %d", fps))
	}
	if d.ShowMemAlloc {
		runtime.ReadMemStats(&d.memStats)
		d.lines = append(d.lines, fmt.Sprintf("Mem: %.2f MiB", float64(d.memStats.Alloc)/(1024*1024)))
	}
	if d.Stats != nil {
		if n, ok := d.Stats(); ok {
			d.lines = append(d.lines, fmt.Sprintf("Shapes: %d", n))
		}
	}
}

// Draw renders the enabled readouts, right-aligned. Call after the scene and console.
// Text is only recomputed every updateInterval frames, or right after a toggle.
func (d *Debug) Draw() {
	d.frameCount++
	if d.lines == nil || d.frameCount%updateInterval == 0 {
		d.refresh(rl.GetFPS())
	}
	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	for _, text := range d.lines {
		w := rl.MeasureText(text, fontSize)
		rl.DrawText(text, screenW-w-padding, y, fontSize, rl.Green)
		y += lineHeight
	}
}
