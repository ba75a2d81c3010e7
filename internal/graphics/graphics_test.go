package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapeview/internal/scene"
	"shapeview/internal/shapes"
)

func TestTorusParams(t *testing.T) {
	ratio, size, radSeg, sides, ok := torusParams(shapes.TorusGeometry{
		Radius: 10, Tube: 3, RadialSegments: 16, TubularSegments: shapes.TorusTubularSegments,
	})
	require.True(t, ok)
	assert.InDelta(t, 0.3, ratio, 1e-6)
	assert.Equal(t, float32(20), size)
	assert.Equal(t, 100, radSeg)
	assert.Equal(t, 16, sides)

	_, _, _, sides, ok = torusParams(shapes.TorusGeometry{Radius: 4, Tube: 1, RadialSegments: 0, TubularSegments: 100})
	require.True(t, ok)
	assert.Equal(t, torusMinSides, sides)

	_, _, radSeg, sides, ok = torusParams(shapes.TorusGeometry{Radius: 4, Tube: 1, RadialSegments: 1_000_000, TubularSegments: 1_000_000})
	require.True(t, ok)
	assert.Equal(t, shapes.MaxTorusRadialSegments, sides)
	assert.Equal(t, shapes.MaxTorusRadialSegments, radSeg)

	_, _, _, _, ok = torusParams(shapes.TorusGeometry{Radius: 0, Tube: 1, RadialSegments: 8})
	assert.False(t, ok)
	_, _, _, _, ok = torusParams(shapes.TorusGeometry{Radius: -2, Tube: 1, RadialSegments: 8})
	assert.False(t, ok)
}

func TestCollectLighting(t *testing.T) {
	lt := collectLighting(scene.DefaultLights(), shapes.Vec3{Z: 70})

	assert.InDeltaSlice(t, []float32{0x40 / 255.0, 0x40 / 255.0, 0x40 / 255.0}, lt.ambient[:], 1e-6)
	assert.Equal(t, int32(2), lt.count)
	assert.Equal(t, []float32{20, 20, 45, -20, -15, 45}, lt.positions[:6])
	assert.InDelta(t, 1.5*0xB8/255.0, lt.colors[0], 1e-6)
	assert.InDelta(t, 1.5*0xE8/255.0, lt.colors[5], 1e-6)
	assert.Zero(t, lt.colors[6])
	assert.Equal(t, [3]float32{0, 0, 70}, lt.viewPos)
}

func TestCollectLightingCapsPointLights(t *testing.T) {
	var lights []scene.Light
	for i := range maxPointLights + 2 {
		lights = append(lights, scene.Light{Kind: scene.LightPoint, Color: 0xFFFFFF, Intensity: 1, Position: shapes.Vec3{X: float32(i)}})
	}
	lt := collectLighting(lights, shapes.Vec3{})
	assert.Equal(t, int32(maxPointLights), lt.count)
	assert.Equal(t, float32(maxPointLights-1), lt.positions[(maxPointLights-1)*3])
}

func TestColors(t *testing.T) {
	assert.Equal(t, [3]float32{1, 0, 128.0 / 255}, linearColor(0xFF0080))

	c := rgba(0x123456, 1)
	assert.Equal(t, uint8(0x12), c.R)
	assert.Equal(t, uint8(0x34), c.G)
	assert.Equal(t, uint8(0x56), c.B)
	assert.Equal(t, uint8(255), c.A)
	assert.Equal(t, uint8(0), rgba(0, -1).A)
	assert.Equal(t, uint8(255), rgba(0, 3).A)
}

func TestMatrixKeepsColumnMajorOrder(t *testing.T) {
	var m scene.Mat4
	for i := range m {
		m[i] = float32(i)
	}
	r := matrix(m)
	assert.Equal(t, float32(0), r.M0)
	assert.Equal(t, float32(3), r.M3)
	assert.Equal(t, float32(11), r.M11)
	assert.Equal(t, float32(14), r.M14)
}

func TestModelMatrixTranslates(t *testing.T) {
	m := modelMatrix(shapes.Vec3{X: 1, Y: 2, Z: 3}, shapes.Vec3{})
	assert.Equal(t, float32(1), m.M12)
	assert.Equal(t, float32(2), m.M13)
	assert.Equal(t, float32(3), m.M14)
	assert.Equal(t, float32(1), m.M0)
}

type fakeSurface struct{ w, h int }

func (f *fakeSurface) Size() (int, int) { return f.w, f.h }

func TestHostBookkeepingWithoutWindow(t *testing.T) {
	h := New(Options{})
	w, ht := h.Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, ht)

	a, b := &fakeSurface{1, 1}, &fakeSurface{2, 2}
	h.Attach(a)
	h.Attach(b)
	h.Detach(a)
	assert.Equal(t, 1, h.Surfaces())

	var mounted, unmounted int
	h.OnShow(func(viewID int) func() {
		mounted++
		return func() { unmounted++ }
	})
	h.Show(5)
	h.Show(6)
	id, shown := h.View()
	assert.Equal(t, 6, id)
	assert.True(t, shown)
	h.Close()
	assert.Equal(t, 2, mounted)
	assert.Equal(t, 2, unmounted)
}
