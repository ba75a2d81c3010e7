package scene

import (
	"image"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapeview/internal/shapes"
)

func TestNewSceneDefaults(t *testing.T) {
	sc := New(1600, 800, "bg.png")

	cam := sc.Camera
	assert.Equal(t, float32(75), cam.FovY)
	assert.Equal(t, float32(2), cam.Aspect)
	assert.Equal(t, float32(0.1), cam.Near)
	assert.Equal(t, float32(1000), cam.Far)
	assert.Equal(t, shapes.Vec3{Z: 70}, cam.Position)
	assert.Equal(t, shapes.Vec3{}, cam.Target)

	require.Len(t, sc.Lights, 3)
	assert.Equal(t, LightAmbient, sc.Lights[0].Kind)
	var points int
	for _, l := range sc.Lights {
		if l.Kind == LightPoint {
			points++
		}
	}
	assert.Equal(t, 2, points)
	assert.Equal(t, uint32(0xB887ED), sc.Lights[1].Color)
	assert.Equal(t, uint32(0x436CE8), sc.Lights[2].Color)

	assert.Equal(t, Background{Source: "bg.png"}, sc.Background())
	assert.Zero(t, sc.Len())
}

func TestNewSceneZeroViewport(t *testing.T) {
	sc := New(0, 0, "")
	assert.Equal(t, float32(1), sc.Camera.Aspect)
}

func TestProjectionFollowsAspect(t *testing.T) {
	cam := NewCamera(1)
	p1 := cam.Projection()
	f := 1 / math32.Tan(75*math32.Pi/360)
	assert.InDelta(t, f, p1[5], 1e-5)
	assert.InDelta(t, f, p1[0], 1e-5)
	assert.Equal(t, float32(-1), p1[11])

	cam.SetAspect(2)
	assert.Equal(t, p1, cam.Projection(), "projection changes only after UpdateProjection")
	cam.UpdateProjection()
	assert.InDelta(t, f/2, cam.Projection()[0], 1e-5)

	cam.SetAspect(0)
	cam.SetAspect(float32(math32.Inf(1)))
	assert.Equal(t, float32(2), cam.Aspect)
}

func TestAddAndRelease(t *testing.T) {
	sc := New(10, 10, "")
	s := &shapes.Shape{Key: "a"}
	assert.True(t, sc.Add(s))
	assert.False(t, sc.Add(nil))
	assert.True(t, sc.Add(s), "duplicates are kept")
	assert.Equal(t, 2, sc.Len())

	snap := sc.Shapes()
	snap[0] = nil
	assert.NotNil(t, sc.Shapes()[0])

	assert.True(t, sc.SetBackgroundImage(image.NewRGBA(image.Rect(0, 0, 1, 1))))
	sc.Release()
	assert.True(t, sc.Released())
	assert.Zero(t, sc.Len())
	assert.False(t, sc.Add(s))
	assert.False(t, sc.SetBackgroundImage(image.NewRGBA(image.Rect(0, 0, 1, 1))))
	assert.Nil(t, sc.Background().Image)
}
