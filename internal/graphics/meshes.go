package graphics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"shapeview/internal/shapes"
)

// torusMinSides is the smallest ring cross-section raylib can build.
const torusMinSides = 3

// torusParams maps a torus geometry onto GenMeshTorus arguments. raylib builds a ring of
// major radius 1 scaled by size/2, with the tube given as a fraction of the major radius
// (clamped by raylib to [0.1, 1]). Segment counts are clamped to
// [3, shapes.MaxTorusRadialSegments]. ok is false when there is nothing to draw.
func torusParams(g shapes.TorusGeometry) (ratio, size float32, radSeg, sides int, ok bool) {
	if !(g.Radius > 0) {
		return 0, 0, 0, 0, false
	}
	radSeg = clampSegments(g.TubularSegments)
	sides = clampSegments(g.RadialSegments)
	return g.Tube / g.Radius, 2 * g.Radius, radSeg, sides, true
}

// clampSegments keeps a segment count within what raylib can build and allocate.
func clampSegments(n int) int {
	return min(max(n, torusMinSides), shapes.MaxTorusRadialSegments)
}

// meshCache uploads one mesh per distinct geometry. Meshes are created on first draw so GPU
// resources are only allocated while the window and GL context exist.
type meshCache struct {
	meshes map[shapes.Geometry]rl.Mesh
	// empty remembers geometries that produced no mesh so they are not regenerated each frame.
	empty map[shapes.Geometry]bool
}

func newMeshCache() *meshCache {
	return &meshCache{
		meshes: make(map[shapes.Geometry]rl.Mesh),
		empty:  make(map[shapes.Geometry]bool),
	}
}

// get returns the mesh for g, generating it on first use.
func (c *meshCache) get(g shapes.Geometry) (rl.Mesh, bool) {
	if m, ok := c.meshes[g]; ok {
		return m, true
	}
	if c.empty[g] {
		return rl.Mesh{}, false
	}
	var mesh rl.Mesh
	switch g.Kind {
	case shapes.KindBox:
		mesh = rl.GenMeshCube(g.Box.Width, g.Box.Height, g.Box.Depth)
	case shapes.KindTorus:
		ratio, size, radSeg, sides, ok := torusParams(g.Torus)
		if !ok {
			c.empty[g] = true
			return rl.Mesh{}, false
		}
		mesh = rl.GenMeshTorus(ratio, size, radSeg, sides)
	default:
		c.empty[g] = true
		return rl.Mesh{}, false
	}
	if mesh.VertexCount == 0 {
		c.empty[g] = true
		return rl.Mesh{}, false
	}
	c.meshes[g] = mesh
	return mesh, true
}

// len returns how many meshes are resident.
func (c *meshCache) len() int {
	return len(c.meshes)
}

// unload frees every mesh.
func (c *meshCache) unload() {
	for g, m := range c.meshes {
		rl.UnloadMesh(&m)
		delete(c.meshes, g)
	}
	clear(c.empty)
}
