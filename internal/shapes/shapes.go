// Package shapes turns shape records into renderable shape descriptions.
package shapes

import (
	"github.com/google/uuid"
)

// Kind is the geometry family of a Shape.
type Kind int

const (
	KindBox Kind = iota
	KindTorus
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindTorus:
		return "torus"
	}
	return "unknown"
}

// Record type literals recognized by the factory. "Cube" is the record-side name of KindBox.
const (
	TypeCube  = "Cube"
	TypeTorus = "Torus"
)

// TorusTubularSegments is the fixed resolution around the ring of every torus.
const TorusTubularSegments = 100

// MaxTorusRadialSegments bounds the record depth used as a torus's radial segment count.
const MaxTorusRadialSegments = 256

// Vec3 is a position or rotation in world units / radians.
type Vec3 struct {
	X, Y, Z float32
}

// BoxGeometry is an axis-aligned box centered on the shape position.
type BoxGeometry struct {
	Width  float32 // x extent
	Height float32 // y extent
	Depth  float32 // z extent
}

// TorusGeometry follows the usual (radius, tube, radial segments, tubular segments) convention.
type TorusGeometry struct {
	Radius          float32
	Tube            float32
	RadialSegments  int
	TubularSegments int
}

// Geometry holds exactly one of Box or Torus, selected by Kind.
type Geometry struct {
	Kind  Kind
	Box   BoxGeometry
	Torus TorusGeometry
}

// MaterialKind selects the shading model.
type MaterialKind int

const (
	// MaterialFlat is diffuse, non-metallic and opaque, with per-face normals.
	MaterialFlat MaterialKind = iota
	// MaterialStandard is a rough, non-emissive physically based surface.
	MaterialStandard
)

// Material describes how a shape is shaded.
type Material struct {
	Kind      MaterialKind
	Color     uint32 // 0xRRGGBB
	Roughness float32
	Metalness float32
	Opacity   float32
}

// Shape is the in-scene object built from one record.
type Shape struct {
	ID       uuid.UUID
	Key      string
	Geometry Geometry
	Material Material
	Position Vec3
	Rotation Vec3
}

// Kind returns the geometry kind.
func (s *Shape) Kind() Kind {
	return s.Geometry.Kind
}

// Color returns the 24-bit material color.
func (s *Shape) Color() uint32 {
	return s.Material.Color
}
