package shapes

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"shapeview/internal/record"
)

// Placement bounds: positions are uniform in [-BoundX, BoundX] x [-BoundY, BoundY] x [-BoundZ, BoundZ].
const (
	BoundX = 35
	BoundY = 15
	BoundZ = 15
)

// MaxColor is the largest 24-bit color.
const MaxColor = 0xFFFFFF

// ErrMalformedDimension is wrapped by every DimensionError.
var ErrMalformedDimension = errors.New("malformed dimension")

// ErrTooManySegments is returned for a torus depth above MaxTorusRadialSegments.
var ErrTooManySegments = fmt.Errorf("more than %d radial segments", MaxTorusRadialSegments)

// DimensionError reports a record dimension that is not a finite number or is out of range.
type DimensionError struct {
	Key   string
	Field string
	Value string
	Err   error
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("shapes: record %q: %s %q: %v", e.Key, e.Field, e.Value, e.Err)
}

func (e *DimensionError) Unwrap() []error {
	return []error{ErrMalformedDimension, e.Err}
}

// Factory builds shapes from records. Color and position are drawn from its random source.
// Not safe for concurrent use; the populator calls it from the frame thread only.
type Factory struct {
	rng *rand.Rand
}

// NewFactory returns a Factory using rng. A nil rng seeds one from the clock.
func NewFactory(rng *rand.Rand) *Factory {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Factory{rng: rng}
}

// Build maps rec to a Shape. Unrecognized shape types yield (nil, nil). A dimension that
// does not parse yields a *DimensionError and no shape. Zero or negative sizes are accepted.
func (f *Factory) Build(rec record.ShapeRecord) (*Shape, error) {
	var geom Geometry
	var mat Material
	switch rec.ShapeType {
	case TypeCube:
		dims, err := parseDims(rec)
		if err != nil {
			return nil, err
		}
		geom = Geometry{Kind: KindBox, Box: BoxGeometry{Width: dims[0], Height: dims[1], Depth: dims[2]}}
		mat = Material{Kind: MaterialFlat, Roughness: 1, Opacity: 1}
	case TypeTorus:
		dims, err := parseDims(rec)
		if err != nil {
			return nil, err
		}
		// depth lands in the radial segment slot, same as the records have always been drawn.
		if dims[2] > MaxTorusRadialSegments {
			return nil, &DimensionError{Key: rec.Key, Field: "depth", Value: rec.Depth, Err: ErrTooManySegments}
		}
		geom = Geometry{Kind: KindTorus, Torus: TorusGeometry{
			Radius:          dims[0],
			Tube:            dims[1],
			RadialSegments:  int(max(dims[2], 0)),
			TubularSegments: TorusTubularSegments,
		}}
		mat = Material{Kind: MaterialStandard, Roughness: 1, Opacity: 1}
	default:
		return nil, nil
	}
	mat.Color = f.randomColor()
	return &Shape{
		ID:       uuid.New(),
		Key:      rec.Key,
		Geometry: geom,
		Material: mat,
		Position: f.randomPosition(),
	}, nil
}

func (f *Factory) randomColor() uint32 {
	return uint32(f.rng.IntN(MaxColor + 1))
}

// randomPosition samples each axis uniformly in [-bound, bound].
func (f *Factory) randomPosition() Vec3 {
	return Vec3{
		X: f.symmetric(BoundX),
		Y: f.symmetric(BoundY),
		Z: f.symmetric(BoundZ),
	}
}

func (f *Factory) symmetric(bound float64) float32 {
	return float32(f.rng.Float64()*2*bound - bound)
}

func parseDims(rec record.ShapeRecord) ([3]float32, error) {
	var out [3]float32
	fields := [3]struct{ name, value string }{
		{"length", rec.Length},
		{"width", rec.Width},
		{"depth", rec.Depth},
	}
	for i, fld := range fields {
		v, err := parseDimension(fld.value)
		if err != nil {
			return out, &DimensionError{Key: rec.Key, Field: fld.name, Value: fld.value, Err: err}
		}
		out[i] = v
	}
	return out, nil
}

// parseDimension accepts decimal numbers with surrounding whitespace. An empty string is 0.
func parseDimension(s string) (float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > math.MaxFloat32 {
		return 0, fmt.Errorf("not a finite number")
	}
	return float32(v), nil
}
