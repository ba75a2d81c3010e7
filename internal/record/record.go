// Package record defines the shape records the viewer renders and the sources that supply them.
package record

import (
	"context"
	"errors"
)

// ErrNoSource is returned by Fetch on a nil Func.
var ErrNoSource = errors.New("record: no source configured")

// ShapeRecord describes one shape. Dimensions arrive as numeric strings and are parsed by the shape factory.
type ShapeRecord struct {
	ShapeType string `json:"shapeType" yaml:"shapeType"`
	Key       string `json:"key" yaml:"key"`
	Length    string `json:"length" yaml:"length"`
	Width     string `json:"width" yaml:"width"`
	Depth     string `json:"depth" yaml:"depth"`
}

// Source supplies shape records. Fetch may block on I/O; callers run it off the frame thread.
type Source interface {
	Fetch(ctx context.Context) ([]ShapeRecord, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context) ([]ShapeRecord, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context) ([]ShapeRecord, error) {
	if f == nil {
		return nil, ErrNoSource
	}
	return f(ctx)
}

// Static is a Source returning a fixed slice.
type Static []ShapeRecord

// Fetch returns a copy of the records.
func (s Static) Fetch(ctx context.Context) ([]ShapeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]ShapeRecord, len(s))
	copy(out, s)
	return out, nil
}
