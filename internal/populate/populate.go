// Package populate fills a scene with shapes built from fetched records.
package populate

import (
	"context"
	"errors"
	"fmt"

	"shapeview/internal/host"
	"shapeview/internal/logger"
	"shapeview/internal/record"
	"shapeview/internal/scene"
	"shapeview/internal/shapes"
)

// Result summarizes one population run.
type Result struct {
	Added   int
	Skipped int // unrecognized shape types
	Invalid int // malformed dimensions
	// Dropped is set when the scene was released before the records arrived.
	Dropped bool
	Err     error
}

// Populator fetches records once per Run and inserts the resulting shapes into a scene.
type Populator struct {
	Source     record.Source
	Factory    *shapes.Factory
	Dispatcher host.Dispatcher
	Log        *logger.Logger
	// Done, if set, is called on the frame thread when a run finishes.
	Done func(Result)
}

// Run starts fetching in a goroutine and returns immediately. The records are turned into
// shapes on the dispatcher's thread, so the scene is never touched concurrently with a frame.
// Fetch failures are logged and reported through Done; they never reach the caller.
func (p *Populator) Run(ctx context.Context, scn *scene.Scene) {
	go func() {
		recs, err := p.fetch(ctx)
		p.Dispatcher.Post(func() {
			res := p.apply(scn, recs, err)
			if p.Done != nil {
				p.Done(res)
			}
		})
	}()
}

func (p *Populator) fetch(ctx context.Context) (recs []record.ShapeRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("record source panicked: %v", r)
		}
	}()
	if p.Source == nil {
		return nil, record.ErrNoSource
	}
	return p.Source.Fetch(ctx)
}

func (p *Populator) apply(scn *scene.Scene, recs []record.ShapeRecord, fetchErr error) Result {
	var res Result
	if fetchErr != nil {
		res.Err = fmt.Errorf("populate: fetch records: %w", fetchErr)
		p.logf("%v (scene stays empty)", res.Err)
		return res
	}
	if scn.Released() {
		res.Dropped = true
		p.logf("populate: %d record(s) arrived after unmount, dropped", len(recs))
		return res
	}
	for _, rec := range recs {
		s, err := p.Factory.Build(rec)
		var dimErr *shapes.DimensionError
		switch {
		case errors.As(err, &dimErr):
			res.Invalid++
			p.logf("populate: skipping %v", err)
			continue
		case err != nil:
			res.Invalid++
			p.logf("populate: skipping record %q: %v", rec.Key, err)
			continue
		case s == nil:
			res.Skipped++
			continue
		}
		if !scn.Add(s) {
			res.Dropped = true
			break
		}
		res.Added++
	}
	p.logf("populate: %d shape(s) added, %d unrecognized, %d invalid", res.Added, res.Skipped, res.Invalid)
	return res
}

func (p *Populator) logf(format string, args ...any) {
	if p.Log != nil {
		p.Log.Logf(format, args...)
	}
}
