package recordserver

import (
	"context"
	"errors"
	"fmt"
	"os"

	"shapeview/internal/record"
)

// Seed loads records from the YAML file at path into app when app has no records yet.
// A missing file is not an error. It returns how many records were inserted.
func Seed(ctx context.Context, store *record.Store, app int, path string) (int, error) {
	n, err := store.Count(ctx, app)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	recs, err := record.File{Path: path}.Fetch(ctx)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	for i, rec := range recs {
		if _, _, err := store.Insert(ctx, app, rec); err != nil {
			return i, fmt.Errorf("seed: %w", err)
		}
	}
	return len(recs), nil
}
