package download

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
)

// CacheDir is where remote images are saved before decoding.
const CacheDir = "assets/background/downloaded"

// ImageLoader fetches backdrop images. Remote URLs are downloaded into Dir first; anything else is
// treated as a local path (a file:// prefix is stripped). PNG, JPEG and BMP are supported.
type ImageLoader struct {
	Dir string
	// MaxDim bounds the long side of the returned image; larger images are downscaled. <= 0 disables.
	MaxDim int
}

// Load fetches and decodes source, downscaling if it exceeds MaxDim.
func (l ImageLoader) Load(ctx context.Context, source string) (image.Image, error) {
	path, err := l.localPath(ctx, source)
	if err != nil {
		return nil, err
	}
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("download: decode %s: %w", path, err)
	}
	return Fit(img, l.MaxDim), nil
}

func (l ImageLoader) localPath(ctx context.Context, source string) (string, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		dir := l.Dir
		if dir == "" {
			dir = CacheDir
		}
		return Download(ctx, source, dir)
	case strings.HasPrefix(source, "file://"):
		return filepath.FromSlash(strings.TrimPrefix(source, "file://")), nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return source, nil
}

// Fit downscales img so neither side exceeds maxDim, keeping the aspect ratio. Smaller images are returned as-is.
func Fit(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return img
	}
	if w >= h {
		h = max(1, h*maxDim/w)
		w = maxDim
	} else {
		w = max(1, w*maxDim/h)
		h = maxDim
	}
	return transform.Resize(img, w, h, transform.Linear)
}
