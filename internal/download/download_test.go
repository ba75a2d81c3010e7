package download

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDownloadNamesFileFromURLAndCaches(t *testing.T) {
	body := pngBytes(t, 2, 2)
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := Download(context.Background(), srv.URL+"/photo-123?w=1000", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "photo-123-"))
	assert.Equal(t, ".png", filepath.Ext(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, data)

	again, err := Download(context.Background(), srv.URL+"/photo-123?w=1000", dir)
	require.NoError(t, err)
	assert.Equal(t, path, again)
	assert.Equal(t, 1, hits)

	other, err := Download(context.Background(), srv.URL+"/photo-123?w=500", dir)
	require.NoError(t, err)
	assert.NotEqual(t, path, other, "different query, different cache entry")
	assert.Equal(t, 2, hits)
}

func TestDownloadRejectsNonImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	_, err := Download(context.Background(), srv.URL+"/page", dir)
	assert.ErrorContains(t, err, "unsupported content type")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownloadFallsBackToURLExtension(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(pngBytes(t, 1, 1))
	}))
	defer srv.Close()

	path, err := Download(context.Background(), srv.URL+"/bg.JPEG", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ".jpeg", filepath.Ext(path))
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Download(context.Background(), srv.URL+"/x.png", t.TempDir())
	assert.ErrorContains(t, err, "404")
}

func TestImageLoaderRemoteAndFit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes(t, 400, 100))
	}))
	defer srv.Close()

	img, err := ImageLoader{Dir: t.TempDir(), MaxDim: 200}.Load(context.Background(), srv.URL+"/space")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 50), img.Bounds())
}

func TestImageLoaderLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, 3, 5), 0644))

	img, err := ImageLoader{}.Load(context.Background(), "file://"+filepath.ToSlash(path))
	require.NoError(t, err)
	assert.Equal(t, 5, img.Bounds().Dy())

	img, err = ImageLoader{MaxDim: 10}.Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())

	_, err = ImageLoader{}.Load(context.Background(), path+".missing")
	assert.Error(t, err)
}

func TestFitPortrait(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 400))
	assert.Equal(t, image.Rect(0, 0, 25, 100), Fit(img, 100).Bounds())
	assert.Same(t, img, Fit(img, 0))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b.png", sanitizeFilename("a b.png"))
	assert.Equal(t, "image", sanitizeFilename(""))
	assert.Equal(t, "image", sanitizeFilename("/"))
}
