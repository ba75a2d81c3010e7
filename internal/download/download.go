// Package download fetches backdrop images over HTTP into a local cache and decodes them.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const userAgent = "shapeview/1.0"

// imageTypes maps accepted media types to the extension the decoder expects.
var imageTypes = map[string]string{
	"image/png":      ".png",
	"image/jpeg":     ".jpg",
	"image/jpg":      ".jpg",
	"image/bmp":      ".bmp",
	"image/x-ms-bmp": ".bmp",
}

// Download saves the image at rawURL under destDir and returns its path. Files are named after
// the URL, so an image already in destDir is returned without a request. Responses that are
// not PNG, JPEG or BMP are rejected.
func Download(ctx context.Context, rawURL, destDir string) (string, error) {
	stem, urlExt, err := cacheName(rawURL)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if cached := lookup(destDir, stem); cached != "" {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: %s: HTTP %d", rawURL, resp.StatusCode)
	}

	ext := extensionFor(resp.Header.Get("Content-Type"))
	if ext == "" {
		ext = urlExt
	}
	if ext == "" {
		return "", fmt.Errorf("download: %s: unsupported content type %q", rawURL, resp.Header.Get("Content-Type"))
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	return save(resp.Body, filepath.Join(destDir, stem+ext))
}

// save writes r to dest through a temp file so a failed transfer never leaves a partial image in the cache.
func save(r io.Reader, dest string) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".part-*")
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	_, copyErr := io.Copy(tmp, r)
	closeErr := tmp.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr == nil {
		copyErr = os.Rename(tmp.Name(), dest)
	}
	if copyErr != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("download: %w", copyErr)
	}
	return dest, nil
}

// cacheName derives a file stem from the last path segment plus a short hash of the full URL,
// and returns the URL's image extension if it has one.
func cacheName(rawURL string) (stem, ext string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", err
	}
	base := path.Base(u.Path)
	ext = strings.ToLower(path.Ext(base))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".bmp":
	default:
		ext = ""
	}
	sum := sha256.Sum256([]byte(rawURL))
	name := strings.TrimSuffix(base, path.Ext(base))
	return sanitizeFilename(name) + "-" + hex.EncodeToString(sum[:4]), ext, nil
}

func lookup(dir, stem string) string {
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".bmp"} {
		p := filepath.Join(dir, stem+ext)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() && fi.Size() > 0 {
			return p
		}
	}
	return ""
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return imageTypes[strings.ToLower(mediaType)]
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

func sanitizeFilename(name string) string {
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "image"
	}
	if len(name) > 64 {
		name = name[:64]
	}
	return name
}
