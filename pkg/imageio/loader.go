// Package imageio loads pet photos from files, URLs or readers with WebP
// support, and validates basic size requirements before analysis.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Loader loads and validates images.
type Loader struct {
	// MinImageSize is the minimum edge length in pixels; smaller images
	// carry too little detail to analyze.
	MinImageSize int
	httpClient   *http.Client
}

// New creates a loader with default settings.
func New() *Loader {
	return &Loader{
		MinImageSize: 64,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Load loads an image from either a file path or an http(s) URL.
func (l *Loader) Load(source string) (image.Image, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.LoadURL(source)
	}
	return l.LoadFile(source)
}

// LoadFile loads an image from a file path with WebP fallback.
func (l *Loader) LoadFile(path string) (image.Image, error) {
	if img, err := imaging.Open(path); err == nil {
		return img, nil
	}

	// imaging.Open only knows registered stdlib decoders; retry the raw
	// bytes through the WebP-aware decode chain.
	data, err := readFileBytes(path)
	if err != nil {
		return nil, err
	}
	img, err := l.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image: unknown format for %s", path)
	}
	return img, nil
}

// LoadURL downloads and decodes an image from a URL.
func (l *Loader) LoadURL(imageURL string) (image.Image, error) {
	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("unsupported URL scheme: %s", parsedURL.Scheme)
	}

	req, err := http.NewRequest(http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "pet-triage/1.0")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: HTTP %d", resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("URL does not point to an image (Content-Type: %s)", contentType)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return l.Decode(bytes.NewReader(data))
}

// Decode decodes an image from a reader, trying the registered decoders
// first and the explicit WebP decoder as a fallback.
func (l *Loader) Decode(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	if img, err := webp.Decode(bytes.NewReader(data)); err == nil {
		return img, nil
	}
	return nil, fmt.Errorf("image: unknown or unsupported format")
}

// Validate checks that the image is large enough to analyze.
func (l *Loader) Validate(img image.Image) error {
	bounds := img.Bounds()
	if bounds.Dx() < l.MinImageSize || bounds.Dy() < l.MinImageSize {
		return fmt.Errorf("image too small: %dx%d (minimum: %d)",
			bounds.Dx(), bounds.Dy(), l.MinImageSize)
	}
	return nil
}

func readFileBytes(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
