// Package thumbnail produces local preview images for freshly inserted
// device assets, ahead of any network upload.
package thumbnail

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/logger"
	"editor-media-sync/internal/metrics"
)

const jpegQuality = 85

// Extractor normalizes previews to JPEG files in a private directory and
// returns file URLs. Extraction failure is recoverable by contract: callers
// proceed with an empty preview URL.
type Extractor struct {
	dir     string
	maxDim  int
	log     *logger.Logger
	metrics metrics.Provider
}

func NewExtractor(dir string, maxDim int, log *logger.Logger, metricsProvider metrics.Provider) (*Extractor, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "media-previews-")
		if err != nil {
			return nil, fmt.Errorf("failed to create preview directory: %w", err)
		}
		dir = tmp
	} else if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create preview directory: %w", err)
	}

	return &Extractor{
		dir:     dir,
		maxDim:  maxDim,
		log:     log,
		metrics: metricsProvider,
	}, nil
}

// Extract decodes the asset, downscales it to fit the configured bounding
// box, and writes a JPEG preview. Returns a file URL to the written preview.
func (e *Extractor) Extract(r io.Reader) (string, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		e.metrics.IncrementThumbnailExtractions(false)
		e.log.Warn("Failed to decode asset for preview", slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", custom_errors.ErrThumbnailExtraction, err)
	}

	scaled := e.scale(src)

	name := uuid.NewString() + ".jpg"
	path := filepath.Join(e.dir, name)
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		e.metrics.IncrementThumbnailExtractions(false)
		return "", fmt.Errorf("%w: %v", custom_errors.ErrThumbnailExtraction, err)
	}

	if err := jpeg.Encode(out, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		e.metrics.IncrementThumbnailExtractions(false)
		return "", fmt.Errorf("%w: %v", custom_errors.ErrThumbnailExtraction, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		e.metrics.IncrementThumbnailExtractions(false)
		return "", fmt.Errorf("%w: %v", custom_errors.ErrThumbnailExtraction, err)
	}

	e.metrics.IncrementThumbnailExtractions(true)
	e.log.Debug("Preview extracted",
		slog.String("format", format),
		slog.String("path", path))
	return "file://" + path, nil
}

func (e *Extractor) scale(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w <= e.maxDim && h <= e.maxDim {
		return src
	}

	newW, newH := e.maxDim, e.maxDim
	if w > h {
		newH = h * e.maxDim / w
	} else {
		newW = w * e.maxDim / h
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// Dir returns the private directory previews are written to.
func (e *Extractor) Dir() string {
	return e.dir
}
