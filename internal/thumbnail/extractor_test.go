package thumbnail

import (
	"bytes"
	"image"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"editor-media-sync/internal/custom_errors"
	"editor-media-sync/internal/logger"
	prometheus_metrics "editor-media-sync/internal/metrics/prometheus"
)

func newTestExtractor(t *testing.T, maxDim int) *Extractor {
	t.Helper()
	extractor, err := NewExtractor(t.TempDir(), maxDim, logger.New("test"), prometheus_metrics.NewPrometheusMetricsProvider())
	require.NoError(t, err)
	return extractor
}

func encodePNG(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return &buf
}

func decodePreview(t *testing.T, url string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(url, "file://"), "expected file URL, got %q", url)

	f, err := os.Open(strings.TrimPrefix(url, "file://"))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	img, err := jpeg.Decode(f)
	require.NoError(t, err)
	return img
}

func TestExtractor_Extract(t *testing.T) {
	extractor := newTestExtractor(t, 100)

	url, err := extractor.Extract(encodePNG(t, 50, 40))
	require.NoError(t, err)

	preview := decodePreview(t, url)
	assert.Equal(t, 50, preview.Bounds().Dx())
	assert.Equal(t, 40, preview.Bounds().Dy())
}

func TestExtractor_ExtractDownscales(t *testing.T) {
	extractor := newTestExtractor(t, 100)

	t.Run("landscape", func(t *testing.T) {
		url, err := extractor.Extract(encodePNG(t, 400, 200))
		require.NoError(t, err)

		preview := decodePreview(t, url)
		assert.Equal(t, 100, preview.Bounds().Dx())
		assert.Equal(t, 50, preview.Bounds().Dy())
	})

	t.Run("portrait", func(t *testing.T) {
		url, err := extractor.Extract(encodePNG(t, 200, 400))
		require.NoError(t, err)

		preview := decodePreview(t, url)
		assert.Equal(t, 50, preview.Bounds().Dx())
		assert.Equal(t, 100, preview.Bounds().Dy())
	})

	t.Run("extreme aspect ratio never collapses to zero", func(t *testing.T) {
		url, err := extractor.Extract(encodePNG(t, 2000, 2))
		require.NoError(t, err)

		preview := decodePreview(t, url)
		assert.Equal(t, 100, preview.Bounds().Dx())
		assert.GreaterOrEqual(t, preview.Bounds().Dy(), 1)
	})
}

func TestExtractor_ExtractGIF(t *testing.T) {
	extractor := newTestExtractor(t, 100)

	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, image.NewPaletted(image.Rect(0, 0, 20, 20), palette.Plan9), nil))

	url, err := extractor.Extract(&buf)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "file://"))
}

func TestExtractor_ExtractUndecodableInput(t *testing.T) {
	extractor := newTestExtractor(t, 100)

	_, err := extractor.Extract(strings.NewReader("definitely not an image"))
	assert.ErrorIs(t, err, custom_errors.ErrThumbnailExtraction)

	entries, readErr := os.ReadDir(extractor.Dir())
	require.NoError(t, readErr)
	assert.Empty(t, entries, "failed extraction must not leave files behind")
}

func TestExtractor_DistinctFilenames(t *testing.T) {
	extractor := newTestExtractor(t, 100)

	first, err := extractor.Extract(encodePNG(t, 10, 10))
	require.NoError(t, err)
	second, err := extractor.Extract(encodePNG(t, 10, 10))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestNewExtractor_DefaultsToPrivateTempDir(t *testing.T) {
	extractor, err := NewExtractor("", 100, logger.New("test"), prometheus_metrics.NewPrometheusMetricsProvider())
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(extractor.Dir()) })

	info, err := os.Stat(extractor.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm())
}
