package vision

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressImageDownscalesLongEdge(t *testing.T) {
	t.Parallel()

	out, err := CompressImage(context.Background(), bytes.NewReader(pngImage(t, 400, 200)), ImageOptions{MaxEdge: 100, Quality: 85})
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestCompressImageNeverUpscales(t *testing.T) {
	t.Parallel()

	out, err := CompressImage(context.Background(), bytes.NewReader(pngImage(t, 60, 90)), ImageOptions{})
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 60, decoded.Bounds().Dx())
	assert.Equal(t, 90, decoded.Bounds().Dy())
}

func TestCompressImageRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := CompressImage(context.Background(), bytes.NewReader([]byte("not an image")), ImageOptions{})
	assert.Error(t, err)
}

func TestCompressImageHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompressImage(ctx, bytes.NewReader(pngImage(t, 10, 10)), ImageOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScaledSize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		w, h, max  int
		wantW, wantH int
	}{
		{4000, 3000, 1280, 1280, 960},
		{3000, 4000, 1280, 960, 1280},
		{1280, 720, 1280, 1280, 720},
		{640, 480, 1280, 640, 480},
		{5000, 2, 1280, 1280, 1},
	}
	for _, c := range cases {
		w, h := scaledSize(c.w, c.h, c.max)
		assert.Equal(t, c.wantW, w, "width for %dx%d", c.w, c.h)
		assert.Equal(t, c.wantH, h, "height for %dx%d", c.w, c.h)
	}
}
