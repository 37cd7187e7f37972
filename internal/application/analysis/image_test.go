package analysis

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, w, h int, asPNG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 50 {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	if asPNG {
		require.NoError(t, png.Encode(&buf, img))
	} else {
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	}
	return buf.Bytes()
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestDownscaleShrinksOversizedImage(t *testing.T) {
	data := encodeTestImage(t, 4096, 1024, false)

	out, mime := downscale(data, "image/jpeg")
	assert.Equal(t, "image/jpeg", mime)

	w, h := decodeSize(t, out)
	assert.Equal(t, 2048, w)
	assert.Equal(t, 512, h)
}

func TestDownscaleKeepsSmallImageUntouched(t *testing.T) {
	data := encodeTestImage(t, 640, 480, false)

	out, mime := downscale(data, "image/jpeg")
	assert.Equal(t, data, out)
	assert.Equal(t, "image/jpeg", mime)
}

func TestDownscaleConvertsLargePNGToJPEG(t *testing.T) {
	data := encodeTestImage(t, 1024, 3000, true)

	out, mime := downscale(data, "image/png")
	assert.Equal(t, "image/jpeg", mime)

	w, h := decodeSize(t, out)
	assert.InDelta(t, 2048, h, 1)
	assert.Less(t, w, 1024)
}

func TestDownscaleUndecodableBytesPassThrough(t *testing.T) {
	data := []byte("not an image")

	out, mime := downscale(data, "image/jpeg")
	assert.Equal(t, data, out)
	assert.Equal(t, "image/jpeg", mime)
}
