package analysis

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// maxImageEdge bounds the longest edge of submitted images to keep request
// latency and cost down.
const maxImageEdge = 2048

const jpegQuality = 85

// downscale resizes the image so its longest edge does not exceed
// maxImageEdge, preserving aspect ratio. This is a best-effort
// optimization: anything that cannot be decoded or re-encoded is submitted
// unchanged.
func downscale(data []byte, contentType string) ([]byte, string) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, contentType
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxImageEdge {
		return data, contentType
	}

	ratio := float64(maxImageEdge) / float64(longest)
	nw := int(float64(w) * ratio)
	nh := int(float64(h) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return data, contentType
	}
	return buf.Bytes(), "image/jpeg"
}
