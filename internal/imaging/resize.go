// Package imaging handles avatar image processing: decoding uploaded JPEG or
// PNG bytes, scaling the longest side down to a maximum dimension, and
// re-encoding the result as PNG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	"image/png"

	"golang.org/x/image/draw"
)

var ErrInvalidImage = errors.New("invalid image data")

// FitDimensions scales (width, height) so the longest side equals maxSize,
// preserving aspect ratio with integer truncation. An input already smaller
// than maxSize is still scaled up; callers wanting a no-op must check first.
func FitDimensions(width, height, maxSize int) (int, int) {
	if width > height {
		return maxSize, int(float64(maxSize) * float64(height) / float64(width))
	}
	return int(float64(maxSize) * float64(width) / float64(height)), maxSize
}

// ResizePNG decodes data (JPEG or PNG), scales it so the longest side is
// maxSize and returns the PNG-encoded result.
func ResizePNG(data []byte, maxSize int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := src.Bounds()
	w, h := FitDimensions(bounds.Dx(), bounds.Dy(), maxSize)

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
