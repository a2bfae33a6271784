package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// Decoders for the formats served by image endpoints
	_ "image/gif"
	_ "image/jpeg"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// DecodeImage decodes PNG, JPEG, GIF or WebP image data
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidImage, err)
	}

	return img, nil
}

// Fit returns the largest size with the aspect ratio of width x height that fits in maxWidth x maxHeight.
// A non-positive max leaves that dimension unconstrained.
func Fit(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}

	if maxWidth <= 0 && maxHeight <= 0 {
		return width, height
	}

	w, h := float64(width), float64(height)
	scale := 0.0
	if maxWidth > 0 {
		scale = float64(maxWidth) / w
	}

	if maxHeight > 0 {
		if s := float64(maxHeight) / h; scale == 0 || s < scale {
			scale = s
		}
	}

	fitWidth := int(w*scale + 0.5)
	fitHeight := int(h*scale + 0.5)

	// Never collapse a dimension to nothing
	if fitWidth < 1 {
		fitWidth = 1
	}

	if fitHeight < 1 {
		fitHeight = 1
	}

	return fitWidth, fitHeight
}

// Scale resizes img to fit in maxWidth x maxHeight, preserving the aspect ratio
func Scale(img image.Image, maxWidth, maxHeight int) image.Image {
	bounds := img.Bounds()
	width, height := Fit(bounds.Dx(), bounds.Dy(), maxWidth, maxHeight)
	if width == bounds.Dx() && height == bounds.Dy() {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// EncodePNG encodes img as PNG
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
