// Package raster loads population-density map images into simulation
// density fields. The simulator itself never touches an image format;
// this is the loader collaborator sitting in front of it.
package raster

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"

	"github.com/geosims/outbreak/field"
)

// LoadDensityMap reads a grayscale density map image, resizes it to
// the target width preserving aspect ratio, and returns a density
// field in pixel coordinate space: origin (0,0), one world unit per
// cell. Pixel luminance is normalized to [0,1] weights.
func LoadDensityMap(path string, width int) (*field.Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening density map: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding density map %s: %w", path, err)
	}
	return FieldFromImage(img, width)
}

// FieldFromImage converts a decoded image to a density field, resizing
// to the target width first.
func FieldFromImage(img image.Image, width int) (*field.Field, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: resize width %d", field.ErrInvalidField, width)
	}

	src := img.Bounds()
	if src.Dx() == 0 || src.Dy() == 0 {
		return nil, fmt.Errorf("%w: empty source image", field.ErrInvalidField)
	}
	height := src.Dy() * width / src.Dx()
	if height == 0 {
		height = 1
	}

	gray := image.NewGray(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(gray, gray.Bounds(), img, src, xdraw.Src, nil)

	weights := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			weights[y*width+x] = float64(gray.GrayAt(x, y).Y) / 255.0
		}
	}

	out, err := field.New(weights, height, width, 0, 0, 1.0)
	if err != nil {
		return nil, fmt.Errorf("building field from density map: %w", err)
	}
	return out, nil
}
