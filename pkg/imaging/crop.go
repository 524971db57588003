// Package imaging exports annotated regions of source images.
//
// Crop cuts the bounding box of an annotation's geometry out of the image,
// clamped to the image bounds. Pixels outside a polygon are made
// transparent. The result is PNG encoded.
package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/selector"
)

// MimeType of the encoded crop.
const MimeType = "image/png"

// CropResult is an encoded region.
type CropResult struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	PNG      []byte `json:"-"`
	MimeType string `json:"mime_type"`
}

// Load decodes an image file, applying EXIF orientation.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open image %s", path)
	}
	return img, nil
}

// Context returns the image context of img for selector resolution.
func Context(img image.Image, unit selector.Unit) selector.ImageContext {
	b := img.Bounds()
	return selector.ImageContext{Width: float64(b.Dx()), Height: float64(b.Dy()), Unit: unit}
}

// Crop extracts the region covered by g. A scale other than 1 resizes the
// crop with Lanczos resampling.
func Crop(img image.Image, g geom.Geometry, scale float64) (*CropResult, error) {
	if g == nil {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "no geometry to crop")
	}
	if scale < 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid scale %v", scale)
	}

	bounds := img.Bounds()
	box := g.Bounds()
	region := image.Rect(
		bounds.Min.X+int(math.Floor(box.X)),
		bounds.Min.Y+int(math.Floor(box.Y)),
		bounds.Min.X+int(math.Ceil(box.X+box.W)),
		bounds.Min.Y+int(math.Ceil(box.Y+box.H)),
	).Intersect(bounds)
	if region.Empty() {
		return nil, errors.New(errors.ErrCodeInvalidGeometry, "region %v lies outside the image %v", box, bounds)
	}

	cropped := imaging.Crop(img, region)
	if poly, ok := g.(geom.Polygon); ok {
		maskOutside(cropped, poly, region.Min.Sub(bounds.Min))
	}

	if scale != 1.0 && scale > 0 {
		w := max(1, int(float64(cropped.Bounds().Dx())*scale))
		h := max(1, int(float64(cropped.Bounds().Dy())*scale))
		cropped = imaging.Resize(cropped, w, h, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, cropped); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode crop")
	}
	return &CropResult{
		Width:    cropped.Bounds().Dx(),
		Height:   cropped.Bounds().Dy(),
		PNG:      buf.Bytes(),
		MimeType: MimeType,
	}, nil
}

// maskOutside clears pixels whose centers fall outside poly. off is the
// crop origin in image space.
func maskOutside(img *image.NRGBA, poly geom.Polygon, off image.Point) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := geom.Point{X: float64(off.X+x-b.Min.X) + 0.5, Y: float64(off.Y+y-b.Min.Y) + 0.5}
			if !poly.Contains(p) {
				img.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
}
