package ocr

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	legend "github.com/ironsheep/color-legend-util/internal/imaging"
)

// ErrUnavailable is returned when the binary was built without Tesseract.
var ErrUnavailable = errors.New("ocr support not compiled in (build with -tags tesseract)")

// ErrEmptyRegion is returned when the label strip has no pixels.
var ErrEmptyRegion = errors.New("label region is empty")

const (
	// DefaultBand is half the height of the label strip, in pixels.
	DefaultBand = 8.0

	// DefaultLanguage is the Tesseract language code used by NewReader.
	DefaultLanguage = "eng"

	// upscale enlarges the strip before recognition; Tesseract does poorly
	// on glyphs under about 20px tall.
	upscale = 3
)

// LabelReader reads the legend label belonging to a matched swatch.
type LabelReader interface {
	ReadLabel(img image.Image, box legend.BoundingBox, centroid legend.Point2D) (string, error)
}

// LabelRegion returns the strip to read for a swatch centered at centroid:
// rows centroid.Y-band to centroid.Y+band, columns centroid.X to box.X2,
// clipped to the box and to a width x height image.
func LabelRegion(box legend.BoundingBox, centroid legend.Point2D, band float64, width, height int) image.Rectangle {
	strip := legend.BoundingBox{
		X1: centroid.X,
		Y1: centroid.Y - band,
		X2: box.X2,
		Y2: centroid.Y + band + 1,
	}
	return strip.PixelRect(width, height).Intersect(box.PixelRect(width, height))
}

// prepareStrip crops rect from img, converts it to grayscale and enlarges it
// for recognition. The result is PNG encoded.
func prepareStrip(img image.Image, rect image.Rectangle) ([]byte, error) {
	b := img.Bounds()
	rect = rect.Add(b.Min).Intersect(b)
	if rect.Empty() {
		return nil, ErrEmptyRegion
	}

	strip := imaging.Crop(img, rect)
	strip = imaging.Resize(strip, rect.Dx()*upscale, rect.Dy()*upscale, imaging.Lanczos)
	gray := imaging.Grayscale(strip)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode label strip: %w", err)
	}
	return buf.Bytes(), nil
}

// cleanLabel collapses whitespace in recognized text.
func cleanLabel(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
