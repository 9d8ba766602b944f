package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// ErrEmptyRegion is returned when a bounding box covers no pixels of the image.
var ErrEmptyRegion = errors.New("region covers no pixels")

// CropResult contains the cropped legend encoded as PNG.
type CropResult struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	PNG      []byte `json:"-"`
	MimeType string `json:"mime_type"`
}

// CropLegend extracts the pixels covered by box as a PNG, optionally scaled.
//
// The box is floored and clipped the same way FindMatches does, so the preview
// shows exactly the pixels a click is matched against. A scale other than 1
// resizes the crop with a Lanczos filter.
func CropLegend(r *Raster, box BoundingBox, scale float64) (*CropResult, error) {
	rect := box.PixelRect(r.Width(), r.Height())
	if rect.Empty() {
		return nil, fmt.Errorf("legend box (%g,%g)-(%g,%g): %w", box.X1, box.Y1, box.X2, box.Y2, ErrEmptyRegion)
	}

	cropped := transform.Crop(r.img, rect)
	width, height := cropped.Bounds().Dx(), cropped.Bounds().Dy()

	var out image.Image = cropped
	if scale != 1.0 && scale > 0 {
		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
		out = imaging.Resize(cropped, width, height, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, out); err != nil {
		return nil, fmt.Errorf("failed to encode legend crop: %w", err)
	}

	return &CropResult{
		Width:    width,
		Height:   height,
		PNG:      buf.Bytes(),
		MimeType: "image/png",
	}, nil
}
