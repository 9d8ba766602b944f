//go:build tesseract

package ocr

import (
	"fmt"
	"image"

	legend "github.com/ironsheep/color-legend-util/internal/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Available reports whether Tesseract support is compiled in.
const Available = true

// Reader reads labels with Tesseract. A new client is created per call, so a
// Reader is safe for concurrent use.
type Reader struct {
	Language string
	Band     float64
}

// NewReader returns a Tesseract-backed reader using DefaultLanguage and
// DefaultBand.
func NewReader() (LabelReader, error) {
	client := gosseract.NewClient()
	defer client.Close()
	if v := client.Version(); v == "" {
		return nil, fmt.Errorf("%w: tesseract library not found", ErrUnavailable)
	}
	return &Reader{Language: DefaultLanguage, Band: DefaultBand}, nil
}

// ReadLabel recognizes the text in the label strip next to centroid.
func (r *Reader) ReadLabel(img image.Image, box legend.BoundingBox, centroid legend.Point2D) (string, error) {
	b := img.Bounds()
	rect := LabelRegion(box, centroid, r.Band, b.Dx(), b.Dy())
	data, err := prepareStrip(img, rect)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.Language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return cleanLabel(text), nil
}
