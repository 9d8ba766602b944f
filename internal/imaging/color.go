package imaging

import (
	"errors"
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ErrOutOfBounds is returned when a coordinate lies outside the image.
var ErrOutOfBounds = errors.New("coordinates outside image bounds")

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex returns the color as "#rrggbb".
func (c RGBColor) Hex() string {
	return c.colorful().Hex()
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// Alpha is non-premultiplied: 0 = fully transparent, 255 = fully opaque.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a sampled color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#rrggbb" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

// SampleColor returns the color of the pixel at p.
//
// Valid coordinates are 0 <= X < width and 0 <= Y < height. Anything else
// fails with ErrOutOfBounds; coordinates are never clamped.
func SampleColor(r *Raster, p Point) (RGBColor, error) {
	if !r.Contains(p) {
		return RGBColor{}, fmt.Errorf("point (%d,%d) in %dx%d image: %w",
			p.X, p.Y, r.Width(), r.Height(), ErrOutOfBounds)
	}
	c, _ := r.pixel(p.X, p.Y)
	return c, nil
}

// DescribeColor samples the pixel at p and reports it in hex, RGB, RGBA and
// HSL form.
func DescribeColor(r *Raster, p Point) (*ColorResult, error) {
	if !r.Contains(p) {
		return nil, fmt.Errorf("point (%d,%d) in %dx%d image: %w",
			p.X, p.Y, r.Width(), r.Height(), ErrOutOfBounds)
	}
	c, a := r.pixel(p.X, p.Y)
	h, s, l := c.colorful().Hsl()

	return &ColorResult{
		Hex:  c.Hex(),
		RGB:  c,
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: a},
		HSL:  HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}, nil
}

// Similar reports whether every channel of a and b differs by strictly less
// than threshold. A threshold of 0 or less never matches.
func Similar(a, b RGBColor, threshold int) bool {
	return absDiff(a.R, b.R) < threshold &&
		absDiff(a.G, b.G) < threshold &&
		absDiff(a.B, b.B) < threshold
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
