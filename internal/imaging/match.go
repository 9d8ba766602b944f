package imaging

import (
	"image"
	"math"
)

// Point represents a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoundingBox is an axis-aligned rectangle in image space, as recorded for a
// legend. (X1, Y1) is inclusive and (X2, Y2) is exclusive once floored.
//
// A box with X2 <= X1 or Y2 <= Y1 is not rejected; it simply covers no pixels.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Width returns X2 - X1, which may be negative.
func (b BoundingBox) Width() float64 { return b.X2 - b.X1 }

// Height returns Y2 - Y1, which may be negative.
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }

// PixelRect returns the pixels the box covers inside a width x height image.
// The result is empty when the box is degenerate, non-finite, or entirely
// outside the image.
func (b BoundingBox) PixelRect(width, height int) image.Rectangle {
	x0, x1, ok := scanRange(b.X1, b.X2, width)
	if !ok {
		return image.Rectangle{}
	}
	y0, y1, ok := scanRange(b.Y1, b.Y2, height)
	if !ok {
		return image.Rectangle{}
	}
	return image.Rect(x0, y0, x1, y1)
}

// scanRange floors [lo, hi) and clips it to [0, size).
func scanRange(lo, hi float64, size int) (int, int, bool) {
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return 0, 0, false
	}
	start := math.Max(math.Floor(lo), 0)
	end := math.Min(math.Floor(hi), float64(size))
	if start >= end {
		return 0, 0, false
	}
	return int(start), int(end), true
}

// MatchSet holds the coordinates found by FindMatches in row-major order.
type MatchSet []Point

// FindMatches scans every pixel inside box and collects those whose color is
// Similar to ref under threshold.
//
// # Algorithm
//
//  1. Floor the box: xStart=floor(X1), xEnd=floor(X2), likewise for Y.
//  2. Visit every (x, y) with xStart <= x < xEnd and yStart <= y < yEnd.
//  3. Skip pixels outside [0,width) x [0,height).
//  4. Keep pixels where each channel differs from ref by less than threshold.
//
// Steps 2 and 3 are performed by clipping the range to the image up front, so
// huge or far-away boxes cost nothing. The scan walks the pixel buffer one row
// at a time.
//
// An empty, degenerate, or out-of-image box yields an empty set, never an error.
func FindMatches(r *Raster, box BoundingBox, ref RGBColor, threshold int) MatchSet {
	rect := box.PixelRect(r.Width(), r.Height())
	if rect.Empty() || threshold <= 0 {
		return nil
	}

	var matches MatchSet
	pix := r.img.Pix
	origin := r.img.Rect.Min
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		i := r.img.PixOffset(rect.Min.X+origin.X, y+origin.Y)
		for x := rect.Min.X; x < rect.Max.X; x, i = x+1, i+4 {
			if absDiff(pix[i], ref.R) < threshold &&
				absDiff(pix[i+1], ref.G) < threshold &&
				absDiff(pix[i+2], ref.B) < threshold {
				matches = append(matches, Point{X: x, Y: y})
			}
		}
	}

	return matches
}
