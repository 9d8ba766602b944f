package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

// createDotImage returns a black image with a single white pixel at (dx, dy).
func createDotImage(width, height, dx, dy int) *Raster {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.Black)
		}
	}
	img.Set(dx, dy, color.White)
	return NewRaster(img)
}

func TestFindMatches_SingleWhitePixel(t *testing.T) {
	r := createDotImage(10, 10, 5, 5)
	box := BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10}

	matches := FindMatches(r, box, RGBColor{255, 255, 255}, 15)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1: %v", len(matches), matches)
	}
	if matches[0] != (Point{5, 5}) {
		t.Errorf("match: got %+v, want (5,5)", matches[0])
	}
}

func TestFindMatches_Quadrant(t *testing.T) {
	r := NewRaster(createPatternImage(20, 20))
	box := BoundingBox{X1: 0, Y1: 0, X2: 20, Y2: 20}

	matches := FindMatches(r, box, RGBColor{0, 255, 0}, 10)
	if len(matches) != 100 {
		t.Fatalf("got %d green matches, want 100", len(matches))
	}
	for _, p := range matches {
		if p.X < 10 || p.Y >= 10 {
			t.Fatalf("match %+v outside the green quadrant", p)
		}
	}
	if matches[0] != (Point{10, 0}) || matches[len(matches)-1] != (Point{19, 9}) {
		t.Errorf("matches not in row-major order: first %+v last %+v", matches[0], matches[len(matches)-1])
	}
}

func TestFindMatches_HalfOpenBounds(t *testing.T) {
	r := NewRaster(createInMemoryImage(10, 10, color.White))
	white := RGBColor{255, 255, 255}

	tests := []struct {
		name string
		box  BoundingBox
		want int
	}{
		{"integer box", BoundingBox{2, 2, 4, 4}, 4},
		{"fractional box floors both ends", BoundingBox{2.9, 2.9, 4.9, 4.9}, 4},
		{"single pixel", BoundingBox{3, 3, 4, 4}, 1},
		{"sub-pixel width", BoundingBox{3.1, 3, 3.9, 4}, 0},
		{"partially outside", BoundingBox{-5, -5, 2, 2}, 4},
		{"larger than image", BoundingBox{-100, -100, 1e9, 1e9}, 100},
		{"infinite", BoundingBox{math.Inf(-1), 0, math.Inf(1), 1}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(FindMatches(r, tt.box, white, 15)); got != tt.want {
				t.Errorf("got %d matches, want %d", got, tt.want)
			}
		})
	}
}

func TestFindMatches_EmptyBoxes(t *testing.T) {
	r := NewRaster(createInMemoryImage(10, 10, color.White))
	white := RGBColor{255, 255, 255}

	tests := []struct {
		name string
		box  BoundingBox
	}{
		{"zero box", BoundingBox{}},
		{"x2 equals x1", BoundingBox{3, 0, 3, 10}},
		{"y2 equals y1", BoundingBox{0, 3, 10, 3}},
		{"inverted x", BoundingBox{8, 0, 2, 10}},
		{"inverted y", BoundingBox{0, 8, 10, 2}},
		{"right of image", BoundingBox{10, 0, 20, 10}},
		{"below image", BoundingBox{0, 10, 10, 20}},
		{"left of image", BoundingBox{-20, 0, -1, 10}},
		{"above image", BoundingBox{0, -20, 10, 0}},
		{"NaN", BoundingBox{math.NaN(), 0, 10, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindMatches(r, tt.box, white, 15); len(got) != 0 {
				t.Errorf("got %d matches, want none", len(got))
			}
		})
	}
}

func TestFindMatches_Threshold(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{100, 100, 100, 255})
	img.Set(1, 0, color.RGBA{110, 100, 100, 255})
	img.Set(2, 0, color.RGBA{115, 100, 100, 255})
	r := NewRaster(img)
	box := BoundingBox{0, 0, 3, 1}
	ref := RGBColor{100, 100, 100}

	tests := []struct {
		threshold int
		want      int
	}{
		{1, 1},
		{10, 1},
		{11, 2},
		{15, 2},
		{16, 3},
	}

	for _, tt := range tests {
		if got := len(FindMatches(r, box, ref, tt.threshold)); got != tt.want {
			t.Errorf("threshold %d: got %d matches, want %d", tt.threshold, got, tt.want)
		}
	}
}

func TestFindMatches_AgreesWithSimilar(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{uint8(100 + x), uint8(100 + y), uint8(100 + x - y), 255})
		}
	}
	r := NewRaster(img)
	ref := RGBColor{105, 105, 100}

	got := make(map[Point]bool)
	for _, p := range FindMatches(r, BoundingBox{0, 0, 16, 16}, ref, 4) {
		got[p] = true
	}

	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c, _ := SampleColor(r, Point{x, y})
			if want := Similar(c, ref, 4); got[Point{x, y}] != want {
				t.Errorf("pixel (%d,%d): matched=%v, Similar=%v", x, y, got[Point{x, y}], want)
			}
		}
	}
}

func TestBoundingBox_Size(t *testing.T) {
	b := BoundingBox{X1: 10, Y1: 20, X2: 5, Y2: 50}
	if b.Width() != -5 {
		t.Errorf("Width: got %g, want -5", b.Width())
	}
	if b.Height() != 30 {
		t.Errorf("Height: got %g, want 30", b.Height())
	}
}

func TestBoundingBox_PixelRect(t *testing.T) {
	got := BoundingBox{X1: 1.5, Y1: -3, X2: 7.2, Y2: 40}.PixelRect(10, 10)
	if want := image.Rect(1, 0, 7, 10); got != want {
		t.Errorf("PixelRect: got %v, want %v", got, want)
	}
}
