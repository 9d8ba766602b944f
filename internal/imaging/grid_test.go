package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func decodeGrid(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("grid is not a PNG: %v", err)
	}
	return img
}

func rgb8(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestGridOverlay_Lines(t *testing.T) {
	r := NewRaster(createInMemoryImage(100, 100, color.RGBA{0, 0, 0, 255}))

	data, err := GridOverlay(r, GridOptions{Spacing: 25, Color: "#ff0000"})
	if err != nil {
		t.Fatalf("GridOverlay failed: %v", err)
	}
	img := decodeGrid(t, data)

	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Errorf("size: got %v, want 100x100", img.Bounds())
	}

	tests := []struct {
		name    string
		x, y    int
		r, g, b uint8
	}{
		{"vertical line", 25, 60, 255, 0, 0},
		{"horizontal line", 60, 50, 255, 0, 0},
		{"cell interior", 15, 15, 0, 0, 0},
		{"origin edge not drawn", 0, 10, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := rgb8(img, tt.x, tt.y)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("(%d,%d): got (%d,%d,%d), want (%d,%d,%d)", tt.x, tt.y, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestGridOverlay_BadColorFallsBackToRed(t *testing.T) {
	r := NewRaster(createInMemoryImage(60, 60, color.White))

	data, err := GridOverlay(r, GridOptions{Spacing: 20, Color: "nope"})
	if err != nil {
		t.Fatal(err)
	}
	if r, g, b := rgb8(decodeGrid(t, data), 20, 5); r != 255 || g != 0 || b != 0 {
		t.Errorf("line color: got (%d,%d,%d), want red", r, g, b)
	}
}

func TestGridOverlay_Labels(t *testing.T) {
	r := NewRaster(createInMemoryImage(200, 100, color.White))

	plain, err := GridOverlay(r, GridOptions{Spacing: 50})
	if err != nil {
		t.Fatal(err)
	}
	labeled, err := GridOverlay(r, GridOptions{Spacing: 50, Labels: true})
	if err != nil {
		t.Fatal(err)
	}

	// The label plate starts one pixel above the text, below the grid line.
	if r, _, _ := rgb8(decodeGrid(t, plain), 53, 51); r != 255 {
		t.Errorf("unlabeled cell should stay white, got r=%d", r)
	}
	if r, _, _ := rgb8(decodeGrid(t, labeled), 53, 51); r >= 255 {
		t.Errorf("labeled cell should be darkened, got r=%d", r)
	}
}

func TestGridOverlay_DenseGridSkipsLabels(t *testing.T) {
	r := NewRaster(createInMemoryImage(100, 100, color.White))

	plain, err := GridOverlay(r, GridOptions{Spacing: 4})
	if err != nil {
		t.Fatal(err)
	}
	labeled, err := GridOverlay(r, GridOptions{Spacing: 4, Labels: true})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plain, labeled) {
		t.Error("labels should be skipped when they cannot fit in a cell")
	}
}

func TestLabelsFit(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		spacing int
		want    bool
	}{
		{"roomy", 200, 100, 50, true},
		{"four digit coordinates", 2000, 2000, 50, false},
		{"four digit coordinates, wide cells", 2000, 2000, 80, true},
		{"too dense", 1000, 1000, 2, false},
		{"no intersections", 40, 40, 50, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := labelsFit(tt.w, tt.h, tt.spacing); got != tt.want {
				t.Errorf("labelsFit(%d, %d, %d) = %v, want %v", tt.w, tt.h, tt.spacing, got, tt.want)
			}
		})
	}
}

func TestGridOverlay_Legend(t *testing.T) {
	r := NewRaster(createInMemoryImage(100, 100, color.White))
	box := &BoundingBox{X1: 10, Y1: 10, X2: 40, Y2: 30}

	data, err := GridOverlay(r, GridOptions{Spacing: 1000, Legend: box})
	if err != nil {
		t.Fatal(err)
	}
	img := decodeGrid(t, data)

	if r, g, b := rgb8(img, 20, 10); r != 0 || g != 255 || b != 255 {
		t.Errorf("legend top edge: got (%d,%d,%d), want cyan", r, g, b)
	}
	if r, g, b := rgb8(img, 39, 20); r != 0 || g != 255 || b != 255 {
		t.Errorf("legend right edge: got (%d,%d,%d), want cyan", r, g, b)
	}
	if r, g, b := rgb8(img, 20, 20); r != 255 || g != 255 || b != 255 {
		t.Errorf("legend interior: got (%d,%d,%d), want white", r, g, b)
	}
}

func TestGridOverlay_SpacingTooSmall(t *testing.T) {
	r := NewRaster(createInMemoryImage(10, 10, color.White))

	for _, spacing := range []int{-5, 0, 1} {
		if _, err := GridOverlay(r, GridOptions{Spacing: spacing}); err == nil {
			t.Errorf("spacing %d should be rejected", spacing)
		}
	}
}
