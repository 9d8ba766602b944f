package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strconv"

	"github.com/anthonynsimon/bild/imgio"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultGridSpacing is the grid pitch used when none is requested.
const DefaultGridSpacing = 50

// GridOptions controls GridOverlay.
type GridOptions struct {
	// Spacing is the distance between grid lines in pixels. Values below 2
	// are rejected.
	Spacing int

	// Color is the line color as "#rrggbb". An unparsable value falls back
	// to red.
	Color string

	// Labels prints the pixel coordinate of every grid intersection.
	Labels bool

	// Legend, when set, is outlined on top of the grid.
	Legend *BoundingBox
}

// GridOverlay draws a coordinate grid over the image and returns it as PNG.
// It is meant for reading off legend box coordinates by eye.
func GridOverlay(r *Raster, opts GridOptions) ([]byte, error) {
	if opts.Spacing < 2 {
		return nil, fmt.Errorf("grid spacing %d too small", opts.Spacing)
	}

	lineColor := color.Color(color.RGBA{255, 0, 0, 255})
	if c, err := colorful.Hex(opts.Color); err == nil {
		lineColor = c
	}

	w, h := r.Width(), r.Height()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), r.img, r.img.Rect.Min, draw.Src)

	for x := opts.Spacing; x < w; x += opts.Spacing {
		draw.Draw(dst, image.Rect(x, 0, x+1, h), image.NewUniform(lineColor), image.Point{}, draw.Src)
	}
	for y := opts.Spacing; y < h; y += opts.Spacing {
		draw.Draw(dst, image.Rect(0, y, w, y+1), image.NewUniform(lineColor), image.Point{}, draw.Src)
	}

	if opts.Labels && labelsFit(w, h, opts.Spacing) {
		for y := opts.Spacing; y < h; y += opts.Spacing {
			for x := opts.Spacing; x < w; x += opts.Spacing {
				drawLabel(dst, x+2, y+2, strconv.Itoa(x)+","+strconv.Itoa(y))
			}
		}
	}

	if opts.Legend != nil {
		outline(dst, opts.Legend.PixelRect(w, h), color.RGBA{0, 255, 255, 255})
	}

	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode grid: %w", err)
	}
	return buf.Bytes(), nil
}

// labelsFit reports whether the widest intersection label, plus its plate,
// fits inside one grid cell. Denser grids are drawn without labels.
func labelsFit(w, h, spacing int) bool {
	lastX := (w - 1) / spacing * spacing
	lastY := (h - 1) / spacing * spacing
	if lastX < spacing || lastY < spacing {
		return true
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	width := d.MeasureString(strconv.Itoa(lastX) + "," + strconv.Itoa(lastY)).Ceil()
	height := face.Metrics().Height.Ceil()
	return spacing >= max(width, height)+labelPad
}

// labelPad is the label offset from the grid line plus the plate border.
const labelPad = 4

// drawLabel prints text with its top-left corner at (x, y) on a dark plate.
func drawLabel(dst *image.RGBA, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.White, Face: face}
	width := d.MeasureString(text).Ceil()
	height := face.Metrics().Height.Ceil()

	plate := image.Rect(x-1, y-1, x+width+1, y+height+1)
	draw.Draw(dst, plate, image.NewUniform(color.RGBA{0, 0, 0, 180}), image.Point{}, draw.Over)

	d.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + face.Metrics().Ascent.Ceil())}
	d.DrawString(text)
}

// outline draws a one pixel border just inside rect.
func outline(dst *image.RGBA, rect image.Rectangle, c color.Color) {
	if rect.Empty() {
		return
	}
	src := image.NewUniform(c)
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+1), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Max.Y-1, rect.Max.X, rect.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+1, rect.Max.Y), src, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(rect.Max.X-1, rect.Min.Y, rect.Max.X, rect.Max.Y), src, image.Point{}, draw.Src)
}
