package annotate

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/anthonynsimon/bild/imgio"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// Render composites the document over base and returns the result.
//
// base may be nil, in which case the shapes are drawn on a transparent canvas.
// The arrowhead is drawn as a filled triangle whose tip is the line's end
// point; a zero-length arrow has no direction and draws no head or line.
func Render(d *Document, base image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, d.Width, d.Height))
	if base != nil {
		draw.Draw(dst, dst.Bounds(), base, base.Bounds().Min, draw.Src)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return dst
	}

	s := d.Style
	scanner := rasterx.NewScannerGV(d.Width, d.Height, dst, dst.Bounds())
	filler := rasterx.NewFiller(d.Width, d.Height, scanner)
	stroker := rasterx.NewStroker(d.Width, d.Height, scanner)

	if r := d.Legend; r != nil {
		stroker.SetStroke(toFixed(s.BoxStrokeWidth), toFixed(4), rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter)
		rasterx.AddRect(r.X, r.Y, r.X+r.Width, r.Y+r.Height, 0, stroker)
		stroker.SetColor(parseColor(s.BoxColor))
		stroker.Draw()
		stroker.Clear()
	}

	if a := d.Arrow; a != nil && a.Line.Length() > 0 {
		if s.DoubleStroke {
			strokeLine(stroker, a.Line, s.ArrowStrokeWidth+2, parseColor(s.ArrowOutlineColor))
		}
		strokeLine(stroker, a.Line, s.ArrowStrokeWidth, parseColor(s.ArrowColor))
		fillHead(filler, a, parseColor(s.ArrowColor))
	}

	rasterx.AddCircle(d.Marker.CX, d.Marker.CY, d.Marker.R, filler)
	filler.SetColor(parseColor(s.MarkerColor))
	filler.Draw()
	filler.Clear()

	return dst
}

// EncodePNG renders the document over base and encodes it as PNG.
func EncodePNG(d *Document, base image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, Render(d, base)); err != nil {
		return nil, fmt.Errorf("failed to encode annotation: %w", err)
	}
	return buf.Bytes(), nil
}

func strokeLine(stroker *rasterx.Stroker, l Line, width float64, c color.Color) {
	stroker.SetStroke(toFixed(width), toFixed(4), rasterx.ButtCap, rasterx.ButtCap, rasterx.FlatGap, rasterx.Round)
	stroker.Start(rasterx.ToFixedP(l.X1, l.Y1))
	stroker.Line(rasterx.ToFixedP(l.X2, l.Y2))
	stroker.Stop(false)
	stroker.SetColor(c)
	stroker.Draw()
	stroker.Clear()
}

// fillHead draws the arrowhead triangle: tip at the line end, base Width
// back along the line, Height wide.
func fillHead(filler *rasterx.Filler, a *Arrow, c color.Color) {
	dx, dy := a.Line.X2-a.Line.X1, a.Line.Y2-a.Line.Y1
	length := math.Hypot(dx, dy)
	ux, uy := dx/length, dy/length

	baseX := a.Line.X2 - ux*a.Head.Width
	baseY := a.Line.Y2 - uy*a.Head.Width
	half := a.Head.Height / 2

	filler.Start(rasterx.ToFixedP(a.Line.X2, a.Line.Y2))
	filler.Line(rasterx.ToFixedP(baseX-uy*half, baseY+ux*half))
	filler.Line(rasterx.ToFixedP(baseX+uy*half, baseY-ux*half))
	filler.Stop(true)
	filler.SetColor(c)
	filler.Draw()
	filler.Clear()
}

func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

// parseColor falls back to opaque black for unparsable input.
func parseColor(hex string) color.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.Black
	}
	return c
}
