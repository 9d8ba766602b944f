package annotate

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
)

// SVGMimeType is the content type of MarshalSVG output.
const SVGMimeType = "image/svg+xml"

type svgDocument struct {
	XMLName xml.Name  `xml:"svg"`
	Xmlns   string    `xml:"xmlns,attr"`
	Width   int       `xml:"width,attr"`
	Height  int       `xml:"height,attr"`
	ViewBox string    `xml:"viewBox,attr"`
	Circle  svgCircle `xml:"circle"`
	Rect    *svgRect  `xml:"rect"`
	Defs    *svgDefs  `xml:"defs"`
	Lines   []svgLine `xml:"line"`
}

type svgCircle struct {
	CX   string `xml:"cx,attr"`
	CY   string `xml:"cy,attr"`
	R    string `xml:"r,attr"`
	Fill string `xml:"fill,attr"`
}

type svgRect struct {
	X           string `xml:"x,attr"`
	Y           string `xml:"y,attr"`
	Width       string `xml:"width,attr"`
	Height      string `xml:"height,attr"`
	Fill        string `xml:"fill,attr"`
	Stroke      string `xml:"stroke,attr"`
	StrokeWidth string `xml:"stroke-width,attr"`
}

type svgDefs struct {
	Marker svgMarker `xml:"marker"`
}

type svgMarker struct {
	ID           string     `xml:"id,attr"`
	MarkerWidth  string     `xml:"markerWidth,attr"`
	MarkerHeight string     `xml:"markerHeight,attr"`
	RefX         string     `xml:"refX,attr"`
	RefY         string     `xml:"refY,attr"`
	Orient       string     `xml:"orient,attr"`
	MarkerUnits  string     `xml:"markerUnits,attr"`
	Polygon      svgPolygon `xml:"polygon"`
}

type svgPolygon struct {
	Points string `xml:"points,attr"`
	Fill   string `xml:"fill,attr"`
}

type svgLine struct {
	X1          string `xml:"x1,attr"`
	Y1          string `xml:"y1,attr"`
	X2          string `xml:"x2,attr"`
	Y2          string `xml:"y2,attr"`
	Stroke      string `xml:"stroke,attr"`
	StrokeWidth string `xml:"stroke-width,attr"`
	MarkerEnd   string `xml:"marker-end,attr,omitempty"`
}

// num formats v without exponent notation and without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MarshalSVG serializes the document as a standalone SVG file.
//
// Elements appear in emission order: marker circle, legend rect, arrowhead
// definition, arrow line(s). With DoubleStroke the outline line precedes the
// interior line; only the interior line references the arrowhead.
func (d *Document) MarshalSVG() ([]byte, error) {
	s := d.Style
	out := svgDocument{
		Xmlns:   "http://www.w3.org/2000/svg",
		Width:   d.Width,
		Height:  d.Height,
		ViewBox: fmt.Sprintf("0 0 %d %d", d.Width, d.Height),
		Circle: svgCircle{
			CX:   num(d.Marker.CX),
			CY:   num(d.Marker.CY),
			R:    num(d.Marker.R),
			Fill: s.MarkerColor,
		},
	}

	if d.Legend != nil {
		out.Rect = &svgRect{
			X:           num(d.Legend.X),
			Y:           num(d.Legend.Y),
			Width:       num(d.Legend.Width),
			Height:      num(d.Legend.Height),
			Fill:        "none",
			Stroke:      s.BoxColor,
			StrokeWidth: num(s.BoxStrokeWidth),
		}
	}

	if a := d.Arrow; a != nil {
		w, h := a.Head.Width, a.Head.Height
		out.Defs = &svgDefs{Marker: svgMarker{
			ID:           a.Head.ID,
			MarkerWidth:  num(w),
			MarkerHeight: num(h),
			RefX:         num(w),
			RefY:         num(h / 2),
			Orient:       "auto",
			MarkerUnits:  "userSpaceOnUse",
			Polygon: svgPolygon{
				Points: fmt.Sprintf("0 0, %s %s, 0 %s", num(w), num(h/2), num(h)),
				Fill:   s.ArrowColor,
			},
		}}

		line := svgLine{
			X1: num(a.Line.X1),
			Y1: num(a.Line.Y1),
			X2: num(a.Line.X2),
			Y2: num(a.Line.Y2),
		}
		if s.DoubleStroke {
			outline := line
			outline.Stroke = s.ArrowOutlineColor
			outline.StrokeWidth = num(s.ArrowStrokeWidth + 2)
			out.Lines = append(out.Lines, outline)
		}
		line.Stroke = s.ArrowColor
		line.StrokeWidth = num(s.ArrowStrokeWidth)
		line.MarkerEnd = "url(#" + a.Head.ID + ")"
		out.Lines = append(out.Lines, line)
	}

	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("failed to encode svg: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
