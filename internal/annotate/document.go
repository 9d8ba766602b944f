package annotate

import (
	"github.com/ironsheep/color-legend-util/internal/imaging"
)

// ArrowHeadID is the id of the arrowhead marker definition referenced by the arrow line.
const ArrowHeadID = "arrowhead"

// Circle is the click marker.
type Circle struct {
	CX float64 `json:"cx"`
	CY float64 `json:"cy"`
	R  float64 `json:"r"`
}

// Rect is the legend outline. Width and Height are emitted as given, even
// when negative.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Line is a straight segment from (X1, Y1) to (X2, Y2).
type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Length returns the length of the segment.
func (l Line) Length() float64 {
	return imaging.Distance(imaging.Point2D{X: l.X1, Y: l.Y1}, imaging.Point2D{X: l.X2, Y: l.Y2})
}

// ArrowHead is a triangular marker whose tip sits on the end of the arrow
// line. Width runs along the line, Height across it.
type ArrowHead struct {
	ID     string  `json:"id"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Arrow points from the click to the matched centroid.
type Arrow struct {
	Head ArrowHead `json:"head"`
	Line Line      `json:"line"`
}

// Document is the annotation for one click.
type Document struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Marker Circle `json:"marker"`
	Legend *Rect  `json:"legend,omitempty"`
	Arrow  *Arrow `json:"arrow,omitempty"`
	Style  Style  `json:"-"`
}

// Style holds the presentation of a Document. Colors are "#rrggbb" strings.
type Style struct {
	MarkerRadius      float64
	MarkerColor       string
	BoxColor          string
	BoxStrokeWidth    float64
	ArrowColor        string
	ArrowOutlineColor string
	ArrowStrokeWidth  float64
	ArrowHeadWidth    float64
	ArrowHeadHeight   float64

	// DoubleStroke draws the arrow line twice: a wider outline pass in
	// ArrowOutlineColor beneath the interior pass in ArrowColor.
	DoubleStroke bool
}

// DefaultStyle returns the style used when none is configured.
func DefaultStyle() Style {
	return Style{
		MarkerRadius:      5,
		MarkerColor:       "#000000",
		BoxColor:          "#000000",
		BoxStrokeWidth:    3,
		ArrowColor:        "#ff0000",
		ArrowOutlineColor: "#ffffff",
		ArrowStrokeWidth:  2,
		ArrowHeadWidth:    10,
		ArrowHeadHeight:   7,
	}
}

// Emit builds the Document for a click.
//
// Rules, applied in order:
//  1. A filled marker circle is always placed at click.
//  2. If box is non-nil, its outline is added as x=X1, y=Y1, width=X2-X1,
//     height=Y2-Y1, unclamped.
//  3. If box and centroid are both non-nil, an arrow runs from click to
//     centroid with the arrowhead at the centroid. A zero-length arrow is
//     emitted as is.
//
// width and height are the canvas size, equal to the image's pixel size.
func Emit(click imaging.Point, box *imaging.BoundingBox, centroid *imaging.Point2D, width, height int, style Style) *Document {
	doc := &Document{
		Width:  width,
		Height: height,
		Marker: Circle{CX: float64(click.X), CY: float64(click.Y), R: style.MarkerRadius},
		Style:  style,
	}

	if box == nil {
		return doc
	}

	doc.Legend = &Rect{
		X:      box.X1,
		Y:      box.Y1,
		Width:  box.Width(),
		Height: box.Height(),
	}

	if centroid != nil {
		doc.Arrow = &Arrow{
			Head: ArrowHead{ID: ArrowHeadID, Width: style.ArrowHeadWidth, Height: style.ArrowHeadHeight},
			Line: Line{
				X1: float64(click.X),
				Y1: float64(click.Y),
				X2: centroid.X,
				Y2: centroid.Y,
			},
		}
	}

	return doc
}
