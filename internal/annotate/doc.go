// Package annotate turns a click on an image into a vector annotation.
//
// The pipeline is strictly sequential:
//
//  1. Sample the clicked pixel (imaging.SampleColor)
//  2. Scan the legend box for similar pixels (imaging.FindMatches)
//  3. Average the matches (imaging.Centroid)
//  4. Emit the Document (Emit)
//
// A Document always holds a marker circle at the click. It holds the legend
// rectangle when a bounding box is known, and an arrow from the click to the
// centroid only when the box is known and at least one pixel matched.
//
// Documents are serialized with MarshalSVG, or composited over the source
// image with Render for a raster preview. Coordinates are image space: the
// canvas has the image's pixel dimensions and is never scaled or flipped.
//
// Styling (colors, stroke widths, the optional double stroke) never changes
// geometry.
package annotate
