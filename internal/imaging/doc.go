// Package imaging provides the pixel-level operations behind legend matching.
//
// This package decodes raw image bytes into an addressable pixel grid, samples
// single pixel colors, scans a legend bounding box for pixels whose color is
// close to a reference color, and reduces the matches to a centroid. All
// operations use a coordinate system where (0,0) is at the top-left corner,
// X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Coordinates are inclusive for single points
//   - For bounding boxes, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive
//     (bottom-right). Fractional box coordinates are floored before scanning.
//
// # Color Matching
//
// Two colors are considered similar when every channel differs by strictly
// less than the threshold:
//
//	|r1-r2| < t && |g1-g2| < t && |b1-b2| < t
//
// Alpha is ignored. Colors are read from a non-premultiplied 8-bit copy of the
// decoded image so that the sampled click color and the scanned legend colors
// come from the same representation.
//
// # Thread Safety
//
// A Raster is immutable after Decode and may be shared between goroutines.
// The ImageCache type is safe for concurrent use. Sampling, matching and
// centroid functions are stateless.
//
// # Error Handling
//
// Functions return sentinel errors, wrapped with context, for:
//   - Coordinates outside image bounds (ErrOutOfBounds)
//   - Bytes in a format no registered decoder recognizes (ErrUnsupportedFormat)
//   - Bytes a decoder recognized but could not decode (ErrCorruptData)
//
// Use errors.Is to classify them.
package imaging
