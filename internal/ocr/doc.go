// Package ocr reads the text label next to a matched legend swatch.
//
// Legends pair each color swatch with a short label on the same row. Once
// the matcher has located a swatch, LabelRegion picks the row band around
// the centroid, from the centroid to the right edge of the legend box, and a
// LabelReader runs Tesseract (via gosseract/v2) on that strip.
//
// # Build Tags
//
// Tesseract is a cgo dependency, so the reader is only compiled with the
// tesseract build tag:
//
//	go build -tags tesseract ./...
//
// Without the tag NewReader returns ErrUnavailable and callers carry on
// without labels.
//
// # Prerequisites
//
// The tesseract library and language data must be installed:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng
//   - macOS: brew install tesseract
package ocr
