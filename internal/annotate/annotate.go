package annotate

import (
	"fmt"

	"github.com/ironsheep/color-legend-util/internal/imaging"
)

// DefaultThreshold is the per-channel color tolerance used when none is configured.
const DefaultThreshold = 15

// Options configures an Annotator.
type Options struct {
	// Threshold is the per-channel tolerance: a legend pixel matches when each
	// of its channels differs from the clicked color by less than Threshold.
	Threshold int

	Style Style
}

// DefaultOptions returns DefaultThreshold and DefaultStyle.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		Style:     DefaultStyle(),
	}
}

// Annotator runs the sample, match, centroid and emit pipeline. It holds no
// per-request state and is safe for concurrent use.
type Annotator struct {
	opts Options
}

// New creates an Annotator.
func New(opts Options) *Annotator {
	return &Annotator{opts: opts}
}

// Result is the outcome of one click.
type Result struct {
	Document *Document
	Sample   imaging.RGBColor
	Matches  int

	// Centroid is nil when no legend is known or no legend pixel matched.
	Centroid *imaging.Point2D
}

// Annotate decodes data and annotates the click on it.
//
// box may be nil when no legend is recorded for the image; the result then
// carries only the marker.
//
// # Errors
//
//   - imaging.ErrUnsupportedFormat or imaging.ErrCorruptData if data cannot be decoded
//   - imaging.ErrOutOfBounds if click is outside the decoded image
func (a *Annotator) Annotate(data []byte, box *imaging.BoundingBox, click imaging.Point) (*Result, error) {
	r, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return a.AnnotateRaster(r, box, click)
}

// AnnotateRaster annotates the click on an already decoded image.
func (a *Annotator) AnnotateRaster(r *imaging.Raster, box *imaging.BoundingBox, click imaging.Point) (*Result, error) {
	if !r.Contains(click) {
		return nil, fmt.Errorf("click (%d,%d) outside %dx%d image: %w",
			click.X, click.Y, r.Width(), r.Height(), imaging.ErrOutOfBounds)
	}

	sample, err := imaging.SampleColor(r, click)
	if err != nil {
		return nil, err
	}

	result := &Result{Sample: sample}
	if box != nil {
		matches := imaging.FindMatches(r, *box, sample, a.opts.Threshold)
		result.Matches = len(matches)
		result.Centroid = imaging.Centroid(matches)
	}

	result.Document = Emit(click, box, result.Centroid, r.Width(), r.Height(), a.opts.Style)
	return result, nil
}
