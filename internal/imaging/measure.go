package imaging

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Point2D is a sub-pixel position in image space.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToPoint2D converts an integer pixel coordinate to a Point2D.
func (p Point) ToPoint2D() Point2D {
	return Point2D{X: float64(p.X), Y: float64(p.Y)}
}

// Centroid returns the arithmetic mean position of the matches, or nil when
// the set is empty. Coordinates are not rounded.
func Centroid(m MatchSet) *Point2D {
	if len(m) == 0 {
		return nil
	}

	xs := make([]float64, len(m))
	ys := make([]float64, len(m))
	for i, p := range m {
		xs[i] = float64(p.X)
		ys[i] = float64(p.Y)
	}

	return &Point2D{
		X: stat.Mean(xs, nil),
		Y: stat.Mean(ys, nil),
	}
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point2D) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}
