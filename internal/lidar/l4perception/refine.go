package l4perception

import (
	"errors"
	"math"
)

// refineEpsilon is the smallest normal magnitude accepted from the
// eigenvector equations before falling back to the next strategy.
const refineEpsilon = 1e-9

// ErrTooFewPoints is returned by RefineLine for fewer than two points.
var ErrTooFewPoints = errors.New("line refinement needs at least two points")

// RefineLine fits a line to points by total least squares (orthogonal
// regression): the normal is the eigenvector of the 2x2 scatter matrix with
// the smaller eigenvalue, and the line passes through the centroid. Unlike
// ordinary least squares the fit is indifferent to orientation, so vertical
// walls are handled as well as horizontal ones.
//
// The returned normal (A, B) has unit length. If both eigenvector equations
// degenerate (all points coincide) the line through the first and last point
// is used instead, which is itself degenerate when those coincide.
func RefineLine(points []Point) (Line, error) {
	n := len(points)
	if n < 2 {
		return Line{}, ErrTooFewPoints
	}

	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var sxx, sxy, syy float64
	for _, p := range points {
		dx := p.X - meanX
		dy := p.Y - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}

	// Smaller eigenvalue of [[sxx sxy] [sxy syy]]. The discriminant is
	// mathematically non-negative but rounds below zero for collinear or
	// zero-spread input, so it is clamped.
	trace := sxx + syy
	det := sxx*syy - sxy*sxy
	disc := math.Max(0, trace*trace/4-det)
	lambda := trace/2 - math.Sqrt(disc)

	// (sxx-λ)A + sxy·B = 0
	a, b := sxy, lambda-sxx
	mag := math.Hypot(a, b)
	if mag < refineEpsilon {
		// sxy·A + (syy-λ)B = 0
		a, b = lambda-syy, sxy
		mag = math.Hypot(a, b)
		if mag < refineEpsilon {
			return normalized(LineFromPoints(points[0], points[n-1])), nil
		}
	}

	a /= mag
	b /= mag
	return Line{A: a, B: b, C: -a*meanX - b*meanY}, nil
}

// normalized scales l so that (A, B) has unit length. Degenerate lines are
// returned unchanged.
func normalized(l Line) Line {
	mag := math.Hypot(l.A, l.B)
	if mag == 0 {
		return l
	}
	l.A /= mag
	l.B /= mag
	l.C /= mag
	return l
}
