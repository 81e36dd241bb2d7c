package l4perception

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// SegmentShrinkFactor scales the RANSAC distance threshold into the amount
// each segment end is pulled inward. Extremal inliers of a noisy wall tend
// to overstate its extent.
const SegmentShrinkFactor = 5.0

// FarthestPoints returns the pair of points with the largest Euclidean
// separation. Ties keep the first pair found in (i, j>i) order. The search
// is O(n²), which is fine for the tens to low hundreds of inliers a wall
// produces. Fewer than two points yield the zero pair (or the single point
// paired with zero).
func FarthestPoints(points []Point) (Point, Point) {
	var p, q Point
	best := -1.0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			d := r2.Norm2(r2.Sub(points[i].Vec(), points[j].Vec()))
			if d > best {
				best = d
				p, q = points[i], points[j]
			}
		}
	}
	if best < 0 && len(points) == 1 {
		p = points[0]
	}
	return p, q
}

// ShrinkSegment moves p and q towards each other by amount along p→q. A
// segment shorter than 2·amount collapses to its midpoint, so the result is
// never inverted.
func ShrinkSegment(p, q Point, amount float64) (Point, Point) {
	pv, qv := p.Vec(), q.Vec()
	d := r2.Sub(qv, pv)
	length := r2.Norm(d)
	if length < 2*amount {
		mid := r2.Scale(0.5, r2.Add(pv, qv))
		return Point(mid), Point(mid)
	}
	if length == 0 {
		return p, q
	}

	step := r2.Scale(amount/length, d)
	return Point(r2.Add(pv, step)), Point(r2.Sub(qv, step))
}

// segmentFromInliers derives the finite extent of a wall from its inliers.
func segmentFromInliers(inliers []Point, distanceThreshold float64) (Point, Point) {
	p, q := FarthestPoints(inliers)
	return ShrinkSegment(p, q, SegmentShrinkFactor*distanceThreshold)
}
