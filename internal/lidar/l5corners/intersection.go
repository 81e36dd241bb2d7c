package l5corners

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/linescan/internal/lidar/l2points"
	"github.com/banshee-data/linescan/internal/lidar/l4perception"
)

// parallelEpsilon is the determinant magnitude below which two segments are
// treated as parallel (or coincident) and never intersect.
const parallelEpsilon = 1e-9

// DefaultMinAngleDeg is the smallest crossing angle reported as a corner.
const DefaultMinAngleDeg = 60.0

// Intersection is a crossing of two detected segments.
type Intersection struct {
	Position        l2points.Point `json:"position"`
	AngleDeg        float64        `json:"angle_deg"`         // in [0, 90]
	DistanceToRobot float64        `json:"distance_to_robot"` // metres from the analyzer origin
}

// SegmentIntersection returns the point where the finite segments
// [a.Start, a.End] and [b.Start, b.End] cross. Both segment parameters must
// lie in [0, 1], so crossings on the infinite extensions do not count.
// Parallel, coincident and zero-length segments report no intersection.
//
// The result does not depend on argument order: the pair is put in a
// canonical order before solving, so swapping a and b gives the same point
// bit for bit.
func SegmentIntersection(a, b l4perception.Line) (l2points.Point, bool) {
	if segmentLess(b, a) {
		a, b = b, a
	}

	p := a.Start.Vec()
	r := r2.Sub(a.End.Vec(), p)
	q := b.Start.Vec()
	s := r2.Sub(b.End.Vec(), q)

	det := r2.Cross(r, s)
	if math.Abs(det) < parallelEpsilon {
		return l2points.Point{}, false
	}

	qp := r2.Sub(q, p)
	t := r2.Cross(qp, s) / det
	u := r2.Cross(qp, r) / det
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return l2points.Point{}, false
	}
	return l2points.FromVec(r2.Add(p, r2.Scale(t, r))), true
}

// segmentLess orders segments lexicographically by their endpoints.
func segmentLess(a, b l4perception.Line) bool {
	ka := [4]float64{a.Start.X, a.Start.Y, a.End.X, a.End.Y}
	kb := [4]float64{b.Start.X, b.Start.Y, b.End.X, b.End.Y}
	for i := range ka {
		if ka[i] != kb[i] {
			return ka[i] < kb[i]
		}
	}
	return false
}

// AngleBetweenLines returns the angle in degrees between the undirected
// lines a and b, folded into [0, 90]. A degenerate line (zero normal) gives 0.
func AngleBetweenLines(a, b l4perception.Line) float64 {
	va, vb := a.DirectionVec(), b.DirectionVec()
	na, nb := r2.Norm(va), r2.Norm(vb)
	if na == 0 || nb == 0 {
		return 0
	}

	cos := r2.Dot(va, vb) / (na * nb)
	cos = math.Max(-1, math.Min(1, cos))
	deg := math.Acos(cos) * 180 / math.Pi
	if deg > 90 {
		deg = 180 - deg
	}
	return deg
}

// Analyzer finds corners among detected segments.
type Analyzer struct {
	// MinAngleDeg is the smallest crossing angle kept. Shallow crossings
	// are usually one wall detected twice.
	MinAngleDeg float64
	// Origin is the robot position used for DistanceToRobot.
	Origin l2points.Point
}

// NewAnalyzer returns an Analyzer with the robot at the origin.
func NewAnalyzer(minAngleDeg float64) Analyzer {
	return Analyzer{MinAngleDeg: minAngleDeg}
}

// Analyze checks every unordered pair (i, j), i < j, in input order and
// returns the crossings whose angle is at least MinAngleDeg. Output follows
// pair enumeration order. Near-identical crossings from overlapping segment
// triples are not merged.
//
// The search is O(n²) in the number of segments, which stays small for a
// single scan.
func (an Analyzer) Analyze(lines []l4perception.Line) []Intersection {
	var out []Intersection
	for i := 0; i < len(lines); i++ {
		for j := i + 1; j < len(lines); j++ {
			pt, ok := SegmentIntersection(lines[i], lines[j])
			if !ok {
				continue
			}
			angle := AngleBetweenLines(lines[i], lines[j])
			if angle < an.MinAngleDeg {
				continue
			}
			out = append(out, Intersection{
				Position:        pt,
				AngleDeg:        angle,
				DistanceToRobot: math.Hypot(pt.X-an.Origin.X, pt.Y-an.Origin.Y),
			})
		}
	}
	return out
}

// FindPhysicalIntersections is Analyze with the robot at (0, 0).
func FindPhysicalIntersections(lines []l4perception.Line, minAngleDeg float64) []Intersection {
	return NewAnalyzer(minAngleDeg).Analyze(lines)
}
