package l4perception

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// LineFromPoints returns the implicit line through p1 and p2. The result is
// degenerate (all zero) when p1 == p2.
func LineFromPoints(p1, p2 Point) Line {
	a := p2.Y - p1.Y
	b := p1.X - p2.X
	return Line{
		A: a,
		B: b,
		C: -a*p1.X - b*p1.Y,
	}
}

// DistanceToLine returns the perpendicular distance from p to l. The result
// is NaN when l is degenerate; callers check IsDegenerate first.
func DistanceToLine(l Line, p Point) float64 {
	return math.Abs(l.A*p.X+l.B*p.Y+l.C) / math.Sqrt(l.A*l.A+l.B*l.B)
}

// Distance is DistanceToLine(l, p).
func (l Line) Distance(p Point) float64 {
	return DistanceToLine(l, p)
}

// Direction returns (B, -A), a vector along the line.
func (l Line) Direction() (dx, dy float64) {
	return l.B, -l.A
}

// DirectionVec is Direction as a gonum vector.
func (l Line) DirectionVec() r2.Vec {
	dx, dy := l.Direction()
	return r2.Vec{X: dx, Y: dy}
}

// IsDegenerate reports whether the normal (A, B) is the zero vector.
func (l Line) IsDegenerate() bool {
	return l.A == 0 && l.B == 0
}

// Length returns the length of the finite segment.
func (l Line) Length() float64 {
	return r2.Norm(r2.Sub(l.End.Vec(), l.Start.Vec()))
}
