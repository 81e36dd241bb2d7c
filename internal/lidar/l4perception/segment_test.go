package l4perception

import (
	"math"
	"testing"
)

func TestFarthestPoints(t *testing.T) {
	pts := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 5, Y: 0}, {X: 2, Y: 0}, {X: -1, Y: 0}}
	p, q := FarthestPoints(pts)
	if p != (Point{X: 5, Y: 0}) || q != (Point{X: -1, Y: 0}) {
		t.Errorf("FarthestPoints = %+v, %+v; want (5,0), (-1,0)", p, q)
	}
}

func TestFarthestPoints_TieKeepsFirstPair(t *testing.T) {
	// Both diagonals of the unit square have the same length; (0,0)-(1,1)
	// is enumerated first.
	pts := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	p, q := FarthestPoints(pts)
	if p != pts[0] || q != pts[2] {
		t.Errorf("FarthestPoints = %+v, %+v; want first diagonal", p, q)
	}
}

func TestFarthestPoints_Small(t *testing.T) {
	if p, q := FarthestPoints(nil); p != (Point{}) || q != (Point{}) {
		t.Errorf("empty input = %+v, %+v", p, q)
	}
	one := Point{X: 2, Y: 3}
	if p, _ := FarthestPoints([]Point{one}); p != one {
		t.Errorf("single point = %+v, want %+v", p, one)
	}
}

func TestShrinkSegment(t *testing.T) {
	p, q := ShrinkSegment(Point{X: 0, Y: 0}, Point{X: 10, Y: 0}, 1)
	if !near(p, Point{X: 1, Y: 0}) || !near(q, Point{X: 9, Y: 0}) {
		t.Errorf("ShrinkSegment = %+v, %+v; want (1,0), (9,0)", p, q)
	}

	p, q = ShrinkSegment(Point{X: 1, Y: 1}, Point{X: 4, Y: 5}, 0.5)
	if !near(p, Point{X: 1.3, Y: 1.4}) || !near(q, Point{X: 3.7, Y: 4.6}) {
		t.Errorf("diagonal ShrinkSegment = %+v, %+v", p, q)
	}
}

func TestShrinkSegment_CollapsesShortSegments(t *testing.T) {
	tests := []struct {
		name   string
		p, q   Point
		amount float64
	}{
		{"shorter than twice amount", Point{X: 0, Y: 0}, Point{X: 1, Y: 0}, 0.6},
		{"zero length", Point{X: 2, Y: 2}, Point{X: 2, Y: 2}, 0.1},
		{"vertical", Point{X: 3, Y: -0.05}, Point{X: 3, Y: 0.05}, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p2, q2 := ShrinkSegment(tt.p, tt.q, tt.amount)
			if p2 != q2 {
				t.Errorf("expected collapse, got %+v, %+v", p2, q2)
			}
			mid := Point{X: (tt.p.X + tt.q.X) / 2, Y: (tt.p.Y + tt.q.Y) / 2}
			if !near(p2, mid) {
				t.Errorf("collapse point %+v, want midpoint %+v", p2, mid)
			}
		})
	}
}

func TestShrinkSegment_ExactlyTwiceAmountDoesNotCollapseInverted(t *testing.T) {
	p, q := ShrinkSegment(Point{X: 0, Y: 0}, Point{X: 2, Y: 0}, 1)
	if !near(p, Point{X: 1, Y: 0}) || !near(q, Point{X: 1, Y: 0}) {
		t.Errorf("ShrinkSegment = %+v, %+v; want both at (1,0)", p, q)
	}
}

func TestShrinkSegment_ZeroAmountZeroLength(t *testing.T) {
	pt := Point{X: 1, Y: 1}
	p, q := ShrinkSegment(pt, pt, 0)
	if p != pt || q != pt {
		t.Errorf("got %+v, %+v", p, q)
	}
}

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}
