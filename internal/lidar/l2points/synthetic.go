package l2points

import (
	"math"
	"math/rand"
)

// WallSpec describes one straight wall in a synthetic scene.
type WallSpec struct {
	From, To Point
	Points   int // evenly spaced returns from From to To, both inclusive
}

// SyntheticScene generates point clouds of straight walls with optional
// perpendicular Gaussian noise and uniformly scattered clutter.
type SyntheticScene struct {
	Walls         []WallSpec
	Noise         float64 // standard deviation of perpendicular offset (metres)
	Clutter       int     // number of uniformly scattered outliers
	ClutterRadius float64 // clutter is drawn from the square [-r, r]²

	rng *rand.Rand
}

// NewSyntheticScene creates an empty scene whose noise and clutter are drawn
// from a source seeded with seed.
func NewSyntheticScene(seed int64) *SyntheticScene {
	return &SyntheticScene{
		ClutterRadius: 3.0,
		rng:           rand.New(rand.NewSource(seed)),
	}
}

// DefaultSyntheticScene returns a room corner seen from the origin: a back
// wall, a side wall meeting it at right angles, a slanted cabinet face and a
// little sensor noise.
func DefaultSyntheticScene(seed int64) *SyntheticScene {
	s := NewSyntheticScene(seed)
	s.Walls = []WallSpec{
		{From: Point{X: -2.0, Y: 1.5}, To: Point{X: 2.2, Y: 1.5}, Points: 120},
		{From: Point{X: 1.8, Y: -2.0}, To: Point{X: 1.8, Y: 2.0}, Points: 110},
		{From: Point{X: -2.5, Y: -0.5}, To: Point{X: -1.0, Y: -2.2}, Points: 50},
	}
	s.Noise = 0.004
	s.Clutter = 25
	return s
}

// AddWall appends a wall sampled with n returns.
func (s *SyntheticScene) AddWall(from, to Point, n int) *SyntheticScene {
	s.Walls = append(s.Walls, WallSpec{From: from, To: to, Points: n})
	return s
}

// Points generates the cloud: every wall in order, then the clutter.
func (s *SyntheticScene) Points() []Point {
	var pts []Point
	for _, w := range s.Walls {
		pts = append(pts, s.wallPoints(w)...)
	}
	for i := 0; i < s.Clutter; i++ {
		pts = append(pts, Point{
			X: (s.rng.Float64()*2 - 1) * s.ClutterRadius,
			Y: (s.rng.Float64()*2 - 1) * s.ClutterRadius,
		})
	}
	return pts
}

func (s *SyntheticScene) wallPoints(w WallSpec) []Point {
	if w.Points <= 0 {
		return nil
	}
	if w.Points == 1 {
		return []Point{w.From}
	}

	dx := w.To.X - w.From.X
	dy := w.To.Y - w.From.Y
	length := math.Hypot(dx, dy)
	var nx, ny float64
	if length > 0 {
		nx, ny = -dy/length, dx/length
	}

	pts := make([]Point, 0, w.Points)
	for i := 0; i < w.Points; i++ {
		t := float64(i) / float64(w.Points-1)
		p := Point{X: w.From.X + t*dx, Y: w.From.Y + t*dy}
		if s.Noise > 0 {
			off := s.rng.NormFloat64() * s.Noise
			p.X += off * nx
			p.Y += off * ny
		}
		pts = append(pts, p)
	}
	return pts
}
