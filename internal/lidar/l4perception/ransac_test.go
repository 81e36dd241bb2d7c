package l4perception

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/linescan/internal/lidar/l2points"
)

// scriptedSampler replays a fixed index sequence.
type scriptedSampler struct {
	seq []int
	pos int
}

func (s *scriptedSampler) Intn(n int) int {
	v := s.seq[s.pos%len(s.seq)]
	s.pos++
	return v % n
}

// roomCorner returns two noiseless walls far enough apart that no line
// through one point of each collects MinInliers points.
func roomCorner() []Point {
	return l2points.NewSyntheticScene(1).
		AddWall(Point{X: -2, Y: 1.5}, Point{X: 1.0, Y: 1.5}, 60).
		AddWall(Point{X: 1.8, Y: -2}, Point{X: 1.8, Y: 0.5}, 50).
		Points()
}

func TestFindLines_ScriptedRun(t *testing.T) {
	pts := pointsAlong(Point{X: 0, Y: 0}, Point{X: 9, Y: 0}, 10)
	cfg := RansacConfig{MinInliers: 3, DistanceThreshold: 0.1, MaxIterations: 10}

	// First draw coincides and is wasted; second spans the whole wall.
	rng := &scriptedSampler{seq: []int{4, 4, 0, 9}}
	lines, stats := FindLinesWithStats(pts, cfg, rng)

	require.Len(t, lines, 1)
	l := lines[0]
	assert.InDelta(t, 0, l.A, 1e-12)
	assert.InDelta(t, 1, math.Abs(l.B), 1e-12)
	assert.InDelta(t, 0, l.C, 1e-12)
	assert.Len(t, l.Inliers, 10)
	assert.InDelta(t, 0.5, l.Start.X, 1e-12)
	assert.InDelta(t, 8.5, l.End.X, 1e-12)

	want := RansacStats{
		Iterations:  2,
		WastedDraws: 1,
		Accepted:    1,
		InputPoints: 10,
		Remaining:   0,
		Termination: PoolExhausted,
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestFindLines_RejectLeavesPoolUntouched(t *testing.T) {
	// Two clusters of three: any candidate within one cluster has 3 inliers,
	// below MinInliers 4.
	pts := []Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 5}, {X: 1, Y: 5}, {X: 2, Y: 5}}
	cfg := RansacConfig{MinInliers: 4, DistanceThreshold: 0.05, MaxIterations: 7}

	lines, stats := FindLinesWithStats(pts, cfg, NewSampler(11))
	assert.Empty(t, lines)
	assert.Equal(t, 7, stats.Iterations)
	assert.Equal(t, 7, stats.WastedDraws+stats.Rejected)
	assert.Equal(t, 6, stats.Remaining)
	assert.Equal(t, IterationsExhausted, stats.Termination)
}

func TestFindLines_FindsPerpendicularWalls(t *testing.T) {
	pts := roomCorner()
	cfg := DefaultRansacConfig()

	lines, stats := FindLinesWithStats(pts, cfg, NewSampler(5))
	require.Len(t, lines, 2, "stats: %+v", stats)

	var horizontal, vertical int
	for _, l := range lines {
		switch {
		case math.Abs(l.B) > 0.999:
			horizontal++
			assert.InDelta(t, 1.5, -l.C/l.B, 1e-9)
		case math.Abs(l.A) > 0.999:
			vertical++
			assert.InDelta(t, 1.8, -l.C/l.A, 1e-9)
		default:
			t.Errorf("unexpected line orientation: %+v", l)
		}
	}
	assert.Equal(t, 1, horizontal)
	assert.Equal(t, 1, vertical)
	assert.Equal(t, PoolExhausted, stats.Termination)
}

func TestFindLines_Deterministic(t *testing.T) {
	pts := l2points.DefaultSyntheticScene(9).Points()
	cfg := DefaultRansacConfig()

	a := FindLines(pts, cfg, NewSampler(1234))
	b := FindLines(pts, cfg, NewSampler(1234))
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed should reproduce the run:\n%s", diff)
	}
}

func TestFindLines_Properties(t *testing.T) {
	for seed := int64(1); seed <= 25; seed++ {
		scene := l2points.DefaultSyntheticScene(seed)
		pts := scene.Points()

		for _, mode := range []DeflateMode{DeflateRefined, DeflateCandidate} {
			cfg := RansacConfig{MinInliers: 8, DistanceThreshold: 0.02, MaxIterations: 500, Deflate: mode}
			lines, stats := FindLinesWithStats(pts, cfg, NewSampler(seed))

			if stats.Iterations > cfg.MaxIterations {
				t.Errorf("seed %d %v: %d iterations exceed budget", seed, mode, stats.Iterations)
			}
			if limit := len(pts) / cfg.MinInliers; len(lines) > limit {
				t.Errorf("seed %d %v: %d lines exceed floor(n/minInliers)=%d", seed, mode, len(lines), limit)
			}
			if stats.Accepted != len(lines) {
				t.Errorf("seed %d %v: accepted %d but returned %d", seed, mode, stats.Accepted, len(lines))
			}
			for i, l := range lines {
				if len(l.Inliers) < cfg.MinInliers {
					t.Errorf("seed %d %v: line %d has %d inliers", seed, mode, i, len(l.Inliers))
				}
				if norm := math.Hypot(l.A, l.B); math.Abs(norm-1) > 1e-9 {
					t.Errorf("seed %d %v: line %d normal length %v", seed, mode, i, norm)
				}
			}
		}
	}
}

func TestFindLines_CandidateDeflationRemovesExactlyInliers(t *testing.T) {
	pts := l2points.DefaultSyntheticScene(4).Points()
	cfg := RansacConfig{MinInliers: 8, DistanceThreshold: 0.02, MaxIterations: 2000, Deflate: DeflateCandidate}

	lines, stats := FindLinesWithStats(pts, cfg, NewSampler(4))
	require.NotEmpty(t, lines)

	removed := 0
	for _, l := range lines {
		removed += len(l.Inliers)
	}
	assert.Equal(t, len(pts)-removed, stats.Remaining)
}

func TestFindLines_DoesNotMutateInput(t *testing.T) {
	pts := roomCorner()
	orig := append([]Point(nil), pts...)

	_ = FindLines(pts, DefaultRansacConfig(), NewSampler(2))
	if diff := cmp.Diff(orig, pts); diff != "" {
		t.Errorf("input modified:\n%s", diff)
	}
}

func TestFindLines_DegenerateInputs(t *testing.T) {
	cfg := DefaultRansacConfig()

	tests := []struct {
		name string
		pts  []Point
		cfg  RansacConfig
	}{
		{"nil input", nil, cfg},
		{"fewer points than MinInliers", pointsAlong(Point{X: 0, Y: 0}, Point{X: 1, Y: 0}, 5), cfg},
		{"zero iteration budget", roomCorner(), RansacConfig{MinInliers: 8, DistanceThreshold: 0.02}},
		{"zero threshold", roomCorner(), RansacConfig{MinInliers: 8, MaxIterations: 50}},
		{"non-positive MinInliers and threshold", roomCorner(), RansacConfig{MinInliers: 0, MaxIterations: 50}},
		{"duplicate points", []Point{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}, RansacConfig{MinInliers: 2, DistanceThreshold: 0.1, MaxIterations: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := FindLines(tt.pts, tt.cfg, NewSampler(1))
			assert.Empty(t, lines)
		})
	}
}

func TestRansacConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultRansacConfig().Validate())

	bad := RansacConfig{MinInliers: 1, DistanceThreshold: math.NaN(), MaxIterations: 0, Deflate: DeflateMode(7)}
	err := bad.Validate()
	require.Error(t, err)
	for _, want := range []string{"min inliers", "distance threshold", "max iterations", "deflate mode"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestParseDeflateMode(t *testing.T) {
	for in, want := range map[string]DeflateMode{"": DeflateRefined, "refined": DeflateRefined, "candidate": DeflateCandidate} {
		got, err := ParseDeflateMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		if in != "" {
			assert.Equal(t, in, got.String())
		}
	}
	_, err := ParseDeflateMode("both")
	assert.Error(t, err)
}

func TestSamplers(t *testing.T) {
	a, b := NewSampler(77), NewSampler(77)
	for i := 0; i < 10; i++ {
		require.Equal(t, a.Intn(1000), b.Intn(1000))
	}

	rng, seed := NewEntropySampler()
	assert.NotNil(t, rng)
	assert.Positive(t, seed)
	assert.Positive(t, EntropySeed())
}

func TestTermination_MarshalText(t *testing.T) {
	b, err := PoolExhausted.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "pool_exhausted", string(b))
	assert.Equal(t, "iterations_exhausted", IterationsExhausted.String())
}
