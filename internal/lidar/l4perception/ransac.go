package l4perception

import (
	"errors"
	"fmt"
)

// DeflateMode selects which model removes explained points from the pool
// after a line is accepted.
type DeflateMode int

const (
	// DeflateRefined removes points within threshold of the refined line.
	// Inliers are scored against the two-point candidate, so the refined
	// line may explain a slightly different set of points than it was fitted
	// to.
	DeflateRefined DeflateMode = iota
	// DeflateCandidate removes exactly the points that were scored as
	// inliers of the candidate.
	DeflateCandidate
)

func (m DeflateMode) String() string {
	switch m {
	case DeflateRefined:
		return "refined"
	case DeflateCandidate:
		return "candidate"
	default:
		return fmt.Sprintf("DeflateMode(%d)", int(m))
	}
}

// ParseDeflateMode parses "refined" or "candidate". The empty string is
// DeflateRefined.
func ParseDeflateMode(s string) (DeflateMode, error) {
	switch s {
	case "", "refined":
		return DeflateRefined, nil
	case "candidate":
		return DeflateCandidate, nil
	default:
		return DeflateRefined, fmt.Errorf("unknown deflate mode %q (want refined or candidate)", s)
	}
}

// RansacConfig holds the consensus loop parameters.
type RansacConfig struct {
	MinInliers        int         // points a candidate needs to be accepted (>= 2)
	DistanceThreshold float64     // inlier epsilon in metres (> 0)
	MaxIterations     int         // sampling attempts, including wasted draws (> 0)
	Deflate           DeflateMode // which model deflates the pool
}

// DefaultRansacConfig returns the parameters used for indoor 2D scans.
func DefaultRansacConfig() RansacConfig {
	return RansacConfig{
		MinInliers:        8,
		DistanceThreshold: 0.02,
		MaxIterations:     2000,
		Deflate:           DeflateRefined,
	}
}

// Validate reports parameters that cannot produce meaningful lines. The loop
// itself tolerates them and simply finds nothing.
func (c RansacConfig) Validate() error {
	var errs []error
	if c.MinInliers < 2 {
		errs = append(errs, fmt.Errorf("min inliers must be at least 2, got %d", c.MinInliers))
	}
	if !(c.DistanceThreshold > 0) {
		errs = append(errs, fmt.Errorf("distance threshold must be positive, got %g", c.DistanceThreshold))
	}
	if c.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("max iterations must be positive, got %d", c.MaxIterations))
	}
	if c.Deflate != DeflateRefined && c.Deflate != DeflateCandidate {
		errs = append(errs, fmt.Errorf("unknown deflate mode %d", int(c.Deflate)))
	}
	return errors.Join(errs...)
}

// Termination is why the consensus loop stopped.
type Termination int

const (
	// IterationsExhausted means MaxIterations attempts were made.
	IterationsExhausted Termination = iota
	// PoolExhausted means MinInliers or fewer points remained.
	PoolExhausted
)

func (t Termination) String() string {
	if t == PoolExhausted {
		return "pool_exhausted"
	}
	return "iterations_exhausted"
}

// MarshalText renders the termination reason for JSON reports.
func (t Termination) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// RansacStats describes one run of the consensus loop.
type RansacStats struct {
	Iterations  int         `json:"iterations"`       // attempts made, wasted draws included
	WastedDraws int         `json:"wasted_draws"`     // both indices coincided
	Rejected    int         `json:"rejected"`         // candidates below MinInliers
	Accepted    int         `json:"accepted"`         // lines emitted
	InputPoints int         `json:"input_points"`     // size of the initial pool
	Remaining   int         `json:"remaining_points"` // pool size at termination
	Termination Termination `json:"termination"`
}

// FindLines extracts lines from points; see FindLinesWithStats.
func FindLines(points []Point, cfg RansacConfig, rng Sampler) []Line {
	lines, _ := FindLinesWithStats(points, cfg, rng)
	return lines
}

// FindLinesWithStats runs the RANSAC consensus loop over points:
//
//  1. count the attempt, then draw two pool indices; equal indices waste it
//  2. build the line through the two points
//  3. score every pool point with distance < DistanceThreshold as an inlier
//  4. with at least MinInliers inliers, refine the line over them, take the
//     segment from their farthest pair (shrunk inward), emit the line and
//     remove the points it explains from the pool
//
// The loop stops after MaxIterations attempts or once the pool holds
// MinInliers points or fewer. Lines come back in discovery order. points is
// never modified. Degenerate configurations and inputs produce no lines.
func FindLinesWithStats(points []Point, cfg RansacConfig, rng Sampler) ([]Line, RansacStats) {
	pool := make([]Point, len(points))
	copy(pool, points)

	stats := RansacStats{InputPoints: len(points)}
	var lines []Line

	for stats.Iterations < cfg.MaxIterations && len(pool) > cfg.MinInliers && len(pool) > 0 {
		stats.Iterations++

		i := rng.Intn(len(pool))
		j := rng.Intn(len(pool))
		if i == j {
			stats.WastedDraws++
			continue
		}

		candidate := LineFromPoints(pool[i], pool[j])
		inliers := scoreInliers(pool, candidate, cfg.DistanceThreshold)
		if len(inliers) < cfg.MinInliers {
			stats.Rejected++
			continue
		}

		refined, err := RefineLine(inliers)
		if err != nil {
			stats.Rejected++
			continue
		}
		refined.Start, refined.End = segmentFromInliers(inliers, cfg.DistanceThreshold)
		refined.Inliers = inliers
		lines = append(lines, refined)
		stats.Accepted++

		deflateBy := refined
		if cfg.Deflate == DeflateCandidate {
			deflateBy = candidate
		}
		pool = deflate(pool, deflateBy, cfg.DistanceThreshold)
	}

	stats.Remaining = len(pool)
	if len(pool) <= cfg.MinInliers || len(pool) == 0 {
		stats.Termination = PoolExhausted
	} else {
		stats.Termination = IterationsExhausted
	}
	return lines, stats
}

// scoreInliers returns a fresh slice of the pool points strictly closer than
// threshold to l.
func scoreInliers(pool []Point, l Line, threshold float64) []Point {
	var inliers []Point
	for _, p := range pool {
		if DistanceToLine(l, p) < threshold {
			inliers = append(inliers, p)
		}
	}
	return inliers
}

// deflate compacts pool in place, keeping points at or beyond threshold
// from l.
func deflate(pool []Point, l Line, threshold float64) []Point {
	w := 0
	for _, p := range pool {
		if DistanceToLine(l, p) >= threshold {
			pool[w] = p
			w++
		}
	}
	return pool[:w]
}
