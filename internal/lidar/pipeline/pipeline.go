package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/linescan/internal/lidar/l1scans"
	"github.com/banshee-data/linescan/internal/lidar/l2points"
	"github.com/banshee-data/linescan/internal/lidar/l4perception"
	"github.com/banshee-data/linescan/internal/lidar/l5corners"
	"github.com/banshee-data/linescan/internal/monitoring"
	"github.com/banshee-data/linescan/internal/timeutil"
)

// ScanSource resolves an input name to a scan. *l1scans.Loader satisfies it.
type ScanSource interface {
	Load(ctx context.Context, input string) (*l1scans.LidarScan, error)
}

// SourceSynthetic is the Result.Source of runs fed by RunPoints without a
// name.
const SourceSynthetic = "synthetic"

// Params holds the tunables of one analysis run.
type Params struct {
	Ransac      l4perception.RansacConfig
	MinAngleDeg float64
	// Seed for the RANSAC sampler. Zero draws a fresh seed from the OS
	// entropy source; the seed actually used is reported in Result.Seed.
	Seed int64
	// Origin is the robot position corners are measured from.
	Origin l2points.Point
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{
		Ransac:      l4perception.DefaultRansacConfig(),
		MinAngleDeg: l5corners.DefaultMinAngleDeg,
	}
}

// Validate checks the RANSAC parameters and the angle threshold.
func (p Params) Validate() error {
	var errs []error
	if err := p.Ransac.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !(p.MinAngleDeg >= 0 && p.MinAngleDeg <= 90) {
		errs = append(errs, fmt.Errorf("angle threshold must be within [0, 90] degrees, got %g", p.MinAngleDeg))
	}
	return errors.Join(errs...)
}

// Timings records how long each stage took.
type Timings struct {
	Load    time.Duration `json:"load_ns"`
	Filter  time.Duration `json:"filter_ns"`
	Ransac  time.Duration `json:"ransac_ns"`
	Corners time.Duration `json:"corners_ns"`
}

// Total is the sum of all stage durations.
func (t Timings) Total() time.Duration {
	return t.Load + t.Filter + t.Ransac + t.Corners
}

// Result is everything one run produced.
type Result struct {
	RunID     string    `json:"run_id"`
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
	Seed      int64     `json:"seed"`

	// Scan is kept for renderers; raw ranges may hold Inf and are not
	// exported.
	Scan *l1scans.LidarScan `json:"-"`

	Points        []l2points.Point         `json:"points"`
	Lines         []l4perception.Line      `json:"lines"`
	Intersections []l5corners.Intersection `json:"intersections"`

	// Origin is the robot position DistanceToRobot is measured from.
	Origin l2points.Point `json:"origin"`

	MinAngleDeg float64                  `json:"min_angle_deg"`
	Deflate     string                   `json:"deflate_mode"`
	Filter      l2points.FilterStats     `json:"filter_stats"`
	Ransac      l4perception.RansacStats `json:"ransac_stats"`
	Timings     Timings                  `json:"timings"`
}

// Runner executes analysis runs with fixed parameters.
type Runner struct {
	source ScanSource
	params Params
	clock  timeutil.Clock
}

// NewRunner returns a Runner that reads scans from source. source may be nil
// when only RunPoints is used.
func NewRunner(source ScanSource, params Params) *Runner {
	return &Runner{source: source, params: params, clock: timeutil.RealClock{}}
}

// WithClock replaces the clock used for StartedAt and stage timings.
func (r *Runner) WithClock(c timeutil.Clock) *Runner {
	r.clock = c
	return r
}

// Params returns the runner's parameters.
func (r *Runner) Params() Params {
	return r.params
}

// Run loads input, filters it into points and analyses them.
func (r *Runner) Run(ctx context.Context, input string) (*Result, error) {
	if r.source == nil {
		return nil, errors.New("pipeline: no scan source configured")
	}
	if err := r.params.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	res := r.newResult(input)

	start := r.clock.Now()
	scan, err := r.source.Load(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("load scan: %w", err)
	}
	res.Timings.Load = r.clock.Since(start)
	res.Scan = scan
	monitoring.Logf("[pipeline] run %s: loaded %d beams from %s", res.RunID, len(scan.Ranges), input)

	start = r.clock.Now()
	filter := l2points.NewRangeFilter()
	res.Points = filter.Convert(scan)
	res.Filter = filter.Stats()
	res.Timings.Filter = r.clock.Since(start)
	monitoring.Logf("[pipeline] run %s: kept %d of %d beams (sentinel=%d out_of_range=%d beyond_max_angle=%d)",
		res.RunID, res.Filter.Kept, res.Filter.Processed, res.Filter.Sentinel, res.Filter.OutOfRange, res.Filter.BeyondMaxBeam)

	r.analyze(res)
	return res, nil
}

// RunPoints analyses an already-filtered point cloud, such as a synthetic
// scene. An empty source is reported as SourceSynthetic.
func (r *Runner) RunPoints(source string, points []l2points.Point) (*Result, error) {
	if err := r.params.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if source == "" {
		source = SourceSynthetic
	}
	res := r.newResult(source)
	res.Points = points
	res.Filter = l2points.FilterStats{Processed: int64(len(points)), Kept: int64(len(points))}
	r.analyze(res)
	return res, nil
}

func (r *Runner) newResult(source string) *Result {
	return &Result{
		RunID:       uuid.New().String(),
		Source:      source,
		StartedAt:   r.clock.Now(),
		Origin:      r.params.Origin,
		MinAngleDeg: r.params.MinAngleDeg,
		Deflate:     r.params.Ransac.Deflate.String(),
	}
}

// analyze runs the line and corner stages over res.Points.
func (r *Runner) analyze(res *Result) {
	var rng l4perception.Sampler
	if r.params.Seed != 0 {
		res.Seed = r.params.Seed
		rng = l4perception.NewSampler(r.params.Seed)
	} else {
		rng, res.Seed = l4perception.NewEntropySampler()
	}

	start := r.clock.Now()
	res.Lines, res.Ransac = l4perception.FindLinesWithStats(res.Points, r.params.Ransac, rng)
	res.Timings.Ransac = r.clock.Since(start)
	monitoring.Logf("[pipeline] run %s: %d lines after %d iterations (%s, seed=%d)",
		res.RunID, len(res.Lines), res.Ransac.Iterations, res.Ransac.Termination, res.Seed)
	for i, l := range res.Lines {
		monitoring.Debugf("[pipeline] run %s: line %d %.4fx%+.4fy%+.4f=0 inliers=%d segment=(%.3f,%.3f)-(%.3f,%.3f)",
			res.RunID, i+1, l.A, l.B, l.C, len(l.Inliers), l.Start.X, l.Start.Y, l.End.X, l.End.Y)
	}

	start = r.clock.Now()
	analyzer := l5corners.Analyzer{MinAngleDeg: r.params.MinAngleDeg, Origin: r.params.Origin}
	res.Intersections = analyzer.Analyze(res.Lines)
	res.Timings.Corners = r.clock.Since(start)
	monitoring.Logf("[pipeline] run %s: %d corners at >= %.1f deg", res.RunID, len(res.Intersections), r.params.MinAngleDeg)
	for i, x := range res.Intersections {
		monitoring.Debugf("[pipeline] run %s: corner %d at (%.3f, %.3f) angle=%.2f dist=%.3f",
			res.RunID, i+1, x.Position.X, x.Position.Y, x.AngleDeg, x.DistanceToRobot)
	}
}
