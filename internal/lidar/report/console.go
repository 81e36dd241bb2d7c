package report

import (
	"fmt"
	"io"

	"github.com/banshee-data/linescan/internal/lidar/l5corners"
	"github.com/banshee-data/linescan/internal/lidar/pipeline"
)

// WriteSummary prints the per-stage counts of res followed by the
// intersection list.
func WriteSummary(w io.Writer, res *pipeline.Result) error {
	ew := &errWriter{w: w}
	ew.printf("Run %s (source: %s, seed: %d)\n", res.RunID, res.Source, res.Seed)
	if res.Scan != nil {
		ew.printf("Scan: %d range readings\n", len(res.Scan.Ranges))
	}
	ew.printf("Filter: %d valid points (%d sentinel, %d out of range, %d beyond max angle)\n",
		len(res.Points), res.Filter.Sentinel, res.Filter.OutOfRange, res.Filter.BeyondMaxBeam)
	ew.printf("RANSAC: %d line segments in %d iterations (%s, deflate=%s)\n",
		len(res.Lines), res.Ransac.Iterations, res.Ransac.Termination, res.Deflate)
	ew.printf("Corners: %d intersections at or above %g degrees\n", len(res.Intersections), res.MinAngleDeg)
	if ew.err != nil {
		return ew.err
	}
	return WriteIntersections(w, res.Intersections)
}

// WriteIntersections prints one numbered line per intersection:
//
//	#1 -> (1.0000, 1.0000)  angle=90.0000 deg  dist=1.4142 m
func WriteIntersections(w io.Writer, xs []l5corners.Intersection) error {
	ew := &errWriter{w: w}
	ew.printf("--- Intersection report ---\n")
	for i, x := range xs {
		ew.printf("#%d -> (%.4f, %.4f)  angle=%.4f deg  dist=%.4f m\n",
			i+1, x.Position.X, x.Position.Y, x.AngleDeg, x.DistanceToRobot)
	}
	return ew.err
}

// errWriter remembers the first write error and drops everything after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
