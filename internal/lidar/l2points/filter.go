package l2points

import (
	"math"

	"github.com/banshee-data/linescan/internal/lidar/l1scans"
)

// Range values some drivers write for "no return".
var sentinelRanges = [...]float64{-1.0, 999.0, -999.0}

// RangeFilter converts a LidarScan to Cartesian points, discarding beams that
// cannot describe a real surface:
//   - sentinel readings (-1, 999, -999)
//   - readings outside [RangeMin, RangeMax] (NaN included)
//   - beams whose bearing lies past AngleMax
type RangeFilter struct {
	pointsProcessed   int64
	pointsKept        int64
	pointsSentinel    int64
	pointsOutOfRange  int64
	pointsPastMaxBeam int64
}

// FilterStats is a snapshot of RangeFilter counters.
type FilterStats struct {
	Processed     int64 `json:"processed"`
	Kept          int64 `json:"kept"`
	Sentinel      int64 `json:"sentinel"`
	OutOfRange    int64 `json:"out_of_range"`
	BeyondMaxBeam int64 `json:"beyond_max_angle"`
}

// NewRangeFilter returns a filter with zeroed statistics.
func NewRangeFilter() *RangeFilter {
	return &RangeFilter{}
}

// Convert applies the filter to every beam of scan and returns the surviving
// points in beam order. A nil scan yields nil.
func (f *RangeFilter) Convert(scan *l1scans.LidarScan) []Point {
	if scan == nil || len(scan.Ranges) == 0 {
		return nil
	}

	points := make([]Point, 0, len(scan.Ranges))
	for i, r := range scan.Ranges {
		f.pointsProcessed++

		if isSentinel(r) {
			f.pointsSentinel++
			continue
		}
		// Written as a negated inclusive test so NaN falls out here.
		if !(r >= scan.RangeMin && r <= scan.RangeMax) {
			f.pointsOutOfRange++
			continue
		}
		angle := scan.BeamAngle(i)
		if angle > scan.AngleMax {
			f.pointsPastMaxBeam++
			continue
		}

		f.pointsKept++
		points = append(points, Point{X: r * math.Cos(angle), Y: r * math.Sin(angle)})
	}
	return points
}

// Stats returns current filter statistics.
func (f *RangeFilter) Stats() FilterStats {
	return FilterStats{
		Processed:     f.pointsProcessed,
		Kept:          f.pointsKept,
		Sentinel:      f.pointsSentinel,
		OutOfRange:    f.pointsOutOfRange,
		BeyondMaxBeam: f.pointsPastMaxBeam,
	}
}

// ResetStats clears accumulated statistics counters.
func (f *RangeFilter) ResetStats() {
	*f = RangeFilter{}
}

// FilterAndConvert runs a fresh RangeFilter over scan.
func FilterAndConvert(scan *l1scans.LidarScan) ([]Point, FilterStats) {
	f := NewRangeFilter()
	pts := f.Convert(scan)
	return pts, f.Stats()
}

func isSentinel(r float64) bool {
	for _, s := range sentinelRanges {
		if r == s {
			return true
		}
	}
	return false
}
