package l2points

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/banshee-data/linescan/internal/lidar/l1scans"
)

func TestFilterAndConvert_NilAndEmpty(t *testing.T) {
	if pts, _ := FilterAndConvert(nil); pts != nil {
		t.Errorf("expected nil for nil scan, got %v", pts)
	}
	if pts, _ := FilterAndConvert(&l1scans.LidarScan{}); pts != nil {
		t.Errorf("expected nil for empty scan, got %v", pts)
	}
}

func TestFilterAndConvert_DropsInvalidBeams(t *testing.T) {
	scan := &l1scans.LidarScan{
		AngleMin:       0,
		AngleMax:       math.Pi / 2,
		AngleIncrement: math.Pi / 4,
		RangeMin:       0.1,
		RangeMax:       10,
		Ranges: []float64{
			1.0,        // 0 rad -> kept
			-1,         // sentinel
			999,        // sentinel
			0.05,       // below RangeMin
			math.NaN(), // out of range
			2.0,        // pi rad > AngleMax
		},
	}

	pts, stats := FilterAndConvert(scan)

	want := []Point{{X: 1, Y: 0}}
	if diff := cmp.Diff(want, pts, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}

	wantStats := FilterStats{Processed: 6, Kept: 1, Sentinel: 2, OutOfRange: 2, BeyondMaxBeam: 1}
	if diff := cmp.Diff(wantStats, stats); diff != "" {
		t.Errorf("stats mismatch (-want +got):\n%s", diff)
	}
}

func TestRangeFilter_PolarConversion(t *testing.T) {
	scan := &l1scans.LidarScan{
		AngleMin:       -math.Pi / 2,
		AngleMax:       math.Pi / 2,
		AngleIncrement: math.Pi / 2,
		RangeMin:       0,
		RangeMax:       5,
		Ranges:         []float64{2, 3, 4},
	}

	f := NewRangeFilter()
	pts := f.Convert(scan)

	want := []Point{{X: 0, Y: -2}, {X: 3, Y: 0}, {X: 0, Y: 4}}
	if diff := cmp.Diff(want, pts, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}

	// Boundaries are inclusive.
	scan.Ranges = []float64{0, 5, 5.0001}
	f.ResetStats()
	pts = f.Convert(scan)
	if len(pts) != 2 {
		t.Errorf("expected 2 points at range bounds, got %d", len(pts))
	}
	if got := f.Stats(); got.Processed != 3 || got.OutOfRange != 1 {
		t.Errorf("unexpected stats after reset: %+v", got)
	}
}

func TestPointVecRoundTrip(t *testing.T) {
	p := Point{X: 1.5, Y: -2}
	if got := FromVec(p.Vec()); got != p {
		t.Errorf("round trip = %+v, want %+v", got, p)
	}
}

func TestSyntheticScene_NoiselessWallsAreExact(t *testing.T) {
	s := NewSyntheticScene(1).
		AddWall(Point{X: 0, Y: 0}, Point{X: 2, Y: 0}, 5).
		AddWall(Point{X: 1, Y: 1}, Point{X: 1, Y: 1}, 1)

	got := s.Points()
	want := []Point{
		{X: 0, Y: 0}, {X: 0.5, Y: 0}, {X: 1, Y: 0}, {X: 1.5, Y: 0}, {X: 2, Y: 0},
		{X: 1, Y: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestSyntheticScene_Deterministic(t *testing.T) {
	a := DefaultSyntheticScene(42).Points()
	b := DefaultSyntheticScene(42).Points()
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed should give identical scenes:\n%s", diff)
	}

	wantLen := 120 + 110 + 50 + 25
	if len(a) != wantLen {
		t.Errorf("len = %d, want %d", len(a), wantLen)
	}

	c := DefaultSyntheticScene(43).Points()
	if cmp.Equal(a, c) {
		t.Error("different seeds should give different noise")
	}
}

func TestSyntheticScene_NoiseIsPerpendicular(t *testing.T) {
	s := NewSyntheticScene(7)
	s.Noise = 0.01
	s.AddWall(Point{X: -1, Y: 2}, Point{X: 1, Y: 2}, 50)

	for i, p := range s.Points() {
		wantX := -1 + 2*float64(i)/49
		if math.Abs(p.X-wantX) > 1e-12 {
			t.Fatalf("point %d moved along the wall: x=%f want %f", i, p.X, wantX)
		}
		if math.Abs(p.Y-2) > 0.1 {
			t.Fatalf("point %d offset %f is implausibly large", i, p.Y-2)
		}
	}
}
