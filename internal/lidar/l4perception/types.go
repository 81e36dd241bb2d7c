package l4perception

import "github.com/banshee-data/linescan/internal/lidar/l2points"

// Point is the Cartesian point type from Layer 2.
type Point = l2points.Point

// Line is an infinite line A·x + B·y + C = 0 together with the finite
// segment [Start, End] that was actually observed and the inlier points
// that produced it.
//
// Lines returned by the RANSAC loop have unit-length (A, B). Inliers is a
// snapshot taken when the line was accepted; it is kept for reports and is
// not re-validated against the refined coefficients.
type Line struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`

	Start Point `json:"start"`
	End   Point `json:"end"`

	Inliers []Point `json:"inliers,omitempty"`
}
