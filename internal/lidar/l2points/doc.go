// Package l2points owns Layer 2 (Points) of the 2D line-extraction pipeline.
//
// Responsibilities: the Cartesian Point type, polar-to-Cartesian conversion
// of a LidarScan with sentinel and range filtering, and synthetic scenes for
// demos and tests.
// Key types: Point, RangeFilter, SyntheticScene.
//
// Dependency rule: L2 may depend on L1, but never on L4+.
package l2points
