// Package l4perception owns Layer 4 (Perception) of the 2D line-extraction
// pipeline.
//
// Responsibilities: implicit-line primitives, total-least-squares line
// refinement, finite segment extents, and the RANSAC consensus loop that
// peels straight walls out of a point cloud one at a time.
// Key types: Line, RansacConfig, Sampler.
//
// Dependency rule: L4 may depend on L1-L2, but never on L5+.
// Nothing in this package logs, blocks, or touches the filesystem.
package l4perception
