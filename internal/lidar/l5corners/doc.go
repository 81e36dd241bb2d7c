// Package l5corners owns Layer 5 (Corners) of the 2D line-extraction
// pipeline.
//
// Responsibilities: finite-segment intersection, the acute angle between two
// undirected lines, and the all-pairs corner search that keeps only
// crossings sharp enough to be physical corners.
// Key types: Intersection, Analyzer.
//
// Dependency rule: L5 may depend on L1-L4, but never on reporting or I/O.
package l5corners
