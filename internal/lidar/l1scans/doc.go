// Package l1scans owns Layer 1 (Scans) of the 2D line-extraction pipeline.
//
// Responsibilities: the raw LidarScan record (one planar sweep of range
// readings), decoding scan files from TOML, and fetching remote scan files
// over HTTP.
// Key types: LidarScan, Loader, Fetcher.
//
// Dependency rule: L1 depends on nothing else under internal/lidar.
package l1scans
