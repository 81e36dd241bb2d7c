// Package pipeline runs one line-and-corner analysis end to end.
//
// It is the composition root for the lidar layers: it loads a scan (L1),
// filters it into points (L2), extracts lines (L4) and corners (L5), and
// returns everything a report needs in a single Result. None of the layer
// packages import pipeline.
package pipeline
