package l1scans

// LidarScan holds one planar sweep as read from a scan file. Angles are in
// radians, ranges in metres. Ranges[i] was measured at bearing
// AngleMin + i*AngleIncrement.
type LidarScan struct {
	AngleMin       float64   `json:"angle_min"`
	AngleMax       float64   `json:"angle_max"`
	AngleIncrement float64   `json:"angle_increment"`
	RangeMin       float64   `json:"range_min"`
	RangeMax       float64   `json:"range_max"`
	Ranges         []float64 `json:"ranges"`
}

// BeamAngle returns the bearing of beam i in radians.
func (s *LidarScan) BeamAngle(i int) float64 {
	return s.AngleMin + float64(i)*s.AngleIncrement
}
