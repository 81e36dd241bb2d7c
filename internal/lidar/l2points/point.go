package l2points

import "gonum.org/v1/gonum/spatial/r2"

// Point is a 2D Cartesian position in the sensor frame (metres). The robot
// sits at the origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec converts p to a gonum vector.
func (p Point) Vec() r2.Vec {
	return r2.Vec(p)
}

// FromVec converts a gonum vector to a Point.
func FromVec(v r2.Vec) Point {
	return Point(v)
}
