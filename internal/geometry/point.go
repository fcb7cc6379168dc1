package geometry

import (
	"errors"
	"fmt"

	"github.com/golang/geo/r3"
)

// ErrCoordinateIndex is returned when a coordinate is requested for an axis other than 0, 1 or 2
var ErrCoordinateIndex = errors.New("coordinate index out of range")

// Models a 3D point (or vector) in a cartesian metric reference system.
// Point is a value type: once attached to an index node it is never modified.
type Point r3.Vector

// Builds a new Point from the given coordinates
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

func (p Point) vector() r3.Vector {
	return r3.Vector(p)
}

func (p Point) Add(o Point) Point {
	return Point(p.vector().Add(o.vector()))
}

func (p Point) Sub(o Point) Point {
	return Point(p.vector().Sub(o.vector()))
}

func (p Point) Scale(m float64) Point {
	return Point(p.vector().Mul(m))
}

func (p Point) Cross(o Point) Point {
	return Point(p.vector().Cross(o.vector()))
}

func (p Point) Dot(o Point) float64 {
	return p.vector().Dot(o.vector())
}

// Euclidean length of the vector
func (p Point) Norm() float64 {
	return p.vector().Norm()
}

// Euclidean distance between two points
func (p Point) Distance(o Point) float64 {
	return p.vector().Distance(o.vector())
}

// Returns the coordinate along the given axis (0 = X, 1 = Y, 2 = Z)
func (p Point) At(i int) (float64, error) {
	switch i {
	case 0:
		return p.X, nil
	case 1:
		return p.Y, nil
	case 2:
		return p.Z, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrCoordinateIndex, i)
}

// Same as At but panics on an invalid axis. Use it where the axis is known to be valid,
// e.g. a kd-tree split dimension.
func (p Point) MustAt(i int) float64 {
	v, err := p.At(i)
	if err != nil {
		panic(err)
	}
	return v
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}
