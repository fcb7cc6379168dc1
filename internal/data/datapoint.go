package data

import "github.com/ecopia-map/kdweld/internal/geometry"

// Contains data of an input vertex, namely its position in the working reference system
// and an optional tag (e.g. the id of the BIM element the vertex belongs to)
type Point struct {
	Position geometry.Point
	Tag      string

	// provenance in the input files
	PointExtend *PointExtend
}

type PointExtend struct {
	FileIndex  int
	LineNumber int
}

// Builds a new Point from the given position, tag and provenance
func NewPoint(position geometry.Point, tag string, pointExtend *PointExtend) *Point {
	return &Point{
		Position:    position,
		Tag:         tag,
		PointExtend: pointExtend,
	}
}
