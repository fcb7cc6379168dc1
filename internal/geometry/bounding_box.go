package geometry

import (
	"math"
)

// Axis aligned bounding box. The canonical empty box has Min = +Inf and Max = -Inf on every axis,
// so that the union with any point yields the singleton box at that point.
type BoundingBox struct {
	Min Point
	Max Point
}

// Instantiates a new box from its two corners
func NewBoundingBox(min, max Point) BoundingBox {
	return BoundingBox{Min: min, Max: max}
}

func EmptyBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: NewPoint(inf, inf, inf),
		Max: NewPoint(-inf, -inf, -inf),
	}
}

// Box covering the whole space
func UnboundedBoundingBox() BoundingBox {
	inf := math.Inf(1)
	return BoundingBox{
		Min: NewPoint(-inf, -inf, -inf),
		Max: NewPoint(inf, inf, inf),
	}
}

// Degenerate box containing only the given point
func NewBoundingBoxFromPoint(p Point) BoundingBox {
	return BoundingBox{Min: p, Max: p}
}

// Box centered on p extending by r along each axis
func NewBoundingBoxAround(p Point, r float64) BoundingBox {
	d := NewPoint(r, r, r)
	return BoundingBox{Min: p.Sub(d), Max: p.Add(d)}
}

func (b BoundingBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Smallest box containing both boxes
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		Min: NewPoint(math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)),
		Max: NewPoint(math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)),
	}
}

// Smallest box containing b and the given point
func (b BoundingBox) Extend(p Point) BoundingBox {
	return b.Union(NewBoundingBoxFromPoint(p))
}

// Common part of the two boxes; the result IsEmpty when they do not overlap
func (b BoundingBox) Intersection(o BoundingBox) BoundingBox {
	return BoundingBox{
		Min: NewPoint(math.Max(b.Min.X, o.Min.X), math.Max(b.Min.Y, o.Min.Y), math.Max(b.Min.Z, o.Min.Z)),
		Max: NewPoint(math.Min(b.Max.X, o.Max.X), math.Min(b.Max.Y, o.Max.Y), math.Min(b.Max.Z, o.Max.Z)),
	}
}

// Inclusive containment test
func (b BoundingBox) Covers(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b BoundingBox) Size() Point {
	if b.IsEmpty() {
		return Point{}
	}
	return b.Max.Sub(b.Min)
}

func (b BoundingBox) Volume() float64 {
	s := b.Size()
	return s.X * s.Y * s.Z
}

func (b BoundingBox) Center() Point {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Returns the box as [minX, minY, minZ, maxX, maxY, maxZ]
func (b BoundingBox) GetAsArray() []float64 {
	return []float64{b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z}
}
