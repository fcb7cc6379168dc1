package converters

import (
	"github.com/ecopia-map/kdweld/internal/geometry"
	"github.com/shopspring/decimal"
)

type CoordinateConverter interface {
	ConvertCoordinateSrid(sourceSrid int, targetSrid int, coord geometry.Point) (geometry.Point, error)
	Cleanup()
}

// Moves coordinates to a local origin before they are turned into float64 values
type OriginCorrector interface {
	CorrectOrigin(x, y, z decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal)
}
