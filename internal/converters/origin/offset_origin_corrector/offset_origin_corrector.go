package offset_origin_corrector

import (
	"github.com/ecopia-map/kdweld/internal/converters"
	"github.com/shopspring/decimal"
)

// Subtracts a fixed origin from every coordinate. The subtraction is exact, so large site
// coordinates keep their sub-millimeter digits once converted to float64.
type OffsetOriginCorrector struct {
	OriginX decimal.Decimal
	OriginY decimal.Decimal
	OriginZ decimal.Decimal
}

func NewOffsetOriginCorrector(originX, originY, originZ decimal.Decimal) converters.OriginCorrector {
	return &OffsetOriginCorrector{
		OriginX: originX,
		OriginY: originY,
		OriginZ: originZ,
	}
}

// Parses the origin from its textual form; empty strings stand for zero
func NewOffsetOriginCorrectorFromStrings(originX, originY, originZ string) (converters.OriginCorrector, error) {
	var values [3]decimal.Decimal
	for i, s := range []string{originX, originY, originZ} {
		if s == "" {
			values[i] = decimal.Zero
			continue
		}
		v, err := decimal.NewFromString(s)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return NewOffsetOriginCorrector(values[0], values[1], values[2]), nil
}

func (c *OffsetOriginCorrector) CorrectOrigin(x, y, z decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	return x.Sub(c.OriginX), y.Sub(c.OriginY), z.Sub(c.OriginZ)
}
