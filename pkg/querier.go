package pkg

import (
	"errors"
	"fmt"
	goio "io"
	"iter"

	"github.com/ecopia-map/kdweld/internal/geometry"
	"github.com/ecopia-map/kdweld/internal/welder"
	"github.com/ecopia-map/kdweld/pkg/algorithm_manager"
	"github.com/ecopia-map/kdweld/tools"
	"github.com/shopspring/decimal"
)

var ErrUnknownQueryMode = errors.New("unknown query mode")

type Querier struct {
	loader
	out goio.Writer
}

// Builds a querier printing the matching points to out, one "x y z" line each
func NewQuerier(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager, out goio.Writer) IRunner {
	return &Querier{
		loader: loader{
			fileFinder:       fileFinder,
			algorithmManager: algorithmManager,
		},
		out: out,
	}
}

func (q *Querier) Run(opts *welder.WelderOptions) error {
	defer q.algorithmManager.GetCoordinateConverterAlgorithm().Cleanup()

	idx, _, _, err := q.loadIndex(opts)
	if err != nil {
		return err
	}

	queryOpts := opts.WelderQueryOptions
	var points iter.Seq[geometry.Point]
	switch queryOpts.Mode {
	case welder.QueryBox:
		points = idx.PointsWithin(queryOpts.Box)
	case welder.QueryNearest:
		points = idx.NearestNeighbors(queryOpts.Point, queryOpts.Range)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownQueryMode, queryOpts.Mode)
	}

	count := 0
	for p := range points {
		if _, err := fmt.Fprintln(q.out, formatPoint(p, queryOpts.Precision)); err != nil {
			return err
		}
		count++
	}
	tools.LogOutput(fmt.Sprintf("> %d points found", count))
	return nil
}

func formatPoint(p geometry.Point, precision int32) string {
	return decimal.NewFromFloat(p.X).StringFixed(precision) + " " +
		decimal.NewFromFloat(p.Y).StringFixed(precision) + " " +
		decimal.NewFromFloat(p.Z).StringFixed(precision)
}
