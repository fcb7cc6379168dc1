package std_algorithm_manager

import (
	"github.com/ecopia-map/kdweld/internal/converters"
	"github.com/ecopia-map/kdweld/internal/converters/origin/offset_origin_corrector"
	"github.com/ecopia-map/kdweld/internal/converters/proj4_converter"
	"github.com/ecopia-map/kdweld/internal/index"
	"github.com/ecopia-map/kdweld/internal/index/kd_range"
	"github.com/ecopia-map/kdweld/internal/point_loader"
	"github.com/ecopia-map/kdweld/internal/welder"
	"github.com/golang/glog"
)

type StandardAlgorithmManager struct {
	options             *welder.WelderOptions
	coordinateConverter converters.CoordinateConverter
	originCorrector     converters.OriginCorrector
}

// Builds the manager on a private copy of the options. Fails fast on a malformed origin,
// which main validates beforehand.
func NewAlgorithmManager(opts *welder.WelderOptions) *StandardAlgorithmManager {
	opts = opts.Copy()

	corrector, err := offset_origin_corrector.NewOffsetOriginCorrectorFromStrings(opts.OriginX, opts.OriginY, opts.OriginZ)
	if err != nil {
		glog.Fatal("invalid origin: ", err)
	}

	return &StandardAlgorithmManager{
		options:             opts,
		coordinateConverter: proj4_converter.NewProj4CoordinateConverter(opts.Projections),
		originCorrector:     corrector,
	}
}

func (m *StandardAlgorithmManager) GetOriginCorrectionAlgorithm() converters.OriginCorrector {
	return m.originCorrector
}

// Returns a new empty index configured with the tolerances of the options
func (m *StandardAlgorithmManager) GetIndexAlgorithm() index.ISpatialIndex {
	var opts []kd_range.Option
	if m.options.StrictTolerances {
		opts = append(opts, kd_range.WithStrictTolerances())
	}
	return kd_range.New(m.options.EpsSame, m.options.EpsCluster, opts...)
}

func (m *StandardAlgorithmManager) GetCoordinateConverterAlgorithm() converters.CoordinateConverter {
	return m.coordinateConverter
}

func (m *StandardAlgorithmManager) GetPointLoaderAlgorithm() point_loader.Loader {
	return point_loader.NewXyzLoader(
		m.options.Srid,
		m.options.TargetSrid,
		m.GetCoordinateConverterAlgorithm(),
		m.GetOriginCorrectionAlgorithm(),
	)
}
