package algorithm_manager

import (
	"github.com/ecopia-map/kdweld/internal/converters"
	"github.com/ecopia-map/kdweld/internal/index"
	"github.com/ecopia-map/kdweld/internal/point_loader"
)

type AlgorithmManager interface {
	GetOriginCorrectionAlgorithm() converters.OriginCorrector
	GetIndexAlgorithm() index.ISpatialIndex
	GetCoordinateConverterAlgorithm() converters.CoordinateConverter
	GetPointLoaderAlgorithm() point_loader.Loader
}
