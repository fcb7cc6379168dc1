package proj4_converter

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ecopia-map/kdweld/internal/converters"
	"github.com/ecopia-map/kdweld/internal/geometry"
	"github.com/golang/glog"
	proj "github.com/xeonx/proj4"
)

var ErrUnknownSrid = errors.New("unknown srid")

const toRadians = math.Pi / 180
const toDegrees = 180 / math.Pi

// proj4 definitions of the reference systems most often met in BIM and survey exports
var epsgDefinitions = map[int]string{
	4326:  "+proj=longlat +datum=WGS84 +no_defs",
	4978:  "+proj=geocent +datum=WGS84 +units=m +no_defs",
	3857:  "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +wktext +no_defs",
	2056:  "+proj=somerc +lat_0=46.95240555555556 +lon_0=7.439583333333333 +k_0=1 +x_0=2600000 +y_0=1200000 +ellps=bessel +towgs84=674.374,15.056,405.346,0,0,0,0 +units=m +no_defs",
	27700: "+proj=tmerc +lat_0=49 +lon_0=-2 +k=0.9996012717 +x_0=400000 +y_0=-100000 +ellps=airy +towgs84=446.448,-125.157,542.06,0.15,0.247,0.842,-20.489 +units=m +no_defs",
	25832: "+proj=utm +zone=32 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
	25833: "+proj=utm +zone=33 +ellps=GRS80 +towgs84=0,0,0,0,0,0,0 +units=m +no_defs",
}

type proj4CoordinateConverter struct {
	definitions map[int]string
	projections map[int]*proj.Proj
	sync.Mutex
}

// Builds a converter knowing the built-in definitions, the WGS84 UTM zones (EPSG 32601-32660, 32701-32760)
// and any extra definition given, the latter taking precedence
func NewProj4CoordinateConverter(extraDefinitions map[int]string) converters.CoordinateConverter {
	definitions := make(map[int]string, len(epsgDefinitions)+len(extraDefinitions))
	for srid, def := range epsgDefinitions {
		definitions[srid] = def
	}
	for srid, def := range extraDefinitions {
		definitions[srid] = def
	}

	return &proj4CoordinateConverter{
		definitions: definitions,
		projections: make(map[int]*proj.Proj),
	}
}

// Converts the given coordinate from the given source Srid to the given target srid.
func (cc *proj4CoordinateConverter) ConvertCoordinateSrid(sourceSrid int, targetSrid int, coord geometry.Point) (geometry.Point, error) {
	if sourceSrid == targetSrid {
		return coord, nil
	}

	src, err := cc.getProjection(sourceSrid)
	if err != nil {
		return coord, err
	}

	dst, err := cc.getProjection(targetSrid)
	if err != nil {
		return coord, err
	}

	x, y, z := []float64{coord.X}, []float64{coord.Y}, []float64{coord.Z}
	if src.IsLatLong() {
		x[0] *= toRadians
		y[0] *= toRadians
	}

	if err := proj.TransformRaw(src, dst, x, y, z); err != nil {
		return coord, fmt.Errorf("converting %v from %d to %d: %w", coord, sourceSrid, targetSrid, err)
	}

	if dst.IsLatLong() {
		x[0] *= toDegrees
		y[0] *= toDegrees
	}

	return geometry.NewPoint(x[0], y[0], z[0]), nil
}

// Releases the cached projections
func (cc *proj4CoordinateConverter) Cleanup() {
	cc.Lock()
	defer cc.Unlock()

	for srid, projection := range cc.projections {
		projection.Close()
		delete(cc.projections, srid)
	}
}

// Returns the projection corresponding to the given EPSG code, initializing and caching it on first use
func (cc *proj4CoordinateConverter) getProjection(srid int) (*proj.Proj, error) {
	cc.Lock()
	defer cc.Unlock()

	if projection, ok := cc.projections[srid]; ok {
		return projection, nil
	}

	definition, err := cc.definition(srid)
	if err != nil {
		return nil, err
	}

	projection, err := proj.InitPlus(definition)
	if err != nil {
		return nil, fmt.Errorf("initializing projection for EPSG:%d: %w", srid, err)
	}
	glog.V(2).Infof("initialized projection EPSG:%d", srid)

	cc.projections[srid] = projection
	return projection, nil
}

func (cc *proj4CoordinateConverter) definition(srid int) (string, error) {
	if def, ok := cc.definitions[srid]; ok {
		return def, nil
	}
	return utmDefinition(srid)
}

func utmDefinition(srid int) (string, error) {
	switch {
	case srid >= 32601 && srid <= 32660:
		return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", srid-32600), nil
	case srid >= 32701 && srid <= 32760:
		return fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", srid-32700), nil
	}
	return "", fmt.Errorf("%w: EPSG:%d", ErrUnknownSrid, srid)
}
