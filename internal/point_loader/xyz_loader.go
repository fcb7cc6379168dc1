package point_loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/ecopia-map/kdweld/internal/converters"
	"github.com/ecopia-map/kdweld/internal/data"
	"github.com/ecopia-map/kdweld/internal/geometry"
	"github.com/golang/glog"
	"github.com/shopspring/decimal"
)

var ErrMalformedLine = errors.New("malformed line")

// Reads text files holding one vertex per line in the form "x y z [tag]". Fields are separated by
// whitespace, commas or semicolons; lines starting with # are comments. A first line whose
// coordinate fields are all non numeric is taken as a CSV header and skipped.
type XyzLoader struct {
	srid       int
	targetSrid int
	converter  converters.CoordinateConverter
	corrector  converters.OriginCorrector
}

// Builds a loader. Reprojection happens only when srid and targetSrid differ; corrector may be nil.
func NewXyzLoader(srid, targetSrid int, converter converters.CoordinateConverter, corrector converters.OriginCorrector) *XyzLoader {
	return &XyzLoader{
		srid:       srid,
		targetSrid: targetSrid,
		converter:  converter,
		corrector:  corrector,
	}
}

func (l *XyzLoader) Load(filePath string, fileIndex int) ([]*data.Point, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	points, err := l.Read(file, filePath, fileIndex)
	if err != nil {
		return nil, err
	}
	glog.V(1).Infof("loaded %d vertices from %s", len(points), filePath)
	return points, nil
}

// Reads vertices from r, using name in error messages
func (l *XyzLoader) Read(r io.Reader, name string, fileIndex int) ([]*data.Point, error) {
	points := make([]*data.Point, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lineNumber := 0
	seenData := false
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := splitFields(line)
		if !seenData && isHeader(fields) {
			seenData = true
			continue
		}
		seenData = true

		point, err := l.parseLine(fields)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", name, lineNumber, err)
		}
		point.PointExtend = &data.PointExtend{
			FileIndex:  fileIndex,
			LineNumber: lineNumber,
		}
		points = append(points, point)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return points, nil
}

func (l *XyzLoader) parseLine(fields []string) (*data.Point, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: expected at least 3 fields, got %d", ErrMalformedLine, len(fields))
	}

	var coords [3]decimal.Decimal
	for i := 0; i < 3; i++ {
		v, err := decimal.NewFromString(fields[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrMalformedLine, fields[i])
		}
		coords[i] = v
	}

	position, err := l.toWorkingSystem(coords[0], coords[1], coords[2])
	if err != nil {
		return nil, err
	}

	tag := ""
	if len(fields) > 3 {
		tag = fields[3]
	}
	return data.NewPoint(position, tag, nil), nil
}

// Reprojects (in float64) when needed, then shifts to the local origin. Without reprojection the
// shift is applied to the exact decimal values before they are rounded to float64.
func (l *XyzLoader) toWorkingSystem(x, y, z decimal.Decimal) (geometry.Point, error) {
	if l.srid != l.targetSrid && l.converter != nil {
		converted, err := l.converter.ConvertCoordinateSrid(l.srid, l.targetSrid, geometry.NewPoint(toFloat(x), toFloat(y), toFloat(z)))
		if err != nil {
			return geometry.Point{}, err
		}
		x, y, z = decimal.NewFromFloat(converted.X), decimal.NewFromFloat(converted.Y), decimal.NewFromFloat(converted.Z)
	}

	if l.corrector != nil {
		x, y, z = l.corrector.CorrectOrigin(x, y, z)
	}
	return geometry.NewPoint(toFloat(x), toFloat(y), toFloat(z)), nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func splitFields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == ';'
	})
}

// A header names its columns: none of the first three fields is a number
func isHeader(fields []string) bool {
	if len(fields) == 0 {
		return false
	}
	for i := 0; i < len(fields) && i < 3; i++ {
		if isNumber(fields[i]) {
			return false
		}
	}
	return true
}

func isNumber(s string) bool {
	_, err := decimal.NewFromString(s)
	return err == nil
}
