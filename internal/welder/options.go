package welder

import (
	"strings"

	"github.com/ecopia-map/kdweld/internal/geometry"
)

type OutputFormat string
type QueryMode string

const (
	OutputJSON     OutputFormat = "JSON"
	OutputJSONZstd OutputFormat = "JSON.ZST"
)

const (
	// Returns every indexed point inside an axis aligned box
	QueryBox QueryMode = "BOX"

	// Returns every indexed point closer than a range to a query point
	QueryNearest QueryMode = "NEAREST"
)

func (e OutputFormat) String() string {
	if e == OutputJSON {
		return "JSON"
	} else if e == OutputJSONZstd {
		return "JSON.ZST"
	}
	return ""
}

// Returns the file extension of the cluster report for the format
func (e OutputFormat) Extension() string {
	if e == OutputJSONZstd {
		return ".json.zst"
	}
	return ".json"
}

func ParseOutputFormat(value string) OutputFormat {
	normalizedValue := strings.Trim(strings.ToUpper(value), " ")
	switch normalizedValue {
	case "JSON":
		return OutputJSON
	case "JSON.ZST", "ZST", "ZSTD":
		return OutputJSONZstd
	}
	return ""
}

func ParseQueryMode(value string) QueryMode {
	normalizedValue := strings.Trim(strings.ToUpper(value), " ")
	switch normalizedValue {
	case "BOX":
		return QueryBox
	case "NEAREST", "NN":
		return QueryNearest
	}
	return ""
}

// Contains the options needed to load the input vertices and build the index
type WelderOptions struct {
	Input            string         // Input vertex file/folder
	Srid             int            // EPSG code for SRID of input vertices
	TargetSrid       int            // EPSG code of the metric SRID the index works in
	Projections      map[int]string // Extra proj4 definitions keyed by EPSG code
	OriginX          string         // Local origin subtracted from every vertex, decimal text
	OriginY          string
	OriginZ          string
	EpsSame          float64 // Vertices closer than this are stored once
	EpsCluster       float64 // Vertices closer than this join the same cluster
	StrictTolerances bool    // Refuses EpsSame > EpsCluster
	FolderProcessing bool    // Enables the processing of all vertex files in folder
	Recursive        bool    // Recursive lookup of vertex files in subfolders

	Command              string
	WelderClusterOptions *WelderClusterOptions
	WelderQueryOptions   *WelderQueryOptions
}

type WelderClusterOptions struct {
	Output        string       // Output folder
	Format        OutputFormat // Cluster report format
	WritePly      bool         // Also write welded.ply
	WriteWeldMap  bool         // Also write weld.csv
	ClusteredOnly bool         // Leave singletons out of the cluster report
}

type WelderQueryOptions struct {
	Mode      QueryMode
	Box       geometry.BoundingBox
	Point     geometry.Point
	Range     float64
	Precision int32 // Decimal places of printed coordinates
}

func (opt *WelderOptions) Copy() *WelderOptions {
	newOpt := &WelderOptions{
		Input:            opt.Input,
		Srid:             opt.Srid,
		TargetSrid:       opt.TargetSrid,
		OriginX:          opt.OriginX,
		OriginY:          opt.OriginY,
		OriginZ:          opt.OriginZ,
		EpsSame:          opt.EpsSame,
		EpsCluster:       opt.EpsCluster,
		StrictTolerances: opt.StrictTolerances,
		FolderProcessing: opt.FolderProcessing,
		Recursive:        opt.Recursive,
		Command:          opt.Command,
	}

	if opt.Projections != nil {
		newOpt.Projections = make(map[int]string, len(opt.Projections))
		for k, v := range opt.Projections {
			newOpt.Projections[k] = v
		}
	}
	if opt.WelderClusterOptions != nil {
		clusterOpts := *opt.WelderClusterOptions
		newOpt.WelderClusterOptions = &clusterOpts
	}
	if opt.WelderQueryOptions != nil {
		queryOpts := *opt.WelderQueryOptions
		newOpt.WelderQueryOptions = &queryOpts
	}

	return newOpt
}
