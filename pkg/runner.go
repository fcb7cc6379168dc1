package pkg

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/ecopia-map/kdweld/internal/data"
	"github.com/ecopia-map/kdweld/internal/index"
	"github.com/ecopia-map/kdweld/internal/welder"
	"github.com/ecopia-map/kdweld/pkg/algorithm_manager"
	"github.com/ecopia-map/kdweld/tools"
	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
)

var ErrNoInputFiles = errors.New("no input vertex files found")

type IRunner interface {
	Run(opts *welder.WelderOptions) error
}

// Shared loading stage of the commands: finds and reads the input files, then appends every
// vertex to a fresh index in file order. Returns the vertices and, for each, the id of its node.
type loader struct {
	fileFinder       tools.FileFinder
	algorithmManager algorithm_manager.AlgorithmManager
}

func (l *loader) loadIndex(opts *welder.WelderOptions) (index.ISpatialIndex, []*data.Point, []int, error) {
	tools.LogOutput("Preparing list of files to process...")

	files, err := l.fileFinder.GetPointFilesToProcess(opts)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(files) == 0 {
		return nil, nil, nil, fmt.Errorf("%w in %s", ErrNoInputFiles, opts.Input)
	}
	for i, filePath := range files {
		glog.V(1).Infof("vertex file %d [%s]", i, filePath)
	}

	points, err := l.readPointFiles(files)
	if err != nil {
		return nil, nil, nil, err
	}

	tools.LogOutput("> building index of " + strconv.Itoa(len(points)) + " vertices...")
	idx := l.algorithmManager.GetIndexAlgorithm()
	nodeIDs := make([]int, len(points))
	for i, point := range points {
		nodeIDs[i] = idx.Append(point.Position).ID()
	}

	return idx, points, nodeIDs, nil
}

// Parses the files concurrently and concatenates their vertices in file order
func (l *loader) readPointFiles(files []string) ([]*data.Point, error) {
	pointLoader := l.algorithmManager.GetPointLoaderAlgorithm()
	perFile := make([][]*data.Point, len(files))

	var group errgroup.Group
	group.SetLimit(runtime.NumCPU())
	for i, filePath := range files {
		group.Go(func() error {
			tools.LogOutput("> reading vertices from", filepath.Base(filePath))
			points, err := pointLoader.Load(filePath, i)
			if err != nil {
				return err
			}
			perFile[i] = points
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, points := range perFile {
		total += len(points)
	}
	points := make([]*data.Point, 0, total)
	for _, filePoints := range perFile {
		points = append(points, filePoints...)
	}
	return points, nil
}
