package pkg

import (
	"errors"
	"path"
	"runtime"
	"strconv"
	"sync"

	"github.com/ecopia-map/kdweld/internal/data"
	"github.com/ecopia-map/kdweld/internal/index"
	"github.com/ecopia-map/kdweld/internal/io"
	"github.com/ecopia-map/kdweld/internal/ply"
	"github.com/ecopia-map/kdweld/internal/welder"
	"github.com/ecopia-map/kdweld/pkg/algorithm_manager"
	"github.com/ecopia-map/kdweld/tools"
	"github.com/golang/glog"
)

const (
	reportFileName  = "clusters"
	plyFileName     = "welded.ply"
	weldMapFileName = "weld.csv"
)

type Welder struct {
	loader
}

func NewWelder(fileFinder tools.FileFinder, algorithmManager algorithm_manager.AlgorithmManager) IRunner {
	return &Welder{
		loader: loader{
			fileFinder:       fileFinder,
			algorithmManager: algorithmManager,
		},
	}
}

// Loads the input vertices, welds them and writes the requested outputs
func (w *Welder) Run(opts *welder.WelderOptions) error {
	defer w.algorithmManager.GetCoordinateConverterAlgorithm().Cleanup()

	idx, points, nodeIDs, err := w.loadIndex(opts)
	if err != nil {
		return err
	}
	tools.LogOutput("> " + strconv.Itoa(len(points)) + " vertices welded into " + strconv.Itoa(idx.Len()) + " nodes")

	clusterOpts := opts.WelderClusterOptions
	if err := tools.CreateDirectoryIfDoesNotExist(clusterOpts.Output); err != nil {
		return err
	}

	tools.LogOutput("> exporting clusters...")
	summaries, err := w.exportClusters(idx, opts)
	if err != nil {
		return err
	}
	report := io.NewClusterReport(idx, len(points), summaries)

	if clusterOpts.WritePly {
		origin, err := ply.WriteWeldedVertices(path.Join(clusterOpts.Output, plyFileName), idx)
		if err != nil {
			return err
		}
		report.PlyOrigin = []float64{origin.X, origin.Y, origin.Z}
	}

	reportPath := path.Join(clusterOpts.Output, reportFileName+clusterOpts.Format.Extension())
	if err := io.WriteReport(reportPath, report); err != nil {
		return err
	}
	tools.LogOutput("> run " + report.RunID + ": " + strconv.Itoa(report.NumClusters) + " clusters written to " + reportPath)

	if clusterOpts.WriteWeldMap {
		if err := w.writeWeldMap(clusterOpts.Output, points, nodeIDs); err != nil {
			return err
		}
	}

	return nil
}

func (w *Welder) writeWeldMap(output string, points []*data.Point, nodeIDs []int) error {
	return io.WriteWeldMap(path.Join(output, weldMapFileName), points, nodeIDs)
}

// Summarizes every cluster ring of the index with a producer goroutine and a consumer per CPU.
// The index is only read from here on.
func (w *Welder) exportClusters(idx index.ISpatialIndex, opts *welder.WelderOptions) ([]*io.ClusterSummary, error) {
	// a consumer goroutine per CPU
	numConsumers := runtime.NumCPU()

	// init channel where to submit work with a buffer 5 times greater than the number of consumer
	workChannel := make(chan *io.WorkUnit, numConsumers*5)
	resultChannel := make(chan *io.ClusterSummary, numConsumers*5)

	// init channel where consumers can eventually submit errors that prevented them to finish the job
	errorChannel := make(chan error, numConsumers)

	summaries := make([]*io.ClusterSummary, 0)
	collected := make(chan struct{})
	go func() {
		for summary := range resultChannel {
			summaries = append(summaries, summary)
		}
		close(collected)
	}()

	var waitGroup sync.WaitGroup

	// add producer to waitgroup and launch producer goroutine
	waitGroup.Add(1)
	producer := io.NewStandardProducer(opts)
	go producer.Produce(workChannel, &waitGroup, idx)

	// add consumers to waitgroup and launch them
	for i := 0; i < numConsumers; i++ {
		waitGroup.Add(1)
		consumer := io.NewStandardConsumer()
		go consumer.Consume(workChannel, resultChannel, errorChannel, &waitGroup)
	}

	// wait for producers and consumers to finish
	waitGroup.Wait()
	close(resultChannel)
	close(errorChannel)
	<-collected

	// find if there are errors in the error channel buffer
	withErrors := false
	for err := range errorChannel {
		glog.Errorln(err)
		withErrors = true
	}
	if withErrors {
		return nil, errors.New("errors raised during export. Check console output for details")
	}

	return summaries, nil
}
