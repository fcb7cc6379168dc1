package io

import (
	"sync"

	"github.com/ecopia-map/kdweld/internal/index"
	"github.com/ecopia-map/kdweld/internal/welder"
)

type StandardProducer struct {
	clusteredOnly bool
}

func NewStandardProducer(options *welder.WelderOptions) *StandardProducer {
	clusteredOnly := false
	if options != nil && options.WelderClusterOptions != nil {
		clusteredOnly = options.WelderClusterOptions.ClusteredOnly
	}

	return &StandardProducer{
		clusteredOnly: clusteredOnly,
	}
}

// Submits a WorkUnit per cluster ring of the index to the provided work channel.
// Closes the channel when all work is submitted. The index must not be mutated meanwhile.
func (p *StandardProducer) Produce(work chan *WorkUnit, wg *sync.WaitGroup, idx index.ISpatialIndex) {
	for cluster := range idx.Clusters(p.clusteredOnly) {
		work <- &WorkUnit{
			Cluster: cluster,
		}
	}
	close(work)
	wg.Done()
}
