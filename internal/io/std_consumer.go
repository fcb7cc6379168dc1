package io

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/golang/glog"
)

var ErrInvalidCluster = errors.New("invalid cluster")

// Aggregated view of a cluster ring as written in the cluster report
type ClusterSummary struct {
	ID      int       `json:"id"`
	Count   int       `json:"count"`
	Weight  int       `json:"weight"`
	Center  []float64 `json:"center"`
	Box     []float64 `json:"box"`
	Members []int     `json:"members"`
}

type StandardConsumer struct{}

func NewStandardConsumer() *StandardConsumer {
	return &StandardConsumer{}
}

// Continually consumes WorkUnits submitted to a work channel producing the corresponding ClusterSummary
// values. Continues working until work channel is closed or if an error is raised. In this last case
// submits the error to an error channel before quitting
func (c *StandardConsumer) Consume(workchan chan *WorkUnit, results chan *ClusterSummary, errchan chan error, waitGroup *sync.WaitGroup) {
	for {
		// get work from channel
		work, ok := <-workchan
		if !ok {
			// channel was closed by producer, quit infinite loop
			break
		}

		summary, err := c.doWork(work)

		// if there were errors during work send in error channel and quit
		if err != nil {
			errchan <- err
			glog.Errorln("exception in consumer:", err)
			// keep the producer from blocking on a full channel
			for range workchan {
			}
			break
		}
		results <- summary
	}

	// signal waitgroup finished work
	waitGroup.Done()
}

// Walks the ring of the given WorkUnit once and aggregates it
func (c *StandardConsumer) doWork(workUnit *WorkUnit) (*ClusterSummary, error) {
	cluster := workUnit.Cluster
	members := make([]int, 0)
	for member := range cluster.ClusterRing() {
		members = append(members, member.ID())
	}
	sort.Ints(members)

	if len(members) == 0 {
		return nil, fmt.Errorf("%w: node %d has an empty ring", ErrInvalidCluster, cluster.ID())
	}

	center := cluster.Center()
	for _, v := range []float64{center.X, center.Y, center.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: node %d has center %v", ErrInvalidCluster, cluster.ID(), center)
		}
	}

	return &ClusterSummary{
		ID:      members[0],
		Count:   len(members),
		Weight:  cluster.ClusterWeight(),
		Center:  []float64{center.X, center.Y, center.Z},
		Box:     cluster.Box().GetAsArray(),
		Members: members,
	}, nil
}
