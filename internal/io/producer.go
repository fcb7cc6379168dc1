package io

import (
	"sync"

	"github.com/ecopia-map/kdweld/internal/index"
)

type Producer interface {
	Produce(work chan *WorkUnit, wg *sync.WaitGroup, idx index.ISpatialIndex)
}
