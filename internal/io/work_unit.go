package io

import (
	"github.com/ecopia-map/kdweld/internal/index"
)

// Contains the minimal data needed to summarize a single cluster ring
type WorkUnit struct {
	Cluster index.INode
}
