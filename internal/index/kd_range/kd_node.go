package kd_range

import (
	"math"

	"github.com/ecopia-map/kdweld/internal/geometry"
)

// Models a node of the kd-tree. Besides the split dimension and the children, each node keeps
// two pruning bounds: lMin (rMin) is a lower bound on the distance between the split plane and
// any point ever routed to the left (right) subtree. They only ever decrease.
type kdNode struct {
	clusterNode
	dim   int
	left  handle
	right handle
	lMin  float64
	rMin  float64
}

// Allocates a new node in the arena and returns its handle
func (r *KdRange) newNode(point geometry.Point, dim int) handle {
	r.nodes = append(r.nodes, kdNode{
		clusterNode: clusterNode{
			point:    point,
			ringNext: nilHandle,
		},
		dim:   dim,
		left:  nilHandle,
		right: nilHandle,
		lMin:  math.Inf(1),
		rMin:  math.Inf(1),
	})
	return handle(len(r.nodes) - 1)
}

// Finds the node matching point along the descent path starting at from, or creates it as a
// new leaf. A node matches when it lies within epsSame of point; duplicates in other branches
// of the tree are not looked for.
func (r *KdRange) propagate(from handle, point geometry.Point, epsSame float64) handle {
	parent := from
	for {
		p := &r.nodes[parent]
		delta := p.point.MustAt(p.dim) - point.MustAt(p.dim)

		if math.Abs(delta) < epsSame && p.point.Distance(point) < epsSame {
			return parent
		}

		if delta >= 0 {
			p.lMin = math.Min(p.lMin, delta)
			if p.left == nilHandle {
				child := r.newNode(point, (p.dim+1)%3)
				// append may have moved the arena
				r.nodes[parent].left = child
				return child
			}
			parent = p.left
		} else {
			p.rMin = math.Min(p.rMin, -delta)
			if p.right == nilHandle {
				child := r.newNode(point, (p.dim+1)%3)
				r.nodes[parent].right = child
				return child
			}
			parent = p.right
		}
	}
}
