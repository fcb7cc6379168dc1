package kd_range

import (
	"fmt"
	"iter"

	"github.com/ecopia-map/kdweld/internal/geometry"
	"github.com/ecopia-map/kdweld/internal/index"
	"github.com/golang/glog"
)

const (
	// Default point identity tolerance, in source units (typically meters)
	DefaultEpsSame = 1e-6
	// Default clustering radius, in source units (typically meters)
	DefaultEpsCluster = 1e-4
)

// KdRange owns a kd-tree of points together with the cluster rings threaded over its nodes.
// It grows monotonically: points are never removed, only their cluster membership can be withdrawn.
type KdRange struct {
	nodes      []kdNode
	root       handle
	epsSame    float64
	epsCluster float64
	bounds     geometry.BoundingBox
	strict     bool
}

var _ index.ISpatialIndex = (*KdRange)(nil)

type Option func(*KdRange)

// Preallocates the arena for n points
func WithExpectedSize(n int) Option {
	return func(r *KdRange) {
		if n > 0 {
			r.nodes = make([]kdNode, 0, n)
		}
	}
}

// Makes New panic when epsSame is greater than epsCluster instead of only logging a warning
func WithStrictTolerances() Option {
	return func(r *KdRange) {
		r.strict = true
	}
}

// Instantiates an empty KdRange. epsSame is the distance under which two points are considered
// the same point, epsCluster the radius under which two points belong to the same cluster.
func New(epsSame, epsCluster float64, opts ...Option) *KdRange {
	r := &KdRange{
		root:       nilHandle,
		epsSame:    epsSame,
		epsCluster: epsCluster,
		bounds:     geometry.EmptyBoundingBox(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if epsSame > epsCluster {
		if r.strict {
			panic(fmt.Sprintf("kd_range: epsSame %g is greater than epsCluster %g", epsSame, epsCluster))
		}
		glog.Warningf("kd_range: epsSame %g is greater than epsCluster %g, snapped points will never cluster with their neighbours", epsSame, epsCluster)
	}

	return r
}

// Instantiates an empty KdRange with the default tolerances
func NewDefault() *KdRange {
	return New(DefaultEpsSame, DefaultEpsCluster)
}

func (r *KdRange) EpsSame() float64 {
	return r.epsSame
}

func (r *KdRange) EpsCluster() float64 {
	return r.epsCluster
}

// Number of distinct stored points
func (r *KdRange) Len() int {
	return len(r.nodes)
}

// Bounding box of every point appended so far, snapped ones included
func (r *KdRange) Bounds() geometry.BoundingBox {
	return r.bounds
}

func (r *KdRange) node(h handle) Node {
	return Node{owner: r, id: h}
}

// Returns the node with the given id, ids being assigned in creation order starting at 0
func (r *KdRange) Node(id int) (index.INode, bool) {
	if id < 0 || id >= len(r.nodes) {
		return nil, false
	}
	return r.node(handle(id)), true
}

// Adds a point to the index and returns the node representing it. If an existing node within
// epsSame is met while descending the tree, that node is returned and no node is created.
// Every node within epsCluster of the point then absorbs the returned node into its ring,
// merging previously separate clusters when the point bridges them.
func (r *KdRange) Append(point geometry.Point) index.INode {
	if r.root == nilHandle {
		r.root = r.newNode(point, 0)
		r.bounds = geometry.NewBoundingBoxFromPoint(point)
		return r.node(r.root)
	}

	h := r.propagate(r.root, point, r.epsSame)
	r.bounds = r.bounds.Extend(point)
	r.cluster(point, h)

	return r.node(h)
}

func (r *KdRange) cluster(point geometry.Point, h handle) {
	box := geometry.NewBoundingBoxAround(point, r.epsCluster)
	for n := range r.walkWithin(box) {
		if r.nodes[n].point.Distance(point) < r.epsCluster {
			r.absorb(n, h, r.epsCluster)
		}
	}
}

// Every stored point, in breadth first order
func (r *KdRange) Points() iter.Seq[geometry.Point] {
	return r.pointsOf(r.walkAll())
}

// Stored points lying within the box
func (r *KdRange) PointsWithin(box geometry.BoundingBox) iter.Seq[geometry.Point] {
	return r.pointsOf(r.walkWithin(box))
}

// Stored points closer than rng to point
func (r *KdRange) NearestNeighbors(point geometry.Point, rng float64) iter.Seq[geometry.Point] {
	return func(yield func(geometry.Point) bool) {
		for p := range r.PointsWithin(geometry.NewBoundingBoxAround(point, rng)) {
			if p.Distance(point) < rng {
				if !yield(p) {
					return
				}
			}
		}
	}
}

// Every node, in breadth first order
func (r *KdRange) Nodes() iter.Seq[index.INode] {
	return r.nodesOf(r.walkAll())
}

// Nodes lying within the box
func (r *KdRange) NodesWithin(box geometry.BoundingBox) iter.Seq[index.INode] {
	return r.nodesOf(r.walkWithin(box))
}

// Yields, in id order, the member with the lowest id of every ring
func (r *KdRange) Clusters(clusteredOnly bool) iter.Seq[index.INode] {
	return func(yield func(index.INode) bool) {
		for i := range r.nodes {
			h := handle(i)
			if r.nodes[h].ringNext == nilHandle {
				if !clusteredOnly && !yield(r.node(h)) {
					return
				}
				continue
			}
			if r.ringHead(h) == h && !yield(r.node(h)) {
				return
			}
		}
	}
}

func (r *KdRange) ringHead(h handle) handle {
	head := h
	for m := range r.ring(h) {
		if m < head {
			head = m
		}
	}
	return head
}

// Height of the tree, 0 when empty
func (r *KdRange) Depth() int {
	if r.root == nilHandle {
		return 0
	}

	depth := 0
	level := []handle{r.root}
	for len(level) > 0 {
		depth++
		next := make([]handle, 0, 2*len(level))
		for _, h := range level {
			if r.nodes[h].left != nilHandle {
				next = append(next, r.nodes[h].left)
			}
			if r.nodes[h].right != nilHandle {
				next = append(next, r.nodes[h].right)
			}
		}
		level = next
	}
	return depth
}

func (r *KdRange) pointsOf(handles iter.Seq[handle]) iter.Seq[geometry.Point] {
	return func(yield func(geometry.Point) bool) {
		for h := range handles {
			if !yield(r.nodes[h].point) {
				return
			}
		}
	}
}

func (r *KdRange) nodesOf(handles iter.Seq[handle]) iter.Seq[index.INode] {
	return func(yield func(index.INode) bool) {
		for h := range handles {
			if !yield(r.node(h)) {
				return
			}
		}
	}
}
