package kd_range

import (
	"iter"

	"github.com/ecopia-map/kdweld/internal/geometry"
	"github.com/ecopia-map/kdweld/internal/index"
	"github.com/golang/glog"
)

// handle addresses a node inside the KdRange arena
type handle int32

const nilHandle handle = -1

// Ring membership of a stored point.
// ringNext forms a cycle over all members of the cluster, nilHandle means unclustered singleton.
// coreWeight counts the other ring members within the clustering radius, as of the last recomputation.
type clusterNode struct {
	point      geometry.Point
	coreWeight int
	ringNext   handle
}

// Yields the members of the ring starting at h, following ringNext until it comes back to h
// or reaches nilHandle. A singleton yields only itself.
func (r *KdRange) ring(start handle) iter.Seq[handle] {
	return func(yield func(handle) bool) {
		h := start
		for {
			if !yield(h) {
				return
			}
			next := r.nodes[h].ringNext
			if next == nilHandle || next == start {
				return
			}
			h = next
		}
	}
}

func (r *KdRange) isRingMember(start, h handle) bool {
	for m := range r.ring(start) {
		if m == h {
			return true
		}
	}
	return false
}

// linear scan of the (forward only) ring. h must be clustered.
func (r *KdRange) predecessor(h handle) handle {
	p := h
	for r.nodes[p].ringNext != h {
		p = r.nodes[p].ringNext
	}
	return p
}

// Merges the ring of other into the ring of this. Returns false without touching anything
// if other already belongs to the ring of this.
func (r *KdRange) absorb(this, other handle, epsCluster float64) bool {
	if r.isRingMember(this, other) {
		return false
	}

	successor := r.nodes[this].ringNext
	if successor == nilHandle {
		successor = this
	}

	if r.nodes[other].ringNext != nilHandle {
		// other heads a ring of its own: splice the two cycles together
		pred := r.predecessor(other)
		r.nodes[pred].ringNext = successor
	} else {
		r.nodes[other].ringNext = successor
	}
	r.nodes[this].ringNext = other

	members := r.updateCoreWeights(this, epsCluster)
	if glog.V(3) {
		glog.Infof("ring of node %d absorbed node %d, %d members", this, other, members)
	}
	return true
}

// Recomputes the core weight of every ring member. Quadratic in the ring size.
func (r *KdRange) updateCoreWeights(start handle, epsCluster float64) int {
	members := make([]handle, 0, 8)
	for m := range r.ring(start) {
		members = append(members, m)
	}

	for _, m := range members {
		weight := 0
		p := r.nodes[m].point
		for _, o := range members {
			if o != m && p.Distance(r.nodes[o].point) < epsCluster {
				weight++
			}
		}
		r.nodes[m].coreWeight = weight
	}
	return len(members)
}

// Removes h from its ring. The remaining members keep their weights.
func (r *KdRange) expel(h handle) bool {
	next := r.nodes[h].ringNext
	if next == nilHandle {
		return false
	}

	pred := r.predecessor(h)
	if pred == next {
		// Departs from plain predecessor rewiring, which would leave the survivor
		// linked to itself and still reported as clustered with a stale weight.
		// A lone remaining member goes back to being an unclustered singleton.
		r.nodes[pred].ringNext = nilHandle
		r.nodes[pred].coreWeight = 0
	} else {
		r.nodes[pred].ringNext = next
	}

	r.nodes[h].ringNext = nilHandle
	r.nodes[h].coreWeight = 0
	return true
}

func (r *KdRange) clusterWeight(h handle) int {
	weight := 0
	for m := range r.ring(h) {
		weight += r.nodes[m].coreWeight
	}
	return weight
}

// Average of the ring points weighted by their core weight. Right after a singleton insert
// the weights may all be zero: the node's own point is returned in that case.
func (r *KdRange) center(h handle) geometry.Point {
	weight := r.clusterWeight(h)
	if weight == 0 {
		return r.nodes[h].point
	}

	var c geometry.Point
	for m := range r.ring(h) {
		n := &r.nodes[m]
		c = c.Add(n.point.Scale(float64(n.coreWeight) / float64(weight)))
	}
	return c
}

// Node is a handle to a stored point of a KdRange.
// Two Node values are equal if and only if they designate the same stored point.
type Node struct {
	owner *KdRange
	id    handle
}

var _ index.INode = Node{}

func (n Node) data() *kdNode {
	return &n.owner.nodes[n.id]
}

func (n Node) ID() int {
	return int(n.id)
}

func (n Node) Point() geometry.Point {
	return n.data().point
}

func (n Node) CoreWeight() int {
	return n.data().coreWeight
}

// Split axis of the node in the kd-tree
func (n Node) Dim() int {
	return n.data().dim
}

func (n Node) IsCluster() bool {
	return n.data().ringNext != nilHandle
}

// Merges other (and the ring it belongs to) into the ring of n and recomputes the weights
// of the merged ring. Returns false if other already is a member of the ring of n, or if it
// belongs to a different KdRange.
func (n Node) Absorb(other index.INode, epsCluster float64) bool {
	o, ok := other.(Node)
	if !ok || o.owner != n.owner {
		return false
	}
	return n.owner.absorb(n.id, o.id, epsCluster)
}

// Removes n from its cluster ring; the point itself stays in the index.
// Returns whether n was a ring member.
func (n Node) Expel() bool {
	return n.owner.expel(n.id)
}

func (n Node) ClusterRing() iter.Seq[index.INode] {
	return func(yield func(index.INode) bool) {
		for m := range n.owner.ring(n.id) {
			if !yield(Node{owner: n.owner, id: m}) {
				return
			}
		}
	}
}

func (n Node) ClusterPoints() iter.Seq[geometry.Point] {
	return func(yield func(geometry.Point) bool) {
		for m := range n.owner.ring(n.id) {
			if !yield(n.owner.nodes[m].point) {
				return
			}
		}
	}
}

func (n Node) ClusterCount() int {
	count := 0
	for range n.owner.ring(n.id) {
		count++
	}
	return count
}

func (n Node) ClusterWeight() int {
	return n.owner.clusterWeight(n.id)
}

func (n Node) Center() geometry.Point {
	return n.owner.center(n.id)
}

// Bounding box of the ring points
func (n Node) Box() geometry.BoundingBox {
	box := geometry.EmptyBoundingBox()
	for p := range n.ClusterPoints() {
		box = box.Extend(p)
	}
	return box
}
