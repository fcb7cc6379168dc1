package index

import (
	"iter"

	"github.com/ecopia-map/kdweld/internal/geometry"
)

// ISpatialIndex is a growing set of 3D points that can be queried by range and clustered online.
// Implementations are not safe for concurrent mutation; read-only queries may run concurrently
// once all points have been appended.
type ISpatialIndex interface {
	// Adds a Point to the index, returning the node that now represents it
	Append(point geometry.Point) INode
	Points() iter.Seq[geometry.Point]
	PointsWithin(box geometry.BoundingBox) iter.Seq[geometry.Point]
	NearestNeighbors(point geometry.Point, r float64) iter.Seq[geometry.Point]
	// Yields one representative node per cluster ring. Unclustered singletons are
	// yielded too unless clusteredOnly is set.
	Clusters(clusteredOnly bool) iter.Seq[INode]
	Node(id int) (INode, bool)
	Len() int
	Bounds() geometry.BoundingBox
	EpsSame() float64
	EpsCluster() float64
}

// INode is a single stored point and its membership in a cluster ring.
type INode interface {
	ID() int
	Point() geometry.Point
	CoreWeight() int
	IsCluster() bool
	Absorb(other INode, epsCluster float64) bool
	Expel() bool
	ClusterRing() iter.Seq[INode]
	ClusterPoints() iter.Seq[geometry.Point]
	ClusterCount() int
	ClusterWeight() int
	Center() geometry.Point
	Box() geometry.BoundingBox
}
