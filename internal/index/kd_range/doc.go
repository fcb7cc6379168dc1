// Package kd_range implements an incremental 3D kd-tree that clusters points online.
//
// Every appended point is stored in a node that plays two roles at once: it is a
// vertex of an unbalanced kd-tree (split axis cycling X, Y, Z with depth) and it can
// be a member of a circular singly linked "cluster ring". Rings are merged as new
// points arrive within the clustering radius of existing ones, so the clustering is
// never recomputed from scratch.
//
// Nodes live in a flat arena owned by the KdRange and reference each other through
// integer handles: left/right for the tree, ringNext for the ring. Nothing is ever
// freed individually; the whole KdRange is discarded as a unit.
//
// Basic usage:
//
//	rng := kd_range.New(1e-6, 1e-4)
//	node := rng.Append(geometry.NewPoint(x, y, z))
//	for p := range rng.NearestNeighbors(q, 0.01) {
//		...
//	}
//
// A KdRange is not safe for concurrent use while points are being appended.
package kd_range
