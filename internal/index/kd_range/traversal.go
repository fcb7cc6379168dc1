package kd_range

import (
	"iter"

	"github.com/ecopia-map/kdweld/internal/geometry"
)

// Breadth first enumeration of every node of the tree
func (r *KdRange) walkAll() iter.Seq[handle] {
	return func(yield func(handle) bool) {
		if r.root == nilHandle {
			return
		}

		queue := []handle{r.root}
		for head := 0; head < len(queue); head++ {
			h := queue[head]
			if !yield(h) {
				return
			}
			n := &r.nodes[h]
			if n.left != nilHandle {
				queue = append(queue, n.left)
			}
			if n.right != nilHandle {
				queue = append(queue, n.right)
			}
		}
	}
}

// Breadth first enumeration of the nodes lying within box. Subtrees are skipped only when
// their pruning bound proves that none of their points can reach the box along the split
// axis, so no node inside the box is ever missed; nodes outside the box may still be visited.
func (r *KdRange) walkWithin(box geometry.BoundingBox) iter.Seq[handle] {
	return func(yield func(handle) bool) {
		if r.root == nilHandle {
			return
		}

		work := []handle{r.root}
		for head := 0; head < len(work); head++ {
			h := work[head]
			n := r.nodes[h]

			coord := n.point.MustAt(n.dim)
			leftDist := coord - box.Min.MustAt(n.dim)
			rightDist := box.Max.MustAt(n.dim) - coord

			if n.right != nilHandle && n.rMin < rightDist {
				work = append(work, n.right)
			}
			if n.left != nilHandle && n.lMin < leftDist {
				work = append(work, n.left)
			}

			if leftDist > 0 && rightDist > 0 && box.Covers(n.point) {
				if !yield(h) {
					return
				}
			}
		}
	}
}
