package kd_range

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	"github.com/ecopia-map/kdweld/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPoints(rnd *rand.Rand, n int, extent float64) []geometry.Point {
	points := make([]geometry.Point, n)
	for i := range points {
		points[i] = geometry.NewPoint(rnd.Float64()*extent, rnd.Float64()*extent, rnd.Float64()*extent)
	}
	return points
}

func pointSet(points []geometry.Point) map[geometry.Point]int {
	set := make(map[geometry.Point]int, len(points))
	for _, p := range points {
		set[p]++
	}
	return set
}

func TestKdRange_Empty(t *testing.T) {
	r := NewDefault()

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.Depth())
	assert.True(t, r.Bounds().IsEmpty())
	assert.Empty(t, slices.Collect(r.Points()))
	assert.Empty(t, slices.Collect(r.PointsWithin(geometry.UnboundedBoundingBox())))
	assert.Empty(t, slices.Collect(r.NearestNeighbors(geometry.NewPoint(0, 0, 0), 10)))
	assert.Empty(t, slices.Collect(r.Clusters(false)))

	_, ok := r.Node(0)
	assert.False(t, ok)
}

func TestKdRange_Defaults(t *testing.T) {
	r := NewDefault()
	assert.Equal(t, 1e-6, r.EpsSame())
	assert.Equal(t, 1e-4, r.EpsCluster())
}

func TestKdRange_ConcreteScenario(t *testing.T) {
	r := New(0.001, 0.01)

	origin := r.Append(geometry.NewPoint(0, 0, 0))
	snapped := r.Append(geometry.NewPoint(0.0005, 0, 0))
	assert.Equal(t, origin, snapped)
	assert.Equal(t, 1, r.Len())

	near := r.Append(geometry.NewPoint(0.005, 0, 0))
	assert.NotEqual(t, origin, near)

	far := r.Append(geometry.NewPoint(10, 10, 10))

	points := slices.Collect(r.Points())
	assert.Len(t, points, 3)
	assert.ElementsMatch(t, []geometry.Point{
		geometry.NewPoint(0, 0, 0),
		geometry.NewPoint(0.005, 0, 0),
		geometry.NewPoint(10, 10, 10),
	}, points)

	assert.True(t, origin.IsCluster())
	assert.Equal(t, 2, origin.ClusterCount())
	assert.Equal(t, 2, origin.ClusterWeight())
	assert.Equal(t, 2, near.ClusterWeight())
	assert.ElementsMatch(t, slices.Collect(origin.ClusterPoints()), slices.Collect(near.ClusterPoints()))

	assert.False(t, far.IsCluster())
	assert.Equal(t, []geometry.Point{geometry.NewPoint(10, 10, 10)}, slices.Collect(far.ClusterPoints()))

	// snapped points still widen the running bounds
	assert.Equal(t, geometry.NewBoundingBox(geometry.NewPoint(0, 0, 0), geometry.NewPoint(10, 10, 10)), r.Bounds())
}

func TestKdRange_SnapIdempotence(t *testing.T) {
	r := New(1e-3, 1e-2)
	rnd := rand.New(rand.NewSource(7))

	for _, p := range randomPoints(rnd, 200, 100) {
		first := r.Append(p)
		before := r.Len()
		second := r.Append(p.Add(geometry.NewPoint(1e-6, -1e-6, 2e-6)))

		assert.Equal(t, first, second)
		assert.Equal(t, before, r.Len())
	}
	assert.Len(t, slices.Collect(r.Points()), r.Len())
}

func TestKdRange_Isolation(t *testing.T) {
	r := New(1e-6, 0.5)
	r.Append(geometry.NewPoint(0, 0, 0))
	r.Append(geometry.NewPoint(0.3, 0, 0))

	lone := r.Append(geometry.NewPoint(5, 5, 5))
	assert.False(t, lone.IsCluster())
	assert.Equal(t, 1, lone.ClusterCount())
	assert.Equal(t, 0, lone.ClusterWeight())
	assert.Equal(t, geometry.NewPoint(5, 5, 5), lone.Center())
	assert.Equal(t, geometry.NewBoundingBoxFromPoint(geometry.NewPoint(5, 5, 5)), lone.Box())
}

func TestKdRange_ClusteringTransitivity(t *testing.T) {
	r := NewDefault()
	a := r.Append(geometry.NewPoint(1, 2, 3))
	b := r.Append(geometry.NewPoint(1.00005, 2, 3))

	require.True(t, a.IsCluster())
	require.True(t, b.IsCluster())
	assert.Contains(t, slices.Collect(a.ClusterRing()), b)
	assert.Contains(t, slices.Collect(b.ClusterRing()), a)
	assert.Equal(t, a.ClusterWeight(), b.ClusterWeight())
}

func TestKdRange_BridgingPointMergesClusters(t *testing.T) {
	r := New(1e-6, 1)
	a1 := r.Append(geometry.NewPoint(0, 0, 0))
	a2 := r.Append(geometry.NewPoint(0.5, 0, 0))
	b1 := r.Append(geometry.NewPoint(2, 0, 0))
	b2 := r.Append(geometry.NewPoint(2.5, 0, 0))

	require.Equal(t, 2, a1.ClusterCount())
	require.Equal(t, 2, b1.ClusterCount())
	require.NotContains(t, slices.Collect(a1.ClusterRing()), b1)

	c := r.Append(geometry.NewPoint(1.25, 0, 0))
	for _, n := range []interface{ ClusterCount() int }{a1, a2, b1, b2, c} {
		assert.Equal(t, 5, n.ClusterCount())
	}
	assert.Equal(t, 1, len(slices.Collect(r.Clusters(true))))
}

func TestKdRange_WeightedCenter(t *testing.T) {
	r := New(1e-6, 1)
	a := r.Append(geometry.NewPoint(0, 0, 0))
	b := r.Append(geometry.NewPoint(1.5, 0, 0))
	require.False(t, a.IsCluster())
	require.False(t, b.IsCluster())

	c := r.Append(geometry.NewPoint(0.75, 0, 0))
	assert.Equal(t, 3, c.ClusterCount())
	assert.Equal(t, 1, a.CoreWeight())
	assert.Equal(t, 1, b.CoreWeight())
	assert.Equal(t, 2, c.CoreWeight())
	assert.Equal(t, 4, a.ClusterWeight())

	center := a.Center()
	assert.InDelta(t, 0.75, center.X, 1e-12)
	assert.InDelta(t, 0, center.Y, 1e-12)
	assert.InDelta(t, 0, center.Z, 1e-12)

	box := a.Box()
	assert.Equal(t, geometry.NewBoundingBox(geometry.NewPoint(0, 0, 0), geometry.NewPoint(1.5, 0, 0)), box)
}

func TestKdRange_NodeLookup(t *testing.T) {
	r := NewDefault()
	first := r.Append(geometry.NewPoint(1, 1, 1))
	second := r.Append(geometry.NewPoint(2, 2, 2))

	n, ok := r.Node(1)
	require.True(t, ok)
	assert.Equal(t, second, n)
	assert.Equal(t, 0, first.ID())
	assert.Equal(t, 1, second.ID())

	_, ok = r.Node(2)
	assert.False(t, ok)
	_, ok = r.Node(-1)
	assert.False(t, ok)
}

func TestKdRange_StrictTolerances(t *testing.T) {
	assert.Panics(t, func() { New(1, 0.1, WithStrictTolerances()) })
	assert.NotPanics(t, func() { New(1, 0.1) })
	assert.NotPanics(t, func() { New(0.1, 1, WithStrictTolerances(), WithExpectedSize(16)) })
}

func TestKdRange_DepthFollowsInsertionOrder(t *testing.T) {
	sorted := NewDefault()
	for i := 0; i < 10; i++ {
		sorted.Append(geometry.NewPoint(float64(i), float64(i), float64(i)))
	}
	// no rebalancing: a monotone sequence degenerates into a list
	assert.Equal(t, 10, sorted.Depth())

	balanced := NewDefault()
	for _, x := range []float64{4, 2, 6, 1, 3, 5, 7} {
		balanced.Append(geometry.NewPoint(x, x, x))
	}
	assert.Equal(t, 3, balanced.Depth())
}

// Ring partition must equal the connected components of the graph linking points closer than
// epsCluster, as long as no point snaps.
func TestKdRange_ClustersMatchConnectedComponents(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	const eps = 0.08
	points := randomPoints(rnd, 400, 1)

	r := New(1e-12, eps)
	for _, p := range points {
		r.Append(p)
	}
	require.Equal(t, len(points), r.Len())

	// reference: union find over the brute force neighbourhood graph
	parent := make([]int, len(points))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if points[i].Distance(points[j]) < eps {
				parent[find(i)] = find(j)
			}
		}
	}

	// node ids follow insertion order since nothing snapped
	for i := range points {
		n, ok := r.Node(i)
		require.True(t, ok)
		require.Equal(t, points[i], n.Point())

		members := make(map[int]bool)
		for m := range n.ClusterRing() {
			members[m.ID()] = true
		}
		for j := range points {
			assert.Equal(t, find(i) == find(j), members[j], "points %d and %d", i, j)
		}
	}

	components := make(map[int]bool)
	for i := range points {
		components[find(i)] = true
	}
	assert.Len(t, slices.Collect(r.Clusters(false)), len(components))
}

func TestKdRange_RingsAreCycles(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	r := New(1e-4, 0.05)
	for _, p := range randomPoints(rnd, 500, 1) {
		r.Append(p)
	}

	for i := range r.nodes {
		h := handle(i)
		if r.nodes[h].ringNext == nilHandle {
			continue
		}
		steps := 0
		for cur := r.nodes[h].ringNext; cur != h; cur = r.nodes[cur].ringNext {
			require.NotEqual(t, nilHandle, cur)
			steps++
			require.Less(t, steps, r.Len())
		}
	}
}

func TestKdRange_WeightsMatchDefinition(t *testing.T) {
	rnd := rand.New(rand.NewSource(11))
	r := New(1e-9, 0.1)
	for _, p := range randomPoints(rnd, 300, 1) {
		r.Append(p)
	}

	for n := range r.Clusters(true) {
		ring := slices.Collect(n.ClusterRing())
		total := 0
		for _, m := range ring {
			want := 0
			for _, o := range ring {
				if o != m && m.Point().Distance(o.Point()) < r.EpsCluster() {
					want++
				}
			}
			assert.Equal(t, want, m.CoreWeight())
			total += want
		}
		assert.Equal(t, total, n.ClusterWeight())
		assert.False(t, math.IsNaN(n.Center().X))
	}
}
