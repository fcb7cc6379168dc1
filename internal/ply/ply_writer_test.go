package ply

import (
	"path/filepath"
	"testing"

	"github.com/ecopia-map/kdweld/internal/geometry"
	"github.com/ecopia-map/kdweld/internal/index/kd_range"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeldedVertices_ColorsFollowRings(t *testing.T) {
	r := kd_range.New(0.001, 0.01)
	r.Append(geometry.NewPoint(0, 0, 0))
	r.Append(geometry.NewPoint(10, 0, 0))
	r.Append(geometry.NewPoint(0.005, 0, 0))
	r.Append(geometry.NewPoint(20, 0, 0))

	verts, origin := WeldedVertices(r)
	require.Len(t, verts, 4)
	assert.Equal(t, geometry.NewPoint(10, 0, 0), origin)

	sameColor := func(a, b Vertex) bool { return a.R == b.R && a.G == b.G && a.B == b.B }
	assert.True(t, sameColor(verts[0], verts[2]))
	assert.True(t, sameColor(verts[1], verts[3]))
	assert.Equal(t, uint8(128), verts[1].R)
	assert.False(t, sameColor(verts[0], verts[1]))

	// coordinates are relative to the center of the bounds (10, 0, 0)
	assert.Equal(t, float32(-10), verts[0].X)
	assert.Equal(t, float32(10), verts[3].X)
}

func TestWeldedVertices_Empty(t *testing.T) {
	verts, origin := WeldedVertices(kd_range.NewDefault())
	assert.Empty(t, verts)
	assert.Equal(t, geometry.NewPoint(0, 0, 0), origin)
}

func TestWritePlyFile_UnwritablePath(t *testing.T) {
	err := WritePlyFile(filepath.Join(t.TempDir(), "missing", "welded.ply"), []Vertex{{X: 1}})
	assert.Error(t, err)
}

func TestHsvToRgb(t *testing.T) {
	r, g, b := hsvToRgb(0, 1, 1)
	assert.Equal(t, [3]uint8{255, 0, 0}, [3]uint8{r, g, b})

	r, g, b = hsvToRgb(0.5, 1, 1)
	assert.Equal(t, [3]uint8{0, 255, 255}, [3]uint8{r, g, b})
}
