package ply

import (
	"os"
	"unsafe"

	"github.com/ecopia-map/kdweld/internal/geometry"
	"github.com/ecopia-map/kdweld/internal/index"
	plyfile "github.com/cobaltgray/go-plyfile"
)

// Layout of a vertex element. Coordinates are stored relative to the index bounds center
// so that float32 keeps enough precision.
type Vertex struct {
	X, Y, Z float32
	R, G, B uint8
}

var vertexElementNames = []string{"vertex"}

// Writes the given vertices as a binary little endian PLY file
func WritePlyFile(filePath string, verts []Vertex) error {
	// the C writer gives no usable error on open, so the path is checked here
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	cplyfile := plyfile.PlyOpenForWriting(filePath, len(vertexElementNames), vertexElementNames, plyfile.PLY_BINARY_LE)
	defer plyfile.PlyClose(cplyfile)

	vert := Vertex{}
	vertProps := []plyfile.PlyProperty{
		{"x", plyfile.PLY_FLOAT, plyfile.PLY_FLOAT, int(unsafe.Offsetof(vert.X)), 0, 0, 0, 0},
		{"y", plyfile.PLY_FLOAT, plyfile.PLY_FLOAT, int(unsafe.Offsetof(vert.Y)), 0, 0, 0, 0},
		{"z", plyfile.PLY_FLOAT, plyfile.PLY_FLOAT, int(unsafe.Offsetof(vert.Z)), 0, 0, 0, 0},
		{"red", plyfile.PLY_UCHAR, plyfile.PLY_UCHAR, int(unsafe.Offsetof(vert.R)), 0, 0, 0, 0},
		{"green", plyfile.PLY_UCHAR, plyfile.PLY_UCHAR, int(unsafe.Offsetof(vert.G)), 0, 0, 0, 0},
		{"blue", plyfile.PLY_UCHAR, plyfile.PLY_UCHAR, int(unsafe.Offsetof(vert.B)), 0, 0, 0, 0},
	}

	plyfile.PlyElementCount(cplyfile, "vertex", len(verts))
	for _, prop := range vertProps {
		plyfile.PlyDescribeProperty(cplyfile, "vertex", prop)
	}
	plyfile.PlyHeaderComplete(cplyfile)

	plyfile.PlyPutElementSetup(cplyfile, "vertex")
	for _, vertex := range verts {
		plyfile.PlyPutElement(cplyfile, vertex)
	}

	return nil
}

// Writes one vertex per index node. Members of the same ring share a color, singletons are grey.
// Returns the origin the vertex coordinates are relative to.
func WriteWeldedVertices(filePath string, idx index.ISpatialIndex) (geometry.Point, error) {
	verts, origin := WeldedVertices(idx)
	return origin, WritePlyFile(filePath, verts)
}

// Builds the vertices written by WriteWeldedVertices, ordered by node id, together with their
// origin: the center of the index bounds.
func WeldedVertices(idx index.ISpatialIndex) ([]Vertex, geometry.Point) {
	verts := make([]Vertex, idx.Len())
	origin := geometry.NewPoint(0, 0, 0)
	if bounds := idx.Bounds(); !bounds.IsEmpty() {
		origin = bounds.Center()
	}

	for cluster := range idx.Clusters(false) {
		r, g, b := clusterColor(cluster)
		for member := range cluster.ClusterRing() {
			p := member.Point().Sub(origin)
			verts[member.ID()] = Vertex{
				X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z),
				R: r, G: g, B: b,
			}
		}
	}
	return verts, origin
}

var singletonColor = [3]uint8{128, 128, 128}

// Picks a color from the golden ratio hue sequence, keyed on the ring head id
func clusterColor(cluster index.INode) (uint8, uint8, uint8) {
	if !cluster.IsCluster() {
		return singletonColor[0], singletonColor[1], singletonColor[2]
	}
	hue := float64(cluster.ID()) * 0.618033988749895
	hue -= float64(int(hue))
	return hsvToRgb(hue, 0.75, 0.95)
}

func hsvToRgb(h, s, v float64) (uint8, uint8, uint8) {
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return uint8(r * 255), uint8(g * 255), uint8(b * 255)
}
