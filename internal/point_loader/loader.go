package point_loader

import "github.com/ecopia-map/kdweld/internal/data"

// Reads the vertices stored in an input file, already expressed in the working reference system
type Loader interface {
	Load(filePath string, fileIndex int) ([]*data.Point, error)
}
