package mesh

import (
	"path/filepath"
	"strings"

	"github.com/hschendel/stl"
	"gonum.org/v1/gonum/spatial/r3"
)

// decodeSTL reads ASCII or binary STL. Corners at identical positions are
// merged so the result is an indexed mesh rather than a triangle soup.
func decodeSTL(path string) (*Mesh, error) {
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := solid.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	m := &Mesh{
		Name:   name,
		Format: "stl",
		Faces:  make([][3]int, 0, len(solid.Triangles)),
	}

	index := make(map[stl.Vec3]int)
	for _, tri := range solid.Triangles {
		var face [3]int
		for i, v := range tri.Vertices {
			idx, ok := index[v]
			if !ok {
				idx = len(m.Vertices)
				index[v] = idx
				m.Vertices = append(m.Vertices, r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
			}
			face[i] = idx
		}
		m.Faces = append(m.Faces, face)
	}

	return m, nil
}
