// Package mesh loads triangle meshes from OBJ and STL files.
package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mesh is an indexed triangle mesh. Every face index refers to an entry of
// Vertices.
type Mesh struct {
	Name     string
	Format   string
	Vertices []r3.Vec
	Faces    [][3]int
}

func (m *Mesh) VertexCount() int { return len(m.Vertices) }
func (m *Mesh) FaceCount() int   { return len(m.Faces) }

// IsEmpty reports whether the mesh lacks vertices or faces.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0 || len(m.Faces) == 0
}

// Triangle returns the corner positions of face i.
func (m *Mesh) Triangle(i int) r3.Triangle {
	f := m.Faces[i]
	return r3.Triangle{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}
}

// Bounds returns the axis-aligned bounding box of all vertices. An empty
// mesh yields the zero box.
func (m *Mesh) Bounds() r3.Box {
	if len(m.Vertices) == 0 {
		return r3.Box{}
	}

	box := r3.Box{Min: m.Vertices[0], Max: m.Vertices[0]}
	for _, v := range m.Vertices[1:] {
		box.Min.X = math.Min(box.Min.X, v.X)
		box.Min.Y = math.Min(box.Min.Y, v.Y)
		box.Min.Z = math.Min(box.Min.Z, v.Z)
		box.Max.X = math.Max(box.Max.X, v.X)
		box.Max.Y = math.Max(box.Max.Y, v.Y)
		box.Max.Z = math.Max(box.Max.Z, v.Z)
	}
	return box
}

// FaceNormals returns one unit normal per face, following the right-hand
// rule over the face winding. Degenerate faces get the zero vector.
func (m *Mesh) FaceNormals() []r3.Vec {
	normals := make([]r3.Vec, len(m.Faces))
	for i := range m.Faces {
		n := faceCross(m.Triangle(i))
		if l := r3.Norm(n); l > 0 {
			normals[i] = r3.Scale(1/l, n)
		}
	}
	return normals
}

// SurfaceArea sums the area of every face.
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for i := range m.Faces {
		area += r3.Norm(faceCross(m.Triangle(i))) / 2
	}
	return area
}

func (m *Mesh) String() string {
	return fmt.Sprintf("Mesh(%s, vertices=%d, faces=%d)", m.Format, len(m.Vertices), len(m.Faces))
}

func faceCross(t r3.Triangle) r3.Vec {
	return r3.Cross(r3.Sub(t[1], t[0]), r3.Sub(t[2], t[0]))
}

// validate checks the face index invariant and rejects empty geometry.
func (m *Mesh) validate() error {
	if m.IsEmpty() {
		return fmt.Errorf("%w: %d vertices, %d faces", ErrEmptyMesh, len(m.Vertices), len(m.Faces))
	}

	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.Vertices) {
				return fmt.Errorf("face %d references vertex %d, mesh has %d vertices", i, idx, len(m.Vertices))
			}
		}
	}
	return nil
}
