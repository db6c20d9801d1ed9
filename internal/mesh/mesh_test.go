package mesh

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hschendel/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const cubeOBJ = `# unit cube
o cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
f 1 4 3 2
f 5 6 7 8
f 1 2 6 5
f 2 3 7 6
f 3 4 8 7
f 4 1 5 8
`

const tetraSTL = `solid tetra
facet normal 0 0 -1
  outer loop
    vertex 0 0 0
    vertex 0 1 0
    vertex 1 0 0
  endloop
endfacet
facet normal 0 -1 0
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 0 1
  endloop
endfacet
facet normal -1 0 0
  outer loop
    vertex 0 0 0
    vertex 0 0 1
    vertex 0 1 0
  endloop
endfacet
facet normal 1 1 1
  outer loop
    vertex 1 0 0
    vertex 0 1 0
    vertex 0 0 1
  endloop
endfacet
endsolid tetra
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCubeOBJ(t *testing.T) {
	m, err := Load(writeFile(t, "cube.obj", cubeOBJ))
	require.NoError(t, err)

	assert.Equal(t, "obj", m.Format)
	assert.Equal(t, "cube", m.Name)
	assert.Equal(t, 8, m.VertexCount())
	assert.Equal(t, 12, m.FaceCount())
	assert.False(t, m.IsEmpty())

	b := m.Bounds()
	assert.Equal(t, r3.Vec{}, b.Min)
	assert.Equal(t, r3.Vec{X: 1, Y: 1, Z: 1}, b.Max)
	assert.InDelta(t, 6.0, m.SurfaceArea(), 1e-9)

	for i, f := range m.Faces {
		for _, idx := range f {
			assert.True(t, idx >= 0 && idx < m.VertexCount(), "face %d index %d", i, idx)
		}
	}
}

func TestLoadOBJGroupVariants(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		vertices  int
		triangles int
	}{
		{"cube with object line", cubeOBJ, 8, 12},
		{"anonymous group", "v 0 0 0\nv 1 0 0\nv 0 1 0\ng\nf 1 2 3\n", 3, 1},
		{"anonymous object", "o\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n", 3, 1},
		{"anonymous group with padding", "v 0 0 0\nv 1 0 0\nv 0 1 0\nv 1 1 0\n  g  \nf 1 2 4 3\n", 4, 2},
		{"named groups", "o quad\nv 0 0 0\nv 1 0 0\nv 0 1 0\ng left\nf 1 2 3\ng right\nf 3 2 1\n", 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Load(writeFile(t, "model.obj", tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.vertices, m.VertexCount())
			assert.Equal(t, tt.triangles, m.FaceCount())
		})
	}
}

func TestNormalizeGroupsOnlyTouchesBareLines(t *testing.T) {
	in := "g\no\ng body\n# g\nv 0 0 0\n"
	r, err := normalizeGroups(strings.NewReader(in))
	require.NoError(t, err)

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "g default\no default\ng body\n# g\nv 0 0 0\n", string(out))
}

func TestLoadCubeOBJOutwardNormals(t *testing.T) {
	m, err := Load(writeFile(t, "cube.obj", cubeOBJ))
	require.NoError(t, err)

	center := r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
	for i, n := range m.FaceNormals() {
		assert.InDelta(t, 1.0, r3.Norm(n), 1e-9)
		tri := m.Triangle(i)
		out := r3.Sub(tri[0], center)
		assert.Greater(t, r3.Dot(n, out), 0.0, "face %d normal points inward", i)
	}
}

func TestLoadASCIISTLWeldsVertices(t *testing.T) {
	m, err := Load(writeFile(t, "tetra.stl", tetraSTL))
	require.NoError(t, err)

	assert.Equal(t, "stl", m.Format)
	assert.Equal(t, "tetra", m.Name)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 4, m.FaceCount())
}

func TestLoadBinarySTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.stl")
	solid := &stl.Solid{
		Triangles: []stl.Triangle{
			{
				Normal:   stl.Vec3{0, 0, 1},
				Vertices: [3]stl.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			},
			{
				Normal:   stl.Vec3{0, 0, 1},
				Vertices: [3]stl.Vec3{{1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
			},
		},
	}
	require.NoError(t, solid.WriteFile(path))

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "stl", m.Format)
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount())
	assert.InDelta(t, 1.0, m.SurfaceArea(), 1e-6)
	assert.Equal(t, r3.Vec{X: 1, Y: 1}, m.Bounds().Max)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	m, err := Load(writeFile(t, "model.xyz", "1 2 3\n"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Nil(t, m)
}

func TestLoadCorruptModels(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"obj without geometry", "empty.obj", "# nothing here\n"},
		{"obj face out of range", "bad.obj", "o bad\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n"},
		{"obj unparsable face", "broken.obj", "o broken\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 two 3\n"},
		{"truncated binary stl", "short.stl", "\x00\x01\x02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Load(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
			assert.Nil(t, m)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	m, err := Load(filepath.Join(t.TempDir(), "missing.obj"))
	assert.Error(t, err)
	assert.Nil(t, m)
}

func TestRegistryCustomDecoder(t *testing.T) {
	r := NewRegistry()
	r.Register("PTS", DecoderFunc(func(path string) (*Mesh, error) {
		return &Mesh{
			Format:   "pts",
			Vertices: []r3.Vec{{}, {X: 1}, {Y: 1}},
			Faces:    [][3]int{{0, 1, 2}},
		}, nil
	}))

	assert.Equal(t, []string{".obj", ".pts", ".stl"}, r.Formats())

	m, err := r.Load("anything.pts")
	require.NoError(t, err)
	assert.Equal(t, 1, m.FaceCount())
	assert.InDelta(t, 0.5, m.SurfaceArea(), 1e-9)
}

func TestRegistryWrapsDecoderErrors(t *testing.T) {
	sentinel := errors.New("decoder exploded")
	r := NewRegistry()
	r.Register(".boom", DecoderFunc(func(string) (*Mesh, error) { return nil, sentinel }))

	m, err := r.Load("x.BOOM")
	assert.ErrorIs(t, err, sentinel)
	assert.Nil(t, m)
}

func TestRegistryRejectsEmptyDecodedMesh(t *testing.T) {
	r := NewRegistry()
	r.Register(".none", DecoderFunc(func(string) (*Mesh, error) { return &Mesh{}, nil }))

	_, err := r.Load("x.none")
	assert.ErrorIs(t, err, ErrEmptyMesh)
}
