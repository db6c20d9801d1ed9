package mesh

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/g3n/engine/loader/obj"
	"gonum.org/v1/gonum/spatial/r3"
)

// decodeOBJ reads a Wavefront OBJ file. A sibling .mtl file is used when
// present; all objects are merged into one mesh and polygons are
// fan-triangulated.
func decodeOBJ(path string) (*Mesh, error) {
	fobj, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fobj.Close()

	var mtl io.Reader = strings.NewReader("")
	if fmtl, err := os.Open(strings.TrimSuffix(path, filepath.Ext(path)) + ".mtl"); err == nil {
		defer fmtl.Close()
		mtl = fmtl
	}

	src, err := normalizeGroups(fobj)
	if err != nil {
		return nil, err
	}

	dec, err := obj.DecodeReader(src, mtl)
	if err != nil {
		return nil, err
	}

	coords := dec.Vertices
	if len(coords)%3 != 0 {
		return nil, fmt.Errorf("vertex array length %d is not a multiple of 3", len(coords))
	}

	m := &Mesh{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Format:   "obj",
		Vertices: make([]r3.Vec, 0, len(coords)/3),
	}

	for i := 0; i < len(coords); i += 3 {
		m.Vertices = append(m.Vertices, r3.Vec{
			X: float64(coords[i]),
			Y: float64(coords[i+1]),
			Z: float64(coords[i+2]),
		})
	}

	for _, o := range dec.Objects {
		for _, f := range o.Faces {
			m.Faces = appendFan(m.Faces, f.Vertices)
		}
	}

	return m, nil
}

// appendFan splits a convex polygon into triangles sharing its first corner.
func appendFan(faces [][3]int, poly []int) [][3]int {
	for i := 1; i+1 < len(poly); i++ {
		faces = append(faces, [3]int{poly[0], poly[i], poly[i+1]})
	}
	return faces
}

// normalizeGroups names anonymous "g" and "o" lines, which exporters emit
// freely but the g3n decoder rejects.
func normalizeGroups(r io.Reader) (io.Reader, error) {
	var buf bytes.Buffer
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if kw := strings.TrimSpace(line); kw == "g" || kw == "o" {
			line = kw + " default"
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read obj: %w", err)
	}
	return &buf, nil
}
