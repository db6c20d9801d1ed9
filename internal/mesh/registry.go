package mesh

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
	ErrEmptyMesh         = errors.New("mesh has no geometry")
)

// Decoder parses one file format into a Mesh.
type Decoder interface {
	Decode(path string) (*Mesh, error)
}

type DecoderFunc func(path string) (*Mesh, error)

func (f DecoderFunc) Decode(path string) (*Mesh, error) { return f(path) }

// Registry maps lower-case file extensions (with the leading dot) to decoders.
type Registry struct {
	decoders map[string]Decoder
	mutex    sync.RWMutex
}

// NewRegistry returns a registry with the OBJ and STL decoders installed.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[string]Decoder)}
	r.Register(".obj", DecoderFunc(decodeOBJ))
	r.Register(".stl", DecoderFunc(decodeSTL))
	return r
}

func (r *Registry) Register(ext string, d Decoder) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.decoders[normalizeExt(ext)] = d
}

func (r *Registry) Lookup(path string) (Decoder, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	d, ok := r.decoders[normalizeExt(filepath.Ext(path))]
	return d, ok
}

// Formats lists the registered extensions in sorted order.
func (r *Registry) Formats() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	exts := make([]string, 0, len(r.decoders))
	for ext := range r.decoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Load decodes path with the decoder registered for its extension. It never
// returns a mesh together with an error.
func (r *Registry) Load(path string) (*Mesh, error) {
	d, ok := r.Lookup(path)
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedFormat,
			filepath.Ext(path), strings.Join(r.Formats(), ", "))
	}

	m, err := d.Decode(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mesh %s: %w", path, err)
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid mesh %s: %w", path, err)
	}
	return m, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

var defaultRegistry = NewRegistry()

// Load decodes a model file using the default registry.
func Load(path string) (*Mesh, error) {
	return defaultRegistry.Load(path)
}

// Register installs d for ext in the default registry.
func Register(ext string, d Decoder) {
	defaultRegistry.Register(ext, d)
}
