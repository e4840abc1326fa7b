package loader

import (
	"fmt"
	"io"
	"sync"

	"github.com/halversen/vrmview/engine/model"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeVRM selects the binary VRM/GLB loader backend.
	BackendTypeVRM LoaderBackendType = iota
)

// MeshAllocator uploads flattened geometry into GPU-resident buffers.
// The rendering backend satisfies this interface; tests substitute fakes.
type MeshAllocator interface {
	// InitMeshBuffers creates GPU vertex and index buffers for one mesh.
	//
	// Parameters:
	//   - positions: tightly-packed vertex positions (3 floats per vertex)
	//   - normals: tightly-packed vertex normals (3 floats per vertex)
	//   - indices: triangle indices
	//
	// Returns:
	//   - model.MeshBuffers: the GPU buffer handles
	//   - error: error if buffer creation fails
	InitMeshBuffers(positions, normals []float32, indices []uint32) (model.MeshBuffers, error)
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	allocator MeshAllocator

	modelCache map[string]model.Model

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching 3D
// models. It abstracts the file format behind a generic backend and
// manages a cache of previously loaded models. Loading is all-or-nothing:
// on any failure no partial model is returned and any GPU buffers already
// created for it are released.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is
	// returned. World transforms are resolved and GPU buffers uploaded
	// before the model becomes visible to callers.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the
	// given name. Use this when loading from embedded resources or network
	// streams.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns the full model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type
// and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeVRM)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		modelCache: make(map[string]model.Model),
	}

	switch backendType {
	case BackendTypeVRM:
		l.backend = newVRMLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	nodes, err := l.backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m, err := l.finishImport(path, nodes)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	nodes, err := l.backend.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	m, err := l.finishImport(name, nodes)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

// finishImport turns imported CPU nodes into an engine-ready model:
// geometry is uploaded through the allocator when one is configured, then
// the hierarchy is validated and world transforms resolved. On any
// failure every buffer created so far is released.
//
// Parameters:
//   - name: the model name used as its identifier
//   - nodes: the imported nodes in document order
//
// Returns:
//   - model.Model: the engine-ready model
//   - error: error if buffer upload fails or the hierarchy is malformed
func (l *loader) finishImport(name string, nodes []model.Node) (model.Model, error) {
	var created []model.MeshBuffers

	releaseCreated := func() {
		for _, b := range created {
			b.Release()
		}
	}

	if l.allocator != nil {
		for i := range nodes {
			geom := nodes[i].Geometry
			if geom == nil {
				continue
			}

			buffers, err := l.allocator.InitMeshBuffers(geom.Positions, geom.Normals, geom.Indices)
			if err != nil {
				releaseCreated()
				return nil, fmt.Errorf("failed to init mesh buffers for %q node %d: %w", name, i, err)
			}
			nodes[i].Buffers = buffers
			created = append(created, buffers)
		}
	}

	m, err := model.NewModel(
		model.WithName(name),
		model.WithNodes(nodes),
	)
	if err != nil {
		releaseCreated()
		// A cyclic or out-of-range parentIndex chain is a document fault,
		// so it joins the format error class alongside the model's own
		// sentinel.
		return nil, fmt.Errorf("%w: failed to build model %q: %w", ErrFormat, name, err)
	}

	return m, nil
}
