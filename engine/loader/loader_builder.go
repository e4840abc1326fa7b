package loader

import (
	"github.com/halversen/vrmview/engine/model"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithMeshAllocator is an option builder that sets the allocator used to
// upload geometry to GPU buffers during load. Without one, loaded models
// carry CPU geometry only.
//
// Parameters:
//   - a: the mesh allocator (typically the renderer)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the allocator option to a loader
func WithMeshAllocator(a MeshAllocator) LoaderBuilderOption {
	return func(l *loader) {
		l.allocator = a
	}
}

// WithModel is an option builder that pre-populates the model cache with a model.
//
// Parameters:
//   - key: the cache key for the model
//   - model: the model to cache
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, model model.Model) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = model
	}
}
