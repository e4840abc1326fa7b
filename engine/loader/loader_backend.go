package loader

import (
	"io"

	"github.com/halversen/vrmview/engine/model"
)

// loaderBackend defines the generic interface for importing model files
// or streams into CPU-side node hierarchies. Concrete implementations
// (e.g., vrmLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load imports a model from the given file path, extracting the node
	// hierarchy and the geometry of every mesh-bearing node.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - []model.Node: the imported nodes in document order
	//   - error: error if reading or parsing fails
	Load(path string) ([]model.Node, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//
	// Returns:
	//   - []model.Node: the imported nodes in document order
	//   - error: error if parsing fails
	LoadReader(r io.Reader) ([]model.Node, error)
}
