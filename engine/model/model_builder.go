package model

// ModelBuilderOption is a functional option applied to a model during
// construction via NewModel.
type ModelBuilderOption func(*modelImpl)

// WithName sets the model's identifier.
//
// Parameters:
//   - name: the model name (typically the source file path)
//
// Returns:
//   - ModelBuilderOption: option function to apply
func WithName(name string) ModelBuilderOption {
	return func(m *modelImpl) {
		m.name = name
	}
}

// WithNodes sets the model's node collection. The slice is taken as-is and
// must already be in document order with valid parent indices.
//
// Parameters:
//   - nodes: the node collection
//
// Returns:
//   - ModelBuilderOption: option function to apply
func WithNodes(nodes []Node) ModelBuilderOption {
	return func(m *modelImpl) {
		m.nodes = nodes
	}
}
