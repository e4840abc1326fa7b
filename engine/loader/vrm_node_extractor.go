package loader

import (
	"fmt"

	"github.com/halversen/vrmview/engine/model"
)

// extractNodes converts the document's node list into engine nodes in
// document order. Omitted transform fields take their defaults (zero
// translation, identity rotation, unit scale), an omitted parentIndex
// marks a root, and nodes with a mesh reference get their geometry
// extracted eagerly.
//
// Parameters:
//   - p: the parser holding the document and binary chunk
//
// Returns:
//   - []model.Node: the nodes in document order
//   - error: error if the nodes section is missing, a mesh reference is
//     invalid, or extraction fails
func extractNodes(p vrmParser) ([]model.Node, error) {
	doc := p.Document()

	// nil means the document carries no nodes section at all; an explicit
	// empty array unmarshals to a non-nil empty slice and is accepted.
	if doc.Nodes == nil {
		return nil, fmt.Errorf("%w: document has no nodes section", ErrFormat)
	}

	nodes := make([]model.Node, len(doc.Nodes))
	for i := range doc.Nodes {
		src := &doc.Nodes[i]

		local := model.IdentityTransform()
		if src.Translation != nil {
			local.Translation = *src.Translation
		}
		if src.Rotation != nil {
			local.Rotation = *src.Rotation
		}
		if src.Scale != nil {
			local.Scale = *src.Scale
		}

		parent := model.RootIndex
		if src.ParentIndex != nil {
			parent = *src.ParentIndex
		}

		node := model.Node{
			Index:       i,
			ParentIndex: parent,
			Local:       local,
		}

		if src.Mesh != nil && *src.Mesh >= 0 {
			geom, err := extractMeshGeometry(p, *src.Mesh)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", i, err)
			}
			node.Geometry = geom
		}

		nodes[i] = node
	}

	return nodes, nil
}
