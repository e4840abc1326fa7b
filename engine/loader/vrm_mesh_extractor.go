package loader

import (
	"fmt"

	"github.com/halversen/vrmview/engine/model"
)

// Attribute semantic names consumed by the viewer.
const (
	attributePosition = "POSITION"
	attributeNormal   = "NORMAL"
)

// extractMeshGeometry flattens all primitives of one mesh into a single
// Geometry. Primitives are decoded in list order and their streams
// appended back to back. POSITION, NORMAL, and indices are all required
// on every primitive; a mesh that omits any of them is rejected.
//
// Parameters:
//   - p: the parser holding the document and binary chunk
//   - meshIndex: the index of the mesh in the document
//
// Returns:
//   - *model.Geometry: the flattened geometry
//   - error: error if the mesh is out of range or a primitive is incomplete
func extractMeshGeometry(p vrmParser, meshIndex int) (*model.Geometry, error) {
	doc := p.Document()
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh index %d out of range", ErrFormat, meshIndex)
	}
	mesh := &doc.Meshes[meshIndex]

	geom := &model.Geometry{}
	for pi, prim := range mesh.Primitives {
		posAccessor, ok := prim.Attributes[attributePosition]
		if !ok {
			return nil, fmt.Errorf("%w: mesh %d primitive %d has no POSITION attribute", ErrFormat, meshIndex, pi)
		}
		normAccessor, ok := prim.Attributes[attributeNormal]
		if !ok {
			return nil, fmt.Errorf("%w: mesh %d primitive %d has no NORMAL attribute", ErrFormat, meshIndex, pi)
		}
		if prim.Indices == nil {
			return nil, fmt.Errorf("%w: mesh %d primitive %d has no indices", ErrFormat, meshIndex, pi)
		}

		positions, err := p.DecodeAttribute(posAccessor, vrmAccessorTypeVec3)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d positions: %w", meshIndex, pi, err)
		}
		normals, err := p.DecodeAttribute(normAccessor, vrmAccessorTypeVec3)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d normals: %w", meshIndex, pi, err)
		}
		indices, err := p.DecodeIndices(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("mesh %d primitive %d indices: %w", meshIndex, pi, err)
		}

		geom.Positions = append(geom.Positions, positions...)
		geom.Normals = append(geom.Normals, normals...)
		geom.Indices = append(geom.Indices, indices...)
	}

	return geom, nil
}
