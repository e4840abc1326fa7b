package model

// RootIndex marks a node with no parent in the hierarchy.
const RootIndex = -1

// Transform represents a decomposed local transform for one node.
type Transform struct {
	// Translation is the position offset.
	Translation [3]float32

	// Rotation is the orientation as a quaternion (x, y, z, w).
	Rotation [4]float32

	// Scale is the scale factor along each axis.
	Scale [3]float32
}

// IdentityTransform returns a Transform with zero translation, identity
// rotation, and unit scale — the defaults for omitted node fields.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{
		Rotation: [4]float32{0, 0, 0, 1},
		Scale:    [3]float32{1, 1, 1},
	}
}

// Geometry holds the flattened triangle geometry for one node.
// Positions and normals are tightly-packed 3-float records; indices
// reference vertices in triangle list order.
type Geometry struct {
	// Positions are the vertex positions (x, y, z per vertex).
	Positions []float32

	// Normals are the vertex normals (x, y, z per vertex).
	Normals []float32

	// Indices are the triangle indices.
	Indices []uint32
}

// VertexCount returns the number of vertices described by the position stream.
//
// Returns:
//   - int: the vertex count
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// MeshBuffers is the handle to a node's GPU-resident geometry. Implementations
// are produced by the rendering backend; the model releases them at teardown.
type MeshBuffers interface {
	// IndexCount returns the number of indices uploaded for this mesh,
	// used to size the indexed draw call.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Release frees the GPU buffers backing this mesh.
	// Must be called exactly once, never during an active frame.
	Release()
}

// Node represents one rigid part of a loaded model. Nodes are constructed
// once during load and immutable thereafter.
type Node struct {
	// Index is the node's position in the original document list,
	// used as its identity and referenced by other nodes' ParentIndex.
	Index int

	// ParentIndex is the index of the parent node, or RootIndex for roots.
	ParentIndex int

	// Local is the node's transform relative to its parent.
	Local Transform

	// Geometry is the node's triangle geometry, or nil when the node
	// carries no mesh.
	Geometry *Geometry

	// Buffers are the GPU buffer handles for Geometry, or nil when the
	// node has no mesh or the model was loaded without a renderer.
	Buffers MeshBuffers
}
