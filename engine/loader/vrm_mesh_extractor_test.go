package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// triangleDoc builds a document holding one mesh with a single triangle:
// positions accessor 0, normals accessor 1, indices accessor 2.
func triangleDoc(t *testing.T) (*vrmDocument, []byte) {
	t.Helper()

	positions := floatBytes(
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
	)
	normals := floatBytes(
		0, 0, 1,
		0, 0, 1,
		0, 0, 1,
	)
	indices := u16Bytes(0, 1, 2)

	bin := append(append(append([]byte{}, positions...), normals...), indices...)

	doc := &vrmDocument{
		Meshes: []vrmMesh{
			{
				Primitives: []vrmPrimitive{
					{
						Attributes: map[string]int{
							attributePosition: 0,
							attributeNormal:   1,
						},
						Indices: intPtr(2),
					},
				},
			},
		},
		Accessors: []vrmAccessor{
			{BufferView: intPtr(0), ComponentType: vrmComponentTypeFloat, Count: 3, Type: vrmAccessorTypeVec3},
			{BufferView: intPtr(1), ComponentType: vrmComponentTypeFloat, Count: 3, Type: vrmAccessorTypeVec3},
			{BufferView: intPtr(2), ComponentType: vrmComponentTypeUnsignedShort, Count: 3, Type: vrmAccessorTypeScalar},
		},
		BufferViews: []vrmBufferView{
			{Buffer: 0, ByteOffset: 0, ByteLength: len(positions)},
			{Buffer: 0, ByteOffset: len(positions), ByteLength: len(normals)},
			{Buffer: 0, ByteOffset: len(positions) + len(normals), ByteLength: len(indices)},
		},
	}

	return doc, bin
}

func TestExtractMeshGeometrySinglePrimitive(t *testing.T) {
	doc, bin := triangleDoc(t)
	p := parseContainer(t, doc, bin)

	geom, err := extractMeshGeometry(p, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, geom.VertexCount())
	assert.Len(t, geom.Positions, 9)
	assert.Len(t, geom.Normals, 9)
	assert.Equal(t, []uint32{0, 1, 2}, geom.Indices)
	assert.Equal(t, float32(1), geom.Positions[3])
	assert.Equal(t, float32(1), geom.Normals[2])
}

func TestExtractMeshGeometryMultiPrimitiveAppendsInOrder(t *testing.T) {
	doc, bin := triangleDoc(t)
	// Second primitive reuses the same accessors; streams append back to back.
	doc.Meshes[0].Primitives = append(doc.Meshes[0].Primitives, doc.Meshes[0].Primitives[0])
	p := parseContainer(t, doc, bin)

	geom, err := extractMeshGeometry(p, 0)
	require.NoError(t, err)

	assert.Equal(t, 6, geom.VertexCount())
	assert.Len(t, geom.Normals, 18)
	assert.Equal(t, []uint32{0, 1, 2, 0, 1, 2}, geom.Indices)
}

func TestExtractMeshGeometryMissingPositionFails(t *testing.T) {
	doc, bin := triangleDoc(t)
	delete(doc.Meshes[0].Primitives[0].Attributes, attributePosition)
	p := parseContainer(t, doc, bin)

	_, err := extractMeshGeometry(p, 0)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestExtractMeshGeometryMissingNormalFails(t *testing.T) {
	doc, bin := triangleDoc(t)
	delete(doc.Meshes[0].Primitives[0].Attributes, attributeNormal)
	p := parseContainer(t, doc, bin)

	_, err := extractMeshGeometry(p, 0)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestExtractMeshGeometryMissingIndicesFails(t *testing.T) {
	doc, bin := triangleDoc(t)
	doc.Meshes[0].Primitives[0].Indices = nil
	p := parseContainer(t, doc, bin)

	_, err := extractMeshGeometry(p, 0)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestExtractMeshGeometryMeshIndexOutOfRangeFails(t *testing.T) {
	doc, bin := triangleDoc(t)
	p := parseContainer(t, doc, bin)

	_, err := extractMeshGeometry(p, 5)
	assert.ErrorIs(t, err, ErrFormat)
}
