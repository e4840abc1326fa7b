package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halversen/vrmview/common"
)

const epsilon = 1e-5

type fakeBuffers struct {
	indexCount   int
	releaseCount int
}

func (f *fakeBuffers) IndexCount() int {
	return f.indexCount
}

func (f *fakeBuffers) Release() {
	f.releaseCount++
}

func translated(x, y, z float32) Transform {
	t := IdentityTransform()
	t.Translation = [3]float32{x, y, z}
	return t
}

func assertMat4Equal(t *testing.T, expected, actual []float32) {
	t.Helper()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, expected[i], actual[i], epsilon, "element %d", i)
	}
}

func TestWorldTransformRootEqualsLocal(t *testing.T) {
	nodes := []Node{
		{Index: 0, ParentIndex: RootIndex, Local: translated(1, 2, 3)},
	}

	world, err := WorldTransform(nodes, 0)
	require.NoError(t, err)

	var local [16]float32
	tr := nodes[0].Local
	common.ComposeTRS(local[:], tr.Translation, tr.Rotation, tr.Scale)
	assertMat4Equal(t, local[:], world[:])
}

func TestWorldTransformChainComposesParentFirst(t *testing.T) {
	nodes := []Node{
		{Index: 0, ParentIndex: RootIndex, Local: translated(1, 0, 0)},
		{Index: 1, ParentIndex: 0, Local: translated(0, 2, 0)},
		{Index: 2, ParentIndex: 1, Local: translated(0, 0, 3)},
	}

	world, err := WorldTransform(nodes, 2)
	require.NoError(t, err)

	// world = local(root) * local(child) * local(grandchild)
	var expected, local [16]float32
	common.Identity(expected[:])
	for _, n := range nodes {
		common.ComposeTRS(local[:], n.Local.Translation, n.Local.Rotation, n.Local.Scale)
		common.Mul4(expected[:], expected[:], local[:])
	}
	assertMat4Equal(t, expected[:], world[:])

	// The origin of the grandchild lands at the accumulated translation.
	p := common.TransformPoint(world[:], [3]float32{0, 0, 0})
	assert.InDelta(t, 1.0, p[0], epsilon)
	assert.InDelta(t, 2.0, p[1], epsilon)
	assert.InDelta(t, 3.0, p[2], epsilon)
}

func TestWorldTransformCyclicChainFails(t *testing.T) {
	nodes := []Node{
		{Index: 0, ParentIndex: 1, Local: IdentityTransform()},
		{Index: 1, ParentIndex: 0, Local: IdentityTransform()},
	}

	_, err := WorldTransform(nodes, 0)
	assert.ErrorIs(t, err, ErrCyclicHierarchy)
}

func TestWorldTransformSelfParentFails(t *testing.T) {
	nodes := []Node{
		{Index: 0, ParentIndex: 0, Local: IdentityTransform()},
	}

	_, err := WorldTransform(nodes, 0)
	assert.ErrorIs(t, err, ErrCyclicHierarchy)
}

func TestWorldTransformParentOutOfRangeFails(t *testing.T) {
	nodes := []Node{
		{Index: 0, ParentIndex: 5, Local: IdentityTransform()},
	}

	_, err := WorldTransform(nodes, 0)
	assert.ErrorIs(t, err, ErrNodeOutOfRange)
}

func TestNewModelPrecomputesWorldTransforms(t *testing.T) {
	nodes := []Node{
		{Index: 0, ParentIndex: RootIndex, Local: translated(1, 0, 0)},
		{Index: 1, ParentIndex: 0, Local: translated(0, 2, 0)},
	}

	m, err := NewModel(WithName("avatar.vrm"), WithNodes(nodes))
	require.NoError(t, err)

	assert.Equal(t, "avatar.vrm", m.Name())
	assert.Len(t, m.Nodes(), 2)

	world := m.WorldTransform(1)
	p := common.TransformPoint(world[:], [3]float32{0, 0, 0})
	assert.InDelta(t, 1.0, p[0], epsilon)
	assert.InDelta(t, 2.0, p[1], epsilon)
}

func TestNewModelCyclicHierarchyFails(t *testing.T) {
	nodes := []Node{
		{Index: 0, ParentIndex: 1, Local: IdentityTransform()},
		{Index: 1, ParentIndex: 0, Local: IdentityTransform()},
	}

	m, err := NewModel(WithNodes(nodes))
	assert.ErrorIs(t, err, ErrCyclicHierarchy)
	assert.Nil(t, m)
}

func TestModelReleaseReleasesBuffersOnce(t *testing.T) {
	buf := &fakeBuffers{indexCount: 3}
	nodes := []Node{
		{Index: 0, ParentIndex: RootIndex, Local: IdentityTransform(), Buffers: buf},
		{Index: 1, ParentIndex: 0, Local: IdentityTransform()},
	}

	m, err := NewModel(WithNodes(nodes))
	require.NoError(t, err)

	m.Release()
	m.Release()
	assert.Equal(t, 1, buf.releaseCount)
}
