package loader

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halversen/vrmview/engine/model"
)

type fakeMeshBuffers struct {
	indexCount   int
	releaseCount int
}

func (f *fakeMeshBuffers) IndexCount() int {
	return f.indexCount
}

func (f *fakeMeshBuffers) Release() {
	f.releaseCount++
}

type fakeAllocator struct {
	created []*fakeMeshBuffers
	failAt  int // fail on the nth call (1-based), 0 = never
	calls   int
}

func (f *fakeAllocator) InitMeshBuffers(positions, normals []float32, indices []uint32) (model.MeshBuffers, error) {
	f.calls++
	if f.failAt > 0 && f.calls >= f.failAt {
		return nil, errors.New("device lost")
	}
	buf := &fakeMeshBuffers{indexCount: len(indices)}
	f.created = append(f.created, buf)
	return buf, nil
}

// writeModelFile builds a container around triangleDoc with the given
// nodes and writes it to a temp file.
func writeModelFile(t *testing.T, nodes []vrmNode) string {
	t.Helper()

	doc, bin := triangleDoc(t)
	doc.Nodes = nodes

	path := filepath.Join(t.TempDir(), "avatar.vrm")
	require.NoError(t, os.WriteFile(path, buildContainer(t, doc, bin), 0o644))
	return path
}

func TestLoaderLoadAttachesBuffers(t *testing.T) {
	path := writeModelFile(t, []vrmNode{
		{Name: "body", Mesh: intPtr(0)},
		{Name: "empty", ParentIndex: intPtr(0)},
	})

	alloc := &fakeAllocator{}
	l := NewLoader(BackendTypeVRM, WithMeshAllocator(alloc))

	m, err := l.Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, m.Name())
	require.Len(t, m.Nodes(), 2)
	require.NotNil(t, m.Nodes()[0].Buffers)
	assert.Equal(t, 3, m.Nodes()[0].Buffers.IndexCount())
	assert.Nil(t, m.Nodes()[1].Buffers)
	assert.Equal(t, 1, alloc.calls)
}

func TestLoaderLoadWithoutAllocatorKeepsCPUGeometry(t *testing.T) {
	path := writeModelFile(t, []vrmNode{{Name: "body", Mesh: intPtr(0)}})

	l := NewLoader(BackendTypeVRM)
	m, err := l.Load(path)
	require.NoError(t, err)

	require.NotNil(t, m.Nodes()[0].Geometry)
	assert.Nil(t, m.Nodes()[0].Buffers)
}

func TestLoaderLoadCachesByPath(t *testing.T) {
	path := writeModelFile(t, []vrmNode{{Name: "body", Mesh: intPtr(0)}})

	alloc := &fakeAllocator{}
	l := NewLoader(BackendTypeVRM, WithMeshAllocator(alloc))

	first, err := l.Load(path)
	require.NoError(t, err)
	second, err := l.Load(path)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, alloc.calls)
	assert.Same(t, first, l.Get(path))
	assert.Len(t, l.Models(), 1)
}

func TestLoaderLoadMissingFileFails(t *testing.T) {
	l := NewLoader(BackendTypeVRM)
	m, err := l.Load(filepath.Join(t.TempDir(), "nope.vrm"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrFormat)
	assert.Nil(t, m)
}

func TestLoaderLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.vrm")
	data := buildContainer(t, &vrmDocument{}, nil)
	copy(data[0:4], "glTX")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	l := NewLoader(BackendTypeVRM)
	m, err := l.Load(path)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Nil(t, m)
	assert.Nil(t, l.Get(path))
}

func TestLoaderLoadWithoutNodesSectionFails(t *testing.T) {
	// A structurally valid container whose document is just "{}" must fail
	// the whole load instead of producing a zero-node model.
	data := buildContainer(t, &vrmDocument{}, nil)
	path := filepath.Join(t.TempDir(), "empty.vrm")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	l := NewLoader(BackendTypeVRM)

	m, err := l.Load(path)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Nil(t, m)
	assert.Nil(t, l.Get(path))

	m, err = l.LoadReader("empty", bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrFormat)
	assert.Nil(t, m)
}

func TestLoaderLoadReleasesBuffersOnAllocationFailure(t *testing.T) {
	path := writeModelFile(t, []vrmNode{
		{Name: "head", Mesh: intPtr(0)},
		{Name: "body", Mesh: intPtr(0)},
	})

	alloc := &fakeAllocator{failAt: 2}
	l := NewLoader(BackendTypeVRM, WithMeshAllocator(alloc))

	m, err := l.Load(path)
	assert.Error(t, err)
	assert.Nil(t, m)
	require.Len(t, alloc.created, 1)
	assert.Equal(t, 1, alloc.created[0].releaseCount)
}

func TestLoaderLoadReleasesBuffersOnMalformedHierarchy(t *testing.T) {
	// Two nodes parenting each other form a cycle; upload succeeds but
	// model construction must fail and release the buffers.
	path := writeModelFile(t, []vrmNode{
		{Name: "a", Mesh: intPtr(0), ParentIndex: intPtr(1)},
		{Name: "b", ParentIndex: intPtr(0)},
	})

	alloc := &fakeAllocator{}
	l := NewLoader(BackendTypeVRM, WithMeshAllocator(alloc))

	m, err := l.Load(path)
	assert.ErrorIs(t, err, model.ErrCyclicHierarchy)
	assert.ErrorIs(t, err, ErrFormat)
	assert.Nil(t, m)
	require.Len(t, alloc.created, 1)
	assert.Equal(t, 1, alloc.created[0].releaseCount)
}

func TestLoaderLoadReader(t *testing.T) {
	doc, bin := triangleDoc(t)
	doc.Nodes = []vrmNode{{Name: "body", Mesh: intPtr(0)}}
	data := buildContainer(t, doc, bin)

	l := NewLoader(BackendTypeVRM)
	m, err := l.LoadReader("embedded", bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, "embedded", m.Name())
	assert.Same(t, m, l.Get("embedded"))
}
