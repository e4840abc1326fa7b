package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halversen/vrmview/engine/camera"
	"github.com/halversen/vrmview/engine/model"
	"github.com/halversen/vrmview/engine/renderer"
)

type fakeBuffers struct {
	indexCount int
}

func (f *fakeBuffers) IndexCount() int { return f.indexCount }
func (f *fakeBuffers) Release()        {}

type recordedDraw struct {
	buffers model.MeshBuffers
	mvp     [16]float32
	color   [4]float32
}

// fakeRenderer records DrawMesh calls and can fail a specific call.
type fakeRenderer struct {
	draws    []recordedDraw
	failCall int // 1-based call number to fail, 0 for never
	err      error
}

var _ renderer.Renderer = &fakeRenderer{}

func (f *fakeRenderer) Resize(width, height int) {}

func (f *fakeRenderer) InitMeshBuffers(positions, normals []float32, indices []uint32) (model.MeshBuffers, error) {
	return &fakeBuffers{indexCount: len(indices)}, nil
}

func (f *fakeRenderer) BeginFrame() error { return nil }

func (f *fakeRenderer) DrawMesh(buffers model.MeshBuffers, mvp [16]float32, color [4]float32) error {
	f.draws = append(f.draws, recordedDraw{buffers: buffers, mvp: mvp, color: color})
	if f.failCall == len(f.draws) {
		return f.err
	}
	return nil
}

func (f *fakeRenderer) EndFrame() {}

func (f *fakeRenderer) Present() {}

func (f *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}

func testModel(t *testing.T, buffers ...model.MeshBuffers) model.Model {
	t.Helper()
	nodes := make([]model.Node, len(buffers))
	for i, b := range buffers {
		nodes[i] = model.Node{
			Index:       i,
			ParentIndex: model.RootIndex,
			Local:       model.IdentityTransform(),
			Buffers:     b,
		}
	}
	m, err := model.NewModel(model.WithName("test"), model.WithNodes(nodes))
	require.NoError(t, err)
	return m
}

func TestDrawCallsSkipsNodesWithoutBuffers(t *testing.T) {
	r := &fakeRenderer{}
	m := testModel(t, &fakeBuffers{indexCount: 3}, nil, &fakeBuffers{indexCount: 6})

	s := NewScene("test", camera.NewCamera(), r, WithModel(m))
	require.NoError(t, s.DrawCalls())

	assert.Len(t, r.draws, 2)
}

func TestDrawCallsWithoutModelDrawsNothing(t *testing.T) {
	r := &fakeRenderer{}
	s := NewScene("test", camera.NewCamera(), r)

	assert.NoError(t, s.DrawCalls())
	assert.Empty(t, r.draws)
}

func TestDrawCallsContinuesPastFailedDraw(t *testing.T) {
	drawErr := errors.New("device lost")
	r := &fakeRenderer{failCall: 1, err: drawErr}
	m := testModel(t, &fakeBuffers{indexCount: 3}, &fakeBuffers{indexCount: 3})

	s := NewScene("test", camera.NewCamera(), r, WithModel(m))
	err := s.DrawCalls()

	assert.ErrorIs(t, err, drawErr)
	assert.Len(t, r.draws, 2, "remaining nodes should still be drawn")
}

func TestAdvanceAccumulatesElapsedTime(t *testing.T) {
	s := NewScene("test", camera.NewCamera(), &fakeRenderer{})

	s.Advance(0.5)
	s.Advance(0.25)

	assert.InDelta(t, 0.75, s.Elapsed(), 1e-6)
}

func TestAdvanceChangesDrawTransform(t *testing.T) {
	r := &fakeRenderer{}
	m := testModel(t, &fakeBuffers{indexCount: 3})

	s := NewScene("test", camera.NewCamera(), r, WithModel(m))
	require.NoError(t, s.DrawCalls())

	s.Advance(1.5)
	require.NoError(t, s.DrawCalls())

	require.Len(t, r.draws, 2)
	assert.NotEqual(t, r.draws[0].mvp, r.draws[1].mvp, "spin should change the draw transform")
}

func TestDrawCallsUsesConfiguredMeshColor(t *testing.T) {
	r := &fakeRenderer{}
	m := testModel(t, &fakeBuffers{indexCount: 3})
	color := [4]float32{1, 0, 0, 1}

	s := NewScene("test", camera.NewCamera(), r, WithModel(m), WithMeshColor(color))
	require.NoError(t, s.DrawCalls())

	require.Len(t, r.draws, 1)
	assert.Equal(t, color, r.draws[0].color)
}

func TestSceneActiveFlag(t *testing.T) {
	s := NewScene("test", camera.NewCamera(), &fakeRenderer{})
	assert.False(t, s.Active())

	s.SetActive(true)
	assert.True(t, s.Active())

	active := NewScene("test", camera.NewCamera(), &fakeRenderer{}, WithActive(true))
	assert.True(t, active.Active())
}

func TestNewSceneRequiresCameraAndRenderer(t *testing.T) {
	assert.Panics(t, func() { NewScene("test", nil, &fakeRenderer{}) })
	assert.Panics(t, func() { NewScene("test", camera.NewCamera(), nil) })
}
