package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/halversen/vrmview/engine/camera"
	"github.com/halversen/vrmview/engine/model"
	"github.com/halversen/vrmview/engine/renderer"
	"github.com/halversen/vrmview/engine/scene"
	"github.com/halversen/vrmview/engine/window"
)

// fakeWindow drives the update callback a fixed number of times instead of
// running a real message loop.
type fakeWindow struct {
	width, height int
	frames        int

	onUpdate func()
	onResize func(width, height int)

	closed bool
}

var _ window.Window = &fakeWindow{}

func (f *fakeWindow) SetUpdateCallback(callback func())          { f.onUpdate = callback }
func (f *fakeWindow) SetResizeCallback(callback func(w, h int))  { f.onResize = callback }
func (f *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }
func (f *fakeWindow) IsRunning() bool                            { return !f.closed }
func (f *fakeWindow) Close() error                               { f.closed = true; return nil }
func (f *fakeWindow) Width() int                                 { return f.width }
func (f *fakeWindow) Height() int                                { return f.height }

func (f *fakeWindow) ProcessMessages() {
	for i := 0; i < f.frames && !f.closed; i++ {
		if f.onUpdate != nil {
			f.onUpdate()
		}
	}
}

// frameRecorder counts frame lifecycle calls.
type frameRecorder struct {
	begins, ends, presents, draws, resizes int
	beginErr                               error
}

var _ renderer.Renderer = &frameRecorder{}

func (f *frameRecorder) Resize(width, height int) { f.resizes++ }

func (f *frameRecorder) InitMeshBuffers(positions, normals []float32, indices []uint32) (model.MeshBuffers, error) {
	return nil, errors.New("not supported")
}

func (f *frameRecorder) BeginFrame() error {
	f.begins++
	return f.beginErr
}

func (f *frameRecorder) DrawMesh(buffers model.MeshBuffers, mvp [16]float32, color [4]float32) error {
	f.draws++
	return nil
}

func (f *frameRecorder) EndFrame() { f.ends++ }

func (f *frameRecorder) Present() { f.presents++ }

func (f *frameRecorder) SetPresentMode(mode renderer.PresentMode) {}

func TestRunDrivesFrameLifecyclePerLoopIteration(t *testing.T) {
	w := &fakeWindow{width: 640, height: 480, frames: 3}
	r := &frameRecorder{}
	s := scene.NewScene("main", camera.NewCamera(), r, scene.WithActive(true))

	e := NewEngine(WithWindow(w), WithScene(0, s))
	e.Run()

	assert.Equal(t, 3, r.begins)
	assert.Equal(t, 3, r.ends)
	assert.Equal(t, 3, r.presents)
}

func TestInactiveSceneIsNotRendered(t *testing.T) {
	w := &fakeWindow{width: 640, height: 480, frames: 2}
	r := &frameRecorder{}
	s := scene.NewScene("main", camera.NewCamera(), r) // inactive by default

	e := NewEngine(WithWindow(w), WithScene(0, s))
	e.Run()

	assert.Zero(t, r.begins)
	assert.Zero(t, r.presents)
}

func TestBeginFrameFailureSkipsEndAndPresent(t *testing.T) {
	w := &fakeWindow{width: 640, height: 480, frames: 2}
	r := &frameRecorder{beginErr: errors.New("surface lost")}
	s := scene.NewScene("main", camera.NewCamera(), r, scene.WithActive(true))

	e := NewEngine(WithWindow(w), WithScene(0, s))
	e.Run()

	assert.Equal(t, 2, r.begins)
	assert.Zero(t, r.ends)
	assert.Zero(t, r.presents)
}

func TestRunAdvancesSceneTime(t *testing.T) {
	w := &fakeWindow{width: 640, height: 480, frames: 5}
	s := scene.NewScene("main", camera.NewCamera(), &frameRecorder{}, scene.WithActive(true))

	e := NewEngine(WithWindow(w), WithScene(0, s))
	e.Run()

	assert.Greater(t, s.Elapsed(), float32(0))
}

func TestResizePropagatesToRendererAndCamera(t *testing.T) {
	w := &fakeWindow{width: 640, height: 480}
	r := &frameRecorder{}
	cam := camera.NewCamera(camera.WithAspect(1.0))
	s := scene.NewScene("main", cam, r, scene.WithActive(true))

	NewEngine(WithWindow(w), WithScene(0, s))
	require.NotNil(t, w.onResize)

	w.onResize(800, 400)
	assert.Equal(t, 1, r.resizes)
	assert.Equal(t, float32(2.0), cam.Aspect())

	// Zero-extent resizes (minimize) must not reconfigure the surface.
	w.onResize(0, 0)
	assert.Equal(t, 1, r.resizes)
}

func TestSceneRegistry(t *testing.T) {
	r := &frameRecorder{}
	s := scene.NewScene("main", camera.NewCamera(), r)

	e := NewEngine()
	e.AddScene(2, s)

	assert.Equal(t, s, e.Scene(2))
	assert.Nil(t, e.Scene(0))
	assert.Len(t, e.Scenes(), 1)

	e.RemoveScene(2)
	assert.Nil(t, e.Scene(2))
}

func TestQuitClosesWindow(t *testing.T) {
	w := &fakeWindow{width: 640, height: 480}
	e := NewEngine(WithWindow(w))

	e.Quit()
	e.Quit() // second call is a no-op

	assert.True(t, w.closed)
}
