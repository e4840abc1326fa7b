package scene

import (
	"errors"
	"log"
	"sync"

	"github.com/halversen/vrmview/common"
	"github.com/halversen/vrmview/engine/camera"
	"github.com/halversen/vrmview/engine/model"
	"github.com/halversen/vrmview/engine/renderer"
)

// Scene holds one displayed model together with a Camera and Renderer and
// drives the turntable animation: each frame the model spins about the
// world Y axis by an angle derived from the accumulated scene time.
// Scenes can be toggled via the Active flag to switch between views.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// SetRenderer replaces the scene's renderer.
	//
	// Parameters:
	//   - r: the new renderer
	SetRenderer(r renderer.Renderer)

	// Model returns the displayed model, or nil when none is set.
	Model() model.Model

	// SetModel replaces the displayed model. The previous model is not
	// released; the caller owns model lifetimes.
	//
	// Parameters:
	//   - m: the new model
	SetModel(m model.Model)

	// Elapsed returns the accumulated scene time in seconds.
	//
	// Returns:
	//   - float32: elapsed time in seconds
	Elapsed() float32

	// Advance accumulates scene time. Call once per frame before DrawCalls.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Advance(deltaTime float32)

	// DrawCalls issues one draw per mesh-bearing node of the model, with
	// the turntable rotation applied between each node's world transform
	// and the camera's view-projection. Nodes without GPU buffers are
	// skipped. A failed draw is logged and the remaining nodes are still
	// drawn; the joined failures are returned.
	// Must be called within a BeginFrame/EndFrame block on the renderer.
	//
	// Returns:
	//   - error: the joined draw failures, or nil if every draw succeeded
	DrawCalls() error
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam camera.Camera
	r   renderer.Renderer
	mdl model.Model

	elapsed  float32
	spinRate float32 // radians per second about the Y axis

	meshColor [4]float32
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera and renderer. Both
// are required and NewScene panics if either is nil. The model is
// usually supplied via WithModel or attached later with SetModel.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:        &sync.RWMutex{},
		name:      name,
		active:    false,
		cam:       cam,
		r:         r,
		spinRate:  1.0,
		meshColor: [4]float32{0.8, 0.8, 0.85, 1.0},
	}

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) SetRenderer(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r = r
}

func (s *scene) Model() model.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mdl
}

func (s *scene) SetModel(m model.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mdl = m
}

func (s *scene) Elapsed() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed
}

func (s *scene) Advance(deltaTime float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed += deltaTime
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.mdl == nil {
		return nil
	}

	viewProj := s.cam.ViewProjectionMatrix()

	var spin [16]float32
	common.RotationY(spin[:], s.elapsed*s.spinRate)

	// viewSpin = viewProj * spin, shared by every node this frame.
	var viewSpin [16]float32
	common.Mul4(viewSpin[:], viewProj[:], spin[:])

	var drawErrs []error
	for _, node := range s.mdl.Nodes() {
		if node.Buffers == nil {
			continue
		}

		world := s.mdl.WorldTransform(node.Index)

		var mvp [16]float32
		common.Mul4(mvp[:], viewSpin[:], world[:])

		if err := s.r.DrawMesh(node.Buffers, mvp, s.meshColor); err != nil {
			log.Printf("scene %q: draw failed for node %d: %v", s.name, node.Index, err)
			drawErrs = append(drawErrs, err)
		}
	}

	return errors.Join(drawErrs...)
}
