package renderer

import (
	"github.com/halversen/vrmview/engine/model"
	"github.com/halversen/vrmview/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer defines the interface for the rendering system.
//
// The Renderer owns the GPU context (instance, adapter, device, queue,
// surface) and a single flat shading pipeline. Geometry is uploaded once
// via InitMeshBuffers; each frame encodes one indexed draw per mesh
// between BeginFrame and EndFrame, then Present displays the result.
type Renderer interface {
	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// InitMeshBuffers creates GPU vertex, index, and uniform buffers for
	// one mesh and returns the handles used by DrawMesh.
	//
	// Parameters:
	//   - positions: tightly-packed vertex positions (3 floats per vertex)
	//   - normals: tightly-packed vertex normals (3 floats per vertex)
	//   - indices: triangle indices
	//
	// Returns:
	//   - model.MeshBuffers: the GPU buffer handles
	//   - error: an error if buffer creation fails
	InitMeshBuffers(positions, normals []float32, indices []uint32) (model.MeshBuffers, error)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame after all DrawMesh invocations within a single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawMesh encodes a single indexed draw command within the current render pass.
	// Multiple DrawMesh invocations can be made between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - buffers: the mesh's GPU buffer handles from InitMeshBuffers
	//   - mvp: the column-major model-view-projection matrix for this mesh
	//   - color: the flat base color (RGBA)
	//
	// Returns:
	//   - error: an error if no frame is active or the buffers are foreign
	DrawMesh(buffers model.MeshBuffers, mvp [16]float32, color [4]float32) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface — call Present() after EndFrame to display the frame.
	// Must be called after BeginFrame and all DrawMesh invocations within a single frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type.
// The surface is created from the window's platform-specific surface
// descriptor and configured to the window's current size.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) InitMeshBuffers(positions, normals []float32, indices []uint32) (model.MeshBuffers, error) {
	return r.backend.InitMeshBuffers(positions, normals, indices)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawMesh(buffers model.MeshBuffers, mvp [16]float32, color [4]float32) error {
	return r.backend.DrawMesh(buffers, mvp, color)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}
