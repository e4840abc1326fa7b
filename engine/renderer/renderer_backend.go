package renderer

// RendererBackendType selects which GPU implementation backs the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU is the WebGPU backend, the only one the viewer ships.
	// The enum exists so a second backend can slot in behind the same
	// Renderer front without touching callers.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how finished frames reach the display surface.
type PresentMode int

const (
	// PresentModeVSync holds each frame for the next vertical blank. The
	// display refresh paces the frame loop and tearing cannot occur; this
	// is what the viewer runs with by default.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents as soon as a frame is submitted. The
	// spin animation advances by wall-clock time either way, so this only
	// trades tearing for latency.
	PresentModeUncapped
)

// MSAASampleCount is the multisample count for the viewer's single flat
// pipeline. The color and depth attachments are created with this count
// and the pipeline is compiled against it, so it is fixed at construction.
type MSAASampleCount uint32

const (
	// MSAAOff renders directly into the swapchain texture (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x renders into a 4-sample texture resolved to the swapchain
	// each frame. Every WebGPU adapter supports it; this is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x is an 8-sample count. Whether the adapter accepts it is only
	// known at texture creation; unsupported counts fail surface setup.
	MSAA8x MSAASampleCount = 8

	// MSAA16x is a 16-sample count, with the same adapter caveat as MSAA8x.
	MSAA16x MSAASampleCount = 16
)

// RendererBackend is what the Renderer front delegates to. It currently
// embeds the WebGPU backend interface directly; a future backend would be
// added as another embedded interface selected by RendererBackendType.
type RendererBackend interface {
	wgpuRendererBackend
}
