package engine

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/halversen/vrmview/engine/profiler"
	"github.com/halversen/vrmview/engine/scene"
	"github.com/halversen/vrmview/engine/window"
)

// engine implements the Engine interface.
// The frame loop runs single-threaded on the window's message loop: GLFW
// event polling, scene updates, and GPU submission all happen on the same
// OS thread, which wgpu surface presentation requires.
type engine struct {
	running  bool
	quitOnce sync.Once

	window window.Window

	profiler         *profiler.Profiler
	profilingEnabled bool

	scenes map[int]scene.Scene

	frameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame  time.Time
}

// Engine is the main entry point for the viewer.
// It owns the window message loop and drives the per-frame scene updates
// and draw submission.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the frame loop (default); with a VSync present mode
	// the display refresh paces frames regardless.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetFrameLimit(fps float64)

	// AddScene registers a scene at the given z-index key.
	// Scenes are rendered in ascending key order during the frame loop.
	//
	// Parameters:
	//   - key: the z-index determining render order (lower renders first)
	//   - s: the Scene to register
	AddScene(key int, s scene.Scene)

	// RemoveScene removes the scene at the given z-index key.
	//
	// Parameters:
	//   - key: the z-index of the scene to remove
	RemoveScene(key int)

	// Scene retrieves the scene registered at the given z-index key.
	// Returns nil if no scene exists at that key.
	//
	// Parameters:
	//   - key: the z-index of the scene to retrieve
	//
	// Returns:
	//   - scene.Scene: the scene at the key, or nil if not found
	Scene(key int) scene.Scene

	// Scenes returns a copy of all registered scenes keyed by z-index.
	//
	// Returns:
	//   - map[int]scene.Scene: a copy of the scenes map
	Scenes() map[int]scene.Scene

	// Run starts the main frame loop (blocks until the window closes).
	Run()

	// Quit closes the window and stops the frame loop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// When a window is supplied, its resize events are wired to every scene's
// renderer and camera.
//
// Parameters:
//   - options: functional options for engine configuration (window, scenes, profiling)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		scenes:           make(map[int]scene.Scene),
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if width == 0 || height == 0 {
				return // minimized; the surface cannot be configured to zero extent
			}
			for _, s := range e.scenes {
				if r := s.Renderer(); r != nil {
					r.Resize(width, height)
				}
				if c := s.Camera(); c != nil {
					c.SetAspect(float32(width) / float32(height))
				}
			}
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.running = true
	e.lastFrame = time.Now()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
}

// Quit closes the window, which ends the message loop in Run.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.running = false
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				log.Printf("engine: window close failed: %v", err)
			}
		}
	})
}

// frame executes one iteration of the frame loop: advance scene time,
// then submit the frame through the first active scene's renderer.
// A panic during GPU work is recovered and turned into a clean shutdown
// instead of taking down the process.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("frame loop recovered from panic: %v", r)
			e.Quit()
		}
	}()

	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	keys := make([]int, 0, len(e.scenes))
	for k := range e.scenes {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	var activeScenes []scene.Scene
	for _, k := range keys {
		if s := e.scenes[k]; s.Active() {
			activeScenes = append(activeScenes, s)
		}
	}

	for _, s := range activeScenes {
		s.Advance(dt)
	}

	if len(activeScenes) > 0 {
		// The engine owns the frame lifecycle: BeginFrame once, draw each
		// scene, EndFrame + Present once. Scenes sharing the renderer are
		// encoded into a single render pass in ascending z-index order.
		frameRenderer := activeScenes[0].Renderer()
		if frameRenderer != nil {
			if err := frameRenderer.BeginFrame(); err == nil {
				for _, s := range activeScenes {
					_ = s.DrawCalls()
				}
				frameRenderer.EndFrame()
				frameRenderer.Present()
			} else {
				log.Printf("engine: begin frame failed: %v", err)
			}
		}
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	if e.frameLimit > 0 {
		if remaining := e.frameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the frame loop.
func (e *engine) SetFrameLimit(fps float64) {
	if fps <= 0 {
		e.frameLimit = 0
		return
	}
	e.frameLimit = time.Second / time.Duration(fps)
}

func (e *engine) AddScene(key int, s scene.Scene) {
	e.scenes[key] = s
}

func (e *engine) RemoveScene(key int) {
	delete(e.scenes, key)
}

func (e *engine) Scene(key int) scene.Scene {
	return e.scenes[key]
}

func (e *engine) Scenes() map[int]scene.Scene {
	cp := make(map[int]scene.Scene, len(e.scenes))
	for k, v := range e.scenes {
		cp[k] = v
	}
	return cp
}
