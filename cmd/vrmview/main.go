package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/halversen/vrmview/engine"
	"github.com/halversen/vrmview/engine/camera"
	"github.com/halversen/vrmview/engine/loader"
	"github.com/halversen/vrmview/engine/renderer"
	"github.com/halversen/vrmview/engine/scene"
	"github.com/halversen/vrmview/engine/window"
)

func main() {
	// Optional .env file for local overrides; absence is not an error.
	_ = godotenv.Load()

	modelPath := flag.String("model", os.Getenv("VRMVIEW_MODEL"), "path to the .vrm model file (or set VRMVIEW_MODEL)")
	width := flag.Int("width", 1280, "initial window width in pixels")
	height := flag.Int("height", 720, "initial window height in pixels")
	title := flag.String("title", "vrmview", "window title")
	profile := flag.Bool("profile", false, "log frame rate and memory stats")
	software := flag.Bool("software", false, "force the software fallback GPU adapter")
	flag.Parse()

	if *modelPath == "" {
		log.Fatal("no model file given: pass -model or set VRMVIEW_MODEL")
	}

	win := window.NewWindow(
		window.WithTitle(*title),
		window.WithWidth(*width),
		window.WithHeight(*height),
	)

	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(renderer.PresentModeVSync),
		renderer.WithForceSoftwareRenderer(*software),
	)

	cam := camera.NewCamera(
		camera.WithAspect(float32(win.Width()) / float32(win.Height())),
	)

	ldr := loader.NewLoader(loader.BackendTypeVRM, loader.WithMeshAllocator(r))
	mdl, err := ldr.Load(*modelPath)
	if err != nil {
		log.Fatalf("failed to load model %s: %v", *modelPath, err)
	}
	defer mdl.Release()

	sc := scene.NewScene("viewer", cam, r,
		scene.WithActive(true),
		scene.WithModel(mdl),
	)

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithScene(0, sc),
		engine.WithProfiling(*profile),
	)

	eng.Run()
}
