package scene

import (
	"github.com/halversen/vrmview/engine/model"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithModel sets the model displayed by the scene.
//
// Parameters:
//   - m: the model to display
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithModel(m model.Model) SceneBuilderOption {
	return func(s *scene) {
		s.mdl = m
	}
}

// WithSpinRate sets the turntable rotation speed in radians per second
// about the world Y axis. Defaults to 1.0.
//
// Parameters:
//   - radiansPerSecond: the rotation speed
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSpinRate(radiansPerSecond float32) SceneBuilderOption {
	return func(s *scene) {
		s.spinRate = radiansPerSecond
	}
}

// WithMeshColor sets the flat base color applied to every mesh.
//
// Parameters:
//   - color: the RGBA color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMeshColor(color [4]float32) SceneBuilderOption {
	return func(s *scene) {
		s.meshColor = color
	}
}
