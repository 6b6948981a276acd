package scene

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

// WithPrepWorkers sets the number of worker goroutines that marshal instance data during
// Prepare. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPrepWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.prepWorkers = max(n, 1)
	}
}

// WithShadowMapResolution sets the width and height in texels of the directional shadow map.
//
// Parameters:
//   - size: the shadow map resolution; values below 1 keep the default
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowMapResolution(size int) SceneBuilderOption {
	return func(s *scene) {
		if size > 0 {
			s.shadowMapResolution = size
		}
	}
}

// WithShadowNormalBiasScale sets the multiplier applied to the shadow texel size to get the
// normal offset used by shadow lookups.
//
// Parameters:
//   - scale: the normal bias multiplier
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithShadowNormalBiasScale(scale float32) SceneBuilderOption {
	return func(s *scene) {
		s.shadowNormalBiasScale = scale
	}
}
