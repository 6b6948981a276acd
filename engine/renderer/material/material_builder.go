package material

import (
	"github.com/Carmen-Shannon/oxy-tails/common"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithColor is an option builder that sets the linear RGB albedo of the material.
//
// Parameters:
//   - color: the albedo in linear RGB
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option to a material
func WithColor(color [3]float32) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithMetalness is an option builder that sets the metalness factor of the material.
// The value is clamped to [0, 1].
//
// Parameters:
//   - metalness: the metalness factor (0.0 = dielectric, 1.0 = metal)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metalness option to a material
func WithMetalness(metalness float32) MaterialBuilderOption {
	return func(m *material) {
		m.metalness = clamp01(metalness)
	}
}

// WithRoughness is an option builder that sets the roughness factor of the material.
// The value is clamped to [0, 1].
//
// Parameters:
//   - roughness: the roughness factor (0.0 = smooth, 1.0 = rough)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option to a material
func WithRoughness(roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = clamp01(roughness)
	}
}

// WithEnvMap is an option builder that sets the equirectangular environment image
// reflected by the material and its intensity.
//
// Parameters:
//   - env: the env map pixels, or nil for none
//   - intensity: the scale applied to the environment sample
//
// Returns:
//   - MaterialBuilderOption: a function that applies the env map option to a material
func WithEnvMap(env *common.TextureStagingData, intensity float32) MaterialBuilderOption {
	return func(m *material) {
		m.envMap = env
		m.envIntensity = intensity
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key for the material.
//
// Parameters:
//   - key: the pipeline key to associate with the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}

func clamp01(v float32) float32 {
	return max(0, min(1, v))
}
