package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-tails/common"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/bind_group_provider"
)

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name              string
	color             [3]float32
	metalness         float32
	roughness         float32
	envMap            *common.TextureStagingData
	envIntensity      float32
	pipelineKey       string
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a render material, encapsulating surface
// properties, an optional environment map, and GPU resource bindings needed for draw calls.
//
// Surface properties are fixed at construction. The env map may be dropped before
// upload (for example when it failed to load), after which the material renders
// flat shaded. GPU resource references are mutable so the scene can configure them
// when the material is first drawn.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Color retrieves the linear RGB albedo of the material.
	//
	// Returns:
	//   - [3]float32: the albedo
	Color() [3]float32

	// Metalness retrieves the metalness factor of the material.
	// A value of 0.0 represents a dielectric surface, 1.0 represents a fully metallic surface.
	//
	// Returns:
	//   - float32: the metalness factor
	Metalness() float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// EnvMap retrieves the equirectangular environment image, or nil if none is set.
	//
	// Returns:
	//   - *common.TextureStagingData: the env map pixels, or nil
	EnvMap() *common.TextureStagingData

	// EnvIntensity retrieves the scale applied to environment reflections.
	//
	// Returns:
	//   - float32: the env map intensity
	EnvIntensity() float32

	// SetEnvMap replaces the environment image. Pass nil to render without reflections.
	// Must be called before the material's GPU resources are created.
	//
	// Parameters:
	//   - env: the env map pixels, or nil
	SetEnvMap(env *common.TextureStagingData)

	// Uniform packs the surface properties for upload.
	//
	// Returns:
	//   - GPUMaterialParams: the packed uniform
	Uniform() GPUMaterialParams

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
// Defaults to a white, fully rough dielectric.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		mu:           &sync.Mutex{},
		color:        [3]float32{1, 1, 1},
		metalness:    0.0,
		roughness:    1.0,
		envIntensity: 1.0,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Color() [3]float32 {
	return m.color
}

func (m *material) Metalness() float32 {
	return m.metalness
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) EnvMap() *common.TextureStagingData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.envMap
}

func (m *material) EnvIntensity() float32 {
	return m.envIntensity
}

func (m *material) SetEnvMap(env *common.TextureStagingData) {
	m.mu.Lock()
	m.envMap = env
	m.mu.Unlock()
}

func (m *material) Uniform() GPUMaterialParams {
	u := GPUMaterialParams{
		Color:        m.color,
		Metalness:    m.metalness,
		Roughness:    m.roughness,
		EnvIntensity: m.envIntensity,
	}
	if m.EnvMap() != nil {
		u.HasEnvMap = 1
	}
	return u
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bindGroupProvider
}

func (m *material) SetPipelineKey(key string) {
	m.pipelineKey = key
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.mu.Lock()
	m.bindGroupProvider = provider
	m.mu.Unlock()
}
