package scene

import (
	"github.com/Carmen-Shannon/oxy-tails/engine/camera"
	"github.com/Carmen-Shannon/oxy-tails/engine/light"
	"github.com/Carmen-Shannon/oxy-tails/engine/model"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// LitPipelineKey draws triangle meshes with the full lighting model.
	LitPipelineKey = "scene_lit"
	// ShadowPipelineKey renders shadow casters into the directional shadow map.
	ShadowPipelineKey = "scene_shadow"
	// LinePipelineKey draws vertex coloured line helpers.
	LinePipelineKey = "scene_line"
)

// bind group indices shared by the lit, shadow and line shaders
const (
	groupCamera    = 0
	groupInstances = 1
	groupMaterial  = 2
	groupLights    = 3
	groupShadow    = 4

	shadowGroupUniform   = 0
	shadowGroupInstances = 1
)

// material bind group bindings
const (
	bindingMaterialParams = 0
	bindingEnvTexture     = 1
	bindingEnvSampler     = 2
)

// shadow bind group bindings in the lit pass
const (
	bindingShadowData    = 0
	bindingShadowMap     = 1
	bindingShadowSampler = 2
)

var (
	cameraUniformSize = uint64((&camera.GPUCameraUniform{}).Size())
	instanceSize      = uint64((&model.GPUInstanceData{}).Size())
	materialSize      = uint64((&material.GPUMaterialParams{}).Size())
	lightBufferSize   = uint64((&light.GPULightHeader{}).Size() + light.MaxGPULights*(&light.GPULight{}).Size())
	shadowDataSize    = uint64((&light.GPUShadowData{}).Size())
	shadowUniformSize = uint64((&light.GPUShadowUniform{}).Size())
)

func newLitPipeline() pipeline.Pipeline {
	vs := shader.NewShader("lit_vs", shader.ShaderTypeVertex, shader.LitShaderSource,
		shader.WithBindGroup(groupCamera, shader.UniformEntry(0, cameraUniformSize)),
		shader.WithBindGroup(groupInstances, shader.ReadOnlyStorageEntry(0, instanceSize)),
		shader.WithVertexLayouts(shader.Float32x3Layout(2)),
	)
	fs := shader.NewShader("lit_fs", shader.ShaderTypeFragment, shader.LitShaderSource,
		shader.WithBindGroup(groupCamera, shader.UniformEntry(0, cameraUniformSize)),
		shader.WithBindGroup(groupMaterial,
			shader.UniformEntry(bindingMaterialParams, materialSize),
			shader.TextureEntry(bindingEnvTexture, wgpu.TextureSampleTypeFloat),
			shader.SamplerEntry(bindingEnvSampler, wgpu.SamplerBindingTypeFiltering),
		),
		shader.WithBindGroup(groupLights, shader.UniformEntry(0, lightBufferSize)),
		shader.WithBindGroup(groupShadow,
			shader.UniformEntry(bindingShadowData, shadowDataSize),
			shader.TextureEntry(bindingShadowMap, wgpu.TextureSampleTypeDepth),
			shader.SamplerEntry(bindingShadowSampler, wgpu.SamplerBindingTypeComparison),
		),
	)
	return pipeline.NewPipeline(LitPipelineKey, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithCullMode(wgpu.CullModeBack),
	)
}

func newShadowPipeline() pipeline.Pipeline {
	vs := shader.NewShader("shadow_vs", shader.ShaderTypeVertex, shader.ShadowShaderSource,
		shader.WithBindGroup(shadowGroupUniform, shader.UniformEntry(0, shadowUniformSize)),
		shader.WithBindGroup(shadowGroupInstances, shader.ReadOnlyStorageEntry(0, instanceSize)),
		shader.WithVertexLayouts(shader.Float32x3Layout(2)),
	)
	return pipeline.NewPipeline(ShadowPipelineKey, pipeline.PipelineTypeShadow,
		pipeline.WithVertexShader(vs),
		pipeline.WithDepthBias(2, 1.5),
		pipeline.WithCullMode(wgpu.CullModeFront),
	)
}

func newLinePipeline() pipeline.Pipeline {
	vs := shader.NewShader("line_vs", shader.ShaderTypeVertex, shader.LineShaderSource,
		shader.WithBindGroup(groupCamera, shader.UniformEntry(0, cameraUniformSize)),
		shader.WithVertexLayouts(shader.Float32x3Layout(2)),
	)
	fs := shader.NewShader("line_fs", shader.ShaderTypeFragment, shader.LineShaderSource,
		shader.WithBindGroup(groupCamera, shader.UniformEntry(0, cameraUniformSize)),
	)
	return pipeline.NewPipeline(LinePipelineKey, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
	)
}
