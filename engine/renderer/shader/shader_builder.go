package shader

import "github.com/cogentcore/webgpu/wgpu"

// ShaderBuilderOption is a functional option used to configure a Shader during construction.
type ShaderBuilderOption func(*shader)

// WithEntryPoint overrides the entry point name. Vertex shaders default to
// "vs_main" and fragment shaders to "fs_main".
//
// Parameters:
//   - name: the entry point function name
//
// Returns:
//   - ShaderBuilderOption: a function that sets the entry point
func WithEntryPoint(name string) ShaderBuilderOption {
	return func(s *shader) {
		s.entryPoint = name
	}
}

// WithBindGroup declares the layout of one bind group the shader reads. Entry
// visibility is filled in from the shader stage.
//
// Parameters:
//   - group: the @group index
//   - entries: the layout entries, one per @binding
//
// Returns:
//   - ShaderBuilderOption: a function that declares the bind group layout
func WithBindGroup(group int, entries ...wgpu.BindGroupLayoutEntry) ShaderBuilderOption {
	return func(s *shader) {
		s.bindGroupLayoutDescriptors[group] = wgpu.BindGroupLayoutDescriptor{
			Entries: append([]wgpu.BindGroupLayoutEntry(nil), entries...),
		}
	}
}

// WithVertexLayouts declares the vertex buffer layouts, one per vertex buffer slot.
//
// Parameters:
//   - layouts: the layouts in slot order
//
// Returns:
//   - ShaderBuilderOption: a function that declares the vertex layouts
func WithVertexLayouts(layouts ...wgpu.VertexBufferLayout) ShaderBuilderOption {
	return func(s *shader) {
		s.vertexLayouts = layouts
	}
}

// UniformEntry builds a uniform buffer layout entry.
//
// Parameters:
//   - binding: the @binding index
//   - minSize: the minimum binding size in bytes
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func UniformEntry(binding uint32, minSize uint64) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding: binding,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeUniform,
			MinBindingSize: minSize,
		},
	}
}

// ReadOnlyStorageEntry builds a read-only storage buffer layout entry.
//
// Parameters:
//   - binding: the @binding index
//   - minSize: the minimum binding size in bytes
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func ReadOnlyStorageEntry(binding uint32, minSize uint64) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding: binding,
		Buffer: wgpu.BufferBindingLayout{
			Type:           wgpu.BufferBindingTypeReadOnlyStorage,
			MinBindingSize: minSize,
		},
	}
}

// TextureEntry builds a 2D texture layout entry.
//
// Parameters:
//   - binding: the @binding index
//   - sampleType: wgpu.TextureSampleTypeFloat for colour, wgpu.TextureSampleTypeDepth for depth
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func TextureEntry(binding uint32, sampleType wgpu.TextureSampleType) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding: binding,
		Texture: wgpu.TextureBindingLayout{
			SampleType:    sampleType,
			ViewDimension: wgpu.TextureViewDimension2D,
		},
	}
}

// SamplerEntry builds a sampler layout entry.
//
// Parameters:
//   - binding: the @binding index
//   - samplerType: wgpu.SamplerBindingTypeFiltering or wgpu.SamplerBindingTypeComparison
//
// Returns:
//   - wgpu.BindGroupLayoutEntry: the layout entry
func SamplerEntry(binding uint32, samplerType wgpu.SamplerBindingType) wgpu.BindGroupLayoutEntry {
	return wgpu.BindGroupLayoutEntry{
		Binding: binding,
		Sampler: wgpu.SamplerBindingLayout{
			Type: samplerType,
		},
	}
}

// Float32x3Layout builds a vertex buffer layout of tightly packed vec3<f32>
// attributes at consecutive shader locations starting at 0.
//
// Parameters:
//   - attributes: the number of vec3<f32> attributes per vertex
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-vertex layout
func Float32x3Layout(attributes int) wgpu.VertexBufferLayout {
	attrs := make([]wgpu.VertexAttribute, attributes)
	for i := range attrs {
		attrs[i] = wgpu.VertexAttribute{
			Format:         wgpu.VertexFormatFloat32x3,
			Offset:         uint64(i * 12),
			ShaderLocation: uint32(i),
		}
	}
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(attributes * 12),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}
}
