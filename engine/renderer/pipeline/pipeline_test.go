package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

const testSource = "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }\n"

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("lit", PipelineTypeRender)

	if p.PipelineKey() != "lit" {
		t.Errorf("PipelineKey: got %q, want %q", p.PipelineKey(), "lit")
	}
	if p.Type() != PipelineTypeRender {
		t.Errorf("Type: got %v, want PipelineTypeRender", p.Type())
	}
	if p.CullMode() != wgpu.CullModeNone {
		t.Errorf("CullMode: got %v, want none", p.CullMode())
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("Topology: got %v, want triangle list", p.Topology())
	}
	if p.DepthBias() != 0 || p.DepthBiasSlopeScale() != 0 {
		t.Errorf("depth bias: got %d/%v, want 0/0", p.DepthBias(), p.DepthBiasSlopeScale())
	}
	if p.Pipeline() != nil {
		t.Error("Pipeline: got non-nil before registration")
	}
}

func TestPipelineOptions(t *testing.T) {
	vs := shader.NewShader("shadow_vs", shader.ShaderTypeVertex, testSource)
	p := NewPipeline("shadow", PipelineTypeShadow,
		WithVertexShader(vs),
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithDepthBias(2, 1.5),
	)

	if p.CullMode() != wgpu.CullModeBack {
		t.Errorf("CullMode: got %v, want back", p.CullMode())
	}
	if p.Topology() != wgpu.PrimitiveTopologyLineList {
		t.Errorf("Topology: got %v, want line list", p.Topology())
	}
	if p.DepthBias() != 2 || p.DepthBiasSlopeScale() != 1.5 {
		t.Errorf("depth bias: got %d/%v, want 2/1.5", p.DepthBias(), p.DepthBiasSlopeScale())
	}
	if got := p.Shader(shader.ShaderTypeVertex); got != vs {
		t.Errorf("vertex shader: got %v, want %v", got, vs)
	}
	if got := p.Shader(shader.ShaderTypeFragment); got != nil {
		t.Errorf("fragment shader: got %v, want nil", got)
	}

	// releasing an unregistered pipeline is a no-op
	p.Release()
}
