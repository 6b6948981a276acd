package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-tails/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestParseMSAA(t *testing.T) {
	tests := []struct {
		samples int
		want    MSAASampleCount
	}{
		{1, MSAAOff},
		{4, MSAA4x},
		{8, MSAA8x},
		{16, MSAA16x},
		{0, MSAA4x},
		{3, MSAA4x},
	}
	for _, tt := range tests {
		if got := ParseMSAA(tt.samples); got != tt.want {
			t.Errorf("ParseMSAA(%d): got %v, want %v", tt.samples, got, tt.want)
		}
	}
}

func TestPickSurfaceFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []wgpu.TextureFormat
		want    wgpu.TextureFormat
	}{
		{"prefers srgb", []wgpu.TextureFormat{wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb}, wgpu.TextureFormatRGBA8UnormSrgb},
		{"falls back to first", []wgpu.TextureFormat{wgpu.TextureFormatRGBA16Float, wgpu.TextureFormatBGRA8Unorm}, wgpu.TextureFormatRGBA16Float},
		{"empty", nil, wgpu.TextureFormatBGRA8UnormSrgb},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickSurfaceFormat(tt.formats); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "camera", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
		1: {Label: "instances", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageVertex},
		}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "camera_fs", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 2, Visibility: wgpu.ShaderStageFragment},
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
		2: {Label: "material", Entries: []wgpu.BindGroupLayoutEntry{
			{Binding: 0, Visibility: wgpu.ShaderStageFragment},
		}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 3 {
		t.Fatalf("group count: got %d, want 3", len(merged))
	}

	cam := merged[0]
	if cam.Label != "camera" {
		t.Errorf("group 0 label: got %q, want %q", cam.Label, "camera")
	}
	if len(cam.Entries) != 2 {
		t.Fatalf("group 0 entries: got %d, want 2", len(cam.Entries))
	}
	if cam.Entries[0].Binding != 0 || cam.Entries[1].Binding != 2 {
		t.Errorf("group 0 bindings: got [%d %d], want [0 2]", cam.Entries[0].Binding, cam.Entries[1].Binding)
	}
	if want := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment; cam.Entries[0].Visibility != want {
		t.Errorf("binding 0 visibility: got %v, want %v", cam.Entries[0].Visibility, want)
	}
	if merged[1].Entries[0].Visibility != wgpu.ShaderStageVertex {
		t.Errorf("vertex-only group visibility: got %v, want vertex", merged[1].Entries[0].Visibility)
	}
	if merged[2].Label != "material" {
		t.Errorf("fragment-only group label: got %q, want %q", merged[2].Label, "material")
	}
}

func TestPipelineGroupLayout(t *testing.T) {
	const src = "@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }\n" +
		"@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }\n"
	vs := shader.NewShader("vs", shader.ShaderTypeVertex, src,
		shader.WithBindGroup(0, shader.UniformEntry(0, 80)),
	)
	fs := shader.NewShader("fs", shader.ShaderTypeFragment, src,
		shader.WithBindGroup(0, shader.UniformEntry(0, 80)),
		shader.WithBindGroup(3, shader.UniformEntry(0, 400)),
	)
	p := pipeline.NewPipeline("test", pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)

	desc, err := pipelineGroupLayout(p, 0)
	if err != nil {
		t.Fatalf("group 0: unexpected error: %v", err)
	}
	if want := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment; desc.Entries[0].Visibility != want {
		t.Errorf("group 0 visibility: got %v, want %v", desc.Entries[0].Visibility, want)
	}

	desc, err = pipelineGroupLayout(p, 3)
	if err != nil {
		t.Fatalf("group 3: unexpected error: %v", err)
	}
	if desc.Entries[0].Visibility != wgpu.ShaderStageFragment {
		t.Errorf("group 3 visibility: got %v, want fragment", desc.Entries[0].Visibility)
	}

	if _, err := pipelineGroupLayout(p, 1); err == nil {
		t.Error("group 1: got nil error, want missing group error")
	}
}
