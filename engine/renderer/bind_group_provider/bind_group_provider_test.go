package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewBindGroupProviderLabel(t *testing.T) {
	p := NewBindGroupProvider("camera_0")
	if p.Label() != "camera_0" {
		t.Errorf("Label(): got %q, want %q", p.Label(), "camera_0")
	}
	if p.BindGroup() != nil || p.VertexBuffer() != nil {
		t.Error("fresh provider holds GPU resources, want none")
	}
}

func TestReleaseWithoutGPUResources(t *testing.T) {
	p := NewBindGroupProvider("shadow",
		WithTextureView(1, nil),
		WithSampler(2, nil),
	)
	p.SetIndexCount(36)
	p.Borrow(3)
	p.Release()

	if p.TextureView(1) != nil || p.Sampler(2) != nil {
		t.Error("Release() left bindings in place")
	}
	if len(p.TextureViews()) != 0 || len(p.Samplers()) != 0 || len(p.Buffers()) != 0 {
		t.Errorf("Release(): got %d views %d samplers %d buffers, want none",
			len(p.TextureViews()), len(p.Samplers()), len(p.Buffers()))
	}
	if p.IndexCount() != 36 {
		t.Errorf("IndexCount(): got %d, want 36", p.IndexCount())
	}
}

func TestBufferWritePending(t *testing.T) {
	withBuffer := NewBindGroupProvider("lights")
	withBuffer.SetBuffer(0, &wgpu.Buffer{})
	empty := NewBindGroupProvider("camera")

	tests := []struct {
		name string
		w    BufferWrite
		want bool
	}{
		{"buffer and data", Write(withBuffer, 0, []byte{1, 2, 3, 4}), true},
		{"no data", Write(withBuffer, 0, nil), false},
		{"unknown binding", Write(withBuffer, 1, []byte{1}), false},
		{"provider without buffers", Write(empty, 0, []byte{1}), false},
		{"nil provider", Write(nil, 0, []byte{1}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.Pending(); got != tt.want {
				t.Errorf("Pending(): got %v, want %v", got, tt.want)
			}
		})
	}

	if w := Write(withBuffer, 2, []byte{9}); w.Offset != 0 || w.Binding != 2 || w.Provider != withBuffer {
		t.Errorf("Write: got %+v, want binding 2 at offset 0", w)
	}
}
