package renderer

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// MSAASampleCount is the number of samples used for multisample anti-aliasing in the main pass.
// WebGPU guarantees 1 and 4; 8 and 16 depend on the adapter.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4x multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8x multisample anti-aliasing.
	MSAA8x MSAASampleCount = 8

	// MSAA16x enables 16x multisample anti-aliasing.
	MSAA16x MSAASampleCount = 16
)

// ParseMSAA converts a plain sample count into an MSAASampleCount, falling back to MSAA4x
// for values the GPU cannot use.
//
// Parameters:
//   - samples: the requested sample count
//
// Returns:
//   - MSAASampleCount: the matching sample count
func ParseMSAA(samples int) MSAASampleCount {
	switch samples {
	case 1:
		return MSAAOff
	case 8:
		return MSAA8x
	case 16:
		return MSAA16x
	default:
		return MSAA4x
	}
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
