package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-tails/common"
)

// PointerInput turns window pointer events into CameraController motion. A left drag orbits,
// a right drag pans when the controller allows it, and the scroll wheel zooms. It is safe to
// feed events from the window thread while the render goroutine updates the camera.
type PointerInput struct {
	mu   sync.Mutex
	ctrl CameraController

	orbiting, panning bool
	lastX, lastY      int32
}

// NewPointerInput creates a PointerInput driving ctrl.
//
// Parameters:
//   - ctrl: the controller to move
//
// Returns:
//   - *PointerInput: the input mapper
func NewPointerInput(ctrl CameraController) *PointerInput {
	return &PointerInput{ctrl: ctrl}
}

// MouseButton records a button press or release at (x, y).
//
// Parameters:
//   - button: common.MouseButtonLeft or common.MouseButtonRight; others are ignored
//   - pressed: true on press, false on release
//   - x, y: cursor position in pixels
func (p *PointerInput) MouseButton(button int, pressed bool, x, y int32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch button {
	case common.MouseButtonLeft:
		p.orbiting = pressed
	case common.MouseButtonRight:
		p.panning = pressed
	default:
		return
	}
	p.lastX, p.lastY = x, y
}

// MouseMove applies the drag since the previous event.
//
// Parameters:
//   - x, y: cursor position in pixels
func (p *PointerInput) MouseMove(x, y int32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	dx, dy := float32(x-p.lastX), float32(y-p.lastY)
	p.lastX, p.lastY = x, y
	if p.ctrl == nil {
		return
	}

	if p.orbiting {
		p.ctrl.RotateByPixels(dx, dy)
	}
	if p.panning && p.ctrl.PanEnabled() {
		p.ctrl.PanRight(-dx)
		p.ctrl.PanUp(dy)
	}
}

// Scroll zooms the controller.
//
// Parameters:
//   - delta: wheel delta, positive zooms in
func (p *PointerInput) Scroll(delta float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl != nil {
		p.ctrl.Zoom(delta)
	}
}
