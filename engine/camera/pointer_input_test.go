package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-tails/common"
)

// recordingController captures the pointer-driven calls and leaves the rest unimplemented.
type recordingController struct {
	CameraController
	panEnabled bool
	rotations  [][2]float32
	panRight   []float32
	panUp      []float32
	zooms      []float32
}

func (r *recordingController) RotateByPixels(dx, dy float32) {
	r.rotations = append(r.rotations, [2]float32{dx, dy})
}

func (r *recordingController) PanRight(d float32) { r.panRight = append(r.panRight, d) }
func (r *recordingController) PanUp(d float32)    { r.panUp = append(r.panUp, d) }
func (r *recordingController) PanEnabled() bool   { return r.panEnabled }
func (r *recordingController) Zoom(d float32)     { r.zooms = append(r.zooms, d) }

func TestPointerInputOrbitsOnLeftDrag(t *testing.T) {
	rc := &recordingController{}
	p := NewPointerInput(rc)

	p.MouseMove(5, 5)
	if len(rc.rotations) != 0 {
		t.Fatalf("rotations before press: got %d, want 0", len(rc.rotations))
	}

	p.MouseButton(common.MouseButtonLeft, true, 10, 20)
	p.MouseMove(13, 18)
	p.MouseButton(common.MouseButtonLeft, false, 13, 18)
	p.MouseMove(50, 50)

	if len(rc.rotations) != 1 {
		t.Fatalf("rotations: got %d, want 1", len(rc.rotations))
	}
	if rc.rotations[0] != [2]float32{3, -2} {
		t.Errorf("rotation delta: got %v, want [3 -2]", rc.rotations[0])
	}
}

func TestPointerInputPanRequiresEnabled(t *testing.T) {
	tests := []struct {
		name       string
		panEnabled bool
		wantPans   int
	}{
		{"disabled", false, 0},
		{"enabled", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := &recordingController{panEnabled: tt.panEnabled}
			p := NewPointerInput(rc)
			p.MouseButton(common.MouseButtonRight, true, 0, 0)
			p.MouseMove(4, 2)

			if len(rc.panRight) != tt.wantPans || len(rc.panUp) != tt.wantPans {
				t.Fatalf("pans: got (%d, %d), want %d", len(rc.panRight), len(rc.panUp), tt.wantPans)
			}
			if tt.wantPans > 0 && (rc.panRight[0] != -4 || rc.panUp[0] != 2) {
				t.Errorf("pan deltas: got (%g, %g), want (-4, 2)", rc.panRight[0], rc.panUp[0])
			}
			if len(rc.rotations) != 0 {
				t.Errorf("rotations during right drag: got %d, want 0", len(rc.rotations))
			}
		})
	}
}

func TestPointerInputScrollZooms(t *testing.T) {
	rc := &recordingController{}
	p := NewPointerInput(rc)
	p.Scroll(1.5)
	p.MouseButton(common.MouseButtonMiddle, true, 0, 0)
	p.MouseMove(10, 10)

	if len(rc.zooms) != 1 || rc.zooms[0] != 1.5 {
		t.Errorf("zooms: got %v, want [1.5]", rc.zooms)
	}
	if len(rc.rotations) != 0 {
		t.Errorf("rotations after middle press: got %d, want 0", len(rc.rotations))
	}
}
