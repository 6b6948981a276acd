package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-3

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < eps
}

func TestControllerDefaults(t *testing.T) {
	cc := NewCameraController()
	x, y, z := cc.Position()
	if !near(x, 0) || !near(y, 0) || !near(z, 15) {
		t.Errorf("Position: got (%g, %g, %g), want (0, 0, 15)", x, y, z)
	}
	if cc.PanEnabled() {
		t.Error("PanEnabled: got true, want false")
	}
	if !near(cc.Damping(), 0.05) {
		t.Errorf("Damping: got %g, want 0.05", cc.Damping())
	}
}

func TestControllerClamps(t *testing.T) {
	tests := []struct {
		name   string
		apply  func(CameraController)
		check  func(CameraController) float32
		expect func(CameraController) float32
	}{
		{
			name:   "radius below minimum",
			apply:  func(cc CameraController) { cc.SetRadius(0.01) },
			check:  CameraController.Radius,
			expect: CameraController.MinRadius,
		},
		{
			name:   "zoom past maximum",
			apply:  func(cc CameraController) { cc.Zoom(-1000) },
			check:  CameraController.Radius,
			expect: CameraController.MaxRadius,
		},
		{
			name:   "elevation above maximum",
			apply:  func(cc CameraController) { cc.SetElevation(10) },
			check:  CameraController.Elevation,
			expect: CameraController.MaxElevation,
		},
		{
			name: "rotate below minimum elevation",
			apply: func(cc CameraController) {
				cc.Rotate(0, -10)
				cc.Update()
			},
			check:  CameraController.Elevation,
			expect: CameraController.MinElevation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewCameraController(WithDamping(0))
			tt.apply(cc)
			if got, want := tt.check(cc), tt.expect(cc); !near(got, want) {
				t.Errorf("got %g, want %g", got, want)
			}
		})
	}
}

func TestControllerDampingConverges(t *testing.T) {
	cc := NewCameraController(WithDamping(0.1))
	cc.Rotate(1, 0)

	if !cc.Update() {
		t.Fatal("Update: got false, want true after Rotate")
	}
	if got := cc.Azimuth(); !near(got, 0.1) {
		t.Errorf("Azimuth after one update: got %g, want 0.1", got)
	}

	for range 200 {
		cc.Update()
	}
	if got := cc.Azimuth(); !near(got, 1) {
		t.Errorf("Azimuth after settling: got %g, want 1", got)
	}
	if cc.Update() {
		t.Error("Update: got true, want false once motion has settled")
	}
}

func TestControllerNoDampingAppliesImmediately(t *testing.T) {
	cc := NewCameraController(WithDamping(0))
	cc.RotateByPixels(-100, 0)
	cc.Update()
	want := 100 * cc.MouseSensitivity()
	if got := cc.Azimuth(); !near(got, want) {
		t.Errorf("Azimuth: got %g, want %g", got, want)
	}
}

func TestControllerPanDisabled(t *testing.T) {
	cc := NewCameraController(WithDamping(0))
	cc.PanRight(50)
	cc.PanUp(50)
	cc.Update()
	x, y, z := cc.Target()
	if x != 0 || y != 0 || z != 0 {
		t.Errorf("Target: got (%g, %g, %g), want origin", x, y, z)
	}
}

func TestControllerPanEnabled(t *testing.T) {
	cc := NewCameraController(WithDamping(0), WithPanEnabled(true), WithPanSpeed(1))
	cc.PanRight(2)
	cc.Update()
	x, y, z := cc.Target()
	if !near(x, 2) || !near(y, 0) || !near(z, 0) {
		t.Errorf("Target: got (%g, %g, %g), want (2, 0, 0)", x, y, z)
	}
	px, _, pz := cc.Position()
	if !near(px, 2) || !near(pz, 15) {
		t.Errorf("Position: got x=%g z=%g, want x=2 z=15", px, pz)
	}
}

func TestControllerSetPosition(t *testing.T) {
	cc := NewCameraController()
	cc.SetPosition(0, 10, 0)
	if got := cc.Elevation(); !near(got, cc.MaxElevation()) {
		t.Errorf("Elevation: got %g, want %g", got, cc.MaxElevation())
	}
	if got := cc.Radius(); !near(got, 10) {
		t.Errorf("Radius: got %g, want 10", got)
	}
}

func TestOrientationFacesTarget(t *testing.T) {
	cc := NewCameraController(WithDamping(0))
	cc.Rotate(float32(math.Pi/3), 0.4)
	cc.Update()

	px, py, pz := cc.Position()
	toTarget := mgl32.Vec3{-px, -py, -pz}.Normalize()
	forward := cc.Orientation().Rotate(mgl32.Vec3{0, 0, -1})
	if forward.Sub(toTarget).Len() > eps {
		t.Errorf("forward: got %v, want %v", forward, toTarget)
	}
}

func TestCameraUpdate(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController(WithDamping(0))), WithAspect(16.0/9.0))
	cam.Update()

	x, y, z := cam.Position()
	if !near(x, 0) || !near(y, 0) || !near(z, 15) {
		t.Errorf("Position: got (%g, %g, %g), want (0, 0, 15)", x, y, z)
	}

	u := cam.Uniform()
	if u.CameraPosition != [3]float32{x, y, z} {
		t.Errorf("Uniform position: got %v, want %v", u.CameraPosition, [3]float32{x, y, z})
	}

	// the origin lands at the centre of clip space
	vp := mgl32.Mat4(u.ViewProj)
	clip := vp.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if !near(clip[0]/clip[3], 0) || !near(clip[1]/clip[3], 0) {
		t.Errorf("origin in NDC: got (%g, %g), want (0, 0)", clip[0]/clip[3], clip[1]/clip[3])
	}
}

func TestCameraUniformSize(t *testing.T) {
	var u GPUCameraUniform
	if got := u.Size(); got != 80 {
		t.Errorf("Size: got %d, want 80", got)
	}
	if got := len(u.Marshal()); got != 80 {
		t.Errorf("Marshal length: got %d, want 80", got)
	}
}

func TestCameraUniformMarshalLayout(t *testing.T) {
	u := GPUCameraUniform{CameraPosition: [3]float32{1, 2, 3}}
	u.ViewProj[0] = 4
	buf := u.Marshal()

	if got := math.Float32frombits(uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24); got != 4 {
		t.Errorf("ViewProj[0]: got %g, want 4", got)
	}
	for i, want := range []float32{1, 2, 3, 0} {
		off := 64 + i*4
		bits := uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
		if got := math.Float32frombits(bits); got != want {
			t.Errorf("word at %d: got %g, want %g", off, got, want)
		}
	}
}

func TestWithPerspective(t *testing.T) {
	tests := []struct {
		name                       string
		fovY, near, far            float32
		wantFov, wantNear, wantFar float32
	}{
		{"defaults", 0, 0, 0, mgl32.DegToRad(DefaultFovY), DefaultNear, DefaultFar},
		{"override", 60, 0.5, 250, mgl32.DegToRad(60), 0.5, 250},
		{"partial", 30, -1, 0, mgl32.DegToRad(30), DefaultNear, DefaultFar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(WithPerspective(tt.fovY, tt.near, tt.far))
			if !near(cam.Fov(), tt.wantFov) {
				t.Errorf("Fov: got %g, want %g", cam.Fov(), tt.wantFov)
			}
			if !near(cam.Near(), tt.wantNear) {
				t.Errorf("Near: got %g, want %g", cam.Near(), tt.wantNear)
			}
			if !near(cam.Far(), tt.wantFar) {
				t.Errorf("Far: got %g, want %g", cam.Far(), tt.wantFar)
			}
		})
	}
}
