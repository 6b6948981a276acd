package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-tails/common"

	"github.com/go-gl/mathgl/mgl32"
)

// cameraControllerImpl is the single implementation of CameraController.
// Orbit state is kept as spherical coordinates around the target. Input is queued
// into pending deltas that Update applies, optionally damped.
type cameraControllerImpl struct {
	mu *sync.Mutex

	// Camera position (computed from target + spherical coords)
	position [3]float32
	target   [3]float32

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // Horizontal angle around Y axis
	elevation float32 // Vertical angle from horizontal plane

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32
	panEnabled       bool
	damping          float32

	// Pending input consumed by Update
	pendingAzimuth   float32
	pendingElevation float32
	pendingPan       [3]float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new orbit controller. By default the camera sits
// 15 units in front of the origin on +Z, pan is disabled and damping is 0.05.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:     &sync.Mutex{},
		target: [3]float32{0, 0, 0},

		radius:    15.0,
		azimuth:   0.0,
		elevation: 0.0,

		minRadius:    1.0,
		maxRadius:    100.0,
		minElevation: -float32(math.Pi/2 - 0.01),
		maxElevation: float32(math.Pi/2 - 0.01),

		mouseSensitivity: 0.005,
		zoomSpeed:        1.0,
		panSpeed:         0.02,
		panEnabled:       false,
		damping:          0.05,
	}

	for _, option := range options {
		option(cc)
	}

	cc.clampRadius()
	cc.clampElevation()
	cc.updatePosition()
	return cc
}

// --- internal helpers ---

// updatePosition recomputes the camera position from spherical coordinates.
// Must be called whenever radius, azimuth, elevation, or target changes.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position[0] = cc.target[0] + cc.radius*cosElev*sinAzim
	cc.position[1] = cc.target[1] + cc.radius*sinElev
	cc.position[2] = cc.target[2] + cc.radius*cosElev*cosAzim
}

func (cc *cameraControllerImpl) clampRadius() {
	cc.radius = min(max(cc.radius, cc.minRadius), cc.maxRadius)
}

func (cc *cameraControllerImpl) clampElevation() {
	cc.elevation = min(max(cc.elevation, cc.minElevation), cc.maxElevation)
}

// localAxes computes the camera's local right and up axes consistent with the
// LookAt matrix. If position and target coincide, all returned components are zero.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up mgl32.Vec3) {
	back := mgl32.Vec3{
		cc.position[0] - cc.target[0],
		cc.position[1] - cc.target[1],
		cc.position[2] - cc.target[2],
	}
	if back.Len() < 1e-8 {
		return
	}
	back = back.Normalize()

	// right = normalize(cross(worldUp, backward))
	right = mgl32.Vec3{back[2], 0, -back[0]}
	if right.Len() < 1e-8 {
		return mgl32.Vec3{}, mgl32.Vec3{}
	}
	right = right.Normalize()
	up = back.Cross(right)
	return
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	dx, dy, dz := x-cc.target[0], y-cc.target[1], z-cc.target[2]
	r := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
	if r < 1e-8 {
		return
	}
	cc.radius = r
	cc.azimuth = float32(math.Atan2(float64(dx), float64(dz)))
	cc.elevation = float32(math.Asin(float64(dy / r)))
	cc.clampRadius()
	cc.clampElevation()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target[0], cc.target[1], cc.target[2]
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = [3]float32{x, y, z}
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Orientation() mgl32.Quat {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	eye := mgl32.Vec3(cc.position)
	center := mgl32.Vec3(cc.target)
	if eye.Sub(center).Len() < 1e-8 {
		return mgl32.QuatIdent()
	}
	// cameras look down -Z, so +Z faces away from the target
	return common.QuatFacing(center, eye, mgl32.Vec3{0, 1, 0})
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius -= delta * cc.zoomSpeed
	cc.clampRadius()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Damping() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.damping
}

func (cc *cameraControllerImpl) SetDamping(damping float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.damping = min(max(damping, 0), 1)
}

func (cc *cameraControllerImpl) Update() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	factor := cc.damping
	if factor <= 0 {
		factor = 1
	}

	const eps = 1e-6
	moved := false

	if abs32(cc.pendingAzimuth) > eps || abs32(cc.pendingElevation) > eps {
		cc.azimuth += cc.pendingAzimuth * factor
		cc.elevation += cc.pendingElevation * factor
		cc.clampElevation()
		moved = true
	}
	pan := mgl32.Vec3(cc.pendingPan)
	if pan.Len() > eps {
		step := pan.Mul(factor)
		for i := range 3 {
			cc.target[i] += step[i]
		}
		moved = true
	}

	if factor >= 1 {
		cc.pendingAzimuth, cc.pendingElevation = 0, 0
		cc.pendingPan = [3]float32{}
	} else {
		keep := 1 - factor
		cc.pendingAzimuth *= keep
		cc.pendingElevation *= keep
		for i := range 3 {
			cc.pendingPan[i] *= keep
		}
	}

	if moved {
		cc.updatePosition()
	}
	return moved
}

// --- orbitCameraController implementation ---

func (cc *cameraControllerImpl) Rotate(dAzimuth, dElevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pendingAzimuth += dAzimuth
	cc.pendingElevation += dElevation
}

func (cc *cameraControllerImpl) RotateByPixels(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pendingAzimuth -= dx * cc.mouseSensitivity
	cc.pendingElevation += dy * cc.mouseSensitivity
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = radius
	cc.clampRadius()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = elevation
	cc.clampElevation()
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation
}

func (cc *cameraControllerImpl) MaxElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxElevation
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.panEnabled {
		return
	}
	right, _ := cc.localAxes()
	offset := right.Mul(delta * cc.panSpeed)
	for i := range 3 {
		cc.pendingPan[i] += offset[i]
	}
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.panEnabled {
		return
	}
	_, up := cc.localAxes()
	offset := up.Mul(delta * cc.panSpeed)
	for i := range 3 {
		cc.pendingPan[i] += offset[i]
	}
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

func (cc *cameraControllerImpl) PanEnabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panEnabled
}

func (cc *cameraControllerImpl) SetPanEnabled(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.panEnabled = enabled
	if !enabled {
		cc.pendingPan = [3]float32{}
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
