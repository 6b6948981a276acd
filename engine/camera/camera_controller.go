package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines the interface for an orbit camera control system.
// Controllers own positional state (position, target). Camera reads from controller
// and computes view/projection matrices. Input is accumulated as pending deltas by
// Rotate, Pan and Zoom and applied by Update, which eases them in when damping is
// enabled. Embeds orbitCameraController and planarCameraController.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// Target returns the look-at point.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// SetPosition places the camera at a world-space position, deriving radius,
	// azimuth and elevation relative to the current target.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// Orientation returns the camera rotation. The camera looks down its local -Z
	// axis with +Y up.
	//
	// Returns:
	//   - mgl32.Quat: the camera orientation
	Orientation() mgl32.Quat

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// Damping returns the damping factor in [0, 1]. Zero applies input immediately.
	//
	// Returns:
	//   - float32: the damping factor
	Damping() float32

	// SetDamping sets the damping factor, clamped to [0, 1].
	//
	// Parameters:
	//   - damping: the fraction of pending motion applied per Update
	SetDamping(damping float32)

	// Update applies pending rotation and pan. With damping enabled only a fraction
	// of the pending motion is applied per call and the remainder decays, so Update
	// should be called once per frame.
	//
	// Returns:
	//   - bool: true if the camera moved
	Update() bool
}

// orbitCameraController defines orbit-specific control methods.
// Provides third-person orbit controls using spherical coordinates (radius, azimuth, elevation)
// relative to the target/pivot point.
type orbitCameraController interface {
	// Rotate queues an orbit by the given angles in radians. Positive azimuth
	// swings the camera around +Y; positive elevation raises it.
	//
	// Parameters:
	//   - dAzimuth: horizontal angle delta
	//   - dElevation: vertical angle delta
	Rotate(dAzimuth, dElevation float32)

	// RotateByPixels queues an orbit from a pointer drag, scaled by MouseSensitivity.
	// Dragging right swings the camera left around the target, dragging down raises it.
	//
	// Parameters:
	//   - dx, dy: pointer movement in pixels
	RotateByPixels(dx, dy float32)

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: the orbit radius
	Radius() float32

	// SetRadius sets the orbit radius, clamped to [MinRadius, MaxRadius].
	//
	// Parameters:
	//   - radius: the new orbit radius
	SetRadius(radius float32)

	// MinRadius returns the minimum allowed orbit radius.
	//
	// Returns:
	//   - float32: the minimum radius
	MinRadius() float32

	// MaxRadius returns the maximum allowed orbit radius.
	//
	// Returns:
	//   - float32: the maximum radius
	MaxRadius() float32

	// Azimuth returns the horizontal angle around the Y axis in radians.
	//
	// Returns:
	//   - float32: the azimuth
	Azimuth() float32

	// SetAzimuth sets the horizontal angle immediately.
	//
	// Parameters:
	//   - azimuth: angle in radians (0 = +Z axis)
	SetAzimuth(azimuth float32)

	// Elevation returns the vertical angle from the horizontal plane in radians.
	//
	// Returns:
	//   - float32: the elevation
	Elevation() float32

	// SetElevation sets the vertical angle immediately, clamped to the elevation bounds.
	//
	// Parameters:
	//   - elevation: angle in radians (0 = horizontal)
	SetElevation(elevation float32)

	// MinElevation returns the minimum allowed elevation.
	//
	// Returns:
	//   - float32: the minimum elevation in radians
	MinElevation() float32

	// MaxElevation returns the maximum allowed elevation.
	//
	// Returns:
	//   - float32: the maximum elevation in radians
	MaxElevation() float32

	// MouseSensitivity returns radians of orbit per pixel of drag.
	//
	// Returns:
	//   - float32: the sensitivity
	MouseSensitivity() float32

	// ZoomSpeed returns the radius change per unit of zoom delta.
	//
	// Returns:
	//   - float32: the zoom speed
	ZoomSpeed() float32
}

// planarCameraController defines pan controls that translate both target and
// position along the camera's local axes. All pan input is ignored while pan is
// disabled.
type planarCameraController interface {
	// PanRight queues a translation along the camera's right axis.
	//
	// Parameters:
	//   - delta: distance scaled by PanSpeed
	PanRight(delta float32)

	// PanUp queues a translation along the camera's up axis.
	//
	// Parameters:
	//   - delta: distance scaled by PanSpeed
	PanUp(delta float32)

	// PanSpeed returns the world units moved per unit of pan delta.
	//
	// Returns:
	//   - float32: the pan speed
	PanSpeed() float32

	// PanEnabled reports whether pan input is accepted.
	//
	// Returns:
	//   - bool: true if panning is enabled
	PanEnabled() bool

	// SetPanEnabled enables or disables panning.
	//
	// Parameters:
	//   - enabled: true to accept pan input
	SetPanEnabled(enabled bool)
}
