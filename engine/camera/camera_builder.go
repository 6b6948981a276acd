package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithPerspective sets the lens from scene units: the vertical field of view in degrees
// and the clip plane distances. A non-positive value keeps the matching default
// (DefaultFovY, DefaultNear or DefaultFar).
//
// Parameters:
//   - fovYDegrees: vertical field of view in degrees
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's projection parameters
func WithPerspective(fovYDegrees, near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if fovYDegrees > 0 {
			c.fov = mgl32.DegToRad(fovYDegrees)
		}
		if near > 0 {
			c.near = near
		}
		if far > 0 {
			c.far = far
		}
		c.updateMatrices()
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
		c.updateMatrices()
	}
}

// WithController attaches the orbit controller that drives the camera. NewCamera derives
// the matrices from the controller once every option has been applied.
//
// Parameters:
//   - ctrl: the controller to attach
//
// Returns:
//   - CameraBuilderOption: functional option to set the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
