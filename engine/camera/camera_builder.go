package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraBuilderOption configures a Camera during NewCamera. Matrices are recomputed
// once after every option has been applied.
type CameraBuilderOption func(*cameraImpl)

// WithController attaches the controller the camera takes its eye position and
// orientation from. Without one the camera sits at the origin with identity view.
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}

// WithPerspective sets the vertical field of view in degrees and the aspect ratio.
//
// Parameters:
//   - fovDegrees: vertical field of view in degrees
//   - aspect: viewport width divided by height
//
// Returns:
//   - CameraBuilderOption: a function that sets both
func WithPerspective(fovDegrees, aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = mgl32.DegToRad(fovDegrees)
		c.aspect = aspect
	}
}

// WithAspect sets only the aspect ratio, width divided by height.
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipPlanes sets the near and far plane distances. The projection maps them to
// depth 0 and 1.
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}
