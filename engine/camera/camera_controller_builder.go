package camera

// CameraControllerOption configures an orbit CameraController. Radius and elevation
// are clamped to their bounds after every option has been applied.
type CameraControllerOption func(*cameraControllerImpl)

// WithOrbit sets the starting spherical coordinates around the target.
//
// Parameters:
//   - radius: distance from the target
//   - azimuth: angle around +Y in radians, 0 looks down -Z from +Z
//   - elevation: angle above the horizontal plane in radians
//
// Returns:
//   - CameraControllerOption: a function that sets all three
func WithOrbit(radius, azimuth, elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
		cc.azimuth = azimuth
		cc.elevation = elevation
	}
}

// WithRadius sets only the starting orbit radius.
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithTarget sets the point the controller orbits and looks at.
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = [3]float32{x, y, z}
	}
}

// WithRadiusBounds limits how far Zoom can move the eye from the target.
func WithRadiusBounds(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithSpeeds sets the multipliers Rotate and Zoom apply to their input deltas.
func WithSpeeds(rotate, zoom float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.rotateSpeed = rotate
		cc.zoomSpeed = zoom
	}
}
