package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns the eye position of a Camera as an orbit around a target:
// radius, azimuth and elevation. The fragment uniforms take their camera_position
// from it, so the position a shader lights against always matches the view matrix.
type CameraController interface {
	// Position returns the world-space eye position.
	Position() mgl32.Vec3

	// Target returns the point the eye looks at.
	Target() mgl32.Vec3

	// SetTarget moves the orbit pivot and recomputes the eye position.
	SetTarget(x, y, z float32)

	// Zoom moves the eye toward the target by delta times the zoom speed, clamped to
	// the radius bounds. Negative delta moves away.
	Zoom(delta float32)

	// Rotate orbits the eye by a pointer drag.
	//
	// Parameters:
	//   - dx: horizontal drag in degrees, changes the azimuth
	//   - dy: vertical drag in degrees, changes the elevation, clamped short of the poles
	Rotate(dx, dy float32)

	// Pan moves target and eye together along the view's right and up axes.
	Pan(dx, dy float32)

	// Radius returns the eye's distance from the target.
	Radius() float32

	// Azimuth returns the angle around +Y in radians.
	Azimuth() float32

	// Elevation returns the angle above the horizontal plane in radians.
	Elevation() float32
}
