package model

import "github.com/go-gl/mathgl/mgl32"

// Transform is a decomposed world transform.
type Transform struct {
	// Position is the translation in world space.
	Position mgl32.Vec3

	// Rotation holds Euler angles in radians around X, Y and Z.
	Rotation mgl32.Vec3

	// Scale is the scale factor along each axis.
	Scale mgl32.Vec3
}

// IdentityTransform returns a transform with no translation, no rotation and unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}
