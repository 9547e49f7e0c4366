package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Perspective creates a right-handed perspective projection matrix for WebGPU clip
// space, where depth maps to [0, 1] rather than OpenGL's [-1, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1.0
	m[14] = (near * far) / (near - far)
	return m
}

// ModelMatrix constructs a model matrix from position, Euler rotation and scale as
// T * Rx * Ry * Rz * S.
//
// Parameters:
//   - position: translation in world space
//   - rotation: rotation angles in radians around X, Y and Z
//   - scale: scale factors along each axis
//
// Returns:
//   - mgl32.Mat4: the column-major model matrix
func ModelMatrix(position, rotation, scale mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(position[0], position[1], position[2]).
		Mul4(mgl32.HomogRotate3DX(rotation[0])).
		Mul4(mgl32.HomogRotate3DY(rotation[1])).
		Mul4(mgl32.HomogRotate3DZ(rotation[2])).
		Mul4(mgl32.Scale3D(scale[0], scale[1], scale[2]))
}

// NormalMatrix derives the normal matrix of a model matrix: the inverse-transpose of
// its upper 3x3 block. A singular model matrix yields the zero matrix.
//
// Parameters:
//   - model: the model matrix
//
// Returns:
//   - mgl32.Mat3: the normal matrix
func NormalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	return model.Mat3().Inv().Transpose()
}

// PadMat3 lays out a 3x3 matrix the way WGSL stores mat3x3<f32>: three columns, each
// padded to a vec4.
func PadMat3(m mgl32.Mat3) [12]float32 {
	return [12]float32{
		m[0], m[1], m[2], 0,
		m[3], m[4], m[5], 0,
		m[6], m[7], m[8], 0,
	}
}

// UnpadMat3 is the inverse of PadMat3.
func UnpadMat3(p [12]float32) mgl32.Mat3 {
	return mgl32.Mat3{
		p[0], p[1], p[2],
		p[4], p[5], p[6],
		p[8], p[9], p[10],
	}
}

// SkyboxViewProjection returns projection * view with the view translation removed,
// so the skybox stays centred on the camera.
func SkyboxViewProjection(view, projection mgl32.Mat4) mgl32.Mat4 {
	view.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	return projection.Mul4(view)
}

// Mat4Array converts a matrix to its column-major array form for GPU structs.
func Mat4Array(m mgl32.Mat4) [16]float32 {
	return [16]float32(m)
}
