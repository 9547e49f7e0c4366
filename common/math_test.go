package common

import (
	"fmt"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-5

func TestNormalMatrixOrthonormal(t *testing.T) {
	model := ModelMatrix(mgl32.Vec3{3, -2, 1}, mgl32.Vec3{0.3, 1.1, -0.7}, mgl32.Vec3{1, 1, 1})
	got := NormalMatrix(model)

	// A pure rotation is its own inverse-transpose.
	assertApprox(t, model.Mat3(), got, epsilon, "got %v want %v", got, model.Mat3())
}

func TestNormalMatrixNonUniformScale(t *testing.T) {
	model := ModelMatrix(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, math32.Pi / 4, 0}, mgl32.Vec3{2, 0.5, 3})
	got := NormalMatrix(model)

	want := model.Mat3().Inv().Transpose()
	assertApprox(t, want, got, epsilon)

	// N * M^T = I for the upper 3x3 block.
	product := got.Mul3(model.Mat3().Transpose())
	assertApprox(t, mgl32.Ident3(), product, epsilon, "got %v", product)

	// Non-uniform scale must not leave the normal matrix equal to the rotation part.
	assert.False(t, got.ApproxEqualThreshold(model.Mat3(), epsilon))
}

func TestModelMatrixOrder(t *testing.T) {
	model := ModelMatrix(mgl32.Vec3{1, 2, 3}, mgl32.Vec3{0, 0, math32.Pi / 2}, mgl32.Vec3{2, 2, 2})
	p := model.Mul4x1(mgl32.Vec4{1, 0, 0, 1})

	// Scale first, then rotate +X onto +Y, then translate.
	assertApprox(t, mgl32.Vec4{1, 4, 3, 1}, p, epsilon, "got %v", p)
}

func TestPadMat3RoundTrip(t *testing.T) {
	m := mgl32.Mat3{1, 2, 3, 4, 5, 6, 7, 8, 9}
	p := PadMat3(m)
	assert.Equal(t, [12]float32{1, 2, 3, 0, 4, 5, 6, 0, 7, 8, 9, 0}, p)
	assert.Equal(t, m, UnpadMat3(p))
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(mgl32.DegToRad(60), 1, 0.1, 100)

	near := proj.Mul4x1(mgl32.Vec4{0, 0, -0.1, 1})
	far := proj.Mul4x1(mgl32.Vec4{0, 0, -100, 1})
	assert.InDelta(t, 0, near.Z()/near.W(), epsilon)
	assert.InDelta(t, 1, far.Z()/far.W(), epsilon)
}

func TestSkyboxViewProjectionDropsTranslation(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := Perspective(mgl32.DegToRad(45), 1.5, 0.1, 100)

	got := SkyboxViewProjection(view, proj)
	want := proj.Mul4(mgl32.LookAtV(mgl32.Vec3{}, mgl32.Vec3{0, 0, -5}, mgl32.Vec3{0, 1, 0}))
	assertApprox(t, want, got, epsilon)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 4, Coalesce(0, 4, 5))
	assert.Equal(t, "", Coalesce[string]())
}

// assertApprox compares mgl32 vectors and matrices element-wise within an absolute delta.
func assertApprox(t *testing.T, want, got any, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDeltaSlice(t, approxFloats(want), approxFloats(got), delta, msgAndArgs...)
}

func approxFloats(v any) []float32 {
	switch v := v.(type) {
	case mgl32.Vec3:
		return v[:]
	case mgl32.Vec4:
		return v[:]
	case mgl32.Mat3:
		return v[:]
	case mgl32.Mat4:
		return v[:]
	default:
		panic(fmt.Sprintf("approxFloats: unsupported type %T", v))
	}
}
