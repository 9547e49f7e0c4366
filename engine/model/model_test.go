package model

import (
	"fmt"
	"testing"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/layout"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/material"
	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexSizesAndOffsets(t *testing.T) {
	tv := TexturedVertexRecord()
	assert.Equal(t, uintptr(16), tv.Size)
	assertOffsets(t, tv, map[string]uintptr{"position": 0, "texture_coord": 8})

	v := VertexRecord()
	assert.Equal(t, uintptr(56), v.Size)
	assertOffsets(t, v, map[string]uintptr{
		"position":      0,
		"normal":        12,
		"texture_coord": 24,
		"tangent":       32,
		"bitangent":     44,
	})
}

func assertOffsets(t *testing.T, rec layout.Record, want map[string]uintptr) {
	t.Helper()
	require.Len(t, rec.Fields, len(want))
	for name, off := range want {
		f, ok := rec.Field(name)
		require.Truef(t, ok, "missing field %s", name)
		assert.Equalf(t, off, f.Offset, "field %s", name)
	}
}

func TestVertexRoundTrip(t *testing.T) {
	in := GPUVertex{
		Position:     [3]float32{1, 2, 3},
		Normal:       [3]float32{0, 1, 0},
		TextureCoord: [2]float32{0.25, 0.75},
		Tangent:      [3]float32{1, 0, 0},
		Bitangent:    [3]float32{0, 0, -1},
	}
	var out GPUVertex
	require.NoError(t, out.Unmarshal(in.Marshal()))
	assert.Equal(t, in, out)

	tin := GPUTexturedVertex{Position: [2]float32{-1, 1}, TextureCoord: [2]float32{0, 1}}
	var tout GPUTexturedVertex
	require.NoError(t, tout.Unmarshal(tin.Marshal()))
	assert.Equal(t, tin, tout)

	assert.ErrorIs(t, out.Unmarshal(make([]byte, 55)), layout.ErrShortBuffer)
}

func TestVertexBufferLayoutRevision2(t *testing.T) {
	vbl, err := VertexBufferLayout(binding.Revision2)
	require.NoError(t, err)
	assert.Equal(t, uint64(56), vbl.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, vbl.StepMode)
	assert.Equal(t, []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
		{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 32, ShaderLocation: 3},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 44, ShaderLocation: 4},
	}, vbl.Attributes)
}

func TestVertexBufferLayoutRevision1(t *testing.T) {
	vbl, err := VertexBufferLayout(binding.Revision1)
	require.NoError(t, err)
	assert.Equal(t, uint64(16), vbl.ArrayStride)
	require.Len(t, vbl.Attributes, 2)
	assert.Equal(t, wgpu.VertexFormatFloat32x2, vbl.Attributes[0].Format)
	assert.Equal(t, uint32(1), vbl.Attributes[1].ShaderLocation)

	_, err = VertexBufferLayout(binding.Revision(9))
	assert.ErrorIs(t, err, binding.ErrUnknownRevision)
}

func TestMarshalVertices(t *testing.T) {
	verts := []GPUVertex{{Position: [3]float32{1, 0, 0}}, {Position: [3]float32{0, 1, 0}}}
	buf := MarshalVertices(verts)
	require.Len(t, buf, 112)

	var second GPUVertex
	require.NoError(t, second.Unmarshal(buf[56:]))
	assert.Equal(t, verts[1], second)
	assert.Nil(t, MarshalVertices(nil))
}

func TestModelDrawable(t *testing.T) {
	mat := material.NewMaterial(material.WithName("brick"))
	m := NewModel(
		WithName("quad"),
		WithTexturedVertices([]GPUTexturedVertex{{}, {}, {}, {}}),
		WithPosition(mgl32.Vec3{0, 0, -2}),
		WithRotation(mgl32.Vec3{0, math32.Pi, 0}),
		WithMaterial(mat),
	)
	assert.Equal(t, binding.Revision1, m.Revision())
	assert.Equal(t, 4, m.VertexCount())
	assert.Len(t, m.VertexData(), 64)
	assert.Same(t, mat, m.Material())

	got := m.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assertApprox(t, mgl32.Vec4{-1, 0, -2, 1}, got, 1e-5, "got %v", got)

	tr := m.Transform()
	tr.Scale = mgl32.Vec3{2, 2, 2}
	m.SetTransform(tr)
	got = m.ModelMatrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assertApprox(t, mgl32.Vec4{-2, 0, -2, 1}, got, 1e-5, "got %v", got)
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
