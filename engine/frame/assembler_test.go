package frame

import (
	"fmt"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-abi/common"
	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/camera"
	"github.com/Carmen-Shannon/oxy-abi/engine/config"
	"github.com/Carmen-Shannon/oxy-abi/engine/layout"
	"github.com/Carmen-Shannon/oxy-abi/engine/light"
	"github.com/Carmen-Shannon/oxy-abi/engine/model"
	"github.com/Carmen-Shannon/oxy-abi/engine/profiler"
	bgp "github.com/Carmen-Shannon/oxy-abi/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDraw struct {
	model mgl32.Mat4
	mat   material.Material
}

func (d testDraw) ModelMatrix() mgl32.Mat4 {
	return d.model
}

func (d testDraw) Material() material.Material {
	return d.mat
}

type pbrDraw struct {
	testDraw
}

func (pbrDraw) ShadingModel() material.ShadingModel {
	return material.ShadingModelPBR
}

func orbitCamera() camera.Camera {
	return camera.NewCamera(camera.WithController(camera.NewCameraController()), camera.WithAspect(1))
}

func TestAssembleSingleSunlight(t *testing.T) {
	a, err := NewAssembler(WithLightCapacity(2))
	require.NoError(t, err)
	f, err := NewFrame(binding.Revision2)
	require.NoError(t, err)

	lights := []light.Light{
		light.NewLight(light.LightTypeSunlight, light.WithIntensity(1)),
		light.NewLight(light.LightTypeUnused),
	}
	require.NoError(t, a.Assemble(f, orbitCamera(), lights, nil))
	assert.Equal(t, uint32(1), f.LightCount())
	assert.Equal(t, 0, f.Dropped())
	assert.Empty(t, f.Draws())

	writes := f.Globals().Writes()
	require.Len(t, writes, 3)
	assert.Equal(t, binding.ResourceLights, writes[0].Resource)
	assert.Equal(t, uint32(2), writes[0].Slot)
	assert.Equal(t, binding.ResourceFragmentUniforms, writes[1].Resource)
	assert.Equal(t, uint32(3), writes[1].Slot)
	assert.Equal(t, binding.ResourceSkybox, writes[2].Resource)
	assert.Equal(t, uint32(13), writes[2].Slot)

	var fu camera.GPUFragmentUniforms
	require.NoError(t, fu.Unmarshal(writes[1].Data))
	assert.Equal(t, uint32(1), fu.LightCount)
	assertApprox(t, mgl32.Vec3{0, 0, 5}, mgl32.Vec3(fu.CameraPosition), 1e-5)
	assert.Equal(t, light.DefaultTiling, fu.Tiling)

	data := writes[0].Data
	require.Len(t, data, 2*96)
	assert.Equal(t, uint32(light.LightTypeSunlight), layout.U32At(data, 60))
	assert.Equal(t, float32(1), layout.F32At(data, 44))
	assert.Equal(t, uint32(light.LightTypeUnused), layout.U32At(data, 96+60))

	slot1, err := a.Lights().Slot(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(light.LightTypeUnused), slot1.LightType)
}

func TestAssembleDrawsOverWorkerPool(t *testing.T) {
	a, err := NewAssembler(WithWorkers(4))
	require.NoError(t, err)
	defer a.Close()
	f, err := NewFrame(binding.Revision2)
	require.NoError(t, err)
	cam := orbitCamera()

	red := material.NewMaterial(material.WithBaseColor([4]float32{1, 0, 0, 1}))
	draws := make([]Drawable, 8)
	for i := range draws {
		m := common.ModelMatrix(mgl32.Vec3{float32(i), 0, 0}, mgl32.Vec3{0, 0.3, 0}, mgl32.Vec3{1, 2, 3})
		d := testDraw{model: m, mat: red}
		if i%2 == 1 {
			draws[i] = pbrDraw{d}
		} else {
			draws[i] = d
		}
	}
	draws[6] = testDraw{model: mgl32.Ident4()}

	require.NoError(t, a.Assemble(f, cam, light.DefaultLighting(), draws))
	require.Len(t, f.Draws(), 8)

	for i, p := range f.Draws() {
		writes := p.Writes()
		require.Len(t, writes, 2, "draw %d", i)
		assert.Equal(t, uint32(1), writes[0].Slot)
		assert.Equal(t, uint32(14), writes[1].Slot)

		var u camera.GPUUniforms
		require.NoError(t, u.Unmarshal(writes[0].Data))
		want := draws[i].ModelMatrix()
		assertApprox(t, want, mgl32.Mat4(u.Model), 1e-6, "draw %d", i)
		assertApprox(t, cam.ViewMatrix(), mgl32.Mat4(u.View), 1e-6)
		assertApprox(t, common.NormalMatrix(want), common.UnpadMat3(u.NormalMatrix), 1e-5, "draw %d", i)

		var m material.GPUMaterial
		require.NoError(t, m.Unmarshal(writes[1].Data))
		switch {
		case i == 6:
			assert.Equal(t, [4]float32{1, 1, 1, 1}, m.BaseColor)
			assert.Equal(t, uint32(material.ShadingModelPhong), m.ShadingModel)
		case i%2 == 1:
			assert.Equal(t, uint32(material.ShadingModelPBR), m.ShadingModel)
			assert.Equal(t, [4]float32{1, 0, 0, 1}, m.BaseColor)
		default:
			assert.Equal(t, uint32(material.ShadingModelPhong), m.ShadingModel)
		}
	}
	assert.Equal(t, 16*96+32+64+8*(240+48), f.StagedBytes())
}

func TestAssembleReusesFrame(t *testing.T) {
	a, err := NewAssembler()
	require.NoError(t, err)
	f, err := NewFrame(binding.Revision2)
	require.NoError(t, err)
	cam := orbitCamera()

	draws := []Drawable{testDraw{model: mgl32.Ident4()}, testDraw{model: mgl32.Ident4()}, testDraw{model: mgl32.Ident4()}}
	require.NoError(t, a.Assemble(f, cam, nil, draws))
	require.NoError(t, a.Assemble(f, cam, nil, draws[:1]))

	assert.Len(t, f.Draws(), 1)
	assert.Len(t, f.Draws()[0].Writes(), 2)
	assert.Len(t, f.Globals().Writes(), 3)
	assert.Equal(t, uint32(0), f.LightCount())
}

func TestAssembleModelDrawable(t *testing.T) {
	a, err := NewAssembler(WithShadingModel(material.ShadingModelPBR))
	require.NoError(t, err)
	f, err := NewFrame(binding.Revision2)
	require.NoError(t, err)

	m := model.NewModel(model.WithName("quad"), model.WithPosition(mgl32.Vec3{1, 2, 3}))
	require.NoError(t, a.Assemble(f, orbitCamera(), nil, []Drawable{m}))

	var u camera.GPUUniforms
	require.NoError(t, u.Unmarshal(f.Draws()[0].Writes()[0].Data))
	assert.Equal(t, float32(1), u.Model[12])
	assert.Equal(t, float32(2), u.Model[13])
	assert.Equal(t, float32(3), u.Model[14])

	var gm material.GPUMaterial
	require.NoError(t, gm.Unmarshal(f.Draws()[0].Writes()[1].Data))
	assert.Equal(t, uint32(material.ShadingModelPBR), gm.ShadingModel)
}

func TestAssembleRevision1(t *testing.T) {
	a, err := NewAssembler(WithRevision(binding.Revision1), WithLightCapacity(4))
	require.NoError(t, err)
	f, err := NewFrame(binding.Revision1)
	require.NoError(t, err)

	require.NoError(t, a.Assemble(f, orbitCamera(), light.DefaultLighting(), []Drawable{testDraw{model: mgl32.Ident4()}}))

	globals := f.Globals().Writes()
	require.Len(t, globals, 2)
	assert.Equal(t, uint32(3), globals[0].Slot)
	assert.Equal(t, uint32(4), globals[1].Slot)
	assert.Equal(t, uint32(3), f.LightCount())

	draw := f.Draws()[0].Writes()
	require.Len(t, draw, 1)
	assert.Len(t, draw[0].Data, 192)
}

func TestAssembleRevisionMismatch(t *testing.T) {
	a, err := NewAssembler()
	require.NoError(t, err)
	f, err := NewFrame(binding.Revision1)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Assemble(f, orbitCamera(), nil, nil), ErrRevisionMismatch)
}

func TestAssembleOverflowPolicies(t *testing.T) {
	lights := []light.Light{
		light.NewLight(light.LightTypePointlight, light.WithPriority(1)),
		light.NewLight(light.LightTypeSpotlight, light.WithPriority(5)),
	}

	rejecting, err := NewAssembler(WithLightCapacity(1), WithOverflowPolicy(light.OverflowReject))
	require.NoError(t, err)
	f, err := NewFrame(binding.Revision2)
	require.NoError(t, err)
	assert.ErrorIs(t, rejecting.Assemble(f, orbitCamera(), lights, nil), light.ErrLightOverflow)

	prof := profiler.NewProfiler(profiler.WithInterval(time.Nanosecond), profiler.WithQuiet())
	dropping, err := NewAssembler(WithLightCapacity(1), WithProfiler(prof))
	require.NoError(t, err)
	time.Sleep(time.Millisecond)
	require.NoError(t, dropping.Assemble(f, orbitCamera(), lights, nil))
	assert.Equal(t, uint32(1), f.LightCount())
	assert.Equal(t, 1, f.Dropped())

	slot0, err := dropping.Lights().Slot(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(light.LightTypeSpotlight), slot0.LightType)

	assert.Equal(t, 1, prof.Last().DroppedLights)
	assert.Equal(t, f.StagedBytes(), prof.Last().StagedBytes)
}

func TestFragmentUniformsTiling(t *testing.T) {
	a, err := NewAssembler(WithTiling(32))
	require.NoError(t, err)
	fu, err := a.FragmentUniforms(camera.NewCamera(), nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(32), fu.Tiling)
	assert.Equal(t, uint32(0), fu.LightCount)
	assert.Equal(t, [3]float32{}, fu.CameraPosition)
}

func TestDrawUniformsRecomputesNormalMatrix(t *testing.T) {
	a, err := NewAssembler()
	require.NoError(t, err)
	cam := orbitCamera()

	scaled := common.ModelMatrix(mgl32.Vec3{}, mgl32.Vec3{}, mgl32.Vec3{2, 1, 1})
	var u camera.GPUUniforms
	require.NoError(t, u.Unmarshal(a.DrawUniforms(cam, scaled)))
	assert.InDelta(t, 0.5, u.NormalMatrix[0], 1e-6)

	require.NoError(t, u.Unmarshal(a.DrawUniforms(cam, mgl32.Ident4())))
	assert.InDelta(t, 1, u.NormalMatrix[0], 1e-6)
	assert.Equal(t, float32(0), u.NormalMatrix[3])
}

func TestNewAssemblerErrors(t *testing.T) {
	_, err := NewAssembler(WithRevision(binding.Revision(5)))
	assert.ErrorIs(t, err, binding.ErrUnknownRevision)

	_, err = NewAssembler(WithLightCapacity(0))
	assert.ErrorIs(t, err, light.ErrInvalidCapacity)

	_, err = NewAssembler(WithShadingModel(material.ShadingModel(9)))
	assert.ErrorIs(t, err, material.ErrUnknownShadingModel)
}

func TestWithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Revision = 1
	cfg.LightCapacity = 3
	cfg.Overflow = "reject"
	cfg.Workers = 0

	a, err := NewAssembler(WithConfig(cfg))
	require.NoError(t, err)
	assert.Equal(t, binding.Revision1, a.Revision())
	assert.Equal(t, 3, a.Lights().Capacity())
	assert.Equal(t, light.OverflowReject, a.Lights().Policy())
}

func TestAssembleBoundsLightArray(t *testing.T) {
	a, err := NewAssembler(WithLightCapacity(2))
	require.NoError(t, err)
	f, err := NewFrame(binding.Revision2)
	require.NoError(t, err)

	require.NoError(t, a.Assemble(f, orbitCamera(), light.DefaultLighting(), nil))
	n, ok := f.Globals().Capacity(binding.ResourceLights)
	require.True(t, ok)
	assert.Equal(t, 2, n)

	assert.ErrorIs(t, f.Globals().StageElement(binding.ResourceLights, 2, make([]byte, 96)), bgp.ErrOutOfBounds)
	assert.ErrorIs(t, f.Globals().Stage(binding.ResourceLights, make([]byte, 96*3)), bgp.ErrOutOfBounds)
}

func TestAssemblerClose(t *testing.T) {
	a, err := NewAssembler(WithWorkers(2))
	require.NoError(t, err)
	f, err := NewFrame(binding.Revision2)
	require.NoError(t, err)
	draws := []Drawable{testDraw{model: mgl32.Ident4()}, testDraw{model: mgl32.Ident4()}}
	require.NoError(t, a.Assemble(f, orbitCamera(), nil, draws))

	a.Close()
	a.Close()
	assert.ErrorIs(t, a.Assemble(f, orbitCamera(), nil, draws), ErrClosed)
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
