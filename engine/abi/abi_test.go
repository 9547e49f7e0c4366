package abi

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/layout"
	"github.com/Carmen-Shannon/oxy-abi/engine/light"
	"github.com/Carmen-Shannon/oxy-abi/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecords(t *testing.T) {
	r1, err := Records(binding.Revision1)
	require.NoError(t, err)
	require.Len(t, r1, 4)
	assert.True(t, r1[0].Vertex)
	assert.Equal(t, uintptr(16), r1[0].Size)

	r2, err := Records(binding.Revision2)
	require.NoError(t, err)
	require.Len(t, r2, 6)
	assert.Equal(t, uintptr(56), r2[0].Size)

	_, err = Records(binding.Revision(99))
	assert.ErrorIs(t, err, binding.ErrUnknownRevision)

	rec, err := Record(binding.Revision2, "material")
	require.NoError(t, err)
	assert.Equal(t, uintptr(48), rec.Size)

	_, err = Record(binding.Revision1, "material")
	assert.ErrorIs(t, err, ErrUnknownRecord)
}

func TestRecordSize(t *testing.T) {
	cases := []struct {
		rev  binding.Revision
		res  binding.Resource
		size uintptr
	}{
		{binding.Revision1, binding.ResourceVertices, 16},
		{binding.Revision1, binding.ResourceUniforms, 192},
		{binding.Revision1, binding.ResourceLights, 96},
		{binding.Revision1, binding.ResourceFragmentUniforms, 32},
		{binding.Revision2, binding.ResourceVertices, 56},
		{binding.Revision2, binding.ResourceUniforms, 240},
		{binding.Revision2, binding.ResourceSkybox, 64},
		{binding.Revision2, binding.ResourceMaterial, 48},
	}
	for _, c := range cases {
		size, err := RecordSize(c.rev, c.res)
		require.NoError(t, err, "%s %s", c.rev, c.res)
		assert.Equal(t, c.size, size, "%s %s", c.rev, c.res)
	}

	_, err := RecordSize(binding.Revision1, binding.ResourceMaterial)
	assert.ErrorIs(t, err, binding.ErrStaleBinding)

	_, err = RecordSize(binding.Revision2, binding.ResourceNormalTexture)
	assert.ErrorIs(t, err, ErrUnknownRecord)

	minSize := MinBindingSize(binding.Revision2)
	assert.Equal(t, uint64(96), minSize(binding.ResourceLights))
	assert.Equal(t, uint64(0), minSize(binding.ResourceCubeMap))
}

func TestConstants(t *testing.T) {
	byName := map[string]uint32{}
	for _, c := range Constants() {
		byName[c.Name] = c.Value
	}
	assert.Equal(t, map[string]uint32{
		"LIGHT_TYPE_UNUSED":       0,
		"LIGHT_TYPE_SUNLIGHT":     1,
		"LIGHT_TYPE_SPOTLIGHT":    2,
		"LIGHT_TYPE_POINTLIGHT":   3,
		"LIGHT_TYPE_AMBIENTLIGHT": 4,
		"SHADING_MODEL_PHONG":     1,
		"SHADING_MODEL_PBR":       2,
	}, byName)
}

func TestCheckAllRevisions(t *testing.T) {
	for _, rev := range binding.Revisions() {
		assert.NoError(t, Check(rev), rev.String())
	}
	assert.NoError(t, CheckAll())
	assert.ErrorIs(t, Check(binding.Revision(99)), binding.ErrUnknownRevision)
}

func TestHeader(t *testing.T) {
	r2, err := Header(binding.Revision2)
	require.NoError(t, err)
	assert.NotContains(t, r2, "@oxy:")
	assert.Contains(t, r2, "const LIGHT_TYPE_SPOTLIGHT: u32 = 2u;")
	assert.Contains(t, r2, "const SHADING_MODEL_PBR: u32 = 2u;")
	assert.Contains(t, r2, "struct Light {")
	assert.Contains(t, r2, "struct Material {")
	assert.Contains(t, r2, "@group(0) @binding(2) var<storage, read> lights: array<Light>;")
	assert.Contains(t, r2, "@group(0) @binding(14) var<uniform> material: Material;")
	assert.Contains(t, r2, "@group(1) @binding(5) var cube_map: texture_cube<f32>;")
	assert.Contains(t, r2, "@group(2) @binding(5) var cube_map_sampler: sampler;")

	r1, err := Header(binding.Revision1)
	require.NoError(t, err)
	assert.Contains(t, r1, "@group(0) @binding(3) var<storage, read> lights: array<Light>;")
	assert.Contains(t, r1, "@group(0) @binding(4) var<uniform> fragment_uniforms: FragmentUniforms;")
	assert.NotContains(t, r1, "Material")
	assert.NotContains(t, r1, "normal_matrix")
}

func TestCheckSourceDetectsStaleSlots(t *testing.T) {
	// Revision1 slot numbers compiled against Revision2.
	stale := `
@group(0) @binding(1) var<uniform> uniforms: Uniforms;
@group(0) @binding(3) var<storage, read> lights: array<Light>;
@group(0) @binding(4) var<uniform> fragment_uniforms: FragmentUniforms;
`
	assert.NoError(t, CheckSource(binding.Revision1, stale))

	err := CheckSource(binding.Revision2, stale)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBindingMismatch)
	assert.Contains(t, err.Error(), "lights at @group(0) @binding(3)")
	assert.Contains(t, err.Error(), "fragment_uniforms at @group(0) @binding(4) is not a slot")

	r1, err := Header(binding.Revision1)
	require.NoError(t, err)
	assert.ErrorIs(t, CheckSource(binding.Revision2, r1), ErrBindingMismatch)
}

func TestCheckSourceDuplicateDeclaration(t *testing.T) {
	src := `
@group(0) @binding(2) var<storage, read> lights: array<Light>;
@group(0) @binding(2) var<storage, read> more_lights: array<Light>;
`
	err := CheckSource(binding.Revision2, src)
	assert.ErrorIs(t, err, ErrBindingMismatch)
	assert.Contains(t, err.Error(), "both declared")
}

func TestCheckRecordMismatch(t *testing.T) {
	assert.NoError(t, checkRecord(light.LightRecord()))

	rec := light.LightRecord()
	fields := make([]layout.Field, len(rec.Fields))
	copy(fields, rec.Fields)
	rec.Fields = fields
	for i := range rec.Fields {
		if rec.Fields[i].Name == "cone_direction" {
			rec.Fields[i].Offset = 68
		}
	}
	err := checkRecord(rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLayoutMismatch)
	assert.Contains(t, err.Error(), "cone_direction")

	rec = light.LightRecord()
	rec.Size = 80
	assert.ErrorIs(t, checkRecord(rec), ErrLayoutMismatch)

	rec = light.LightRecord()
	rec.Source = strings.ReplaceAll(rec.Source, "Light", "Lamp")
	assert.ErrorIs(t, checkRecord(rec), ErrLayoutMismatch)
}

func TestCheckVertexLayout(t *testing.T) {
	want, err := model.VertexBufferLayout(binding.Revision2)
	require.NoError(t, err)
	require.NoError(t, CheckVertexLayout(binding.Revision2, want))

	moved := want
	moved.Attributes = append([]wgpu.VertexAttribute(nil), want.Attributes...)
	moved.Attributes[2].ShaderLocation = 7
	err = CheckVertexLayout(binding.Revision2, moved)
	assert.ErrorIs(t, err, ErrLayoutMismatch)
	assert.Contains(t, err.Error(), "attribute 2")

	r1, err := model.VertexBufferLayout(binding.Revision1)
	require.NoError(t, err)
	assert.ErrorIs(t, CheckVertexLayout(binding.Revision2, r1), ErrLayoutMismatch)
}
