package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-abi/engine/abi"
	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/model"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const litVertexSource = `//@oxy:include vertex
//@oxy:include uniforms
//@oxy:bind uniforms uniforms

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) world_position: vec3<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let world = uniforms.model_matrix * vec4<f32>(in.position, 1.0);
    out.world_position = world.xyz;
    out.clip_position = uniforms.projection_matrix * uniforms.view_matrix * world;
    return out;
}
`

const litFragmentSource = `//@oxy:include uniforms
//@oxy:include light
//@oxy:include fragment_uniforms
//@oxy:bind uniforms uniforms
//@oxy:bind lights lights
//@oxy:bind fragment_uniforms fragment_uniforms

@fragment
fn fs_main(@location(0) world_position: vec3<f32>) -> @location(0) vec4<f32> {
    var color = vec3<f32>(0.0);
    for (var i = 0u; i < fragment_uniforms.light_count; i++) {
        color += lights[i].color * lights[i].intensity;
    }
    return vec4<f32>(color, 1.0);
}
`

func newShaders(t *testing.T, rev binding.Revision, vertexSource string) (shader.Shader, shader.Shader) {
	t.Helper()
	pp, err := abi.NewPreProcessor(rev)
	require.NoError(t, err)
	vs, err := shader.NewShader("lit.vs", shader.ShaderTypeVertex, vertexSource, pp)
	require.NoError(t, err)
	fs, err := shader.NewShader("lit.fs", shader.ShaderTypeFragment, litFragmentSource, pp)
	require.NoError(t, err)
	return vs, fs
}

func TestNewPipelineMergesStages(t *testing.T) {
	vs, fs := newShaders(t, binding.Revision2, litVertexSource)
	p, err := NewPipeline("lit", WithVertexShader(vs), WithFragmentShader(fs))
	require.NoError(t, err)

	assert.Equal(t, "lit", p.Key())
	assert.Equal(t, binding.Revision2, p.Revision())
	assert.Same(t, vs, p.Shader(shader.ShaderTypeVertex))
	assert.Same(t, fs, p.Shader(shader.ShaderTypeFragment))

	layouts := p.BindGroupLayouts()
	require.Len(t, layouts, 1)
	entries := layouts[0].Entries
	require.Len(t, entries, 3)
	assert.Equal(t, uint32(1), entries[0].Binding)
	assert.Equal(t, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, entries[0].Visibility)
	assert.Equal(t, uint64(240), entries[0].Buffer.MinBindingSize)
	assert.Equal(t, uint32(2), entries[1].Binding)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[1].Visibility)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, entries[1].Buffer.Type)
	assert.Equal(t, uint32(3), entries[2].Binding)

	want, err := model.VertexBufferLayout(binding.Revision2)
	require.NoError(t, err)
	assert.Equal(t, []wgpu.VertexBufferLayout{want}, p.VertexBuffers())
}

func TestPipelineFixedFunctionState(t *testing.T) {
	vs, fs := newShaders(t, binding.Revision2, litVertexSource)

	p, err := NewPipeline("lit", WithVertexShader(vs), WithFragmentShader(fs))
	require.NoError(t, err)
	assert.Equal(t, wgpu.PrimitiveState{
		Topology:  wgpu.PrimitiveTopologyTriangleList,
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeNone,
	}, p.Primitive())
	depth := p.DepthStencil(wgpu.TextureFormatDepth24Plus)
	assert.Equal(t, wgpu.CompareFunctionLess, depth.DepthCompare)
	assert.True(t, depth.DepthWriteEnabled)
	assert.Nil(t, p.ColorTarget(wgpu.TextureFormatBGRA8Unorm).Blend)
	assert.False(t, p.BlendEnabled())

	p, err = NewPipeline("overlay",
		WithVertexShader(vs),
		WithFragmentShader(fs),
		WithDepth(false, false),
		WithDepthBias(2, 1.5),
		WithBlend(nil),
		WithPrimitive(wgpu.PrimitiveTopologyLineList, wgpu.FrontFaceCW, wgpu.CullModeBack),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)
	require.NoError(t, err)
	depth = p.DepthStencil(wgpu.TextureFormatDepth32Float)
	assert.Equal(t, wgpu.CompareFunctionAlways, depth.DepthCompare)
	assert.False(t, depth.DepthWriteEnabled)
	assert.Equal(t, int32(2), depth.DepthBias)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, depth.Format)

	target := p.ColorTarget(wgpu.TextureFormatBGRA8Unorm)
	require.NotNil(t, target.Blend)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, target.Blend.Color.SrcFactor)
	assert.Equal(t, wgpu.ColorWriteMaskRed, target.WriteMask)
	assert.Equal(t, wgpu.CullModeBack, p.Primitive().CullMode)
}

func TestNewPipelineMissingShader(t *testing.T) {
	vs, fs := newShaders(t, binding.Revision2, litVertexSource)

	_, err := NewPipeline("lit", WithVertexShader(vs))
	assert.ErrorIs(t, err, ErrMissingShader)

	_, err = NewPipeline("lit", WithVertexShader(fs), WithFragmentShader(vs))
	assert.ErrorIs(t, err, ErrMissingShader)
}

func TestNewPipelineRejectsOtherRevision(t *testing.T) {
	vs, fs := newShaders(t, binding.Revision1, litVertexSource)

	_, err := NewPipeline("lit", WithVertexShader(vs), WithFragmentShader(fs))
	assert.ErrorIs(t, err, abi.ErrBindingMismatch)
	assert.ErrorIs(t, err, abi.ErrLayoutMismatch)

	_, err = NewPipeline("lit", WithRevision(binding.Revision1), WithVertexShader(vs), WithFragmentShader(fs))
	require.NoError(t, err)

	_, err = NewPipeline("lit", WithRevision(binding.Revision(4)), WithVertexShader(vs), WithFragmentShader(fs))
	assert.ErrorIs(t, err, binding.ErrUnknownRevision)
}

func TestNewPipelineRejectsHandWrittenVertexInput(t *testing.T) {
	const src = `//@oxy:include uniforms
//@oxy:bind uniforms uniforms

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) texture_coord: vec2<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return uniforms.projection_matrix * vec4<f32>(in.position, 1.0);
}
`
	vs, fs := newShaders(t, binding.Revision2, src)
	_, err := NewPipeline("lit", WithVertexShader(vs), WithFragmentShader(fs))
	assert.ErrorIs(t, err, abi.ErrLayoutMismatch)
}

func TestMergeBindGroupLayoutsConflict(t *testing.T) {
	uniform := wgpu.BindGroupLayoutEntry{Binding: 1, Visibility: wgpu.ShaderStageVertex}
	uniform.Buffer.Type = wgpu.BufferBindingTypeUniform
	storage := wgpu.BindGroupLayoutEntry{Binding: 1, Visibility: wgpu.ShaderStageFragment}
	storage.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage

	_, err := mergeBindGroupLayouts(
		map[uint32]wgpu.BindGroupLayoutDescriptor{0: {Entries: []wgpu.BindGroupLayoutEntry{uniform}}},
		map[uint32]wgpu.BindGroupLayoutDescriptor{0: {Entries: []wgpu.BindGroupLayoutEntry{storage}}},
	)
	assert.ErrorIs(t, err, ErrStageConflict)

	sampler := wgpu.BindGroupLayoutEntry{Binding: 0, Visibility: wgpu.ShaderStageFragment}
	sampler.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	merged, err := mergeBindGroupLayouts(
		map[uint32]wgpu.BindGroupLayoutDescriptor{0: {Entries: []wgpu.BindGroupLayoutEntry{uniform}}},
		map[uint32]wgpu.BindGroupLayoutDescriptor{2: {Entries: []wgpu.BindGroupLayoutEntry{sampler}}},
	)
	require.NoError(t, err)
	assert.Len(t, merged, 2)
}
