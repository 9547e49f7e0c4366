package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFragmentSource = `//@oxy:include light
//@oxy:include fragment_uniforms
//@oxy:bind lights lights
//@oxy:bind fragment_uniforms fragment_uniforms

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    var color = vec3<f32>(0.0);
    for (var i = 0u; i < fragment_uniforms.light_count; i++) {
        color += lights[i].color * lights[i].intensity;
    }
    return vec4<f32>(color, 1.0);
}
`

func TestNewShaderFragment(t *testing.T) {
	s, err := NewShader("lit", ShaderTypeFragment, testFragmentSource, newTestPreProcessor(binding.Revision2))
	require.NoError(t, err)

	assert.Equal(t, "lit", s.Key())
	assert.Equal(t, ShaderTypeFragment, s.ShaderType())
	assert.Equal(t, "fs_main", s.EntryPoint())
	assert.Nil(t, s.VertexLayouts())
	assert.Len(t, s.Declarations(), 2)

	require.NotNil(t, s.Module())
	assert.Equal(t, "lit", s.Module().Label)
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)
	assert.NotContains(t, s.Source(), "@oxy:")

	assert.Equal(t, "lights", s.BindGroupVarName(0, 2))
	assert.Equal(t, "fragment_uniforms", s.BindGroupVarName(0, 3))
	assert.Equal(t, "", s.BindGroupVarName(0, 4))

	desc := s.BindGroupLayoutDescriptor(0)
	require.Len(t, desc.Entries, 2)
	assert.Equal(t, wgpu.ShaderStageFragment, desc.Entries[0].Visibility)
	assert.Equal(t, uint64(96), desc.Entries[0].Buffer.MinBindingSize)
	assert.Empty(t, s.BindGroupLayoutDescriptor(1).Entries)
}

func TestNewShaderRevisionMovesSlots(t *testing.T) {
	s, err := NewShader("lit", ShaderTypeFragment, testFragmentSource, newTestPreProcessor(binding.Revision1))
	require.NoError(t, err)
	bindings := s.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, uint32(3), bindings[0].Binding)
	assert.Equal(t, uint32(4), bindings[1].Binding)
}

func TestNewShaderMissingEntryPoint(t *testing.T) {
	_, err := NewShader("lit", ShaderTypeVertex, testFragmentSource, newTestPreProcessor(binding.Revision2))
	assert.Error(t, err)
}

func TestNewShaderPreProcessError(t *testing.T) {
	_, err := NewShader("lit", ShaderTypeFragment, "//@oxy:bind material material\n@fragment fn fs_main() {}", newTestPreProcessor(binding.Revision1))
	assert.ErrorIs(t, err, binding.ErrStaleBinding)
}

func TestNewShaderFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lit.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(testFragmentSource), 0o644))

	s, err := NewShaderFromPath("lit", ShaderTypeFragment, path, newTestPreProcessor(binding.Revision2))
	require.NoError(t, err)
	assert.Equal(t, "fs_main", s.EntryPoint())

	_, err = NewShaderFromPath("lit", ShaderTypeFragment, filepath.Join(t.TempDir(), "missing.wgsl"), newTestPreProcessor(binding.Revision2))
	assert.Error(t, err)
}
