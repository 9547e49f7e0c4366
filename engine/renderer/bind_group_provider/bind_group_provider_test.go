package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageTagsRevisionSlot(t *testing.T) {
	r1, err := NewBindGroupProvider("frame", WithRevision(binding.Revision1), WithCapacity(binding.ResourceLights, 4))
	require.NoError(t, err)
	r2, err := NewBindGroupProvider("frame", WithCapacity(binding.ResourceLights, 4))
	require.NoError(t, err)
	assert.Equal(t, binding.LatestRevision, r2.Revision())

	lights := make([]byte, 96*4)
	require.NoError(t, r1.Stage(binding.ResourceLights, lights))
	require.NoError(t, r2.Stage(binding.ResourceLights, lights))

	assert.Equal(t, uint32(3), r1.Writes()[0].Slot)
	assert.Equal(t, uint32(2), r2.Writes()[0].Slot)
	assert.Equal(t, binding.ResourceLights, r2.Writes()[0].Resource)
	assert.Equal(t, "frame", r2.Label())
}

func TestStageValidatesSize(t *testing.T) {
	p, err := NewBindGroupProvider("frame", WithRevision(binding.Revision2))
	require.NoError(t, err)

	assert.NoError(t, p.Stage(binding.ResourceFragmentUniforms, make([]byte, 32)))
	assert.ErrorIs(t, p.Stage(binding.ResourceFragmentUniforms, make([]byte, 16)), ErrSizeMismatch)
	assert.ErrorIs(t, p.Stage(binding.ResourceUniforms, make([]byte, 192)), ErrSizeMismatch)
	assert.NoError(t, p.Stage(binding.ResourceUniforms, make([]byte, 240)))

	assert.ErrorIs(t, p.Stage(binding.ResourceLights, nil), ErrSizeMismatch)
	assert.ErrorIs(t, p.Stage(binding.ResourceLights, make([]byte, 100)), ErrSizeMismatch)
	assert.NoError(t, p.Stage(binding.ResourceVertices, make([]byte, 56*3)))

	assert.Len(t, p.Writes(), 3)
	assert.Equal(t, 32+240+56*3, p.StagedBytes())
}

func TestStageRejectsStaleAndNonBuffer(t *testing.T) {
	p, err := NewBindGroupProvider("frame", WithRevision(binding.Revision1))
	require.NoError(t, err)

	assert.ErrorIs(t, p.Stage(binding.ResourceMaterial, make([]byte, 48)), binding.ErrStaleBinding)
	assert.ErrorIs(t, p.Stage(binding.ResourceSkybox, make([]byte, 64)), binding.ErrStaleBinding)
	assert.ErrorIs(t, p.Stage(binding.ResourceBaseColorTexture, make([]byte, 4)), ErrNotBuffer)
	assert.Empty(t, p.Writes())
}

func TestStageElement(t *testing.T) {
	p, err := NewBindGroupProvider("frame", WithCapacity(binding.ResourceLights, 4))
	require.NoError(t, err)

	require.NoError(t, p.StageElement(binding.ResourceLights, 3, make([]byte, 96)))
	w := p.Writes()[0]
	assert.Equal(t, uint64(288), w.Offset)
	assert.Equal(t, uint32(2), w.Slot)

	assert.ErrorIs(t, p.StageElement(binding.ResourceLights, 0, make([]byte, 192)), ErrSizeMismatch)
	assert.ErrorIs(t, p.StageElement(binding.ResourceLights, -1, make([]byte, 96)), ErrSizeMismatch)
	assert.ErrorIs(t, p.StageElement(binding.ResourceMaterial, 0, make([]byte, 48)), ErrSizeMismatch)
}

func TestResetAndWritesCopy(t *testing.T) {
	p, err := NewBindGroupProvider("frame")
	require.NoError(t, err)
	require.NoError(t, p.Stage(binding.ResourceMaterial, make([]byte, 48)))

	writes := p.Writes()
	writes[0].Slot = 99
	assert.Equal(t, uint32(14), p.Writes()[0].Slot)

	p.Reset()
	assert.Empty(t, p.Writes())
	assert.Equal(t, 0, p.StagedBytes())
}

func TestEntries(t *testing.T) {
	p, err := NewBindGroupProvider("frame", WithRevision(binding.Revision2))
	require.NoError(t, err)

	entries := p.Entries(binding.GroupBuffers)
	require.Len(t, entries, 5)
	byBinding := map[uint32]wgpu.BindGroupLayoutEntry{}
	for _, e := range entries {
		byBinding[e.Binding] = e
	}
	assert.Equal(t, uint64(240), byBinding[1].Buffer.MinBindingSize)
	assert.Equal(t, uint64(96), byBinding[2].Buffer.MinBindingSize)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, byBinding[2].Buffer.Type)
	assert.Equal(t, uint64(32), byBinding[3].Buffer.MinBindingSize)
	assert.Equal(t, uint64(64), byBinding[13].Buffer.MinBindingSize)
	assert.Equal(t, uint64(48), byBinding[14].Buffer.MinBindingSize)

	assert.Len(t, p.Entries(binding.GroupTextures), 6)
}

func TestBuffers(t *testing.T) {
	_, err := NewBindGroupProvider("frame",
		WithRevision(binding.Revision1),
		WithBuffers(map[binding.Resource]*wgpu.Buffer{binding.ResourceMaterial: nil}),
	)
	assert.ErrorIs(t, err, binding.ErrStaleBinding)

	_, err = NewBindGroupProvider("frame", WithRevision(binding.Revision(7)))
	assert.ErrorIs(t, err, binding.ErrUnknownRevision)

	p, err := NewBindGroupProvider("frame", WithBuffers(map[binding.Resource]*wgpu.Buffer{binding.ResourceLights: nil}))
	require.NoError(t, err)
	assert.Nil(t, p.Buffer(binding.ResourceLights))
	assert.ErrorIs(t, p.SetBuffer(binding.ResourceNormalTexture, nil), ErrNotBuffer)

	p.Release()
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.BindGroupLayout())
}

func TestStageRespectsArrayCapacity(t *testing.T) {
	p, err := NewBindGroupProvider("frame", WithCapacity(binding.ResourceLights, 4))
	require.NoError(t, err)
	n, ok := p.Capacity(binding.ResourceLights)
	require.True(t, ok)
	assert.Equal(t, 4, n)

	assert.NoError(t, p.Stage(binding.ResourceLights, make([]byte, 96*4)))
	assert.ErrorIs(t, p.Stage(binding.ResourceLights, make([]byte, 96*5)), ErrOutOfBounds)
	assert.ErrorIs(t, p.Stage(binding.ResourceLights, make([]byte, 96*100000)), ErrOutOfBounds)

	assert.NoError(t, p.StageElement(binding.ResourceLights, 3, make([]byte, 96)))
	assert.ErrorIs(t, p.StageElement(binding.ResourceLights, 4, make([]byte, 96)), ErrOutOfBounds)
	assert.ErrorIs(t, p.StageElement(binding.ResourceLights, 1<<20, make([]byte, 96)), ErrOutOfBounds)

	require.Len(t, p.Writes(), 2)
	assert.Equal(t, 96*5, p.StagedBytes())
}

func TestStageStorageWithoutCapacity(t *testing.T) {
	p, err := NewBindGroupProvider("frame")
	require.NoError(t, err)

	assert.ErrorIs(t, p.Stage(binding.ResourceLights, make([]byte, 96)), ErrOutOfBounds)
	assert.ErrorIs(t, p.StageElement(binding.ResourceLights, 0, make([]byte, 96)), ErrOutOfBounds)
	assert.Empty(t, p.Writes())

	// Vertex buffers stay unbounded until a capacity is declared.
	assert.NoError(t, p.Stage(binding.ResourceVertices, make([]byte, 56*1000)))
	require.NoError(t, p.SetCapacity(binding.ResourceVertices, 3))
	assert.ErrorIs(t, p.Stage(binding.ResourceVertices, make([]byte, 56*4)), ErrOutOfBounds)
}

func TestSetCapacityErrors(t *testing.T) {
	p, err := NewBindGroupProvider("frame", WithRevision(binding.Revision1))
	require.NoError(t, err)

	assert.ErrorIs(t, p.SetCapacity(binding.ResourceUniforms, 4), ErrSizeMismatch)
	assert.ErrorIs(t, p.SetCapacity(binding.ResourceLights, 0), ErrSizeMismatch)
	assert.ErrorIs(t, p.SetCapacity(binding.ResourceMaterial, 4), binding.ErrStaleBinding)
	assert.ErrorIs(t, p.SetCapacity(binding.ResourceBaseColorTexture, 4), ErrNotBuffer)

	_, err = NewBindGroupProvider("frame", WithCapacity(binding.ResourceFragmentUniforms, 2))
	assert.ErrorIs(t, err, ErrSizeMismatch)
}
