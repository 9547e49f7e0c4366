package config

import (
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, binding.LatestRevision, c.BindingRevision())
	assert.Equal(t, light.OverflowDrop, c.OverflowPolicy())
	assert.Equal(t, uint32(16), c.Tiling)
}

func TestParseYAMLKeepsDefaults(t *testing.T) {
	c, err := Parse([]byte("revision: 1\nlight_capacity: 4\noverflow: reject\n"), ".yaml")
	require.NoError(t, err)
	assert.Equal(t, binding.Revision1, c.BindingRevision())
	assert.Equal(t, 4, c.LightCapacity)
	assert.Equal(t, light.OverflowReject, c.OverflowPolicy())
	assert.Equal(t, Default().FramesInFlight, c.FramesInFlight)
	assert.Equal(t, Default().Output, c.Output)

	c, err = Parse(nil, ".yml")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestParseTOML(t *testing.T) {
	c, err := Parse([]byte("tiling = 32\nworkers = 0\nprofiling = true\n"), ".toml")
	require.NoError(t, err)
	assert.Equal(t, uint32(32), c.Tiling)
	assert.Equal(t, 0, c.Workers)
	assert.True(t, c.Profiling)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("light_capasity: 4\n"), ".yaml")
	assert.Error(t, err)

	_, err = Parse([]byte("light_capasity = 4\n"), ".toml")
	assert.Error(t, err)
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte("{}"), ".json")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Marshal(Default(), ".ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestValidateJoinsViolations(t *testing.T) {
	c := Default()
	c.Revision = 9
	c.LightCapacity = 0
	c.Tiling = 0
	c.FramesInFlight = 0
	c.Workers = -1
	c.Overflow = "evict"

	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, binding.ErrUnknownRevision)
	assert.ErrorIs(t, err, light.ErrUnknownOverflowPolicy)
	for _, key := range []string{"light_capacity", "tiling", "frames_in_flight", "workers"} {
		assert.Contains(t, err.Error(), key)
	}
	assert.Equal(t, light.OverflowDrop, c.OverflowPolicy())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	want := Default()
	want.Revision = 1
	want.LightCapacity = 8
	want.Overflow = "reject"
	want.Output = "out/r1.wgsl"

	for _, name := range []string{"oxy.yaml", "oxy.toml"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, Save(want, path))
		got, err := Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
