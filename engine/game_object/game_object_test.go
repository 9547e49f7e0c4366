package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-abi/engine/camera"
	"github.com/Carmen-Shannon/oxy-abi/engine/frame"
	"github.com/Carmen-Shannon/oxy-abi/engine/light"
	"github.com/Carmen-Shannon/oxy-abi/engine/model"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject(WithID(7))
	assert.Equal(t, uint64(7), obj.ID())
	assert.True(t, obj.Enabled())
	assert.Nil(t, obj.Model())
	assert.Nil(t, obj.Material())
	assert.Equal(t, mgl32.Ident4(), obj.ModelMatrix())
	assert.Equal(t, material.ShadingModel(0), obj.Shading())

	_, isShaded := obj.(frame.Shaded)
	assert.False(t, isShaded)
}

func TestCollect(t *testing.T) {
	lamp := light.NewLight(light.LightTypePointlight)
	red := material.NewMaterial(material.WithBaseColor([4]float32{1, 0, 0, 1}))

	pbr := NewGameObject(
		WithID(1),
		WithModel(model.NewModel(model.WithPosition(mgl32.Vec3{1, 2, 3}), model.WithMaterial(red))),
		WithShadingModel(material.ShadingModelPBR),
		WithLight(lamp),
	)
	hidden := NewGameObject(WithID(2), WithModel(model.NewModel()), WithEnabled(false), WithLight(light.NewLight(light.LightTypeSunlight)))
	lightOnly := NewGameObject(WithID(3), WithLight(light.NewLight(light.LightTypeAmbientlight)))
	plain := NewGameObject(WithID(4), WithModel(model.NewModel()))

	draws, lights := Collect([]GameObject{pbr, hidden, nil, lightOnly, plain})
	require.Len(t, draws, 2)
	require.Len(t, lights, 2)

	assert.Equal(t, [3]float32{1, 2, 3}, lamp.Position())
	assert.Same(t, lamp, lights[0])
	assert.Equal(t, light.LightTypeAmbientlight, lights[1].Type())

	s, ok := draws[0].(frame.Shaded)
	require.True(t, ok)
	assert.Equal(t, material.ShadingModelPBR, s.ShadingModel())
	assert.Equal(t, red, draws[0].Material())
	_, ok = draws[1].(frame.Shaded)
	assert.False(t, ok)
}

func TestCollectFeedsAssembler(t *testing.T) {
	objects := []GameObject{
		NewGameObject(WithModel(model.NewModel()), WithShadingModel(material.ShadingModelPBR)),
		NewGameObject(WithModel(model.NewModel())),
	}
	draws, lights := Collect(objects)

	a, err := frame.NewAssembler()
	require.NoError(t, err)
	f, err := frame.NewFrame(a.Revision())
	require.NoError(t, err)
	require.NoError(t, a.Assemble(f, camera.NewCamera(), lights, draws))

	want := []material.ShadingModel{material.ShadingModelPBR, material.ShadingModelPhong}
	for i, p := range f.Draws() {
		writes := p.Writes()
		require.Len(t, writes, 2)
		var m material.GPUMaterial
		require.NoError(t, m.Unmarshal(writes[1].Data))
		assert.Equal(t, uint32(want[i]), m.ShadingModel)
	}
}
