package game_object

import (
	"github.com/Carmen-Shannon/oxy-abi/engine/light"
	"github.com/Carmen-Shannon/oxy-abi/engine/model"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/material"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithEnabled sets whether the GameObject is enabled for rendering.
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithModel sets the Model for this GameObject.
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.mdl = m
	}
}

// WithShadingModel sets the shading model the object's material is written under,
// overriding the assembler's default.
//
// Parameters:
//   - sm: material.ShadingModelPhong or material.ShadingModelPBR
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the shading model
func WithShadingModel(sm material.ShadingModel) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.shadingModel = sm
	}
}

// WithLight attaches a light that follows the object.
func WithLight(l light.Light) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.attachedLight = l
	}
}
