package model

import (
	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithVertices is an option builder that packs Revision2 vertices as the model's vertex data.
//
// Parameters:
//   - vertices: the mesh vertices
//
// Returns:
//   - ModelBuilderOption: a function that applies the vertex data to a model
func WithVertices(vertices []GPUVertex) ModelBuilderOption {
	return func(m *model) {
		m.revision = binding.Revision2
		m.vertexData = MarshalVertices(vertices)
		m.vertexCount = len(vertices)
	}
}

// WithTexturedVertices is an option builder that packs Revision1 vertices as the model's vertex data.
//
// Parameters:
//   - vertices: the mesh vertices
//
// Returns:
//   - ModelBuilderOption: a function that applies the vertex data to a model
func WithTexturedVertices(vertices []GPUTexturedVertex) ModelBuilderOption {
	return func(m *model) {
		m.revision = binding.Revision1
		m.vertexData = MarshalTexturedVertices(vertices)
		m.vertexCount = len(vertices)
	}
}

// WithPosition is an option builder that sets the world position.
func WithPosition(position mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.transform.Position = position
	}
}

// WithRotation is an option builder that sets the Euler rotation in radians.
func WithRotation(rotation mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.transform.Rotation = rotation
	}
}

// WithScale is an option builder that sets the per-axis scale.
func WithScale(scale mgl32.Vec3) ModelBuilderOption {
	return func(m *model) {
		m.transform.Scale = scale
	}
}

// WithMaterial is an option builder that sets the material the model is shaded with.
//
// Parameters:
//   - mat: the material
//
// Returns:
//   - ModelBuilderOption: a function that applies the material to a model
func WithMaterial(mat material.Material) ModelBuilderOption {
	return func(m *model) {
		m.material = mat
	}
}
