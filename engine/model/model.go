package model

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-abi/common"
	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

// model is the implementation of the Model interface.
type model struct {
	mu *sync.RWMutex

	name        string
	revision    binding.Revision
	vertexData  []byte
	vertexCount int
	transform   Transform
	material    material.Material
}

// Model defines the interface for a drawable mesh: packed vertex data in the vertex
// format of one pipeline revision, a world transform and the material it is shaded
// with. The frame assembler reads ModelMatrix and Material once per draw.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Revision retrieves the pipeline revision whose vertex format VertexData uses.
	//
	// Returns:
	//   - binding.Revision: the vertex format revision
	Revision() binding.Revision

	// VertexData retrieves the packed vertex buffer contents.
	//
	// Returns:
	//   - []byte: vertex bytes ready for upload at the Vertices slot
	VertexData() []byte

	// VertexCount retrieves the number of vertices in VertexData.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// Transform retrieves the decomposed world transform.
	//
	// Returns:
	//   - Transform: position, rotation and scale
	Transform() Transform

	// SetTransform replaces the world transform.
	//
	// Parameters:
	//   - t: the new transform
	SetTransform(t Transform)

	// ModelMatrix composes the world transform into a model matrix.
	//
	// Returns:
	//   - mgl32.Mat4: T * Rx * Ry * Rz * S
	ModelMatrix() mgl32.Mat4

	// Material retrieves the material the model is shaded with, or nil.
	//
	// Returns:
	//   - material.Material: the material
	Material() material.Material

	// SetMaterial sets the material the model is shaded with.
	//
	// Parameters:
	//   - m: the material
	SetMaterial(m material.Material)
}

var _ Model = &model{}

// NewModel creates a new Model instance configured with the provided options.
// The transform defaults to identity (unit scale).
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		mu:        &sync.RWMutex{},
		revision:  binding.LatestRevision,
		transform: IdentityTransform(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Revision() binding.Revision {
	return m.revision
}

func (m *model) VertexData() []byte {
	return m.vertexData
}

func (m *model) VertexCount() int {
	return m.vertexCount
}

func (m *model) Transform() Transform {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.transform
}

func (m *model) SetTransform(t Transform) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transform = t
}

func (m *model) ModelMatrix() mgl32.Mat4 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return common.ModelMatrix(m.transform.Position, m.transform.Rotation, m.transform.Scale)
}

func (m *model) Material() material.Material {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.material
}

func (m *model) SetMaterial(mat material.Material) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.material = mat
}
