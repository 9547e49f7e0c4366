package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-abi/engine/frame"
	"github.com/Carmen-Shannon/oxy-abi/engine/light"
	"github.com/Carmen-Shannon/oxy-abi/engine/model"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/material"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id            uint64
	enabled       atomic.Bool
	mdl           model.Model
	shadingModel  material.ShadingModel
	attachedLight light.Light
}

// GameObject is a scene entity: a model drawn under a shading model, optionally
// carrying a light that follows it. A GameObject is a frame.Drawable; Collect
// wraps objects with their own shading model as frame.Shaded.
type GameObject interface {
	frame.Drawable

	// ID returns the object's unique identifier.
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Model returns the Model associated with this object, or nil if not set.
	Model() model.Model

	// Shading returns the shading model the object's material is written under.
	// 0 means the assembler's default.
	Shading() material.ShadingModel

	// Light returns the light attached to this object, or nil.
	Light() light.Light

	// SetEnabled sets whether the object is enabled for rendering.
	SetEnabled(enabled bool)

	// SetModel assigns a Model to this object.
	SetModel(m model.Model)

	// SetLight attaches a light that follows the object's position.
	SetLight(l light.Light)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a GameObject, enabled by default.
//
// Parameters:
//   - opts: variadic list of GameObjectBuilderOption functions
//
// Returns:
//   - GameObject: the new object
func NewGameObject(opts ...GameObjectBuilderOption) GameObject {
	g := &gameObject{}
	g.enabled.Store(true)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Model() model.Model {
	return g.mdl
}

func (g *gameObject) Shading() material.ShadingModel {
	return g.shadingModel
}

func (g *gameObject) Light() light.Light {
	return g.attachedLight
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetModel(m model.Model) {
	g.mdl = m
}

func (g *gameObject) SetLight(l light.Light) {
	g.attachedLight = l
}

// ModelMatrix returns the model's transform, or identity without a model.
func (g *gameObject) ModelMatrix() mgl32.Mat4 {
	if g.mdl == nil {
		return mgl32.Ident4()
	}
	return g.mdl.ModelMatrix()
}

// Material returns the model's material, or nil for the default material.
func (g *gameObject) Material() material.Material {
	if g.mdl == nil {
		return nil
	}
	return g.mdl.Material()
}

// shaded exposes a GameObject's own shading model to the frame assembler.
type shaded struct {
	*gameObject
}

var _ frame.Shaded = shaded{}

func (s shaded) ShadingModel() material.ShadingModel {
	return s.shadingModel
}

// Collect gathers the draws and lights of enabled objects in order. Objects with an
// explicit shading model are returned as frame.Shaded draws. Attached lights are moved
// to their object's position before they are returned.
//
// Parameters:
//   - objects: the scene's objects
//
// Returns:
//   - []frame.Drawable: one draw per enabled object with a model
//   - []light.Light: the lights attached to enabled objects
func Collect(objects []GameObject) ([]frame.Drawable, []light.Light) {
	draws := make([]frame.Drawable, 0, len(objects))
	var lights []light.Light
	for _, obj := range objects {
		if obj == nil || !obj.Enabled() {
			continue
		}
		if l := obj.Light(); l != nil {
			if m := obj.Model(); m != nil {
				p := m.Transform().Position
				l.SetPosition(p[0], p[1], p[2])
			}
			lights = append(lights, l)
		}
		if obj.Model() == nil {
			continue
		}
		if g, ok := obj.(*gameObject); ok && g.shadingModel.Valid() {
			draws = append(draws, shaded{g})
			continue
		}
		draws = append(draws, obj)
	}
	return draws, lights
}
