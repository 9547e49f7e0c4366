// Package binding is the single source of truth for resource slot numbers shared by
// CPU upload code and WGSL shader declarations. Every pipeline revision declares its
// complete table in one literal (see table.go); nothing else in the module may
// hard-code a buffer, texture or attribute slot.
package binding

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrUnknownRevision is returned when a revision tag has no declared table.
	ErrUnknownRevision = errors.New("binding: unknown pipeline revision")

	// ErrUnknownResource is returned when a resource name or value is not recognised.
	ErrUnknownResource = errors.New("binding: unknown resource")

	// ErrStaleBinding is returned when a resource is not part of the requested revision.
	ErrStaleBinding = errors.New("binding: resource not bound in revision")

	// ErrSlotCollision is returned by Validate when two resources of one class share a slot.
	ErrSlotCollision = errors.New("binding: slot collision")

	// ErrSlotRange is returned by Validate when a slot exceeds the WebGPU limit for its class.
	ErrSlotRange = errors.New("binding: slot out of range")
)

// Revision identifies a pipeline revision. Slot numbers, record shapes and vertex
// formats are all versioned together behind this tag.
type Revision int

const (
	// Revision1 is the textured-quad pipeline: 2D positions, no normals, buffer slots 0/1/3/4.
	Revision1 Revision = iota + 1

	// Revision2 is the lit mesh pipeline with normal mapping, compacted buffer slots 0/1/2/3,
	// plus slots 13/14 for the skybox and material buffers.
	Revision2
)

// LatestRevision is the revision used when none is requested.
const LatestRevision = Revision2

// Revisions lists every declared revision in ascending order.
func Revisions() []Revision {
	return []Revision{Revision1, Revision2}
}

func (r Revision) String() string {
	return fmt.Sprintf("r%d", int(r))
}

// Class groups resources whose slots share one numbering space.
type Class int

const (
	// ClassBuffer covers vertex, uniform and storage buffers.
	ClassBuffer Class = iota

	// ClassTexture covers texture channels. Each texture's sampler shares its slot number.
	ClassTexture

	// ClassAttribute covers vertex-stage input locations.
	ClassAttribute
)

func (c Class) String() string {
	switch c {
	case ClassBuffer:
		return "buffer"
	case ClassTexture:
		return "texture"
	case ClassAttribute:
		return "attribute"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Kind describes how a resource is declared on the shader side.
type Kind int

const (
	// KindVertexBuffer is a vertex buffer slot. It never appears in a bind group.
	KindVertexBuffer Kind = iota

	// KindUniform is declared as var<uniform>.
	KindUniform

	// KindReadOnlyStorage is declared as var<storage, read> over a runtime-sized array.
	KindReadOnlyStorage

	// KindTexture2D is declared as texture_2d<f32>.
	KindTexture2D

	// KindTextureCube is declared as texture_cube<f32>.
	KindTextureCube

	// KindAttribute is a @location input of the vertex stage.
	KindAttribute
)

// Resource is a logical resource that owns a slot in a revision's table.
type Resource int

const (
	ResourceNone Resource = iota

	// Buffers
	ResourceVertices
	ResourceUniforms
	ResourceLights
	ResourceFragmentUniforms
	// ResourceSkybox is the skybox view-projection uniform. Slot 13 names the skybox
	// buffer; it is a bind group entry because WebGPU caps vertex buffer slots at 8.
	ResourceSkybox
	ResourceMaterial

	// Textures
	ResourceBaseColorTexture
	ResourceNormalTexture
	ResourceRoughnessTexture
	ResourceMetallicTexture
	ResourceAOTexture
	ResourceCubeMap

	// Vertex attributes
	AttributePosition
	AttributeNormal
	AttributeTextureCoord
	AttributeTangent
	AttributeBitangent
)

// resourceInfo is the static description of a resource, independent of revision.
type resourceInfo struct {
	name       string
	class      Class
	kind       Kind
	visibility wgpu.ShaderStage
}

var resources = map[Resource]resourceInfo{
	ResourceVertices:         {"vertices", ClassBuffer, KindVertexBuffer, wgpu.ShaderStageVertex},
	ResourceUniforms:         {"uniforms", ClassBuffer, KindUniform, wgpu.ShaderStageVertex | wgpu.ShaderStageFragment},
	ResourceLights:           {"lights", ClassBuffer, KindReadOnlyStorage, wgpu.ShaderStageFragment},
	ResourceFragmentUniforms: {"fragment_uniforms", ClassBuffer, KindUniform, wgpu.ShaderStageFragment},
	ResourceSkybox:           {"skybox", ClassBuffer, KindUniform, wgpu.ShaderStageVertex},
	ResourceMaterial:         {"material", ClassBuffer, KindUniform, wgpu.ShaderStageFragment},

	ResourceBaseColorTexture: {"base_color_texture", ClassTexture, KindTexture2D, wgpu.ShaderStageFragment},
	ResourceNormalTexture:    {"normal_texture", ClassTexture, KindTexture2D, wgpu.ShaderStageFragment},
	ResourceRoughnessTexture: {"roughness_texture", ClassTexture, KindTexture2D, wgpu.ShaderStageFragment},
	ResourceMetallicTexture:  {"metallic_texture", ClassTexture, KindTexture2D, wgpu.ShaderStageFragment},
	ResourceAOTexture:        {"ao_texture", ClassTexture, KindTexture2D, wgpu.ShaderStageFragment},
	ResourceCubeMap:          {"cube_map", ClassTexture, KindTextureCube, wgpu.ShaderStageFragment},

	AttributePosition:     {"position", ClassAttribute, KindAttribute, wgpu.ShaderStageVertex},
	AttributeNormal:       {"normal", ClassAttribute, KindAttribute, wgpu.ShaderStageVertex},
	AttributeTextureCoord: {"texture_coord", ClassAttribute, KindAttribute, wgpu.ShaderStageVertex},
	AttributeTangent:      {"tangent", ClassAttribute, KindAttribute, wgpu.ShaderStageVertex},
	AttributeBitangent:    {"bitangent", ClassAttribute, KindAttribute, wgpu.ShaderStageVertex},
}

// Name returns the snake_case identifier used in annotations and config files.
func (r Resource) Name() string {
	if info, ok := resources[r]; ok {
		return info.name
	}
	return ""
}

func (r Resource) String() string {
	if name := r.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("resource(%d)", int(r))
}

// Class returns the numbering space the resource's slot belongs to.
func (r Resource) Class() Class {
	return resources[r].class
}

// Kind returns how the resource is declared on the shader side.
func (r Resource) Kind() Kind {
	return resources[r].kind
}

// Visibility returns the shader stages that read the resource.
func (r Resource) Visibility() wgpu.ShaderStage {
	return resources[r].visibility
}

// ParseResource resolves a resource from its snake_case name.
//
// Parameters:
//   - name: the resource identifier, e.g. "lights" or "base_color_texture"
//
// Returns:
//   - Resource: the matching resource
//   - error: ErrUnknownResource if no resource carries that name
func ParseResource(name string) (Resource, error) {
	for r, info := range resources {
		if info.name == name {
			return r, nil
		}
	}
	return ResourceNone, fmt.Errorf("%w: %q", ErrUnknownResource, name)
}

// Group returns the WGSL bind group a resource of the given class is declared in.
// Vertex buffers and attributes have no group and report false.
//
// Parameters:
//   - r: the resource to locate
//
// Returns:
//   - uint32: the @group index
//   - bool: false for resources that are not part of a bind group
func Group(r Resource) (uint32, bool) {
	switch r.Kind() {
	case KindUniform, KindReadOnlyStorage:
		return GroupBuffers, true
	case KindTexture2D, KindTextureCube:
		return GroupTextures, true
	default:
		return 0, false
	}
}

const (
	// GroupBuffers holds every uniform and storage buffer at @binding(slot).
	GroupBuffers uint32 = 0

	// GroupTextures holds every texture channel at @binding(slot).
	GroupTextures uint32 = 1

	// GroupSamplers holds the sampler paired with each texture, at the texture's slot.
	GroupSamplers uint32 = 2
)

// WebGPU default limits enforced by Validate.
const (
	maxBindingIndex    = 1000
	maxVertexBuffers   = 8
	maxVertexAttribute = 16
)
