package binding

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// tables is the one declaration of every slot in every revision. Renumbering a slot
// means editing this literal; shaders pick the change up through the pre-processor
// and upload code through Table lookups, so both sides move together.
var tables = map[Revision]map[Resource]uint32{
	Revision1: {
		ResourceVertices:         0,
		ResourceUniforms:         1,
		ResourceLights:           3,
		ResourceFragmentUniforms: 4,

		ResourceBaseColorTexture: 0,

		AttributePosition:     0,
		AttributeTextureCoord: 1,
	},
	Revision2: {
		ResourceVertices:         0,
		ResourceUniforms:         1,
		ResourceLights:           2,
		ResourceFragmentUniforms: 3,
		ResourceSkybox:           13,
		ResourceMaterial:         14,

		ResourceBaseColorTexture: 0,
		ResourceNormalTexture:    1,
		ResourceRoughnessTexture: 2,
		ResourceMetallicTexture:  3,
		ResourceAOTexture:        4,
		ResourceCubeMap:          5,

		AttributePosition:     0,
		AttributeNormal:       1,
		AttributeTextureCoord: 2,
		AttributeTangent:      3,
		AttributeBitangent:    4,
	},
}

// Table is the read-only slot assignment of one revision.
type Table struct {
	revision Revision
	slots    map[Resource]uint32
}

// TableFor returns the binding table declared for a revision.
//
// Parameters:
//   - rev: the pipeline revision
//
// Returns:
//   - *Table: the table for rev
//   - error: ErrUnknownRevision if rev has no declared table
func TableFor(rev Revision) (*Table, error) {
	slots, ok := tables[rev]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRevision, int(rev))
	}
	return &Table{revision: rev, slots: slots}, nil
}

// MustTable is TableFor for revisions known at compile time. It panics on an unknown revision.
func MustTable(rev Revision) *Table {
	t, err := TableFor(rev)
	if err != nil {
		panic(err)
	}
	return t
}

// Revision returns the revision this table belongs to.
func (t *Table) Revision() Revision {
	return t.revision
}

// Slot returns the slot bound to a resource.
//
// Parameters:
//   - r: the resource to look up
//
// Returns:
//   - uint32: the slot number
//   - bool: false if the resource is not part of this revision
func (t *Table) Slot(r Resource) (uint32, bool) {
	s, ok := t.slots[r]
	return s, ok
}

// Lookup is Slot with a descriptive error for resources missing from the revision.
func (t *Table) Lookup(r Resource) (uint32, error) {
	s, ok := t.slots[r]
	if !ok {
		return 0, fmt.Errorf("%w: %s in %s", ErrStaleBinding, r, t.revision)
	}
	return s, nil
}

// MustSlot returns the slot bound to a resource and panics if the revision lacks it.
func (t *Table) MustSlot(r Resource) uint32 {
	s, err := t.Lookup(r)
	if err != nil {
		panic(err)
	}
	return s
}

// Has reports whether the resource is part of this revision.
func (t *Table) Has(r Resource) bool {
	_, ok := t.slots[r]
	return ok
}

// Resources returns the resources of one class ordered by slot.
//
// Parameters:
//   - class: the numbering space to enumerate
//
// Returns:
//   - []Resource: resources in ascending slot order
func (t *Table) Resources(class Class) []Resource {
	var out []Resource
	for r := range t.slots {
		if r.Class() == class {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b Resource) int {
		return int(t.slots[a]) - int(t.slots[b])
	})
	return out
}

// ResourceAt returns the resource a bind group entry belongs to. Entries of
// GroupSamplers report the texture the sampler is paired with.
//
// Parameters:
//   - group: the @group index
//   - slot: the @binding index
//
// Returns:
//   - Resource: the resource declared at group and slot
//   - bool: false if the revision declares nothing there
func (t *Table) ResourceAt(group, slot uint32) (Resource, bool) {
	var class Class
	switch group {
	case GroupBuffers:
		class = ClassBuffer
	case GroupTextures, GroupSamplers:
		class = ClassTexture
	default:
		return ResourceNone, false
	}
	for r, s := range t.slots {
		if s != slot || r.Class() != class {
			continue
		}
		if _, ok := Group(r); ok {
			return r, true
		}
	}
	return ResourceNone, false
}

// Validate checks that slots are pairwise unique within each class and that every
// slot is inside the WebGPU default limit for its class. All violations are joined.
//
// Returns:
//   - error: nil if the table is well formed
func (t *Table) Validate() error {
	var errs []error
	seen := make(map[Class]map[uint32]Resource)
	for _, class := range []Class{ClassBuffer, ClassTexture, ClassAttribute} {
		seen[class] = make(map[uint32]Resource)
		for _, r := range t.Resources(class) {
			slot := t.slots[r]
			if prev, dup := seen[class][slot]; dup {
				errs = append(errs, fmt.Errorf("%w: %s %s and %s share slot %d in %s", ErrSlotCollision, class, prev, r, slot, t.revision))
				continue
			}
			seen[class][slot] = r
			if limit := slotLimit(r); slot >= limit {
				errs = append(errs, fmt.Errorf("%w: %s slot %d exceeds %d in %s", ErrSlotRange, r, slot, limit, t.revision))
			}
		}
	}
	return errors.Join(errs...)
}

// ValidateAll runs Validate over every declared revision.
func ValidateAll() error {
	var errs []error
	for _, rev := range Revisions() {
		errs = append(errs, MustTable(rev).Validate())
	}
	return errors.Join(errs...)
}

// slotLimit returns the exclusive upper bound on a resource's slot.
func slotLimit(r Resource) uint32 {
	switch r.Kind() {
	case KindVertexBuffer:
		return maxVertexBuffers
	case KindAttribute:
		return maxVertexAttribute
	default:
		return maxBindingIndex
	}
}

// Declaration renders the WGSL declaration binding a resource at its slot.
//
// Parameters:
//   - r: the resource to declare
//   - varName: the WGSL variable name
//   - wgslType: the record type for buffers; ignored for textures
//
// Returns:
//   - string: a complete WGSL declaration ending in ';'
//   - error: ErrStaleBinding if r is not in this revision, or an error if r has no bind group
func (t *Table) Declaration(r Resource, varName, wgslType string) (string, error) {
	slot, err := t.Lookup(r)
	if err != nil {
		return "", err
	}
	group, ok := Group(r)
	if !ok {
		return "", fmt.Errorf("binding: %s is not declared in a bind group", r)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "@group(%d) @binding(%d) ", group, slot)
	switch r.Kind() {
	case KindUniform:
		fmt.Fprintf(&sb, "var<uniform> %s: %s;", varName, wgslType)
	case KindReadOnlyStorage:
		fmt.Fprintf(&sb, "var<storage, read> %s: array<%s>;", varName, wgslType)
	case KindTexture2D:
		fmt.Fprintf(&sb, "var %s: texture_2d<f32>;", varName)
	case KindTextureCube:
		fmt.Fprintf(&sb, "var %s: texture_cube<f32>;", varName)
	}
	return sb.String(), nil
}

// SamplerDeclaration renders the WGSL sampler paired with a texture resource.
func (t *Table) SamplerDeclaration(r Resource, varName string) (string, error) {
	if r.Class() != ClassTexture {
		return "", fmt.Errorf("binding: %s is not a texture", r)
	}
	slot, err := t.Lookup(r)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("@group(%d) @binding(%d) var %s: sampler;", GroupSamplers, slot, varName), nil
}

// BindGroupLayoutEntries builds the wgpu layout entries for one bind group of this
// revision, ordered by binding index.
//
// Parameters:
//   - group: GroupBuffers, GroupTextures or GroupSamplers
//   - minSize: returns the minimum binding size of a buffer resource, or 0 if unknown
//
// Returns:
//   - []wgpu.BindGroupLayoutEntry: the entries for the group
func (t *Table) BindGroupLayoutEntries(group uint32, minSize func(Resource) uint64) []wgpu.BindGroupLayoutEntry {
	var entries []wgpu.BindGroupLayoutEntry
	switch group {
	case GroupBuffers:
		for _, r := range t.Resources(ClassBuffer) {
			entry := wgpu.BindGroupLayoutEntry{
				Binding:    t.slots[r],
				Visibility: r.Visibility(),
			}
			switch r.Kind() {
			case KindUniform:
				entry.Buffer.Type = wgpu.BufferBindingTypeUniform
			case KindReadOnlyStorage:
				entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
			default:
				continue
			}
			if minSize != nil {
				entry.Buffer.MinBindingSize = minSize(r)
			}
			entries = append(entries, entry)
		}
	case GroupTextures:
		for _, r := range t.Resources(ClassTexture) {
			entry := wgpu.BindGroupLayoutEntry{
				Binding:    t.slots[r],
				Visibility: r.Visibility(),
			}
			entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
			entry.Texture.ViewDimension = wgpu.TextureViewDimension2D
			if r.Kind() == KindTextureCube {
				entry.Texture.ViewDimension = wgpu.TextureViewDimensionCube
			}
			entries = append(entries, entry)
		}
	case GroupSamplers:
		for _, r := range t.Resources(ClassTexture) {
			entry := wgpu.BindGroupLayoutEntry{
				Binding:    t.slots[r],
				Visibility: r.Visibility(),
			}
			entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
			entries = append(entries, entry)
		}
	}
	return entries
}
