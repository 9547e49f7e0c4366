package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// sampledTextureInfo holds the view dimension and multisampled flag for a sampled texture type
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslTypeLayout holds the byte size and alignment of a WGSL host-shareable type.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}

// FieldLayout is one member of a WGSL struct as placed by the host-shareable layout rules.
type FieldLayout struct {
	Name string
	Type string

	// Offset is the byte offset of the member from the start of the struct.
	Offset uint64

	// Size is the member's size in bytes. Runtime-sized arrays report 0.
	Size uint64
}

// StructLayout is the resolved memory layout of a WGSL struct.
type StructLayout struct {
	Name   string
	Size   uint64
	Align  uint64
	Fields []FieldLayout
}

// Field looks up a member by name.
func (s StructLayout) Field(name string) (FieldLayout, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldLayout{}, false
}

// BindingDecl is a single @group/@binding variable declaration found in WGSL source.
type BindingDecl struct {
	Group   uint32
	Binding uint32

	// AddressSpace is the var<...> qualifier, e.g. "uniform" or "storage, read".
	// Empty for handle types such as textures and samplers.
	AddressSpace string

	Var  string
	Type string
}
