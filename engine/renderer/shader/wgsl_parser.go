package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslVertexFormatMap maps WGSL type names to their corresponding wgpu vertex format and byte size
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
	"u32":       {wgpu.VertexFormatUint32, 4},
	"vec2<u32>": {wgpu.VertexFormatUint32x2, 8},
	"vec4<u32>": {wgpu.VertexFormatUint32x4, 16},
	"i32":       {wgpu.VertexFormatSint32, 4},
}

// wgslSampledTextureMap maps WGSL sampled texture base names to their view dimension and multisampled flag
var wgslSampledTextureMap = map[string]sampledTextureInfo{
	"texture_2d":              {wgpu.TextureViewDimension2D, false},
	"texture_2d_array":        {wgpu.TextureViewDimension2DArray, false},
	"texture_3d":              {wgpu.TextureViewDimension3D, false},
	"texture_cube":            {wgpu.TextureViewDimensionCube, false},
	"texture_multisampled_2d": {wgpu.TextureViewDimension2D, true},
}

// wgslSampleTypeMap maps WGSL scalar type parameters to their wgpu texture sample type
var wgslSampleTypeMap = map[string]wgpu.TextureSampleType{
	"f32": wgpu.TextureSampleTypeFloat,
	"i32": wgpu.TextureSampleTypeSint,
	"u32": wgpu.TextureSampleTypeUint,
}

var (
	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// locationRegex matches @location(N) attributes
	locationRegex = regexp.MustCompile(`@location\((\d+)\)`)

	// builtinRegex matches @builtin(...) attributes
	builtinRegex = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches a struct field line: optional attributes, name, colon, type.
	// The type capture (.+) is greedy to handle parameterized types like array<T, N>.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	// vertexEntryRegex matches @vertex functions and captures the entry point name
	vertexEntryRegex = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)`)

	// fragmentEntryRegex matches @fragment functions and captures the entry point name
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(1) var<uniform> uniforms: Uniforms;
	// or handle types: @group(1) @binding(0) var base_color_texture: texture_2d<f32>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// ParseStructLayouts resolves the host-shareable memory layout of every struct in a WGSL
// source. Structs that reference unknown types are left out of the result.
//
// Parameters:
//   - source: the WGSL source code
//
// Returns:
//   - map[string]StructLayout: layouts keyed by struct name
func ParseStructLayouts(source string) map[string]StructLayout {
	structs := parseStructBlocks(stripComments(source))
	resolved := computeStructSizes(structs)

	result := make(map[string]StructLayout, len(resolved))
	for _, ps := range structs {
		if _, ok := resolved[ps.name]; !ok {
			continue
		}
		fields, tl, ok := computeFieldLayouts(ps, resolved)
		if !ok {
			continue
		}
		result[ps.name] = StructLayout{
			Name:   ps.name,
			Size:   tl.size,
			Align:  tl.align,
			Fields: fields,
		}
	}
	return result
}

// ParseBindings extracts every @group/@binding variable declaration from a WGSL source,
// ordered by group and then binding.
//
// Parameters:
//   - source: the WGSL source code
//
// Returns:
//   - []BindingDecl: the declarations found
func ParseBindings(source string) []BindingDecl {
	cleaned := stripComments(source)
	matches := bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1)

	decls := make([]BindingDecl, 0, len(matches))
	for _, match := range matches {
		group, _ := strconv.ParseUint(match[1], 10, 32)
		binding, _ := strconv.ParseUint(match[2], 10, 32)
		decls = append(decls, BindingDecl{
			Group:        uint32(group),
			Binding:      uint32(binding),
			AddressSpace: strings.TrimSpace(match[3]),
			Var:          strings.TrimSpace(match[4]),
			Type:         strings.TrimSpace(match[5]),
		})
	}
	sort.SliceStable(decls, func(i, j int) bool {
		if decls[i].Group != decls[j].Group {
			return decls[i].Group < decls[j].Group
		}
		return decls[i].Binding < decls[j].Binding
	})
	return decls
}

// ParseBindGroupLayouts builds wgpu bind group layout descriptors from the resource
// declarations of a WGSL source. Buffer entries carry a MinBindingSize resolved from the
// bound type; the provided visibility is applied to every entry.
//
// Parameters:
//   - source: the WGSL source code
//   - visibility: the shader stage visibility flag to set on each entry
//
// Returns:
//   - map[uint32]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
func ParseBindGroupLayouts(source string, visibility wgpu.ShaderStage) map[uint32]wgpu.BindGroupLayoutDescriptor {
	structSizes := computeStructSizes(parseStructBlocks(stripComments(source)))

	groups := make(map[uint32][]wgpu.BindGroupLayoutEntry)
	for _, decl := range ParseBindings(source) {
		entry := classifyResource(decl.Binding, visibility, decl.AddressSpace, decl.Type)
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if tl, ok := resolveTypeLayout(decl.Type, structSizes); ok && tl.size > 0 {
				entry.Buffer.MinBindingSize = tl.size
			}
		}
		groups[decl.Group] = append(groups[decl.Group], entry)
	}

	result := make(map[uint32]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result
}

// ParseVertexLayouts extracts vertex buffer layouts from WGSL source code.
// It finds all structs that are pure vertex inputs (have @location attributes but no @builtin
// fields) and converts them into wgpu.VertexBufferLayout entries. Structs containing
// unrecognized WGSL types are skipped.
//
// Parameters:
//   - source: the WGSL source code
//
// Returns:
//   - map[string]wgpu.VertexBufferLayout: vertex layouts keyed by struct name
func ParseVertexLayouts(source string) map[string]wgpu.VertexBufferLayout {
	result := make(map[string]wgpu.VertexBufferLayout)
	for _, ps := range parseStructBlocks(stripComments(source)) {
		if !isVertexInputStruct(ps) {
			continue
		}
		vbl, ok := buildVertexBufferLayout(ps)
		if !ok {
			continue
		}
		result[ps.name] = vbl
	}
	return result
}

// parseEntryPoint extracts the entry point function name for the given shader type
// from WGSL source. Returns an empty string if no matching entry point annotation is found.
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := stripComments(source)

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}

// parseStructBlocks finds all struct { ... } blocks in the cleaned WGSL source
// and parses their fields including @location and @builtin attributes
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))

	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}

	return structs
}

// parseStructFields parses the body of a struct block into individual fields,
// extracting @location and @builtin attributes along with the field name and type
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field := parsedField{location: -1}
		if builtinRegex.MatchString(line) {
			field.isBuiltin = true
		}
		if locMatch := locationRegex.FindStringSubmatch(line); locMatch != nil {
			if loc, err := strconv.Atoi(locMatch[1]); err == nil {
				field.location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}

	return fields
}
