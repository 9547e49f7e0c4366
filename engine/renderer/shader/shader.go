package shader

import (
	"fmt"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader source provides.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex shader type, used for vertex processing in render pipelines.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment shader type, used for fragment processing in pair with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) visibility() wgpu.ShaderStage {
	switch t {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[uint32]wgpu.BindGroupLayoutDescriptor
	bindings                   []BindingDecl
	vertexLayouts              map[string]wgpu.VertexBufferLayout
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
	declarations               []Annotation
}

// Shader is a pre-processed WGSL source together with the layout metadata parsed
// from it: its entry point, bind group layouts, resource declarations and vertex input
// layouts. It never touches a GPU device; Module returns the descriptor a renderer
// compiles.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// BindGroupLayoutDescriptor retrieves the bind group layout descriptor for a group index.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is not used
	BindGroupLayoutDescriptor(group uint32) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors.
	//
	// Returns:
	//   - map[uint32]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[uint32]wgpu.BindGroupLayoutDescriptor

	// Bindings returns every resource declaration in the processed source, ordered by
	// group and binding.
	Bindings() []BindingDecl

	// BindGroupVarName retrieves the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if nothing is declared there
	BindGroupVarName(group, binding uint32) string

	// VertexLayouts retrieves the vertex buffer layouts of the shader's vertex input structs.
	// Only vertex shaders report layouts.
	//
	// Returns:
	//   - map[string]wgpu.VertexBufferLayout: layouts keyed by struct name
	VertexLayouts() map[string]wgpu.VertexBufferLayout

	// EntryPoint returns the entry point name for this shader.
	EntryPoint() string

	// Module returns the wgpu.ShaderModuleDescriptor built from the processed source.
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the stage this shader provides.
	ShaderType() ShaderType

	// Declarations returns the bind and sampler annotations the pre-processor resolved.
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes a WGSL source and parses its layout metadata.
//
// Parameters:
//   - key: a unique identifier for the shader, used for caching and lookups
//   - shaderType: the stage the source provides
//   - source: the raw WGSL source with annotations
//   - pp: the pre-processor of the target revision
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if pre-processing fails or the source has no entry point for shaderType
func NewShader(key string, shaderType ShaderType, source string, pp PreProcessor) (Shader, error) {
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader: %s: %w", key, err)
	}

	s := &shader{
		key:        key,
		source:     processed,
		shaderType: shaderType,
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: processed,
			},
		},
		declarations: append([]Annotation(nil), pp.Declarations()...),
	}
	s.entryPoint = parseEntryPoint(processed, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader: %s: no entry point for shader type %d", key, shaderType)
	}
	if shaderType == ShaderTypeVertex {
		s.vertexLayouts = ParseVertexLayouts(processed)
	}
	s.bindings = ParseBindings(processed)
	s.bindGroupLayoutDescriptors = ParseBindGroupLayouts(processed, shaderType.visibility())
	return s, nil
}

// NewShaderFromPath reads a WGSL file and passes it to NewShader.
func NewShaderFromPath(key string, shaderType ShaderType, path string, pp PreProcessor) (Shader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shader: failed to read source file %q: %w", path, err)
	}
	return NewShader(key, shaderType, string(data), pp)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) BindGroupLayoutDescriptor(group uint32) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[uint32]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) Bindings() []BindingDecl {
	return s.bindings
}

func (s *shader) BindGroupVarName(group, binding uint32) string {
	for _, b := range s.bindings {
		if b.Group == group && b.Binding == binding {
			return b.Var
		}
	}
	return ""
}

func (s *shader) VertexLayouts() map[string]wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
