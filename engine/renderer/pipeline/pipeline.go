// Package pipeline pairs a vertex and a fragment shader of one pipeline revision and
// derives the device-independent parts of a render pipeline from them: the merged bind
// group layouts, the vertex buffer layout and the fixed-function state.
package pipeline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-abi/engine/abi"
	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/model"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrMissingShader is returned when a pipeline lacks its vertex or fragment shader.
	ErrMissingShader = errors.New("pipeline: both vertex and fragment shaders must be set")

	// ErrStageConflict is returned when the two stages declare different resources at
	// the same group and binding.
	ErrStageConflict = errors.New("pipeline: stages disagree on a binding")
)

// pipeline is the implementation of the Pipeline interface.
type pipeline struct {
	key      string
	revision binding.Revision

	vertexShader, fragmentShader shader.Shader

	layouts       map[uint32]wgpu.BindGroupLayoutDescriptor
	vertexBuffers []wgpu.VertexBufferLayout

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
}

// Pipeline is a validated vertex and fragment shader pair of one revision. Creating
// one checks both sources against the revision's binding table and the vertex input
// against the vertex record, so a pipeline built against a stale slot or layout never
// reaches the device.
type Pipeline interface {
	// Key returns the unique key associated with this pipeline, used for caching and lookups.
	Key() string

	// Revision returns the pipeline revision both shaders were processed for.
	Revision() binding.Revision

	// Shader retrieves the shader of a stage.
	//
	// Parameters:
	//   - shaderType: shader.ShaderTypeVertex or shader.ShaderTypeFragment
	//
	// Returns:
	//   - shader.Shader: the stage's shader, or nil for other types
	Shader(shaderType shader.ShaderType) shader.Shader

	// BindGroupLayouts returns the bind group layouts of both stages merged by group.
	// A binding used by both stages is visible to both.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutDescriptor: one descriptor per group index up to the
	//     highest used group, empty for unused groups
	BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor

	// VertexBuffers returns the vertex buffer layouts the vertex stage reads.
	VertexBuffers() []wgpu.VertexBufferLayout

	// Primitive returns the primitive state: topology, front face and cull mode.
	Primitive() wgpu.PrimitiveState

	// DepthStencil returns the depth state for a depth attachment format.
	//
	// Parameters:
	//   - format: the depth attachment format
	//
	// Returns:
	//   - *wgpu.DepthStencilState: the depth state; depth testing disabled compares Always
	DepthStencil(format wgpu.TextureFormat) *wgpu.DepthStencilState

	// ColorTarget returns the color target state for a surface format, with the blend
	// state set only when blending is enabled.
	ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	DepthWriteEnabled() bool

	// BlendEnabled returns whether blending is enabled for this pipeline.
	BlendEnabled() bool
}

var _ Pipeline = &pipeline{}

// NewPipeline validates a shader pair and builds a Pipeline from it.
//
// Parameters:
//   - key: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions; WithVertexShader and
//     WithFragmentShader are required
//
// Returns:
//   - Pipeline: the validated pipeline
//   - error: ErrMissingShader, binding.ErrUnknownRevision, abi.ErrBindingMismatch for
//     declarations off the revision's table, abi.ErrLayoutMismatch for a vertex input
//     that differs from the vertex record, or ErrStageConflict
func NewPipeline(key string, opts ...PipelineBuilderOption) (Pipeline, error) {
	p := &pipeline{
		key:               key,
		revision:          binding.LatestRevision,
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.vertexShader == nil || p.fragmentShader == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingShader, key)
	}
	if p.vertexShader.ShaderType() != shader.ShaderTypeVertex || p.fragmentShader.ShaderType() != shader.ShaderTypeFragment {
		return nil, fmt.Errorf("%w: %s: shaders are in the wrong stages", ErrMissingShader, key)
	}
	if _, err := binding.TableFor(p.revision); err != nil {
		return nil, err
	}

	var errs []error
	for _, s := range []shader.Shader{p.vertexShader, p.fragmentShader} {
		if err := abi.CheckSource(p.revision, s.Source()); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Key(), err))
		}
	}
	if err := p.buildVertexBuffers(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", key, err)
	}

	layouts, err := mergeBindGroupLayouts(p.vertexShader.BindGroupLayoutDescriptors(), p.fragmentShader.BindGroupLayoutDescriptors())
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", key, err)
	}
	p.layouts = layouts
	return p, nil
}

// buildVertexBuffers checks the vertex stage's input struct against the revision's
// vertex record. Shaders without a vertex input, such as a full-screen skybox pass,
// read no vertex buffers.
func (p *pipeline) buildVertexBuffers() error {
	rec, err := model.VertexRecordFor(p.revision)
	if err != nil {
		return err
	}
	parsed, ok := p.vertexShader.VertexLayouts()[rec.WGSLType]
	if !ok {
		return nil
	}
	if err := abi.CheckVertexLayout(p.revision, parsed); err != nil {
		return fmt.Errorf("%s: %w", p.vertexShader.Key(), err)
	}
	want, err := model.VertexBufferLayout(p.revision)
	if err != nil {
		return err
	}
	p.vertexBuffers = []wgpu.VertexBufferLayout{want}
	return nil
}

// sameResource reports whether two layout entries describe the same kind of resource.
func sameResource(a, b wgpu.BindGroupLayoutEntry) bool {
	return a.Buffer.Type == b.Buffer.Type &&
		a.Texture.ViewDimension == b.Texture.ViewDimension &&
		a.Texture.SampleType == b.Texture.SampleType &&
		a.Sampler.Type == b.Sampler.Type
}

// mergeBindGroupLayouts merges the per-stage bind group layouts of a render pipeline.
// Entries at the same binding are combined with their visibility ORed and the larger
// minimum binding size kept.
func mergeBindGroupLayouts(vertexLayouts, fragmentLayouts map[uint32]wgpu.BindGroupLayoutDescriptor) (map[uint32]wgpu.BindGroupLayoutDescriptor, error) {
	merged := make(map[uint32]wgpu.BindGroupLayoutDescriptor)
	var errs []error

	for _, stage := range []map[uint32]wgpu.BindGroupLayoutDescriptor{vertexLayouts, fragmentLayouts} {
		for g, desc := range stage {
			current := merged[g]
			for _, e := range desc.Entries {
				i := slices.IndexFunc(current.Entries, func(x wgpu.BindGroupLayoutEntry) bool {
					return x.Binding == e.Binding
				})
				if i < 0 {
					current.Entries = append(current.Entries, e)
					continue
				}
				existing := &current.Entries[i]
				if !sameResource(*existing, e) {
					errs = append(errs, fmt.Errorf("%w: @group(%d) @binding(%d)", ErrStageConflict, g, e.Binding))
					continue
				}
				existing.Visibility |= e.Visibility
				existing.Buffer.MinBindingSize = max(existing.Buffer.MinBindingSize, e.Buffer.MinBindingSize)
			}
			merged[g] = current
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	for g, desc := range merged {
		slices.SortFunc(desc.Entries, func(a, b wgpu.BindGroupLayoutEntry) int {
			return int(a.Binding) - int(b.Binding)
		})
		merged[g] = desc
	}
	return merged, nil
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Revision() binding.Revision {
	return p.revision
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor {
	maxGroup := -1
	for g := range p.layouts {
		maxGroup = max(maxGroup, int(g))
	}
	out := make([]wgpu.BindGroupLayoutDescriptor, maxGroup+1)
	for g, desc := range p.layouts {
		desc.Label = fmt.Sprintf("%s group %d", p.key, g)
		desc.Entries = slices.Clone(desc.Entries)
		out[g] = desc
	}
	return out
}

func (p *pipeline) VertexBuffers() []wgpu.VertexBufferLayout {
	return p.vertexBuffers
}

func (p *pipeline) Primitive() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  p.topology,
		FrontFace: p.frontFace,
		CullMode:  p.cullMode,
	}
}

func (p *pipeline) DepthStencil(format wgpu.TextureFormat) *wgpu.DepthStencilState {
	depthCompare := wgpu.CompareFunctionLess
	if !p.depthTestEnabled {
		depthCompare = wgpu.CompareFunctionAlways
	}
	return &wgpu.DepthStencilState{
		Format:              format,
		DepthWriteEnabled:   p.depthWriteEnabled,
		DepthCompare:        depthCompare,
		DepthBias:           p.depthBias,
		DepthBiasSlopeScale: p.depthBiasSlopeScale,
		StencilFront: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
		StencilBack: wgpu.StencilFaceState{
			Compare: wgpu.CompareFunctionAlways,
		},
	}
}

func (p *pipeline) ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState {
	state := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: p.writeMask,
	}
	if p.blendEnabled {
		state.Blend = p.blendState
	}
	return state
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}
