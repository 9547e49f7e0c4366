// pre_processor.go implements the WGSL shader pre-processor. It scans shader source
// code for @oxy: annotations, replaces them with injected struct sources or generated
// declarations, and collects the resolved bind annotations so callers can see which
// resources a shader consumes.
package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/layout"
)

// ErrUnknownRecord is returned when an annotation names a record the pre-processor
// was not given.
var ErrUnknownRecord = errors.New("shader: unknown record")

// Constant is a named u32 value emitted by the constants annotation.
type Constant struct {
	Name  string
	Value uint32
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	table *binding.Table

	// records maps annotation keys to record definitions for include.
	records map[string]layout.Record

	// byResource maps a buffer resource to the record uploaded to it, for bind.
	byResource map[binding.Resource]layout.Record

	constants []Constant

	// declarations accumulates bind and sampler annotations during a Process call.
	declarations []Annotation
}

// PreProcessor processes raw WGSL shader source code containing @oxy: annotations,
// replacing them with WGSL generated for one pipeline revision.
type PreProcessor interface {
	// Process replaces every annotation in source with its WGSL output. The
	// declarations list is reset at the start of each call.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code
	//
	// Returns:
	//   - string: the processed WGSL source
	//   - error: an error if an annotation is malformed, names an unknown record or
	//     resource, or names a resource the revision does not bind
	Process(source string) (string, error)

	// Declarations returns the bind and sampler annotations resolved during the most
	// recent call to Process, in source order, with Group and Binding filled in.
	Declarations() []Annotation

	// Table returns the binding table declarations are generated from.
	Table() *binding.Table
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor for the revision of table.
//
// Parameters:
//   - table: the binding table that supplies slot numbers
//   - records: the records available to include and bind
//   - constants: the values emitted by the constants annotation
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor(table *binding.Table, records []layout.Record, constants []Constant) PreProcessor {
	p := &preProcessor{
		table:      table,
		records:    make(map[string]layout.Record, len(records)),
		byResource: make(map[binding.Resource]layout.Record, len(records)),
		constants:  constants,
	}
	for _, rec := range records {
		p.records[rec.Key] = rec
		if rec.Resource != binding.ResourceNone && !rec.Vertex {
			p.byResource[rec.Resource] = rec
		}
	}
	return p
}

func (p *preProcessor) Table() *binding.Table {
	return p.table
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			rec, ok := p.records[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: %w %q", a.Line, ErrUnknownRecord, a.Args[0])
			}
			out = append(out, strings.TrimRight(rec.Source, "\n"))
		case AnnotationTypeBind:
			decl, err := p.bind(a)
			if err != nil {
				return "", err
			}
			out = append(out, decl)
		case AnnotationTypeSampler:
			decl, err := p.sampler(a)
			if err != nil {
				return "", err
			}
			out = append(out, decl)
		case AnnotationTypeConstants:
			for _, c := range p.constants {
				out = append(out, fmt.Sprintf("const %s: u32 = %du;", c.Name, c.Value))
			}
		}
	}
	return strings.Join(out, "\n"), nil
}

// bind resolves a bind annotation into its declaration and records it.
func (p *preProcessor) bind(a *Annotation) (string, error) {
	res, err := binding.ParseResource(a.Args[0])
	if err != nil {
		return "", fmt.Errorf("line %d: %w", a.Line, err)
	}
	if _, err := p.table.Lookup(res); err != nil {
		return "", fmt.Errorf("line %d: %w", a.Line, err)
	}

	var wgslType string
	if res.Class() == binding.ClassBuffer {
		rec, ok := p.byResource[res]
		if !ok {
			return "", fmt.Errorf("line %d: %w bound to %s", a.Line, ErrUnknownRecord, res)
		}
		wgslType = rec.WGSLType
	}

	decl, err := p.table.Declaration(res, a.Args[1], wgslType)
	if err != nil {
		return "", fmt.Errorf("line %d: %w", a.Line, err)
	}
	group, _ := binding.Group(res)
	a.Group = group
	a.Binding = p.table.MustSlot(res)
	p.declarations = append(p.declarations, *a)
	return decl, nil
}

// sampler resolves a sampler annotation into its declaration and records it.
func (p *preProcessor) sampler(a *Annotation) (string, error) {
	res, err := binding.ParseResource(a.Args[0])
	if err != nil {
		return "", fmt.Errorf("line %d: %w", a.Line, err)
	}
	decl, err := p.table.SamplerDeclaration(res, a.Args[1])
	if err != nil {
		return "", fmt.Errorf("line %d: %w", a.Line, err)
	}
	a.Group = binding.GroupSamplers
	a.Binding = p.table.MustSlot(res)
	p.declarations = append(p.declarations, *a)
	return decl, nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
