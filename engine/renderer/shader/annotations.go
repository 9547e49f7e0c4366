// annotations.go defines the annotation types and parser for the WGSL pre-processor.
// Annotations are single-line WGSL comments prefixed with //@oxy: that inject record
// struct sources and emit resource declarations whose slot numbers come from the
// binding table, so no shader hard-codes a @group/@binding pair.
package shader

import (
	"fmt"
	"strings"
)

// annotationPrefix is the marker that identifies an annotation within a WGSL comment line.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects the WGSL struct definition of a registered record.
	//
	// Syntax: //@oxy:include <record>
	//
	// Example: //@oxy:include light
	AnnotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBind emits the @group/@binding declaration of a resource at the slot
	// the active revision assigns to it. Buffers are typed with the record bound to them;
	// storage buffers become runtime-sized arrays of that record.
	//
	// Syntax: //@oxy:bind <resource> <var_name>
	//
	// Example: //@oxy:bind lights lights
	AnnotationTypeBind AnnotationType = "bind"

	// AnnotationTypeSampler emits the sampler paired with a texture resource.
	//
	// Syntax: //@oxy:sampler <texture_resource> <var_name>
	AnnotationTypeSampler AnnotationType = "sampler"

	// AnnotationTypeConstants emits the light type and shading model discriminators as
	// WGSL constants.
	//
	// Syntax: //@oxy:constants
	AnnotationTypeConstants AnnotationType = "constants"
)

// annotationArity is the number of arguments each annotation type takes.
var annotationArity = map[AnnotationType]int{
	AnnotationTypeInclude:   1,
	AnnotationTypeBind:      2,
	AnnotationTypeSampler:   2,
	AnnotationTypeConstants: 0,
}

// Annotation represents a single parsed annotation from a WGSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. The contents depend on Type:
	//   - include:   [0] = record key (e.g. "light")
	//   - bind:      [0] = resource name, [1] = var name
	//   - sampler:   [0] = texture resource name, [1] = var name
	//   - constants: none
	Args []string

	// Line is the 1-based line number in the original WGSL source.
	Line int

	// Group and Binding are filled in by the pre-processor for bind and sampler annotations.
	Group   uint32
	Binding uint32
}

// parseAnnotation attempts to parse a single WGSL source line as an annotation.
// Lines that are not // comments carrying the @oxy: prefix return nil with no error.
//
// Parameters:
//   - line: a single line of WGSL source
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	comment, ok := strings.CutPrefix(strings.TrimSpace(line), "//")
	if !ok {
		return nil, nil
	}
	body, ok := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(body)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	t := AnnotationType(args[0])
	arity, known := annotationArity[t]
	if !known {
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
	if len(args)-1 != arity {
		return nil, fmt.Errorf("line %d: @oxy %s annotation takes %d argument(s), got %d", lineNum, t, arity, len(args)-1)
	}

	return &Annotation{
		Type: t,
		Args: args[1:],
		Line: lineNum,
	}, nil
}
