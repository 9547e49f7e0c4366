package abi

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/layout"
	"github.com/Carmen-Shannon/oxy-abi/engine/model"
	"github.com/Carmen-Shannon/oxy-abi/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// Check verifies the whole contract of a revision: the binding table is well formed,
// every Go record matches the host-shareable layout of its WGSL struct, the vertex
// buffer layout matches the WGSL vertex input, and the generated header declares every
// resource at its table slot. All violations are joined.
//
// Parameters:
//   - rev: the pipeline revision to check
//
// Returns:
//   - error: nil if the revision is consistent
func Check(rev binding.Revision) error {
	table, err := binding.TableFor(rev)
	if err != nil {
		return err
	}
	records, err := Records(rev)
	if err != nil {
		return err
	}

	errs := []error{table.Validate()}
	for _, rec := range records {
		if rec.Vertex {
			errs = append(errs, checkVertexRecord(rev, rec))
		} else {
			errs = append(errs, checkRecord(rec))
		}
	}
	errs = append(errs, checkHeader(rev, table))
	return errors.Join(errs...)
}

// CheckAll runs Check over every declared revision.
func CheckAll() error {
	var errs []error
	for _, rev := range binding.Revisions() {
		if err := Check(rev); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", rev, err))
		}
	}
	return errors.Join(errs...)
}

// checkRecord compares a buffer record with the struct its WGSL source declares.
func checkRecord(rec layout.Record) error {
	sl, ok := shader.ParseStructLayouts(rec.Source)[rec.WGSLType]
	if !ok {
		return fmt.Errorf("%w: %s: struct %s not found in source", ErrLayoutMismatch, rec.Key, rec.WGSLType)
	}

	var errs []error
	if uint64(rec.Size) != sl.Size {
		errs = append(errs, fmt.Errorf("%w: %s: Go size %d, WGSL size %d", ErrLayoutMismatch, rec.Key, rec.Size, sl.Size))
	}
	if len(rec.Fields) != len(sl.Fields) {
		errs = append(errs, fmt.Errorf("%w: %s: Go has %d members, WGSL has %d", ErrLayoutMismatch, rec.Key, len(rec.Fields), len(sl.Fields)))
	}
	for _, f := range rec.Fields {
		wf, ok := sl.Field(f.Name)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s.%s missing from WGSL", ErrLayoutMismatch, rec.Key, f.Name))
			continue
		}
		if uint64(f.Offset) != wf.Offset || uint64(f.Size) != wf.Size {
			errs = append(errs, fmt.Errorf("%w: %s.%s: Go @%d+%d, WGSL @%d+%d",
				ErrLayoutMismatch, rec.Key, f.Name, f.Offset, f.Size, wf.Offset, wf.Size))
		}
	}
	return errors.Join(errs...)
}

// checkVertexRecord compares the vertex buffer layout built from the Go record and the
// binding table with the one parsed from the WGSL vertex input.
func checkVertexRecord(rev binding.Revision, rec layout.Record) error {
	parsed, ok := shader.ParseVertexLayouts(rec.Source)[rec.WGSLType]
	if !ok {
		return fmt.Errorf("%w: %s: vertex input %s not found in source", ErrLayoutMismatch, rec.Key, rec.WGSLType)
	}
	if err := CheckVertexLayout(rev, parsed); err != nil {
		return fmt.Errorf("%s: %w", rec.Key, err)
	}
	return nil
}

// CheckVertexLayout compares a vertex buffer layout parsed from a shader with the one
// the revision's vertex record and binding table produce.
//
// Parameters:
//   - rev: the pipeline revision
//   - parsed: the layout of a WGSL vertex input struct
//
// Returns:
//   - error: every stride, attribute count, format, offset and location difference
//     wrapped in ErrLayoutMismatch, joined
func CheckVertexLayout(rev binding.Revision, parsed wgpu.VertexBufferLayout) error {
	want, err := model.VertexBufferLayout(rev)
	if err != nil {
		return err
	}

	var errs []error
	if want.ArrayStride != parsed.ArrayStride {
		errs = append(errs, fmt.Errorf("%w: Go stride %d, WGSL stride %d", ErrLayoutMismatch, want.ArrayStride, parsed.ArrayStride))
	}
	if len(want.Attributes) != len(parsed.Attributes) {
		return errors.Join(append(errs, fmt.Errorf("%w: Go has %d attributes, WGSL has %d",
			ErrLayoutMismatch, len(want.Attributes), len(parsed.Attributes)))...)
	}
	for i, a := range want.Attributes {
		p := parsed.Attributes[i]
		if a.Format != p.Format || a.Offset != p.Offset || a.ShaderLocation != p.ShaderLocation {
			errs = append(errs, fmt.Errorf("%w: attribute %d: Go {format %v offset %d location %d}, WGSL {format %v offset %d location %d}",
				ErrLayoutMismatch, i, a.Format, a.Offset, a.ShaderLocation, p.Format, p.Offset, p.ShaderLocation))
		}
	}
	return errors.Join(errs...)
}

// checkHeader processes the revision header and verifies that every bind group resource
// of the table is declared exactly once, at its slot.
func checkHeader(rev binding.Revision, table *binding.Table) error {
	header, err := Header(rev)
	if err != nil {
		return err
	}
	errs := []error{CheckSource(rev, header)}

	declared := make(map[string]bool)
	for _, d := range shader.ParseBindings(header) {
		declared[d.Var] = true
	}
	for _, res := range table.Resources(binding.ClassBuffer) {
		if _, ok := binding.Group(res); ok && !declared[res.Name()] {
			errs = append(errs, fmt.Errorf("%w: header does not declare %s", ErrBindingMismatch, res))
		}
	}
	for _, res := range table.Resources(binding.ClassTexture) {
		if !declared[res.Name()] || !declared[res.Name()+SamplerSuffix] {
			errs = append(errs, fmt.Errorf("%w: header does not declare %s and its sampler", ErrBindingMismatch, res))
		}
	}
	return errors.Join(errs...)
}

// CheckSource verifies the resource declarations of a WGSL source against a revision.
// Every @group/@binding pair must name a slot the table assigns, no pair may be declared
// twice, and each declaration must have the type of the resource at that slot. A shader
// that hard-codes the slots of another revision fails here.
//
// Parameters:
//   - rev: the pipeline revision the source is compiled for
//   - source: the processed WGSL source
//
// Returns:
//   - error: ErrBindingMismatch for every offending declaration, joined
func CheckSource(rev binding.Revision, source string) error {
	table, err := binding.TableFor(rev)
	if err != nil {
		return err
	}

	var errs []error
	seen := make(map[[2]uint32]string)
	for _, d := range shader.ParseBindings(source) {
		key := [2]uint32{d.Group, d.Binding}
		if prev, dup := seen[key]; dup {
			errs = append(errs, fmt.Errorf("%w: %s and %s both declared at @group(%d) @binding(%d)",
				ErrBindingMismatch, prev, d.Var, d.Group, d.Binding))
			continue
		}
		seen[key] = d.Var

		res, ok := table.ResourceAt(d.Group, d.Binding)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %s at @group(%d) @binding(%d) is not a slot in %s",
				ErrBindingMismatch, d.Var, d.Group, d.Binding, rev))
			continue
		}
		addressSpace, wgslType, err := expectedDeclaration(rev, res, d.Group)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if d.AddressSpace != addressSpace || d.Type != wgslType {
			errs = append(errs, fmt.Errorf("%w: %s at @group(%d) @binding(%d) is var<%s> %s, %s expects var<%s> %s",
				ErrBindingMismatch, d.Var, d.Group, d.Binding, d.AddressSpace, d.Type, res, addressSpace, wgslType))
		}
	}
	return errors.Join(errs...)
}

// expectedDeclaration returns the address space and type a resource is declared with.
func expectedDeclaration(rev binding.Revision, res binding.Resource, group uint32) (string, string, error) {
	if group == binding.GroupSamplers {
		return "", "sampler", nil
	}
	switch res.Kind() {
	case binding.KindTexture2D:
		return "", "texture_2d<f32>", nil
	case binding.KindTextureCube:
		return "", "texture_cube<f32>", nil
	}

	rec, err := RecordFor(rev, res)
	if err != nil {
		return "", "", err
	}
	if res.Kind() == binding.KindReadOnlyStorage {
		return "storage, read", "array<" + rec.WGSLType + ">", nil
	}
	return "uniform", rec.WGSLType, nil
}
