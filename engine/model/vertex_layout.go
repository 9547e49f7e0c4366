package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/layout"
	"github.com/cogentcore/webgpu/wgpu"
)

// vertexAttributes maps VertexInput member names to the attribute resource that owns
// their @location in the binding table.
var vertexAttributes = map[string]binding.Resource{
	"position":      binding.AttributePosition,
	"normal":        binding.AttributeNormal,
	"texture_coord": binding.AttributeTextureCoord,
	"tangent":       binding.AttributeTangent,
	"bitangent":     binding.AttributeBitangent,
}

// float32Formats maps a packed float vector size in bytes to its vertex format.
var float32Formats = map[uintptr]wgpu.VertexFormat{
	4:  wgpu.VertexFormatFloat32,
	8:  wgpu.VertexFormatFloat32x2,
	12: wgpu.VertexFormatFloat32x3,
	16: wgpu.VertexFormatFloat32x4,
}

// VertexRecordFor returns the vertex record used by a revision.
//
// Parameters:
//   - rev: the pipeline revision
//
// Returns:
//   - layout.Record: the revision's vertex record
//   - error: binding.ErrUnknownRevision for undeclared revisions
func VertexRecordFor(rev binding.Revision) (layout.Record, error) {
	switch rev {
	case binding.Revision1:
		return TexturedVertexRecord(), nil
	case binding.Revision2:
		return VertexRecord(), nil
	default:
		return layout.Record{}, fmt.Errorf("%w: %d", binding.ErrUnknownRevision, int(rev))
	}
}

// VertexBufferLayout builds the wgpu vertex buffer layout of a revision. Offsets and
// stride come from the Go vertex struct; shader locations come from the binding table.
//
// Parameters:
//   - rev: the pipeline revision
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for the revision's vertex buffer
//   - error: if the revision is unknown or a vertex member has no attribute slot
func VertexBufferLayout(rev binding.Revision) (wgpu.VertexBufferLayout, error) {
	rec, err := VertexRecordFor(rev)
	if err != nil {
		return wgpu.VertexBufferLayout{}, err
	}
	table, err := binding.TableFor(rev)
	if err != nil {
		return wgpu.VertexBufferLayout{}, err
	}

	attrs := make([]wgpu.VertexAttribute, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		res, ok := vertexAttributes[f.Name]
		if !ok {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("model: vertex member %q has no attribute resource", f.Name)
		}
		loc, err := table.Lookup(res)
		if err != nil {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("model: vertex member %q: %w", f.Name, err)
		}
		format, ok := float32Formats[f.Size]
		if !ok {
			return wgpu.VertexBufferLayout{}, fmt.Errorf("model: vertex member %q has unsupported size %d", f.Name, f.Size)
		}
		attrs = append(attrs, wgpu.VertexAttribute{
			Format:         format,
			Offset:         uint64(f.Offset),
			ShaderLocation: loc,
		})
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(rec.Size),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attrs,
	}, nil
}

// MarshalVertices packs Revision2 vertices into one contiguous vertex buffer.
func MarshalVertices(vertices []GPUVertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	stride := vertices[0].Size()
	buf := make([]byte, stride*len(vertices))
	for i := range vertices {
		vertices[i].marshalInto(buf[i*stride:])
	}
	return buf
}

// MarshalTexturedVertices packs Revision1 vertices into one contiguous vertex buffer.
func MarshalTexturedVertices(vertices []GPUTexturedVertex) []byte {
	if len(vertices) == 0 {
		return nil
	}
	stride := vertices[0].Size()
	buf := make([]byte, stride*len(vertices))
	for i := range vertices {
		vertices[i].marshalInto(buf[i*stride:])
	}
	return buf
}
