package model

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/layout"
)

// GPUTexturedVertexSource is the canonical WGSL definition of the VertexInput struct for
// Revision1 pipelines. Matches GPUTexturedVertex layout exactly (16 bytes, packed).
//
//go:embed assets/textured_vertex.wgsl
var GPUTexturedVertexSource string

// GPUTexturedVertex is the vertex format of Revision1 pipelines: a 2D position and a
// texture coordinate.
// Size: 16 bytes (packed, vertex formats carry no host-shareable padding).
type GPUTexturedVertex struct {
	Position     [2]float32 // offset 0: position in model space (8 bytes)
	TextureCoord [2]float32 // offset 8: UV texture coordinate (8 bytes)
}

// Size returns the size of the GPUTexturedVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (16)
func (g *GPUTexturedVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUTexturedVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (g *GPUTexturedVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.marshalInto(buf)
	return buf
}

func (g *GPUTexturedVertex) marshalInto(buf []byte) {
	layout.PutFloats(buf, 0, g.Position[:])
	layout.PutFloats(buf, 8, g.TextureCoord[:])
}

// Unmarshal decodes a GPUTexturedVertex from a buffer produced by Marshal.
//
// Parameters:
//   - buf: at least 16 bytes of vertex data
//
// Returns:
//   - error: layout.ErrShortBuffer if buf is too small
func (g *GPUTexturedVertex) Unmarshal(buf []byte) error {
	if err := layout.CheckLen(buf, g.Size(), "TexturedVertex"); err != nil {
		return err
	}
	layout.FloatsAt(buf, 0, g.Position[:])
	layout.FloatsAt(buf, 8, g.TextureCoord[:])
	return nil
}

// TexturedVertexRecord describes GPUTexturedVertex for layout checks and shader injection.
func TexturedVertexRecord() layout.Record {
	var v GPUTexturedVertex
	return layout.Record{
		Key:      "vertex",
		WGSLType: "VertexInput",
		Source:   GPUTexturedVertexSource,
		Size:     unsafe.Sizeof(v),
		Resource: binding.ResourceVertices,
		Vertex:   true,
		Fields: []layout.Field{
			{Name: "position", Offset: unsafe.Offsetof(v.Position), Size: unsafe.Sizeof(v.Position)},
			{Name: "texture_coord", Offset: unsafe.Offsetof(v.TextureCoord), Size: unsafe.Sizeof(v.TextureCoord)},
		},
	}
}

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for
// Revision2 pipelines. Matches GPUVertex layout exactly (56 bytes, packed).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the vertex format of Revision2 pipelines with a tangent frame for
// normal mapping.
// Size: 56 bytes (packed).
type GPUVertex struct {
	Position     [3]float32 // offset  0: position in model space (12 bytes)
	Normal       [3]float32 // offset 12: vertex normal (12 bytes)
	TextureCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
	Tangent      [3]float32 // offset 32: tangent along +U (12 bytes)
	Bitangent    [3]float32 // offset 44: bitangent along +V (12 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (56)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 56-byte buffer ready for GPU upload
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.marshalInto(buf)
	return buf
}

func (g *GPUVertex) marshalInto(buf []byte) {
	layout.PutFloats(buf, 0, g.Position[:])
	layout.PutFloats(buf, 12, g.Normal[:])
	layout.PutFloats(buf, 24, g.TextureCoord[:])
	layout.PutFloats(buf, 32, g.Tangent[:])
	layout.PutFloats(buf, 44, g.Bitangent[:])
}

// Unmarshal decodes a GPUVertex from a buffer produced by Marshal.
//
// Parameters:
//   - buf: at least 56 bytes of vertex data
//
// Returns:
//   - error: layout.ErrShortBuffer if buf is too small
func (g *GPUVertex) Unmarshal(buf []byte) error {
	if err := layout.CheckLen(buf, g.Size(), "Vertex"); err != nil {
		return err
	}
	layout.FloatsAt(buf, 0, g.Position[:])
	layout.FloatsAt(buf, 12, g.Normal[:])
	layout.FloatsAt(buf, 24, g.TextureCoord[:])
	layout.FloatsAt(buf, 32, g.Tangent[:])
	layout.FloatsAt(buf, 44, g.Bitangent[:])
	return nil
}

// VertexRecord describes GPUVertex for layout checks and shader injection.
func VertexRecord() layout.Record {
	var v GPUVertex
	return layout.Record{
		Key:      "vertex",
		WGSLType: "VertexInput",
		Source:   GPUVertexSource,
		Size:     unsafe.Sizeof(v),
		Resource: binding.ResourceVertices,
		Vertex:   true,
		Fields: []layout.Field{
			{Name: "position", Offset: unsafe.Offsetof(v.Position), Size: unsafe.Sizeof(v.Position)},
			{Name: "normal", Offset: unsafe.Offsetof(v.Normal), Size: unsafe.Sizeof(v.Normal)},
			{Name: "texture_coord", Offset: unsafe.Offsetof(v.TextureCoord), Size: unsafe.Sizeof(v.TextureCoord)},
			{Name: "tangent", Offset: unsafe.Offsetof(v.Tangent), Size: unsafe.Sizeof(v.Tangent)},
			{Name: "bitangent", Offset: unsafe.Offsetof(v.Bitangent), Size: unsafe.Sizeof(v.Bitangent)},
		},
	}
}
