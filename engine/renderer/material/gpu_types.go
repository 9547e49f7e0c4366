package material

import (
	_ "embed"
	"errors"
	"fmt"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/layout"
)

var (
	// ErrNoShadingModel is returned when a material record is written before a shading model is bound.
	ErrNoShadingModel = errors.New("material: no shading model bound")

	// ErrUnknownShadingModel is returned for shading model values outside the declared set.
	ErrUnknownShadingModel = errors.New("material: unknown shading model")
)

// ShadingModel selects which subset of the Material record the bound shader program reads.
// The value is part of the wire format.
type ShadingModel uint32

const (
	// ShadingModelPhong reads base color, specular color and shininess.
	ShadingModelPhong ShadingModel = iota + 1

	// ShadingModelPBR reads base color, roughness and metallic.
	ShadingModelPBR
)

func (s ShadingModel) String() string {
	switch s {
	case ShadingModelPhong:
		return "phong"
	case ShadingModelPBR:
		return "pbr"
	default:
		return fmt.Sprintf("shading_model(%d)", uint32(s))
	}
}

// Valid reports whether s is one of the declared shading models.
func (s ShadingModel) Valid() bool {
	return s == ShadingModelPhong || s == ShadingModelPBR
}

// ParseShadingModel resolves a shading model from its name.
func ParseShadingModel(name string) (ShadingModel, error) {
	switch name {
	case "phong":
		return ShadingModelPhong, nil
	case "pbr":
		return ShadingModelPBR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownShadingModel, name)
	}
}

// GPUMaterialSource is the canonical WGSL definition of the Material struct.
// Matches GPUMaterial layout exactly (48 bytes, WGSL uniform aligned).
//
//go:embed assets/material.wgsl
var GPUMaterialSource string

// GPUMaterial is the GPU-aligned representation of a surface's shading parameters.
// Both shading models share this layout; ShadingModel tells the shader which members apply.
// Size: 48 bytes.
//
// Layout:
//
//	vec4<f32> base_color      (16 bytes, offset  0)
//	vec4<f32> specular_color  (16 bytes, offset 16)
//	f32       roughness       ( 4 bytes, offset 32)
//	f32       metallic        ( 4 bytes, offset 36)
//	f32       shininess       ( 4 bytes, offset 40)
//	u32       shading_model   ( 4 bytes, offset 44)
type GPUMaterial struct {
	BaseColor     [4]float32
	SpecularColor [4]float32
	Roughness     float32
	Metallic      float32
	Shininess     float32
	ShadingModel  uint32
}

// Size returns the size of the GPUMaterial struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (48)
func (g *GPUMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes every member of the GPUMaterial struct into a byte buffer
// suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPUMaterial) Marshal() []byte {
	buf := make([]byte, g.Size())
	layout.PutFloats(buf, 0, g.BaseColor[:])
	layout.PutFloats(buf, 16, g.SpecularColor[:])
	layout.PutF32(buf, 32, g.Roughness)
	layout.PutF32(buf, 36, g.Metallic)
	layout.PutF32(buf, 40, g.Shininess)
	layout.PutU32(buf, 44, g.ShadingModel)
	return buf
}

// Unmarshal decodes a GPUMaterial from a buffer produced by Marshal.
//
// Parameters:
//   - buf: at least 48 bytes of material data
//
// Returns:
//   - error: layout.ErrShortBuffer if buf is too small
func (g *GPUMaterial) Unmarshal(buf []byte) error {
	if err := layout.CheckLen(buf, g.Size(), "Material"); err != nil {
		return err
	}
	layout.FloatsAt(buf, 0, g.BaseColor[:])
	layout.FloatsAt(buf, 16, g.SpecularColor[:])
	g.Roughness = layout.F32At(buf, 32)
	g.Metallic = layout.F32At(buf, 36)
	g.Shininess = layout.F32At(buf, 40)
	g.ShadingModel = layout.U32At(buf, 44)
	return nil
}

// MaterialRecord describes GPUMaterial for layout checks and shader injection.
func MaterialRecord() layout.Record {
	var g GPUMaterial
	return layout.Record{
		Key:      "material",
		WGSLType: "Material",
		Source:   GPUMaterialSource,
		Size:     unsafe.Sizeof(g),
		Resource: binding.ResourceMaterial,
		Fields: []layout.Field{
			{Name: "base_color", Offset: unsafe.Offsetof(g.BaseColor), Size: unsafe.Sizeof(g.BaseColor)},
			{Name: "specular_color", Offset: unsafe.Offsetof(g.SpecularColor), Size: unsafe.Sizeof(g.SpecularColor)},
			{Name: "roughness", Offset: unsafe.Offsetof(g.Roughness), Size: unsafe.Sizeof(g.Roughness)},
			{Name: "metallic", Offset: unsafe.Offsetof(g.Metallic), Size: unsafe.Sizeof(g.Metallic)},
			{Name: "shininess", Offset: unsafe.Offsetof(g.Shininess), Size: unsafe.Sizeof(g.Shininess)},
			{Name: "shading_model", Offset: unsafe.Offsetof(g.ShadingModel), Size: unsafe.Sizeof(g.ShadingModel)},
		},
	}
}
