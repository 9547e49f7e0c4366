package light

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/layout"
)

// GPULightSource is the canonical WGSL definition of the Light struct.
// Matches GPULight layout exactly (96 bytes, WGSL storage aligned).
//
//go:embed assets/light.wgsl
var GPULightSource string

// GPULight is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct layout exactly (see GPULightSource).
// Size: 96 bytes. Every vec3 is 16-byte aligned; scalars that follow a vec3 fill its
// fourth lane where WGSL allows it.
type GPULight struct {
	Position        [3]float32 // offset  0: world position, or direction toward the light for sunlight
	_               float32    // offset 12
	Color           [3]float32 // offset 16: RGB diffuse color
	_               float32    // offset 28
	SpecularColor   [3]float32 // offset 32: RGB specular color
	Intensity       float32    // offset 44: scalar multiplier
	Attenuation     [3]float32 // offset 48: constant, linear, quadratic
	LightType       uint32     // offset 60: LightType discriminator
	ConeAngle       float32    // offset 64: half-angle in radians
	_               [3]float32 // offset 68
	ConeDirection   [3]float32 // offset 80: normalized cone axis
	ConeAttenuation float32    // offset 92: angular falloff exponent
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (96)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
// Padding lanes are written as zero.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.marshalInto(buf)
	return buf
}

func (g *GPULight) marshalInto(buf []byte) {
	clear(buf[:g.Size()])
	layout.PutFloats(buf, 0, g.Position[:])
	layout.PutFloats(buf, 16, g.Color[:])
	layout.PutFloats(buf, 32, g.SpecularColor[:])
	layout.PutF32(buf, 44, g.Intensity)
	layout.PutFloats(buf, 48, g.Attenuation[:])
	layout.PutU32(buf, 60, g.LightType)
	layout.PutF32(buf, 64, g.ConeAngle)
	layout.PutFloats(buf, 80, g.ConeDirection[:])
	layout.PutF32(buf, 92, g.ConeAttenuation)
}

// Unmarshal decodes a GPULight from a buffer produced by Marshal.
//
// Parameters:
//   - buf: at least 96 bytes of light data
//
// Returns:
//   - error: layout.ErrShortBuffer if buf is too small
func (g *GPULight) Unmarshal(buf []byte) error {
	if err := layout.CheckLen(buf, g.Size(), "Light"); err != nil {
		return err
	}
	layout.FloatsAt(buf, 0, g.Position[:])
	layout.FloatsAt(buf, 16, g.Color[:])
	layout.FloatsAt(buf, 32, g.SpecularColor[:])
	g.Intensity = layout.F32At(buf, 44)
	layout.FloatsAt(buf, 48, g.Attenuation[:])
	g.LightType = layout.U32At(buf, 60)
	g.ConeAngle = layout.F32At(buf, 64)
	layout.FloatsAt(buf, 80, g.ConeDirection[:])
	g.ConeAttenuation = layout.F32At(buf, 92)
	return nil
}

// LightRecord describes GPULight for layout checks and shader injection.
func LightRecord() layout.Record {
	var g GPULight
	return layout.Record{
		Key:      "light",
		WGSLType: "Light",
		Source:   GPULightSource,
		Size:     unsafe.Sizeof(g),
		Resource: binding.ResourceLights,
		Fields: []layout.Field{
			{Name: "position", Offset: unsafe.Offsetof(g.Position), Size: unsafe.Sizeof(g.Position)},
			{Name: "color", Offset: unsafe.Offsetof(g.Color), Size: unsafe.Sizeof(g.Color)},
			{Name: "specular_color", Offset: unsafe.Offsetof(g.SpecularColor), Size: unsafe.Sizeof(g.SpecularColor)},
			{Name: "intensity", Offset: unsafe.Offsetof(g.Intensity), Size: unsafe.Sizeof(g.Intensity)},
			{Name: "attenuation", Offset: unsafe.Offsetof(g.Attenuation), Size: unsafe.Sizeof(g.Attenuation)},
			{Name: "light_type", Offset: unsafe.Offsetof(g.LightType), Size: unsafe.Sizeof(g.LightType)},
			{Name: "cone_angle", Offset: unsafe.Offsetof(g.ConeAngle), Size: unsafe.Sizeof(g.ConeAngle)},
			{Name: "cone_direction", Offset: unsafe.Offsetof(g.ConeDirection), Size: unsafe.Sizeof(g.ConeDirection)},
			{Name: "cone_attenuation", Offset: unsafe.Offsetof(g.ConeAttenuation), Size: unsafe.Sizeof(g.ConeAttenuation)},
		},
	}
}

// ToGPULight converts a CPU-side Light into the GPU-aligned GPULight struct.
// Cone members are only carried for spotlights; other types write them as zero.
//
// Parameters:
//   - l: the Light to convert
//
// Returns:
//   - GPULight: the GPU-ready representation of the light
func ToGPULight(l Light) GPULight {
	g := GPULight{
		Position:      l.Position(),
		Color:         l.Color(),
		SpecularColor: l.SpecularColor(),
		Intensity:     l.Intensity(),
		Attenuation:   l.Attenuation(),
		LightType:     uint32(l.Type()),
	}
	if l.Type() == LightTypeSpotlight {
		g.ConeAngle = l.ConeAngle()
		g.ConeDirection = l.ConeDirection()
		g.ConeAttenuation = l.ConeAttenuation()
	}
	return g
}
