package camera

import (
	_ "embed"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-abi/engine/binding"
	"github.com/Carmen-Shannon/oxy-abi/engine/layout"
)

// GPUUniformsV1Source is the WGSL definition of the revision 1 Uniforms struct.
//
//go:embed assets/uniforms_v1.wgsl
var GPUUniformsV1Source string

// GPUUniformsSource is the WGSL definition of the current Uniforms struct.
// Matches GPUUniforms layout exactly (240 bytes, WGSL uniform aligned).
//
//go:embed assets/uniforms.wgsl
var GPUUniformsSource string

// GPUFragmentUniformsSource is the WGSL definition of the FragmentUniforms struct.
//
//go:embed assets/fragment_uniforms.wgsl
var GPUFragmentUniformsSource string

// GPUSkyboxUniformsSource is the WGSL definition of the SkyboxUniforms struct.
//
//go:embed assets/skybox_uniforms.wgsl
var GPUSkyboxUniformsSource string

// GPUUniformsV1 is the revision 1 per-draw transform record. It predates the
// normal matrix; shaders built against it transform normals by the model matrix.
// Size: 192 bytes.
type GPUUniformsV1 struct {
	Model      [16]float32 // offset   0: mat4x4<f32>
	View       [16]float32 // offset  64: mat4x4<f32>
	Projection [16]float32 // offset 128: mat4x4<f32>
}

// Size returns the size of the GPUUniformsV1 struct in bytes.
func (g *GPUUniformsV1) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUUniformsV1 struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 192-byte buffer ready for GPU upload
func (g *GPUUniformsV1) Marshal() []byte {
	buf := make([]byte, g.Size())
	layout.PutFloats(buf, 0, g.Model[:])
	layout.PutFloats(buf, 64, g.View[:])
	layout.PutFloats(buf, 128, g.Projection[:])
	return buf
}

// Unmarshal decodes a GPUUniformsV1 from a buffer produced by Marshal.
func (g *GPUUniformsV1) Unmarshal(buf []byte) error {
	if err := layout.CheckLen(buf, g.Size(), "UniformsV1"); err != nil {
		return err
	}
	layout.FloatsAt(buf, 0, g.Model[:])
	layout.FloatsAt(buf, 64, g.View[:])
	layout.FloatsAt(buf, 128, g.Projection[:])
	return nil
}

// GPUUniforms is the per-draw transform record.
// Matches the WGSL Uniforms struct layout exactly (see GPUUniformsSource).
// Size: 240 bytes.
//
// Layout:
//
//	mat4x4<f32> model_matrix      (64 bytes, offset   0)
//	mat4x4<f32> view_matrix       (64 bytes, offset  64)
//	mat4x4<f32> projection_matrix (64 bytes, offset 128)
//	mat3x3<f32> normal_matrix     (48 bytes, offset 192, each column padded to vec4)
type GPUUniforms struct {
	Model        [16]float32
	View         [16]float32
	Projection   [16]float32
	NormalMatrix [12]float32
}

// Size returns the size of the GPUUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (240)
func (g *GPUUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUUniforms struct into a byte buffer suitable for GPU upload.
// The padding lane of each normal matrix column is written as zero.
//
// Returns:
//   - []byte: 240-byte buffer ready for GPU upload
func (g *GPUUniforms) Marshal() []byte {
	buf := make([]byte, g.Size())
	layout.PutFloats(buf, 0, g.Model[:])
	layout.PutFloats(buf, 64, g.View[:])
	layout.PutFloats(buf, 128, g.Projection[:])
	for col := range 3 {
		layout.PutFloats(buf, 192+col*16, g.NormalMatrix[col*4:col*4+3])
	}
	return buf
}

// Unmarshal decodes a GPUUniforms from a buffer produced by Marshal.
//
// Parameters:
//   - buf: at least 240 bytes of uniform data
//
// Returns:
//   - error: layout.ErrShortBuffer if buf is too small
func (g *GPUUniforms) Unmarshal(buf []byte) error {
	if err := layout.CheckLen(buf, g.Size(), "Uniforms"); err != nil {
		return err
	}
	layout.FloatsAt(buf, 0, g.Model[:])
	layout.FloatsAt(buf, 64, g.View[:])
	layout.FloatsAt(buf, 128, g.Projection[:])
	for col := range 3 {
		layout.FloatsAt(buf, 192+col*16, g.NormalMatrix[col*4:col*4+3])
		g.NormalMatrix[col*4+3] = 0
	}
	return nil
}

// GPUFragmentUniforms is the per-frame aggregate the lighting loop reads.
// Size: 32 bytes.
type GPUFragmentUniforms struct {
	LightCount     uint32     // offset  0: number of packed lights, never above capacity
	_              [3]uint32  // offset  4
	CameraPosition [3]float32 // offset 16: world-space eye position
	Tiling         uint32     // offset 28: tile edge length in pixels
}

// Size returns the size of the GPUFragmentUniforms struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPUFragmentUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFragmentUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPUFragmentUniforms) Marshal() []byte {
	buf := make([]byte, g.Size())
	layout.PutU32(buf, 0, g.LightCount)
	layout.PutFloats(buf, 16, g.CameraPosition[:])
	layout.PutU32(buf, 28, g.Tiling)
	return buf
}

// Unmarshal decodes a GPUFragmentUniforms from a buffer produced by Marshal.
func (g *GPUFragmentUniforms) Unmarshal(buf []byte) error {
	if err := layout.CheckLen(buf, g.Size(), "FragmentUniforms"); err != nil {
		return err
	}
	g.LightCount = layout.U32At(buf, 0)
	layout.FloatsAt(buf, 16, g.CameraPosition[:])
	g.Tiling = layout.U32At(buf, 28)
	return nil
}

// GPUSkyboxUniforms carries the skybox view-projection, whose view has its
// translation removed so the cube map stays centred on the eye.
// Size: 64 bytes.
type GPUSkyboxUniforms struct {
	ViewProjection [16]float32
}

// Size returns the size of the GPUSkyboxUniforms struct in bytes.
func (g *GPUSkyboxUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSkyboxUniforms struct into a byte buffer suitable for GPU upload.
func (g *GPUSkyboxUniforms) Marshal() []byte {
	buf := make([]byte, g.Size())
	layout.PutFloats(buf, 0, g.ViewProjection[:])
	return buf
}

// Unmarshal decodes a GPUSkyboxUniforms from a buffer produced by Marshal.
func (g *GPUSkyboxUniforms) Unmarshal(buf []byte) error {
	if err := layout.CheckLen(buf, g.Size(), "SkyboxUniforms"); err != nil {
		return err
	}
	layout.FloatsAt(buf, 0, g.ViewProjection[:])
	return nil
}

func mat4Field(name string, off uintptr) layout.Field {
	return layout.Field{Name: name, Offset: off, Size: 64}
}

// UniformsV1Record describes GPUUniformsV1 for layout checks and shader injection.
func UniformsV1Record() layout.Record {
	var g GPUUniformsV1
	return layout.Record{
		Key:      "uniforms",
		WGSLType: "Uniforms",
		Source:   GPUUniformsV1Source,
		Size:     unsafe.Sizeof(g),
		Resource: binding.ResourceUniforms,
		Fields: []layout.Field{
			mat4Field("model_matrix", unsafe.Offsetof(g.Model)),
			mat4Field("view_matrix", unsafe.Offsetof(g.View)),
			mat4Field("projection_matrix", unsafe.Offsetof(g.Projection)),
		},
	}
}

// UniformsRecord describes GPUUniforms for layout checks and shader injection.
func UniformsRecord() layout.Record {
	var g GPUUniforms
	return layout.Record{
		Key:      "uniforms",
		WGSLType: "Uniforms",
		Source:   GPUUniformsSource,
		Size:     unsafe.Sizeof(g),
		Resource: binding.ResourceUniforms,
		Fields: []layout.Field{
			mat4Field("model_matrix", unsafe.Offsetof(g.Model)),
			mat4Field("view_matrix", unsafe.Offsetof(g.View)),
			mat4Field("projection_matrix", unsafe.Offsetof(g.Projection)),
			{Name: "normal_matrix", Offset: unsafe.Offsetof(g.NormalMatrix), Size: unsafe.Sizeof(g.NormalMatrix)},
		},
	}
}

// FragmentUniformsRecord describes GPUFragmentUniforms for layout checks and shader injection.
func FragmentUniformsRecord() layout.Record {
	var g GPUFragmentUniforms
	return layout.Record{
		Key:      "fragment_uniforms",
		WGSLType: "FragmentUniforms",
		Source:   GPUFragmentUniformsSource,
		Size:     unsafe.Sizeof(g),
		Resource: binding.ResourceFragmentUniforms,
		Fields: []layout.Field{
			{Name: "light_count", Offset: unsafe.Offsetof(g.LightCount), Size: unsafe.Sizeof(g.LightCount)},
			{Name: "camera_position", Offset: unsafe.Offsetof(g.CameraPosition), Size: unsafe.Sizeof(g.CameraPosition)},
			{Name: "tiling", Offset: unsafe.Offsetof(g.Tiling), Size: unsafe.Sizeof(g.Tiling)},
		},
	}
}

// SkyboxUniformsRecord describes GPUSkyboxUniforms for layout checks and shader injection.
func SkyboxUniformsRecord() layout.Record {
	var g GPUSkyboxUniforms
	return layout.Record{
		Key:      "skybox_uniforms",
		WGSLType: "SkyboxUniforms",
		Source:   GPUSkyboxUniformsSource,
		Size:     unsafe.Sizeof(g),
		Resource: binding.ResourceSkybox,
		Fields: []layout.Field{
			mat4Field("view_projection", unsafe.Offsetof(g.ViewProjection)),
		},
	}
}
