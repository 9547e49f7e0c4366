package material

// material is the implementation of the Material interface.
type material struct {
	name          string
	baseColor     [4]float32
	specularColor [4]float32
	metallic      float32
	roughness     float32
	shininess     float32
}

// Material defines the interface for a surface's shading parameters.
//
// Every property always carries a value, whichever shading model ends up reading it:
// NewMaterial starts from defaults for all of them so a record written for one model is
// never partially initialised when the bound program switches to the other.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the albedo/diffuse RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// SpecularColor retrieves the RGBA specular tint used by the Phong model.
	//
	// Returns:
	//   - [4]float32: the specular color as RGBA values
	SpecularColor() [4]float32

	// Metallic retrieves the metallic factor of the material.
	// A value of 0.0 represents a dielectric surface, 1.0 represents a fully metallic surface.
	//
	// Returns:
	//   - float32: the metallic factor
	Metallic() float32

	// Roughness retrieves the roughness factor of the material.
	// A value of 0.0 represents a perfectly smooth surface, 1.0 represents a fully rough surface.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Shininess retrieves the Phong specular exponent.
	//
	// Returns:
	//   - float32: the shininess exponent
	Shininess() float32

	// GPU builds the wire record of the material for the given shading model.
	//
	// Parameters:
	//   - model: the shading model of the bound shader program
	//
	// Returns:
	//   - GPUMaterial: the complete record
	GPU(model ShadingModel) GPUMaterial
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		baseColor:     [4]float32{1, 1, 1, 1},
		specularColor: [4]float32{1, 1, 1, 1},
		metallic:      0.0,
		roughness:     1.0,
		shininess:     32.0,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) BaseColor() [4]float32 {
	return m.baseColor
}

func (m *material) SpecularColor() [4]float32 {
	return m.specularColor
}

func (m *material) Metallic() float32 {
	return m.metallic
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) GPU(model ShadingModel) GPUMaterial {
	return GPUMaterial{
		BaseColor:     m.baseColor,
		SpecularColor: m.specularColor,
		Roughness:     m.roughness,
		Metallic:      m.metallic,
		Shininess:     m.shininess,
		ShadingModel:  uint32(model),
	}
}
