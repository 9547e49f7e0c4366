package material

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName sets the material's identifier.
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithBaseColor sets the RGBA albedo every shading model reads.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.baseColor = color
	}
}

// WithPhong sets the members ShadingModelPhong reads besides the base color.
//
// Parameters:
//   - specular: the RGBA specular tint
//   - shininess: the specular exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies both
func WithPhong(specular [4]float32, shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.specularColor = specular
		m.shininess = shininess
	}
}

// WithPBR sets the members ShadingModelPBR reads besides the base color.
//
// Parameters:
//   - metallic: 0 for a dielectric, 1 for a metal
//   - roughness: 0 for a mirror, 1 for fully diffuse
//
// Returns:
//   - MaterialBuilderOption: a function that applies both
func WithPBR(metallic, roughness float32) MaterialBuilderOption {
	return func(m *material) {
		m.metallic = metallic
		m.roughness = roughness
	}
}
