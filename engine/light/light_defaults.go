package light

// DefaultLighting returns the three-light rig the renderer starts with: a key
// sunlight, a dim ambient term and a low fill light without specular.
//
// Returns:
//   - []Light: sunlight, ambient and fill, in that order
func DefaultLighting() []Light {
	sun := NewLight(LightTypeSunlight,
		WithPosition(0.4, 1.5, -2),
		WithIntensity(0.6),
	)
	ambient := NewLight(LightTypeAmbientlight,
		WithColor(0.3, 0.3, 0.3),
		WithIntensity(0.2),
	)
	fill := NewLight(LightTypeSunlight,
		WithPosition(0, -0.1, 0.4),
		WithColor(0.4, 0.4, 0.4),
		WithSpecularColor(0, 0, 0),
		WithIntensity(0.6),
	)
	return []Light{sun, ambient, fill}
}
