package light

import "github.com/go-gl/mathgl/mgl32"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
// For sunlight the value is the direction toward the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithSpecularColor is an option builder that sets the RGB specular color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - LightBuilderOption: a function that applies the specular color option to a lightImpl
func WithSpecularColor(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.specularColor = [3]float32{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}

// WithAttenuation is an option builder that sets the distance falloff coefficients.
//
// Parameters:
//   - constant: the constant term
//   - linear: the linear term
//   - quadratic: the quadratic term
//
// Returns:
//   - LightBuilderOption: a function that applies the attenuation option to a lightImpl
func WithAttenuation(constant, linear, quadratic float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.attenuation = [3]float32{constant, linear, quadratic}
	}
}

// WithCone is an option builder that sets the spotlight cone half-angle and axis.
// The angle is specified in degrees and stored in radians, which is the unit the
// shader compares against.
//
// Parameters:
//   - angleDeg: cone half-angle in degrees
//   - x, y, z: cone axis, normalized before storing
//
// Returns:
//   - LightBuilderOption: a function that applies the cone option to a lightImpl
func WithCone(angleDeg, x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.coneAngle = degToRad(angleDeg)
		l.coneDirection = normalize3(x, y, z)
	}
}

// WithConeAttenuation is an option builder that sets the spotlight angular falloff exponent.
func WithConeAttenuation(attenuation float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.coneAttenuation = attenuation
	}
}

// WithEnabled is an option builder that sets whether the light is active for rendering.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}

// WithPriority is an option builder that sets the packing priority used when more
// lights are active than the light array can hold.
func WithPriority(priority int) LightBuilderOption {
	return func(l *lightImpl) {
		l.priority = priority
	}
}

// normalize3 normalizes a 3-component vector. Returns a zero vector if the input
// has zero length.
func normalize3(x, y, z float32) [3]float32 {
	v := mgl32.Vec3{x, y, z}
	if v.Len() == 0 {
		return [3]float32{0, 0, 0}
	}
	return v.Normalize()
}

func degToRad(deg float32) float32 {
	return mgl32.DegToRad(deg)
}
