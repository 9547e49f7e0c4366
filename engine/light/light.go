package light

import "fmt"

// LightType identifies the kind of light source. The values are the wire
// discriminator of the Light record and must not be renumbered.
type LightType uint32

const (
	// LightTypeUnused marks an empty slot in the light array. The shading loop
	// exits early on it.
	LightTypeUnused LightType = iota

	// LightTypeSunlight is a distant source with no falloff. Its position is the
	// direction toward the light rather than a point in the world.
	LightTypeSunlight

	// LightTypeSpotlight emits in a cone from a position along the cone direction.
	// It is the only type whose cone members are meaningful.
	LightTypeSpotlight

	// LightTypePointlight emits in all directions from a position, attenuated by
	// distance with constant/linear/quadratic coefficients.
	LightTypePointlight

	// LightTypeAmbientlight adds a flat color term independent of position.
	LightTypeAmbientlight
)

func (t LightType) String() string {
	switch t {
	case LightTypeUnused:
		return "unused"
	case LightTypeSunlight:
		return "sunlight"
	case LightTypeSpotlight:
		return "spotlight"
	case LightTypePointlight:
		return "pointlight"
	case LightTypeAmbientlight:
		return "ambientlight"
	default:
		return fmt.Sprintf("light_type(%d)", uint32(t))
	}
}

// Valid reports whether t is one of the declared discriminator values.
func (t LightType) Valid() bool {
	return t <= LightTypeAmbientlight
}

// meaningfulFields lists the Light members the shading stage reads for each type.
var meaningfulFields = map[LightType][]string{
	LightTypeSunlight:     {"position", "color", "specular_color", "intensity", "light_type"},
	LightTypeSpotlight:    {"position", "color", "specular_color", "intensity", "attenuation", "light_type", "cone_angle", "cone_direction", "cone_attenuation"},
	LightTypePointlight:   {"position", "color", "specular_color", "intensity", "attenuation", "light_type"},
	LightTypeAmbientlight: {"color", "intensity", "light_type"},
	LightTypeUnused:       {"light_type"},
}

// MeaningfulFields returns the Light record members the consumer reads for a light
// type. Other members are still written but carry no meaning for that type.
func MeaningfulFields(t LightType) []string {
	fields := meaningfulFields[t]
	out := make([]string, len(fields))
	copy(out, fields)
	return out
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType       LightType
	position        [3]float32
	color           [3]float32
	specularColor   [3]float32
	intensity       float32
	attenuation     [3]float32
	coneAngle       float32 // radians
	coneDirection   [3]float32
	coneAttenuation float32
	enabled         bool
	priority        int
}

// Light defines the interface for a CPU-side light source.
//
// All light types share this interface; the type discriminator decides which
// properties the shading stage reads (see MeaningfulFields). Lights are packed into
// the fixed-capacity light array once per frame by a LightBuffer.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type discriminator
	Type() LightType

	// Position returns the world-space position, or the direction toward the light
	// for sunlight.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Color returns the RGB diffuse color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// SpecularColor returns the RGB color of specular highlights.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	SpecularColor() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Attenuation returns the constant, linear and quadratic distance falloff coefficients.
	//
	// Returns:
	//   - [3]float32: (constant, linear, quadratic)
	Attenuation() [3]float32

	// ConeAngle returns the spotlight cone half-angle in radians.
	//
	// Returns:
	//   - float32: the cone angle in radians
	ConeAngle() float32

	// ConeDirection returns the normalized spotlight axis.
	//
	// Returns:
	//   - [3]float32: direction as (x, y, z)
	ConeDirection() [3]float32

	// ConeAttenuation returns the spotlight angular falloff exponent.
	//
	// Returns:
	//   - float32: the cone attenuation
	ConeAttenuation() float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are skipped when the light array is packed.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// Priority orders lights when more are active than the light array holds.
	// Higher priorities are kept first.
	//
	// Returns:
	//   - int: the priority
	Priority() int

	SetType(lightType LightType)
	SetPosition(x, y, z float32)
	SetColor(r, g, b float32)
	SetSpecularColor(r, g, b float32)
	SetIntensity(intensity float32)
	SetAttenuation(constant, linear, quadratic float32)

	// SetCone sets the spotlight cone. The angle is given in degrees and stored in radians.
	//
	// Parameters:
	//   - angleDeg: cone half-angle in degrees
	//   - x, y, z: cone axis (normalized before storing)
	//   - attenuation: angular falloff exponent
	SetCone(angleDeg, x, y, z, attenuation float32)

	SetEnabled(enabled bool)
	SetPriority(priority int)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with defaults for every member
// and any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:     lightType,
		color:         [3]float32{1, 1, 1},
		specularColor: [3]float32{1, 1, 1},
		intensity:     1.0,
		attenuation:   [3]float32{1, 0, 0},
		coneDirection: [3]float32{0, -1, 0},
		enabled:       true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Active reports whether a light takes a slot in the light array: it must be
// enabled and carry a declared, non-unused type.
func Active(l Light) bool {
	if l == nil || !l.Enabled() {
		return false
	}
	t := l.Type()
	return t != LightTypeUnused && t.Valid()
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Color() [3]float32 {
	return l.color
}

func (l *lightImpl) SpecularColor() [3]float32 {
	return l.specularColor
}

func (l *lightImpl) Intensity() float32 {
	return l.intensity
}

func (l *lightImpl) Attenuation() [3]float32 {
	return l.attenuation
}

func (l *lightImpl) ConeAngle() float32 {
	return l.coneAngle
}

func (l *lightImpl) ConeDirection() [3]float32 {
	return l.coneDirection
}

func (l *lightImpl) ConeAttenuation() float32 {
	return l.coneAttenuation
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) Priority() int {
	return l.priority
}

func (l *lightImpl) SetType(lightType LightType) {
	l.lightType = lightType
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *lightImpl) SetSpecularColor(r, g, b float32) {
	l.specularColor = [3]float32{r, g, b}
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *lightImpl) SetAttenuation(constant, linear, quadratic float32) {
	l.attenuation = [3]float32{constant, linear, quadratic}
}

func (l *lightImpl) SetCone(angleDeg, x, y, z, attenuation float32) {
	l.coneAngle = degToRad(angleDeg)
	l.coneDirection = normalize3(x, y, z)
	l.coneAttenuation = attenuation
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetPriority(priority int) {
	l.priority = priority
}
