package glow

// PhongMaterial describes a lit surface using the Phong reflection model.
//
// The final color of a fragment is
//
//	Map * Color * (ambient + diffuse) + specular + EmissiveMap * Emissive * EmissiveIntensity
//
// where a nil Map or EmissiveMap contributes white. Emissive light ignores
// scene lighting, which makes emissive surfaces read as light sources.
type PhongMaterial struct {
	// Color is the diffuse base tint.
	Color Color
	// Map is the diffuse color texture, or nil.
	Map *Texture

	// Emissive is the self-illumination color. Black disables emission.
	Emissive Color
	// EmissiveMap modulates Emissive, or nil.
	EmissiveMap *Texture
	// EmissiveIntensity scales Emissive.
	EmissiveIntensity float64

	// Specular is the highlight color; Shininess its exponent.
	Specular  Color
	Shininess float64

	// Opacity multiplies the output alpha.
	Opacity float64
	// Side selects which faces are drawn.
	Side Side
}

// NewPhongMaterial returns a white, non-emissive material with the common
// defaults: dark gray specular, shininess 30, fully opaque, front faces only.
func NewPhongMaterial() *PhongMaterial {
	return &PhongMaterial{
		Color:             ColorWhite,
		Emissive:          ColorBlack,
		EmissiveIntensity: 1,
		Specular:          Color{0x11 / 255.0, 0x11 / 255.0, 0x11 / 255.0, 1},
		Shininess:         30,
		Opacity:           1,
		Side:              FrontSide,
	}
}

// emits reports whether the material contributes emissive light.
func (m *PhongMaterial) emits() bool {
	return !m.Emissive.IsBlack() && m.EmissiveIntensity > 0
}

// sharedEmissive reports whether emission can be folded into the diffuse
// pass: both channels sample the same texture.
func (m *PhongMaterial) sharedEmissive() bool {
	return m.EmissiveMap == m.Map
}
