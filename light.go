package glow

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Light contributes illumination to Phong materials. Implementations are
// AmbientLight, DirectionalLight and PointLight; they are compared by
// identity, so use pointers.
type Light interface {
	// illuminate returns the diffuse and specular light arriving at a
	// world-space point with the given normal, seen from eye.
	illuminate(p, n, eye mgl32.Vec3, shininess float64) (diffuse, specular Color)
}

// AmbientLight lights every surface uniformly.
type AmbientLight struct {
	Color     Color
	Intensity float64
}

func (l *AmbientLight) illuminate(_, _, _ mgl32.Vec3, _ float64) (Color, Color) {
	return l.Color.Scale(l.Intensity), Color{}
}

// DirectionalLight shines parallel rays from Position towards Target.
type DirectionalLight struct {
	Color     Color
	Intensity float64
	Position  mgl32.Vec3
	Target    mgl32.Vec3
}

func (l *DirectionalLight) illuminate(p, n, eye mgl32.Vec3, shininess float64) (Color, Color) {
	dir := l.Position.Sub(l.Target)
	if dir.Len() == 0 {
		return Color{}, Color{}
	}
	return phongTerms(l.Color.Scale(l.Intensity), dir.Normalize(), p, n, eye, shininess)
}

// PointLight radiates from Position. Distance, when positive, is the range at
// which the light reaches zero; Decay is the falloff exponent.
type PointLight struct {
	Color     Color
	Intensity float64
	Position  mgl32.Vec3
	Distance  float64
	Decay     float64
}

func (l *PointLight) illuminate(p, n, eye mgl32.Vec3, shininess float64) (Color, Color) {
	toLight := l.Position.Sub(p)
	d := float64(toLight.Len())
	if d == 0 {
		return Color{}, Color{}
	}
	att := 1.0
	if l.Distance > 0 {
		att = math.Pow(clamp01(1-d/l.Distance), l.Decay)
	}
	return phongTerms(l.Color.Scale(l.Intensity*att), toLight.Normalize(), p, n, eye, shininess)
}

// phongTerms evaluates Lambert diffuse and Blinn-Phong specular for a light
// arriving along the unit vector l.
func phongTerms(c Color, l, p, n, eye mgl32.Vec3, shininess float64) (Color, Color) {
	ndl := float64(n.Dot(l))
	if ndl <= 0 {
		return Color{}, Color{}
	}
	diffuse := c.Scale(ndl)
	v := eye.Sub(p)
	if v.Len() == 0 {
		return diffuse, Color{}
	}
	h := l.Add(v.Normalize())
	if h.Len() == 0 {
		return diffuse, Color{}
	}
	ndh := math.Max(float64(n.Dot(h.Normalize())), 0)
	return diffuse, c.Scale(math.Pow(ndh, math.Max(shininess, 1e-4)))
}

// shadeVertex computes the premultiplied vertex color for material m at a
// world-space point. The diffuse texture is applied by the sampler, so the
// result is the multiplier for Map texels. When emission shares the diffuse
// texture it is folded in here.
func shadeVertex(m *PhongMaterial, lights []Light, p, n, eye mgl32.Vec3) Color {
	var diff, spec Color
	for _, l := range lights {
		d, s := l.illuminate(p, n, eye, m.Shininess)
		diff.R += d.R
		diff.G += d.G
		diff.B += d.B
		spec.R += s.R
		spec.G += s.G
		spec.B += s.B
	}
	c := Color{
		R: m.Color.R*diff.R + m.Specular.R*spec.R,
		G: m.Color.G*diff.G + m.Specular.G*spec.G,
		B: m.Color.B*diff.B + m.Specular.B*spec.B,
		A: m.Color.A * m.Opacity,
	}
	if m.emits() && m.sharedEmissive() {
		e := m.Emissive.Scale(m.EmissiveIntensity)
		c.R += e.R
		c.G += e.G
		c.B += e.B
	}
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}.Premultiplied()
}

// emissiveVertex returns the premultiplied vertex color of the separate
// additive emissive pass.
func emissiveVertex(m *PhongMaterial) Color {
	e := m.Emissive.Scale(m.EmissiveIntensity)
	e.A = m.Color.A * m.Opacity
	return Color{clamp01(e.R), clamp01(e.G), clamp01(e.B), clamp01(e.A)}.Premultiplied()
}
