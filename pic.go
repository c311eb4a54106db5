package glow

// PicWidth and PicHeight are the world-space size of every picture plane.
// The aspect is fixed: images with another aspect ratio are stretched, so
// callers should crop beforehand.
const (
	PicWidth  = 1
	PicHeight = 1.5
)

// PicOptions tunes the material of picture meshes.
type PicOptions struct {
	// Name is the object name; empty uses the image reference.
	Name string
	// Tint is the diffuse base color. Zero value means white.
	Tint Color
	// Emissive is the glow color applied through the picture texture.
	// Zero value means white, making the picture self-illuminated.
	Emissive Color
	// EmissiveIntensity scales Emissive. Zero means 1.
	EmissiveIntensity float64
	// Side selects which faces are drawn. Defaults to FrontSide.
	Side Side
}

// PicBuilder creates picture meshes: 1 x 1.5 planes textured with an image
// that both colors the surface and makes it glow.
type PicBuilder struct {
	Loader  *TextureLoader
	Options PicOptions
}

// NewPicBuilder creates a builder that loads images with loader.
func NewPicBuilder(loader *TextureLoader) *PicBuilder {
	return &PicBuilder{Loader: loader}
}

// CreatePic returns a picture mesh for the image at ref. The texture loads
// asynchronously: the mesh is usable immediately, but samples a blank image
// until the load is applied by the loader's Poll (normally at the start of
// the next rendered frame). A failed load leaves the texture blank and is
// not reported here. The returned object is not a bloom source; tag it by
// setting BloomSource.
func (b *PicBuilder) CreatePic(ref string) *Object {
	if b.Loader == nil {
		panic("glow: PicBuilder has no texture loader")
	}
	o := b.CreatePicFromTexture(b.Loader.Load(ref))
	if b.Options.Name == "" {
		o.Name = ref
	}
	return o
}

// CreatePicFromTexture returns a picture mesh for an existing texture.
func (b *PicBuilder) CreatePicFromTexture(tex *Texture) *Object {
	return NewPic(tex, b.Options)
}

// NewPic builds the picture mesh: a PicWidth x PicHeight plane whose material
// binds tex as both the diffuse map and the emissive map.
func NewPic(tex *Texture, opts PicOptions) *Object {
	mat := NewPhongMaterial()
	mat.Color = ColorWhite
	if opts.Tint != (Color{}) {
		mat.Color = opts.Tint
	}
	mat.Map = tex
	mat.EmissiveMap = tex
	mat.Emissive = ColorWhite
	if opts.Emissive != (Color{}) {
		mat.Emissive = opts.Emissive
	}
	if opts.EmissiveIntensity > 0 {
		mat.EmissiveIntensity = opts.EmissiveIntensity
	}
	mat.Side = opts.Side

	name := opts.Name
	if name == "" && tex != nil {
		name = tex.Ref
	}
	return NewObject(name, NewPlaneGeometry(PicWidth, PicHeight, 1, 1), mat)
}
