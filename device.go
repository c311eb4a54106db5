package glow

// Surface is a color buffer owned by a Device: a render target, a blur
// scratch image, or the display framebuffer. Pixels are premultiplied RGBA.
type Surface interface {
	// Size returns the surface dimensions in pixels.
	Size() (w, h int)
}

// Device executes the primitive operations of the bloom pipeline on a
// particular backend. Two devices are provided: EbitenDevice renders on the
// GPU through Ebitengine and SoftwareDevice rasterizes on the CPU. Surfaces
// are only valid with the device that created them.
type Device interface {
	// NewSurface allocates a cleared surface.
	NewSurface(w, h int) Surface
	// DisposeSurface releases a surface created by NewSurface.
	DisposeSurface(s Surface)

	clear(dst Surface, c Color)
	drawTriangles(dst Surface, cmds []drawCommand)
	blur(s Surface, kind BlurKind, radius int)
	composite(dst, base, bloom Surface, strength float64)
}

// vertex is a screen-space vertex produced by the projection stage.
type vertex struct {
	X, Y       float32 // target pixels, y down
	U, V       float32 // texture coordinates, v up
	R, G, B, A float32 // premultiplied color
}

// drawCommand is a run of screen-space triangles sharing a texture and a
// blend mode. Triangles are unindexed: every three vertices form one.
type drawCommand struct {
	verts []vertex
	tex   *Texture // nil samples white
	blend BlendMode

	renderOrder int
	depth       float32 // view-space z; more negative is farther
	treeOrder   int
}

func surfaceMismatch() {
	panic("glow: surface belongs to a different device")
}
