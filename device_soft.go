package glow

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/blur"
)

// SoftSurface is a CPU color buffer holding premultiplied RGBA pixels.
type SoftSurface struct {
	img *image.RGBA
}

// NewSoftSurface wraps img as a surface of the software device. The image
// origin must be (0, 0).
func NewSoftSurface(img *image.RGBA) *SoftSurface {
	if img.Rect.Min != (image.Point{}) {
		panic("glow: soft surface image must start at the origin")
	}
	return &SoftSurface{img: img}
}

// Size implements Surface.
func (s *SoftSurface) Size() (w, h int) {
	return s.img.Rect.Dx(), s.img.Rect.Dy()
}

// Image returns the surface pixels. The image is live: later draws change it.
func (s *SoftSurface) Image() *image.RGBA {
	return s.img
}

// SoftwareDevice rasterizes on the CPU into image.RGBA surfaces. It needs no
// graphics context, which makes it suitable for tests, servers and offline
// rendering. Triangles are filled with edge functions and barycentric
// interpolation, textures are sampled nearest-neighbor, and blur uses bild.
type SoftwareDevice struct{}

// NewSoftwareDevice creates a software device.
func NewSoftwareDevice() *SoftwareDevice {
	return &SoftwareDevice{}
}

// NewSurface implements Device.
func (d *SoftwareDevice) NewSurface(w, h int) Surface {
	return &SoftSurface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// DisposeSurface implements Device. Soft surfaces are garbage collected.
func (d *SoftwareDevice) DisposeSurface(Surface) {}

func softSurface(s Surface) *SoftSurface {
	ss, ok := s.(*SoftSurface)
	if !ok {
		surfaceMismatch()
	}
	return ss
}

func (d *SoftwareDevice) clear(dst Surface, c Color) {
	img := softSurface(dst).img
	p := c.toRGBA()
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i] = p.R
		pix[i+1] = p.G
		pix[i+2] = p.B
		pix[i+3] = p.A
	}
}

func (d *SoftwareDevice) drawTriangles(dst Surface, cmds []drawCommand) {
	img := softSurface(dst).img
	for i := range cmds {
		cmd := &cmds[i]
		for t := 0; t+2 < len(cmd.verts); t += 3 {
			rasterizeTriangle(img, &cmd.verts[t], &cmd.verts[t+1], &cmd.verts[t+2], cmd.tex, cmd.blend)
		}
	}
}

// edgeFunction computes the signed area of the parallelogram spanned by
// (b - a) and (c - a), in y-down screen space.
func edgeFunction(ax, ay, bx, by, cx, cy float32) float32 {
	return (cx-ax)*(by-ay) - (cy-ay)*(bx-ax)
}

// isTopLeft reports whether the edge a->b is a top or left edge for
// triangles with positive edgeFunction area. Pixel centers exactly on such
// edges are filled; on other edges they are not, so shared edges are drawn once.
func isTopLeft(a, b *vertex) bool {
	dy := b.Y - a.Y
	return dy > 0 || (dy == 0 && b.X < a.X)
}

// covers applies the fill convention to one edge weight.
func covers(w float32, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

func rasterizeTriangle(img *image.RGBA, v0, v1, v2 *vertex, tex *Texture, blend BlendMode) {
	area := edgeFunction(v0.X, v0.Y, v1.X, v1.Y, v2.X, v2.Y)
	if area == 0 {
		return
	}
	if area < 0 {
		v0, v2 = v2, v0
		area = -area
	}
	invArea := 1 / area

	width, height := img.Rect.Dx(), img.Rect.Dy()
	minX := max(int(math.Floor(float64(min(v0.X, v1.X, v2.X)))), 0)
	maxX := min(int(math.Ceil(float64(max(v0.X, v1.X, v2.X)))), width)
	minY := max(int(math.Floor(float64(min(v0.Y, v1.Y, v2.Y)))), 0)
	maxY := min(int(math.Ceil(float64(max(v0.Y, v1.Y, v2.Y)))), height)

	tl0 := isTopLeft(v1, v2)
	tl1 := isTopLeft(v2, v0)
	tl2 := isTopLeft(v0, v1)

	for y := minY; y < maxY; y++ {
		py := float32(y) + 0.5
		row := y * img.Stride
		for x := minX; x < maxX; x++ {
			px := float32(x) + 0.5

			w0 := edgeFunction(v1.X, v1.Y, v2.X, v2.Y, px, py)
			w1 := edgeFunction(v2.X, v2.Y, v0.X, v0.Y, px, py)
			w2 := edgeFunction(v0.X, v0.Y, v1.X, v1.Y, px, py)
			if !covers(w0, tl0) || !covers(w1, tl1) || !covers(w2, tl2) {
				continue
			}
			w0 *= invArea
			w1 *= invArea
			w2 *= invArea

			src := Color{
				R: float64(w0*v0.R + w1*v1.R + w2*v2.R),
				G: float64(w0*v0.G + w1*v1.G + w2*v2.G),
				B: float64(w0*v0.B + w1*v1.B + w2*v2.B),
				A: float64(w0*v0.A + w1*v1.A + w2*v2.A),
			}
			if tex != nil {
				u := float64(w0*v0.U + w1*v1.U + w2*v2.U)
				v := float64(w0*v0.V + w1*v1.V + w2*v2.V)
				src = src.Mul(tex.sampleNearest(u, v))
			}
			blendPixel(img.Pix[row+x*4:row+x*4+4:row+x*4+4], src, blend)
		}
	}
}

// blendPixel composites a premultiplied source color onto a pixel.
func blendPixel(p []uint8, src Color, blend BlendMode) {
	const inv255 = 1.0 / 255
	dr, dg, db, da := float64(p[0])*inv255, float64(p[1])*inv255, float64(p[2])*inv255, float64(p[3])*inv255
	k := 1 - clamp01(src.A)
	if blend == BlendAdd {
		k = 1
	}
	p[0] = unit8(src.R + dr*k)
	p[1] = unit8(src.G + dg*k)
	p[2] = unit8(src.B + db*k)
	p[3] = unit8(src.A + da*k)
}

// unit8 converts a [0, 1] channel to 8 bits, clamping out-of-range values.
func unit8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}

func (d *SoftwareDevice) blur(s Surface, kind BlurKind, radius int) {
	if radius <= 0 {
		return
	}
	img := softSurface(s).img
	var out *image.RGBA
	switch kind {
	case BlurBox:
		out = blur.Box(img, float64(radius))
	default:
		// Kawase is a GPU approximation of a Gaussian; on the CPU the
		// Gaussian itself is as cheap.
		out = blur.Gaussian(img, float64(radius))
	}
	// bild truncates each channel, so a uniform area may drop by one step.
	copy(img.Pix, out.Pix)
}

func (d *SoftwareDevice) composite(dst, base, bloom Surface, strength float64) {
	out := softSurface(dst).img
	b := softSurface(base).img
	k := softSurface(bloom).img
	const inv255 = 1.0 / 255
	n := min(len(out.Pix), len(b.Pix), len(k.Pix))
	for i := 0; i+3 < n; i += 4 {
		c := CompositeColor(
			Color{float64(b.Pix[i]) * inv255, float64(b.Pix[i+1]) * inv255, float64(b.Pix[i+2]) * inv255, float64(b.Pix[i+3]) * inv255},
			Color{float64(k.Pix[i]) * inv255, float64(k.Pix[i+1]) * inv255, float64(k.Pix[i+2]) * inv255, float64(k.Pix[i+3]) * inv255},
			strength,
		)
		out.Pix[i] = unit8(c.R)
		out.Pix[i+1] = unit8(c.G)
		out.Pix[i+2] = unit8(c.B)
		out.Pix[i+3] = unit8(c.A)
	}
}
