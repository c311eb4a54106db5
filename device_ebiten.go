package glow

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// EbitenSurface is a GPU color buffer backed by an *ebiten.Image.
type EbitenSurface struct {
	img *ebiten.Image
}

// NewEbitenSurface wraps img, typically the screen passed to Game.Draw.
func NewEbitenSurface(img *ebiten.Image) *EbitenSurface {
	return &EbitenSurface{img: img}
}

// Size implements Surface.
func (s *EbitenSurface) Size() (w, h int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image returns the underlying *ebiten.Image.
func (s *EbitenSurface) Image() *ebiten.Image {
	return s.img
}

// maxTriangleVerts is the largest vertex run addressable by uint16 indices,
// rounded down to whole triangles.
const maxTriangleVerts = 65535

// EbitenDevice renders with Ebitengine: triangles through DrawTriangles,
// blur and composite through Kage shaders. Its methods must run on the
// Ebitengine draw goroutine.
type EbitenDevice struct {
	// CompositeMVP transforms the fullscreen composite quad. Identity covers
	// the whole destination.
	CompositeMVP mgl32.Mat4

	pool      renderTexturePool
	kawase    *BlurFilter
	separable *SeparableBlur

	white    *ebiten.Image // 3x3 white; the center texel is sampled
	triVerts []ebiten.Vertex
	triInds  []uint16
	triOp    ebiten.DrawTrianglesOptions
	imgOp    ebiten.DrawImageOptions
	compOp   ebiten.DrawTrianglesShaderOptions
}

// NewEbitenDevice creates a device rendering with Ebitengine.
func NewEbitenDevice() *EbitenDevice {
	d := &EbitenDevice{
		CompositeMVP: mgl32.Ident4(),
		kawase:       NewBlurFilter(0),
		separable:    NewSeparableBlur(BlurGaussian, 0),
	}
	d.triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	d.triOp.Filter = ebiten.FilterLinear
	return d
}

// NewSurface implements Device.
func (d *EbitenDevice) NewSurface(w, h int) Surface {
	return &EbitenSurface{img: ebiten.NewImage(w, h)}
}

// DisposeSurface implements Device.
func (d *EbitenDevice) DisposeSurface(s Surface) {
	if es := ebitenSurface(s); es.img != nil {
		es.img.Deallocate()
	}
}

func ebitenSurface(s Surface) *EbitenSurface {
	es, ok := s.(*EbitenSurface)
	if !ok {
		surfaceMismatch()
	}
	return es
}

func (d *EbitenDevice) clear(dst Surface, c Color) {
	img := ebitenSurface(dst).img
	if c.A == 0 {
		img.Clear()
		return
	}
	img.Fill(c.toRGBA())
}

func (d *EbitenDevice) ensureWhite() *ebiten.Image {
	if d.white == nil {
		d.white = ebiten.NewImage(3, 3)
		d.white.Fill(color.White)
	}
	return d.white
}

// textureImage returns the GPU copy of t, uploading it when the texture's
// image changed since the last upload.
func (d *EbitenDevice) textureImage(t *Texture) *ebiten.Image {
	if t == nil {
		return d.ensureWhite()
	}
	if t.gpu == nil || t.gpuVersion != t.version {
		if t.gpu != nil {
			t.gpu.Deallocate()
		}
		t.gpu = ebiten.NewImageFromImage(t.Image())
		t.gpuVersion = t.version
	}
	return t.gpu
}

// ensureIndices grows the sequential index buffer to n entries.
func (d *EbitenDevice) ensureIndices(n int) []uint16 {
	for i := len(d.triInds); i < n; i++ {
		d.triInds = append(d.triInds, uint16(i))
	}
	return d.triInds[:n]
}

func (d *EbitenDevice) drawTriangles(dst Surface, cmds []drawCommand) {
	target := ebitenSurface(dst).img
	for i := range cmds {
		cmd := &cmds[i]
		img := d.textureImage(cmd.tex)
		b := img.Bounds()
		sw, sh := float32(b.Dx()), float32(b.Dy())

		verts := d.triVerts[:0]
		for j := range cmd.verts {
			v := &cmd.verts[j]
			sx, sy := float32(1.5), float32(1.5)
			if cmd.tex != nil {
				sx, sy = v.U*sw, (1-v.V)*sh
			}
			verts = append(verts, ebiten.Vertex{
				DstX: v.X, DstY: v.Y,
				SrcX: sx, SrcY: sy,
				ColorR: v.R, ColorG: v.G, ColorB: v.B, ColorA: v.A,
			})
		}
		d.triVerts = verts

		d.triOp.Blend = cmd.blend.EbitenBlend()
		for start := 0; start < len(verts); start += maxTriangleVerts {
			end := min(start+maxTriangleVerts, len(verts))
			target.DrawTriangles(verts[start:end], d.ensureIndices(end-start), img, &d.triOp)
		}
	}
}

func (d *EbitenDevice) blur(s Surface, kind BlurKind, radius int) {
	if radius <= 0 {
		return
	}
	img := ebitenSurface(s).img
	b := img.Bounds()
	parent, tmp := d.pool.AcquireExact(b.Dx(), b.Dy())
	defer d.pool.Release(parent)

	if kind == BlurKawase {
		d.kawase.Radius = radius
		d.kawase.Apply(img, tmp)
		img.Clear()
		d.imgOp.GeoM.Reset()
		d.imgOp.ColorScale.Reset()
		d.imgOp.Blend = ebiten.BlendCopy
		img.DrawImage(tmp, &d.imgOp)
		return
	}
	d.separable.Kind = kind
	d.separable.Radius = min(radius, MaxBlurRadius)
	d.separable.Apply(img, tmp)
}

func (d *EbitenDevice) composite(dst, base, bloom Surface, strength float64) {
	out := ebitenSurface(dst).img
	baseImg := ebitenSurface(base).img
	bloomImg := ebitenSurface(bloom).img

	ob, bb := out.Bounds(), baseImg.Bounds()
	quad := compositeQuad(d.CompositeMVP, ob.Dx(), ob.Dy(), bb.Dx(), bb.Dy())
	d.compOp.Images[BaseTextureSlot] = baseImg
	d.compOp.Images[BloomTextureSlot] = bloomImg
	d.compOp.Blend = ebiten.BlendCopy
	out.DrawTrianglesShader(quad[:], quadIndices, ensureCompositeShader(strength), &d.compOp)
	d.compOp.Images[BaseTextureSlot] = nil
	d.compOp.Images[BloomTextureSlot] = nil
}

// Dispose releases the device's cached GPU resources.
func (d *EbitenDevice) Dispose() {
	d.kawase.Dispose()
	for key, stack := range d.pool.buckets {
		for _, img := range stack {
			img.Deallocate()
		}
		delete(d.pool.buckets, key)
	}
	if d.white != nil {
		d.white.Deallocate()
		d.white = nil
	}
}
