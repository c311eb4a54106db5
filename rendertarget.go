package glow

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderTarget is an offscreen surface owned by the Renderer, stamped with
// the frame and camera it was last rendered for. The base and bloom targets
// are recreated when the viewport size changes and reused otherwise.
type RenderTarget struct {
	name    string
	surface Surface
	w, h    int

	frame    uint64     // 0 until first rendered
	viewProj mgl32.Mat4 // camera the contents were rendered with
}

// Surface returns the target's surface, or nil before the first frame.
func (t *RenderTarget) Surface() Surface {
	return t.surface
}

// Size returns the target dimensions.
func (t *RenderTarget) Size() (w, h int) {
	return t.w, t.h
}

// Frame returns the frame number the contents belong to.
func (t *RenderTarget) Frame() uint64 {
	return t.frame
}

// ensure (re)allocates the surface for a w x h viewport. It reports whether
// a new surface was created.
func (t *RenderTarget) ensure(dev Device, w, h int) bool {
	if t.surface != nil && t.w == w && t.h == h {
		return false
	}
	if t.surface != nil {
		dev.DisposeSurface(t.surface)
	}
	t.surface = dev.NewSurface(w, h)
	t.w, t.h = w, h
	t.frame = 0
	Logger().Info("render target allocated", "target", t.name, "width", w, "height", h)
	return true
}

// stamp marks the contents as rendered for frame with the given camera.
func (t *RenderTarget) stamp(frame uint64, viewProj mgl32.Mat4) {
	t.frame = frame
	t.viewProj = viewProj
}

// sameFrame reports whether both targets hold output of the same frame and
// camera.
func (t *RenderTarget) sameFrame(o *RenderTarget) bool {
	return t.frame != 0 && t.frame == o.frame && t.viewProj == o.viewProj
}

func (t *RenderTarget) dispose(dev Device) {
	if t.surface != nil {
		dev.DisposeSurface(t.surface)
		t.surface = nil
	}
	t.w, t.h, t.frame = 0, 0, 0
}

// --- Render texture pool ---

// renderTexturePool manages reusable offscreen ebiten.Images keyed by
// power-of-two dimensions. After warmup, Acquire/Release are zero-alloc.
type renderTexturePool struct {
	buckets map[uint64][]*ebiten.Image
}

// poolKey packs power-of-two width and height into a single uint64.
func poolKey(w, h int) uint64 {
	return uint64(w)<<32 | uint64(h)
}

// Acquire returns a cleared offscreen image with at least (w, h) pixels.
// Dimensions are rounded up to the next power of two.
func (p *renderTexturePool) Acquire(w, h int) *ebiten.Image {
	pw := nextPowerOfTwo(w)
	ph := nextPowerOfTwo(h)
	key := poolKey(pw, ph)

	if p.buckets != nil {
		if stack := p.buckets[key]; len(stack) > 0 {
			img := stack[len(stack)-1]
			p.buckets[key] = stack[:len(stack)-1]
			img.Clear()
			return img
		}
	}

	return ebiten.NewImageWithOptions(
		image.Rect(0, 0, pw, ph),
		&ebiten.NewImageOptions{Unmanaged: true},
	)
}

// AcquireExact returns a pooled image viewed as exactly w x h pixels, as
// DrawRectShader requires sources sized like the destination rectangle.
// Release the returned parent image.
func (p *renderTexturePool) AcquireExact(w, h int) (parent, view *ebiten.Image) {
	parent = p.Acquire(w, h)
	return parent, parent.SubImage(image.Rect(0, 0, w, h)).(*ebiten.Image)
}

// Release returns an image to the pool for reuse. The image is cleared on
// next Acquire, not here.
func (p *renderTexturePool) Release(img *ebiten.Image) {
	if img == nil {
		return
	}
	b := img.Bounds()
	key := poolKey(b.Dx(), b.Dy())

	if p.buckets == nil {
		p.buckets = make(map[uint64][]*ebiten.Image)
	}
	p.buckets[key] = append(p.buckets[key], img)
}

// nextPowerOfTwo returns the smallest power of two >= n (minimum 1).
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << int(math.Ceil(math.Log2(float64(n))))
}
