package glow

import (
	"errors"
	"image"

	"github.com/anthonynsimon/bild/clone"
	"github.com/hajimehoshi/ebiten/v2"
)

// ErrTextureFailed is wrapped by the error of a texture whose image could not
// be fetched or decoded.
var ErrTextureFailed = errors.New("glow: texture load failed")

// LoadState is the lifecycle of a texture's image data.
type LoadState uint8

const (
	TexturePending LoadState = iota // load in flight; samples as blank
	TextureReady                    // image decoded and bound
	TextureFailed                   // load failed; samples as blank forever
)

func (s LoadState) String() string {
	switch s {
	case TexturePending:
		return "pending"
	case TextureReady:
		return "ready"
	case TextureFailed:
		return "failed"
	}
	return "unknown"
}

// blankImage is the 1x1 transparent texel sampled by textures that have no
// image yet. Never written after init.
var blankImage = image.NewRGBA(image.Rect(0, 0, 1, 1))

// Texture is a 2D image bound to material channels. The same *Texture may be
// referenced by several channels and materials; a completed load replaces its
// image in place so every reference sees it.
//
// All fields are owned by the render goroutine. Asynchronous loads hand their
// result to a TextureLoader, which applies it during Poll or Await.
type Texture struct {
	// Ref is the image reference the texture was created from (a path for
	// loaded textures, empty for in-memory images).
	Ref string

	state   LoadState
	err     error
	img     *image.RGBA // premultiplied; nil unless ready
	version uint32      // bumped on every image change
	done    chan struct{}

	// GPU copy, uploaded lazily by the Ebitengine device.
	gpu        *ebiten.Image
	gpuVersion uint32
}

func newPendingTexture(ref string) *Texture {
	return &Texture{Ref: ref, done: make(chan struct{})}
}

// NewTextureFromImage wraps an in-memory image. The texture is ready
// immediately. img is copied into premultiplied RGBA.
func NewTextureFromImage(img image.Image) *Texture {
	t := &Texture{done: make(chan struct{})}
	t.resolve(clone.AsRGBA(img), nil)
	return t
}

// State returns the texture's load state.
func (t *Texture) State() LoadState {
	return t.state
}

// Err returns the load error of a failed texture, or nil.
func (t *Texture) Err() error {
	return t.err
}

// Done returns a channel closed once the texture leaves TexturePending.
func (t *Texture) Done() <-chan struct{} {
	return t.done
}

// Version increments each time the texture's image changes.
func (t *Texture) Version() uint32 {
	return t.version
}

// Image returns the texture's pixels. Pending and failed textures return a
// shared 1x1 transparent image that must not be modified.
func (t *Texture) Image() *image.RGBA {
	if t.img == nil {
		return blankImage
	}
	return t.img
}

// Size returns the pixel dimensions of Image.
func (t *Texture) Size() (w, h int) {
	b := t.Image().Bounds()
	return b.Dx(), b.Dy()
}

// resolve settles a pending texture. Must run on the render goroutine.
func (t *Texture) resolve(img *image.RGBA, err error) {
	if t.state != TexturePending {
		return
	}
	if err != nil {
		t.state = TextureFailed
		t.err = err
	} else {
		t.state = TextureReady
		t.img = img
		t.version++
	}
	close(t.done)
}

// sampleNearest returns the premultiplied texel nearest to (u, v) in [0, 1],
// with v pointing up and edges clamped.
func (t *Texture) sampleNearest(u, v float64) Color {
	img := t.Image()
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	x := int(u * float64(w))
	y := int((1 - v) * float64(h))
	x = min(max(x, 0), w-1)
	y = min(max(y, 0), h-1)
	off := img.PixOffset(b.Min.X+x, b.Min.Y+y)
	p := img.Pix[off : off+4 : off+4]
	return Color{
		R: float64(p[0]) / 255,
		G: float64(p[1]) / 255,
		B: float64(p[2]) / 255,
		A: float64(p[3]) / 255,
	}
}
