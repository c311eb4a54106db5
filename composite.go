package glow

import (
	"fmt"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
)

// Sampler uniform names of the composite program and the image slots they
// are bound to on Ebitengine (DrawTrianglesShaderOptions.Images).
const (
	UniformBaseTexture  = "baseTexture"
	UniformBloomTexture = "bloomTexture"

	BaseTextureSlot  = 0
	BloomTextureSlot = 1
)

// BloomVertexShader is the GLSL vertex stage of the composite program for
// hosts that compile their own: texture coordinates pass through and the
// position is projected by the model-view-projection transform.
const BloomVertexShader = `varying vec2 vUv;

void main() {
	vUv = uv;
	gl_Position = projectionMatrix * modelViewMatrix * vec4( position, 1.0 );
}
`

// BloomFragmentShader is the GLSL fragment stage of the composite program.
// The bloom weight 0.5 is compiled in; output is not clamped here.
const BloomFragmentShader = `uniform sampler2D baseTexture;
uniform sampler2D bloomTexture;

varying vec2 vUv;

void main() {
	gl_FragColor = ( texture2D( baseTexture, vUv ) + vec4( 0.5 ) * texture2D( bloomTexture, vUv ) );
}
`

// CompositeColor is the per-pixel composite function: base + weight*bloom
// on every channel, without clamping. A black, transparent bloom texel
// leaves base unchanged.
func CompositeColor(base, bloom Color, weight float64) Color {
	return Color{
		R: base.R + weight*bloom.R,
		G: base.G + weight*bloom.G,
		B: base.B + weight*bloom.B,
		A: base.A + weight*bloom.A,
	}
}

// compositeShaderSource returns the Kage equivalent of BloomFragmentShader
// with the given weight compiled in. Image 0 is the base texture and image 1
// the bloom texture.
func compositeShaderSource(weight float64) string {
	return fmt.Sprintf(`//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	base := imageSrc%dAt(src)
	bloom := imageSrc%dAt(src)
	return base + vec4(%s)*bloom
}
`, BaseTextureSlot, BloomTextureSlot, kageFloat(weight))
}

// kageFloat formats v as a Kage floating-point literal.
func kageFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 32)
	for _, c := range s {
		if c == '.' || c == 'e' {
			return s
		}
	}
	return s + ".0"
}

// compositeShaders caches one compiled program per weight. Shaders are only
// compiled on the render goroutine.
var compositeShaders = map[float64]*ebiten.Shader{}

func ensureCompositeShader(weight float64) *ebiten.Shader {
	if s, ok := compositeShaders[weight]; ok {
		return s
	}
	s, err := ebiten.NewShader([]byte(compositeShaderSource(weight)))
	if err != nil {
		panic("glow: failed to compile composite shader: " + err.Error())
	}
	compositeShaders[weight] = s
	return s
}

// quadIndices triangulates the fullscreen quad (CCW with y up).
var quadIndices = []uint16{0, 1, 2, 0, 2, 3}

// quadCorners are the fullscreen quad corners in the quad's model space, with
// their texture coordinates (v up).
var quadCorners = [4]struct{ pos, uv mgl32.Vec2 }{
	{mgl32.Vec2{-1, -1}, mgl32.Vec2{0, 0}},
	{mgl32.Vec2{1, -1}, mgl32.Vec2{1, 0}},
	{mgl32.Vec2{1, 1}, mgl32.Vec2{1, 1}},
	{mgl32.Vec2{-1, 1}, mgl32.Vec2{0, 1}},
}

// compositeQuad runs the composite vertex stage: each corner is projected by
// mvp into a dstW x dstH target, and its texture coordinate is passed
// through, scaled to the srcW x srcH source in pixels. An identity mvp
// covers the whole target.
func compositeQuad(mvp mgl32.Mat4, dstW, dstH, srcW, srcH int) [4]ebiten.Vertex {
	var vs [4]ebiten.Vertex
	for i, c := range quadCorners {
		clip := mvp.Mul4x1(mgl32.Vec4{c.pos[0], c.pos[1], 0, 1})
		w := clip.W()
		if w == 0 {
			w = 1
		}
		nx, ny := clip.X()/w, clip.Y()/w
		vs[i] = ebiten.Vertex{
			DstX:   (nx*0.5 + 0.5) * float32(dstW),
			DstY:   (0.5 - ny*0.5) * float32(dstH),
			SrcX:   c.uv[0] * float32(srcW),
			SrcY:   (1 - c.uv[1]) * float32(srcH),
			ColorR: 1,
			ColorG: 1,
			ColorB: 1,
			ColorA: 1,
		}
	}
	return vs
}

// compositeTargets combines the base and bloom targets into dst. Mixing
// targets of different sizes, frames or cameras is a programming error.
func compositeTargets(dev Device, dst Surface, base, bloom *RenderTarget, weight float64) {
	if base.surface == nil || bloom.surface == nil {
		panic("glow: composite with unallocated render target")
	}
	bw, bh := base.Size()
	kw, kh := bloom.Size()
	if bw != kw || bh != kh {
		panic(fmt.Sprintf("glow: composite size mismatch: base %dx%d, bloom %dx%d", bw, bh, kw, kh))
	}
	if dw, dh := dst.Size(); dw != bw || dh != bh {
		panic(fmt.Sprintf("glow: composite size mismatch: destination %dx%d, targets %dx%d", dw, dh, bw, bh))
	}
	if !base.sameFrame(bloom) {
		panic(fmt.Sprintf("glow: composite of targets from different frames (base frame %d, bloom frame %d) or cameras",
			base.frame, bloom.frame))
	}
	dev.composite(dst, base.surface, bloom.surface, weight)
}
