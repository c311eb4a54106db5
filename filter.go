package glow

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Kage shader sources ---
// All shaders use //kage:unit pixels as required by Ebitengine.
// Blurring premultiplied colors needs no un-premultiply step: the kernel is
// linear.

// separableBlurShaderSrc blurs along Direction. Taps beyond Radius are
// masked off; Box selects flat weights instead of Gaussian ones.
const separableBlurShaderSrc = `//kage:unit pixels
package main

var Direction vec2
var Radius float
var Sigma float
var Box float

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	sum := vec4(0)
	total := 0.0
	for i := 0; i < 65; i++ {
		fi := float(i) - 32.0
		w := step(abs(fi), Radius) * mix(exp(-fi*fi/(2.0*Sigma*Sigma)), 1.0, Box)
		sum += w * imageSrc0At(src+Direction*fi)
		total += w
	}
	return sum / total
}
`

// --- Lazy shader compilation (no sync.Once, rendering is single-threaded) ---

var separableBlurShader *ebiten.Shader

func ensureSeparableBlurShader() *ebiten.Shader {
	if separableBlurShader == nil {
		s, err := ebiten.NewShader([]byte(separableBlurShaderSrc))
		if err != nil {
			panic("glow: failed to compile blur shader: " + err.Error())
		}
		separableBlurShader = s
	}
	return separableBlurShader
}

// gaussianSigma returns the standard deviation used for a blur radius: the
// kernel reaches about two sigma at its edge.
func gaussianSigma(radius int) float64 {
	return math.Max(float64(radius)/2, 0.5)
}

// --- SeparableBlur ---

// SeparableBlur is a two-pass (horizontal then vertical) Gaussian or box blur
// running as a Kage shader. Radius is limited to MaxBlurRadius.
type SeparableBlur struct {
	Kind   BlurKind
	Radius int

	uniforms map[string]any
	horiz    []float32
	vert     []float32
	shaderOp ebiten.DrawRectShaderOptions
}

// NewSeparableBlur creates a blur of the given kind. BlurKawase is not
// separable and is treated as BlurGaussian.
func NewSeparableBlur(kind BlurKind, radius int) *SeparableBlur {
	return &SeparableBlur{
		Kind:     kind,
		Radius:   min(max(radius, 0), MaxBlurRadius),
		uniforms: make(map[string]any, 4),
		horiz:    []float32{1, 0},
		vert:     []float32{0, 1},
	}
}

// Apply blurs img in place using tmp, which must be the same size, as the
// intermediate image.
func (f *SeparableBlur) Apply(img, tmp *ebiten.Image) {
	if f.Radius <= 0 {
		return
	}
	shader := ensureSeparableBlurShader()
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	box := float32(0)
	if f.Kind == BlurBox {
		box = 1
	}
	f.uniforms["Radius"] = float32(min(f.Radius, MaxBlurRadius))
	f.uniforms["Sigma"] = float32(gaussianSigma(f.Radius))
	f.uniforms["Box"] = box
	f.shaderOp.Uniforms = f.uniforms
	f.shaderOp.Blend = ebiten.BlendCopy

	f.uniforms["Direction"] = f.horiz
	f.shaderOp.Images[0] = img
	tmp.DrawRectShader(w, h, shader, &f.shaderOp)

	f.uniforms["Direction"] = f.vert
	f.shaderOp.Images[0] = tmp
	img.DrawRectShader(w, h, shader, &f.shaderOp)
	f.shaderOp.Images[0] = nil
}

// --- BlurFilter ---

// BlurFilter applies a Kawase iterative blur using downscale/upscale passes.
// No Kage shader needed: bilinear filtering during DrawImage does the work.
type BlurFilter struct {
	Radius int
	temps  []*ebiten.Image
	imgOp  ebiten.DrawImageOptions
}

// NewBlurFilter creates a blur filter with the given radius (in pixels).
func NewBlurFilter(radius int) *BlurFilter {
	if radius < 0 {
		radius = 0
	}
	return &BlurFilter{Radius: radius}
}

// Apply renders a Kawase blur from src into dst using iterative downscale/upscale.
func (f *BlurFilter) Apply(src, dst *ebiten.Image) {
	op := &f.imgOp
	if f.Radius <= 0 {
		op.GeoM.Reset()
		op.ColorScale.Reset()
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(src, op)
		return
	}

	// Number of iterations: log2(radius), minimum 1.
	passes := max(int(math.Ceil(math.Log2(float64(f.Radius)))), 1)

	srcBounds := src.Bounds()
	w, h := srcBounds.Dx(), srcBounds.Dy()

	// The downscale chain is reused for the upscale passes.
	for len(f.temps) < passes {
		f.temps = append(f.temps, nil)
	}
	for i := passes; i < len(f.temps); i++ {
		if f.temps[i] != nil {
			f.temps[i].Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:passes]

	current := src
	for i := 0; i < passes; i++ {
		w = max(w/2, 1)
		h = max(h/2, 1)
		if f.temps[i] == nil || f.temps[i].Bounds().Dx() != w || f.temps[i].Bounds().Dy() != h {
			if f.temps[i] != nil {
				f.temps[i].Deallocate()
			}
			f.temps[i] = ebiten.NewImage(w, h)
		} else {
			f.temps[i].Clear()
		}
		scaleInto(op, current, f.temps[i])
		current = f.temps[i]
	}

	for i := passes - 2; i >= 0; i-- {
		f.temps[i].Clear()
		scaleInto(op, current, f.temps[i])
		current = f.temps[i]
	}

	scaleInto(op, current, dst)
}

// scaleInto draws src stretched over dst with bilinear filtering.
func scaleInto(op *ebiten.DrawImageOptions, src, dst *ebiten.Image) {
	op.GeoM.Reset()
	op.ColorScale.Reset()
	sb, db := src.Bounds(), dst.Bounds()
	op.GeoM.Scale(float64(db.Dx())/float64(sb.Dx()), float64(db.Dy())/float64(sb.Dy()))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(src, op)
}

// Dispose releases the filter's intermediate images.
func (f *BlurFilter) Dispose() {
	for i, t := range f.temps {
		if t != nil {
			t.Deallocate()
			f.temps[i] = nil
		}
	}
	f.temps = f.temps[:0]
}
