package glow

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCompositeColor(t *testing.T) {
	tests := []struct {
		name        string
		base, bloom Color
		want        Color
	}{
		{"black bloom", Color{0.3, 0.4, 0.5, 1}, Color{}, Color{0.3, 0.4, 0.5, 1}},
		{"half weight", Color{0.2, 0.2, 0.2, 1}, Color{0.4, 0.6, 1, 1}, Color{0.4, 0.5, 0.7, 1.5}},
		{"no clamp", Color{1, 1, 1, 1}, Color{1, 1, 1, 1}, Color{1.5, 1.5, 1.5, 1.5}},
		{"empty base", Color{}, Color{0.8, 0, 0, 0.8}, Color{0.4, 0, 0, 0.4}},
	}
	const eps = 1e-12
	for _, tt := range tests {
		got := CompositeColor(tt.base, tt.bloom, DefaultBloomStrength)
		if math.Abs(got.R-tt.want.R) > eps || math.Abs(got.G-tt.want.G) > eps ||
			math.Abs(got.B-tt.want.B) > eps || math.Abs(got.A-tt.want.A) > eps {
			t.Errorf("%s: CompositeColor = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestCompositeColorBlackBloomIsIdentity(t *testing.T) {
	for _, base := range []Color{{0, 0, 0, 0}, {0.1, 0.2, 0.3, 0.4}, {1, 1, 1, 1}, {0.7, 0.01, 0.99, 1}} {
		if got := CompositeColor(base, Color{}, 0.5); got != base {
			t.Errorf("CompositeColor(%+v, black) = %+v, want base unchanged", base, got)
		}
	}
}

// compositeTestTargets returns base and bloom targets filled with constant
// colors and stamped for the same frame.
func compositeTestTargets(dev Device, w, h int, base, bloom Color) (*RenderTarget, *RenderTarget) {
	bt := &RenderTarget{name: "base"}
	kt := &RenderTarget{name: "bloom"}
	bt.ensure(dev, w, h)
	kt.ensure(dev, w, h)
	dev.clear(bt.surface, base)
	dev.clear(kt.surface, bloom)
	vp := mgl32.Ident4()
	bt.stamp(1, vp)
	kt.stamp(1, vp)
	return bt, kt
}

func TestSoftCompositeConstantInputs(t *testing.T) {
	dev := NewSoftwareDevice()
	tests := []struct {
		base, bloom Color
	}{
		{Color{0.4, 0.2, 0.1, 1}, Color{0.6, 0.8, 0.2, 1}},
		{Color{0, 0, 0, 1}, Color{1, 1, 1, 1}},
		{Color{0.5, 0.5, 0.5, 1}, Color{0.2, 0, 0.4, 0.5}},
	}
	for _, tt := range tests {
		base, bloom := compositeTestTargets(dev, 8, 6, tt.base, tt.bloom)
		dst := dev.NewSurface(8, 6)
		compositeTargets(dev, dst, base, bloom, DefaultBloomStrength)

		for y := 0; y < 6; y++ {
			for x := 0; x < 8; x++ {
				b := pixel(base.surface, x, y)
				k := pixel(bloom.surface, x, y)
				got := pixel(dst, x, y)
				check := func(ch string, gv, bv, kv uint8) {
					want := math.Min(float64(bv)+0.5*float64(kv), 255)
					if math.Abs(float64(gv)-want) > 1 {
						t.Errorf("(%d,%d) %s = %d, want %v (B=%d K=%d)", x, y, ch, gv, want, bv, kv)
					}
				}
				check("R", got.R, b.R, k.R)
				check("G", got.G, b.G, k.G)
				check("B", got.B, b.B, k.B)
				check("A", got.A, b.A, k.A)
			}
		}
	}
}

func TestSoftCompositeBlackBloomExact(t *testing.T) {
	dev := NewSoftwareDevice()
	base, bloom := compositeTestTargets(dev, 5, 5, Color{0.31, 0.62, 0.93, 1}, ColorTransparent)
	// Vary the base so every byte value path is exercised.
	img := softSurface(base.surface).img
	for i := range img.Pix {
		img.Pix[i] = uint8(i * 7)
	}
	dst := dev.NewSurface(5, 5)
	compositeTargets(dev, dst, base, bloom, DefaultBloomStrength)

	out := softSurface(dst).img
	for i := range img.Pix {
		if out.Pix[i] != img.Pix[i] {
			t.Fatalf("byte %d = %d, want base %d", i, out.Pix[i], img.Pix[i])
		}
	}
}

func expectPanic(t *testing.T, substr string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", substr)
		}
		msg, _ := r.(string)
		if !strings.Contains(msg, substr) {
			t.Errorf("panic = %v, want it to contain %q", r, substr)
		}
	}()
	fn()
}

func TestCompositeSizeMismatchPanics(t *testing.T) {
	dev := NewSoftwareDevice()
	base, _ := compositeTestTargets(dev, 8, 8, ColorBlack, ColorTransparent)
	_, bloom := compositeTestTargets(dev, 4, 4, ColorBlack, ColorTransparent)
	expectPanic(t, "size mismatch", func() {
		compositeTargets(dev, dev.NewSurface(8, 8), base, bloom, 0.5)
	})
}

func TestCompositeDestinationMismatchPanics(t *testing.T) {
	dev := NewSoftwareDevice()
	base, bloom := compositeTestTargets(dev, 8, 8, ColorBlack, ColorTransparent)
	expectPanic(t, "size mismatch", func() {
		compositeTargets(dev, dev.NewSurface(9, 8), base, bloom, 0.5)
	})
}

func TestCompositeStaleFramePanics(t *testing.T) {
	dev := NewSoftwareDevice()
	base, bloom := compositeTestTargets(dev, 4, 4, ColorBlack, ColorTransparent)
	base.stamp(2, mgl32.Ident4())
	expectPanic(t, "different frames", func() {
		compositeTargets(dev, dev.NewSurface(4, 4), base, bloom, 0.5)
	})
}

func TestCompositeDifferentCameraPanics(t *testing.T) {
	dev := NewSoftwareDevice()
	base, bloom := compositeTestTargets(dev, 4, 4, ColorBlack, ColorTransparent)
	bloom.stamp(1, mgl32.Translate3D(1, 0, 0))
	expectPanic(t, "different frames", func() {
		compositeTargets(dev, dev.NewSurface(4, 4), base, bloom, 0.5)
	})
}

func TestCompositeUnrenderedTargetsPanic(t *testing.T) {
	dev := NewSoftwareDevice()
	base := &RenderTarget{}
	bloom := &RenderTarget{}
	base.ensure(dev, 2, 2)
	bloom.ensure(dev, 2, 2)
	expectPanic(t, "different frames", func() {
		compositeTargets(dev, dev.NewSurface(2, 2), base, bloom, 0.5)
	})
}

func TestCompositeShaderSource(t *testing.T) {
	src := compositeShaderSource(0.5)
	for _, want := range []string{"//kage:unit pixels", "imageSrc0At(src)", "imageSrc1At(src)", "base + vec4(0.5)*bloom"} {
		if !strings.Contains(src, want) {
			t.Errorf("composite source missing %q:\n%s", want, src)
		}
	}
	if strings.Contains(src, "var ") {
		t.Error("composite weight must be compiled in, not a uniform")
	}
}

func TestKageFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.5, "0.5"},
		{1, "1.0"},
		{0, "0.0"},
		{2.25, "2.25"},
	}
	for _, tt := range tests {
		if got := kageFloat(tt.in); got != tt.want {
			t.Errorf("kageFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGLSLSourcesNameSamplers(t *testing.T) {
	for _, name := range []string{UniformBaseTexture, UniformBloomTexture} {
		if !strings.Contains(BloomFragmentShader, "uniform sampler2D "+name) {
			t.Errorf("fragment shader does not declare sampler %q", name)
		}
	}
	if !strings.Contains(BloomFragmentShader, "vec4( 0.5 )") {
		t.Error("fragment shader lost its compiled-in weight")
	}
	if !strings.Contains(BloomVertexShader, "vUv = uv") {
		t.Error("vertex shader does not pass texture coordinates through")
	}
}

func TestCompositeQuadIdentityCoversTarget(t *testing.T) {
	q := compositeQuad(mgl32.Ident4(), 80, 60, 80, 60)
	want := [4][4]float32{
		// DstX, DstY, SrcX, SrcY
		{0, 60, 0, 60},
		{80, 60, 80, 60},
		{80, 0, 80, 0},
		{0, 0, 0, 0},
	}
	for i, v := range q {
		got := [4]float32{v.DstX, v.DstY, v.SrcX, v.SrcY}
		if got != want[i] {
			t.Errorf("corner %d = %v, want %v", i, got, want[i])
		}
	}
}

func TestCompositeQuadAppliesMVP(t *testing.T) {
	// Scale the quad to the center half of the target.
	q := compositeQuad(mgl32.Scale3D(0.5, 0.5, 1), 100, 100, 100, 100)
	if q[0].DstX != 25 || q[0].DstY != 75 || q[2].DstX != 75 || q[2].DstY != 25 {
		t.Errorf("scaled quad corners = (%v,%v) (%v,%v), want (25,75) (75,25)",
			q[0].DstX, q[0].DstY, q[2].DstX, q[2].DstY)
	}
	// Texture coordinates are not affected by the transform.
	if q[0].SrcX != 0 || q[0].SrcY != 100 {
		t.Errorf("src of corner 0 = (%v,%v), want (0,100)", q[0].SrcX, q[0].SrcY)
	}
}
