package glow

import (
	"errors"
	"image/color"
	"testing"
	"testing/fstest"
)

func TestNewRendererRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultBloomConfig()
	cfg.BlurRadius = MaxBlurRadius + 1
	_, err := NewRenderer(NewSoftwareDevice(), cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestSetConfigRejectsInvalidConfig(t *testing.T) {
	r := softRenderer(t, DefaultBloomConfig())
	bad := DefaultBloomConfig()
	bad.Strength = -1
	if err := r.SetConfig(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
	if r.Config().Strength != DefaultBloomStrength {
		t.Error("invalid config was applied")
	}
}

func TestVisibilityRoundTrip(t *testing.T) {
	for _, mode := range []MaskMode{MaskHide, MaskDarken} {
		cfg := DefaultBloomConfig()
		cfg.Mask = mode
		r := softRenderer(t, cfg)

		scene := NewScene()
		objs := []*Object{
			colorPic(red, -1),
			colorPic(green, 1),
			colorPic(blue, 0),
			colorPic(red, 0.5),
		}
		objs[0].BloomSource = true
		objs[2].Visible = false
		objs[3].Visible = false
		objs[3].BloomSource = true
		scene.Add(objs...)

		before := make([]bool, len(objs))
		for i, o := range objs {
			before[i] = o.Visible
		}
		dst := r.dev.NewSurface(testW, testH)
		r.RenderFrame(dst, scene, testCamera())
		r.RenderFrame(dst, scene, testCamera())

		for i, o := range objs {
			if o.Visible != before[i] {
				t.Errorf("mode %v: object %d Visible = %v after frame, want %v", mode, i, o.Visible, before[i])
			}
		}
	}
}

// probeDevice records the Visible flags of the watched objects every time
// triangles are drawn, and can panic on a given draw call.
type probeDevice struct {
	*SoftwareDevice
	watch   []*Object
	seen    [][]bool
	panicOn int // 1-based draw call; 0 disables
}

func (d *probeDevice) drawTriangles(dst Surface, cmds []drawCommand) {
	flags := make([]bool, len(d.watch))
	for i, o := range d.watch {
		flags[i] = o.Visible
	}
	d.seen = append(d.seen, flags)
	if d.panicOn == len(d.seen) {
		panic("probe: draw failed")
	}
	d.SoftwareDevice.drawTriangles(dst, cmds)
}

func TestMaskedPassHidesThenRestoresBeforeBasePass(t *testing.T) {
	tagged := colorPic(red, -1)
	tagged.BloomSource = true
	plain := colorPic(green, 1)
	dev := &probeDevice{SoftwareDevice: NewSoftwareDevice(), watch: []*Object{tagged, plain}}

	r, err := NewRenderer(dev, DefaultBloomConfig())
	if err != nil {
		t.Fatal(err)
	}
	scene := NewScene()
	scene.Add(tagged, plain)
	r.RenderFrame(dev.NewSurface(testW, testH), scene, testCamera())

	if len(dev.seen) != 2 {
		t.Fatalf("draw calls = %d, want 2 (bloom, base)", len(dev.seen))
	}
	if !dev.seen[0][0] || dev.seen[0][1] {
		t.Errorf("bloom pass visibility = %v, want [true false]", dev.seen[0])
	}
	if !dev.seen[1][0] || !dev.seen[1][1] {
		t.Errorf("base pass visibility = %v, want [true true]", dev.seen[1])
	}
}

func TestVisibilityRestoredWhenBloomPassPanics(t *testing.T) {
	tagged := colorPic(red, -1)
	tagged.BloomSource = true
	plain := colorPic(green, 1)
	dev := &probeDevice{SoftwareDevice: NewSoftwareDevice(), watch: []*Object{plain}, panicOn: 1}

	r, err := NewRenderer(dev, DefaultBloomConfig())
	if err != nil {
		t.Fatal(err)
	}
	scene := NewScene()
	scene.Add(tagged, plain)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the probe panic")
			}
		}()
		r.RenderFrame(dev.NewSurface(testW, testH), scene, testCamera())
	}()

	if dev.seen[0][0] {
		t.Error("untagged object was visible during the bloom pass")
	}
	if !plain.Visible {
		t.Error("untagged object still hidden after panic")
	}
}

func TestBloomPassContainsOnlyTaggedObjects(t *testing.T) {
	cfg := DefaultBloomConfig()
	cfg.BlurRadius = 0
	r := softRenderer(t, cfg)

	tagged := colorPic(red, -1)
	tagged.BloomSource = true
	plain := colorPic(green, 1)
	scene := NewScene()
	scene.Add(tagged, plain)

	r.RenderFrame(r.dev.NewSurface(testW, testH), scene, testCamera())

	bloom := r.BloomTarget().Surface()
	if got := pixel(bloom, 20, 30); got != red {
		t.Errorf("bloom at tagged center = %v, want %v", got, red)
	}
	for y := 15; y < 45; y++ {
		for x := 50; x < 70; x++ {
			if got := pixel(bloom, x, y); got.R|got.G|got.B|got.A != 0 {
				t.Fatalf("bloom at untagged (%d,%d) = %v, want transparent black", x, y, got)
			}
		}
	}
	base := r.BaseTarget().Surface()
	if got := pixel(base, 60, 30); got != green {
		t.Errorf("base at untagged center = %v, want %v", got, green)
	}
	if got := pixel(base, 20, 30); got != red {
		t.Errorf("base at tagged center = %v, want %v", got, red)
	}
}

func TestEndToEndHaloConfinedToTaggedMesh(t *testing.T) {
	cfg := DefaultBloomConfig()
	cfg.BlurRadius = 4
	r := softRenderer(t, cfg)

	tagged := colorPic(red, -1) // pixels [10,30) x [15,45)
	tagged.BloomSource = true
	plain := colorPic(green, 1) // pixels [50,70) x [15,45)
	scene := NewScene()
	scene.Add(tagged, plain)

	dst := r.dev.NewSurface(testW, testH)
	r.RenderFrame(dst, scene, testCamera())
	base := r.BaseTarget().Surface()
	bloom := r.BloomTarget().Surface()

	// Zero bloom over the untagged footprint: the composite is the base.
	for y := 15; y < 45; y++ {
		for x := 50; x < 70; x++ {
			if got, want := pixel(dst, x, y), pixel(base, x, y); got != want {
				t.Fatalf("composite at untagged (%d,%d) = %v, want base %v", x, y, got, want)
			}
		}
	}
	if got := pixel(dst, 60, 30); got != green {
		t.Errorf("composite at untagged center = %v, want %v", got, green)
	}

	// A halo just outside the tagged footprint, over the black background.
	if got := pixel(bloom, 31, 30); got.R == 0 {
		t.Error("no bloom next to the tagged mesh")
	}
	if got := pixel(dst, 31, 30); got.R == 0 || got.G != 0 {
		t.Errorf("composite next to tagged mesh = %v, want a red halo", got)
	}

	// Beyond the blur radius the glow is gone.
	if got, want := pixel(dst, 40, 30), pixel(base, 40, 30); got != want {
		t.Errorf("composite between meshes = %v, want base %v", got, want)
	}
	if got := pixel(dst, 20, 30); got.R != 255 {
		t.Errorf("composite at tagged center = %v, want saturated red", got)
	}
}

func TestDarkenMaskOccludesGlow(t *testing.T) {
	tests := []struct {
		mode MaskMode
		want [4]uint8
	}{
		{MaskHide, [4]uint8{255, 0, 0, 255}},
		{MaskDarken, [4]uint8{0, 0, 0, 255}},
	}
	for _, tt := range tests {
		cfg := DefaultBloomConfig()
		cfg.BlurRadius = 0
		cfg.Mask = tt.mode
		r := softRenderer(t, cfg)

		source := colorPic(red, 0) // pixels [30,50)
		source.BloomSource = true
		blocker := colorPic(green, 0.5) // pixels [40,60), in front
		blocker.Position[2] = 1
		scene := NewScene()
		scene.Add(source, blocker)

		r.RenderFrame(r.dev.NewSurface(testW, testH), scene, testCamera())
		got := pixel(r.BloomTarget().Surface(), 45, 30)
		if [4]uint8{got.R, got.G, got.B, got.A} != tt.want {
			t.Errorf("mode %v: bloom over overlap = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestRenderFrameEmitsFrameEvent(t *testing.T) {
	r := softRenderer(t, DefaultBloomConfig())
	var events []RenderEvent
	r.SetEventSink(EventSinkFunc(func(e RenderEvent) { events = append(events, e) }))

	tagged := colorPic(red, -1)
	tagged.BloomSource = true
	scene := NewScene()
	scene.Add(tagged, colorPic(green, 1))
	r.RenderFrame(r.dev.NewSurface(testW, testH), scene, testCamera())

	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	e := events[0]
	if e.Type != EventFrameRendered || e.Frame != 1 || e.Objects != 2 || e.BloomSources != 1 {
		t.Errorf("event = %+v", e)
	}
	st := r.Stats()
	if st.BloomCommands != 1 || st.BaseCommands != 2 {
		t.Errorf("stats commands = bloom %d base %d, want 1 and 2", st.BloomCommands, st.BaseCommands)
	}
}

func TestRenderTargetsFollowViewportSize(t *testing.T) {
	r := softRenderer(t, DefaultBloomConfig())
	scene := NewScene()
	cam := testCamera()

	r.RenderFrame(r.dev.NewSurface(80, 60), scene, cam)
	first := r.BaseTarget().Surface()
	r.RenderFrame(r.dev.NewSurface(80, 60), scene, cam)
	if r.BaseTarget().Surface() != first {
		t.Error("base target reallocated without a size change")
	}

	r.RenderFrame(r.dev.NewSurface(40, 30), scene, cam)
	if w, h := r.BaseTarget().Size(); w != 40 || h != 30 {
		t.Errorf("base target = %dx%d, want 40x30", w, h)
	}
	if w, h := r.BloomTarget().Size(); w != 40 || h != 30 {
		t.Errorf("bloom target = %dx%d, want 40x30", w, h)
	}
	if r.BaseTarget().Frame() != 3 || r.BloomTarget().Frame() != 3 {
		t.Errorf("target frames = %d, %d, want 3", r.BaseTarget().Frame(), r.BloomTarget().Frame())
	}
}

func TestPendingTextureRendersBlankUntilResolved(t *testing.T) {
	r := softRenderer(t, DefaultBloomConfig())
	tex := newPendingTexture("later.png")
	pic := NewPic(tex, PicOptions{})
	scene := NewScene()
	scene.Add(pic)
	dst := r.dev.NewSurface(testW, testH)

	r.RenderFrame(dst, scene, testCamera())
	if r.Stats().BaseCommands != 0 {
		t.Errorf("pending texture emitted %d commands", r.Stats().BaseCommands)
	}
	if got := pixel(dst, 40, 30); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("pending pic pixel = %v, want background", got)
	}

	tex.resolve(solidImage(2, 2, blue), nil)
	r.RenderFrame(dst, scene, testCamera())
	if got := pixel(dst, 40, 30); got.B != 255 {
		t.Errorf("resolved pic pixel = %v, want blue", got)
	}
}

func TestRenderFramePollsTextureLoader(t *testing.T) {
	fsys := fstest.MapFS{"pic.png": {Data: pngBytes(t, solidImage(4, 6, blue))}}
	loader := NewTextureLoader(fsys, 1)
	r := softRenderer(t, DefaultBloomConfig())
	r.SetTextureLoader(loader)

	pic := NewPicBuilder(loader).CreatePic("pic.png")
	scene := NewScene()
	scene.Add(pic)

	<-loader.notify // decoded and queued, not yet applied
	if pic.Material.Map.State() != TexturePending {
		t.Fatal("texture applied before the frame polled")
	}
	dst := r.dev.NewSurface(testW, testH)
	r.RenderFrame(dst, scene, testCamera())
	if pic.Material.Map.State() != TextureReady {
		t.Fatalf("state = %v, want ready", pic.Material.Map.State())
	}
	if got := pixel(dst, 40, 30); got.B != 255 {
		t.Errorf("pic pixel = %v, want blue in the frame that applied the load", got)
	}
}

func TestDrawRequiresEbitenDevice(t *testing.T) {
	r := softRenderer(t, DefaultBloomConfig())
	expectPanic(t, "requires an EbitenDevice", func() {
		r.Draw(nil, NewScene(), testCamera())
	})
}

func TestRendererDisposeReallocates(t *testing.T) {
	r := softRenderer(t, DefaultBloomConfig())
	scene := NewScene()
	r.RenderFrame(r.dev.NewSurface(8, 8), scene, testCamera())
	r.Dispose()
	if r.BaseTarget().Surface() != nil {
		t.Error("base target survived Dispose")
	}
	r.RenderFrame(r.dev.NewSurface(8, 8), scene, testCamera())
	if r.BaseTarget().Surface() == nil {
		t.Error("base target not reallocated after Dispose")
	}
}

func TestRunRequiresEbitenDevice(t *testing.T) {
	r := softRenderer(t, DefaultBloomConfig())
	if err := Run(r, NewScene(), testCamera(), RunConfig{}); err == nil {
		t.Error("Run on the software device should fail")
	}
}
