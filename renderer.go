package glow

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Renderer draws scenes with selective bloom. Each frame it renders the
// bloom-tagged objects into the bloom target and blurs it, renders the full
// scene into the base target, and composites base + Strength*bloom into the
// destination.
//
// A Renderer is not safe for concurrent use; call it from the render loop.
type Renderer struct {
	dev    Device
	cfg    BloomConfig
	loader *TextureLoader
	sink   EventSink
	debug  bool

	base  RenderTarget
	bloom RenderTarget
	frame uint64

	proj     projector
	objects  []frameObject
	commands []drawCommand
	sortBuf  []drawCommand
	vertBuf  []vertex
	visible  []bool

	screen EbitenSurface
	stats  FrameStats
}

// NewRenderer creates a renderer drawing with dev. It returns an error
// wrapping ErrInvalidConfig if cfg does not validate.
func NewRenderer(dev Device, cfg BloomConfig) (*Renderer, error) {
	if dev == nil {
		panic("glow: NewRenderer requires a device")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{
		dev:   dev,
		cfg:   cfg,
		base:  RenderTarget{name: "base"},
		bloom: RenderTarget{name: "bloom"},
	}, nil
}

// Config returns the active configuration.
func (r *Renderer) Config() BloomConfig {
	return r.cfg
}

// SetConfig replaces the configuration from the next frame on.
func (r *Renderer) SetConfig(cfg BloomConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.cfg = cfg
	return nil
}

// SetTextureLoader sets the loader polled at the start of every frame, so
// completed texture loads become visible in that frame.
func (r *Renderer) SetTextureLoader(l *TextureLoader) {
	r.loader = l
	if l != nil && l.Sink == nil {
		l.Sink = r.sink
	}
}

// SetEventSink sets the receiver of frame events. A texture loader without a
// sink of its own reports to it too.
func (r *Renderer) SetEventSink(s EventSink) {
	r.sink = s
	if r.loader != nil && r.loader.Sink == nil {
		r.loader.Sink = s
	}
}

// SetDebugMode enables per-frame timing collection logged at debug level.
func (r *Renderer) SetDebugMode(enabled bool) {
	r.debug = enabled
}

// Stats returns counts and timings of the last rendered frame. Timings are
// only collected in debug mode.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// BaseTarget returns the render target holding the full-scene pass.
func (r *Renderer) BaseTarget() *RenderTarget {
	return &r.base
}

// BloomTarget returns the render target holding the blurred bloom pass.
func (r *Renderer) BloomTarget() *RenderTarget {
	return &r.bloom
}

// Draw renders a frame onto an Ebitengine image, typically the screen passed
// to Game.Draw. The renderer must use an EbitenDevice.
func (r *Renderer) Draw(screen *ebiten.Image, scene *Scene, cam Camera) {
	if _, ok := r.dev.(*EbitenDevice); !ok {
		panic(fmt.Sprintf("glow: Draw requires an EbitenDevice, renderer uses %T", r.dev))
	}
	r.screen.img = screen
	r.RenderFrame(&r.screen, scene, cam)
	r.screen.img = nil
}

// RenderFrame renders scene as seen by cam into dst:
//
//  1. objects not tagged as bloom sources are hidden (or drawn black in
//     MaskDarken mode) and the scene is rendered into the bloom target;
//  2. the bloom target is blurred;
//  3. visibility is restored and the full scene is rendered into the base
//     target;
//  4. base and bloom are composited into dst.
//
// Completed texture loads are applied first. Camera and object poses are
// captured once, so both passes see the same frame. Every object's Visible
// flag is the same after RenderFrame as before, even if a pass panics.
func (r *Renderer) RenderFrame(dst Surface, scene *Scene, cam Camera) {
	if scene == nil || cam == nil {
		panic("glow: RenderFrame requires a scene and a camera")
	}
	var stats FrameStats
	var t0 time.Time
	if r.debug {
		t0 = time.Now()
	}

	if r.loader != nil {
		r.loader.Poll()
	}
	if r.debug {
		stats.PollTime = time.Since(t0)
	}

	w, h := dst.Size()
	r.base.ensure(r.dev, w, h)
	r.bloom.ensure(r.dev, w, h)
	r.frame++
	stats.Frame = r.frame

	camState := snapshotCamera(cam, w, h)
	r.objects = snapshotObjects(r.objects, scene.Objects(), &camState)
	r.proj.cam = &camState
	r.proj.lights = scene.Lights()
	r.proj.w, r.proj.h = float32(w), float32(h)
	stats.Objects = len(r.objects)
	for _, o := range scene.Objects() {
		if o.BloomSource {
			stats.BloomSources++
		}
	}

	// 1. Masked pass.
	if r.debug {
		t0 = time.Now()
	}
	stats.BloomCommands = r.renderBloomPass(scene.Objects(), &camState)
	if r.debug {
		stats.BloomPassTime = time.Since(t0)
		t0 = time.Now()
	}

	// 2. Blur.
	r.dev.blur(r.bloom.surface, r.cfg.Blur, r.cfg.BlurRadius)
	if r.debug {
		stats.BlurTime = time.Since(t0)
		t0 = time.Now()
	}

	// 3. Full pass.
	stats.BaseCommands = r.renderPass(&r.base, r.cfg.ClearColor, &camState, false)
	if r.debug {
		stats.BasePassTime = time.Since(t0)
		t0 = time.Now()
	}

	// 4. Composite.
	compositeTargets(r.dev, dst, &r.base, &r.bloom, r.cfg.Strength)
	if r.debug {
		stats.CompositeTime = time.Since(t0)
	}

	r.proj.cam = nil
	r.proj.lights = nil
	r.stats = stats
	r.debugLog(stats)
	if r.sink != nil {
		r.sink.EmitEvent(RenderEvent{
			Type:         EventFrameRendered,
			Frame:        stats.Frame,
			Objects:      stats.Objects,
			BloomSources: stats.BloomSources,
		})
	}
}

// renderBloomPass renders the bloom sources into the bloom target. In
// MaskHide mode the other objects are hidden for the duration of the pass;
// their flags are restored on return, including by panic.
func (r *Renderer) renderBloomPass(objs []*Object, cam *cameraState) int {
	if r.cfg.Mask == MaskHide {
		r.visible = r.visible[:0]
		for _, o := range objs {
			r.visible = append(r.visible, o.Visible)
			if !o.BloomSource {
				o.Visible = false
			}
		}
		defer r.restoreVisibility(objs)
	}
	return r.renderPass(&r.bloom, ColorTransparent, cam, r.cfg.Mask == MaskDarken)
}

func (r *Renderer) restoreVisibility(objs []*Object) {
	for i, o := range objs {
		o.Visible = r.visible[i]
	}
}

// renderPass draws the snapshotted objects into target. With darken set,
// objects that are not bloom sources are drawn black. It returns the number
// of draw commands.
func (r *Renderer) renderPass(target *RenderTarget, clear Color, cam *cameraState, darken bool) int {
	r.commands = r.commands[:0]
	r.vertBuf = r.vertBuf[:0]
	treeOrder := 0
	for i := range r.objects {
		fo := &r.objects[i]
		r.emitObject(fo, darken && !fo.obj.BloomSource, &treeOrder)
	}
	r.mergeSort()

	r.dev.clear(target.surface, clear)
	r.dev.drawTriangles(target.surface, r.commands)
	target.stamp(r.frame, cam.viewProj)
	return len(r.commands)
}

// Dispose releases the render targets. The renderer may be used again; the
// targets are reallocated on the next frame.
func (r *Renderer) Dispose() {
	r.base.dispose(r.dev)
	r.bloom.dispose(r.dev)
	r.commands = nil
	r.sortBuf = nil
	r.vertBuf = nil
}
