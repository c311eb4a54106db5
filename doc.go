// Package glow renders 3D scenes with selective bloom for [Ebitengine].
//
// Any [Object] can glow: set [Object.BloomSource] and the [Renderer] will
// render it into a separate bloom image, blur that image, and add it back
// onto the normally rendered scene at half intensity (configurable through
// [BloomConfig]). Objects that are not tagged never contribute to the glow.
//
// # Quick start
//
//	loader := glow.NewTextureLoader(nil, 0)
//	pics := glow.NewPicBuilder(loader)
//
//	scene := glow.NewScene()
//	scene.AddLight(&glow.AmbientLight{Color: glow.ColorWhite, Intensity: 1})
//
//	lamp := pics.CreatePic("assets/lamp.png")
//	lamp.BloomSource = true
//	scene.Add(lamp)
//
//	cam := glow.NewPerspectiveCamera(50, 0.1, 100)
//	r, _ := glow.NewRenderer(glow.NewEbitenDevice(), glow.DefaultBloomConfig())
//	r.SetTextureLoader(loader)
//
//	// In Game.Draw:
//	r.Draw(screen, scene, cam)
//
// # Pictures
//
// [PicBuilder.CreatePic] turns an image reference into a 1 x 1.5 plane whose
// material uses the image as both its color and its emission, so the picture
// reads as self-illuminated. Images load in the background; the plane is
// blank until the load is applied at the start of a later frame. A failed
// load leaves it blank and is reported through the logger and the
// [EventSink], never to the caller.
//
// # Devices
//
// Rendering goes through a [Device]. [EbitenDevice] draws on the GPU with
// DrawTriangles and Kage shaders; [SoftwareDevice] rasterizes on the CPU,
// needs no window, and produces the same pipeline for tests and offline
// rendering ([SavePNG]).
//
// # Composite program
//
// The composite is exposed as GLSL sources ([BloomVertexShader],
// [BloomFragmentShader]) with samplers [UniformBaseTexture] and
// [UniformBloomTexture] for hosts with their own GL pipeline, and compiled
// to Kage for Ebitengine. [CompositeColor] is the per-pixel function.
//
// Logging uses [log/slog] and is silent until [SetLogger] is called. Object
// animation uses [gween] through [TweenGroup]; an ECS bridge for [Donburi]
// lives in glow/ecs.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package glow
