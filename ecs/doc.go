// Package ecs provides ECS adapters for glow.
//
// [NewDonburiSink] bridges glow render events (texture loads, rendered
// frames) into a [Donburi] world as typed events. Subscribe to
// [RenderEventType] in your ECS systems to receive them.
//
// Entities that own a glow object carry [ObjectComponent]. Adding or
// removing [BloomTag] on such an entity toggles its glow; [SyncBloomTags]
// applies the tags to the objects before a frame is rendered.
//
// Usage:
//
//	renderer.SetEventSink(ecs.NewDonburiSink(world))
//
//	e := world.Create(ecs.ObjectComponent, ecs.BloomTag)
//	ecs.ObjectComponent.Set(world.Entry(e), &ecs.ObjectData{Object: pic})
//
//	// each frame
//	ecs.SyncBloomTags(world)
//	renderer.Draw(screen, scene, cam)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
