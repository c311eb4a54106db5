package ecs

import (
	"github.com/phanxgames/glow"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// RenderEventType is the Donburi event type for glow render events.
// Subscribe to this in your ECS systems to receive texture and frame events.
var RenderEventType = events.NewEventType[glow.RenderEvent]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Render
// events are published to RenderEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) glow.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event glow.RenderEvent) {
	RenderEventType.Publish(s.world, event)
}

// ObjectData links an entity to the glow object that renders it.
type ObjectData struct {
	Object *glow.Object
}

// ObjectComponent attaches a glow object to an entity.
var ObjectComponent = donburi.NewComponentType[ObjectData]()

// BloomTag marks entities whose object feeds the bloom pass.
var BloomTag = donburi.NewTag()

var objectQuery = donburi.NewQuery(filter.Contains(ObjectComponent))

// SyncBloomTags copies BloomTag membership onto Object.BloomSource for every
// entity with an ObjectComponent. Call it once per frame before rendering.
// It returns the number of tagged objects.
func SyncBloomTags(world donburi.World) int {
	tagged := 0
	objectQuery.Each(world, func(e *donburi.Entry) {
		o := ObjectComponent.Get(e).Object
		if o == nil {
			return
		}
		o.BloomSource = e.HasComponent(BloomTag)
		if o.BloomSource {
			tagged++
		}
	})
	return tagged
}
