package glow

// EventType identifies the kind of RenderEvent.
type EventType uint8

const (
	EventTextureReady  EventType = iota // a texture load was applied
	EventTextureFailed                  // a texture load failed; texture stays blank
	EventFrameRendered                  // a composite frame was produced
)

var eventTypeNames = [...]string{"texture-ready", "texture-failed", "frame-rendered"}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// RenderEvent carries information about a renderer or loader occurrence.
// Fields not relevant to the event type are zero.
type RenderEvent struct {
	Type EventType

	// Texture events.
	Texture *Texture
	Err     error

	// Frame events.
	Frame        uint64
	Objects      int
	BloomSources int
}

// EventSink receives render events. Events are delivered synchronously on the
// render goroutine; implementations must not block.
type EventSink interface {
	EmitEvent(event RenderEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(RenderEvent)

// EmitEvent implements EventSink.
func (f EventSinkFunc) EmitEvent(e RenderEvent) { f(e) }
