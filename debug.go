package glow

import (
	"time"
)

// FrameStats holds per-frame counts and timings of a Renderer. Timings are
// only populated in debug mode.
type FrameStats struct {
	Frame         uint64
	Objects       int
	BloomSources  int
	BloomCommands int
	BaseCommands  int

	PollTime      time.Duration
	BloomPassTime time.Duration
	BlurTime      time.Duration
	BasePassTime  time.Duration
	CompositeTime time.Duration
}

// Total returns the summed duration of all stages.
func (s FrameStats) Total() time.Duration {
	return s.PollTime + s.BloomPassTime + s.BlurTime + s.BasePassTime + s.CompositeTime
}

// debugLog logs timing and command stats at debug level.
func (r *Renderer) debugLog(stats FrameStats) {
	if !r.debug {
		return
	}
	Logger().Debug("frame rendered",
		"frame", stats.Frame,
		"poll", stats.PollTime,
		"bloomPass", stats.BloomPassTime,
		"blur", stats.BlurTime,
		"basePass", stats.BasePassTime,
		"composite", stats.CompositeTime,
		"total", stats.Total(),
	)
	Logger().Debug("frame commands",
		"frame", stats.Frame,
		"objects", stats.Objects,
		"bloomSources", stats.BloomSources,
		"bloomCommands", stats.BloomCommands,
		"baseCommands", stats.BaseCommands,
	)
}
