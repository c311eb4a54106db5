package glow

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestFrameStatsTotal(t *testing.T) {
	s := FrameStats{
		PollTime:      1 * time.Millisecond,
		BloomPassTime: 2 * time.Millisecond,
		BlurTime:      3 * time.Millisecond,
		BasePassTime:  4 * time.Millisecond,
		CompositeTime: 5 * time.Millisecond,
	}
	if got := s.Total(); got != 15*time.Millisecond {
		t.Errorf("Total = %v, want 15ms", got)
	}
}

func TestDebugModeLogsFrames(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)
	r := softRenderer(t, DefaultBloomConfig())
	r.SetDebugMode(true)
	pic := colorPic(red, 0)
	pic.BloomSource = true
	scene := NewScene()
	scene.Add(pic)
	r.RenderFrame(r.dev.NewSurface(16, 16), scene, testCamera())

	out := buf.String()
	for _, want := range []string{"frame rendered", "frame commands", "bloomSources=1", "baseCommands=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("debug log missing %q:\n%s", want, out)
		}
	}
}

func TestReleaseModeDoesNotLogFrames(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)
	r := softRenderer(t, DefaultBloomConfig())
	r.RenderFrame(r.dev.NewSurface(4, 4), NewScene(), testCamera())
	if strings.Contains(buf.String(), "frame rendered") {
		t.Error("frame stats logged without debug mode")
	}
	if r.Stats().Total() != 0 {
		t.Error("timings collected without debug mode")
	}
	if r.Stats().Frame != 1 {
		t.Errorf("Frame = %d, want 1", r.Stats().Frame)
	}
}
