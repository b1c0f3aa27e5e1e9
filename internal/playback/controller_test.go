package playback

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/florecer/florecer/internal/narration"
	"github.com/florecer/florecer/internal/observability"
	"github.com/florecer/florecer/internal/pipeline"
	"github.com/florecer/florecer/internal/reliability"
	"github.com/florecer/florecer/internal/voice"
)

func testMetrics(name string) *observability.Metrics {
	return observability.NewMetrics("test_playback_" + name + "_" + time.Now().Format("150405000000000"))
}

func makeResource(t *testing.T, m *observability.Metrics) *pipeline.AudioResource {
	t.Helper()
	p := pipeline.New(narration.NewMockGenerator(), voice.NewMockSynthesizer(), m)
	res, err := p.RunSession(context.Background(), pipeline.Request{PersonaID: "lotus", Tags: []string{"sad"}})
	if err != nil {
		t.Fatalf("RunSession() error = %v", err)
	}
	return res
}

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestLoadingPlaysBackgroundAtFullVolume(t *testing.T) {
	m := testMetrics("loadingfull")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	if c.State().Phase != PhaseIdle {
		t.Fatalf("initial phase = %q, want idle", c.State().Phase)
	}

	c.BeginLoading("run-1")
	s := c.State()
	if s.Phase != PhaseLoading {
		t.Fatalf("phase = %q, want loading", s.Phase)
	}
	if !bg.Playing() {
		t.Fatalf("background should loop during loading")
	}
	if !closeTo(bg.Volume(), 0.8) {
		t.Fatalf("background volume = %v, want 0.8 (ducking suspended while loading)", bg.Volume())
	}
	if nar.Playing() {
		t.Fatalf("narration must not play during loading")
	}
}

func TestResolveStartsNarrationAndDucksBackground(t *testing.T) {
	m := testMetrics("resolveduck")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	c.BeginLoading("run-1")
	c.Resolve("run-1", makeResource(t, m))

	s := c.State()
	if s.Phase != PhasePlaying {
		t.Fatalf("phase = %q, want playing", s.Phase)
	}
	if !nar.Playing() || !bg.Playing() {
		t.Fatalf("both tracks should play (narration=%v background=%v)", nar.Playing(), bg.Playing())
	}
	if !closeTo(nar.Volume(), 0.8) {
		t.Fatalf("narration volume = %v, want 0.8", nar.Volume())
	}
	// 80 configured -> background effective 24.
	if !closeTo(bg.Volume(), 0.8*DuckRatio) {
		t.Fatalf("background volume = %v, want %v", bg.Volume(), 0.8*DuckRatio)
	}
}

func TestStaleResolveIsDroppedAndReleased(t *testing.T) {
	m := testMetrics("staleresolve")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	c.BeginLoading("run-2")
	stale := makeResource(t, m)
	c.Resolve("run-1", stale)

	if c.State().Phase != PhaseLoading {
		t.Fatalf("stale resolve advanced the phase to %q", c.State().Phase)
	}
	if !stale.Released() {
		t.Fatalf("stale resource must be released on drop")
	}

	fresh := makeResource(t, m)
	c.Resolve("run-2", fresh)
	if c.State().Phase != PhasePlaying {
		t.Fatalf("current-token resolve should win")
	}
	if c.Resource() != fresh {
		t.Fatalf("controller should hold the fresh resource")
	}
}

func TestResolveAfterCloseIsDropped(t *testing.T) {
	m := testMetrics("postclose")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	c.BeginLoading("run-1")
	c.Close()

	late := makeResource(t, m)
	c.Resolve("run-1", late)
	if c.State().Phase != PhaseIdle {
		t.Fatalf("post-close resolve changed phase to %q", c.State().Phase)
	}
	if !late.Released() {
		t.Fatalf("post-close resource must be released")
	}
}

func TestPauseFreezesBothAndResumeReappliesDuck(t *testing.T) {
	m := testMetrics("pauseresume")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	c.BeginLoading("run-1")
	c.Resolve("run-1", makeResource(t, m))

	c.TogglePlayPause()
	s := c.State()
	if s.Phase != PhasePaused {
		t.Fatalf("phase = %q, want paused", s.Phase)
	}
	if nar.Playing() || bg.Playing() {
		t.Fatalf("pause must freeze both tracks")
	}

	c.TogglePlayPause()
	s = c.State()
	if s.Phase != PhasePlaying {
		t.Fatalf("phase = %q, want playing", s.Phase)
	}
	if !nar.Playing() || !bg.Playing() {
		t.Fatalf("resume must restore both tracks")
	}
	if !closeTo(bg.Volume(), 0.8*DuckRatio) {
		t.Fatalf("resume must reapply the duck level, got %v", bg.Volume())
	}
}

func TestRestartRewindsBothAndForcesPlaying(t *testing.T) {
	m := testMetrics("restart")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	c.BeginLoading("run-1")
	c.Resolve("run-1", makeResource(t, m))
	c.HandleDurationKnown(180)
	c.HandleTick(42.5)
	c.TogglePlayPause()

	c.Restart()
	s := c.State()
	if s.Phase != PhasePlaying {
		t.Fatalf("phase = %q, want playing", s.Phase)
	}
	if s.PositionSeconds != 0 {
		t.Fatalf("position = %v, want 0", s.PositionSeconds)
	}
	if nar.Position() != 0 || bg.Position() != 0 {
		t.Fatalf("restart must rewind both tracks (%v, %v)", nar.Position(), bg.Position())
	}
	if !nar.Playing() || !bg.Playing() {
		t.Fatalf("restart must play both tracks")
	}
}

func TestVolumeScalingPerPhase(t *testing.T) {
	m := testMetrics("volume")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	c.BeginLoading("run-1")
	c.SetVolume(50)
	if !closeTo(bg.Volume(), 0.5) {
		t.Fatalf("loading background volume = %v, want 0.5 (1:1 while loading)", bg.Volume())
	}

	c.Resolve("run-1", makeResource(t, m))
	c.SetVolume(60)
	if !closeTo(nar.Volume(), 0.6) {
		t.Fatalf("narration volume = %v, want 0.6", nar.Volume())
	}
	if !closeTo(bg.Volume(), 0.6*DuckRatio) {
		t.Fatalf("background volume = %v, want %v", bg.Volume(), 0.6*DuckRatio)
	}

	c.SetVolume(150)
	if c.State().Volume != 100 {
		t.Fatalf("volume should clamp to 100, got %d", c.State().Volume)
	}
}

func TestPipelineFailureKeepsBackgroundAtFull(t *testing.T) {
	m := testMetrics("failure")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	c.BeginLoading("run-1")
	c.Fail("run-1", reliability.ErrServiceUnavailable)

	s := c.State()
	if s.Phase != PhaseError {
		t.Fatalf("phase = %q, want error", s.Phase)
	}
	if s.ErrorCode != "service_unavailable" {
		t.Fatalf("error code = %q", s.ErrorCode)
	}
	if !bg.Playing() {
		t.Fatalf("background must keep playing on failure")
	}
	if !closeTo(bg.Volume(), 0.8) {
		t.Fatalf("background must stay at full volume on failure, got %v", bg.Volume())
	}
	if nar.Playing() {
		t.Fatalf("narration must stay silent on failure")
	}
}

func TestCloseFromErrorReleasesHandle(t *testing.T) {
	m := testMetrics("closeerror")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	c.BeginLoading("run-1")
	res := makeResource(t, m)
	c.Resolve("run-1", res)
	c.HandleDecodeError("bad frame header")

	if c.State().Phase != PhaseError {
		t.Fatalf("phase = %q, want error", c.State().Phase)
	}

	c.Close()
	s := c.State()
	if s.Phase != PhaseIdle {
		t.Fatalf("phase = %q, want idle", s.Phase)
	}
	if s.NarrationPlaying || s.BackgroundPlaying || nar.Playing() || bg.Playing() {
		t.Fatalf("close must leave no active playback")
	}
	if s.PositionSeconds != 0 {
		t.Fatalf("position = %v, want 0", s.PositionSeconds)
	}
	if !res.Released() {
		t.Fatalf("close must release the audio handle")
	}
	if _, err := res.Bytes(); !errors.Is(err, pipeline.ErrResourceReleased) {
		t.Fatalf("old handle access error = %v, want ErrResourceReleased", err)
	}
}

func TestDecodeErrorKeepsBackgroundPlaying(t *testing.T) {
	m := testMetrics("decodeerr")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	c.BeginLoading("run-1")
	c.Resolve("run-1", makeResource(t, m))
	c.HandleDecodeError("decoder stall")

	s := c.State()
	if s.Phase != PhaseError || s.ErrorCode != "media_decode_failed" {
		t.Fatalf("state = %+v", s)
	}
	if !bg.Playing() {
		t.Fatalf("background must keep playing after a decode fault")
	}
	if nar.Playing() {
		t.Fatalf("narration must stop after a decode fault")
	}
}

func TestEndedFreezesAtDuration(t *testing.T) {
	m := testMetrics("ended")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	c.BeginLoading("run-1")
	c.Resolve("run-1", makeResource(t, m))
	c.HandleDurationKnown(210)
	c.HandleTick(209.4)
	c.HandleEnded()

	s := c.State()
	if s.Phase != PhasePaused {
		t.Fatalf("phase = %q, want paused", s.Phase)
	}
	if s.PositionSeconds != 210 {
		t.Fatalf("position = %v, want frozen at duration", s.PositionSeconds)
	}
	if s.NarrationPlaying {
		t.Fatalf("narration must be stopped after ended")
	}
	if !bg.Playing() {
		t.Fatalf("background keeps its already-ducked loop after ended")
	}
	if !closeTo(bg.Volume(), 0.8*DuckRatio) {
		t.Fatalf("background volume changed on ended: %v", bg.Volume())
	}
}

func TestTicksIgnoredWhileNotPlaying(t *testing.T) {
	m := testMetrics("ticks")
	nar, bg := NewMockChannel(), NewMockChannel()
	c := NewController(nar, bg, 80, m)

	c.HandleTick(12)
	if c.State().PositionSeconds != 0 {
		t.Fatalf("idle tick should be ignored")
	}

	c.BeginLoading("run-1")
	c.Resolve("run-1", makeResource(t, m))
	c.HandleTick(3.5)
	if c.State().PositionSeconds != 3.5 {
		t.Fatalf("position = %v, want 3.5", c.State().PositionSeconds)
	}

	c.TogglePlayPause()
	c.HandleTick(9)
	if c.State().PositionSeconds != 3.5 {
		t.Fatalf("paused tick should be ignored, position = %v", c.State().PositionSeconds)
	}
}
