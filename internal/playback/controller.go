package playback

import (
	"fmt"
	"sync"

	"github.com/florecer/florecer/internal/observability"
	"github.com/florecer/florecer/internal/pipeline"
	"github.com/florecer/florecer/internal/reliability"
)

// Controller owns the two audio channels of one open session view and
// drives them through the shared state machine. All mutation happens
// through its methods under one mutex; nothing else touches the
// channels once a controller holds them.
type Controller struct {
	mu         sync.Mutex
	narration  Channel
	background Channel
	metrics    *observability.Metrics

	phase    Phase
	volume   int
	position float64
	duration float64

	narrationPlaying  bool
	backgroundPlaying bool

	// token identifies the generation run this controller is waiting
	// on. Resolve/Fail results carrying any other token are dropped,
	// which covers both double-triggered generation and results that
	// arrive after close.
	token    string
	resource *pipeline.AudioResource
	lastErr  error
}

// NewController starts in Idle. fullVolume is the configured slider
// position (0-100); out-of-range values are clamped.
func NewController(narration, background Channel, fullVolume int, metrics *observability.Metrics) *Controller {
	return &Controller{
		narration:  narration,
		background: background,
		metrics:    metrics,
		phase:      PhaseIdle,
		volume:     clampVolume(fullVolume),
	}
}

// BeginLoading enters Loading for a new generation run. The background
// track starts looping immediately at full configured volume so the
// wait is never silent; ducking only starts once narration does.
// Starting a new run replaces any resource the controller still holds.
func (c *Controller) BeginLoading(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releaseResourceLocked()
	c.token = token
	c.lastErr = nil
	c.position = 0
	c.duration = 0
	c.narrationPlaying = false

	c.background.SetVolume(float64(c.volume) / 100)
	c.background.Play()
	c.backgroundPlaying = true
	c.setPhaseLocked(PhaseLoading)
}

// Resolve applies a finished pipeline run. Stale tokens lose: their
// resource is released on the spot and nothing else changes.
func (c *Controller) Resolve(token string, res *pipeline.AudioResource) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseLoading || token != c.token {
		res.Release()
		return
	}

	c.resource = res
	c.setPhaseLocked(PhaseReady)

	// Narration starts immediately and the background drops to the
	// duck level the same instant.
	c.narration.SetVolume(float64(c.volume) / 100)
	c.narration.Play()
	c.narrationPlaying = true
	c.background.SetVolume(float64(c.volume) / 100 * DuckRatio)
	c.setPhaseLocked(PhasePlaying)
}

// Fail marks the generation run failed. The background keeps playing
// at full volume; the only way forward is Close.
func (c *Controller) Fail(token string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseLoading || token != c.token {
		return
	}
	c.lastErr = err
	c.setPhaseLocked(PhaseError)
}

// TogglePlayPause flips between Playing and Paused. Pausing freezes
// both tracks together; resuming restores both and reapplies the duck.
func (c *Controller) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhasePlaying:
		c.narration.Pause()
		c.background.Pause()
		c.narrationPlaying = false
		c.backgroundPlaying = false
		c.setPhaseLocked(PhasePaused)
	case PhasePaused:
		c.narration.Play()
		c.background.SetVolume(float64(c.volume) / 100 * DuckRatio)
		c.background.Play()
		c.narrationPlaying = true
		c.backgroundPlaying = true
		c.setPhaseLocked(PhasePlaying)
	}
}

// Restart rewinds both tracks to zero and forces Playing. This is the
// only point where the tracks are resynchronized; drift during normal
// playback is accepted.
func (c *Controller) Restart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhasePlaying && c.phase != PhasePaused {
		return
	}
	c.narration.SeekStart()
	c.background.SeekStart()
	c.position = 0
	c.narration.Play()
	c.background.SetVolume(float64(c.volume) / 100 * DuckRatio)
	c.background.Play()
	c.narrationPlaying = true
	c.backgroundPlaying = true
	if c.phase != PhasePlaying {
		c.setPhaseLocked(PhasePlaying)
	}
}

// SetVolume moves the single user-facing slider. Narration scales 1:1;
// the background gets the duck ratio reapplied unless still loading.
func (c *Controller) SetVolume(volume int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.volume = clampVolume(volume)
	c.narration.SetVolume(float64(c.volume) / 100)
	if c.phase == PhaseLoading {
		c.background.SetVolume(float64(c.volume) / 100)
	} else {
		c.background.SetVolume(float64(c.volume) / 100 * DuckRatio)
	}
}

// Close returns to Idle from any phase: both tracks pause and rewind,
// and the narration handle is revoked so repeated open/close cycles
// cannot leak playable resources.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.narration.Pause()
	c.narration.SeekStart()
	c.background.Pause()
	c.background.SeekStart()
	c.narrationPlaying = false
	c.backgroundPlaying = false
	c.position = 0
	c.duration = 0
	c.token = ""
	c.lastErr = nil
	c.releaseResourceLocked()
	c.setPhaseLocked(PhaseIdle)
}

// HandleTick records the narration position reported by the channel.
func (c *Controller) HandleTick(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.narrationPlaying && seconds >= 0 {
		c.position = seconds
	}
}

// HandleDurationKnown records the narration duration once the media
// metadata has loaded.
func (c *Controller) HandleDurationKnown(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seconds > 0 {
		c.duration = seconds
	}
}

// HandleEnded reacts to natural narration completion: the position
// freezes at the duration and the controller lands in Paused. The
// background track is left exactly as it was, still looping at its
// ducked level.
func (c *Controller) HandleEnded() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhasePlaying {
		return
	}
	c.narrationPlaying = false
	if c.duration > 0 {
		c.position = c.duration
	}
	c.setPhaseLocked(PhasePaused)
}

// HandleDecodeError converts a media decoding fault into the Error
// phase. Narration stops; the background keeps playing so the session
// does not go silent; only Close leads out.
func (c *Controller) HandleDecodeError(detail string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseIdle || c.phase == PhaseError {
		return
	}
	c.narration.Pause()
	c.narrationPlaying = false
	c.lastErr = fmt.Errorf("%w: %s", reliability.ErrMediaDecode, detail)
	c.setPhaseLocked(PhaseError)
}

// State returns a snapshot of the controller-private state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Phase:             c.phase,
		PositionSeconds:   c.position,
		DurationSeconds:   c.duration,
		Volume:            c.volume,
		NarrationPlaying:  c.narrationPlaying,
		BackgroundPlaying: c.backgroundPlaying,
	}
	if c.lastErr != nil {
		_, s.ErrorCode = reliability.Classify(c.lastErr)
	}
	return s
}

// Resource exposes the narration resource the controller currently
// holds; nil outside Ready/Playing/Paused lifecycles.
func (c *Controller) Resource() *pipeline.AudioResource {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resource
}

// Token reports the generation token of the in-flight or applied run.
func (c *Controller) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Controller) setPhaseLocked(to Phase) {
	if c.phase == to {
		return
	}
	if c.metrics != nil {
		c.metrics.PlaybackTransitions.WithLabelValues(string(c.phase), string(to)).Inc()
	}
	c.phase = to
}

func (c *Controller) releaseResourceLocked() {
	if c.resource != nil {
		c.resource.Release()
		c.resource = nil
	}
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
