// Package playback coordinates the narration track and the looping
// background-ambient track through one session's lifecycle: loading,
// playing, pausing, restarting, and closing, with the background
// volume ducked while narration speaks.
package playback

// Phase is the controller's position in the session lifecycle.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhasePlaying Phase = "playing"
	PhasePaused  Phase = "paused"
	PhaseError   Phase = "error"
)

// DuckRatio scales the background track while narration owns the
// session. A static level, not a dynamic envelope: the background sits
// at 30% of the configured volume for the whole narration.
const DuckRatio = 0.3

// Channel is one independently timed audio output. Implementations
// receive transport commands from the controller and feed back the
// four media signals (position tick, duration known, ended, decode
// error) through the controller's Handle methods. The background
// channel is expected to loop on its own.
type Channel interface {
	Play()
	Pause()
	// SeekStart rewinds to position zero. Restart is the only point
	// where the two tracks are forced back into lockstep.
	SeekStart()
	// SetVolume takes an effective level in [0,1].
	SetVolume(level float64)
}

// State is a snapshot of controller-private mutable state.
type State struct {
	Phase             Phase   `json:"phase"`
	PositionSeconds   float64 `json:"position_seconds"`
	DurationSeconds   float64 `json:"duration_seconds"`
	Volume            int     `json:"volume"`
	NarrationPlaying  bool    `json:"narration_playing"`
	BackgroundPlaying bool    `json:"background_playing"`
	ErrorCode         string  `json:"error_code,omitempty"`
}
